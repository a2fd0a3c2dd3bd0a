package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/worktime/internal/domain"
	"github.com/alexanderramin/worktime/internal/repository"
)

type userService struct {
	users    repository.UserRepo
	observer UseCaseObserver
}

func NewUserService(users repository.UserRepo, observers ...UseCaseObserver) UserService {
	return &userService{users: users, observer: useCaseObserverOrNoop(observers)}
}

func (s *userService) Create(ctx context.Context, email string, role domain.Role) (u *domain.User, err error) {
	defer observe(ctx, s.observer, "create-user", time.Now(), &err, map[string]any{"role": string(role)})

	email = strings.TrimSpace(email)
	if !strings.Contains(email, "@") {
		return nil, fmt.Errorf("invalid email %q: %w", email, domain.ErrInvalidInput)
	}
	if role == "" {
		role = domain.RoleUser
	}
	if _, ok := domain.ParseRole(string(role)); !ok {
		return nil, fmt.Errorf("invalid role %q: %w", role, domain.ErrInvalidInput)
	}

	u = &domain.User{Email: email, Role: role, CreatedAt: time.Now().UTC()}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("email %s: %w", email, domain.ErrConflict)
		}
		return nil, persistence("creating user", err)
	}
	return u, nil
}

func (s *userService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("user %d: %w", id, domain.ErrUserNotFound)
		}
		return nil, persistence("getting user", err)
	}
	return u, nil
}

func (s *userService) List(ctx context.Context) ([]*domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, persistence("listing users", err)
	}
	return users, nil
}
