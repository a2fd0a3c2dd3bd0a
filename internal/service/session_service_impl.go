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

type sessionService struct {
	repos      repository.Repos
	tx         repository.Transactor
	now        func() time.Time
	singleOpen bool
	observer   UseCaseObserver
}

// SessionOption configures a SessionService.
type SessionOption func(*sessionService)

// WithClock overrides the time source used for start and end stamps.
func WithClock(now func() time.Time) SessionOption {
	return func(s *sessionService) {
		if now != nil {
			s.now = now
		}
	}
}

// WithSingleOpenSession rejects Start while the user already has an open
// session. Off by default.
func WithSingleOpenSession(enabled bool) SessionOption {
	return func(s *sessionService) {
		s.singleOpen = enabled
	}
}

// WithSessionObserver sets the use-case observer.
func WithSessionObserver(obs UseCaseObserver) SessionOption {
	return func(s *sessionService) {
		s.observer = useCaseObserverOrNoop([]UseCaseObserver{obs})
	}
}

func NewSessionService(repos repository.Repos, tx repository.Transactor, opts ...SessionOption) SessionService {
	s := &sessionService{
		repos:    repos,
		tx:       tx,
		now:      time.Now,
		observer: NoopUseCaseObserver{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *sessionService) Start(ctx context.Context, userID, projectID int64, description string) (session *domain.WorkSession, err error) {
	startedAt := time.Now()
	defer observe(ctx, s.observer, "start-session", startedAt, &err, map[string]any{
		"user_id":    userID,
		"project_id": projectID,
	})

	description = strings.TrimSpace(description)
	if description == "" {
		return nil, fmt.Errorf("description is required: %w", domain.ErrInvalidInput)
	}
	if userID <= 0 || projectID <= 0 {
		return nil, fmt.Errorf("user and project ids must be positive: %w", domain.ErrInvalidInput)
	}

	session = &domain.WorkSession{
		UserID:      userID,
		ProjectID:   projectID,
		Description: description,
		StartTime:   s.now().UTC(),
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context, r repository.Repos) error {
		userOK, err := r.Users.Exists(ctx, userID)
		if err != nil {
			return persistence("checking user", err)
		}
		projectOK, err := r.Projects.Exists(ctx, projectID)
		if err != nil {
			return persistence("checking project", err)
		}
		if !userOK {
			return fmt.Errorf("user %d: %w", userID, domain.ErrReferenceNotFound)
		}
		if !projectOK {
			return fmt.Errorf("project %d: %w", projectID, domain.ErrReferenceNotFound)
		}

		if !s.singleOpen {
			if err := r.Sessions.Create(ctx, session); err != nil {
				return persistence("creating work session", err)
			}
			return nil
		}
		if err := r.Sessions.CreateIfNoneOpen(ctx, session); err != nil {
			if errors.Is(err, repository.ErrOpenSessionExists) {
				return fmt.Errorf("user %d: %w", userID, domain.ErrOpenSessionExists)
			}
			return persistence("creating work session", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

func (s *sessionService) Stop(ctx context.Context, sessionID int64) (session *domain.WorkSession, err error) {
	startedAt := time.Now()
	defer observe(ctx, s.observer, "stop-session", startedAt, &err, map[string]any{
		"session_id": sessionID,
	})

	session, err = s.repos.Sessions.CloseIfOpen(ctx, sessionID, s.now().UTC())
	switch {
	case err == nil:
		return session, nil
	case errors.Is(err, repository.ErrNotFound):
		return nil, fmt.Errorf("work session %d: %w", sessionID, domain.ErrSessionNotFound)
	case errors.Is(err, repository.ErrAlreadyClosed):
		return nil, fmt.Errorf("work session %d: %w", sessionID, domain.ErrAlreadyClosed)
	default:
		return nil, persistence("stopping work session", err)
	}
}

func (s *sessionService) GetByID(ctx context.Context, sessionID int64) (*domain.WorkSession, error) {
	session, err := s.repos.Sessions.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("work session %d: %w", sessionID, domain.ErrSessionNotFound)
		}
		return nil, persistence("getting work session", err)
	}
	return session, nil
}

func (s *sessionService) ListByUser(ctx context.Context, userID int64) ([]*domain.WorkSession, error) {
	sessions, err := s.repos.Sessions.ListByUser(ctx, userID)
	if err != nil {
		return nil, persistence("listing work sessions", err)
	}
	return sessions, nil
}

func (s *sessionService) ListByProject(ctx context.Context, projectID int64) ([]*domain.WorkSession, error) {
	ok, err := s.repos.Projects.Exists(ctx, projectID)
	if err != nil {
		return nil, persistence("checking project", err)
	}
	if !ok {
		return nil, fmt.Errorf("project %d: %w", projectID, domain.ErrNotFound)
	}
	sessions, err := s.repos.Sessions.ListByProject(ctx, projectID)
	if err != nil {
		return nil, persistence("listing work sessions", err)
	}
	return sessions, nil
}
