package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/worktime/internal/aggregate"
	"github.com/alexanderramin/worktime/internal/domain"
	"github.com/alexanderramin/worktime/internal/identity"
	"github.com/alexanderramin/worktime/internal/repository"
)

// summaryService reads without a transaction. A report may miss a stop
// that commits while it runs; the next pull picks it up.
type summaryService struct {
	repos    repository.Repos
	observer UseCaseObserver
}

func NewSummaryService(repos repository.Repos, observers ...UseCaseObserver) SummaryService {
	return &summaryService{repos: repos, observer: useCaseObserverOrNoop(observers)}
}

func (s *summaryService) SummarizeForUser(ctx context.Context, userID int64) (days []domain.DaySummary, err error) {
	startedAt := time.Now()
	fields := map[string]any{"user_id": userID}
	defer observe(ctx, s.observer, "summarize-user", startedAt, &err, fields)

	ok, err := s.repos.Users.Exists(ctx, userID)
	if err != nil {
		return nil, persistence("checking user", err)
	}
	if !ok {
		return nil, fmt.Errorf("user %d: %w", userID, domain.ErrUserNotFound)
	}

	sessions, err := s.repos.Sessions.ListByUser(ctx, userID)
	if err != nil {
		return nil, persistence("listing work sessions", err)
	}
	days = aggregate.ByDay(sessions)
	fields["days"] = len(days)
	return days, nil
}

func (s *summaryService) SummarizeForAllUsers(ctx context.Context, userID *int64) (out []domain.UserSummary, err error) {
	startedAt := time.Now()
	fields := map[string]any{}
	if userID != nil {
		fields["filter_user_id"] = *userID
	}
	defer observe(ctx, s.observer, "summarize-all-users", startedAt, &err, fields)

	if err := identity.RequireAdmin(ctx); err != nil {
		return nil, fmt.Errorf("all-users summary: %w", err)
	}

	var users []*domain.User
	if userID != nil {
		u, err := s.repos.Users.GetByID(ctx, *userID)
		if errors.Is(err, repository.ErrNotFound) {
			return []domain.UserSummary{}, nil
		}
		if err != nil {
			return nil, persistence("getting user", err)
		}
		users = []*domain.User{u}
	} else {
		users, err = s.repos.Users.List(ctx)
		if err != nil {
			return nil, persistence("listing users", err)
		}
	}

	sessions, err := s.repos.Sessions.ListAll(ctx, userID)
	if err != nil {
		return nil, persistence("listing work sessions", err)
	}
	byUser := aggregate.GroupByUser(sessions)

	out = make([]domain.UserSummary, 0, len(users))
	for _, u := range users {
		out = append(out, domain.UserSummary{
			UserID:      u.ID,
			Email:       u.Email,
			WorkSummary: aggregate.ByDay(byUser[u.ID]),
		})
	}
	fields["users"] = len(out)
	return out, nil
}
