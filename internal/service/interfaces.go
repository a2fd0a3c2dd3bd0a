package service

import (
	"context"

	"github.com/alexanderramin/worktime/internal/domain"
)

// SessionService manages the open/closed lifecycle of work sessions.
type SessionService interface {
	Start(ctx context.Context, userID, projectID int64, description string) (*domain.WorkSession, error)
	Stop(ctx context.Context, sessionID int64) (*domain.WorkSession, error)
	GetByID(ctx context.Context, sessionID int64) (*domain.WorkSession, error)
	ListByUser(ctx context.Context, userID int64) ([]*domain.WorkSession, error)
	ListByProject(ctx context.Context, projectID int64) ([]*domain.WorkSession, error)
}

// SummaryService reports closed work time per UTC day.
type SummaryService interface {
	SummarizeForUser(ctx context.Context, userID int64) ([]domain.DaySummary, error)
	// SummarizeForAllUsers requires an admin caller in ctx. A non-nil
	// userID restricts the report to that user.
	SummarizeForAllUsers(ctx context.Context, userID *int64) ([]domain.UserSummary, error)
}

// ProjectQuery is a page request for the project directory. Zero values
// select the defaults.
type ProjectQuery struct {
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
}

type ProjectPage struct {
	Data  []*domain.Project
	Total int
	Page  int
	Limit int
}

type ProjectService interface {
	Create(ctx context.Context, name string) (*domain.Project, error)
	GetByID(ctx context.Context, id int64) (*domain.Project, error)
	List(ctx context.Context, q ProjectQuery) (*ProjectPage, error)
}

type UserService interface {
	Create(ctx context.Context, email string, role domain.Role) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
}
