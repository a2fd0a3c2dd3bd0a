package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/worktime/internal/domain"
)

// SessionRepo is the session store. It owns the persisted record; every
// read returns freshly scanned copies.
type SessionRepo interface {
	// Create inserts an open session and assigns s.ID.
	Create(ctx context.Context, s *domain.WorkSession) error
	// CreateIfNoneOpen inserts like Create unless the user already has an
	// open session, in which case it returns ErrOpenSessionExists.
	// Must be called inside Transactor.WithinTx.
	CreateIfNoneOpen(ctx context.Context, s *domain.WorkSession) error
	// CloseIfOpen sets end_time in a single conditional update. It returns
	// ErrNotFound for an unknown id and ErrAlreadyClosed if end_time was set.
	CloseIfOpen(ctx context.Context, id int64, end time.Time) (*domain.WorkSession, error)
	GetByID(ctx context.Context, id int64) (*domain.WorkSession, error)
	ListByUser(ctx context.Context, userID int64) ([]*domain.WorkSession, error)
	ListByProject(ctx context.Context, projectID int64) ([]*domain.WorkSession, error)
	// ListAll returns every session, or only userID's when it is non-nil.
	ListAll(ctx context.Context, userID *int64) ([]*domain.WorkSession, error)
}

type UserRepo interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Exists(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context) ([]*domain.User, error)
}

// ProjectQuery selects a page of projects. SortBy must be one of the keys
// in projectSortColumns; anything else falls back to name.
type ProjectQuery struct {
	Offset int
	Limit  int
	SortBy string
	Desc   bool
}

type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id int64) (*domain.Project, error)
	Exists(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context, q ProjectQuery) ([]*domain.Project, int, error)
}

// Repos bundles repositories that share one connection or transaction.
type Repos struct {
	Sessions SessionRepo
	Users    UserRepo
	Projects ProjectRepo
}

// Transactor runs fn against tx-scoped repositories; any error returned by
// fn rolls the transaction back.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, r Repos) error) error
}
