package service

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/worktime/internal/domain"
	"github.com/alexanderramin/worktime/internal/identity"
	"github.com/alexanderramin/worktime/internal/repository"
	"github.com/alexanderramin/worktime/internal/testutil"
)

func setupRepos(t *testing.T) (repository.Repos, repository.Transactor, *sql.DB) {
	t.Helper()
	database := testutil.NewTestDB(t)
	return repository.NewSQLiteRepos(database), testutil.NewTestTransactor(database), database
}

// manualClock is a settable clock for lifecycle tests.
type manualClock struct {
	mu sync.Mutex
	t  time.Time
}

func newManualClock(t time.Time) *manualClock {
	return &manualClock{t: t}
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *manualClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

// recordingObserver collects use-case events for assertions.
type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (r *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingObserver) Events() []UseCaseEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]UseCaseEvent(nil), r.events...)
}

func adminCtx() context.Context {
	return identity.WithCaller(context.Background(), identity.Caller{UserID: 1, Role: domain.RoleAdmin})
}

func userCtx(id int64) context.Context {
	return identity.WithCaller(context.Background(), identity.Caller{UserID: id, Role: domain.RoleUser})
}

func utc(year int, month time.Month, day, hour, min int) time.Time {
	return time.Date(year, month, day, hour, min, 0, 0, time.UTC)
}
