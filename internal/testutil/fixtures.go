package testutil

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alexanderramin/worktime/internal/domain"
	"github.com/alexanderramin/worktime/internal/repository"
)

var testEmailCounter atomic.Int64

// User options
type UserOption func(*domain.User)

func WithRole(r domain.Role) UserOption {
	return func(u *domain.User) {
		u.Role = r
	}
}

func WithEmail(email string) UserOption {
	return func(u *domain.User) {
		u.Email = email
	}
}

func NewTestUser(opts ...UserOption) *domain.User {
	u := &domain.User{
		Email:     fmt.Sprintf("user%d@example.com", testEmailCounter.Add(1)),
		Role:      domain.RoleUser,
		CreatedAt: time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

func NewTestProject(name string) *domain.Project {
	return &domain.Project{
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
}

// Session options
type SessionOption func(*domain.WorkSession)

func WithDescription(d string) SessionOption {
	return func(s *domain.WorkSession) {
		s.Description = d
	}
}

func WithStartTime(t time.Time) SessionOption {
	return func(s *domain.WorkSession) {
		s.StartTime = t
	}
}

func NewTestSession(userID, projectID int64, opts ...SessionOption) *domain.WorkSession {
	s := &domain.WorkSession{
		UserID:      userID,
		ProjectID:   projectID,
		Description: "Test work",
		StartTime:   time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SeedUser inserts a user and fails the test on error.
func SeedUser(t *testing.T, repos repository.Repos, opts ...UserOption) *domain.User {
	t.Helper()
	u := NewTestUser(opts...)
	if err := repos.Users.Create(context.Background(), u); err != nil {
		t.Fatalf("seeding user: %v", err)
	}
	return u
}

// SeedProject inserts a project and fails the test on error.
func SeedProject(t *testing.T, repos repository.Repos, name string) *domain.Project {
	t.Helper()
	p := NewTestProject(name)
	if err := repos.Projects.Create(context.Background(), p); err != nil {
		t.Fatalf("seeding project: %v", err)
	}
	return p
}

// SeedClosedSession inserts a session from start to end and closes it.
func SeedClosedSession(t *testing.T, repos repository.Repos, userID, projectID int64, start, end time.Time) *domain.WorkSession {
	t.Helper()
	ctx := context.Background()
	s := NewTestSession(userID, projectID, WithStartTime(start))
	if err := repos.Sessions.Create(ctx, s); err != nil {
		t.Fatalf("seeding session: %v", err)
	}
	closed, err := repos.Sessions.CloseIfOpen(ctx, s.ID, end)
	if err != nil {
		t.Fatalf("closing seeded session: %v", err)
	}
	return closed
}

// FixedClock returns a clock func that always reports t.
func FixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// StepClock returns a clock that starts at t and advances by step on each call.
func StepClock(t time.Time, step time.Duration) func() time.Time {
	var calls atomic.Int64
	return func() time.Time {
		n := calls.Add(1) - 1
		return t.Add(time.Duration(n) * step)
	}
}
