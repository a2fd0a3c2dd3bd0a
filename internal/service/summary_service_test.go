package service

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/worktime/internal/domain"
	"github.com/alexanderramin/worktime/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizeForUser_SumsDay(t *testing.T) {
	repos, _, _ := setupRepos(t)
	user := testutil.SeedUser(t, repos)
	proj := testutil.SeedProject(t, repos, "Atlas")

	testutil.SeedClosedSession(t, repos, user.ID, proj.ID, utc(2025, 4, 25, 9, 0), utc(2025, 4, 25, 11, 0))
	testutil.SeedClosedSession(t, repos, user.ID, proj.ID, utc(2025, 4, 25, 13, 0), utc(2025, 4, 25, 14, 30))

	svc := NewSummaryService(repos)
	days, err := svc.SummarizeForUser(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, []domain.DaySummary{{Day: "2025-04-25", TotalHours: 3.5}}, days)
}

func TestSummarizeForUser_ExcludesOpenAndOthers(t *testing.T) {
	repos, tx, _ := setupRepos(t)
	ctx := context.Background()
	user := testutil.SeedUser(t, repos)
	other := testutil.SeedUser(t, repos)
	proj := testutil.SeedProject(t, repos, "Atlas")

	testutil.SeedClosedSession(t, repos, user.ID, proj.ID, utc(2025, 4, 25, 9, 0), utc(2025, 4, 25, 10, 0))
	testutil.SeedClosedSession(t, repos, other.ID, proj.ID, utc(2025, 4, 25, 9, 0), utc(2025, 4, 25, 17, 0))
	sessions := NewSessionService(repos, tx, WithClock(testutil.FixedClock(utc(2025, 4, 26, 9, 0))))
	_, err := sessions.Start(ctx, user.ID, proj.ID, "still running")
	require.NoError(t, err)

	days, err := NewSummaryService(repos).SummarizeForUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []domain.DaySummary{{Day: "2025-04-25", TotalHours: 1}}, days)
}

func TestSummarizeForUser_NoSessions(t *testing.T) {
	repos, _, _ := setupRepos(t)
	user := testutil.SeedUser(t, repos)

	days, err := NewSummaryService(repos).SummarizeForUser(context.Background(), user.ID)
	require.NoError(t, err)
	assert.NotNil(t, days)
	assert.Empty(t, days)
}

func TestSummarizeForUser_UnknownUser(t *testing.T) {
	repos, _, _ := setupRepos(t)

	_, err := NewSummaryService(repos).SummarizeForUser(context.Background(), 404)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestSummarizeForUser_Idempotent(t *testing.T) {
	repos, _, _ := setupRepos(t)
	user := testutil.SeedUser(t, repos)
	proj := testutil.SeedProject(t, repos, "Atlas")
	testutil.SeedClosedSession(t, repos, user.ID, proj.ID, utc(2025, 4, 24, 22, 0), utc(2025, 4, 25, 1, 0))
	testutil.SeedClosedSession(t, repos, user.ID, proj.ID, utc(2025, 4, 25, 8, 0), utc(2025, 4, 25, 8, 20))

	svc := NewSummaryService(repos)
	first, err := svc.SummarizeForUser(context.Background(), user.ID)
	require.NoError(t, err)
	second, err := svc.SummarizeForUser(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, []domain.DaySummary{
		{Day: "2025-04-24", TotalHours: 3},
		{Day: "2025-04-25", TotalHours: 0.33},
	}, first)
}

// A stop that commits after a report was taken shows up only in the next
// report; reads are not isolated against concurrent lifecycle changes.
func TestSummarizeForUser_SeesStopOnNextPull(t *testing.T) {
	repos, tx, _ := setupRepos(t)
	ctx := context.Background()
	user := testutil.SeedUser(t, repos)
	proj := testutil.SeedProject(t, repos, "Atlas")

	clock := newManualClock(utc(2025, 4, 25, 9, 0))
	sessions := NewSessionService(repos, tx, WithClock(clock.Now))
	summary := NewSummaryService(repos)

	s, err := sessions.Start(ctx, user.ID, proj.ID, "work")
	require.NoError(t, err)

	before, err := summary.SummarizeForUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, before)

	clock.Set(utc(2025, 4, 25, 10, 0))
	_, err = sessions.Stop(ctx, s.ID)
	require.NoError(t, err)

	after, err := summary.SummarizeForUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []domain.DaySummary{{Day: "2025-04-25", TotalHours: 1}}, after)
}

func TestSummarizeForAllUsers_RequiresAdmin(t *testing.T) {
	repos, _, _ := setupRepos(t)
	user := testutil.SeedUser(t, repos)
	svc := NewSummaryService(repos)

	_, err := svc.SummarizeForAllUsers(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrForbidden, "missing caller must fail closed")

	_, err = svc.SummarizeForAllUsers(userCtx(user.ID), nil)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestSummarizeForAllUsers_AllUsersOrdered(t *testing.T) {
	repos, _, _ := setupRepos(t)
	alice := testutil.SeedUser(t, repos, testutil.WithEmail("alice@example.com"))
	bob := testutil.SeedUser(t, repos, testutil.WithEmail("bob@example.com"))
	proj := testutil.SeedProject(t, repos, "Atlas")

	testutil.SeedClosedSession(t, repos, bob.ID, proj.ID, utc(2025, 4, 26, 9, 0), utc(2025, 4, 26, 9, 45))
	testutil.SeedClosedSession(t, repos, alice.ID, proj.ID, utc(2025, 4, 25, 9, 0), utc(2025, 4, 25, 11, 0))
	testutil.SeedClosedSession(t, repos, bob.ID, proj.ID, utc(2025, 4, 25, 9, 0), utc(2025, 4, 25, 9, 30))

	got, err := NewSummaryService(repos).SummarizeForAllUsers(adminCtx(), nil)
	require.NoError(t, err)
	assert.Equal(t, []domain.UserSummary{
		{UserID: alice.ID, Email: "alice@example.com", WorkSummary: []domain.DaySummary{
			{Day: "2025-04-25", TotalHours: 2},
		}},
		{UserID: bob.ID, Email: "bob@example.com", WorkSummary: []domain.DaySummary{
			{Day: "2025-04-25", TotalHours: 0.5},
			{Day: "2025-04-26", TotalHours: 0.75},
		}},
	}, got)
}

func TestSummarizeForAllUsers_UserWithoutSessions(t *testing.T) {
	repos, _, _ := setupRepos(t)
	idle := testutil.SeedUser(t, repos)

	got, err := NewSummaryService(repos).SummarizeForAllUsers(adminCtx(), nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, idle.ID, got[0].UserID)
	assert.NotNil(t, got[0].WorkSummary)
	assert.Empty(t, got[0].WorkSummary)
}

func TestSummarizeForAllUsers_Filter(t *testing.T) {
	repos, _, _ := setupRepos(t)
	alice := testutil.SeedUser(t, repos)
	bob := testutil.SeedUser(t, repos)
	proj := testutil.SeedProject(t, repos, "Atlas")
	testutil.SeedClosedSession(t, repos, alice.ID, proj.ID, utc(2025, 4, 25, 9, 0), utc(2025, 4, 25, 10, 0))
	testutil.SeedClosedSession(t, repos, bob.ID, proj.ID, utc(2025, 4, 25, 9, 0), utc(2025, 4, 25, 12, 0))
	svc := NewSummaryService(repos)

	got, err := svc.SummarizeForAllUsers(adminCtx(), &bob.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, bob.ID, got[0].UserID)
	assert.Equal(t, []domain.DaySummary{{Day: "2025-04-25", TotalHours: 3}}, got[0].WorkSummary)

	missing := int64(9999)
	got, err = svc.SummarizeForAllUsers(adminCtx(), &missing)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSummarizeForAllUsers_MatchesPerUserSummary(t *testing.T) {
	repos, _, _ := setupRepos(t)
	proj := testutil.SeedProject(t, repos, "Atlas")
	var users []*domain.User
	for i := 0; i < 3; i++ {
		u := testutil.SeedUser(t, repos)
		users = append(users, u)
		for d := 0; d <= i; d++ {
			start := utc(2025, 4, 20+d, 8, 0)
			testutil.SeedClosedSession(t, repos, u.ID, proj.ID, start, start.Add(time.Duration(d+1)*25*time.Minute))
		}
	}

	svc := NewSummaryService(repos)
	all, err := svc.SummarizeForAllUsers(adminCtx(), nil)
	require.NoError(t, err)
	require.Len(t, all, len(users))
	for i, u := range users {
		single, err := svc.SummarizeForUser(context.Background(), u.ID)
		require.NoError(t, err)
		assert.Equal(t, single, all[i].WorkSummary)
	}
}
