package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alexanderramin/worktime/internal/config"
	"github.com/alexanderramin/worktime/internal/domain"
	"github.com/alexanderramin/worktime/internal/repository"
	"github.com/alexanderramin/worktime/internal/service"
	"github.com/alexanderramin/worktime/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testApp wires services over one in-memory database shared by all
// commands of a test.
func testApp(t *testing.T) (*App, repository.Repos) {
	t.Helper()
	database := testutil.NewTestDB(t)
	repos := repository.NewSQLiteRepos(database)
	tx := testutil.NewTestTransactor(database)
	cfg := &config.Config{Database: config.DatabaseConfig{Driver: config.DriverSQLite}}
	return &App{
		Sessions:  service.NewSessionService(repos, tx),
		Summaries: service.NewSummaryService(repos),
		Projects:  service.NewProjectService(repos.Projects),
		Users:     service.NewUserService(repos.Users),
		Config:    cfg,
		Migrate:   func(context.Context) error { return nil },
	}, repos
}

func execCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd(func(context.Context, string) (*App, error) { return app, nil })
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSessionCommands(t *testing.T) {
	app, repos := testApp(t)
	user := testutil.SeedUser(t, repos)
	proj := testutil.SeedProject(t, repos, "Atlas")

	out, err := execCmd(t, app, "session", "start",
		"--user", "1", "--project", "1", "--description", "Deep work")
	require.NoError(t, err)
	assert.Contains(t, out, "Started session #1")

	out, err = execCmd(t, app, "session", "show", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Deep work")
	assert.Contains(t, out, "Open")

	out, err = execCmd(t, app, "session", "stop", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Stopped session #1")

	_, err = execCmd(t, app, "session", "stop", "1")
	assert.ErrorIs(t, err, domain.ErrAlreadyClosed)

	out, err = execCmd(t, app, "session", "list", "--user", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Closed")

	out, err = execCmd(t, app, "session", "list", "--project", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Deep work")

	_, err = execCmd(t, app, "session", "list")
	assert.Error(t, err)

	_, err = execCmd(t, app, "session", "show", "abc")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	assert.Equal(t, int64(1), user.ID)
	assert.Equal(t, int64(1), proj.ID)
}

func TestSessionStart_RequiresFlags(t *testing.T) {
	app, _ := testApp(t)

	_, err := execCmd(t, app, "session", "start", "--user", "1")
	assert.Error(t, err)
}

func TestDirectoryCommands(t *testing.T) {
	app, _ := testApp(t)

	out, err := execCmd(t, app, "user", "create", "--email", "root@example.com", "--role", "admin")
	require.NoError(t, err)
	assert.Contains(t, out, "Created user #1 root@example.com (admin)")

	_, err = execCmd(t, app, "user", "create", "--email", "root@example.com")
	assert.ErrorIs(t, err, domain.ErrConflict)

	out, err = execCmd(t, app, "user", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "root@example.com")

	for _, name := range []string{"Borealis", "Atlas"} {
		_, err = execCmd(t, app, "project", "create", "--name", name)
		require.NoError(t, err)
	}

	out, err = execCmd(t, app, "project", "list", "--limit", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Atlas")
	assert.NotContains(t, out, "Borealis")
	assert.Contains(t, out, "page 1 of 2")

	_, err = execCmd(t, app, "project", "list", "--sort-by", "budget")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSummaryCommands(t *testing.T) {
	app, repos := testApp(t)
	user := testutil.SeedUser(t, repos, testutil.WithEmail("ada@example.com"))
	proj := testutil.SeedProject(t, repos, "Atlas")
	start := testutil.NewTestSession(user.ID, proj.ID).StartTime
	testutil.SeedClosedSession(t, repos, user.ID, proj.ID, start, start.Add(90*time.Minute))

	out, err := execCmd(t, app, "summary", "user", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "1.50h")

	out, err = execCmd(t, app, "summary", "all")
	require.NoError(t, err)
	assert.Contains(t, out, "ada@example.com")
	assert.Contains(t, out, "1.50h")

	out, err = execCmd(t, app, "summary", "all", "--user", "42")
	require.NoError(t, err)
	assert.Contains(t, out, "No users found.")

	_, err = execCmd(t, app, "summary", "user", "42")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestMigrateCommand(t *testing.T) {
	app, _ := testApp(t)
	out, err := execCmd(t, app, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "Schema is up to date (sqlite)")
}

func TestRootCmd_LoaderErrorStopsCommand(t *testing.T) {
	boom := errors.New("no database")
	cmd := NewRootCmd(func(context.Context, string) (*App, error) { return nil, boom })
	cmd.SetArgs([]string{"user", "list"})
	cmd.SetOut(&bytes.Buffer{})
	assert.ErrorIs(t, cmd.Execute(), boom)
}

func TestRootCmd_ClosesApp(t *testing.T) {
	app, _ := testApp(t)
	closed := false
	app.Close = func() error { closed = true; return nil }

	_, err := execCmd(t, app, "user", "list")
	require.NoError(t, err)
	assert.True(t, closed)
}
