package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/worktime/internal/cli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSQLiteConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "worktime.yaml")
	body := "database:\n  driver: sqlite\n  path: " + filepath.Join(dir, "worktime.db") + "\nlog:\n  level: warn\n  format: json\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_SQLiteWiresEverything(t *testing.T) {
	app, err := load(context.Background(), writeSQLiteConfig(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	assert.NotNil(t, app.Sessions)
	assert.NotNil(t, app.Summaries)
	assert.NotNil(t, app.Projects)
	assert.NotNil(t, app.Users)
	assert.NoError(t, app.Health(context.Background()))
	assert.NoError(t, app.Migrate(context.Background()))
	assert.Equal(t, "warn", app.Config.Log.Level)
}

func TestRootCmd_EndToEnd(t *testing.T) {
	cfgPath := writeSQLiteConfig(t)

	exec := func(args ...string) string {
		t.Helper()
		var out bytes.Buffer
		cmd := cli.NewRootCmd(load)
		cmd.SetOut(&out)
		cmd.SetArgs(append([]string{"--config", cfgPath}, args...))
		require.NoError(t, cmd.Execute())
		return out.String()
	}

	assert.Contains(t, exec("user", "create", "--email", "ada@example.com"), "Created user #1")
	assert.Contains(t, exec("project", "create", "--name", "Atlas"), "Created project #1")
	assert.Contains(t, exec("session", "start", "--user", "1", "--project", "1", "-d", "Deep work"), "Started session #1")
	assert.Contains(t, exec("session", "stop", "1"), "Stopped session #1")
	assert.Contains(t, exec("summary", "all"), "ada@example.com")
}

func TestLoad_InvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "worktime.yaml")
	require.NoError(t, os.WriteFile(path, []byte("database:\n  driver: oracle\n"), 0o644))

	_, err := load(context.Background(), path)
	assert.ErrorContains(t, err, "database.driver")
}
