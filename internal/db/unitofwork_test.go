package db_test

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/alexanderramin/worktime/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestUoW(t *testing.T) (*db.SQLUnitOfWork, *sql.DB) {
	t.Helper()
	database, err := db.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return db.NewSQLUnitOfWork(database, nil), database
}

func countProjects(t *testing.T, database *sql.DB, name string) int {
	t.Helper()
	var n int
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM projects WHERE name = ?`, name).Scan(&n))
	return n
}

func insertProject(ctx context.Context, tx db.DBTX, name string) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO projects (name, created_at) VALUES (?, '2025-01-01T00:00:00.000000000Z')`, name)
	return err
}

func TestWithinTx_CommitOnSuccess(t *testing.T) {
	uow, database := openTestUoW(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		return insertProject(ctx, tx, "committed")
	})
	require.NoError(t, err)

	assert.Equal(t, 1, countProjects(t, database, "committed"), "row should exist after commit")
}

func TestWithinTx_RollbackOnError(t *testing.T) {
	uow, database := openTestUoW(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if err := insertProject(ctx, tx, "rolled-back"); err != nil {
			return err
		}
		return fmt.Errorf("deliberate failure")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "deliberate failure")

	assert.Zero(t, countProjects(t, database, "rolled-back"), "row should not exist after rollback")
}

func TestWithinTx_RollbackOnPanic(t *testing.T) {
	uow, database := openTestUoW(t)

	assert.Panics(t, func() {
		_ = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
			_ = insertProject(ctx, tx, "panicked")
			panic("boom")
		})
	})

	assert.Zero(t, countProjects(t, database, "panicked"), "row should not exist after panic rollback")
}

func TestWithinTx_ConcurrentReadThenWriteOnFileDB(t *testing.T) {
	database, err := db.OpenDB(filepath.Join(t.TempDir(), "uow.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	uow := db.NewSQLUnitOfWork(database, nil)

	const writers = 20
	errs := make([]error, writers)
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
				// Read first so a deferred transaction would need a lock upgrade.
				var n int
				if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM projects`).Scan(&n); err != nil {
					return err
				}
				return insertProject(ctx, tx, fmt.Sprintf("p%d", i))
			})
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		assert.NoError(t, err, "writer %d", i)
	}
	var total int
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM projects`).Scan(&total))
	assert.Equal(t, writers, total)
}
