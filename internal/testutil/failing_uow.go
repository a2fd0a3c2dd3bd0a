package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"

	"github.com/alexanderramin/worktime/internal/db"
)

// FailStatementUoW runs transactions like the production unit of work but
// fails the first write whose SQL contains Match, e.g. "INSERT INTO
// work_sessions". Reads pass through, so existence checks still run.
// Statements that were attempted are recorded in Seen.
type FailStatementUoW struct {
	DB    *sql.DB
	Match string
	Err   error

	mu   sync.Mutex
	seen []string
}

func (u *FailStatementUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	tx, err := u.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	if fnErr := fn(ctx, &failingStatement{DBTX: tx, uow: u}); fnErr != nil {
		_ = tx.Rollback()
		return fnErr
	}
	return tx.Commit()
}

// Seen returns the write statements attempted so far, failed ones included.
func (u *FailStatementUoW) Seen() []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]string(nil), u.seen...)
}

// trip records query and reports whether it is the one to fail.
func (u *FailStatementUoW) trip(query string) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.seen = append(u.seen, strings.Join(strings.Fields(query), " "))
	return strings.Contains(query, u.Match)
}

type failingStatement struct {
	db.DBTX
	uow *FailStatementUoW
}

func (f *failingStatement) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if f.uow.trip(query) {
		return nil, f.uow.Err
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}
