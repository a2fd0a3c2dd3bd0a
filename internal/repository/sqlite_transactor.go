package repository

import (
	"context"

	"github.com/alexanderramin/worktime/internal/db"
)

// NewSQLiteRepos builds the SQLite repositories over conn, which may be
// the *sql.DB itself or a transaction.
func NewSQLiteRepos(conn db.DBTX) Repos {
	return Repos{
		Sessions: NewSQLiteSessionRepo(conn),
		Users:    NewSQLiteUserRepo(conn),
		Projects: NewSQLiteProjectRepo(conn),
	}
}

// SQLiteTransactor adapts a db.UnitOfWork to Transactor.
type SQLiteTransactor struct {
	uow db.UnitOfWork
}

func NewSQLiteTransactor(uow db.UnitOfWork) *SQLiteTransactor {
	return &SQLiteTransactor{uow: uow}
}

func (t *SQLiteTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context, r Repos) error) error {
	return t.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return fn(ctx, NewSQLiteRepos(tx))
	})
}
