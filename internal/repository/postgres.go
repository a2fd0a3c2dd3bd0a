package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pgDBTX is satisfied by *pgxpool.Pool and pgx.Tx.
type pgDBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var (
	_ pgDBTX = (*pgxpool.Pool)(nil)
	_ pgDBTX = (pgx.Tx)(nil)
)

const pgUniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// NewPostgresRepos builds the Postgres repositories over conn.
func NewPostgresRepos(conn pgDBTX) Repos {
	return Repos{
		Sessions: NewPostgresSessionRepo(conn),
		Users:    NewPostgresUserRepo(conn),
		Projects: NewPostgresProjectRepo(conn),
	}
}

// PostgresTransactor runs functions inside pgx transactions on a pool.
type PostgresTransactor struct {
	pool *pgxpool.Pool
}

func NewPostgresTransactor(pool *pgxpool.Pool) *PostgresTransactor {
	return &PostgresTransactor{pool: pool}
}

func (t *PostgresTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context, r Repos) error) error {
	return pgx.BeginFunc(ctx, t.pool, func(tx pgx.Tx) error {
		return fn(ctx, NewPostgresRepos(tx))
	})
}
