package db

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresConfig holds pool settings for the Postgres backend.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	ConnectTimeout time.Duration
}

// OpenPostgres creates a pgx pool, retrying the initial ping with
// exponential backoff until ConnectTimeout elapses, then runs migrations.
func OpenPostgres(ctx context.Context, cfg PostgresConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parsing database config: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 250 * time.Millisecond
	b.MaxElapsedTime = cfg.ConnectTimeout
	if b.MaxElapsedTime <= 0 {
		b.MaxElapsedTime = 30 * time.Second
	}

	ping := func() error {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return pool.Ping(pingCtx)
	}
	if err := backoff.Retry(ping, backoff.WithContext(b, ctx)); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	if err := MigratePostgres(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return pool, nil
}

// MigratePostgres applies the Postgres schema. Every statement is idempotent.
func MigratePostgres(ctx context.Context, pool *pgxpool.Pool) error {
	for i, stmt := range pgMigrations {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var pgMigrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id         BIGSERIAL PRIMARY KEY,
		email      TEXT NOT NULL UNIQUE,
		role       TEXT NOT NULL DEFAULT 'user'
		           CHECK(role IN ('user','admin')),
		created_at TIMESTAMPTZ NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS projects (
		id         BIGSERIAL PRIMARY KEY,
		name       TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS work_sessions (
		id          BIGSERIAL PRIMARY KEY,
		user_id     BIGINT NOT NULL REFERENCES users(id),
		project_id  BIGINT NOT NULL REFERENCES projects(id),
		description TEXT NOT NULL,
		start_time  TIMESTAMPTZ NOT NULL,
		end_time    TIMESTAMPTZ,
		CHECK(end_time IS NULL OR end_time >= start_time)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_work_sessions_user ON work_sessions(user_id, start_time)`,
	`CREATE INDEX IF NOT EXISTS idx_work_sessions_project ON work_sessions(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_work_sessions_open ON work_sessions(user_id) WHERE end_time IS NULL`,
}
