package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/worktime/internal/domain"
	"github.com/jackc/pgx/v5"
)

// PostgresSessionRepo implements SessionRepo on Postgres via pgx.
type PostgresSessionRepo struct {
	db pgDBTX
}

func NewPostgresSessionRepo(db pgDBTX) *PostgresSessionRepo {
	return &PostgresSessionRepo{db: db}
}

func (r *PostgresSessionRepo) Create(ctx context.Context, s *domain.WorkSession) error {
	s.StartTime = s.StartTime.UTC()
	err := r.db.QueryRow(ctx,
		`INSERT INTO work_sessions (user_id, project_id, description, start_time)
		VALUES ($1, $2, $3, $4) RETURNING id`,
		s.UserID, s.ProjectID, s.Description, s.StartTime,
	).Scan(&s.ID)
	if err != nil {
		return fmt.Errorf("inserting work session: %w", err)
	}
	s.EndTime = nil
	return nil
}

func (r *PostgresSessionRepo) CreateIfNoneOpen(ctx context.Context, s *domain.WorkSession) error {
	// The advisory lock is held until the surrounding transaction ends, so
	// the NOT EXISTS probe below runs with a snapshot taken after any
	// competing insert for the same user has committed.
	if _, err := r.db.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, s.UserID); err != nil {
		return fmt.Errorf("locking user %d: %w", s.UserID, err)
	}

	s.StartTime = s.StartTime.UTC()
	err := r.db.QueryRow(ctx,
		`INSERT INTO work_sessions (user_id, project_id, description, start_time)
		SELECT $1::bigint, $2::bigint, $3::text, $4::timestamptz
		WHERE NOT EXISTS (SELECT 1 FROM work_sessions WHERE user_id = $1 AND end_time IS NULL)
		RETURNING id`,
		s.UserID, s.ProjectID, s.Description, s.StartTime,
	).Scan(&s.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("user %d: %w", s.UserID, ErrOpenSessionExists)
		}
		return fmt.Errorf("inserting work session: %w", err)
	}
	s.EndTime = nil
	return nil
}

func (r *PostgresSessionRepo) CloseIfOpen(ctx context.Context, id int64, end time.Time) (*domain.WorkSession, error) {
	row := r.db.QueryRow(ctx,
		`UPDATE work_sessions SET end_time = GREATEST(start_time, $1)
		WHERE id = $2 AND end_time IS NULL
		RETURNING `+sessionColumns,
		end.UTC(), id,
	)
	s, err := scanPgSession(row)
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("closing work session: %w", err)
	}

	var exists bool
	if err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM work_sessions WHERE id = $1)`, id).Scan(&exists); err != nil {
		return nil, fmt.Errorf("checking work session: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("work session %d: %w", id, ErrNotFound)
	}
	return nil, fmt.Errorf("work session %d: %w", id, ErrAlreadyClosed)
}

func (r *PostgresSessionRepo) GetByID(ctx context.Context, id int64) (*domain.WorkSession, error) {
	row := r.db.QueryRow(ctx, `SELECT `+sessionColumns+` FROM work_sessions WHERE id = $1`, id)
	s, err := scanPgSession(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("work session: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning work session: %w", err)
	}
	return s, nil
}

func (r *PostgresSessionRepo) ListByUser(ctx context.Context, userID int64) ([]*domain.WorkSession, error) {
	return r.list(ctx, `SELECT `+sessionColumns+` FROM work_sessions
		WHERE user_id = $1 ORDER BY start_time, id`, userID)
}

func (r *PostgresSessionRepo) ListByProject(ctx context.Context, projectID int64) ([]*domain.WorkSession, error) {
	return r.list(ctx, `SELECT `+sessionColumns+` FROM work_sessions
		WHERE project_id = $1 ORDER BY start_time, id`, projectID)
}

func (r *PostgresSessionRepo) ListAll(ctx context.Context, userID *int64) ([]*domain.WorkSession, error) {
	if userID != nil {
		return r.list(ctx, `SELECT `+sessionColumns+` FROM work_sessions
			WHERE user_id = $1 ORDER BY user_id, start_time, id`, *userID)
	}
	return r.list(ctx, `SELECT `+sessionColumns+` FROM work_sessions
		ORDER BY user_id, start_time, id`)
}

func (r *PostgresSessionRepo) list(ctx context.Context, query string, args ...any) ([]*domain.WorkSession, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*domain.WorkSession
	for rows.Next() {
		s, err := scanPgSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning session row: %w", err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sessions: %w", err)
	}
	return sessions, nil
}

func scanPgSession(row rowScanner) (*domain.WorkSession, error) {
	var s domain.WorkSession
	var end *time.Time
	if err := row.Scan(&s.ID, &s.UserID, &s.ProjectID, &s.Description, &s.StartTime, &end); err != nil {
		return nil, err
	}
	s.StartTime = s.StartTime.UTC()
	if end != nil {
		e := end.UTC()
		s.EndTime = &e
	}
	return &s, nil
}
