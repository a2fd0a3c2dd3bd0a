package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/worktime/internal/db"
	"github.com/alexanderramin/worktime/internal/domain"
)

// SQLiteSessionRepo implements SessionRepo using a SQLite database.
type SQLiteSessionRepo struct {
	db db.DBTX
}

// NewSQLiteSessionRepo creates a new SQLiteSessionRepo.
func NewSQLiteSessionRepo(db db.DBTX) *SQLiteSessionRepo {
	return &SQLiteSessionRepo{db: db}
}

const sessionColumns = `id, user_id, project_id, description, start_time, end_time`

func (r *SQLiteSessionRepo) Create(ctx context.Context, s *domain.WorkSession) error {
	query := `INSERT INTO work_sessions (user_id, project_id, description, start_time, end_time)
		VALUES (?, ?, ?, ?, NULL)`
	res, err := r.db.ExecContext(ctx, query,
		s.UserID,
		s.ProjectID,
		s.Description,
		formatTime(s.StartTime),
	)
	if err != nil {
		return fmt.Errorf("inserting work session: %w", err)
	}
	return r.assignID(s, res)
}

func (r *SQLiteSessionRepo) CreateIfNoneOpen(ctx context.Context, s *domain.WorkSession) error {
	// SQLite serializes writers, so the NOT EXISTS probe and the insert
	// observe the same state.
	query := `INSERT INTO work_sessions (user_id, project_id, description, start_time, end_time)
		SELECT ?, ?, ?, ?, NULL
		WHERE NOT EXISTS (SELECT 1 FROM work_sessions WHERE user_id = ? AND end_time IS NULL)`
	res, err := r.db.ExecContext(ctx, query,
		s.UserID,
		s.ProjectID,
		s.Description,
		formatTime(s.StartTime),
		s.UserID,
	)
	if err != nil {
		return fmt.Errorf("inserting work session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("user %d: %w", s.UserID, ErrOpenSessionExists)
	}
	return r.assignID(s, res)
}

func (r *SQLiteSessionRepo) assignID(s *domain.WorkSession, res sql.Result) error {
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading work session id: %w", err)
	}
	s.ID = id
	s.StartTime = s.StartTime.UTC()
	s.EndTime = nil
	return nil
}

func (r *SQLiteSessionRepo) CloseIfOpen(ctx context.Context, id int64, end time.Time) (*domain.WorkSession, error) {
	// One conditional statement: of two concurrent callers only one can
	// match "end_time IS NULL". MAX keeps end_time >= start_time even if
	// the clock stepped backwards.
	query := `UPDATE work_sessions SET end_time = MAX(start_time, ?)
		WHERE id = ? AND end_time IS NULL
		RETURNING ` + sessionColumns
	row := r.db.QueryRowContext(ctx, query, formatTime(end), id)
	s, err := r.scanSession(row)
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("closing work session: %w", err)
	}

	// Nothing matched. Closed is terminal and sessions are never deleted,
	// so an existing row here can only be an already-closed one.
	var exists bool
	if err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM work_sessions WHERE id = ?)`, id).Scan(&exists); err != nil {
		return nil, fmt.Errorf("checking work session: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("work session %d: %w", id, ErrNotFound)
	}
	return nil, fmt.Errorf("work session %d: %w", id, ErrAlreadyClosed)
}

func (r *SQLiteSessionRepo) GetByID(ctx context.Context, id int64) (*domain.WorkSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM work_sessions WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)
	return r.scanSession(row)
}

func (r *SQLiteSessionRepo) ListByUser(ctx context.Context, userID int64) ([]*domain.WorkSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM work_sessions
		WHERE user_id = ? ORDER BY start_time, id`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing sessions by user: %w", err)
	}
	defer rows.Close()
	return r.scanSessions(rows)
}

func (r *SQLiteSessionRepo) ListByProject(ctx context.Context, projectID int64) ([]*domain.WorkSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM work_sessions
		WHERE project_id = ? ORDER BY start_time, id`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing sessions by project: %w", err)
	}
	defer rows.Close()
	return r.scanSessions(rows)
}

func (r *SQLiteSessionRepo) ListAll(ctx context.Context, userID *int64) ([]*domain.WorkSession, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if userID != nil {
		rows, err = r.db.QueryContext(ctx, `SELECT `+sessionColumns+` FROM work_sessions
			WHERE user_id = ? ORDER BY user_id, start_time, id`, *userID)
	} else {
		rows, err = r.db.QueryContext(ctx, `SELECT `+sessionColumns+` FROM work_sessions
			ORDER BY user_id, start_time, id`)
	}
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	defer rows.Close()
	return r.scanSessions(rows)
}

// scanSession scans a single session, mapping sql.ErrNoRows to ErrNotFound.
func (r *SQLiteSessionRepo) scanSession(row *sql.Row) (*domain.WorkSession, error) {
	s, err := r.scanInto(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("work session: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning work session: %w", err)
	}
	return s, nil
}

// scanSessions scans multiple sessions from *sql.Rows.
func (r *SQLiteSessionRepo) scanSessions(rows *sql.Rows) ([]*domain.WorkSession, error) {
	var sessions []*domain.WorkSession
	for rows.Next() {
		s, err := r.scanInto(rows)
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

func (r *SQLiteSessionRepo) scanInto(row rowScanner) (*domain.WorkSession, error) {
	var s domain.WorkSession
	var startStr string
	var endStr sql.NullString

	if err := row.Scan(&s.ID, &s.UserID, &s.ProjectID, &s.Description, &startStr, &endStr); err != nil {
		return nil, err
	}

	var err error
	s.StartTime, err = parseTime(startStr)
	if err != nil {
		return nil, fmt.Errorf("parsing start_time: %w", err)
	}
	s.EndTime, err = parseNullableTime(endStr)
	if err != nil {
		return nil, fmt.Errorf("parsing end_time: %w", err)
	}
	return &s, nil
}
