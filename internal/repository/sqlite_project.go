package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/worktime/internal/db"
	"github.com/alexanderramin/worktime/internal/domain"
)

// SQLiteProjectRepo implements ProjectRepo using a SQLite database.
type SQLiteProjectRepo struct {
	db db.DBTX
}

// NewSQLiteProjectRepo creates a new SQLiteProjectRepo.
func NewSQLiteProjectRepo(db db.DBTX) *SQLiteProjectRepo {
	return &SQLiteProjectRepo{db: db}
}

func (r *SQLiteProjectRepo) Create(ctx context.Context, p *domain.Project) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = nowUTC()
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO projects (name, created_at) VALUES (?, ?)`,
		p.Name, formatTime(p.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting project: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading project id: %w", err)
	}
	p.ID = id
	return nil
}

func (r *SQLiteProjectRepo) GetByID(ctx context.Context, id int64) (*domain.Project, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name, created_at FROM projects WHERE id = ?`, id)
	p, err := scanProjectRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("project: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning project: %w", err)
	}
	return p, nil
}

func (r *SQLiteProjectRepo) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM projects WHERE id = ?)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking project: %w", err)
	}
	return exists, nil
}

func (r *SQLiteProjectRepo) List(ctx context.Context, q ProjectQuery) ([]*domain.Project, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM projects`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting projects: %w", err)
	}

	limit := q.Limit
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}
	query := `SELECT id, name, created_at FROM projects ORDER BY ` + projectOrderBy(q) + ` LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, query, limit, q.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("listing projects: %w", err)
	}
	defer rows.Close()

	var projects []*domain.Project
	for rows.Next() {
		p, err := scanProjectRow(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scanning project row: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating projects: %w", err)
	}
	return projects, total, nil
}

func scanProjectRow(row rowScanner) (*domain.Project, error) {
	var p domain.Project
	var createdAtStr string
	if err := row.Scan(&p.ID, &p.Name, &createdAtStr); err != nil {
		return nil, err
	}
	createdAt, err := parseTime(createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	p.CreatedAt = createdAt
	return &p, nil
}
