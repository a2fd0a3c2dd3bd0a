package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexanderramin/worktime/internal/domain"
	"github.com/jackc/pgx/v5"
)

type PostgresProjectRepo struct {
	db pgDBTX
}

func NewPostgresProjectRepo(db pgDBTX) *PostgresProjectRepo {
	return &PostgresProjectRepo{db: db}
}

func (r *PostgresProjectRepo) Create(ctx context.Context, p *domain.Project) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = nowUTC()
	}
	err := r.db.QueryRow(ctx,
		`INSERT INTO projects (name, created_at) VALUES ($1, $2) RETURNING id`,
		p.Name, p.CreatedAt,
	).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("inserting project: %w", err)
	}
	return nil
}

func (r *PostgresProjectRepo) GetByID(ctx context.Context, id int64) (*domain.Project, error) {
	p, err := scanPgProject(r.db.QueryRow(ctx, `SELECT id, name, created_at FROM projects WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("project: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning project: %w", err)
	}
	return p, nil
}

func (r *PostgresProjectRepo) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM projects WHERE id = $1)`, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("checking project: %w", err)
	}
	return exists, nil
}

func (r *PostgresProjectRepo) List(ctx context.Context, q ProjectQuery) ([]*domain.Project, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM projects`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting projects: %w", err)
	}

	// LIMIT NULL means no limit in Postgres.
	var limit *int
	if q.Limit > 0 {
		limit = &q.Limit
	}
	rows, err := r.db.Query(ctx,
		`SELECT id, name, created_at FROM projects ORDER BY `+projectOrderBy(q)+` LIMIT $1 OFFSET $2`,
		limit, q.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("listing projects: %w", err)
	}
	defer rows.Close()

	var projects []*domain.Project
	for rows.Next() {
		p, err := scanPgProject(rows)
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

func scanPgProject(row rowScanner) (*domain.Project, error) {
	var p domain.Project
	if err := row.Scan(&p.ID, &p.Name, &p.CreatedAt); err != nil {
		return nil, err
	}
	p.CreatedAt = p.CreatedAt.UTC()
	return &p, nil
}
