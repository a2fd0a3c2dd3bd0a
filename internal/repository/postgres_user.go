package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexanderramin/worktime/internal/domain"
	"github.com/jackc/pgx/v5"
)

type PostgresUserRepo struct {
	db pgDBTX
}

func NewPostgresUserRepo(db pgDBTX) *PostgresUserRepo {
	return &PostgresUserRepo{db: db}
}

func (r *PostgresUserRepo) Create(ctx context.Context, u *domain.User) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = nowUTC()
	}
	err := r.db.QueryRow(ctx,
		`INSERT INTO users (email, role, created_at) VALUES ($1, $2, $3) RETURNING id`,
		u.Email, string(u.Role), u.CreatedAt,
	).Scan(&u.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("user %q: %w", u.Email, ErrDuplicate)
		}
		return fmt.Errorf("inserting user: %w", err)
	}
	return nil
}

func (r *PostgresUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.get(ctx, `SELECT id, email, role, created_at FROM users WHERE id = $1`, id)
}

func (r *PostgresUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.get(ctx, `SELECT id, email, role, created_at FROM users WHERE email = $1`, email)
}

func (r *PostgresUserRepo) get(ctx context.Context, query string, arg any) (*domain.User, error) {
	u, err := scanPgUser(r.db.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning user: %w", err)
	}
	return u, nil
}

func (r *PostgresUserRepo) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("checking user: %w", err)
	}
	return exists, nil
}

func (r *PostgresUserRepo) List(ctx context.Context) ([]*domain.User, error) {
	rows, err := r.db.Query(ctx, `SELECT id, email, role, created_at FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		u, err := scanPgUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning user row: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating users: %w", err)
	}
	return users, nil
}

func scanPgUser(row rowScanner) (*domain.User, error) {
	var u domain.User
	var role string
	if err := row.Scan(&u.ID, &u.Email, &role, &u.CreatedAt); err != nil {
		return nil, err
	}
	u.Role = domain.Role(role)
	u.CreatedAt = u.CreatedAt.UTC()
	return &u, nil
}
