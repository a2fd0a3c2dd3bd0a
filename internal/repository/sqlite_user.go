package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/worktime/internal/db"
	"github.com/alexanderramin/worktime/internal/domain"
)

// SQLiteUserRepo implements UserRepo using a SQLite database.
type SQLiteUserRepo struct {
	db db.DBTX
}

// NewSQLiteUserRepo creates a new SQLiteUserRepo.
func NewSQLiteUserRepo(db db.DBTX) *SQLiteUserRepo {
	return &SQLiteUserRepo{db: db}
}

func (r *SQLiteUserRepo) Create(ctx context.Context, u *domain.User) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = nowUTC()
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (email, role, created_at) VALUES (?, ?, ?)`,
		u.Email, string(u.Role), formatTime(u.CreatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("user %q: %w", u.Email, ErrDuplicate)
		}
		return fmt.Errorf("inserting user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading user id: %w", err)
	}
	u.ID = id
	return nil
}

func (r *SQLiteUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, email, role, created_at FROM users WHERE id = ?`, id)
	return r.scanUser(row)
}

func (r *SQLiteUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, email, role, created_at FROM users WHERE email = ?`, email)
	return r.scanUser(row)
}

func (r *SQLiteUserRepo) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE id = ?)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking user: %w", err)
	}
	return exists, nil
}

func (r *SQLiteUserRepo) List(ctx context.Context) ([]*domain.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, email, role, created_at FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		u, err := scanUserRow(rows)
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

func (r *SQLiteUserRepo) scanUser(row *sql.Row) (*domain.User, error) {
	u, err := scanUserRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning user: %w", err)
	}
	return u, nil
}

func scanUserRow(row rowScanner) (*domain.User, error) {
	var u domain.User
	var role, createdAtStr string
	if err := row.Scan(&u.ID, &u.Email, &role, &createdAtStr); err != nil {
		return nil, err
	}
	u.Role = domain.Role(role)
	createdAt, err := parseTime(createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	u.CreatedAt = createdAt
	return &u, nil
}
