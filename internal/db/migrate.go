package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

// Timestamps are stored as fixed-width UTC text (see repository.timeLayout),
// so string comparison in SQL matches chronological order.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		email      TEXT NOT NULL UNIQUE,
		role       TEXT NOT NULL DEFAULT 'user'
		           CHECK(role IN ('user','admin')),
		created_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS projects (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		name       TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS work_sessions (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id     INTEGER NOT NULL REFERENCES users(id),
		project_id  INTEGER NOT NULL REFERENCES projects(id),
		description TEXT NOT NULL,
		start_time  TEXT NOT NULL,
		end_time    TEXT,
		CHECK(end_time IS NULL OR end_time >= start_time)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_work_sessions_user ON work_sessions(user_id, start_time)`,
	`CREATE INDEX IF NOT EXISTS idx_work_sessions_project ON work_sessions(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_work_sessions_open ON work_sessions(user_id) WHERE end_time IS NULL`,
}
