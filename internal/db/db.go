package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// busyTimeoutMS bounds how long a writer waits for SQLite's write lock
// before returning SQLITE_BUSY.
const busyTimeoutMS = 5000

// OpenDB opens a SQLite database at the given path.
// If path is ":memory:", uses an in-memory database pinned to a single
// connection (every pooled connection would otherwise see its own empty DB).
// Sets WAL mode, busy timeout and foreign keys on every connection.
// Transactions begin IMMEDIATE: a deferred transaction that reads before
// it writes gets SQLITE_BUSY on the lock upgrade without waiting out
// busy_timeout.
// Runs migrations automatically.
func OpenDB(path string) (*sql.DB, error) {
	dsn := ":memory:"
	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
		dsn = fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)&_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_txlock=immediate",
			path, busyTimeoutMS)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if path == ":memory:" {
		db.SetMaxOpenConns(1)
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enabling foreign keys: %w", err)
		}
	}

	if err := Migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return db, nil
}
