package repository

import (
	"database/sql"
	"fmt"
	"time"
)

// timeLayout is a fixed-width UTC layout so that SQLite text comparison
// (ORDER BY, MAX) matches chronological order.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}

// parseNullableTime parses a sql.NullString into a *time.Time.
// Returns nil if the value is NULL or empty.
func parseNullableTime(s sql.NullString) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	t, err := parseTime(s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// nowUTC returns the current time in UTC.
func nowUTC() time.Time {
	return time.Now().UTC()
}

// projectSortColumns whitelists sortable project columns.
var projectSortColumns = map[string]string{
	"id":         "id",
	"name":       "name",
	"created_at": "created_at",
}

func projectOrderBy(q ProjectQuery) string {
	col, ok := projectSortColumns[q.SortBy]
	if !ok {
		col = "name"
	}
	dir := "ASC"
	if q.Desc {
		dir = "DESC"
	}
	return fmt.Sprintf("%s %s, id ASC", col, dir)
}

// rowScanner is satisfied by *sql.Row, *sql.Rows, pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}
