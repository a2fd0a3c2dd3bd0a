package repository

import "errors"

var (
	// ErrNotFound is returned when a row with the requested key does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyClosed is returned by CloseIfOpen when the session exists
	// but already has an end time.
	ErrAlreadyClosed = errors.New("already closed")
	// ErrOpenSessionExists is returned by CreateIfNoneOpen when the user
	// already has an open session.
	ErrOpenSessionExists = errors.New("open session exists")
	// ErrDuplicate is returned when a unique constraint rejects an insert.
	ErrDuplicate = errors.New("duplicate")
)
