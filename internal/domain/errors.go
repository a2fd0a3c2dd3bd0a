package domain

import "errors"

// Error kinds surfaced by the service layer. Transports map each kind to a
// distinct status; callers match with errors.Is.
var (
	ErrReferenceNotFound = errors.New("user or project not found")
	ErrSessionNotFound   = errors.New("work session not found")
	ErrAlreadyClosed     = errors.New("work session already stopped")
	ErrUserNotFound      = errors.New("user not found")
	ErrNotFound          = errors.New("not found")
	ErrPersistence       = errors.New("persistence failure")

	ErrInvalidInput      = errors.New("invalid input")
	ErrForbidden         = errors.New("forbidden")
	ErrOpenSessionExists = errors.New("user already has an open work session")
	ErrConflict          = errors.New("conflict")
)
