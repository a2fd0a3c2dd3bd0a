package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/alexanderramin/worktime/internal/domain"
)

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// statusFor maps a service error kind to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrReferenceNotFound),
		errors.Is(err, domain.ErrAlreadyClosed):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrOpenSessionExists),
		errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// messageFor returns the client-facing text. Storage details stay in the
// logs.
func messageFor(err error, status int) string {
	if status == http.StatusInternalServerError {
		return "internal error"
	}
	for _, kind := range []error{
		domain.ErrReferenceNotFound,
		domain.ErrSessionNotFound,
		domain.ErrAlreadyClosed,
	} {
		if errors.Is(err, kind) {
			return sentenceCase(kind.Error())
		}
	}
	return err.Error()
}

func sentenceCase(s string) string {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}

func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.ErrorContext(r.Context(), "request failed",
			"path", r.URL.Path,
			"request_id", RequestID(r.Context()),
			"error", err,
		)
	}
	writeError(w, status, messageFor(err, status))
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Code:    status,
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
