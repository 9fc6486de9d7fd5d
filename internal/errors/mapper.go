// internal/errors/mapper.go
package errors

import (
	"context"
	"errors"
	"net/http"

	"gorm.io/gorm"
)

// Error is a typed application error carrying the HTTP status it maps to.
// Services return these; the HTTP layer renders them as
// {"success": false, "message": ...} with the matching status code.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string { return e.Message }

// Validation creates a 400 error for missing/malformed input.
func Validation(msg string) error {
	return &Error{Status: http.StatusBadRequest, Message: msg}
}

// NotFound creates a 404 error for unknown users, matches, or connections.
func NotFound(msg string) error {
	return &Error{Status: http.StatusNotFound, Message: msg}
}

// PreconditionFailed creates a 400 error for actions not permitted in the
// current state (e.g. selecting an adjective for an already-connected pair).
func PreconditionFailed(msg string) error {
	return &Error{Status: http.StatusBadRequest, Message: msg}
}

// Internal creates a 500 error.
func Internal(msg string) error {
	return &Error{Status: http.StatusInternalServerError, Message: msg}
}

// Map converts repo/infra errors into typed application errors.
// Keeps service layer clean by centralizing error mapping.
func Map(err error) error {
	if err == nil {
		return nil
	}

	var appErr *Error
	switch {
	case errors.As(err, &appErr):
		return err

	case errors.Is(err, gorm.ErrRecordNotFound):
		return NotFound("record not found")

	case errors.Is(err, context.DeadlineExceeded):
		return &Error{Status: http.StatusGatewayTimeout, Message: "request timed out"}

	case errors.Is(err, context.Canceled):
		return &Error{Status: http.StatusRequestTimeout, Message: "request was canceled"}

	default:
		// fallback → bubble up error message for debugging
		return &Error{Status: http.StatusInternalServerError, Message: err.Error()}
	}
}

// Status extracts the HTTP status for any error, defaulting to 500.
func Status(err error) int {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	return http.StatusInternalServerError
}
