package sub

import (
	"errors"
	"net/http"
)

// Error is a terminal pipeline failure carrying the HTTP status to report.
// Every error in this package is final for the request; nothing retries.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Forbidden reports a failed token check.
func Forbidden(message string) *Error {
	return &Error{Status: http.StatusForbidden, Message: message}
}

// NotFound reports a missing or disabled profile.
func NotFound(message string) *Error {
	return &Error{Status: http.StatusNotFound, Message: message}
}

// Unconfigured reports that no converter backend could be resolved.
func Unconfigured(message string) *Error {
	return &Error{Status: http.StatusInternalServerError, Message: message}
}

// UpstreamFailure reports an unreachable converter or a non-2xx answer.
func UpstreamFailure(message string) *Error {
	return &Error{Status: http.StatusBadGateway, Message: message}
}

// StatusOf maps an error onto its HTTP status, defaulting to 500.
func StatusOf(err error) int {
	var se *Error
	if errors.As(err, &se) {
		return se.Status
	}
	return http.StatusInternalServerError
}
