package open311

import (
	"errors"
	"net/http"
)

// Error is a failure that can be surfaced to an API client. The HTTP
// status travels with the error so that the translation boundary in the
// api package stays the only place response codes are decided.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// NotFound reports an unresolvable lookup (service code, status, empty
// result set).
func NotFound(message string) *Error {
	return &Error{Status: http.StatusNotFound, Message: message}
}

// Invalid reports malformed or invalid submitted data.
func Invalid(message string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: message}
}

// Internal reports a backend failure the client cannot repair.
func Internal(message string) *Error {
	return &Error{Status: http.StatusInternalServerError, Message: message}
}

// StatusOf extracts the HTTP status carried by err, defaulting to 500
// for anything untyped.
func StatusOf(err error) int {
	var oe *Error
	if errors.As(err, &oe) {
		return oe.Status
	}
	return http.StatusInternalServerError
}
