package domain

import (
	"errors"
	"net/http"
)

// Error is an operation failure carrying the HTTP status it should surface
// as. Every service-layer failure is one of these; handlers translate them
// into the uniform error envelope.
type Error struct {
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NewValidationError(message string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: message}
}

func NewConflictError(message string) *Error {
	return &Error{Status: http.StatusConflict, Message: message}
}

func NewUnauthorizedError(message string) *Error {
	return &Error{Status: http.StatusUnauthorized, Message: message}
}

func NewNotFoundError(message string) *Error {
	return &Error{Status: http.StatusNotFound, Message: message}
}

func NewUploadError(message string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: message}
}

func NewInternalError(message string, cause error) *Error {
	return &Error{Status: http.StatusInternalServerError, Message: message, Err: cause}
}

// StatusOf extracts the HTTP status from an error, defaulting to 500.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return http.StatusInternalServerError
}

// Sentinel repository errors.
var (
	ErrUserNotFound = errors.New("user not found")
	ErrDuplicateKey = errors.New("username or email already exists")
)
