package service

import (
	"errors"
	"strings"

	"github.com/vishwam-chepuri/matching-app/internal/authz"
	"github.com/vishwam-chepuri/matching-app/internal/repository"
)

var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrForbidden          = authz.ErrForbidden
	ErrNotFound           = repository.ErrNotFound
	ErrInvalidOperation   = authz.ErrInvalidOperation
	ErrValidation         = errors.New("validation failed")
	ErrUnsupportedType    = errors.New("unsupported image type")
	ErrTooLarge           = errors.New("file too large")
	ErrPhotoLimit         = errors.New("photo limit reached")
)

// Error pairs a sentinel with the message shown to the client.
type Error struct {
	Err     error
	Message string
}

func (e *Error) Error() string { return e.Message }
func (e *Error) Unwrap() error { return e.Err }

func newError(kind error, message string) error {
	return &Error{Err: kind, Message: message}
}

// ValidationError lists every rejected field of an input.
type ValidationError struct {
	Messages []string
}

func NewValidationError(messages ...string) *ValidationError {
	return &ValidationError{Messages: messages}
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, ", ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Message returns the client-facing text of err, or "" when err carries
// none and should not be shown.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	var v *ValidationError
	if errors.As(err, &v) {
		return v.Error()
	}
	return ""
}
