package usecase

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrNotFound marks a lookup that matched nothing for the caller.
var ErrNotFound = errors.New("not found")

// ErrForbidden marks an actor that may not perform the operation.
var ErrForbidden = errors.New("not authorized")

// ErrUnauthorized marks missing or wrong credentials.
var ErrUnauthorized = errors.New("invalid username or password")

// ValidationError is a malformed or out-of-range request parameter.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// StateConflictError is an operation that does not apply to the record's current status.
type StateConflictError struct {
	Current string
	Message string
}

func (e *StateConflictError) Error() string { return e.Message }

func conflict(current, format string, args ...any) error {
	return &StateConflictError{Current: current, Message: fmt.Sprintf(format, args...)}
}

// notFound wraps ErrNotFound with a message the handler can show as is.
type notFoundError struct{ msg string }

func (e *notFoundError) Error() string { return e.msg }
func (e *notFoundError) Unwrap() error { return ErrNotFound }

func notFound(format string, args ...any) error {
	return &notFoundError{msg: fmt.Sprintf(format, args...)}
}

func isRecordNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
