package core

import (
	stderrors "errors"

	"github.com/pkg/errors"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = stderrors.New("not found")

	// ErrAccessDenied is returned when a principal's scope does not cover
	// the requested record. Handlers report it exactly like ErrNotFound so
	// callers cannot probe for records belonging to other principals.
	ErrAccessDenied = stderrors.New("access denied")

	// ErrConflict is returned on a duplicate-key race not resolved by an upsert.
	ErrConflict = stderrors.New("conflict")
)

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err *ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s *shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
