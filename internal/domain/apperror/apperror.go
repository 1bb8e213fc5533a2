// Package apperror holds the error taxonomy shared by repositories, services
// and the HTTP layer.
package apperror

import (
	"errors"
	"strings"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrValidation      = errors.New("validation failed")
	ErrInactiveUser    = errors.New("inactive user")
)

// MissingScopesError reports the scopes a caller lacks for an operation.
// It matches ErrForbidden with errors.Is.
type MissingScopesError struct {
	Missing []string
}

func (e *MissingScopesError) Error() string {
	return "not enough permissions, missing scopes: " + strings.Join(e.Missing, ", ")
}

func (e *MissingScopesError) Is(target error) bool {
	return target == ErrForbidden
}

// ValidationError carries field level details for ErrValidation.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for f, msg := range e.Fields {
		parts = append(parts, f+" "+msg)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Invalid builds a ValidationError for a single field.
func Invalid(field, msg string) error {
	return &ValidationError{Fields: map[string]string{field: msg}}
}
