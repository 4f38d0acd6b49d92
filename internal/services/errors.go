package services

import (
	"errors"
	"fmt"
)

var (
	ErrValidation      = errors.New("validation failed")
	ErrConflict        = errors.New("conflict")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrNotFound        = errors.New("not found")

	// ErrNotOwner is reported when the todo exists but belongs to someone
	// else. It matches ErrNotFound so callers cannot tell the two apart.
	ErrNotOwner = fmt.Errorf("%w: not owner", ErrNotFound)

	// ErrBadCreds is the single outcome for unknown email and wrong password.
	ErrBadCreds = fmt.Errorf("%w: invalid email or password", ErrUnauthenticated)
)

// ValidationError carries a client-safe description of rejected input.
type ValidationError struct{ Msg string }

func (e *ValidationError) Error() string { return e.Msg }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func invalid(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}
