package store

import "github.com/pkg/errors"

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden is returned when a record exists but belongs to another owner.
	ErrForbidden = errors.New("forbidden")
	// ErrConflict is returned on unique constraint violations.
	ErrConflict = errors.New("conflict")
	// ErrInvalidTask wraps a task field that breaks a task invariant.
	ErrInvalidTask = errors.New("invalid task")
	// ErrInvalidMessage wraps a message field that breaks a message invariant.
	ErrInvalidMessage = errors.New("invalid message")
)
