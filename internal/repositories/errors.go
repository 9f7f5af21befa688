package repositories

import "errors"

var (
	// ErrNotFound is returned when no row matches the request.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique column already holds the value.
	ErrDuplicate = errors.New("duplicate record")
)
