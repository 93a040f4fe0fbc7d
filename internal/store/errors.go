package store

import "errors"

var (
	// ErrNotFound is returned by Get and Update when no record exists at the key.
	ErrNotFound = errors.New("record not found")

	// ErrConflict is returned by Create when uniqueness is requested and the
	// key is already taken.
	ErrConflict = errors.New("record already exists")
)
