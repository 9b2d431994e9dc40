package store

import "errors"

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a unique constraint is violated,
// e.g. a duplicate username at signup.
var ErrConflict = errors.New("already exists")
