// Package store contains the GORM-backed persistence layer. Uniqueness and
// id assignment are delegated to Postgres; the application never does a
// check-then-insert.
package store

import "errors"

var (
	ErrNotFound          = errors.New("record not found")
	ErrDuplicateUsername = errors.New("username already taken")
	ErrDuplicateEmail    = errors.New("email already registered")
)
