package persistence

import "errors"

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("persistence: not found")
	// ErrDuplicate is returned when a primary or unique key already exists.
	ErrDuplicate = errors.New("persistence: duplicate record")
	// ErrConstraintViolation is returned when a record fails a schema or field constraint.
	ErrConstraintViolation = errors.New("persistence: constraint violation")
	// ErrActiveSessionExists is returned when a user already holds an active attendance session.
	ErrActiveSessionExists = errors.New("persistence: active session already exists")
)
