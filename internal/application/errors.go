package application

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized is returned when the acting principal lacks permission for an operation.
	ErrUnauthorized = errors.New("application: unauthorized")
	// ErrNotFound is returned when the requested resource does not exist.
	ErrNotFound = errors.New("application: not found")
	// ErrConflict is returned when a request collides with the current state.
	ErrConflict = errors.New("application: conflict")

	// ErrAlreadyCheckedIn is returned by CheckIn while the caller has an active session.
	ErrAlreadyCheckedIn = fmt.Errorf("%w: already checked in", ErrConflict)
	// ErrNotCheckedIn is returned by CheckOut when the caller has no active session.
	ErrNotCheckedIn = fmt.Errorf("%w: not checked in", ErrNotFound)
)

// ValidationError captures field level validation issues that callers can surface to users.
type ValidationError struct {
	FieldErrors map[string]string
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	if v == nil {
		return ""
	}
	return "validation failed"
}

// HasErrors reports whether any field level issues were recorded.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

// add records a field level validation error.
func (v *ValidationError) add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	v.FieldErrors[field] = message
}

// StorageError reports an infrastructure failure of the session store. It is
// never retried by the services.
type StorageError struct {
	Op  string
	Err error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("application: storage failure during %s: %v", e.Op, e.Err)
}

// Unwrap exposes the underlying store error.
func (e *StorageError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
