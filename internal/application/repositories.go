package application

import (
	"context"
	"errors"

	"github.com/example/attendance-portal/internal/persistence"
)

// CompleteFunc derives the completed form of an active session. Stores call it
// inside their write transaction.
type CompleteFunc func(active AttendanceSession) (AttendanceSession, error)

// SessionWriter is the only write path into the session log.
type SessionWriter interface {
	// CreateActiveSession inserts session unless the user already has an
	// active one, in which case it fails without writing.
	CreateActiveSession(ctx context.Context, session AttendanceSession) (AttendanceSession, error)
	// CompleteActiveSession atomically replaces the user's active session
	// with the result of complete.
	CompleteActiveSession(ctx context.Context, userID string, complete CompleteFunc) (AttendanceSession, error)
}

// SessionReader exposes read access to the session log, ordered by check-in
// ascending.
type SessionReader interface {
	ListSessions(ctx context.Context, query SessionQuery) ([]AttendanceSession, error)
}

// SessionRepository combines read and write access to the session log.
type SessionRepository interface {
	SessionWriter
	SessionReader
}

// EmployeeDirectory resolves user ids to display identities. Unknown ids are
// absent from the result.
type EmployeeDirectory interface {
	LookupEmployees(ctx context.Context, ids []string) (map[string]EmployeeIdentity, error)
}

// mapStoreError converts store failures into the application taxonomy.
// Anything unrecognised becomes a StorageError.
func mapStoreError(op string, err error) error {
	if err == nil {
		return nil
	}

	var vErr *ValidationError
	switch {
	case errors.Is(err, ErrAlreadyCheckedIn), errors.Is(err, ErrNotCheckedIn),
		errors.Is(err, ErrUnauthorized), errors.As(err, &vErr):
		return err
	case errors.Is(err, persistence.ErrActiveSessionExists):
		return ErrAlreadyCheckedIn
	}

	var sErr *StorageError
	if errors.As(err, &sErr) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}
