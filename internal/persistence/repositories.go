package persistence

import "context"

// SessionFilter narrows attendance session queries. Empty fields are ignored.
type SessionFilter struct {
	UserID string
	Date   string
	Status SessionStatus
}

// CompletionFunc derives the completed form of an active session. It runs inside
// the store's write transaction, so it must not perform I/O.
type CompletionFunc func(active AttendanceSession) (AttendanceSession, error)

// AttendanceSessionRepository stores the append-only attendance session log.
//
// CreateActiveSession returns ErrActiveSessionExists when the user already has
// an active session. CompleteActiveSession returns ErrNotFound when there is
// none. ListSessions orders results by check-in ascending, then by ID.
type AttendanceSessionRepository interface {
	CreateActiveSession(ctx context.Context, session AttendanceSession) (AttendanceSession, error)
	CompleteActiveSession(ctx context.Context, userID string, complete CompletionFunc) (AttendanceSession, error)
	GetActiveSession(ctx context.Context, userID string) (AttendanceSession, error)
	ListSessions(ctx context.Context, filter SessionFilter) ([]AttendanceSession, error)
}

// EmployeeRepository exposes the employee directory.
type EmployeeRepository interface {
	UpsertEmployee(ctx context.Context, employee Employee) error
	GetEmployee(ctx context.Context, id string) (Employee, error)
	ListEmployeesByIDs(ctx context.Context, ids []string) ([]Employee, error)
}

// Store is a migrated persistence backend serving every repository.
type Store interface {
	AttendanceSessionRepository
	EmployeeRepository
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}
