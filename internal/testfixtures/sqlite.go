package testfixtures

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/example/attendance-portal/internal/logging"
	"github.com/example/attendance-portal/internal/persistence"
	"github.com/example/attendance-portal/internal/persistence/sqlite"
	"github.com/example/attendance-portal/internal/persistence/sqlite/migration"
)

// SQLiteHarness provides repository access backed by a temporary, migrated
// SQLite database.
type SQLiteHarness struct {
	Storage   *sqlite.Storage
	Sessions  persistence.AttendanceSessionRepository
	Employees persistence.EmployeeRepository

	cleanup func()
}

// Close releases resources associated with the harness.
func (h *SQLiteHarness) Close() {
	if h != nil && h.cleanup != nil {
		h.cleanup()
		h.cleanup = nil
	}
}

// NewSQLiteHarness opens a temporary database file and migrates it. Close is
// registered with tb.Cleanup.
func NewSQLiteHarness(tb testing.TB) *SQLiteHarness {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), "attendance.db")
	storage, err := sqlite.OpenWithConfig(context.Background(), migration.TempFileTestSQLiteConfig(path), logging.Discard())
	if err != nil {
		tb.Fatalf("failed to open storage: %v", err)
	}

	if err := storage.Migrate(context.Background()); err != nil {
		_ = storage.Close()
		tb.Fatalf("failed to migrate storage: %v", err)
	}

	harness := &SQLiteHarness{
		Storage:   storage,
		Sessions:  storage,
		Employees: storage,
		cleanup: func() {
			_ = storage.Close()
		},
	}

	tb.Cleanup(harness.Close)
	return harness
}

// SeedEmployees upserts the fixtures into the directory.
func (h *SQLiteHarness) SeedEmployees(tb testing.TB, employees ...EmployeeFixture) {
	tb.Helper()
	for _, e := range employees {
		if err := h.Employees.UpsertEmployee(context.Background(), e.Persistence()); err != nil {
			tb.Fatalf("failed to seed employee %s: %v", e.ID, err)
		}
	}
}

// SeedSessions stores the fixtures through the regular write path: each is
// created active and, when the fixture is completed, checked out.
func (h *SQLiteHarness) SeedSessions(tb testing.TB, sessions ...SessionFixture) {
	tb.Helper()
	ctx := context.Background()
	for _, f := range sessions {
		row := f.Persistence()
		active := row
		active.Status = persistence.SessionStatusActive
		active.CheckOut = nil
		active.CheckOutRemarks = nil
		active.DurationMinutes = nil
		active.UpdatedAt = active.CreatedAt
		if _, err := h.Sessions.CreateActiveSession(ctx, active); err != nil {
			tb.Fatalf("failed to seed session %s: %v", f.ID, err)
		}
		if row.Status != persistence.SessionStatusCompleted {
			continue
		}
		if _, err := h.Sessions.CompleteActiveSession(ctx, row.UserID, func(persistence.AttendanceSession) (persistence.AttendanceSession, error) {
			return row, nil
		}); err != nil {
			tb.Fatalf("failed to complete session %s: %v", f.ID, err)
		}
	}
}
