package testfixtures

import (
	"context"
	"testing"

	"github.com/example/attendance-portal/internal/persistence"
)

func TestSQLiteHarnessSeeds(t *testing.T) {
	harness := NewSQLiteHarness(t)
	alice := NewEmployeeFixture(WithEmployeeID("alice"))
	harness.SeedEmployees(t, alice)
	harness.SeedSessions(t,
		NewSessionFixture(WithSessionUser("alice"), WithCheckIn(At(8, 0), "early"), Completed(At(12, 0), "lunch")),
		NewSessionFixture(WithSessionUser("alice"), WithCheckIn(At(13, 0), "back")),
	)

	sessions, err := harness.Sessions.ListSessions(context.Background(), persistence.SessionFilter{UserID: "alice"})
	if err != nil {
		t.Fatalf("ListSessions returned error: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(sessions))
	}
	if sessions[0].Status != persistence.SessionStatusCompleted || *sessions[0].DurationMinutes != 240 {
		t.Fatalf("unexpected first session %+v", sessions[0])
	}
	if sessions[1].Status != persistence.SessionStatusActive {
		t.Fatalf("expected second session active, got %q", sessions[1].Status)
	}

	employee, err := harness.Employees.GetEmployee(context.Background(), "alice")
	if err != nil {
		t.Fatalf("GetEmployee returned error: %v", err)
	}
	if employee.EmployeeCode != alice.EmployeeCode {
		t.Fatalf("unexpected employee %+v", employee)
	}
}
