package application

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// memorySessions is an in-memory session log that honours the one active
// session per user rule.
type memorySessions struct {
	mu       sync.Mutex
	sessions []AttendanceSession

	createErr error
	listErr   error
	creates   int
}

func (m *memorySessions) CreateActiveSession(_ context.Context, session AttendanceSession) (AttendanceSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.creates++
	if m.createErr != nil {
		return AttendanceSession{}, m.createErr
	}
	for _, existing := range m.sessions {
		if existing.UserID == session.UserID && existing.IsActive() {
			return AttendanceSession{}, ErrAlreadyCheckedIn
		}
	}
	m.sessions = append(m.sessions, session)
	return session, nil
}

func (m *memorySessions) CompleteActiveSession(_ context.Context, userID string, complete CompleteFunc) (AttendanceSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, existing := range m.sessions {
		if existing.UserID != userID || !existing.IsActive() {
			continue
		}
		next, err := complete(existing)
		if err != nil {
			return AttendanceSession{}, err
		}
		m.sessions[i] = next
		return next, nil
	}
	return AttendanceSession{}, ErrNotFound
}

func (m *memorySessions) ListSessions(_ context.Context, query SessionQuery) ([]AttendanceSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.listErr != nil {
		return nil, m.listErr
	}

	out := make([]AttendanceSession, 0, len(m.sessions))
	for _, s := range m.sessions {
		if query.UserID != "" && s.UserID != query.UserID {
			continue
		}
		if query.Date != "" && s.Date != query.Date {
			continue
		}
		if query.Status != "" && s.Status != query.Status {
			continue
		}
		out = append(out, s)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CheckIn.Before(out[j].CheckIn) })
	return out, nil
}

func (m *memorySessions) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

type directoryStub struct {
	identities map[string]EmployeeIdentity
	err        error
	requested  [][]string
}

func (d *directoryStub) LookupEmployees(_ context.Context, ids []string) (map[string]EmployeeIdentity, error) {
	d.requested = append(d.requested, append([]string(nil), ids...))
	if d.err != nil {
		return nil, d.err
	}
	out := make(map[string]EmployeeIdentity, len(ids))
	for _, id := range ids {
		if identity, ok := d.identities[id]; ok {
			out[id] = identity
		}
	}
	return out, nil
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock(now time.Time) *testClock { return &testClock{now: now} }

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Set(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func sequentialIDs(prefix string) func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

func at(hour, minute int) time.Time {
	return time.Date(2024, time.March, 4, hour, minute, 0, 0, time.UTC)
}

func intPtr(v int) *int { return &v }

func completedSession(id, userID string, checkIn time.Time, minutes int) AttendanceSession {
	checkOut := checkIn.Add(time.Duration(minutes) * time.Minute)
	remarks := "done"
	return AttendanceSession{
		ID:              id,
		UserID:          userID,
		Date:            checkIn.Format(dateLayout),
		CheckIn:         checkIn,
		CheckOut:        &checkOut,
		CheckInRemarks:  "start",
		CheckOutRemarks: &remarks,
		Status:          SessionCompleted,
		DurationMinutes: intPtr(minutes),
	}
}
