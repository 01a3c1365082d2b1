package testfixtures

import (
	"context"
	"sort"
	"sync"

	"github.com/example/attendance-portal/internal/application"
)

// MemorySessions is an in-memory application.SessionRepository with the same
// one-active-session guarantee as the durable stores.
type MemorySessions struct {
	mu       sync.Mutex
	sessions []application.AttendanceSession
	// Err, when set, fails every call.
	Err error
}

var _ application.SessionRepository = (*MemorySessions)(nil)

// NewMemorySessions seeds the store with the given sessions.
func NewMemorySessions(seed ...application.AttendanceSession) *MemorySessions {
	return &MemorySessions{sessions: append([]application.AttendanceSession(nil), seed...)}
}

func (m *MemorySessions) CreateActiveSession(_ context.Context, session application.AttendanceSession) (application.AttendanceSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return application.AttendanceSession{}, m.Err
	}
	for _, existing := range m.sessions {
		if existing.UserID == session.UserID && existing.IsActive() {
			return application.AttendanceSession{}, application.ErrAlreadyCheckedIn
		}
	}
	m.sessions = append(m.sessions, session)
	return session, nil
}

func (m *MemorySessions) CompleteActiveSession(_ context.Context, userID string, complete application.CompleteFunc) (application.AttendanceSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return application.AttendanceSession{}, m.Err
	}
	for i, existing := range m.sessions {
		if existing.UserID != userID || !existing.IsActive() {
			continue
		}
		completed, err := complete(existing)
		if err != nil {
			return application.AttendanceSession{}, err
		}
		m.sessions[i] = completed
		return completed, nil
	}
	return application.AttendanceSession{}, application.ErrNotCheckedIn
}

func (m *MemorySessions) ListSessions(_ context.Context, query application.SessionQuery) ([]application.AttendanceSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	out := make([]application.AttendanceSession, 0, len(m.sessions))
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
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CheckIn.Equal(out[j].CheckIn) {
			return out[i].CheckIn.Before(out[j].CheckIn)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// Len reports how many sessions are stored.
func (m *MemorySessions) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// StaticDirectory is a map backed application.EmployeeDirectory.
type StaticDirectory map[string]application.EmployeeIdentity

// NewStaticDirectory indexes the given employees by id.
func NewStaticDirectory(employees ...EmployeeFixture) StaticDirectory {
	dir := make(StaticDirectory, len(employees))
	for _, e := range employees {
		dir[e.ID] = e.Identity()
	}
	return dir
}

func (d StaticDirectory) LookupEmployees(_ context.Context, ids []string) (map[string]application.EmployeeIdentity, error) {
	out := make(map[string]application.EmployeeIdentity, len(ids))
	for _, id := range ids {
		if identity, ok := d[id]; ok {
			out[id] = identity
		}
	}
	return out, nil
}
