package application

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
)

// HistoryService reconstructs an employee's full timeline from the session log.
type HistoryService struct {
	sessions  SessionReader
	directory EmployeeDirectory
	logger    *slog.Logger
}

// NewHistoryService constructs a history service with the provided dependencies.
func NewHistoryService(sessions SessionReader, directory EmployeeDirectory) *HistoryService {
	return NewHistoryServiceWithLogger(sessions, directory, nil)
}

// NewHistoryServiceWithLogger constructs a history service with a specified logger.
func NewHistoryServiceWithLogger(sessions SessionReader, directory EmployeeDirectory, logger *slog.Logger) *HistoryService {
	return &HistoryService{sessions: sessions, directory: directory, logger: defaultLogger(logger)}
}

// History returns every session of employeeID ordered by date then check-in,
// both descending, with summary statistics. Administrators may read any
// employee; everyone else only themself.
func (s *HistoryService) History(ctx context.Context, principal Principal, employeeID string) (history EmployeeHistory, err error) {
	if s == nil {
		err = fmt.Errorf("HistoryService is nil")
		return
	}

	employeeID = strings.TrimSpace(employeeID)
	logger := serviceLogger(ctx, s.logger, "HistoryService", "History",
		"principal_id", principal.UserID,
		"employee_id", employeeID,
	)
	defer func() {
		if err != nil {
			logOutcome(ctx, logger, "failed to build history", err)
		}
	}()

	if employeeID == "" {
		vErr := &ValidationError{}
		vErr.add("employee_id", "employee id is required")
		err = vErr
		return
	}
	if strings.TrimSpace(principal.UserID) == "" || (!principal.IsAdmin && principal.UserID != employeeID) {
		err = ErrUnauthorized
		return
	}
	if s.sessions == nil {
		err = fmt.Errorf("session store not configured")
		return
	}

	sessions, err := s.sessions.ListSessions(ctx, SessionQuery{UserID: employeeID})
	if err != nil {
		err = mapStoreError("history", err)
		return
	}

	history = EmployeeHistory{
		EmployeeID: employeeID,
		Sessions:   orderHistory(sessions),
		Summary:    summarizeHistory(sessions),
	}

	if s.directory != nil {
		var identities map[string]EmployeeIdentity
		identities, err = s.directory.LookupEmployees(ctx, []string{employeeID})
		if err != nil {
			history = EmployeeHistory{}
			err = mapStoreError("lookup employee", err)
			return
		}
		if identity, ok := identities[employeeID]; ok {
			history.Employee = &identity
		}
	}

	return
}

func orderHistory(sessions []AttendanceSession) []AttendanceSession {
	ordered := make([]AttendanceSession, len(sessions))
	copy(ordered, sessions)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.Date != b.Date {
			return a.Date > b.Date
		}
		if !a.CheckIn.Equal(b.CheckIn) {
			return a.CheckIn.After(b.CheckIn)
		}
		return a.ID > b.ID
	})
	return ordered
}

func summarizeHistory(sessions []AttendanceSession) HistorySummary {
	summary := HistorySummary{TotalSessions: len(sessions)}
	for _, session := range sessions {
		if session.Status != SessionCompleted || session.DurationMinutes == nil {
			continue
		}
		summary.CompletedSessions++
		summary.TotalMinutes += *session.DurationMinutes
	}
	summary.AverageMinutes = averageMinutes(summary.TotalMinutes, summary.CompletedSessions)
	return summary
}
