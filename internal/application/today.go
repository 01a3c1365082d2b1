package application

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"
)

// TodayService derives the caller's daily snapshot. It never writes.
type TodayService struct {
	sessions SessionReader
	now      func() time.Time
	location *time.Location
	logger   *slog.Logger
}

// NewTodayService constructs a today service with the provided dependencies.
func NewTodayService(sessions SessionReader, now func() time.Time, location *time.Location) *TodayService {
	return NewTodayServiceWithLogger(sessions, now, location, nil)
}

// NewTodayServiceWithLogger constructs a today service with a specified logger.
func NewTodayServiceWithLogger(sessions SessionReader, now func() time.Time, location *time.Location, logger *slog.Logger) *TodayService {
	if now == nil {
		now = time.Now
	}
	if location == nil {
		location = time.UTC
	}
	return &TodayService{sessions: sessions, now: now, location: location, logger: defaultLogger(logger)}
}

// TodayStatus returns today's sessions in check-in order, whether one is
// active, and the worked total including the live part of an active session.
func (s *TodayService) TodayStatus(ctx context.Context, principal Principal) (status TodayStatus, err error) {
	if s == nil {
		err = fmt.Errorf("TodayService is nil")
		return
	}

	logger := serviceLogger(ctx, s.logger, "TodayService", "TodayStatus", "principal_id", principal.UserID)
	defer func() {
		if err != nil {
			logOutcome(ctx, logger, "failed to build today status", err)
		}
	}()

	if strings.TrimSpace(principal.UserID) == "" {
		err = ErrUnauthorized
		return
	}
	if s.sessions == nil {
		err = fmt.Errorf("session store not configured")
		return
	}

	now := s.now().UTC()
	today := now.In(s.location).Format(dateLayout)

	logs, err := s.sessions.ListSessions(ctx, SessionQuery{UserID: principal.UserID, Date: today})
	if err != nil {
		err = mapStoreError("today status", err)
		return
	}

	status = summarizeDay(today, logs, now)
	return
}

func summarizeDay(date string, logs []AttendanceSession, now time.Time) TodayStatus {
	ordered := make([]AttendanceSession, len(logs))
	copy(ordered, logs)
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].CheckIn.Equal(ordered[j].CheckIn) {
			return ordered[i].CheckIn.Before(ordered[j].CheckIn)
		}
		return ordered[i].ID < ordered[j].ID
	})

	status := TodayStatus{
		Date:   date,
		Status: DayInactive,
		Logs:   ordered,
	}

	for i := range ordered {
		session := ordered[i]
		switch {
		case session.IsActive():
			status.Status = DayActive
			active := session
			status.ActiveSession = &active
			status.TotalMinutes += ElapsedMinutes(session.CheckIn, now)
		case session.DurationMinutes != nil:
			status.TotalMinutes += *session.DurationMinutes
		}
	}

	status.FormattedTotal = FormatMinutes(status.TotalMinutes)
	return status
}
