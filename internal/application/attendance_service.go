package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/attendance-portal/internal/persistence"
)

// AttendanceService is the session state machine. It is the only component
// that writes to the session log.
type AttendanceService struct {
	sessions    SessionWriter
	idGenerator func() string
	now         func() time.Time
	location    *time.Location
	logger      *slog.Logger
}

// NewAttendanceService constructs an attendance service with the provided dependencies.
func NewAttendanceService(sessions SessionWriter, idGenerator func() string, now func() time.Time, location *time.Location) *AttendanceService {
	return NewAttendanceServiceWithLogger(sessions, idGenerator, now, location, nil)
}

// NewAttendanceServiceWithLogger constructs an attendance service with a specified logger.
func NewAttendanceServiceWithLogger(sessions SessionWriter, idGenerator func() string, now func() time.Time, location *time.Location, logger *slog.Logger) *AttendanceService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	if location == nil {
		location = time.UTC
	}
	return &AttendanceService{
		sessions:    sessions,
		idGenerator: idGenerator,
		now:         now,
		location:    location,
		logger:      defaultLogger(logger),
	}
}

func (s *AttendanceService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "AttendanceService", operation, attrs...)
}

// CheckIn opens a new active session for the principal. It fails with
// ErrAlreadyCheckedIn, without writing, while another session is active.
func (s *AttendanceService) CheckIn(ctx context.Context, principal Principal, remarks string) (session AttendanceSession, err error) {
	if s == nil {
		err = fmt.Errorf("AttendanceService is nil")
		return
	}

	logger := s.loggerWith(ctx, "CheckIn", "principal_id", principal.UserID)
	defer func() {
		if err != nil {
			logOutcome(ctx, logger, "check-in rejected", err)
			return
		}
		logger.With("session_id", session.ID).InfoContext(ctx, "checked in")
	}()

	if strings.TrimSpace(principal.UserID) == "" {
		err = ErrUnauthorized
		return
	}

	remarks, vErr := requireRemarks(remarks)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	if s.sessions == nil {
		err = fmt.Errorf("session store not configured")
		return
	}

	now := s.now().UTC()
	candidate := AttendanceSession{
		ID:             s.idGenerator(),
		UserID:         principal.UserID,
		Date:           now.In(s.location).Format(dateLayout),
		CheckIn:        now,
		CheckInRemarks: remarks,
		Status:         SessionActive,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	session, err = s.sessions.CreateActiveSession(ctx, candidate)
	if err != nil {
		session = AttendanceSession{}
		err = mapStoreError("check in", err)
	}
	return
}

// CheckOut completes the principal's active session. The check-out time is
// never earlier than the check-in, and the rounded duration is persisted.
func (s *AttendanceService) CheckOut(ctx context.Context, principal Principal, remarks string) (session AttendanceSession, err error) {
	if s == nil {
		err = fmt.Errorf("AttendanceService is nil")
		return
	}

	logger := s.loggerWith(ctx, "CheckOut", "principal_id", principal.UserID)
	defer func() {
		if err != nil {
			logOutcome(ctx, logger, "check-out rejected", err)
			return
		}
		logger.With("session_id", session.ID, "duration_minutes", *session.DurationMinutes).InfoContext(ctx, "checked out")
	}()

	if strings.TrimSpace(principal.UserID) == "" {
		err = ErrUnauthorized
		return
	}

	remarks, vErr := requireRemarks(remarks)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	if s.sessions == nil {
		err = fmt.Errorf("session store not configured")
		return
	}

	now := s.now().UTC()
	session, err = s.sessions.CompleteActiveSession(ctx, principal.UserID, func(active AttendanceSession) (AttendanceSession, error) {
		return completeSession(active, now, remarks), nil
	})
	if err != nil {
		session = AttendanceSession{}
		if errors.Is(err, persistence.ErrNotFound) || errors.Is(err, ErrNotFound) {
			err = ErrNotCheckedIn
			return
		}
		err = mapStoreError("check out", err)
		return
	}
	if session.DurationMinutes == nil {
		session = AttendanceSession{}
		err = &StorageError{Op: "check out", Err: errors.New("store returned session without duration")}
	}
	return
}

func completeSession(active AttendanceSession, now time.Time, remarks string) AttendanceSession {
	checkOut := now
	if checkOut.Before(active.CheckIn) {
		checkOut = active.CheckIn
	}
	minutes := RoundedMinutes(active.CheckIn, checkOut)

	completed := active
	completed.CheckOut = &checkOut
	completed.CheckOutRemarks = &remarks
	completed.DurationMinutes = &minutes
	completed.Status = SessionCompleted
	completed.UpdatedAt = now
	return completed
}

func requireRemarks(remarks string) (string, *ValidationError) {
	trimmed := strings.TrimSpace(remarks)
	vErr := &ValidationError{}
	if trimmed == "" {
		vErr.add("remarks", "remarks are required")
	}
	return trimmed, vErr
}
