package main

import (
	"context"
	"errors"
	"time"

	"github.com/example/attendance-portal/internal/application"
	"github.com/example/attendance-portal/internal/persistence"
)

type sessionRepositoryAdapter struct {
	repo persistence.AttendanceSessionRepository
}

var _ application.SessionRepository = (*sessionRepositoryAdapter)(nil)

func newSessionRepositoryAdapter(repo persistence.AttendanceSessionRepository) *sessionRepositoryAdapter {
	return &sessionRepositoryAdapter{repo: repo}
}

func (a *sessionRepositoryAdapter) CreateActiveSession(ctx context.Context, session application.AttendanceSession) (application.AttendanceSession, error) {
	stored, err := a.repo.CreateActiveSession(ctx, toPersistenceSession(session))
	if err != nil {
		return application.AttendanceSession{}, err
	}
	return toApplicationSession(stored), nil
}

// CompleteActiveSession runs complete on the application model inside the
// store's transaction. A missing active session surfaces as ErrNotCheckedIn.
func (a *sessionRepositoryAdapter) CompleteActiveSession(ctx context.Context, userID string, complete application.CompleteFunc) (application.AttendanceSession, error) {
	stored, err := a.repo.CompleteActiveSession(ctx, userID, func(active persistence.AttendanceSession) (persistence.AttendanceSession, error) {
		next, err := complete(toApplicationSession(active))
		if err != nil {
			return persistence.AttendanceSession{}, err
		}
		return toPersistenceSession(next), nil
	})
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return application.AttendanceSession{}, application.ErrNotCheckedIn
		}
		return application.AttendanceSession{}, err
	}
	return toApplicationSession(stored), nil
}

func (a *sessionRepositoryAdapter) ListSessions(ctx context.Context, query application.SessionQuery) ([]application.AttendanceSession, error) {
	rows, err := a.repo.ListSessions(ctx, persistence.SessionFilter{
		UserID: query.UserID,
		Date:   query.Date,
		Status: persistence.SessionStatus(query.Status),
	})
	if err != nil {
		return nil, err
	}
	out := make([]application.AttendanceSession, 0, len(rows))
	for _, row := range rows {
		out = append(out, toApplicationSession(row))
	}
	return out, nil
}

type employeeDirectoryAdapter struct {
	repo persistence.EmployeeRepository
}

var _ application.EmployeeDirectory = (*employeeDirectoryAdapter)(nil)

func newEmployeeDirectoryAdapter(repo persistence.EmployeeRepository) *employeeDirectoryAdapter {
	return &employeeDirectoryAdapter{repo: repo}
}

func (a *employeeDirectoryAdapter) LookupEmployees(ctx context.Context, ids []string) (map[string]application.EmployeeIdentity, error) {
	if len(ids) == 0 {
		return map[string]application.EmployeeIdentity{}, nil
	}
	employees, err := a.repo.ListEmployeesByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make(map[string]application.EmployeeIdentity, len(employees))
	for _, e := range employees {
		out[e.ID] = application.EmployeeIdentity{
			ID:           e.ID,
			EmployeeCode: e.EmployeeCode,
			DisplayName:  e.DisplayName,
			Department:   e.Department,
		}
	}
	return out, nil
}

func toApplicationSession(model persistence.AttendanceSession) application.AttendanceSession {
	return application.AttendanceSession{
		ID:              model.ID,
		UserID:          model.UserID,
		Date:            model.Date,
		CheckIn:         model.CheckIn,
		CheckOut:        cloneTime(model.CheckOut),
		CheckInRemarks:  model.CheckInRemarks,
		CheckOutRemarks: cloneString(model.CheckOutRemarks),
		Status:          application.SessionStatus(model.Status),
		DurationMinutes: cloneInt(model.DurationMinutes),
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	}
}

func toPersistenceSession(session application.AttendanceSession) persistence.AttendanceSession {
	return persistence.AttendanceSession{
		ID:              session.ID,
		UserID:          session.UserID,
		Date:            session.Date,
		CheckIn:         session.CheckIn,
		CheckOut:        cloneTime(session.CheckOut),
		CheckInRemarks:  session.CheckInRemarks,
		CheckOutRemarks: cloneString(session.CheckOutRemarks),
		Status:          persistence.SessionStatus(session.Status),
		DurationMinutes: cloneInt(session.DurationMinutes),
		CreatedAt:       session.CreatedAt,
		UpdatedAt:       session.UpdatedAt,
	}
}

func cloneString(value *string) *string {
	if value == nil {
		return nil
	}
	clone := *value
	return &clone
}

func cloneTime(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	clone := *value
	return &clone
}

func cloneInt(value *int) *int {
	if value == nil {
		return nil
	}
	clone := *value
	return &clone
}
