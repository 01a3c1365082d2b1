package application

import "time"

// Principal represents the authenticated user invoking a service method.
type Principal struct {
	UserID  string
	IsAdmin bool
}

// SessionStatus is the lifecycle state of an attendance session.
type SessionStatus string

const (
	SessionActive    SessionStatus = "active"
	SessionCompleted SessionStatus = "completed"
)

// AttendanceSession is one check-in/check-out cycle of one user.
type AttendanceSession struct {
	ID              string
	UserID          string
	Date            string
	CheckIn         time.Time
	CheckOut        *time.Time
	CheckInRemarks  string
	CheckOutRemarks *string
	Status          SessionStatus
	DurationMinutes *int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsActive reports whether the session is still open.
func (s AttendanceSession) IsActive() bool {
	return s.Status == SessionActive
}

// DayState summarises a user's attendance for a day.
type DayState string

const (
	DayActive   DayState = "active"
	DayInactive DayState = "inactive"
)

// TodayStatus is a point-in-time snapshot of the caller's day. TotalMinutes
// includes the live elapsed time of an active session, so it may grow between
// calls without any write.
type TodayStatus struct {
	Date           string
	Status         DayState
	Logs           []AttendanceSession
	TotalMinutes   int
	FormattedTotal string
	ActiveSession  *AttendanceSession
}

// EmployeeIdentity is the display identity of a user, owned by the employee directory.
type EmployeeIdentity struct {
	ID           string
	EmployeeCode string
	DisplayName  string
	Department   string
}

// AdminListFilter narrows the organisation-wide session list. Limit and
// Offset window the filtered result; a zero Limit means no window.
type AdminListFilter struct {
	Search     string
	EmployeeID string
	Limit      int
	Offset     int
}

// AdminSessionRow joins a session with its owner's identity.
type AdminSessionRow struct {
	Session  AttendanceSession
	Employee EmployeeIdentity
}

// AdminSessionList is the result of ListAll. Total counts matches before windowing.
type AdminSessionList struct {
	Rows  []AdminSessionRow
	Total int
}

// HistorySummary aggregates an employee's session log.
type HistorySummary struct {
	TotalSessions     int
	CompletedSessions int
	TotalMinutes      int
	AverageMinutes    int
}

// EmployeeHistory is an employee's full timeline, newest first.
type EmployeeHistory struct {
	EmployeeID string
	Employee   *EmployeeIdentity
	Sessions   []AttendanceSession
	Summary    HistorySummary
}

// SessionQuery narrows session reads. Empty fields are ignored.
type SessionQuery struct {
	UserID string
	Date   string
	Status SessionStatus
}
