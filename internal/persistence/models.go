package persistence

import "time"

// SessionStatus is the persisted lifecycle state of an attendance session.
type SessionStatus string

const (
	// SessionStatusActive marks a session with a check-in and no check-out.
	SessionStatusActive SessionStatus = "active"
	// SessionStatusCompleted marks a session that has been checked out.
	SessionStatusCompleted SessionStatus = "completed"
)

// AttendanceSession is one check-in/check-out cycle stored in attendance_sessions.
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

// Employee is a directory entry owned by the portal's identity collaborator.
type Employee struct {
	ID           string
	EmployeeCode string
	DisplayName  string
	Department   string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
