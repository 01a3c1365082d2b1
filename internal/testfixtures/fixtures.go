package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/attendance-portal/internal/application"
	"github.com/example/attendance-portal/internal/persistence"
)

var (
	employeeCounter uint64
	sessionCounter  uint64
)

// ----------------------------- Employee fixtures -----------------------------

// EmployeeFixture is a deterministic directory entry.
type EmployeeFixture struct {
	ID           string
	EmployeeCode string
	DisplayName  string
	Department   string
	CreatedAt    time.Time
}

type EmployeeOption func(*EmployeeFixture)

func NewEmployeeFixture(opts ...EmployeeOption) EmployeeFixture {
	idx := atomic.AddUint64(&employeeCounter, 1)
	fixture := EmployeeFixture{
		ID:           fmt.Sprintf("emp-%03d", idx),
		EmployeeCode: fmt.Sprintf("E-%03d", idx),
		DisplayName:  fmt.Sprintf("Employee %03d", idx),
		Department:   "Operations",
		CreatedAt:    Workday.Add(-24 * time.Hour),
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

func WithEmployeeID(id string) EmployeeOption {
	return func(f *EmployeeFixture) { f.ID = id }
}

func WithEmployeeCode(code string) EmployeeOption {
	return func(f *EmployeeFixture) { f.EmployeeCode = code }
}

func WithDisplayName(name string) EmployeeOption {
	return func(f *EmployeeFixture) { f.DisplayName = name }
}

func WithDepartment(department string) EmployeeOption {
	return func(f *EmployeeFixture) { f.Department = department }
}

// Persistence converts the fixture into the stored employee row.
func (f EmployeeFixture) Persistence() persistence.Employee {
	return persistence.Employee{
		ID:           f.ID,
		EmployeeCode: f.EmployeeCode,
		DisplayName:  f.DisplayName,
		Department:   f.Department,
		CreatedAt:    f.CreatedAt,
		UpdatedAt:    f.CreatedAt,
	}
}

// Identity converts the fixture into the application identity.
func (f EmployeeFixture) Identity() application.EmployeeIdentity {
	return application.EmployeeIdentity{
		ID:           f.ID,
		EmployeeCode: f.EmployeeCode,
		DisplayName:  f.DisplayName,
		Department:   f.Department,
	}
}

// ----------------------------- Session fixtures -----------------------------

// SessionFixture is a deterministic attendance session. It is active unless
// Completed is applied.
type SessionFixture struct {
	ID              string
	UserID          string
	CheckIn         time.Time
	CheckOut        *time.Time
	CheckInRemarks  string
	CheckOutRemarks *string
	Location        *time.Location
}

type SessionOption func(*SessionFixture)

func NewSessionFixture(opts ...SessionOption) SessionFixture {
	idx := atomic.AddUint64(&sessionCounter, 1)
	fixture := SessionFixture{
		ID:             fmt.Sprintf("session-%03d", idx),
		UserID:         "emp-001",
		CheckIn:        At(9, 0),
		CheckInRemarks: "Starting work",
		Location:       time.UTC,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

func WithSessionID(id string) SessionOption {
	return func(f *SessionFixture) { f.ID = id }
}

func WithSessionUser(userID string) SessionOption {
	return func(f *SessionFixture) { f.UserID = userID }
}

func WithCheckIn(at time.Time, remarks string) SessionOption {
	return func(f *SessionFixture) {
		f.CheckIn = at
		f.CheckInRemarks = remarks
	}
}

// WithSessionLocation sets the zone used to derive the session date.
func WithSessionLocation(loc *time.Location) SessionOption {
	return func(f *SessionFixture) { f.Location = loc }
}

// Completed checks the fixture out at the given instant.
func Completed(at time.Time, remarks string) SessionOption {
	return func(f *SessionFixture) {
		out := at
		f.CheckOut = &out
		f.CheckOutRemarks = &remarks
	}
}

// Date is the calendar date of the check-in in the fixture's zone.
func (f SessionFixture) Date() string {
	loc := f.Location
	if loc == nil {
		loc = time.UTC
	}
	return f.CheckIn.In(loc).Format("2006-01-02")
}

// Application converts the fixture into the application model, deriving
// status and duration the same way check-out does.
func (f SessionFixture) Application() application.AttendanceSession {
	session := application.AttendanceSession{
		ID:             f.ID,
		UserID:         f.UserID,
		Date:           f.Date(),
		CheckIn:        f.CheckIn.UTC(),
		CheckInRemarks: f.CheckInRemarks,
		Status:         application.SessionActive,
		CreatedAt:      f.CheckIn.UTC(),
		UpdatedAt:      f.CheckIn.UTC(),
	}
	if f.CheckOut != nil {
		out := f.CheckOut.UTC()
		minutes := application.RoundedMinutes(f.CheckIn, out)
		session.CheckOut = &out
		session.CheckOutRemarks = f.CheckOutRemarks
		session.DurationMinutes = &minutes
		session.Status = application.SessionCompleted
		session.UpdatedAt = out
	}
	return session
}

// Persistence converts the fixture into the stored row.
func (f SessionFixture) Persistence() persistence.AttendanceSession {
	s := f.Application()
	return persistence.AttendanceSession{
		ID:              s.ID,
		UserID:          s.UserID,
		Date:            s.Date,
		CheckIn:         s.CheckIn,
		CheckOut:        s.CheckOut,
		CheckInRemarks:  s.CheckInRemarks,
		CheckOutRemarks: s.CheckOutRemarks,
		Status:          persistence.SessionStatus(s.Status),
		DurationMinutes: s.DurationMinutes,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}
