package postgres

import (
	"time"

	"github.com/example/attendance-portal/internal/persistence"
)

type sessionRecord struct {
	ID              string     `gorm:"column:id;type:text;primaryKey"`
	UserID          string     `gorm:"column:user_id;type:text;not null;index:idx_attendance_sessions_user_status,priority:1;index:idx_attendance_sessions_user_date,priority:1"`
	SessionDate     string     `gorm:"column:session_date;type:char(10);not null;index:idx_attendance_sessions_user_date,priority:2"`
	CheckIn         time.Time  `gorm:"column:check_in;type:timestamptz;not null;index:idx_attendance_sessions_check_in"`
	CheckOut        *time.Time `gorm:"column:check_out;type:timestamptz"`
	CheckInRemarks  string     `gorm:"column:check_in_remarks;type:text;not null;default:''"`
	CheckOutRemarks *string    `gorm:"column:check_out_remarks;type:text"`
	Status          string     `gorm:"column:status;type:varchar(16);not null;index:idx_attendance_sessions_user_status,priority:2"`
	DurationMinutes *int       `gorm:"column:duration_minutes"`
	CreatedAt       time.Time  `gorm:"column:created_at;type:timestamptz;not null;autoCreateTime:false"`
	UpdatedAt       time.Time  `gorm:"column:updated_at;type:timestamptz;not null;autoUpdateTime:false"`
}

func (sessionRecord) TableName() string { return "attendance_sessions" }

type employeeRecord struct {
	ID           string    `gorm:"column:id;type:text;primaryKey"`
	EmployeeCode string    `gorm:"column:employee_code;type:text;not null;uniqueIndex:idx_employees_code"`
	DisplayName  string    `gorm:"column:display_name;type:text;not null"`
	Department   string    `gorm:"column:department;type:text;not null;default:''"`
	CreatedAt    time.Time `gorm:"column:created_at;type:timestamptz;not null;autoCreateTime:false"`
	UpdatedAt    time.Time `gorm:"column:updated_at;type:timestamptz;not null;autoUpdateTime:false"`
}

func (employeeRecord) TableName() string { return "employees" }

func toSessionRecord(s persistence.AttendanceSession) sessionRecord {
	return sessionRecord{
		ID:              s.ID,
		UserID:          s.UserID,
		SessionDate:     s.Date,
		CheckIn:         s.CheckIn.UTC(),
		CheckOut:        utcPtr(s.CheckOut),
		CheckInRemarks:  s.CheckInRemarks,
		CheckOutRemarks: s.CheckOutRemarks,
		Status:          string(s.Status),
		DurationMinutes: s.DurationMinutes,
		CreatedAt:       s.CreatedAt.UTC(),
		UpdatedAt:       s.UpdatedAt.UTC(),
	}
}

func (r sessionRecord) model() persistence.AttendanceSession {
	session := persistence.AttendanceSession{
		ID:             r.ID,
		UserID:         r.UserID,
		Date:           r.SessionDate,
		CheckIn:        r.CheckIn.UTC(),
		CheckOut:       utcPtr(r.CheckOut),
		CheckInRemarks: r.CheckInRemarks,
		Status:         persistence.SessionStatus(r.Status),
		CreatedAt:      r.CreatedAt.UTC(),
		UpdatedAt:      r.UpdatedAt.UTC(),
	}
	if r.CheckOutRemarks != nil {
		remarks := *r.CheckOutRemarks
		session.CheckOutRemarks = &remarks
	}
	if r.DurationMinutes != nil {
		minutes := *r.DurationMinutes
		session.DurationMinutes = &minutes
	}
	return session
}

func toEmployeeRecord(e persistence.Employee) employeeRecord {
	return employeeRecord{
		ID:           e.ID,
		EmployeeCode: e.EmployeeCode,
		DisplayName:  e.DisplayName,
		Department:   e.Department,
		CreatedAt:    e.CreatedAt.UTC(),
		UpdatedAt:    e.UpdatedAt.UTC(),
	}
}

func (r employeeRecord) model() persistence.Employee {
	return persistence.Employee{
		ID:           r.ID,
		EmployeeCode: r.EmployeeCode,
		DisplayName:  r.DisplayName,
		Department:   r.Department,
		CreatedAt:    r.CreatedAt.UTC(),
		UpdatedAt:    r.UpdatedAt.UTC(),
	}
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	utc := t.UTC()
	return &utc
}
