// Package postgres is the PostgreSQL persistence backend, built on gorm. It
// serves the same persistence.Store contract as the SQLite backend.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/example/attendance-portal/internal/persistence"
)

const activeSessionIndex = "idx_attendance_sessions_one_active"

// Storage implements persistence.Store on PostgreSQL.
type Storage struct {
	db *gorm.DB
}

var _ persistence.Store = (*Storage)(nil)

// Open connects to dsn and tunes the connection pool.
func Open(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, errors.New("postgres: dsn is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger:         newSlogLogger(logger.With(slog.String("storage", "postgres"))),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("postgres: pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxIdleTime(time.Minute)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}

	return &Storage{db: db}, nil
}

// Migrate creates the tables and indexes. The partial unique index has no
// struct tag form, so it is created explicitly.
func (s *Storage) Migrate(ctx context.Context) error {
	db := s.db.WithContext(ctx)
	if err := db.AutoMigrate(&employeeRecord{}, &sessionRecord{}); err != nil {
		return fmt.Errorf("postgres: automigrate: %w", err)
	}

	statements := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS ` + activeSessionIndex + ` ON attendance_sessions (user_id) WHERE status = 'active'`,
		`DO $$ BEGIN
			ALTER TABLE attendance_sessions ADD CONSTRAINT chk_attendance_sessions_status
				CHECK (status IN ('active', 'completed'));
		EXCEPTION WHEN duplicate_object THEN NULL;
		END $$`,
	}
	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("postgres: migrate: %w", err)
		}
	}
	return nil
}

// Ping verifies the database is reachable.
func (s *Storage) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the connection pool.
func (s *Storage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// CreateActiveSession inserts session unless its user already has an active
// one. Concurrent inserts that pass the NOT EXISTS check are stopped by the
// partial unique index.
func (s *Storage) CreateActiveSession(ctx context.Context, session persistence.AttendanceSession) (persistence.AttendanceSession, error) {
	if session.ID == "" || session.UserID == "" || session.Date == "" || session.CheckIn.IsZero() {
		return persistence.AttendanceSession{}, persistence.ErrConstraintViolation
	}

	session.Status = persistence.SessionStatusActive
	session.CheckOut = nil
	session.CheckOutRemarks = nil
	session.DurationMinutes = nil
	rec := toSessionRecord(session)

	result := s.db.WithContext(ctx).Exec(`
		INSERT INTO attendance_sessions
			(id, user_id, session_date, check_in, check_in_remarks, status, created_at, updated_at)
		SELECT ?, ?, ?, ?, ?, 'active', ?, ?
		WHERE NOT EXISTS (
			SELECT 1 FROM attendance_sessions WHERE user_id = ? AND status = 'active'
		)`,
		rec.ID, rec.UserID, rec.SessionDate, rec.CheckIn, rec.CheckInRemarks, rec.CreatedAt, rec.UpdatedAt,
		rec.UserID,
	)
	if result.Error != nil {
		return persistence.AttendanceSession{}, mapSessionError(result.Error)
	}
	if result.RowsAffected == 0 {
		return persistence.AttendanceSession{}, persistence.ErrActiveSessionExists
	}

	return rec.model(), nil
}

// CompleteActiveSession locks the user's active row, derives its completed
// form and writes it while the row is still active.
func (s *Storage) CompleteActiveSession(ctx context.Context, userID string, complete persistence.CompletionFunc) (persistence.AttendanceSession, error) {
	var completed persistence.AttendanceSession

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rec sessionRecord
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND status = ?", userID, string(persistence.SessionStatusActive)).
			First(&rec).Error
		if err != nil {
			return mapSessionError(err)
		}

		active := rec.model()
		next, err := complete(active)
		if err != nil {
			return err
		}
		if next.CheckOut == nil || next.DurationMinutes == nil {
			return fmt.Errorf("%w: completed session needs check-out and duration", persistence.ErrConstraintViolation)
		}

		result := tx.Model(&sessionRecord{}).
			Where("id = ? AND status = ?", active.ID, string(persistence.SessionStatusActive)).
			Updates(map[string]any{
				"check_out":         next.CheckOut.UTC(),
				"check_out_remarks": next.CheckOutRemarks,
				"status":            string(persistence.SessionStatusCompleted),
				"duration_minutes":  *next.DurationMinutes,
				"updated_at":        next.UpdatedAt.UTC(),
			})
		if result.Error != nil {
			return mapSessionError(result.Error)
		}
		if result.RowsAffected == 0 {
			return persistence.ErrNotFound
		}

		next.ID = active.ID
		next.UserID = active.UserID
		next.Date = active.Date
		next.CheckIn = active.CheckIn
		next.CheckInRemarks = active.CheckInRemarks
		next.CreatedAt = active.CreatedAt
		next.Status = persistence.SessionStatusCompleted
		completed = toSessionRecord(next).model()
		return nil
	})
	if err != nil {
		return persistence.AttendanceSession{}, err
	}
	return completed, nil
}

// GetActiveSession returns the user's active session or persistence.ErrNotFound.
func (s *Storage) GetActiveSession(ctx context.Context, userID string) (persistence.AttendanceSession, error) {
	var rec sessionRecord
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, string(persistence.SessionStatusActive)).
		First(&rec).Error
	if err != nil {
		return persistence.AttendanceSession{}, mapSessionError(err)
	}
	return rec.model(), nil
}

// ListSessions returns sessions matching filter ordered by check-in, then ID.
func (s *Storage) ListSessions(ctx context.Context, filter persistence.SessionFilter) ([]persistence.AttendanceSession, error) {
	query := s.db.WithContext(ctx).Model(&sessionRecord{})
	if filter.UserID != "" {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Date != "" {
		query = query.Where("session_date = ?", filter.Date)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}

	var records []sessionRecord
	if err := query.Order("check_in ASC").Order("id ASC").Find(&records).Error; err != nil {
		return nil, mapSessionError(err)
	}

	sessions := make([]persistence.AttendanceSession, 0, len(records))
	for _, rec := range records {
		sessions = append(sessions, rec.model())
	}
	return sessions, nil
}

// UpsertEmployee inserts or updates a directory entry, keeping created_at.
func (s *Storage) UpsertEmployee(ctx context.Context, employee persistence.Employee) error {
	if strings.TrimSpace(employee.ID) == "" || strings.TrimSpace(employee.EmployeeCode) == "" {
		return persistence.ErrConstraintViolation
	}

	rec := toEmployeeRecord(employee)
	rec.EmployeeCode = strings.TrimSpace(rec.EmployeeCode)
	rec.DisplayName = strings.TrimSpace(rec.DisplayName)
	rec.Department = strings.TrimSpace(rec.Department)

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"employee_code", "display_name", "department", "updated_at"}),
	}).Create(&rec).Error
	return mapError(err)
}

// GetEmployee retrieves an employee by ID
func (s *Storage) GetEmployee(ctx context.Context, id string) (persistence.Employee, error) {
	var rec employeeRecord
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error; err != nil {
		return persistence.Employee{}, mapError(err)
	}
	return rec.model(), nil
}

// ListEmployeesByIDs returns the employees among ids, ordered by ID.
func (s *Storage) ListEmployeesByIDs(ctx context.Context, ids []string) ([]persistence.Employee, error) {
	employees := make([]persistence.Employee, 0, len(ids))
	if len(ids) == 0 {
		return employees, nil
	}

	var records []employeeRecord
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Order("id ASC").Find(&records).Error; err != nil {
		return nil, mapError(err)
	}
	for _, rec := range records {
		employees = append(employees, rec.model())
	}
	return employees, nil
}

// mapError translates gorm errors, which TranslateError normalises across
// dialects, into persistence sentinels.
func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return persistence.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", persistence.ErrDuplicate, err)
	case errors.Is(err, gorm.ErrForeignKeyViolated), errors.Is(err, gorm.ErrCheckConstraintViolated):
		return fmt.Errorf("%w: %v", persistence.ErrConstraintViolation, err)
	}
	return err
}

// mapSessionError treats any duplicate key on attendance_sessions inserts as
// the active session index firing.
func mapSessionError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %v", persistence.ErrActiveSessionExists, err)
	}
	return mapError(err)
}
