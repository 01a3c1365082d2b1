package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/example/attendance-portal/internal/persistence"
)

const activeSessionIndex = "idx_attendance_sessions_one_active"

const sessionColumns = `id, user_id, session_date, check_in, check_out, check_in_remarks,
	check_out_remarks, status, duration_minutes, created_at, updated_at`

// AttendanceSessionRepository implements persistence.AttendanceSessionRepository using SQLite
type AttendanceSessionRepository struct {
	pool   *ConnectionPool
	mapper *ErrorMapper
}

// NewAttendanceSessionRepository creates a new SQLite attendance session repository
func NewAttendanceSessionRepository(pool *ConnectionPool) *AttendanceSessionRepository {
	return &AttendanceSessionRepository{
		pool:   pool,
		mapper: NewErrorMapper(),
	}
}

// CreateActiveSession inserts session only when its user has no active
// session. The check and the insert are one statement, and the partial
// unique index rejects anything that slips past it.
func (r *AttendanceSessionRepository) CreateActiveSession(ctx context.Context, session persistence.AttendanceSession) (persistence.AttendanceSession, error) {
	if err := validateNewSession(session); err != nil {
		return persistence.AttendanceSession{}, err
	}

	const query = `
		INSERT INTO attendance_sessions (` + sessionColumns + `)
		SELECT ?, ?, ?, ?, NULL, ?, NULL, 'active', NULL, ?, ?
		WHERE NOT EXISTS (
			SELECT 1 FROM attendance_sessions WHERE user_id = ? AND status = 'active'
		)`

	err := r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, query,
			session.ID,
			session.UserID,
			session.Date,
			formatTime(session.CheckIn),
			session.CheckInRemarks,
			formatTime(session.CreatedAt),
			formatTime(session.UpdatedAt),
			session.UserID,
		)
		if err != nil {
			return r.mapper.MapError(err)
		}

		inserted, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if inserted == 0 {
			return persistence.ErrActiveSessionExists
		}
		return nil
	})
	if err != nil {
		return persistence.AttendanceSession{}, err
	}

	session.Status = persistence.SessionStatusActive
	session.CheckOut = nil
	session.CheckOutRemarks = nil
	session.DurationMinutes = nil
	return cloneSession(session), nil
}

// CompleteActiveSession loads the user's active session, derives its
// completed form with complete and writes it back only while the row is
// still active.
func (r *AttendanceSessionRepository) CompleteActiveSession(ctx context.Context, userID string, complete persistence.CompletionFunc) (persistence.AttendanceSession, error) {
	if strings.TrimSpace(userID) == "" {
		return persistence.AttendanceSession{}, persistence.ErrNotFound
	}

	const update = `
		UPDATE attendance_sessions
		SET check_out = ?, check_out_remarks = ?, status = 'completed', duration_minutes = ?, updated_at = ?
		WHERE id = ? AND status = 'active'`

	var completed persistence.AttendanceSession
	err := r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx,
			`SELECT `+sessionColumns+` FROM attendance_sessions WHERE user_id = ? AND status = 'active'`,
			userID,
		)
		active, err := scanSession(row)
		if err != nil {
			return r.mapper.MapError(err)
		}

		next, err := complete(active)
		if err != nil {
			return err
		}
		if next.CheckOut == nil || next.DurationMinutes == nil {
			return fmt.Errorf("%w: completed session needs check-out and duration", persistence.ErrConstraintViolation)
		}

		result, err := tx.ExecContext(ctx, update,
			formatTime(*next.CheckOut),
			nullString(next.CheckOutRemarks),
			nullInt(next.DurationMinutes),
			formatTime(next.UpdatedAt),
			active.ID,
		)
		if err != nil {
			return r.mapper.MapError(err)
		}

		updated, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if updated == 0 {
			return persistence.ErrNotFound
		}

		next.ID = active.ID
		next.UserID = active.UserID
		next.Date = active.Date
		next.CheckIn = active.CheckIn
		next.CheckInRemarks = active.CheckInRemarks
		next.CreatedAt = active.CreatedAt
		next.Status = persistence.SessionStatusCompleted
		completed = next
		return nil
	})
	if err != nil {
		return persistence.AttendanceSession{}, err
	}

	return cloneSession(completed), nil
}

// GetActiveSession returns the user's active session or persistence.ErrNotFound.
func (r *AttendanceSessionRepository) GetActiveSession(ctx context.Context, userID string) (persistence.AttendanceSession, error) {
	row := r.pool.DB().QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM attendance_sessions WHERE user_id = ? AND status = 'active'`,
		userID,
	)
	session, err := scanSession(row)
	if err != nil {
		return persistence.AttendanceSession{}, r.mapper.MapError(err)
	}
	return session, nil
}

// ListSessions returns sessions matching filter ordered by check-in, then ID.
func (r *AttendanceSessionRepository) ListSessions(ctx context.Context, filter persistence.SessionFilter) ([]persistence.AttendanceSession, error) {
	var (
		clauses []string
		args    []any
	)
	if filter.UserID != "" {
		clauses = append(clauses, "user_id = ?")
		args = append(args, filter.UserID)
	}
	if filter.Date != "" {
		clauses = append(clauses, "session_date = ?")
		args = append(args, filter.Date)
	}
	if filter.Status != "" {
		clauses = append(clauses, "status = ?")
		args = append(args, string(filter.Status))
	}

	query := `SELECT ` + sessionColumns + ` FROM attendance_sessions`
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY check_in ASC, id ASC"

	rows, err := r.pool.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	sessions := make([]persistence.AttendanceSession, 0)
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}

	return sessions, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (persistence.AttendanceSession, error) {
	var session persistence.AttendanceSession
	var checkIn, createdAt, updatedAt, status string
	var checkOut, checkOutRemarks sql.NullString
	var duration sql.NullInt64

	if err := row.Scan(
		&session.ID,
		&session.UserID,
		&session.Date,
		&checkIn,
		&checkOut,
		&session.CheckInRemarks,
		&checkOutRemarks,
		&status,
		&duration,
		&createdAt,
		&updatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.AttendanceSession{}, sql.ErrNoRows
		}
		return persistence.AttendanceSession{}, fmt.Errorf("scan attendance session: %w", err)
	}

	var err error
	if session.CheckIn, err = parseTime(checkIn); err != nil {
		return persistence.AttendanceSession{}, err
	}
	if session.CheckOut, err = parseNullTime(checkOut); err != nil {
		return persistence.AttendanceSession{}, err
	}
	if session.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.AttendanceSession{}, err
	}
	if session.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return persistence.AttendanceSession{}, err
	}
	if checkOutRemarks.Valid {
		remarks := checkOutRemarks.String
		session.CheckOutRemarks = &remarks
	}
	if duration.Valid {
		minutes := int(duration.Int64)
		session.DurationMinutes = &minutes
	}
	session.Status = persistence.SessionStatus(status)

	return session, nil
}

func validateNewSession(session persistence.AttendanceSession) error {
	switch {
	case strings.TrimSpace(session.ID) == "",
		strings.TrimSpace(session.UserID) == "",
		strings.TrimSpace(session.Date) == "",
		session.CheckIn.IsZero():
		return persistence.ErrConstraintViolation
	}
	return nil
}

func cloneSession(session persistence.AttendanceSession) persistence.AttendanceSession {
	clone := session
	if session.CheckOut != nil {
		checkOut := *session.CheckOut
		clone.CheckOut = &checkOut
	}
	if session.CheckOutRemarks != nil {
		remarks := *session.CheckOutRemarks
		clone.CheckOutRemarks = &remarks
	}
	if session.DurationMinutes != nil {
		minutes := *session.DurationMinutes
		clone.DurationMinutes = &minutes
	}
	return clone
}
