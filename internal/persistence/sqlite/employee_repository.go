package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/example/attendance-portal/internal/persistence"
)

// EmployeeRepository implements persistence.EmployeeRepository using SQLite
type EmployeeRepository struct {
	pool   *ConnectionPool
	mapper *ErrorMapper
}

// NewEmployeeRepository creates a new SQLite employee repository
func NewEmployeeRepository(pool *ConnectionPool) *EmployeeRepository {
	return &EmployeeRepository{
		pool:   pool,
		mapper: NewErrorMapper(),
	}
}

// UpsertEmployee inserts or replaces a directory entry, keeping its original
// created_at.
func (r *EmployeeRepository) UpsertEmployee(ctx context.Context, employee persistence.Employee) error {
	if strings.TrimSpace(employee.ID) == "" || strings.TrimSpace(employee.EmployeeCode) == "" {
		return persistence.ErrConstraintViolation
	}

	const query = `
		INSERT INTO employees (id, employee_code, display_name, department, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			employee_code = excluded.employee_code,
			display_name = excluded.display_name,
			department = excluded.department,
			updated_at = excluded.updated_at`

	_, err := r.pool.DB().ExecContext(ctx, query,
		employee.ID,
		strings.TrimSpace(employee.EmployeeCode),
		strings.TrimSpace(employee.DisplayName),
		strings.TrimSpace(employee.Department),
		formatTime(employee.CreatedAt),
		formatTime(employee.UpdatedAt),
	)
	if err != nil {
		return r.mapper.MapError(err)
	}
	return nil
}

// GetEmployee retrieves an employee by ID
func (r *EmployeeRepository) GetEmployee(ctx context.Context, id string) (persistence.Employee, error) {
	row := r.pool.DB().QueryRowContext(ctx,
		`SELECT id, employee_code, display_name, department, created_at, updated_at FROM employees WHERE id = ?`,
		id,
	)
	employee, err := scanEmployee(row)
	if err != nil {
		return persistence.Employee{}, r.mapper.MapError(err)
	}
	return employee, nil
}

// ListEmployeesByIDs returns the employees among ids, ordered by ID. Unknown
// IDs are skipped.
func (r *EmployeeRepository) ListEmployeesByIDs(ctx context.Context, ids []string) ([]persistence.Employee, error) {
	employees := make([]persistence.Employee, 0, len(ids))
	if len(ids) == 0 {
		return employees, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := r.pool.DB().QueryContext(ctx,
		`SELECT id, employee_code, display_name, department, created_at, updated_at
		FROM employees WHERE id IN (`+placeholders+`) ORDER BY id`,
		args...,
	)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	for rows.Next() {
		employee, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, employee)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}
	return employees, nil
}

func scanEmployee(row rowScanner) (persistence.Employee, error) {
	var employee persistence.Employee
	var createdAt, updatedAt string
	if err := row.Scan(
		&employee.ID,
		&employee.EmployeeCode,
		&employee.DisplayName,
		&employee.Department,
		&createdAt,
		&updatedAt,
	); err != nil {
		return persistence.Employee{}, err
	}

	var err error
	if employee.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.Employee{}, fmt.Errorf("employee %s: %w", employee.ID, err)
	}
	if employee.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return persistence.Employee{}, fmt.Errorf("employee %s: %w", employee.ID, err)
	}
	return employee, nil
}
