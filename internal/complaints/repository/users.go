package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"citizenconnect_backend/platform/apperr"
)

// GetUser retrieves the user slice needed for assignment workflows.
func (r *Repo) GetUser(ctx context.Context, id uuid.UUID) (User, error) {
	var u User
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, email, role, department, ward
		FROM users WHERE id = $1`,
		id,
	).Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.Department, &u.Ward)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, apperr.NotFound("user not found")
		}
		return User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// ListAssignableEmployees retrieves a department's eligible employees with
// their active complaint counts, least busy first.
func (r *Repo) ListAssignableEmployees(ctx context.Context, department string) ([]EmployeeLoad, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT u.id, u.name, u.email, u.role, u.department, u.ward, COUNT(c.id) AS active_count
		FROM users u
		LEFT JOIN complaints c
			ON c.assigned_to_id = u.id
			AND c.status NOT IN ('Resolved', 'Closed')
		WHERE u.department = $1
			AND u.role IN ('DEPARTMENT_EMPLOYEE', 'DEPARTMENT_ADMIN')
		GROUP BY u.id
		ORDER BY active_count ASC, u.id ASC`,
		department,
	)
	if err != nil {
		return nil, fmt.Errorf("list assignable employees: %w", err)
	}
	defer rows.Close()

	var employees []EmployeeLoad
	for rows.Next() {
		var e EmployeeLoad
		if err := rows.Scan(&e.ID, &e.Name, &e.Email, &e.Role, &e.Department, &e.Ward, &e.ActiveCount); err != nil {
			return nil, fmt.Errorf("scan assignable employee: %w", err)
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}
