package postgresql

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/kapehan/cafe-workforce-backend-go/internal/domain/employee"
	"github.com/kapehan/cafe-workforce-backend-go/internal/pkg/database"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, branch_id, name, position, role, hourly_rate, rest_day, is_active, created_at, updated_at
		FROM employees
		WHERE id = $1
	`

	var e employee.Employee
	var restDay int
	err := q.QueryRow(ctx, query, id).Scan(
		&e.ID,
		&e.BranchID,
		&e.Name,
		&e.Position,
		&e.Role,
		&e.HourlyRate,
		&restDay,
		&e.IsActive,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, err
	}
	e.RestDay = time.Weekday(restDay)

	return e, nil
}

func (r *employeeRepositoryImpl) GetActiveByBranchID(ctx context.Context, branchID string) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, branch_id, name, position, role, hourly_rate, rest_day, is_active, created_at, updated_at
		FROM employees
		WHERE branch_id = $1 AND is_active = true
		ORDER BY name ASC
	`

	rows, err := q.Query(ctx, query, branchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		var e employee.Employee
		var restDay int
		err := rows.Scan(
			&e.ID,
			&e.BranchID,
			&e.Name,
			&e.Position,
			&e.Role,
			&e.HourlyRate,
			&restDay,
			&e.IsActive,
			&e.CreatedAt,
			&e.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		e.RestDay = time.Weekday(restDay)
		employees = append(employees, e)
	}

	return employees, rows.Err()
}
