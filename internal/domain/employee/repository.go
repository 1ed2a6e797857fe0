package employee

import "context"

type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	GetActiveByBranchID(ctx context.Context, branchID string) ([]Employee, error)
}
