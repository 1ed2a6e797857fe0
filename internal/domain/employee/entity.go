package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

// Role enum
type Role string

const (
	RoleStaff   Role = "staff"
	RoleManager Role = "manager"
	RoleOwner   Role = "owner"
)

type Employee struct {
	ID         string
	BranchID   string
	Name       string
	Position   string
	Role       Role
	HourlyRate decimal.Decimal
	// RestDay is the employee's designated non-working weekday. Work performed
	// on it lands in the rest-day bucket.
	RestDay  time.Weekday
	IsActive bool

	CreatedAt time.Time
	UpdatedAt time.Time
}
