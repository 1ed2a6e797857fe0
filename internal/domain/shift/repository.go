package shift

import (
	"context"
	"time"
)

type ShiftRepository interface {
	Create(ctx context.Context, s Shift) (Shift, error)
	GetByID(ctx context.Context, id string) (Shift, error)
	List(ctx context.Context, filter ShiftFilter) ([]Shift, int64, error)

	SetActualStart(ctx context.Context, id string, at time.Time) error
	// CompleteShift records the actual end and moves the shift to completed in
	// one statement.
	CompleteShift(ctx context.Context, id string, at time.Time) error

	CreateBreaks(ctx context.Context, shiftID string, breaks []Break) ([]Break, error)
	GetBreakByID(ctx context.Context, breakID string) (Break, error)
	SetBreakActualStart(ctx context.Context, breakID string, at time.Time) error
	SetBreakActualEnd(ctx context.Context, breakID string, at time.Time) error

	// GetCompletedForPeriod returns completed shifts, with breaks loaded, whose
	// scheduled start falls inside [from, to] for one employee.
	GetCompletedForPeriod(ctx context.Context, employeeID string, from, to time.Time) ([]Shift, error)
}

type TimeEntryRepository interface {
	Append(ctx context.Context, entry TimeEntry) (TimeEntry, error)
	ListByEmployee(ctx context.Context, employeeID string, from, to time.Time) ([]TimeEntry, error)
}

type BreakPolicyRepository interface {
	GetAll(ctx context.Context) ([]BreakPolicy, error)
}
