package payroll

import (
	"context"
	"time"
)

type PayrollRepository interface {
	CreatePeriod(ctx context.Context, period PayrollPeriod) (PayrollPeriod, error)
	GetPeriodByID(ctx context.Context, id string) (PayrollPeriod, error)
	GetOpenPeriodByBranch(ctx context.Context, branchID string) (PayrollPeriod, error)
	// TransitionPeriod moves a period between statuses conditionally; a stale
	// `from` returns ErrPeriodNotOpen.
	TransitionPeriod(ctx context.Context, id string, from, to PeriodStatus) (PayrollPeriod, error)

	// UpsertDraftEntry inserts or overwrites the draft entry keyed by
	// (employee_id, period_id). Overwriting a finalized entry returns
	// ErrEntryFinalized.
	UpsertDraftEntry(ctx context.Context, entry PayrollEntry) (PayrollEntry, error)
	GetEntry(ctx context.Context, employeeID, periodID string) (PayrollEntry, error)
	ListEntriesByPeriod(ctx context.Context, periodID string) ([]PayrollEntry, error)

	CreateAdjustment(ctx context.Context, adj PayrollAdjustment) (PayrollAdjustment, error)
	GetAdjustmentsForPeriod(ctx context.Context, periodID string) ([]PayrollAdjustment, error)

	GetSettings(ctx context.Context, branchID string) (PayrollSettings, error)
	UpsertSettings(ctx context.Context, settings PayrollSettings) (PayrollSettings, error)
}

type BracketRepository interface {
	// GetEffective returns the bracket table for a type as of the given date,
	// ordered by min salary ascending.
	GetEffective(ctx context.Context, typ DeductionType, onDate time.Time) ([]DeductionBracket, error)
}

type HolidayRepository interface {
	GetRange(ctx context.Context, from, to time.Time) ([]Holiday, error)
}
