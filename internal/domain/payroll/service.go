package payroll

import "context"

// PayrollService orchestrates hour aggregation and deduction resolution into
// payroll entries.
type PayrollService interface {
	CreatePeriod(ctx context.Context, req CreatePeriodRequest) (PeriodResponse, error)
	ClosePeriod(ctx context.Context, periodID string) (PeriodResponse, error)
	MarkPeriodPaid(ctx context.Context, periodID string) (PeriodResponse, error)

	// RunPayroll computes draft entries for every employee with eligible hours
	// in an open period. Per-employee failures are reported, not fatal; runs
	// for the same period serialize. Recomputation over unchanged inputs is
	// idempotent.
	RunPayroll(ctx context.Context, periodID string) (RunPayrollResponse, error)

	GetEntry(ctx context.Context, employeeID, periodID string) (PayrollEntryResponse, error)
	ListEntries(ctx context.Context, periodID string) ([]PayrollEntryResponse, error)

	CreateAdjustment(ctx context.Context, req CreateAdjustmentRequest) (PayrollAdjustment, error)

	GetSettings(ctx context.Context, branchID string) (SettingsResponse, error)
	UpdateSettings(ctx context.Context, branchID string, req UpdateSettingsRequest) (SettingsResponse, error)
}
