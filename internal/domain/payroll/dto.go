package payroll

import (
	"github.com/kapehan/cafe-workforce-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreatePeriodRequest struct {
	BranchID  string `json:"branch_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func (r *CreatePeriodRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.BranchID) {
		errs = append(errs, validator.ValidationError{
			Field:   "branch_id",
			Message: "branch_id is required",
		})
	}

	start, okStart := validator.IsValidDate(r.StartDate)
	if !okStart {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be YYYY-MM-DD",
		})
	}

	end, okEnd := validator.IsValidDate(r.EndDate)
	if !okEnd {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be YYYY-MM-DD",
		})
	}

	if okStart && okEnd && end.Before(start) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must not be before start_date",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type CreateAdjustmentRequest struct {
	EmployeeID string          `json:"employee_id"`
	PeriodID   string          `json:"period_id"`
	Name       string          `json:"name"`
	Type       string          `json:"type"`
	Amount     decimal.Decimal `json:"amount"`
}

func (r *CreateAdjustmentRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if validator.IsEmpty(r.PeriodID) {
		errs = append(errs, validator.ValidationError{
			Field:   "period_id",
			Message: "period_id is required",
		})
	}

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}

	if !validator.IsInSlice(r.Type, []string{string(AdjustmentAllowance), string(AdjustmentDeduction)}) {
		errs = append(errs, validator.ValidationError{
			Field:   "type",
			Message: "type must be allowance or deduction",
		})
	}

	if r.Amount.LessThanOrEqual(decimal.Zero) {
		errs = append(errs, validator.ValidationError{
			Field:   "amount",
			Message: "amount must be positive",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UpdateSettingsRequest struct {
	OvertimeMultiplier       *decimal.Decimal `json:"overtime_multiplier,omitempty"`
	NightDiffMultiplier      *decimal.Decimal `json:"night_diff_multiplier,omitempty"`
	HolidayMultiplier        *decimal.Decimal `json:"holiday_multiplier,omitempty"`
	RestDayMultiplier        *decimal.Decimal `json:"rest_day_multiplier,omitempty"`
	MonthlyEquivalenceFactor *decimal.Decimal `json:"monthly_equivalence_factor,omitempty"`
}

func (r *UpdateSettingsRequest) Validate() error {
	var errs validator.ValidationErrors

	check := func(field string, v *decimal.Decimal) {
		if v != nil && v.LessThanOrEqual(decimal.Zero) {
			errs = append(errs, validator.ValidationError{
				Field:   field,
				Message: field + " must be positive",
			})
		}
	}
	check("overtime_multiplier", r.OvertimeMultiplier)
	check("night_diff_multiplier", r.NightDiffMultiplier)
	check("holiday_multiplier", r.HolidayMultiplier)
	check("rest_day_multiplier", r.RestDayMultiplier)
	check("monthly_equivalence_factor", r.MonthlyEquivalenceFactor)

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type HourBucketsResponse struct {
	RegularHours   decimal.Decimal `json:"regular_hours"`
	OvertimeHours  decimal.Decimal `json:"overtime_hours"`
	HolidayHours   decimal.Decimal `json:"holiday_hours"`
	RestDayHours   decimal.Decimal `json:"rest_day_hours"`
	NightDiffHours decimal.Decimal `json:"night_diff_hours"`
}

type PayrollEntryResponse struct {
	ID               string                     `json:"id"`
	EmployeeID       string                     `json:"employee_id"`
	PeriodID         string                     `json:"period_id"`
	HourlyRate       decimal.Decimal            `json:"hourly_rate"`
	Hours            HourBucketsResponse        `json:"hours"`
	RegularPay       decimal.Decimal            `json:"regular_pay"`
	OvertimePay      decimal.Decimal            `json:"overtime_pay"`
	HolidayPay       decimal.Decimal            `json:"holiday_pay"`
	RestDayPay       decimal.Decimal            `json:"rest_day_pay"`
	NightDiffPay     decimal.Decimal            `json:"night_diff_pay"`
	AllowanceTotal   decimal.Decimal            `json:"allowance_total"`
	GrossPay         decimal.Decimal            `json:"gross_pay"`
	DeductionsDetail map[string]decimal.Decimal `json:"deductions_detail"`
	TotalDeductions  decimal.Decimal            `json:"total_deductions"`
	NetPay           decimal.Decimal            `json:"net_pay"`
	Status           string                     `json:"status"`
}

// EmployeeFailure records one employee whose computation failed without
// aborting the batch.
type EmployeeFailure struct {
	EmployeeID string `json:"employee_id"`
	Error      string `json:"error"`
}

type RunPayrollResponse struct {
	PeriodID string                 `json:"period_id"`
	Entries  []PayrollEntryResponse `json:"entries"`
	Failures []EmployeeFailure      `json:"failures,omitempty"`
}

type PeriodResponse struct {
	ID        string `json:"id"`
	BranchID  string `json:"branch_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Status    string `json:"status"`
}

type SettingsResponse struct {
	BranchID                 string          `json:"branch_id"`
	OvertimeMultiplier       decimal.Decimal `json:"overtime_multiplier"`
	NightDiffMultiplier      decimal.Decimal `json:"night_diff_multiplier"`
	HolidayMultiplier        decimal.Decimal `json:"holiday_multiplier"`
	RestDayMultiplier        decimal.Decimal `json:"rest_day_multiplier"`
	MonthlyEquivalenceFactor decimal.Decimal `json:"monthly_equivalence_factor"`
}
