package payroll

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrPeriodNotFound       = errors.New("Payroll period not found")
	ErrPeriodNotOpen        = errors.New("Payroll period is not open")
	ErrOpenPeriodExists     = errors.New("Branch already has an open payroll period")
	ErrEntryNotFound        = errors.New("Payroll entry not found")
	ErrEntryFinalized       = errors.New("Payroll entry is no longer a draft")
	ErrNegativeNetPay       = errors.New("Net pay would be negative")
	ErrPayrollRunInProgress = errors.New("Payroll run already in progress for this period")
	ErrSettingsNotFound     = errors.New("Payroll settings not found")
)

// ComputationError reports a bracket-table failure with enough context to
// diagnose: who, which period, which table, at what salary.
type ComputationError struct {
	EmployeeID string
	PeriodID   string
	Bracket    DeductionType
	Salary     decimal.Decimal
	Reason     string
}

func (e *ComputationError) Error() string {
	if e.EmployeeID == "" {
		return fmt.Sprintf("payroll computation failed: %s table: %s", e.Bracket, e.Reason)
	}
	return fmt.Sprintf("payroll computation failed for employee %s in period %s: %s table at salary %s: %s",
		e.EmployeeID, e.PeriodID, e.Bracket, e.Salary, e.Reason)
}
