package response

import (
	"errors"
	"net/http"

	"github.com/kapehan/cafe-workforce-backend-go/internal/domain/employee"
	"github.com/kapehan/cafe-workforce-backend-go/internal/domain/payroll"
	"github.com/kapehan/cafe-workforce-backend-go/internal/domain/shift"
	"github.com/kapehan/cafe-workforce-backend-go/internal/domain/workflow"
	"github.com/kapehan/cafe-workforce-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Bracket-table failures carry their own context
	var compErr *payroll.ComputationError
	if errors.As(err, &compErr) {
		UnprocessableEntity(w, compErr.Error(), nil)
		return
	}

	switch {
	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmployeeInactive):
		BadRequest(w, "Employee is inactive", nil)
	case errors.Is(err, employee.ErrManagerAccessRequired):
		Forbidden(w, "Manager access required")

	// Shift domain errors
	case errors.Is(err, shift.ErrShiftNotFound):
		NotFound(w, "Shift not found")
	case errors.Is(err, shift.ErrShiftNotOwned):
		Forbidden(w, "Shift does not belong to this employee")
	case errors.Is(err, shift.ErrShiftNotScheduled):
		Conflict(w, "Shift is not in scheduled status")
	case errors.Is(err, shift.ErrAlreadyClockedIn):
		Conflict(w, "Shift already has a clock-in")
	case errors.Is(err, shift.ErrAlreadyClockedOut):
		Conflict(w, "Shift already has a clock-out")
	case errors.Is(err, shift.ErrNotClockedIn):
		Conflict(w, "Shift has no clock-in yet")
	case errors.Is(err, shift.ErrBreakNotFound):
		NotFound(w, "Break not found")
	case errors.Is(err, shift.ErrBreakAlreadyActive):
		Conflict(w, "Break already started")
	case errors.Is(err, shift.ErrBreakAlreadyEnded):
		Conflict(w, "Break already ended")
	case errors.Is(err, shift.ErrBreakNotStarted):
		Conflict(w, "Break has not started")

	// Workflow domain errors
	case errors.Is(err, workflow.ErrTradeNotFound):
		NotFound(w, "Trade request not found")
	case errors.Is(err, workflow.ErrTradeNotPending):
		Conflict(w, "Trade request is no longer pending")
	case errors.Is(err, workflow.ErrTradeSelfClaim):
		BadRequest(w, "Cannot claim your own trade request", nil)
	case errors.Is(err, workflow.ErrTradeNotDirected):
		Forbidden(w, "Trade request is directed to another employee")
	case errors.Is(err, workflow.ErrTradeOpenExists):
		Conflict(w, "Shift already has an open trade request")
	case errors.Is(err, workflow.ErrTradeNotWithdrawable):
		Forbidden(w, "Only the requester may withdraw a pending trade")
	case errors.Is(err, workflow.ErrDropNotFound):
		NotFound(w, "Drop request not found")
	case errors.Is(err, workflow.ErrDropAlreadyResolved):
		Conflict(w, "Drop request already resolved")
	case errors.Is(err, workflow.ErrDropNotApproved):
		Conflict(w, "Drop request is not approved for pickup")
	case errors.Is(err, workflow.ErrDropActiveExists):
		Conflict(w, "Shift already has an active drop request")
	case errors.Is(err, workflow.ErrDropSelfPickup):
		BadRequest(w, "Cannot pick up your own dropped shift", nil)
	case errors.Is(err, workflow.ErrTimeOffNotFound):
		NotFound(w, "Time-off request not found")
	case errors.Is(err, workflow.ErrTimeOffAlreadyProcessed):
		Conflict(w, "Time-off request already processed")
	case errors.Is(err, workflow.ErrTimeOffOverlap):
		UnprocessableEntity(w, "Time-off range overlaps an approved request", nil)

	// Payroll domain errors
	case errors.Is(err, payroll.ErrPeriodNotFound):
		NotFound(w, "Payroll period not found")
	case errors.Is(err, payroll.ErrPeriodNotOpen):
		Conflict(w, "Payroll period is not open")
	case errors.Is(err, payroll.ErrOpenPeriodExists):
		Conflict(w, "Branch already has an open payroll period")
	case errors.Is(err, payroll.ErrEntryNotFound):
		NotFound(w, "Payroll entry not found")
	case errors.Is(err, payroll.ErrEntryFinalized):
		Conflict(w, "Payroll entry is no longer a draft")
	case errors.Is(err, payroll.ErrPayrollRunInProgress):
		Conflict(w, "Payroll run already in progress for this period")
	case errors.Is(err, payroll.ErrNegativeNetPay):
		UnprocessableEntity(w, "Net pay would be negative", nil)
	case errors.Is(err, payroll.ErrSettingsNotFound):
		NotFound(w, "Payroll settings not found")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
