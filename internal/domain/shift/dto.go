package shift

import (
	"time"

	"github.com/kapehan/cafe-workforce-backend-go/internal/pkg/validator"
)

type CreateShiftRequest struct {
	EmployeeID     string `json:"employee_id"`
	BranchID       string `json:"branch_id"`
	Position       string `json:"position"`
	ScheduledStart string `json:"scheduled_start"`
	ScheduledEnd   string `json:"scheduled_end"`
}

func (r *CreateShiftRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if validator.IsEmpty(r.BranchID) {
		errs = append(errs, validator.ValidationError{
			Field:   "branch_id",
			Message: "branch_id is required",
		})
	}

	start, okStart := validator.IsValidDateTime(r.ScheduledStart)
	if !okStart {
		errs = append(errs, validator.ValidationError{
			Field:   "scheduled_start",
			Message: "scheduled_start must be an ISO8601 timestamp",
		})
	}

	end, okEnd := validator.IsValidDateTime(r.ScheduledEnd)
	if !okEnd {
		errs = append(errs, validator.ValidationError{
			Field:   "scheduled_end",
			Message: "scheduled_end must be an ISO8601 timestamp",
		})
	}

	if okStart && okEnd && !end.After(start) {
		errs = append(errs, validator.ValidationError{
			Field:   "scheduled_end",
			Message: "scheduled_end must be after scheduled_start",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ClockRequest struct {
	At *string `json:"at,omitempty"` // defaults to now
}

func (r *ClockRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.At != nil {
		if _, ok := validator.IsValidDateTime(*r.At); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "at",
				Message: "at must be an ISO8601 timestamp",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ShiftFilter struct {
	EmployeeID *string
	BranchID   *string
	Status     *string
	From       *time.Time
	To         *time.Time
	Page       int
	Limit      int
}

type BreakResponse struct {
	ID             string  `json:"id"`
	Type           string  `json:"type"`
	ScheduledStart string  `json:"scheduled_start"`
	ScheduledEnd   string  `json:"scheduled_end"`
	ActualStart    *string `json:"actual_start,omitempty"`
	ActualEnd      *string `json:"actual_end,omitempty"`
	Paid           bool    `json:"paid"`
	Required       bool    `json:"required"`
}

type ShiftResponse struct {
	ID             string          `json:"id"`
	EmployeeID     string          `json:"employee_id"`
	BranchID       string          `json:"branch_id"`
	Position       string          `json:"position"`
	ScheduledStart string          `json:"scheduled_start"`
	ScheduledEnd   string          `json:"scheduled_end"`
	ActualStart    *string         `json:"actual_start,omitempty"`
	ActualEnd      *string         `json:"actual_end,omitempty"`
	Status         string          `json:"status"`
	Breaks         []BreakResponse `json:"breaks,omitempty"`
}

type ListShiftResponse struct {
	Data       []ShiftResponse `json:"data"`
	TotalCount int64           `json:"total_count"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
}
