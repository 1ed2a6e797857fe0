package workflow

import (
	"time"

	"github.com/kapehan/cafe-workforce-backend-go/internal/pkg/validator"
)

type CreateTradeRequest struct {
	ShiftID      string  `json:"shift_id"`
	ToEmployeeID *string `json:"to_employee_id,omitempty"`
	Reason       *string `json:"reason,omitempty"`
}

func (r *CreateTradeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ShiftID) {
		errs = append(errs, validator.ValidationError{
			Field:   "shift_id",
			Message: "shift_id is required",
		})
	}

	if r.ToEmployeeID != nil && validator.IsEmpty(*r.ToEmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "to_employee_id",
			Message: "to_employee_id must not be blank when present",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type CreateDropRequest struct {
	ShiftID string  `json:"shift_id"`
	Reason  *string `json:"reason,omitempty"`
}

func (r *CreateDropRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ShiftID) {
		errs = append(errs, validator.ValidationError{
			Field:   "shift_id",
			Message: "shift_id is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ResolveDropRequest struct {
	Decision string `json:"decision"`
}

func (r *ResolveDropRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsInSlice(r.Decision, []string{string(DropDecisionApprove), string(DropDecisionReject)}) {
		errs = append(errs, validator.ValidationError{
			Field:   "decision",
			Message: "decision must be approve or reject",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type CreateTimeOffRequest struct {
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
	Type      string  `json:"type"`
	Reason    *string `json:"reason,omitempty"`
}

func (r *CreateTimeOffRequest) Validate() error {
	var errs validator.ValidationErrors

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

	validTypes := []string{
		string(TimeOffTypeVacation),
		string(TimeOffTypeSick),
		string(TimeOffTypePersonal),
		string(TimeOffTypeOther),
	}
	if !validator.IsInSlice(r.Type, validTypes) {
		errs = append(errs, validator.ValidationError{
			Field:   "type",
			Message: "type must be one of vacation, sick, personal, other",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type TradeResponse struct {
	ID             string  `json:"id"`
	ShiftID        string  `json:"shift_id"`
	FromEmployeeID string  `json:"from_employee_id"`
	ToEmployeeID   *string `json:"to_employee_id,omitempty"`
	Reason         *string `json:"reason,omitempty"`
	Status         string  `json:"status"`
	ClaimedBy      *string `json:"claimed_by,omitempty"`
	ResolvedAt     *string `json:"resolved_at,omitempty"`
	CreatedAt      string  `json:"created_at"`
}

type DropResponse struct {
	ID         string  `json:"id"`
	ShiftID    string  `json:"shift_id"`
	EmployeeID string  `json:"employee_id"`
	Reason     *string `json:"reason,omitempty"`
	Status     string  `json:"status"`
	ResolvedBy *string `json:"resolved_by,omitempty"`
	PickedUpBy *string `json:"picked_up_by,omitempty"`
	CreatedAt  string  `json:"created_at"`
}

type TimeOffResponse struct {
	ID         string  `json:"id"`
	EmployeeID string  `json:"employee_id"`
	StartDate  string  `json:"start_date"`
	EndDate    string  `json:"end_date"`
	Type       string  `json:"type"`
	Reason     *string `json:"reason,omitempty"`
	Status     string  `json:"status"`
	ResolvedBy *string `json:"resolved_by,omitempty"`
	CreatedAt  string  `json:"created_at"`
}

type TradeFilter struct {
	ShiftID    *string
	EmployeeID *string
	Status     *string
	OpenOnly   bool
}

type DropFilter struct {
	ShiftID    *string
	EmployeeID *string
	Status     *string
}

type TimeOffFilter struct {
	EmployeeID *string
	Status     *string
	From       *time.Time
	To         *time.Time
}
