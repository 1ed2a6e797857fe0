package shift

import (
	"context"
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/kapehan/cafe-workforce-backend-go/internal/domain/employee"
	"github.com/kapehan/cafe-workforce-backend-go/internal/domain/shift"
	"github.com/kapehan/cafe-workforce-backend-go/internal/pkg/validator"
)

type ShiftServiceImpl struct {
	shiftRepo       shift.ShiftRepository
	timeEntryRepo   shift.TimeEntryRepository
	breakPolicyRepo shift.BreakPolicyRepository
	employeeRepo    employee.EmployeeRepository
}

func NewShiftService(
	shiftRepo shift.ShiftRepository,
	timeEntryRepo shift.TimeEntryRepository,
	breakPolicyRepo shift.BreakPolicyRepository,
	employeeRepo employee.EmployeeRepository,
) shift.ShiftService {
	return &ShiftServiceImpl{
		shiftRepo:       shiftRepo,
		timeEntryRepo:   timeEntryRepo,
		breakPolicyRepo: breakPolicyRepo,
		employeeRepo:    employeeRepo,
	}
}

func (s *ShiftServiceImpl) Schedule(ctx context.Context, req shift.CreateShiftRequest) (shift.ShiftResponse, error) {
	if err := req.Validate(); err != nil {
		return shift.ShiftResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return shift.ShiftResponse{}, err
	}
	if !emp.IsActive {
		return shift.ShiftResponse{}, employee.ErrEmployeeInactive
	}

	start, _ := validator.IsValidDateTime(req.ScheduledStart)
	end, _ := validator.IsValidDateTime(req.ScheduledEnd)

	created, err := s.shiftRepo.Create(ctx, shift.Shift{
		EmployeeID:     req.EmployeeID,
		BranchID:       req.BranchID,
		Position:       req.Position,
		ScheduledStart: start,
		ScheduledEnd:   end,
		Status:         shift.ShiftStatusScheduled,
	})
	if err != nil {
		return shift.ShiftResponse{}, fmt.Errorf("failed to create shift: %w", err)
	}

	breaks, err := s.attachBreaks(ctx, created)
	if err != nil {
		return shift.ShiftResponse{}, err
	}
	created.Breaks = breaks

	return mapShiftResponse(created), nil
}

// attachBreaks resolves the policy the shift length earns and lays the
// prescribed breaks out back to back around the midpoint of the shift.
func (s *ShiftServiceImpl) attachBreaks(ctx context.Context, sh shift.Shift) ([]shift.Break, error) {
	policies, err := s.breakPolicyRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load break policies: %w", err)
	}

	shiftMinutes := int(sh.ScheduledEnd.Sub(sh.ScheduledStart).Minutes())
	specs := shift.ResolveBreakPolicy(policies, shiftMinutes)
	if len(specs) == 0 {
		return nil, nil
	}

	totalBreak := 0
	for _, spec := range specs {
		totalBreak += spec.DurationMinutes
	}

	cursor := sh.ScheduledStart.Add(time.Duration(shiftMinutes-totalBreak) / 2 * time.Minute)
	breaks := make([]shift.Break, 0, len(specs))
	for _, spec := range specs {
		breaks = append(breaks, shift.Break{
			ShiftID:        sh.ID,
			Type:           spec.Type,
			ScheduledStart: cursor,
			ScheduledEnd:   cursor.Add(time.Duration(spec.DurationMinutes) * time.Minute),
			Paid:           spec.Paid,
			Required:       spec.Required,
		})
		cursor = cursor.Add(time.Duration(spec.DurationMinutes) * time.Minute)
	}

	created, err := s.shiftRepo.CreateBreaks(ctx, sh.ID, breaks)
	if err != nil {
		return nil, fmt.Errorf("failed to create shift breaks: %w", err)
	}
	return created, nil
}

func (s *ShiftServiceImpl) ClockIn(ctx context.Context, shiftID string, req shift.ClockRequest) (shift.ShiftResponse, error) {
	if err := req.Validate(); err != nil {
		return shift.ShiftResponse{}, err
	}

	employeeID, err := employeeIDFromContext(ctx)
	if err != nil {
		return shift.ShiftResponse{}, err
	}

	sh, err := s.shiftRepo.GetByID(ctx, shiftID)
	if err != nil {
		return shift.ShiftResponse{}, err
	}
	if sh.EmployeeID != employeeID {
		return shift.ShiftResponse{}, shift.ErrShiftNotOwned
	}
	if sh.Status != shift.ShiftStatusScheduled {
		return shift.ShiftResponse{}, shift.ErrShiftNotScheduled
	}
	if sh.ActualStart != nil {
		return shift.ShiftResponse{}, shift.ErrAlreadyClockedIn
	}

	at := resolveClockTime(req)
	if err := s.shiftRepo.SetActualStart(ctx, shiftID, at); err != nil {
		return shift.ShiftResponse{}, fmt.Errorf("failed to record clock in: %w", err)
	}

	if _, err := s.timeEntryRepo.Append(ctx, shift.TimeEntry{
		EmployeeID: employeeID,
		ShiftID:    &shiftID,
		Type:       shift.TimeEntryClockIn,
		OccurredAt: at,
	}); err != nil {
		return shift.ShiftResponse{}, fmt.Errorf("failed to append time entry: %w", err)
	}

	sh.ActualStart = &at
	return mapShiftResponse(sh), nil
}

func (s *ShiftServiceImpl) ClockOut(ctx context.Context, shiftID string, req shift.ClockRequest) (shift.ShiftResponse, error) {
	if err := req.Validate(); err != nil {
		return shift.ShiftResponse{}, err
	}

	employeeID, err := employeeIDFromContext(ctx)
	if err != nil {
		return shift.ShiftResponse{}, err
	}

	sh, err := s.shiftRepo.GetByID(ctx, shiftID)
	if err != nil {
		return shift.ShiftResponse{}, err
	}
	if sh.EmployeeID != employeeID {
		return shift.ShiftResponse{}, shift.ErrShiftNotOwned
	}
	if sh.ActualStart == nil {
		return shift.ShiftResponse{}, shift.ErrNotClockedIn
	}
	if sh.ActualEnd != nil || sh.Status == shift.ShiftStatusCompleted {
		return shift.ShiftResponse{}, shift.ErrAlreadyClockedOut
	}

	at := resolveClockTime(req)

	// Close any break still running so the ledger never carries a dangling
	// break across a completed shift.
	for i, b := range sh.Breaks {
		if b.ActualStart != nil && b.ActualEnd == nil {
			if err := s.shiftRepo.SetBreakActualEnd(ctx, b.ID, at); err != nil {
				return shift.ShiftResponse{}, fmt.Errorf("failed to close open break: %w", err)
			}
			breakID := b.ID
			if _, err := s.timeEntryRepo.Append(ctx, shift.TimeEntry{
				EmployeeID: employeeID,
				ShiftID:    &shiftID,
				BreakID:    &breakID,
				Type:       shift.TimeEntryBreakEnd,
				OccurredAt: at,
			}); err != nil {
				return shift.ShiftResponse{}, fmt.Errorf("failed to append time entry: %w", err)
			}
			end := at
			sh.Breaks[i].ActualEnd = &end
		}
	}

	if err := s.shiftRepo.CompleteShift(ctx, shiftID, at); err != nil {
		return shift.ShiftResponse{}, fmt.Errorf("failed to record clock out: %w", err)
	}

	if _, err := s.timeEntryRepo.Append(ctx, shift.TimeEntry{
		EmployeeID: employeeID,
		ShiftID:    &shiftID,
		Type:       shift.TimeEntryClockOut,
		OccurredAt: at,
	}); err != nil {
		return shift.ShiftResponse{}, fmt.Errorf("failed to append time entry: %w", err)
	}

	sh.ActualEnd = &at
	sh.Status = shift.ShiftStatusCompleted
	return mapShiftResponse(sh), nil
}

func (s *ShiftServiceImpl) StartBreak(ctx context.Context, shiftID, breakID string, req shift.ClockRequest) (shift.ShiftResponse, error) {
	if err := req.Validate(); err != nil {
		return shift.ShiftResponse{}, err
	}

	employeeID, err := employeeIDFromContext(ctx)
	if err != nil {
		return shift.ShiftResponse{}, err
	}

	sh, err := s.shiftRepo.GetByID(ctx, shiftID)
	if err != nil {
		return shift.ShiftResponse{}, err
	}
	if sh.EmployeeID != employeeID {
		return shift.ShiftResponse{}, shift.ErrShiftNotOwned
	}
	if sh.ActualStart == nil {
		return shift.ShiftResponse{}, shift.ErrNotClockedIn
	}

	var target *shift.Break
	for i := range sh.Breaks {
		b := &sh.Breaks[i]
		if b.ID == breakID {
			target = b
			continue
		}
		if b.ActualStart != nil && b.ActualEnd == nil {
			return shift.ShiftResponse{}, shift.ErrBreakAlreadyActive
		}
	}
	if target == nil {
		return shift.ShiftResponse{}, shift.ErrBreakNotFound
	}
	if target.ActualEnd != nil {
		return shift.ShiftResponse{}, shift.ErrBreakAlreadyEnded
	}
	if target.ActualStart != nil {
		return shift.ShiftResponse{}, shift.ErrBreakAlreadyActive
	}

	at := resolveClockTime(req)
	if err := s.shiftRepo.SetBreakActualStart(ctx, breakID, at); err != nil {
		return shift.ShiftResponse{}, fmt.Errorf("failed to record break start: %w", err)
	}

	if _, err := s.timeEntryRepo.Append(ctx, shift.TimeEntry{
		EmployeeID: employeeID,
		ShiftID:    &shiftID,
		BreakID:    &breakID,
		Type:       shift.TimeEntryBreakStart,
		OccurredAt: at,
	}); err != nil {
		return shift.ShiftResponse{}, fmt.Errorf("failed to append time entry: %w", err)
	}

	target.ActualStart = &at
	return mapShiftResponse(sh), nil
}

func (s *ShiftServiceImpl) EndBreak(ctx context.Context, shiftID, breakID string, req shift.ClockRequest) (shift.ShiftResponse, error) {
	if err := req.Validate(); err != nil {
		return shift.ShiftResponse{}, err
	}

	employeeID, err := employeeIDFromContext(ctx)
	if err != nil {
		return shift.ShiftResponse{}, err
	}

	sh, err := s.shiftRepo.GetByID(ctx, shiftID)
	if err != nil {
		return shift.ShiftResponse{}, err
	}
	if sh.EmployeeID != employeeID {
		return shift.ShiftResponse{}, shift.ErrShiftNotOwned
	}

	var target *shift.Break
	for i := range sh.Breaks {
		if sh.Breaks[i].ID == breakID {
			target = &sh.Breaks[i]
			break
		}
	}
	if target == nil {
		return shift.ShiftResponse{}, shift.ErrBreakNotFound
	}
	if target.ActualStart == nil {
		return shift.ShiftResponse{}, shift.ErrBreakNotStarted
	}
	if target.ActualEnd != nil {
		return shift.ShiftResponse{}, shift.ErrBreakAlreadyEnded
	}

	at := resolveClockTime(req)
	if err := s.shiftRepo.SetBreakActualEnd(ctx, breakID, at); err != nil {
		return shift.ShiftResponse{}, fmt.Errorf("failed to record break end: %w", err)
	}

	if _, err := s.timeEntryRepo.Append(ctx, shift.TimeEntry{
		EmployeeID: employeeID,
		ShiftID:    &shiftID,
		BreakID:    &breakID,
		Type:       shift.TimeEntryBreakEnd,
		OccurredAt: at,
	}); err != nil {
		return shift.ShiftResponse{}, fmt.Errorf("failed to append time entry: %w", err)
	}

	target.ActualEnd = &at
	return mapShiftResponse(sh), nil
}

func (s *ShiftServiceImpl) GetShift(ctx context.Context, id string) (shift.ShiftResponse, error) {
	sh, err := s.shiftRepo.GetByID(ctx, id)
	if err != nil {
		return shift.ShiftResponse{}, err
	}
	return mapShiftResponse(sh), nil
}

func (s *ShiftServiceImpl) ListShifts(ctx context.Context, filter shift.ShiftFilter) (shift.ListShiftResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}

	shifts, total, err := s.shiftRepo.List(ctx, filter)
	if err != nil {
		return shift.ListShiftResponse{}, err
	}

	data := make([]shift.ShiftResponse, 0, len(shifts))
	for _, sh := range shifts {
		data = append(data, mapShiftResponse(sh))
	}

	return shift.ListShiftResponse{
		Data:       data,
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

// ========== HELPERS ==========

func employeeIDFromContext(ctx context.Context) (string, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	employeeID, ok := claims["employee_id"].(string)
	if !ok || employeeID == "" {
		return "", fmt.Errorf("employee_id claim is missing or invalid")
	}
	return employeeID, nil
}

func resolveClockTime(req shift.ClockRequest) time.Time {
	if req.At != nil {
		if at, ok := validator.IsValidDateTime(*req.At); ok {
			return at
		}
	}
	return time.Now()
}

func mapShiftResponse(sh shift.Shift) shift.ShiftResponse {
	resp := shift.ShiftResponse{
		ID:             sh.ID,
		EmployeeID:     sh.EmployeeID,
		BranchID:       sh.BranchID,
		Position:       sh.Position,
		ScheduledStart: sh.ScheduledStart.Format(time.RFC3339),
		ScheduledEnd:   sh.ScheduledEnd.Format(time.RFC3339),
		Status:         string(sh.Status),
	}
	if sh.ActualStart != nil {
		str := sh.ActualStart.Format(time.RFC3339)
		resp.ActualStart = &str
	}
	if sh.ActualEnd != nil {
		str := sh.ActualEnd.Format(time.RFC3339)
		resp.ActualEnd = &str
	}

	for _, b := range sh.Breaks {
		br := shift.BreakResponse{
			ID:             b.ID,
			Type:           string(b.Type),
			ScheduledStart: b.ScheduledStart.Format(time.RFC3339),
			ScheduledEnd:   b.ScheduledEnd.Format(time.RFC3339),
			Paid:           b.Paid,
			Required:       b.Required,
		}
		if b.ActualStart != nil {
			str := b.ActualStart.Format(time.RFC3339)
			br.ActualStart = &str
		}
		if b.ActualEnd != nil {
			str := b.ActualEnd.Format(time.RFC3339)
			br.ActualEnd = &str
		}
		resp.Breaks = append(resp.Breaks, br)
	}

	return resp
}
