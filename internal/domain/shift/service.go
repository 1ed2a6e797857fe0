package shift

import "context"

// ShiftService defines the time-ledger operations: scheduling and clock events.
type ShiftService interface {
	// Schedule creates a shift and attaches the breaks its length earns.
	Schedule(ctx context.Context, req CreateShiftRequest) (ShiftResponse, error)

	// ClockIn records the actual start for the authenticated employee's shift.
	ClockIn(ctx context.Context, shiftID string, req ClockRequest) (ShiftResponse, error)

	// ClockOut records the actual end and completes the shift.
	ClockOut(ctx context.Context, shiftID string, req ClockRequest) (ShiftResponse, error)

	StartBreak(ctx context.Context, shiftID, breakID string, req ClockRequest) (ShiftResponse, error)
	EndBreak(ctx context.Context, shiftID, breakID string, req ClockRequest) (ShiftResponse, error)

	GetShift(ctx context.Context, id string) (ShiftResponse, error)
	ListShifts(ctx context.Context, filter ShiftFilter) (ListShiftResponse, error)
}
