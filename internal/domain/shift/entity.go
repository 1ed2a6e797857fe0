package shift

import (
	"time"
)

// ShiftStatus enum
type ShiftStatus string

const (
	ShiftStatusScheduled ShiftStatus = "scheduled"
	ShiftStatusCompleted ShiftStatus = "completed"
	ShiftStatusCancelled ShiftStatus = "cancelled"
)

// Shift is the unit of scheduled work. Shifts are never deleted; cancelled
// shifts stay in the ledger as history.
type Shift struct {
	ID             string
	EmployeeID     string
	BranchID       string
	Position       string
	ScheduledStart time.Time
	ScheduledEnd   time.Time
	ActualStart    *time.Time
	ActualEnd      *time.Time
	Status         ShiftStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time

	// Loaded alongside the shift
	Breaks []Break
}

// BreakType enum
type BreakType string

const (
	BreakTypeCoffee BreakType = "coffee"
	BreakTypeLunch  BreakType = "lunch"
	BreakTypeMeal   BreakType = "meal"
	BreakTypeRest   BreakType = "rest"
	BreakTypeOther  BreakType = "other"
)

// Break is owned by exactly one shift.
type Break struct {
	ID             string
	ShiftID        string
	Type           BreakType
	ScheduledStart time.Time
	ScheduledEnd   time.Time
	ActualStart    *time.Time
	ActualEnd      *time.Time
	Paid           bool
	Required       bool
}

// TimeEntryType enum
type TimeEntryType string

const (
	TimeEntryClockIn    TimeEntryType = "clock_in"
	TimeEntryClockOut   TimeEntryType = "clock_out"
	TimeEntryBreakStart TimeEntryType = "break_start"
	TimeEntryBreakEnd   TimeEntryType = "break_end"
)

// TimeEntry is one row of the append-only clock event log.
type TimeEntry struct {
	ID         string
	EmployeeID string
	ShiftID    *string
	BreakID    *string
	Type       TimeEntryType
	OccurredAt time.Time
	CreatedAt  time.Time
}
