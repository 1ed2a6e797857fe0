package shift

import "errors"

var (
	ErrShiftNotFound      = errors.New("Shift not found")
	ErrShiftNotScheduled  = errors.New("Shift is not in scheduled status")
	ErrShiftNotOwned      = errors.New("Shift does not belong to this employee")
	ErrAlreadyClockedIn   = errors.New("Shift already has a clock-in")
	ErrNotClockedIn       = errors.New("Shift has no clock-in yet")
	ErrAlreadyClockedOut  = errors.New("Shift already has a clock-out")
	ErrBreakNotFound      = errors.New("Break not found")
	ErrBreakAlreadyEnded  = errors.New("Break already ended")
	ErrBreakAlreadyActive = errors.New("Break already started")
	ErrBreakNotStarted    = errors.New("Break has not started")
)
