package workflow

import "time"

// TradeStatus enum
type TradeStatus string

const (
	TradeStatusPending   TradeStatus = "pending"
	TradeStatusApproved  TradeStatus = "approved"
	TradeStatusRejected  TradeStatus = "rejected"
	TradeStatusWithdrawn TradeStatus = "withdrawn"
)

// TradeRequest offers a shift to a specific colleague, or to anyone when
// ToEmployeeID is nil. At most one non-terminal trade exists per shift.
type TradeRequest struct {
	ID             string
	ShiftID        string
	FromEmployeeID string
	ToEmployeeID   *string
	Reason         *string
	Status         TradeStatus
	ClaimedBy      *string
	ResolvedAt     *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// DropStatus enum
type DropStatus string

const (
	DropStatusPending  DropStatus = "pending"
	DropStatusApproved DropStatus = "approved"
	DropStatusRejected DropStatus = "rejected"
	DropStatusPickedUp DropStatus = "picked_up"
)

// DropRequest asks a manager to release a shift back to the pool. A shift has
// at most one active (pending or approved-not-yet-picked-up) drop.
type DropRequest struct {
	ID         string
	ShiftID    string
	EmployeeID string
	Reason     *string
	Status     DropStatus
	ResolvedBy *string
	PickedUpBy *string
	ResolvedAt *time.Time
	PickedUpAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// DropDecision enum
type DropDecision string

const (
	DropDecisionApprove DropDecision = "approve"
	DropDecisionReject  DropDecision = "reject"
)

// TimeOffStatus enum
type TimeOffStatus string

const (
	TimeOffStatusPending  TimeOffStatus = "pending"
	TimeOffStatusApproved TimeOffStatus = "approved"
	TimeOffStatusRejected TimeOffStatus = "rejected"
)

// TimeOffType enum
type TimeOffType string

const (
	TimeOffTypeVacation TimeOffType = "vacation"
	TimeOffTypeSick     TimeOffType = "sick"
	TimeOffTypePersonal TimeOffType = "personal"
	TimeOffTypeOther    TimeOffType = "other"
)

// TimeOffRequest covers an inclusive date range. Approved ranges never overlap
// for the same employee.
type TimeOffRequest struct {
	ID         string
	EmployeeID string
	StartDate  time.Time
	EndDate    time.Time
	Type       TimeOffType
	Reason     *string
	Status     TimeOffStatus
	ResolvedBy *string
	ResolvedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
