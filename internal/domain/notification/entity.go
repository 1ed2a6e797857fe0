package notification

import "time"

// EventKind enum
type EventKind string

const (
	EventTradeAvailable  EventKind = "trade_available"
	EventTradeClaimed    EventKind = "trade_claimed"
	EventDropApproved    EventKind = "drop_approved"
	EventDropPickedUp    EventKind = "drop_picked_up"
	EventTimeOffApproved EventKind = "timeoff_approved"
	EventTimeOffRejected EventKind = "timeoff_rejected"
	EventPayrollReady    EventKind = "payroll_ready"
)

// EventPayload is the closed set of notification payloads. Each kind carries
// a statically known shape; there is no untyped escape hatch.
type EventPayload interface {
	Kind() EventKind
}

type TradeAvailablePayload struct {
	TradeID    string    `json:"trade_id"`
	ShiftID    string    `json:"shift_id"`
	ShiftStart time.Time `json:"shift_start"`
	Position   string    `json:"position"`
}

func (TradeAvailablePayload) Kind() EventKind { return EventTradeAvailable }

type TradeClaimedPayload struct {
	TradeID   string `json:"trade_id"`
	ShiftID   string `json:"shift_id"`
	ClaimedBy string `json:"claimed_by"`
}

func (TradeClaimedPayload) Kind() EventKind { return EventTradeClaimed }

type DropApprovedPayload struct {
	DropID     string    `json:"drop_id"`
	ShiftID    string    `json:"shift_id"`
	ShiftStart time.Time `json:"shift_start"`
	Position   string    `json:"position"`
}

func (DropApprovedPayload) Kind() EventKind { return EventDropApproved }

type DropPickedUpPayload struct {
	DropID     string `json:"drop_id"`
	ShiftID    string `json:"shift_id"`
	PickedUpBy string `json:"picked_up_by"`
}

func (DropPickedUpPayload) Kind() EventKind { return EventDropPickedUp }

type TimeOffResolvedPayload struct {
	RequestID string `json:"request_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Approved  bool   `json:"approved"`
}

func (p TimeOffResolvedPayload) Kind() EventKind {
	if p.Approved {
		return EventTimeOffApproved
	}
	return EventTimeOffRejected
}

type PayrollReadyPayload struct {
	PeriodID string `json:"period_id"`
}

func (PayrollReadyPayload) Kind() EventKind { return EventPayrollReady }

// Notification is one persisted event delivery for one employee.
type Notification struct {
	ID         string
	EmployeeID string
	Kind       EventKind
	Payload    []byte // JSON-encoded EventPayload
	ReadAt     *time.Time
	CreatedAt  time.Time
}
