package workflow

import (
	"context"
	"time"

	"github.com/kapehan/cafe-workforce-backend-go/internal/domain/shift"
)

type TradeRepository interface {
	Create(ctx context.Context, req TradeRequest) (TradeRequest, error)
	GetByID(ctx context.Context, id string) (TradeRequest, error)
	List(ctx context.Context, filter TradeFilter) ([]TradeRequest, error)
	// HasOpenForShift reports whether a non-terminal trade exists for the shift.
	HasOpenForShift(ctx context.Context, shiftID string) (bool, error)

	// Claim approves the trade and reassigns the shift to the claimant in one
	// transaction. The status update is conditional on the trade still being
	// pending; a lost race returns ErrTradeNotPending.
	Claim(ctx context.Context, tradeID, claimantID string) (TradeRequest, shift.Shift, error)

	// Transition moves the trade from one status to another conditionally.
	// Returns ErrTradeNotPending when the row is no longer in `from`.
	Transition(ctx context.Context, tradeID string, from, to TradeStatus, resolvedBy *string) (TradeRequest, error)

	// ExpirePendingBefore rejects pending trades whose shift started before the
	// cutoff. Returns the number of rows transitioned.
	ExpirePendingBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type DropRepository interface {
	Create(ctx context.Context, req DropRequest) (DropRequest, error)
	GetByID(ctx context.Context, id string) (DropRequest, error)
	List(ctx context.Context, filter DropFilter) ([]DropRequest, error)
	// HasActiveForShift reports whether a pending or approved-not-picked-up
	// drop exists for the shift.
	HasActiveForShift(ctx context.Context, shiftID string) (bool, error)

	// Resolve applies a manager decision to a pending drop. Conditional on the
	// row still being pending; a lost race returns ErrDropAlreadyResolved.
	Resolve(ctx context.Context, dropID string, decision DropDecision, managerID string) (DropRequest, error)

	// Pickup marks an approved drop picked up and reassigns the shift to the
	// picker in one transaction. Conditional on the row still being approved;
	// a lost race returns ErrDropNotApproved.
	Pickup(ctx context.Context, dropID, employeeID string) (DropRequest, shift.Shift, error)

	ExpirePendingBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type TimeOffRepository interface {
	Create(ctx context.Context, req TimeOffRequest) (TimeOffRequest, error)
	GetByID(ctx context.Context, id string) (TimeOffRequest, error)
	List(ctx context.Context, filter TimeOffFilter) ([]TimeOffRequest, error)

	// HasApprovedOverlap reports whether the employee has an approved request
	// whose inclusive range intersects [start, end], excluding excludeID.
	HasApprovedOverlap(ctx context.Context, employeeID string, start, end time.Time, excludeID string) (bool, error)

	// Approve re-checks overlap against the employee's approved requests and
	// moves the row to approved inside one transaction, so two concurrent
	// approvals of overlapping ranges cannot both land. Returns
	// ErrTimeOffAlreadyProcessed or ErrTimeOffOverlap on conflict.
	Approve(ctx context.Context, requestID, managerID string) (TimeOffRequest, error)

	// Transition moves the request out of pending conditionally. Returns
	// ErrTimeOffAlreadyProcessed when the row is no longer pending.
	Transition(ctx context.Context, requestID string, to TimeOffStatus, resolvedBy string) (TimeOffRequest, error)
}
