package workflow

import "context"

// WorkflowService defines the shift-lifecycle state machines: trades, drops
// and time-off requests.
type WorkflowService interface {
	CreateTrade(ctx context.Context, req CreateTradeRequest) (TradeResponse, error)
	// ClaimTrade reassigns the traded shift to the authenticated employee.
	// Exactly one of two concurrent claims succeeds; the loser sees a conflict.
	ClaimTrade(ctx context.Context, tradeID string) (TradeResponse, error)
	WithdrawTrade(ctx context.Context, tradeID string) (TradeResponse, error)
	RejectTrade(ctx context.Context, tradeID string) (TradeResponse, error)
	ListTrades(ctx context.Context, filter TradeFilter) ([]TradeResponse, error)

	CreateDrop(ctx context.Context, req CreateDropRequest) (DropResponse, error)
	ResolveDrop(ctx context.Context, dropID string, req ResolveDropRequest) (DropResponse, error)
	PickupDrop(ctx context.Context, dropID string) (DropResponse, error)
	ListDrops(ctx context.Context, filter DropFilter) ([]DropResponse, error)

	RequestTimeOff(ctx context.Context, req CreateTimeOffRequest) (TimeOffResponse, error)
	ApproveTimeOff(ctx context.Context, requestID string) (TimeOffResponse, error)
	RejectTimeOff(ctx context.Context, requestID string) (TimeOffResponse, error)
	ListTimeOff(ctx context.Context, filter TimeOffFilter) ([]TimeOffResponse, error)

	// ExpireStaleRequests rejects pending trades and drops whose shift has
	// already started. Run from the scheduler.
	ExpireStaleRequests(ctx context.Context) error
}
