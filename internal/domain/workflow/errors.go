package workflow

import "errors"

var (
	ErrTradeNotFound        = errors.New("Trade request not found")
	ErrTradeNotPending      = errors.New("Trade request is no longer pending")
	ErrTradeSelfClaim       = errors.New("Cannot claim your own trade request")
	ErrTradeNotDirected     = errors.New("Trade request is directed to another employee")
	ErrTradeOpenExists      = errors.New("Shift already has an open trade request")
	ErrTradeNotWithdrawable = errors.New("Only the requester may withdraw a pending trade")

	ErrDropNotFound        = errors.New("Drop request not found")
	ErrDropAlreadyResolved = errors.New("Drop request already resolved")
	ErrDropNotApproved     = errors.New("Drop request is not approved for pickup")
	ErrDropActiveExists    = errors.New("Shift already has an active drop request")
	ErrDropSelfPickup      = errors.New("Cannot pick up your own dropped shift")

	ErrTimeOffNotFound         = errors.New("Time-off request not found")
	ErrTimeOffAlreadyProcessed = errors.New("Time-off request already processed")
	ErrTimeOffOverlap          = errors.New("Time-off range overlaps an approved request")
)
