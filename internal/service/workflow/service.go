package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/kapehan/cafe-workforce-backend-go/internal/domain/employee"
	"github.com/kapehan/cafe-workforce-backend-go/internal/domain/notification"
	"github.com/kapehan/cafe-workforce-backend-go/internal/domain/shift"
	"github.com/kapehan/cafe-workforce-backend-go/internal/domain/workflow"
)

type WorkflowServiceImpl struct {
	tradeRepo    workflow.TradeRepository
	dropRepo     workflow.DropRepository
	timeOffRepo  workflow.TimeOffRepository
	shiftRepo    shift.ShiftRepository
	employeeRepo employee.EmployeeRepository
	notifier     notification.Notifier
}

func NewWorkflowService(
	tradeRepo workflow.TradeRepository,
	dropRepo workflow.DropRepository,
	timeOffRepo workflow.TimeOffRepository,
	shiftRepo shift.ShiftRepository,
	employeeRepo employee.EmployeeRepository,
	notifier notification.Notifier,
) workflow.WorkflowService {
	return &WorkflowServiceImpl{
		tradeRepo:    tradeRepo,
		dropRepo:     dropRepo,
		timeOffRepo:  timeOffRepo,
		shiftRepo:    shiftRepo,
		employeeRepo: employeeRepo,
		notifier:     notifier,
	}
}

type actor struct {
	EmployeeID string
	BranchID   string
	Role       employee.Role
}

// Helper to get the authenticated actor from JWT context
func actorFromContext(ctx context.Context) (actor, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return actor{}, fmt.Errorf("failed to extract claims from context: %w", err)
	}

	employeeID, ok := claims["employee_id"].(string)
	if !ok || employeeID == "" {
		return actor{}, fmt.Errorf("employee_id claim is missing or invalid")
	}

	branchID, _ := claims["branch_id"].(string)
	role, _ := claims["role"].(string)

	return actor{EmployeeID: employeeID, BranchID: branchID, Role: employee.Role(role)}, nil
}

func (a actor) isManager() bool {
	return a.Role == employee.RoleManager || a.Role == employee.RoleOwner
}

// ========== TRADES ==========

func (s *WorkflowServiceImpl) CreateTrade(ctx context.Context, req workflow.CreateTradeRequest) (workflow.TradeResponse, error) {
	if err := req.Validate(); err != nil {
		return workflow.TradeResponse{}, err
	}

	act, err := actorFromContext(ctx)
	if err != nil {
		return workflow.TradeResponse{}, err
	}

	sh, err := s.shiftRepo.GetByID(ctx, req.ShiftID)
	if err != nil {
		return workflow.TradeResponse{}, err
	}
	if sh.EmployeeID != act.EmployeeID {
		return workflow.TradeResponse{}, shift.ErrShiftNotOwned
	}
	if sh.Status != shift.ShiftStatusScheduled {
		return workflow.TradeResponse{}, shift.ErrShiftNotScheduled
	}

	hasOpen, err := s.tradeRepo.HasOpenForShift(ctx, sh.ID)
	if err != nil {
		return workflow.TradeResponse{}, err
	}
	if hasOpen {
		return workflow.TradeResponse{}, workflow.ErrTradeOpenExists
	}

	created, err := s.tradeRepo.Create(ctx, workflow.TradeRequest{
		ShiftID:        sh.ID,
		FromEmployeeID: act.EmployeeID,
		ToEmployeeID:   req.ToEmployeeID,
		Reason:         req.Reason,
		Status:         workflow.TradeStatusPending,
	})
	if err != nil {
		return workflow.TradeResponse{}, fmt.Errorf("failed to create trade request: %w", err)
	}

	s.notifyTradeAvailable(ctx, act, created, sh)

	return mapTradeResponse(created), nil
}

func (s *WorkflowServiceImpl) notifyTradeAvailable(ctx context.Context, act actor, trade workflow.TradeRequest, sh shift.Shift) {
	payload := notification.TradeAvailablePayload{
		TradeID:    trade.ID,
		ShiftID:    sh.ID,
		ShiftStart: sh.ScheduledStart,
		Position:   sh.Position,
	}

	if trade.ToEmployeeID != nil {
		s.notifier.Notify(ctx, []string{*trade.ToEmployeeID}, payload)
		return
	}

	// Open trade: offer to every active colleague in the branch
	colleagues, err := s.employeeRepo.GetActiveByBranchID(ctx, sh.BranchID)
	if err != nil {
		slog.Warn("Failed to load colleagues for trade notification", "trade_id", trade.ID, "error", err)
		return
	}
	var ids []string
	for _, c := range colleagues {
		if c.ID != act.EmployeeID {
			ids = append(ids, c.ID)
		}
	}
	s.notifier.Notify(ctx, ids, payload)
}

func (s *WorkflowServiceImpl) ClaimTrade(ctx context.Context, tradeID string) (workflow.TradeResponse, error) {
	act, err := actorFromContext(ctx)
	if err != nil {
		return workflow.TradeResponse{}, err
	}

	trade, err := s.tradeRepo.GetByID(ctx, tradeID)
	if err != nil {
		return workflow.TradeResponse{}, err
	}
	if trade.Status != workflow.TradeStatusPending {
		return workflow.TradeResponse{}, workflow.ErrTradeNotPending
	}
	if trade.FromEmployeeID == act.EmployeeID {
		return workflow.TradeResponse{}, workflow.ErrTradeSelfClaim
	}
	if trade.ToEmployeeID != nil && *trade.ToEmployeeID != act.EmployeeID {
		return workflow.TradeResponse{}, workflow.ErrTradeNotDirected
	}

	// Conditional claim: the repository approves the trade and reassigns the
	// shift in one transaction. A lost race surfaces as ErrTradeNotPending.
	claimed, _, err := s.tradeRepo.Claim(ctx, tradeID, act.EmployeeID)
	if err != nil {
		return workflow.TradeResponse{}, err
	}

	s.notifier.Notify(ctx, []string{claimed.FromEmployeeID}, notification.TradeClaimedPayload{
		TradeID:   claimed.ID,
		ShiftID:   claimed.ShiftID,
		ClaimedBy: act.EmployeeID,
	})

	return mapTradeResponse(claimed), nil
}

func (s *WorkflowServiceImpl) WithdrawTrade(ctx context.Context, tradeID string) (workflow.TradeResponse, error) {
	act, err := actorFromContext(ctx)
	if err != nil {
		return workflow.TradeResponse{}, err
	}

	trade, err := s.tradeRepo.GetByID(ctx, tradeID)
	if err != nil {
		return workflow.TradeResponse{}, err
	}
	if trade.FromEmployeeID != act.EmployeeID {
		return workflow.TradeResponse{}, workflow.ErrTradeNotWithdrawable
	}

	updated, err := s.tradeRepo.Transition(ctx, tradeID, workflow.TradeStatusPending, workflow.TradeStatusWithdrawn, nil)
	if err != nil {
		return workflow.TradeResponse{}, err
	}

	return mapTradeResponse(updated), nil
}

func (s *WorkflowServiceImpl) RejectTrade(ctx context.Context, tradeID string) (workflow.TradeResponse, error) {
	act, err := actorFromContext(ctx)
	if err != nil {
		return workflow.TradeResponse{}, err
	}
	if !act.isManager() {
		return workflow.TradeResponse{}, employee.ErrManagerAccessRequired
	}

	updated, err := s.tradeRepo.Transition(ctx, tradeID, workflow.TradeStatusPending, workflow.TradeStatusRejected, &act.EmployeeID)
	if err != nil {
		return workflow.TradeResponse{}, err
	}

	return mapTradeResponse(updated), nil
}

func (s *WorkflowServiceImpl) ListTrades(ctx context.Context, filter workflow.TradeFilter) ([]workflow.TradeResponse, error) {
	act, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	// Staff only see their own requests
	if !act.isManager() {
		filter.EmployeeID = &act.EmployeeID
	}

	trades, err := s.tradeRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	result := make([]workflow.TradeResponse, 0, len(trades))
	for _, t := range trades {
		result = append(result, mapTradeResponse(t))
	}
	return result, nil
}

// ========== DROPS ==========

func (s *WorkflowServiceImpl) CreateDrop(ctx context.Context, req workflow.CreateDropRequest) (workflow.DropResponse, error) {
	if err := req.Validate(); err != nil {
		return workflow.DropResponse{}, err
	}

	act, err := actorFromContext(ctx)
	if err != nil {
		return workflow.DropResponse{}, err
	}

	sh, err := s.shiftRepo.GetByID(ctx, req.ShiftID)
	if err != nil {
		return workflow.DropResponse{}, err
	}
	if sh.EmployeeID != act.EmployeeID {
		return workflow.DropResponse{}, shift.ErrShiftNotOwned
	}
	if sh.Status != shift.ShiftStatusScheduled {
		return workflow.DropResponse{}, shift.ErrShiftNotScheduled
	}

	hasActive, err := s.dropRepo.HasActiveForShift(ctx, sh.ID)
	if err != nil {
		return workflow.DropResponse{}, err
	}
	if hasActive {
		return workflow.DropResponse{}, workflow.ErrDropActiveExists
	}

	created, err := s.dropRepo.Create(ctx, workflow.DropRequest{
		ShiftID:    sh.ID,
		EmployeeID: act.EmployeeID,
		Reason:     req.Reason,
		Status:     workflow.DropStatusPending,
	})
	if err != nil {
		return workflow.DropResponse{}, fmt.Errorf("failed to create drop request: %w", err)
	}

	return mapDropResponse(created), nil
}

func (s *WorkflowServiceImpl) ResolveDrop(ctx context.Context, dropID string, req workflow.ResolveDropRequest) (workflow.DropResponse, error) {
	if err := req.Validate(); err != nil {
		return workflow.DropResponse{}, err
	}

	act, err := actorFromContext(ctx)
	if err != nil {
		return workflow.DropResponse{}, err
	}
	if !act.isManager() {
		return workflow.DropResponse{}, employee.ErrManagerAccessRequired
	}

	resolved, err := s.dropRepo.Resolve(ctx, dropID, workflow.DropDecision(req.Decision), act.EmployeeID)
	if err != nil {
		return workflow.DropResponse{}, err
	}

	if resolved.Status == workflow.DropStatusApproved {
		s.notifyDropApproved(ctx, resolved)
	}

	return mapDropResponse(resolved), nil
}

func (s *WorkflowServiceImpl) notifyDropApproved(ctx context.Context, drop workflow.DropRequest) {
	sh, err := s.shiftRepo.GetByID(ctx, drop.ShiftID)
	if err != nil {
		slog.Warn("Failed to load shift for drop notification", "drop_id", drop.ID, "error", err)
		return
	}

	colleagues, err := s.employeeRepo.GetActiveByBranchID(ctx, sh.BranchID)
	if err != nil {
		slog.Warn("Failed to load colleagues for drop notification", "drop_id", drop.ID, "error", err)
		return
	}

	var ids []string
	for _, c := range colleagues {
		if c.ID != drop.EmployeeID {
			ids = append(ids, c.ID)
		}
	}
	s.notifier.Notify(ctx, ids, notification.DropApprovedPayload{
		DropID:     drop.ID,
		ShiftID:    sh.ID,
		ShiftStart: sh.ScheduledStart,
		Position:   sh.Position,
	})
}

func (s *WorkflowServiceImpl) PickupDrop(ctx context.Context, dropID string) (workflow.DropResponse, error) {
	act, err := actorFromContext(ctx)
	if err != nil {
		return workflow.DropResponse{}, err
	}

	drop, err := s.dropRepo.GetByID(ctx, dropID)
	if err != nil {
		return workflow.DropResponse{}, err
	}
	if drop.EmployeeID == act.EmployeeID {
		return workflow.DropResponse{}, workflow.ErrDropSelfPickup
	}
	if drop.Status != workflow.DropStatusApproved {
		return workflow.DropResponse{}, workflow.ErrDropNotApproved
	}

	// Conditional pickup: marks the drop picked up and reassigns the shift in
	// one transaction. A lost race surfaces as ErrDropNotApproved.
	picked, _, err := s.dropRepo.Pickup(ctx, dropID, act.EmployeeID)
	if err != nil {
		return workflow.DropResponse{}, err
	}

	s.notifier.Notify(ctx, []string{picked.EmployeeID}, notification.DropPickedUpPayload{
		DropID:     picked.ID,
		ShiftID:    picked.ShiftID,
		PickedUpBy: act.EmployeeID,
	})

	return mapDropResponse(picked), nil
}

func (s *WorkflowServiceImpl) ListDrops(ctx context.Context, filter workflow.DropFilter) ([]workflow.DropResponse, error) {
	act, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if !act.isManager() {
		filter.EmployeeID = &act.EmployeeID
	}

	drops, err := s.dropRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	result := make([]workflow.DropResponse, 0, len(drops))
	for _, d := range drops {
		result = append(result, mapDropResponse(d))
	}
	return result, nil
}

// ========== TIME OFF ==========

func (s *WorkflowServiceImpl) RequestTimeOff(ctx context.Context, req workflow.CreateTimeOffRequest) (workflow.TimeOffResponse, error) {
	if err := req.Validate(); err != nil {
		return workflow.TimeOffResponse{}, err
	}

	act, err := actorFromContext(ctx)
	if err != nil {
		return workflow.TimeOffResponse{}, err
	}

	startDate, _ := time.Parse("2006-01-02", req.StartDate)
	endDate, _ := time.Parse("2006-01-02", req.EndDate)

	hasOverlap, err := s.timeOffRepo.HasApprovedOverlap(ctx, act.EmployeeID, startDate, endDate, "")
	if err != nil {
		return workflow.TimeOffResponse{}, fmt.Errorf("failed to check overlapping time off: %w", err)
	}
	if hasOverlap {
		return workflow.TimeOffResponse{}, workflow.ErrTimeOffOverlap
	}

	created, err := s.timeOffRepo.Create(ctx, workflow.TimeOffRequest{
		EmployeeID: act.EmployeeID,
		StartDate:  startDate,
		EndDate:    endDate,
		Type:       workflow.TimeOffType(req.Type),
		Reason:     req.Reason,
		Status:     workflow.TimeOffStatusPending,
	})
	if err != nil {
		return workflow.TimeOffResponse{}, fmt.Errorf("failed to create time-off request: %w", err)
	}

	return mapTimeOffResponse(created), nil
}

func (s *WorkflowServiceImpl) ApproveTimeOff(ctx context.Context, requestID string) (workflow.TimeOffResponse, error) {
	act, err := actorFromContext(ctx)
	if err != nil {
		return workflow.TimeOffResponse{}, err
	}
	if !act.isManager() {
		return workflow.TimeOffResponse{}, employee.ErrManagerAccessRequired
	}

	// Overlap against the employee's other approved requests is re-checked
	// inside the approval transaction, so two concurrent approvals of
	// overlapping pending requests cannot both land.
	updated, err := s.timeOffRepo.Approve(ctx, requestID, act.EmployeeID)
	if err != nil {
		return workflow.TimeOffResponse{}, err
	}

	s.notifier.Notify(ctx, []string{updated.EmployeeID}, notification.TimeOffResolvedPayload{
		RequestID: updated.ID,
		StartDate: updated.StartDate.Format("2006-01-02"),
		EndDate:   updated.EndDate.Format("2006-01-02"),
		Approved:  true,
	})

	return mapTimeOffResponse(updated), nil
}

func (s *WorkflowServiceImpl) RejectTimeOff(ctx context.Context, requestID string) (workflow.TimeOffResponse, error) {
	act, err := actorFromContext(ctx)
	if err != nil {
		return workflow.TimeOffResponse{}, err
	}
	if !act.isManager() {
		return workflow.TimeOffResponse{}, employee.ErrManagerAccessRequired
	}

	request, err := s.timeOffRepo.GetByID(ctx, requestID)
	if err != nil {
		return workflow.TimeOffResponse{}, err
	}
	if request.Status != workflow.TimeOffStatusPending {
		return workflow.TimeOffResponse{}, workflow.ErrTimeOffAlreadyProcessed
	}

	updated, err := s.timeOffRepo.Transition(ctx, requestID, workflow.TimeOffStatusRejected, act.EmployeeID)
	if err != nil {
		return workflow.TimeOffResponse{}, err
	}

	s.notifier.Notify(ctx, []string{updated.EmployeeID}, notification.TimeOffResolvedPayload{
		RequestID: updated.ID,
		StartDate: updated.StartDate.Format("2006-01-02"),
		EndDate:   updated.EndDate.Format("2006-01-02"),
		Approved:  false,
	})

	return mapTimeOffResponse(updated), nil
}

func (s *WorkflowServiceImpl) ListTimeOff(ctx context.Context, filter workflow.TimeOffFilter) ([]workflow.TimeOffResponse, error) {
	act, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if !act.isManager() {
		filter.EmployeeID = &act.EmployeeID
	}

	requests, err := s.timeOffRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	result := make([]workflow.TimeOffResponse, 0, len(requests))
	for _, r := range requests {
		result = append(result, mapTimeOffResponse(r))
	}
	return result, nil
}

// ========== MAINTENANCE ==========

func (s *WorkflowServiceImpl) ExpireStaleRequests(ctx context.Context) error {
	now := time.Now()

	trades, err := s.tradeRepo.ExpirePendingBefore(ctx, now)
	if err != nil {
		return fmt.Errorf("failed to expire stale trades: %w", err)
	}

	drops, err := s.dropRepo.ExpirePendingBefore(ctx, now)
	if err != nil {
		return fmt.Errorf("failed to expire stale drops: %w", err)
	}

	if trades > 0 || drops > 0 {
		slog.Info("Expired stale workflow requests", "trades", trades, "drops", drops)
	}
	return nil
}

// ========== HELPERS ==========

func mapTradeResponse(t workflow.TradeRequest) workflow.TradeResponse {
	var resolvedAt *string
	if t.ResolvedAt != nil {
		str := t.ResolvedAt.Format(time.RFC3339)
		resolvedAt = &str
	}

	return workflow.TradeResponse{
		ID:             t.ID,
		ShiftID:        t.ShiftID,
		FromEmployeeID: t.FromEmployeeID,
		ToEmployeeID:   t.ToEmployeeID,
		Reason:         t.Reason,
		Status:         string(t.Status),
		ClaimedBy:      t.ClaimedBy,
		ResolvedAt:     resolvedAt,
		CreatedAt:      t.CreatedAt.Format(time.RFC3339),
	}
}

func mapDropResponse(d workflow.DropRequest) workflow.DropResponse {
	return workflow.DropResponse{
		ID:         d.ID,
		ShiftID:    d.ShiftID,
		EmployeeID: d.EmployeeID,
		Reason:     d.Reason,
		Status:     string(d.Status),
		ResolvedBy: d.ResolvedBy,
		PickedUpBy: d.PickedUpBy,
		CreatedAt:  d.CreatedAt.Format(time.RFC3339),
	}
}

func mapTimeOffResponse(r workflow.TimeOffRequest) workflow.TimeOffResponse {
	return workflow.TimeOffResponse{
		ID:         r.ID,
		EmployeeID: r.EmployeeID,
		StartDate:  r.StartDate.Format("2006-01-02"),
		EndDate:    r.EndDate.Format("2006-01-02"),
		Type:       string(r.Type),
		Reason:     r.Reason,
		Status:     string(r.Status),
		ResolvedBy: r.ResolvedBy,
		CreatedAt:  r.CreatedAt.Format(time.RFC3339),
	}
}
