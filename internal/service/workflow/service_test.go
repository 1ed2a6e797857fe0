package workflow

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/kapehan/cafe-workforce-backend-go/internal/domain/employee"
	"github.com/kapehan/cafe-workforce-backend-go/internal/domain/notification"
	"github.com/kapehan/cafe-workforce-backend-go/internal/domain/shift"
	"github.com/kapehan/cafe-workforce-backend-go/internal/domain/workflow"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authCtx(t *testing.T, employeeID, branchID string, role employee.Role) context.Context {
	t.Helper()
	ja := jwtauth.New("HS256", []byte("test-secret"), nil)
	token, _, err := ja.Encode(map[string]interface{}{
		"employee_id": employeeID,
		"branch_id":   branchID,
		"role":        string(role),
		"type":        "access",
	})
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

// ========== FAKES ==========

type fakeTradeRepo struct {
	mu     sync.Mutex
	trades map[string]workflow.TradeRequest
	shifts *fakeShiftRepo
}

func newFakeTradeRepo(shifts *fakeShiftRepo) *fakeTradeRepo {
	return &fakeTradeRepo{trades: make(map[string]workflow.TradeRequest), shifts: shifts}
}

func (r *fakeTradeRepo) Create(ctx context.Context, req workflow.TradeRequest) (workflow.TradeRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req.ID = uuid.NewString()
	req.CreatedAt = time.Now()
	r.trades[req.ID] = req
	return req, nil
}

func (r *fakeTradeRepo) GetByID(ctx context.Context, id string) (workflow.TradeRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.trades[id]
	if !ok {
		return workflow.TradeRequest{}, workflow.ErrTradeNotFound
	}
	return t, nil
}

func (r *fakeTradeRepo) List(ctx context.Context, filter workflow.TradeFilter) ([]workflow.TradeRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []workflow.TradeRequest
	for _, t := range r.trades {
		if filter.EmployeeID != nil && t.FromEmployeeID != *filter.EmployeeID &&
			(t.ToEmployeeID == nil || *t.ToEmployeeID != *filter.EmployeeID) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (r *fakeTradeRepo) HasOpenForShift(ctx context.Context, shiftID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.trades {
		if t.ShiftID == shiftID && t.Status == workflow.TradeStatusPending {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeTradeRepo) Claim(ctx context.Context, tradeID, claimantID string) (workflow.TradeRequest, shift.Shift, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.trades[tradeID]
	if !ok {
		return workflow.TradeRequest{}, shift.Shift{}, workflow.ErrTradeNotFound
	}
	if t.Status != workflow.TradeStatusPending {
		return workflow.TradeRequest{}, shift.Shift{}, workflow.ErrTradeNotPending
	}
	now := time.Now()
	t.Status = workflow.TradeStatusApproved
	t.ClaimedBy = &claimantID
	t.ResolvedAt = &now
	r.trades[tradeID] = t

	sh := r.shifts.reassign(t.ShiftID, claimantID)
	return t, sh, nil
}

func (r *fakeTradeRepo) Transition(ctx context.Context, tradeID string, from, to workflow.TradeStatus, resolvedBy *string) (workflow.TradeRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.trades[tradeID]
	if !ok {
		return workflow.TradeRequest{}, workflow.ErrTradeNotFound
	}
	if t.Status != from {
		return workflow.TradeRequest{}, workflow.ErrTradeNotPending
	}
	now := time.Now()
	t.Status = to
	t.ResolvedAt = &now
	r.trades[tradeID] = t
	return t, nil
}

func (r *fakeTradeRepo) ExpirePendingBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, t := range r.trades {
		sh, ok := r.shifts.shifts[t.ShiftID]
		if !ok {
			continue
		}
		if t.Status == workflow.TradeStatusPending && sh.ScheduledStart.Before(cutoff) {
			t.Status = workflow.TradeStatusRejected
			r.trades[id] = t
			n++
		}
	}
	return n, nil
}

type fakeDropRepo struct {
	mu     sync.Mutex
	drops  map[string]workflow.DropRequest
	shifts *fakeShiftRepo
}

func newFakeDropRepo(shifts *fakeShiftRepo) *fakeDropRepo {
	return &fakeDropRepo{drops: make(map[string]workflow.DropRequest), shifts: shifts}
}

func (r *fakeDropRepo) Create(ctx context.Context, req workflow.DropRequest) (workflow.DropRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req.ID = uuid.NewString()
	req.CreatedAt = time.Now()
	r.drops[req.ID] = req
	return req, nil
}

func (r *fakeDropRepo) GetByID(ctx context.Context, id string) (workflow.DropRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.drops[id]
	if !ok {
		return workflow.DropRequest{}, workflow.ErrDropNotFound
	}
	return d, nil
}

func (r *fakeDropRepo) List(ctx context.Context, filter workflow.DropFilter) ([]workflow.DropRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []workflow.DropRequest
	for _, d := range r.drops {
		if filter.EmployeeID != nil && d.EmployeeID != *filter.EmployeeID {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

func (r *fakeDropRepo) HasActiveForShift(ctx context.Context, shiftID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.drops {
		if d.ShiftID == shiftID && (d.Status == workflow.DropStatusPending || d.Status == workflow.DropStatusApproved) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeDropRepo) Resolve(ctx context.Context, dropID string, decision workflow.DropDecision, managerID string) (workflow.DropRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.drops[dropID]
	if !ok {
		return workflow.DropRequest{}, workflow.ErrDropNotFound
	}
	if d.Status != workflow.DropStatusPending {
		return workflow.DropRequest{}, workflow.ErrDropAlreadyResolved
	}
	now := time.Now()
	if decision == workflow.DropDecisionApprove {
		d.Status = workflow.DropStatusApproved
	} else {
		d.Status = workflow.DropStatusRejected
	}
	d.ResolvedBy = &managerID
	d.ResolvedAt = &now
	r.drops[dropID] = d
	return d, nil
}

func (r *fakeDropRepo) Pickup(ctx context.Context, dropID, employeeID string) (workflow.DropRequest, shift.Shift, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.drops[dropID]
	if !ok {
		return workflow.DropRequest{}, shift.Shift{}, workflow.ErrDropNotFound
	}
	if d.Status != workflow.DropStatusApproved {
		return workflow.DropRequest{}, shift.Shift{}, workflow.ErrDropNotApproved
	}
	now := time.Now()
	d.Status = workflow.DropStatusPickedUp
	d.PickedUpBy = &employeeID
	d.PickedUpAt = &now
	r.drops[dropID] = d

	sh := r.shifts.reassign(d.ShiftID, employeeID)
	return d, sh, nil
}

func (r *fakeDropRepo) ExpirePendingBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

type fakeTimeOffRepo struct {
	mu       sync.Mutex
	requests map[string]workflow.TimeOffRequest
}

func newFakeTimeOffRepo() *fakeTimeOffRepo {
	return &fakeTimeOffRepo{requests: make(map[string]workflow.TimeOffRequest)}
}

func (r *fakeTimeOffRepo) Create(ctx context.Context, req workflow.TimeOffRequest) (workflow.TimeOffRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req.ID = uuid.NewString()
	req.CreatedAt = time.Now()
	r.requests[req.ID] = req
	return req, nil
}

func (r *fakeTimeOffRepo) GetByID(ctx context.Context, id string) (workflow.TimeOffRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.requests[id]
	if !ok {
		return workflow.TimeOffRequest{}, workflow.ErrTimeOffNotFound
	}
	return t, nil
}

func (r *fakeTimeOffRepo) List(ctx context.Context, filter workflow.TimeOffFilter) ([]workflow.TimeOffRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []workflow.TimeOffRequest
	for _, t := range r.requests {
		if filter.EmployeeID != nil && t.EmployeeID != *filter.EmployeeID {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (r *fakeTimeOffRepo) HasApprovedOverlap(ctx context.Context, employeeID string, start, end time.Time, excludeID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.requests {
		if t.ID == excludeID || t.EmployeeID != employeeID || t.Status != workflow.TimeOffStatusApproved {
			continue
		}
		if !t.StartDate.After(end) && !t.EndDate.Before(start) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeTimeOffRepo) Approve(ctx context.Context, requestID, managerID string) (workflow.TimeOffRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.requests[requestID]
	if !ok {
		return workflow.TimeOffRequest{}, workflow.ErrTimeOffNotFound
	}
	if t.Status != workflow.TimeOffStatusPending {
		return workflow.TimeOffRequest{}, workflow.ErrTimeOffAlreadyProcessed
	}
	for _, other := range r.requests {
		if other.ID == t.ID || other.EmployeeID != t.EmployeeID || other.Status != workflow.TimeOffStatusApproved {
			continue
		}
		if !other.StartDate.After(t.EndDate) && !other.EndDate.Before(t.StartDate) {
			return workflow.TimeOffRequest{}, workflow.ErrTimeOffOverlap
		}
	}
	now := time.Now()
	t.Status = workflow.TimeOffStatusApproved
	t.ResolvedBy = &managerID
	t.ResolvedAt = &now
	r.requests[requestID] = t
	return t, nil
}

func (r *fakeTimeOffRepo) Transition(ctx context.Context, requestID string, to workflow.TimeOffStatus, resolvedBy string) (workflow.TimeOffRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.requests[requestID]
	if !ok {
		return workflow.TimeOffRequest{}, workflow.ErrTimeOffNotFound
	}
	if t.Status != workflow.TimeOffStatusPending {
		return workflow.TimeOffRequest{}, workflow.ErrTimeOffAlreadyProcessed
	}
	now := time.Now()
	t.Status = to
	t.ResolvedBy = &resolvedBy
	t.ResolvedAt = &now
	r.requests[requestID] = t
	return t, nil
}

type fakeShiftRepo struct {
	mu     sync.Mutex
	shifts map[string]shift.Shift
}

func newFakeShiftRepo() *fakeShiftRepo {
	return &fakeShiftRepo{shifts: make(map[string]shift.Shift)}
}

func (r *fakeShiftRepo) add(s shift.Shift) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shifts[s.ID] = s
}

func (r *fakeShiftRepo) reassign(shiftID, employeeID string) shift.Shift {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.shifts[shiftID]
	s.EmployeeID = employeeID
	r.shifts[shiftID] = s
	return s
}

func (r *fakeShiftRepo) Create(ctx context.Context, s shift.Shift) (shift.Shift, error) {
	r.add(s)
	return s, nil
}

func (r *fakeShiftRepo) GetByID(ctx context.Context, id string) (shift.Shift, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.shifts[id]
	if !ok {
		return shift.Shift{}, shift.ErrShiftNotFound
	}
	return s, nil
}

func (r *fakeShiftRepo) List(ctx context.Context, filter shift.ShiftFilter) ([]shift.Shift, int64, error) {
	return nil, 0, nil
}

func (r *fakeShiftRepo) SetActualStart(ctx context.Context, id string, at time.Time) error { return nil }
func (r *fakeShiftRepo) CompleteShift(ctx context.Context, id string, at time.Time) error  { return nil }
func (r *fakeShiftRepo) CreateBreaks(ctx context.Context, shiftID string, breaks []shift.Break) ([]shift.Break, error) {
	return breaks, nil
}
func (r *fakeShiftRepo) GetBreakByID(ctx context.Context, breakID string) (shift.Break, error) {
	return shift.Break{}, shift.ErrBreakNotFound
}
func (r *fakeShiftRepo) SetBreakActualStart(ctx context.Context, breakID string, at time.Time) error {
	return nil
}
func (r *fakeShiftRepo) SetBreakActualEnd(ctx context.Context, breakID string, at time.Time) error {
	return nil
}
func (r *fakeShiftRepo) GetCompletedForPeriod(ctx context.Context, employeeID string, from, to time.Time) ([]shift.Shift, error) {
	return nil, nil
}

type fakeEmployeeRepo struct {
	employees map[string]employee.Employee
}

func newFakeEmployeeRepo(employees ...employee.Employee) *fakeEmployeeRepo {
	m := make(map[string]employee.Employee)
	for _, e := range employees {
		m[e.ID] = e
	}
	return &fakeEmployeeRepo{employees: m}
}

func (r *fakeEmployeeRepo) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	e, ok := r.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (r *fakeEmployeeRepo) GetActiveByBranchID(ctx context.Context, branchID string) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, e := range r.employees {
		if e.BranchID == branchID && e.IsActive {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeNotifier struct {
	mu     sync.Mutex
	events []notification.EventPayload
}

func (n *fakeNotifier) Notify(ctx context.Context, employeeIDs []string, payload notification.EventPayload) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, payload)
}

func (n *fakeNotifier) kinds() []notification.EventKind {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []notification.EventKind
	for _, e := range n.events {
		out = append(out, e.Kind())
	}
	return out
}

// ========== FIXTURE ==========

type testEnv struct {
	svc       workflow.WorkflowService
	trades    *fakeTradeRepo
	drops     *fakeDropRepo
	timeOff   *fakeTimeOffRepo
	shifts    *fakeShiftRepo
	employees *fakeEmployeeRepo
	notifier  *fakeNotifier
}

func newTestEnv() *testEnv {
	staff := func(id string) employee.Employee {
		return employee.Employee{
			ID:         id,
			BranchID:   "branch-1",
			Role:       employee.RoleStaff,
			HourlyRate: decimal.NewFromInt(100),
			IsActive:   true,
		}
	}

	shifts := newFakeShiftRepo()
	trades := newFakeTradeRepo(shifts)
	drops := newFakeDropRepo(shifts)
	timeOff := newFakeTimeOffRepo()
	employees := newFakeEmployeeRepo(staff("alice"), staff("bob"), staff("carol"))
	notifier := &fakeNotifier{}

	return &testEnv{
		svc:       NewWorkflowService(trades, drops, timeOff, shifts, employees, notifier),
		trades:    trades,
		drops:     drops,
		timeOff:   timeOff,
		shifts:    shifts,
		employees: employees,
		notifier:  notifier,
	}
}

func (e *testEnv) addScheduledShift(id, owner string) {
	e.shifts.add(shift.Shift{
		ID:             id,
		EmployeeID:     owner,
		BranchID:       "branch-1",
		Position:       "barista",
		ScheduledStart: time.Now().Add(48 * time.Hour),
		ScheduledEnd:   time.Now().Add(56 * time.Hour),
		Status:         shift.ShiftStatusScheduled,
	})
}

// ========== TRADES ==========

func TestCreateTrade(t *testing.T) {
	env := newTestEnv()
	env.addScheduledShift("shift-1", "alice")

	result, err := env.svc.CreateTrade(authCtx(t, "alice", "branch-1", employee.RoleStaff), workflow.CreateTradeRequest{
		ShiftID: "shift-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "pending", result.Status)
	assert.Equal(t, "alice", result.FromEmployeeID)
	assert.Nil(t, result.ToEmployeeID)

	// Open trade notified to colleagues
	assert.Equal(t, []notification.EventKind{notification.EventTradeAvailable}, env.notifier.kinds())
}

func TestCreateTrade_NotOwner(t *testing.T) {
	env := newTestEnv()
	env.addScheduledShift("shift-1", "alice")

	_, err := env.svc.CreateTrade(authCtx(t, "bob", "branch-1", employee.RoleStaff), workflow.CreateTradeRequest{
		ShiftID: "shift-1",
	})
	assert.ErrorIs(t, err, shift.ErrShiftNotOwned)
}

func TestCreateTrade_OpenAlreadyExists(t *testing.T) {
	env := newTestEnv()
	env.addScheduledShift("shift-1", "alice")
	ctx := authCtx(t, "alice", "branch-1", employee.RoleStaff)

	_, err := env.svc.CreateTrade(ctx, workflow.CreateTradeRequest{ShiftID: "shift-1"})
	require.NoError(t, err)

	_, err = env.svc.CreateTrade(ctx, workflow.CreateTradeRequest{ShiftID: "shift-1"})
	assert.ErrorIs(t, err, workflow.ErrTradeOpenExists)
}

func TestClaimTrade_ReassignsShift(t *testing.T) {
	env := newTestEnv()
	env.addScheduledShift("shift-1", "alice")

	created, err := env.svc.CreateTrade(authCtx(t, "alice", "branch-1", employee.RoleStaff), workflow.CreateTradeRequest{
		ShiftID: "shift-1",
	})
	require.NoError(t, err)

	result, err := env.svc.ClaimTrade(authCtx(t, "bob", "branch-1", employee.RoleStaff), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "approved", result.Status)
	require.NotNil(t, result.ClaimedBy)
	assert.Equal(t, "bob", *result.ClaimedBy)

	sh, err := env.shifts.GetByID(context.Background(), "shift-1")
	require.NoError(t, err)
	assert.Equal(t, "bob", sh.EmployeeID)
}

func TestClaimTrade_SelfClaim(t *testing.T) {
	env := newTestEnv()
	env.addScheduledShift("shift-1", "alice")
	ctx := authCtx(t, "alice", "branch-1", employee.RoleStaff)

	created, err := env.svc.CreateTrade(ctx, workflow.CreateTradeRequest{ShiftID: "shift-1"})
	require.NoError(t, err)

	_, err = env.svc.ClaimTrade(ctx, created.ID)
	assert.ErrorIs(t, err, workflow.ErrTradeSelfClaim)
}

func TestClaimTrade_DirectedToAnother(t *testing.T) {
	env := newTestEnv()
	env.addScheduledShift("shift-1", "alice")
	target := "bob"

	created, err := env.svc.CreateTrade(authCtx(t, "alice", "branch-1", employee.RoleStaff), workflow.CreateTradeRequest{
		ShiftID:      "shift-1",
		ToEmployeeID: &target,
	})
	require.NoError(t, err)

	_, err = env.svc.ClaimTrade(authCtx(t, "carol", "branch-1", employee.RoleStaff), created.ID)
	assert.ErrorIs(t, err, workflow.ErrTradeNotDirected)
}

func TestClaimTrade_SingleWinner(t *testing.T) {
	env := newTestEnv()
	env.addScheduledShift("shift-1", "alice")

	created, err := env.svc.CreateTrade(authCtx(t, "alice", "branch-1", employee.RoleStaff), workflow.CreateTradeRequest{
		ShiftID: "shift-1",
	})
	require.NoError(t, err)

	claimants := []string{"bob", "carol"}
	errs := make([]error, len(claimants))

	var wg sync.WaitGroup
	for i, claimant := range claimants {
		wg.Add(1)
		go func(i int, claimant string) {
			defer wg.Done()
			_, errs[i] = env.svc.ClaimTrade(authCtx(t, claimant, "branch-1", employee.RoleStaff), created.ID)
		}(i, claimant)
	}
	wg.Wait()

	var wins, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case assert.ErrorIs(t, err, workflow.ErrTradeNotPending):
			conflicts++
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, 1, conflicts)

	// The shift belongs to exactly the winner
	sh, err := env.shifts.GetByID(context.Background(), "shift-1")
	require.NoError(t, err)
	assert.Contains(t, claimants, sh.EmployeeID)
}

func TestWithdrawTrade(t *testing.T) {
	env := newTestEnv()
	env.addScheduledShift("shift-1", "alice")
	ctx := authCtx(t, "alice", "branch-1", employee.RoleStaff)

	created, err := env.svc.CreateTrade(ctx, workflow.CreateTradeRequest{ShiftID: "shift-1"})
	require.NoError(t, err)

	result, err := env.svc.WithdrawTrade(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "withdrawn", result.Status)

	// Only the requester may withdraw
	created2, err := env.svc.CreateTrade(ctx, workflow.CreateTradeRequest{ShiftID: "shift-1"})
	require.NoError(t, err)
	_, err = env.svc.WithdrawTrade(authCtx(t, "bob", "branch-1", employee.RoleStaff), created2.ID)
	assert.ErrorIs(t, err, workflow.ErrTradeNotWithdrawable)
}

func TestRejectTrade_RequiresManager(t *testing.T) {
	env := newTestEnv()
	env.addScheduledShift("shift-1", "alice")

	created, err := env.svc.CreateTrade(authCtx(t, "alice", "branch-1", employee.RoleStaff), workflow.CreateTradeRequest{
		ShiftID: "shift-1",
	})
	require.NoError(t, err)

	_, err = env.svc.RejectTrade(authCtx(t, "bob", "branch-1", employee.RoleStaff), created.ID)
	assert.ErrorIs(t, err, employee.ErrManagerAccessRequired)

	result, err := env.svc.RejectTrade(authCtx(t, "mgr", "branch-1", employee.RoleManager), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "rejected", result.Status)
}

// ========== DROPS ==========

func TestDropLifecycle(t *testing.T) {
	env := newTestEnv()
	env.addScheduledShift("shift-1", "alice")

	created, err := env.svc.CreateDrop(authCtx(t, "alice", "branch-1", employee.RoleStaff), workflow.CreateDropRequest{
		ShiftID: "shift-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "pending", created.Status)

	// Pickup before approval is rejected
	_, err = env.svc.PickupDrop(authCtx(t, "bob", "branch-1", employee.RoleStaff), created.ID)
	assert.ErrorIs(t, err, workflow.ErrDropNotApproved)

	resolved, err := env.svc.ResolveDrop(authCtx(t, "mgr", "branch-1", employee.RoleManager), created.ID, workflow.ResolveDropRequest{
		Decision: "approve",
	})
	require.NoError(t, err)
	assert.Equal(t, "approved", resolved.Status)

	picked, err := env.svc.PickupDrop(authCtx(t, "bob", "branch-1", employee.RoleStaff), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "picked_up", picked.Status)
	require.NotNil(t, picked.PickedUpBy)
	assert.Equal(t, "bob", *picked.PickedUpBy)

	sh, err := env.shifts.GetByID(context.Background(), "shift-1")
	require.NoError(t, err)
	assert.Equal(t, "bob", sh.EmployeeID)
}

func TestResolveDrop_RequiresManager(t *testing.T) {
	env := newTestEnv()
	env.addScheduledShift("shift-1", "alice")

	created, err := env.svc.CreateDrop(authCtx(t, "alice", "branch-1", employee.RoleStaff), workflow.CreateDropRequest{
		ShiftID: "shift-1",
	})
	require.NoError(t, err)

	_, err = env.svc.ResolveDrop(authCtx(t, "bob", "branch-1", employee.RoleStaff), created.ID, workflow.ResolveDropRequest{
		Decision: "approve",
	})
	assert.ErrorIs(t, err, employee.ErrManagerAccessRequired)
}

func TestPickupDrop_SelfPickup(t *testing.T) {
	env := newTestEnv()
	env.addScheduledShift("shift-1", "alice")
	ctx := authCtx(t, "alice", "branch-1", employee.RoleStaff)

	created, err := env.svc.CreateDrop(ctx, workflow.CreateDropRequest{ShiftID: "shift-1"})
	require.NoError(t, err)

	_, err = env.svc.ResolveDrop(authCtx(t, "mgr", "branch-1", employee.RoleManager), created.ID, workflow.ResolveDropRequest{
		Decision: "approve",
	})
	require.NoError(t, err)

	_, err = env.svc.PickupDrop(ctx, created.ID)
	assert.ErrorIs(t, err, workflow.ErrDropSelfPickup)
}

func TestCreateDrop_ActiveExists(t *testing.T) {
	env := newTestEnv()
	env.addScheduledShift("shift-1", "alice")
	ctx := authCtx(t, "alice", "branch-1", employee.RoleStaff)

	_, err := env.svc.CreateDrop(ctx, workflow.CreateDropRequest{ShiftID: "shift-1"})
	require.NoError(t, err)

	_, err = env.svc.CreateDrop(ctx, workflow.CreateDropRequest{ShiftID: "shift-1"})
	assert.ErrorIs(t, err, workflow.ErrDropActiveExists)
}

func TestPickupDrop_SingleWinner(t *testing.T) {
	env := newTestEnv()
	env.addScheduledShift("shift-1", "alice")

	created, err := env.svc.CreateDrop(authCtx(t, "alice", "branch-1", employee.RoleStaff), workflow.CreateDropRequest{
		ShiftID: "shift-1",
	})
	require.NoError(t, err)

	_, err = env.svc.ResolveDrop(authCtx(t, "mgr", "branch-1", employee.RoleManager), created.ID, workflow.ResolveDropRequest{
		Decision: "approve",
	})
	require.NoError(t, err)

	pickers := []string{"bob", "carol"}
	errs := make([]error, len(pickers))

	var wg sync.WaitGroup
	for i, picker := range pickers {
		wg.Add(1)
		go func(i int, picker string) {
			defer wg.Done()
			_, errs[i] = env.svc.PickupDrop(authCtx(t, picker, "branch-1", employee.RoleStaff), created.ID)
		}(i, picker)
	}
	wg.Wait()

	var wins, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case assert.ErrorIs(t, err, workflow.ErrDropNotApproved):
			conflicts++
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, 1, conflicts)
}

// ========== TIME OFF ==========

func TestTimeOffLifecycle(t *testing.T) {
	env := newTestEnv()
	ctx := authCtx(t, "alice", "branch-1", employee.RoleStaff)

	created, err := env.svc.RequestTimeOff(ctx, workflow.CreateTimeOffRequest{
		StartDate: "2025-06-02",
		EndDate:   "2025-06-04",
		Type:      "vacation",
	})
	require.NoError(t, err)
	assert.Equal(t, "pending", created.Status)

	approved, err := env.svc.ApproveTimeOff(authCtx(t, "mgr", "branch-1", employee.RoleManager), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "approved", approved.Status)

	// Already processed requests cannot be re-resolved
	_, err = env.svc.RejectTimeOff(authCtx(t, "mgr", "branch-1", employee.RoleManager), created.ID)
	assert.ErrorIs(t, err, workflow.ErrTimeOffAlreadyProcessed)
}

func TestTimeOff_OverlapRejected(t *testing.T) {
	env := newTestEnv()
	ctx := authCtx(t, "alice", "branch-1", employee.RoleStaff)
	mgrCtx := authCtx(t, "mgr", "branch-1", employee.RoleManager)

	first, err := env.svc.RequestTimeOff(ctx, workflow.CreateTimeOffRequest{
		StartDate: "2025-06-02",
		EndDate:   "2025-06-06",
		Type:      "vacation",
	})
	require.NoError(t, err)
	_, err = env.svc.ApproveTimeOff(mgrCtx, first.ID)
	require.NoError(t, err)

	// A new request overlapping the approved range fails at creation
	_, err = env.svc.RequestTimeOff(ctx, workflow.CreateTimeOffRequest{
		StartDate: "2025-06-05",
		EndDate:   "2025-06-08",
		Type:      "personal",
	})
	assert.ErrorIs(t, err, workflow.ErrTimeOffOverlap)

	// An adjacent, non-overlapping range is fine
	_, err = env.svc.RequestTimeOff(ctx, workflow.CreateTimeOffRequest{
		StartDate: "2025-06-07",
		EndDate:   "2025-06-08",
		Type:      "personal",
	})
	require.NoError(t, err)
}

func TestTimeOff_OverlapCheckedAtApproval(t *testing.T) {
	env := newTestEnv()
	ctx := authCtx(t, "alice", "branch-1", employee.RoleStaff)
	mgrCtx := authCtx(t, "mgr", "branch-1", employee.RoleManager)

	// Two pending requests over the same range are allowed
	first, err := env.svc.RequestTimeOff(ctx, workflow.CreateTimeOffRequest{
		StartDate: "2025-07-01",
		EndDate:   "2025-07-03",
		Type:      "vacation",
	})
	require.NoError(t, err)
	second, err := env.svc.RequestTimeOff(ctx, workflow.CreateTimeOffRequest{
		StartDate: "2025-07-02",
		EndDate:   "2025-07-05",
		Type:      "personal",
	})
	require.NoError(t, err)

	_, err = env.svc.ApproveTimeOff(mgrCtx, first.ID)
	require.NoError(t, err)

	// Approving the second now collides with the first
	_, err = env.svc.ApproveTimeOff(mgrCtx, second.ID)
	assert.ErrorIs(t, err, workflow.ErrTimeOffOverlap)
}

func TestTimeOff_ConcurrentApprovalsSingleWinner(t *testing.T) {
	env := newTestEnv()
	ctx := authCtx(t, "alice", "branch-1", employee.RoleStaff)
	mgrCtx := authCtx(t, "mgr", "branch-1", employee.RoleManager)

	first, err := env.svc.RequestTimeOff(ctx, workflow.CreateTimeOffRequest{
		StartDate: "2025-07-01",
		EndDate:   "2025-07-03",
		Type:      "vacation",
	})
	require.NoError(t, err)
	second, err := env.svc.RequestTimeOff(ctx, workflow.CreateTimeOffRequest{
		StartDate: "2025-07-02",
		EndDate:   "2025-07-05",
		Type:      "personal",
	})
	require.NoError(t, err)

	// Both approvals race; the overlap check runs atomically with the status
	// flip, so exactly one may land.
	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i, id := range []string{first.ID, second.ID} {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			_, errs[i] = env.svc.ApproveTimeOff(mgrCtx, id)
		}(i, id)
	}
	wg.Wait()

	approvals := 0
	for _, err := range errs {
		if err == nil {
			approvals++
		} else {
			assert.ErrorIs(t, err, workflow.ErrTimeOffOverlap)
		}
	}
	assert.Equal(t, 1, approvals)

	env.timeOff.mu.Lock()
	approved := 0
	for _, req := range env.timeOff.requests {
		if req.Status == workflow.TimeOffStatusApproved {
			approved++
		}
	}
	env.timeOff.mu.Unlock()
	assert.Equal(t, 1, approved)
}

func TestTimeOff_InvalidRange(t *testing.T) {
	env := newTestEnv()
	ctx := authCtx(t, "alice", "branch-1", employee.RoleStaff)

	_, err := env.svc.RequestTimeOff(ctx, workflow.CreateTimeOffRequest{
		StartDate: "2025-06-10",
		EndDate:   "2025-06-05",
		Type:      "vacation",
	})
	require.Error(t, err)
}

// ========== EXPIRY ==========

func TestExpireStaleRequests(t *testing.T) {
	env := newTestEnv()

	// A shift that already started
	env.shifts.add(shift.Shift{
		ID:             "shift-old",
		EmployeeID:     "alice",
		BranchID:       "branch-1",
		ScheduledStart: time.Now().Add(-2 * time.Hour),
		ScheduledEnd:   time.Now().Add(6 * time.Hour),
		Status:         shift.ShiftStatusScheduled,
	})
	created, err := env.svc.CreateTrade(authCtx(t, "alice", "branch-1", employee.RoleStaff), workflow.CreateTradeRequest{
		ShiftID: "shift-old",
	})
	require.NoError(t, err)

	require.NoError(t, env.svc.ExpireStaleRequests(context.Background()))

	trade, err := env.trades.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, workflow.TradeStatusRejected, trade.Status)
}
