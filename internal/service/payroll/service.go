package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/kapehan/cafe-workforce-backend-go/internal/domain/employee"
	"github.com/kapehan/cafe-workforce-backend-go/internal/domain/notification"
	"github.com/kapehan/cafe-workforce-backend-go/internal/domain/payroll"
	"github.com/kapehan/cafe-workforce-backend-go/internal/domain/shift"
	"github.com/kapehan/cafe-workforce-backend-go/internal/pkg/lock"
	"github.com/shopspring/decimal"
)

type PayrollServiceImpl struct {
	payrollRepo  payroll.PayrollRepository
	bracketRepo  payroll.BracketRepository
	holidayRepo  payroll.HolidayRepository
	shiftRepo    shift.ShiftRepository
	employeeRepo employee.EmployeeRepository
	notifier     notification.Notifier
	runLocks     *lock.KeyedMutex
}

func NewPayrollService(
	payrollRepo payroll.PayrollRepository,
	bracketRepo payroll.BracketRepository,
	holidayRepo payroll.HolidayRepository,
	shiftRepo shift.ShiftRepository,
	employeeRepo employee.EmployeeRepository,
	notifier notification.Notifier,
) payroll.PayrollService {
	return &PayrollServiceImpl{
		payrollRepo:  payrollRepo,
		bracketRepo:  bracketRepo,
		holidayRepo:  holidayRepo,
		shiftRepo:    shiftRepo,
		employeeRepo: employeeRepo,
		notifier:     notifier,
		runLocks:     lock.NewKeyedMutex(),
	}
}

// Statutory default multipliers applied when a branch has no settings row.
func defaultSettings(branchID string) payroll.PayrollSettings {
	return payroll.PayrollSettings{
		BranchID:                 branchID,
		OvertimeMultiplier:       decimal.NewFromFloat(1.25),
		NightDiffMultiplier:      decimal.NewFromFloat(1.10),
		HolidayMultiplier:        decimal.NewFromInt(2),
		RestDayMultiplier:        decimal.NewFromFloat(1.30),
		MonthlyEquivalenceFactor: decimal.NewFromInt(2),
	}
}

func (s *PayrollServiceImpl) CreatePeriod(ctx context.Context, req payroll.CreatePeriodRequest) (payroll.PeriodResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PeriodResponse{}, err
	}

	_, err := s.payrollRepo.GetOpenPeriodByBranch(ctx, req.BranchID)
	if err == nil {
		return payroll.PeriodResponse{}, payroll.ErrOpenPeriodExists
	}
	if !errors.Is(err, payroll.ErrPeriodNotFound) {
		return payroll.PeriodResponse{}, fmt.Errorf("failed to check open period: %w", err)
	}

	start, _ := time.Parse("2006-01-02", req.StartDate)
	end, _ := time.Parse("2006-01-02", req.EndDate)

	created, err := s.payrollRepo.CreatePeriod(ctx, payroll.PayrollPeriod{
		BranchID:  req.BranchID,
		StartDate: start,
		EndDate:   end,
		Status:    payroll.PeriodStatusOpen,
	})
	if err != nil {
		// A concurrent create can slip past the check above and lose to the
		// database's one-open-period-per-branch index instead.
		if errors.Is(err, payroll.ErrOpenPeriodExists) {
			return payroll.PeriodResponse{}, payroll.ErrOpenPeriodExists
		}
		return payroll.PeriodResponse{}, fmt.Errorf("failed to create payroll period: %w", err)
	}

	return mapPeriodResponse(created), nil
}

func (s *PayrollServiceImpl) ClosePeriod(ctx context.Context, periodID string) (payroll.PeriodResponse, error) {
	updated, err := s.payrollRepo.TransitionPeriod(ctx, periodID, payroll.PeriodStatusOpen, payroll.PeriodStatusClosed)
	if err != nil {
		return payroll.PeriodResponse{}, err
	}

	s.notifyEntriesReady(ctx, updated.ID)

	return mapPeriodResponse(updated), nil
}

func (s *PayrollServiceImpl) notifyEntriesReady(ctx context.Context, periodID string) {
	entries, err := s.payrollRepo.ListEntriesByPeriod(ctx, periodID)
	if err != nil {
		slog.Warn("Failed to load entries for payroll notification", "period_id", periodID, "error", err)
		return
	}
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.EmployeeID)
	}
	s.notifier.Notify(ctx, ids, notification.PayrollReadyPayload{PeriodID: periodID})
}

func (s *PayrollServiceImpl) MarkPeriodPaid(ctx context.Context, periodID string) (payroll.PeriodResponse, error) {
	updated, err := s.payrollRepo.TransitionPeriod(ctx, periodID, payroll.PeriodStatusClosed, payroll.PeriodStatusPaid)
	if err != nil {
		return payroll.PeriodResponse{}, err
	}
	return mapPeriodResponse(updated), nil
}

func (s *PayrollServiceImpl) RunPayroll(ctx context.Context, periodID string) (payroll.RunPayrollResponse, error) {
	period, err := s.payrollRepo.GetPeriodByID(ctx, periodID)
	if err != nil {
		return payroll.RunPayrollResponse{}, err
	}
	if period.Status != payroll.PeriodStatusOpen {
		return payroll.RunPayrollResponse{}, payroll.ErrPeriodNotOpen
	}

	// One run per (branch, period) at a time. A concurrent second run fails
	// fast instead of queueing behind the first.
	release, ok := s.runLocks.TryLock(period.BranchID + ":" + period.ID)
	if !ok {
		return payroll.RunPayrollResponse{}, payroll.ErrPayrollRunInProgress
	}
	defer release()

	inputs, err := s.loadRunInputs(ctx, period)
	if err != nil {
		return payroll.RunPayrollResponse{}, err
	}

	resp := payroll.RunPayrollResponse{PeriodID: period.ID}

	for _, emp := range inputs.employees {
		// A cancelled run stops cleanly between employees; completed entries
		// stand, remaining employees are simply not computed.
		if err := ctx.Err(); err != nil {
			return resp, err
		}

		entry, err := s.computeEmployee(ctx, period, emp, inputs)
		if err != nil {
			slog.Warn("Payroll computation failed for employee",
				"employee_id", emp.ID, "period_id", period.ID, "error", err)
			resp.Failures = append(resp.Failures, payroll.EmployeeFailure{
				EmployeeID: emp.ID,
				Error:      err.Error(),
			})
			continue
		}
		if entry == nil {
			// No eligible hours and no adjustments
			continue
		}

		resp.Entries = append(resp.Entries, mapEntryResponse(*entry))
	}

	slog.Info("Payroll run completed",
		"period_id", period.ID,
		"entries", len(resp.Entries),
		"failures", len(resp.Failures))

	return resp, nil
}

// runInputs carries everything a payroll run loads once up front.
type runInputs struct {
	settings    payroll.PayrollSettings
	brackets    map[payroll.DeductionType][]payroll.DeductionBracket
	holidays    map[string]bool
	adjustments map[string][]payroll.PayrollAdjustment
	employees   []employee.Employee
}

func (s *PayrollServiceImpl) loadRunInputs(ctx context.Context, period payroll.PayrollPeriod) (runInputs, error) {
	var in runInputs

	settings, err := s.payrollRepo.GetSettings(ctx, period.BranchID)
	if errors.Is(err, payroll.ErrSettingsNotFound) {
		settings = defaultSettings(period.BranchID)
	} else if err != nil {
		return in, fmt.Errorf("failed to load payroll settings: %w", err)
	}
	in.settings = settings

	// Malformed bracket tables abort the whole run up front rather than
	// failing every employee one by one.
	in.brackets = make(map[payroll.DeductionType][]payroll.DeductionBracket, len(payroll.StatutoryDeductionTypes))
	for _, typ := range payroll.StatutoryDeductionTypes {
		table, err := s.bracketRepo.GetEffective(ctx, typ, period.EndDate)
		if err != nil {
			return in, fmt.Errorf("failed to load %s brackets: %w", typ, err)
		}
		if err := payroll.ValidateBracketTable(typ, table); err != nil {
			return in, err
		}
		in.brackets[typ] = table
	}

	holidays, err := s.holidayRepo.GetRange(ctx, period.StartDate, period.EndDate)
	if err != nil {
		return in, fmt.Errorf("failed to load holidays: %w", err)
	}
	in.holidays = make(map[string]bool, len(holidays))
	for _, h := range holidays {
		in.holidays[h.Date.Format("2006-01-02")] = true
	}

	adjustments, err := s.payrollRepo.GetAdjustmentsForPeriod(ctx, period.ID)
	if err != nil {
		return in, fmt.Errorf("failed to load adjustments: %w", err)
	}
	in.adjustments = make(map[string][]payroll.PayrollAdjustment)
	for _, adj := range adjustments {
		in.adjustments[adj.EmployeeID] = append(in.adjustments[adj.EmployeeID], adj)
	}

	in.employees, err = s.employeeRepo.GetActiveByBranchID(ctx, period.BranchID)
	if err != nil {
		return in, fmt.Errorf("failed to load branch employees: %w", err)
	}

	return in, nil
}

func (s *PayrollServiceImpl) computeEmployee(ctx context.Context, period payroll.PayrollPeriod, emp employee.Employee, in runInputs) (*payroll.PayrollEntry, error) {
	shifts, err := s.shiftRepo.GetCompletedForPeriod(ctx, emp.ID, period.StartDate, period.EndDate.Add(24*time.Hour-time.Nanosecond))
	if err != nil {
		return nil, fmt.Errorf("failed to load completed shifts: %w", err)
	}

	buckets := payroll.AggregateHours(shifts, in.holidays, emp.RestDay)
	adjustments := in.adjustments[emp.ID]
	if buckets.WorkedMinutes() == 0 && len(adjustments) == 0 {
		return nil, nil
	}

	entry := buildEntry(period, emp, buckets, adjustments, in)

	gross := entry.GrossPay
	monthlyBasis := gross.Mul(in.settings.MonthlyEquivalenceFactor)

	// Statutory deductions resolve in fixed order against the monthly basis,
	// scaled back to this period's share.
	entry.DeductionsDetail = make(map[string]decimal.Decimal, len(payroll.StatutoryDeductionTypes)+len(adjustments))
	total := decimal.Zero
	for _, typ := range payroll.StatutoryDeductionTypes {
		monthly, err := payroll.ResolveDeduction(typ, in.brackets[typ], monthlyBasis)
		if err != nil {
			var compErr *payroll.ComputationError
			if errors.As(err, &compErr) {
				compErr.EmployeeID = emp.ID
				compErr.PeriodID = period.ID
			}
			return nil, err
		}
		amount := monthly.Div(in.settings.MonthlyEquivalenceFactor).Round(2)
		entry.DeductionsDetail[string(typ)] = amount
		total = total.Add(amount)
	}

	for _, adj := range adjustments {
		if adj.Type != payroll.AdjustmentDeduction {
			continue
		}
		entry.DeductionsDetail[adj.Name] = adj.Amount
		total = total.Add(adj.Amount)
	}

	entry.TotalDeductions = total
	entry.NetPay = gross.Sub(total)
	if entry.NetPay.IsNegative() {
		return nil, fmt.Errorf("%w: gross %s, deductions %s", payroll.ErrNegativeNetPay, gross, total)
	}

	saved, err := s.payrollRepo.UpsertDraftEntry(ctx, entry)
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

// buildEntry prices the hour buckets and sums allowances into the gross line.
func buildEntry(period payroll.PayrollPeriod, emp employee.Employee, buckets payroll.HourBuckets, adjustments []payroll.PayrollAdjustment, in runInputs) payroll.PayrollEntry {
	rate := emp.HourlyRate

	regularPay := payroll.MinutesToHours(buckets.RegularMinutes).Mul(rate).Round(2)
	overtimePay := payroll.MinutesToHours(buckets.OvertimeMinutes).Mul(rate).Mul(in.settings.OvertimeMultiplier).Round(2)
	holidayPay := payroll.MinutesToHours(buckets.HolidayMinutes).Mul(rate).Mul(in.settings.HolidayMultiplier).Round(2)
	restDayPay := payroll.MinutesToHours(buckets.RestDayMinutes).Mul(rate).Mul(in.settings.RestDayMultiplier).Round(2)

	// Night differential pays only the premium portion on top of whichever
	// bucket the underlying minutes already landed in.
	nightDiffPay := payroll.MinutesToHours(buckets.NightDiffMinutes).Mul(rate).
		Mul(in.settings.NightDiffMultiplier.Sub(decimal.NewFromInt(1))).Round(2)

	allowanceTotal := decimal.Zero
	for _, adj := range adjustments {
		if adj.Type == payroll.AdjustmentAllowance {
			allowanceTotal = allowanceTotal.Add(adj.Amount)
		}
	}

	gross := regularPay.Add(overtimePay).Add(holidayPay).Add(restDayPay).Add(nightDiffPay).Add(allowanceTotal)

	return payroll.PayrollEntry{
		EmployeeID:     emp.ID,
		PeriodID:       period.ID,
		HourlyRate:     rate,
		Buckets:        buckets,
		RegularPay:     regularPay,
		OvertimePay:    overtimePay,
		HolidayPay:     holidayPay,
		RestDayPay:     restDayPay,
		NightDiffPay:   nightDiffPay,
		AllowanceTotal: allowanceTotal,
		GrossPay:       gross,
		Status:         payroll.EntryStatusDraft,
	}
}

func (s *PayrollServiceImpl) GetEntry(ctx context.Context, employeeID, periodID string) (payroll.PayrollEntryResponse, error) {
	entry, err := s.payrollRepo.GetEntry(ctx, employeeID, periodID)
	if err != nil {
		return payroll.PayrollEntryResponse{}, err
	}
	return mapEntryResponse(entry), nil
}

func (s *PayrollServiceImpl) ListEntries(ctx context.Context, periodID string) ([]payroll.PayrollEntryResponse, error) {
	entries, err := s.payrollRepo.ListEntriesByPeriod(ctx, periodID)
	if err != nil {
		return nil, err
	}

	result := make([]payroll.PayrollEntryResponse, 0, len(entries))
	for _, e := range entries {
		result = append(result, mapEntryResponse(e))
	}
	return result, nil
}

func (s *PayrollServiceImpl) CreateAdjustment(ctx context.Context, req payroll.CreateAdjustmentRequest) (payroll.PayrollAdjustment, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayrollAdjustment{}, err
	}

	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return payroll.PayrollAdjustment{}, fmt.Errorf("failed to extract claims from context: %w", err)
	}
	createdBy, _ := claims["employee_id"].(string)

	period, err := s.payrollRepo.GetPeriodByID(ctx, req.PeriodID)
	if err != nil {
		return payroll.PayrollAdjustment{}, err
	}
	if period.Status != payroll.PeriodStatusOpen {
		return payroll.PayrollAdjustment{}, payroll.ErrPeriodNotOpen
	}

	if _, err := s.employeeRepo.GetByID(ctx, req.EmployeeID); err != nil {
		return payroll.PayrollAdjustment{}, err
	}

	created, err := s.payrollRepo.CreateAdjustment(ctx, payroll.PayrollAdjustment{
		EmployeeID: req.EmployeeID,
		PeriodID:   req.PeriodID,
		Name:       req.Name,
		Type:       payroll.AdjustmentType(req.Type),
		Amount:     req.Amount,
		CreatedBy:  createdBy,
	})
	if err != nil {
		return payroll.PayrollAdjustment{}, fmt.Errorf("failed to create adjustment: %w", err)
	}

	return created, nil
}

func (s *PayrollServiceImpl) GetSettings(ctx context.Context, branchID string) (payroll.SettingsResponse, error) {
	settings, err := s.payrollRepo.GetSettings(ctx, branchID)
	if errors.Is(err, payroll.ErrSettingsNotFound) {
		settings = defaultSettings(branchID)
	} else if err != nil {
		return payroll.SettingsResponse{}, err
	}
	return mapSettingsResponse(settings), nil
}

func (s *PayrollServiceImpl) UpdateSettings(ctx context.Context, branchID string, req payroll.UpdateSettingsRequest) (payroll.SettingsResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.SettingsResponse{}, err
	}

	settings, err := s.payrollRepo.GetSettings(ctx, branchID)
	if errors.Is(err, payroll.ErrSettingsNotFound) {
		settings = defaultSettings(branchID)
	} else if err != nil {
		return payroll.SettingsResponse{}, err
	}

	if req.OvertimeMultiplier != nil {
		settings.OvertimeMultiplier = *req.OvertimeMultiplier
	}
	if req.NightDiffMultiplier != nil {
		settings.NightDiffMultiplier = *req.NightDiffMultiplier
	}
	if req.HolidayMultiplier != nil {
		settings.HolidayMultiplier = *req.HolidayMultiplier
	}
	if req.RestDayMultiplier != nil {
		settings.RestDayMultiplier = *req.RestDayMultiplier
	}
	if req.MonthlyEquivalenceFactor != nil {
		settings.MonthlyEquivalenceFactor = *req.MonthlyEquivalenceFactor
	}

	saved, err := s.payrollRepo.UpsertSettings(ctx, settings)
	if err != nil {
		return payroll.SettingsResponse{}, fmt.Errorf("failed to save payroll settings: %w", err)
	}
	return mapSettingsResponse(saved), nil
}

// ========== HELPERS ==========

func mapPeriodResponse(p payroll.PayrollPeriod) payroll.PeriodResponse {
	return payroll.PeriodResponse{
		ID:        p.ID,
		BranchID:  p.BranchID,
		StartDate: p.StartDate.Format("2006-01-02"),
		EndDate:   p.EndDate.Format("2006-01-02"),
		Status:    string(p.Status),
	}
}

func mapEntryResponse(e payroll.PayrollEntry) payroll.PayrollEntryResponse {
	return payroll.PayrollEntryResponse{
		ID:         e.ID,
		EmployeeID: e.EmployeeID,
		PeriodID:   e.PeriodID,
		HourlyRate: e.HourlyRate,
		Hours: payroll.HourBucketsResponse{
			RegularHours:   payroll.MinutesToHours(e.Buckets.RegularMinutes),
			OvertimeHours:  payroll.MinutesToHours(e.Buckets.OvertimeMinutes),
			HolidayHours:   payroll.MinutesToHours(e.Buckets.HolidayMinutes),
			RestDayHours:   payroll.MinutesToHours(e.Buckets.RestDayMinutes),
			NightDiffHours: payroll.MinutesToHours(e.Buckets.NightDiffMinutes),
		},
		RegularPay:       e.RegularPay,
		OvertimePay:      e.OvertimePay,
		HolidayPay:       e.HolidayPay,
		RestDayPay:       e.RestDayPay,
		NightDiffPay:     e.NightDiffPay,
		AllowanceTotal:   e.AllowanceTotal,
		GrossPay:         e.GrossPay,
		DeductionsDetail: e.DeductionsDetail,
		TotalDeductions:  e.TotalDeductions,
		NetPay:           e.NetPay,
		Status:           string(e.Status),
	}
}

func mapSettingsResponse(s payroll.PayrollSettings) payroll.SettingsResponse {
	return payroll.SettingsResponse{
		BranchID:                 s.BranchID,
		OvertimeMultiplier:       s.OvertimeMultiplier,
		NightDiffMultiplier:      s.NightDiffMultiplier,
		HolidayMultiplier:        s.HolidayMultiplier,
		RestDayMultiplier:        s.RestDayMultiplier,
		MonthlyEquivalenceFactor: s.MonthlyEquivalenceFactor,
	}
}
