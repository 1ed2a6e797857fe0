package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/kapehan/cafe-workforce-backend-go/internal/domain/payroll"
	"github.com/kapehan/cafe-workforce-backend-go/internal/pkg/database"
	"github.com/shopspring/decimal"
)

type payrollRepositoryImpl struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepositoryImpl{db: db}
}

func (r *payrollRepositoryImpl) CreatePeriod(ctx context.Context, period payroll.PayrollPeriod) (payroll.PayrollPeriod, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_periods (
			id, branch_id, start_date, end_date, status, created_at, updated_at
		) VALUES (
			uuidv7(), $1, $2, $3, $4, NOW(), NOW()
		)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		period.BranchID,
		period.StartDate,
		period.EndDate,
		period.Status,
	).Scan(&period.ID, &period.CreatedAt, &period.UpdatedAt)
	if err != nil {
		// Partial unique index on (branch_id) WHERE status = 'open' backs
		// the one-open-period-per-branch rule against concurrent creates.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return payroll.PayrollPeriod{}, payroll.ErrOpenPeriodExists
		}
		return payroll.PayrollPeriod{}, err
	}

	return period, nil
}

const periodColumns = `id, branch_id, start_date, end_date, status, created_at, updated_at`

func scanPeriod(row pgx.Row) (payroll.PayrollPeriod, error) {
	var p payroll.PayrollPeriod
	err := row.Scan(
		&p.ID,
		&p.BranchID,
		&p.StartDate,
		&p.EndDate,
		&p.Status,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	return p, err
}

func (r *payrollRepositoryImpl) GetPeriodByID(ctx context.Context, id string) (payroll.PayrollPeriod, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + periodColumns + ` FROM payroll_periods WHERE id = $1`

	p, err := scanPeriod(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayrollPeriod{}, payroll.ErrPeriodNotFound
		}
		return payroll.PayrollPeriod{}, err
	}

	return p, nil
}

func (r *payrollRepositoryImpl) GetOpenPeriodByBranch(ctx context.Context, branchID string) (payroll.PayrollPeriod, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + periodColumns + ` FROM payroll_periods WHERE branch_id = $1 AND status = 'open'`

	p, err := scanPeriod(q.QueryRow(ctx, query, branchID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayrollPeriod{}, payroll.ErrPeriodNotFound
		}
		return payroll.PayrollPeriod{}, err
	}

	return p, nil
}

func (r *payrollRepositoryImpl) TransitionPeriod(ctx context.Context, id string, from, to payroll.PeriodStatus) (payroll.PayrollPeriod, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payroll_periods
		SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2
		RETURNING ` + periodColumns

	p, err := scanPeriod(q.QueryRow(ctx, query, id, from, to))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			if _, getErr := r.GetPeriodByID(ctx, id); getErr != nil {
				return payroll.PayrollPeriod{}, getErr
			}
			return payroll.PayrollPeriod{}, payroll.ErrPeriodNotOpen
		}
		return payroll.PayrollPeriod{}, err
	}

	return p, nil
}

const entryColumns = `
	id, employee_id, period_id, hourly_rate,
	regular_minutes, overtime_minutes, holiday_minutes, rest_day_minutes, night_diff_minutes,
	regular_pay, overtime_pay, holiday_pay, rest_day_pay, night_diff_pay, allowance_total,
	gross_pay, deductions_detail, total_deductions, net_pay,
	status, created_at, updated_at
`

func scanEntry(row pgx.Row) (payroll.PayrollEntry, error) {
	var e payroll.PayrollEntry
	var detail []byte
	err := row.Scan(
		&e.ID,
		&e.EmployeeID,
		&e.PeriodID,
		&e.HourlyRate,
		&e.Buckets.RegularMinutes,
		&e.Buckets.OvertimeMinutes,
		&e.Buckets.HolidayMinutes,
		&e.Buckets.RestDayMinutes,
		&e.Buckets.NightDiffMinutes,
		&e.RegularPay,
		&e.OvertimePay,
		&e.HolidayPay,
		&e.RestDayPay,
		&e.NightDiffPay,
		&e.AllowanceTotal,
		&e.GrossPay,
		&detail,
		&e.TotalDeductions,
		&e.NetPay,
		&e.Status,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return payroll.PayrollEntry{}, err
	}

	if len(detail) > 0 {
		if err := json.Unmarshal(detail, &e.DeductionsDetail); err != nil {
			return payroll.PayrollEntry{}, err
		}
	}

	return e, nil
}

// UpsertDraftEntry inserts the entry or overwrites the existing draft for the
// same (employee_id, period_id). The conflict branch is conditional on draft
// status, so a finalized entry yields zero rows and surfaces as
// ErrEntryFinalized.
func (r *payrollRepositoryImpl) UpsertDraftEntry(ctx context.Context, entry payroll.PayrollEntry) (payroll.PayrollEntry, error) {
	q := GetQuerier(ctx, r.db)

	detail, err := json.Marshal(entry.DeductionsDetail)
	if err != nil {
		return payroll.PayrollEntry{}, err
	}

	query := `
		INSERT INTO payroll_entries (
			id, employee_id, period_id, hourly_rate,
			regular_minutes, overtime_minutes, holiday_minutes, rest_day_minutes, night_diff_minutes,
			regular_pay, overtime_pay, holiday_pay, rest_day_pay, night_diff_pay, allowance_total,
			gross_pay, deductions_detail, total_deductions, net_pay,
			status, created_at, updated_at
		) VALUES (
			uuidv7(), $1, $2, $3,
			$4, $5, $6, $7, $8,
			$9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18,
			'draft', NOW(), NOW()
		)
		ON CONFLICT (employee_id, period_id) DO UPDATE SET
			hourly_rate = EXCLUDED.hourly_rate,
			regular_minutes = EXCLUDED.regular_minutes,
			overtime_minutes = EXCLUDED.overtime_minutes,
			holiday_minutes = EXCLUDED.holiday_minutes,
			rest_day_minutes = EXCLUDED.rest_day_minutes,
			night_diff_minutes = EXCLUDED.night_diff_minutes,
			regular_pay = EXCLUDED.regular_pay,
			overtime_pay = EXCLUDED.overtime_pay,
			holiday_pay = EXCLUDED.holiday_pay,
			rest_day_pay = EXCLUDED.rest_day_pay,
			night_diff_pay = EXCLUDED.night_diff_pay,
			allowance_total = EXCLUDED.allowance_total,
			gross_pay = EXCLUDED.gross_pay,
			deductions_detail = EXCLUDED.deductions_detail,
			total_deductions = EXCLUDED.total_deductions,
			net_pay = EXCLUDED.net_pay,
			updated_at = NOW()
		WHERE payroll_entries.status = 'draft'
		RETURNING ` + entryColumns

	saved, err := scanEntry(q.QueryRow(ctx, query,
		entry.EmployeeID,
		entry.PeriodID,
		entry.HourlyRate,
		entry.Buckets.RegularMinutes,
		entry.Buckets.OvertimeMinutes,
		entry.Buckets.HolidayMinutes,
		entry.Buckets.RestDayMinutes,
		entry.Buckets.NightDiffMinutes,
		entry.RegularPay,
		entry.OvertimePay,
		entry.HolidayPay,
		entry.RestDayPay,
		entry.NightDiffPay,
		entry.AllowanceTotal,
		entry.GrossPay,
		detail,
		entry.TotalDeductions,
		entry.NetPay,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayrollEntry{}, payroll.ErrEntryFinalized
		}
		return payroll.PayrollEntry{}, err
	}

	return saved, nil
}

func (r *payrollRepositoryImpl) GetEntry(ctx context.Context, employeeID, periodID string) (payroll.PayrollEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + entryColumns + ` FROM payroll_entries WHERE employee_id = $1 AND period_id = $2`

	e, err := scanEntry(q.QueryRow(ctx, query, employeeID, periodID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayrollEntry{}, payroll.ErrEntryNotFound
		}
		return payroll.PayrollEntry{}, err
	}

	return e, nil
}

func (r *payrollRepositoryImpl) ListEntriesByPeriod(ctx context.Context, periodID string) ([]payroll.PayrollEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + entryColumns + ` FROM payroll_entries WHERE period_id = $1 ORDER BY employee_id ASC`

	rows, err := q.Query(ctx, query, periodID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []payroll.PayrollEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

func (r *payrollRepositoryImpl) CreateAdjustment(ctx context.Context, adj payroll.PayrollAdjustment) (payroll.PayrollAdjustment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_adjustments (
			id, employee_id, period_id, name, type, amount, created_by, created_at
		) VALUES (
			uuidv7(), $1, $2, $3, $4, $5, $6, NOW()
		)
		RETURNING id, created_at
	`

	err := q.QueryRow(ctx, query,
		adj.EmployeeID,
		adj.PeriodID,
		adj.Name,
		adj.Type,
		adj.Amount,
		adj.CreatedBy,
	).Scan(&adj.ID, &adj.CreatedAt)
	if err != nil {
		return payroll.PayrollAdjustment{}, err
	}

	return adj, nil
}

func (r *payrollRepositoryImpl) GetAdjustmentsForPeriod(ctx context.Context, periodID string) ([]payroll.PayrollAdjustment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, period_id, name, type, amount, created_by, created_at
		FROM payroll_adjustments
		WHERE period_id = $1
		ORDER BY created_at ASC
	`

	rows, err := q.Query(ctx, query, periodID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var adjustments []payroll.PayrollAdjustment
	for rows.Next() {
		var a payroll.PayrollAdjustment
		err := rows.Scan(
			&a.ID,
			&a.EmployeeID,
			&a.PeriodID,
			&a.Name,
			&a.Type,
			&a.Amount,
			&a.CreatedBy,
			&a.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		adjustments = append(adjustments, a)
	}

	return adjustments, rows.Err()
}

func (r *payrollRepositoryImpl) GetSettings(ctx context.Context, branchID string) (payroll.PayrollSettings, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, branch_id, overtime_multiplier, night_diff_multiplier, holiday_multiplier,
		       rest_day_multiplier, monthly_equivalence_factor, created_at, updated_at
		FROM payroll_settings
		WHERE branch_id = $1
	`

	var s payroll.PayrollSettings
	err := q.QueryRow(ctx, query, branchID).Scan(
		&s.ID,
		&s.BranchID,
		&s.OvertimeMultiplier,
		&s.NightDiffMultiplier,
		&s.HolidayMultiplier,
		&s.RestDayMultiplier,
		&s.MonthlyEquivalenceFactor,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayrollSettings{}, payroll.ErrSettingsNotFound
		}
		return payroll.PayrollSettings{}, err
	}

	return s, nil
}

func (r *payrollRepositoryImpl) UpsertSettings(ctx context.Context, settings payroll.PayrollSettings) (payroll.PayrollSettings, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_settings (
			id, branch_id, overtime_multiplier, night_diff_multiplier, holiday_multiplier,
			rest_day_multiplier, monthly_equivalence_factor, created_at, updated_at
		) VALUES (
			uuidv7(), $1, $2, $3, $4, $5, $6, NOW(), NOW()
		)
		ON CONFLICT (branch_id) DO UPDATE SET
			overtime_multiplier = EXCLUDED.overtime_multiplier,
			night_diff_multiplier = EXCLUDED.night_diff_multiplier,
			holiday_multiplier = EXCLUDED.holiday_multiplier,
			rest_day_multiplier = EXCLUDED.rest_day_multiplier,
			monthly_equivalence_factor = EXCLUDED.monthly_equivalence_factor,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		settings.BranchID,
		settings.OvertimeMultiplier,
		settings.NightDiffMultiplier,
		settings.HolidayMultiplier,
		settings.RestDayMultiplier,
		settings.MonthlyEquivalenceFactor,
	).Scan(&settings.ID, &settings.CreatedAt, &settings.UpdatedAt)
	if err != nil {
		return payroll.PayrollSettings{}, err
	}

	return settings, nil
}

type bracketRepositoryImpl struct {
	db *database.DB
}

func NewBracketRepository(db *database.DB) payroll.BracketRepository {
	return &bracketRepositoryImpl{db: db}
}

// GetEffective picks the newest table revision at or before onDate, then
// returns its brackets ordered by min salary.
func (r *bracketRepositoryImpl) GetEffective(ctx context.Context, typ payroll.DeductionType, onDate time.Time) ([]payroll.DeductionBracket, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, type, min_salary, max_salary, rate, fixed_contribution, effective_date
		FROM deduction_brackets
		WHERE type = $1
		  AND effective_date = (
			SELECT MAX(effective_date)
			FROM deduction_brackets
			WHERE type = $1 AND effective_date <= $2
		  )
		ORDER BY min_salary ASC
	`

	rows, err := q.Query(ctx, query, typ, onDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var brackets []payroll.DeductionBracket
	for rows.Next() {
		var b payroll.DeductionBracket
		var maxSalary, rate, fixed *decimal.Decimal
		err := rows.Scan(
			&b.ID,
			&b.Type,
			&b.MinSalary,
			&maxSalary,
			&rate,
			&fixed,
			&b.EffectiveDate,
		)
		if err != nil {
			return nil, err
		}
		b.MaxSalary = maxSalary
		b.Rate = rate
		b.FixedContribution = fixed
		brackets = append(brackets, b)
	}

	return brackets, rows.Err()
}

type holidayRepositoryImpl struct {
	db *database.DB
}

func NewHolidayRepository(db *database.DB) payroll.HolidayRepository {
	return &holidayRepositoryImpl{db: db}
}

func (r *holidayRepositoryImpl) GetRange(ctx context.Context, from, to time.Time) ([]payroll.Holiday, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, date, name
		FROM holidays
		WHERE date >= $1 AND date <= $2
		ORDER BY date ASC
	`

	rows, err := q.Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var holidays []payroll.Holiday
	for rows.Next() {
		var h payroll.Holiday
		if err := rows.Scan(&h.ID, &h.Date, &h.Name); err != nil {
			return nil, err
		}
		holidays = append(holidays, h)
	}

	return holidays, rows.Err()
}
