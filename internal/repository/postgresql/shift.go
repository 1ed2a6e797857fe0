package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/kapehan/cafe-workforce-backend-go/internal/domain/shift"
	"github.com/kapehan/cafe-workforce-backend-go/internal/pkg/database"
)

type shiftRepositoryImpl struct {
	db *database.DB
}

func NewShiftRepository(db *database.DB) shift.ShiftRepository {
	return &shiftRepositoryImpl{db: db}
}

func (r *shiftRepositoryImpl) Create(ctx context.Context, s shift.Shift) (shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO shifts (
			id, employee_id, branch_id, position,
			scheduled_start, scheduled_end, status,
			created_at, updated_at
		) VALUES (
			uuidv7(), $1, $2, $3,
			$4, $5, $6,
			NOW(), NOW()
		)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		s.EmployeeID,
		s.BranchID,
		s.Position,
		s.ScheduledStart,
		s.ScheduledEnd,
		s.Status,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return shift.Shift{}, err
	}

	return s, nil
}

const shiftColumns = `
	id, employee_id, branch_id, position,
	scheduled_start, scheduled_end, actual_start, actual_end,
	status, created_at, updated_at
`

func scanShift(row pgx.Row) (shift.Shift, error) {
	var s shift.Shift
	err := row.Scan(
		&s.ID,
		&s.EmployeeID,
		&s.BranchID,
		&s.Position,
		&s.ScheduledStart,
		&s.ScheduledEnd,
		&s.ActualStart,
		&s.ActualEnd,
		&s.Status,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	return s, err
}

func (r *shiftRepositoryImpl) GetByID(ctx context.Context, id string) (shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + shiftColumns + ` FROM shifts WHERE id = $1`

	s, err := scanShift(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shift.Shift{}, shift.ErrShiftNotFound
		}
		return shift.Shift{}, err
	}

	breaks, err := r.loadBreaks(ctx, []string{s.ID})
	if err != nil {
		return shift.Shift{}, err
	}
	s.Breaks = breaks[s.ID]

	return s, nil
}

func (r *shiftRepositoryImpl) List(ctx context.Context, filter shift.ShiftFilter) ([]shift.Shift, int64, error) {
	q := GetQuerier(ctx, r.db)

	var conditions []string
	var args []interface{}
	argN := 1

	addCondition := func(cond string, value interface{}) {
		conditions = append(conditions, fmt.Sprintf(cond, argN))
		args = append(args, value)
		argN++
	}

	if filter.EmployeeID != nil {
		addCondition("employee_id = $%d", *filter.EmployeeID)
	}
	if filter.BranchID != nil {
		addCondition("branch_id = $%d", *filter.BranchID)
	}
	if filter.Status != nil {
		addCondition("status = $%d", *filter.Status)
	}
	if filter.From != nil {
		addCondition("scheduled_start >= $%d", *filter.From)
	}
	if filter.To != nil {
		addCondition("scheduled_start <= $%d", *filter.To)
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := `SELECT COUNT(*) FROM shifts ` + where
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT %s FROM shifts %s
		ORDER BY scheduled_start ASC
		LIMIT $%d OFFSET $%d
	`, shiftColumns, where, argN, argN+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var shifts []shift.Shift
	var ids []string
	for rows.Next() {
		s, err := scanShift(rows)
		if err != nil {
			return nil, 0, err
		}
		shifts = append(shifts, s)
		ids = append(ids, s.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	if len(ids) > 0 {
		breaks, err := r.loadBreaks(ctx, ids)
		if err != nil {
			return nil, 0, err
		}
		for i := range shifts {
			shifts[i].Breaks = breaks[shifts[i].ID]
		}
	}

	return shifts, total, nil
}

func (r *shiftRepositoryImpl) SetActualStart(ctx context.Context, id string, at time.Time) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE shifts
		SET actual_start = $2, updated_at = NOW()
		WHERE id = $1
	`
	tag, err := q.Exec(ctx, query, id, at)
	if err != nil {
		return err
	}
	if tag.RowsAffected() != 1 {
		return shift.ErrShiftNotFound
	}
	return nil
}

func (r *shiftRepositoryImpl) CompleteShift(ctx context.Context, id string, at time.Time) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE shifts
		SET actual_end = $2, status = $3, updated_at = NOW()
		WHERE id = $1
	`
	tag, err := q.Exec(ctx, query, id, at, shift.ShiftStatusCompleted)
	if err != nil {
		return err
	}
	if tag.RowsAffected() != 1 {
		return shift.ErrShiftNotFound
	}
	return nil
}

func (r *shiftRepositoryImpl) CreateBreaks(ctx context.Context, shiftID string, breaks []shift.Break) ([]shift.Break, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO shift_breaks (
			id, shift_id, type, scheduled_start, scheduled_end, paid, required
		) VALUES (
			uuidv7(), $1, $2, $3, $4, $5, $6
		)
		RETURNING id
	`

	created := make([]shift.Break, 0, len(breaks))
	for _, b := range breaks {
		b.ShiftID = shiftID
		err := q.QueryRow(ctx, query,
			shiftID,
			b.Type,
			b.ScheduledStart,
			b.ScheduledEnd,
			b.Paid,
			b.Required,
		).Scan(&b.ID)
		if err != nil {
			return nil, err
		}
		created = append(created, b)
	}

	return created, nil
}

func (r *shiftRepositoryImpl) GetBreakByID(ctx context.Context, breakID string) (shift.Break, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, shift_id, type, scheduled_start, scheduled_end, actual_start, actual_end, paid, required
		FROM shift_breaks
		WHERE id = $1
	`

	var b shift.Break
	err := q.QueryRow(ctx, query, breakID).Scan(
		&b.ID,
		&b.ShiftID,
		&b.Type,
		&b.ScheduledStart,
		&b.ScheduledEnd,
		&b.ActualStart,
		&b.ActualEnd,
		&b.Paid,
		&b.Required,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shift.Break{}, shift.ErrBreakNotFound
		}
		return shift.Break{}, err
	}

	return b, nil
}

func (r *shiftRepositoryImpl) SetBreakActualStart(ctx context.Context, breakID string, at time.Time) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE shift_breaks SET actual_start = $2 WHERE id = $1`, breakID, at)
	if err != nil {
		return err
	}
	if tag.RowsAffected() != 1 {
		return shift.ErrBreakNotFound
	}
	return nil
}

func (r *shiftRepositoryImpl) SetBreakActualEnd(ctx context.Context, breakID string, at time.Time) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE shift_breaks SET actual_end = $2 WHERE id = $1`, breakID, at)
	if err != nil {
		return err
	}
	if tag.RowsAffected() != 1 {
		return shift.ErrBreakNotFound
	}
	return nil
}

func (r *shiftRepositoryImpl) GetCompletedForPeriod(ctx context.Context, employeeID string, from, to time.Time) ([]shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + shiftColumns + `
		FROM shifts
		WHERE employee_id = $1
		  AND status = $2
		  AND scheduled_start >= $3
		  AND scheduled_start <= $4
		ORDER BY scheduled_start ASC
	`

	rows, err := q.Query(ctx, query, employeeID, shift.ShiftStatusCompleted, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shifts []shift.Shift
	var ids []string
	for rows.Next() {
		s, err := scanShift(rows)
		if err != nil {
			return nil, err
		}
		shifts = append(shifts, s)
		ids = append(ids, s.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(ids) > 0 {
		breaks, err := r.loadBreaks(ctx, ids)
		if err != nil {
			return nil, err
		}
		for i := range shifts {
			shifts[i].Breaks = breaks[shifts[i].ID]
		}
	}

	return shifts, nil
}

// loadBreaks fetches the breaks of many shifts in one query, keyed by shift id.
func (r *shiftRepositoryImpl) loadBreaks(ctx context.Context, shiftIDs []string) (map[string][]shift.Break, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, shift_id, type, scheduled_start, scheduled_end, actual_start, actual_end, paid, required
		FROM shift_breaks
		WHERE shift_id = ANY($1)
		ORDER BY scheduled_start ASC
	`

	rows, err := q.Query(ctx, query, shiftIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string][]shift.Break)
	for rows.Next() {
		var b shift.Break
		err := rows.Scan(
			&b.ID,
			&b.ShiftID,
			&b.Type,
			&b.ScheduledStart,
			&b.ScheduledEnd,
			&b.ActualStart,
			&b.ActualEnd,
			&b.Paid,
			&b.Required,
		)
		if err != nil {
			return nil, err
		}
		result[b.ShiftID] = append(result[b.ShiftID], b)
	}

	return result, rows.Err()
}

type timeEntryRepositoryImpl struct {
	db *database.DB
}

func NewTimeEntryRepository(db *database.DB) shift.TimeEntryRepository {
	return &timeEntryRepositoryImpl{db: db}
}

func (r *timeEntryRepositoryImpl) Append(ctx context.Context, entry shift.TimeEntry) (shift.TimeEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO time_entries (
			id, employee_id, shift_id, break_id, type, occurred_at, created_at
		) VALUES (
			uuidv7(), $1, $2, $3, $4, $5, NOW()
		)
		RETURNING id, created_at
	`

	err := q.QueryRow(ctx, query,
		entry.EmployeeID,
		entry.ShiftID,
		entry.BreakID,
		entry.Type,
		entry.OccurredAt,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return shift.TimeEntry{}, err
	}

	return entry, nil
}

func (r *timeEntryRepositoryImpl) ListByEmployee(ctx context.Context, employeeID string, from, to time.Time) ([]shift.TimeEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, shift_id, break_id, type, occurred_at, created_at
		FROM time_entries
		WHERE employee_id = $1 AND occurred_at >= $2 AND occurred_at <= $3
		ORDER BY occurred_at ASC
	`

	rows, err := q.Query(ctx, query, employeeID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []shift.TimeEntry
	for rows.Next() {
		var e shift.TimeEntry
		err := rows.Scan(
			&e.ID,
			&e.EmployeeID,
			&e.ShiftID,
			&e.BreakID,
			&e.Type,
			&e.OccurredAt,
			&e.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

type breakPolicyRepositoryImpl struct {
	db *database.DB
}

func NewBreakPolicyRepository(db *database.DB) shift.BreakPolicyRepository {
	return &breakPolicyRepositoryImpl{db: db}
}

func (r *breakPolicyRepositoryImpl) GetAll(ctx context.Context) ([]shift.BreakPolicy, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT p.id, p.min_shift_minutes, s.type, s.duration_minutes, s.paid, s.required
		FROM break_policies p
		INNER JOIN break_policy_specs s ON s.policy_id = p.id
		ORDER BY p.min_shift_minutes ASC, s.sort_order ASC
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var policies []shift.BreakPolicy
	index := make(map[string]int)
	for rows.Next() {
		var id string
		var minShiftMinutes int
		var spec shift.BreakSpec
		err := rows.Scan(&id, &minShiftMinutes, &spec.Type, &spec.DurationMinutes, &spec.Paid, &spec.Required)
		if err != nil {
			return nil, err
		}

		i, ok := index[id]
		if !ok {
			policies = append(policies, shift.BreakPolicy{ID: id, MinShiftMinutes: minShiftMinutes})
			i = len(policies) - 1
			index[id] = i
		}
		policies[i].Breaks = append(policies[i].Breaks, spec)
	}

	return policies, rows.Err()
}
