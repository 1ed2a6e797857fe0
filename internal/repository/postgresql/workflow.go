package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/kapehan/cafe-workforce-backend-go/internal/domain/shift"
	"github.com/kapehan/cafe-workforce-backend-go/internal/domain/workflow"
	"github.com/kapehan/cafe-workforce-backend-go/internal/pkg/database"
)

type tradeRepositoryImpl struct {
	db *database.DB
}

func NewTradeRepository(db *database.DB) workflow.TradeRepository {
	return &tradeRepositoryImpl{db: db}
}

const tradeColumns = `
	id, shift_id, from_employee_id, to_employee_id, reason,
	status, claimed_by, resolved_at, created_at, updated_at
`

func scanTrade(row pgx.Row) (workflow.TradeRequest, error) {
	var t workflow.TradeRequest
	err := row.Scan(
		&t.ID,
		&t.ShiftID,
		&t.FromEmployeeID,
		&t.ToEmployeeID,
		&t.Reason,
		&t.Status,
		&t.ClaimedBy,
		&t.ResolvedAt,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	return t, err
}

func (r *tradeRepositoryImpl) Create(ctx context.Context, req workflow.TradeRequest) (workflow.TradeRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO trade_requests (
			id, shift_id, from_employee_id, to_employee_id, reason, status, created_at, updated_at
		) VALUES (
			uuidv7(), $1, $2, $3, $4, $5, NOW(), NOW()
		)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		req.ShiftID,
		req.FromEmployeeID,
		req.ToEmployeeID,
		req.Reason,
		req.Status,
	).Scan(&req.ID, &req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		return workflow.TradeRequest{}, err
	}

	return req, nil
}

func (r *tradeRepositoryImpl) GetByID(ctx context.Context, id string) (workflow.TradeRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + tradeColumns + ` FROM trade_requests WHERE id = $1`

	t, err := scanTrade(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return workflow.TradeRequest{}, workflow.ErrTradeNotFound
		}
		return workflow.TradeRequest{}, err
	}

	return t, nil
}

func (r *tradeRepositoryImpl) List(ctx context.Context, filter workflow.TradeFilter) ([]workflow.TradeRequest, error) {
	q := GetQuerier(ctx, r.db)

	var conditions []string
	var args []interface{}
	argN := 1

	addCondition := func(cond string, value interface{}) {
		conditions = append(conditions, fmt.Sprintf(cond, argN))
		args = append(args, value)
		argN++
	}

	if filter.ShiftID != nil {
		addCondition("shift_id = $%d", *filter.ShiftID)
	}
	if filter.EmployeeID != nil {
		addCondition("(from_employee_id = $%d OR to_employee_id = $%[1]d)", *filter.EmployeeID)
	}
	if filter.Status != nil {
		addCondition("status = $%d", *filter.Status)
	}
	if filter.OpenOnly {
		conditions = append(conditions, "status = 'pending' AND to_employee_id IS NULL")
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := `SELECT ` + tradeColumns + ` FROM trade_requests ` + where + ` ORDER BY created_at DESC`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trades []workflow.TradeRequest
	for rows.Next() {
		t, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		trades = append(trades, t)
	}

	return trades, rows.Err()
}

func (r *tradeRepositoryImpl) HasOpenForShift(ctx context.Context, shiftID string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM trade_requests
			WHERE shift_id = $1 AND status = 'pending'
		)
	`

	var exists bool
	err := q.QueryRow(ctx, query, shiftID).Scan(&exists)
	return exists, err
}

func (r *tradeRepositoryImpl) Claim(ctx context.Context, tradeID, claimantID string) (workflow.TradeRequest, shift.Shift, error) {
	var trade workflow.TradeRequest
	var reassigned shift.Shift

	err := WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		// Conditional on pending: exactly one of two racing claims wins the
		// status flip, the other sees zero rows.
		claimQuery := `
			UPDATE trade_requests
			SET status = 'approved', claimed_by = $2, resolved_at = NOW(), updated_at = NOW()
			WHERE id = $1 AND status = 'pending'
			RETURNING ` + tradeColumns

		var err error
		trade, err = scanTrade(tx.QueryRow(ctx, claimQuery, tradeID, claimantID))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return claimRaceError(ctx, tx, tradeID)
			}
			return err
		}

		reassignQuery := `
			UPDATE shifts
			SET employee_id = $2, updated_at = NOW()
			WHERE id = $1
			RETURNING ` + shiftColumns

		reassigned, err = scanShift(tx.QueryRow(ctx, reassignQuery, trade.ShiftID, claimantID))
		return err
	})
	if err != nil {
		return workflow.TradeRequest{}, shift.Shift{}, err
	}

	return trade, reassigned, nil
}

func claimRaceError(ctx context.Context, tx pgx.Tx, tradeID string) error {
	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM trade_requests WHERE id = $1)`, tradeID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return workflow.ErrTradeNotFound
	}
	return workflow.ErrTradeNotPending
}

func (r *tradeRepositoryImpl) Transition(ctx context.Context, tradeID string, from, to workflow.TradeStatus, resolvedBy *string) (workflow.TradeRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE trade_requests
		SET status = $3, claimed_by = COALESCE($4, claimed_by), resolved_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND status = $2
		RETURNING ` + tradeColumns

	t, err := scanTrade(q.QueryRow(ctx, query, tradeID, from, to, resolvedBy))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			if _, getErr := r.GetByID(ctx, tradeID); getErr != nil {
				return workflow.TradeRequest{}, getErr
			}
			return workflow.TradeRequest{}, workflow.ErrTradeNotPending
		}
		return workflow.TradeRequest{}, err
	}

	return t, nil
}

func (r *tradeRepositoryImpl) ExpirePendingBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE trade_requests tr
		SET status = 'rejected', resolved_at = NOW(), updated_at = NOW()
		FROM shifts s
		WHERE tr.shift_id = s.id
		  AND tr.status = 'pending'
		  AND s.scheduled_start < $1
	`

	tag, err := q.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

type dropRepositoryImpl struct {
	db *database.DB
}

func NewDropRepository(db *database.DB) workflow.DropRepository {
	return &dropRepositoryImpl{db: db}
}

const dropColumns = `
	id, shift_id, employee_id, reason, status,
	resolved_by, picked_up_by, resolved_at, picked_up_at, created_at, updated_at
`

func scanDrop(row pgx.Row) (workflow.DropRequest, error) {
	var d workflow.DropRequest
	err := row.Scan(
		&d.ID,
		&d.ShiftID,
		&d.EmployeeID,
		&d.Reason,
		&d.Status,
		&d.ResolvedBy,
		&d.PickedUpBy,
		&d.ResolvedAt,
		&d.PickedUpAt,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	return d, err
}

func (r *dropRepositoryImpl) Create(ctx context.Context, req workflow.DropRequest) (workflow.DropRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO drop_requests (
			id, shift_id, employee_id, reason, status, created_at, updated_at
		) VALUES (
			uuidv7(), $1, $2, $3, $4, NOW(), NOW()
		)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		req.ShiftID,
		req.EmployeeID,
		req.Reason,
		req.Status,
	).Scan(&req.ID, &req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		return workflow.DropRequest{}, err
	}

	return req, nil
}

func (r *dropRepositoryImpl) GetByID(ctx context.Context, id string) (workflow.DropRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + dropColumns + ` FROM drop_requests WHERE id = $1`

	d, err := scanDrop(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return workflow.DropRequest{}, workflow.ErrDropNotFound
		}
		return workflow.DropRequest{}, err
	}

	return d, nil
}

func (r *dropRepositoryImpl) List(ctx context.Context, filter workflow.DropFilter) ([]workflow.DropRequest, error) {
	q := GetQuerier(ctx, r.db)

	var conditions []string
	var args []interface{}
	argN := 1

	addCondition := func(cond string, value interface{}) {
		conditions = append(conditions, fmt.Sprintf(cond, argN))
		args = append(args, value)
		argN++
	}

	if filter.ShiftID != nil {
		addCondition("shift_id = $%d", *filter.ShiftID)
	}
	if filter.EmployeeID != nil {
		addCondition("employee_id = $%d", *filter.EmployeeID)
	}
	if filter.Status != nil {
		addCondition("status = $%d", *filter.Status)
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := `SELECT ` + dropColumns + ` FROM drop_requests ` + where + ` ORDER BY created_at DESC`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var drops []workflow.DropRequest
	for rows.Next() {
		d, err := scanDrop(rows)
		if err != nil {
			return nil, err
		}
		drops = append(drops, d)
	}

	return drops, rows.Err()
}

func (r *dropRepositoryImpl) HasActiveForShift(ctx context.Context, shiftID string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM drop_requests
			WHERE shift_id = $1 AND status IN ('pending', 'approved')
		)
	`

	var exists bool
	err := q.QueryRow(ctx, query, shiftID).Scan(&exists)
	return exists, err
}

func (r *dropRepositoryImpl) Resolve(ctx context.Context, dropID string, decision workflow.DropDecision, managerID string) (workflow.DropRequest, error) {
	q := GetQuerier(ctx, r.db)

	to := workflow.DropStatusRejected
	if decision == workflow.DropDecisionApprove {
		to = workflow.DropStatusApproved
	}

	query := `
		UPDATE drop_requests
		SET status = $2, resolved_by = $3, resolved_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
		RETURNING ` + dropColumns

	d, err := scanDrop(q.QueryRow(ctx, query, dropID, to, managerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			if _, getErr := r.GetByID(ctx, dropID); getErr != nil {
				return workflow.DropRequest{}, getErr
			}
			return workflow.DropRequest{}, workflow.ErrDropAlreadyResolved
		}
		return workflow.DropRequest{}, err
	}

	return d, nil
}

func (r *dropRepositoryImpl) Pickup(ctx context.Context, dropID, employeeID string) (workflow.DropRequest, shift.Shift, error) {
	var drop workflow.DropRequest
	var reassigned shift.Shift

	err := WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		// Conditional on approved: exactly one of two racing pickups wins.
		pickupQuery := `
			UPDATE drop_requests
			SET status = 'picked_up', picked_up_by = $2, picked_up_at = NOW(), updated_at = NOW()
			WHERE id = $1 AND status = 'approved'
			RETURNING ` + dropColumns

		var err error
		drop, err = scanDrop(tx.QueryRow(ctx, pickupQuery, dropID, employeeID))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return pickupRaceError(ctx, tx, dropID)
			}
			return err
		}

		reassignQuery := `
			UPDATE shifts
			SET employee_id = $2, updated_at = NOW()
			WHERE id = $1
			RETURNING ` + shiftColumns

		reassigned, err = scanShift(tx.QueryRow(ctx, reassignQuery, drop.ShiftID, employeeID))
		return err
	})
	if err != nil {
		return workflow.DropRequest{}, shift.Shift{}, err
	}

	return drop, reassigned, nil
}

func pickupRaceError(ctx context.Context, tx pgx.Tx, dropID string) error {
	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM drop_requests WHERE id = $1)`, dropID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return workflow.ErrDropNotFound
	}
	return workflow.ErrDropNotApproved
}

func (r *dropRepositoryImpl) ExpirePendingBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE drop_requests dr
		SET status = 'rejected', resolved_at = NOW(), updated_at = NOW()
		FROM shifts s
		WHERE dr.shift_id = s.id
		  AND dr.status = 'pending'
		  AND s.scheduled_start < $1
	`

	tag, err := q.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

type timeOffRepositoryImpl struct {
	db *database.DB
}

func NewTimeOffRepository(db *database.DB) workflow.TimeOffRepository {
	return &timeOffRepositoryImpl{db: db}
}

const timeOffColumns = `
	id, employee_id, start_date, end_date, type, reason,
	status, resolved_by, resolved_at, created_at, updated_at
`

func scanTimeOff(row pgx.Row) (workflow.TimeOffRequest, error) {
	var t workflow.TimeOffRequest
	err := row.Scan(
		&t.ID,
		&t.EmployeeID,
		&t.StartDate,
		&t.EndDate,
		&t.Type,
		&t.Reason,
		&t.Status,
		&t.ResolvedBy,
		&t.ResolvedAt,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	return t, err
}

func (r *timeOffRepositoryImpl) Create(ctx context.Context, req workflow.TimeOffRequest) (workflow.TimeOffRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO time_off_requests (
			id, employee_id, start_date, end_date, type, reason, status, created_at, updated_at
		) VALUES (
			uuidv7(), $1, $2, $3, $4, $5, $6, NOW(), NOW()
		)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		req.EmployeeID,
		req.StartDate,
		req.EndDate,
		req.Type,
		req.Reason,
		req.Status,
	).Scan(&req.ID, &req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		return workflow.TimeOffRequest{}, err
	}

	return req, nil
}

func (r *timeOffRepositoryImpl) GetByID(ctx context.Context, id string) (workflow.TimeOffRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + timeOffColumns + ` FROM time_off_requests WHERE id = $1`

	t, err := scanTimeOff(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return workflow.TimeOffRequest{}, workflow.ErrTimeOffNotFound
		}
		return workflow.TimeOffRequest{}, err
	}

	return t, nil
}

func (r *timeOffRepositoryImpl) List(ctx context.Context, filter workflow.TimeOffFilter) ([]workflow.TimeOffRequest, error) {
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
	if filter.Status != nil {
		addCondition("status = $%d", *filter.Status)
	}
	if filter.From != nil {
		addCondition("end_date >= $%d", *filter.From)
	}
	if filter.To != nil {
		addCondition("start_date <= $%d", *filter.To)
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := `SELECT ` + timeOffColumns + ` FROM time_off_requests ` + where + ` ORDER BY start_date DESC`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []workflow.TimeOffRequest
	for rows.Next() {
		t, err := scanTimeOff(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, t)
	}

	return requests, rows.Err()
}

func (r *timeOffRepositoryImpl) HasApprovedOverlap(ctx context.Context, employeeID string, start, end time.Time, excludeID string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exclude *string
	if excludeID != "" {
		exclude = &excludeID
	}

	query := `
		SELECT EXISTS (
			SELECT 1 FROM time_off_requests
			WHERE employee_id = $1
			  AND status = 'approved'
			  AND start_date <= $3
			  AND end_date >= $2
			  AND ($4::uuid IS NULL OR id <> $4::uuid)
		)
	`

	var exists bool
	err := q.QueryRow(ctx, query, employeeID, start, end, exclude).Scan(&exists)
	return exists, err
}

func (r *timeOffRepositoryImpl) Approve(ctx context.Context, requestID, managerID string) (workflow.TimeOffRequest, error) {
	var approved workflow.TimeOffRequest

	err := WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		var employeeID string
		err := tx.QueryRow(ctx, `SELECT employee_id FROM time_off_requests WHERE id = $1`, requestID).Scan(&employeeID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return workflow.ErrTimeOffNotFound
			}
			return err
		}

		// Lock every request row of the employee, in id order so two
		// concurrent approvals cannot deadlock. The second approval waits
		// here and then sees the first one's committed status.
		_, err = tx.Exec(ctx, `
			SELECT id FROM time_off_requests
			WHERE employee_id = $1
			ORDER BY id
			FOR UPDATE
		`, employeeID)
		if err != nil {
			return err
		}

		request, err := scanTimeOff(tx.QueryRow(ctx, `SELECT `+timeOffColumns+` FROM time_off_requests WHERE id = $1`, requestID))
		if err != nil {
			return err
		}
		if request.Status != workflow.TimeOffStatusPending {
			return workflow.ErrTimeOffAlreadyProcessed
		}

		// ctx carries the transaction, so this check joins it.
		hasOverlap, err := r.HasApprovedOverlap(ctx, request.EmployeeID, request.StartDate, request.EndDate, request.ID)
		if err != nil {
			return err
		}
		if hasOverlap {
			return workflow.ErrTimeOffOverlap
		}

		updateQuery := `
			UPDATE time_off_requests
			SET status = 'approved', resolved_by = $2, resolved_at = NOW(), updated_at = NOW()
			WHERE id = $1
			RETURNING ` + timeOffColumns

		approved, err = scanTimeOff(tx.QueryRow(ctx, updateQuery, requestID, managerID))
		return err
	})
	if err != nil {
		return workflow.TimeOffRequest{}, err
	}

	return approved, nil
}

func (r *timeOffRepositoryImpl) Transition(ctx context.Context, requestID string, to workflow.TimeOffStatus, resolvedBy string) (workflow.TimeOffRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE time_off_requests
		SET status = $2, resolved_by = $3, resolved_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
		RETURNING ` + timeOffColumns

	t, err := scanTimeOff(q.QueryRow(ctx, query, requestID, to, resolvedBy))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			if _, getErr := r.GetByID(ctx, requestID); getErr != nil {
				return workflow.TimeOffRequest{}, getErr
			}
			return workflow.TimeOffRequest{}, workflow.ErrTimeOffAlreadyProcessed
		}
		return workflow.TimeOffRequest{}, err
	}

	return t, nil
}
