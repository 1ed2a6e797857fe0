package postgresql

import (
	"context"

	"github.com/kapehan/cafe-workforce-backend-go/internal/domain/notification"
	"github.com/kapehan/cafe-workforce-backend-go/internal/pkg/database"
)

type notificationRepositoryImpl struct {
	db *database.DB
}

func NewNotificationRepository(db *database.DB) notification.NotificationRepository {
	return &notificationRepositoryImpl{db: db}
}

func (r *notificationRepositoryImpl) Create(ctx context.Context, n notification.Notification) (notification.Notification, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO notifications (
			id, employee_id, kind, payload, created_at
		) VALUES (
			uuidv7(), $1, $2, $3, NOW()
		)
		RETURNING id, created_at
	`

	err := q.QueryRow(ctx, query,
		n.EmployeeID,
		n.Kind,
		n.Payload,
	).Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		return notification.Notification{}, err
	}

	return n, nil
}

func (r *notificationRepositoryImpl) ListByEmployee(ctx context.Context, employeeID string, unreadOnly bool, limit int) ([]notification.Notification, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, kind, payload, read_at, created_at
		FROM notifications
		WHERE employee_id = $1
		  AND ($2 = false OR read_at IS NULL)
		ORDER BY created_at DESC
		LIMIT $3
	`

	rows, err := q.Query(ctx, query, employeeID, unreadOnly, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []notification.Notification
	for rows.Next() {
		var n notification.Notification
		err := rows.Scan(
			&n.ID,
			&n.EmployeeID,
			&n.Kind,
			&n.Payload,
			&n.ReadAt,
			&n.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}

	return notifications, rows.Err()
}

func (r *notificationRepositoryImpl) MarkRead(ctx context.Context, id, employeeID string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE notifications
		SET read_at = NOW()
		WHERE id = $1 AND employee_id = $2 AND read_at IS NULL
	`

	_, err := q.Exec(ctx, query, id, employeeID)
	return err
}
