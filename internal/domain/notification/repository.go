package notification

import "context"

type NotificationRepository interface {
	Create(ctx context.Context, n Notification) (Notification, error)
	ListByEmployee(ctx context.Context, employeeID string, unreadOnly bool, limit int) ([]Notification, error)
	MarkRead(ctx context.Context, id, employeeID string) error
}
