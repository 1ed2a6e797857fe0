package notification

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/kapehan/cafe-workforce-backend-go/internal/domain/notification"
	"github.com/kapehan/cafe-workforce-backend-go/internal/pkg/sse"
)

type NotificationServiceImpl struct {
	repo notification.NotificationRepository
	hub  *sse.Hub
}

func NewNotificationService(repo notification.NotificationRepository, hub *sse.Hub) notification.NotificationService {
	return &NotificationServiceImpl{repo: repo, hub: hub}
}

// Notify persists one notification per recipient and fans the event out to
// live stream subscribers. Persistence failures are logged, never propagated;
// a notification must not fail the operation that produced it.
func (s *NotificationServiceImpl) Notify(ctx context.Context, employeeIDs []string, payload notification.EventPayload) {
	if len(employeeIDs) == 0 {
		return
	}

	data, err := json.Marshal(payload)
	if err != nil {
		slog.Error("Failed to marshal notification payload", "kind", payload.Kind(), "error", err)
		return
	}

	for _, employeeID := range employeeIDs {
		if _, err := s.repo.Create(ctx, notification.Notification{
			EmployeeID: employeeID,
			Kind:       payload.Kind(),
			Payload:    data,
		}); err != nil {
			slog.Warn("Failed to persist notification",
				"employee_id", employeeID, "kind", payload.Kind(), "error", err)
		}
	}

	s.hub.PublishToMany(employeeIDs, sse.Event{
		Kind: payload.Kind(),
		Data: payload,
	})
}

func (s *NotificationServiceImpl) List(ctx context.Context, employeeID string, unreadOnly bool) ([]notification.NotificationResponse, error) {
	notifications, err := s.repo.ListByEmployee(ctx, employeeID, unreadOnly, 100)
	if err != nil {
		return nil, err
	}

	result := make([]notification.NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		result = append(result, notification.NotificationResponse{
			ID:        n.ID,
			Kind:      string(n.Kind),
			Payload:   json.RawMessage(n.Payload),
			Read:      n.ReadAt != nil,
			CreatedAt: n.CreatedAt.Format(time.RFC3339),
		})
	}
	return result, nil
}

func (s *NotificationServiceImpl) MarkRead(ctx context.Context, id, employeeID string) error {
	return s.repo.MarkRead(ctx, id, employeeID)
}
