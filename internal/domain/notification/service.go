package notification

import (
	"context"
	"encoding/json"
)

// Notifier delivers typed events to employees. Workflow and payroll services
// publish through this; delivery transport is not their concern.
type Notifier interface {
	Notify(ctx context.Context, employeeIDs []string, payload EventPayload)
}

type NotificationService interface {
	Notifier
	List(ctx context.Context, employeeID string, unreadOnly bool) ([]NotificationResponse, error)
	MarkRead(ctx context.Context, id, employeeID string) error
}

type NotificationResponse struct {
	ID        string          `json:"id"`
	Kind      string          `json:"kind"`
	Payload   json.RawMessage `json:"payload"`
	Read      bool            `json:"read"`
	CreatedAt string          `json:"created_at"`
}
