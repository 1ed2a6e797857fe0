package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kapehan/cafe-workforce-backend-go/internal/domain/notification"
	"github.com/kapehan/cafe-workforce-backend-go/internal/pkg/sse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNotificationRepo struct {
	notifications []notification.Notification
	createErr     error
}

func (r *fakeNotificationRepo) Create(ctx context.Context, n notification.Notification) (notification.Notification, error) {
	if r.createErr != nil {
		return notification.Notification{}, r.createErr
	}
	n.ID = uuid.NewString()
	n.CreatedAt = time.Now()
	r.notifications = append(r.notifications, n)
	return n, nil
}

func (r *fakeNotificationRepo) ListByEmployee(ctx context.Context, employeeID string, unreadOnly bool, limit int) ([]notification.Notification, error) {
	var out []notification.Notification
	for _, n := range r.notifications {
		if n.EmployeeID != employeeID {
			continue
		}
		if unreadOnly && n.ReadAt != nil {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

func (r *fakeNotificationRepo) MarkRead(ctx context.Context, id, employeeID string) error {
	for i, n := range r.notifications {
		if n.ID == id && n.EmployeeID == employeeID && n.ReadAt == nil {
			now := time.Now()
			r.notifications[i].ReadAt = &now
		}
	}
	return nil
}

func TestNotify_PersistsAndPublishes(t *testing.T) {
	repo := &fakeNotificationRepo{}
	hub := sse.NewHub()
	svc := NewNotificationService(repo, hub)

	ch, cleanup := hub.Subscribe("alice")
	defer cleanup()

	svc.Notify(context.Background(), []string{"alice", "bob"}, notification.PayrollReadyPayload{PeriodID: "period-1"})

	// One row per recipient
	require.Len(t, repo.notifications, 2)
	assert.Equal(t, notification.EventPayrollReady, repo.notifications[0].Kind)
	assert.JSONEq(t, `{"period_id":"period-1"}`, string(repo.notifications[0].Payload))

	// Live subscriber receives the event
	select {
	case event := <-ch:
		assert.Equal(t, notification.EventPayrollReady, event.Kind)
		assert.Equal(t, "alice", event.EmployeeID)
	case <-time.After(time.Second):
		t.Fatal("expected a published event")
	}
}

func TestNotify_PersistenceFailureStillPublishes(t *testing.T) {
	repo := &fakeNotificationRepo{createErr: errors.New("connection refused")}
	hub := sse.NewHub()
	svc := NewNotificationService(repo, hub)

	ch, cleanup := hub.Subscribe("alice")
	defer cleanup()

	svc.Notify(context.Background(), []string{"alice"}, notification.TradeClaimedPayload{
		TradeID:   "trade-1",
		ShiftID:   "shift-1",
		ClaimedBy: "bob",
	})

	select {
	case event := <-ch:
		assert.Equal(t, notification.EventTradeClaimed, event.Kind)
	case <-time.After(time.Second):
		t.Fatal("expected a published event despite persistence failure")
	}
}

func TestNotify_NoRecipients(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := NewNotificationService(repo, sse.NewHub())

	svc.Notify(context.Background(), nil, notification.PayrollReadyPayload{PeriodID: "period-1"})
	assert.Empty(t, repo.notifications)
}

func TestListAndMarkRead(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := NewNotificationService(repo, sse.NewHub())
	ctx := context.Background()

	svc.Notify(ctx, []string{"alice"}, notification.PayrollReadyPayload{PeriodID: "period-1"})
	svc.Notify(ctx, []string{"alice"}, notification.TradeClaimedPayload{TradeID: "trade-1", ShiftID: "shift-1", ClaimedBy: "bob"})

	list, err := svc.List(ctx, "alice", false)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.False(t, list[0].Read)

	require.NoError(t, svc.MarkRead(ctx, list[0].ID, "alice"))

	unread, err := svc.List(ctx, "alice", true)
	require.NoError(t, err)
	assert.Len(t, unread, 1)

	// Another employee cannot mark alice's notification
	require.NoError(t, svc.MarkRead(ctx, list[1].ID, "bob"))
	unread, err = svc.List(ctx, "alice", true)
	require.NoError(t, err)
	assert.Len(t, unread, 1)
}
