package sse

import (
	"testing"
	"time"

	"github.com/kapehan/cafe-workforce-backend-go/internal/domain/notification"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishReachesSubscriber(t *testing.T) {
	hub := NewHub()
	ch, cleanup := hub.Subscribe("alice")
	defer cleanup()

	hub.Publish("alice", Event{Kind: notification.EventTradeAvailable, Data: "payload"})

	select {
	case event := <-ch:
		assert.Equal(t, notification.EventTradeAvailable, event.Kind)
	case <-time.After(time.Second):
		t.Fatal("expected event")
	}
}

func TestHub_PublishToMany(t *testing.T) {
	hub := NewHub()
	chAlice, cleanupAlice := hub.Subscribe("alice")
	defer cleanupAlice()
	chBob, cleanupBob := hub.Subscribe("bob")
	defer cleanupBob()

	hub.PublishToMany([]string{"alice", "bob", "carol"}, Event{Kind: notification.EventPayrollReady})

	event := <-chAlice
	assert.Equal(t, "alice", event.EmployeeID)
	event = <-chBob
	assert.Equal(t, "bob", event.EmployeeID)
}

func TestHub_CleanupRemovesSubscriber(t *testing.T) {
	hub := NewHub()
	_, cleanup := hub.Subscribe("alice")
	require.Equal(t, 1, hub.SubscriberCount("alice"))

	cleanup()
	assert.Equal(t, 0, hub.SubscriberCount("alice"))

	// Publishing to a gone subscriber is a no-op
	hub.Publish("alice", Event{Kind: notification.EventPayrollReady})
}

func TestHub_SlowSubscriberDoesNotBlock(t *testing.T) {
	hub := NewHub()
	_, cleanup := hub.Subscribe("alice")
	defer cleanup()

	// Overflow the buffered channel; Publish must never block
	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			hub.Publish("alice", Event{Kind: notification.EventTradeAvailable})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked on a full subscriber channel")
	}
}
