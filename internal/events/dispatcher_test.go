package events_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/pos-ticketing/internal/events"
)

func TestPublish_InvokesSubscribersInOrder(t *testing.T) {
	d := events.NewInMemoryDispatcher(nil)

	var calls []string
	d.Subscribe(events.EventTicketSaved, func(_ context.Context, _ events.Event) error {
		calls = append(calls, "first")
		return nil
	})
	d.Subscribe(events.EventTicketSaved, func(_ context.Context, _ events.Event) error {
		calls = append(calls, "second")
		return nil
	})

	err := d.Publish(context.Background(), events.Event{Type: events.EventTicketSaved, TicketID: 3})
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, calls)
}

func TestPublish_HandlerErrorDoesNotStopOthers(t *testing.T) {
	d := events.NewInMemoryDispatcher(nil)

	reached := false
	d.Subscribe(events.EventTicketSaved, func(_ context.Context, _ events.Event) error {
		return errors.New("invalidation failed")
	})
	d.Subscribe(events.EventTicketSaved, func(_ context.Context, _ events.Event) error {
		reached = true
		return nil
	})

	err := d.Publish(context.Background(), events.Event{Type: events.EventTicketSaved})
	require.NoError(t, err)
	assert.True(t, reached)
}

func TestPublish_IgnoresUnsubscribedTypes(t *testing.T) {
	d := events.NewInMemoryDispatcher(nil)

	d.Subscribe(events.EventTicketConflict, func(_ context.Context, _ events.Event) error {
		t.Fatal("conflict handler must not fire for a save event")
		return nil
	})

	err := d.Publish(context.Background(), events.Event{Type: events.EventTicketSaved})
	require.NoError(t, err)
}
