package eventbus_test

import (
	"context"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsgraph/opsgraph/pkg/channels/gochannel"
	"github.com/opsgraph/opsgraph/pkg/eventbus"
	"github.com/opsgraph/opsgraph/pkg/events"
	"github.com/opsgraph/opsgraph/pkg/models"
)

func newTestBus(t *testing.T) eventbus.EventBus {
	t.Helper()

	pub, sub, err := gochannel.CreateTestChannel(watermill.NopLogger{})
	require.NoError(t, err)

	bus := eventbus.NewWatermillEventBus(pub, sub)
	t.Cleanup(func() {
		_ = bus.Close()
	})

	return bus
}

func TestWatermillEventBus_PublishSubscribeRoundTrip(t *testing.T) {
	bus := newTestBus(t)

	received := make(chan any, 1)
	require.NoError(t, bus.Handle(events.FlowCompletedEvent, func(_ context.Context, event any) error {
		received <- event

		return nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, bus.Subscribe(ctx))

	published := events.FlowCompleted{
		BaseEvent: events.NewBaseEvent(events.FlowCompletedEvent, "exec-a1b2c3d4"),
		FlowName:  "Reliability Agent",
		Status:    models.StatusSuccess,
		Summary:   "Reliability Score: 98.0\nStatus: good",
	}
	require.NoError(t, bus.Publish(ctx, "exec-a1b2c3d4", published))

	select {
	case event := <-received:
		completed, ok := event.(*events.FlowCompleted)
		require.True(t, ok)
		assert.Equal(t, "exec-a1b2c3d4", completed.ExecutionID)
		assert.Equal(t, "Reliability Agent", completed.FlowName)
		assert.Equal(t, models.StatusSuccess, completed.Status)
		assert.Equal(t, published.Summary, completed.Summary)
	case <-time.After(5 * time.Second):
		t.Fatal("published event never reached the handler")
	}
}

func TestWatermillEventBus_UnhandledEventTypeIsAcked(t *testing.T) {
	bus := newTestBus(t)

	received := make(chan any, 1)
	require.NoError(t, bus.Handle(events.ExecutionCompletedEvent, func(_ context.Context, event any) error {
		received <- event

		return nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, bus.Subscribe(ctx))

	// No handler registered for started events; the bus must ack and move on
	// so later events still get through.
	require.NoError(t, bus.Publish(ctx, "exec-a1b2c3d4", events.ExecutionStarted{
		BaseEvent: events.NewBaseEvent(events.ExecutionStartedEvent, "exec-a1b2c3d4"),
	}))
	require.NoError(t, bus.Publish(ctx, "exec-a1b2c3d4", events.ExecutionCompleted{
		BaseEvent:   events.NewBaseEvent(events.ExecutionCompletedEvent, "exec-a1b2c3d4"),
		ResultCount: 2,
	}))

	select {
	case event := <-received:
		completed, ok := event.(*events.ExecutionCompleted)
		require.True(t, ok)
		assert.Equal(t, 2, completed.ResultCount)
	case <-time.After(5 * time.Second):
		t.Fatal("event after an unhandled one never reached the handler")
	}
}
