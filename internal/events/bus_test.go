package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestPublishDeliversToSubscribers(t *testing.T) {
	bus := NewBus(zaptest.NewLogger(t), 8)
	defer func() { _ = bus.Shutdown(context.Background()) }()

	var mu sync.Mutex
	var got []string
	done := make(chan struct{}, 2)
	bus.Subscribe(func(_ context.Context, e Event) error {
		mu.Lock()
		got = append(got, e.(LaunchCompletedEvent).Address)
		mu.Unlock()
		done <- struct{}{}
		return nil
	}, LaunchCompleted)

	require.NoError(t, bus.Publish(LaunchCompletedEvent{BaseEvent: NewBase(LaunchCompleted), Flow: "token", Address: "mint-1"}))
	require.NoError(t, bus.Publish(LaunchFailedEvent{BaseEvent: NewBase(LaunchFailed), Flow: "token"}))

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}
	mu.Lock()
	assert.Equal(t, []string{"mint-1"}, got)
	mu.Unlock()
}

func TestPublishKeepsFlowOrder(t *testing.T) {
	bus := NewBus(zaptest.NewLogger(t), 16)

	var got []EventType
	bus.Subscribe(func(_ context.Context, e Event) error {
		got = append(got, e.Type())
		return nil
	}, LaunchStarted, AssetUploaded, BatchSubmitted, LaunchCompleted, ReceiptRecorded)

	want := []EventType{LaunchStarted, AssetUploaded, AssetUploaded, BatchSubmitted, LaunchCompleted, ReceiptRecorded}
	for _, typ := range want {
		require.NoError(t, bus.Publish(testEvent(typ)))
	}

	// Shutdown waits for the queue, so got is complete afterwards.
	require.NoError(t, bus.Shutdown(context.Background()))
	assert.Equal(t, want, got)
}

func TestSubscribeToSeveralTypes(t *testing.T) {
	bus := NewBus(zaptest.NewLogger(t), 1)
	defer func() { _ = bus.Shutdown(context.Background()) }()

	calls := 0
	sub := bus.Subscribe(func(context.Context, Event) error { calls++; return nil }, AssetUploaded, BatchSubmitted)
	assert.Equal(t, []EventType{AssetUploaded, BatchSubmitted}, sub.Types())

	ctx := context.Background()
	require.NoError(t, bus.PublishSync(ctx, AssetUploadedEvent{BaseEvent: NewBase(AssetUploaded), Stage: "image"}))
	require.NoError(t, bus.PublishSync(ctx, BatchSubmittedEvent{BaseEvent: NewBase(BatchSubmitted), Batch: "vaults"}))
	require.NoError(t, bus.PublishSync(ctx, ReceiptRecordedEvent{BaseEvent: NewBase(ReceiptRecorded)}))
	assert.Equal(t, 2, calls)
}

func TestPublishSyncCombinesHandlerErrors(t *testing.T) {
	bus := NewBus(zaptest.NewLogger(t), 1)
	defer func() { _ = bus.Shutdown(context.Background()) }()

	errA, errB := errors.New("a"), errors.New("b")
	bus.Subscribe(func(context.Context, Event) error { return errA }, NotificationRaised)
	bus.Subscribe(func(context.Context, Event) error { return errB }, NotificationRaised)

	err := bus.PublishSync(context.Background(), NotificationEvent{BaseEvent: NewBase(NotificationRaised)})
	require.Error(t, err)
	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errB)
}

func TestUnsubscribe(t *testing.T) {
	bus := NewBus(zaptest.NewLogger(t), 1)
	defer func() { _ = bus.Shutdown(context.Background()) }()

	var first, second int
	sub := bus.Subscribe(func(context.Context, Event) error { first++; return nil }, LaunchStarted, LaunchFailed)
	bus.Subscribe(func(context.Context, Event) error { second++; return nil }, LaunchStarted)

	ctx := context.Background()
	require.NoError(t, bus.PublishSync(ctx, LaunchStartedEvent{BaseEvent: NewBase(LaunchStarted)}))
	sub.Unsubscribe()
	sub.Unsubscribe()
	require.NoError(t, bus.PublishSync(ctx, LaunchStartedEvent{BaseEvent: NewBase(LaunchStarted)}))
	require.NoError(t, bus.PublishSync(ctx, LaunchFailedEvent{BaseEvent: NewBase(LaunchFailed)}))

	assert.Equal(t, 1, first)
	assert.Equal(t, 2, second)
}

func TestPublishWhenQueueFull(t *testing.T) {
	bus := NewBus(zaptest.NewLogger(t), 1)
	release := make(chan struct{})
	entered := make(chan struct{}, 1)
	bus.Subscribe(func(context.Context, Event) error {
		entered <- struct{}{}
		<-release
		return nil
	}, LaunchStarted)

	// The first event occupies the dispatcher, the second fills the queue.
	require.NoError(t, bus.Publish(LaunchStartedEvent{BaseEvent: NewBase(LaunchStarted)}))
	<-entered
	require.NoError(t, bus.Publish(LaunchStartedEvent{BaseEvent: NewBase(LaunchStarted)}))
	assert.ErrorIs(t, bus.Publish(LaunchStartedEvent{BaseEvent: NewBase(LaunchStarted)}), ErrBusFull)

	close(release)
	require.NoError(t, bus.Shutdown(context.Background()))
}

func TestPublishAfterShutdown(t *testing.T) {
	bus := NewBus(zaptest.NewLogger(t), 1)
	require.NoError(t, bus.Shutdown(context.Background()))
	assert.ErrorIs(t, bus.Publish(LaunchStartedEvent{BaseEvent: NewBase(LaunchStarted)}), ErrBusClosed)
}

func testEvent(typ EventType) Event {
	return NotificationEvent{BaseEvent: NewBase(typ)}
}
