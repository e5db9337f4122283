package ui

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/rovshanmuradov/solana-launchpad/internal/events"
)

func drainBus() {
	for {
		select {
		case <-Bus:
		default:
			return
		}
	}
}

func TestPublishActivityNonBlocking(t *testing.T) {
	drainBus()
	defer drainBus()

	start := time.Now()
	for i := 0; i < cap(Bus)+100; i++ {
		PublishActivity(events.LaunchStartedEvent{BaseEvent: events.NewBase(events.LaunchStarted)})
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("PublishActivity blocked for %v, expected non-blocking", elapsed)
	}
	if len(Bus) != cap(Bus) {
		t.Errorf("expected a full bus, got %d of %d", len(Bus), cap(Bus))
	}
}

func TestBridgeEventsForwardsLaunchEvents(t *testing.T) {
	drainBus()
	defer drainBus()

	bus := events.NewBus(zap.NewNop(), 16)
	defer func() { _ = bus.Shutdown(context.Background()) }()

	unsubscribe := BridgeEvents(bus)
	if err := bus.PublishSync(context.Background(), events.LaunchStartedEvent{
		BaseEvent: events.NewBase(events.LaunchStarted),
		Flow:      "token",
	}); err != nil {
		t.Fatal(err)
	}

	select {
	case msg := <-Bus:
		activity, ok := msg.(ActivityMsg)
		if !ok {
			t.Fatalf("unexpected message %T", msg)
		}
		if got := activity.Event.(events.LaunchStartedEvent).Flow; got != "token" {
			t.Errorf("flow = %q, want token", got)
		}
	default:
		t.Fatal("event was not forwarded")
	}

	unsubscribe()
	_ = bus.PublishSync(context.Background(), events.LaunchStartedEvent{BaseEvent: events.NewBase(events.LaunchStarted)})
	if len(Bus) != 0 {
		t.Error("event forwarded after unsubscribe")
	}
}

func TestRouteString(t *testing.T) {
	cases := map[Route]string{
		RouteMainMenu:     "main_menu",
		RouteCreateToken:  "create_token",
		RouteCreateMarket: "create_market",
		RouteCreatePool:   "create_pool",
		Route(99):         "unknown",
	}
	for route, want := range cases {
		if got := route.String(); got != want {
			t.Errorf("Route(%d).String() = %q, want %q", route, got, want)
		}
	}
}
