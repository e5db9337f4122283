package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rovshanmuradov/solana-launchpad/internal/events"
)

// RouterMsg represents navigation between screens
type RouterMsg struct {
	To Route
}

// ActivityMsg wraps a launch or notification event for the UI
type ActivityMsg struct {
	Event events.Event
}

// FlowDoneMsg carries the outcome of a flow started from a form
type FlowDoneMsg struct {
	Route  Route
	Result interface{}
	Err    error
}

// Bus is the channel screens read activity from.
var Bus = make(chan tea.Msg, 256)

// PublishActivity pushes an event to the UI bus, dropping it when full.
func PublishActivity(event events.Event) {
	select {
	case Bus <- ActivityMsg{Event: event}:
	default:
	}
}

// ListenBus returns a tea.Cmd that waits for the next bus message
func ListenBus() tea.Cmd {
	return func() tea.Msg {
		return <-Bus
	}
}

var bridgedEvents = []events.EventType{
	events.LaunchStarted,
	events.AssetUploaded,
	events.BatchSubmitted,
	events.LaunchFailed,
	events.NotificationRaised,
}

// BridgeEvents forwards launch progress and notifications from the event
// bus to the UI bus. The returned func unsubscribes.
func BridgeEvents(bus *events.Bus) func() {
	sub := bus.Subscribe(func(_ context.Context, e events.Event) error {
		PublishActivity(e)
		return nil
	}, bridgedEvents...)
	return sub.Unsubscribe
}

// Route represents different screens in the application
type Route int

const (
	RouteMainMenu Route = iota
	RouteCreateToken
	RouteCreateMarket
	RouteCreatePool
)

// String returns the string representation of the route
func (r Route) String() string {
	switch r {
	case RouteMainMenu:
		return "main_menu"
	case RouteCreateToken:
		return "create_token"
	case RouteCreateMarket:
		return "create_market"
	case RouteCreatePool:
		return "create_pool"
	default:
		return "unknown"
	}
}
