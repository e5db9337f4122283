// internal/events/handler.go
package events

import (
	"context"
	"sync"
)

// Handler receives events on the bus dispatcher. A slow handler holds up
// every event published after the one it is handling.
type Handler func(ctx context.Context, event Event) error

// Subscription is one handler registered for a set of event types.
type Subscription struct {
	id    uint64
	types []EventType
	bus   *Bus
	once  sync.Once
}

// Types lists the event types the subscription receives.
func (s *Subscription) Types() []EventType {
	return append([]EventType(nil), s.types...)
}

// Unsubscribe removes the handler. Calling it twice is harmless.
func (s *Subscription) Unsubscribe() {
	s.once.Do(func() { s.bus.remove(s) })
}

type registration struct {
	id      uint64
	handler Handler
}
