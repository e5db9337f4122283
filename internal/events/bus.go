// internal/events/bus.go
package events

import (
	"context"
	"errors"
	"sync"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"
)

var (
	ErrBusClosed = errors.New("event bus is shutting down")
	ErrBusFull   = errors.New("event channel full")
)

// Bus fans launch events out to subscribers. Events published with Publish
// are delivered one at a time by a single dispatcher, in publish order, so a
// subscriber sees a flow's started, uploaded, submitted and recorded events
// in the order the flow produced them.
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]registration
	nextID   uint64
	logger   *zap.Logger
	ctx      context.Context
	cancel   context.CancelFunc
	done     chan struct{}
	queue    chan Event
}

// NewBus starts a bus that queues up to bufferSize undelivered events.
func NewBus(logger *zap.Logger, bufferSize int) *Bus {
	ctx, cancel := context.WithCancel(context.Background())
	bus := &Bus{
		handlers: make(map[EventType][]registration),
		logger:   logger.Named("event_bus"),
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
		queue:    make(chan Event, bufferSize),
	}
	go bus.dispatch()
	return bus
}

// Subscribe registers handler for every listed event type. Handlers of one
// type run in subscription order.
func (b *Bus) Subscribe(handler Handler, types ...EventType) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	sub := &Subscription{id: b.nextID, types: types, bus: b}
	for _, typ := range types {
		b.handlers[typ] = append(b.handlers[typ], registration{id: sub.id, handler: handler})
	}

	b.logger.Debug("Handler subscribed",
		zap.Uint64("subscription_id", sub.id),
		zap.Any("event_types", types))
	return sub
}

// Publish queues event for the dispatcher. It never blocks: a full queue
// drops the event and returns ErrBusFull.
func (b *Bus) Publish(event Event) error {
	if b.ctx.Err() != nil {
		return ErrBusClosed
	}
	select {
	case b.queue <- event:
		return nil
	default:
		b.logger.Warn("Event queue full, dropping event",
			zap.String("event_type", string(event.Type())))
		return ErrBusFull
	}
}

// PublishSync runs every handler of the event's type on the calling
// goroutine and returns their combined errors.
func (b *Bus) PublishSync(ctx context.Context, event Event) error {
	b.mu.RLock()
	regs := append([]registration(nil), b.handlers[event.Type()]...)
	b.mu.RUnlock()

	var result *multierror.Error
	for _, reg := range regs {
		if err := reg.handler(ctx, event); err != nil {
			b.logger.Error("Handler error",
				zap.String("event_type", string(event.Type())),
				zap.Uint64("subscription_id", reg.id),
				zap.Error(err))
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

func (b *Bus) dispatch() {
	defer close(b.done)

	for {
		select {
		case event := <-b.queue:
			_ = b.PublishSync(b.ctx, event)
		case <-b.ctx.Done():
			// Queued events still go out, with a context that is not cancelled.
			for {
				select {
				case event := <-b.queue:
					_ = b.PublishSync(context.Background(), event)
				default:
					return
				}
			}
		}
	}
}

func (b *Bus) remove(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, typ := range sub.types {
		regs := b.handlers[typ]
		kept := regs[:0]
		for _, reg := range regs {
			if reg.id != sub.id {
				kept = append(kept, reg)
			}
		}
		if len(kept) == 0 {
			delete(b.handlers, typ)
		} else {
			b.handlers[typ] = kept
		}
	}

	b.logger.Debug("Handler unsubscribed", zap.Uint64("subscription_id", sub.id))
}

// Shutdown stops accepting events and waits until the queue is delivered.
func (b *Bus) Shutdown(ctx context.Context) error {
	b.logger.Info("Shutting down event bus")
	b.cancel()

	select {
	case <-b.done:
		b.logger.Info("Event bus shutdown complete")
		return nil
	case <-ctx.Done():
		b.logger.Warn("Event bus shutdown timeout")
		return ctx.Err()
	}
}
