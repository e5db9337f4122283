// internal/notify/notify.go
package notify

import (
	"context"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/solana-launchpad/internal/events"
)

// Level is the severity of a notification.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notification is a user-facing message about a flow outcome.
type Notification struct {
	Level   Level
	Title   string
	Message string
}

// Notifier delivers notifications.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// Multi fans a notification out to every sink.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, n Notification) error {
	var result *multierror.Error
	for _, sink := range m {
		if err := sink.Notify(ctx, n); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

// Log writes notifications to a zap logger.
type Log struct {
	Logger *zap.Logger
}

func (l Log) Notify(_ context.Context, n Notification) error {
	fields := []zap.Field{zap.String("title", n.Title), zap.String("message", n.Message)}
	if n.Level == LevelError {
		l.Logger.Warn("Notification", fields...)
	} else {
		l.Logger.Info("Notification", fields...)
	}
	return nil
}

// Bus publishes notifications as events for the TUI.
type Bus struct {
	Bus *events.Bus
}

func (b Bus) Notify(_ context.Context, n Notification) error {
	return b.Bus.Publish(events.NotificationEvent{
		BaseEvent: events.NewBase(events.NotificationRaised),
		Level:     string(n.Level),
		Title:     n.Title,
		Message:   n.Message,
	})
}
