// internal/events/types.go
package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType represents the type of event.
type EventType string

const (
	// Launch flow events
	LaunchStarted   EventType = "launch.started"
	AssetUploaded   EventType = "launch.asset_uploaded"
	BatchSubmitted  EventType = "launch.batch_submitted"
	LaunchCompleted EventType = "launch.completed"
	LaunchFailed    EventType = "launch.failed"
	ReceiptRecorded EventType = "launch.receipt_recorded"

	// Notifications raised by flows
	NotificationRaised EventType = "notification"
)

// Event is the base interface for all events.
type Event interface {
	Type() EventType
	Timestamp() time.Time
}

// BaseEvent provides common fields for all events.
type BaseEvent struct {
	EventType EventType
	EventTime time.Time
}

// NewBase stamps an event of type t with the current time.
func NewBase(t EventType) BaseEvent {
	return BaseEvent{EventType: t, EventTime: time.Now()}
}

// Type returns the event type.
func (e BaseEvent) Type() EventType {
	return e.EventType
}

// Timestamp returns when the event occurred.
func (e BaseEvent) Timestamp() time.Time {
	return e.EventTime
}

// LaunchStartedEvent is emitted when a flow begins.
type LaunchStartedEvent struct {
	BaseEvent
	FlowID uuid.UUID
	Flow   string
	Payer  string
}

// AssetUploadedEvent is emitted after the image or the metadata document of
// a token is stored.
type AssetUploadedEvent struct {
	BaseEvent
	FlowID      uuid.UUID
	Flow        string
	Stage       string // image or metadata
	ContentType string
	URL         string
}

// BatchSubmittedEvent is emitted when a transaction batch confirmed.
type BatchSubmittedEvent struct {
	BaseEvent
	FlowID    uuid.UUID
	Flow      string
	Batch     string
	Steps     []string
	Signature string
}

// LaunchCompletedEvent is emitted when every transaction of a flow confirmed.
type LaunchCompletedEvent struct {
	BaseEvent
	FlowID    uuid.UUID
	Flow      string
	Payer     string
	Address   string // mint, market or pool id
	Signature string
	Result    interface{}
}

// LaunchFailedEvent is emitted when a flow stops with an error.
type LaunchFailedEvent struct {
	BaseEvent
	FlowID uuid.UUID
	Flow   string
	Payer  string
	Kind   string
	Error  error
}

// NotificationEvent carries a user-facing notification.
type NotificationEvent struct {
	BaseEvent
	Level   string
	Title   string
	Message string
}

// ReceiptRecordedEvent is emitted once the receipt of a finished flow is
// stored. It is the last event of a flow.
type ReceiptRecordedEvent struct {
	BaseEvent
	ReceiptID uuid.UUID
	Flow      string
	Status    string
	Address   string
}
