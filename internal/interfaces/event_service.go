package interfaces

import "context"

// EventType represents different event types in the system
type EventType string

const (
	// EventStateChanged is published after every shared-state mutation so the
	// console can re-render the affected panel
	EventStateChanged EventType = "state_changed"
)

// StateChange is the payload of EventStateChanged
type StateChange struct {
	// Section names the state area that changed: "upload", "query", "chat"
	// or "delete"
	Section string

	// Delta holds the streamed text appended to the last chat message, when
	// the change was an in-place append
	Delta string

	// Replace is true when the last chat message's content was overwritten
	// wholesale rather than appended to
	Replace bool
}

// Event represents a system event
type Event struct {
	Type    EventType
	Payload interface{}
}

// EventHandler is a function that handles events
type EventHandler func(ctx context.Context, event Event) error

// EventService manages pub/sub event bus
type EventService interface {
	// Subscribe to an event type
	Subscribe(eventType EventType, handler EventHandler) error

	// Publish an event to all subscribers asynchronously
	Publish(ctx context.Context, event Event) error

	// PublishSync publishes event and waits for all handlers to complete
	PublishSync(ctx context.Context, event Event) error
}
