// Package events provides the in-process event bus the bounded contexts
// use to announce complaint lifecycle changes without importing each
// other. Event payloads live with the modules that publish them; only
// the contracts are defined here.
package events

import (
	"context"
	"time"
)

// Event is implemented by every payload published on the bus.
type Event interface {
	// EventName identifies the event type; subscribers register against it.
	EventName() string
	// OccurredAt reports when the event happened.
	OccurredAt() time.Time
}

// BaseEvent carries the occurrence timestamp and is embedded by payloads.
type BaseEvent struct {
	Timestamp time.Time `json:"timestamp"`
}

// OccurredAt reports when the event happened.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// NewBaseEvent stamps a base event with the current time.
func NewBaseEvent() BaseEvent {
	return BaseEvent{Timestamp: time.Now()}
}

// Handler consumes events of one registered type.
type Handler interface {
	Handle(ctx context.Context, event Event) error
}

// HandlerFunc adapts a plain function into a Handler.
type HandlerFunc func(ctx context.Context, event Event) error

// Handle calls the underlying function.
func (f HandlerFunc) Handle(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Bus connects publishers with the handlers subscribed to an event name.
type Bus interface {
	// Publish fans the event out to its subscribers. Handlers run
	// asynchronously; a slow subscriber never blocks the publisher.
	Publish(ctx context.Context, event Event)

	// PublishSync fans the event out and waits for every handler,
	// joining their errors.
	PublishSync(ctx context.Context, event Event) error

	// Subscribe registers a handler under the name the event reports
	// from EventName.
	Subscribe(eventName string, handler Handler)
}
