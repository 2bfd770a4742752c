// Package events carries the in-process plumbing that lets the lead
// lifecycle modules react to one another (an opt-out stopping outreach
// campaigns, an escalation raising a handoff email) without importing each
// other. Event types themselves live with the domain, not here.
package events

import (
	"context"
	"time"
)

// Event is implemented by every published domain event.
type Event interface {
	// EventName identifies the event type for subscription routing.
	EventName() string
	// OccurredAt reports when the event happened.
	OccurredAt() time.Time
}

// BaseEvent carries the occurrence timestamp shared by all events.
type BaseEvent struct {
	Timestamp time.Time `json:"timestamp"`
}

func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// NewBaseEvent stamps an event with the current time.
func NewBaseEvent() BaseEvent {
	return BaseEvent{Timestamp: time.Now()}
}

// Handler processes events routed to it by name.
type Handler interface {
	Handle(ctx context.Context, event Event) error
}

// HandlerFunc adapts an ordinary function to the Handler interface.
type HandlerFunc func(ctx context.Context, event Event) error

func (f HandlerFunc) Handle(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Bus routes published events to the handlers subscribed to their name.
type Bus interface {
	// Publish fans the event out to its handlers. Delivery is asynchronous
	// and fire-and-forget; handler failures are the bus's to log.
	Publish(ctx context.Context, event Event)

	// PublishSync delivers the event inline and returns the joined handler
	// errors. Used where the publisher must observe the outcome.
	PublishSync(ctx context.Context, event Event) error

	// Subscribe registers a handler under the event name it should receive.
	Subscribe(eventName string, handler Handler)
}

// SubscribeTo registers fn for T's event name, discarding deliveries whose
// concrete type does not match so subscribers skip the assertion boilerplate.
func SubscribeTo[T Event](bus Bus, fn func(ctx context.Context, event T) error) {
	var zero T
	bus.Subscribe(zero.EventName(), HandlerFunc(func(ctx context.Context, e Event) error {
		event, ok := e.(T)
		if !ok {
			return nil
		}
		return fn(ctx, event)
	}))
}
