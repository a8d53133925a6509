// Package pubsub provides an in-process publish/subscribe event registry.
//
// Subscribers register a Handler against an event name and receive every
// Event later published under that name, synchronously and in registration
// order. A panicking handler is recovered and logged; delivery to the
// remaining handlers continues and the publisher never sees the failure.
package pubsub

import (
	"context"
	"errors"
	"fmt"
)

// Event is a payload that knows the channel it belongs to.
// Concrete event types are the variants of a tagged union keyed by name.
type Event interface {
	EventName() string
}

// Handler receives events for a subscribed name.
type Handler func(ctx context.Context, ev Event)

// Message is an untyped event for callers that only have a name and a value.
type Message struct {
	Name    string
	Payload any
}

// EventName implements Event.
func (m Message) EventName() string { return m.Name }

var (
	// ErrEmptyEventName is returned when subscribing with an empty or blank name.
	ErrEmptyEventName = errors.New("pubsub: event name must not be empty")

	// ErrNilHandler is returned when subscribing with a nil handler.
	ErrNilHandler = errors.New("pubsub: handler must not be nil")
)

// Fault describes a handler that panicked during delivery.
type Fault struct {
	EventName      string
	SubscriptionID string
	Recovered      any
}

func (f Fault) Error() string {
	return fmt.Sprintf("pubsub: subscriber %s for %q panicked: %v", f.SubscriptionID, f.EventName, f.Recovered)
}

// Unwrap returns the recovered value when it was an error.
func (f Fault) Unwrap() error {
	if err, ok := f.Recovered.(error); ok {
		return err
	}
	return nil
}
