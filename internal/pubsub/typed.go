package pubsub

import (
	"context"
	"fmt"

	"github.com/tommyrac/Dawn/internal/log"
)

// On subscribes fn to the event name of E and delivers only payloads whose
// dynamic type is E. E must be a value type whose EventName does not depend
// on its fields.
func On[E Event](r *Registry, fn func(context.Context, E)) (*Subscription, error) {
	if fn == nil {
		return nil, ErrNilHandler
	}
	var zero E
	if any(zero) == nil {
		return nil, fmt.Errorf("pubsub: On requires a concrete event type, got %T", zero)
	}
	name := zero.EventName()

	return r.Subscribe(name, func(ctx context.Context, ev Event) {
		typed, ok := ev.(E)
		if !ok {
			log.Warn(log.CatPubSub, "payload type mismatch", "event", name, "want", fmt.Sprintf("%T", zero), "got", fmt.Sprintf("%T", ev))
			return
		}
		fn(ctx, typed)
	})
}
