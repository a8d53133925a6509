package pubsub

import (
	"context"
	"errors"
	"sync"

	"github.com/tommyrac/Dawn/internal/log"
)

const defaultBufferSize = 64

// Stream subscribes to names and forwards their events into a buffered
// channel using the default buffer size (64).
func (r *Registry) Stream(ctx context.Context, names ...string) (<-chan Event, error) {
	return r.StreamWithBuffer(ctx, defaultBufferSize, names...)
}

// StreamWithBuffer is Stream with a custom buffer size.
// Sends are non-blocking: events are dropped when the buffer is full.
// The subscriptions are removed and the channel closed when ctx is cancelled.
func (r *Registry) StreamWithBuffer(ctx context.Context, size int, names ...string) (<-chan Event, error) {
	if len(names) == 0 {
		return nil, errors.New("pubsub: stream needs at least one event name")
	}
	if size < 0 {
		size = 0
	}

	ch := make(chan Event, size)
	var (
		mu     sync.Mutex
		closed bool
	)
	forward := func(_ context.Context, ev Event) {
		mu.Lock()
		defer mu.Unlock()
		if closed {
			return
		}
		select {
		case ch <- ev:
		default:
			// Channel full - drop to prevent blocking the publisher
			log.Debug(log.CatPubSub, "stream buffer full, dropping event", "event", ev.EventName())
		}
	}

	subs := make([]*Subscription, 0, len(names))
	for _, name := range names {
		sub, err := r.Subscribe(name, forward)
		if err != nil {
			for _, s := range subs {
				s.Unsubscribe()
			}
			return nil, err
		}
		subs = append(subs, sub)
	}

	go func() {
		<-ctx.Done()
		for _, s := range subs {
			s.Unsubscribe()
		}
		mu.Lock()
		closed = true
		close(ch)
		mu.Unlock()
	}()

	return ch, nil
}
