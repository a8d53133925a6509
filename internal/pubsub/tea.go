package pubsub

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// ListenCmd creates a Bubble Tea command that waits for the next event on ch.
// The event itself is returned as the tea.Msg.
// Returns nil if the context is cancelled or the channel is closed.
func ListenCmd(ctx context.Context, ch <-chan Event) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-ch:
			if !ok {
				return nil // Channel closed
			}
			return event
		}
	}
}

// ContinuousListener keeps a stream open for the Bubble Tea update loop.
type ContinuousListener struct {
	ctx context.Context
	ch  <-chan Event
}

// NewContinuousListener streams names from reg until ctx is cancelled.
func NewContinuousListener(ctx context.Context, reg *Registry, names ...string) (*ContinuousListener, error) {
	ch, err := reg.Stream(ctx, names...)
	if err != nil {
		return nil, err
	}
	return &ContinuousListener{ctx: ctx, ch: ch}, nil
}

// Listen returns a tea.Cmd that waits for the next event.
// Call it again from Update after handling an event to keep receiving.
func (l *ContinuousListener) Listen() tea.Cmd {
	return ListenCmd(l.ctx, l.ch)
}

// Pending returns the number of buffered events Listen will return without blocking.
func (l *ContinuousListener) Pending() int {
	return len(l.ch)
}
