package pubsub

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

type recorder struct {
	calls []string
}

func (r *recorder) handler(label string) Handler {
	return func(_ context.Context, _ Event) {
		r.calls = append(r.calls, label)
	}
}

func TestPublish_DeliversInRegistrationOrder(t *testing.T) {
	reg := NewRegistry()
	rec := &recorder{}

	for _, label := range []string{"c1", "c2", "c3"} {
		_, err := reg.Subscribe("room:changed", rec.handler(label))
		require.NoError(t, err)
	}

	reg.PublishNamed(context.Background(), "room:changed", nil)

	require.Equal(t, []string{"c1", "c2", "c3"}, rec.calls)
}

func TestPublish_PayloadReachesHandler(t *testing.T) {
	reg := NewRegistry()
	var got []Event

	_, err := reg.Subscribe("room:changed", func(_ context.Context, ev Event) {
		got = append(got, ev)
	})
	require.NoError(t, err)

	payload := map[string]any{"roomName": "lounge"}
	reg.PublishNamed(context.Background(), "room:changed", payload)

	require.Len(t, got, 1)
	msg, ok := got[0].(Message)
	require.True(t, ok)
	require.Equal(t, "room:changed", msg.Name)
	require.Equal(t, payload, msg.Payload)
}

func TestPublish_UnregisteredEventIsNoop(t *testing.T) {
	reg := NewRegistry()

	require.NotPanics(t, func() {
		reg.PublishNamed(context.Background(), "unused:event", map[string]any{})
		reg.Publish(context.Background(), nil)
		reg.Publish(nil, Message{Name: "unused:event"}) //nolint:staticcheck // nil ctx is tolerated
	})
	require.Empty(t, reg.Names())
}

func TestUnsubscribe_StopsDelivery(t *testing.T) {
	reg := NewRegistry()
	rec := &recorder{}

	sub, err := reg.Subscribe("room:changed", rec.handler("c"))
	require.NoError(t, err)
	sub.Unsubscribe()

	reg.PublishNamed(context.Background(), "room:changed", nil)

	require.Empty(t, rec.calls)
	require.Equal(t, 0, reg.SubscriberCount("room:changed"))
}

func TestUnsubscribe_TwiceDoesNotTouchOtherSubscribers(t *testing.T) {
	reg := NewRegistry()
	rec := &recorder{}

	first, err := reg.Subscribe("room:changed", rec.handler("first"))
	require.NoError(t, err)
	_, err = reg.Subscribe("room:changed", rec.handler("second"))
	require.NoError(t, err)

	first.Unsubscribe()
	require.NotPanics(t, first.Unsubscribe)

	reg.PublishNamed(context.Background(), "room:changed", nil)

	require.Equal(t, []string{"second"}, rec.calls)
	require.Equal(t, 1, reg.SubscriberCount("room:changed"))
}

func TestUnsubscribe_NilHandleIsSafe(t *testing.T) {
	var sub *Subscription
	require.NotPanics(t, sub.Unsubscribe)
}

func TestSubscribe_SameHandlerTwiceIsIndependent(t *testing.T) {
	reg := NewRegistry()
	count := 0
	fn := func(context.Context, Event) { count++ }

	h1, err := reg.Subscribe("room:changed", fn)
	require.NoError(t, err)
	h2, err := reg.Subscribe("room:changed", fn)
	require.NoError(t, err)
	require.NotEqual(t, h1.ID(), h2.ID())

	h1.Unsubscribe()
	reg.PublishNamed(context.Background(), "room:changed", nil)

	require.Equal(t, 1, count, "remaining subscription should still fire once")
}

func TestPublish_FaultIsolation(t *testing.T) {
	var faults []Fault
	reg := NewRegistry(WithFaultHook(func(f Fault) { faults = append(faults, f) }))
	rec := &recorder{}

	_, err := reg.Subscribe("room:changed", rec.handler("c1"))
	require.NoError(t, err)
	bad, err := reg.Subscribe("room:changed", func(context.Context, Event) {
		panic("c2 exploded")
	})
	require.NoError(t, err)
	_, err = reg.Subscribe("room:changed", rec.handler("c3"))
	require.NoError(t, err)

	require.NotPanics(t, func() {
		reg.PublishNamed(context.Background(), "room:changed", "P")
	})

	require.Equal(t, []string{"c1", "c3"}, rec.calls)
	require.Len(t, faults, 1)
	require.Equal(t, "room:changed", faults[0].EventName)
	require.Equal(t, bad.ID(), faults[0].SubscriptionID)
	require.Contains(t, faults[0].Error(), "c2 exploded")
}

func TestFault_UnwrapsErrorPanics(t *testing.T) {
	sentinel := errors.New("sentinel")
	var got Fault
	reg := NewRegistry(WithFaultHook(func(f Fault) { got = f }))

	_, err := reg.Subscribe("e", func(context.Context, Event) { panic(sentinel) })
	require.NoError(t, err)
	reg.PublishNamed(context.Background(), "e", nil)

	require.ErrorIs(t, got, sentinel)
	require.NoError(t, Fault{Recovered: "plain"}.Unwrap())
}

func TestSubscribe_InvalidInput(t *testing.T) {
	reg := NewRegistry()

	_, err := reg.Subscribe("", func(context.Context, Event) {})
	require.ErrorIs(t, err, ErrEmptyEventName)

	_, err = reg.Subscribe("   ", func(context.Context, Event) {})
	require.ErrorIs(t, err, ErrEmptyEventName)

	_, err = reg.Subscribe("room:changed", nil)
	require.ErrorIs(t, err, ErrNilHandler)

	require.Empty(t, reg.Names(), "rejected input must not create keys")
}

func TestPublish_SnapshotIgnoresMutationDuringDelivery(t *testing.T) {
	reg := NewRegistry()
	rec := &recorder{}

	var second *Subscription
	_, err := reg.Subscribe("e", func(ctx context.Context, ev Event) {
		rec.calls = append(rec.calls, "first")
		second.Unsubscribe()
		_, _ = reg.Subscribe("e", rec.handler("late"))
	})
	require.NoError(t, err)
	second, err = reg.Subscribe("e", rec.handler("second"))
	require.NoError(t, err)

	reg.PublishNamed(context.Background(), "e", nil)
	require.Equal(t, []string{"first", "second"}, rec.calls, "in-flight delivery set is fixed")

	rec.calls = nil
	reg.PublishNamed(context.Background(), "e", nil)
	require.Equal(t, []string{"first", "late"}, rec.calls)
}

func TestHandler_UnsubscribingItselfStillCompletes(t *testing.T) {
	reg := NewRegistry()
	completed := 0

	var self *Subscription
	self, err := reg.Subscribe("e", func(context.Context, Event) {
		self.Unsubscribe()
		completed++
	})
	require.NoError(t, err)

	reg.PublishNamed(context.Background(), "e", nil)
	reg.PublishNamed(context.Background(), "e", nil)

	require.Equal(t, 1, completed)
}

func TestNames_PrunesEmptyKeys(t *testing.T) {
	reg := NewRegistry()

	a, err := reg.Subscribe("b:event", func(context.Context, Event) {})
	require.NoError(t, err)
	_, err = reg.Subscribe("a:event", func(context.Context, Event) {})
	require.NoError(t, err)

	require.Equal(t, []string{"a:event", "b:event"}, reg.Names())

	a.Unsubscribe()
	require.Equal(t, []string{"a:event"}, reg.Names())
}

func TestSubscription_Accessors(t *testing.T) {
	reg := NewRegistry()
	sub, err := reg.Subscribe("room:changed", func(context.Context, Event) {})
	require.NoError(t, err)

	require.Equal(t, "room:changed", sub.EventName())
	require.Len(t, sub.ID(), 36)
}

// TestProperty_OrderAndRemoval checks that after any mix of subscribe and
// unsubscribe operations, a publish reaches exactly the live subscriptions
// in the order they were created.
func TestProperty_OrderAndRemoval(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		reg := NewRegistry()
		var calls []int
		var subs []*Subscription
		live := map[int]bool{}

		numOps := rapid.IntRange(1, 60).Draw(t, "numOps")
		for i := 0; i < numOps; i++ {
			if len(subs) == 0 || rapid.Bool().Draw(t, "subscribe") {
				id := len(subs)
				sub, err := reg.Subscribe("e", func(context.Context, Event) {
					calls = append(calls, id)
				})
				if err != nil {
					t.Fatalf("subscribe: %v", err)
				}
				subs = append(subs, sub)
				live[id] = true
				continue
			}
			idx := rapid.IntRange(0, len(subs)-1).Draw(t, "unsubscribe")
			subs[idx].Unsubscribe()
			live[idx] = false
		}

		reg.PublishNamed(context.Background(), "e", nil)

		var want []int
		for id := range subs {
			if live[id] {
				want = append(want, id)
			}
		}
		if len(want) != len(calls) {
			t.Fatalf("got %v calls, want %v", calls, want)
		}
		for i := range want {
			if want[i] != calls[i] {
				t.Fatalf("order mismatch: got %v, want %v", calls, want)
			}
		}
		if got := reg.SubscriberCount("e"); got != len(want) {
			t.Fatalf("SubscriberCount = %d, want %d", got, len(want))
		}
	})
}

// TestProperty_FaultsNeverBlockDelivery checks that every non-panicking
// handler runs regardless of where panicking handlers sit in the list.
func TestProperty_FaultsNeverBlockDelivery(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		faultCount := 0
		reg := NewRegistry(WithFaultHook(func(Fault) { faultCount++ }))
		panics := rapid.SliceOfN(rapid.Bool(), 1, 30).Draw(t, "panics")

		var calls []int
		wantFaults := 0
		var want []int
		for i, p := range panics {
			id := i
			if p {
				wantFaults++
				_, _ = reg.Subscribe("e", func(context.Context, Event) { panic(id) })
				continue
			}
			want = append(want, id)
			_, _ = reg.Subscribe("e", func(context.Context, Event) { calls = append(calls, id) })
		}

		reg.PublishNamed(context.Background(), "e", nil)

		if faultCount != wantFaults {
			t.Fatalf("faults = %d, want %d", faultCount, wantFaults)
		}
		if len(calls) != len(want) {
			t.Fatalf("calls = %v, want %v", calls, want)
		}
		for i := range want {
			if calls[i] != want[i] {
				t.Fatalf("calls = %v, want %v", calls, want)
			}
		}
	})
}
