package pubsub

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tommyrac/Dawn/internal/log"
)

const publishSpanName = "pubsub.publish"

type entry struct {
	id string
	fn Handler
}

// Registry maps event names to ordered subscriber lists.
// It is safe for concurrent use; the lock is never held while handlers run.
type Registry struct {
	mu      sync.Mutex
	subs    map[string][]*entry
	onFault func(Fault)
	tracer  trace.Tracer
}

// Option configures a Registry.
type Option func(*Registry)

// WithFaultHook registers a function called for every recovered handler panic,
// after it has been logged.
func WithFaultHook(fn func(Fault)) Option {
	return func(r *Registry) {
		r.onFault = fn
	}
}

// WithTracer records a span for each Publish.
func WithTracer(tracer trace.Tracer) Option {
	return func(r *Registry) {
		r.tracer = tracer
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		subs: make(map[string][]*entry),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Subscription is the handle returned by Subscribe.
type Subscription struct {
	reg   *Registry
	name  string
	entry *entry
	once  sync.Once
}

// ID returns the unique identifier of this subscription.
func (s *Subscription) ID() string { return s.entry.id }

// EventName returns the name this subscription listens on.
func (s *Subscription) EventName() string { return s.name }

// Unsubscribe removes exactly this subscription. Calling it again is a no-op.
func (s *Subscription) Unsubscribe() {
	if s == nil {
		return
	}
	s.once.Do(func() {
		s.reg.remove(s.name, s.entry)
	})
}

// Subscribe appends fn to the subscriber list for name.
// Subscribing the same function twice creates two independent subscriptions.
func (r *Registry) Subscribe(name string, fn Handler) (*Subscription, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyEventName
	}
	if fn == nil {
		return nil, ErrNilHandler
	}

	e := &entry{id: uuid.New().String(), fn: fn}

	r.mu.Lock()
	r.subs[name] = append(r.subs[name], e)
	count := len(r.subs[name])
	r.mu.Unlock()

	log.Debug(log.CatPubSub, "subscribed", "event", name, "subscription", e.id, "subscribers", count)

	return &Subscription{reg: r, name: name, entry: e}, nil
}

func (r *Registry) remove(name string, target *entry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	list := r.subs[name]
	idx := slices.Index(list, target)
	if idx < 0 {
		return
	}

	// Build a new slice so snapshots taken by in-flight publishes stay intact.
	next := make([]*entry, 0, len(list)-1)
	next = append(next, list[:idx]...)
	next = append(next, list[idx+1:]...)
	if len(next) == 0 {
		delete(r.subs, name)
	} else {
		r.subs[name] = next
	}

	log.Debug(log.CatPubSub, "unsubscribed", "event", name, "subscription", target.id, "subscribers", len(next))
}

// PublishNamed publishes payload as a Message under name.
func (r *Registry) PublishNamed(ctx context.Context, name string, payload any) {
	r.Publish(ctx, Message{Name: name, Payload: payload})
}

// Publish delivers ev to every handler subscribed to ev.EventName(), in
// registration order, on the calling goroutine. Handlers added or removed
// during delivery do not change the set receiving this event.
func (r *Registry) Publish(ctx context.Context, ev Event) {
	if ev == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	name := ev.EventName()

	r.mu.Lock()
	snapshot := r.subs[name]
	r.mu.Unlock()

	if len(snapshot) == 0 {
		log.Debug(log.CatPubSub, "no subscribers", "event", name)
		return
	}

	var span trace.Span
	if r.tracer != nil {
		ctx, span = r.tracer.Start(ctx, publishSpanName,
			trace.WithAttributes(
				attribute.String("pubsub.event", name),
				attribute.Int("pubsub.subscribers", len(snapshot)),
			),
		)
		defer span.End()
	}

	faults := 0
	for _, e := range snapshot {
		fault, ok := r.deliver(ctx, name, e, ev)
		if ok {
			continue
		}
		faults++
		log.ErrorErr(log.CatPubSub, "subscriber fault", fault, "event", name, "subscription", e.id)
		if span != nil {
			span.AddEvent("subscriber.fault", trace.WithAttributes(
				attribute.String("pubsub.subscription", e.id),
				attribute.String("pubsub.panic", fault.Error()),
			))
		}
		if r.onFault != nil {
			r.onFault(fault)
		}
	}

	if span != nil {
		span.SetAttributes(attribute.Int("pubsub.faults", faults))
		if faults > 0 {
			span.SetStatus(codes.Error, "subscriber fault")
		} else {
			span.SetStatus(codes.Ok, "")
		}
	}
}

// deliver runs one handler inside a recover boundary.
func (r *Registry) deliver(ctx context.Context, name string, e *entry, ev Event) (fault Fault, ok bool) {
	defer func() {
		if rec := recover(); rec != nil {
			fault = Fault{EventName: name, SubscriptionID: e.id, Recovered: rec}
			ok = false
		}
	}()
	e.fn(ctx, ev)
	return Fault{}, true
}

// SubscriberCount returns the number of subscriptions for name.
func (r *Registry) SubscriberCount(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.subs[name])
}

// Names returns the event names that currently have subscribers, sorted.
func (r *Registry) Names() []string {
	r.mu.Lock()
	names := make([]string, 0, len(r.subs))
	for name := range r.subs {
		names = append(names, name)
	}
	r.mu.Unlock()
	sort.Strings(names)
	return names
}
