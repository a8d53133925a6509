package pubsub

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

// setupTestTracer creates a test tracer with an in-memory exporter.
func setupTestTracer(t *testing.T) (trace.Tracer, *tracetest.InMemoryExporter) {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	provider := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
	)
	return provider.Tracer("test-tracer"), exporter
}

func attrValue(span tracetest.SpanStub, key string) (attribute.Value, bool) {
	for _, attr := range span.Attributes {
		if string(attr.Key) == key {
			return attr.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestPublish_RecordsSpan(t *testing.T) {
	tracer, exporter := setupTestTracer(t)
	reg := NewRegistry(WithTracer(tracer))

	_, err := reg.Subscribe("room:changed", func(context.Context, Event) {})
	require.NoError(t, err)
	_, err = reg.Subscribe("room:changed", func(context.Context, Event) {})
	require.NoError(t, err)

	reg.PublishNamed(context.Background(), "room:changed", nil)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	span := spans[0]
	require.Equal(t, publishSpanName, span.Name)
	require.Equal(t, codes.Ok, span.Status.Code)

	name, ok := attrValue(span, "pubsub.event")
	require.True(t, ok)
	require.Equal(t, "room:changed", name.AsString())

	subs, ok := attrValue(span, "pubsub.subscribers")
	require.True(t, ok)
	require.Equal(t, int64(2), subs.AsInt64())

	faults, ok := attrValue(span, "pubsub.faults")
	require.True(t, ok)
	require.Equal(t, int64(0), faults.AsInt64())
}

func TestPublish_SpanRecordsFaults(t *testing.T) {
	tracer, exporter := setupTestTracer(t)
	reg := NewRegistry(WithTracer(tracer))

	_, err := reg.Subscribe("e", func(context.Context, Event) { panic("boom") })
	require.NoError(t, err)

	reg.PublishNamed(context.Background(), "e", nil)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	require.Equal(t, codes.Error, spans[0].Status.Code)
	require.Len(t, spans[0].Events, 1)
	require.Equal(t, "subscriber.fault", spans[0].Events[0].Name)
}

func TestPublish_NoSpanWithoutSubscribers(t *testing.T) {
	tracer, exporter := setupTestTracer(t)
	reg := NewRegistry(WithTracer(tracer))

	reg.PublishNamed(context.Background(), "unused:event", nil)

	require.Empty(t, exporter.GetSpans())
}

func TestPublish_HandlerSeesSpanContext(t *testing.T) {
	tracer, _ := setupTestTracer(t)
	reg := NewRegistry(WithTracer(tracer))

	var sc trace.SpanContext
	_, err := reg.Subscribe("e", func(ctx context.Context, _ Event) {
		sc = trace.SpanContextFromContext(ctx)
	})
	require.NoError(t, err)

	reg.PublishNamed(context.Background(), "e", nil)
	require.True(t, sc.IsValid())
}
