package kafka

import (
	"context"
	"testing"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

func TestHeaderCarrier_RoundTripsTraceContext(t *testing.T) {
	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
		Remote:     true,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	var headers []kafka.Header
	prop := propagation.TraceContext{}
	prop.Inject(ctx, &headerCarrier{headers: &headers})

	if len(headers) == 0 {
		t.Fatal("expected traceparent header to be written")
	}

	extracted := trace.SpanContextFromContext(prop.Extract(context.Background(), &headerCarrier{headers: &headers}))
	if extracted.TraceID() != traceID {
		t.Errorf("trace id = %s, want %s", extracted.TraceID(), traceID)
	}
	if extracted.SpanID() != spanID {
		t.Errorf("span id = %s, want %s", extracted.SpanID(), spanID)
	}
}

func TestHeaderCarrier_SetReplacesExistingKey(t *testing.T) {
	headers := []kafka.Header{{Key: "traceparent", Value: []byte("old")}}
	c := &headerCarrier{headers: &headers}

	c.Set("traceparent", "new")

	if len(headers) != 1 {
		t.Fatalf("expected 1 header, got %d", len(headers))
	}
	if got := c.Get("traceparent"); got != "new" {
		t.Errorf("Get(traceparent) = %q, want new", got)
	}
	if keys := c.Keys(); len(keys) != 1 || keys[0] != "traceparent" {
		t.Errorf("Keys() = %v", keys)
	}
}
