package telemetry

import (
	"context"
	"testing"

	"checkout-relay/internal/config"
)

func TestSetup_Disabled(t *testing.T) {
	ctx := context.Background()

	log, tracer, meter, shutdown, err := Setup(ctx, "test", config.TelemetryConfig{Enabled: false})
	if err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	defer shutdown(ctx)

	if log == nil || tracer == nil || meter == nil {
		t.Fatal("expected logger, tracer and meter")
	}

	metrics, err := NewMetrics(meter)
	if err != nil {
		t.Fatalf("NewMetrics() error = %v", err)
	}
	metrics.TokenExchanges.Add(ctx, 1)

	_, span := tracer.Start(ctx, "noop")
	span.End()
}

func TestNop(t *testing.T) {
	log, tracer, metrics := Nop()
	if log == nil || tracer == nil || metrics == nil {
		t.Fatal("Nop() returned nil")
	}
	metrics.OrdersCreated.Add(context.Background(), 1)
}
