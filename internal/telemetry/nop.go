package telemetry

import (
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
)

// Nop returns a discarding logger, tracer and metrics set.
func Nop() (*zap.Logger, trace.Tracer, *Metrics) {
	metrics, err := NewMetrics(metricnoop.NewMeterProvider().Meter("nop"))
	if err != nil {
		// noop instruments never fail to register
		panic(err)
	}
	return zap.NewNop(), tracenoop.NewTracerProvider().Tracer("nop"), metrics
}
