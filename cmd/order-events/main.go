package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"checkout-relay/internal/config"
	"checkout-relay/internal/kafka"
	"checkout-relay/internal/models"
	"checkout-relay/internal/telemetry"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const groupID = "order-events-audit"

var (
	log    *zap.Logger
	tracer trace.Tracer
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}
	if !cfg.Kafka.Enabled() {
		panic("KAFKA_BROKER must be set to consume order events")
	}

	var shutdown func(context.Context)
	log, tracer, _, shutdown, err = telemetry.Setup(ctx, "order-events", cfg.Telemetry)
	if err != nil {
		panic("failed to initialize telemetry: " + err.Error())
	}
	defer shutdown(context.Background())

	if err := kafka.EnsureTopic(ctx, cfg.Kafka.Broker, cfg.Kafka.EventsTopic, 3, 1); err != nil {
		log.Warn("failed to ensure order events topic", zap.String("topic", cfg.Kafka.EventsTopic), zap.Error(err))
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Info("shutting down order-events...")
		cancel()
	}()

	consumer := kafka.NewConsumer([]string{cfg.Kafka.Broker}, cfg.Kafka.EventsTopic, groupID)
	defer consumer.Close()

	log.Info("order-events consumer started",
		zap.String("topic", cfg.Kafka.EventsTopic),
		zap.String("group", groupID),
	)

	if err := consumer.Listen(ctx, recordEvent); err != nil {
		log.Error("order events consumer error", zap.Error(err))
	}
}

func recordEvent(ctx context.Context, event models.OrderEvent) error {
	_, span := tracer.Start(ctx, "RecordOrderEvent")
	defer span.End()

	span.SetAttributes(
		attribute.String("event.id", event.ID),
		attribute.String("event.type", event.Type),
		attribute.String("order.id", event.OrderID),
	)

	fields := []zap.Field{
		zap.String("event_id", event.ID),
		zap.String("event_type", event.Type),
		zap.String("order_id", event.OrderID),
		zap.Time("occurred_at", event.OccurredAt),
	}
	switch event.Type {
	case models.EventOrderCreated:
		fields = append(fields, zap.String("status", event.Status))
	case models.EventOrderCaptured:
		fields = append(fields, zap.Int("upstream_status", event.UpstreamStatus))
	default:
		log.Warn("unknown order event type", fields...)
		return nil
	}

	log.Info("order event", fields...)
	return nil
}
