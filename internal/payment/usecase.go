package payment

import (
	"context"
	"net/http"
	"strconv"

	"checkout-relay/internal/auth"
	"checkout-relay/internal/events"
	"checkout-relay/internal/models"
	"checkout-relay/internal/paypal"
	"checkout-relay/internal/telemetry"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type UseCase struct {
	tokens    auth.TokenSource
	client    *paypal.Client
	publisher events.Publisher
	metrics   *telemetry.Metrics
	log       *zap.Logger
	tracer    trace.Tracer
}

func NewUseCase(tokens auth.TokenSource, client *paypal.Client, publisher events.Publisher, metrics *telemetry.Metrics, log *zap.Logger, tracer trace.Tracer) *UseCase {
	return &UseCase{
		tokens:    tokens,
		client:    client,
		publisher: publisher,
		metrics:   metrics,
		log:       log,
		tracer:    tracer,
	}
}

// CaptureOrder relays a capture request and returns the upstream reply
// untouched. Whether the capture succeeded is for the caller to read.
func (uc *UseCase) CaptureOrder(ctx context.Context, orderID string) (*models.CaptureResult, error) {
	ctx, span := uc.tracer.Start(ctx, "CaptureOrder",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String("order.id", orderID)),
	)
	defer span.End()

	token, err := uc.tokens.Token(ctx)
	if err != nil {
		return nil, uc.fail(ctx, span, err)
	}

	resp, err := uc.client.CaptureOrder(ctx, token, uuid.NewString(), orderID)
	if err != nil {
		return nil, uc.fail(ctx, span, err)
	}
	if resp.StatusCode == http.StatusUnauthorized {
		uc.tokens.Invalidate()
	}

	span.SetAttributes(attribute.Int("upstream.status_code", resp.StatusCode))
	span.SetStatus(codes.Ok, "")
	uc.metrics.OrdersCaptured.Add(ctx, 1, metric.WithAttributes(
		attribute.String("status", "relayed"),
		attribute.String("upstream_status", strconv.Itoa(resp.StatusCode)),
	))
	uc.log.Info("capture relayed",
		zap.String("order_id", orderID),
		zap.Int("upstream_status", resp.StatusCode),
	)

	event := events.OrderCaptured(orderID, resp.StatusCode)
	if err := uc.publisher.Publish(ctx, orderID, event); err != nil {
		uc.log.Warn("failed to publish order event",
			zap.String("order_id", orderID),
			zap.String("event_type", event.Type),
			zap.Error(err),
		)
	}

	return &models.CaptureResult{
		StatusCode:  resp.StatusCode,
		ContentType: resp.ContentType,
		Body:        resp.Body,
	}, nil
}

func (uc *UseCase) fail(ctx context.Context, span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	uc.metrics.OrdersCaptured.Add(ctx, 1, metric.WithAttributes(attribute.String("status", "error")))
	return err
}
