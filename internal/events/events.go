package events

import (
	"context"
	"time"

	"checkout-relay/internal/models"

	"github.com/google/uuid"
)

// Publisher sends an event keyed by order id. *kafka.Producer satisfies it.
type Publisher interface {
	Publish(ctx context.Context, key string, value any) error
}

// Discard drops every event. Used when no broker is configured.
type Discard struct{}

func (Discard) Publish(context.Context, string, any) error { return nil }

func OrderCreated(orderID, status, correlationToken string) models.OrderEvent {
	return models.OrderEvent{
		ID:               uuid.NewString(),
		Type:             models.EventOrderCreated,
		OrderID:          orderID,
		CorrelationToken: correlationToken,
		Status:           status,
		OccurredAt:       time.Now().UTC(),
	}
}

func OrderCaptured(orderID string, upstreamStatus int) models.OrderEvent {
	return models.OrderEvent{
		ID:             uuid.NewString(),
		Type:           models.EventOrderCaptured,
		OrderID:        orderID,
		UpstreamStatus: upstreamStatus,
		OccurredAt:     time.Now().UTC(),
	}
}
