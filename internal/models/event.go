package models

import "time"

const (
	EventOrderCreated  = "order.created"
	EventOrderCaptured = "order.captured"
)

type OrderEvent struct {
	ID               string    `json:"id"`
	Type             string    `json:"type"`
	OrderID          string    `json:"order_id"`
	CorrelationToken string    `json:"correlation_token,omitempty"`
	Status           string    `json:"status,omitempty"`
	UpstreamStatus   int       `json:"upstream_status,omitempty"`
	OccurredAt       time.Time `json:"occurred_at"`
}
