package telemetry

import (
	"go.opentelemetry.io/otel/metric"
)

type Metrics struct {
	TokenCacheHits  metric.Int64Counter
	TokenExchanges  metric.Int64Counter
	OrdersCreated   metric.Int64Counter
	OrdersCaptured  metric.Int64Counter
	UpstreamLatency metric.Float64Histogram
	EventsPublished metric.Int64Counter
}

func NewMetrics(meter metric.Meter) (*Metrics, error) {
	hits, err := meter.Int64Counter("token_cache_hits_total",
		metric.WithDescription("Token requests served from the cache"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	exchanges, err := meter.Int64Counter("token_exchanges_total",
		metric.WithDescription("Client-credentials exchanges against the token endpoint"),
		metric.WithUnit("{exchange}"),
	)
	if err != nil {
		return nil, err
	}

	ordersCreated, err := meter.Int64Counter("orders_created_total",
		metric.WithDescription("Create-order requests relayed upstream"),
		metric.WithUnit("{order}"),
	)
	if err != nil {
		return nil, err
	}

	ordersCaptured, err := meter.Int64Counter("orders_captured_total",
		metric.WithDescription("Capture-order requests relayed upstream"),
		metric.WithUnit("{order}"),
	)
	if err != nil {
		return nil, err
	}

	latency, err := meter.Float64Histogram("upstream_request_duration_seconds",
		metric.WithDescription("Duration of calls to the payment processor"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0),
	)
	if err != nil {
		return nil, err
	}

	published, err := meter.Int64Counter("order_events_published_total",
		metric.WithDescription("Order lifecycle events published to Kafka"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		TokenCacheHits:  hits,
		TokenExchanges:  exchanges,
		OrdersCreated:   ordersCreated,
		OrdersCaptured:  ordersCaptured,
		UpstreamLatency: latency,
		EventsPublished: published,
	}, nil
}
