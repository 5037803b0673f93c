package events

import (
	"context"
	"errors"
	"sync"
	"time"

	"checkout-relay/internal/models"
	"checkout-relay/internal/telemetry"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

var (
	ErrQueueFull        = errors.New("order event queue is full")
	ErrDispatcherClosed = errors.New("order event dispatcher is closed")
)

type job struct {
	ctx   context.Context
	key   string
	value any
}

// Dispatcher queues events and hands them to the wrapped publisher from a
// single background worker, so a slow broker never holds a request.
// Each delivery is bounded by the configured timeout.
type Dispatcher struct {
	next    Publisher
	timeout time.Duration
	metrics *telemetry.Metrics
	log     *zap.Logger

	mu     sync.RWMutex
	closed bool
	queue  chan job
	done   chan struct{}
}

func NewDispatcher(next Publisher, queueSize int, timeout time.Duration, metrics *telemetry.Metrics, log *zap.Logger) *Dispatcher {
	d := &Dispatcher{
		next:    next,
		timeout: timeout,
		metrics: metrics,
		log:     log,
		queue:   make(chan job, queueSize),
		done:    make(chan struct{}),
	}
	go d.run()
	return d
}

// Publish enqueues the event and returns without waiting for delivery.
// The request context only contributes its trace; cancelling it does not
// cancel the delivery.
func (d *Dispatcher) Publish(ctx context.Context, key string, value any) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return ErrDispatcherClosed
	}

	select {
	case d.queue <- job{ctx: context.WithoutCancel(ctx), key: key, value: value}:
		return nil
	default:
		d.metrics.EventsPublished.Add(ctx, 1, metric.WithAttributes(
			attribute.String("type", eventType(value)),
			attribute.String("status", "dropped"),
		))
		return ErrQueueFull
	}
}

// Close stops accepting events and waits for the queued ones to be delivered.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		<-d.done
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()
	<-d.done
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for j := range d.queue {
		d.deliver(j)
	}
}

func (d *Dispatcher) deliver(j job) {
	ctx, cancel := context.WithTimeout(j.ctx, d.timeout)
	defer cancel()

	typ := eventType(j.value)
	if err := d.next.Publish(ctx, j.key, j.value); err != nil {
		d.log.Warn("failed to publish order event",
			zap.String("order_id", j.key),
			zap.String("event_type", typ),
			zap.Error(err),
		)
		d.metrics.EventsPublished.Add(ctx, 1, metric.WithAttributes(
			attribute.String("type", typ),
			attribute.String("status", "error"),
		))
		return
	}
	d.metrics.EventsPublished.Add(ctx, 1, metric.WithAttributes(
		attribute.String("type", typ),
		attribute.String("status", "ok"),
	))
}

func eventType(value any) string {
	if ev, ok := value.(models.OrderEvent); ok {
		return ev.Type
	}
	return "unknown"
}
