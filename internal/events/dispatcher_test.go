package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"checkout-relay/internal/telemetry"
)

type slowPublisher struct {
	release chan struct{}

	mu        sync.Mutex
	keys      []string
	deadlines []bool
	err       error
}

func newSlowPublisher() *slowPublisher {
	return &slowPublisher{release: make(chan struct{})}
}

func (p *slowPublisher) Publish(ctx context.Context, key string, _ any) error {
	select {
	case <-p.release:
	case <-ctx.Done():
		return ctx.Err()
	}
	_, hasDeadline := ctx.Deadline()

	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, key)
	p.deadlines = append(p.deadlines, hasDeadline)
	return p.err
}

func (p *slowPublisher) delivered() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.keys...)
}

func newTestDispatcher(next Publisher, queueSize int, timeout time.Duration) *Dispatcher {
	log, _, metrics := telemetry.Nop()
	return NewDispatcher(next, queueSize, timeout, metrics, log)
}

func TestDispatcher_PublishDoesNotWaitForDelivery(t *testing.T) {
	slow := newSlowPublisher()
	d := newTestDispatcher(slow, 8, time.Minute)

	start := time.Now()
	if err := d.Publish(context.Background(), "O-1", OrderCaptured("O-1", 201)); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("Publish() took %v while the publisher was blocked", elapsed)
	}

	close(slow.release)
	d.Close()

	if got := slow.delivered(); len(got) != 1 || got[0] != "O-1" {
		t.Errorf("delivered = %v, want [O-1]", got)
	}
}

func TestDispatcher_DeliveryOutlivesRequestContext(t *testing.T) {
	slow := newSlowPublisher()
	d := newTestDispatcher(slow, 8, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	if err := d.Publish(ctx, "O-1", OrderCaptured("O-1", 201)); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	cancel()

	close(slow.release)
	d.Close()

	if got := slow.delivered(); len(got) != 1 {
		t.Fatalf("expected the event to be delivered after the request ended, got %v", got)
	}
	if !slow.deadlines[0] {
		t.Error("delivery should run under the publish timeout")
	}
}

func TestDispatcher_TimeoutBoundsDelivery(t *testing.T) {
	slow := newSlowPublisher()
	d := newTestDispatcher(slow, 8, 20*time.Millisecond)

	if err := d.Publish(context.Background(), "O-1", OrderCaptured("O-1", 201)); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	done := make(chan struct{})
	go func() {
		d.Close()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Close() did not return; a stuck delivery was not cut off")
	}
	if got := slow.delivered(); len(got) != 0 {
		t.Errorf("expected the stuck delivery to be abandoned, got %v", got)
	}
}

func TestDispatcher_FullQueueDrops(t *testing.T) {
	slow := newSlowPublisher()
	d := newTestDispatcher(slow, 1, time.Minute)
	defer func() {
		close(slow.release)
		d.Close()
	}()

	// The worker takes at most one event off the queue, so three publishes
	// against a queue of one must overflow.
	var full int
	for i := 0; i < 3; i++ {
		if err := d.Publish(context.Background(), "O-1", OrderCaptured("O-1", 201)); errors.Is(err, ErrQueueFull) {
			full++
		}
	}
	if full == 0 {
		t.Error("expected ErrQueueFull once the queue is exhausted")
	}
}

func TestDispatcher_PublishAfterClose(t *testing.T) {
	d := newTestDispatcher(Discard{}, 1, time.Second)
	d.Close()

	if err := d.Publish(context.Background(), "O-1", OrderCaptured("O-1", 201)); !errors.Is(err, ErrDispatcherClosed) {
		t.Errorf("expected ErrDispatcherClosed, got %v", err)
	}
	d.Close()
}

func TestDispatcher_FailedDeliveryIsNotReturned(t *testing.T) {
	slow := newSlowPublisher()
	slow.err = errors.New("broker down")
	close(slow.release)
	d := newTestDispatcher(slow, 8, time.Second)

	if err := d.Publish(context.Background(), "O-1", OrderCaptured("O-1", 201)); err != nil {
		t.Errorf("Publish() error = %v, delivery failures stay in the background", err)
	}
	d.Close()
}
