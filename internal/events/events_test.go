package events

import (
	"context"
	"testing"

	"checkout-relay/internal/models"

	"github.com/google/uuid"
)

func TestOrderCreated(t *testing.T) {
	ev := OrderCreated("O-1", "CREATED", "0123456789abcdef")

	if ev.Type != models.EventOrderCreated || ev.OrderID != "O-1" || ev.Status != "CREATED" {
		t.Errorf("unexpected event %+v", ev)
	}
	if ev.CorrelationToken != "0123456789abcdef" {
		t.Errorf("CorrelationToken = %q", ev.CorrelationToken)
	}
	if _, err := uuid.Parse(ev.ID); err != nil {
		t.Errorf("event id %q is not a uuid: %v", ev.ID, err)
	}
	if ev.OccurredAt.IsZero() {
		t.Error("expected OccurredAt to be set")
	}
}

func TestOrderCaptured_UniqueIDs(t *testing.T) {
	a := OrderCaptured("O-1", 201)
	b := OrderCaptured("O-1", 201)

	if a.ID == b.ID {
		t.Error("each event needs its own id")
	}
	if a.Type != models.EventOrderCaptured || a.UpstreamStatus != 201 {
		t.Errorf("unexpected event %+v", a)
	}
}

func TestDiscard(t *testing.T) {
	var p Publisher = Discard{}
	if err := p.Publish(context.Background(), "O-1", OrderCaptured("O-1", 201)); err != nil {
		t.Errorf("Discard.Publish() error = %v", err)
	}
}
