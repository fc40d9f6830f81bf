package workers

import (
	"context"
	"errors"
	"testing"
	"time"

	"centinela/contexts/field-operations/witness-assignment/adapters/memory"
	"centinela/contexts/field-operations/witness-assignment/ports"
)

type capturingPublisher struct {
	published []ports.EventEnvelope
	fail      bool
}

func (p *capturingPublisher) Publish(_ context.Context, _ string, event ports.EventEnvelope) error {
	if p.fail {
		return errors.New("broker unavailable")
	}
	p.published = append(p.published, event)
	return nil
}

func appendEnvelope(t *testing.T, store *memory.Store, eventID string) {
	t.Helper()
	err := store.AppendOutbox(context.Background(), ports.EventEnvelope{
		EventID:    eventID,
		EventType:  "witness.mesa.released",
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("append outbox failed: %v", err)
	}
}

func TestOutboxRelayPublishesAndMarks(t *testing.T) {
	store := memory.NewStore(nil)
	appendEnvelope(t, store, "evt-1")
	appendEnvelope(t, store, "evt-2")

	publisher := &capturingPublisher{}
	relay := OutboxRelay{Outbox: store, Publisher: publisher, Clock: memory.SystemClock{}}

	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("relay run failed: %v", err)
	}
	if len(publisher.published) != 2 {
		t.Fatalf("expected 2 published events, got %d", len(publisher.published))
	}

	pending, err := store.ListPendingOutbox(context.Background(), 10)
	if err != nil {
		t.Fatalf("list pending failed: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected empty outbox after relay, got %d", len(pending))
	}
}

func TestOutboxRelayKeepsRowOnPublishFailure(t *testing.T) {
	store := memory.NewStore(nil)
	appendEnvelope(t, store, "evt-1")

	publisher := &capturingPublisher{fail: true}
	relay := OutboxRelay{Outbox: store, Publisher: publisher, Clock: memory.SystemClock{}}

	if err := relay.RunOnce(context.Background()); err == nil {
		t.Fatal("expected relay failure when publish fails")
	}
	pending, err := store.ListPendingOutbox(context.Background(), 10)
	if err != nil {
		t.Fatalf("list pending failed: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("failed publish must keep the row pending, got %d rows", len(pending))
	}
}
