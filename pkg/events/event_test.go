package events

import (
	"encoding/json"
	"testing"
	"time"
)

func TestNewBaseEvent(t *testing.T) {
	before := time.Now().UTC()
	event := NewBaseEvent("finance.debt.originated", "debt-123", "Debt", "session-7")
	after := time.Now().UTC()

	if event.EventID() == "" {
		t.Error("expected non-empty event ID")
	}
	if event.EventType() != "finance.debt.originated" {
		t.Errorf("expected event type %q, got %q", "finance.debt.originated", event.EventType())
	}
	if event.AggregateID() != "debt-123" {
		t.Errorf("expected aggregate ID %q, got %q", "debt-123", event.AggregateID())
	}
	if event.AggregateType() != "Debt" {
		t.Errorf("expected aggregate type %q, got %q", "Debt", event.AggregateType())
	}
	if event.SessionID() != "session-7" {
		t.Errorf("expected session ID %q, got %q", "session-7", event.SessionID())
	}
	if event.OccurredAt().Before(before) || event.OccurredAt().After(after) {
		t.Errorf("expected occurredAt between %v and %v, got %v", before, after, event.OccurredAt())
	}
}

func TestNewBaseEventAt(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.FixedZone("ICT", 7*3600))
	event := NewBaseEventAt("x", "agg", "Debt", "", at)

	if !event.OccurredAt().Equal(at) {
		t.Errorf("expected %v, got %v", at, event.OccurredAt())
	}
	if event.OccurredAt().Location() != time.UTC {
		t.Errorf("expected UTC location, got %v", event.OccurredAt().Location())
	}
}

func TestBaseEventImplementsDomainEvent(t *testing.T) {
	var _ DomainEvent = BaseEvent{}
}

func TestNewOutboxEntry(t *testing.T) {
	event := NewBaseEvent("finance.debt.payment_applied", "debt-789", "Debt", "session-1")

	entry, err := NewOutboxEntry(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if entry.ID != event.EventID() {
		t.Errorf("expected outbox ID %v, got %v", event.EventID(), entry.ID)
	}
	if entry.AggregateID != "debt-789" {
		t.Errorf("expected aggregate ID %v, got %v", "debt-789", entry.AggregateID)
	}
	if entry.SessionID != "session-1" {
		t.Errorf("expected session ID %q, got %q", "session-1", entry.SessionID)
	}
	if entry.EventType != "finance.debt.payment_applied" {
		t.Errorf("expected event type %q, got %q", "finance.debt.payment_applied", entry.EventType)
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal(entry.Payload, &parsed); err != nil {
		t.Fatalf("expected valid JSON payload, got error: %v", err)
	}
	if parsed["event_type"] != "finance.debt.payment_applied" {
		t.Errorf("expected payload to carry event_type, got %v", parsed["event_type"])
	}
	if !entry.CreatedAt.Equal(event.OccurredAt()) {
		t.Errorf("expected created at %v, got %v", event.OccurredAt(), entry.CreatedAt)
	}
	if entry.PublishedAt != nil {
		t.Error("expected published at to be nil")
	}
}
