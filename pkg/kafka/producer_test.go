package kafka

import (
	"context"
	"testing"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
)

func TestNewProducer(t *testing.T) {
	p, err := NewProducer(Config{
		Brokers:  []string{"localhost:9092", "localhost:9093"},
		ClientID: "financed",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(p.brokers) != 2 {
		t.Fatalf("expected 2 brokers, got %d", len(p.brokers))
	}
	if p.transport.ClientID != "financed" {
		t.Errorf("expected client id financed, got %s", p.transport.ClientID)
	}
	if p.transport.TLS != nil || p.transport.SASL != nil {
		t.Error("expected plaintext transport when TLS and SASL are disabled")
	}
	if len(p.writers) != 0 {
		t.Errorf("expected empty writers map, got %d entries", len(p.writers))
	}
}

func TestNewProducerSecurity(t *testing.T) {
	p, err := NewProducer(Config{
		Brokers:       []string{"kafka:9093"},
		TLS:           true,
		SASLEnabled:   true,
		SASLMechanism: "PLAIN",
		SASLUsername:  "user",
		SASLPassword:  "pass",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.transport.TLS == nil {
		t.Error("expected TLS config")
	}
	m, ok := p.transport.SASL.(plain.Mechanism)
	if !ok {
		t.Fatalf("expected plain mechanism, got %T", p.transport.SASL)
	}
	if m.Username != "user" {
		t.Errorf("expected username user, got %s", m.Username)
	}
}

func TestNewProducerRejectsUnknownMechanism(t *testing.T) {
	_, err := NewProducer(Config{
		Brokers:       []string{"kafka:9093"},
		SASLEnabled:   true,
		SASLMechanism: "GSSAPI",
	})
	if err == nil {
		t.Fatal("expected error for unsupported mechanism")
	}
}

func TestGetOrCreateWriter(t *testing.T) {
	p, err := NewProducer(Config{Brokers: []string{"localhost:9092"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	w1 := p.getOrCreateWriter("finance.events")
	w2 := p.getOrCreateWriter("finance.events")
	if w1 != w2 {
		t.Error("expected same writer instance for same topic")
	}
	if _, ok := w1.Balancer.(*kafkago.Hash); !ok {
		t.Errorf("expected key hash balancer, got %T", w1.Balancer)
	}

	w3 := p.getOrCreateWriter("finance.audit")
	if w1 == w3 {
		t.Error("expected different writer instance for different topic")
	}
	if len(p.writers) != 2 {
		t.Errorf("expected 2 writers, got %d", len(p.writers))
	}
}

func TestPublishNoMessages(t *testing.T) {
	p, err := NewProducer(Config{Brokers: []string{"localhost:9092"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := p.Publish(context.Background(), "finance.events"); err != nil {
		t.Fatalf("expected nil error for empty publish, got %v", err)
	}
	if len(p.writers) != 0 {
		t.Error("expected no writer to be created for an empty publish")
	}
}

func TestProducerClose(t *testing.T) {
	p, err := NewProducer(Config{Brokers: []string{"localhost:9092"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_ = p.getOrCreateWriter("topic-a")
	_ = p.getOrCreateWriter("topic-b")

	if err := p.Close(); err != nil {
		t.Fatalf("unexpected error on close: %v", err)
	}
	if len(p.writers) != 0 {
		t.Errorf("expected 0 writers after close, got %d", len(p.writers))
	}
}

func TestToMessage(t *testing.T) {
	msg := toMessage(kafkago.Message{
		Key:   []byte("42"),
		Value: []byte(`{"amount":"100"}`),
		Headers: []kafkago.Header{
			{Key: "event-type", Value: []byte("finance.debt.originated")},
		},
	})

	if string(msg.Key) != "42" {
		t.Errorf("expected key 42, got %s", msg.Key)
	}
	if msg.Headers["event-type"] != "finance.debt.originated" {
		t.Errorf("unexpected event-type header: %s", msg.Headers["event-type"])
	}
}

func TestConfigEnabled(t *testing.T) {
	if (Config{}).Enabled() {
		t.Error("expected empty config to be disabled")
	}
	if !(Config{Brokers: []string{"kafka:9092"}}).Enabled() {
		t.Error("expected config with brokers to be enabled")
	}
}
