package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/cashflowgame/finance-service/internal/domain/event"
	pkgkafka "github.com/cashflowgame/finance-service/pkg/kafka"
)

// Publisher is the subset of pkgkafka.Producer the event log needs.
type Publisher interface {
	Publish(ctx context.Context, topic string, messages ...pkgkafka.Message) error
}

// EventLog implements port.EventLog by writing events to a Kafka topic, keyed
// by aggregate id so each debt's history stays ordered within a partition.
type EventLog struct {
	publisher Publisher
	topic     string
	logger    *slog.Logger
}

// NewEventLog creates an event log targeting the given publisher and topic.
func NewEventLog(publisher Publisher, topic string, logger *slog.Logger) *EventLog {
	if logger == nil {
		logger = slog.Default()
	}
	return &EventLog{
		publisher: publisher,
		topic:     topic,
		logger:    logger,
	}
}

// Append serialises and sends domain events to Kafka.
func (l *EventLog) Append(ctx context.Context, events ...event.DomainEvent) error {
	messages := make([]pkgkafka.Message, 0, len(events))
	for _, evt := range events {
		payload, err := json.Marshal(evt)
		if err != nil {
			return fmt.Errorf("marshal event %s: %w", evt.EventType(), err)
		}

		l.logger.DebugContext(ctx, "publishing financial event",
			"event_type", evt.EventType(),
			"aggregate_id", evt.AggregateID(),
			"session_id", evt.SessionID(),
			"topic", l.topic,
			"payload_size", len(payload),
		)

		messages = append(messages, pkgkafka.Message{
			Key:   []byte(evt.AggregateID()),
			Value: payload,
			Headers: map[string]string{
				"event_type":     evt.EventType(),
				"event_id":       evt.EventID(),
				"aggregate_type": evt.AggregateType(),
				"session_id":     evt.SessionID(),
			},
		})
	}

	if len(messages) == 0 {
		return nil
	}

	if err := l.publisher.Publish(ctx, l.topic, messages...); err != nil {
		return fmt.Errorf("failed to publish events to topic %s: %w", l.topic, err)
	}
	return nil
}
