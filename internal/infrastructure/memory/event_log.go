package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/cashflowgame/finance-service/internal/domain/event"
)

// EventLog implements port.EventLog by keeping events in memory and logging
// each one. It is the event log used when no Kafka brokers are configured.
type EventLog struct {
	mu     sync.Mutex
	logger *slog.Logger
	events []event.DomainEvent
}

func NewEventLog(logger *slog.Logger) *EventLog {
	if logger == nil {
		logger = slog.Default()
	}
	return &EventLog{logger: logger}
}

func (l *EventLog) Append(ctx context.Context, evts ...event.DomainEvent) error {
	for _, evt := range evts {
		payload, err := json.Marshal(evt)
		if err != nil {
			return fmt.Errorf("marshal event %s: %w", evt.EventType(), err)
		}
		l.logger.InfoContext(ctx, "financial event",
			"event_type", evt.EventType(),
			"aggregate_id", evt.AggregateID(),
			"session_id", evt.SessionID(),
			"payload_size", len(payload),
		)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, evts...)
	return nil
}

// Events returns everything appended so far, oldest first.
func (l *EventLog) Events() []event.DomainEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.events)
}
