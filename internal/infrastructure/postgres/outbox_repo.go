package postgres

import (
	"context"
	"fmt"

	"github.com/cashflowgame/finance-service/pkg/events"
	pkgpostgres "github.com/cashflowgame/finance-service/pkg/postgres"
)

// OutboxRepo implements events.OutboxRepository over the financial_events table.
type OutboxRepo struct {
	q pkgpostgres.Querier
}

func NewOutboxRepo(q pkgpostgres.Querier) *OutboxRepo {
	return &OutboxRepo{q: q}
}

func (r *OutboxRepo) Store(ctx context.Context, entries []events.OutboxEntry) error {
	query := `
		INSERT INTO financial_events (id, aggregate_id, aggregate_type, event_type, session_id, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	for _, e := range entries {
		if _, err := r.q.Exec(ctx, query,
			e.ID, e.AggregateID, e.AggregateType, e.EventType, e.SessionID, e.Payload, e.CreatedAt,
		); err != nil {
			return fmt.Errorf("store outbox entry %s: %w", e.EventType, err)
		}
	}
	return nil
}

// ListByAggregate returns up to limit entries for one aggregate, oldest first.
func (r *OutboxRepo) ListByAggregate(ctx context.Context, aggregateID string, limit int) ([]events.OutboxEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, aggregate_id, aggregate_type, event_type, session_id, payload, created_at, published_at
		FROM financial_events
		WHERE aggregate_id = $1
		ORDER BY created_at, id
		LIMIT $2
	`, aggregateID, limit)
	if err != nil {
		return nil, fmt.Errorf("query outbox: %w", err)
	}
	defer rows.Close()

	var out []events.OutboxEntry
	for rows.Next() {
		var e events.OutboxEntry
		if err := rows.Scan(
			&e.ID, &e.AggregateID, &e.AggregateType, &e.EventType, &e.SessionID,
			&e.Payload, &e.CreatedAt, &e.PublishedAt,
		); err != nil {
			return nil, fmt.Errorf("scan outbox entry: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
