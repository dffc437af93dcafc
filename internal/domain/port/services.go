package port

import (
	"context"
	"time"

	"github.com/cashflowgame/finance-service/internal/domain/event"
	"github.com/cashflowgame/finance-service/internal/domain/model"
)

// ---------------------------------------------------------------------------
// Financial event log port
// ---------------------------------------------------------------------------

// EventLog is the append-only record of loan and payment activity. Appends
// happen after the owning unit of work commits.
type EventLog interface {
	Append(ctx context.Context, events ...event.DomainEvent) error
}

// NoopEventLog discards every event.
type NoopEventLog struct{}

func (NoopEventLog) Append(context.Context, ...event.DomainEvent) error { return nil }

// ---------------------------------------------------------------------------
// Cache port
// ---------------------------------------------------------------------------

// CreditScoreCache stores computed credit scores per player.
type CreditScoreCache interface {
	Get(ctx context.Context, playerID int64) (model.CreditScore, bool, error)
	Set(ctx context.Context, score model.CreditScore) error
	Invalidate(ctx context.Context, playerID int64) error
}

// NoopCreditScoreCache never hits.
type NoopCreditScoreCache struct{}

func (NoopCreditScoreCache) Get(context.Context, int64) (model.CreditScore, bool, error) {
	return model.CreditScore{}, false, nil
}
func (NoopCreditScoreCache) Set(context.Context, model.CreditScore) error { return nil }
func (NoopCreditScoreCache) Invalidate(context.Context, int64) error      { return nil }

// ---------------------------------------------------------------------------
// Metrics port
// ---------------------------------------------------------------------------

// Operation outcomes reported to Metrics.
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

// Metrics records one observation per engine operation.
type Metrics interface {
	RecordOperation(ctx context.Context, operation, outcome string, elapsed time.Duration)
}

// NoopMetrics records nothing.
type NoopMetrics struct{}

func (NoopMetrics) RecordOperation(context.Context, string, string, time.Duration) {}
