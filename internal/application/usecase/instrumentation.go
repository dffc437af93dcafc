package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/cashflowgame/finance-service/internal/domain/event"
	"github.com/cashflowgame/finance-service/internal/domain/port"
)

// genericErrorMessage is what callers see for failures they cannot act on.
const genericErrorMessage = "an unexpected error occurred, please try again later"

// Operation names reported to port.Metrics.
const (
	opApplyForLoan            = "apply_for_loan"
	opMakePayment             = "make_payment"
	opGetDebtSummary          = "get_debt_summary"
	opCalculateCreditScore    = "calculate_credit_score"
	opGetPlayerDebts          = "get_player_debts"
	opCalculatePayoffStrategy = "calculate_payoff_strategy"
	opGetPlayerState          = "get_player_state"
	opCheckWinCondition       = "check_win_condition"
)

// Instrumentation carries the logger, metrics sink and clock shared by every
// use case. Zero fields fall back to slog.Default, port.NoopMetrics and
// time.Now in UTC.
type Instrumentation struct {
	Logger  *slog.Logger
	Metrics port.Metrics
	Now     func() time.Time
}

func (in Instrumentation) withDefaults() Instrumentation {
	if in.Logger == nil {
		in.Logger = slog.Default()
	}
	if in.Metrics == nil {
		in.Metrics = port.NoopMetrics{}
	}
	if in.Now == nil {
		in.Now = func() time.Time { return time.Now().UTC() }
	}
	return in
}

func (in Instrumentation) record(ctx context.Context, operation, outcome string, start time.Time) {
	in.Metrics.RecordOperation(ctx, operation, outcome, time.Since(start))
}

// appendEvents writes committed events to the financial event log. Failures
// are logged and never reach the caller.
func (in Instrumentation) appendEvents(ctx context.Context, eventLog port.EventLog, evts ...event.DomainEvent) {
	if len(evts) == 0 {
		return
	}
	if err := eventLog.Append(ctx, evts...); err != nil {
		in.Logger.ErrorContext(ctx, "append financial events", "error", err, "event_count", len(evts))
		return
	}
	in.Logger.DebugContext(ctx, "financial events appended", "event_count", len(evts))
}
