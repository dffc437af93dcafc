package usecase

import (
	"context"
	"time"

	"github.com/cashflowgame/finance-service/internal/application/dto"
	"github.com/cashflowgame/finance-service/internal/domain/port"
	"github.com/cashflowgame/finance-service/internal/domain/service"
)

// CalculatePayoffStrategyUseCase compares snowball and avalanche plans for a
// player's active debts.
type CalculatePayoffStrategyUseCase struct {
	debts   port.DebtRepository
	planner *service.PayoffPlanner
	inst    Instrumentation
}

// NewCalculatePayoffStrategyUseCase wires dependencies.
func NewCalculatePayoffStrategyUseCase(
	debts port.DebtRepository,
	planner *service.PayoffPlanner,
	inst Instrumentation,
) *CalculatePayoffStrategyUseCase {
	return &CalculatePayoffStrategyUseCase{debts: debts, planner: planner, inst: inst.withDefaults()}
}

// Execute never fails; a read failure yields the empty comparison.
func (uc *CalculatePayoffStrategyUseCase) Execute(ctx context.Context, playerID int64) dto.PayoffStrategyResponse {
	start := time.Now()

	debts, err := uc.debts.FindByPlayerID(ctx, playerID)
	if err != nil {
		uc.inst.Logger.ErrorContext(ctx, "find debts for payoff strategy", "player_id", playerID, "error", err)
		uc.inst.record(ctx, opCalculatePayoffStrategy, port.OutcomeError, start)
		return toPayoffStrategyResponse(uc.planner.Compare(playerID, nil))
	}

	cmp := uc.planner.Compare(playerID, debts)
	uc.inst.record(ctx, opCalculatePayoffStrategy, port.OutcomeSuccess, start)
	return toPayoffStrategyResponse(cmp)
}
