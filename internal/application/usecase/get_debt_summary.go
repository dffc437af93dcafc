package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/cashflowgame/finance-service/internal/application/dto"
	"github.com/cashflowgame/finance-service/internal/domain/model"
	"github.com/cashflowgame/finance-service/internal/domain/port"
	"github.com/cashflowgame/finance-service/internal/domain/service"
)

// GetDebtSummaryUseCase aggregates a player's active debts.
type GetDebtSummaryUseCase struct {
	players  port.PlayerRepository
	debts    port.DebtRepository
	analyzer *service.PortfolioAnalyzer
	inst     Instrumentation
}

// NewGetDebtSummaryUseCase wires dependencies.
func NewGetDebtSummaryUseCase(
	players port.PlayerRepository,
	debts port.DebtRepository,
	analyzer *service.PortfolioAnalyzer,
	inst Instrumentation,
) *GetDebtSummaryUseCase {
	return &GetDebtSummaryUseCase{players: players, debts: debts, analyzer: analyzer, inst: inst.withDefaults()}
}

// Execute returns nil when the player does not exist or the read fails.
func (uc *GetDebtSummaryUseCase) Execute(ctx context.Context, playerID int64) *dto.DebtSummaryResponse {
	start := time.Now()

	player, err := uc.players.FindByID(ctx, playerID)
	if errors.Is(err, model.ErrPlayerNotFound) {
		uc.inst.record(ctx, opGetDebtSummary, port.OutcomeNotFound, start)
		return nil
	}
	if err != nil {
		uc.inst.Logger.ErrorContext(ctx, "find player for debt summary", "player_id", playerID, "error", err)
		uc.inst.record(ctx, opGetDebtSummary, port.OutcomeError, start)
		return nil
	}

	debts, err := uc.debts.FindByPlayerID(ctx, playerID)
	if err != nil {
		uc.inst.Logger.ErrorContext(ctx, "find debts for debt summary", "player_id", playerID, "error", err)
		uc.inst.record(ctx, opGetDebtSummary, port.OutcomeError, start)
		return nil
	}

	summary := uc.analyzer.Summarize(player, debts, uc.inst.Now())
	uc.inst.record(ctx, opGetDebtSummary, port.OutcomeSuccess, start)
	return toDebtSummaryResponse(summary)
}
