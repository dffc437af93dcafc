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

// CalculateCreditScoreUseCase scores a player, serving cached scores when
// the cache holds one.
type CalculateCreditScoreUseCase struct {
	players port.PlayerRepository
	debts   port.DebtRepository
	scoring *service.CreditScoring
	cache   port.CreditScoreCache
	inst    Instrumentation
}

// NewCalculateCreditScoreUseCase wires dependencies. A nil cache disables
// caching.
func NewCalculateCreditScoreUseCase(
	players port.PlayerRepository,
	debts port.DebtRepository,
	scoring *service.CreditScoring,
	cache port.CreditScoreCache,
	inst Instrumentation,
) *CalculateCreditScoreUseCase {
	if cache == nil {
		cache = port.NoopCreditScoreCache{}
	}
	return &CalculateCreditScoreUseCase{
		players: players,
		debts:   debts,
		scoring: scoring,
		cache:   cache,
		inst:    inst.withDefaults(),
	}
}

// Execute never fails. Unknown players and read failures get the floor
// score of 300.
func (uc *CalculateCreditScoreUseCase) Execute(ctx context.Context, playerID int64) dto.CreditScoreResponse {
	start := time.Now()
	now := uc.inst.Now()
	log := uc.inst.Logger.With("player_id", playerID)

	cached, ok, err := uc.cache.Get(ctx, playerID)
	if err != nil {
		log.WarnContext(ctx, "read credit score cache", "error", err)
	}
	if ok {
		uc.inst.record(ctx, opCalculateCreditScore, port.OutcomeSuccess, start)
		return toCreditScoreResponse(cached)
	}

	player, err := uc.players.FindByID(ctx, playerID)
	if err != nil {
		outcome := port.OutcomeNotFound
		if !errors.Is(err, model.ErrPlayerNotFound) {
			outcome = port.OutcomeError
			log.ErrorContext(ctx, "find player for credit score", "error", err)
		}
		uc.inst.record(ctx, opCalculateCreditScore, outcome, start)
		return toCreditScoreResponse(model.FloorCreditScore(playerID, now))
	}

	debts, err := uc.debts.FindByPlayerID(ctx, playerID)
	if err != nil {
		log.ErrorContext(ctx, "find debts for credit score", "error", err)
		uc.inst.record(ctx, opCalculateCreditScore, port.OutcomeError, start)
		return toCreditScoreResponse(model.FloorCreditScore(playerID, now))
	}

	score := uc.scoring.Score(service.CreditProfile{
		PlayerID: playerID,
		Account:  player.Account,
		Debts:    debts,
	}, now)

	if err := uc.cache.Set(ctx, score); err != nil {
		log.WarnContext(ctx, "write credit score cache", "error", err)
	}
	uc.inst.record(ctx, opCalculateCreditScore, port.OutcomeSuccess, start)
	return toCreditScoreResponse(score)
}
