package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cashflowgame/finance-service/internal/application/dto"
	"github.com/cashflowgame/finance-service/internal/domain/model"
	"github.com/cashflowgame/finance-service/internal/domain/port"
	"github.com/cashflowgame/finance-service/internal/domain/service"
)

// playerStateReader loads a player and their debts and computes the
// snapshot. It backs both state queries.
type playerStateReader struct {
	players port.PlayerRepository
	debts   port.DebtRepository
	calc    *service.FinancialState
}

func (r playerStateReader) read(ctx context.Context, playerID int64) (model.Player, model.PlayerState, error) {
	player, err := r.players.FindByID(ctx, playerID)
	if err != nil {
		return model.Player{}, model.PlayerState{}, fmt.Errorf("find player: %w", err)
	}
	debts, err := r.debts.FindByPlayerID(ctx, playerID)
	if err != nil {
		return model.Player{}, model.PlayerState{}, fmt.Errorf("find debts: %w", err)
	}
	return player, r.calc.Snapshot(player, debts), nil
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return port.OutcomeSuccess
	case errors.Is(err, model.ErrPlayerNotFound):
		return port.OutcomeNotFound
	default:
		return port.OutcomeError
	}
}

// GetPlayerStateUseCase returns a player's financial snapshot.
type GetPlayerStateUseCase struct {
	reader playerStateReader
	inst   Instrumentation
}

// NewGetPlayerStateUseCase wires dependencies.
func NewGetPlayerStateUseCase(
	players port.PlayerRepository,
	debts port.DebtRepository,
	calc *service.FinancialState,
	inst Instrumentation,
) *GetPlayerStateUseCase {
	return &GetPlayerStateUseCase{
		reader: playerStateReader{players: players, debts: debts, calc: calc},
		inst:   inst.withDefaults(),
	}
}

// Execute fails with an error wrapping model.ErrPlayerNotFound for unknown
// players.
func (uc *GetPlayerStateUseCase) Execute(ctx context.Context, playerID int64) (dto.PlayerStateResponse, error) {
	start := time.Now()

	_, state, err := uc.reader.read(ctx, playerID)
	uc.inst.record(ctx, opGetPlayerState, outcomeOf(err), start)
	if err != nil {
		if !errors.Is(err, model.ErrPlayerNotFound) {
			uc.inst.Logger.ErrorContext(ctx, "read player state", "player_id", playerID, "error", err)
		}
		return dto.PlayerStateResponse{}, err
	}
	return toPlayerStateResponse(state), nil
}

// CheckWinConditionUseCase reports whether a player reached financial freedom.
type CheckWinConditionUseCase struct {
	reader playerStateReader
	inst   Instrumentation
}

// NewCheckWinConditionUseCase wires dependencies.
func NewCheckWinConditionUseCase(
	players port.PlayerRepository,
	debts port.DebtRepository,
	calc *service.FinancialState,
	inst Instrumentation,
) *CheckWinConditionUseCase {
	return &CheckWinConditionUseCase{
		reader: playerStateReader{players: players, debts: debts, calc: calc},
		inst:   inst.withDefaults(),
	}
}

// Execute fails with an error wrapping model.ErrPlayerNotFound for unknown
// players.
func (uc *CheckWinConditionUseCase) Execute(ctx context.Context, playerID int64) (dto.WinConditionResponse, error) {
	start := time.Now()

	player, state, err := uc.reader.read(ctx, playerID)
	uc.inst.record(ctx, opCheckWinCondition, outcomeOf(err), start)
	if err != nil {
		if !errors.Is(err, model.ErrPlayerNotFound) {
			uc.inst.Logger.ErrorContext(ctx, "read player state for win check", "player_id", playerID, "error", err)
		}
		return dto.WinConditionResponse{}, err
	}

	win := uc.reader.calc.WinCondition(state, player)
	if win.HasWon {
		uc.inst.Logger.InfoContext(ctx, "player reached financial freedom",
			"player_id", playerID,
			"net_worth", win.NetWorth.String(),
			"monthly_cash_flow", win.MonthlyCashFlow.String(),
		)
	}
	return toWinConditionResponse(win), nil
}
