package usecase

import (
	"context"
	"time"

	"github.com/cashflowgame/finance-service/internal/application/dto"
	"github.com/cashflowgame/finance-service/internal/domain/port"
)

// GetPlayerDebtsUseCase lists a player's debts by due date.
type GetPlayerDebtsUseCase struct {
	debts port.DebtRepository
	inst  Instrumentation
}

// NewGetPlayerDebtsUseCase wires dependencies.
func NewGetPlayerDebtsUseCase(debts port.DebtRepository, inst Instrumentation) *GetPlayerDebtsUseCase {
	return &GetPlayerDebtsUseCase{debts: debts, inst: inst.withDefaults()}
}

// Execute returns every debt, paid off included, unless ActiveOnly is set.
// Read failures are logged and yield an empty list.
func (uc *GetPlayerDebtsUseCase) Execute(ctx context.Context, req dto.GetPlayerDebtsRequest) []dto.DebtResponse {
	start := time.Now()

	debts, err := uc.debts.FindByPlayerID(ctx, req.PlayerID)
	if err != nil {
		uc.inst.Logger.ErrorContext(ctx, "find player debts", "player_id", req.PlayerID, "error", err)
		uc.inst.record(ctx, opGetPlayerDebts, port.OutcomeError, start)
		return []dto.DebtResponse{}
	}

	now := uc.inst.Now()
	out := make([]dto.DebtResponse, 0, len(debts))
	for _, d := range debts {
		if req.ActiveOnly && d.IsPaidOff() {
			continue
		}
		out = append(out, toDebtResponse(d, now, req.IncludeSchedule))
	}
	uc.inst.record(ctx, opGetPlayerDebts, port.OutcomeSuccess, start)
	return out
}
