package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cashflowgame/finance-service/internal/application/dto"
	"github.com/cashflowgame/finance-service/internal/domain/event"
	"github.com/cashflowgame/finance-service/internal/domain/model"
	"github.com/cashflowgame/finance-service/internal/domain/port"
	"github.com/cashflowgame/finance-service/internal/domain/service"
	"github.com/cashflowgame/finance-service/internal/domain/valueobject"
	"github.com/cashflowgame/finance-service/pkg/money"
)

// ApplyForLoanUseCase underwrites a loan application and, on approval,
// originates the debt and credits the player's cash in one unit of work.
type ApplyForLoanUseCase struct {
	uow         port.UnitOfWork
	underwriter *service.Underwriter
	eventLog    port.EventLog
	cache       port.CreditScoreCache
	inst        Instrumentation
}

// NewApplyForLoanUseCase wires dependencies.
func NewApplyForLoanUseCase(
	uow port.UnitOfWork,
	underwriter *service.Underwriter,
	eventLog port.EventLog,
	cache port.CreditScoreCache,
	inst Instrumentation,
) *ApplyForLoanUseCase {
	if eventLog == nil {
		eventLog = port.NoopEventLog{}
	}
	if cache == nil {
		cache = port.NoopCreditScoreCache{}
	}
	return &ApplyForLoanUseCase{
		uow:         uow,
		underwriter: underwriter,
		eventLog:    eventLog,
		cache:       cache,
		inst:        inst.withDefaults(),
	}
}

// Execute never returns an error: ineligible and failed applications come
// back with Success false and a reason.
func (uc *ApplyForLoanUseCase) Execute(ctx context.Context, req dto.ApplyForLoanRequest) dto.LoanApprovalResponse {
	start := time.Now()
	now := uc.inst.Now()
	log := uc.inst.Logger.With("player_id", req.PlayerID, "loan_type", req.LoanType)
	req.Amount = money.Cents(req.Amount)

	app := model.LoanApplication{
		PlayerID:      req.PlayerID,
		RequestedType: req.LoanType,
		Amount:        req.Amount,
		Purpose:       req.Purpose,
		CollateralRef: req.CollateralRef,
		TermMonths:    req.TermMonths,
	}
	if err := app.Validate(); err != nil {
		uc.inst.record(ctx, opApplyForLoan, port.OutcomeRejected, start)
		return dto.LoanApprovalResponse{Message: err.Error()}
	}

	var (
		decision service.UnderwritingDecision
		debt     model.Debt
		terms    model.LoanTerms
		account  model.PlayerAccount
		session  string
	)
	err := uc.uow.Execute(ctx, func(ctx context.Context, repos port.Repositories) error {
		player, err := repos.Players.FindByID(ctx, req.PlayerID)
		if err != nil {
			return fmt.Errorf("find player: %w", err)
		}
		session = player.SessionID

		acct, err := repos.Players.LockAccount(ctx, req.PlayerID)
		if err != nil {
			return fmt.Errorf("lock account: %w", err)
		}
		debts, err := repos.Debts.FindByPlayerID(ctx, req.PlayerID)
		if err != nil {
			return fmt.Errorf("find debts: %w", err)
		}

		decision = uc.underwriter.Evaluate(service.UnderwritingInput{
			Application: app,
			Account:     acct,
			ActiveDebts: debts,
		})
		if !decision.Approved {
			return nil
		}

		debt, terms, err = model.NewDebt(model.Origination{
			PlayerID:      req.PlayerID,
			SessionID:     player.SessionID,
			Type:          decision.DebtType,
			Principal:     req.Amount,
			AnnualRatePct: decision.InterestRate,
			TermMonths:    decision.TermMonths,
			Purpose:       req.Purpose,
			CollateralRef: req.CollateralRef,
		}, now)
		if err != nil {
			return fmt.Errorf("originate debt: %w", err)
		}
		if err := repos.Debts.Save(ctx, debt); err != nil {
			return fmt.Errorf("save debt: %w", err)
		}

		account, err = repos.Players.AdjustAccount(ctx, req.PlayerID, valueobject.FundingSourceCash, req.Amount)
		if err != nil {
			return fmt.Errorf("credit cash: %w", err)
		}
		return nil
	})

	switch {
	case errors.Is(err, model.ErrPlayerNotFound):
		uc.inst.record(ctx, opApplyForLoan, port.OutcomeNotFound, start)
		return dto.LoanApprovalResponse{Message: model.ErrPlayerNotFound.Error()}
	case err != nil:
		log.ErrorContext(ctx, "loan application failed", "error", err)
		uc.inst.record(ctx, opApplyForLoan, port.OutcomeError, start)
		return dto.LoanApprovalResponse{Message: genericErrorMessage}
	}

	if !decision.Approved {
		log.InfoContext(ctx, "loan application rejected", "reason", decision.Reason)
		uc.inst.appendEvents(ctx, uc.eventLog, event.NewLoanApplicationRejected(
			session, req.PlayerID, req.LoanType, req.Amount, decision.Reason, now,
		))
		uc.inst.record(ctx, opApplyForLoan, port.OutcomeRejected, start)
		return dto.LoanApprovalResponse{Message: decision.Reason}
	}

	if decision.TypeFallback {
		log.WarnContext(ctx, "unknown loan type, originated as personal", "debt_id", debt.ID())
	}
	uc.inst.appendEvents(ctx, uc.eventLog, debt.DomainEvents()...)
	if err := uc.cache.Invalidate(ctx, req.PlayerID); err != nil {
		log.WarnContext(ctx, "invalidate credit score cache", "error", err)
	}

	log.InfoContext(ctx, "loan originated",
		"debt_id", debt.ID(),
		"amount", req.Amount.String(),
		"rate", decision.InterestRate.String(),
		"term_months", terms.TermMonths,
	)
	uc.inst.record(ctx, opApplyForLoan, port.OutcomeSuccess, start)

	due := terms.FirstDueDate
	return dto.LoanApprovalResponse{
		Success:        true,
		Message:        "loan approved",
		DebtID:         debt.ID(),
		LoanType:       debt.Type().String(),
		InterestRate:   debt.InterestRate(),
		MonthlyPayment: terms.MonthlyPayment,
		TermMonths:     terms.TermMonths,
		TotalPayments:  terms.TotalPayments,
		TotalInterest:  terms.TotalInterest,
		DueDate:        &due,
		NewCashBalance: account.Cash,
	}
}
