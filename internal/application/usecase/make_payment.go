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
	"github.com/cashflowgame/finance-service/internal/domain/valueobject"
	"github.com/cashflowgame/finance-service/pkg/money"
)

// MakePaymentUseCase pays toward a debt from a player's cash or savings. The
// debt update and the account debit commit together.
type MakePaymentUseCase struct {
	uow       port.UnitOfWork
	processor *service.PaymentProcessor
	eventLog  port.EventLog
	cache     port.CreditScoreCache
	inst      Instrumentation
}

// NewMakePaymentUseCase wires dependencies.
func NewMakePaymentUseCase(
	uow port.UnitOfWork,
	processor *service.PaymentProcessor,
	eventLog port.EventLog,
	cache port.CreditScoreCache,
	inst Instrumentation,
) *MakePaymentUseCase {
	if eventLog == nil {
		eventLog = port.NoopEventLog{}
	}
	if cache == nil {
		cache = port.NoopCreditScoreCache{}
	}
	return &MakePaymentUseCase{
		uow:       uow,
		processor: processor,
		eventLog:  eventLog,
		cache:     cache,
		inst:      inst.withDefaults(),
	}
}

// Execute never returns an error; failures come back with Success false.
func (uc *MakePaymentUseCase) Execute(ctx context.Context, req dto.MakePaymentRequest) dto.PaymentResultResponse {
	start := time.Now()
	now := uc.inst.Now()
	log := uc.inst.Logger.With("player_id", req.PlayerID, "debt_id", req.DebtID)
	req.Amount = money.Cents(req.Amount)

	reject := func(outcome, msg string) dto.PaymentResultResponse {
		uc.inst.record(ctx, opMakePayment, outcome, start)
		return dto.PaymentResultResponse{Message: msg, DebtID: req.DebtID}
	}

	if !req.Amount.IsPositive() {
		return reject(port.OutcomeRejected, model.ErrInvalidAmount.Error())
	}
	source, err := valueobject.NewFundingSource(req.FromAccount)
	if err != nil {
		return reject(port.OutcomeRejected, err.Error())
	}
	paymentType, err := valueobject.NewPaymentType(req.PaymentType)
	if err != nil {
		return reject(port.OutcomeRejected, err.Error())
	}

	var out service.PaymentOutcome
	err = uc.uow.Execute(ctx, func(ctx context.Context, repos port.Repositories) error {
		debt, err := repos.Debts.FindByIDForUpdate(ctx, req.DebtID)
		if err != nil {
			return fmt.Errorf("find debt: %w", err)
		}
		acct, err := repos.Players.LockAccount(ctx, req.PlayerID)
		if err != nil {
			return fmt.Errorf("lock account: %w", err)
		}

		out, err = uc.processor.Process(debt, acct, service.PaymentInstruction{
			PlayerID: req.PlayerID,
			Amount:   req.Amount,
			Type:     paymentType,
			Source:   source,
		}, now)
		if err != nil {
			return err
		}

		if err := repos.Debts.Save(ctx, out.Debt); err != nil {
			return fmt.Errorf("save debt: %w", err)
		}
		out.Account, err = repos.Players.AdjustAccount(ctx, req.PlayerID, source, req.Amount.Neg())
		if err != nil {
			return fmt.Errorf("debit %s: %w", source, err)
		}
		return nil
	})

	switch {
	case errors.Is(err, model.ErrDebtNotFound), errors.Is(err, model.ErrPlayerNotFound):
		return reject(port.OutcomeNotFound, model.ErrDebtNotFound.Error())
	case errors.Is(err, model.ErrDebtPaidOff):
		return reject(port.OutcomeRejected, model.ErrDebtPaidOff.Error())
	case errors.Is(err, model.ErrInsufficientFunds):
		return reject(port.OutcomeRejected, fmt.Sprintf("insufficient funds in %s account", source))
	case errors.Is(err, model.ErrInvalidAmount):
		return reject(port.OutcomeRejected, err.Error())
	case err != nil:
		log.ErrorContext(ctx, "payment failed", "error", err)
		return reject(port.OutcomeError, genericErrorMessage)
	}

	uc.inst.appendEvents(ctx, uc.eventLog, out.Debt.DomainEvents()...)
	if err := uc.cache.Invalidate(ctx, req.PlayerID); err != nil {
		log.WarnContext(ctx, "invalidate credit score cache", "error", err)
	}

	msg := "payment applied"
	if out.Debt.IsPaidOff() {
		msg = "debt paid off"
	}
	log.InfoContext(ctx, msg,
		"amount", req.Amount.String(),
		"principal", out.Split.PrincipalPaid.String(),
		"interest", out.Split.InterestPaid.String(),
		"payment_type", paymentType.String(),
	)
	uc.inst.record(ctx, opMakePayment, port.OutcomeSuccess, start)

	resp := dto.PaymentResultResponse{
		Success:            true,
		Message:            msg,
		DebtID:             out.Debt.ID(),
		AmountPaid:         req.Amount,
		PrincipalPaid:      out.Split.PrincipalPaid,
		InterestPaid:       out.Split.InterestPaid,
		NewBalance:         out.Debt.CurrentBalance(),
		IsPaidOff:          out.Debt.IsPaidOff(),
		FromAccount:        source.String(),
		NewAccountBalance:  out.Account.Balance(source),
		EarlyPayoffSavings: out.Split.EarlySavings,
	}
	if !out.Debt.IsPaidOff() {
		due := out.Debt.DueDate()
		resp.NextDueDate = &due
	}
	return resp
}
