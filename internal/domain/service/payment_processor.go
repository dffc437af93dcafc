package service

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/cashflowgame/finance-service/internal/domain/model"
	"github.com/cashflowgame/finance-service/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// PaymentProcessor – validation and settlement of a single payment
// ---------------------------------------------------------------------------

// PaymentInstruction is a validated request to pay amount toward a debt.
type PaymentInstruction struct {
	PlayerID int64
	Amount   decimal.Decimal
	Type     valueobject.PaymentType
	Source   valueobject.FundingSource
}

// PaymentOutcome is the state after a payment: the updated debt, how the
// amount was split, and the paying account after the debit.
type PaymentOutcome struct {
	Debt    model.Debt
	Split   model.PaymentSplit
	Account model.PlayerAccount
}

// PaymentProcessor settles payments. It is stateless.
type PaymentProcessor struct{}

// NewPaymentProcessor returns a payment processor.
func NewPaymentProcessor() *PaymentProcessor {
	return &PaymentProcessor{}
}

// Process checks, in order, that the amount is positive, the debt belongs to
// the player, the debt is open and the source account covers the amount. A
// debt owned by someone else is reported as model.ErrDebtNotFound.
func (p *PaymentProcessor) Process(
	debt model.Debt,
	account model.PlayerAccount,
	in PaymentInstruction,
	now time.Time,
) (PaymentOutcome, error) {
	if !in.Amount.IsPositive() {
		return PaymentOutcome{}, model.ErrInvalidAmount
	}
	if debt.PlayerID() != in.PlayerID {
		return PaymentOutcome{}, model.ErrDebtNotFound
	}
	if debt.IsPaidOff() {
		return PaymentOutcome{}, model.ErrDebtPaidOff
	}

	debited, err := account.Adjust(in.Source, in.Amount.Neg())
	if err != nil {
		return PaymentOutcome{}, err
	}

	next, split, err := debt.ApplyPayment(in.Amount, in.Type, in.Source, now)
	if err != nil {
		return PaymentOutcome{}, err
	}

	return PaymentOutcome{Debt: next, Split: split, Account: debited}, nil
}
