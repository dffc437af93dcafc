package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cashflowgame/finance-service/internal/domain/event"
	"github.com/cashflowgame/finance-service/internal/domain/valueobject"
	"github.com/cashflowgame/finance-service/pkg/money"
)

// ---------------------------------------------------------------------------
// Debt aggregate root
// ---------------------------------------------------------------------------

// Debt is an immutable aggregate. Transitions return a new copy.
//
// The balance only moves down, stays within [0, originalAmount], and reaches
// zero exactly when the debt is paid off. Paid-off debts are kept as credit
// history and never deleted.
type Debt struct {
	id              string
	playerID        int64
	sessionID       string
	debtType        valueobject.DebtType
	originalAmount  decimal.Decimal
	currentBalance  decimal.Decimal
	interestRate    decimal.Decimal
	monthlyPayment  decimal.Decimal
	termMonths      int
	dueDate         time.Time
	lastPaymentDate *time.Time
	isPaidOff       bool
	purpose         string
	collateralRef   string
	version         int
	createdAt       time.Time
	updatedAt       time.Time
	domainEvents    []event.DomainEvent
}

// Origination carries the approved terms of a new debt.
type Origination struct {
	PlayerID      int64
	SessionID     string
	Type          valueobject.DebtType
	Principal     decimal.Decimal
	AnnualRatePct decimal.Decimal
	TermMonths    int
	Purpose       string
	CollateralRef string
}

// PaymentSplit is how one payment divides between interest and principal.
type PaymentSplit struct {
	MonthlyInterest decimal.Decimal
	InterestPaid    decimal.Decimal
	PrincipalPaid   decimal.Decimal
	EarlySavings    decimal.Decimal
	FullPayoff      bool
}

// ---------------------------------------------------------------------------
// Constructors
// ---------------------------------------------------------------------------

// NewDebt amortizes an approved loan and returns the resulting debt together
// with its terms. The first installment is due on the first day of next month.
func NewDebt(o Origination, now time.Time) (Debt, LoanTerms, error) {
	if o.PlayerID <= 0 {
		return Debt{}, LoanTerms{}, errors.New("player ID is required")
	}
	if o.Type.IsZero() {
		return Debt{}, LoanTerms{}, errors.New("debt type is required")
	}
	if !o.Principal.IsPositive() {
		return Debt{}, LoanTerms{}, ErrInvalidAmount
	}
	if o.AnnualRatePct.IsNegative() {
		return Debt{}, LoanTerms{}, errors.New("interest rate must not be negative")
	}
	if o.TermMonths <= 0 {
		return Debt{}, LoanTerms{}, errors.New("term months must be positive")
	}

	terms := ComputeLoanTerms(o.Principal, o.AnnualRatePct, o.TermMonths, now)
	id := uuid.New().String()

	d := Debt{
		id:             id,
		playerID:       o.PlayerID,
		sessionID:      o.SessionID,
		debtType:       o.Type,
		originalAmount: o.Principal,
		currentBalance: o.Principal,
		interestRate:   o.AnnualRatePct,
		monthlyPayment: terms.MonthlyPayment,
		termMonths:     o.TermMonths,
		dueDate:        terms.FirstDueDate,
		purpose:        o.Purpose,
		collateralRef:  o.CollateralRef,
		version:        1,
		createdAt:      now,
		updatedAt:      now,
	}
	d.domainEvents = append(d.domainEvents, event.NewDebtOriginated(
		id, o.SessionID, o.PlayerID, o.Type.String(),
		o.Principal, o.AnnualRatePct, terms.MonthlyPayment,
		o.TermMonths, terms.FirstDueDate, o.Purpose, now,
	))

	return d, terms, nil
}

// DebtSnapshot is the persisted form of a Debt.
type DebtSnapshot struct {
	ID              string
	PlayerID        int64
	SessionID       string
	Type            valueobject.DebtType
	OriginalAmount  decimal.Decimal
	CurrentBalance  decimal.Decimal
	InterestRate    decimal.Decimal
	MonthlyPayment  decimal.Decimal
	TermMonths      int
	DueDate         time.Time
	LastPaymentDate *time.Time
	IsPaidOff       bool
	Purpose         string
	CollateralRef   string
	Version         int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ReconstructDebt rebuilds a Debt aggregate from persistence.
func ReconstructDebt(s DebtSnapshot) Debt {
	return Debt{
		id:              s.ID,
		playerID:        s.PlayerID,
		sessionID:       s.SessionID,
		debtType:        s.Type,
		originalAmount:  s.OriginalAmount,
		currentBalance:  s.CurrentBalance,
		interestRate:    s.InterestRate,
		monthlyPayment:  s.MonthlyPayment,
		termMonths:      s.TermMonths,
		dueDate:         s.DueDate,
		lastPaymentDate: s.LastPaymentDate,
		isPaidOff:       s.IsPaidOff,
		purpose:         s.Purpose,
		collateralRef:   s.CollateralRef,
		version:         s.Version,
		createdAt:       s.CreatedAt,
		updatedAt:       s.UpdatedAt,
	}
}

// Snapshot exports the aggregate's state for persistence.
func (d Debt) Snapshot() DebtSnapshot {
	return DebtSnapshot{
		ID:              d.id,
		PlayerID:        d.playerID,
		SessionID:       d.sessionID,
		Type:            d.debtType,
		OriginalAmount:  d.originalAmount,
		CurrentBalance:  d.currentBalance,
		InterestRate:    d.interestRate,
		MonthlyPayment:  d.monthlyPayment,
		TermMonths:      d.termMonths,
		DueDate:         d.dueDate,
		LastPaymentDate: d.lastPaymentDate,
		IsPaidOff:       d.isPaidOff,
		Purpose:         d.purpose,
		CollateralRef:   d.collateralRef,
		Version:         d.version,
		CreatedAt:       d.createdAt,
		UpdatedAt:       d.updatedAt,
	}
}

// ---------------------------------------------------------------------------
// Payment math
// ---------------------------------------------------------------------------

// MonthlyInterest is one billing period of interest on the current balance.
func (d Debt) MonthlyInterest() decimal.Decimal {
	return MonthlyInterest(d.currentBalance, d.interestRate)
}

// RemainingInterest projects the interest left if the installment schedule
// is followed from the current balance.
func (d Debt) RemainingInterest() decimal.Decimal {
	return RemainingInterest(d.currentBalance, d.monthlyPayment, d.interestRate)
}

// PayoffTimelineMonths estimates installments left on the current balance.
func (d Debt) PayoffTimelineMonths() int {
	return PayoffTimelineMonths(d.currentBalance, d.monthlyPayment, d.interestRate)
}

// SplitPayment divides amount into interest and principal for one billing
// period. Paying at least the balance settles the debt: one period of interest
// is charged and the interest that would have accrued afterwards is reported
// as early savings. A payment that does not exceed the period's interest is
// all interest.
func (d Debt) SplitPayment(amount decimal.Decimal) PaymentSplit {
	interest := d.MonthlyInterest()

	switch {
	case amount.GreaterThanOrEqual(d.currentBalance):
		return PaymentSplit{
			MonthlyInterest: interest,
			InterestPaid:    interest,
			PrincipalPaid:   money.NonNegative(d.currentBalance.Sub(interest)),
			EarlySavings:    money.NonNegative(d.RemainingInterest().Sub(interest)),
			FullPayoff:      true,
		}
	case amount.GreaterThan(interest):
		return PaymentSplit{
			MonthlyInterest: interest,
			InterestPaid:    interest,
			PrincipalPaid:   amount.Sub(interest),
		}
	default:
		return PaymentSplit{
			MonthlyInterest: interest,
			InterestPaid:    amount,
			PrincipalPaid:   decimal.Zero,
		}
	}
}

// ---------------------------------------------------------------------------
// State transitions
// ---------------------------------------------------------------------------

// ApplyPayment records a payment against the debt. A payment of at least one
// installment on a debt that stays open moves the due date forward a month.
// The monthly payment itself never changes.
func (d Debt) ApplyPayment(
	amount decimal.Decimal,
	paymentType valueobject.PaymentType,
	source valueobject.FundingSource,
	now time.Time,
) (Debt, PaymentSplit, error) {
	if d.isPaidOff {
		return d, PaymentSplit{}, ErrDebtPaidOff
	}
	if !amount.IsPositive() {
		return d, PaymentSplit{}, ErrInvalidAmount
	}

	split := d.SplitPayment(amount)

	next := d
	next.currentBalance = money.NonNegative(d.currentBalance.Sub(split.PrincipalPaid))
	if split.FullPayoff {
		next.currentBalance = decimal.Zero
	}
	next.isPaidOff = next.currentBalance.IsZero()
	paidAt := now
	next.lastPaymentDate = &paidAt
	if !next.isPaidOff && amount.GreaterThanOrEqual(d.monthlyPayment) {
		next.dueDate = d.dueDate.AddDate(0, 1, 0)
	}
	next.updatedAt = now

	next.domainEvents = copyEvents(d.domainEvents)
	next.domainEvents = append(next.domainEvents, event.NewPaymentApplied(
		d.id, d.sessionID, d.playerID, paymentType.String(), source.String(),
		amount, split.PrincipalPaid, split.InterestPaid, next.currentBalance,
		next.dueDate, now,
	))
	if next.isPaidOff {
		next.domainEvents = append(next.domainEvents, event.NewDebtPaidOff(
			d.id, d.sessionID, d.playerID, d.originalAmount, split.EarlySavings, now,
		))
	}

	return next, split, nil
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

func (d Debt) ID() string                        { return d.id }
func (d Debt) PlayerID() int64                   { return d.playerID }
func (d Debt) SessionID() string                 { return d.sessionID }
func (d Debt) Type() valueobject.DebtType        { return d.debtType }
func (d Debt) OriginalAmount() decimal.Decimal   { return d.originalAmount }
func (d Debt) CurrentBalance() decimal.Decimal   { return d.currentBalance }
func (d Debt) InterestRate() decimal.Decimal     { return d.interestRate }
func (d Debt) MonthlyPayment() decimal.Decimal   { return d.monthlyPayment }
func (d Debt) TermMonths() int                   { return d.termMonths }
func (d Debt) DueDate() time.Time                { return d.dueDate }
func (d Debt) LastPaymentDate() *time.Time       { return d.lastPaymentDate }
func (d Debt) IsPaidOff() bool                   { return d.isPaidOff }
func (d Debt) Purpose() string                   { return d.purpose }
func (d Debt) CollateralRef() string             { return d.collateralRef }
func (d Debt) Version() int                      { return d.version }
func (d Debt) CreatedAt() time.Time              { return d.createdAt }
func (d Debt) UpdatedAt() time.Time              { return d.updatedAt }
func (d Debt) DomainEvents() []event.DomainEvent { return d.domainEvents }

// IsOverdue reports whether an open debt's due date has passed.
func (d Debt) IsOverdue(now time.Time) bool {
	return !d.isPaidOff && d.dueDate.Before(now)
}

// ClearEvents returns a copy with an empty event list.
func (d Debt) ClearEvents() Debt {
	next := d
	next.domainEvents = nil
	return next
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func copyEvents(src []event.DomainEvent) []event.DomainEvent {
	if len(src) == 0 {
		return nil
	}
	dst := make([]event.DomainEvent, len(src))
	copy(dst, src)
	return dst
}

// ActiveDebts filters out paid-off debts, preserving order.
func ActiveDebts(debts []Debt) []Debt {
	active := make([]Debt, 0, len(debts))
	for _, d := range debts {
		if !d.IsPaidOff() {
			active = append(active, d)
		}
	}
	return active
}
