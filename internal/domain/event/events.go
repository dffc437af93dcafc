package event

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cashflowgame/finance-service/pkg/events"
)

// DomainEvent is an alias for the shared pkg/events.DomainEvent interface.
type DomainEvent = events.DomainEvent

// Event type names.
const (
	TypeDebtOriginated = "finance.debt.originated"
	TypePaymentApplied = "finance.debt.payment_applied"
	TypeDebtPaidOff    = "finance.debt.paid_off"
	TypeLoanRejected   = "finance.loan_application.rejected"
	aggregateDebt      = "Debt"
	aggregatePlayer    = "Player"
)

// ---------------------------------------------------------------------------
// Debt events
// ---------------------------------------------------------------------------

// DebtOriginated is raised when an approved loan becomes a debt.
type DebtOriginated struct {
	events.BaseEvent
	PlayerID       int64           `json:"player_id"`
	DebtType       string          `json:"debt_type"`
	Principal      decimal.Decimal `json:"principal"`
	InterestRate   decimal.Decimal `json:"interest_rate"`
	MonthlyPayment decimal.Decimal `json:"monthly_payment"`
	TermMonths     int             `json:"term_months"`
	DueDate        time.Time       `json:"due_date"`
	Purpose        string          `json:"purpose,omitempty"`
}

func NewDebtOriginated(
	debtID, sessionID string, playerID int64, debtType string,
	principal, rate, monthlyPayment decimal.Decimal,
	termMonths int, dueDate time.Time, purpose string, now time.Time,
) DebtOriginated {
	return DebtOriginated{
		BaseEvent:      events.NewBaseEventAt(TypeDebtOriginated, debtID, aggregateDebt, sessionID, now),
		PlayerID:       playerID,
		DebtType:       debtType,
		Principal:      principal,
		InterestRate:   rate,
		MonthlyPayment: monthlyPayment,
		TermMonths:     termMonths,
		DueDate:        dueDate,
		Purpose:        purpose,
	}
}

// PaymentApplied is raised for every accepted payment.
type PaymentApplied struct {
	events.BaseEvent
	PlayerID      int64           `json:"player_id"`
	PaymentType   string          `json:"payment_type"`
	FromAccount   string          `json:"from_account"`
	Amount        decimal.Decimal `json:"amount"`
	PrincipalPaid decimal.Decimal `json:"principal_paid"`
	InterestPaid  decimal.Decimal `json:"interest_paid"`
	NewBalance    decimal.Decimal `json:"new_balance"`
	NextDueDate   time.Time       `json:"next_due_date"`
}

func NewPaymentApplied(
	debtID, sessionID string, playerID int64,
	paymentType, fromAccount string,
	amount, principal, interest, newBalance decimal.Decimal,
	nextDue, now time.Time,
) PaymentApplied {
	return PaymentApplied{
		BaseEvent:     events.NewBaseEventAt(TypePaymentApplied, debtID, aggregateDebt, sessionID, now),
		PlayerID:      playerID,
		PaymentType:   paymentType,
		FromAccount:   fromAccount,
		Amount:        amount,
		PrincipalPaid: principal,
		InterestPaid:  interest,
		NewBalance:    newBalance,
		NextDueDate:   nextDue,
	}
}

// DebtPaidOff is raised once, when a debt reaches a zero balance.
type DebtPaidOff struct {
	events.BaseEvent
	PlayerID       int64           `json:"player_id"`
	OriginalAmount decimal.Decimal `json:"original_amount"`
	EarlySavings   decimal.Decimal `json:"early_savings"`
}

func NewDebtPaidOff(debtID, sessionID string, playerID int64, original, earlySavings decimal.Decimal, now time.Time) DebtPaidOff {
	return DebtPaidOff{
		BaseEvent:      events.NewBaseEventAt(TypeDebtPaidOff, debtID, aggregateDebt, sessionID, now),
		PlayerID:       playerID,
		OriginalAmount: original,
		EarlySavings:   earlySavings,
	}
}

// ---------------------------------------------------------------------------
// Loan application events
// ---------------------------------------------------------------------------

// LoanApplicationRejected records an application that failed underwriting.
// Its aggregate is the player, since no debt exists.
type LoanApplicationRejected struct {
	events.BaseEvent
	PlayerID        int64           `json:"player_id"`
	RequestedType   string          `json:"requested_type"`
	RequestedAmount decimal.Decimal `json:"requested_amount"`
	Reason          string          `json:"reason"`
}

func NewLoanApplicationRejected(
	sessionID string, playerID int64, requestedType string,
	amount decimal.Decimal, reason string, now time.Time,
) LoanApplicationRejected {
	return LoanApplicationRejected{
		BaseEvent:       events.NewBaseEventAt(TypeLoanRejected, strconv.FormatInt(playerID, 10), aggregatePlayer, sessionID, now),
		PlayerID:        playerID,
		RequestedType:   requestedType,
		RequestedAmount: amount,
		Reason:          reason,
	}
}
