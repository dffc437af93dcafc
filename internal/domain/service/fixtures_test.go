package service_test

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/cashflowgame/finance-service/internal/domain/model"
	"github.com/cashflowgame/finance-service/internal/domain/valueobject"
	"github.com/cashflowgame/finance-service/pkg/testutil"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// debtFields describes a stored debt; zero fields take defaults.
type debtFields struct {
	id      string
	typ     valueobject.DebtType
	balance string
	rate    string
	payment string
	due     time.Time
	created time.Time
	paidOff bool
}

func debt(s debtFields) model.Debt {
	if s.typ.IsZero() {
		s.typ = valueobject.DebtTypePersonal
	}
	if s.due.IsZero() {
		s.due = time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)
	}
	if s.created.IsZero() {
		s.created = testutil.TestNow.AddDate(-1, 0, 0)
	}
	if s.id == "" {
		s.id = "debt-" + s.balance
	}
	balance := d(s.balance)
	return model.ReconstructDebt(model.DebtSnapshot{
		ID:             s.id,
		PlayerID:       testutil.TestPlayerID1,
		SessionID:      testutil.TestSessionID,
		Type:           s.typ,
		OriginalAmount: balance,
		CurrentBalance: balance,
		InterestRate:   d(s.rate),
		MonthlyPayment: d(s.payment),
		TermMonths:     60,
		DueDate:        s.due,
		IsPaidOff:      s.paidOff,
		Version:        1,
		CreatedAt:      s.created,
		UpdatedAt:      s.created,
	})
}

func account(salary, passive, cash, savings string) model.PlayerAccount {
	return model.PlayerAccount{
		Salary:        d(salary),
		PassiveIncome: d(passive),
		Cash:          d(cash),
		Savings:       d(savings),
	}
}
