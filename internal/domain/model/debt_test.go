package model_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cashflowgame/finance-service/internal/domain/event"
	"github.com/cashflowgame/finance-service/internal/domain/model"
	"github.com/cashflowgame/finance-service/internal/domain/valueobject"
	"github.com/cashflowgame/finance-service/pkg/testutil"
)

func newTestDebt(t *testing.T) model.Debt {
	t.Helper()
	debt, _, err := model.NewDebt(model.Origination{
		PlayerID:      testutil.TestPlayerID1,
		SessionID:     testutil.TestSessionID,
		Type:          valueobject.DebtTypePersonal,
		Principal:     d("100000"),
		AnnualRatePct: d("12.0"),
		TermMonths:    60,
		Purpose:       "open a food truck",
	}, testutil.TestNow)
	require.NoError(t, err)
	return debt
}

func pay(t *testing.T, debt model.Debt, amount string, now time.Time) (model.Debt, model.PaymentSplit) {
	t.Helper()
	next, split, err := debt.ApplyPayment(d(amount), valueobject.PaymentTypeRegular, valueobject.FundingSourceCash, now)
	require.NoError(t, err)
	return next, split
}

func TestNewDebt(t *testing.T) {
	debt, terms, err := model.NewDebt(model.Origination{
		PlayerID:      testutil.TestPlayerID1,
		SessionID:     testutil.TestSessionID,
		Type:          valueobject.DebtTypeBusiness,
		Principal:     d("50000"),
		AnnualRatePct: d("8.5"),
		TermMonths:    60,
		CollateralRef: "asset-7",
	}, testutil.TestNow)
	require.NoError(t, err)

	assert.NotEmpty(t, debt.ID())
	assert.Equal(t, testutil.TestPlayerID1, debt.PlayerID())
	assert.True(t, debt.Type().Equal(valueobject.DebtTypeBusiness))
	assert.True(t, debt.OriginalAmount().Equal(debt.CurrentBalance()))
	testutil.AssertDecimal(t, "1025.83", debt.MonthlyPayment())
	assert.True(t, terms.MonthlyPayment.Equal(debt.MonthlyPayment()))
	assert.Equal(t, time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC), debt.DueDate())
	assert.Nil(t, debt.LastPaymentDate())
	assert.False(t, debt.IsPaidOff())
	assert.Equal(t, "asset-7", debt.CollateralRef())
	assert.Equal(t, 1, debt.Version())

	require.Len(t, debt.DomainEvents(), 1)
	originated, ok := debt.DomainEvents()[0].(event.DebtOriginated)
	require.True(t, ok)
	assert.Equal(t, event.TypeDebtOriginated, originated.EventType())
	assert.Equal(t, testutil.TestSessionID, originated.SessionID())
}

func TestNewDebt_Validation(t *testing.T) {
	valid := model.Origination{
		PlayerID:      1,
		Type:          valueobject.DebtTypePersonal,
		Principal:     d("1000"),
		AnnualRatePct: d("12"),
		TermMonths:    12,
	}

	tests := []struct {
		name   string
		mutate func(o *model.Origination)
		errMsg string
	}{
		{"missing player", func(o *model.Origination) { o.PlayerID = 0 }, "player ID is required"},
		{"missing type", func(o *model.Origination) { o.Type = valueobject.DebtType{} }, "debt type is required"},
		{"zero principal", func(o *model.Origination) { o.Principal = decimal.Zero }, "amount must be positive"},
		{"negative rate", func(o *model.Origination) { o.AnnualRatePct = d("-1") }, "interest rate must not be negative"},
		{"zero term", func(o *model.Origination) { o.TermMonths = 0 }, "term months must be positive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := valid
			tt.mutate(&o)
			_, _, err := model.NewDebt(o, testutil.TestNow)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestDebt_SplitPayment(t *testing.T) {
	debt := newTestDebt(t)

	t.Run("regular installment", func(t *testing.T) {
		split := debt.SplitPayment(d("2224.44"))
		testutil.AssertDecimal(t, "1000", split.InterestPaid)
		testutil.AssertDecimal(t, "1224.44", split.PrincipalPaid)
		assert.False(t, split.FullPayoff)
	})

	t.Run("payment at or below interest is all interest", func(t *testing.T) {
		for _, amount := range []string{"1000", "400"} {
			split := debt.SplitPayment(d(amount))
			testutil.AssertDecimal(t, amount, split.InterestPaid)
			assert.True(t, split.PrincipalPaid.IsZero())
		}
	})

	t.Run("full payoff reports early savings", func(t *testing.T) {
		split := debt.SplitPayment(d("150000"))
		assert.True(t, split.FullPayoff)
		testutil.AssertDecimal(t, "1000", split.InterestPaid)
		testutil.AssertDecimal(t, "99000", split.PrincipalPaid)
		expected := debt.RemainingInterest().Sub(d("1000"))
		assert.True(t, split.EarlySavings.Equal(expected), "savings %s", split.EarlySavings)
		assert.True(t, split.EarlySavings.GreaterThan(d("32000")))
	})
}

func TestDebt_ApplyPayment(t *testing.T) {
	now := testutil.TestNow

	t.Run("partial payment reduces balance by principal", func(t *testing.T) {
		debt := newTestDebt(t)
		next, split := pay(t, debt, "2224.44", now)

		assert.True(t, next.CurrentBalance().Equal(debt.CurrentBalance().Sub(split.PrincipalPaid)))
		testutil.AssertDecimal(t, "98775.56", next.CurrentBalance())
		require.NotNil(t, next.LastPaymentDate())
		assert.Equal(t, now, *next.LastPaymentDate())
		assert.Equal(t, debt.DueDate().AddDate(0, 1, 0), next.DueDate())
		assert.True(t, next.MonthlyPayment().Equal(debt.MonthlyPayment()))
		assert.Len(t, next.DomainEvents(), 2)
		assert.Len(t, debt.DomainEvents(), 1, "original must be unchanged")
		assert.True(t, debt.CurrentBalance().Equal(d("100000")), "original must be unchanged")
	})

	t.Run("interest-only payment leaves balance and due date", func(t *testing.T) {
		debt := newTestDebt(t)
		next, _ := pay(t, debt, "1000", now)

		assert.True(t, next.CurrentBalance().Equal(debt.CurrentBalance()))
		assert.Equal(t, debt.DueDate(), next.DueDate())
	})

	t.Run("overpayment pins balance to zero", func(t *testing.T) {
		debt := newTestDebt(t)
		next, split := pay(t, debt, "1000000", now)

		assert.True(t, split.FullPayoff)
		assert.True(t, next.CurrentBalance().IsZero())
		assert.True(t, next.IsPaidOff())
		assert.Equal(t, debt.DueDate(), next.DueDate())

		evts := next.DomainEvents()
		require.Len(t, evts, 3)
		assert.Equal(t, event.TypeDebtPaidOff, evts[2].EventType())
	})

	t.Run("paid off debt rejects further payments", func(t *testing.T) {
		debt, _ := pay(t, newTestDebt(t), "100000", now)
		_, _, err := debt.ApplyPayment(d("10"), valueobject.PaymentTypeRegular, valueobject.FundingSourceCash, now)
		assert.ErrorIs(t, err, model.ErrDebtPaidOff)
	})

	t.Run("non-positive amount", func(t *testing.T) {
		_, _, err := newTestDebt(t).ApplyPayment(decimal.Zero, valueobject.PaymentTypeRegular, valueobject.FundingSourceCash, now)
		assert.ErrorIs(t, err, model.ErrInvalidAmount)
	})

	t.Run("sixty installments pay off the loan", func(t *testing.T) {
		debt := newTestDebt(t)
		installment := debt.MonthlyPayment().String()
		prev := debt.CurrentBalance()
		paidOn := 0
		for i := 1; i <= 60; i++ {
			debt, _ = pay(t, debt, installment, now.AddDate(0, i, 0))
			assert.True(t, debt.CurrentBalance().LessThanOrEqual(prev))
			assert.True(t, debt.CurrentBalance().GreaterThanOrEqual(decimal.Zero))
			assert.Equal(t, debt.IsPaidOff(), debt.CurrentBalance().IsZero())
			prev = debt.CurrentBalance()
			if debt.IsPaidOff() {
				paidOn = i
				break
			}
		}
		assert.Equal(t, 60, paidOn)

		_, _, err := debt.ApplyPayment(d(installment), valueobject.PaymentTypeRegular, valueobject.FundingSourceCash, now)
		assert.ErrorIs(t, err, model.ErrDebtPaidOff)
	})
}

func TestDebt_IsOverdue(t *testing.T) {
	debt := newTestDebt(t)

	assert.False(t, debt.IsOverdue(debt.DueDate()))
	assert.True(t, debt.IsOverdue(debt.DueDate().Add(time.Second)))

	paid, _ := pay(t, debt, "100000", testutil.TestNow)
	assert.False(t, paid.IsOverdue(paid.DueDate().AddDate(1, 0, 0)))
}

func TestDebt_SnapshotRoundTrip(t *testing.T) {
	debt := newTestDebt(t)
	rebuilt := model.ReconstructDebt(debt.Snapshot())

	assert.Equal(t, debt.Snapshot(), rebuilt.Snapshot())
	assert.Empty(t, rebuilt.DomainEvents())
	assert.Empty(t, debt.ClearEvents().DomainEvents())
}

func TestActiveDebts(t *testing.T) {
	open := newTestDebt(t)
	closed, _ := pay(t, newTestDebt(t), "100000", testutil.TestNow)

	active := model.ActiveDebts([]model.Debt{closed, open})
	require.Len(t, active, 1)
	assert.Equal(t, open.ID(), active[0].ID())
}
