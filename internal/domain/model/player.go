package model

import (
	"github.com/shopspring/decimal"

	"github.com/cashflowgame/finance-service/internal/domain/valueobject"
)

// PlayerAccount is the liquid side of a player's balance sheet. Cash and
// savings are never negative; salary and passive income are monthly figures.
type PlayerAccount struct {
	Cash          decimal.Decimal
	Savings       decimal.Decimal
	Salary        decimal.Decimal
	PassiveIncome decimal.Decimal
}

// MonthlyIncome is salary plus passive income.
func (a PlayerAccount) MonthlyIncome() decimal.Decimal {
	return a.Salary.Add(a.PassiveIncome)
}

// Balance returns the amount held in the given source account.
func (a PlayerAccount) Balance(source valueobject.FundingSource) decimal.Decimal {
	if source.Equal(valueobject.FundingSourceSavings) {
		return a.Savings
	}
	return a.Cash
}

// Adjust applies a signed delta to one source account. The account is
// returned unchanged with ErrInsufficientFunds if the result would be negative.
func (a PlayerAccount) Adjust(source valueobject.FundingSource, delta decimal.Decimal) (PlayerAccount, error) {
	next := a.Balance(source).Add(delta)
	if next.IsNegative() {
		return a, ErrInsufficientFunds
	}
	if source.Equal(valueobject.FundingSourceSavings) {
		a.Savings = next
	} else {
		a.Cash = next
	}
	return a, nil
}

// Career is the profession assigned to a player for the session.
type Career struct {
	Name              string
	BaseSalary        decimal.Decimal
	RecurringExpenses []Expense
}

// Expense is a named monthly outflow tied to a career.
type Expense struct {
	Name   string
	Amount decimal.Decimal
}

// TotalExpenses sums the career's recurring expenses.
func (c Career) TotalExpenses() decimal.Decimal {
	total := decimal.Zero
	for _, e := range c.RecurringExpenses {
		total = total.Add(e.Amount)
	}
	return total
}

// Goal is the personal objective a player picked at the start of a session.
type Goal struct {
	ID           string
	Description  string
	TargetAmount decimal.Decimal
}

// AssetHolding is a quantity of one asset owned by a player.
type AssetHolding struct {
	AssetID  string
	Name     string
	Quantity decimal.Decimal
	// CurrentPrice is the session market price, nil when the market has not
	// quoted the asset.
	CurrentPrice *decimal.Decimal
	CatalogCost  decimal.Decimal
	// CashFlowPerUnit is the monthly income each unit produces.
	CashFlowPerUnit decimal.Decimal
}

// UnitPrice is the session price, falling back to the catalog cost.
func (h AssetHolding) UnitPrice() decimal.Decimal {
	if h.CurrentPrice != nil {
		return *h.CurrentPrice
	}
	return h.CatalogCost
}

// Value is quantity times unit price.
func (h AssetHolding) Value() decimal.Decimal {
	return h.Quantity.Mul(h.UnitPrice())
}

// MonthlyCashFlow is quantity times cash flow per unit.
func (h AssetHolding) MonthlyCashFlow() decimal.Decimal {
	return h.Quantity.Mul(h.CashFlowPerUnit)
}

// Player is a participant's financial view of a game session.
type Player struct {
	ID        int64
	SessionID string
	Name      string
	Career    *Career
	Goal      *Goal
	Account   PlayerAccount
	Holdings  []AssetHolding
}
