package model

import "github.com/shopspring/decimal"

// PlayerState is the authoritative financial snapshot consumed by the rest of
// the game after every turn-advancing action.
type PlayerState struct {
	PlayerID        int64
	SessionID       string
	CareerName      string
	Cash            decimal.Decimal
	Savings         decimal.Decimal
	Salary          decimal.Decimal
	PassiveIncome   decimal.Decimal
	AssetValue      decimal.Decimal
	AssetCashFlow   decimal.Decimal
	TotalDebt       decimal.Decimal
	DebtPayments    decimal.Decimal
	CareerExpenses  decimal.Decimal
	NetWorth        decimal.Decimal
	MonthlyCashFlow decimal.Decimal
	ActiveDebtCount int
}

// PlayerWinCondition reports whether a player reached financial freedom.
type PlayerWinCondition struct {
	PlayerID         int64
	HasWon           bool
	FinancialFreedom bool
	GoalAchieved     bool
	NetWorth         decimal.Decimal
	MonthlyCashFlow  decimal.Decimal
	NetWorthTarget   decimal.Decimal
	CashFlowTarget   decimal.Decimal
	NetWorthProgress decimal.Decimal
	CashFlowProgress decimal.Decimal
}
