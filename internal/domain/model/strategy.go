package model

import "github.com/shopspring/decimal"

// StrategyName identifies a payoff ordering.
type StrategyName string

const (
	StrategySnowball  StrategyName = "snowball"
	StrategyAvalanche StrategyName = "avalanche"
	StrategyNone      StrategyName = "none"
)

// StrategyStep is one debt in a payoff ordering.
type StrategyStep struct {
	Order          int
	DebtID         string
	Type           string
	Balance        decimal.Decimal
	InterestRate   decimal.Decimal
	MonthlyPayment decimal.Decimal
	// PaidOffMonth is the simulated month the debt clears, zero when the
	// simulator does not track individual debts.
	PaidOffMonth int
}

// StrategyResult is a simulated payoff ordering.
type StrategyResult struct {
	Name          StrategyName
	Steps         []StrategyStep
	TotalMonths   int
	TotalInterest decimal.Decimal
}

// StrategyComparison pairs both orderings with a recommendation.
type StrategyComparison struct {
	PlayerID        int64
	Snowball        StrategyResult
	Avalanche       StrategyResult
	Recommended     StrategyName
	InterestSavings decimal.Decimal
	Explanation     string
}
