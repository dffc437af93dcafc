package model

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/cashflowgame/finance-service/internal/domain/valueobject"
)

// RecommendationKind groups portfolio recommendations.
type RecommendationKind string

const (
	RecommendationPayoffStrategy RecommendationKind = "payoff_strategy"
	RecommendationConsolidation  RecommendationKind = "consolidation"
	RecommendationEmergencyFund  RecommendationKind = "emergency_fund"
)

// Recommendation is one piece of advice derived from a portfolio.
type Recommendation struct {
	Kind             RecommendationKind
	Title            string
	Description      string
	EstimatedSavings decimal.Decimal
}

// TypeBreakdown aggregates the active debts of one type.
type TypeBreakdown struct {
	Type                valueobject.DebtType
	Count               int
	TotalBalance        decimal.Decimal
	TotalMonthlyPayment decimal.Decimal
	AverageRate         decimal.Decimal
	PercentOfTotal      decimal.Decimal
}

// UpcomingPayment is the next installment due on an active debt.
type UpcomingPayment struct {
	DebtID       string
	Type         valueobject.DebtType
	Amount       decimal.Decimal
	DueDate      time.Time
	DaysUntilDue int
	IsOverdue    bool
}

// DebtSummary is the aggregate picture of a player's active debts.
type DebtSummary struct {
	PlayerID               int64
	TotalDebt              decimal.Decimal
	TotalMonthlyPayments   decimal.Decimal
	AverageInterestRate    decimal.Decimal
	DebtToIncomeRatio      decimal.Decimal
	PayoffTimelineMonths   int
	TotalRemainingInterest decimal.Decimal
	ActiveDebtCount        int
	Breakdown              []TypeBreakdown
	UpcomingPayments       []UpcomingPayment
	Recommendations        []Recommendation
}
