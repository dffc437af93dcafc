package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Request DTOs
// ---------------------------------------------------------------------------

// ApplyForLoanRequest asks for new credit on behalf of a player.
type ApplyForLoanRequest struct {
	PlayerID      int64           `json:"player_id"`
	LoanType      string          `json:"loan_type"`
	Amount        decimal.Decimal `json:"amount"`
	Purpose       string          `json:"purpose"`
	CollateralRef string          `json:"collateral_ref,omitempty"`
	// TermMonths of zero takes the default term.
	TermMonths int `json:"term_months,omitempty"`
}

// MakePaymentRequest pays toward one debt from a player's cash or savings.
type MakePaymentRequest struct {
	PlayerID    int64           `json:"player_id"`
	DebtID      string          `json:"debt_id"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentType string          `json:"payment_type,omitempty"`
	FromAccount string          `json:"from_account"`
}

// GetPlayerDebtsRequest lists a player's debts.
type GetPlayerDebtsRequest struct {
	PlayerID        int64 `json:"player_id"`
	ActiveOnly      bool  `json:"active_only,omitempty"`
	IncludeSchedule bool  `json:"include_schedule,omitempty"`
}

// ---------------------------------------------------------------------------
// Response DTOs
// ---------------------------------------------------------------------------

// LoanApprovalResponse is the result of a loan application. Only Success and
// Message are set on rejection.
type LoanApprovalResponse struct {
	Success        bool            `json:"success"`
	Message        string          `json:"message"`
	DebtID         string          `json:"debt_id,omitempty"`
	LoanType       string          `json:"loan_type,omitempty"`
	InterestRate   decimal.Decimal `json:"interest_rate"`
	MonthlyPayment decimal.Decimal `json:"monthly_payment"`
	TermMonths     int             `json:"term_months,omitempty"`
	TotalPayments  decimal.Decimal `json:"total_payments"`
	TotalInterest  decimal.Decimal `json:"total_interest"`
	DueDate        *time.Time      `json:"due_date,omitempty"`
	NewCashBalance decimal.Decimal `json:"new_cash_balance"`
}

// PaymentResultResponse is the result of a payment.
type PaymentResultResponse struct {
	Success            bool            `json:"success"`
	Message            string          `json:"message"`
	DebtID             string          `json:"debt_id,omitempty"`
	AmountPaid         decimal.Decimal `json:"amount_paid"`
	PrincipalPaid      decimal.Decimal `json:"principal_paid"`
	InterestPaid       decimal.Decimal `json:"interest_paid"`
	NewBalance         decimal.Decimal `json:"new_balance"`
	IsPaidOff          bool            `json:"is_paid_off"`
	FromAccount        string          `json:"from_account,omitempty"`
	NewAccountBalance  decimal.Decimal `json:"new_account_balance"`
	EarlyPayoffSavings decimal.Decimal `json:"early_payoff_savings"`
	NextDueDate        *time.Time      `json:"next_due_date,omitempty"`
}

// AmortizationEntryResponse is one period of a debt's original schedule.
type AmortizationEntryResponse struct {
	Period           int             `json:"period"`
	DueDate          time.Time       `json:"due_date"`
	Principal        decimal.Decimal `json:"principal"`
	Interest         decimal.Decimal `json:"interest"`
	Total            decimal.Decimal `json:"total"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
}

// DebtResponse is the external representation of a debt.
type DebtResponse struct {
	ID                   string                      `json:"id"`
	PlayerID             int64                       `json:"player_id"`
	Type                 string                      `json:"type"`
	OriginalAmount       decimal.Decimal             `json:"original_amount"`
	CurrentBalance       decimal.Decimal             `json:"current_balance"`
	InterestRate         decimal.Decimal             `json:"interest_rate"`
	MonthlyPayment       decimal.Decimal             `json:"monthly_payment"`
	TermMonths           int                         `json:"term_months"`
	DueDate              time.Time                   `json:"due_date"`
	LastPaymentDate      *time.Time                  `json:"last_payment_date,omitempty"`
	IsPaidOff            bool                        `json:"is_paid_off"`
	IsOverdue            bool                        `json:"is_overdue"`
	Purpose              string                      `json:"purpose,omitempty"`
	CollateralRef        string                      `json:"collateral_ref,omitempty"`
	RemainingInterest    decimal.Decimal             `json:"remaining_interest"`
	PayoffTimelineMonths int                         `json:"payoff_timeline_months"`
	Schedule             []AmortizationEntryResponse `json:"schedule,omitempty"`
	CreatedAt            time.Time                   `json:"created_at"`
	UpdatedAt            time.Time                   `json:"updated_at"`
}

// CreditFactorResponse is one scored credit factor.
type CreditFactorResponse struct {
	Category    string          `json:"category"`
	Label       string          `json:"label"`
	Weight      int             `json:"weight"`
	Impact      string          `json:"impact"`
	Adjustment  decimal.Decimal `json:"adjustment"`
	Description string          `json:"description"`
}

// CreditScoreResponse is a player's credit score.
type CreditScoreResponse struct {
	PlayerID     int64                  `json:"player_id"`
	Score        int                    `json:"score"`
	Rating       string                 `json:"rating"`
	Factors      []CreditFactorResponse `json:"factors"`
	Tips         []string               `json:"tips"`
	CalculatedAt time.Time              `json:"calculated_at"`
}

// TypeBreakdownResponse aggregates a player's debts of one type.
type TypeBreakdownResponse struct {
	Type                string          `json:"type"`
	Count               int             `json:"count"`
	TotalBalance        decimal.Decimal `json:"total_balance"`
	TotalMonthlyPayment decimal.Decimal `json:"total_monthly_payment"`
	AverageRate         decimal.Decimal `json:"average_rate"`
	PercentOfTotal      decimal.Decimal `json:"percent_of_total"`
}

// UpcomingPaymentResponse is the next installment on a debt.
type UpcomingPaymentResponse struct {
	DebtID       string          `json:"debt_id"`
	Type         string          `json:"type"`
	Amount       decimal.Decimal `json:"amount"`
	DueDate      time.Time       `json:"due_date"`
	DaysUntilDue int             `json:"days_until_due"`
	IsOverdue    bool            `json:"is_overdue"`
}

// RecommendationResponse is one piece of portfolio advice.
type RecommendationResponse struct {
	Kind             string          `json:"kind"`
	Title            string          `json:"title"`
	Description      string          `json:"description"`
	EstimatedSavings decimal.Decimal `json:"estimated_savings"`
}

// DebtSummaryResponse is the aggregate view of a player's active debts.
type DebtSummaryResponse struct {
	PlayerID               int64                     `json:"player_id"`
	TotalDebt              decimal.Decimal           `json:"total_debt"`
	TotalMonthlyPayments   decimal.Decimal           `json:"total_monthly_payments"`
	AverageInterestRate    decimal.Decimal           `json:"average_interest_rate"`
	DebtToIncomeRatio      decimal.Decimal           `json:"debt_to_income_ratio"`
	PayoffTimelineMonths   int                       `json:"payoff_timeline_months"`
	TotalRemainingInterest decimal.Decimal           `json:"total_remaining_interest"`
	ActiveDebtCount        int                       `json:"active_debt_count"`
	Breakdown              []TypeBreakdownResponse   `json:"breakdown"`
	UpcomingPayments       []UpcomingPaymentResponse `json:"upcoming_payments"`
	Recommendations        []RecommendationResponse  `json:"recommendations"`
}

// StrategyStepResponse is one debt in a payoff ordering.
type StrategyStepResponse struct {
	Order          int             `json:"order"`
	DebtID         string          `json:"debt_id"`
	Type           string          `json:"type"`
	Balance        decimal.Decimal `json:"balance"`
	InterestRate   decimal.Decimal `json:"interest_rate"`
	MonthlyPayment decimal.Decimal `json:"monthly_payment"`
	PaidOffMonth   int             `json:"paid_off_month,omitempty"`
}

// StrategyResultResponse is one simulated payoff ordering.
type StrategyResultResponse struct {
	Name          string                 `json:"name"`
	Steps         []StrategyStepResponse `json:"steps"`
	TotalMonths   int                    `json:"total_months"`
	TotalInterest decimal.Decimal        `json:"total_interest"`
}

// PayoffStrategyResponse compares snowball and avalanche.
type PayoffStrategyResponse struct {
	PlayerID        int64                  `json:"player_id"`
	Snowball        StrategyResultResponse `json:"snowball"`
	Avalanche       StrategyResultResponse `json:"avalanche"`
	Recommended     string                 `json:"recommended"`
	InterestSavings decimal.Decimal        `json:"interest_savings"`
	Explanation     string                 `json:"explanation"`
}

// PlayerStateResponse is a player's financial snapshot.
type PlayerStateResponse struct {
	PlayerID        int64           `json:"player_id"`
	SessionID       string          `json:"session_id"`
	CareerName      string          `json:"career_name,omitempty"`
	Cash            decimal.Decimal `json:"cash"`
	Savings         decimal.Decimal `json:"savings"`
	Salary          decimal.Decimal `json:"salary"`
	PassiveIncome   decimal.Decimal `json:"passive_income"`
	AssetValue      decimal.Decimal `json:"asset_value"`
	AssetCashFlow   decimal.Decimal `json:"asset_cash_flow"`
	TotalDebt       decimal.Decimal `json:"total_debt"`
	DebtPayments    decimal.Decimal `json:"debt_payments"`
	CareerExpenses  decimal.Decimal `json:"career_expenses"`
	NetWorth        decimal.Decimal `json:"net_worth"`
	MonthlyCashFlow decimal.Decimal `json:"monthly_cash_flow"`
	ActiveDebtCount int             `json:"active_debt_count"`
}

// WinConditionResponse reports progress toward financial freedom.
type WinConditionResponse struct {
	PlayerID         int64           `json:"player_id"`
	HasWon           bool            `json:"has_won"`
	FinancialFreedom bool            `json:"financial_freedom"`
	GoalAchieved     bool            `json:"goal_achieved"`
	NetWorth         decimal.Decimal `json:"net_worth"`
	MonthlyCashFlow  decimal.Decimal `json:"monthly_cash_flow"`
	NetWorthTarget   decimal.Decimal `json:"net_worth_target"`
	CashFlowTarget   decimal.Decimal `json:"cash_flow_target"`
	NetWorthProgress decimal.Decimal `json:"net_worth_progress"`
	CashFlowProgress decimal.Decimal `json:"cash_flow_progress"`
}
