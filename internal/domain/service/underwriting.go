package service

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cashflowgame/finance-service/internal/domain/model"
	"github.com/cashflowgame/finance-service/internal/domain/valueobject"
	"github.com/cashflowgame/finance-service/pkg/money"
)

// ---------------------------------------------------------------------------
// Underwriter – eligibility gate and pricing for new loans
// ---------------------------------------------------------------------------

// UnderwritingPolicy holds the thresholds applied to every application.
type UnderwritingPolicy struct {
	Rates               valueobject.RateTable
	MinMonthlyIncome    decimal.Decimal
	MaxDebtToIncome     decimal.Decimal
	MaxLoanIncomeMonths int
	DefaultTermMonths   int
	MaxTermMonths       int
}

// DefaultUnderwritingPolicy returns the standard game thresholds.
func DefaultUnderwritingPolicy() UnderwritingPolicy {
	return UnderwritingPolicy{
		Rates:               valueobject.DefaultRateTable(),
		MinMonthlyIncome:    decimal.NewFromInt(10_000),
		MaxDebtToIncome:     decimal.RequireFromString("0.40"),
		MaxLoanIncomeMonths: 36,
		DefaultTermMonths:   model.DefaultLoanTermMonths,
		MaxTermMonths:       model.MaxSimulationMonths,
	}
}

// UnderwritingInput is everything the gate looks at.
type UnderwritingInput struct {
	Application model.LoanApplication
	Account     model.PlayerAccount
	// ActiveDebts may include paid-off debts; they are ignored.
	ActiveDebts []model.Debt
}

// UnderwritingDecision is the outcome of Evaluate. On rejection only Reason
// and the computed ratios are meaningful.
type UnderwritingDecision struct {
	Approved      bool
	Reason        string
	DebtType      valueobject.DebtType
	InterestRate  decimal.Decimal
	TermMonths    int
	TypeFallback  bool
	MonthlyIncome decimal.Decimal
	DebtToIncome  decimal.Decimal
	MaxLoanAmount decimal.Decimal
}

// Underwriter evaluates loan applications against an UnderwritingPolicy.
type Underwriter struct {
	policy UnderwritingPolicy
}

// NewUnderwriter returns an underwriter for the given policy.
func NewUnderwriter(policy UnderwritingPolicy) *Underwriter {
	if policy.Rates == nil {
		policy.Rates = valueobject.DefaultRateTable()
	}
	return &Underwriter{policy: policy}
}

// Policy returns the thresholds in force.
func (u *Underwriter) Policy() UnderwritingPolicy { return u.policy }

// Evaluate runs the gates in order and stops at the first failure:
//
//	amount > 0 and 1 <= term <= MaxTermMonths
//	monthly income >= MinMonthlyIncome
//	existing monthly payments / income <= MaxDebtToIncome
//	amount <= income × MaxLoanIncomeMonths
func (u *Underwriter) Evaluate(in UnderwritingInput) UnderwritingDecision {
	app := in.Application
	term := app.Term(u.policy.DefaultTermMonths)
	income := in.Account.MonthlyIncome()

	decision := UnderwritingDecision{
		TermMonths:    term,
		MonthlyIncome: income,
		MaxLoanAmount: income.Mul(decimal.NewFromInt(int64(u.policy.MaxLoanIncomeMonths))),
	}

	if !app.Amount.IsPositive() {
		decision.Reason = "loan amount must be positive"
		return decision
	}
	if term < 1 || term > u.policy.MaxTermMonths {
		decision.Reason = fmt.Sprintf("term must be between 1 and %d months", u.policy.MaxTermMonths)
		return decision
	}

	if income.LessThan(u.policy.MinMonthlyIncome) {
		decision.Reason = fmt.Sprintf("monthly income %s is below the minimum of %s",
			income.StringFixed(2), u.policy.MinMonthlyIncome.StringFixed(2))
		return decision
	}

	existing := decimal.Zero
	for _, d := range model.ActiveDebts(in.ActiveDebts) {
		existing = existing.Add(d.MonthlyPayment())
	}
	decision.DebtToIncome = existing.Div(income)
	if decision.DebtToIncome.GreaterThan(u.policy.MaxDebtToIncome) {
		decision.Reason = fmt.Sprintf("debt-to-income ratio %s%% exceeds the maximum of %s%%",
			money.Percent(existing, income).StringFixed(2),
			u.policy.MaxDebtToIncome.Mul(decimal.NewFromInt(100)).StringFixed(0))
		return decision
	}

	if app.Amount.GreaterThan(decision.MaxLoanAmount) {
		decision.Reason = fmt.Sprintf("requested amount %s exceeds the maximum loan of %s",
			app.Amount.StringFixed(2), decision.MaxLoanAmount.StringFixed(2))
		return decision
	}

	decision.DebtType, decision.InterestRate, decision.TypeFallback = u.policy.Rates.Resolve(app.RequestedType)
	decision.Approved = true
	decision.Reason = "approved"
	return decision
}
