package service

import (
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cashflowgame/finance-service/internal/domain/model"
	"github.com/cashflowgame/finance-service/pkg/money"
)

// ---------------------------------------------------------------------------
// Payoff simulators
// ---------------------------------------------------------------------------

// PayoffSimulator estimates how long an ordered list of debts takes to clear
// and how much interest is paid on the way. Implementations fill in
// TotalMonths, TotalInterest and Steps; the caller sets Name.
type PayoffSimulator interface {
	Simulate(ordered []model.Debt) model.StrategyResult
}

// QuickEstimateSimulator is the coarse default: total balance divided by total
// monthly payment, and a flat 10% of the balance as interest. It ignores the
// ordering except to list the steps.
type QuickEstimateSimulator struct{}

var quickEstimateInterestRate = decimal.RequireFromString("0.10")

func (QuickEstimateSimulator) Simulate(ordered []model.Debt) model.StrategyResult {
	balance, payments := decimal.Zero, decimal.Zero
	for _, d := range ordered {
		balance = balance.Add(d.CurrentBalance())
		payments = payments.Add(d.MonthlyPayment())
	}

	months := model.MaxSimulationMonths
	if payments.IsPositive() {
		months = int(balance.Div(payments).Ceil().IntPart())
	}
	if balance.IsZero() {
		months = 0
	}

	return model.StrategyResult{
		Steps:         stepsFor(ordered),
		TotalMonths:   months,
		TotalInterest: money.Cents(balance.Mul(quickEstimateInterestRate)),
	}
}

// AmortizingSimulator runs the plan month by month. Each month every open debt
// accrues interest and receives its installment; installments freed by paid
// off debts roll onto the first open debt in the ordering.
type AmortizingSimulator struct {
	// MaxMonths bounds the simulation; zero means 600.
	MaxMonths int
}

func (s AmortizingSimulator) Simulate(ordered []model.Debt) model.StrategyResult {
	maxMonths := s.MaxMonths
	if maxMonths <= 0 {
		maxMonths = 600
	}

	balances := make([]decimal.Decimal, len(ordered))
	budget := decimal.Zero
	for i, d := range ordered {
		balances[i] = d.CurrentBalance()
		budget = budget.Add(d.MonthlyPayment())
	}
	steps := stepsFor(ordered)

	totalInterest := decimal.Zero
	month := 0
	for ; month < maxMonths && anyPositive(balances); month++ {
		available := budget

		for i, d := range ordered {
			if !balances[i].IsPositive() {
				continue
			}
			interest := model.MonthlyInterest(balances[i], d.InterestRate())
			totalInterest = totalInterest.Add(interest)
			balances[i] = balances[i].Add(interest)

			payment := decimal.Min(d.MonthlyPayment(), balances[i], available)
			balances[i] = balances[i].Sub(payment)
			available = available.Sub(payment)
		}

		for i := range ordered {
			if !available.IsPositive() {
				break
			}
			if !balances[i].IsPositive() {
				continue
			}
			extra := decimal.Min(available, balances[i])
			balances[i] = balances[i].Sub(extra)
			available = available.Sub(extra)
		}

		for i := range ordered {
			if steps[i].PaidOffMonth == 0 && !balances[i].IsPositive() {
				steps[i].PaidOffMonth = month + 1
			}
		}
	}

	return model.StrategyResult{
		Steps:         steps,
		TotalMonths:   month,
		TotalInterest: totalInterest,
	}
}

func anyPositive(balances []decimal.Decimal) bool {
	for _, b := range balances {
		if b.IsPositive() {
			return true
		}
	}
	return false
}

func stepsFor(ordered []model.Debt) []model.StrategyStep {
	steps := make([]model.StrategyStep, 0, len(ordered))
	for i, d := range ordered {
		steps = append(steps, model.StrategyStep{
			Order:          i + 1,
			DebtID:         d.ID(),
			Type:           d.Type().String(),
			Balance:        d.CurrentBalance(),
			InterestRate:   d.InterestRate(),
			MonthlyPayment: d.MonthlyPayment(),
		})
	}
	return steps
}

// ---------------------------------------------------------------------------
// PayoffPlanner – snowball vs avalanche comparison
// ---------------------------------------------------------------------------

// PayoffPolicy controls when snowball is recommended over avalanche.
type PayoffPolicy struct {
	// SnowballSavingsThreshold is the avalanche interest saving below which
	// snowball's quicker wins are preferred.
	SnowballSavingsThreshold decimal.Decimal
	// SnowballMinDebts is the smallest debt count that qualifies for snowball.
	SnowballMinDebts int
}

// DefaultPayoffPolicy prefers snowball for more than three debts when
// avalanche saves less than 10,000.
func DefaultPayoffPolicy() PayoffPolicy {
	return PayoffPolicy{
		SnowballSavingsThreshold: decimal.NewFromInt(10_000),
		SnowballMinDebts:         4,
	}
}

// PayoffPlanner orders debts two ways and recommends one.
type PayoffPlanner struct {
	simulator PayoffSimulator
	policy    PayoffPolicy
}

// NewPayoffPlanner returns a planner. A nil simulator uses QuickEstimateSimulator.
func NewPayoffPlanner(simulator PayoffSimulator, policy PayoffPolicy) *PayoffPlanner {
	if simulator == nil {
		simulator = QuickEstimateSimulator{}
	}
	return &PayoffPlanner{simulator: simulator, policy: policy}
}

// SnowballOrder sorts by balance ascending, then rate descending.
func SnowballOrder(debts []model.Debt) []model.Debt {
	out := slices.Clone(debts)
	slices.SortStableFunc(out, func(a, b model.Debt) int {
		if c := a.CurrentBalance().Cmp(b.CurrentBalance()); c != 0 {
			return c
		}
		if c := b.InterestRate().Cmp(a.InterestRate()); c != 0 {
			return c
		}
		return strings.Compare(a.ID(), b.ID())
	})
	return out
}

// AvalancheOrder sorts by rate descending, then balance ascending.
func AvalancheOrder(debts []model.Debt) []model.Debt {
	out := slices.Clone(debts)
	slices.SortStableFunc(out, func(a, b model.Debt) int {
		if c := b.InterestRate().Cmp(a.InterestRate()); c != 0 {
			return c
		}
		if c := a.CurrentBalance().Cmp(b.CurrentBalance()); c != 0 {
			return c
		}
		return strings.Compare(a.ID(), b.ID())
	})
	return out
}

// Compare simulates both orderings over the active debts and recommends one.
func (p *PayoffPlanner) Compare(playerID int64, debts []model.Debt) model.StrategyComparison {
	active := model.ActiveDebts(debts)
	if len(active) == 0 {
		return model.StrategyComparison{
			PlayerID:        playerID,
			Snowball:        model.StrategyResult{Name: model.StrategySnowball, Steps: []model.StrategyStep{}, TotalInterest: decimal.Zero},
			Avalanche:       model.StrategyResult{Name: model.StrategyAvalanche, Steps: []model.StrategyStep{}, TotalInterest: decimal.Zero},
			Recommended:     model.StrategyNone,
			InterestSavings: decimal.Zero,
			Explanation:     "nothing to pay off",
		}
	}

	snowball := p.simulator.Simulate(SnowballOrder(active))
	snowball.Name = model.StrategySnowball
	avalanche := p.simulator.Simulate(AvalancheOrder(active))
	avalanche.Name = model.StrategyAvalanche

	savings := snowball.TotalInterest.Sub(avalanche.TotalInterest)
	cmp := model.StrategyComparison{
		PlayerID:        playerID,
		Snowball:        snowball,
		Avalanche:       avalanche,
		InterestSavings: savings,
	}

	if savings.LessThan(p.policy.SnowballSavingsThreshold) && len(active) >= p.policy.SnowballMinDebts {
		cmp.Recommended = model.StrategySnowball
		cmp.Explanation = fmt.Sprintf(
			"With %d debts and avalanche saving only %s in interest, paying the smallest balances first gives quicker wins that keep you motivated.",
			len(active), savings.StringFixed(2))
		return cmp
	}

	cmp.Recommended = model.StrategyAvalanche
	cmp.Explanation = fmt.Sprintf(
		"Paying the highest interest rate first minimizes total interest (%s saved versus snowball).",
		savings.StringFixed(2))
	return cmp
}
