package service

import (
	"github.com/shopspring/decimal"

	"github.com/cashflowgame/finance-service/internal/domain/model"
	"github.com/cashflowgame/finance-service/pkg/money"
)

// ---------------------------------------------------------------------------
// FinancialState – net worth, cash flow and win condition
// ---------------------------------------------------------------------------

// WinPolicy holds the financial freedom targets.
type WinPolicy struct {
	NetWorthTarget decimal.Decimal
	CashFlowTarget decimal.Decimal
}

// DefaultWinPolicy returns the standard freedom targets.
func DefaultWinPolicy() WinPolicy {
	return WinPolicy{
		NetWorthTarget: decimal.NewFromInt(1_000_000),
		CashFlowTarget: decimal.NewFromInt(20_000),
	}
}

// GoalEvaluator decides whether a player met their personal goal.
type GoalEvaluator interface {
	GoalAchieved(player model.Player, state model.PlayerState) bool
}

// UnimplementedGoalEvaluator is the placeholder goal path; it never awards a win.
type UnimplementedGoalEvaluator struct{}

func (UnimplementedGoalEvaluator) GoalAchieved(model.Player, model.PlayerState) bool { return false }

// FinancialState composes player snapshots.
type FinancialState struct {
	policy WinPolicy
	goals  GoalEvaluator
}

// NewFinancialState returns a calculator. A nil evaluator uses
// UnimplementedGoalEvaluator.
func NewFinancialState(policy WinPolicy, goals GoalEvaluator) *FinancialState {
	if goals == nil {
		goals = UnimplementedGoalEvaluator{}
	}
	return &FinancialState{policy: policy, goals: goals}
}

// Snapshot computes
//
//	net worth = cash + savings + Σ asset value − Σ active debt balance
//	cash flow = career base salary (0 without a career) + passive income + Σ asset cash flow
//	            − Σ active debt payments − Σ career expenses
//
// Assets are valued at the session price, falling back to catalog cost.
func (s *FinancialState) Snapshot(player model.Player, debts []model.Debt) model.PlayerState {
	acct := player.Account
	state := model.PlayerState{
		PlayerID:      player.ID,
		SessionID:     player.SessionID,
		Cash:          acct.Cash,
		Savings:       acct.Savings,
		Salary:        decimal.Zero,
		PassiveIncome: acct.PassiveIncome,
	}

	// Only an assigned career pays a salary.
	if player.Career != nil {
		state.CareerName = player.Career.Name
		state.Salary = player.Career.BaseSalary
		state.CareerExpenses = player.Career.TotalExpenses()
	}

	for _, h := range player.Holdings {
		state.AssetValue = state.AssetValue.Add(h.Value())
		state.AssetCashFlow = state.AssetCashFlow.Add(h.MonthlyCashFlow())
	}

	active := model.ActiveDebts(debts)
	for _, d := range active {
		state.TotalDebt = state.TotalDebt.Add(d.CurrentBalance())
		state.DebtPayments = state.DebtPayments.Add(d.MonthlyPayment())
	}
	state.ActiveDebtCount = len(active)

	state.NetWorth = money.Sum(state.Cash, state.Savings, state.AssetValue).Sub(state.TotalDebt)
	state.MonthlyCashFlow = money.Sum(state.Salary, state.PassiveIncome, state.AssetCashFlow).
		Sub(state.DebtPayments).
		Sub(state.CareerExpenses)

	return state
}

// WinCondition checks financial freedom: net worth and monthly cash flow both
// at or above target. The goal path is evaluated separately.
func (s *FinancialState) WinCondition(state model.PlayerState, player model.Player) model.PlayerWinCondition {
	freedom := state.NetWorth.GreaterThanOrEqual(s.policy.NetWorthTarget) &&
		state.MonthlyCashFlow.GreaterThanOrEqual(s.policy.CashFlowTarget)
	goal := s.goals.GoalAchieved(player, state)

	return model.PlayerWinCondition{
		PlayerID:         player.ID,
		HasWon:           freedom || goal,
		FinancialFreedom: freedom,
		GoalAchieved:     goal,
		NetWorth:         state.NetWorth,
		MonthlyCashFlow:  state.MonthlyCashFlow,
		NetWorthTarget:   s.policy.NetWorthTarget,
		CashFlowTarget:   s.policy.CashFlowTarget,
		NetWorthProgress: progress(state.NetWorth, s.policy.NetWorthTarget),
		CashFlowProgress: progress(state.MonthlyCashFlow, s.policy.CashFlowTarget),
	}
}

// progress is value/target as a percentage clamped to [0, 100].
func progress(value, target decimal.Decimal) decimal.Decimal {
	return money.Clamp(money.Percent(value, target), decimal.Zero, hundred)
}
