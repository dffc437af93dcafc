package usecase

import (
	"github.com/cashflowgame/finance-service/internal/domain/port"
	"github.com/cashflowgame/finance-service/internal/domain/service"
)

// EngineConfig holds everything the financial engine is built from. Policies
// default to the standard game rules when left zero.
type EngineConfig struct {
	UnitOfWork port.UnitOfWork
	Players    port.PlayerRepository
	Debts      port.DebtRepository
	EventLog   port.EventLog
	Cache      port.CreditScoreCache

	Underwriting *service.UnderwritingPolicy
	Portfolio    *service.PortfolioPolicy
	Payoff       *service.PayoffPolicy
	Win          *service.WinPolicy
	// Simulator defaults to service.QuickEstimateSimulator.
	Simulator service.PayoffSimulator
	Goals     service.GoalEvaluator

	Instrumentation Instrumentation
}

// Engine bundles the eight engine operations.
type Engine struct {
	ApplyForLoan            *ApplyForLoanUseCase
	MakePayment             *MakePaymentUseCase
	GetDebtSummary          *GetDebtSummaryUseCase
	CalculateCreditScore    *CalculateCreditScoreUseCase
	GetPlayerDebts          *GetPlayerDebtsUseCase
	CalculatePayoffStrategy *CalculatePayoffStrategyUseCase
	GetPlayerState          *GetPlayerStateUseCase
	CheckWinCondition       *CheckWinConditionUseCase
}

// NewEngine wires the use cases against one set of ports.
func NewEngine(cfg EngineConfig) *Engine {
	underwriting := service.DefaultUnderwritingPolicy()
	if cfg.Underwriting != nil {
		underwriting = *cfg.Underwriting
	}
	portfolio := service.DefaultPortfolioPolicy()
	if cfg.Portfolio != nil {
		portfolio = *cfg.Portfolio
	}
	payoff := service.DefaultPayoffPolicy()
	if cfg.Payoff != nil {
		payoff = *cfg.Payoff
	}
	win := service.DefaultWinPolicy()
	if cfg.Win != nil {
		win = *cfg.Win
	}

	inst := cfg.Instrumentation.withDefaults()
	state := service.NewFinancialState(win, cfg.Goals)

	return &Engine{
		ApplyForLoan: NewApplyForLoanUseCase(
			cfg.UnitOfWork, service.NewUnderwriter(underwriting), cfg.EventLog, cfg.Cache, inst),
		MakePayment: NewMakePaymentUseCase(
			cfg.UnitOfWork, service.NewPaymentProcessor(), cfg.EventLog, cfg.Cache, inst),
		GetDebtSummary: NewGetDebtSummaryUseCase(
			cfg.Players, cfg.Debts, service.NewPortfolioAnalyzer(portfolio), inst),
		CalculateCreditScore: NewCalculateCreditScoreUseCase(
			cfg.Players, cfg.Debts, service.NewCreditScoring(), cfg.Cache, inst),
		GetPlayerDebts: NewGetPlayerDebtsUseCase(cfg.Debts, inst),
		CalculatePayoffStrategy: NewCalculatePayoffStrategyUseCase(
			cfg.Debts, service.NewPayoffPlanner(cfg.Simulator, payoff), inst),
		GetPlayerState:    NewGetPlayerStateUseCase(cfg.Players, cfg.Debts, state, inst),
		CheckWinCondition: NewCheckWinConditionUseCase(cfg.Players, cfg.Debts, state, inst),
	}
}
