package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/cashflowgame/finance-service/internal/domain/service"
	"github.com/cashflowgame/finance-service/internal/domain/valueobject"
)

// Payoff simulators selectable from the rules file.
const (
	SimulatorQuick      = "quick"
	SimulatorAmortizing = "amortizing"
)

// Rules are the tunable game thresholds. Keys missing from the YAML file keep
// their standard values.
type Rules struct {
	Underwriting UnderwritingRules `yaml:"underwriting"`
	Portfolio    PortfolioRules    `yaml:"portfolio"`
	Payoff       PayoffRules       `yaml:"payoff"`
	Win          WinRules          `yaml:"win"`
}

type UnderwritingRules struct {
	// Rates maps debt type names to annual percentage rates.
	Rates               map[string]decimal.Decimal `yaml:"rates"`
	MinMonthlyIncome    decimal.Decimal            `yaml:"min_monthly_income"`
	MaxDebtToIncome     decimal.Decimal            `yaml:"max_debt_to_income"`
	MaxLoanIncomeMonths int                        `yaml:"max_loan_income_months"`
	DefaultTermMonths   int                        `yaml:"default_term_months"`
	MaxTermMonths       int                        `yaml:"max_term_months"`
}

type PortfolioRules struct {
	HighDTIPercent       decimal.Decimal `yaml:"high_dti_percent"`
	HighRatePercent      decimal.Decimal `yaml:"high_rate_percent"`
	ConsolidationSavings decimal.Decimal `yaml:"consolidation_savings"`
	EmergencyFundMonths  int             `yaml:"emergency_fund_months"`
}

type PayoffRules struct {
	Simulator                string          `yaml:"simulator"`
	MaxSimulationMonths      int             `yaml:"max_simulation_months"`
	SnowballSavingsThreshold decimal.Decimal `yaml:"snowball_savings_threshold"`
	SnowballMinDebts         int             `yaml:"snowball_min_debts"`
}

type WinRules struct {
	NetWorthTarget decimal.Decimal `yaml:"net_worth_target"`
	CashFlowTarget decimal.Decimal `yaml:"cash_flow_target"`
}

// DefaultRules returns the standard game rules.
func DefaultRules() Rules {
	uw := service.DefaultUnderwritingPolicy()
	rates := make(map[string]decimal.Decimal, len(uw.Rates))
	for t, r := range uw.Rates {
		rates[t.String()] = r
	}
	pf := service.DefaultPortfolioPolicy()
	po := service.DefaultPayoffPolicy()
	win := service.DefaultWinPolicy()

	return Rules{
		Underwriting: UnderwritingRules{
			Rates:               rates,
			MinMonthlyIncome:    uw.MinMonthlyIncome,
			MaxDebtToIncome:     uw.MaxDebtToIncome,
			MaxLoanIncomeMonths: uw.MaxLoanIncomeMonths,
			DefaultTermMonths:   uw.DefaultTermMonths,
			MaxTermMonths:       uw.MaxTermMonths,
		},
		Portfolio: PortfolioRules{
			HighDTIPercent:       pf.HighDTIPercent,
			HighRatePercent:      pf.HighRatePercent,
			ConsolidationSavings: pf.ConsolidationSavings,
			EmergencyFundMonths:  pf.EmergencyFundMonths,
		},
		Payoff: PayoffRules{
			Simulator:                SimulatorQuick,
			MaxSimulationMonths:      600,
			SnowballSavingsThreshold: po.SnowballSavingsThreshold,
			SnowballMinDebts:         po.SnowballMinDebts,
		},
		Win: WinRules{
			NetWorthTarget: win.NetWorthTarget,
			CashFlowTarget: win.CashFlowTarget,
		},
	}
}

// LoadRules returns DefaultRules when path is empty, otherwise the defaults
// overlaid with the YAML file at path.
func LoadRules(path string) (Rules, error) {
	rules := DefaultRules()
	if path == "" {
		return rules, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("read rules file: %w", err)
	}
	return ParseRules(raw)
}

// ParseRules decodes YAML over DefaultRules and validates the result.
func ParseRules(raw []byte) (Rules, error) {
	rules := DefaultRules()
	if err := yaml.Unmarshal(raw, &rules); err != nil {
		return Rules{}, fmt.Errorf("decode rules: %w", err)
	}
	if err := rules.Validate(); err != nil {
		return Rules{}, err
	}
	return rules, nil
}

// Validate reports every rule that is out of range.
func (r Rules) Validate() error {
	var errs []error
	positive := func(name string, v decimal.Decimal) {
		if !v.IsPositive() {
			errs = append(errs, fmt.Errorf("%s must be positive, got %s", name, v))
		}
	}

	for name, rate := range r.Underwriting.Rates {
		if _, err := valueobject.NewDebtType(name); err != nil {
			errs = append(errs, fmt.Errorf("underwriting.rates: %w", err))
		}
		if rate.IsNegative() {
			errs = append(errs, fmt.Errorf("underwriting.rates.%s must not be negative", name))
		}
	}
	positive("underwriting.min_monthly_income", r.Underwriting.MinMonthlyIncome)
	positive("underwriting.max_debt_to_income", r.Underwriting.MaxDebtToIncome)
	if r.Underwriting.MaxLoanIncomeMonths <= 0 {
		errs = append(errs, errors.New("underwriting.max_loan_income_months must be positive"))
	}
	if r.Underwriting.MaxTermMonths <= 0 {
		errs = append(errs, errors.New("underwriting.max_term_months must be positive"))
	}
	if r.Underwriting.DefaultTermMonths <= 0 || r.Underwriting.DefaultTermMonths > r.Underwriting.MaxTermMonths {
		errs = append(errs, fmt.Errorf("underwriting.default_term_months must be within 1..%d", r.Underwriting.MaxTermMonths))
	}

	positive("portfolio.high_dti_percent", r.Portfolio.HighDTIPercent)
	positive("portfolio.high_rate_percent", r.Portfolio.HighRatePercent)
	if r.Portfolio.ConsolidationSavings.IsNegative() {
		errs = append(errs, errors.New("portfolio.consolidation_savings must not be negative"))
	}
	if r.Portfolio.EmergencyFundMonths < 0 {
		errs = append(errs, errors.New("portfolio.emergency_fund_months must not be negative"))
	}

	switch r.Payoff.Simulator {
	case SimulatorQuick, SimulatorAmortizing:
	default:
		errs = append(errs, fmt.Errorf("payoff.simulator must be %q or %q, got %q", SimulatorQuick, SimulatorAmortizing, r.Payoff.Simulator))
	}
	if r.Payoff.MaxSimulationMonths <= 0 {
		errs = append(errs, errors.New("payoff.max_simulation_months must be positive"))
	}
	if r.Payoff.SnowballSavingsThreshold.IsNegative() {
		errs = append(errs, errors.New("payoff.snowball_savings_threshold must not be negative"))
	}

	positive("win.net_worth_target", r.Win.NetWorthTarget)
	positive("win.cash_flow_target", r.Win.CashFlowTarget)

	return errors.Join(errs...)
}

// UnderwritingPolicy converts the rules into the underwriter's policy.
func (r Rules) UnderwritingPolicy() service.UnderwritingPolicy {
	rates := valueobject.DefaultRateTable()
	for name, rate := range r.Underwriting.Rates {
		if t, err := valueobject.NewDebtType(name); err == nil {
			rates[t] = rate
		}
	}
	return service.UnderwritingPolicy{
		Rates:               rates,
		MinMonthlyIncome:    r.Underwriting.MinMonthlyIncome,
		MaxDebtToIncome:     r.Underwriting.MaxDebtToIncome,
		MaxLoanIncomeMonths: r.Underwriting.MaxLoanIncomeMonths,
		DefaultTermMonths:   r.Underwriting.DefaultTermMonths,
		MaxTermMonths:       r.Underwriting.MaxTermMonths,
	}
}

func (r Rules) PortfolioPolicy() service.PortfolioPolicy {
	return service.PortfolioPolicy{
		HighDTIPercent:       r.Portfolio.HighDTIPercent,
		HighRatePercent:      r.Portfolio.HighRatePercent,
		ConsolidationSavings: r.Portfolio.ConsolidationSavings,
		EmergencyFundMonths:  r.Portfolio.EmergencyFundMonths,
	}
}

func (r Rules) PayoffPolicy() service.PayoffPolicy {
	return service.PayoffPolicy{
		SnowballSavingsThreshold: r.Payoff.SnowballSavingsThreshold,
		SnowballMinDebts:         r.Payoff.SnowballMinDebts,
	}
}

// Simulator returns the payoff simulator the rules select.
func (r Rules) Simulator() service.PayoffSimulator {
	if r.Payoff.Simulator == SimulatorAmortizing {
		return service.AmortizingSimulator{MaxMonths: r.Payoff.MaxSimulationMonths}
	}
	return service.QuickEstimateSimulator{}
}

func (r Rules) WinPolicy() service.WinPolicy {
	return service.WinPolicy{
		NetWorthTarget: r.Win.NetWorthTarget,
		CashFlowTarget: r.Win.CashFlowTarget,
	}
}
