package service

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cashflowgame/finance-service/internal/domain/model"
	"github.com/cashflowgame/finance-service/internal/domain/valueobject"
	"github.com/cashflowgame/finance-service/pkg/money"
)

// ---------------------------------------------------------------------------
// CreditScoring – weighted heuristic score in [300, 850]
// ---------------------------------------------------------------------------

var (
	onTimeTarget       = decimal.RequireFromString("0.95")
	onTimeMultiplier   = decimal.NewFromInt(200)
	utilizationTarget  = decimal.RequireFromString("0.30")
	utilizationFloor   = decimal.NewFromInt(-150)
	utilizationScale   = decimal.NewFromInt(100)
	creditMixPerType   = decimal.NewFromInt(10)
	newCreditPenalty   = decimal.NewFromInt(-20)
	newCreditWindow    = 6 // months
	newCreditMaxOpened = 2
	creditMixMaxTypes  = 3
)

// Fixed improvement tips keyed by the factor that triggered them.
const (
	tipPaymentHistory = "Pay every installment by its due date; overdue debts weigh most on your score."
	tipUtilization    = "Bring total balances below 30% of your annual income to improve utilization."
	tipNewCredit      = "Avoid opening more than two loans within six months."
	tipFairTier       = "Clear overdue payments before taking on any new debt."
	tipPoorTier       = "Rebuild your score with small, consistent on-time payments and no new loans."
	tipAllGood        = "Your credit is in great shape. Keep paying on time."
)

// CreditProfile is the input to a score: the player's account and every debt
// they ever held.
type CreditProfile struct {
	PlayerID int64
	Account  model.PlayerAccount
	Debts    []model.Debt
}

// CreditScoring computes credit scores. It is stateless.
type CreditScoring struct{}

// NewCreditScoring returns a scoring engine.
func NewCreditScoring() *CreditScoring {
	return &CreditScoring{}
}

// Score starts from 750 and applies five independent adjustments, then rounds
// and clamps the result to [300, 850].
func (s *CreditScoring) Score(p CreditProfile, now time.Time) model.CreditScore {
	var factors []model.CreditFactor

	if f, ok := paymentHistoryFactor(p.Debts, now); ok {
		factors = append(factors, f)
	}
	if f, ok := utilizationFactor(p.Account, p.Debts); ok {
		factors = append(factors, f)
	}
	factors = append(factors,
		model.CreditFactor{
			Category:    valueobject.FactorHistoryLength,
			Label:       "Credit history length",
			Impact:      valueobject.FactorImpactNeutral,
			Adjustment:  decimal.Zero,
			Description: "insufficient data",
		},
		creditMixFactor(p.Debts),
		newCreditFactor(p.Debts, now),
	)

	raw := decimal.NewFromInt(model.BaseCreditScore)
	for _, f := range factors {
		raw = raw.Add(f.Adjustment)
	}
	raw = money.Clamp(raw.Round(0), decimal.NewFromInt(model.MinCreditScore), decimal.NewFromInt(model.MaxCreditScore))
	score := int(raw.IntPart())

	return model.CreditScore{
		PlayerID:     p.PlayerID,
		Score:        score,
		Rating:       valueobject.RatingForScore(score),
		Factors:      factors,
		Tips:         improvementTips(factors, score),
		CalculatedAt: now,
	}
}

func paymentHistoryFactor(debts []model.Debt, now time.Time) (model.CreditFactor, bool) {
	if len(debts) == 0 {
		return model.CreditFactor{}, false
	}
	onTime := 0
	for _, d := range debts {
		if !d.IsOverdue(now) {
			onTime++
		}
	}
	ratio := decimal.NewFromInt(int64(onTime)).Div(decimal.NewFromInt(int64(len(debts))))
	adj := ratio.Sub(onTimeTarget).Mul(onTimeMultiplier)

	return model.CreditFactor{
		Category:    valueobject.FactorPaymentHistory,
		Label:       "Payment history",
		Impact:      impactOf(adj),
		Adjustment:  adj,
		Description: fmt.Sprintf("%d of %d debts are current", onTime, len(debts)),
	}, true
}

func utilizationFactor(acct model.PlayerAccount, debts []model.Debt) (model.CreditFactor, bool) {
	balance := decimal.Zero
	for _, d := range model.ActiveDebts(debts) {
		balance = balance.Add(d.CurrentBalance())
	}
	if balance.IsZero() {
		return model.CreditFactor{}, false
	}

	annual := acct.MonthlyIncome().Mul(decimal.NewFromInt(12))
	if !annual.IsPositive() {
		return model.CreditFactor{
			Category:    valueobject.FactorUtilization,
			Label:       "Credit utilization",
			Impact:      valueobject.FactorImpactNegative,
			Adjustment:  utilizationFloor,
			Description: "outstanding debt with no income",
		}, true
	}

	utilization := balance.Div(annual)
	adj := utilizationTarget.Sub(utilization).Mul(utilizationScale)
	if adj.LessThan(utilizationFloor) {
		adj = utilizationFloor
	}
	return model.CreditFactor{
		Category:    valueobject.FactorUtilization,
		Label:       "Credit utilization",
		Impact:      impactOf(adj),
		Adjustment:  adj,
		Description: fmt.Sprintf("balances are %s%% of annual income", money.Percent(balance, annual).StringFixed(1)),
	}, true
}

func creditMixFactor(debts []model.Debt) model.CreditFactor {
	seen := make(map[valueobject.DebtType]struct{}, 4)
	for _, d := range debts {
		seen[d.Type()] = struct{}{}
	}
	n := min(len(seen), creditMixMaxTypes)
	adj := creditMixPerType.Mul(decimal.NewFromInt(int64(n)))

	return model.CreditFactor{
		Category:    valueobject.FactorCreditMix,
		Label:       "Credit mix",
		Impact:      impactOf(adj),
		Adjustment:  adj,
		Description: fmt.Sprintf("%d distinct loan types on record", len(seen)),
	}
}

func newCreditFactor(debts []model.Debt, now time.Time) model.CreditFactor {
	since := now.AddDate(0, -newCreditWindow, 0)
	opened := 0
	for _, d := range debts {
		if d.CreatedAt().After(since) {
			opened++
		}
	}
	if opened > newCreditMaxOpened {
		return model.CreditFactor{
			Category:    valueobject.FactorNewCredit,
			Label:       "New credit",
			Impact:      valueobject.FactorImpactNegative,
			Adjustment:  newCreditPenalty,
			Description: fmt.Sprintf("%d loans opened in the last %d months", opened, newCreditWindow),
		}
	}
	return model.CreditFactor{
		Category:    valueobject.FactorNewCredit,
		Label:       "New credit",
		Impact:      valueobject.FactorImpactPositive,
		Adjustment:  decimal.Zero,
		Description: "few recent credit applications",
	}
}

func improvementTips(factors []model.CreditFactor, score int) []string {
	var tips []string
	for _, f := range factors {
		if !f.Impact.Equal(valueobject.FactorImpactNegative) {
			continue
		}
		switch f.Category {
		case valueobject.FactorPaymentHistory:
			tips = append(tips, tipPaymentHistory)
		case valueobject.FactorUtilization:
			tips = append(tips, tipUtilization)
		case valueobject.FactorNewCredit:
			tips = append(tips, tipNewCredit)
		}
	}

	switch valueobject.RatingForScore(score) {
	case valueobject.CreditRatingFair:
		tips = append(tips, tipFairTier)
	case valueobject.CreditRatingPoor:
		tips = append(tips, tipPoorTier)
	}

	if len(tips) == 0 {
		tips = append(tips, tipAllGood)
	}
	return tips
}

func impactOf(adj decimal.Decimal) valueobject.FactorImpact {
	switch adj.Sign() {
	case 1:
		return valueobject.FactorImpactPositive
	case -1:
		return valueobject.FactorImpactNegative
	default:
		return valueobject.FactorImpactNeutral
	}
}
