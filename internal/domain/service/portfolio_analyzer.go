package service

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cashflowgame/finance-service/internal/domain/model"
	"github.com/cashflowgame/finance-service/internal/domain/valueobject"
	"github.com/cashflowgame/finance-service/pkg/money"
)

// ---------------------------------------------------------------------------
// PortfolioAnalyzer – aggregate view over a player's active debts
// ---------------------------------------------------------------------------

// PortfolioPolicy holds the recommendation thresholds.
type PortfolioPolicy struct {
	HighDTIPercent       decimal.Decimal
	HighRatePercent      decimal.Decimal
	ConsolidationSavings decimal.Decimal
	EmergencyFundMonths  int
}

// DefaultPortfolioPolicy returns the standard thresholds.
func DefaultPortfolioPolicy() PortfolioPolicy {
	return PortfolioPolicy{
		HighDTIPercent:       decimal.NewFromInt(40),
		HighRatePercent:      decimal.NewFromInt(12),
		ConsolidationSavings: decimal.NewFromInt(5_000),
		EmergencyFundMonths:  3,
	}
}

// PortfolioAnalyzer summarizes debt portfolios.
type PortfolioAnalyzer struct {
	policy PortfolioPolicy
}

// NewPortfolioAnalyzer returns an analyzer for the given policy.
func NewPortfolioAnalyzer(policy PortfolioPolicy) *PortfolioAnalyzer {
	return &PortfolioAnalyzer{policy: policy}
}

var hundred = decimal.NewFromInt(100)

// Summarize aggregates the player's active debts. Paid-off debts in debts are
// ignored. A player without active debts gets an empty summary carrying only
// the emergency fund recommendation.
func (a *PortfolioAnalyzer) Summarize(player model.Player, debts []model.Debt, now time.Time) model.DebtSummary {
	active := model.ActiveDebts(debts)
	income := player.Account.MonthlyIncome()

	if len(active) == 0 {
		return model.DebtSummary{
			PlayerID:               player.ID,
			TotalDebt:              decimal.Zero,
			TotalMonthlyPayments:   decimal.Zero,
			AverageInterestRate:    decimal.Zero,
			DebtToIncomeRatio:      decimal.Zero,
			TotalRemainingInterest: decimal.Zero,
			Breakdown:              []model.TypeBreakdown{},
			UpcomingPayments:       []model.UpcomingPayment{},
			Recommendations:        []model.Recommendation{a.emergencyFund(income)},
		}
	}

	summary := model.DebtSummary{
		PlayerID:        player.ID,
		ActiveDebtCount: len(active),
	}

	rateSum := decimal.Zero
	remaining := decimal.Zero
	for _, d := range active {
		summary.TotalDebt = summary.TotalDebt.Add(d.CurrentBalance())
		summary.TotalMonthlyPayments = summary.TotalMonthlyPayments.Add(d.MonthlyPayment())
		rateSum = rateSum.Add(d.InterestRate())
		remaining = remaining.Add(d.RemainingInterest())
		if m := d.PayoffTimelineMonths(); m > summary.PayoffTimelineMonths {
			summary.PayoffTimelineMonths = m
		}
	}
	summary.AverageInterestRate = money.Cents(rateSum.Div(decimal.NewFromInt(int64(len(active)))))
	summary.TotalRemainingInterest = remaining
	summary.DebtToIncomeRatio = debtToIncomePercent(summary.TotalMonthlyPayments, income)
	summary.Breakdown = breakdownByType(active, summary.TotalDebt)
	summary.UpcomingPayments = upcomingPayments(active, now)
	summary.Recommendations = a.recommend(player, active, summary)

	return summary
}

// debtToIncomePercent reports 100 for a player with payments but no income.
func debtToIncomePercent(payments, income decimal.Decimal) decimal.Decimal {
	if !income.IsPositive() {
		if payments.IsPositive() {
			return hundred
		}
		return decimal.Zero
	}
	return money.Percent(payments, income)
}

func breakdownByType(active []model.Debt, total decimal.Decimal) []model.TypeBreakdown {
	byType := make(map[valueobject.DebtType]*model.TypeBreakdown)
	for _, d := range active {
		b, ok := byType[d.Type()]
		if !ok {
			b = &model.TypeBreakdown{Type: d.Type(), AverageRate: decimal.Zero}
			byType[d.Type()] = b
		}
		b.Count++
		b.TotalBalance = b.TotalBalance.Add(d.CurrentBalance())
		b.TotalMonthlyPayment = b.TotalMonthlyPayment.Add(d.MonthlyPayment())
		// running mean: avg += (x - avg) / n
		b.AverageRate = b.AverageRate.Add(d.InterestRate().Sub(b.AverageRate).Div(decimal.NewFromInt(int64(b.Count))))
	}

	out := make([]model.TypeBreakdown, 0, len(byType))
	for _, t := range valueobject.AllDebtTypes() {
		b, ok := byType[t]
		if !ok {
			continue
		}
		b.AverageRate = money.Cents(b.AverageRate)
		b.PercentOfTotal = money.Percent(b.TotalBalance, total)
		out = append(out, *b)
	}
	return out
}

func upcomingPayments(active []model.Debt, now time.Time) []model.UpcomingPayment {
	out := make([]model.UpcomingPayment, 0, len(active))
	for _, d := range active {
		out = append(out, model.UpcomingPayment{
			DebtID:       d.ID(),
			Type:         d.Type(),
			Amount:       d.MonthlyPayment(),
			DueDate:      d.DueDate(),
			DaysUntilDue: int(math.Floor(d.DueDate().Sub(now).Hours() / 24)),
			IsOverdue:    d.IsOverdue(now),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DueDate.Before(out[j].DueDate)
	})
	return out
}

func (a *PortfolioAnalyzer) recommend(player model.Player, active []model.Debt, s model.DebtSummary) []model.Recommendation {
	recs := []model.Recommendation{}

	if s.DebtToIncomeRatio.GreaterThan(a.policy.HighDTIPercent) {
		recs = append(recs, model.Recommendation{
			Kind:  model.RecommendationPayoffStrategy,
			Title: "Follow a payoff strategy",
			Description: fmt.Sprintf("Debt payments take %s%% of your monthly income. Compare the snowball and avalanche plans and commit to one.",
				s.DebtToIncomeRatio.StringFixed(2)),
			EstimatedSavings: decimal.Zero,
		})
	}

	highRate := 0
	for _, d := range active {
		if d.InterestRate().GreaterThan(a.policy.HighRatePercent) {
			highRate++
		}
	}
	if highRate > 1 {
		recs = append(recs, model.Recommendation{
			Kind:  model.RecommendationConsolidation,
			Title: "Consolidate high-interest debt",
			Description: fmt.Sprintf("You carry %d debts above %s%% interest. Folding them into one lower-rate loan cuts interest.",
				highRate, a.policy.HighRatePercent.String()),
			EstimatedSavings: a.policy.ConsolidationSavings,
		})
	}

	income := player.Account.MonthlyIncome()
	target := income.Mul(decimal.NewFromInt(int64(a.policy.EmergencyFundMonths)))
	if player.Account.Savings.LessThan(target) {
		recs = append(recs, a.emergencyFund(income))
	}
	return recs
}

func (a *PortfolioAnalyzer) emergencyFund(income decimal.Decimal) model.Recommendation {
	target := income.Mul(decimal.NewFromInt(int64(a.policy.EmergencyFundMonths)))
	return model.Recommendation{
		Kind:  model.RecommendationEmergencyFund,
		Title: "Build an emergency fund",
		Description: fmt.Sprintf("Keep at least %d months of income (%s) in savings before taking on risk.",
			a.policy.EmergencyFundMonths, target.StringFixed(2)),
		EstimatedSavings: decimal.Zero,
	}
}
