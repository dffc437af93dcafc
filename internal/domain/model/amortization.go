package model

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cashflowgame/finance-service/pkg/money"
)

// MaxSimulationMonths bounds every forward projection to thirty years.
const MaxSimulationMonths = 360

// powPrecision is the number of fractional digits kept while compounding.
const powPrecision = 20

// timelineSlack absorbs the cent rounding of an installment so that a freshly
// amortized loan reports its nominal term rather than one extra month.
const timelineSlack = 1e-3

// AmortizationEntry is an immutable value object representing one period in an
// amortization schedule.
type AmortizationEntry struct {
	DueDate          time.Time
	Principal        decimal.Decimal
	Interest         decimal.Decimal
	Total            decimal.Decimal
	RemainingBalance decimal.Decimal
	Period           int
}

// LoanTerms summarizes a newly amortized loan.
type LoanTerms struct {
	MonthlyPayment decimal.Decimal
	TotalPayments  decimal.Decimal
	TotalInterest  decimal.Decimal
	FirstDueDate   time.Time
	TermMonths     int
}

// MonthlyPayment returns the fixed installment that amortizes principal over
// termMonths at annualRatePct:
//
//	r       = annualRatePct / 100 / 12
//	payment = P * r * (1+r)^n / ((1+r)^n - 1)
//
// A zero rate splits the principal evenly. The result is rounded to cents.
func MonthlyPayment(principal, annualRatePct decimal.Decimal, termMonths int) decimal.Decimal {
	if termMonths <= 0 || !principal.IsPositive() {
		return decimal.Zero
	}
	r := money.MonthlyRate(annualRatePct)
	if r.IsZero() {
		return money.Cents(principal.Div(decimal.NewFromInt(int64(termMonths))))
	}
	factor := compound(r, termMonths)
	payment := principal.Mul(r).Mul(factor).Div(factor.Sub(decimal.NewFromInt(1)))
	return money.Cents(payment)
}

// MonthlyInterest is one billing period of interest on balance, in cents.
func MonthlyInterest(balance, annualRatePct decimal.Decimal) decimal.Decimal {
	return money.Cents(balance.Mul(money.MonthlyRate(annualRatePct)))
}

// RemainingInterest projects the interest still to be paid if the borrower
// keeps paying monthlyPayment. The projection stops after MaxSimulationMonths,
// or as soon as an installment would no longer reduce principal, returning the
// interest accumulated up to that point.
func RemainingInterest(balance, monthlyPayment, annualRatePct decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	remaining := balance
	for i := 0; i < MaxSimulationMonths && remaining.IsPositive(); i++ {
		interest := MonthlyInterest(remaining, annualRatePct)
		principal := monthlyPayment.Sub(interest)
		if !principal.IsPositive() {
			break
		}
		total = total.Add(interest)
		remaining = money.NonNegative(remaining.Sub(principal))
	}
	return total
}

// PayoffTimelineMonths estimates how many installments remain using the
// closed-form annuity count n = -ln(1 - rB/P) / ln(1+r). It returns
// MaxSimulationMonths when the payment does not cover the monthly interest.
func PayoffTimelineMonths(balance, monthlyPayment, annualRatePct decimal.Decimal) int {
	if !balance.IsPositive() {
		return 0
	}
	if !monthlyPayment.IsPositive() {
		return MaxSimulationMonths
	}
	r := money.MonthlyRate(annualRatePct)
	if r.IsZero() {
		return int(balance.Div(monthlyPayment).Ceil().IntPart())
	}
	if monthlyPayment.LessThanOrEqual(balance.Mul(r)) {
		return MaxSimulationMonths
	}

	rf := r.InexactFloat64()
	ratio := balance.Mul(r).Div(monthlyPayment).InexactFloat64()
	n := -math.Log(1-ratio) / math.Log(1+rf)
	months := int(math.Ceil(n - timelineSlack))
	if months < 1 {
		months = 1
	}
	return months
}

// FirstDueDate is the first day of the month following now.
func FirstDueDate(now time.Time) time.Time {
	y, m, _ := now.Date()
	return time.Date(y, m+1, 1, 0, 0, 0, 0, now.Location())
}

// ComputeLoanTerms amortizes a new loan originated at now.
func ComputeLoanTerms(principal, annualRatePct decimal.Decimal, termMonths int, now time.Time) LoanTerms {
	payment := MonthlyPayment(principal, annualRatePct, termMonths)
	total := payment.Mul(decimal.NewFromInt(int64(termMonths)))
	return LoanTerms{
		MonthlyPayment: payment,
		TotalPayments:  total,
		TotalInterest:  money.NonNegative(total.Sub(principal)),
		FirstDueDate:   FirstDueDate(now),
		TermMonths:     termMonths,
	}
}

// GenerateAmortizationSchedule lists every installment of a fixed-payment loan.
// The first installment falls on FirstDueDate(start); the last one absorbs
// rounding so the balance ends at exactly zero.
func GenerateAmortizationSchedule(
	principal, annualRatePct decimal.Decimal,
	termMonths int,
	start time.Time,
) []AmortizationEntry {
	if termMonths <= 0 || !principal.IsPositive() {
		return nil
	}

	payment := MonthlyPayment(principal, annualRatePct, termMonths)
	first := FirstDueDate(start)
	schedule := make([]AmortizationEntry, 0, termMonths)
	remaining := principal

	for period := 1; period <= termMonths; period++ {
		interest := MonthlyInterest(remaining, annualRatePct)
		principalPart := payment.Sub(interest)

		if period == termMonths || principalPart.GreaterThan(remaining) {
			principalPart = remaining
		}
		remaining = remaining.Sub(principalPart)

		schedule = append(schedule, AmortizationEntry{
			Period:           period,
			DueDate:          first.AddDate(0, period-1, 0),
			Principal:        principalPart,
			Interest:         interest,
			Total:            principalPart.Add(interest),
			RemainingBalance: remaining,
		})
		if remaining.IsZero() {
			break
		}
	}

	return schedule
}

// compound returns (1+rate)^n by repeated squaring, truncating intermediates
// to powPrecision digits.
func compound(rate decimal.Decimal, n int) decimal.Decimal {
	result := decimal.NewFromInt(1)
	base := result.Add(rate)
	for n > 0 {
		if n&1 == 1 {
			result = result.Mul(base).Truncate(powPrecision)
		}
		base = base.Mul(base).Truncate(powPrecision)
		n >>= 1
	}
	return result
}
