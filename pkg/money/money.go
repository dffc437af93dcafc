// Package money holds the decimal helpers shared by every monetary calculation
// in the finance engine. The game runs on a single currency, so amounts are
// plain decimals kept at cent precision.
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// CentPlaces is the number of fractional digits stored for an amount.
const CentPlaces = 2

var (
	hundred = decimal.NewFromInt(100)
	twelve  = decimal.NewFromInt(12)
)

// Cents rounds an amount half-away-from-zero to whole cents.
func Cents(d decimal.Decimal) decimal.Decimal {
	return d.Round(CentPlaces)
}

// Parse reads an amount from its string form and rounds it to cents.
func Parse(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return Cents(d), nil
}

// MonthlyRate converts an annual percentage (12.0 for 12%) into the monthly
// fraction used by amortization (0.01). The result is not rounded.
func MonthlyRate(annualPct decimal.Decimal) decimal.Decimal {
	return annualPct.Div(hundred).Div(twelve)
}

// Percent returns part/whole×100 rounded to cents, or zero when whole is zero.
func Percent(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return Cents(part.Div(whole).Mul(hundred))
}

// NonNegative floors an amount at zero.
func NonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// Clamp bounds d to [lo, hi].
func Clamp(d, lo, hi decimal.Decimal) decimal.Decimal {
	if d.LessThan(lo) {
		return lo
	}
	if d.GreaterThan(hi) {
		return hi
	}
	return d
}

// Sum adds amounts together.
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}
