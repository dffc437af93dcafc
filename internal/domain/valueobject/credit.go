package valueobject

import "fmt"

// ---------------------------------------------------------------------------
// CreditRating
// ---------------------------------------------------------------------------

// CreditRating is the tier a numeric credit score falls into.
type CreditRating struct {
	value string
}

var (
	CreditRatingExcellent = CreditRating{value: "excellent"}
	CreditRatingGood      = CreditRating{value: "good"}
	CreditRatingFair      = CreditRating{value: "fair"}
	CreditRatingPoor      = CreditRating{value: "poor"}
)

// RatingForScore maps a score to its tier.
func RatingForScore(score int) CreditRating {
	switch {
	case score >= 750:
		return CreditRatingExcellent
	case score >= 650:
		return CreditRatingGood
	case score >= 550:
		return CreditRatingFair
	default:
		return CreditRatingPoor
	}
}

func (r CreditRating) String() string                { return r.value }
func (r CreditRating) Equal(other CreditRating) bool { return r.value == other.value }
func (r CreditRating) MarshalText() ([]byte, error)  { return []byte(r.value), nil }

func (r *CreditRating) UnmarshalText(b []byte) error {
	for _, v := range []CreditRating{CreditRatingExcellent, CreditRatingGood, CreditRatingFair, CreditRatingPoor} {
		if v.value == string(b) {
			*r = v
			return nil
		}
	}
	return fmt.Errorf("invalid credit rating: %q", b)
}

// ---------------------------------------------------------------------------
// FactorImpact
// ---------------------------------------------------------------------------

// FactorImpact classifies how a scoring factor moved the score.
type FactorImpact struct {
	value string
}

var (
	FactorImpactPositive = FactorImpact{value: "positive"}
	FactorImpactNeutral  = FactorImpact{value: "neutral"}
	FactorImpactNegative = FactorImpact{value: "negative"}
)

func (i FactorImpact) String() string                { return i.value }
func (i FactorImpact) Equal(other FactorImpact) bool { return i.value == other.value }
func (i FactorImpact) MarshalText() ([]byte, error)  { return []byte(i.value), nil }

func (i *FactorImpact) UnmarshalText(b []byte) error {
	for _, v := range []FactorImpact{FactorImpactPositive, FactorImpactNeutral, FactorImpactNegative} {
		if v.value == string(b) {
			*i = v
			return nil
		}
	}
	return fmt.Errorf("invalid factor impact: %q", b)
}

// ---------------------------------------------------------------------------
// FactorCategory
// ---------------------------------------------------------------------------

// FactorCategory is one of the five weighted credit score categories.
type FactorCategory struct {
	value  string
	weight int
}

var (
	FactorPaymentHistory = FactorCategory{value: "payment_history", weight: 35}
	FactorUtilization    = FactorCategory{value: "credit_utilization", weight: 30}
	FactorHistoryLength  = FactorCategory{value: "credit_history_length", weight: 15}
	FactorCreditMix      = FactorCategory{value: "credit_mix", weight: 10}
	FactorNewCredit      = FactorCategory{value: "new_credit", weight: 10}
)

// Weight is the category's fixed share of the score, out of 100.
func (c FactorCategory) Weight() int                     { return c.weight }
func (c FactorCategory) String() string                  { return c.value }
func (c FactorCategory) Equal(other FactorCategory) bool { return c.value == other.value }
func (c FactorCategory) MarshalText() ([]byte, error)    { return []byte(c.value), nil }

// UnmarshalText restores the category together with its weight.
func (c *FactorCategory) UnmarshalText(b []byte) error {
	for _, v := range AllFactorCategories() {
		if v.value == string(b) {
			*c = v
			return nil
		}
	}
	return fmt.Errorf("invalid factor category: %q", b)
}

// AllFactorCategories lists the categories in scoring order.
func AllFactorCategories() []FactorCategory {
	return []FactorCategory{FactorPaymentHistory, FactorUtilization, FactorHistoryLength, FactorCreditMix, FactorNewCredit}
}
