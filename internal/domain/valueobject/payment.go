package valueobject

import (
	"fmt"
	"strings"
)

// ---------------------------------------------------------------------------
// FundingSource – the player account a payment is drawn from
// ---------------------------------------------------------------------------

// FundingSource names a liquid player account field.
type FundingSource struct {
	value string
}

const (
	fundingSourceCash    = "cash"
	fundingSourceSavings = "savings"
)

var (
	FundingSourceCash    = FundingSource{value: fundingSourceCash}
	FundingSourceSavings = FundingSource{value: fundingSourceSavings}
)

var validFundingSources = map[string]FundingSource{
	fundingSourceCash:    FundingSourceCash,
	fundingSourceSavings: FundingSourceSavings,
}

// NewFundingSource parses a source account name.
func NewFundingSource(s string) (FundingSource, error) {
	v, ok := validFundingSources[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return FundingSource{}, fmt.Errorf("invalid funding source: %q", s)
	}
	return v, nil
}

func (s FundingSource) String() string                 { return s.value }
func (s FundingSource) IsZero() bool                   { return s.value == "" }
func (s FundingSource) Equal(other FundingSource) bool { return s.value == other.value }

// ---------------------------------------------------------------------------
// PaymentType – caller intent recorded on payment events
// ---------------------------------------------------------------------------

// PaymentType describes why a payment was made. It does not change how the
// payment is split.
type PaymentType struct {
	value string
}

const (
	paymentTypeRegular = "regular"
	paymentTypeExtra   = "extra"
	paymentTypePayoff  = "payoff"
)

var (
	PaymentTypeRegular = PaymentType{value: paymentTypeRegular}
	PaymentTypeExtra   = PaymentType{value: paymentTypeExtra}
	PaymentTypePayoff  = PaymentType{value: paymentTypePayoff}
)

var validPaymentTypes = map[string]PaymentType{
	paymentTypeRegular: PaymentTypeRegular,
	paymentTypeExtra:   PaymentTypeExtra,
	paymentTypePayoff:  PaymentTypePayoff,
}

// NewPaymentType parses a payment type. An empty string means regular.
func NewPaymentType(s string) (PaymentType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return PaymentTypeRegular, nil
	}
	v, ok := validPaymentTypes[s]
	if !ok {
		return PaymentType{}, fmt.Errorf("invalid payment type: %q", s)
	}
	return v, nil
}

func (p PaymentType) String() string               { return p.value }
func (p PaymentType) IsZero() bool                 { return p.value == "" }
func (p PaymentType) Equal(other PaymentType) bool { return p.value == other.value }
