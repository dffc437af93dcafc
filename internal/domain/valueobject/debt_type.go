package valueobject

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// DebtType – closed enumeration of loan products
// ---------------------------------------------------------------------------

// DebtType identifies the loan product a debt was originated under.
type DebtType struct {
	value string
}

const (
	debtTypePersonal   = "personal"
	debtTypeBusiness   = "business"
	debtTypeInvestment = "investment"
	debtTypeEmergency  = "emergency"
)

var (
	DebtTypePersonal   = DebtType{value: debtTypePersonal}
	DebtTypeBusiness   = DebtType{value: debtTypeBusiness}
	DebtTypeInvestment = DebtType{value: debtTypeInvestment}
	DebtTypeEmergency  = DebtType{value: debtTypeEmergency}
)

var validDebtTypes = map[string]DebtType{
	debtTypePersonal:   DebtTypePersonal,
	debtTypeBusiness:   DebtTypeBusiness,
	debtTypeInvestment: DebtTypeInvestment,
	debtTypeEmergency:  DebtTypeEmergency,
}

// AllDebtTypes lists the products in a stable order.
func AllDebtTypes() []DebtType {
	return []DebtType{DebtTypePersonal, DebtTypeBusiness, DebtTypeInvestment, DebtTypeEmergency}
}

// NewDebtType parses a debt type. Matching ignores case and surrounding space.
func NewDebtType(s string) (DebtType, error) {
	v, ok := validDebtTypes[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return DebtType{}, fmt.Errorf("invalid debt type: %q", s)
	}
	return v, nil
}

func (t DebtType) String() string               { return t.value }
func (t DebtType) IsZero() bool                 { return t.value == "" }
func (t DebtType) Equal(other DebtType) bool    { return t.value == other.value }
func (t DebtType) MarshalText() ([]byte, error) { return []byte(t.value), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *DebtType) UnmarshalText(b []byte) error {
	v, err := NewDebtType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// ---------------------------------------------------------------------------
// RateTable – fixed annual rates per product
// ---------------------------------------------------------------------------

// RateTable maps each debt type to its annual interest rate in percent.
type RateTable map[DebtType]decimal.Decimal

// DefaultRateTable returns the standard product rates.
func DefaultRateTable() RateTable {
	return RateTable{
		DebtTypePersonal:   decimal.RequireFromString("12.0"),
		DebtTypeBusiness:   decimal.RequireFromString("8.5"),
		DebtTypeInvestment: decimal.RequireFromString("10.0"),
		DebtTypeEmergency:  decimal.RequireFromString("15.0"),
	}
}

// Rate returns the annual rate for t. Types missing from the table use the
// personal rate.
func (rt RateTable) Rate(t DebtType) decimal.Decimal {
	if r, ok := rt[t]; ok {
		return r
	}
	return rt[DebtTypePersonal]
}

// Resolve maps a requested product name to a debt type and its rate.
// Unrecognized names resolve to the personal product; fallback reports
// whether that happened.
func (rt RateTable) Resolve(requested string) (t DebtType, rate decimal.Decimal, fallback bool) {
	t, err := NewDebtType(requested)
	if err != nil {
		return DebtTypePersonal, rt.Rate(DebtTypePersonal), true
	}
	return t, rt.Rate(t), false
}
