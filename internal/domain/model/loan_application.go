package model

import (
	"errors"

	"github.com/shopspring/decimal"
)

// DefaultLoanTermMonths applies when an application does not ask for a term.
const DefaultLoanTermMonths = 60

// LoanApplication is a transient request for new credit. RequestedType is kept
// raw so that underwriting can apply the unknown-product fallback.
type LoanApplication struct {
	PlayerID      int64
	RequestedType string
	Amount        decimal.Decimal
	Purpose       string
	CollateralRef string
	// TermMonths is zero when the player accepts the default term.
	TermMonths int
}

// Term returns the requested term or defaultTerm when none was given.
func (a LoanApplication) Term(defaultTerm int) int {
	if a.TermMonths > 0 {
		return a.TermMonths
	}
	return defaultTerm
}

// Validate checks the shape of the application, not eligibility.
func (a LoanApplication) Validate() error {
	if a.PlayerID <= 0 {
		return errors.New("player ID is required")
	}
	if !a.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if a.TermMonths < 0 {
		return errors.New("term months must not be negative")
	}
	return nil
}
