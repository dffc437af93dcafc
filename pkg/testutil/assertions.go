package testutil

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// AssertErrorContains checks that err contains the expected substring.
func AssertErrorContains(t *testing.T, err error, expected string) {
	t.Helper()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), expected)
}

// AssertDecimal compares decimals by value, so 10 and 10.00 are equal.
func AssertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) bool {
	t.Helper()
	w := decimal.RequireFromString(want)
	if w.Equal(got) {
		return true
	}
	return assert.Fail(t, "decimals differ: want "+w.String()+", got "+got.String(), msgAndArgs...)
}

// AssertDecimalWithin checks |want-got| <= tolerance.
func AssertDecimalWithin(t *testing.T, want string, got decimal.Decimal, tolerance string, msgAndArgs ...interface{}) bool {
	t.Helper()
	w := decimal.RequireFromString(want)
	tol := decimal.RequireFromString(tolerance)
	if w.Sub(got).Abs().LessThanOrEqual(tol) {
		return true
	}
	return assert.Fail(t, "decimal out of tolerance: want "+w.String()+"±"+tol.String()+", got "+got.String(), msgAndArgs...)
}
