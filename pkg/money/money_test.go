package money

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestCents(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2224.444", "2224.44"},
		{"2224.445", "2224.45"},
		{"-1.005", "-1.01"},
		{"10", "10"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := Cents(decimal.RequireFromString(tt.in))
			if !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("Cents(%s) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestParse(t *testing.T) {
	got, err := Parse("100000.129")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(decimal.RequireFromString("100000.13")) {
		t.Errorf("Parse = %s, want 100000.13", got)
	}

	if _, err := Parse("ten"); err == nil {
		t.Error("expected error for non-numeric amount")
	}
}

func TestMonthlyRate(t *testing.T) {
	got := MonthlyRate(decimal.NewFromInt(12))
	if !got.Equal(decimal.RequireFromString("0.01")) {
		t.Errorf("MonthlyRate(12) = %s, want 0.01", got)
	}
	if !MonthlyRate(decimal.Zero).IsZero() {
		t.Error("MonthlyRate(0) should be zero")
	}
}

func TestPercent(t *testing.T) {
	got := Percent(decimal.NewFromInt(1), decimal.NewFromInt(3))
	if !got.Equal(decimal.RequireFromString("33.33")) {
		t.Errorf("Percent(1,3) = %s, want 33.33", got)
	}
	if !Percent(decimal.NewFromInt(5), decimal.Zero).IsZero() {
		t.Error("Percent with zero whole should be zero")
	}
}

func TestNonNegativeAndClamp(t *testing.T) {
	if !NonNegative(decimal.NewFromInt(-5)).IsZero() {
		t.Error("NonNegative(-5) should be zero")
	}
	if !NonNegative(decimal.NewFromInt(5)).Equal(decimal.NewFromInt(5)) {
		t.Error("NonNegative(5) should be 5")
	}

	lo, hi := decimal.NewFromInt(300), decimal.NewFromInt(850)
	if !Clamp(decimal.NewFromInt(900), lo, hi).Equal(hi) {
		t.Error("Clamp above range should return hi")
	}
	if !Clamp(decimal.NewFromInt(100), lo, hi).Equal(lo) {
		t.Error("Clamp below range should return lo")
	}
	if !Clamp(decimal.NewFromInt(600), lo, hi).Equal(decimal.NewFromInt(600)) {
		t.Error("Clamp inside range should be identity")
	}
}

func TestSum(t *testing.T) {
	got := Sum(decimal.NewFromInt(1), decimal.RequireFromString("2.50"), decimal.NewFromInt(-1))
	if !got.Equal(decimal.RequireFromString("2.5")) {
		t.Errorf("Sum = %s, want 2.5", got)
	}
	if !Sum().IsZero() {
		t.Error("empty Sum should be zero")
	}
}
