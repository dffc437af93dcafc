package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cashflowgame/finance-service/internal/domain/model"
	"github.com/cashflowgame/finance-service/internal/domain/service"
	"github.com/cashflowgame/finance-service/internal/domain/valueobject"
	"github.com/cashflowgame/finance-service/pkg/testutil"
)

func application(amount, requestedType string, term int) model.LoanApplication {
	return model.LoanApplication{
		PlayerID:      testutil.TestPlayerID1,
		RequestedType: requestedType,
		Amount:        d(amount),
		Purpose:       "rental property",
		TermMonths:    term,
	}
}

func TestUnderwriter_Evaluate(t *testing.T) {
	uw := service.NewUnderwriter(service.DefaultUnderwritingPolicy())

	tests := []struct {
		name       string
		app        model.LoanApplication
		acct       model.PlayerAccount
		debts      []model.Debt
		approved   bool
		reason     string
		wantType   valueobject.DebtType
		wantRate   string
		wantTerm   int
		wantFallbk bool
	}{
		{
			name:     "exactly at the loan cap",
			app:      application("360000", "personal", 0),
			acct:     account("8000", "2000", "0", "0"),
			approved: true,
			reason:   "approved",
			wantType: valueobject.DebtTypePersonal,
			wantRate: "12.0",
			wantTerm: 60,
		},
		{
			name:   "one unit over the loan cap",
			app:    application("360001", "personal", 0),
			acct:   account("8000", "2000", "0", "0"),
			reason: "requested amount 360001.00 exceeds the maximum loan of 360000.00",
		},
		{
			name:   "income below minimum",
			app:    application("1000", "business", 0),
			acct:   account("9999.99", "0", "50000", "0"),
			reason: "monthly income 9999.99 is below the minimum of 10000.00",
		},
		{
			name:     "debt-to-income exactly at the maximum",
			app:      application("5000", "business", 24),
			acct:     account("10000", "0", "0", "0"),
			debts:    []model.Debt{debt(debtFields{balance: "90000", rate: "12", payment: "4000"})},
			approved: true,
			reason:   "approved",
			wantType: valueobject.DebtTypeBusiness,
			wantRate: "8.5",
			wantTerm: 24,
		},
		{
			name:   "debt-to-income above the maximum",
			app:    application("5000", "business", 24),
			acct:   account("10000", "0", "0", "0"),
			debts:  []model.Debt{debt(debtFields{balance: "90000", rate: "12", payment: "4000.01"})},
			reason: "debt-to-income ratio 40.00% exceeds the maximum of 40%",
		},
		{
			name: "paid-off debts do not count toward debt-to-income",
			app:  application("5000", "emergency", 0),
			acct: account("10000", "0", "0", "0"),
			debts: []model.Debt{
				debt(debtFields{balance: "0", rate: "12", payment: "9000", paidOff: true}),
			},
			approved: true,
			reason:   "approved",
			wantType: valueobject.DebtTypeEmergency,
			wantRate: "15.0",
			wantTerm: 60,
		},
		{
			name:       "unknown product falls back to personal",
			app:        application("20000", "yacht", 0),
			acct:       account("12000", "0", "0", "0"),
			approved:   true,
			reason:     "approved",
			wantType:   valueobject.DebtTypePersonal,
			wantRate:   "12.0",
			wantTerm:   60,
			wantFallbk: true,
		},
		{
			name:   "zero amount",
			app:    application("0", "personal", 0),
			acct:   account("12000", "0", "0", "0"),
			reason: "loan amount must be positive",
		},
		{
			name:   "term too long",
			app:    application("1000", "personal", 361),
			acct:   account("12000", "0", "0", "0"),
			reason: "term must be between 1 and 360 months",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := uw.Evaluate(service.UnderwritingInput{
				Application: tt.app,
				Account:     tt.acct,
				ActiveDebts: tt.debts,
			})

			assert.Equal(t, tt.approved, decision.Approved)
			assert.Equal(t, tt.reason, decision.Reason)
			if !tt.approved {
				return
			}
			assert.True(t, decision.DebtType.Equal(tt.wantType), "got type %s", decision.DebtType)
			testutil.AssertDecimal(t, tt.wantRate, decision.InterestRate)
			assert.Equal(t, tt.wantTerm, decision.TermMonths)
			assert.Equal(t, tt.wantFallbk, decision.TypeFallback)
		})
	}
}

func TestUnderwriter_ReportsRatios(t *testing.T) {
	uw := service.NewUnderwriter(service.DefaultUnderwritingPolicy())

	decision := uw.Evaluate(service.UnderwritingInput{
		Application: application("10000", "investment", 0),
		Account:     account("15000", "5000", "0", "0"),
		ActiveDebts: []model.Debt{debt(debtFields{balance: "30000", rate: "10", payment: "2000"})},
	})

	require.True(t, decision.Approved)
	testutil.AssertDecimal(t, "20000", decision.MonthlyIncome)
	testutil.AssertDecimal(t, "0.1", decision.DebtToIncome)
	testutil.AssertDecimal(t, "720000", decision.MaxLoanAmount)
}

func TestUnderwriter_NilRateTableUsesDefaults(t *testing.T) {
	policy := service.DefaultUnderwritingPolicy()
	policy.Rates = nil
	uw := service.NewUnderwriter(policy)

	assert.NotNil(t, uw.Policy().Rates)
	decision := uw.Evaluate(service.UnderwritingInput{
		Application: application("1000", "business", 0),
		Account:     account("10000", "0", "0", "0"),
	})
	require.True(t, decision.Approved)
	testutil.AssertDecimal(t, "8.5", decision.InterestRate)
}
