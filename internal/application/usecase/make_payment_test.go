package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cashflowgame/finance-service/internal/application/dto"
	"github.com/cashflowgame/finance-service/internal/application/usecase"
	"github.com/cashflowgame/finance-service/internal/domain/event"
	"github.com/cashflowgame/finance-service/internal/domain/model"
	"github.com/cashflowgame/finance-service/internal/domain/port"
	"github.com/cashflowgame/finance-service/internal/domain/service"
	"github.com/cashflowgame/finance-service/pkg/testutil"
)

type paymentFixture struct {
	players  *mockPlayerRepository
	debts    *mockDebtRepository
	eventLog *mockEventLog
	cache    *mockCreditScoreCache
	metrics  *mockMetrics
	uc       *usecase.MakePaymentUseCase
}

func newPaymentFixture(player *model.Player, debts ...model.Debt) *paymentFixture {
	f := &paymentFixture{
		players:  &mockPlayerRepository{player: player},
		debts:    newMockDebtRepository(debts...),
		eventLog: &mockEventLog{},
		cache:    &mockCreditScoreCache{},
		metrics:  &mockMetrics{},
	}
	uow := &mockUnitOfWork{repos: port.Repositories{Players: f.players, Debts: f.debts}}
	f.uc = usecase.NewMakePaymentUseCase(uow, service.NewPaymentProcessor(), f.eventLog, f.cache, testInstrumentation(f.metrics))
	return f
}

func paymentRequest(debtID, amount, from string) dto.MakePaymentRequest {
	return dto.MakePaymentRequest{
		PlayerID:    testutil.TestPlayerID1,
		DebtID:      debtID,
		Amount:      d(amount),
		FromAccount: from,
	}
}

func TestMakePayment_Execute(t *testing.T) {
	t.Run("regular installment", func(t *testing.T) {
		f := newPaymentFixture(testPlayer("10000", "5000", "0"),
			storedDebt("loan", testutil.TestPlayerID1, "100000", "12", "2224.44", false))

		resp := f.uc.Execute(context.Background(), paymentRequest("loan", "2224.44", "cash"))

		require.True(t, resp.Success, resp.Message)
		assert.Equal(t, "payment applied", resp.Message)
		testutil.AssertDecimal(t, "1000", resp.InterestPaid)
		testutil.AssertDecimal(t, "1224.44", resp.PrincipalPaid)
		testutil.AssertDecimal(t, "98775.56", resp.NewBalance)
		testutil.AssertDecimal(t, "2775.56", resp.NewAccountBalance)
		assert.Equal(t, "cash", resp.FromAccount)
		require.NotNil(t, resp.NextDueDate)
		assert.Equal(t, 5, int(resp.NextDueDate.Month()))
		assert.Equal(t, []string{event.TypePaymentApplied}, f.eventLog.types())
		assert.Equal(t, []int64{testutil.TestPlayerID1}, f.cache.invalidated)
	})

	t.Run("amount is rounded to cents", func(t *testing.T) {
		f := newPaymentFixture(testPlayer("10000", "5000", "0"),
			storedDebt("loan", testutil.TestPlayerID1, "100000", "12", "2224.44", false))

		resp := f.uc.Execute(context.Background(), paymentRequest("loan", "2224.444", "cash"))

		require.True(t, resp.Success, resp.Message)
		testutil.AssertDecimal(t, "2224.44", resp.AmountPaid)
		testutil.AssertDecimal(t, "1224.44", resp.PrincipalPaid)
		testutil.AssertDecimal(t, "98775.56", resp.NewBalance)
		testutil.AssertDecimal(t, "2775.56", resp.NewAccountBalance)
	})

	t.Run("interest-only payment leaves the balance", func(t *testing.T) {
		f := newPaymentFixture(testPlayer("10000", "5000", "0"),
			storedDebt("loan", testutil.TestPlayerID1, "100000", "12", "2224.44", false))

		resp := f.uc.Execute(context.Background(), paymentRequest("loan", "1000", "cash"))

		require.True(t, resp.Success)
		testutil.AssertDecimal(t, "100000", resp.NewBalance)
		testutil.AssertDecimal(t, "0", resp.PrincipalPaid)
	})

	t.Run("payoff from savings", func(t *testing.T) {
		f := newPaymentFixture(testPlayer("10000", "0", "2000"),
			storedDebt("small", testutil.TestPlayerID1, "1000", "12", "100", false))

		resp := f.uc.Execute(context.Background(), dto.MakePaymentRequest{
			PlayerID:    testutil.TestPlayerID1,
			DebtID:      "small",
			Amount:      d("1000"),
			PaymentType: "payoff",
			FromAccount: "savings",
		})

		require.True(t, resp.Success)
		assert.Equal(t, "debt paid off", resp.Message)
		assert.True(t, resp.IsPaidOff)
		assert.True(t, resp.NewBalance.IsZero())
		assert.Nil(t, resp.NextDueDate)
		testutil.AssertDecimal(t, "1000", resp.NewAccountBalance)
		assert.Equal(t, []string{event.TypePaymentApplied, event.TypeDebtPaidOff}, f.eventLog.types())
	})

	rejections := []struct {
		name    string
		player  *model.Player
		debt    model.Debt
		req     dto.MakePaymentRequest
		message string
		outcome string
	}{
		{
			name:    "insufficient cash",
			player:  testPlayer("10000", "100", "100000"),
			debt:    storedDebt("loan", testutil.TestPlayerID1, "100000", "12", "2224.44", false),
			req:     paymentRequest("loan", "2224.44", "cash"),
			message: "insufficient funds in cash account",
			outcome: port.OutcomeRejected,
		},
		{
			name:    "debt belongs to another player",
			player:  testPlayer("10000", "100000", "0"),
			debt:    storedDebt("theirs", testutil.TestPlayerID2, "1000", "12", "100", false),
			req:     paymentRequest("theirs", "100", "cash"),
			message: "debt not found",
			outcome: port.OutcomeNotFound,
		},
		{
			name:    "unknown debt",
			player:  testPlayer("10000", "100000", "0"),
			debt:    storedDebt("loan", testutil.TestPlayerID1, "1000", "12", "100", false),
			req:     paymentRequest(testutil.TestDebtIDMiss, "100", "cash"),
			message: "debt not found",
			outcome: port.OutcomeNotFound,
		},
		{
			name:    "paid-off debt",
			player:  testPlayer("10000", "100000", "0"),
			debt:    storedDebt("done", testutil.TestPlayerID1, "0", "12", "100", true),
			req:     paymentRequest("done", "100", "cash"),
			message: "debt is already paid off",
			outcome: port.OutcomeRejected,
		},
		{
			name:    "unknown funding source",
			player:  testPlayer("10000", "100000", "0"),
			debt:    storedDebt("loan", testutil.TestPlayerID1, "1000", "12", "100", false),
			req:     paymentRequest("loan", "100", "piggy bank"),
			message: `invalid funding source: "piggy bank"`,
			outcome: port.OutcomeRejected,
		},
		{
			name:    "zero amount",
			player:  testPlayer("10000", "100000", "0"),
			debt:    storedDebt("loan", testutil.TestPlayerID1, "1000", "12", "100", false),
			req:     paymentRequest("loan", "0", "cash"),
			message: "amount must be positive",
			outcome: port.OutcomeRejected,
		},
	}
	for _, tt := range rejections {
		t.Run(tt.name, func(t *testing.T) {
			f := newPaymentFixture(tt.player, tt.debt)

			resp := f.uc.Execute(context.Background(), tt.req)

			assert.False(t, resp.Success)
			assert.Equal(t, tt.message, resp.Message)
			assert.Empty(t, f.debts.savedDebts)
			assert.Zero(t, f.players.adjustCalls)
			assert.Empty(t, f.eventLog.appended)
			assert.Equal(t, tt.outcome, f.metrics.last().outcome)
		})
	}

	t.Run("account failure is hidden behind the generic message", func(t *testing.T) {
		f := newPaymentFixture(testPlayer("10000", "5000", "0"),
			storedDebt("loan", testutil.TestPlayerID1, "1000", "12", "100", false))
		f.players.lockAccountFunc = func(context.Context, int64) (model.PlayerAccount, error) {
			return model.PlayerAccount{}, errors.New("deadlock detected")
		}

		resp := f.uc.Execute(context.Background(), paymentRequest("loan", "100", "cash"))

		assert.False(t, resp.Success)
		assert.Equal(t, "an unexpected error occurred, please try again later", resp.Message)
		assert.Equal(t, port.OutcomeError, f.metrics.last().outcome)
	})
}

func TestLoanLifecycle(t *testing.T) {
	player := testPlayer("10000", "50000", "0")
	players := &mockPlayerRepository{player: player}
	debts := newMockDebtRepository()
	uow := &mockUnitOfWork{repos: port.Repositories{Players: players, Debts: debts}}
	engine := usecase.NewEngine(usecase.EngineConfig{
		UnitOfWork:      uow,
		Players:         players,
		Debts:           debts,
		Instrumentation: testInstrumentation(&mockMetrics{}),
	})
	ctx := context.Background()

	loan := engine.ApplyForLoan.Execute(ctx, loanRequest("personal", "100000"))
	require.True(t, loan.Success, loan.Message)
	testutil.AssertDecimal(t, "150000", player.Account.Cash)

	installment := loan.MonthlyPayment.String()
	var last dto.PaymentResultResponse
	for i := 1; i <= 60; i++ {
		last = engine.MakePayment.Execute(ctx, paymentRequest(loan.DebtID, installment, "cash"))
		require.True(t, last.Success, "installment %d: %s", i, last.Message)
		if i < 60 {
			require.False(t, last.IsPaidOff, "paid off early at installment %d", i)
		}
	}
	assert.True(t, last.IsPaidOff)
	assert.True(t, last.NewBalance.IsZero())
	assert.True(t, player.Account.Cash.LessThan(d("150000").Sub(d("133000"))))

	again := engine.MakePayment.Execute(ctx, paymentRequest(loan.DebtID, installment, "cash"))
	assert.False(t, again.Success)
	assert.Equal(t, "debt is already paid off", again.Message)

	summary := engine.GetDebtSummary.Execute(ctx, testutil.TestPlayerID1)
	require.NotNil(t, summary)
	assert.Zero(t, summary.ActiveDebtCount)
	require.Len(t, summary.Recommendations, 1)
}
