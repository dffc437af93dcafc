//go:build integration

package postgres_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cashflowgame/finance-service/internal/application/dto"
	"github.com/cashflowgame/finance-service/internal/application/usecase"
	"github.com/cashflowgame/finance-service/internal/domain/event"
	"github.com/cashflowgame/finance-service/internal/domain/model"
	"github.com/cashflowgame/finance-service/internal/domain/valueobject"
	"github.com/cashflowgame/finance-service/internal/infrastructure/postgres"
	pkgpostgres "github.com/cashflowgame/finance-service/pkg/postgres"
	"github.com/cashflowgame/finance-service/pkg/testutil"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func setup(t *testing.T) (*testutil.PostgresContainer, *usecase.Engine) {
	t.Helper()
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	pc.RunMigrations(t, postgres.Migrations())

	price := d("95000")
	require.NoError(t, postgres.NewPlayerRepo(pc.Pool).Put(ctx, model.Player{
		ID:        testutil.TestPlayerID1,
		SessionID: testutil.TestSessionID,
		Name:      "Ada",
		Career: &model.Career{
			Name:              "engineer",
			BaseSalary:        d("10000"),
			RecurringExpenses: []model.Expense{{Name: "rent", Amount: d("1800")}},
		},
		Goal:    &model.Goal{ID: "g-1", Description: "own a duplex", TargetAmount: d("250000")},
		Account: model.PlayerAccount{Cash: d("50000"), Savings: d("1000"), Salary: d("10000")},
		Holdings: []model.AssetHolding{
			{AssetID: "duplex", Name: "Duplex", Quantity: d("1"), CurrentPrice: &price, CatalogCost: d("90000"), CashFlowPerUnit: d("650")},
		},
	}))

	engine := usecase.NewEngine(usecase.EngineConfig{
		UnitOfWork: postgres.NewUnitOfWork(pc.Pool),
		Players:    postgres.NewPlayerRepo(pc.Pool),
		Debts:      postgres.NewDebtRepo(pc.Pool),
		Instrumentation: usecase.Instrumentation{
			Logger: testutil.QuietLogger(),
			Now:    func() time.Time { return testutil.TestNow },
		},
	})
	return pc, engine
}

func TestPlayerRepoRoundTrip(t *testing.T) {
	pc, _ := setup(t)
	ctx := context.Background()
	repo := postgres.NewPlayerRepo(pc.Pool)

	p, err := repo.FindByID(ctx, testutil.TestPlayerID1)
	require.NoError(t, err)
	require.NotNil(t, p.Career)
	testutil.AssertDecimal(t, "1800", p.Career.TotalExpenses())
	require.NotNil(t, p.Goal)
	assert.Equal(t, "own a duplex", p.Goal.Description)
	require.Len(t, p.Holdings, 1)
	testutil.AssertDecimal(t, "95000", p.Holdings[0].Value())

	_, err = repo.FindByID(ctx, testutil.TestUnknownID)
	assert.ErrorIs(t, err, model.ErrPlayerNotFound)

	_, err = repo.AdjustAccount(ctx, testutil.TestPlayerID1, valueobject.FundingSourceSavings, d("-1000.01"))
	assert.ErrorIs(t, err, model.ErrInsufficientFunds)
	_, err = repo.AdjustAccount(ctx, testutil.TestUnknownID, valueobject.FundingSourceCash, d("1"))
	assert.ErrorIs(t, err, model.ErrPlayerNotFound)
}

func TestLoanAndPaymentPersist(t *testing.T) {
	pc, engine := setup(t)
	ctx := context.Background()

	loan := engine.ApplyForLoan.Execute(ctx, dto.ApplyForLoanRequest{
		PlayerID: testutil.TestPlayerID1,
		LoanType: "personal",
		Amount:   d("100000"),
	})
	require.True(t, loan.Success, loan.Message)
	testutil.AssertDecimal(t, "2224.44", loan.MonthlyPayment)
	testutil.AssertDecimal(t, "150000", loan.NewCashBalance)

	payment := engine.MakePayment.Execute(ctx, dto.MakePaymentRequest{
		PlayerID:    testutil.TestPlayerID1,
		DebtID:      loan.DebtID,
		Amount:      d("2224.44"),
		FromAccount: "cash",
	})
	require.True(t, payment.Success, payment.Message)
	testutil.AssertDecimal(t, "1000", payment.InterestPaid)
	testutil.AssertDecimal(t, "98775.56", payment.NewBalance)

	debt, err := postgres.NewDebtRepo(pc.Pool).FindByID(ctx, loan.DebtID)
	require.NoError(t, err)
	assert.Equal(t, 2, debt.Version())
	assert.Equal(t, time.Date(2026, time.May, 1, 0, 0, 0, 0, time.UTC), debt.DueDate())
	require.NotNil(t, debt.LastPaymentDate())

	entries, err := postgres.NewOutboxRepo(pc.Pool).ListByAggregate(ctx, loan.DebtID, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, event.TypeDebtOriginated, entries[0].EventType)
	assert.Equal(t, event.TypePaymentApplied, entries[1].EventType)
	assert.Nil(t, entries[1].PublishedAt)

	t.Run("stale aggregate is rejected", func(t *testing.T) {
		stale := model.ReconstructDebt(func() model.DebtSnapshot {
			s := debt.Snapshot()
			s.Version = 1
			return s
		}())
		err := postgres.NewDebtRepo(pc.Pool).Save(ctx, stale)
		assert.ErrorIs(t, err, model.ErrOptimisticLock)
	})

	t.Run("malformed and unknown ids", func(t *testing.T) {
		repo := postgres.NewDebtRepo(pc.Pool)
		_, err := repo.FindByID(ctx, "not-a-uuid")
		assert.ErrorIs(t, err, model.ErrDebtNotFound)
		_, err = repo.FindByID(ctx, testutil.TestDebtIDMiss)
		assert.ErrorIs(t, err, model.ErrDebtNotFound)
	})

	t.Run("state reflects persisted debt", func(t *testing.T) {
		state, err := engine.GetPlayerState.Execute(ctx, testutil.TestPlayerID1)
		require.NoError(t, err)
		// 147775.56 cash + 1000 savings + 95000 duplex - 98775.56 balance
		testutil.AssertDecimal(t, "145000", state.NetWorth)
	})
}

func TestConcurrentPaymentsSerializeOnDebtRow(t *testing.T) {
	pc, engine := setup(t)
	ctx := context.Background()

	loan := engine.ApplyForLoan.Execute(ctx, dto.ApplyForLoanRequest{
		PlayerID: testutil.TestPlayerID1,
		LoanType: "business",
		Amount:   d("20000"),
	})
	require.True(t, loan.Success, loan.Message)

	const payers = 8
	var wg sync.WaitGroup
	results := make([]dto.PaymentResultResponse, payers)
	for i := 0; i < payers; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = engine.MakePayment.Execute(ctx, dto.MakePaymentRequest{
				PlayerID:    testutil.TestPlayerID1,
				DebtID:      loan.DebtID,
				Amount:      d("500"),
				FromAccount: "cash",
			})
		}()
	}
	wg.Wait()

	principal := decimal.Zero
	for _, res := range results {
		require.True(t, res.Success, res.Message)
		principal = principal.Add(res.PrincipalPaid)
	}

	debt, err := postgres.NewDebtRepo(pc.Pool).FindByID(ctx, loan.DebtID)
	require.NoError(t, err)
	testutil.AssertDecimal(t, d("20000").Sub(principal).String(), debt.CurrentBalance())
	assert.Equal(t, 1+payers, debt.Version())

	account, err := postgres.NewPlayerRepo(pc.Pool).LockAccount(ctx, testutil.TestPlayerID1)
	require.NoError(t, err)
	testutil.AssertDecimal(t, "66000", account.Cash)
}

func TestMigrationsRoundTrip(t *testing.T) {
	pc, _ := setup(t)

	version, dirty, err := pkgpostgres.MigrationVersion(pc.DSN, postgres.Migrations())
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.False(t, dirty)

	require.NoError(t, pkgpostgres.RunMigrationsDown(pc.DSN, postgres.Migrations()))
	version, _, err = pkgpostgres.MigrationVersion(pc.DSN, postgres.Migrations())
	require.NoError(t, err)
	assert.Zero(t, version)
}
