package usecase_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cashflowgame/finance-service/internal/application/usecase"
	"github.com/cashflowgame/finance-service/internal/domain/event"
	"github.com/cashflowgame/finance-service/internal/domain/model"
	"github.com/cashflowgame/finance-service/internal/domain/port"
	"github.com/cashflowgame/finance-service/internal/domain/valueobject"
	"github.com/cashflowgame/finance-service/pkg/testutil"
)

// --- Mock implementations ---

// mockPlayerRepository serves a single player held in memory. The func
// fields override the default behavior.
type mockPlayerRepository struct {
	player *model.Player

	findByIDFunc      func(ctx context.Context, id int64) (model.Player, error)
	lockAccountFunc   func(ctx context.Context, id int64) (model.PlayerAccount, error)
	adjustAccountFunc func(ctx context.Context, id int64, source valueobject.FundingSource, delta decimal.Decimal) (model.PlayerAccount, error)
	adjustCalls       int
}

func (m *mockPlayerRepository) FindByID(ctx context.Context, id int64) (model.Player, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	if m.player == nil || m.player.ID != id {
		return model.Player{}, model.ErrPlayerNotFound
	}
	return *m.player, nil
}

func (m *mockPlayerRepository) LockAccount(ctx context.Context, id int64) (model.PlayerAccount, error) {
	if m.lockAccountFunc != nil {
		return m.lockAccountFunc(ctx, id)
	}
	p, err := m.FindByID(ctx, id)
	return p.Account, err
}

func (m *mockPlayerRepository) AdjustAccount(ctx context.Context, id int64, source valueobject.FundingSource, delta decimal.Decimal) (model.PlayerAccount, error) {
	m.adjustCalls++
	if m.adjustAccountFunc != nil {
		return m.adjustAccountFunc(ctx, id, source, delta)
	}
	if m.player == nil || m.player.ID != id {
		return model.PlayerAccount{}, model.ErrPlayerNotFound
	}
	next, err := m.player.Account.Adjust(source, delta)
	if err != nil {
		return model.PlayerAccount{}, err
	}
	m.player.Account = next
	return next, nil
}

// mockDebtRepository keeps saved debts by id.
type mockDebtRepository struct {
	debts map[string]model.Debt

	saveFunc           func(ctx context.Context, d model.Debt) error
	findByPlayerIDFunc func(ctx context.Context, playerID int64) ([]model.Debt, error)
	savedDebts         []model.Debt
}

func newMockDebtRepository(debts ...model.Debt) *mockDebtRepository {
	m := &mockDebtRepository{debts: make(map[string]model.Debt)}
	for _, d := range debts {
		m.debts[d.ID()] = d
	}
	return m
}

func (m *mockDebtRepository) Save(ctx context.Context, d model.Debt) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, d)
	}
	d = d.ClearEvents()
	m.debts[d.ID()] = d
	m.savedDebts = append(m.savedDebts, d)
	return nil
}

func (m *mockDebtRepository) FindByID(_ context.Context, id string) (model.Debt, error) {
	d, ok := m.debts[id]
	if !ok {
		return model.Debt{}, model.ErrDebtNotFound
	}
	return d, nil
}

func (m *mockDebtRepository) FindByIDForUpdate(ctx context.Context, id string) (model.Debt, error) {
	return m.FindByID(ctx, id)
}

func (m *mockDebtRepository) FindByPlayerID(ctx context.Context, playerID int64) ([]model.Debt, error) {
	if m.findByPlayerIDFunc != nil {
		return m.findByPlayerIDFunc(ctx, playerID)
	}
	var out []model.Debt
	for _, d := range m.debts {
		if d.PlayerID() == playerID {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DueDate().Before(out[j].DueDate()) })
	return out, nil
}

// mockUnitOfWork runs fn against fixed repositories without isolation.
type mockUnitOfWork struct {
	repos       port.Repositories
	executeFunc func(ctx context.Context, fn func(context.Context, port.Repositories) error) error
	calls       int
}

func (m *mockUnitOfWork) Execute(ctx context.Context, fn func(context.Context, port.Repositories) error) error {
	m.calls++
	if m.executeFunc != nil {
		return m.executeFunc(ctx, fn)
	}
	return fn(ctx, m.repos)
}

type mockEventLog struct {
	appendFunc func(ctx context.Context, evts ...event.DomainEvent) error
	appended   []event.DomainEvent
}

func (m *mockEventLog) Append(ctx context.Context, evts ...event.DomainEvent) error {
	if m.appendFunc != nil {
		return m.appendFunc(ctx, evts...)
	}
	m.appended = append(m.appended, evts...)
	return nil
}

func (m *mockEventLog) types() []string {
	out := make([]string, len(m.appended))
	for i, e := range m.appended {
		out[i] = e.EventType()
	}
	return out
}

type mockCreditScoreCache struct {
	getFunc     func(ctx context.Context, playerID int64) (model.CreditScore, bool, error)
	setFunc     func(ctx context.Context, s model.CreditScore) error
	stored      []model.CreditScore
	invalidated []int64
}

func (m *mockCreditScoreCache) Get(ctx context.Context, playerID int64) (model.CreditScore, bool, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, playerID)
	}
	return model.CreditScore{}, false, nil
}

func (m *mockCreditScoreCache) Set(ctx context.Context, s model.CreditScore) error {
	if m.setFunc != nil {
		return m.setFunc(ctx, s)
	}
	m.stored = append(m.stored, s)
	return nil
}

func (m *mockCreditScoreCache) Invalidate(_ context.Context, playerID int64) error {
	m.invalidated = append(m.invalidated, playerID)
	return nil
}

type recordedOp struct {
	operation string
	outcome   string
}

type mockMetrics struct {
	mu  sync.Mutex
	ops []recordedOp
}

func (m *mockMetrics) RecordOperation(_ context.Context, operation, outcome string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ops = append(m.ops, recordedOp{operation: operation, outcome: outcome})
}

func (m *mockMetrics) last() recordedOp {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.ops) == 0 {
		return recordedOp{}
	}
	return m.ops[len(m.ops)-1]
}

// --- Fixtures ---

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func testInstrumentation(metrics *mockMetrics) usecase.Instrumentation {
	return usecase.Instrumentation{
		Logger:  testutil.QuietLogger(),
		Metrics: metrics,
		Now:     func() time.Time { return testutil.TestNow },
	}
}

func testPlayer(salary, cash, savings string) *model.Player {
	return &model.Player{
		ID:        testutil.TestPlayerID1,
		SessionID: testutil.TestSessionID,
		Name:      "Ada",
		Account: model.PlayerAccount{
			Salary:  d(salary),
			Cash:    d(cash),
			Savings: d(savings),
		},
	}
}

func storedDebt(id string, playerID int64, balance, rate, payment string, paidOff bool) model.Debt {
	return model.ReconstructDebt(model.DebtSnapshot{
		ID:             id,
		PlayerID:       playerID,
		SessionID:      testutil.TestSessionID,
		Type:           valueobject.DebtTypePersonal,
		OriginalAmount: d(balance),
		CurrentBalance: d(balance),
		InterestRate:   d(rate),
		MonthlyPayment: d(payment),
		TermMonths:     60,
		DueDate:        time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC),
		IsPaidOff:      paidOff,
		Version:        1,
		CreatedAt:      testutil.TestNow.AddDate(-1, 0, 0),
		UpdatedAt:      testutil.TestNow.AddDate(-1, 0, 0),
	})
}
