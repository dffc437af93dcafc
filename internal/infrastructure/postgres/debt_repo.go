package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/cashflowgame/finance-service/internal/domain/model"
	"github.com/cashflowgame/finance-service/internal/domain/valueobject"
	"github.com/cashflowgame/finance-service/pkg/events"
	pkgpostgres "github.com/cashflowgame/finance-service/pkg/postgres"
)

// DebtRepo implements port.DebtRepository.
type DebtRepo struct {
	q      pkgpostgres.Querier
	outbox *OutboxRepo
}

// NewDebtRepo creates a debt repository over q. Pending domain events are
// written to the outbox through the same querier.
func NewDebtRepo(q pkgpostgres.Querier) *DebtRepo {
	return &DebtRepo{q: q, outbox: NewOutboxRepo(q)}
}

const debtColumns = `
	id, player_id, session_id, debt_type,
	original_amount, current_balance, interest_rate, monthly_payment,
	term_months, due_date, last_payment_date, is_paid_off,
	purpose, collateral_ref, version, created_at, updated_at
`

// Save upserts the debt. An update only applies while the stored version
// matches the aggregate's, and bumps it; a stale aggregate gets
// model.ErrOptimisticLock.
func (r *DebtRepo) Save(ctx context.Context, debt model.Debt) error {
	s := debt.Snapshot()
	query := `
		INSERT INTO debts (` + debtColumns + `)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
		ON CONFLICT (id) DO UPDATE SET
			current_balance   = EXCLUDED.current_balance,
			due_date          = EXCLUDED.due_date,
			last_payment_date = EXCLUDED.last_payment_date,
			is_paid_off       = EXCLUDED.is_paid_off,
			version           = debts.version + 1,
			updated_at        = EXCLUDED.updated_at
		WHERE debts.version = $15
	`
	tag, err := r.q.Exec(ctx, query,
		s.ID, s.PlayerID, s.SessionID, s.Type.String(),
		s.OriginalAmount, s.CurrentBalance, s.InterestRate, s.MonthlyPayment,
		s.TermMonths, s.DueDate, s.LastPaymentDate, s.IsPaidOff,
		s.Purpose, s.CollateralRef, s.Version, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save debt %s: %w", s.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("save debt %s: %w", s.ID, model.ErrOptimisticLock)
	}

	entries := make([]events.OutboxEntry, 0, len(debt.DomainEvents()))
	for _, evt := range debt.DomainEvents() {
		entry, err := events.NewOutboxEntry(evt)
		if err != nil {
			return fmt.Errorf("save debt %s: %w", s.ID, err)
		}
		entries = append(entries, entry)
	}
	return r.outbox.Store(ctx, entries)
}

func (r *DebtRepo) FindByID(ctx context.Context, id string) (model.Debt, error) {
	return r.findOne(ctx, `SELECT `+debtColumns+` FROM debts WHERE id = $1`, id)
}

// FindByIDForUpdate holds the debt row lock until the transaction ends.
func (r *DebtRepo) FindByIDForUpdate(ctx context.Context, id string) (model.Debt, error) {
	return r.findOne(ctx, `SELECT `+debtColumns+` FROM debts WHERE id = $1 FOR UPDATE`, id)
}

func (r *DebtRepo) FindByPlayerID(ctx context.Context, playerID int64) ([]model.Debt, error) {
	query := `SELECT ` + debtColumns + ` FROM debts WHERE player_id = $1 ORDER BY due_date, id`
	rows, err := r.q.Query(ctx, query, playerID)
	if err != nil {
		return nil, fmt.Errorf("query debts: %w", err)
	}
	defer rows.Close()

	var debts []model.Debt
	for rows.Next() {
		debt, err := scanDebtRow(rows)
		if err != nil {
			return nil, err
		}
		debts = append(debts, debt)
	}
	return debts, rows.Err()
}

// ---------------------------------------------------------------------------
// internal helpers
// ---------------------------------------------------------------------------

func (r *DebtRepo) findOne(ctx context.Context, query, id string) (model.Debt, error) {
	if !isUUID(id) {
		return model.Debt{}, model.ErrDebtNotFound
	}
	debt, err := scanDebtRow(r.q.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Debt{}, model.ErrDebtNotFound
	}
	return debt, err
}

func scanDebtRow(s scannable) (model.Debt, error) {
	var (
		snap            model.DebtSnapshot
		debtType        string
		lastPaymentDate *time.Time
	)
	err := s.Scan(
		&snap.ID, &snap.PlayerID, &snap.SessionID, &debtType,
		&snap.OriginalAmount, &snap.CurrentBalance, &snap.InterestRate, &snap.MonthlyPayment,
		&snap.TermMonths, &snap.DueDate, &lastPaymentDate, &snap.IsPaidOff,
		&snap.Purpose, &snap.CollateralRef, &snap.Version, &snap.CreatedAt, &snap.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Debt{}, err
		}
		return model.Debt{}, fmt.Errorf("scan debt: %w", err)
	}

	snap.Type, err = valueobject.NewDebtType(debtType)
	if err != nil {
		return model.Debt{}, fmt.Errorf("scan debt %s: %w", snap.ID, err)
	}
	snap.DueDate = snap.DueDate.UTC()
	snap.CreatedAt = snap.CreatedAt.UTC()
	snap.UpdatedAt = snap.UpdatedAt.UTC()
	if lastPaymentDate != nil {
		t := lastPaymentDate.UTC()
		snap.LastPaymentDate = &t
	}
	return model.ReconstructDebt(snap), nil
}
