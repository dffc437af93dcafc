package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cashflowgame/finance-service/internal/domain/model"
	"github.com/cashflowgame/finance-service/internal/domain/valueobject"
	"github.com/cashflowgame/finance-service/pkg/events"
)

// PlayerRepository implements port.PlayerRepository over a Store.
type PlayerRepository struct {
	access func(func(*state) error) error
}

func (r *PlayerRepository) FindByID(_ context.Context, playerID int64) (model.Player, error) {
	var out model.Player
	err := r.access(func(st *state) error {
		p, ok := st.players[playerID]
		if !ok {
			return model.ErrPlayerNotFound
		}
		out = clonePlayer(p)
		return nil
	})
	return out, err
}

// LockAccount reads the account. Inside a unit of work the store lock is
// already held, which covers the row lock the port asks for.
func (r *PlayerRepository) LockAccount(ctx context.Context, playerID int64) (model.PlayerAccount, error) {
	p, err := r.FindByID(ctx, playerID)
	if err != nil {
		return model.PlayerAccount{}, err
	}
	return p.Account, nil
}

func (r *PlayerRepository) AdjustAccount(_ context.Context, playerID int64, source valueobject.FundingSource, delta decimal.Decimal) (model.PlayerAccount, error) {
	var out model.PlayerAccount
	err := r.access(func(st *state) error {
		p, ok := st.players[playerID]
		if !ok {
			return model.ErrPlayerNotFound
		}
		account, err := p.Account.Adjust(source, delta)
		if err != nil {
			return err
		}
		p.Account = account
		st.players[playerID] = p
		out = account
		return nil
	})
	return out, err
}

// DebtRepository implements port.DebtRepository over a Store.
type DebtRepository struct {
	access func(func(*state) error) error
}

// Save stores the debt with the same optimistic version check as the
// postgres repository and moves its pending events to the outbox.
func (r *DebtRepository) Save(_ context.Context, debt model.Debt) error {
	entries := make([]events.OutboxEntry, 0, len(debt.DomainEvents()))
	for _, evt := range debt.DomainEvents() {
		entry, err := events.NewOutboxEntry(evt)
		if err != nil {
			return fmt.Errorf("save debt %s: %w", debt.ID(), err)
		}
		entries = append(entries, entry)
	}

	return r.access(func(st *state) error {
		snap := debt.Snapshot()
		if existing, ok := st.debts[debt.ID()]; ok {
			if existing.Version() != debt.Version() {
				return fmt.Errorf("save debt %s: %w", debt.ID(), model.ErrOptimisticLock)
			}
			snap.Version = existing.Version() + 1
		}
		st.debts[debt.ID()] = model.ReconstructDebt(snap)
		st.outbox = append(st.outbox, entries...)
		return nil
	})
}

func (r *DebtRepository) FindByID(_ context.Context, id string) (model.Debt, error) {
	var out model.Debt
	err := r.access(func(st *state) error {
		d, ok := st.debts[id]
		if !ok {
			return model.ErrDebtNotFound
		}
		out = d
		return nil
	})
	return out, err
}

func (r *DebtRepository) FindByIDForUpdate(ctx context.Context, id string) (model.Debt, error) {
	return r.FindByID(ctx, id)
}

func (r *DebtRepository) FindByPlayerID(_ context.Context, playerID int64) ([]model.Debt, error) {
	var out []model.Debt
	err := r.access(func(st *state) error {
		for _, d := range st.debts {
			if d.PlayerID() == playerID {
				out = append(out, d)
			}
		}
		return nil
	})
	slices.SortFunc(out, func(a, b model.Debt) int {
		if c := a.DueDate().Compare(b.DueDate()); c != 0 {
			return c
		}
		return strings.Compare(a.ID(), b.ID())
	})
	return out, err
}
