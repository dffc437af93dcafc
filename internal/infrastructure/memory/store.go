// Package memory is a process-local store for development, the CLI and tests.
// A single mutex serialises every unit of work, so it trades concurrency for
// simplicity; the postgres package is the production store.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/cashflowgame/finance-service/internal/domain/model"
	"github.com/cashflowgame/finance-service/internal/domain/port"
	"github.com/cashflowgame/finance-service/pkg/events"
)

type state struct {
	players map[int64]model.Player
	debts   map[string]model.Debt
	outbox  []events.OutboxEntry
}

func (s state) clone() state {
	players := make(map[int64]model.Player, len(s.players))
	for id, p := range s.players {
		players[id] = p
	}
	debts := make(map[string]model.Debt, len(s.debts))
	for id, d := range s.debts {
		debts[id] = d
	}
	return state{players: players, debts: debts, outbox: slices.Clone(s.outbox)}
}

// Store holds players, debts and the event outbox in memory.
type Store struct {
	mu sync.Mutex
	st state
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{st: state{
		players: make(map[int64]model.Player),
		debts:   make(map[string]model.Debt),
	}}
}

// PutPlayer inserts or replaces a player's session record.
func (s *Store) PutPlayer(p model.Player) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.players[p.ID] = clonePlayer(p)
}

// Outbox returns the events recorded by committed units of work.
func (s *Store) Outbox() []events.OutboxEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.st.outbox)
}

// Ping always succeeds; it lets the store stand in for a database in readiness checks.
func (s *Store) Ping(context.Context) error { return nil }

// Players returns a repository that locks the store per call.
func (s *Store) Players() *PlayerRepository {
	return &PlayerRepository{access: s.locked}
}

// Debts returns a repository that locks the store per call.
func (s *Store) Debts() *DebtRepository {
	return &DebtRepository{access: s.locked}
}

func (s *Store) locked(fn func(*state) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&s.st)
}

// UnitOfWork runs units against a Store.
type UnitOfWork struct {
	store *Store
}

func NewUnitOfWork(store *Store) *UnitOfWork {
	return &UnitOfWork{store: store}
}

// Execute holds the store lock for the whole unit and restores the state it
// found if fn fails.
func (u *UnitOfWork) Execute(ctx context.Context, fn func(ctx context.Context, repos port.Repositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	u.store.mu.Lock()
	defer u.store.mu.Unlock()

	saved := u.store.st.clone()
	direct := func(f func(*state) error) error { return f(&u.store.st) }
	repos := port.Repositories{
		Players: &PlayerRepository{access: direct},
		Debts:   &DebtRepository{access: direct},
	}

	if err := fn(ctx, repos); err != nil {
		u.store.st = saved
		return err
	}
	if err := ctx.Err(); err != nil {
		u.store.st = saved
		return fmt.Errorf("memory: unit of work: %w", err)
	}
	return nil
}

func clonePlayer(p model.Player) model.Player {
	p.Holdings = slices.Clone(p.Holdings)
	if p.Career != nil {
		c := *p.Career
		c.RecurringExpenses = slices.Clone(c.RecurringExpenses)
		p.Career = &c
	}
	if p.Goal != nil {
		g := *p.Goal
		p.Goal = &g
	}
	return p
}
