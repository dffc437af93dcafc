package port

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/cashflowgame/finance-service/internal/domain/model"
	"github.com/cashflowgame/finance-service/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// Repository ports (driven/secondary adapters)
// ---------------------------------------------------------------------------

// PlayerRepository reads a player's session state and mutates its liquid
// account fields. Account fields are only ever incremented or decremented.
type PlayerRepository interface {
	// FindByID returns model.ErrPlayerNotFound for unknown players.
	FindByID(ctx context.Context, playerID int64) (model.Player, error)
	// LockAccount reads the account and, inside a unit of work, holds a
	// write lock on it until the unit ends.
	LockAccount(ctx context.Context, playerID int64) (model.PlayerAccount, error)
	// AdjustAccount adds delta to the source field and returns the updated
	// account. It fails with model.ErrInsufficientFunds rather than let the
	// field go negative.
	AdjustAccount(ctx context.Context, playerID int64, source valueobject.FundingSource, delta decimal.Decimal) (model.PlayerAccount, error)
}

// DebtRepository persists and retrieves debts. Save also records the debt's
// pending domain events in the same unit of work.
type DebtRepository interface {
	Save(ctx context.Context, debt model.Debt) error
	// FindByID returns model.ErrDebtNotFound for unknown ids.
	FindByID(ctx context.Context, id string) (model.Debt, error)
	// FindByIDForUpdate is FindByID holding a write lock until the unit ends.
	FindByIDForUpdate(ctx context.Context, id string) (model.Debt, error)
	// FindByPlayerID returns every debt the player ever held, active and
	// paid off, ordered by due date ascending.
	FindByPlayerID(ctx context.Context, playerID int64) ([]model.Debt, error)
}

// Repositories groups the repositories bound to one connection or transaction.
type Repositories struct {
	Players PlayerRepository
	Debts   DebtRepository
}

// UnitOfWork runs fn atomically: every write made through the repositories
// handed to fn commits together, or none does when fn returns an error.
type UnitOfWork interface {
	Execute(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}
