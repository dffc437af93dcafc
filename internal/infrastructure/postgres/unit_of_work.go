package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cashflowgame/finance-service/internal/domain/port"
	pkgpostgres "github.com/cashflowgame/finance-service/pkg/postgres"
)

// UnitOfWork implements port.UnitOfWork with one READ COMMITTED transaction
// per unit. Row locks taken through the repositories are held until commit.
type UnitOfWork struct {
	pool *pgxpool.Pool
}

func NewUnitOfWork(pool *pgxpool.Pool) *UnitOfWork {
	return &UnitOfWork{pool: pool}
}

func (u *UnitOfWork) Execute(ctx context.Context, fn func(ctx context.Context, repos port.Repositories) error) error {
	return pkgpostgres.WithTransactionOptions(ctx, u.pool, pkgpostgres.ReadCommitted, func(tx pgx.Tx) error {
		return fn(ctx, port.Repositories{
			Players: NewPlayerRepo(tx),
			Debts:   NewDebtRepo(tx),
		})
	})
}
