package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/cashflowgame/finance-service/internal/domain/model"
	"github.com/cashflowgame/finance-service/internal/domain/valueobject"
	pkgpostgres "github.com/cashflowgame/finance-service/pkg/postgres"
)

// PlayerRepo implements port.PlayerRepository. It runs against a pool or, when
// built by UnitOfWork, against the unit's transaction.
type PlayerRepo struct {
	q pkgpostgres.Querier
}

// NewPlayerRepo creates a player repository over q.
func NewPlayerRepo(q pkgpostgres.Querier) *PlayerRepo {
	return &PlayerRepo{q: q}
}

const selectPlayer = `
	SELECT id, session_id, name, cash, savings, salary, passive_income,
	       career_name, career_base_salary, goal_id, goal_description, goal_target
	FROM players
	WHERE id = $1
`

// FindByID loads the player with career expenses and asset holdings.
func (r *PlayerRepo) FindByID(ctx context.Context, playerID int64) (model.Player, error) {
	var (
		p                        model.Player
		careerName, goalID       *string
		goalDescription          *string
		careerSalary, goalTarget decimal.NullDecimal
	)
	err := r.q.QueryRow(ctx, selectPlayer, playerID).Scan(
		&p.ID, &p.SessionID, &p.Name,
		&p.Account.Cash, &p.Account.Savings, &p.Account.Salary, &p.Account.PassiveIncome,
		&careerName, &careerSalary, &goalID, &goalDescription, &goalTarget,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Player{}, model.ErrPlayerNotFound
	}
	if err != nil {
		return model.Player{}, fmt.Errorf("find player %d: %w", playerID, err)
	}

	if careerName != nil {
		p.Career = &model.Career{Name: *careerName, BaseSalary: careerSalary.Decimal}
		if p.Career.RecurringExpenses, err = r.loadExpenses(ctx, playerID); err != nil {
			return model.Player{}, err
		}
	}
	if goalID != nil {
		p.Goal = &model.Goal{ID: *goalID, TargetAmount: goalTarget.Decimal}
		if goalDescription != nil {
			p.Goal.Description = *goalDescription
		}
	}
	if p.Holdings, err = r.loadHoldings(ctx, playerID); err != nil {
		return model.Player{}, err
	}
	return p, nil
}

// LockAccount reads the account with SELECT ... FOR UPDATE.
func (r *PlayerRepo) LockAccount(ctx context.Context, playerID int64) (model.PlayerAccount, error) {
	query := `
		SELECT cash, savings, salary, passive_income
		FROM players
		WHERE id = $1
		FOR UPDATE
	`
	var a model.PlayerAccount
	err := r.q.QueryRow(ctx, query, playerID).Scan(&a.Cash, &a.Savings, &a.Salary, &a.PassiveIncome)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.PlayerAccount{}, model.ErrPlayerNotFound
	}
	if err != nil {
		return model.PlayerAccount{}, fmt.Errorf("lock account %d: %w", playerID, err)
	}
	return a, nil
}

// AdjustAccount increments one balance in place. The guard in the WHERE
// clause refuses the update rather than let the balance go negative.
func (r *PlayerRepo) AdjustAccount(ctx context.Context, playerID int64, source valueobject.FundingSource, delta decimal.Decimal) (model.PlayerAccount, error) {
	column := "cash"
	if source.Equal(valueobject.FundingSourceSavings) {
		column = "savings"
	}
	query := fmt.Sprintf(`
		UPDATE players
		SET %[1]s = %[1]s + $2, updated_at = now()
		WHERE id = $1 AND %[1]s + $2 >= 0
		RETURNING cash, savings, salary, passive_income
	`, column)

	var a model.PlayerAccount
	err := r.q.QueryRow(ctx, query, playerID, delta).Scan(&a.Cash, &a.Savings, &a.Salary, &a.PassiveIncome)
	if errors.Is(err, pgx.ErrNoRows) {
		if _, lookupErr := r.LockAccount(ctx, playerID); lookupErr != nil {
			return model.PlayerAccount{}, lookupErr
		}
		return model.PlayerAccount{}, model.ErrInsufficientFunds
	}
	if err != nil {
		return model.PlayerAccount{}, fmt.Errorf("adjust %s of player %d: %w", column, playerID, err)
	}
	return a, nil
}

// Put writes a player's full session record, replacing any previous one.
// The game session service owns player data; Put exists for seeding.
func (r *PlayerRepo) Put(ctx context.Context, p model.Player) error {
	var (
		careerName, goalID, goalDescription *string
		careerSalary, goalTarget            decimal.NullDecimal
	)
	if p.Career != nil {
		careerName = &p.Career.Name
		careerSalary = decimal.NewNullDecimal(p.Career.BaseSalary)
	}
	if p.Goal != nil {
		goalID, goalDescription = &p.Goal.ID, &p.Goal.Description
		goalTarget = decimal.NewNullDecimal(p.Goal.TargetAmount)
	}

	query := `
		INSERT INTO players (
			id, session_id, name, cash, savings, salary, passive_income,
			career_name, career_base_salary, goal_id, goal_description, goal_target
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		ON CONFLICT (id) DO UPDATE SET
			session_id         = EXCLUDED.session_id,
			name               = EXCLUDED.name,
			cash               = EXCLUDED.cash,
			savings            = EXCLUDED.savings,
			salary             = EXCLUDED.salary,
			passive_income     = EXCLUDED.passive_income,
			career_name        = EXCLUDED.career_name,
			career_base_salary = EXCLUDED.career_base_salary,
			goal_id            = EXCLUDED.goal_id,
			goal_description   = EXCLUDED.goal_description,
			goal_target        = EXCLUDED.goal_target,
			updated_at         = now()
	`
	if _, err := r.q.Exec(ctx, query,
		p.ID, p.SessionID, p.Name, p.Account.Cash, p.Account.Savings, p.Account.Salary, p.Account.PassiveIncome,
		careerName, careerSalary, goalID, goalDescription, goalTarget,
	); err != nil {
		return fmt.Errorf("put player %d: %w", p.ID, err)
	}

	if _, err := r.q.Exec(ctx, `DELETE FROM player_expenses WHERE player_id = $1`, p.ID); err != nil {
		return fmt.Errorf("clear expenses of player %d: %w", p.ID, err)
	}
	if p.Career != nil {
		for _, e := range p.Career.RecurringExpenses {
			if _, err := r.q.Exec(ctx,
				`INSERT INTO player_expenses (player_id, name, amount) VALUES ($1, $2, $3)`,
				p.ID, e.Name, e.Amount,
			); err != nil {
				return fmt.Errorf("put expense %q: %w", e.Name, err)
			}
		}
	}

	if _, err := r.q.Exec(ctx, `DELETE FROM player_holdings WHERE player_id = $1`, p.ID); err != nil {
		return fmt.Errorf("clear holdings of player %d: %w", p.ID, err)
	}
	for _, h := range p.Holdings {
		var price decimal.NullDecimal
		if h.CurrentPrice != nil {
			price = decimal.NewNullDecimal(*h.CurrentPrice)
		}
		if _, err := r.q.Exec(ctx, `
			INSERT INTO player_holdings (player_id, asset_id, name, quantity, current_price, catalog_cost, cash_flow_per_unit)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, p.ID, h.AssetID, h.Name, h.Quantity, price, h.CatalogCost, h.CashFlowPerUnit); err != nil {
			return fmt.Errorf("put holding %q: %w", h.AssetID, err)
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// internal helpers
// ---------------------------------------------------------------------------

func (r *PlayerRepo) loadExpenses(ctx context.Context, playerID int64) ([]model.Expense, error) {
	rows, err := r.q.Query(ctx,
		`SELECT name, amount FROM player_expenses WHERE player_id = $1 ORDER BY name`, playerID)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	defer rows.Close()

	var out []model.Expense
	for rows.Next() {
		var e model.Expense
		if err := rows.Scan(&e.Name, &e.Amount); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *PlayerRepo) loadHoldings(ctx context.Context, playerID int64) ([]model.AssetHolding, error) {
	rows, err := r.q.Query(ctx, `
		SELECT asset_id, name, quantity, current_price, catalog_cost, cash_flow_per_unit
		FROM player_holdings
		WHERE player_id = $1
		ORDER BY asset_id
	`, playerID)
	if err != nil {
		return nil, fmt.Errorf("query holdings: %w", err)
	}
	defer rows.Close()

	var out []model.AssetHolding
	for rows.Next() {
		var (
			h     model.AssetHolding
			price decimal.NullDecimal
		)
		if err := rows.Scan(&h.AssetID, &h.Name, &h.Quantity, &price, &h.CatalogCost, &h.CashFlowPerUnit); err != nil {
			return nil, fmt.Errorf("scan holding: %w", err)
		}
		if price.Valid {
			p := price.Decimal
			h.CurrentPrice = &p
		}
		out = append(out, h)
	}
	return out, rows.Err()
}
