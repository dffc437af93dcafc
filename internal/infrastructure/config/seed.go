package config

import (
	"errors"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/cashflowgame/finance-service/internal/domain/model"
)

type seedFile struct {
	Players []seedPlayer `yaml:"players"`
}

type seedPlayer struct {
	ID            int64           `yaml:"id"`
	SessionID     string          `yaml:"session_id"`
	Name          string          `yaml:"name"`
	Cash          decimal.Decimal `yaml:"cash"`
	Savings       decimal.Decimal `yaml:"savings"`
	Salary        decimal.Decimal `yaml:"salary"`
	PassiveIncome decimal.Decimal `yaml:"passive_income"`
	Career        *struct {
		Name       string          `yaml:"name"`
		BaseSalary decimal.Decimal `yaml:"base_salary"`
		Expenses   []struct {
			Name   string          `yaml:"name"`
			Amount decimal.Decimal `yaml:"amount"`
		} `yaml:"expenses"`
	} `yaml:"career"`
	Goal *struct {
		ID           string          `yaml:"id"`
		Description  string          `yaml:"description"`
		TargetAmount decimal.Decimal `yaml:"target_amount"`
	} `yaml:"goal"`
	Holdings []struct {
		AssetID         string           `yaml:"asset_id"`
		Name            string           `yaml:"name"`
		Quantity        decimal.Decimal  `yaml:"quantity"`
		CurrentPrice    *decimal.Decimal `yaml:"current_price"`
		CatalogCost     decimal.Decimal  `yaml:"catalog_cost"`
		CashFlowPerUnit decimal.Decimal  `yaml:"cash_flow_per_unit"`
	} `yaml:"holdings"`
}

// ParseSeed reads a YAML list of player session records, used to stand up a
// store for local play without the game session service.
//
//	players:
//	  - id: 1001
//	    session_id: s-1
//	    cash: 5000
//	    salary: 12000
//	    career: {name: engineer, base_salary: 12000}
func ParseSeed(r io.Reader) ([]model.Player, error) {
	var file seedFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode seed: %w", err)
	}

	players := make([]model.Player, 0, len(file.Players))
	for i, sp := range file.Players {
		if sp.ID == 0 {
			return nil, fmt.Errorf("decode seed: player %d has no id", i)
		}
		if sp.Cash.IsNegative() || sp.Savings.IsNegative() {
			return nil, fmt.Errorf("decode seed: player %d has a negative balance", sp.ID)
		}
		players = append(players, sp.toModel())
	}
	return players, nil
}

func (sp seedPlayer) toModel() model.Player {
	p := model.Player{
		ID:        sp.ID,
		SessionID: sp.SessionID,
		Name:      sp.Name,
		Account: model.PlayerAccount{
			Cash:          sp.Cash,
			Savings:       sp.Savings,
			Salary:        sp.Salary,
			PassiveIncome: sp.PassiveIncome,
		},
	}
	if sp.Career != nil {
		c := &model.Career{Name: sp.Career.Name, BaseSalary: sp.Career.BaseSalary}
		for _, e := range sp.Career.Expenses {
			c.RecurringExpenses = append(c.RecurringExpenses, model.Expense{Name: e.Name, Amount: e.Amount})
		}
		p.Career = c
	}
	if sp.Goal != nil {
		p.Goal = &model.Goal{ID: sp.Goal.ID, Description: sp.Goal.Description, TargetAmount: sp.Goal.TargetAmount}
	}
	for _, h := range sp.Holdings {
		p.Holdings = append(p.Holdings, model.AssetHolding{
			AssetID:         h.AssetID,
			Name:            h.Name,
			Quantity:        h.Quantity,
			CurrentPrice:    h.CurrentPrice,
			CatalogCost:     h.CatalogCost,
			CashFlowPerUnit: h.CashFlowPerUnit,
		})
	}
	return p
}
