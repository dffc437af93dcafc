package model

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/cashflowgame/finance-service/internal/domain/valueobject"
)

// Credit score bounds.
const (
	MinCreditScore  = 300
	MaxCreditScore  = 850
	BaseCreditScore = 750
)

// CreditFactor is one weighted contribution to a credit score.
type CreditFactor struct {
	Category    valueobject.FactorCategory
	Label       string
	Impact      valueobject.FactorImpact
	Adjustment  decimal.Decimal
	Description string
}

// Weight is the factor category's fixed weight.
func (f CreditFactor) Weight() int { return f.Category.Weight() }

// CreditScore is a computed, never persisted, assessment of a player's credit.
type CreditScore struct {
	PlayerID     int64
	Score        int
	Rating       valueobject.CreditRating
	Factors      []CreditFactor
	Tips         []string
	CalculatedAt time.Time
}

// FloorCreditScore is returned when no player record exists.
func FloorCreditScore(playerID int64, now time.Time) CreditScore {
	return CreditScore{
		PlayerID:     playerID,
		Score:        MinCreditScore,
		Rating:       valueobject.CreditRatingPoor,
		Tips:         []string{"No financial record was found for this player, so the minimum score applies."},
		CalculatedAt: now,
	}
}
