package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/cashflowgame/finance-service/internal/domain/model"
	"github.com/cashflowgame/finance-service/internal/domain/valueobject"
)

const keyPrefix = "finance:credit-score:"

type cachedFactor struct {
	Category    valueobject.FactorCategory `json:"category"`
	Label       string                     `json:"label"`
	Impact      valueobject.FactorImpact   `json:"impact"`
	Adjustment  decimal.Decimal            `json:"adjustment"`
	Description string                     `json:"description"`
}

type cachedScore struct {
	PlayerID     int64                    `json:"player_id"`
	Score        int                      `json:"score"`
	Rating       valueobject.CreditRating `json:"rating"`
	Factors      []cachedFactor           `json:"factors"`
	Tips         []string                 `json:"tips"`
	CalculatedAt time.Time                `json:"calculated_at"`
}

// CreditScoreCache implements port.CreditScoreCache on Redis strings with a TTL.
type CreditScoreCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewCreditScoreCache caches scores for ttl; a non-positive ttl keeps them
// until invalidated.
func NewCreditScoreCache(client redis.UniversalClient, ttl time.Duration) *CreditScoreCache {
	if ttl < 0 {
		ttl = 0
	}
	return &CreditScoreCache{client: client, ttl: ttl}
}

// NewClient builds a go-redis client with the service's timeouts.
func NewClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
}

func (c *CreditScoreCache) Get(ctx context.Context, playerID int64) (model.CreditScore, bool, error) {
	raw, err := c.client.Get(ctx, key(playerID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.CreditScore{}, false, nil
	}
	if err != nil {
		return model.CreditScore{}, false, fmt.Errorf("get cached score: %w", err)
	}

	var cs cachedScore
	if err := json.Unmarshal(raw, &cs); err != nil {
		return model.CreditScore{}, false, fmt.Errorf("decode cached score: %w", err)
	}

	score := model.CreditScore{
		PlayerID:     cs.PlayerID,
		Score:        cs.Score,
		Rating:       cs.Rating,
		Tips:         cs.Tips,
		CalculatedAt: cs.CalculatedAt,
	}
	for _, f := range cs.Factors {
		score.Factors = append(score.Factors, model.CreditFactor{
			Category:    f.Category,
			Label:       f.Label,
			Impact:      f.Impact,
			Adjustment:  f.Adjustment,
			Description: f.Description,
		})
	}
	return score, true, nil
}

func (c *CreditScoreCache) Set(ctx context.Context, score model.CreditScore) error {
	cs := cachedScore{
		PlayerID:     score.PlayerID,
		Score:        score.Score,
		Rating:       score.Rating,
		Tips:         score.Tips,
		CalculatedAt: score.CalculatedAt,
	}
	for _, f := range score.Factors {
		cs.Factors = append(cs.Factors, cachedFactor{
			Category:    f.Category,
			Label:       f.Label,
			Impact:      f.Impact,
			Adjustment:  f.Adjustment,
			Description: f.Description,
		})
	}
	raw, err := json.Marshal(cs)
	if err != nil {
		return fmt.Errorf("encode score: %w", err)
	}
	if err := c.client.Set(ctx, key(score.PlayerID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("set cached score: %w", err)
	}
	return nil
}

func (c *CreditScoreCache) Invalidate(ctx context.Context, playerID int64) error {
	if err := c.client.Del(ctx, key(playerID)).Err(); err != nil {
		return fmt.Errorf("invalidate cached score: %w", err)
	}
	return nil
}

// Ping reports whether Redis answers.
func (c *CreditScoreCache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func key(playerID int64) string {
	return keyPrefix + strconv.FormatInt(playerID, 10)
}
