// Package cache implements Redis-backed snapshot caching and period locking.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/myeconomy/backend/internal/application/adapter"
	"github.com/myeconomy/backend/internal/domain/budget"
	"github.com/myeconomy/backend/internal/domain/valueobject"
)

// cachedSnapshot is the JSON form of a budget.Snapshot.
type cachedSnapshot struct {
	Month              int             `json:"month"`
	Year               int             `json:"year"`
	LimitID            *uuid.UUID      `json:"limit_id,omitempty"`
	LimitAmount        decimal.Decimal `json:"limit_amount"`
	Spent              decimal.Decimal `json:"spent"`
	Remaining          decimal.Decimal `json:"remaining"`
	PercentageConsumed decimal.Decimal `json:"percentage_consumed"`
	Status             budget.Status   `json:"status"`
	HasLimit           bool            `json:"has_limit"`
	ExpenseCount       int             `json:"expense_count"`
}

func (c cachedSnapshot) toSnapshot() *budget.Snapshot {
	return &budget.Snapshot{
		Period:             valueobject.PeriodKey{Month: valueobject.Month(c.Month), Year: c.Year},
		LimitID:            c.LimitID,
		LimitAmount:        c.LimitAmount,
		Spent:              c.Spent,
		Remaining:          c.Remaining,
		PercentageConsumed: c.PercentageConsumed,
		Status:             c.Status,
		HasLimit:           c.HasLimit,
		ExpenseCount:       c.ExpenseCount,
	}
}

func fromSnapshot(s *budget.Snapshot) cachedSnapshot {
	return cachedSnapshot{
		Month:              int(s.Period.Month),
		Year:               s.Period.Year,
		LimitID:            s.LimitID,
		LimitAmount:        s.LimitAmount,
		Spent:              s.Spent,
		Remaining:          s.Remaining,
		PercentageConsumed: s.PercentageConsumed,
		Status:             s.Status,
		HasLimit:           s.HasLimit,
		ExpenseCount:       s.ExpenseCount,
	}
}

// Generation counters outlive any snapshot computation by far. An expired
// counter reads as 0, which no in-flight snapshot holds after a bump.
const generationTTL = 24 * time.Hour

// setIfCurrent writes KEYS[1] only while the generation in KEYS[2] still
// equals ARGV[1]. ARGV[3] is the TTL in milliseconds.
var setIfCurrent = redis.NewScript(`
local current = tonumber(redis.call('GET', KEYS[2]) or '0')
if current ~= tonumber(ARGV[1]) then
	return 0
end
if tonumber(ARGV[3]) > 0 then
	redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
else
	redis.call('SET', KEYS[1], ARGV[2])
end
return 1
`)

type snapshotCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSnapshotCache creates a Redis snapshot cache whose entries expire after ttl.
func NewSnapshotCache(client *redis.Client, ttl time.Duration) adapter.SnapshotCache {
	return &snapshotCache{client: client, ttl: ttl}
}

// SnapshotKey returns the cache key of a user's period snapshot.
func SnapshotKey(userID uuid.UUID, period valueobject.PeriodKey) string {
	return fmt.Sprintf("snapshot:%s:%s", userID, period)
}

// GenerationKey returns the key of a user's period generation counter.
func GenerationKey(userID uuid.UUID, period valueobject.PeriodKey) string {
	return fmt.Sprintf("snapshot-gen:%s:%s", userID, period)
}

func (c *snapshotCache) Get(ctx context.Context, userID uuid.UUID, period valueobject.PeriodKey) (*budget.Snapshot, error) {
	raw, err := c.client.Get(ctx, SnapshotKey(userID, period)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, adapter.ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var cached cachedSnapshot
	if err := json.Unmarshal(raw, &cached); err != nil {
		// A stale or foreign payload is treated as absent
		return nil, adapter.ErrCacheMiss
	}
	return cached.toSnapshot(), nil
}

func (c *snapshotCache) Generation(ctx context.Context, userID uuid.UUID, period valueobject.PeriodKey) (int64, error) {
	gen, err := c.client.Get(ctx, GenerationKey(userID, period)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read snapshot generation: %w", err)
	}
	return gen, nil
}

func (c *snapshotCache) Set(ctx context.Context, userID uuid.UUID, snapshot *budget.Snapshot, generation int64) error {
	raw, err := json.Marshal(fromSnapshot(snapshot))
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	keys := []string{SnapshotKey(userID, snapshot.Period), GenerationKey(userID, snapshot.Period)}
	stored, err := setIfCurrent.Run(ctx, c.client, keys, generation, raw, c.ttl.Milliseconds()).Int()
	if err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if stored == 0 {
		return adapter.ErrStaleSnapshot
	}
	return nil
}

func (c *snapshotCache) Invalidate(ctx context.Context, userID uuid.UUID, periods ...valueobject.PeriodKey) error {
	if len(periods) == 0 {
		return nil
	}

	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, period := range periods {
			genKey := GenerationKey(userID, period)
			pipe.Incr(ctx, genKey)
			pipe.Expire(ctx, genKey, generationTTL)
			pipe.Del(ctx, SnapshotKey(userID, period))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to invalidate snapshots: %w", err)
	}
	return nil
}
