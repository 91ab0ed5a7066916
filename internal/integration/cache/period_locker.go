package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bsm/redislock"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/myeconomy/backend/internal/application/adapter"
	domainerror "github.com/myeconomy/backend/internal/domain/error"
	"github.com/myeconomy/backend/internal/domain/valueobject"
)

const (
	lockRetryInterval = 50 * time.Millisecond
	lockRetryAttempts = 10
)

type periodLocker struct {
	locker *redislock.Client
	ttl    time.Duration
}

// NewPeriodLocker creates a distributed (user, period) lock on Redis.
// A lock not released within ttl expires on its own.
func NewPeriodLocker(client *redis.Client, ttl time.Duration) adapter.PeriodLocker {
	return &periodLocker{
		locker: redislock.New(client),
		ttl:    ttl,
	}
}

// LockKey returns the Redis key guarding a user's period.
func LockKey(userID uuid.UUID, period valueobject.PeriodKey) string {
	return fmt.Sprintf("lock:limit:%s:%s", userID, period)
}

func (l *periodLocker) Lock(ctx context.Context, userID uuid.UUID, period valueobject.PeriodKey) (func(), error) {
	key := LockKey(userID, period)

	lock, err := l.locker.Obtain(ctx, key, l.ttl, &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(lockRetryInterval), lockRetryAttempts),
	})
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, fmt.Errorf("%s: %w", key, domainerror.ErrLimitPeriodBusy)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to obtain lock %s: %w", key, err)
	}

	release := func() {
		if err := lock.Release(context.WithoutCancel(ctx)); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			slog.Warn("Failed to release period lock", "error", err, "key", key)
		}
	}
	return release, nil
}
