package adapter

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/myeconomy/backend/internal/domain/budget"
	"github.com/myeconomy/backend/internal/domain/valueobject"
)

var (
	// ErrCacheMiss is returned by SnapshotCache.Get when no entry exists.
	ErrCacheMiss = errors.New("cache miss")

	// ErrStaleSnapshot is returned by SnapshotCache.Set when the period was
	// invalidated after the snapshot's data was read.
	ErrStaleSnapshot = errors.New("stale snapshot")
)

// SnapshotCache stores computed budget snapshots per user and period.
// Every period carries a generation that Invalidate bumps.
type SnapshotCache interface {
	// Get returns the cached snapshot or ErrCacheMiss.
	Get(ctx context.Context, userID uuid.UUID, period valueobject.PeriodKey) (*budget.Snapshot, error)

	// Generation returns the period's current generation. Read it before
	// loading the records a snapshot is computed from.
	Generation(ctx context.Context, userID uuid.UUID, period valueobject.PeriodKey) (int64, error)

	// Set stores a snapshot computed at generation. It stores nothing and
	// returns ErrStaleSnapshot when the generation has moved on.
	Set(ctx context.Context, userID uuid.UUID, snapshot *budget.Snapshot, generation int64) error

	// Invalidate drops the cached snapshots of the given periods and bumps
	// their generations.
	Invalidate(ctx context.Context, userID uuid.UUID, periods ...valueobject.PeriodKey) error
}

// PeriodLocker serializes writes to one (user, period) pair across instances.
type PeriodLocker interface {
	// Lock acquires the period lock. The returned function releases it.
	Lock(ctx context.Context, userID uuid.UUID, period valueobject.PeriodKey) (release func(), err error)
}

// Clock returns the current instant. Use cases read time only through it.
type Clock func() time.Time
