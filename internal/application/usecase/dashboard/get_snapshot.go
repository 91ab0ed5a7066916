// Package dashboard contains dashboard-related use cases.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/myeconomy/backend/internal/application/adapter"
	"github.com/myeconomy/backend/internal/domain/budget"
	"github.com/myeconomy/backend/internal/domain/entity"
	domainerror "github.com/myeconomy/backend/internal/domain/error"
	"github.com/myeconomy/backend/internal/domain/valueobject"
)

// GetSnapshotInput represents the input for the dashboard snapshot.
// A nil Period selects the current period.
type GetSnapshotInput struct {
	UserID uuid.UUID
	Period *valueobject.PeriodKey
}

// GetSnapshotUseCase computes the spend-versus-limit snapshot of a period.
type GetSnapshotUseCase struct {
	expenseRepo adapter.ExpenseRepository
	limitRepo   adapter.LimitRepository
	balanceRepo adapter.BalanceRepository
	cache       adapter.SnapshotCache
	now         adapter.Clock
	inflight    singleflight.Group
}

// NewGetSnapshotUseCase creates a new GetSnapshotUseCase instance.
// balanceRepo and cache are optional.
func NewGetSnapshotUseCase(
	expenseRepo adapter.ExpenseRepository,
	limitRepo adapter.LimitRepository,
	balanceRepo adapter.BalanceRepository,
	cache adapter.SnapshotCache,
	now adapter.Clock,
) *GetSnapshotUseCase {
	return &GetSnapshotUseCase{
		expenseRepo: expenseRepo,
		limitRepo:   limitRepo,
		balanceRepo: balanceRepo,
		cache:       cache,
		now:         now,
	}
}

// computeTimeout bounds a shared computation, which no single caller's
// context can cancel.
const computeTimeout = 10 * time.Second

// noGeneration marks a computation whose result must not be cached.
const noGeneration int64 = -1

// Execute returns the snapshot, from cache when possible.
func (uc *GetSnapshotUseCase) Execute(ctx context.Context, input GetSnapshotInput) (*budget.Snapshot, error) {
	period := valueobject.PeriodOf(uc.now())
	if input.Period != nil {
		period = *input.Period
	}

	generation := noGeneration
	if uc.cache != nil {
		cached, err := uc.cache.Get(ctx, input.UserID, period)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, adapter.ErrCacheMiss) {
			slog.WarnContext(ctx, "Snapshot cache read failed", "error", err, "user_id", input.UserID)
		}
		if generation, err = uc.cache.Generation(ctx, input.UserID, period); err != nil {
			slog.WarnContext(ctx, "Snapshot generation unavailable", "error", err, "user_id", input.UserID)
			generation = noGeneration
		}
	}

	// Requests for the same user, period and generation share one computation.
	// A write bumps the generation, so later readers never join an older load.
	key := fmt.Sprintf("%s:%s:%d", input.UserID, period, generation)
	results := uc.inflight.DoChan(key, func() (any, error) {
		shared, cancel := context.WithTimeout(context.WithoutCancel(ctx), computeTimeout)
		defer cancel()
		return uc.compute(shared, input.UserID, period, generation)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-results:
		if res.Err != nil {
			return nil, res.Err
		}
		snapshot := *res.Val.(*budget.Snapshot)
		return &snapshot, nil
	}
}

func (uc *GetSnapshotUseCase) compute(ctx context.Context, userID uuid.UUID, period valueobject.PeriodKey, generation int64) (*budget.Snapshot, error) {
	var (
		expenses []*entity.Expense
		limits   []*entity.Limit
		remote   *decimal.Decimal
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		found, err := uc.expenseRepo.FindByUser(gctx, userID, entity.ExpenseFilter{Period: &period})
		if err != nil {
			return fmt.Errorf("failed to load expenses: %w", err)
		}
		expenses = found
		return nil
	})

	g.Go(func() error {
		limit, err := uc.limitRepo.FindByUserAndPeriod(gctx, userID, period)
		if errors.Is(err, domainerror.ErrLimitNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to load limit: %w", err)
		}
		limits = []*entity.Limit{limit}
		return nil
	})

	if uc.balanceRepo != nil {
		g.Go(func() error {
			// The store balance is preferred but optional; fall back to the local sum
			balance, err := uc.balanceRepo.RemainingBalance(gctx, userID, period)
			if err != nil {
				slog.WarnContext(ctx, "Remaining balance unavailable", "error", err, "user_id", userID)
				return nil
			}
			if balance != nil {
				remaining := balance.Remaining
				remote = &remaining
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	snapshot := budget.ComputeSnapshot(budget.SnapshotInput{
		Expenses:        expenses,
		Limits:          limits,
		Period:          period,
		RemoteRemaining: remote,
	})

	if uc.cache != nil && generation != noGeneration {
		err := uc.cache.Set(ctx, userID, &snapshot, generation)
		switch {
		case errors.Is(err, adapter.ErrStaleSnapshot):
			slog.DebugContext(ctx, "Snapshot outdated by a write, not cached", "user_id", userID)
		case err != nil:
			slog.WarnContext(ctx, "Snapshot cache write failed", "error", err, "user_id", userID)
		}
	}

	return &snapshot, nil
}
