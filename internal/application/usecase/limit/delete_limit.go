package limit

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/myeconomy/backend/internal/application/adapter"
	"github.com/myeconomy/backend/internal/domain/budget"
)

// DeleteLimitInput represents the input for limit deletion.
type DeleteLimitInput struct {
	UserID  uuid.UUID
	LimitID uuid.UUID
}

// DeleteLimitUseCase handles limit deletion logic.
type DeleteLimitUseCase struct {
	limitRepo adapter.LimitRepository
	cache     adapter.SnapshotCache
	now       adapter.Clock
}

// NewDeleteLimitUseCase creates a new DeleteLimitUseCase instance.
func NewDeleteLimitUseCase(
	limitRepo adapter.LimitRepository,
	cache adapter.SnapshotCache,
	now adapter.Clock,
) *DeleteLimitUseCase {
	return &DeleteLimitUseCase{
		limitRepo: limitRepo,
		cache:     cache,
		now:       now,
	}
}

// Execute performs the limit deletion.
func (uc *DeleteLimitUseCase) Execute(ctx context.Context, input DeleteLimitInput) error {
	limit, err := findOwned(ctx, uc.limitRepo, input.LimitID, input.UserID)
	if err != nil {
		return err
	}

	period := limit.Period()
	if err := budget.EnsureMutable(period, uc.now(), budget.ActionDelete); err != nil {
		return err
	}

	if err := uc.limitRepo.Delete(ctx, limit.ID); err != nil {
		return fmt.Errorf("failed to delete limit: %w", err)
	}

	invalidateSnapshots(ctx, uc.cache, input.UserID, period)
	return nil
}
