package limit

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/myeconomy/backend/internal/application/adapter"
	"github.com/myeconomy/backend/internal/domain/budget"
	domainerror "github.com/myeconomy/backend/internal/domain/error"
)

// UpdateLimitInput represents the input for limit update.
type UpdateLimitInput struct {
	UserID  uuid.UUID
	LimitID uuid.UUID
	Amount  string
	PeriodInput
}

// UpdateLimitUseCase handles limit update logic.
type UpdateLimitUseCase struct {
	limitRepo adapter.LimitRepository
	locker    adapter.PeriodLocker
	cache     adapter.SnapshotCache
	now       adapter.Clock
}

// NewUpdateLimitUseCase creates a new UpdateLimitUseCase instance.
func NewUpdateLimitUseCase(
	limitRepo adapter.LimitRepository,
	locker adapter.PeriodLocker,
	cache adapter.SnapshotCache,
	now adapter.Clock,
) *UpdateLimitUseCase {
	return &UpdateLimitUseCase{
		limitRepo: limitRepo,
		locker:    locker,
		cache:     cache,
		now:       now,
	}
}

// Execute performs the limit update. Moving a limit to another period is
// allowed when both periods are mutable and the target one is free.
func (uc *UpdateLimitUseCase) Execute(ctx context.Context, input UpdateLimitInput) (*LimitOutput, error) {
	amount, err := parseAmount(input.Amount)
	if err != nil {
		return nil, err
	}

	target, err := resolvePeriod(input.PeriodInput)
	if err != nil {
		return nil, err
	}

	limit, err := findOwned(ctx, uc.limitRepo, input.LimitID, input.UserID)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	stored := limit.Period()
	if err := budget.EnsureMutableTransition(stored, target, now); err != nil {
		return nil, err
	}

	release, err := lockPeriod(ctx, uc.locker, input.UserID, target)
	if err != nil {
		return nil, err
	}
	defer release()

	if target != stored {
		if err := ensureFree(ctx, uc.limitRepo, input.UserID, target, limit.ID); err != nil {
			return nil, err
		}
	}

	limit.Amount = amount
	limit.SetPeriod(target)
	limit.UpdatedAt = now.UTC()

	if err := uc.limitRepo.Update(ctx, limit); err != nil {
		if errors.Is(err, domainerror.ErrLimitAlreadyExists) {
			return nil, duplicateError()
		}
		return nil, fmt.Errorf("failed to update limit: %w", err)
	}

	invalidateSnapshots(ctx, uc.cache, input.UserID, stored, target)

	output := toOutput(limit, now)
	return &output, nil
}
