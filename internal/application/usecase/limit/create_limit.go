package limit

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/myeconomy/backend/internal/application/adapter"
	"github.com/myeconomy/backend/internal/domain/budget"
	"github.com/myeconomy/backend/internal/domain/entity"
	domainerror "github.com/myeconomy/backend/internal/domain/error"
)

// CreateLimitInput represents the input for limit creation.
type CreateLimitInput struct {
	UserID uuid.UUID
	Amount string
	PeriodInput
}

// CreateLimitUseCase handles limit creation logic.
type CreateLimitUseCase struct {
	limitRepo adapter.LimitRepository
	locker    adapter.PeriodLocker
	cache     adapter.SnapshotCache
	now       adapter.Clock
}

// NewCreateLimitUseCase creates a new CreateLimitUseCase instance.
func NewCreateLimitUseCase(
	limitRepo adapter.LimitRepository,
	locker adapter.PeriodLocker,
	cache adapter.SnapshotCache,
	now adapter.Clock,
) *CreateLimitUseCase {
	return &CreateLimitUseCase{
		limitRepo: limitRepo,
		locker:    locker,
		cache:     cache,
		now:       now,
	}
}

// Execute performs the limit creation.
func (uc *CreateLimitUseCase) Execute(ctx context.Context, input CreateLimitInput) (*LimitOutput, error) {
	amount, err := parseAmount(input.Amount)
	if err != nil {
		return nil, err
	}

	period, err := resolvePeriod(input.PeriodInput)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	if err := budget.EnsureMutable(period, now, budget.ActionCreate); err != nil {
		return nil, err
	}

	release, err := lockPeriod(ctx, uc.locker, input.UserID, period)
	if err != nil {
		return nil, err
	}
	defer release()

	if err := ensureFree(ctx, uc.limitRepo, input.UserID, period, uuid.Nil); err != nil {
		return nil, err
	}

	limit := entity.NewLimit(input.UserID, amount, period, now)

	// The unique index still guards against writers that bypass the lock
	if err := uc.limitRepo.Create(ctx, limit); err != nil {
		if errors.Is(err, domainerror.ErrLimitAlreadyExists) {
			return nil, duplicateError()
		}
		return nil, fmt.Errorf("failed to create limit: %w", err)
	}

	invalidateSnapshots(ctx, uc.cache, input.UserID, period)

	output := toOutput(limit, now)
	return &output, nil
}
