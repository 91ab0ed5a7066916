package limit

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/myeconomy/backend/internal/application/adapter"
)

// ListLimitsUseCase handles limit listing logic.
type ListLimitsUseCase struct {
	limitRepo adapter.LimitRepository
	now       adapter.Clock
}

// NewListLimitsUseCase creates a new ListLimitsUseCase instance.
func NewListLimitsUseCase(limitRepo adapter.LimitRepository, now adapter.Clock) *ListLimitsUseCase {
	return &ListLimitsUseCase{
		limitRepo: limitRepo,
		now:       now,
	}
}

// Execute lists the user's limits, most recent period first.
func (uc *ListLimitsUseCase) Execute(ctx context.Context, userID uuid.UUID) ([]LimitOutput, error) {
	limits, err := uc.limitRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list limits: %w", err)
	}

	now := uc.now()
	outputs := make([]LimitOutput, 0, len(limits))
	for _, limit := range limits {
		outputs = append(outputs, toOutput(limit, now))
	}
	return outputs, nil
}
