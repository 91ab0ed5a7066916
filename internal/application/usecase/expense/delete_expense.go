package expense

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/myeconomy/backend/internal/application/adapter"
	"github.com/myeconomy/backend/internal/domain/budget"
)

// DeleteExpenseInput represents the input for expense deletion.
type DeleteExpenseInput struct {
	UserID    uuid.UUID
	ExpenseID uuid.UUID
}

// DeleteExpenseUseCase handles expense deletion logic.
type DeleteExpenseUseCase struct {
	expenseRepo adapter.ExpenseRepository
	cache       adapter.SnapshotCache
	now         adapter.Clock
}

// NewDeleteExpenseUseCase creates a new DeleteExpenseUseCase instance.
func NewDeleteExpenseUseCase(
	expenseRepo adapter.ExpenseRepository,
	cache adapter.SnapshotCache,
	now adapter.Clock,
) *DeleteExpenseUseCase {
	return &DeleteExpenseUseCase{
		expenseRepo: expenseRepo,
		cache:       cache,
		now:         now,
	}
}

// Execute performs the expense deletion.
func (uc *DeleteExpenseUseCase) Execute(ctx context.Context, input DeleteExpenseInput) error {
	expense, err := findOwned(ctx, uc.expenseRepo, input.ExpenseID, input.UserID)
	if err != nil {
		return err
	}

	period := expense.Period()
	if err := budget.EnsureMutable(period, uc.now(), budget.ActionDelete); err != nil {
		return err
	}

	if err := uc.expenseRepo.Delete(ctx, expense.ID); err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}

	invalidateSnapshots(ctx, uc.cache, input.UserID, period)
	return nil
}
