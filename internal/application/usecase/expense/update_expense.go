package expense

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/myeconomy/backend/internal/application/adapter"
	"github.com/myeconomy/backend/internal/domain/budget"
	"github.com/myeconomy/backend/internal/domain/valueobject"
)

// UpdateExpenseInput represents the input for expense update.
type UpdateExpenseInput struct {
	UserID      uuid.UUID
	ExpenseID   uuid.UUID
	Description string
	Amount      string
	Date        string
}

// UpdateExpenseUseCase handles expense update logic.
type UpdateExpenseUseCase struct {
	expenseRepo adapter.ExpenseRepository
	cache       adapter.SnapshotCache
	now         adapter.Clock
}

// NewUpdateExpenseUseCase creates a new UpdateExpenseUseCase instance.
func NewUpdateExpenseUseCase(
	expenseRepo adapter.ExpenseRepository,
	cache adapter.SnapshotCache,
	now adapter.Clock,
) *UpdateExpenseUseCase {
	return &UpdateExpenseUseCase{
		expenseRepo: expenseRepo,
		cache:       cache,
		now:         now,
	}
}

// Execute performs the expense update. Both the stored period and the
// submitted one must still be mutable.
func (uc *UpdateExpenseUseCase) Execute(ctx context.Context, input UpdateExpenseInput) (*ExpenseOutput, error) {
	f, err := validateFields(input.Description, input.Amount, input.Date)
	if err != nil {
		return nil, err
	}

	expense, err := findOwned(ctx, uc.expenseRepo, input.ExpenseID, input.UserID)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	stored := expense.Period()
	target := valueobject.PeriodOf(f.date)

	if err := budget.EnsureMutableTransition(stored, target, now); err != nil {
		return nil, err
	}

	expense.Description = f.description
	expense.Amount = f.amount
	expense.Date = f.date
	expense.UpdatedAt = now.UTC()

	if err := uc.expenseRepo.Update(ctx, expense); err != nil {
		return nil, fmt.Errorf("failed to update expense: %w", err)
	}

	invalidateSnapshots(ctx, uc.cache, input.UserID, stored, target)

	output := toOutput(expense, now)
	return &output, nil
}
