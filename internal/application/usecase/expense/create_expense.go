package expense

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/myeconomy/backend/internal/application/adapter"
	"github.com/myeconomy/backend/internal/domain/budget"
	"github.com/myeconomy/backend/internal/domain/entity"
)

// CreateExpenseInput represents the input for expense creation.
// Amount and Date are kept as submitted and validated here.
type CreateExpenseInput struct {
	UserID      uuid.UUID
	Description string
	Amount      string
	Date        string
}

// CreateExpenseUseCase handles expense creation logic.
type CreateExpenseUseCase struct {
	expenseRepo adapter.ExpenseRepository
	cache       adapter.SnapshotCache
	now         adapter.Clock
}

// NewCreateExpenseUseCase creates a new CreateExpenseUseCase instance.
func NewCreateExpenseUseCase(
	expenseRepo adapter.ExpenseRepository,
	cache adapter.SnapshotCache,
	now adapter.Clock,
) *CreateExpenseUseCase {
	return &CreateExpenseUseCase{
		expenseRepo: expenseRepo,
		cache:       cache,
		now:         now,
	}
}

// Execute performs the expense creation.
func (uc *CreateExpenseUseCase) Execute(ctx context.Context, input CreateExpenseInput) (*ExpenseOutput, error) {
	f, err := validateFields(input.Description, input.Amount, input.Date)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	expense := entity.NewExpense(input.UserID, f.description, f.amount, f.date, now)

	if err := budget.EnsureMutable(expense.Period(), now, budget.ActionCreate); err != nil {
		return nil, err
	}

	if err := uc.expenseRepo.Create(ctx, expense); err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}

	invalidateSnapshots(ctx, uc.cache, input.UserID, expense.Period())

	output := toOutput(expense, now)
	return &output, nil
}
