package expense

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/myeconomy/backend/internal/application/adapter"
	"github.com/myeconomy/backend/internal/domain/budget"
	"github.com/myeconomy/backend/internal/domain/entity"
	"github.com/myeconomy/backend/internal/domain/valueobject"
)

// ListExpensesInput represents the input for listing expenses.
// A nil Period lists every expense of the user.
type ListExpensesInput struct {
	UserID uuid.UUID
	Period *valueobject.PeriodKey
}

// ListExpensesOutput represents the output of listing expenses.
type ListExpensesOutput struct {
	Expenses []ExpenseOutput
	Total    decimal.Decimal
}

// ListExpensesUseCase handles expense listing logic.
type ListExpensesUseCase struct {
	expenseRepo adapter.ExpenseRepository
	now         adapter.Clock
}

// NewListExpensesUseCase creates a new ListExpensesUseCase instance.
func NewListExpensesUseCase(expenseRepo adapter.ExpenseRepository, now adapter.Clock) *ListExpensesUseCase {
	return &ListExpensesUseCase{
		expenseRepo: expenseRepo,
		now:         now,
	}
}

// Execute lists the user's expenses, most recent first.
func (uc *ListExpensesUseCase) Execute(ctx context.Context, input ListExpensesInput) (*ListExpensesOutput, error) {
	expenses, err := uc.expenseRepo.FindByUser(ctx, input.UserID, entity.ExpenseFilter{Period: input.Period})
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}

	return &ListExpensesOutput{
		Expenses: toOutputs(expenses, uc.now()),
		Total:    budget.TotalOf(expenses),
	}, nil
}
