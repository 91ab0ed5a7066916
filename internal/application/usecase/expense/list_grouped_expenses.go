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

// ExpenseGroupOutput is one period of the grouped listing.
type ExpenseGroupOutput struct {
	Period   valueobject.PeriodKey
	Total    decimal.Decimal
	Expenses []ExpenseOutput
}

// ListGroupedExpensesUseCase lists expenses grouped by period.
type ListGroupedExpensesUseCase struct {
	expenseRepo adapter.ExpenseRepository
	now         adapter.Clock
}

// NewListGroupedExpensesUseCase creates a new ListGroupedExpensesUseCase instance.
func NewListGroupedExpensesUseCase(expenseRepo adapter.ExpenseRepository, now adapter.Clock) *ListGroupedExpensesUseCase {
	return &ListGroupedExpensesUseCase{
		expenseRepo: expenseRepo,
		now:         now,
	}
}

// Execute returns the user's expenses grouped by period, most recent period first.
func (uc *ListGroupedExpensesUseCase) Execute(ctx context.Context, userID uuid.UUID) ([]ExpenseGroupOutput, error) {
	expenses, err := uc.expenseRepo.FindByUser(ctx, userID, entity.ExpenseFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}

	now := uc.now()
	groups := budget.GroupByPeriod(expenses)
	outputs := make([]ExpenseGroupOutput, 0, len(groups))
	for _, group := range groups {
		outputs = append(outputs, ExpenseGroupOutput{
			Period:   group.Period,
			Total:    group.Total,
			Expenses: toOutputs(group.Expenses, now),
		})
	}
	return outputs, nil
}
