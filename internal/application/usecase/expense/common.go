// Package expense contains expense-related use cases.
package expense

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/myeconomy/backend/internal/application/adapter"
	"github.com/myeconomy/backend/internal/domain/budget"
	"github.com/myeconomy/backend/internal/domain/entity"
	domainerror "github.com/myeconomy/backend/internal/domain/error"
	"github.com/myeconomy/backend/internal/domain/valueobject"
)

// MaxDescriptionLength is the maximum allowed length for expense descriptions.
const MaxDescriptionLength = 100

// ExpenseOutput is an expense enriched with its derived period.
type ExpenseOutput struct {
	Expense  *entity.Expense
	Period   valueobject.PeriodKey
	Editable bool // Whether the temporal guard still allows changes
}

func toOutput(expense *entity.Expense, now time.Time) ExpenseOutput {
	period := expense.Period()
	return ExpenseOutput{
		Expense:  expense,
		Period:   period,
		Editable: budget.IsPeriodMutable(period.Month, period.Year, now),
	}
}

func toOutputs(expenses []*entity.Expense, now time.Time) []ExpenseOutput {
	outputs := make([]ExpenseOutput, 0, len(expenses))
	for _, expense := range expenses {
		outputs = append(outputs, toOutput(expense, now))
	}
	return outputs
}

// fields holds validated expense fields.
type fields struct {
	description string
	amount      decimal.Decimal
	date        time.Time
}

// validateFields checks description, amount and date as submitted by the client.
func validateFields(description, amount, date string) (*fields, error) {
	desc := strings.TrimSpace(description)
	if desc == "" {
		return nil, domainerror.NewExpenseError(
			domainerror.ErrCodeEmptyDescription,
			"descrição é obrigatória",
			domainerror.ErrEmptyDescription,
		)
	}
	if utf8.RuneCountInString(desc) > MaxDescriptionLength {
		return nil, domainerror.NewExpenseError(
			domainerror.ErrCodeDescriptionTooLong,
			fmt.Sprintf("descrição deve ter no máximo %d caracteres", MaxDescriptionLength),
			domainerror.ErrDescriptionTooLong,
		)
	}

	value, err := valueobject.ParseAmount(amount)
	if err != nil {
		return nil, domainerror.NewExpenseError(
			domainerror.ErrCodeInvalidExpenseAmount,
			"valor deve ser numérico",
			err,
		)
	}
	if !value.IsPositive() {
		return nil, domainerror.NewExpenseError(
			domainerror.ErrCodeNonPositiveExpense,
			"valor deve ser maior que zero",
			domainerror.ErrNonPositiveAmount,
		)
	}

	// Malformed dates surface as the period parse error
	parsed, err := valueobject.ParseDate(date)
	if err != nil {
		return nil, err
	}

	return &fields{description: desc, amount: value, date: parsed}, nil
}

// findOwned loads an expense and checks that userID owns it.
func findOwned(ctx context.Context, repo adapter.ExpenseRepository, id, userID uuid.UUID) (*entity.Expense, error) {
	expense, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainerror.ErrExpenseNotFound) {
			return nil, domainerror.NewExpenseError(
				domainerror.ErrCodeExpenseNotFound,
				"despesa não encontrada",
				domainerror.ErrExpenseNotFound,
			)
		}
		return nil, fmt.Errorf("failed to find expense: %w", err)
	}

	if !expense.IsOwnedBy(userID) {
		return nil, domainerror.NewExpenseError(
			domainerror.ErrCodeNotAuthorizedExpense,
			"despesa pertence a outro usuário",
			domainerror.ErrNotAuthorizedToModifyExpense,
		)
	}

	return expense, nil
}

// invalidateSnapshots drops cached dashboards of the touched periods.
// A nil cache means caching is disabled.
func invalidateSnapshots(ctx context.Context, cache adapter.SnapshotCache, userID uuid.UUID, periods ...valueobject.PeriodKey) {
	if cache == nil {
		return
	}
	if err := cache.Invalidate(ctx, userID, periods...); err != nil {
		slog.Warn("Failed to invalidate snapshot cache", "error", err, "userID", userID)
	}
}
