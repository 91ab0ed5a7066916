package expense

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/myeconomy/backend/internal/application/adapter"
	"github.com/myeconomy/backend/internal/domain/budget"
	"github.com/myeconomy/backend/internal/domain/entity"
	domainerror "github.com/myeconomy/backend/internal/domain/error"
	"github.com/myeconomy/backend/internal/domain/valueobject"
)

// ExportExpensesInput represents the input for exporting a period.
type ExportExpensesInput struct {
	UserID uuid.UUID
	Period valueobject.PeriodKey
}

// ExportExpensesOutput is the rendered document.
type ExportExpensesOutput struct {
	FileName    string
	ContentType string
	Content     []byte
}

// ExportExpensesUseCase renders a period's expenses and budget summary as a spreadsheet.
type ExportExpensesUseCase struct {
	userRepo    adapter.UserRepository
	expenseRepo adapter.ExpenseRepository
	limitRepo   adapter.LimitRepository
	exporter    adapter.ExpenseExporter
}

// NewExportExpensesUseCase creates a new ExportExpensesUseCase instance.
func NewExportExpensesUseCase(
	userRepo adapter.UserRepository,
	expenseRepo adapter.ExpenseRepository,
	limitRepo adapter.LimitRepository,
	exporter adapter.ExpenseExporter,
) *ExportExpensesUseCase {
	return &ExportExpensesUseCase{
		userRepo:    userRepo,
		expenseRepo: expenseRepo,
		limitRepo:   limitRepo,
		exporter:    exporter,
	}
}

// Execute builds the export document.
func (uc *ExportExpensesUseCase) Execute(ctx context.Context, input ExportExpensesInput) (*ExportExpensesOutput, error) {
	user, err := uc.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	period := input.Period
	expenses, err := uc.expenseRepo.FindByUser(ctx, input.UserID, entity.ExpenseFilter{Period: &period})
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}

	var limits []*entity.Limit
	limit, err := uc.limitRepo.FindByUserAndPeriod(ctx, input.UserID, period)
	switch {
	case err == nil:
		limits = append(limits, limit)
	case errors.Is(err, domainerror.ErrLimitNotFound):
	default:
		return nil, fmt.Errorf("failed to find limit: %w", err)
	}

	snapshot := budget.ComputeSnapshot(budget.SnapshotInput{
		Expenses: expenses,
		Limits:   limits,
		Period:   period,
	})

	var buf bytes.Buffer
	err = uc.exporter.Write(&buf, adapter.ExpenseReport{
		UserName: user.Name,
		Snapshot: snapshot,
		Expenses: expenses,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render export: %w", err)
	}

	return &ExportExpensesOutput{
		FileName:    fmt.Sprintf("despesas-%s.xlsx", period.String()),
		ContentType: uc.exporter.ContentType(),
		Content:     buf.Bytes(),
	}, nil
}
