// Package report renders expense reports as spreadsheets.
package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/myeconomy/backend/internal/application/adapter"
	"github.com/myeconomy/backend/internal/domain/valueobject"
)

const (
	// XLSXContentType is the MIME type of an Office Open XML workbook.
	XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	expensesSheet = "Despesas"
	summarySheet  = "Resumo"

	// Built-in format "#,##0.00"
	moneyNumFmt = 4
)

var expenseHeaders = []string{"Data", "Descrição", "Valor"}

type xlsxExporter struct{}

// NewXLSXExporter creates an exporter producing one workbook per report with an
// expense sheet and a budget summary sheet.
func NewXLSXExporter() adapter.ExpenseExporter {
	return &xlsxExporter{}
}

func (e *xlsxExporter) ContentType() string {
	return XLSXContentType
}

func (e *xlsxExporter) Write(w io.Writer, report adapter.ExpenseReport) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", expensesSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}

	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: moneyNumFmt})
	if err != nil {
		return fmt.Errorf("failed to create money style: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	if err := writeExpenses(f, report, moneyStyle, headerStyle); err != nil {
		return err
	}
	if err := writeSummary(f, report, moneyStyle, headerStyle); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeExpenses(f *excelize.File, report adapter.ExpenseReport, moneyStyle, headerStyle int) error {
	for i, header := range expenseHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(expensesSheet, cell, header); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}
	if err := f.SetCellStyle(expensesSheet, "A1", "C1", headerStyle); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i, expense := range report.Expenses {
		row := i + 2
		values := []any{
			valueobject.FormatDisplayDate(expense.Date),
			expense.Description,
			expense.Amount.InexactFloat64(),
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(expensesSheet, cell, value); err != nil {
				return fmt.Errorf("failed to write expense row %d: %w", row, err)
			}
		}
	}

	if len(report.Expenses) > 0 {
		last := fmt.Sprintf("C%d", len(report.Expenses)+1)
		if err := f.SetCellStyle(expensesSheet, "C2", last, moneyStyle); err != nil {
			return fmt.Errorf("failed to style amounts: %w", err)
		}
	}

	if err := f.SetColWidth(expensesSheet, "B", "B", 40); err != nil {
		return fmt.Errorf("failed to size columns: %w", err)
	}
	return nil
}

func writeSummary(f *excelize.File, report adapter.ExpenseReport, moneyStyle, headerStyle int) error {
	snapshot := report.Snapshot
	rows := [][]any{
		{"Usuário", report.UserName},
		{"Período", snapshot.Period.Label()},
		{"Limite", snapshot.LimitAmount.InexactFloat64()},
		{"Gasto", snapshot.Spent.InexactFloat64()},
		{"Restante", snapshot.Remaining.InexactFloat64()},
		{"Percentual", snapshot.PercentageConsumed.InexactFloat64()},
		{"Quantidade de despesas", snapshot.ExpenseCount},
	}

	for i, row := range rows {
		if err := f.SetSheetRow(summarySheet, fmt.Sprintf("A%d", i+1), &row); err != nil {
			return fmt.Errorf("failed to write summary row: %w", err)
		}
	}

	if err := f.SetCellStyle(summarySheet, "A1", fmt.Sprintf("A%d", len(rows)), headerStyle); err != nil {
		return fmt.Errorf("failed to style summary labels: %w", err)
	}
	if err := f.SetCellStyle(summarySheet, "B3", "B5", moneyStyle); err != nil {
		return fmt.Errorf("failed to style summary amounts: %w", err)
	}
	return f.SetColWidth(summarySheet, "A", "A", 25)
}
