package adapter

import (
	"io"

	"github.com/myeconomy/backend/internal/domain/budget"
	"github.com/myeconomy/backend/internal/domain/entity"
)

// ExpenseReport is the content of an exported period report.
type ExpenseReport struct {
	UserName string
	Snapshot budget.Snapshot
	Expenses []*entity.Expense
}

// ExpenseExporter writes expense reports as spreadsheets.
type ExpenseExporter interface {
	// Write renders the report to w.
	Write(w io.Writer, report ExpenseReport) error

	// ContentType returns the MIME type of the produced document.
	ContentType() string
}
