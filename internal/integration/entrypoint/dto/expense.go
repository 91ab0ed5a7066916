package dto

import (
	"strconv"

	"github.com/myeconomy/backend/internal/application/usecase/expense"
	"github.com/myeconomy/backend/internal/domain/valueobject"
)

// ExpenseRequest is the body of POST /despesa and PUT /despesa/:id.
type ExpenseRequest struct {
	Description string `json:"descricao"`
	Amount      Amount `json:"valor"`
	Date        string `json:"data"`
}

// PeriodQuery is the optional mes (0-11) and ano query of listing endpoints.
type PeriodQuery struct {
	Month *int `form:"mes" binding:"omitempty,month"`
	Year  *int `form:"ano" binding:"omitempty,min=1,max=9999"`
}

// ExpenseResponse is an expense with the period fields the client displays.
type ExpenseResponse struct {
	ID            string `json:"idDespesa"`
	Description   string `json:"descricao"`
	Amount        Money  `json:"valor"`
	Date          string `json:"data"`
	UserID        string `json:"idUsuario"`
	Month         int    `json:"mes"`
	Year          int    `json:"ano"`
	MonthName     string `json:"mesNome"`
	YearString    string `json:"anoString"`
	PeriodLabel   string `json:"mesAnoFormatado"`
	FormattedDate string `json:"dataFormatada"`
	Editable      bool   `json:"editavel"`
}

// ExpenseGroupResponse is one period of GET /despesa/agrupadas.
type ExpenseGroupResponse struct {
	Month       int               `json:"mes"`
	Year        int               `json:"ano"`
	PeriodLabel string            `json:"mesAnoFormatado"`
	Total       Money             `json:"total"`
	Expenses    []ExpenseResponse `json:"despesas"`
}

// ToExpenseResponse converts an expense output to its DTO.
func ToExpenseResponse(out expense.ExpenseOutput) ExpenseResponse {
	e := out.Expense
	return ExpenseResponse{
		ID:            e.ID.String(),
		Description:   e.Description,
		Amount:        Money(e.Amount),
		Date:          e.Date.Format(valueobject.ISODateLayout),
		UserID:        e.UserID.String(),
		Month:         int(out.Period.Month),
		Year:          out.Period.Year,
		MonthName:     out.Period.MonthName(),
		YearString:    strconv.Itoa(out.Period.Year),
		PeriodLabel:   out.Period.Label(),
		FormattedDate: valueobject.FormatDisplayDate(e.Date),
		Editable:      out.Editable,
	}
}

// ToExpenseResponses converts a list of expense outputs.
func ToExpenseResponses(outs []expense.ExpenseOutput) []ExpenseResponse {
	responses := make([]ExpenseResponse, 0, len(outs))
	for _, out := range outs {
		responses = append(responses, ToExpenseResponse(out))
	}
	return responses
}

// ToExpenseGroupResponses converts grouped expenses.
func ToExpenseGroupResponses(groups []expense.ExpenseGroupOutput) []ExpenseGroupResponse {
	responses := make([]ExpenseGroupResponse, 0, len(groups))
	for _, g := range groups {
		responses = append(responses, ExpenseGroupResponse{
			Month:       int(g.Period.Month),
			Year:        g.Period.Year,
			PeriodLabel: g.Period.Label(),
			Total:       Money(g.Total),
			Expenses:    ToExpenseResponses(g.Expenses),
		})
	}
	return responses
}
