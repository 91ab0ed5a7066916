package dto

import (
	"strconv"

	"github.com/myeconomy/backend/internal/application/usecase/limit"
	"github.com/myeconomy/backend/internal/domain/valueobject"
)

// LimitRequest is the body of POST /limite and PUT /limite/:id. The period
// is given either as mes (0-11) plus ano, or as a date inside the month.
type LimitRequest struct {
	Amount Amount `json:"valor"`
	Month  *int   `json:"mes"`
	Year   *int   `json:"ano"`
	Date   string `json:"data"`
}

// PeriodInput converts the request's period fields.
func (r LimitRequest) PeriodInput() limit.PeriodInput {
	return limit.PeriodInput{Month: r.Month, Year: r.Year, Date: r.Date}
}

// LimitResponse is a limit with the period fields the client displays.
type LimitResponse struct {
	ID          string `json:"idLimite"`
	Amount      Money  `json:"valor"`
	Date        string `json:"data"`
	Month       int    `json:"mes"`
	Year        int    `json:"ano"`
	MonthName   string `json:"mesNome"`
	YearString  string `json:"anoString"`
	PeriodLabel string `json:"mesAnoFormatado"`
	Editable    bool   `json:"editavel"`
}

// ToLimitResponse converts a limit output to its DTO.
func ToLimitResponse(out limit.LimitOutput) LimitResponse {
	return LimitResponse{
		ID:          out.Limit.ID.String(),
		Amount:      Money(out.Limit.Amount),
		Date:        out.Limit.Date.Format(valueobject.ISODateLayout),
		Month:       int(out.Period.Month),
		Year:        out.Period.Year,
		MonthName:   out.Period.MonthName(),
		YearString:  strconv.Itoa(out.Period.Year),
		PeriodLabel: out.Period.Label(),
		Editable:    out.Editable,
	}
}

// ToLimitResponses converts a list of limit outputs.
func ToLimitResponses(outs []limit.LimitOutput) []LimitResponse {
	responses := make([]LimitResponse, 0, len(outs))
	for _, out := range outs {
		responses = append(responses, ToLimitResponse(out))
	}
	return responses
}
