package dto

import (
	"github.com/myeconomy/backend/internal/application/usecase/dashboard"
	"github.com/myeconomy/backend/internal/domain/budget"
)

// DashboardResponse is the spend-versus-limit view of a period.
type DashboardResponse struct {
	Month        int     `json:"mes"`
	Year         int     `json:"ano"`
	PeriodLabel  string  `json:"mesAnoFormatado"`
	LimitID      *string `json:"idLimite"`
	Limit        Money   `json:"limite"`
	Spent        Money   `json:"gasto"`
	Remaining    Money   `json:"restante"`
	Percentage   Money   `json:"percentual"`
	Progress     Money   `json:"progresso"`
	Status       string  `json:"status"`
	HasLimit     bool    `json:"possuiLimite"`
	ExpenseCount int     `json:"quantidadeDespesas"`
}

// ToDashboardResponse converts a snapshot to its DTO.
func ToDashboardResponse(s *budget.Snapshot) DashboardResponse {
	var limitID *string
	if s.LimitID != nil {
		id := s.LimitID.String()
		limitID = &id
	}

	return DashboardResponse{
		Month:        int(s.Period.Month),
		Year:         s.Period.Year,
		PeriodLabel:  s.Period.Label(),
		LimitID:      limitID,
		Limit:        Money(s.LimitAmount),
		Spent:        Money(s.Spent),
		Remaining:    Money(s.Remaining),
		Percentage:   Money(s.PercentageConsumed),
		Progress:     Money(s.ProgressBar()),
		Status:       string(s.Status),
		HasLimit:     s.HasLimit,
		ExpenseCount: s.ExpenseCount,
	}
}

// MonthOptionResponse is a month picker entry.
type MonthOptionResponse struct {
	Value int    `json:"value"`
	Label string `json:"label"`
}

// PeriodOptionsResponse lists the months and years a picker offers.
type PeriodOptionsResponse struct {
	CurrentMonth int                   `json:"mesAtual"`
	CurrentYear  int                   `json:"anoAtual"`
	Months       []MonthOptionResponse `json:"meses"`
	Years        []int                 `json:"anos"`
}

// ToPeriodOptionsResponse converts period options to their DTO.
func ToPeriodOptionsResponse(opts dashboard.PeriodOptions) PeriodOptionsResponse {
	months := make([]MonthOptionResponse, 0, len(opts.Months))
	for _, m := range opts.Months {
		months = append(months, MonthOptionResponse{Value: int(m.Value), Label: m.Label})
	}

	return PeriodOptionsResponse{
		CurrentMonth: int(opts.Current.Month),
		CurrentYear:  opts.Current.Year,
		Months:       months,
		Years:        opts.Years,
	}
}
