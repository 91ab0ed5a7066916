package dashboard

import (
	"github.com/myeconomy/backend/internal/application/adapter"
	"github.com/myeconomy/backend/internal/domain/valueobject"
)

// yearsAhead is how many years after the current one the picker offers.
const yearsAhead = 2

// MonthOption is one entry of the month picker.
type MonthOption struct {
	Value valueobject.Month
	Label string
}

// PeriodOptions are the choices of the period picker.
type PeriodOptions struct {
	Current valueobject.PeriodKey
	Months  []MonthOption
	Years   []int
}

// GetPeriodOptionsUseCase lists the months and years a client may pick.
type GetPeriodOptionsUseCase struct {
	now adapter.Clock
}

// NewGetPeriodOptionsUseCase creates a new GetPeriodOptionsUseCase instance.
func NewGetPeriodOptionsUseCase(now adapter.Clock) *GetPeriodOptionsUseCase {
	return &GetPeriodOptionsUseCase{now: now}
}

// Execute returns the twelve months and the years from the current one.
func (uc *GetPeriodOptionsUseCase) Execute() PeriodOptions {
	current := valueobject.PeriodOf(uc.now())

	months := make([]MonthOption, 0, 12)
	for m := valueobject.January; m <= valueobject.December; m++ {
		months = append(months, MonthOption{Value: m, Label: m.Title()})
	}

	years := make([]int, 0, yearsAhead+1)
	for y := current.Year; y <= current.Year+yearsAhead; y++ {
		years = append(years, y)
	}

	return PeriodOptions{
		Current: current,
		Months:  months,
		Years:   years,
	}
}
