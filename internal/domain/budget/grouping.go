package budget

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/myeconomy/backend/internal/domain/entity"
	"github.com/myeconomy/backend/internal/domain/valueobject"
)

// PeriodGroup is the set of expenses sharing one period.
type PeriodGroup struct {
	Period   valueobject.PeriodKey
	Total    decimal.Decimal
	Expenses []*entity.Expense
}

// TotalOf sums the amounts of expenses.
func TotalOf(expenses []*entity.Expense) decimal.Decimal {
	total := decimal.Zero
	for _, expense := range expenses {
		if expense == nil {
			continue
		}
		total = total.Add(expense.Amount)
	}
	return total
}

// FilterByPeriod returns the expenses dated within period, in input order.
func FilterByPeriod(expenses []*entity.Expense, period valueobject.PeriodKey) []*entity.Expense {
	matching := make([]*entity.Expense, 0, len(expenses))
	for _, expense := range expenses {
		if expense != nil && expense.Period() == period {
			matching = append(matching, expense)
		}
	}
	return matching
}

// GroupByPeriod groups expenses by period, most recent period first.
// Expenses keep their input order inside each group.
func GroupByPeriod(expenses []*entity.Expense) []PeriodGroup {
	index := make(map[valueobject.PeriodKey]int)
	groups := make([]PeriodGroup, 0)

	for _, expense := range expenses {
		if expense == nil {
			continue
		}
		period := expense.Period()
		i, ok := index[period]
		if !ok {
			i = len(groups)
			index[period] = i
			groups = append(groups, PeriodGroup{Period: period, Total: decimal.Zero})
		}
		groups[i].Expenses = append(groups[i].Expenses, expense)
		groups[i].Total = groups[i].Total.Add(expense.Amount)
	}

	sort.SliceStable(groups, func(a, b int) bool {
		return groups[b].Period.Before(groups[a].Period)
	})

	return groups
}
