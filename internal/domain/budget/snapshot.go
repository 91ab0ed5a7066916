package budget

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/myeconomy/backend/internal/domain/entity"
	"github.com/myeconomy/backend/internal/domain/valueobject"
)

// Status is the qualitative tier of a snapshot.
type Status string

const (
	StatusNoLimit  Status = "no_limit"
	StatusOnTrack  Status = "on_track"
	StatusWarning  Status = "warning"
	StatusExceeded Status = "exceeded"
)

// warningThreshold is the percent of the limit consumed from which a period
// is in warning. Spending the whole limit is exceeded.
var warningThreshold = decimal.NewFromInt(60)

var hundred = decimal.NewFromInt(100)

// SnapshotInput holds everything a snapshot is derived from.
type SnapshotInput struct {
	Expenses []*entity.Expense
	Limits   []*entity.Limit
	Period   valueobject.PeriodKey

	// RemoteRemaining is the store's own remaining balance for Period, when
	// known. It takes precedence over the local sum of Expenses.
	RemoteRemaining *decimal.Decimal
}

// Snapshot is the spend-versus-limit view of one period.
type Snapshot struct {
	Period             valueobject.PeriodKey
	LimitID            *uuid.UUID
	LimitAmount        decimal.Decimal
	Spent              decimal.Decimal
	Remaining          decimal.Decimal
	PercentageConsumed decimal.Decimal
	Status             Status
	HasLimit           bool
	ExpenseCount       int
}

// ComputeSnapshot aggregates expenses and limits for in.Period.
// It never fails; a period without a limit yields StatusNoLimit.
func ComputeSnapshot(in SnapshotInput) Snapshot {
	snapshot := Snapshot{
		Period:             in.Period,
		LimitAmount:        decimal.Zero,
		PercentageConsumed: decimal.Zero,
	}

	// Find the period's limit
	if limit := findLimit(in.Limits, in.Period); limit != nil {
		id := limit.ID
		snapshot.LimitID = &id
		snapshot.LimitAmount = limit.Amount
		snapshot.HasLimit = true
	}

	// Sum matching expenses
	matching := FilterByPeriod(in.Expenses, in.Period)
	snapshot.ExpenseCount = len(matching)
	snapshot.Spent = TotalOf(matching)

	if snapshot.HasLimit && in.RemoteRemaining != nil {
		snapshot.Spent = snapshot.LimitAmount.Sub(*in.RemoteRemaining)
	}

	snapshot.Remaining = snapshot.LimitAmount.Sub(snapshot.Spent)

	consumed := decimal.Zero
	if snapshot.LimitAmount.IsPositive() {
		consumed = snapshot.Spent.Div(snapshot.LimitAmount).Mul(hundred)
		snapshot.PercentageConsumed = consumed.Round(2)
	}

	snapshot.Status = statusFor(snapshot, consumed)
	return snapshot
}

// ProgressBar returns the consumed percentage clamped to [0, 100].
func (s Snapshot) ProgressBar() decimal.Decimal {
	if s.PercentageConsumed.IsNegative() {
		return decimal.Zero
	}
	if s.PercentageConsumed.GreaterThan(hundred) {
		return hundred
	}
	return s.PercentageConsumed
}

// statusFor picks the tier from the unrounded percentage, so a limit with
// any money left is never reported as exceeded.
func statusFor(s Snapshot, consumed decimal.Decimal) Status {
	if !s.HasLimit {
		return StatusNoLimit
	}

	switch {
	case s.Spent.GreaterThanOrEqual(s.LimitAmount):
		return StatusExceeded
	case consumed.GreaterThanOrEqual(warningThreshold):
		return StatusWarning
	default:
		return StatusOnTrack
	}
}

func findLimit(limits []*entity.Limit, period valueobject.PeriodKey) *entity.Limit {
	for _, limit := range limits {
		if limit != nil && limit.Period() == period {
			return limit
		}
	}
	return nil
}
