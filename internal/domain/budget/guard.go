// Package budget holds the month-scoped budget rules: which periods may still
// be changed, and how a period's spending compares to its limit.
package budget

import (
	"time"

	domainerror "github.com/myeconomy/backend/internal/domain/error"
	"github.com/myeconomy/backend/internal/domain/valueobject"
)

// Action is a mutation subject to the temporal guard.
type Action string

const (
	ActionCreate Action = "create"
	ActionEdit   Action = "edit"
	ActionDelete Action = "delete"
)

var rejectionMessages = map[Action]string{
	ActionCreate: "Não é possível criar registros para meses anteriores",
	ActionEdit:   "Não é possível editar registros de meses anteriores",
	ActionDelete: "Não é possível excluir registros de meses anteriores",
}

// IsPeriodMutable reports whether records of (targetMonth, targetYear) may be
// created, edited or deleted at the instant now. The current month is mutable.
func IsPeriodMutable(targetMonth valueobject.Month, targetYear int, now time.Time) bool {
	current := valueobject.PeriodOf(now)

	if targetYear > current.Year {
		return true
	}
	if targetYear == current.Year && targetMonth >= current.Month {
		return true
	}
	return false
}

// EnsureMutable returns an immutable-period rejection when period is in the past.
func EnsureMutable(period valueobject.PeriodKey, now time.Time, action Action) error {
	if IsPeriodMutable(period.Month, period.Year, now) {
		return nil
	}

	message, ok := rejectionMessages[action]
	if !ok {
		message = rejectionMessages[ActionEdit]
	}

	return domainerror.NewPeriodError(
		domainerror.ErrCodePeriodImmutable,
		message,
		domainerror.ErrPeriodImmutable,
	)
}

// EnsureMutableTransition checks an edit that may move a record between
// periods: both the stored period and the target period must be mutable.
func EnsureMutableTransition(stored, target valueobject.PeriodKey, now time.Time) error {
	if err := EnsureMutable(stored, now, ActionEdit); err != nil {
		return err
	}
	if target != stored {
		return EnsureMutable(target, now, ActionEdit)
	}
	return nil
}
