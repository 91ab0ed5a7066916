// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/myeconomy/backend/internal/domain/valueobject"
)

// Expense represents a single spending record of a user.
type Expense struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Description string
	Amount      decimal.Decimal // Always positive
	Date        time.Time       // Calendar date, UTC midnight
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time // Soft-delete support
}

// NewExpense creates a new Expense entity.
func NewExpense(userID uuid.UUID, description string, amount decimal.Decimal, date time.Time, now time.Time) *Expense {
	now = now.UTC()

	return &Expense{
		ID:          uuid.New(),
		UserID:      userID,
		Description: description,
		Amount:      amount,
		Date:        truncateToDate(date),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Period returns the calendar period the expense belongs to.
func (e *Expense) Period() valueobject.PeriodKey {
	return valueobject.PeriodOf(e.Date)
}

// IsOwnedBy reports whether the expense belongs to the given user.
func (e *Expense) IsOwnedBy(userID uuid.UUID) bool {
	return e.UserID == userID
}

// ExpenseFilter narrows an expense listing.
type ExpenseFilter struct {
	Period *valueobject.PeriodKey
}

// truncateToDate drops the clock part of t, keeping its calendar date.
func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
