// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/myeconomy/backend/internal/domain/valueobject"
)

// Limit represents a user's maximum spending amount for one calendar month.
// At most one limit exists per (user, month, year).
type Limit struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Amount    decimal.Decimal
	Date      time.Time // Normalized to day 1 of the period
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewLimit creates a new Limit entity for the given period.
func NewLimit(userID uuid.UUID, amount decimal.Decimal, period valueobject.PeriodKey, now time.Time) *Limit {
	now = now.UTC()

	return &Limit{
		ID:        uuid.New(),
		UserID:    userID,
		Amount:    amount,
		Date:      period.Date(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Period returns the calendar period the limit applies to.
func (l *Limit) Period() valueobject.PeriodKey {
	return valueobject.PeriodOf(l.Date)
}

// SetPeriod moves the limit to another period, keeping the day-1 normalization.
func (l *Limit) SetPeriod(period valueobject.PeriodKey) {
	l.Date = period.Date()
}

// IsOwnedBy reports whether the limit belongs to the given user.
func (l *Limit) IsOwnedBy(userID uuid.UUID) bool {
	return l.UserID == userID
}
