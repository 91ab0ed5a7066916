package adapter

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/myeconomy/backend/internal/domain/entity"
	"github.com/myeconomy/backend/internal/domain/valueobject"
)

// UserRepository persists accounts. Emails are stored lowercased, so lookups
// by email ignore case.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, user *entity.User) error

	// Delete removes the user together with their expenses, limits and tokens.
	Delete(ctx context.Context, id uuid.UUID) error
}

// ExpenseRepository persists expense records.
type ExpenseRepository interface {
	Create(ctx context.Context, expense *entity.Expense) error

	// FindByID ignores soft-deleted expenses.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Expense, error)

	// FindByUser returns the user's expenses, most recent date first.
	FindByUser(ctx context.Context, userID uuid.UUID, filter entity.ExpenseFilter) ([]*entity.Expense, error)

	Update(ctx context.Context, expense *entity.Expense) error

	// Delete soft-deletes an expense.
	Delete(ctx context.Context, id uuid.UUID) error
}

// LimitRepository persists monthly limits, at most one per user and period.
type LimitRepository interface {
	// Create returns ErrLimitAlreadyExists when the period already has a limit.
	Create(ctx context.Context, limit *entity.Limit) error

	FindByID(ctx context.Context, id uuid.UUID) (*entity.Limit, error)
	FindByUserAndPeriod(ctx context.Context, userID uuid.UUID, period valueobject.PeriodKey) (*entity.Limit, error)

	// FindByUser returns every limit of the user, most recent period first.
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Limit, error)

	// Update returns ErrLimitAlreadyExists when the limit moves onto a taken period.
	Update(ctx context.Context, limit *entity.Limit) error

	Delete(ctx context.Context, id uuid.UUID) error
}

// Balance is a store-side view of a period's limit consumption.
type Balance struct {
	LimitAmount decimal.Decimal
	Spent       decimal.Decimal
	Remaining   decimal.Decimal
}

// BalanceRepository computes balances on the store side, over every
// persisted record rather than over a fetched copy.
type BalanceRepository interface {
	// RemainingBalance returns limit minus the sum of expenses for the period,
	// or nil when the user has no limit for it.
	RemainingBalance(ctx context.Context, userID uuid.UUID, period valueobject.PeriodKey) (*Balance, error)
}
