package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/myeconomy/backend/internal/application/adapter"
	"github.com/myeconomy/backend/internal/domain/entity"
	domainerror "github.com/myeconomy/backend/internal/domain/error"
	"github.com/myeconomy/backend/internal/domain/valueobject"
	"github.com/myeconomy/backend/internal/integration/persistence/model"
)

// LimitStore is the limit repository together with its store-side balance query.
type LimitStore interface {
	adapter.LimitRepository
	adapter.BalanceRepository
}

// limitRepository implements the adapter.LimitRepository and adapter.BalanceRepository interfaces.
type limitRepository struct {
	db *gorm.DB
}

// NewLimitRepository creates a new limit repository instance.
func NewLimitRepository(db *gorm.DB) LimitStore {
	return &limitRepository{
		db: db,
	}
}

// Create creates a new limit. The unique index rejects a second limit for the same period.
func (r *limitRepository) Create(ctx context.Context, limit *entity.Limit) error {
	result := r.db.WithContext(ctx).Create(model.LimitFromEntity(limit))
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return domainerror.ErrLimitAlreadyExists
		}
		return result.Error
	}
	return nil
}

// FindByID retrieves a limit by its ID.
func (r *limitRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Limit, error) {
	var limitModel model.LimitModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&limitModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrLimitNotFound
		}
		return nil, result.Error
	}
	return limitModel.ToEntity(), nil
}

// FindByUserAndPeriod retrieves the user's limit for a period.
func (r *limitRepository) FindByUserAndPeriod(ctx context.Context, userID uuid.UUID, period valueobject.PeriodKey) (*entity.Limit, error) {
	start, end := period.Bounds()

	var limitModel model.LimitModel
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND date >= ? AND date < ?", userID, start, end).
		First(&limitModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrLimitNotFound
		}
		return nil, result.Error
	}
	return limitModel.ToEntity(), nil
}

// FindByUser retrieves all limits of the user, most recent period first.
func (r *limitRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Limit, error) {
	var models []model.LimitModel
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date DESC").
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	limits := make([]*entity.Limit, len(models))
	for i := range models {
		limits[i] = models[i].ToEntity()
	}
	return limits, nil
}

// Update updates an existing limit.
func (r *limitRepository) Update(ctx context.Context, limit *entity.Limit) error {
	result := r.db.WithContext(ctx).
		Model(&model.LimitModel{}).
		Where("id = ?", limit.ID).
		Updates(map[string]any{
			"amount":     limit.Amount,
			"date":       limit.Date,
			"updated_at": limit.UpdatedAt,
		})
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return domainerror.ErrLimitAlreadyExists
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrLimitNotFound
	}
	return nil
}

// Delete removes a limit.
func (r *limitRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&model.LimitModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrLimitNotFound
	}
	return nil
}

// RemainingBalance computes limit minus spent for the period over every stored expense.
func (r *limitRepository) RemainingBalance(ctx context.Context, userID uuid.UUID, period valueobject.PeriodKey) (*adapter.Balance, error) {
	limit, err := r.FindByUserAndPeriod(ctx, userID, period)
	if err != nil {
		if errors.Is(err, domainerror.ErrLimitNotFound) {
			return nil, nil
		}
		return nil, err
	}

	start, end := period.Bounds()

	var spent decimal.NullDecimal
	row := r.db.WithContext(ctx).
		Model(&model.ExpenseModel{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("user_id = ? AND date >= ? AND date < ?", userID, start, end).
		Row()
	if err := row.Scan(&spent); err != nil {
		return nil, fmt.Errorf("failed to sum expenses: %w", err)
	}

	// SQLite sums NUMERIC columns as floats
	total := decimal.Zero
	if spent.Valid {
		total = spent.Decimal.Round(2)
	}

	return &adapter.Balance{
		LimitAmount: limit.Amount,
		Spent:       total,
		Remaining:   limit.Amount.Sub(total),
	}, nil
}
