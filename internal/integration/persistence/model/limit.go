package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/myeconomy/backend/internal/domain/entity"
)

// LimitModel represents the limits table in the database.
// The unique index keeps one limit per user and month.
type LimitModel struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_limits_user_period"`
	Amount    decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Date      time.Time       `gorm:"type:date;not null;uniqueIndex:idx_limits_user_period"`
	CreatedAt time.Time       `gorm:"not null"`
	UpdatedAt time.Time       `gorm:"not null"`

	User *UserModel `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for the LimitModel.
func (LimitModel) TableName() string {
	return "limits"
}

// ToEntity converts a LimitModel to a domain Limit entity.
func (m *LimitModel) ToEntity() *entity.Limit {
	return &entity.Limit{
		ID:        m.ID,
		UserID:    m.UserID,
		Amount:    m.Amount,
		Date:      asCalendarDate(m.Date),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// LimitFromEntity creates a LimitModel from a domain Limit entity.
func LimitFromEntity(limit *entity.Limit) *LimitModel {
	return &LimitModel{
		ID:        limit.ID,
		UserID:    limit.UserID,
		Amount:    limit.Amount,
		Date:      limit.Date,
		CreatedAt: limit.CreatedAt,
		UpdatedAt: limit.UpdatedAt,
	}
}
