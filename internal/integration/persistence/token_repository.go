package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/myeconomy/backend/internal/integration/persistence/model"
)

// TokenRepository stores refresh and password reset tokens.
type TokenRepository interface {
	SaveRefreshToken(ctx context.Context, token string, userID uuid.UUID, expiresAt time.Time) error
	IsRefreshTokenValid(ctx context.Context, token string) (bool, error)
	InvalidateRefreshToken(ctx context.Context, token string) error
	InvalidateAllUserRefreshTokens(ctx context.Context, userID uuid.UUID) error

	SavePasswordResetToken(ctx context.Context, token string, userID uuid.UUID, email string, expiresAt time.Time) error

	// GetPasswordResetToken returns nil when the token is unknown, used or expired.
	GetPasswordResetToken(ctx context.Context, token string) (*model.PasswordResetTokenModel, error)
	InvalidatePasswordResetToken(ctx context.Context, token string) error
}

type tokenRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewTokenRepository creates a new token repository instance.
func NewTokenRepository(db *gorm.DB, now func() time.Time) TokenRepository {
	if now == nil {
		now = time.Now
	}
	return &tokenRepository{
		db:  db,
		now: now,
	}
}

func (r *tokenRepository) SaveRefreshToken(ctx context.Context, token string, userID uuid.UUID, expiresAt time.Time) error {
	return r.db.WithContext(ctx).Create(&model.RefreshTokenModel{
		ID:        uuid.New(),
		Token:     token,
		UserID:    userID,
		ExpiresAt: expiresAt,
		CreatedAt: r.now().UTC(),
	}).Error
}

func (r *tokenRepository) IsRefreshTokenValid(ctx context.Context, token string) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).
		Model(&model.RefreshTokenModel{}).
		Where("token = ? AND invalidated = ? AND expires_at > ?", token, false, r.now().UTC()).
		Count(&count)
	if result.Error != nil {
		return false, result.Error
	}
	return count > 0, nil
}

func (r *tokenRepository) InvalidateRefreshToken(ctx context.Context, token string) error {
	return r.db.WithContext(ctx).
		Model(&model.RefreshTokenModel{}).
		Where("token = ?", token).
		Update("invalidated", true).Error
}

func (r *tokenRepository) InvalidateAllUserRefreshTokens(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&model.RefreshTokenModel{}).
		Where("user_id = ? AND invalidated = ?", userID, false).
		Update("invalidated", true).Error
}

func (r *tokenRepository) SavePasswordResetToken(ctx context.Context, token string, userID uuid.UUID, email string, expiresAt time.Time) error {
	return r.db.WithContext(ctx).Create(&model.PasswordResetTokenModel{
		ID:        uuid.New(),
		Token:     token,
		UserID:    userID,
		Email:     email,
		ExpiresAt: expiresAt,
		CreatedAt: r.now().UTC(),
	}).Error
}

func (r *tokenRepository) GetPasswordResetToken(ctx context.Context, token string) (*model.PasswordResetTokenModel, error) {
	var resetToken model.PasswordResetTokenModel
	result := r.db.WithContext(ctx).
		Where("token = ? AND used = ? AND expires_at > ?", token, false, r.now().UTC()).
		First(&resetToken)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &resetToken, nil
}

func (r *tokenRepository) InvalidatePasswordResetToken(ctx context.Context, token string) error {
	usedAt := r.now().UTC()
	return r.db.WithContext(ctx).
		Model(&model.PasswordResetTokenModel{}).
		Where("token = ?", token).
		Updates(map[string]any{
			"used":    true,
			"used_at": &usedAt,
		}).Error
}
