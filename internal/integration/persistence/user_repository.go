// Package persistence implements the application repositories on gorm.
package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/myeconomy/backend/internal/application/adapter"
	"github.com/myeconomy/backend/internal/domain/entity"
	domainerror "github.com/myeconomy/backend/internal/domain/error"
	"github.com/myeconomy/backend/internal/integration/persistence/model"
)

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a UserRepository backed by the users table.
// Emails are stored lower-cased, so lookups are case-insensitive.
func NewUserRepository(db *gorm.DB) adapter.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	row := model.UserFromEntity(user)
	row.Email = normalizeEmail(row.Email)

	err := r.db.WithContext(ctx).Create(row).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domainerror.ErrEmailAlreadyExists
	}
	return err
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.first(ctx, "email = ?", normalizeEmail(email))
}

func (r *userRepository) first(ctx context.Context, query string, arg any) (*entity.User, error) {
	var row model.UserModel
	err := r.db.WithContext(ctx).Where(query, arg).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainerror.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.ToEntity(), nil
}

func (r *userRepository) Update(ctx context.Context, user *entity.User) error {
	row := model.UserFromEntity(user)
	row.Email = normalizeEmail(row.Email)
	return r.db.WithContext(ctx).Save(row).Error
}

// Delete drops the user together with the expenses, limits and tokens that
// reference it. Soft-deleted expenses are purged as well.
func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, owned := range []any{
			&model.ExpenseModel{},
			&model.LimitModel{},
			&model.RefreshTokenModel{},
			&model.PasswordResetTokenModel{},
		} {
			if err := tx.Unscoped().Where("user_id = ?", id).Delete(owned).Error; err != nil {
				return err
			}
		}

		res := tx.Delete(&model.UserModel{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domainerror.ErrUserNotFound
		}
		return nil
	})
}

func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.UserModel{}).
		Where("email = ?", normalizeEmail(email)).
		Count(&n).Error
	return n > 0, err
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
