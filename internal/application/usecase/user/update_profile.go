package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/myeconomy/backend/internal/application/adapter"
	"github.com/myeconomy/backend/internal/domain/entity"
	domainerror "github.com/myeconomy/backend/internal/domain/error"
)

const maxNameLength = 100

// UpdateProfileInput carries the fields to change. Nil fields are kept.
type UpdateProfileInput struct {
	UserID   uuid.UUID
	Name     *string
	Nickname *string
}

// UpdateProfileUseCase changes the name and nickname of the authenticated user.
type UpdateProfileUseCase struct {
	userRepo adapter.UserRepository
	now      adapter.Clock
}

// NewUpdateProfileUseCase creates a new UpdateProfileUseCase instance.
func NewUpdateProfileUseCase(userRepo adapter.UserRepository, now adapter.Clock) *UpdateProfileUseCase {
	return &UpdateProfileUseCase{userRepo: userRepo, now: now}
}

// Execute applies the update and returns the stored user.
func (uc *UpdateProfileUseCase) Execute(ctx context.Context, input UpdateProfileInput) (*entity.User, error) {
	if input.Name == nil && input.Nickname == nil {
		return nil, domainerror.NewAuthError(
			domainerror.ErrCodeMissingFields,
			"Nenhum campo para atualizar",
			nil,
		)
	}

	user, err := uc.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		if errors.Is(err, domainerror.ErrUserNotFound) {
			return nil, domainerror.NewAuthError(domainerror.ErrCodeUserNotFound, "Usuário não encontrado", err)
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if input.Name != nil {
		name, err := validName(*input.Name)
		if err != nil {
			return nil, err
		}
		user.Name = name
	}

	if input.Nickname != nil {
		nickname := strings.TrimSpace(*input.Nickname)
		if nickname == "" {
			nickname = entity.DefaultNickname(user.Name)
		}
		if utf8.RuneCountInString(nickname) > maxNameLength {
			return nil, invalidNameError()
		}
		user.Nickname = nickname
	}

	user.UpdatedAt = uc.now().UTC()

	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

func validName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" || utf8.RuneCountInString(trimmed) > maxNameLength {
		return "", invalidNameError()
	}
	return trimmed, nil
}

func invalidNameError() error {
	return domainerror.NewAuthError(
		domainerror.ErrCodeInvalidName,
		"O nome deve ter entre 1 e 100 caracteres",
		domainerror.ErrInvalidName,
	)
}
