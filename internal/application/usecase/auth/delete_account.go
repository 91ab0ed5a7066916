package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/myeconomy/backend/internal/application/adapter"
	domainerror "github.com/myeconomy/backend/internal/domain/error"
)

type DeleteAccountInput struct {
	UserID   uuid.UUID
	Password string
}

// DeleteAccountUseCase removes a user after the password is confirmed again.
// Expenses, limits and tokens go with the user row.
type DeleteAccountUseCase struct {
	users     adapter.UserRepository
	passwords adapter.PasswordService
	tokens    adapter.TokenService
}

func NewDeleteAccountUseCase(users adapter.UserRepository, passwords adapter.PasswordService, tokens adapter.TokenService) *DeleteAccountUseCase {
	return &DeleteAccountUseCase{users: users, passwords: passwords, tokens: tokens}
}

func (uc *DeleteAccountUseCase) Execute(ctx context.Context, input DeleteAccountInput) error {
	if input.Password == "" {
		return domainerror.NewAuthError(domainerror.ErrCodeMissingFields, "Confirme sua senha para excluir a conta", nil)
	}

	user, err := uc.users.FindByID(ctx, input.UserID)
	switch {
	case errors.Is(err, domainerror.ErrUserNotFound):
		return domainerror.NewAuthError(domainerror.ErrCodeUserNotFound, "Usuário não encontrado", err)
	case err != nil:
		return fmt.Errorf("load user %s: %w", input.UserID, err)
	}

	if uc.passwords.VerifyPassword(user.PasswordHash, input.Password) != nil {
		return domainerror.NewAuthError(domainerror.ErrCodeInvalidCredentials, "Senha incorreta", domainerror.ErrInvalidCredentials)
	}

	if err := uc.tokens.InvalidateAllUserTokens(ctx, user.ID); err != nil {
		return fmt.Errorf("revoke sessions: %w", err)
	}
	if err := uc.users.Delete(ctx, user.ID); err != nil {
		return fmt.Errorf("delete user %s: %w", user.ID, err)
	}
	return nil
}
