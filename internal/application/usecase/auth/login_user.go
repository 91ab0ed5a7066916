package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/myeconomy/backend/internal/application/adapter"
	"github.com/myeconomy/backend/internal/domain/entity"
	domainerror "github.com/myeconomy/backend/internal/domain/error"
)

type LoginUserInput struct {
	Email    string
	Password string
}

// LoginUserOutput is a fresh session plus the authenticated user.
type LoginUserOutput struct {
	adapter.TokenPair
	User *entity.User
}

// LoginUserUseCase checks credentials and opens a session. Throttling of
// repeated attempts happens in the HTTP layer.
type LoginUserUseCase struct {
	users     adapter.UserRepository
	passwords adapter.PasswordService
	tokens    adapter.TokenService
}

func NewLoginUserUseCase(users adapter.UserRepository, passwords adapter.PasswordService, tokens adapter.TokenService) *LoginUserUseCase {
	return &LoginUserUseCase{users: users, passwords: passwords, tokens: tokens}
}

func (uc *LoginUserUseCase) Execute(ctx context.Context, input LoginUserInput) (*LoginUserOutput, error) {
	if input.Email == "" || input.Password == "" {
		return nil, domainerror.NewAuthError(domainerror.ErrCodeMissingFields, "Informe email e senha", nil)
	}

	user, err := uc.users.FindByEmail(ctx, normalizeEmail(input.Email))
	switch {
	case errors.Is(err, domainerror.ErrUserNotFound):
		// same answer as a wrong password
		return nil, errInvalidCredentials
	case err != nil:
		return nil, fmt.Errorf("load user by email: %w", err)
	}

	if uc.passwords.VerifyPassword(user.PasswordHash, input.Password) != nil {
		return nil, errInvalidCredentials
	}

	pair, err := uc.tokens.GenerateTokenPair(ctx, user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("issue token pair: %w", err)
	}
	return &LoginUserOutput{TokenPair: *pair, User: user}, nil
}

var errInvalidCredentials = domainerror.NewAuthError(
	domainerror.ErrCodeInvalidCredentials,
	"Email ou senha inválidos",
	domainerror.ErrInvalidCredentials,
)
