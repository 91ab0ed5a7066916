package auth

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/myeconomy/backend/internal/application/adapter"
)

// LogoutUserInput names the session to close. Without a RefreshToken every
// session of UserID is closed.
type LogoutUserInput struct {
	UserID       uuid.UUID
	RefreshToken string
}

type LogoutUserUseCase struct {
	tokens adapter.TokenService
}

func NewLogoutUserUseCase(tokens adapter.TokenService) *LogoutUserUseCase {
	return &LogoutUserUseCase{tokens: tokens}
}

// Execute always succeeds; revocation failures are only logged.
func (uc *LogoutUserUseCase) Execute(ctx context.Context, input LogoutUserInput) error {
	var err error
	switch {
	case input.RefreshToken != "":
		err = uc.tokens.InvalidateRefreshToken(ctx, input.RefreshToken)
	case input.UserID != uuid.Nil:
		err = uc.tokens.InvalidateAllUserTokens(ctx, input.UserID)
	}
	if err != nil {
		slog.WarnContext(ctx, "logout could not revoke refresh tokens", "error", err, "user_id", input.UserID)
	}
	return nil
}
