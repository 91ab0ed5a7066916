// Package auth contains authentication-related use cases.
package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/myeconomy/backend/internal/application/adapter"
	domainerror "github.com/myeconomy/backend/internal/domain/error"
)

// ResetPasswordInput represents the input for password reset.
type ResetPasswordInput struct {
	Token           string
	NewPassword     string
	ConfirmPassword string
}

// ResetPasswordUseCase handles password reset logic.
type ResetPasswordUseCase struct {
	userRepo          adapter.UserRepository
	passwordService   adapter.PasswordService
	resetTokenService adapter.PasswordResetTokenService
	tokenService      adapter.TokenService
	now               adapter.Clock
}

// NewResetPasswordUseCase creates a new ResetPasswordUseCase instance.
func NewResetPasswordUseCase(
	userRepo adapter.UserRepository,
	passwordService adapter.PasswordService,
	resetTokenService adapter.PasswordResetTokenService,
	tokenService adapter.TokenService,
	now adapter.Clock,
) *ResetPasswordUseCase {
	return &ResetPasswordUseCase{
		userRepo:          userRepo,
		passwordService:   passwordService,
		resetTokenService: resetTokenService,
		tokenService:      tokenService,
		now:               now,
	}
}

// Execute performs the password reset.
func (uc *ResetPasswordUseCase) Execute(ctx context.Context, input ResetPasswordInput) error {
	if input.NewPassword != input.ConfirmPassword {
		return domainerror.NewAuthError(
			domainerror.ErrCodePasswordMismatch,
			"as senhas não coincidem",
			domainerror.ErrPasswordMismatch,
		)
	}

	if err := uc.passwordService.ValidatePasswordStrength(input.NewPassword); err != nil {
		return domainerror.NewAuthError(
			domainerror.ErrCodeWeakPassword,
			"A senha deve ter pelo menos 8 caracteres",
			domainerror.ErrWeakPassword,
		)
	}

	resetToken, err := uc.resetTokenService.ValidateResetToken(ctx, input.Token)
	if err != nil {
		return domainerror.NewAuthError(
			domainerror.ErrCodeInvalidResetToken,
			"Link de redefinição inválido ou já utilizado",
			domainerror.ErrInvalidResetToken,
		)
	}

	now := uc.now().UTC()
	if now.After(resetToken.ExpiresAt) {
		return domainerror.NewAuthError(
			domainerror.ErrCodeExpiredResetToken,
			"Link de redefinição expirado",
			domainerror.ErrInvalidResetToken,
		)
	}

	user, err := uc.userRepo.FindByID(ctx, resetToken.UserID)
	if err != nil {
		return fmt.Errorf("failed to find user: %w", err)
	}

	passwordHash, err := uc.passwordService.HashPassword(input.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user.PasswordHash = passwordHash
	user.UpdatedAt = now

	if err := uc.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to update user password: %w", err)
	}

	// Password is already changed; cleanup failures are only logged
	if err := uc.resetTokenService.InvalidateResetToken(ctx, input.Token); err != nil {
		slog.Warn("Failed to invalidate reset token", "error", err, "userID", user.ID)
	}
	if err := uc.tokenService.InvalidateAllUserTokens(ctx, user.ID); err != nil {
		slog.Warn("Failed to revoke sessions after password reset", "error", err, "userID", user.ID)
	}

	return nil
}
