package auth

import (
	"context"
	"log/slog"
	"net/url"

	"github.com/myeconomy/backend/internal/application/adapter"
	domainerror "github.com/myeconomy/backend/internal/domain/error"
)

type ForgotPasswordInput struct {
	Email string
}

type ForgotPasswordOutput struct {
	Message string
}

// Returned whether or not the email belongs to an account.
const forgotPasswordMessage = "Se existir uma conta com este email, enviaremos um link para redefinir a senha"

// ForgotPasswordUseCase issues a reset token and queues the email carrying
// the reset link. Delivery is left to the email worker.
type ForgotPasswordUseCase struct {
	users      adapter.UserRepository
	resets     adapter.PasswordResetTokenService
	mailer     adapter.EmailService
	appBaseURL string
	expiresIn  string
}

// NewForgotPasswordUseCase builds the use case. expiresIn is the token
// lifetime as quoted to the user, for example "1 hora". A nil mailer only
// issues the token.
func NewForgotPasswordUseCase(
	users adapter.UserRepository,
	resets adapter.PasswordResetTokenService,
	mailer adapter.EmailService,
	appBaseURL string,
	expiresIn string,
) *ForgotPasswordUseCase {
	return &ForgotPasswordUseCase{
		users:      users,
		resets:     resets,
		mailer:     mailer,
		appBaseURL: appBaseURL,
		expiresIn:  expiresIn,
	}
}

func (uc *ForgotPasswordUseCase) Execute(ctx context.Context, input ForgotPasswordInput) (*ForgotPasswordOutput, error) {
	email := normalizeEmail(input.Email)
	if !isValidEmail(email) {
		return nil, domainerror.NewAuthError(domainerror.ErrCodeInvalidEmail, "Email inválido", domainerror.ErrInvalidEmail)
	}

	uc.sendResetLink(ctx, email)
	return &ForgotPasswordOutput{Message: forgotPasswordMessage}, nil
}

// sendResetLink never reports failure so callers cannot probe which
// addresses are registered.
func (uc *ForgotPasswordUseCase) sendResetLink(ctx context.Context, email string) {
	user, err := uc.users.FindByEmail(ctx, email)
	if err != nil {
		slog.DebugContext(ctx, "password reset skipped", "error", err)
		return
	}

	token, err := uc.resets.GenerateResetToken(ctx, user.ID, user.Email)
	if err != nil {
		slog.ErrorContext(ctx, "issue password reset token", "error", err, "user_id", user.ID)
		return
	}
	if uc.mailer == nil {
		slog.WarnContext(ctx, "no email service, reset link not sent", "user_id", user.ID)
		return
	}

	err = uc.mailer.QueuePasswordResetEmail(ctx, adapter.QueuePasswordResetInput{
		UserID:    user.ID.String(),
		UserEmail: user.Email,
		UserName:  user.Nickname,
		ResetURL:  uc.appBaseURL + "/reset-password?token=" + url.QueryEscape(token.Token),
		ExpiresIn: uc.expiresIn,
	})
	if err != nil {
		slog.ErrorContext(ctx, "queue password reset email", "error", err, "user_id", user.ID)
		return
	}
	slog.InfoContext(ctx, "password reset email queued", "user_id", user.ID)
}
