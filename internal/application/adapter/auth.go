// Package adapter defines the ports the use cases depend on. The integration
// layer implements them.
package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// PasswordService hashes and checks account passwords.
type PasswordService interface {
	HashPassword(password string) (string, error)

	// VerifyPassword returns an error when password does not match hashedPassword.
	VerifyPassword(hashedPassword, password string) error

	// ValidatePasswordStrength rejects passwords the hash cannot hold or that
	// are too short to register with.
	ValidatePasswordStrength(password string) error
}

// TokenPair is what a successful register, login or refresh hands back.
// ExpiresIn is the access token lifetime in seconds.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

// TokenClaims identifies the user behind a verified token.
type TokenClaims struct {
	UserID    uuid.UUID
	Email     string
	ExpiresAt time.Time
}

// TokenService issues signed session tokens. Refresh tokens are single use
// and revocable, so the service keeps track of them.
type TokenService interface {
	GenerateTokenPair(ctx context.Context, userID uuid.UUID, email string) (*TokenPair, error)
	ValidateAccessToken(ctx context.Context, token string) (*TokenClaims, error)

	// ValidateRefreshToken checks signature and type only. Use
	// IsRefreshTokenValid for revocation.
	ValidateRefreshToken(ctx context.Context, token string) (*TokenClaims, error)
	IsRefreshTokenValid(ctx context.Context, token string) (bool, error)

	InvalidateRefreshToken(ctx context.Context, token string) error

	// InvalidateAllUserTokens ends every session of the user.
	InvalidateAllUserTokens(ctx context.Context, userID uuid.UUID) error
}

// PasswordResetToken is the secret mailed to a user who forgot the password.
type PasswordResetToken struct {
	Token     string
	UserID    uuid.UUID
	Email     string
	ExpiresAt time.Time
}

// PasswordResetTokenService manages single-use password reset tokens.
type PasswordResetTokenService interface {
	GenerateResetToken(ctx context.Context, userID uuid.UUID, email string) (*PasswordResetToken, error)

	// ValidateResetToken returns the stored token while it is unused and unexpired.
	ValidateResetToken(ctx context.Context, token string) (*PasswordResetToken, error)

	// InvalidateResetToken burns the token once the password changed.
	InvalidateResetToken(ctx context.Context, token string) error
}
