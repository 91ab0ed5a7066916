package adapters

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	domainerror "github.com/myeconomy/backend/internal/domain/error"
	"github.com/myeconomy/backend/internal/integration/persistence/model"
)

type fakeTokenRepository struct {
	refresh     map[string]bool
	resetTokens map[string]*model.PasswordResetTokenModel
}

func newFakeTokenRepository() *fakeTokenRepository {
	return &fakeTokenRepository{
		refresh:     map[string]bool{},
		resetTokens: map[string]*model.PasswordResetTokenModel{},
	}
}

func (f *fakeTokenRepository) SaveRefreshToken(_ context.Context, token string, _ uuid.UUID, _ time.Time) error {
	f.refresh[token] = true
	return nil
}

func (f *fakeTokenRepository) IsRefreshTokenValid(_ context.Context, token string) (bool, error) {
	return f.refresh[token], nil
}

func (f *fakeTokenRepository) InvalidateRefreshToken(_ context.Context, token string) error {
	f.refresh[token] = false
	return nil
}

func (f *fakeTokenRepository) InvalidateAllUserRefreshTokens(_ context.Context, _ uuid.UUID) error {
	for token := range f.refresh {
		f.refresh[token] = false
	}
	return nil
}

func (f *fakeTokenRepository) SavePasswordResetToken(_ context.Context, token string, userID uuid.UUID, email string, expiresAt time.Time) error {
	f.resetTokens[token] = &model.PasswordResetTokenModel{Token: token, UserID: userID, Email: email, ExpiresAt: expiresAt}
	return nil
}

func (f *fakeTokenRepository) GetPasswordResetToken(_ context.Context, token string) (*model.PasswordResetTokenModel, error) {
	return f.resetTokens[token], nil
}

func (f *fakeTokenRepository) InvalidatePasswordResetToken(_ context.Context, token string) error {
	delete(f.resetTokens, token)
	return nil
}

func testTokenConfig() TokenConfig {
	return TokenConfig{
		Secret:          "test-secret",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
		ResetTokenTTL:   time.Hour,
	}
}

func TestTokenService_GenerateAndValidate(t *testing.T) {
	ctx := context.Background()
	repo := newFakeTokenRepository()
	now := time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)
	service := NewTokenService(testTokenConfig(), repo, func() time.Time { return now })

	userID := uuid.New()
	pair, err := service.GenerateTokenPair(ctx, userID, "ana@example.com")
	if err != nil {
		t.Fatalf("GenerateTokenPair: %v", err)
	}
	if pair.ExpiresIn != int64((15 * time.Minute).Seconds()) {
		t.Errorf("ExpiresIn = %d", pair.ExpiresIn)
	}

	claims, err := service.ValidateAccessToken(ctx, pair.AccessToken)
	if err != nil {
		t.Fatalf("ValidateAccessToken: %v", err)
	}
	if claims.UserID != userID || claims.Email != "ana@example.com" {
		t.Errorf("unexpected claims %+v", claims)
	}

	if _, err := service.ValidateAccessToken(ctx, pair.RefreshToken); !errors.Is(err, domainerror.ErrInvalidToken) {
		t.Errorf("refresh token accepted as access token: %v", err)
	}

	valid, _ := service.IsRefreshTokenValid(ctx, pair.RefreshToken)
	if !valid {
		t.Errorf("refresh token should be stored as valid")
	}
}

func TestTokenService_Expired(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	service := NewTokenService(testTokenConfig(), newFakeTokenRepository(), clock)

	pair, err := service.GenerateTokenPair(ctx, uuid.New(), "ana@example.com")
	if err != nil {
		t.Fatalf("GenerateTokenPair: %v", err)
	}

	now = now.Add(16 * time.Minute)
	if _, err := service.ValidateAccessToken(ctx, pair.AccessToken); !errors.Is(err, domainerror.ErrExpiredToken) {
		t.Errorf("expected ErrExpiredToken, got %v", err)
	}
}

func TestTokenService_WrongSecret(t *testing.T) {
	ctx := context.Background()
	issuer := NewTokenService(testTokenConfig(), newFakeTokenRepository(), nil)
	other := testTokenConfig()
	other.Secret = "another-secret"
	verifier := NewTokenService(other, newFakeTokenRepository(), nil)

	pair, err := issuer.GenerateTokenPair(ctx, uuid.New(), "ana@example.com")
	if err != nil {
		t.Fatalf("GenerateTokenPair: %v", err)
	}
	if _, err := verifier.ValidateAccessToken(ctx, pair.AccessToken); !errors.Is(err, domainerror.ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestPasswordResetTokenService(t *testing.T) {
	ctx := context.Background()
	repo := newFakeTokenRepository()
	service := NewPasswordResetTokenService(repo, time.Hour, nil)

	userID := uuid.New()
	token, err := service.GenerateResetToken(ctx, userID, "ana@example.com")
	if err != nil {
		t.Fatalf("GenerateResetToken: %v", err)
	}
	if len(token.Token) != resetTokenBytes*2 {
		t.Errorf("token length = %d", len(token.Token))
	}

	got, err := service.ValidateResetToken(ctx, token.Token)
	if err != nil || got.UserID != userID {
		t.Fatalf("ValidateResetToken() = %+v, %v", got, err)
	}

	_ = service.InvalidateResetToken(ctx, token.Token)
	if _, err := service.ValidateResetToken(ctx, token.Token); !errors.Is(err, domainerror.ErrInvalidResetToken) {
		t.Errorf("expected ErrInvalidResetToken after use, got %v", err)
	}
}

func TestPasswordService(t *testing.T) {
	service := NewPasswordServiceWithCost(bcrypt.MinCost)

	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"too short", "1234567", true},
		{"minimum length", "12345678", false},
		{"accented characters count as one", "sençãoé", true},
		{"too long", string(make([]byte, 73)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := service.ValidatePasswordStrength(tt.password)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePasswordStrength() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, domainerror.ErrWeakPassword) {
				t.Errorf("expected ErrWeakPassword, got %v", err)
			}
		})
	}

	hash, err := service.HashPassword("segredo123")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if err := service.VerifyPassword(hash, "segredo123"); err != nil {
		t.Errorf("VerifyPassword with correct password: %v", err)
	}
	if err := service.VerifyPassword(hash, "errado123"); err == nil {
		t.Errorf("VerifyPassword with wrong password should fail")
	}
}
