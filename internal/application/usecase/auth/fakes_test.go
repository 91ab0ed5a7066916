package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/myeconomy/backend/internal/application/adapter"
	"github.com/myeconomy/backend/internal/domain/entity"
	domainerror "github.com/myeconomy/backend/internal/domain/error"
)

type fakeUserRepository struct {
	users   map[uuid.UUID]*entity.User
	deleted []uuid.UUID
	updates int
}

func newFakeUserRepository(users ...*entity.User) *fakeUserRepository {
	repo := &fakeUserRepository{users: map[uuid.UUID]*entity.User{}}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (f *fakeUserRepository) Create(_ context.Context, user *entity.User) error {
	for _, u := range f.users {
		if u.Email == user.Email {
			return domainerror.ErrEmailAlreadyExists
		}
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, domainerror.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserRepository) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domainerror.ErrUserNotFound
}

func (f *fakeUserRepository) Update(_ context.Context, user *entity.User) error {
	f.updates++
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepository) Delete(_ context.Context, id uuid.UUID) error {
	f.deleted = append(f.deleted, id)
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := f.FindByEmail(ctx, email)
	return err == nil, nil
}

// fakePasswordService "hashes" by prefixing, keeping tests fast.
type fakePasswordService struct{}

func (fakePasswordService) HashPassword(password string) (string, error) {
	return "hashed:" + password, nil
}

func (fakePasswordService) VerifyPassword(hashedPassword, password string) error {
	if hashedPassword != "hashed:"+password {
		return errors.New("mismatch")
	}
	return nil
}

func (fakePasswordService) ValidatePasswordStrength(password string) error {
	if len(password) < 8 {
		return domainerror.ErrWeakPassword
	}
	return nil
}

type fakeTokenService struct {
	issued      int
	revoked     []string
	revokedAll  []uuid.UUID
	claims      map[string]*adapter.TokenClaims
	invalidated map[string]bool
	expired     map[string]bool
}

func newFakeTokenService() *fakeTokenService {
	return &fakeTokenService{
		claims:      map[string]*adapter.TokenClaims{},
		invalidated: map[string]bool{},
		expired:     map[string]bool{},
	}
}

func (f *fakeTokenService) GenerateTokenPair(_ context.Context, userID uuid.UUID, email string) (*adapter.TokenPair, error) {
	f.issued++
	refresh := "refresh-" + strings.Repeat("x", f.issued)
	f.claims[refresh] = &adapter.TokenClaims{UserID: userID, Email: email}
	return &adapter.TokenPair{AccessToken: "access", RefreshToken: refresh, ExpiresIn: 900}, nil
}

func (f *fakeTokenService) ValidateAccessToken(_ context.Context, _ string) (*adapter.TokenClaims, error) {
	return nil, domainerror.ErrInvalidToken
}

func (f *fakeTokenService) ValidateRefreshToken(_ context.Context, token string) (*adapter.TokenClaims, error) {
	if f.expired[token] {
		return nil, domainerror.ErrExpiredToken
	}
	claims, ok := f.claims[token]
	if !ok {
		return nil, domainerror.ErrInvalidToken
	}
	return claims, nil
}

func (f *fakeTokenService) InvalidateRefreshToken(_ context.Context, token string) error {
	f.revoked = append(f.revoked, token)
	f.invalidated[token] = true
	return nil
}

func (f *fakeTokenService) InvalidateAllUserTokens(_ context.Context, userID uuid.UUID) error {
	f.revokedAll = append(f.revokedAll, userID)
	return nil
}

func (f *fakeTokenService) IsRefreshTokenValid(_ context.Context, token string) (bool, error) {
	return !f.invalidated[token], nil
}

type fakeResetTokenService struct {
	tokens      map[string]*adapter.PasswordResetToken
	invalidated []string
	ttl         time.Duration
	now         func() time.Time
}

func (f *fakeResetTokenService) GenerateResetToken(_ context.Context, userID uuid.UUID, email string) (*adapter.PasswordResetToken, error) {
	token := &adapter.PasswordResetToken{Token: "reset/token+1", UserID: userID, Email: email, ExpiresAt: f.now().Add(f.ttl)}
	f.tokens[token.Token] = token
	return token, nil
}

func (f *fakeResetTokenService) ValidateResetToken(_ context.Context, token string) (*adapter.PasswordResetToken, error) {
	t, ok := f.tokens[token]
	if !ok {
		return nil, domainerror.ErrInvalidResetToken
	}
	return t, nil
}

func (f *fakeResetTokenService) InvalidateResetToken(_ context.Context, token string) error {
	f.invalidated = append(f.invalidated, token)
	delete(f.tokens, token)
	return nil
}

func newFakeResetTokenService() *fakeResetTokenService {
	return &fakeResetTokenService{
		tokens: map[string]*adapter.PasswordResetToken{},
		ttl:    time.Hour,
		now:    fixedClock(testNow),
	}
}

type fakeEmailService struct {
	queued []adapter.QueuePasswordResetInput
}

func (f *fakeEmailService) QueuePasswordResetEmail(_ context.Context, input adapter.QueuePasswordResetInput) error {
	f.queued = append(f.queued, input)
	return nil
}

func fixedClock(t time.Time) adapter.Clock {
	return func() time.Time { return t }
}
