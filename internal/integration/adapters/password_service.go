package adapters

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"github.com/myeconomy/backend/internal/application/adapter"
	domainerror "github.com/myeconomy/backend/internal/domain/error"
)

const (
	defaultBcryptCost = 12
	minPasswordLength = 8
	// bcrypt ignores input beyond 72 bytes
	maxPasswordBytes = 72
)

// passwordService implements the adapter.PasswordService interface.
type passwordService struct {
	cost int
}

// NewPasswordService creates a password service hashing with bcrypt cost 12.
func NewPasswordService() adapter.PasswordService {
	return &passwordService{cost: defaultBcryptCost}
}

// NewPasswordServiceWithCost creates a password service with a custom bcrypt cost.
// Tests use bcrypt.MinCost to stay fast.
func NewPasswordServiceWithCost(cost int) adapter.PasswordService {
	return &passwordService{cost: cost}
}

// HashPassword hashes a plain text password using bcrypt.
func (s *passwordService) HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashedBytes), nil
}

// VerifyPassword compares a plain text password with a hashed password.
func (s *passwordService) VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

// ValidatePasswordStrength requires at least 8 characters and at most 72 bytes.
func (s *passwordService) ValidatePasswordStrength(password string) error {
	if utf8.RuneCountInString(password) < minPasswordLength {
		return fmt.Errorf("%w: at least %d characters required", domainerror.ErrWeakPassword, minPasswordLength)
	}
	if len(password) > maxPasswordBytes {
		return fmt.Errorf("%w: at most %d bytes allowed", domainerror.ErrWeakPassword, maxPasswordBytes)
	}
	return nil
}
