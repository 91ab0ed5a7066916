package auth

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	domainerror "github.com/myeconomy/backend/internal/domain/error"
	"github.com/myeconomy/backend/internal/domain/valueobject"
)

const maxNameLength = 100

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// isValidEmail validates email format using a simple regex.
func isValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// normalizeEmail trims and lowercases an email address.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// validateName trims name and checks it is non-blank and not too long.
func validateName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" || utf8.RuneCountInString(trimmed) > maxNameLength {
		return "", domainerror.NewAuthError(
			domainerror.ErrCodeInvalidName,
			"O nome deve ter entre 1 e 100 caracteres",
			domainerror.ErrInvalidName,
		)
	}
	return trimmed, nil
}

// parseBirthDate parses a DD/MM/YYYY birth date that must not be after today.
func parseBirthDate(value string, now time.Time) (time.Time, error) {
	birthDate, err := valueobject.ParseDisplayDate(value)
	if err != nil {
		return time.Time{}, domainerror.NewAuthError(
			domainerror.ErrCodeInvalidBirthDate,
			"Data de nascimento deve estar no formato DD/MM/AAAA",
			domainerror.ErrInvalidBirthDate,
		)
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if birthDate.After(today) {
		return time.Time{}, domainerror.NewAuthError(
			domainerror.ErrCodeInvalidBirthDate,
			"Data de nascimento não pode estar no futuro",
			domainerror.ErrInvalidBirthDate,
		)
	}
	return birthDate, nil
}
