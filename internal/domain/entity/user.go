// Package entity defines the core business entities for the domain layer.
package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// User represents a user in the MyEconomy system.
type User struct {
	ID           uuid.UUID
	Email        string
	Name         string
	Nickname     string
	BirthDate    time.Time
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewUser creates a new User. An empty nickname defaults to the first word of the name.
func NewUser(email, name, nickname string, birthDate time.Time, passwordHash string, now time.Time) *User {
	now = now.UTC()
	if strings.TrimSpace(nickname) == "" {
		nickname = DefaultNickname(name)
	}

	return &User{
		ID:           uuid.New(),
		Email:        email,
		Name:         name,
		Nickname:     nickname,
		BirthDate:    birthDate,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// DefaultNickname returns the first word of name.
func DefaultNickname(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
