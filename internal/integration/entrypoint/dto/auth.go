package dto

import (
	"github.com/myeconomy/backend/internal/domain/entity"
	"github.com/myeconomy/backend/internal/domain/valueobject"
)

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Name            string `json:"nome" binding:"required,max=100"`
	Nickname        string `json:"nickname" binding:"max=50"`
	Email           string `json:"email" binding:"required,email"`
	BirthDate       string `json:"dataNascimento" binding:"required,brdate"`
	Password        string `json:"senha" binding:"required"`
	ConfirmPassword string `json:"confirmarSenha" binding:"required"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"senha" binding:"required"`
}

// RefreshTokenRequest is the body of POST /auth/refresh.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// LogoutRequest is the optional body of POST /auth/logout. Without a token
// every session of the user is revoked.
type LogoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// ForgotPasswordRequest is the body of POST /auth/forgot-password.
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required"`
}

// ResetPasswordRequest is the body of POST /auth/reset-password.
type ResetPasswordRequest struct {
	Token           string `json:"token" binding:"required"`
	Password        string `json:"senha" binding:"required"`
	ConfirmPassword string `json:"confirmarSenha" binding:"required"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Token        string       `json:"token"`
	RefreshToken string       `json:"refreshToken"`
	ExpiresIn    int64        `json:"expiresIn"`
	User         UserResponse `json:"user"`
}

// TokenResponse is returned by refresh.
type TokenResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"`
}

// UserResponse is the public view of a user.
type UserResponse struct {
	ID        string `json:"id"`
	Name      string `json:"nome"`
	Nickname  string `json:"nickname"`
	Email     string `json:"email"`
	BirthDate string `json:"dataNascimento"`
}

// ToUserResponse converts a domain User entity to a UserResponse DTO.
func ToUserResponse(user *entity.User) UserResponse {
	birthDate := ""
	if !user.BirthDate.IsZero() {
		birthDate = valueobject.FormatDisplayDate(user.BirthDate)
	}

	return UserResponse{
		ID:        user.ID.String(),
		Name:      user.Name,
		Nickname:  user.Nickname,
		Email:     user.Email,
		BirthDate: birthDate,
	}
}
