// Package auth contains authentication-related use cases.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/myeconomy/backend/internal/application/adapter"
	domainerror "github.com/myeconomy/backend/internal/domain/error"
)

type RefreshTokenInput struct {
	RefreshToken string
}

// RefreshTokenOutput is the rotated session.
type RefreshTokenOutput = adapter.TokenPair

// RefreshTokenUseCase exchanges a refresh token for a new pair. Each refresh
// token is accepted once.
type RefreshTokenUseCase struct {
	tokenService adapter.TokenService
}

func NewRefreshTokenUseCase(tokenService adapter.TokenService) *RefreshTokenUseCase {
	return &RefreshTokenUseCase{tokenService: tokenService}
}

func (uc *RefreshTokenUseCase) Execute(ctx context.Context, input RefreshTokenInput) (*RefreshTokenOutput, error) {
	token := input.RefreshToken
	if token == "" {
		return nil, domainerror.NewAuthError(domainerror.ErrCodeMissingToken, "Refresh token não informado", domainerror.ErrInvalidToken)
	}

	claims, err := uc.tokenService.ValidateRefreshToken(ctx, token)
	switch {
	case errors.Is(err, domainerror.ErrExpiredToken):
		return nil, domainerror.NewAuthError(domainerror.ErrCodeExpiredToken, "Sessão expirada, faça login novamente", err)
	case err != nil:
		return nil, domainerror.NewAuthError(domainerror.ErrCodeInvalidToken, "Refresh token inválido", domainerror.ErrInvalidToken)
	}

	active, err := uc.tokenService.IsRefreshTokenValid(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("refresh token lookup: %w", err)
	}
	if !active {
		return nil, domainerror.NewAuthError(domainerror.ErrCodeInvalidToken, "Refresh token revogado", domainerror.ErrInvalidToken)
	}

	if err := uc.tokenService.InvalidateRefreshToken(ctx, token); err != nil {
		return nil, fmt.Errorf("revoke refresh token: %w", err)
	}

	pair, err := uc.tokenService.GenerateTokenPair(ctx, claims.UserID, claims.Email)
	if err != nil {
		return nil, fmt.Errorf("issue token pair: %w", err)
	}
	return pair, nil
}
