// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/myeconomy/backend/internal/application/usecase/auth"
	domainerror "github.com/myeconomy/backend/internal/domain/error"
	"github.com/myeconomy/backend/internal/integration/entrypoint/dto"
)

// AuthController handles authentication endpoints.
type AuthController struct {
	registerUseCase       *auth.RegisterUserUseCase
	loginUseCase          *auth.LoginUserUseCase
	refreshTokenUseCase   *auth.RefreshTokenUseCase
	logoutUseCase         *auth.LogoutUserUseCase
	forgotPasswordUseCase *auth.ForgotPasswordUseCase
	resetPasswordUseCase  *auth.ResetPasswordUseCase
}

// NewAuthController creates a new auth controller instance.
func NewAuthController(
	registerUseCase *auth.RegisterUserUseCase,
	loginUseCase *auth.LoginUserUseCase,
	refreshTokenUseCase *auth.RefreshTokenUseCase,
	logoutUseCase *auth.LogoutUserUseCase,
	forgotPasswordUseCase *auth.ForgotPasswordUseCase,
	resetPasswordUseCase *auth.ResetPasswordUseCase,
) *AuthController {
	return &AuthController{
		registerUseCase:       registerUseCase,
		loginUseCase:          loginUseCase,
		refreshTokenUseCase:   refreshTokenUseCase,
		logoutUseCase:         logoutUseCase,
		forgotPasswordUseCase: forgotPasswordUseCase,
		resetPasswordUseCase:  resetPasswordUseCase,
	}
}

// Register handles POST /auth/register requests.
func (c *AuthController) Register(ctx *gin.Context) {
	var req dto.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.handleRegisterBindingError(ctx, err)
		return
	}

	output, err := c.registerUseCase.Execute(ctx.Request.Context(), auth.RegisterUserInput{
		Name:            req.Name,
		Nickname:        req.Nickname,
		Email:           req.Email,
		BirthDate:       req.BirthDate,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.AuthResponse{
		Token:        output.AccessToken,
		RefreshToken: output.RefreshToken,
		ExpiresIn:    output.ExpiresIn,
		User:         dto.ToUserResponse(output.User),
	})
}

// handleRegisterBindingError keeps the specific code of the first invalid field.
func (c *AuthController) handleRegisterBindingError(ctx *gin.Context, err error) {
	fieldErr, ok := firstFieldError(err)
	if !ok {
		bindingFailed(ctx, string(domainerror.ErrCodeMissingFields), "Corpo da requisição inválido")
		return
	}

	switch {
	case fieldErr.Tag() == "required":
		bindingFailed(ctx, string(domainerror.ErrCodeMissingFields), "Preencha todos os campos obrigatórios")
	case fieldErr.Field() == "BirthDate":
		bindingFailed(ctx, string(domainerror.ErrCodeInvalidBirthDate), "Data de nascimento inválida, use DD/MM/AAAA")
	case fieldErr.Field() == "Email":
		bindingFailed(ctx, string(domainerror.ErrCodeInvalidEmail), "Email inválido")
	case fieldErr.Field() == "Name" || fieldErr.Field() == "Nickname":
		bindingFailed(ctx, string(domainerror.ErrCodeInvalidName), "Nome muito longo")
	default:
		bindingFailed(ctx, string(domainerror.ErrCodeMissingFields), "Corpo da requisição inválido")
	}
}

// Login handles POST /auth/login requests.
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindingFailed(ctx, string(domainerror.ErrCodeMissingFields), "Informe email e senha")
		return
	}

	output, err := c.loginUseCase.Execute(ctx.Request.Context(), auth.LoginUserInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.AuthResponse{
		Token:        output.AccessToken,
		RefreshToken: output.RefreshToken,
		ExpiresIn:    output.ExpiresIn,
		User:         dto.ToUserResponse(output.User),
	})
}

// RefreshToken handles POST /auth/refresh requests.
func (c *AuthController) RefreshToken(ctx *gin.Context) {
	var req dto.RefreshTokenRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindingFailed(ctx, string(domainerror.ErrCodeMissingToken), "Refresh token não informado")
		return
	}

	output, err := c.refreshTokenUseCase.Execute(ctx.Request.Context(), auth.RefreshTokenInput{
		RefreshToken: req.RefreshToken,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.TokenResponse{
		Token:        output.AccessToken,
		RefreshToken: output.RefreshToken,
		ExpiresIn:    output.ExpiresIn,
	})
}

// Logout handles POST /auth/logout requests. The body is optional.
func (c *AuthController) Logout(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req dto.LogoutRequest
	if ctx.Request.ContentLength != 0 {
		// A malformed body still logs the user out of every session
		_ = ctx.ShouldBindJSON(&req)
	}

	if err := c.logoutUseCase.Execute(ctx.Request.Context(), auth.LogoutUserInput{
		UserID:       userID,
		RefreshToken: req.RefreshToken,
	}); err != nil {
		handleError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// ForgotPassword handles POST /auth/forgot-password requests.
func (c *AuthController) ForgotPassword(ctx *gin.Context) {
	var req dto.ForgotPasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindingFailed(ctx, string(domainerror.ErrCodeInvalidEmail), "Email inválido")
		return
	}

	output, err := c.forgotPasswordUseCase.Execute(ctx.Request.Context(), auth.ForgotPasswordInput{
		Email: req.Email,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusAccepted, dto.MessageResponse{Message: output.Message})
}

// ResetPassword handles POST /auth/reset-password requests.
func (c *AuthController) ResetPassword(ctx *gin.Context) {
	var req dto.ResetPasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindingFailed(ctx, string(domainerror.ErrCodeMissingFields), "Preencha todos os campos obrigatórios")
		return
	}

	if err := c.resetPasswordUseCase.Execute(ctx.Request.Context(), auth.ResetPasswordInput{
		Token:           req.Token,
		NewPassword:     req.Password,
		ConfirmPassword: req.ConfirmPassword,
	}); err != nil {
		handleError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
