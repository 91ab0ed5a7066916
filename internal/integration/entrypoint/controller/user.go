package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/myeconomy/backend/internal/application/usecase/auth"
	"github.com/myeconomy/backend/internal/application/usecase/user"
	domainerror "github.com/myeconomy/backend/internal/domain/error"
	"github.com/myeconomy/backend/internal/integration/entrypoint/dto"
)

// UserController handles the authenticated user's profile.
type UserController struct {
	getCurrentUserUseCase *user.GetCurrentUserUseCase
	updateProfileUseCase  *user.UpdateProfileUseCase
	deleteAccountUseCase  *auth.DeleteAccountUseCase
}

// NewUserController creates a new user controller instance.
func NewUserController(
	getCurrentUserUseCase *user.GetCurrentUserUseCase,
	updateProfileUseCase *user.UpdateProfileUseCase,
	deleteAccountUseCase *auth.DeleteAccountUseCase,
) *UserController {
	return &UserController{
		getCurrentUserUseCase: getCurrentUserUseCase,
		updateProfileUseCase:  updateProfileUseCase,
		deleteAccountUseCase:  deleteAccountUseCase,
	}
}

// GetCurrent handles GET /usuarios/usuario-autenticado requests.
func (c *UserController) GetCurrent(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	u, err := c.getCurrentUserUseCase.Execute(ctx.Request.Context(), userID)
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToUserResponse(u))
}

// UpdateProfile handles PATCH /usuarios/usuario-autenticado requests.
func (c *UserController) UpdateProfile(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		if _, isField := firstFieldError(err); isField {
			bindingFailed(ctx, string(domainerror.ErrCodeInvalidName), "Nome muito longo")
			return
		}
		bindingFailed(ctx, string(domainerror.ErrCodeMissingFields), "Corpo da requisição inválido")
		return
	}

	u, err := c.updateProfileUseCase.Execute(ctx.Request.Context(), user.UpdateProfileInput{
		UserID:   userID,
		Name:     req.Name,
		Nickname: req.Nickname,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToUserResponse(u))
}

// DeleteAccount handles DELETE /usuarios/usuario-autenticado requests.
func (c *UserController) DeleteAccount(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req dto.DeleteAccountRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindingFailed(ctx, string(domainerror.ErrCodeMissingFields), "Confirme a exclusão com sua senha")
		return
	}

	if err := c.deleteAccountUseCase.Execute(ctx.Request.Context(), auth.DeleteAccountInput{
		UserID:   userID,
		Password: req.Password,
	}); err != nil {
		handleError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
