package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/myeconomy/backend/internal/application/usecase/limit"
	domainerror "github.com/myeconomy/backend/internal/domain/error"
	"github.com/myeconomy/backend/internal/integration/entrypoint/dto"
)

// LimitController handles monthly spending limit endpoints.
type LimitController struct {
	createUseCase *limit.CreateLimitUseCase
	updateUseCase *limit.UpdateLimitUseCase
	deleteUseCase *limit.DeleteLimitUseCase
	listUseCase   *limit.ListLimitsUseCase
}

// NewLimitController creates a new limit controller instance.
func NewLimitController(
	createUseCase *limit.CreateLimitUseCase,
	updateUseCase *limit.UpdateLimitUseCase,
	deleteUseCase *limit.DeleteLimitUseCase,
	listUseCase *limit.ListLimitsUseCase,
) *LimitController {
	return &LimitController{
		createUseCase: createUseCase,
		updateUseCase: updateUseCase,
		deleteUseCase: deleteUseCase,
		listUseCase:   listUseCase,
	}
}

// Create handles POST /limite requests.
func (c *LimitController) Create(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	req, ok := bindLimitRequest(ctx)
	if !ok {
		return
	}

	output, err := c.createUseCase.Execute(ctx.Request.Context(), limit.CreateLimitInput{
		UserID:      userID,
		Amount:      req.Amount.String(),
		PeriodInput: req.PeriodInput(),
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToLimitResponse(*output))
}

// Update handles PUT /limite/:id requests.
func (c *LimitController) Update(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	limitID, ok := limitIDParam(ctx)
	if !ok {
		return
	}

	req, ok := bindLimitRequest(ctx)
	if !ok {
		return
	}

	if _, err := c.updateUseCase.Execute(ctx.Request.Context(), limit.UpdateLimitInput{
		UserID:      userID,
		LimitID:     limitID,
		Amount:      req.Amount.String(),
		PeriodInput: req.PeriodInput(),
	}); err != nil {
		handleError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// Delete handles DELETE /limite/:id requests.
func (c *LimitController) Delete(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	limitID, ok := limitIDParam(ctx)
	if !ok {
		return
	}

	if err := c.deleteUseCase.Execute(ctx.Request.Context(), limit.DeleteLimitInput{
		UserID:  userID,
		LimitID: limitID,
	}); err != nil {
		handleError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// List handles GET /limite/limites requests.
func (c *LimitController) List(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	limits, err := c.listUseCase.Execute(ctx.Request.Context(), userID)
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToLimitResponses(limits))
}

func bindLimitRequest(ctx *gin.Context) (*dto.LimitRequest, bool) {
	var req dto.LimitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindingFailed(ctx, string(domainerror.ErrCodeMissingLimitFields), limit.DuplicateLimitMessage)
		return nil, false
	}
	return &req, true
}

func limitIDParam(ctx *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		writeError(ctx, http.StatusNotFound, string(domainerror.ErrCodeLimitNotFound), "Limite não encontrado")
		return uuid.Nil, false
	}
	return id, true
}
