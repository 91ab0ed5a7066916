package controller

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/myeconomy/backend/internal/application/usecase/expense"
	domainerror "github.com/myeconomy/backend/internal/domain/error"
	"github.com/myeconomy/backend/internal/integration/entrypoint/dto"
)

// ExpenseController handles expense endpoints.
type ExpenseController struct {
	createUseCase      *expense.CreateExpenseUseCase
	updateUseCase      *expense.UpdateExpenseUseCase
	deleteUseCase      *expense.DeleteExpenseUseCase
	listUseCase        *expense.ListExpensesUseCase
	listGroupedUseCase *expense.ListGroupedExpensesUseCase
	exportUseCase      *expense.ExportExpensesUseCase
}

// NewExpenseController creates a new expense controller instance.
func NewExpenseController(
	createUseCase *expense.CreateExpenseUseCase,
	updateUseCase *expense.UpdateExpenseUseCase,
	deleteUseCase *expense.DeleteExpenseUseCase,
	listUseCase *expense.ListExpensesUseCase,
	listGroupedUseCase *expense.ListGroupedExpensesUseCase,
	exportUseCase *expense.ExportExpensesUseCase,
) *ExpenseController {
	return &ExpenseController{
		createUseCase:      createUseCase,
		updateUseCase:      updateUseCase,
		deleteUseCase:      deleteUseCase,
		listUseCase:        listUseCase,
		listGroupedUseCase: listGroupedUseCase,
		exportUseCase:      exportUseCase,
	}
}

// Create handles POST /despesa requests.
func (c *ExpenseController) Create(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	req, ok := bindExpenseRequest(ctx)
	if !ok {
		return
	}

	output, err := c.createUseCase.Execute(ctx.Request.Context(), expense.CreateExpenseInput{
		UserID:      userID,
		Description: req.Description,
		Amount:      req.Amount.String(),
		Date:        req.Date,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToExpenseResponse(*output))
}

// Update handles PUT /despesa/:id requests.
func (c *ExpenseController) Update(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	expenseID, ok := expenseIDParam(ctx)
	if !ok {
		return
	}

	req, ok := bindExpenseRequest(ctx)
	if !ok {
		return
	}

	if _, err := c.updateUseCase.Execute(ctx.Request.Context(), expense.UpdateExpenseInput{
		UserID:      userID,
		ExpenseID:   expenseID,
		Description: req.Description,
		Amount:      req.Amount.String(),
		Date:        req.Date,
	}); err != nil {
		handleError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// Delete handles DELETE /despesa/:id requests.
func (c *ExpenseController) Delete(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	expenseID, ok := expenseIDParam(ctx)
	if !ok {
		return
	}

	if err := c.deleteUseCase.Execute(ctx.Request.Context(), expense.DeleteExpenseInput{
		UserID:    userID,
		ExpenseID: expenseID,
	}); err != nil {
		handleError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// List handles GET /despesa/despesas requests, optionally filtered by mes and ano.
func (c *ExpenseController) List(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	period, err := periodQuery(ctx)
	if err != nil {
		handleError(ctx, err)
		return
	}

	output, err := c.listUseCase.Execute(ctx.Request.Context(), expense.ListExpensesInput{
		UserID: userID,
		Period: period,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.Header("X-Total-Amount", output.Total.StringFixed(2))
	ctx.JSON(http.StatusOK, dto.ToExpenseResponses(output.Expenses))
}

// ListGrouped handles GET /despesa/agrupadas requests.
func (c *ExpenseController) ListGrouped(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	groups, err := c.listGroupedUseCase.Execute(ctx.Request.Context(), userID)
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToExpenseGroupResponses(groups))
}

// Export handles GET /despesa/exportar requests.
func (c *ExpenseController) Export(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	period, err := periodQuery(ctx)
	if err != nil {
		handleError(ctx, err)
		return
	}
	if period == nil {
		handleError(ctx, domainerror.NewDashboardError(
			domainerror.ErrCodeIncompletePeriodQuery,
			"Informe mês e ano",
			domainerror.ErrIncompletePeriodQuery,
		))
		return
	}

	output, err := c.exportUseCase.Execute(ctx.Request.Context(), expense.ExportExpensesInput{
		UserID: userID,
		Period: *period,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", output.FileName))
	ctx.Data(http.StatusOK, output.ContentType, output.Content)
}

func bindExpenseRequest(ctx *gin.Context) (*dto.ExpenseRequest, bool) {
	var req dto.ExpenseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindingFailed(ctx, string(domainerror.ErrCodeMissingExpenseFields), "Corpo da requisição inválido")
		return nil, false
	}
	return &req, true
}

func expenseIDParam(ctx *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		writeError(ctx, http.StatusNotFound, string(domainerror.ErrCodeExpenseNotFound), "Despesa não encontrada")
		return uuid.Nil, false
	}
	return id, true
}
