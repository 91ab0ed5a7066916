package controller

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	domainerror "github.com/myeconomy/backend/internal/domain/error"
	"github.com/myeconomy/backend/internal/domain/valueobject"
	"github.com/myeconomy/backend/internal/infra/logging"
	"github.com/myeconomy/backend/internal/integration/entrypoint/dto"
	"github.com/myeconomy/backend/internal/integration/entrypoint/middleware"
)

const internalErrorMessage = "Ocorreu um erro interno. Tente novamente mais tarde."

// handleError writes the response for any error returned by a use case.
func handleError(ctx *gin.Context, err error) {
	var (
		authErr      *domainerror.AuthError
		expenseErr   *domainerror.ExpenseError
		limitErr     *domainerror.LimitError
		periodErr    *domainerror.PeriodError
		dashboardErr *domainerror.DashboardError
	)

	switch {
	case errors.As(err, &authErr):
		writeError(ctx, getStatusCodeForAuthError(authErr.Code), string(authErr.Code), authErr.Message)
	case errors.As(err, &expenseErr):
		writeError(ctx, getStatusCodeForExpenseError(expenseErr.Code), string(expenseErr.Code), expenseErr.Message)
	case errors.As(err, &limitErr):
		writeError(ctx, getStatusCodeForLimitError(limitErr.Code), string(limitErr.Code), limitErr.Message)
	case errors.As(err, &periodErr):
		writeError(ctx, getStatusCodeForPeriodError(periodErr.Code), string(periodErr.Code), periodErr.Message)
	case errors.As(err, &dashboardErr):
		writeError(ctx, getStatusCodeForDashboardError(dashboardErr.Code), string(dashboardErr.Code), dashboardErr.Message)
	default:
		slog.ErrorContext(ctx.Request.Context(), "Unhandled error",
			logging.FieldError, err,
			logging.FieldRequestID, middleware.GetRequestID(ctx),
			logging.FieldPath, ctx.FullPath(),
		)
		writeError(ctx, http.StatusInternalServerError, "", internalErrorMessage)
	}
	_ = ctx.Error(err)
}

func writeError(ctx *gin.Context, status int, code, message string) {
	ctx.AbortWithStatusJSON(status, dto.NewErrorResponse(code, message))
}

// bindingFailed reports a request body or query that could not be bound.
func bindingFailed(ctx *gin.Context, code, message string) {
	writeError(ctx, http.StatusBadRequest, code, message)
}

// firstFieldError returns the first validator failure in err, if any.
func firstFieldError(err error) (validator.FieldError, bool) {
	var errs validator.ValidationErrors
	if errors.As(err, &errs) && len(errs) > 0 {
		return errs[0], true
	}
	return nil, false
}

// currentUserID returns the authenticated user or writes a 401.
func currentUserID(ctx *gin.Context) (uuid.UUID, bool) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		writeError(ctx, http.StatusUnauthorized, string(domainerror.ErrCodeMissingToken), "Usuário não autenticado")
		return uuid.Nil, false
	}
	return userID, true
}

// periodQuery reads the optional mes (0-11) and ano query parameters. Both
// must be given together; neither yields nil.
func periodQuery(ctx *gin.Context) (*valueobject.PeriodKey, error) {
	var q dto.PeriodQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		return nil, domainerror.NewDashboardError(
			domainerror.ErrCodeInvalidPeriodQuery,
			"Mês ou ano inválido",
			err,
		)
	}

	switch {
	case q.Month == nil && q.Year == nil:
		return nil, nil
	case q.Month == nil || q.Year == nil:
		return nil, domainerror.NewDashboardError(
			domainerror.ErrCodeIncompletePeriodQuery,
			"Informe mês e ano juntos",
			domainerror.ErrIncompletePeriodQuery,
		)
	}

	period, err := valueobject.NewPeriodKey(valueobject.Month(*q.Month), *q.Year)
	if err != nil {
		return nil, err
	}
	return &period, nil
}

func getStatusCodeForAuthError(code domainerror.AuthErrorCode) int {
	switch code {
	case domainerror.ErrCodeEmailExists:
		return http.StatusConflict
	case domainerror.ErrCodePasswordMismatch,
		domainerror.ErrCodeWeakPassword,
		domainerror.ErrCodeInvalidEmail,
		domainerror.ErrCodeMissingFields,
		domainerror.ErrCodeInvalidBirthDate,
		domainerror.ErrCodeInvalidName,
		domainerror.ErrCodeInvalidResetToken,
		domainerror.ErrCodeExpiredResetToken,
		domainerror.ErrCodeInvalidConfirmation:
		return http.StatusBadRequest
	case domainerror.ErrCodeInvalidCredentials,
		domainerror.ErrCodeUserNotFound,
		domainerror.ErrCodeInvalidToken,
		domainerror.ErrCodeExpiredToken,
		domainerror.ErrCodeMissingToken:
		return http.StatusUnauthorized
	case domainerror.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func getStatusCodeForExpenseError(code domainerror.ExpenseErrorCode) int {
	switch code {
	case domainerror.ErrCodeEmptyDescription,
		domainerror.ErrCodeDescriptionTooLong,
		domainerror.ErrCodeInvalidExpenseAmount,
		domainerror.ErrCodeNonPositiveExpense,
		domainerror.ErrCodeInvalidExpenseDate,
		domainerror.ErrCodeMissingExpenseFields:
		return http.StatusBadRequest
	case domainerror.ErrCodeExpenseNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodeNotAuthorizedExpense:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func getStatusCodeForLimitError(code domainerror.LimitErrorCode) int {
	switch code {
	case domainerror.ErrCodeInvalidLimitAmount,
		domainerror.ErrCodeNonPositiveLimit,
		domainerror.ErrCodeInvalidLimitPeriod,
		domainerror.ErrCodeMissingLimitFields:
		return http.StatusBadRequest
	case domainerror.ErrCodeLimitNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodeUnauthorizedLimit:
		return http.StatusForbidden
	case domainerror.ErrCodeLimitAlreadyExists,
		domainerror.ErrCodeLimitPeriodBusy:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func getStatusCodeForPeriodError(code domainerror.PeriodErrorCode) int {
	switch code {
	case domainerror.ErrCodeInvalidDate, domainerror.ErrCodeInvalidPeriod:
		return http.StatusBadRequest
	case domainerror.ErrCodePeriodImmutable:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func getStatusCodeForDashboardError(code domainerror.DashboardErrorCode) int {
	switch code {
	case domainerror.ErrCodeIncompletePeriodQuery, domainerror.ErrCodeInvalidPeriodQuery:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
