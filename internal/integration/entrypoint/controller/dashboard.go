package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/myeconomy/backend/internal/application/usecase/dashboard"
	"github.com/myeconomy/backend/internal/integration/entrypoint/dto"
)

// DashboardController serves the period snapshot and the period picker.
type DashboardController struct {
	snapshotUseCase      *dashboard.GetSnapshotUseCase
	periodOptionsUseCase *dashboard.GetPeriodOptionsUseCase
}

// NewDashboardController creates a new dashboard controller instance.
func NewDashboardController(
	snapshotUseCase *dashboard.GetSnapshotUseCase,
	periodOptionsUseCase *dashboard.GetPeriodOptionsUseCase,
) *DashboardController {
	return &DashboardController{
		snapshotUseCase:      snapshotUseCase,
		periodOptionsUseCase: periodOptionsUseCase,
	}
}

// GetSnapshot handles GET /dashboard requests. Without mes and ano the
// current period is used.
func (c *DashboardController) GetSnapshot(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	period, err := periodQuery(ctx)
	if err != nil {
		handleError(ctx, err)
		return
	}

	snapshot, err := c.snapshotUseCase.Execute(ctx.Request.Context(), dashboard.GetSnapshotInput{
		UserID: userID,
		Period: period,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToDashboardResponse(snapshot))
}

// GetPeriodOptions handles GET /dashboard/periodos requests.
func (c *DashboardController) GetPeriodOptions(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.ToPeriodOptionsResponse(c.periodOptionsUseCase.Execute()))
}
