package controller

import (
	"strconv"

	"kumba_backend/internal/service"
	"kumba_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AnalyticsController struct {
	AnalyticsService *service.AnalyticsService
}

func NewAnalyticsController(analyticsService *service.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{AnalyticsService: analyticsService}
}

// Dashboard godoc
// @Summary Full analytics dashboard
// @Description Overview stats, charts, recent activity, upcoming topics and insights.
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=model.Dashboard}
// @Router /api/analytics/dashboard [get]
func (c *AnalyticsController) Dashboard(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	dashboard, err := c.AnalyticsService.Dashboard(ctx.Request.Context(), claims.UserID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, dashboard)
}

// Chart godoc
// @Summary One drill-down chart
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Param type query string false "progress | time | performance | streak | topics" default(progress)
// @Param planId query string false "narrow to one plan"
// @Param timeRange query int false "lookback window in days" default(30)
// @Success 200 {object} util.Response{data=service.Chart}
// @Failure 400 {object} util.Response "unknown chart type"
// @Router /api/charts/progress [get]
func (c *AnalyticsController) Chart(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	chartType := ctx.DefaultQuery("type", "progress")
	planID := ctx.Query("planId")
	windowDays, _ := strconv.Atoi(ctx.DefaultQuery("timeRange", "30"))

	chart, err := c.AnalyticsService.BuildChart(claims.UserID, chartType, planID, windowDays)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Success(ctx, chart)
}
