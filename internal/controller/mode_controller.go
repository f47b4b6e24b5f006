package controller

import (
	"kumba_backend/internal/model"
	"kumba_backend/internal/service"
	"kumba_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ModeController struct {
	ModeService *service.ModeService
}

func NewModeController(modeService *service.ModeService) *ModeController {
	return &ModeController{ModeService: modeService}
}

type ApplyModeRequest struct {
	PlanID   string                `json:"planId" binding:"required"`
	Mode     string                `json:"mode" binding:"required,oneof=strict flexible exam-prep review"`
	Settings *service.ModeSettings `json:"settings"`
}

// Apply godoc
// @Summary Apply a learning mode to a plan
// @Description Bulk-recomputes topic lock state under the chosen policy.
// @Tags modes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body ApplyModeRequest true "mode selection"
// @Success 200 {object} util.Response{data=service.ModeResult}
// @Failure 404 {object} util.Response
// @Router /api/modes [post]
func (c *ModeController) Apply(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req ApplyModeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.ModeService.ApplyMode(claims.UserID, req.PlanID, model.LearningMode(req.Mode), req.Settings, requestLanguage(ctx))
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// List godoc
// @Summary Available learning modes for a plan
// @Tags modes
// @Produce json
// @Security BearerAuth
// @Param planId query string true "plan id"
// @Success 200 {object} util.Response{data=service.ModeCatalog}
// @Router /api/modes [get]
func (c *ModeController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	planID := ctx.Query("planId")
	if planID == "" {
		util.BadRequest(ctx, "planId is required")
		return
	}
	catalog, err := c.ModeService.GetModes(claims.UserID, planID, requestLanguage(ctx))
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, catalog)
}
