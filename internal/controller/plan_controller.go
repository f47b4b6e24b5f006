package controller

import (
	"kumba_backend/internal/service"
	"kumba_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type PlanController struct {
	RoadmapService *service.RoadmapService
	PlanService    *service.ProgressService
}

func NewPlanController(roadmapService *service.RoadmapService, progressService *service.ProgressService) *PlanController {
	return &PlanController{
		RoadmapService: roadmapService,
		PlanService:    progressService,
	}
}

type GenerateRoadmapRequest struct {
	MaterialID string `json:"materialId" binding:"required"`
	TotalDays  int    `json:"totalDays" binding:"omitempty,min=1"`
}

// Generate godoc
// @Summary Generate a learning plan from a material
// @Description Builds a day-by-day plan with topics and quizzes. Day 1 starts unlocked.
// @Tags plans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body GenerateRoadmapRequest true "generation parameters"
// @Success 201 {object} util.Response{data=model.LearningPlan}
// @Failure 400 {object} util.Response "material not processed yet"
// @Failure 404 {object} util.Response
// @Router /api/roadmap [post]
func (c *PlanController) Generate(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req GenerateRoadmapRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	plan, err := c.RoadmapService.GeneratePlan(claims.UserID, req.MaterialID, req.TotalDays, requestLanguage(ctx))
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Created(ctx, plan)
}

// List godoc
// @Summary List the caller's learning plans
// @Tags plans
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.LearningPlan}
// @Router /api/plans [get]
func (c *PlanController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	plans, err := c.PlanService.PlanRepo.ListByUser(claims.UserID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, plans)
}

// Get godoc
// @Summary Fetch one plan with its topics in day order
// @Tags plans
// @Produce json
// @Security BearerAuth
// @Param id path string true "plan id"
// @Success 200 {object} util.Response{data=model.LearningPlan}
// @Failure 404 {object} util.Response
// @Router /api/plans/{id} [get]
func (c *PlanController) Get(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	plan, err := c.PlanService.PlanRepo.FindWithTopics(ctx.Param("id"), claims.UserID)
	if err != nil {
		util.NotFound(ctx, "learning plan not found")
		return
	}
	util.Success(ctx, plan)
}

// Progress godoc
// @Summary Per-plan progress rollup
// @Tags plans
// @Produce json
// @Security BearerAuth
// @Param planId path string true "plan id"
// @Success 200 {object} util.Response{data=model.PlanProgress}
// @Failure 404 {object} util.Response
// @Router /api/progress/{planId} [get]
func (c *PlanController) Progress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	progress, err := c.PlanService.GetPlanProgress(claims.UserID, ctx.Param("planId"))
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, progress)
}
