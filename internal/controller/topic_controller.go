package controller

import (
	"errors"

	"kumba_backend/internal/service"
	"kumba_backend/internal/util"
	"kumba_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type TopicController struct {
	ProgressService  *service.ProgressService
	AnalyticsService *service.AnalyticsService
}

func NewTopicController(progressService *service.ProgressService, analyticsService *service.AnalyticsService) *TopicController {
	return &TopicController{
		ProgressService:  progressService,
		AnalyticsService: analyticsService,
	}
}

// Get godoc
// @Summary Fetch a topic with the caller's access decision
// @Tags topics
// @Produce json
// @Security BearerAuth
// @Param id path string true "topic id"
// @Success 200 {object} util.Response{data=object}
// @Failure 404 {object} util.Response
// @Router /api/topics/{id} [get]
func (c *TopicController) Get(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	topicID := ctx.Param("id")

	topic, err := c.ProgressService.TopicRepo.FindByID(topicID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.NotFound(ctx, "topic not found")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	decision, err := c.ProgressService.CheckAccess(claims.UserID, topicID, requestLanguage(ctx))
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"topic": topic, "access": decision})
}

// Start godoc
// @Summary Mark a topic as started
// @Tags topics
// @Produce json
// @Security BearerAuth
// @Param id path string true "topic id"
// @Success 200 {object} util.Response{data=model.LearningProgress}
// @Failure 403 {object} util.Response "topic is locked"
// @Router /api/topics/{id}/start [post]
func (c *TopicController) Start(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	progress, err := c.ProgressService.StartTopic(claims.UserID, ctx.Param("id"), requestLanguage(ctx))
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, progress)
}

type CompleteTopicRequest struct {
	TimeSpent    int  `json:"timeSpent" binding:"omitempty,min=0"`
	MasteryScore *int `json:"masteryScore" binding:"omitempty,min=0,max=100"`
}

// Complete godoc
// @Summary Complete a topic
// @Description Requires a passed quiz when the topic has one. Unlocks the next day.
// @Tags topics
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "topic id"
// @Param body body CompleteTopicRequest true "completion details"
// @Success 200 {object} util.Response{data=service.CompletionResult}
// @Failure 400 {object} util.Response "quiz not passed"
// @Failure 403 {object} util.Response
// @Router /api/topics/{id}/complete [post]
func (c *TopicController) Complete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req CompleteTopicRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.ProgressService.CompleteTopic(claims.UserID, ctx.Param("id"), req.TimeSpent, req.MasteryScore, requestLanguage(ctx))
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	monitoring.TopicsCompleted.Inc()
	c.AnalyticsService.InvalidateDashboard(ctx.Request.Context(), claims.UserID)
	util.Success(ctx, result)
}

type AddTimeRequest struct {
	Minutes int `json:"minutes" binding:"required,min=1"`
}

// AddTime godoc
// @Summary Add study minutes to a topic
// @Tags topics
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "topic id"
// @Param body body AddTimeRequest true "minutes studied"
// @Success 200 {object} util.Response{data=model.LearningProgress}
// @Router /api/topics/{id}/time [post]
func (c *TopicController) AddTime(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req AddTimeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	progress, err := c.ProgressService.AddTimeSpent(claims.UserID, ctx.Param("id"), req.Minutes)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, progress)
}
