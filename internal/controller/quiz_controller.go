package controller

import (
	"kumba_backend/internal/service"
	"kumba_backend/internal/util"
	"kumba_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	QuizService      *service.QuizService
	AnalyticsService *service.AnalyticsService
}

func NewQuizController(quizService *service.QuizService, analyticsService *service.AnalyticsService) *QuizController {
	return &QuizController{
		QuizService:      quizService,
		AnalyticsService: analyticsService,
	}
}

// Get godoc
// @Summary Fetch a quiz for taking
// @Description Correct answers and explanations are withheld until submission.
// @Tags quizzes
// @Produce json
// @Security BearerAuth
// @Param id path string true "quiz id"
// @Success 200 {object} util.Response{data=service.QuizView}
// @Failure 403 {object} util.Response "owning topic is locked"
// @Failure 404 {object} util.Response
// @Router /api/quizzes/{id} [get]
func (c *QuizController) Get(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	view, err := c.QuizService.GetQuizForTaking(claims.UserID, ctx.Param("id"))
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

type SubmitQuizRequest struct {
	Answers   []service.SubmittedAnswer `json:"answers" binding:"required,min=1"`
	TimeSpent int                       `json:"timeSpent" binding:"omitempty,min=0"`
}

// Submit godoc
// @Summary Submit quiz answers for grading
// @Description Attempts are capped; a passing score completes the owning topic.
// @Tags quizzes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "quiz id"
// @Param body body SubmitQuizRequest true "answers"
// @Success 200 {object} util.Response{data=service.SubmissionResult}
// @Failure 429 {object} util.Response "attempt limit reached"
// @Router /api/quizzes/{id}/submit [post]
func (c *QuizController) Submit(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req SubmitQuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.QuizService.SubmitQuiz(claims.UserID, ctx.Param("id"), req.Answers, req.TimeSpent, requestLanguage(ctx))
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	outcome := "failed"
	if result.Passed {
		outcome = "passed"
	}
	monitoring.QuizSubmissions.WithLabelValues(outcome).Inc()
	c.AnalyticsService.InvalidateDashboard(ctx.Request.Context(), claims.UserID)
	util.Success(ctx, result)
}

// Results godoc
// @Summary The caller's attempt history for a quiz
// @Tags quizzes
// @Produce json
// @Security BearerAuth
// @Param id path string true "quiz id"
// @Success 200 {object} util.Response{data=[]model.QuizResult}
// @Router /api/quizzes/{id}/results [get]
func (c *QuizController) Results(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	results, err := c.QuizService.ListResults(claims.UserID, ctx.Param("id"))
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, results)
}
