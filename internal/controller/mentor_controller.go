package controller

import (
	"kumba_backend/internal/service"
	"kumba_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type MentorController struct {
	MentorService *service.MentorService
}

func NewMentorController(mentorService *service.MentorService) *MentorController {
	return &MentorController{MentorService: mentorService}
}

type MentorChatRequest struct {
	Question string `json:"question" binding:"required"`
}

// Chat godoc
// @Summary Ask the AI mentor a question
// @Description Falls back to a motivational quote when the AI is unavailable.
// @Tags mentor
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body MentorChatRequest true "the question"
// @Success 200 {object} util.Response{data=service.MentorReply}
// @Router /api/mentor/chat [post]
func (c *MentorController) Chat(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req MentorChatRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	reply, err := c.MentorService.Chat(claims.UserID, req.Question, requestLanguage(ctx))
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Success(ctx, reply)
}
