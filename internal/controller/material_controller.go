package controller

import (
	"kumba_backend/internal/service"
	"kumba_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type MaterialController struct {
	MaterialService *service.MaterialService
}

func NewMaterialController(materialService *service.MaterialService) *MaterialController {
	return &MaterialController{MaterialService: materialService}
}

// Create godoc
// @Summary Register a study material
// @Tags materials
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.CreateMaterialInput true "material details"
// @Success 201 {object} util.Response{data=model.LearningMaterial}
// @Failure 400 {object} util.Response
// @Router /api/materials [post]
func (c *MaterialController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var input service.CreateMaterialInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	material, err := c.MaterialService.Create(claims.UserID, input)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Created(ctx, material)
}

// List godoc
// @Summary List the caller's materials
// @Tags materials
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.LearningMaterial}
// @Router /api/materials [get]
func (c *MaterialController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	materials, err := c.MaterialService.List(claims.UserID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, materials)
}

// Get godoc
// @Summary Fetch one material
// @Tags materials
// @Produce json
// @Security BearerAuth
// @Param id path string true "material id"
// @Success 200 {object} util.Response{data=model.LearningMaterial}
// @Failure 404 {object} util.Response
// @Router /api/materials/{id} [get]
func (c *MaterialController) Get(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	material, err := c.MaterialService.Get(claims.UserID, ctx.Param("id"))
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, material)
}

type AttachTextRequest struct {
	ExtractedText string `json:"extractedText"`
}

// AttachText godoc
// @Summary Attach extracted text to a material
// @Description Completion callback for the external text extractor.
// @Tags materials
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "material id"
// @Param body body AttachTextRequest true "extracted text"
// @Success 200 {object} util.Response{data=model.LearningMaterial}
// @Router /api/materials/{id}/text [put]
func (c *MaterialController) AttachText(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req AttachTextRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	material, err := c.MaterialService.AttachExtractedText(claims.UserID, ctx.Param("id"), req.ExtractedText)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, material)
}
