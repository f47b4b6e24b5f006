package controller

import (
	"errors"
	"net/http"

	"kumba_backend/internal/model"
	"kumba_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// handleServiceError translates the service error taxonomy to HTTP. Anything
// unrecognized is logged and surfaces as a 500.
func handleServiceError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrUserNotFound),
		errors.Is(err, util.ErrPlanNotFound),
		errors.Is(err, util.ErrTopicNotFound),
		errors.Is(err, util.ErrQuizNotFound),
		errors.Is(err, util.ErrMaterialNotFound):
		util.NotFound(ctx, err.Error())
	case errors.Is(err, util.ErrPlanNotOwned),
		errors.Is(err, util.ErrTopicLocked):
		util.Forbidden(ctx, err.Error())
	case errors.Is(err, util.ErrQuizNotPassed),
		errors.Is(err, util.ErrMaterialNotReady):
		util.BadRequest(ctx, err.Error())
	case errors.Is(err, util.ErrAttemptsExceeded):
		util.Error(ctx, http.StatusTooManyRequests, err.Error())
	case errors.Is(err, util.ErrEmailRegistered):
		util.Error(ctx, http.StatusConflict, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}

// requestLanguage resolves the response language from the token claims.
func requestLanguage(ctx *gin.Context) model.Language {
	if claims := util.GetUserFromContext(ctx); claims != nil && claims.Language != "" {
		return claims.Language
	}
	return model.LanguageEnglish
}
