package app

import (
	"kumba_backend/docs"
	"kumba_backend/internal/config"
	"kumba_backend/internal/middleware"
	"kumba_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// Public routes.
	api := router.Group("/api")
	{
		api.POST("/register", c.auth.Register)
		api.POST("/login", c.auth.Login)
		api.GET("/health", c.health.HealthCheck)
	}

	// Everything below requires a valid token.
	authorized := router.Group("/api")
	authorized.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		authorized.GET("/profile", c.auth.Profile)
		authorized.PUT("/user/language", c.auth.UpdateLanguage)

		authorized.POST("/materials", c.material.Create)
		authorized.GET("/materials", c.material.List)
		authorized.GET("/materials/:id", c.material.Get)
		authorized.PUT("/materials/:id/text", c.material.AttachText)

		authorized.POST("/roadmap", c.plan.Generate)
		authorized.GET("/plans", c.plan.List)
		authorized.GET("/plans/:id", c.plan.Get)
		authorized.GET("/progress/:planId", c.plan.Progress)

		authorized.GET("/topics/:id", c.topic.Get)
		authorized.POST("/topics/:id/start", c.topic.Start)
		authorized.POST("/topics/:id/complete", c.topic.Complete)
		authorized.POST("/topics/:id/time", c.topic.AddTime)

		authorized.GET("/quizzes/:id", c.quiz.Get)
		authorized.POST("/quizzes/:id/submit", c.quiz.Submit)
		authorized.GET("/quizzes/:id/results", c.quiz.Results)

		authorized.GET("/analytics/dashboard", c.analytics.Dashboard)
		authorized.GET("/charts/progress", c.analytics.Chart)

		authorized.GET("/modes", c.mode.List)
		authorized.POST("/modes", c.mode.Apply)

		authorized.POST("/mentor/chat", c.mentor.Chat)
	}
}
