package app

import (
	"codelearn_backend/docs"
	"codelearn_backend/internal/config"
	"codelearn_backend/internal/middleware"
	"codelearn_backend/internal/model"
	"codelearn_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
	}

	// 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		// 练习
		authGroup.POST("/topics/:topicId/practice/attempts", c.practice.RecordAttempt)
		authGroup.GET("/topics/:topicId/practice/attempts", c.practice.ListAttempts)
		authGroup.GET("/topics/:topicId/practice/attempts/:attemptId", c.practice.GetAttemptDetail)

		// 编程挑战
		authGroup.GET("/topics/:topicId/challenge", c.coding.GetChallenge)
		authGroup.POST("/topics/:topicId/coding/submissions", c.coding.SubmitCode)
		authGroup.GET("/topics/:topicId/coding/submission", c.coding.GetSubmission)

		// 进度与排行
		authGroup.GET("/progress", c.progress.GetProgress)
		authGroup.GET("/leaderboard", c.leaderboard.GetLeaderboard)
		authGroup.DELETE("/leaderboard/cache", middleware.RoleMiddleware(model.Admin), c.leaderboard.ResetCache)
	}
}
