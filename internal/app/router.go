package app

import (
	"hctf_backend/internal/config"
	"hctf_backend/internal/middleware"
	"hctf_backend/internal/repository"

	"hctf_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, stores *repository.Stores, cfg *config.Config) {
	router.GET("/metrics", monitoring.PrometheusHandler())
	router.GET("/health", c.health.HealthCheck)

	// 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
		public.GET("/scoreboard", c.scoreboard.Get)
	}

	// 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg, stores.Teams()))
	{
		authGroup.GET("/challenges", c.challenge.List)
		authGroup.POST("/challenges/submit", c.challenge.Submit)
		authGroup.GET("/challenges/:id/solved", c.challenge.SolvedTeams)
	}

	// 管理员相关接口
	adminGroup := router.Group("/api/admin")
	adminGroup.Use(middleware.AuthMiddleware(cfg, stores.Teams()), middleware.AdminMiddleware())
	{
		adminGroup.POST("/challenges/score", c.challenge.ResetScore)
	}
}
