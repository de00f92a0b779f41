package router

import (
	"github.com/gin-gonic/gin"

	"planie.app/api/internal/auth"
	"planie.app/api/internal/http/handler"
	"planie.app/api/internal/http/middleware"
	"planie.app/api/internal/service"
)

type RouterConfig struct {
	Resolver      auth.Resolver
	ImageMaxBytes int64
}

func SetupRoutes(router *gin.Engine, services *service.Services, cfg RouterConfig) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	v1.Use(middleware.RequireIdentity(cfg.Resolver))
	{
		workspaceHandler := handler.NewWorkspaceHandler(services.Workspaces(), services.Join(), cfg.ImageMaxBytes)
		WorkspaceRouter(v1.Group("/workspaces"), workspaceHandler)
	}
}
