package router

import (
	"github.com/gin-gonic/gin"

	"planie.app/api/internal/http/handler"
)

func WorkspaceRouter(rg *gin.RouterGroup, h *handler.WorkspaceHandler) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/:id", h.Get)
	rg.PATCH("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
	rg.POST("/:id/reset-invite-code", h.ResetInviteCode)
	rg.POST("/:id/join", h.Join)
}
