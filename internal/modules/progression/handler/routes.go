package handler

import (
	"github.com/labstack/echo/v4"

	"focus-quest/internal/middleware"
)

// RegisterRoutes 挂载 /api/v1 下的全部业务路由
func (h *ProgressionHandler) RegisterRoutes(e *echo.Echo) {
	v1 := e.Group("/api/v1")

	v1.POST("/sessions/complete", h.CompleteSession)
	v1.POST("/battles", h.Fight)
	v1.GET("/ranks", h.ListRanks)
	v1.GET("/settings", h.GetSettings)
	v1.PUT("/settings/:key", h.UpdateSetting)

	users := v1.Group("/users/:user_id", middleware.UserContext())
	users.GET("/profile", h.GetProfile)
	users.GET("/portals", h.ListPortals)
	users.POST("/raids/:boss_id/attempts", h.AttackBoss)
}
