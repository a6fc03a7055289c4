package systems

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes registers all system routes.
func RegisterRoutes(e *echo.Echo, h *Handler) {
	g := e.Group("/api/systems")
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.POST("", h.Create)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}
