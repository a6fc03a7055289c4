package relationships

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes registers relationship and canvas routes.
func RegisterRoutes(e *echo.Echo, h *Handler) {
	g := e.Group("/api/relationships")
	g.GET("", h.List)
	g.POST("", h.Declare)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)

	e.DELETE("/api/global-relationships/:id", h.DeleteGlobal)
	e.GET("/api/models/:id/canvas", h.Canvas)
}
