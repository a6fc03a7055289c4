package capabilities

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes registers capability routes.
func RegisterRoutes(e *echo.Echo, h *Handler) {
	g := e.Group("/api/capabilities")
	g.GET("", h.Tree)
	g.GET("/:id", h.Get)
	g.POST("", h.Create)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
	g.GET("/:id/mappings", h.ListMappings)
	g.POST("/:id/mappings", h.CreateMapping)

	e.PUT("/api/capability-mappings/:id", h.UpdateMapping)
	e.DELETE("/api/capability-mappings/:id", h.DeleteMapping)
}
