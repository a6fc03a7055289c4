package models

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes registers all model routes.
func RegisterRoutes(e *echo.Echo, h *Handler) {
	g := e.Group("/api/models")
	g.GET("", h.List)
	g.POST("/create-with-layers", h.CreateWithLayers)
	g.GET("/:id", h.Get)
	g.GET("/:id/family", h.GetFamily)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
	g.GET("/:id/lifecycle", h.ListAssignments)
	g.POST("/:id/lifecycle", h.AssignPhase)

	e.GET("/api/lifecycle/phases", h.ListPhases)
}
