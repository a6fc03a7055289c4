package objects

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes registers object, attribute, and projection routes.
func RegisterRoutes(e *echo.Echo, h *Handler) {
	e.GET("/api/object-lake", h.Lake)

	g := e.Group("/api/objects")
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.POST("", h.Create)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
	g.POST("/:id/attributes", h.CreateAttribute)
	g.POST("/:id/generate-next-layer", h.ProjectToNextLayer)

	e.PUT("/api/attributes/:id", h.UpdateAttribute)
	e.DELETE("/api/attributes/:id", h.DeleteAttribute)

	e.GET("/api/models/:id/objects", h.ListModelObjects)
	e.POST("/api/models/:id/objects", h.AddObjectToModel)
	e.POST("/api/models/:id/generate-next-layer", h.GenerateNextLayer)

	e.PUT("/api/model-objects/:id", h.UpdateModelObject)
	e.DELETE("/api/model-objects/:id", h.DeleteModelObject)
	e.PUT("/api/model-attributes/:id", h.UpdateModelAttribute)
	e.DELETE("/api/model-attributes/:id", h.DeleteModelAttribute)
}
