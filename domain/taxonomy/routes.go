package taxonomy

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes registers all taxonomy routes.
func RegisterRoutes(e *echo.Echo, h *Handler) {
	domains := e.Group("/api/domains")
	domains.GET("", h.ListDomains)
	domains.GET("/:id", h.GetDomain)
	domains.GET("/:id/areas", h.ListDomainAreas)
	domains.POST("", h.CreateDomain)
	domains.PUT("/:id", h.UpdateDomain)
	domains.DELETE("/:id", h.DeleteDomain)

	areas := e.Group("/api/areas")
	areas.GET("", h.ListAreas)
	areas.GET("/:id", h.GetArea)
	areas.POST("", h.CreateArea)
	areas.PUT("/:id", h.UpdateArea)
	areas.DELETE("/:id", h.DeleteArea)
}
