package health

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes registers health check routes.
func RegisterRoutes(e *echo.Echo, h *Handler) {
	e.GET("/health", h.Health)
	e.GET("/ready", h.Ready)
}
