package health

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"

	"github.com/strata-studio/strata/internal/version"
)

// Handler handles health and readiness checks.
type Handler struct {
	pool    *pgxpool.Pool
	startAt time.Time
}

// NewHandler creates a new health handler.
func NewHandler(pool *pgxpool.Pool) *Handler {
	return &Handler{
		pool:    pool,
		startAt: time.Now(),
	}
}

// Check is one dependency's health result.
type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Response is the health endpoint payload.
type Response struct {
	Status    string           `json:"status"`
	Timestamp string           `json:"timestamp"`
	Uptime    string           `json:"uptime"`
	Version   string           `json:"version"`
	Checks    map[string]Check `json:"checks"`
}

// Health returns overall service health including database connectivity.
// GET /health
func (h *Handler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	db := Check{Status: "healthy"}
	if err := h.pool.Ping(ctx); err != nil {
		db.Status = "unhealthy"
		db.Message = err.Error()
	}

	resp := Response{
		Status:    db.Status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Uptime:    time.Since(h.startAt).String(),
		Version:   version.Version,
		Checks:    map[string]Check{"database": db},
	}

	code := http.StatusOK
	if resp.Status != "healthy" {
		code = http.StatusServiceUnavailable
	}
	return c.JSON(code, resp)
}

// Ready reports whether the service can take traffic.
// GET /ready
func (h *Handler) Ready(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	if err := h.pool.Ping(ctx); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "not ready"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ready"})
}
