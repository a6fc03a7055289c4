package systems

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/strata-studio/strata/pkg/apperror"
)

// Handler handles HTTP requests for systems.
type Handler struct {
	svc *Service
}

// NewHandler creates a new systems handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func parseIDParam(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, apperror.NewBadRequest("invalid " + name)
	}
	return id, nil
}

// List returns all systems.
// GET /api/systems
func (h *Handler) List(c echo.Context) error {
	systems, err := h.svc.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, systems)
}

// Get returns a single system.
// GET /api/systems/:id
func (h *Handler) Get(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	system, err := h.svc.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, system)
}

// Create creates a system.
// POST /api/systems
func (h *Handler) Create(c echo.Context) error {
	var params CreateParams
	if err := c.Bind(&params); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}
	system, err := h.svc.Create(c.Request().Context(), params)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, system)
}

// Update updates a system.
// PUT /api/systems/:id
func (h *Handler) Update(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	var params UpdateParams
	if err := c.Bind(&params); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}
	system, err := h.svc.Update(c.Request().Context(), id, params)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, system)
}

// Delete removes a system.
// DELETE /api/systems/:id
func (h *Handler) Delete(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
