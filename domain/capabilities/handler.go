package capabilities

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/strata-studio/strata/pkg/apperror"
)

// Handler handles HTTP requests for capabilities.
type Handler struct {
	svc *Service
}

// NewHandler creates a new capabilities handler.
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

// Tree returns the capability forest.
// GET /api/capabilities
func (h *Handler) Tree(c echo.Context) error {
	tree, err := h.svc.Tree(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tree)
}

// Get returns a capability.
// GET /api/capabilities/:id
func (h *Handler) Get(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	capability, err := h.svc.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, capability)
}

// Create creates a capability.
// POST /api/capabilities
func (h *Handler) Create(c echo.Context) error {
	var params CreateParams
	if err := c.Bind(&params); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}
	capability, err := h.svc.Create(c.Request().Context(), params)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, capability)
}

// Update updates a capability.
// PUT /api/capabilities/:id
func (h *Handler) Update(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	var params UpdateParams
	if err := c.Bind(&params); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}
	capability, err := h.svc.Update(c.Request().Context(), id, params)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, capability)
}

// Delete removes a capability and its subtree.
// DELETE /api/capabilities/:id
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

// ListMappings returns a capability's mappings.
// GET /api/capabilities/:id/mappings
func (h *Handler) ListMappings(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	var kind *string
	if k := c.QueryParam("targetKind"); k != "" {
		kind = &k
	}
	mappings, err := h.svc.ListMappings(c.Request().Context(), id, kind)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, mappings)
}

// CreateMapping links a capability to a target.
// POST /api/capabilities/:id/mappings
func (h *Handler) CreateMapping(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	var params MappingParams
	if err := c.Bind(&params); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}
	m, err := h.svc.CreateMapping(c.Request().Context(), id, params)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, m)
}

// UpdateMapping updates a mapping's annotations.
// PUT /api/capability-mappings/:id
func (h *Handler) UpdateMapping(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	var params UpdateMappingParams
	if err := c.Bind(&params); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}
	m, err := h.svc.UpdateMapping(c.Request().Context(), id, params)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, m)
}

// DeleteMapping removes a mapping.
// DELETE /api/capability-mappings/:id
func (h *Handler) DeleteMapping(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.DeleteMapping(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
