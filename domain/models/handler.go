package models

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/strata-studio/strata/pkg/apperror"
)

// Handler handles HTTP requests for data models.
type Handler struct {
	svc *Service
}

// NewHandler creates a new models handler.
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

func parseOptionalID(c echo.Context, name string) (*uuid.UUID, error) {
	v := c.QueryParam(name)
	if v == "" {
		return nil, nil
	}
	id, err := uuid.Parse(v)
	if err != nil {
		return nil, apperror.NewBadRequest("invalid " + name)
	}
	return &id, nil
}

// List returns models matching query filters.
// GET /api/models?layer=&domainId=&systemId=
func (h *Handler) List(c echo.Context) error {
	params := ListParams{}

	if layer := c.QueryParam("layer"); layer != "" {
		if !IsValidLayer(layer) {
			return apperror.NewBadRequest("invalid layer")
		}
		params.Layer = &layer
	}

	domainID, err := parseOptionalID(c, "domainId")
	if err != nil {
		return err
	}
	params.DomainID = domainID

	systemID, err := parseOptionalID(c, "systemId")
	if err != nil {
		return err
	}
	params.SystemID = systemID

	models, err := h.svc.List(c.Request().Context(), params)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, models)
}

// Get returns a single model.
// GET /api/models/:id
func (h *Handler) Get(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	model, err := h.svc.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, model)
}

// GetFamily returns the resolved family of a model.
// GET /api/models/:id/family
func (h *Handler) GetFamily(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	family, err := h.svc.ResolveFamily(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{
		"conceptual": family.Conceptual,
		"logical":    family.Logical,
		"physical":   family.Physical,
	})
}

// CreateWithLayers creates a conceptual/logical/physical family.
// POST /api/models/create-with-layers
func (h *Handler) CreateWithLayers(c echo.Context) error {
	var params CreateWithLayersParams
	if err := c.Bind(&params); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}
	family, err := h.svc.CreateWithLayers(c.Request().Context(), params)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, map[string]any{
		"conceptual": family.Conceptual,
		"logical":    family.Logical,
		"physical":   family.Physical,
	})
}

// Update updates a model.
// PUT /api/models/:id
func (h *Handler) Update(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	var params UpdateParams
	if err := c.Bind(&params); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}
	model, err := h.svc.Update(c.Request().Context(), id, params)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, model)
}

// Delete removes a model (and its derived layers when conceptual).
// DELETE /api/models/:id
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

// ListPhases returns the ordered lifecycle phases.
// GET /api/lifecycle/phases
func (h *Handler) ListPhases(c echo.Context) error {
	phases, err := h.svc.ListPhases(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, phases)
}

// ListAssignments returns a model's lifecycle assignments.
// GET /api/models/:id/lifecycle
func (h *Handler) ListAssignments(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	assignments, err := h.svc.ListAssignments(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, assignments)
}

// AssignPhase assigns a lifecycle phase to a model.
// POST /api/models/:id/lifecycle
func (h *Handler) AssignPhase(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	var params AssignPhaseParams
	if err := c.Bind(&params); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}
	assignment, err := h.svc.AssignPhase(c.Request().Context(), id, params)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, assignment)
}
