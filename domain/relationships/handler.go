package relationships

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/strata-studio/strata/pkg/apperror"
)

// Handler handles HTTP requests for relationships and model canvases.
type Handler struct {
	svc *Service
}

// NewHandler creates a new relationships handler.
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

// List returns relationships. With a modelId query it returns that model's
// rows, filtered for its layer; without one it returns the canonical rows.
// GET /api/relationships?modelId=&layer=
func (h *Handler) List(c echo.Context) error {
	ctx := c.Request().Context()
	if raw := c.QueryParam("modelId"); raw != "" {
		modelID, err := uuid.Parse(raw)
		if err != nil {
			return apperror.NewBadRequest("invalid modelId")
		}
		rels, err := h.svc.ListByModel(ctx, modelID)
		if err != nil {
			return err
		}
		if layer := c.QueryParam("layer"); layer != "" {
			rels = FilterForLayer(rels, layer)
		}
		return c.JSON(http.StatusOK, rels)
	}
	rels, err := h.svc.ListGlobal(ctx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rels)
}

// DeleteGlobal removes a canonical relationship from every canvas.
// DELETE /api/global-relationships/:id
func (h *Handler) DeleteGlobal(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.DeleteGlobal(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Declare creates a relationship on a model's canvas.
// POST /api/relationships
func (h *Handler) Declare(c echo.Context) error {
	var params DeclareParams
	if err := c.Bind(&params); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}
	if params.ModelID == uuid.Nil {
		return apperror.NewValidation("modelId is required", nil)
	}
	rel, err := h.svc.Declare(c.Request().Context(), params.ModelID, params)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, rel)
}

// Update updates a relationship through one of its model rows.
// PUT /api/relationships/:id
func (h *Handler) Update(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	var params UpdateParams
	if err := c.Bind(&params); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}
	rel, err := h.svc.Update(c.Request().Context(), id, params)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rel)
}

// Delete removes a model-local relationship row. With pruneGlobal=true the
// canonical row is removed too, once nothing references it.
// DELETE /api/relationships/:id?pruneGlobal=
func (h *Handler) Delete(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	prune := c.QueryParam("pruneGlobal") == "true"
	if err := h.svc.Delete(c.Request().Context(), id, prune); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Canvas returns a model's diagram payload: nodes and layer-filtered
// edges. The layer query overrides the model's own layer for the edge
// filter.
// GET /api/models/:id/canvas?layer=
func (h *Handler) Canvas(c echo.Context) error {
	modelID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	canvas, err := h.svc.BuildCanvas(c.Request().Context(), modelID, c.QueryParam("layer"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, canvas)
}
