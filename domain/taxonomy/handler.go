package taxonomy

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/strata-studio/strata/pkg/apperror"
)

// Handler handles HTTP requests for the domain/area taxonomy.
type Handler struct {
	svc *Service
}

// NewHandler creates a new taxonomy handler.
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

// ListDomains returns all domains with areas.
// GET /api/domains
func (h *Handler) ListDomains(c echo.Context) error {
	domains, err := h.svc.ListDomains(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, domains)
}

// GetDomain returns a single domain.
// GET /api/domains/:id
func (h *Handler) GetDomain(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	domain, err := h.svc.GetDomain(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, domain)
}

// CreateDomain creates a domain.
// POST /api/domains
func (h *Handler) CreateDomain(c echo.Context) error {
	var params DomainParams
	if err := c.Bind(&params); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}
	domain, err := h.svc.CreateDomain(c.Request().Context(), params)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, domain)
}

// UpdateDomain updates a domain.
// PUT /api/domains/:id
func (h *Handler) UpdateDomain(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	var params DomainParams
	if err := c.Bind(&params); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}
	domain, err := h.svc.UpdateDomain(c.Request().Context(), id, params)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, domain)
}

// DeleteDomain removes a domain.
// DELETE /api/domains/:id
func (h *Handler) DeleteDomain(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.DeleteDomain(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ListDomainAreas returns the areas of one domain.
// GET /api/domains/:id/areas
func (h *Handler) ListDomainAreas(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	areas, err := h.svc.ListAreas(c.Request().Context(), &id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, areas)
}

// ListAreas returns all areas, optionally filtered by domainId.
// GET /api/areas
func (h *Handler) ListAreas(c echo.Context) error {
	var domainID *uuid.UUID
	if v := c.QueryParam("domainId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return apperror.NewBadRequest("invalid domainId")
		}
		domainID = &id
	}
	areas, err := h.svc.ListAreas(c.Request().Context(), domainID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, areas)
}

// GetArea returns a single area.
// GET /api/areas/:id
func (h *Handler) GetArea(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	area, err := h.svc.GetArea(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, area)
}

// CreateArea creates an area.
// POST /api/areas
func (h *Handler) CreateArea(c echo.Context) error {
	var params AreaParams
	if err := c.Bind(&params); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}
	area, err := h.svc.CreateArea(c.Request().Context(), params)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, area)
}

// UpdateArea updates an area.
// PUT /api/areas/:id
func (h *Handler) UpdateArea(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	var params AreaParams
	if err := c.Bind(&params); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}
	area, err := h.svc.UpdateArea(c.Request().Context(), id, params)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, area)
}

// DeleteArea removes an area.
// DELETE /api/areas/:id
func (h *Handler) DeleteArea(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.DeleteArea(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
