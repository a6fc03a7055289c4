package objects

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/strata-studio/strata/pkg/apperror"
)

// Handler handles HTTP requests for objects, attributes, and projections.
type Handler struct {
	svc *Service
}

// NewHandler creates a new objects handler.
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

func queryUUID(c echo.Context, name string) (*uuid.UUID, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, apperror.NewBadRequest("invalid " + name)
	}
	return &id, nil
}

func listParamsFromQuery(c echo.Context) (ObjectListParams, error) {
	params := ObjectListParams{}
	var err error
	if params.DomainID, err = queryUUID(c, "domainId"); err != nil {
		return params, err
	}
	if params.DataAreaID, err = queryUUID(c, "areaId"); err != nil {
		return params, err
	}
	if params.DataAreaID == nil {
		if params.DataAreaID, err = queryUUID(c, "dataAreaId"); err != nil {
			return params, err
		}
	}
	if params.SystemID, err = queryUUID(c, "systemId"); err != nil {
		return params, err
	}
	if t := c.QueryParam("type"); t != "" {
		params.ObjectType = &t
	}
	if raw := c.QueryParam("isNew"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return params, apperror.NewBadRequest("invalid isNew")
		}
		params.IsNew = &v
	}
	if q := c.QueryParam("q"); q != "" {
		params.Search = &q
	} else if q := c.QueryParam("search"); q != "" {
		params.Search = &q
	}
	params.SortBy = c.QueryParam("sortBy")
	params.SortDesc = strings.EqualFold(c.QueryParam("sortDir"), "desc")
	return params, nil
}

// List returns canonical objects matching the query filters.
// GET /api/objects
func (h *Handler) List(c echo.Context) error {
	params, err := listParamsFromQuery(c)
	if err != nil {
		return err
	}
	objs, err := h.svc.ListObjects(c.Request().Context(), params)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, objs)
}

// Lake returns the object lake view with projections, relationships, and
// usage counts.
// GET /api/object-lake
func (h *Handler) Lake(c echo.Context) error {
	base, err := listParamsFromQuery(c)
	if err != nil {
		return err
	}
	params := LakeParams{ObjectListParams: base}
	if params.ModelID, err = queryUUID(c, "modelId"); err != nil {
		return err
	}
	if layer := c.QueryParam("layer"); layer != "" {
		params.Layer = &layer
	}
	if raw := c.QueryParam("hasAttributes"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return apperror.NewBadRequest("invalid hasAttributes")
		}
		params.HasAttributes = &v
	}
	if t := c.QueryParam("relationshipType"); t != "" {
		params.RelationshipType = &t
	}
	if raw := c.QueryParam("limit"); raw != "" {
		if params.Limit, err = strconv.Atoi(raw); err != nil || params.Limit < 0 {
			return apperror.NewBadRequest("invalid limit")
		}
	}
	if raw := c.QueryParam("offset"); raw != "" {
		if params.Offset, err = strconv.Atoi(raw); err != nil || params.Offset < 0 {
			return apperror.NewBadRequest("invalid offset")
		}
	}
	result, err := h.svc.ObjectLake(c.Request().Context(), params)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// Get returns a canonical object with attributes.
// GET /api/objects/:id
func (h *Handler) Get(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	obj, err := h.svc.GetObject(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, obj)
}

// Create creates a canonical object, optionally projecting it into a model
// family.
// POST /api/objects
func (h *Handler) Create(c echo.Context) error {
	var params CreateObjectParams
	if err := c.Bind(&params); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}
	obj, err := h.svc.CreateObject(c.Request().Context(), params)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, obj)
}

// Update updates a canonical object.
// PUT /api/objects/:id
func (h *Handler) Update(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	var params UpdateObjectParams
	if err := c.Bind(&params); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}
	obj, err := h.svc.UpdateObject(c.Request().Context(), id, params)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, obj)
}

// Delete removes a canonical object and all its projections.
// DELETE /api/objects/:id
func (h *Handler) Delete(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.DeleteObject(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// CreateAttribute adds a canonical attribute and projects it everywhere the
// object appears.
// POST /api/objects/:id/attributes
func (h *Handler) CreateAttribute(c echo.Context) error {
	objectID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	var params AttributeParams
	if err := c.Bind(&params); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}
	attr, err := h.svc.CreateAttribute(c.Request().Context(), objectID, params)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, attr)
}

// UpdateAttribute updates a canonical attribute.
// PUT /api/attributes/:id
func (h *Handler) UpdateAttribute(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	var params UpdateAttributeParams
	if err := c.Bind(&params); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}
	attr, err := h.svc.UpdateAttribute(c.Request().Context(), id, params)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, attr)
}

// DeleteAttribute removes a canonical attribute everywhere.
// DELETE /api/attributes/:id
func (h *Handler) DeleteAttribute(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.DeleteAttribute(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ListModelObjects returns a model's object projections.
// GET /api/models/:id/objects
func (h *Handler) ListModelObjects(c echo.Context) error {
	modelID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	projections, err := h.svc.ListProjections(c.Request().Context(), modelID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, projections)
}

type addObjectParams struct {
	ObjectID  uuid.UUID      `json:"objectId"`
	Position  map[string]any `json:"position"`
	IsVisible *bool          `json:"isVisible"`
}

// AddObjectToModel projects an existing canonical object into a model
// family.
// POST /api/models/:id/objects
func (h *Handler) AddObjectToModel(c echo.Context) error {
	modelID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	var params addObjectParams
	if err := c.Bind(&params); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}
	if params.ObjectID == uuid.Nil {
		return apperror.NewValidation("objectId is required", nil)
	}
	mo, err := h.svc.AddObjectToModel(c.Request().Context(), modelID, params.ObjectID, ProjectionOverrides{
		Position:  params.Position,
		IsVisible: params.IsVisible,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, mo)
}

// UpdateModelObject updates a projection's layer-specific fields.
// PUT /api/model-objects/:id
func (h *Handler) UpdateModelObject(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	var params UpdateProjectionParams
	if err := c.Bind(&params); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}
	mo, err := h.svc.UpdateProjection(c.Request().Context(), id, params)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, mo)
}

// DeleteModelObject removes an object from a model family. Canonical rows
// survive.
// DELETE /api/model-objects/:id
func (h *Handler) DeleteModelObject(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.RemoveObjectFromModel(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// UpdateModelAttribute sets per-layer overrides on an attribute projection.
// PUT /api/model-attributes/:id
func (h *Handler) UpdateModelAttribute(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	var params UpdateModelAttributeParams
	if err := c.Bind(&params); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}
	ma, err := h.svc.UpdateModelAttribute(c.Request().Context(), id, params)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ma)
}

// DeleteModelAttribute removes an attribute projection from one layer.
// DELETE /api/model-attributes/:id
func (h *Handler) DeleteModelAttribute(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.RemoveModelAttribute(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// GenerateNextLayer derives the next model layer with all projections.
// POST /api/models/:id/generate-next-layer
func (h *Handler) GenerateNextLayer(c echo.Context) error {
	modelID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	model, err := h.svc.GenerateNextLayer(c.Request().Context(), modelID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, model)
}

// ProjectToNextLayer projects one object into the family's next layer.
// POST /api/objects/:id/generate-next-layer
func (h *Handler) ProjectToNextLayer(c echo.Context) error {
	objectID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	var body struct {
		ModelID uuid.UUID      `json:"modelId"`
		Config  map[string]any `json:"config"`
	}
	if err := c.Bind(&body); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}
	if body.ModelID == uuid.Nil {
		return apperror.NewValidation("modelId is required", nil)
	}
	mo, err := h.svc.ProjectObjectToNextLayer(c.Request().Context(), objectID, body.ModelID, body.Config)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, mo)
}
