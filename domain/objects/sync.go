package objects

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/strata-studio/strata/domain/models"
	"github.com/strata-studio/strata/internal/database"
	"github.com/strata-studio/strata/pkg/apperror"
	"github.com/strata-studio/strata/pkg/logger"
)

// Service handles business logic for objects, attributes, and their
// cross-layer synchronization. Mutations against a model propagate to the
// sibling layers of its family inside one transaction.
type Service struct {
	repo   *Repository
	models *models.Repository
	db     bun.IDB
	log    *slog.Logger

	relSource RelationshipSource
}

// NewService creates a new objects service.
func NewService(repo *Repository, modelsRepo *models.Repository, db bun.IDB, log *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		models: modelsRepo,
		db:     db,
		log:    log.With(logger.Scope("objects.svc")),
	}
}

// resolveFamily loads the model table once and builds the family around
// modelID, using the repositories bound to tx.
func (s *Service) resolveFamily(ctx context.Context, tx bun.Tx, modelID uuid.UUID) (*models.ModelFamily, *models.DataModel, error) {
	mrepo := s.models.WithTx(tx)
	model, err := mrepo.GetByID(ctx, modelID)
	if err != nil {
		return nil, nil, err
	}
	all, err := mrepo.ListAll(ctx)
	if err != nil {
		return nil, nil, err
	}
	family, err := models.BuildFamily(all, model.ID)
	if err != nil {
		return nil, nil, err
	}
	return family, model, nil
}

// AttributeParams defines input for a canonical attribute.
type AttributeParams struct {
	Name           string  `json:"name"`
	Description    *string `json:"description"`
	ConceptualType *string `json:"conceptualType"`
	LogicalType    *string `json:"logicalType"`
	PhysicalType   *string `json:"physicalType"`
	Length         *int    `json:"length"`
	Precision      *int    `json:"precision"`
	Scale          *int    `json:"scale"`
	Nullable       *bool   `json:"nullable"`
	IsPrimaryKey   bool    `json:"isPrimaryKey"`
	IsForeignKey   bool    `json:"isForeignKey"`
	OrderIndex     *int    `json:"orderIndex"`
}

// CreateObjectParams defines input for creating a canonical object. When
// ModelID is set the object is also projected into that model and every
// sibling layer of its family.
type CreateObjectParams struct {
	Name           string            `json:"name"`
	Description    *string           `json:"description"`
	ObjectType     *string           `json:"objectType"`
	DomainID       *uuid.UUID        `json:"domainId"`
	DataAreaID     *uuid.UUID        `json:"dataAreaId"`
	SourceSystemID *uuid.UUID        `json:"sourceSystemId"`
	TargetSystemID *uuid.UUID        `json:"targetSystemId"`
	ModelID        *uuid.UUID        `json:"modelId"`
	Position       map[string]any    `json:"position"`
	Attributes     []AttributeParams `json:"attributes"`
}

// ListObjects returns canonical objects matching the filters.
func (s *Service) ListObjects(ctx context.Context, params ObjectListParams) ([]*DataObject, error) {
	return s.repo.ListObjects(ctx, params)
}

// GetObject returns a canonical object with attributes.
func (s *Service) GetObject(ctx context.Context, id uuid.UUID) (*DataObject, error) {
	return s.repo.GetObjectByID(ctx, id)
}

// CreateObject creates a canonical object, its attributes, and, when a
// model is given, projections in that model and every sibling layer.
func (s *Service) CreateObject(ctx context.Context, params CreateObjectParams) (*DataObject, error) {
	if strings.TrimSpace(params.Name) == "" {
		return nil, apperror.NewValidation("object name is required", nil)
	}

	obj := &DataObject{
		Name:           strings.TrimSpace(params.Name),
		Description:    params.Description,
		ObjectType:     params.ObjectType,
		DomainID:       params.DomainID,
		DataAreaID:     params.DataAreaID,
		SourceSystemID: params.SourceSystemID,
		TargetSystemID: params.TargetSystemID,
		IsNew:          true,
	}

	err := database.RunInTx(ctx, s.db, func(ctx context.Context, tx bun.Tx) error {
		repo := s.repo.WithTx(tx)
		if err := repo.CreateObject(ctx, obj); err != nil {
			return err
		}

		attrs, err := s.createAttributes(ctx, repo, obj.ID, params.Attributes)
		if err != nil {
			return err
		}
		obj.Attributes = attrs

		if params.ModelID == nil {
			return nil
		}

		family, model, err := s.resolveFamily(ctx, tx, *params.ModelID)
		if err != nil {
			return err
		}
		return s.projectIntoFamily(ctx, repo, family, model, obj, attrs, ProjectionOverrides{Position: params.Position})
	})
	if err != nil {
		return nil, err
	}
	return obj, nil
}

// createAttributes inserts canonical attributes with layer types derived
// downward from whatever the caller supplied.
func (s *Service) createAttributes(ctx context.Context, repo *Repository, objectID uuid.UUID, params []AttributeParams) ([]*Attribute, error) {
	attrs := make([]*Attribute, 0, len(params))
	for i, p := range params {
		if strings.TrimSpace(p.Name) == "" {
			return nil, apperror.NewValidation("attribute name is required", nil)
		}
		attr := s.buildAttribute(objectID, p)
		if attr.OrderIndex == 0 && p.OrderIndex == nil {
			attr.OrderIndex = i
		}
		if err := repo.CreateAttribute(ctx, attr); err != nil {
			return nil, err
		}
		attrs = append(attrs, attr)
	}
	return attrs, nil
}

func (s *Service) buildAttribute(objectID uuid.UUID, p AttributeParams) *Attribute {
	attr := &Attribute{
		ObjectID:       objectID,
		Name:           strings.TrimSpace(p.Name),
		Description:    p.Description,
		ConceptualType: p.ConceptualType,
		LogicalType:    p.LogicalType,
		PhysicalType:   p.PhysicalType,
		Length:         p.Length,
		Precision:      p.Precision,
		Scale:          p.Scale,
		Nullable:       true,
		IsPrimaryKey:   p.IsPrimaryKey,
		IsForeignKey:   p.IsForeignKey,
	}
	if p.Nullable != nil {
		attr.Nullable = *p.Nullable
	}
	if p.OrderIndex != nil {
		attr.OrderIndex = *p.OrderIndex
	}
	// Canonical rows carry the full type triple so every layer can render
	// without re-deriving.
	DeriveTypesForLayer(attr, models.LayerPhysical)
	return attr
}

// projectIntoFamily creates object and attribute projections in the origin
// model and every sibling layer. The caller's position lands on the origin
// layer only.
func (s *Service) projectIntoFamily(ctx context.Context, repo *Repository, family *models.ModelFamily, origin *models.DataModel, obj *DataObject, attrs []*Attribute, ov ProjectionOverrides) error {
	for _, layer := range models.Layers {
		m := family.ForLayer(layer)
		if m == nil {
			continue
		}
		layerOv := ProjectionOverrides{}
		if m.ID == origin.ID {
			layerOv = ov
		}
		mo := BuildObjectProjection(m, obj, layerOv)
		if err := repo.CreateProjection(ctx, mo); err != nil {
			return err
		}
		for _, attr := range attrs {
			if err := repo.CreateModelAttribute(ctx, BuildAttributeProjection(mo, attr)); err != nil {
				return err
			}
		}
	}
	return nil
}

// AddObjectToModel projects an existing canonical object into a model and
// every sibling layer of its family. Layers that already hold the object
// are left untouched.
func (s *Service) AddObjectToModel(ctx context.Context, modelID, objectID uuid.UUID, ov ProjectionOverrides) (*ModelObject, error) {
	var result *ModelObject
	err := database.RunInTx(ctx, s.db, func(ctx context.Context, tx bun.Tx) error {
		repo := s.repo.WithTx(tx)
		obj, err := repo.GetObjectByID(ctx, objectID)
		if err != nil {
			return err
		}
		family, origin, err := s.resolveFamily(ctx, tx, modelID)
		if err != nil {
			return err
		}

		for _, layer := range models.Layers {
			m := family.ForLayer(layer)
			if m == nil {
				continue
			}
			existing, err := repo.GetProjectionByObject(ctx, m.ID, obj.ID)
			if err != nil {
				return err
			}
			if existing != nil {
				if m.ID == origin.ID {
					result = existing
				}
				continue
			}
			layerOv := ProjectionOverrides{}
			if m.ID == origin.ID {
				layerOv = ov
			}
			mo := BuildObjectProjection(m, obj, layerOv)
			if err := repo.CreateProjection(ctx, mo); err != nil {
				return err
			}
			for _, attr := range obj.Attributes {
				if err := repo.CreateModelAttribute(ctx, BuildAttributeProjection(mo, attr)); err != nil {
					return err
				}
			}
			if m.ID == origin.ID {
				result = mo
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateObjectParams defines input for updating a canonical object.
type UpdateObjectParams struct {
	Name           *string    `json:"name"`
	Description    *string    `json:"description"`
	ObjectType     *string    `json:"objectType"`
	DomainID       *uuid.UUID `json:"domainId"`
	DataAreaID     *uuid.UUID `json:"dataAreaId"`
	SourceSystemID *uuid.UUID `json:"sourceSystemId"`
	TargetSystemID *uuid.UUID `json:"targetSystemId"`
	IsNew          *bool      `json:"isNew"`
}

// UpdateObject updates a canonical object. Projections pick the change up
// implicitly since they reference the canonical row.
func (s *Service) UpdateObject(ctx context.Context, id uuid.UUID, params UpdateObjectParams) (*DataObject, error) {
	obj, err := s.repo.GetObjectByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if params.Name != nil {
		if strings.TrimSpace(*params.Name) == "" {
			return nil, apperror.NewValidation("object name cannot be empty", nil)
		}
		obj.Name = strings.TrimSpace(*params.Name)
	}
	if params.Description != nil {
		obj.Description = params.Description
	}
	if params.ObjectType != nil {
		obj.ObjectType = params.ObjectType
	}
	if params.DomainID != nil {
		obj.DomainID = params.DomainID
	}
	if params.DataAreaID != nil {
		obj.DataAreaID = params.DataAreaID
	}
	if params.SourceSystemID != nil {
		obj.SourceSystemID = params.SourceSystemID
	}
	if params.TargetSystemID != nil {
		obj.TargetSystemID = params.TargetSystemID
	}
	if params.IsNew != nil {
		obj.IsNew = *params.IsNew
	}
	if err := s.repo.UpdateObject(ctx, obj); err != nil {
		return nil, err
	}
	return obj, nil
}

// DeleteObject removes a canonical object and everything hanging off it.
func (s *Service) DeleteObject(ctx context.Context, id uuid.UUID) error {
	return database.RunInTx(ctx, s.db, func(ctx context.Context, tx bun.Tx) error {
		return s.repo.WithTx(tx).DeleteObject(ctx, id)
	})
}

// ListProjections returns a model's object projections.
func (s *Service) ListProjections(ctx context.Context, modelID uuid.UUID) ([]*ModelObject, error) {
	if _, err := s.models.GetByID(ctx, modelID); err != nil {
		return nil, err
	}
	return s.repo.ListProjections(ctx, modelID)
}

// UpdateProjectionParams defines the layer-specific fields of an object
// projection.
type UpdateProjectionParams struct {
	Position  map[string]any `json:"position"`
	IsVisible *bool          `json:"isVisible"`
	Config    map[string]any `json:"layerSpecificConfig"`
	Name      *string        `json:"name"`
}

// UpdateProjection updates layer-specific placement and visibility. The
// incoming position replaces only the owning model's layer key; other
// layers' placements on the same row are preserved.
func (s *Service) UpdateProjection(ctx context.Context, id uuid.UUID, params UpdateProjectionParams) (*ModelObject, error) {
	var result *ModelObject
	err := database.RunInTx(ctx, s.db, func(ctx context.Context, tx bun.Tx) error {
		repo := s.repo.WithTx(tx)
		mo, err := repo.GetProjectionByID(ctx, id)
		if err != nil {
			return err
		}
		model, err := s.models.WithTx(tx).GetByID(ctx, mo.ModelID)
		if err != nil {
			return err
		}

		if params.Position != nil {
			if mo.Position == nil {
				mo.Position = map[string]any{}
			}
			mo.Position[model.Layer] = params.Position
		}
		if params.IsVisible != nil {
			mo.IsVisible = *params.IsVisible
		}
		if params.Config != nil {
			mo.LayerSpecificConfig = params.Config
		}
		if params.Name != nil {
			if mo.ObjectID != nil {
				return apperror.NewValidation("cannot rename a projection of a canonical object", nil)
			}
			mo.Name = params.Name
		}

		if err := repo.UpdateProjection(ctx, mo); err != nil {
			return err
		}
		result = mo
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RemoveObjectFromModel deletes an object projection. When the projection
// references a canonical object, its sibling projections across the family
// fall with it so the layers stay aligned. The canonical object survives.
func (s *Service) RemoveObjectFromModel(ctx context.Context, modelObjectID uuid.UUID) error {
	return database.RunInTx(ctx, s.db, func(ctx context.Context, tx bun.Tx) error {
		repo := s.repo.WithTx(tx)
		mo, err := repo.GetProjectionByID(ctx, modelObjectID)
		if err != nil {
			return err
		}

		if mo.ObjectID == nil {
			return repo.DeleteProjection(ctx, mo.ID)
		}

		family, _, err := s.resolveFamily(ctx, tx, mo.ModelID)
		if err != nil {
			return err
		}
		for _, layer := range models.Layers {
			m := family.ForLayer(layer)
			if m == nil {
				continue
			}
			sibling, err := repo.GetProjectionByObject(ctx, m.ID, *mo.ObjectID)
			if err != nil {
				return err
			}
			if sibling == nil {
				continue
			}
			if err := repo.DeleteProjection(ctx, sibling.ID); err != nil {
				return err
			}
		}
		return nil
	})
}

// CreateAttribute adds a canonical attribute and projects it into every
// model that holds the owning object. A family layer missing the object
// projection is logged and skipped; the attribute still lands everywhere
// the object actually exists.
func (s *Service) CreateAttribute(ctx context.Context, objectID uuid.UUID, params AttributeParams) (*Attribute, error) {
	if strings.TrimSpace(params.Name) == "" {
		return nil, apperror.NewValidation("attribute name is required", nil)
	}

	var attr *Attribute
	err := database.RunInTx(ctx, s.db, func(ctx context.Context, tx bun.Tx) error {
		repo := s.repo.WithTx(tx)
		obj, err := repo.GetObjectByID(ctx, objectID)
		if err != nil {
			return err
		}

		attr = s.buildAttribute(obj.ID, params)
		if params.OrderIndex == nil {
			attr.OrderIndex = len(obj.Attributes)
		}
		if err := repo.CreateAttribute(ctx, attr); err != nil {
			return err
		}

		return s.projectAttribute(ctx, tx, repo, obj.ID, attr)
	})
	if err != nil {
		return nil, err
	}
	return attr, nil
}

// projectAttribute creates attribute projections under every object
// projection of objectID, across all models.
func (s *Service) projectAttribute(ctx context.Context, tx bun.Tx, repo *Repository, objectID uuid.UUID, attr *Attribute) error {
	var projections []*ModelObject
	err := tx.NewSelect().
		Model(&projections).
		Where("mo.object_id = ?", objectID).
		Scan(ctx)
	if err != nil {
		return apperror.ErrDatabase.WithInternal(err)
	}
	if len(projections) == 0 {
		s.log.Warn("no projection target for attribute, canonical row kept",
			slog.String("objectId", objectID.String()),
			slog.String("attribute", attr.Name),
			logger.Error(apperror.ErrMissingProjectionTarget))
		return nil
	}
	for _, mo := range projections {
		existing, err := repo.GetModelAttributeByAttribute(ctx, mo.ID, attr.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}
		if err := repo.CreateModelAttribute(ctx, BuildAttributeProjection(mo, attr)); err != nil {
			return err
		}
	}
	return nil
}

// UpdateAttributeParams defines input for updating a canonical attribute.
type UpdateAttributeParams struct {
	Name           *string `json:"name"`
	Description    *string `json:"description"`
	ConceptualType *string `json:"conceptualType"`
	LogicalType    *string `json:"logicalType"`
	PhysicalType   *string `json:"physicalType"`
	Length         *int    `json:"length"`
	Precision      *int    `json:"precision"`
	Scale          *int    `json:"scale"`
	Nullable       *bool   `json:"nullable"`
	IsPrimaryKey   *bool   `json:"isPrimaryKey"`
	IsForeignKey   *bool   `json:"isForeignKey"`
	OrderIndex     *int    `json:"orderIndex"`
}

// UpdateAttribute updates a canonical attribute. Changing the logical type
// without an explicit physical type re-derives the physical type and its
// default length from the mapper.
func (s *Service) UpdateAttribute(ctx context.Context, id uuid.UUID, params UpdateAttributeParams) (*Attribute, error) {
	attr, err := s.repo.GetAttributeByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Name != nil {
		if strings.TrimSpace(*params.Name) == "" {
			return nil, apperror.NewValidation("attribute name cannot be empty", nil)
		}
		attr.Name = strings.TrimSpace(*params.Name)
	}
	if params.Description != nil {
		attr.Description = params.Description
	}
	if params.ConceptualType != nil {
		attr.ConceptualType = params.ConceptualType
	}
	if params.LogicalType != nil {
		attr.LogicalType = params.LogicalType
		if params.PhysicalType == nil {
			t := MapLogicalToPhysical(*params.LogicalType)
			attr.PhysicalType = &t
			if params.Length == nil {
				attr.Length = DefaultLength(t)
			}
		}
	}
	if params.PhysicalType != nil {
		attr.PhysicalType = params.PhysicalType
	}
	if params.Length != nil {
		attr.Length = params.Length
	}
	if params.Precision != nil {
		attr.Precision = params.Precision
	}
	if params.Scale != nil {
		attr.Scale = params.Scale
	}
	if params.Nullable != nil {
		attr.Nullable = *params.Nullable
	}
	if params.IsPrimaryKey != nil {
		attr.IsPrimaryKey = *params.IsPrimaryKey
	}
	if params.IsForeignKey != nil {
		attr.IsForeignKey = *params.IsForeignKey
	}
	if params.OrderIndex != nil {
		attr.OrderIndex = *params.OrderIndex
	}

	err = database.RunInTx(ctx, s.db, func(ctx context.Context, tx bun.Tx) error {
		repo := s.repo.WithTx(tx)
		if err := repo.UpdateAttribute(ctx, attr); err != nil {
			return err
		}
		// Missed projections can appear when an object joined a layer after
		// the attribute was created. Updating is the chance to heal them.
		return s.projectAttribute(ctx, tx, repo, attr.ObjectID, attr)
	})
	if err != nil {
		return nil, err
	}
	return attr, nil
}

// DeleteAttribute removes a canonical attribute everywhere.
func (s *Service) DeleteAttribute(ctx context.Context, id uuid.UUID) error {
	return database.RunInTx(ctx, s.db, func(ctx context.Context, tx bun.Tx) error {
		return s.repo.WithTx(tx).DeleteAttribute(ctx, id)
	})
}

// UpdateModelAttributeParams defines the per-layer override fields of an
// attribute projection. A nil field keeps deferring to the canonical value.
type UpdateModelAttributeParams struct {
	Name           *string        `json:"name"`
	ConceptualType *string        `json:"conceptualType"`
	LogicalType    *string        `json:"logicalType"`
	PhysicalType   *string        `json:"physicalType"`
	Length         *int           `json:"length"`
	Precision      *int           `json:"precision"`
	Scale          *int           `json:"scale"`
	Nullable       *bool          `json:"nullable"`
	IsPrimaryKey   *bool          `json:"isPrimaryKey"`
	IsForeignKey   *bool          `json:"isForeignKey"`
	OrderIndex     *int           `json:"orderIndex"`
	Config         map[string]any `json:"layerSpecificConfig"`
}

// UpdateModelAttribute sets per-layer overrides on an attribute projection.
// An override on the logical type without an explicit physical override
// re-derives the physical override the same way the canonical path does.
func (s *Service) UpdateModelAttribute(ctx context.Context, id uuid.UUID, params UpdateModelAttributeParams) (*ModelAttribute, error) {
	ma, err := s.repo.GetModelAttributeByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Name != nil {
		ma.Name = params.Name
	}
	if params.ConceptualType != nil {
		ma.ConceptualType = params.ConceptualType
	}
	if params.LogicalType != nil {
		ma.LogicalType = params.LogicalType
		if params.PhysicalType == nil {
			t := MapLogicalToPhysical(*params.LogicalType)
			ma.PhysicalType = &t
			if params.Length == nil {
				ma.Length = DefaultLength(t)
			}
		}
	}
	if params.PhysicalType != nil {
		ma.PhysicalType = params.PhysicalType
	}
	if params.Length != nil {
		ma.Length = params.Length
	}
	if params.Precision != nil {
		ma.Precision = params.Precision
	}
	if params.Scale != nil {
		ma.Scale = params.Scale
	}
	if params.Nullable != nil {
		ma.Nullable = params.Nullable
	}
	if params.IsPrimaryKey != nil {
		ma.IsPrimaryKey = params.IsPrimaryKey
	}
	if params.IsForeignKey != nil {
		ma.IsForeignKey = params.IsForeignKey
	}
	if params.OrderIndex != nil {
		ma.OrderIndex = params.OrderIndex
	}
	if params.Config != nil {
		ma.LayerSpecificConfig = params.Config
	}

	if err := s.repo.UpdateModelAttribute(ctx, ma); err != nil {
		return nil, err
	}
	return ma, nil
}

// RemoveModelAttribute deletes an attribute projection from one layer only.
func (s *Service) RemoveModelAttribute(ctx context.Context, id uuid.UUID) error {
	return database.RunInTx(ctx, s.db, func(ctx context.Context, tx bun.Tx) error {
		return s.repo.WithTx(tx).DeleteModelAttribute(ctx, id)
	})
}

// GenerateNextLayer creates the next-layer model of a family and populates
// it with projections of everything the source layer holds, deriving types
// for the new layer. Physical models have no next layer.
func (s *Service) GenerateNextLayer(ctx context.Context, modelID uuid.UUID) (*models.DataModel, error) {
	var created *models.DataModel
	err := database.RunInTx(ctx, s.db, func(ctx context.Context, tx bun.Tx) error {
		repo := s.repo.WithTx(tx)
		mrepo := s.models.WithTx(tx)

		family, source, err := s.resolveFamily(ctx, tx, modelID)
		if err != nil {
			return err
		}
		next := models.NextLayer(source.Layer)
		if next == "" {
			return apperror.NewValidation("physical models have no next layer", nil)
		}
		if family.ForLayer(next) != nil {
			return apperror.NewConflict("family already has a " + next + " model")
		}

		rootID := family.Conceptual.ID
		created = &models.DataModel{
			Name:           family.Conceptual.Name,
			Layer:          next,
			ParentModelID:  &rootID,
			TargetSystemID: source.TargetSystemID,
			DomainID:       source.DomainID,
			DataAreaID:     source.DataAreaID,
		}
		if err := mrepo.Create(ctx, created); err != nil {
			return err
		}

		sourceProjections, err := repo.ListProjections(ctx, source.ID)
		if err != nil {
			return err
		}
		for _, src := range sourceProjections {
			if _, err := s.copyProjectionToLayer(ctx, repo, src, created.ID, source.Layer, next, nil); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// copyProjectionToLayer copies one projection and its attributes into a
// sibling-layer model, deriving attribute types for the target layer.
// Canonical attributes re-link to the same canonical row; layer-local ones
// are copied outright. config, when non-nil, becomes the new projection's
// layer-specific config.
func (s *Service) copyProjectionToLayer(ctx context.Context, repo *Repository, src *ModelObject, targetModelID uuid.UUID, sourceLayer, targetLayer string, config map[string]any) (*ModelObject, error) {
	if config == nil {
		config = map[string]any{}
	}
	mo := &ModelObject{
		ModelID:             targetModelID,
		ObjectID:            src.ObjectID,
		Name:                src.Name,
		ObjectType:          src.ObjectType,
		DomainID:            src.DomainID,
		DataAreaID:          src.DataAreaID,
		TargetSystemID:      src.TargetSystemID,
		Position:            map[string]any{},
		IsVisible:           src.IsVisible,
		LayerSpecificConfig: config,
	}
	// Carry the source layer's placement over as the starting placement
	// of the new layer.
	if pos, ok := src.Position[sourceLayer]; ok {
		mo.Position[targetLayer] = pos
	}
	if err := repo.CreateProjection(ctx, mo); err != nil {
		return nil, err
	}

	for _, srcMA := range src.Attributes {
		if srcMA.AttributeID != nil {
			if err := repo.CreateModelAttribute(ctx, &ModelAttribute{
				ModelObjectID: mo.ID,
				ModelID:       targetModelID,
				AttributeID:   srcMA.AttributeID,
			}); err != nil {
				return nil, err
			}
			if srcMA.Attribute != nil {
				derived := *srcMA.Attribute
				DeriveTypesForLayer(&derived, targetLayer)
				if derived.LogicalType != srcMA.Attribute.LogicalType ||
					derived.PhysicalType != srcMA.Attribute.PhysicalType ||
					derived.Length != srcMA.Attribute.Length {
					if err := repo.UpdateAttribute(ctx, &derived); err != nil {
						return nil, err
					}
				}
			}
			continue
		}
		// Layer-local attribute: copy it into the new layer with types
		// derived there.
		local := &ModelAttribute{
			ModelObjectID:       mo.ID,
			ModelID:             targetModelID,
			Name:                srcMA.Name,
			ConceptualType:      srcMA.ConceptualType,
			LogicalType:         srcMA.LogicalType,
			PhysicalType:        srcMA.PhysicalType,
			Length:              srcMA.Length,
			Precision:           srcMA.Precision,
			Scale:               srcMA.Scale,
			Nullable:            srcMA.Nullable,
			IsPrimaryKey:        srcMA.IsPrimaryKey,
			IsForeignKey:        srcMA.IsForeignKey,
			OrderIndex:          srcMA.OrderIndex,
			LayerSpecificConfig: map[string]any{},
		}
		if targetLayer == models.LayerPhysical && local.PhysicalType == nil && local.LogicalType != nil {
			t := MapLogicalToPhysical(*local.LogicalType)
			local.PhysicalType = &t
			if local.Length == nil {
				local.Length = DefaultLength(t)
			}
		}
		if err := repo.CreateModelAttribute(ctx, local); err != nil {
			return nil, err
		}
	}
	return mo, nil
}

// ProjectObjectToNextLayer projects a single object from its projection in
// modelID into the family's next-layer sibling, translating attribute
// types one layer down. The sibling model must already exist.
func (s *Service) ProjectObjectToNextLayer(ctx context.Context, objectID, modelID uuid.UUID, config map[string]any) (*ModelObject, error) {
	var created *ModelObject
	err := database.RunInTx(ctx, s.db, func(ctx context.Context, tx bun.Tx) error {
		repo := s.repo.WithTx(tx)

		family, source, err := s.resolveFamily(ctx, tx, modelID)
		if err != nil {
			return err
		}
		next := models.NextLayer(source.Layer)
		if next == "" {
			return apperror.NewValidation("physical models have no next layer", nil)
		}
		target := family.ForLayer(next)
		if target == nil {
			return apperror.NewBadRequest("family has no " + next + " model")
		}

		existing, err := repo.GetProjectionByObject(ctx, target.ID, objectID)
		if err != nil {
			return err
		}
		if existing != nil {
			return apperror.NewConflict("object already present in the " + next + " model")
		}

		sourceProjections, err := repo.ListProjections(ctx, source.ID)
		if err != nil {
			return err
		}
		var src *ModelObject
		for _, mo := range sourceProjections {
			if mo.ObjectID != nil && *mo.ObjectID == objectID {
				src = mo
				break
			}
		}
		if src == nil {
			return apperror.NewNotFound("model object", objectID.String())
		}

		created, err = s.copyProjectionToLayer(ctx, repo, src, target.ID, source.Layer, next, config)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// SeedTemplate instantiates a template pack into every layer of a fresh
// family. Implements the models package's template seeding hook.
func (s *Service) SeedTemplate(ctx context.Context, tx bun.Tx, family *models.ModelFamily, pack *models.TemplatePack) error {
	repo := s.repo.WithTx(tx)
	for i, to := range pack.Objects {
		objType := to.Type
		obj := &DataObject{
			Name:           to.Name,
			TargetSystemID: family.Conceptual.TargetSystemID,
			DomainID:       family.Conceptual.DomainID,
			DataAreaID:     family.Conceptual.DataAreaID,
			IsNew:          false,
		}
		if objType != "" {
			obj.ObjectType = &objType
		}
		if err := repo.CreateObject(ctx, obj); err != nil {
			return err
		}

		attrs := make([]*Attribute, 0, len(to.Attributes))
		for j, ta := range to.Attributes {
			attr := &Attribute{
				ObjectID:     obj.ID,
				Name:         ta.Name,
				Length:       ta.Length,
				Nullable:     true,
				IsPrimaryKey: ta.IsPrimaryKey,
				IsForeignKey: ta.IsForeignKey,
				OrderIndex:   j,
			}
			if ta.ConceptualType != "" {
				t := ta.ConceptualType
				attr.ConceptualType = &t
			}
			if ta.LogicalType != "" {
				t := ta.LogicalType
				attr.LogicalType = &t
			}
			if ta.PhysicalType != "" {
				t := ta.PhysicalType
				attr.PhysicalType = &t
			}
			if ta.Nullable != nil {
				attr.Nullable = *ta.Nullable
			}
			DeriveTypesForLayer(attr, models.LayerPhysical)
			if err := repo.CreateAttribute(ctx, attr); err != nil {
				return err
			}
			attrs = append(attrs, attr)
		}

		// Seeded objects get a simple grid placement per layer.
		pos := map[string]any{"x": 80 + (i%4)*260, "y": 80 + (i/4)*200}
		if err := s.projectIntoFamily(ctx, repo, family, family.Conceptual, obj, attrs, ProjectionOverrides{Position: pos}); err != nil {
			return err
		}
	}
	return nil
}
