package objects

import (
	"github.com/google/uuid"

	"github.com/strata-studio/strata/domain/models"
)

// ProjectionOverrides carries the caller-supplied layer-specific settings
// for a new projection.
type ProjectionOverrides struct {
	Position  map[string]any
	IsVisible *bool
	Config    map[string]any
}

// BuildObjectProjection constructs the per-layer model object row for a
// canonical object. The canonical reference stays authoritative for
// name/type/domain; only layer-specific placement and config live on the
// projection.
func BuildObjectProjection(model *models.DataModel, obj *DataObject, ov ProjectionOverrides) *ModelObject {
	mo := &ModelObject{
		ModelID:             model.ID,
		ObjectID:            &obj.ID,
		TargetSystemID:      model.TargetSystemID,
		Position:            map[string]any{},
		IsVisible:           true,
		LayerSpecificConfig: map[string]any{},
	}

	if ov.Position != nil {
		// Positions are keyed by layer so each layer keeps its own placement.
		mo.Position = map[string]any{model.Layer: ov.Position}
	}
	if ov.IsVisible != nil {
		mo.IsVisible = *ov.IsVisible
	}
	if ov.Config != nil {
		mo.LayerSpecificConfig = ov.Config
	}

	return mo
}

// BuildStandaloneProjection constructs a projection with no canonical
// reference. The projection's own fields are authoritative.
func BuildStandaloneProjection(model *models.DataModel, name string, objectType *string, domainID, areaID *uuid.UUID, ov ProjectionOverrides) *ModelObject {
	mo := &ModelObject{
		ModelID:             model.ID,
		Name:                &name,
		ObjectType:          objectType,
		DomainID:            domainID,
		DataAreaID:          areaID,
		TargetSystemID:      model.TargetSystemID,
		Position:            map[string]any{},
		IsVisible:           true,
		LayerSpecificConfig: map[string]any{},
	}
	if ov.Position != nil {
		mo.Position = map[string]any{model.Layer: ov.Position}
	}
	if ov.IsVisible != nil {
		mo.IsVisible = *ov.IsVisible
	}
	if ov.Config != nil {
		mo.LayerSpecificConfig = ov.Config
	}
	return mo
}

// BuildAttributeProjection constructs the model attribute row linking a
// canonical attribute into a projection. Canonical values are not copied;
// override fields stay nil until the layer actually diverges.
func BuildAttributeProjection(mo *ModelObject, attr *Attribute) *ModelAttribute {
	return &ModelAttribute{
		ModelObjectID:       mo.ID,
		ModelID:             mo.ModelID,
		AttributeID:         &attr.ID,
		LayerSpecificConfig: map[string]any{},
	}
}

// DeriveTypesForLayer fills the attribute's per-layer types downward from
// whatever is present: conceptual derives logical, logical derives
// physical. Existing values are kept; the mapper only fills gaps.
func DeriveTypesForLayer(attr *Attribute, layer string) {
	switch layer {
	case models.LayerLogical, models.LayerPhysical:
		if attr.LogicalType == nil && attr.ConceptualType != nil {
			t := MapConceptualToLogical(*attr.ConceptualType)
			attr.LogicalType = &t
		}
		if layer == models.LayerPhysical && attr.PhysicalType == nil && attr.LogicalType != nil {
			t := MapLogicalToPhysical(*attr.LogicalType)
			attr.PhysicalType = &t
			if attr.Length == nil {
				attr.Length = DefaultLength(t)
			}
		}
	}
}

// EffectiveType resolves the attribute type shown at a layer, preferring
// the projection override, then the canonical value for that layer.
func EffectiveType(ma *ModelAttribute, layer string) *string {
	switch layer {
	case models.LayerConceptual:
		if ma.ConceptualType != nil {
			return ma.ConceptualType
		}
		if ma.Attribute != nil {
			return ma.Attribute.ConceptualType
		}
	case models.LayerLogical:
		if ma.LogicalType != nil {
			return ma.LogicalType
		}
		if ma.Attribute != nil {
			return ma.Attribute.LogicalType
		}
	case models.LayerPhysical:
		if ma.PhysicalType != nil {
			return ma.PhysicalType
		}
		if ma.Attribute != nil {
			return ma.Attribute.PhysicalType
		}
	}
	return nil
}
