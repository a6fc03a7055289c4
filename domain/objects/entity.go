package objects

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// DataObject is the canonical, layer-independent definition of a business
// entity. Projections (ModelObject) materialize it into specific model
// layers; the canonical row persists independent of any layer.
type DataObject struct {
	bun.BaseModel `bun:"table:dm.data_objects,alias:o"`

	ID             uuid.UUID  `bun:"id,pk,type:uuid,default:uuid_generate_v4()" json:"id"`
	Name           string     `bun:"name,notnull" json:"name"`
	Description    *string    `bun:"description" json:"description,omitempty"`
	ObjectType     *string    `bun:"object_type" json:"objectType,omitempty"`
	DomainID       *uuid.UUID `bun:"domain_id,type:uuid" json:"domainId,omitempty"`
	DataAreaID     *uuid.UUID `bun:"data_area_id,type:uuid" json:"dataAreaId,omitempty"`
	SourceSystemID *uuid.UUID `bun:"source_system_id,type:uuid" json:"sourceSystemId,omitempty"`
	TargetSystemID *uuid.UUID `bun:"target_system_id,type:uuid" json:"targetSystemId,omitempty"`
	// IsNew distinguishes user-authored objects from system-synced ones.
	IsNew     bool      `bun:"is_new,notnull,default:true" json:"isNew"`
	CreatedAt time.Time `bun:"created_at,notnull,default:now()" json:"createdAt"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:now()" json:"updatedAt"`

	// Populated only when requested
	Attributes []*Attribute `bun:"rel:has-many,join:id=object_id" json:"attributes,omitempty"`
}

// ModelObject is the per-(model, object) projection row: layer-specific
// placement, visibility, and overrides. ObjectID may be nil for purely
// UI-authored projections, in which case the projection's own fields are
// authoritative.
type ModelObject struct {
	bun.BaseModel `bun:"table:dm.model_objects,alias:mo"`

	ID       uuid.UUID  `bun:"id,pk,type:uuid,default:uuid_generate_v4()" json:"id"`
	ModelID  uuid.UUID  `bun:"model_id,type:uuid,notnull" json:"modelId"`
	ObjectID *uuid.UUID `bun:"object_id,type:uuid" json:"objectId,omitempty"`

	Name           *string    `bun:"name" json:"name,omitempty"`
	ObjectType     *string    `bun:"object_type" json:"objectType,omitempty"`
	DomainID       *uuid.UUID `bun:"domain_id,type:uuid" json:"domainId,omitempty"`
	DataAreaID     *uuid.UUID `bun:"data_area_id,type:uuid" json:"dataAreaId,omitempty"`
	TargetSystemID *uuid.UUID `bun:"target_system_id,type:uuid" json:"targetSystemId,omitempty"`

	// Position holds canvas coordinates keyed by layer name, so each layer
	// keeps its own placement of the same object.
	Position            map[string]any `bun:"position,type:jsonb,notnull,default:'{}'" json:"position"`
	IsVisible           bool           `bun:"is_visible,notnull,default:true" json:"isVisible"`
	LayerSpecificConfig map[string]any `bun:"layer_specific_config,type:jsonb,notnull,default:'{}'" json:"layerSpecificConfig"`

	CreatedAt time.Time `bun:"created_at,notnull,default:now()" json:"createdAt"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:now()" json:"updatedAt"`

	// Populated only when requested
	Object     *DataObject       `bun:"rel:belongs-to,join:object_id=id" json:"object,omitempty"`
	Attributes []*ModelAttribute `bun:"rel:has-many,join:id=model_object_id" json:"attributes,omitempty"`
}

// EffectiveName resolves the display name: the canonical object's name when
// linked, otherwise the projection's own.
func (mo *ModelObject) EffectiveName() string {
	if mo.Object != nil {
		return mo.Object.Name
	}
	if mo.Name != nil {
		return *mo.Name
	}
	return ""
}

// Attribute is the canonical attribute definition carrying the
// conceptual/logical/physical type triple, key flags, and ordering.
type Attribute struct {
	bun.BaseModel `bun:"table:dm.attributes,alias:a"`

	ID          uuid.UUID `bun:"id,pk,type:uuid,default:uuid_generate_v4()" json:"id"`
	ObjectID    uuid.UUID `bun:"object_id,type:uuid,notnull" json:"objectId"`
	Name        string    `bun:"name,notnull" json:"name"`
	Description *string   `bun:"description" json:"description,omitempty"`

	ConceptualType *string `bun:"conceptual_type" json:"conceptualType,omitempty"`
	LogicalType    *string `bun:"logical_type" json:"logicalType,omitempty"`
	PhysicalType   *string `bun:"physical_type" json:"physicalType,omitempty"`
	Length         *int    `bun:"length" json:"length,omitempty"`
	Precision      *int    `bun:"precision" json:"precision,omitempty"`
	Scale          *int    `bun:"scale" json:"scale,omitempty"`

	Nullable     bool `bun:"nullable,notnull,default:true" json:"nullable"`
	IsPrimaryKey bool `bun:"is_primary_key,notnull,default:false" json:"isPrimaryKey"`
	IsForeignKey bool `bun:"is_foreign_key,notnull,default:false" json:"isForeignKey"`
	OrderIndex   int  `bun:"order_index,notnull,default:0" json:"orderIndex"`

	CreatedAt time.Time `bun:"created_at,notnull,default:now()" json:"createdAt"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:now()" json:"updatedAt"`
}

// ModelAttribute is the per-layer attribute projection. AttributeID may be
// nil for an attribute local to one layer; any non-nil override field wins
// over the canonical value for that layer.
type ModelAttribute struct {
	bun.BaseModel `bun:"table:dm.model_attributes,alias:ma"`

	ID            uuid.UUID  `bun:"id,pk,type:uuid,default:uuid_generate_v4()" json:"id"`
	ModelObjectID uuid.UUID  `bun:"model_object_id,type:uuid,notnull" json:"modelObjectId"`
	ModelID       uuid.UUID  `bun:"model_id,type:uuid,notnull" json:"modelId"`
	AttributeID   *uuid.UUID `bun:"attribute_id,type:uuid" json:"attributeId,omitempty"`

	Name           *string `bun:"name" json:"name,omitempty"`
	ConceptualType *string `bun:"conceptual_type" json:"conceptualType,omitempty"`
	LogicalType    *string `bun:"logical_type" json:"logicalType,omitempty"`
	PhysicalType   *string `bun:"physical_type" json:"physicalType,omitempty"`
	Length         *int    `bun:"length" json:"length,omitempty"`
	Precision      *int    `bun:"precision" json:"precision,omitempty"`
	Scale          *int    `bun:"scale" json:"scale,omitempty"`

	Nullable     *bool `bun:"nullable" json:"nullable,omitempty"`
	IsPrimaryKey *bool `bun:"is_primary_key" json:"isPrimaryKey,omitempty"`
	IsForeignKey *bool `bun:"is_foreign_key" json:"isForeignKey,omitempty"`
	OrderIndex   *int  `bun:"order_index" json:"orderIndex,omitempty"`

	LayerSpecificConfig map[string]any `bun:"layer_specific_config,type:jsonb,notnull,default:'{}'" json:"layerSpecificConfig"`

	CreatedAt time.Time `bun:"created_at,notnull,default:now()" json:"createdAt"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:now()" json:"updatedAt"`

	// Populated only when requested
	Attribute *Attribute `bun:"rel:belongs-to,join:attribute_id=id" json:"attribute,omitempty"`
}

// EffectiveName resolves the attribute display name against the canonical
// row when linked.
func (ma *ModelAttribute) EffectiveName() string {
	if ma.Name != nil {
		return *ma.Name
	}
	if ma.Attribute != nil {
		return ma.Attribute.Name
	}
	return ""
}
