package relationships

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/strata-studio/strata/domain/objects"
)

// GlobalRelationship is the canonical, layer-independent relationship
// between two data objects. One global row backs every model-local edge
// displaying it; the dedup key (BuildKey) keeps it unique.
type GlobalRelationship struct {
	bun.BaseModel `bun:"table:dm.global_relationships,alias:gr"`

	ID             uuid.UUID `bun:"id,pk,type:uuid,default:uuid_generate_v4()" json:"id"`
	SourceObjectID uuid.UUID `bun:"source_object_id,type:uuid,notnull" json:"sourceObjectId"`
	TargetObjectID uuid.UUID `bun:"target_object_id,type:uuid,notnull" json:"targetObjectId"`

	Type              string     `bun:"type,notnull" json:"type"`
	RelationshipLevel string     `bun:"relationship_level,notnull" json:"relationshipLevel"`
	SourceAttributeID *uuid.UUID `bun:"source_attribute_id,type:uuid" json:"sourceAttributeId,omitempty"`
	TargetAttributeID *uuid.UUID `bun:"target_attribute_id,type:uuid" json:"targetAttributeId,omitempty"`

	Name        *string `bun:"name" json:"name,omitempty"`
	Description *string `bun:"description" json:"description,omitempty"`

	CreatedAt time.Time `bun:"created_at,notnull,default:now()" json:"createdAt"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:now()" json:"updatedAt"`

	// Populated only when requested
	SourceObject *objects.DataObject `bun:"rel:belongs-to,join:source_object_id=id" json:"sourceObject,omitempty"`
	TargetObject *objects.DataObject `bun:"rel:belongs-to,join:target_object_id=id" json:"targetObject,omitempty"`
}

// Key returns the canonical dedup key of the relationship.
func (gr *GlobalRelationship) Key() Key {
	return BuildKey(gr.SourceObjectID, gr.TargetObjectID, gr.RelationshipLevel, gr.SourceAttributeID, gr.TargetAttributeID)
}

// ModelRelationship is the model-local display row of a relationship: which
// projections it connects on one model's canvas. It references the global
// row it renders; the global row survives model deletion.
type ModelRelationship struct {
	bun.BaseModel `bun:"table:dm.model_relationships,alias:mr"`

	ID                  uuid.UUID `bun:"id,pk,type:uuid,default:uuid_generate_v4()" json:"id"`
	ModelID             uuid.UUID `bun:"model_id,type:uuid,notnull" json:"modelId"`
	SourceModelObjectID uuid.UUID `bun:"source_model_object_id,type:uuid,notnull" json:"sourceModelObjectId"`
	TargetModelObjectID uuid.UUID `bun:"target_model_object_id,type:uuid,notnull" json:"targetModelObjectId"`

	Type              string     `bun:"type,notnull" json:"type"`
	RelationshipLevel string     `bun:"relationship_level,notnull" json:"relationshipLevel"`
	SourceAttributeID *uuid.UUID `bun:"source_attribute_id,type:uuid" json:"sourceAttributeId,omitempty"`
	TargetAttributeID *uuid.UUID `bun:"target_attribute_id,type:uuid" json:"targetAttributeId,omitempty"`

	GlobalRelationshipID *uuid.UUID `bun:"global_relationship_id,type:uuid" json:"globalRelationshipId,omitempty"`

	CreatedAt time.Time `bun:"created_at,notnull,default:now()" json:"createdAt"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:now()" json:"updatedAt"`

	// Populated only when requested
	Global       *GlobalRelationship  `bun:"rel:belongs-to,join:global_relationship_id=id" json:"global,omitempty"`
	SourceObject *objects.ModelObject `bun:"rel:belongs-to,join:source_model_object_id=id" json:"sourceObject,omitempty"`
	TargetObject *objects.ModelObject `bun:"rel:belongs-to,join:target_model_object_id=id" json:"targetObject,omitempty"`
}
