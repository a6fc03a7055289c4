package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Model layers, in increasing implementation concreteness.
const (
	LayerConceptual = "conceptual"
	LayerLogical    = "logical"
	LayerPhysical   = "physical"
)

// Layers lists all layers in derivation order.
var Layers = []string{LayerConceptual, LayerLogical, LayerPhysical}

// IsValidLayer reports whether layer names a known model layer.
func IsValidLayer(layer string) bool {
	return layer == LayerConceptual || layer == LayerLogical || layer == LayerPhysical
}

// NextLayer returns the layer derived from the given one, or "" for physical.
func NextLayer(layer string) string {
	switch layer {
	case LayerConceptual:
		return LayerLogical
	case LayerLogical:
		return LayerPhysical
	default:
		return ""
	}
}

// DataModel represents one layer of a model family. Conceptual models have
// no parent; logical and physical models point at their conceptual root via
// ParentModelID.
type DataModel struct {
	bun.BaseModel `bun:"table:dm.data_models,alias:m"`

	ID             uuid.UUID  `bun:"id,pk,type:uuid,default:uuid_generate_v4()" json:"id"`
	Name           string     `bun:"name,notnull" json:"name"`
	Layer          string     `bun:"layer,notnull" json:"layer"`
	ParentModelID  *uuid.UUID `bun:"parent_model_id,type:uuid" json:"parentModelId,omitempty"`
	TargetSystemID *uuid.UUID `bun:"target_system_id,type:uuid" json:"targetSystemId,omitempty"`
	DomainID       *uuid.UUID `bun:"domain_id,type:uuid" json:"domainId,omitempty"`
	DataAreaID     *uuid.UUID `bun:"data_area_id,type:uuid" json:"dataAreaId,omitempty"`
	CreatedAt      time.Time  `bun:"created_at,notnull,default:now()" json:"createdAt"`
	UpdatedAt      time.Time  `bun:"updated_at,notnull,default:now()" json:"updatedAt"`
}

// LifecyclePhase is one step of the ordered model lifecycle
// (ideate, design, build, validate, deploy, monitor).
type LifecyclePhase struct {
	bun.BaseModel `bun:"table:dm.lifecycle_phases,alias:lp"`

	ID          uuid.UUID `bun:"id,pk,type:uuid,default:uuid_generate_v4()" json:"id"`
	Name        string    `bun:"name,notnull" json:"name"`
	PhaseOrder  int       `bun:"phase_order,notnull" json:"phaseOrder"`
	Description *string   `bun:"description" json:"description,omitempty"`
}

// LifecycleAssignment tracks a model's progress through a lifecycle phase.
type LifecycleAssignment struct {
	bun.BaseModel `bun:"table:dm.lifecycle_assignments,alias:la"`

	ID         uuid.UUID  `bun:"id,pk,type:uuid,default:uuid_generate_v4()" json:"id"`
	ModelID    uuid.UUID  `bun:"model_id,type:uuid,notnull" json:"modelId"`
	PhaseID    uuid.UUID  `bun:"phase_id,type:uuid,notnull" json:"phaseId"`
	Status     string     `bun:"status,notnull,default:'pending'" json:"status"`
	ApprovedBy *string    `bun:"approved_by" json:"approvedBy,omitempty"`
	ApprovedAt *time.Time `bun:"approved_at" json:"approvedAt,omitempty"`
	Notes      *string    `bun:"notes" json:"notes,omitempty"`
	CreatedAt  time.Time  `bun:"created_at,notnull,default:now()" json:"createdAt"`
	UpdatedAt  time.Time  `bun:"updated_at,notnull,default:now()" json:"updatedAt"`

	// Populated only when requested
	Phase *LifecyclePhase `bun:"rel:belongs-to,join:phase_id=id" json:"phase,omitempty"`
}
