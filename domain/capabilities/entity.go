package capabilities

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Mapping target kinds.
const (
	TargetDomain = "domain"
	TargetArea   = "area"
	TargetSystem = "system"
	TargetModel  = "model"
)

// IsValidTargetKind reports whether kind names a mappable target.
func IsValidTargetKind(kind string) bool {
	switch kind {
	case TargetDomain, TargetArea, TargetSystem, TargetModel:
		return true
	}
	return false
}

// BusinessCapability is one node of the capability hierarchy.
type BusinessCapability struct {
	bun.BaseModel `bun:"table:dm.business_capabilities,alias:bc"`

	ID          uuid.UUID  `bun:"id,pk,type:uuid,default:uuid_generate_v4()" json:"id"`
	Name        string     `bun:"name,notnull" json:"name"`
	ParentID    *uuid.UUID `bun:"parent_id,type:uuid" json:"parentId,omitempty"`
	Description *string    `bun:"description" json:"description,omitempty"`
	SortOrder   int        `bun:"sort_order,notnull,default:0" json:"sortOrder"`
	CreatedAt   time.Time  `bun:"created_at,notnull,default:now()" json:"createdAt"`
	UpdatedAt   time.Time  `bun:"updated_at,notnull,default:now()" json:"updatedAt"`

	// Assembled in memory, not a bun relation.
	Children []*BusinessCapability `bun:"-" json:"children,omitempty"`
}

// CapabilityMapping links a capability to a domain, area, system, or model.
type CapabilityMapping struct {
	bun.BaseModel `bun:"table:dm.capability_mappings,alias:cm"`

	ID             uuid.UUID      `bun:"id,pk,type:uuid,default:uuid_generate_v4()" json:"id"`
	CapabilityID   uuid.UUID      `bun:"capability_id,type:uuid,notnull" json:"capabilityId"`
	TargetKind     string         `bun:"target_kind,notnull" json:"targetKind"`
	TargetID       uuid.UUID      `bun:"target_id,type:uuid,notnull" json:"targetId"`
	Owner          *string        `bun:"owner" json:"owner,omitempty"`
	RiskLevel      *string        `bun:"risk_level" json:"riskLevel,omitempty"`
	LifecyclePhase *string        `bun:"lifecycle_phase" json:"lifecyclePhase,omitempty"`
	Metadata       map[string]any `bun:"metadata,type:jsonb,notnull,default:'{}'" json:"metadata"`
	CreatedAt      time.Time      `bun:"created_at,notnull,default:now()" json:"createdAt"`
	UpdatedAt      time.Time      `bun:"updated_at,notnull,default:now()" json:"updatedAt"`
}

// BuildTree assembles the capability forest from a flat listing. Children
// are ordered by sort order, then name. Nodes with a dangling parent are
// promoted to roots rather than dropped.
func BuildTree(flat []*BusinessCapability) []*BusinessCapability {
	index := make(map[uuid.UUID]*BusinessCapability, len(flat))
	for _, c := range flat {
		c.Children = nil
		index[c.ID] = c
	}

	var roots []*BusinessCapability
	for _, c := range flat {
		if c.ParentID != nil {
			if parent, ok := index[*c.ParentID]; ok {
				parent.Children = append(parent.Children, c)
				continue
			}
		}
		roots = append(roots, c)
	}
	return roots
}
