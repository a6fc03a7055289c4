package systems

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// System represents an external system participating as a data source or
// target. Models and objects reference systems for layer-specific targeting.
type System struct {
	bun.BaseModel `bun:"table:dm.systems,alias:s"`

	ID          uuid.UUID      `bun:"id,pk,type:uuid,default:uuid_generate_v4()" json:"id"`
	Name        string         `bun:"name,notnull" json:"name"`
	Category    *string        `bun:"category" json:"category,omitempty"`
	Type        *string        `bun:"type" json:"type,omitempty"`
	CanBeSource bool           `bun:"can_be_source,notnull,default:true" json:"canBeSource"`
	CanBeTarget bool           `bun:"can_be_target,notnull,default:true" json:"canBeTarget"`
	Connection  map[string]any `bun:"connection,type:jsonb,notnull,default:'{}'" json:"connection,omitempty"`
	Status      string         `bun:"status,notnull,default:'active'" json:"status"`
	CreatedAt   time.Time      `bun:"created_at,notnull,default:now()" json:"createdAt"`
	UpdatedAt   time.Time      `bun:"updated_at,notnull,default:now()" json:"updatedAt"`
}
