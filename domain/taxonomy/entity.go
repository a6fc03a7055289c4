package taxonomy

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// DataDomain is the top level of the classification hierarchy. Objects,
// models, and capabilities are tagged with a domain.
type DataDomain struct {
	bun.BaseModel `bun:"table:dm.data_domains,alias:d"`

	ID          uuid.UUID `bun:"id,pk,type:uuid,default:uuid_generate_v4()" json:"id"`
	Name        string    `bun:"name,notnull" json:"name"`
	Description *string   `bun:"description" json:"description,omitempty"`
	CreatedAt   time.Time `bun:"created_at,notnull,default:now()" json:"createdAt"`
	UpdatedAt   time.Time `bun:"updated_at,notnull,default:now()" json:"updatedAt"`

	// Populated only when requested
	Areas []*DataArea `bun:"rel:has-many,join:id=domain_id" json:"areas,omitempty"`
}

// DataArea is a subdivision of a domain. An area belongs to exactly one domain.
type DataArea struct {
	bun.BaseModel `bun:"table:dm.data_areas,alias:da"`

	ID          uuid.UUID `bun:"id,pk,type:uuid,default:uuid_generate_v4()" json:"id"`
	DomainID    uuid.UUID `bun:"domain_id,type:uuid,notnull" json:"domainId"`
	Name        string    `bun:"name,notnull" json:"name"`
	Description *string   `bun:"description" json:"description,omitempty"`
	CreatedAt   time.Time `bun:"created_at,notnull,default:now()" json:"createdAt"`
	UpdatedAt   time.Time `bun:"updated_at,notnull,default:now()" json:"updatedAt"`
}
