package capabilities

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/strata-studio/strata/pkg/apperror"
	"github.com/strata-studio/strata/pkg/logger"
)

// Repository handles database operations for business capabilities and
// their mappings.
type Repository struct {
	db  bun.IDB
	log *slog.Logger
}

// NewRepository creates a new capabilities repository.
func NewRepository(db bun.IDB, log *slog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With(logger.Scope("capabilities.repo")),
	}
}

// List returns all capabilities ordered for tree assembly.
func (r *Repository) List(ctx context.Context) ([]*BusinessCapability, error) {
	var caps []*BusinessCapability
	err := r.db.NewSelect().
		Model(&caps).
		Order("sort_order ASC", "name ASC").
		Scan(ctx)
	if err != nil {
		return nil, apperror.ErrDatabase.WithInternal(err)
	}
	return caps, nil
}

// GetByID returns a capability by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*BusinessCapability, error) {
	capability := &BusinessCapability{}
	err := r.db.NewSelect().
		Model(capability).
		Where("bc.id = ?", id).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NewNotFound("capability", id.String())
	}
	if err != nil {
		return nil, apperror.ErrDatabase.WithInternal(err)
	}
	return capability, nil
}

// Create inserts a capability.
func (r *Repository) Create(ctx context.Context, capability *BusinessCapability) error {
	_, err := r.db.NewInsert().
		Model(capability).
		Returning("*").
		Exec(ctx)
	if err != nil {
		if strings.Contains(err.Error(), "23503") {
			return apperror.NewBadRequest("parent capability does not exist")
		}
		return apperror.ErrDatabase.WithInternal(err)
	}
	return nil
}

// Update updates a capability.
func (r *Repository) Update(ctx context.Context, capability *BusinessCapability) error {
	res, err := r.db.NewUpdate().
		Model(capability).
		WherePK().
		Set("updated_at = now()").
		Returning("*").
		Exec(ctx)
	if err != nil {
		return apperror.ErrDatabase.WithInternal(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.NewNotFound("capability", capability.ID.String())
	}
	return nil
}

// Delete removes a capability. Descendants and mappings cascade.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.NewDelete().
		Model((*BusinessCapability)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return apperror.ErrDatabase.WithInternal(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.NewNotFound("capability", id.String())
	}
	return nil
}

// ListMappings returns a capability's mappings, optionally filtered by
// target kind.
func (r *Repository) ListMappings(ctx context.Context, capabilityID uuid.UUID, targetKind *string) ([]*CapabilityMapping, error) {
	var mappings []*CapabilityMapping
	q := r.db.NewSelect().
		Model(&mappings).
		Where("cm.capability_id = ?", capabilityID).
		Order("cm.created_at ASC")
	if targetKind != nil {
		q = q.Where("cm.target_kind = ?", *targetKind)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, apperror.ErrDatabase.WithInternal(err)
	}
	return mappings, nil
}

// CreateMapping inserts a mapping.
func (r *Repository) CreateMapping(ctx context.Context, m *CapabilityMapping) error {
	_, err := r.db.NewInsert().
		Model(m).
		Returning("*").
		Exec(ctx)
	if err != nil {
		if strings.Contains(err.Error(), "23505") {
			return apperror.NewConflict("capability already mapped to this target")
		}
		return apperror.ErrDatabase.WithInternal(err)
	}
	return nil
}

// UpdateMapping updates a mapping's annotations.
func (r *Repository) UpdateMapping(ctx context.Context, m *CapabilityMapping) error {
	res, err := r.db.NewUpdate().
		Model(m).
		WherePK().
		Set("updated_at = now()").
		Returning("*").
		Exec(ctx)
	if err != nil {
		return apperror.ErrDatabase.WithInternal(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.NewNotFound("capability mapping", m.ID.String())
	}
	return nil
}

// GetMappingByID returns a mapping by ID.
func (r *Repository) GetMappingByID(ctx context.Context, id uuid.UUID) (*CapabilityMapping, error) {
	m := &CapabilityMapping{}
	err := r.db.NewSelect().
		Model(m).
		Where("cm.id = ?", id).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NewNotFound("capability mapping", id.String())
	}
	if err != nil {
		return nil, apperror.ErrDatabase.WithInternal(err)
	}
	return m, nil
}

// DeleteMapping removes a mapping.
func (r *Repository) DeleteMapping(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.NewDelete().
		Model((*CapabilityMapping)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return apperror.ErrDatabase.WithInternal(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.NewNotFound("capability mapping", id.String())
	}
	return nil
}
