package models

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/strata-studio/strata/pkg/apperror"
	"github.com/strata-studio/strata/pkg/logger"
)

// Repository handles database operations for data models and lifecycle rows.
type Repository struct {
	db  bun.IDB
	log *slog.Logger
}

// NewRepository creates a new models repository.
func NewRepository(db bun.IDB, log *slog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With(logger.Scope("models.repo")),
	}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *Repository) WithTx(tx bun.Tx) *Repository {
	return &Repository{db: tx, log: r.log}
}

// ListParams filters the model listing.
type ListParams struct {
	Layer    *string
	DomainID *uuid.UUID
	SystemID *uuid.UUID
}

// List returns models matching the given parameters.
func (r *Repository) List(ctx context.Context, params ListParams) ([]*DataModel, error) {
	var models []*DataModel
	q := r.db.NewSelect().
		Model(&models).
		Order("name ASC", "layer ASC")
	if params.Layer != nil {
		q = q.Where("layer = ?", *params.Layer)
	}
	if params.DomainID != nil {
		q = q.Where("domain_id = ?", *params.DomainID)
	}
	if params.SystemID != nil {
		q = q.Where("target_system_id = ?", *params.SystemID)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, apperror.ErrDatabase.WithInternal(err)
	}
	return models, nil
}

// ListAll returns every model. Family resolution loads the table once and
// walks parent chains in memory.
func (r *Repository) ListAll(ctx context.Context) ([]*DataModel, error) {
	var models []*DataModel
	if err := r.db.NewSelect().Model(&models).Scan(ctx); err != nil {
		return nil, apperror.ErrDatabase.WithInternal(err)
	}
	return models, nil
}

// GetByID returns a model by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*DataModel, error) {
	model := &DataModel{}
	err := r.db.NewSelect().
		Model(model).
		Where("m.id = ?", id).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NewNotFound("data model", id.String())
	}
	if err != nil {
		return nil, apperror.ErrDatabase.WithInternal(err)
	}
	return model, nil
}

// Create inserts a new model.
func (r *Repository) Create(ctx context.Context, model *DataModel) error {
	_, err := r.db.NewInsert().
		Model(model).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return apperror.ErrDatabase.WithInternal(err)
	}
	return nil
}

// Update updates an existing model.
func (r *Repository) Update(ctx context.Context, model *DataModel) error {
	res, err := r.db.NewUpdate().
		Model(model).
		WherePK().
		Set("updated_at = now()").
		Returning("*").
		Exec(ctx)
	if err != nil {
		return apperror.ErrDatabase.WithInternal(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.NewNotFound("data model", model.ID.String())
	}
	return nil
}

// Delete removes a model. Derived-layer models, projections, model
// attributes, and model relationships fall with it through FK cascades.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.NewDelete().
		Model((*DataModel)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return apperror.ErrDatabase.WithInternal(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.NewNotFound("data model", id.String())
	}
	return nil
}

// ListPhases returns the lifecycle phases in order.
func (r *Repository) ListPhases(ctx context.Context) ([]*LifecyclePhase, error) {
	var phases []*LifecyclePhase
	err := r.db.NewSelect().
		Model(&phases).
		Order("phase_order ASC").
		Scan(ctx)
	if err != nil {
		return nil, apperror.ErrDatabase.WithInternal(err)
	}
	return phases, nil
}

// GetPhaseByName returns a lifecycle phase by name.
func (r *Repository) GetPhaseByName(ctx context.Context, name string) (*LifecyclePhase, error) {
	phase := &LifecyclePhase{}
	err := r.db.NewSelect().
		Model(phase).
		Where("name = ?", name).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NewNotFound("lifecycle phase", name)
	}
	if err != nil {
		return nil, apperror.ErrDatabase.WithInternal(err)
	}
	return phase, nil
}

// ListAssignments returns a model's lifecycle assignments with phases.
func (r *Repository) ListAssignments(ctx context.Context, modelID uuid.UUID) ([]*LifecycleAssignment, error) {
	var assignments []*LifecycleAssignment
	err := r.db.NewSelect().
		Model(&assignments).
		Relation("Phase").
		Where("la.model_id = ?", modelID).
		Order("la.created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, apperror.ErrDatabase.WithInternal(err)
	}
	return assignments, nil
}

// UpsertAssignment creates or updates the assignment for (model, phase).
func (r *Repository) UpsertAssignment(ctx context.Context, assignment *LifecycleAssignment) error {
	_, err := r.db.NewInsert().
		Model(assignment).
		On("CONFLICT (model_id, phase_id) DO UPDATE").
		Set("status = EXCLUDED.status").
		Set("approved_by = EXCLUDED.approved_by").
		Set("approved_at = EXCLUDED.approved_at").
		Set("notes = EXCLUDED.notes").
		Set("updated_at = now()").
		Returning("*").
		Exec(ctx)
	if err != nil {
		return apperror.ErrDatabase.WithInternal(err)
	}
	return nil
}
