package relationships

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

// Repository handles database operations for global and model-local
// relationships.
type Repository struct {
	db  bun.IDB
	log *slog.Logger
}

// NewRepository creates a new relationships repository.
func NewRepository(db bun.IDB, log *slog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With(logger.Scope("relationships.repo")),
	}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *Repository) WithTx(tx bun.Tx) *Repository {
	return &Repository{db: tx, log: r.log}
}

// ListGlobal returns all canonical relationships with their objects.
func (r *Repository) ListGlobal(ctx context.Context) ([]*GlobalRelationship, error) {
	var rels []*GlobalRelationship
	err := r.db.NewSelect().
		Model(&rels).
		Relation("SourceObject").
		Relation("TargetObject").
		Order("gr.created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, apperror.ErrDatabase.WithInternal(err)
	}
	return rels, nil
}

// GetGlobalByID returns a canonical relationship.
func (r *Repository) GetGlobalByID(ctx context.Context, id uuid.UUID) (*GlobalRelationship, error) {
	rel := &GlobalRelationship{}
	err := r.db.NewSelect().
		Model(rel).
		Relation("SourceObject").
		Relation("TargetObject").
		Where("gr.id = ?", id).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NewNotFound("relationship", id.String())
	}
	if err != nil {
		return nil, apperror.ErrDatabase.WithInternal(err)
	}
	return rel, nil
}

// FindGlobalByKey returns the canonical relationship matching the dedup
// key, or nil when none exists.
func (r *Repository) FindGlobalByKey(ctx context.Context, key Key) (*GlobalRelationship, error) {
	rel := &GlobalRelationship{}
	q := r.db.NewSelect().
		Model(rel).
		Where("gr.source_object_id = ?", key.SourceObjectID).
		Where("gr.target_object_id = ?", key.TargetObjectID).
		Where("gr.relationship_level = ?", key.Level)
	if key.SourceAttrID != nil {
		q = q.Where("gr.source_attribute_id = ?", *key.SourceAttrID)
	} else {
		q = q.Where("gr.source_attribute_id IS NULL")
	}
	if key.TargetAttrID != nil {
		q = q.Where("gr.target_attribute_id = ?", *key.TargetAttrID)
	} else {
		q = q.Where("gr.target_attribute_id IS NULL")
	}
	err := q.Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperror.ErrDatabase.WithInternal(err)
	}
	return rel, nil
}

// CreateGlobal inserts a canonical relationship.
func (r *Repository) CreateGlobal(ctx context.Context, rel *GlobalRelationship) error {
	_, err := r.db.NewInsert().
		Model(rel).
		Returning("*").
		Exec(ctx)
	if err != nil {
		if containsErrorCode(err, "23505") {
			return apperror.NewConflict("relationship already exists")
		}
		return apperror.ErrDatabase.WithInternal(err)
	}
	return nil
}

// UpdateGlobal updates a canonical relationship's type and metadata.
func (r *Repository) UpdateGlobal(ctx context.Context, rel *GlobalRelationship) error {
	res, err := r.db.NewUpdate().
		Model(rel).
		WherePK().
		Set("updated_at = now()").
		Returning("*").
		Exec(ctx)
	if err != nil {
		return apperror.ErrDatabase.WithInternal(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.NewNotFound("relationship", rel.ID.String())
	}
	return nil
}

// DeleteGlobal removes a canonical relationship. Model-local rows go first.
func (r *Repository) DeleteGlobal(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.NewDelete().
		Model((*ModelRelationship)(nil)).
		Where("global_relationship_id = ?", id).
		Exec(ctx); err != nil {
		return apperror.ErrDatabase.WithInternal(err)
	}

	res, err := r.db.NewDelete().
		Model((*GlobalRelationship)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return apperror.ErrDatabase.WithInternal(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.NewNotFound("relationship", id.String())
	}
	return nil
}

// CountModelRows counts the model-local rows referencing a global
// relationship.
func (r *Repository) CountModelRows(ctx context.Context, globalID uuid.UUID) (int, error) {
	n, err := r.db.NewSelect().
		Model((*ModelRelationship)(nil)).
		Where("global_relationship_id = ?", globalID).
		Count(ctx)
	if err != nil {
		return 0, apperror.ErrDatabase.WithInternal(err)
	}
	return n, nil
}

// ListCanonicalModelRows returns every model-local row backed by a
// canonical relationship.
func (r *Repository) ListCanonicalModelRows(ctx context.Context) ([]*ModelRelationship, error) {
	var rows []*ModelRelationship
	err := r.db.NewSelect().
		Model(&rows).
		Where("mr.global_relationship_id IS NOT NULL").
		Order("mr.created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, apperror.ErrDatabase.WithInternal(err)
	}
	return rows, nil
}

// ListByModel returns a model's relationship rows with projections and the
// global rows they render.
func (r *Repository) ListByModel(ctx context.Context, modelID uuid.UUID) ([]*ModelRelationship, error) {
	var rels []*ModelRelationship
	err := r.db.NewSelect().
		Model(&rels).
		Relation("Global").
		Relation("SourceObject").
		Relation("SourceObject.Object").
		Relation("TargetObject").
		Relation("TargetObject.Object").
		Where("mr.model_id = ?", modelID).
		Order("mr.created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, apperror.ErrDatabase.WithInternal(err)
	}
	return rels, nil
}

// GetModelRowByID returns a model-local relationship row.
func (r *Repository) GetModelRowByID(ctx context.Context, id uuid.UUID) (*ModelRelationship, error) {
	rel := &ModelRelationship{}
	err := r.db.NewSelect().
		Model(rel).
		Relation("Global").
		Where("mr.id = ?", id).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NewNotFound("model relationship", id.String())
	}
	if err != nil {
		return nil, apperror.ErrDatabase.WithInternal(err)
	}
	return rel, nil
}

// FindModelRow returns the model-local row for (model, global), or nil.
func (r *Repository) FindModelRow(ctx context.Context, modelID, globalID uuid.UUID) (*ModelRelationship, error) {
	rel := &ModelRelationship{}
	err := r.db.NewSelect().
		Model(rel).
		Where("mr.model_id = ?", modelID).
		Where("mr.global_relationship_id = ?", globalID).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperror.ErrDatabase.WithInternal(err)
	}
	return rel, nil
}

// CreateModelRow inserts a model-local relationship row.
func (r *Repository) CreateModelRow(ctx context.Context, rel *ModelRelationship) error {
	_, err := r.db.NewInsert().
		Model(rel).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return apperror.ErrDatabase.WithInternal(err)
	}
	return nil
}

// UpdateModelRow updates a model-local relationship row.
func (r *Repository) UpdateModelRow(ctx context.Context, rel *ModelRelationship) error {
	res, err := r.db.NewUpdate().
		Model(rel).
		WherePK().
		Set("updated_at = now()").
		Returning("*").
		Exec(ctx)
	if err != nil {
		return apperror.ErrDatabase.WithInternal(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.NewNotFound("model relationship", rel.ID.String())
	}
	return nil
}

// DeleteModelRow removes a model-local relationship row.
func (r *Repository) DeleteModelRow(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.NewDelete().
		Model((*ModelRelationship)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return apperror.ErrDatabase.WithInternal(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.NewNotFound("model relationship", id.String())
	}
	return nil
}

func containsErrorCode(err error, code string) bool {
	return err != nil && strings.Contains(err.Error(), code)
}
