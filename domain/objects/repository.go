package objects

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

// Repository handles database operations for canonical objects, canonical
// attributes, and their per-model projections.
type Repository struct {
	db  bun.IDB
	log *slog.Logger
}

// NewRepository creates a new objects repository.
func NewRepository(db bun.IDB, log *slog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With(logger.Scope("objects.repo")),
	}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *Repository) WithTx(tx bun.Tx) *Repository {
	return &Repository{db: tx, log: r.log}
}

// ObjectListParams filters the canonical object listing.
type ObjectListParams struct {
	DomainID   *uuid.UUID
	DataAreaID *uuid.UUID
	SystemID   *uuid.UUID
	ObjectType *string
	IsNew      *bool
	Search     *string
	SortBy     string
	SortDesc   bool
}

var objectSortColumns = map[string]string{
	"name":      "o.name",
	"type":      "o.object_type",
	"createdAt": "o.created_at",
	"updatedAt": "o.updated_at",
}

// ListObjects returns canonical objects matching the given parameters,
// attributes included.
func (r *Repository) ListObjects(ctx context.Context, params ObjectListParams) ([]*DataObject, error) {
	var objs []*DataObject
	q := r.db.NewSelect().
		Model(&objs).
		Relation("Attributes", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("order_index ASC", "name ASC")
		})
	if params.DomainID != nil {
		q = q.Where("o.domain_id = ?", *params.DomainID)
	}
	if params.DataAreaID != nil {
		q = q.Where("o.data_area_id = ?", *params.DataAreaID)
	}
	if params.SystemID != nil {
		q = q.Where("(o.source_system_id = ? OR o.target_system_id = ?)", *params.SystemID, *params.SystemID)
	}
	if params.ObjectType != nil {
		q = q.Where("o.object_type = ?", *params.ObjectType)
	}
	if params.IsNew != nil {
		q = q.Where("o.is_new = ?", *params.IsNew)
	}
	if params.Search != nil && strings.TrimSpace(*params.Search) != "" {
		pattern := "%" + strings.TrimSpace(*params.Search) + "%"
		q = q.Where("(o.name ILIKE ? OR o.description ILIKE ?)", pattern, pattern)
	}

	col, ok := objectSortColumns[params.SortBy]
	if !ok {
		col = "o.name"
	}
	dir := "ASC"
	if params.SortDesc {
		dir = "DESC"
	}
	q = q.Order(col + " " + dir)

	if err := q.Scan(ctx); err != nil {
		return nil, apperror.ErrDatabase.WithInternal(err)
	}
	return objs, nil
}

// GetObjectByID returns a canonical object with its attributes.
func (r *Repository) GetObjectByID(ctx context.Context, id uuid.UUID) (*DataObject, error) {
	obj := &DataObject{}
	err := r.db.NewSelect().
		Model(obj).
		Relation("Attributes", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("order_index ASC", "name ASC")
		}).
		Where("o.id = ?", id).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NewNotFound("data object", id.String())
	}
	if err != nil {
		return nil, apperror.ErrDatabase.WithInternal(err)
	}
	return obj, nil
}

// CreateObject inserts a canonical object.
func (r *Repository) CreateObject(ctx context.Context, obj *DataObject) error {
	_, err := r.db.NewInsert().
		Model(obj).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return apperror.ErrDatabase.WithInternal(err)
	}
	return nil
}

// UpdateObject updates a canonical object.
func (r *Repository) UpdateObject(ctx context.Context, obj *DataObject) error {
	res, err := r.db.NewUpdate().
		Model(obj).
		WherePK().
		Set("updated_at = now()").
		Returning("*").
		Exec(ctx)
	if err != nil {
		return apperror.ErrDatabase.WithInternal(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.NewNotFound("data object", obj.ID.String())
	}
	return nil
}

// DeleteObject removes a canonical object and its dependents in dependency
// order: relationship rows first, then attribute projections, object
// projections, canonical attributes, and finally the object itself. The FK
// cascades would do the same; the explicit order keeps the delete correct
// under any future FK relaxation.
func (r *Repository) DeleteObject(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.NewDelete().
		Table("dm.model_relationships").
		Where("source_model_object_id IN (SELECT id FROM dm.model_objects WHERE object_id = ?)", id).
		WhereOr("target_model_object_id IN (SELECT id FROM dm.model_objects WHERE object_id = ?)", id).
		Exec(ctx); err != nil {
		return apperror.ErrDatabase.WithInternal(err)
	}
	if _, err := r.db.NewDelete().
		Table("dm.global_relationships").
		Where("source_object_id = ?", id).
		WhereOr("target_object_id = ?", id).
		Exec(ctx); err != nil {
		return apperror.ErrDatabase.WithInternal(err)
	}
	if _, err := r.db.NewDelete().
		Model((*ModelAttribute)(nil)).
		Where("model_object_id IN (SELECT id FROM dm.model_objects WHERE object_id = ?)", id).
		Exec(ctx); err != nil {
		return apperror.ErrDatabase.WithInternal(err)
	}
	if _, err := r.db.NewDelete().
		Model((*ModelObject)(nil)).
		Where("object_id = ?", id).
		Exec(ctx); err != nil {
		return apperror.ErrDatabase.WithInternal(err)
	}
	if _, err := r.db.NewDelete().
		Model((*Attribute)(nil)).
		Where("object_id = ?", id).
		Exec(ctx); err != nil {
		return apperror.ErrDatabase.WithInternal(err)
	}

	res, err := r.db.NewDelete().
		Model((*DataObject)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return apperror.ErrDatabase.WithInternal(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.NewNotFound("data object", id.String())
	}
	return nil
}

// ListProjections returns a model's object projections with canonical
// objects and attribute projections loaded.
// ListCanonicalProjections returns every projection linked to a canonical
// object, across all models. Feeds the object lake's per-layer view.
func (r *Repository) ListCanonicalProjections(ctx context.Context) ([]*ModelObject, error) {
	var projections []*ModelObject
	err := r.db.NewSelect().
		Model(&projections).
		Where("mo.object_id IS NOT NULL").
		Order("mo.created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, apperror.ErrDatabase.WithInternal(err)
	}
	return projections, nil
}

func (r *Repository) ListProjections(ctx context.Context, modelID uuid.UUID) ([]*ModelObject, error) {
	var projections []*ModelObject
	err := r.db.NewSelect().
		Model(&projections).
		Relation("Object").
		Relation("Attributes", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("created_at ASC")
		}).
		Relation("Attributes.Attribute").
		Where("mo.model_id = ?", modelID).
		Order("mo.created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, apperror.ErrDatabase.WithInternal(err)
	}
	return projections, nil
}

// GetProjectionByID returns an object projection with its canonical object.
func (r *Repository) GetProjectionByID(ctx context.Context, id uuid.UUID) (*ModelObject, error) {
	mo := &ModelObject{}
	err := r.db.NewSelect().
		Model(mo).
		Relation("Object").
		Where("mo.id = ?", id).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NewNotFound("model object", id.String())
	}
	if err != nil {
		return nil, apperror.ErrDatabase.WithInternal(err)
	}
	return mo, nil
}

// GetProjectionByObject returns the projection of a canonical object in
// the given model, or nil when the model does not contain it.
func (r *Repository) GetProjectionByObject(ctx context.Context, modelID, objectID uuid.UUID) (*ModelObject, error) {
	mo := &ModelObject{}
	err := r.db.NewSelect().
		Model(mo).
		Where("mo.model_id = ?", modelID).
		Where("mo.object_id = ?", objectID).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperror.ErrDatabase.WithInternal(err)
	}
	return mo, nil
}

// CreateProjection inserts an object projection.
func (r *Repository) CreateProjection(ctx context.Context, mo *ModelObject) error {
	_, err := r.db.NewInsert().
		Model(mo).
		Returning("*").
		Exec(ctx)
	if err != nil {
		if containsErrorCode(err, "23505") {
			return apperror.NewConflict("object already present in model")
		}
		return apperror.ErrDatabase.WithInternal(err)
	}
	return nil
}

// UpdateProjection updates an object projection's layer-specific fields.
func (r *Repository) UpdateProjection(ctx context.Context, mo *ModelObject) error {
	res, err := r.db.NewUpdate().
		Model(mo).
		WherePK().
		Set("updated_at = now()").
		Returning("*").
		Exec(ctx)
	if err != nil {
		return apperror.ErrDatabase.WithInternal(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.NewNotFound("model object", mo.ID.String())
	}
	return nil
}

// DeleteProjection removes an object projection along with its relationship
// rows and attribute projections, in that order. Canonical rows survive.
func (r *Repository) DeleteProjection(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.NewDelete().
		Table("dm.model_relationships").
		Where("source_model_object_id = ?", id).
		WhereOr("target_model_object_id = ?", id).
		Exec(ctx); err != nil {
		return apperror.ErrDatabase.WithInternal(err)
	}
	if _, err := r.db.NewDelete().
		Model((*ModelAttribute)(nil)).
		Where("model_object_id = ?", id).
		Exec(ctx); err != nil {
		return apperror.ErrDatabase.WithInternal(err)
	}

	res, err := r.db.NewDelete().
		Model((*ModelObject)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return apperror.ErrDatabase.WithInternal(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.NewNotFound("model object", id.String())
	}
	return nil
}

// GetAttributeByID returns a canonical attribute.
func (r *Repository) GetAttributeByID(ctx context.Context, id uuid.UUID) (*Attribute, error) {
	attr := &Attribute{}
	err := r.db.NewSelect().
		Model(attr).
		Where("a.id = ?", id).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NewNotFound("attribute", id.String())
	}
	if err != nil {
		return nil, apperror.ErrDatabase.WithInternal(err)
	}
	return attr, nil
}

// ListAttributes returns a canonical object's attributes in order.
func (r *Repository) ListAttributes(ctx context.Context, objectID uuid.UUID) ([]*Attribute, error) {
	var attrs []*Attribute
	err := r.db.NewSelect().
		Model(&attrs).
		Where("a.object_id = ?", objectID).
		Order("order_index ASC", "name ASC").
		Scan(ctx)
	if err != nil {
		return nil, apperror.ErrDatabase.WithInternal(err)
	}
	return attrs, nil
}

// CreateAttribute inserts a canonical attribute.
func (r *Repository) CreateAttribute(ctx context.Context, attr *Attribute) error {
	_, err := r.db.NewInsert().
		Model(attr).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return apperror.ErrDatabase.WithInternal(err)
	}
	return nil
}

// UpdateAttribute updates a canonical attribute.
func (r *Repository) UpdateAttribute(ctx context.Context, attr *Attribute) error {
	res, err := r.db.NewUpdate().
		Model(attr).
		WherePK().
		Set("updated_at = now()").
		Returning("*").
		Exec(ctx)
	if err != nil {
		return apperror.ErrDatabase.WithInternal(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.NewNotFound("attribute", attr.ID.String())
	}
	return nil
}

// DeleteAttribute removes a canonical attribute. Its projections and any
// attribute-level relationship rows go first.
func (r *Repository) DeleteAttribute(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.NewDelete().
		Table("dm.model_relationships").
		Where("source_attribute_id IN (SELECT id FROM dm.model_attributes WHERE attribute_id = ?)", id).
		WhereOr("target_attribute_id IN (SELECT id FROM dm.model_attributes WHERE attribute_id = ?)", id).
		Exec(ctx); err != nil {
		return apperror.ErrDatabase.WithInternal(err)
	}
	if _, err := r.db.NewDelete().
		Table("dm.global_relationships").
		Where("source_attribute_id = ?", id).
		WhereOr("target_attribute_id = ?", id).
		Exec(ctx); err != nil {
		return apperror.ErrDatabase.WithInternal(err)
	}
	if _, err := r.db.NewDelete().
		Model((*ModelAttribute)(nil)).
		Where("attribute_id = ?", id).
		Exec(ctx); err != nil {
		return apperror.ErrDatabase.WithInternal(err)
	}

	res, err := r.db.NewDelete().
		Model((*Attribute)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return apperror.ErrDatabase.WithInternal(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.NewNotFound("attribute", id.String())
	}
	return nil
}

// GetModelAttributeByID returns an attribute projection with its canonical
// attribute.
func (r *Repository) GetModelAttributeByID(ctx context.Context, id uuid.UUID) (*ModelAttribute, error) {
	ma := &ModelAttribute{}
	err := r.db.NewSelect().
		Model(ma).
		Relation("Attribute").
		Where("ma.id = ?", id).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NewNotFound("model attribute", id.String())
	}
	if err != nil {
		return nil, apperror.ErrDatabase.WithInternal(err)
	}
	return ma, nil
}

// GetModelAttributeByAttribute returns the projection of a canonical
// attribute under a given object projection, or nil when absent.
func (r *Repository) GetModelAttributeByAttribute(ctx context.Context, modelObjectID, attributeID uuid.UUID) (*ModelAttribute, error) {
	ma := &ModelAttribute{}
	err := r.db.NewSelect().
		Model(ma).
		Where("ma.model_object_id = ?", modelObjectID).
		Where("ma.attribute_id = ?", attributeID).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperror.ErrDatabase.WithInternal(err)
	}
	return ma, nil
}

// ListModelAttributes returns the attribute projections under an object
// projection.
func (r *Repository) ListModelAttributes(ctx context.Context, modelObjectID uuid.UUID) ([]*ModelAttribute, error) {
	var mas []*ModelAttribute
	err := r.db.NewSelect().
		Model(&mas).
		Relation("Attribute").
		Where("ma.model_object_id = ?", modelObjectID).
		Order("ma.created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, apperror.ErrDatabase.WithInternal(err)
	}
	return mas, nil
}

// CreateModelAttribute inserts an attribute projection.
func (r *Repository) CreateModelAttribute(ctx context.Context, ma *ModelAttribute) error {
	_, err := r.db.NewInsert().
		Model(ma).
		Returning("*").
		Exec(ctx)
	if err != nil {
		if containsErrorCode(err, "23505") {
			return apperror.NewConflict("attribute already projected into model object")
		}
		return apperror.ErrDatabase.WithInternal(err)
	}
	return nil
}

// UpdateModelAttribute updates an attribute projection.
func (r *Repository) UpdateModelAttribute(ctx context.Context, ma *ModelAttribute) error {
	res, err := r.db.NewUpdate().
		Model(ma).
		WherePK().
		Set("updated_at = now()").
		Returning("*").
		Exec(ctx)
	if err != nil {
		return apperror.ErrDatabase.WithInternal(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.NewNotFound("model attribute", ma.ID.String())
	}
	return nil
}

// DeleteModelAttribute removes an attribute projection and its
// attribute-level relationship rows.
func (r *Repository) DeleteModelAttribute(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.NewDelete().
		Table("dm.model_relationships").
		Where("source_attribute_id = ?", id).
		WhereOr("target_attribute_id = ?", id).
		Exec(ctx); err != nil {
		return apperror.ErrDatabase.WithInternal(err)
	}

	res, err := r.db.NewDelete().
		Model((*ModelAttribute)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return apperror.ErrDatabase.WithInternal(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.NewNotFound("model attribute", id.String())
	}
	return nil
}

func containsErrorCode(err error, code string) bool {
	return err != nil && strings.Contains(err.Error(), code)
}
