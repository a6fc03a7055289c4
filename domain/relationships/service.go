package relationships

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/strata-studio/strata/domain/models"
	"github.com/strata-studio/strata/domain/objects"
	"github.com/strata-studio/strata/internal/database"
	"github.com/strata-studio/strata/pkg/apperror"
	"github.com/strata-studio/strata/pkg/logger"
)

// Service handles business logic for relationships. Declarations are
// deduplicated into global rows; model-local rows are propagated to
// sibling layers best-effort, skipping layers missing a counterpart
// projection.
type Service struct {
	repo    *Repository
	objects *objects.Repository
	models  *models.Repository
	db      bun.IDB
	log     *slog.Logger
}

// NewService creates a new relationships service.
func NewService(repo *Repository, objectsRepo *objects.Repository, modelsRepo *models.Repository, db bun.IDB, log *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		objects: objectsRepo,
		models:  modelsRepo,
		db:      db,
		log:     log.With(logger.Scope("relationships.svc")),
	}
}

// SummariesByObject reports, for every canonical object, the canonical
// relationships touching it and their model rows. Feeds the object lake.
func (s *Service) SummariesByObject(ctx context.Context) (map[uuid.UUID][]objects.RelationshipSummary, error) {
	globals, err := s.repo.ListGlobal(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.ListCanonicalModelRows(ctx)
	if err != nil {
		return nil, err
	}
	rowsByGlobal := make(map[uuid.UUID][]uuid.UUID)
	for _, row := range rows {
		rowsByGlobal[*row.GlobalRelationshipID] = append(rowsByGlobal[*row.GlobalRelationshipID], row.ID)
	}
	out := make(map[uuid.UUID][]objects.RelationshipSummary)
	for _, g := range globals {
		summary := objects.RelationshipSummary{
			GlobalRelationshipID: g.ID,
			ModelRelationshipIDs: rowsByGlobal[g.ID],
			Type:                 g.Type,
			RelationshipLevel:    g.RelationshipLevel,
			SourceObjectID:       g.SourceObjectID,
			TargetObjectID:       g.TargetObjectID,
		}
		out[g.SourceObjectID] = append(out[g.SourceObjectID], summary)
		if g.TargetObjectID != g.SourceObjectID {
			out[g.TargetObjectID] = append(out[g.TargetObjectID], summary)
		}
	}
	return out, nil
}

// ListGlobal returns all canonical relationships.
func (s *Service) ListGlobal(ctx context.Context) ([]*GlobalRelationship, error) {
	return s.repo.ListGlobal(ctx)
}

// ListByModel returns a model's relationship rows after applying the
// layer's display rules.
func (s *Service) ListByModel(ctx context.Context, modelID uuid.UUID) ([]*ModelRelationship, error) {
	model, err := s.models.GetByID(ctx, modelID)
	if err != nil {
		return nil, err
	}
	rels, err := s.repo.ListByModel(ctx, modelID)
	if err != nil {
		return nil, err
	}
	return FilterForLayer(rels, model.Layer), nil
}

// FilterForLayer applies per-layer display rules: the conceptual canvas
// shows object-level relationships only, logical and physical canvases show
// attribute-level ones only. Both kinds are stored per model regardless;
// this is a display filter.
func FilterForLayer(rels []*ModelRelationship, layer string) []*ModelRelationship {
	want := LevelAttribute
	if layer == models.LayerConceptual {
		want = LevelObject
	}
	out := make([]*ModelRelationship, 0, len(rels))
	for _, rel := range rels {
		if rel.RelationshipLevel == want {
			out = append(out, rel)
		}
	}
	return out
}

// DeclareParams defines input for declaring a relationship on a model
// canvas. Source and target name projections; attribute ids name attribute
// projections and are required at attribute level.
type DeclareParams struct {
	ModelID             uuid.UUID  `json:"modelId"`
	SourceModelObjectID uuid.UUID  `json:"sourceModelObjectId"`
	TargetModelObjectID uuid.UUID  `json:"targetModelObjectId"`
	Type                string     `json:"type"`
	RelationshipLevel   string     `json:"relationshipLevel"`
	SourceAttributeID   *uuid.UUID `json:"sourceAttributeId"`
	TargetAttributeID   *uuid.UUID `json:"targetAttributeId"`
	Name                *string    `json:"name"`
	Description         *string    `json:"description"`
}

func (p DeclareParams) validate() error {
	if p.SourceModelObjectID == uuid.Nil || p.TargetModelObjectID == uuid.Nil {
		return apperror.NewValidation("source and target are required", nil)
	}
	if p.SourceModelObjectID == p.TargetModelObjectID {
		return apperror.NewValidation("relationship cannot connect an object to itself", nil)
	}
	if !IsValidType(p.Type) {
		return apperror.NewValidation("invalid relationship type", nil)
	}
	if !IsValidLevel(p.RelationshipLevel) {
		return apperror.NewValidation("invalid relationship level", nil)
	}
	if p.RelationshipLevel == LevelAttribute && (p.SourceAttributeID == nil || p.TargetAttributeID == nil) {
		return apperror.NewValidation("attribute-level relationships require both attribute ids", nil)
	}
	return nil
}

// normalized scrubs attribute ids from object-level declarations. The key
// resolver ignores them there, and stored rows must not carry them either:
// the conceptual canvas selects edges by level and an object-level row with
// stray attribute ids would leak them into the payload.
func (p DeclareParams) normalized() DeclareParams {
	if p.RelationshipLevel == LevelObject {
		p.SourceAttributeID = nil
		p.TargetAttributeID = nil
	}
	return p
}

// Declare creates a relationship on a model's canvas. The canonical row is
// found or created by dedup key, and redeclaring an identical relationship
// returns the existing model row. The model-local row lands in the origin
// model and in every sibling layer holding counterpart projections of both
// ends. Sibling layers missing a counterpart are skipped, never an error.
func (s *Service) Declare(ctx context.Context, modelID uuid.UUID, params DeclareParams) (*ModelRelationship, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}
	params = params.normalized()

	var result *ModelRelationship
	err := database.RunInTx(ctx, s.db, func(ctx context.Context, tx bun.Tx) error {
		repo := s.repo.WithTx(tx)
		orepo := s.objects.WithTx(tx)

		source, err := orepo.GetProjectionByID(ctx, params.SourceModelObjectID)
		if err != nil {
			return err
		}
		target, err := orepo.GetProjectionByID(ctx, params.TargetModelObjectID)
		if err != nil {
			return err
		}
		if source.ModelID != modelID || target.ModelID != modelID {
			return apperror.NewValidation("source and target must belong to the model", nil)
		}

		var global *GlobalRelationship
		if source.ObjectID != nil && target.ObjectID != nil {
			global, err = s.ensureGlobal(ctx, tx, repo, source, target, params)
			if err != nil {
				return err
			}
		}

		row := &ModelRelationship{
			ModelID:             modelID,
			SourceModelObjectID: source.ID,
			TargetModelObjectID: target.ID,
			Type:                params.Type,
			RelationshipLevel:   params.RelationshipLevel,
			SourceAttributeID:   params.SourceAttributeID,
			TargetAttributeID:   params.TargetAttributeID,
		}
		if global != nil {
			row.GlobalRelationshipID = &global.ID
			existing, err := repo.FindModelRow(ctx, modelID, global.ID)
			if err != nil {
				return err
			}
			resolved, created := resolveDeclaredRow(existing, row)
			if !created {
				// Idempotent redeclaration.
				result = resolved
				return nil
			}
		}
		if err := repo.CreateModelRow(ctx, row); err != nil {
			return err
		}
		result = row

		if global == nil {
			return nil
		}
		return s.propagate(ctx, tx, repo, orepo, modelID, global, params.Type, params.RelationshipLevel)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ensureGlobal resolves canonical attribute ids and finds or creates the
// canonical relationship for the dedup key.
func (s *Service) ensureGlobal(ctx context.Context, tx bun.Tx, repo *Repository, source, target *objects.ModelObject, params DeclareParams) (*GlobalRelationship, error) {
	orepo := s.objects.WithTx(tx)

	var srcAttr, tgtAttr *uuid.UUID
	if params.RelationshipLevel == LevelAttribute {
		sa, err := orepo.GetModelAttributeByID(ctx, *params.SourceAttributeID)
		if err != nil {
			return nil, err
		}
		ta, err := orepo.GetModelAttributeByID(ctx, *params.TargetAttributeID)
		if err != nil {
			return nil, err
		}
		srcAttr = sa.AttributeID
		tgtAttr = ta.AttributeID
	}

	key := BuildKey(*source.ObjectID, *target.ObjectID, params.RelationshipLevel, srcAttr, tgtAttr)
	global, err := repo.FindGlobalByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	if global != nil {
		return global, nil
	}

	global = &GlobalRelationship{
		SourceObjectID:    key.SourceObjectID,
		TargetObjectID:    key.TargetObjectID,
		Type:              params.Type,
		RelationshipLevel: key.Level,
		SourceAttributeID: key.SourceAttrID,
		TargetAttributeID: key.TargetAttrID,
		Name:              params.Name,
		Description:       params.Description,
	}
	if err := repo.CreateGlobal(ctx, global); err != nil {
		return nil, err
	}
	return global, nil
}

// resolveDeclaredRow decides what a declaration yields on one canvas:
// the already present row for the same canonical relationship, or the
// freshly built one.
func resolveDeclaredRow(existing, fresh *ModelRelationship) (*ModelRelationship, bool) {
	if existing != nil {
		return existing, false
	}
	return fresh, true
}

// buildSiblingRow builds the model-local row rendering a canonical
// relationship in one sibling layer. Returns false when the layer must be
// skipped: a counterpart projection is missing, or the row is
// attribute-level and either attribute projection is unresolved. A
// half-resolved attribute edge would break the lower-layer canvases, which
// show attribute-level edges with both ids present.
func buildSiblingRow(global *GlobalRelationship, relType, level string, modelID uuid.UUID, source, target *objects.ModelObject, srcAttr, tgtAttr *objects.ModelAttribute) (*ModelRelationship, bool) {
	if source == nil || target == nil {
		return nil, false
	}
	row := &ModelRelationship{
		ModelID:              modelID,
		SourceModelObjectID:  source.ID,
		TargetModelObjectID:  target.ID,
		Type:                 relType,
		RelationshipLevel:    level,
		GlobalRelationshipID: &global.ID,
	}
	if level == LevelAttribute {
		if srcAttr == nil || tgtAttr == nil {
			return nil, false
		}
		row.SourceAttributeID = &srcAttr.ID
		row.TargetAttributeID = &tgtAttr.ID
	}
	return row, true
}

// propagate creates model-local rows for the global relationship in every
// sibling layer where both ends have counterpart projections. Attribute
// projection ids are resolved per layer; a missing counterpart skips the
// layer with a log line.
func (s *Service) propagate(ctx context.Context, tx bun.Tx, repo *Repository, orepo *objects.Repository, originModelID uuid.UUID, global *GlobalRelationship, relType, level string) error {
	mrepo := s.models.WithTx(tx)
	all, err := mrepo.ListAll(ctx)
	if err != nil {
		return err
	}
	family, err := models.BuildFamily(all, originModelID)
	if err != nil {
		return err
	}

	for _, layer := range models.Layers {
		m := family.ForLayer(layer)
		if m == nil || m.ID == originModelID {
			continue
		}
		existing, err := repo.FindModelRow(ctx, m.ID, global.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}

		source, err := orepo.GetProjectionByObject(ctx, m.ID, global.SourceObjectID)
		if err != nil {
			return err
		}
		target, err := orepo.GetProjectionByObject(ctx, m.ID, global.TargetObjectID)
		if err != nil {
			return err
		}

		// Local attribute projection ids differ per layer.
		var srcAttr, tgtAttr *objects.ModelAttribute
		if level == LevelAttribute && source != nil && target != nil {
			if global.SourceAttributeID != nil {
				if srcAttr, err = orepo.GetModelAttributeByAttribute(ctx, source.ID, *global.SourceAttributeID); err != nil {
					return err
				}
			}
			if global.TargetAttributeID != nil {
				if tgtAttr, err = orepo.GetModelAttributeByAttribute(ctx, target.ID, *global.TargetAttributeID); err != nil {
					return err
				}
			}
		}

		row, ok := buildSiblingRow(global, relType, level, m.ID, source, target, srcAttr, tgtAttr)
		if !ok {
			s.log.Info("skipping relationship propagation, counterpart missing",
				slog.String("modelId", m.ID.String()),
				slog.String("layer", layer),
				slog.String("globalRelationshipId", global.ID.String()))
			continue
		}
		if err := repo.CreateModelRow(ctx, row); err != nil {
			return err
		}
	}
	return nil
}

// UpdateParams defines mutable relationship fields. Type changes apply to
// the canonical row and every model-local row rendering it. Endpoints are
// immutable; the ids are bound here only so a request carrying them is
// rejected instead of silently ignored.
type UpdateParams struct {
	Type        *string `json:"type"`
	Name        *string `json:"name"`
	Description *string `json:"description"`

	SourceModelObjectID *uuid.UUID `json:"sourceModelObjectId"`
	TargetModelObjectID *uuid.UUID `json:"targetModelObjectId"`
	SourceAttributeID   *uuid.UUID `json:"sourceAttributeId"`
	TargetAttributeID   *uuid.UUID `json:"targetAttributeId"`
}

func (p UpdateParams) validate() error {
	if p.SourceModelObjectID != nil || p.TargetModelObjectID != nil ||
		p.SourceAttributeID != nil || p.TargetAttributeID != nil {
		return apperror.NewValidation("relationship endpoints cannot be changed, delete and redeclare instead", nil)
	}
	if p.Type != nil && !IsValidType(*p.Type) {
		return apperror.NewValidation("invalid relationship type", nil)
	}
	return nil
}

// Update updates a relationship through one of its model-local rows.
func (s *Service) Update(ctx context.Context, modelRowID uuid.UUID, params UpdateParams) (*ModelRelationship, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	var result *ModelRelationship
	err := database.RunInTx(ctx, s.db, func(ctx context.Context, tx bun.Tx) error {
		repo := s.repo.WithTx(tx)
		row, err := repo.GetModelRowByID(ctx, modelRowID)
		if err != nil {
			return err
		}

		if params.Type != nil {
			row.Type = *params.Type
		}
		if err := repo.UpdateModelRow(ctx, row); err != nil {
			return err
		}

		if row.GlobalRelationshipID != nil {
			global, err := repo.GetGlobalByID(ctx, *row.GlobalRelationshipID)
			if err != nil {
				return err
			}
			if params.Type != nil {
				global.Type = *params.Type
			}
			if params.Name != nil {
				global.Name = params.Name
			}
			if params.Description != nil {
				global.Description = params.Description
			}
			if err := repo.UpdateGlobal(ctx, global); err != nil {
				return err
			}
			if params.Type != nil {
				// Keep sibling rows in step with the canonical type.
				if _, err := tx.NewUpdate().
					Model((*ModelRelationship)(nil)).
					Set("type = ?", *params.Type).
					Set("updated_at = now()").
					Where("global_relationship_id = ?", global.ID).
					Exec(ctx); err != nil {
					return apperror.ErrDatabase.WithInternal(err)
				}
			}
		}

		result = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Delete removes a model-local relationship row. The canonical row stays
// untouched unless pruneGlobal is set and no other canvas references it
// anymore; pruning is the caller's call, never automatic.
func (s *Service) Delete(ctx context.Context, modelRowID uuid.UUID, pruneGlobal bool) error {
	return database.RunInTx(ctx, s.db, func(ctx context.Context, tx bun.Tx) error {
		repo := s.repo.WithTx(tx)
		row, err := repo.GetModelRowByID(ctx, modelRowID)
		if err != nil {
			return err
		}
		if err := repo.DeleteModelRow(ctx, row.ID); err != nil {
			return err
		}
		if row.GlobalRelationshipID == nil || !pruneGlobal {
			return nil
		}
		n, err := repo.CountModelRows(ctx, *row.GlobalRelationshipID)
		if err != nil {
			return err
		}
		if n == 0 {
			return repo.DeleteGlobal(ctx, *row.GlobalRelationshipID)
		}
		return nil
	})
}

// DeleteGlobal removes a canonical relationship from every canvas.
func (s *Service) DeleteGlobal(ctx context.Context, id uuid.UUID) error {
	return database.RunInTx(ctx, s.db, func(ctx context.Context, tx bun.Tx) error {
		return s.repo.WithTx(tx).DeleteGlobal(ctx, id)
	})
}

// Canvas is a model's full diagram payload: the model, its projections as
// nodes, and its layer-filtered relationships as edges.
type Canvas struct {
	Model *models.DataModel      `json:"model"`
	Nodes []*objects.ModelObject `json:"nodes"`
	Edges []*ModelRelationship   `json:"edges"`
}

// BuildCanvas assembles the canvas payload for a model. An empty layer
// means the model's own; a non-empty one overrides the edge filter.
func (s *Service) BuildCanvas(ctx context.Context, modelID uuid.UUID, layer string) (*Canvas, error) {
	if layer != "" && !models.IsValidLayer(layer) {
		return nil, apperror.NewBadRequest("invalid layer")
	}
	model, err := s.models.GetByID(ctx, modelID)
	if err != nil {
		return nil, err
	}
	if layer == "" {
		layer = model.Layer
	}
	nodes, err := s.objects.ListProjections(ctx, modelID)
	if err != nil {
		return nil, err
	}
	edges, err := s.repo.ListByModel(ctx, modelID)
	if err != nil {
		return nil, err
	}
	return &Canvas{
		Model: model,
		Nodes: nodes,
		Edges: FilterForLayer(edges, layer),
	}, nil
}
