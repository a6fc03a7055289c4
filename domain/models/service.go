package models

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/strata-studio/strata/domain/systems"
	"github.com/strata-studio/strata/internal/config"
	"github.com/strata-studio/strata/internal/database"
	"github.com/strata-studio/strata/pkg/apperror"
	"github.com/strata-studio/strata/pkg/logger"
)

// TemplateSeeder instantiates a template pack's objects and attributes into
// every layer of a freshly created family. Implemented by the objects
// domain and wired through an adapter to avoid a circular dependency
// (models -> objects -> models).
type TemplateSeeder interface {
	SeedTemplate(ctx context.Context, tx bun.Tx, family *ModelFamily, pack *TemplatePack) error
}

// Service handles business logic for data models and their families.
type Service struct {
	repo    *Repository
	systems *systems.Repository
	db      bun.IDB
	cfg     *config.Config
	log     *slog.Logger

	seeder TemplateSeeder
}

// NewService creates a new models service.
func NewService(repo *Repository, systemsRepo *systems.Repository, db bun.IDB, cfg *config.Config, log *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		systems: systemsRepo,
		db:      db,
		cfg:     cfg,
		log:     log.With(logger.Scope("models.svc")),
	}
}

// SetTemplateSeeder wires the template seeder after construction.
func (s *Service) SetTemplateSeeder(seeder TemplateSeeder) {
	s.seeder = seeder
}

// List returns models matching the given filters.
func (s *Service) List(ctx context.Context, params ListParams) ([]*DataModel, error) {
	return s.repo.List(ctx, params)
}

// GetByID returns a model by ID.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*DataModel, error) {
	return s.repo.GetByID(ctx, id)
}

// ResolveFamily loads all models once and resolves the family containing
// modelID.
func (s *Service) ResolveFamily(ctx context.Context, modelID uuid.UUID) (*ModelFamily, error) {
	all, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return BuildFamily(all, modelID)
}

// CreateWithLayersParams defines input for creating a model family.
type CreateWithLayersParams struct {
	Name           string     `json:"name"`
	TargetSystemID *uuid.UUID `json:"targetSystemId"`
	DomainID       *uuid.UUID `json:"domainId"`
	DataAreaID     *uuid.UUID `json:"dataAreaId"`
}

// CreateWithLayers creates the conceptual, logical, and physical models of
// a new family in one transaction. When a template pack exists for the
// target system, its objects and attributes are seeded into all three
// layers inside the same transaction, so a failed seed leaves nothing
// behind.
func (s *Service) CreateWithLayers(ctx context.Context, params CreateWithLayersParams) (*ModelFamily, error) {
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, apperror.NewValidation("missing required fields", map[string]any{"name": "is required"})
	}

	var pack *TemplatePack
	if params.TargetSystemID != nil {
		system, err := s.systems.GetByID(ctx, *params.TargetSystemID)
		if err != nil {
			return nil, apperror.NewBadRequest("referenced target system does not exist")
		}
		pack, err = LoadTemplatePack(s.cfg.Templates.Dir, system.Name)
		if err != nil {
			s.log.Warn("template pack load failed, creating without seed",
				slog.String("system", system.Name),
				logger.Error(err))
			pack = nil
		}
	}

	family := &ModelFamily{}
	err := database.RunInTx(ctx, s.db, func(ctx context.Context, tx bun.Tx) error {
		repo := s.repo.WithTx(tx)

		conceptual := &DataModel{
			Name:           name,
			Layer:          LayerConceptual,
			TargetSystemID: params.TargetSystemID,
			DomainID:       params.DomainID,
			DataAreaID:     params.DataAreaID,
		}
		if err := repo.Create(ctx, conceptual); err != nil {
			return err
		}

		logical := &DataModel{
			Name:           name,
			Layer:          LayerLogical,
			ParentModelID:  &conceptual.ID,
			TargetSystemID: params.TargetSystemID,
			DomainID:       params.DomainID,
			DataAreaID:     params.DataAreaID,
		}
		if err := repo.Create(ctx, logical); err != nil {
			return err
		}

		physical := &DataModel{
			Name:           name,
			Layer:          LayerPhysical,
			ParentModelID:  &conceptual.ID,
			TargetSystemID: params.TargetSystemID,
			DomainID:       params.DomainID,
			DataAreaID:     params.DataAreaID,
		}
		if err := repo.Create(ctx, physical); err != nil {
			return err
		}

		family.Conceptual = conceptual
		family.Logical = logical
		family.Physical = physical

		if pack != nil && s.seeder != nil {
			if err := s.seeder.SeedTemplate(ctx, tx, family, pack); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("model family created",
		slog.String("name", name),
		slog.String("conceptual_id", family.Conceptual.ID.String()),
		slog.Bool("seeded", pack != nil))

	return family, nil
}

// UpdateParams defines input for updating a model.
type UpdateParams struct {
	Name           *string    `json:"name"`
	TargetSystemID *uuid.UUID `json:"targetSystemId"`
	DomainID       *uuid.UUID `json:"domainId"`
	DataAreaID     *uuid.UUID `json:"dataAreaId"`
}

// Update applies a partial update to a model. Layer and parent are
// immutable; renames apply to the single layer model only.
func (s *Service) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (*DataModel, error) {
	model, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Name != nil {
		name := strings.TrimSpace(*params.Name)
		if name == "" {
			return nil, apperror.NewValidation("invalid fields", map[string]any{"name": "must not be empty"})
		}
		model.Name = name
	}
	if params.TargetSystemID != nil {
		model.TargetSystemID = params.TargetSystemID
	}
	if params.DomainID != nil {
		model.DomainID = params.DomainID
	}
	if params.DataAreaID != nil {
		model.DataAreaID = params.DataAreaID
	}

	if err := s.repo.Update(ctx, model); err != nil {
		return nil, err
	}
	return model, nil
}

// Delete removes a model and everything scoped to it. Deleting a
// conceptual root removes the whole family through the parent FK cascade.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("model deleted", slog.String("model_id", id.String()))
	return nil
}

// ListPhases returns the ordered lifecycle phases.
func (s *Service) ListPhases(ctx context.Context) ([]*LifecyclePhase, error) {
	return s.repo.ListPhases(ctx)
}

// ListAssignments returns the lifecycle assignments of a model.
func (s *Service) ListAssignments(ctx context.Context, modelID uuid.UUID) ([]*LifecycleAssignment, error) {
	if _, err := s.repo.GetByID(ctx, modelID); err != nil {
		return nil, err
	}
	return s.repo.ListAssignments(ctx, modelID)
}

// AssignPhaseParams defines input for assigning a lifecycle phase.
type AssignPhaseParams struct {
	Phase      string  `json:"phase"`
	Status     *string `json:"status"`
	ApprovedBy *string `json:"approvedBy"`
	Notes      *string `json:"notes"`
}

// AssignPhase creates or updates a model's assignment for a phase.
func (s *Service) AssignPhase(ctx context.Context, modelID uuid.UUID, params AssignPhaseParams) (*LifecycleAssignment, error) {
	if strings.TrimSpace(params.Phase) == "" {
		return nil, apperror.NewValidation("missing required fields", map[string]any{"phase": "is required"})
	}

	if _, err := s.repo.GetByID(ctx, modelID); err != nil {
		return nil, err
	}
	phase, err := s.repo.GetPhaseByName(ctx, params.Phase)
	if err != nil {
		return nil, err
	}

	assignment := &LifecycleAssignment{
		ModelID:    modelID,
		PhaseID:    phase.ID,
		Status:     "pending",
		ApprovedBy: params.ApprovedBy,
		Notes:      params.Notes,
	}
	if params.Status != nil {
		assignment.Status = *params.Status
	}

	if err := s.repo.UpsertAssignment(ctx, assignment); err != nil {
		return nil, err
	}
	assignment.Phase = phase
	return assignment, nil
}
