package systems

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/strata-studio/strata/pkg/apperror"
	"github.com/strata-studio/strata/pkg/logger"
)

// Service handles business logic for systems.
type Service struct {
	repo *Repository
	log  *slog.Logger
}

// NewService creates a new systems service.
func NewService(repo *Repository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log.With(logger.Scope("systems.svc")),
	}
}

// CreateParams defines input for creating a system.
type CreateParams struct {
	Name        string         `json:"name"`
	Category    *string        `json:"category"`
	Type        *string        `json:"type"`
	CanBeSource *bool          `json:"canBeSource"`
	CanBeTarget *bool          `json:"canBeTarget"`
	Connection  map[string]any `json:"connection"`
	Status      *string        `json:"status"`
}

// List returns all systems.
func (s *Service) List(ctx context.Context) ([]*System, error) {
	return s.repo.List(ctx)
}

// GetByID returns a system by ID.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*System, error) {
	return s.repo.GetByID(ctx, id)
}

// Create validates and creates a system.
func (s *Service) Create(ctx context.Context, params CreateParams) (*System, error) {
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, apperror.NewValidation("missing required fields", map[string]any{"name": "is required"})
	}

	system := &System{
		Name:        name,
		Category:    params.Category,
		Type:        params.Type,
		CanBeSource: true,
		CanBeTarget: true,
		Connection:  params.Connection,
		Status:      "active",
	}
	if params.CanBeSource != nil {
		system.CanBeSource = *params.CanBeSource
	}
	if params.CanBeTarget != nil {
		system.CanBeTarget = *params.CanBeTarget
	}
	if params.Status != nil {
		system.Status = *params.Status
	}
	if system.Connection == nil {
		system.Connection = map[string]any{}
	}

	if err := s.repo.Create(ctx, system); err != nil {
		return nil, err
	}

	s.log.Info("system created",
		slog.String("system_id", system.ID.String()),
		slog.String("name", system.Name))

	return system, nil
}

// UpdateParams defines input for updating a system.
type UpdateParams struct {
	Name        *string        `json:"name"`
	Category    *string        `json:"category"`
	Type        *string        `json:"type"`
	CanBeSource *bool          `json:"canBeSource"`
	CanBeTarget *bool          `json:"canBeTarget"`
	Connection  map[string]any `json:"connection"`
	Status      *string        `json:"status"`
}

// Update applies a partial update to a system.
func (s *Service) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (*System, error) {
	system, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Name != nil {
		name := strings.TrimSpace(*params.Name)
		if name == "" {
			return nil, apperror.NewValidation("invalid fields", map[string]any{"name": "must not be empty"})
		}
		system.Name = name
	}
	if params.Category != nil {
		system.Category = params.Category
	}
	if params.Type != nil {
		system.Type = params.Type
	}
	if params.CanBeSource != nil {
		system.CanBeSource = *params.CanBeSource
	}
	if params.CanBeTarget != nil {
		system.CanBeTarget = *params.CanBeTarget
	}
	if params.Connection != nil {
		system.Connection = params.Connection
	}
	if params.Status != nil {
		system.Status = *params.Status
	}

	if err := s.repo.Update(ctx, system); err != nil {
		return nil, err
	}
	return system, nil
}

// Delete removes a system.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("system deleted", slog.String("system_id", id.String()))
	return nil
}
