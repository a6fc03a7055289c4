package taxonomy

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/strata-studio/strata/pkg/apperror"
	"github.com/strata-studio/strata/pkg/logger"
)

// Service handles business logic for the domain/area taxonomy.
type Service struct {
	repo *Repository
	log  *slog.Logger
}

// NewService creates a new taxonomy service.
func NewService(repo *Repository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log.With(logger.Scope("taxonomy.svc")),
	}
}

// DomainParams defines input for creating or updating a domain.
type DomainParams struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

// AreaParams defines input for creating or updating an area.
type AreaParams struct {
	DomainID    uuid.UUID `json:"domainId"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
}

// ListDomains returns all domains with their areas.
func (s *Service) ListDomains(ctx context.Context) ([]*DataDomain, error) {
	return s.repo.ListDomains(ctx, true)
}

// GetDomain returns a domain by ID.
func (s *Service) GetDomain(ctx context.Context, id uuid.UUID) (*DataDomain, error) {
	return s.repo.GetDomain(ctx, id)
}

// CreateDomain validates and creates a domain.
func (s *Service) CreateDomain(ctx context.Context, params DomainParams) (*DataDomain, error) {
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, apperror.NewValidation("missing required fields", map[string]any{"name": "is required"})
	}

	domain := &DataDomain{Name: name, Description: params.Description}
	if err := s.repo.CreateDomain(ctx, domain); err != nil {
		return nil, err
	}

	s.log.Info("domain created", slog.String("domain_id", domain.ID.String()), slog.String("name", domain.Name))
	return domain, nil
}

// UpdateDomain applies changes to a domain.
func (s *Service) UpdateDomain(ctx context.Context, id uuid.UUID, params DomainParams) (*DataDomain, error) {
	domain, err := s.repo.GetDomain(ctx, id)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(params.Name); name != "" {
		domain.Name = name
	}
	if params.Description != nil {
		domain.Description = params.Description
	}
	domain.Areas = nil

	if err := s.repo.UpdateDomain(ctx, domain); err != nil {
		return nil, err
	}
	return domain, nil
}

// DeleteDomain removes a domain and its areas.
func (s *Service) DeleteDomain(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteDomain(ctx, id)
}

// ListAreas returns areas, optionally filtered by domain.
func (s *Service) ListAreas(ctx context.Context, domainID *uuid.UUID) ([]*DataArea, error) {
	return s.repo.ListAreas(ctx, domainID)
}

// GetArea returns an area by ID.
func (s *Service) GetArea(ctx context.Context, id uuid.UUID) (*DataArea, error) {
	return s.repo.GetArea(ctx, id)
}

// CreateArea validates and creates an area under a domain.
func (s *Service) CreateArea(ctx context.Context, params AreaParams) (*DataArea, error) {
	fields := map[string]any{}
	if strings.TrimSpace(params.Name) == "" {
		fields["name"] = "is required"
	}
	if params.DomainID == uuid.Nil {
		fields["domainId"] = "is required"
	}
	if len(fields) > 0 {
		return nil, apperror.NewValidation("missing required fields", fields)
	}

	area := &DataArea{
		DomainID:    params.DomainID,
		Name:        strings.TrimSpace(params.Name),
		Description: params.Description,
	}
	if err := s.repo.CreateArea(ctx, area); err != nil {
		return nil, err
	}

	s.log.Info("area created",
		slog.String("area_id", area.ID.String()),
		slog.String("domain_id", area.DomainID.String()))
	return area, nil
}

// UpdateArea applies changes to an area. The owning domain cannot change.
func (s *Service) UpdateArea(ctx context.Context, id uuid.UUID, params AreaParams) (*DataArea, error) {
	area, err := s.repo.GetArea(ctx, id)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(params.Name); name != "" {
		area.Name = name
	}
	if params.Description != nil {
		area.Description = params.Description
	}

	if err := s.repo.UpdateArea(ctx, area); err != nil {
		return nil, err
	}
	return area, nil
}

// DeleteArea removes an area.
func (s *Service) DeleteArea(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteArea(ctx, id)
}
