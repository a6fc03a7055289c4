package capabilities

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/strata-studio/strata/pkg/apperror"
	"github.com/strata-studio/strata/pkg/logger"
)

// Service handles business logic for the capability hierarchy.
type Service struct {
	repo *Repository
	log  *slog.Logger
}

// NewService creates a new capabilities service.
func NewService(repo *Repository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log.With(logger.Scope("capabilities.svc")),
	}
}

// Tree returns the capability forest.
func (s *Service) Tree(ctx context.Context) ([]*BusinessCapability, error) {
	flat, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return BuildTree(flat), nil
}

// GetByID returns a capability.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*BusinessCapability, error) {
	return s.repo.GetByID(ctx, id)
}

// CreateParams defines input for creating a capability.
type CreateParams struct {
	Name        string     `json:"name"`
	ParentID    *uuid.UUID `json:"parentId"`
	Description *string    `json:"description"`
	SortOrder   int        `json:"sortOrder"`
}

// Create creates a capability.
func (s *Service) Create(ctx context.Context, params CreateParams) (*BusinessCapability, error) {
	if strings.TrimSpace(params.Name) == "" {
		return nil, apperror.NewValidation("capability name is required", nil)
	}
	capability := &BusinessCapability{
		Name:        strings.TrimSpace(params.Name),
		ParentID:    params.ParentID,
		Description: params.Description,
		SortOrder:   params.SortOrder,
	}
	if err := s.repo.Create(ctx, capability); err != nil {
		return nil, err
	}
	return capability, nil
}

// UpdateParams defines input for updating a capability.
type UpdateParams struct {
	Name        *string    `json:"name"`
	ParentID    *uuid.UUID `json:"parentId"`
	Description *string    `json:"description"`
	SortOrder   *int       `json:"sortOrder"`
}

// Update updates a capability. Reparenting under itself is rejected.
func (s *Service) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (*BusinessCapability, error) {
	capability, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if params.Name != nil {
		if strings.TrimSpace(*params.Name) == "" {
			return nil, apperror.NewValidation("capability name cannot be empty", nil)
		}
		capability.Name = strings.TrimSpace(*params.Name)
	}
	if params.ParentID != nil {
		if *params.ParentID == id {
			return nil, apperror.NewValidation("capability cannot be its own parent", nil)
		}
		capability.ParentID = params.ParentID
	}
	if params.Description != nil {
		capability.Description = params.Description
	}
	if params.SortOrder != nil {
		capability.SortOrder = *params.SortOrder
	}
	if err := s.repo.Update(ctx, capability); err != nil {
		return nil, err
	}
	return capability, nil
}

// Delete removes a capability and its subtree.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// ListMappings returns a capability's mappings.
func (s *Service) ListMappings(ctx context.Context, capabilityID uuid.UUID, targetKind *string) ([]*CapabilityMapping, error) {
	if _, err := s.repo.GetByID(ctx, capabilityID); err != nil {
		return nil, err
	}
	if targetKind != nil && !IsValidTargetKind(*targetKind) {
		return nil, apperror.NewValidation("invalid target kind", nil)
	}
	return s.repo.ListMappings(ctx, capabilityID, targetKind)
}

// MappingParams defines input for creating a mapping.
type MappingParams struct {
	TargetKind     string         `json:"targetKind"`
	TargetID       uuid.UUID      `json:"targetId"`
	Owner          *string        `json:"owner"`
	RiskLevel      *string        `json:"riskLevel"`
	LifecyclePhase *string        `json:"lifecyclePhase"`
	Metadata       map[string]any `json:"metadata"`
}

// CreateMapping links a capability to a target.
func (s *Service) CreateMapping(ctx context.Context, capabilityID uuid.UUID, params MappingParams) (*CapabilityMapping, error) {
	if !IsValidTargetKind(params.TargetKind) {
		return nil, apperror.NewValidation("invalid target kind", nil)
	}
	if params.TargetID == uuid.Nil {
		return nil, apperror.NewValidation("targetId is required", nil)
	}
	if _, err := s.repo.GetByID(ctx, capabilityID); err != nil {
		return nil, err
	}
	m := &CapabilityMapping{
		CapabilityID:   capabilityID,
		TargetKind:     params.TargetKind,
		TargetID:       params.TargetID,
		Owner:          params.Owner,
		RiskLevel:      params.RiskLevel,
		LifecyclePhase: params.LifecyclePhase,
		Metadata:       params.Metadata,
	}
	if m.Metadata == nil {
		m.Metadata = map[string]any{}
	}
	if err := s.repo.CreateMapping(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// UpdateMappingParams defines input for updating a mapping's annotations.
type UpdateMappingParams struct {
	Owner          *string        `json:"owner"`
	RiskLevel      *string        `json:"riskLevel"`
	LifecyclePhase *string        `json:"lifecyclePhase"`
	Metadata       map[string]any `json:"metadata"`
}

// UpdateMapping updates a mapping's annotations. The target itself is
// immutable; remap by deleting and recreating.
func (s *Service) UpdateMapping(ctx context.Context, id uuid.UUID, params UpdateMappingParams) (*CapabilityMapping, error) {
	m, err := s.repo.GetMappingByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if params.Owner != nil {
		m.Owner = params.Owner
	}
	if params.RiskLevel != nil {
		m.RiskLevel = params.RiskLevel
	}
	if params.LifecyclePhase != nil {
		m.LifecyclePhase = params.LifecyclePhase
	}
	if params.Metadata != nil {
		m.Metadata = params.Metadata
	}
	if err := s.repo.UpdateMapping(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// DeleteMapping removes a mapping.
func (s *Service) DeleteMapping(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteMapping(ctx, id)
}
