package taxonomy

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

// Repository handles database operations for domains and areas.
type Repository struct {
	db  bun.IDB
	log *slog.Logger
}

// NewRepository creates a new taxonomy repository.
func NewRepository(db bun.IDB, log *slog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With(logger.Scope("taxonomy.repo")),
	}
}

// ListDomains returns all domains, optionally with their areas.
func (r *Repository) ListDomains(ctx context.Context, withAreas bool) ([]*DataDomain, error) {
	var domains []*DataDomain
	q := r.db.NewSelect().
		Model(&domains).
		Order("name ASC")
	if withAreas {
		q = q.Relation("Areas")
	}
	if err := q.Scan(ctx); err != nil {
		return nil, apperror.ErrDatabase.WithInternal(err)
	}
	return domains, nil
}

// GetDomain returns a domain by ID with its areas.
func (r *Repository) GetDomain(ctx context.Context, id uuid.UUID) (*DataDomain, error) {
	domain := &DataDomain{}
	err := r.db.NewSelect().
		Model(domain).
		Relation("Areas").
		Where("d.id = ?", id).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NewNotFound("data domain", id.String())
	}
	if err != nil {
		return nil, apperror.ErrDatabase.WithInternal(err)
	}
	return domain, nil
}

// CreateDomain inserts a new domain.
func (r *Repository) CreateDomain(ctx context.Context, domain *DataDomain) error {
	_, err := r.db.NewInsert().
		Model(domain).
		Returning("*").
		Exec(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.NewConflict("a domain with this name already exists")
		}
		return apperror.ErrDatabase.WithInternal(err)
	}
	return nil
}

// UpdateDomain updates an existing domain.
func (r *Repository) UpdateDomain(ctx context.Context, domain *DataDomain) error {
	res, err := r.db.NewUpdate().
		Model(domain).
		WherePK().
		Set("updated_at = now()").
		Returning("*").
		Exec(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.NewConflict("a domain with this name already exists")
		}
		return apperror.ErrDatabase.WithInternal(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.NewNotFound("data domain", domain.ID.String())
	}
	return nil
}

// DeleteDomain removes a domain and, via FK cascade, its areas.
func (r *Repository) DeleteDomain(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.NewDelete().
		Model((*DataDomain)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return apperror.ErrDatabase.WithInternal(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.NewNotFound("data domain", id.String())
	}
	return nil
}

// ListAreas returns areas, optionally filtered by domain.
func (r *Repository) ListAreas(ctx context.Context, domainID *uuid.UUID) ([]*DataArea, error) {
	var areas []*DataArea
	q := r.db.NewSelect().
		Model(&areas).
		Order("name ASC")
	if domainID != nil {
		q = q.Where("domain_id = ?", *domainID)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, apperror.ErrDatabase.WithInternal(err)
	}
	return areas, nil
}

// GetArea returns an area by ID.
func (r *Repository) GetArea(ctx context.Context, id uuid.UUID) (*DataArea, error) {
	area := &DataArea{}
	err := r.db.NewSelect().
		Model(area).
		Where("da.id = ?", id).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NewNotFound("data area", id.String())
	}
	if err != nil {
		return nil, apperror.ErrDatabase.WithInternal(err)
	}
	return area, nil
}

// CreateArea inserts a new area under a domain.
func (r *Repository) CreateArea(ctx context.Context, area *DataArea) error {
	_, err := r.db.NewInsert().
		Model(area).
		Returning("*").
		Exec(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.NewConflict("an area with this name already exists in the domain")
		}
		if isForeignKeyViolation(err) {
			return apperror.NewBadRequest("referenced domain does not exist")
		}
		return apperror.ErrDatabase.WithInternal(err)
	}
	return nil
}

// UpdateArea updates an existing area.
func (r *Repository) UpdateArea(ctx context.Context, area *DataArea) error {
	res, err := r.db.NewUpdate().
		Model(area).
		WherePK().
		Set("updated_at = now()").
		Returning("*").
		Exec(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.NewConflict("an area with this name already exists in the domain")
		}
		return apperror.ErrDatabase.WithInternal(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.NewNotFound("data area", area.ID.String())
	}
	return nil
}

// DeleteArea removes an area.
func (r *Repository) DeleteArea(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.NewDelete().
		Model((*DataArea)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return apperror.ErrDatabase.WithInternal(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.NewNotFound("data area", id.String())
	}
	return nil
}

func isUniqueViolation(err error) bool {
	return containsErrorCode(err, "23505")
}

func isForeignKeyViolation(err error) bool {
	return containsErrorCode(err, "23503")
}

func containsErrorCode(err error, code string) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, code) || strings.Contains(errStr, "SQLSTATE "+code)
}
