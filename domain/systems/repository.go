package systems

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

// Repository handles database operations for systems.
type Repository struct {
	db  bun.IDB
	log *slog.Logger
}

// NewRepository creates a new systems repository.
func NewRepository(db bun.IDB, log *slog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With(logger.Scope("systems.repo")),
	}
}

// List returns all systems ordered by name.
func (r *Repository) List(ctx context.Context) ([]*System, error) {
	var systems []*System
	err := r.db.NewSelect().
		Model(&systems).
		Order("name ASC").
		Scan(ctx)
	if err != nil {
		return nil, apperror.ErrDatabase.WithInternal(err)
	}
	return systems, nil
}

// GetByID returns a system by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*System, error) {
	system := &System{}
	err := r.db.NewSelect().
		Model(system).
		Where("s.id = ?", id).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NewNotFound("system", id.String())
	}
	if err != nil {
		return nil, apperror.ErrDatabase.WithInternal(err)
	}
	return system, nil
}

// Create inserts a new system.
func (r *Repository) Create(ctx context.Context, system *System) error {
	_, err := r.db.NewInsert().
		Model(system).
		Returning("*").
		Exec(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.NewConflict("a system with this name already exists")
		}
		return apperror.ErrDatabase.WithInternal(err)
	}
	return nil
}

// Update updates an existing system.
func (r *Repository) Update(ctx context.Context, system *System) error {
	res, err := r.db.NewUpdate().
		Model(system).
		WherePK().
		Set("updated_at = now()").
		Returning("*").
		Exec(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.NewConflict("a system with this name already exists")
		}
		return apperror.ErrDatabase.WithInternal(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.NewNotFound("system", system.ID.String())
	}
	return nil
}

// Delete removes a system.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.NewDelete().
		Model((*System)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return apperror.ErrDatabase.WithInternal(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.NewNotFound("system", id.String())
	}
	return nil
}

// isUniqueViolation reports whether err is a Postgres unique-constraint error.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "23505")
}
