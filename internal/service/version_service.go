package service

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/google/uuid"
	"github.com/pixcore/pixcore-api/internal/domain"
	"github.com/pixcore/pixcore-api/internal/store"
)

// VersionService exposes the version-management operations the generation
// core's collaborator surface requires: lookup, listing, promotion and
// guarded deletion.
type VersionService struct {
	db       *sql.DB
	versions store.VersionStore
	logger   *slog.Logger
}

// NewVersionService creates a VersionService.
func NewVersionService(db *sql.DB, versions store.VersionStore, logger *slog.Logger) *VersionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &VersionService{
		db:       db,
		versions: versions,
		logger:   logger.With(slog.String("component", "version_service")),
	}
}

// GetVersion retrieves a version by id.
func (s *VersionService) GetVersion(ctx context.Context, id uuid.UUID) (*domain.Version, error) {
	return s.versions.GetByID(ctx, id)
}

// ListByShot retrieves a shot's versions, newest first.
func (s *VersionService) ListByShot(ctx context.Context, shotID int64) ([]*domain.Version, error) {
	return s.versions.ListByShot(ctx, shotID)
}

// SetPrimary promotes a version to the shot's primary version. The flag
// swap runs in a transaction so the at-most-one-primary invariant holds at
// every observable point.
func (s *VersionService) SetPrimary(ctx context.Context, id uuid.UUID) (*domain.Version, error) {
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.versions.WithTx(tx).SetPrimary(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return s.versions.GetByID(ctx, id)
}

// DeleteVersion deletes a version. Deleting the primary version is
// rejected with store.ErrPrimaryVersion.
func (s *VersionService) DeleteVersion(ctx context.Context, id uuid.UUID) error {
	return s.versions.Delete(ctx, id)
}
