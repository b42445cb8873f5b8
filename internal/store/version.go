package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/pixcore/pixcore-api/internal/domain"
)

// VersionStore defines the interface for persisting shot versions.
type VersionStore interface {
	// Create saves a new version to the store.
	// Returns ErrInvalidEntity if the referenced shot does not exist.
	Create(ctx context.Context, version *domain.Version) error

	// GetByID retrieves a version by its unique ID.
	// Returns ErrVersionNotFound if the version does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Version, error)

	// ListByShot retrieves all versions for a shot, newest first.
	ListByShot(ctx context.Context, shotID int64) ([]*domain.Version, error)

	// CountByShot returns the number of versions persisted for a shot.
	CountByShot(ctx context.Context, shotID int64) (int, error)

	// SetPrimary marks the version as the shot's primary version, clearing
	// the flag on every other version of the same shot.
	// Returns ErrVersionNotFound if the version does not exist.
	SetPrimary(ctx context.Context, id uuid.UUID) error

	// Delete removes a version.
	// Returns ErrVersionNotFound if the version does not exist and
	// ErrPrimaryVersion if the version is currently primary.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new VersionStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller
	// (typically a service).
	WithTx(tx *sql.Tx) VersionStore
}

// ShotStore defines the interface for persisting shots.
type ShotStore interface {
	// Create saves a new shot and assigns its id.
	Create(ctx context.Context, shot *domain.Shot) error

	// GetByID retrieves a shot by id.
	// Returns ErrShotNotFound if the shot does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Shot, error)

	// LockForUpdate takes a row lock on the shot inside the given
	// transaction, serializing concurrent version recording for the shot.
	// Returns ErrShotNotFound if the shot does not exist.
	LockForUpdate(ctx context.Context, tx *sql.Tx, id int64) error
}
