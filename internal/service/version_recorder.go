package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/pixcore/pixcore-api/internal/domain"
	"github.com/pixcore/pixcore-api/internal/store"
)

// TxVersionRecorder records versions transactionally against Postgres.
// It is the sole point where the primary-version rule is established for
// new artifacts: the shot row is locked, the existing versions are
// counted, and the new version is created primary exactly when the count
// is zero. Concurrent tasks for the same shot serialize on the row lock,
// so exactly one of them observes count zero.
type TxVersionRecorder struct {
	db       *sql.DB
	shots    store.ShotStore
	versions store.VersionStore
	logger   *slog.Logger
}

// NewTxVersionRecorder creates a TxVersionRecorder.
func NewTxVersionRecorder(
	db *sql.DB,
	shots store.ShotStore,
	versions store.VersionStore,
	logger *slog.Logger,
) *TxVersionRecorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &TxVersionRecorder{
		db:       db,
		shots:    shots,
		versions: versions,
		logger:   logger.With(slog.String("component", "version_recorder")),
	}
}

var _ VersionRecorder = (*TxVersionRecorder)(nil)

// Record implements VersionRecorder.
func (r *TxVersionRecorder) Record(
	ctx context.Context,
	t *domain.GenerationTask,
	localURL string,
	mediaType domain.MediaType,
) error {
	thumbURL := ""
	if mediaType == domain.MediaTypeImage {
		thumbURL = localURL
	}

	params := t.Params().Snapshot()
	params["prompt"] = t.Prompt()
	params["model"] = t.Params().ModelName()
	params["task_id"] = t.ID().String()

	return store.RunInTransaction(ctx, r.db, func(ctx context.Context, tx *sql.Tx) error {
		if err := r.shots.LockForUpdate(ctx, tx, t.ShotID()); err != nil {
			return fmt.Errorf("failed to lock shot %d: %w", t.ShotID(), err)
		}

		versions := r.versions.WithTx(tx)

		count, err := versions.CountByShot(ctx, t.ShotID())
		if err != nil {
			return fmt.Errorf("failed to count versions for shot %d: %w", t.ShotID(), err)
		}

		version, err := domain.NewVersion(t.ShotID(), mediaType, localURL, thumbURL, params)
		if err != nil {
			return err
		}
		// The first version ever recorded for a shot becomes primary.
		version.IsPrimary = count == 0

		return versions.Create(ctx, version)
	})
}
