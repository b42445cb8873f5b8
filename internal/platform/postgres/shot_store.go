package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/pixcore/pixcore-api/internal/domain"
	"github.com/pixcore/pixcore-api/internal/platform/logger"
	"github.com/pixcore/pixcore-api/internal/store"
)

// PostgresShotStore implements the store.ShotStore interface
// using a PostgreSQL database as the storage backend.
type PostgresShotStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresShotStore creates a new PostgreSQL implementation of the
// ShotStore interface. If logger is nil, a default logger will be used.
func NewPostgresShotStore(db store.DBTX, logger *slog.Logger) *PostgresShotStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresShotStore{
		db:     db,
		logger: logger.With(slog.String("component", "shot_store")),
	}
}

// Ensure PostgresShotStore implements store.ShotStore interface
var _ store.ShotStore = (*PostgresShotStore)(nil)

// Create implements store.ShotStore.Create
// The database assigns the shot id; it is written back to the entity.
func (s *PostgresShotStore) Create(ctx context.Context, shot *domain.Shot) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO shots (prompt, negative_prompt, duration, status, created_at, updated_at)
		VALUES ($1, NULLIF($2, ''), $3, $4, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`
	err := s.db.QueryRowContext(
		ctx,
		query,
		shot.Prompt,
		shot.NegativePrompt,
		shot.Duration,
		shot.Status,
	).Scan(&shot.ID, &shot.CreatedAt, &shot.UpdatedAt)

	if err != nil {
		log.Error("failed to create shot", slog.String("error", err.Error()))
		return err
	}

	log.Info("shot created successfully", slog.Int64("shot_id", shot.ID))
	return nil
}

// GetByID implements store.ShotStore.GetByID
// Returns store.ErrShotNotFound if the shot does not exist.
func (s *PostgresShotStore) GetByID(ctx context.Context, id int64) (*domain.Shot, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, prompt, COALESCE(negative_prompt, ''), duration, status, created_at, updated_at
		FROM shots
		WHERE id = $1
	`

	var shot domain.Shot
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&shot.ID,
		&shot.Prompt,
		&shot.NegativePrompt,
		&shot.Duration,
		&shot.Status,
		&shot.CreatedAt,
		&shot.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrShotNotFound
		}
		log.Error("failed to get shot",
			slog.String("error", err.Error()),
			slog.Int64("shot_id", id))
		return nil, err
	}

	return &shot, nil
}

// LockForUpdate implements store.ShotStore.LockForUpdate
// It serializes concurrent version recording for a shot: two execution
// units finishing at the same time take the lock in turn, so exactly one
// of them observes a version count of zero.
func (s *PostgresShotStore) LockForUpdate(ctx context.Context, tx *sql.Tx, id int64) error {
	var locked int64
	err := tx.QueryRowContext(ctx,
		`SELECT id FROM shots WHERE id = $1 FOR UPDATE`, id).Scan(&locked)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.ErrShotNotFound
		}
		return err
	}
	return nil
}
