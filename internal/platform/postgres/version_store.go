package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pixcore/pixcore-api/internal/domain"
	"github.com/pixcore/pixcore-api/internal/platform/logger"
	"github.com/pixcore/pixcore-api/internal/store"
)

// PostgreSQL error codes
const pgForeignKeyViolationCode = "23503"

// PostgresVersionStore implements the store.VersionStore interface
// using a PostgreSQL database as the storage backend.
type PostgresVersionStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresVersionStore creates a new PostgreSQL implementation of the
// VersionStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresVersionStore(db store.DBTX, logger *slog.Logger) *PostgresVersionStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresVersionStore{
		db:     db,
		logger: logger.With(slog.String("component", "version_store")),
	}
}

// Ensure PostgresVersionStore implements store.VersionStore interface
var _ store.VersionStore = (*PostgresVersionStore)(nil)

// Create implements store.VersionStore.Create
// It saves a new version to the database, handling domain validation.
// Returns store.ErrInvalidEntity if the shot ID doesn't exist (foreign key violation).
func (s *PostgresVersionStore) Create(ctx context.Context, version *domain.Version) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := version.Validate(); err != nil {
		log.Warn("version validation failed during create",
			slog.String("error", err.Error()),
			slog.String("version_id", version.ID.String()))
		return err
	}

	paramsJSON, err := json.Marshal(version.Params)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal version params: %v",
			store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO versions (id, shot_id, type, url, thumb_url, params, is_primary, created_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, $8)
	`
	_, err = s.db.ExecContext(
		ctx,
		query,
		version.ID,
		version.ShotID,
		version.Type,
		version.URL,
		version.ThumbURL,
		paramsJSON,
		version.IsPrimary,
		version.CreatedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolationCode {
			log.Warn("foreign key violation during version creation",
				slog.String("error", err.Error()),
				slog.String("version_id", version.ID.String()),
				slog.Int64("shot_id", version.ShotID))
			return fmt.Errorf("%w: shot with ID %d not found",
				store.ErrInvalidEntity, version.ShotID)
		}

		log.Error("failed to create version",
			slog.String("error", err.Error()),
			slog.String("version_id", version.ID.String()),
			slog.Int64("shot_id", version.ShotID))
		return err
	}

	log.Info("version created successfully",
		slog.String("version_id", version.ID.String()),
		slog.Int64("shot_id", version.ShotID),
		slog.Bool("is_primary", version.IsPrimary))
	return nil
}

// GetByID implements store.VersionStore.GetByID
// Returns store.ErrVersionNotFound if the version does not exist.
func (s *PostgresVersionStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Version, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, shot_id, type, url, COALESCE(thumb_url, ''), params, is_primary, created_at
		FROM versions
		WHERE id = $1
	`

	row := s.db.QueryRowContext(ctx, query, id)
	version, err := scanVersion(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrVersionNotFound
		}
		log.Error("failed to get version",
			slog.String("error", err.Error()),
			slog.String("version_id", id.String()))
		return nil, err
	}

	return version, nil
}

// ListByShot implements store.VersionStore.ListByShot
// Versions are returned newest first.
func (s *PostgresVersionStore) ListByShot(ctx context.Context, shotID int64) ([]*domain.Version, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, shot_id, type, url, COALESCE(thumb_url, ''), params, is_primary, created_at
		FROM versions
		WHERE shot_id = $1
		ORDER BY created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, shotID)
	if err != nil {
		log.Error("failed to list versions",
			slog.String("error", err.Error()),
			slog.Int64("shot_id", shotID))
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var versions []*domain.Version
	for rows.Next() {
		version, err := scanVersion(rows)
		if err != nil {
			return nil, err
		}
		versions = append(versions, version)
	}

	return versions, rows.Err()
}

// CountByShot implements store.VersionStore.CountByShot
func (s *PostgresVersionStore) CountByShot(ctx context.Context, shotID int64) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM versions WHERE shot_id = $1`, shotID).Scan(&count)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to count versions",
			slog.String("error", err.Error()),
			slog.Int64("shot_id", shotID))
		return 0, err
	}
	return count, nil
}

// SetPrimary implements store.VersionStore.SetPrimary
// Clears the primary flag on the shot's other versions, then sets it on the
// given version. Callers run this inside a transaction via WithTx so the
// at-most-one-primary invariant holds at every observable point.
func (s *PostgresVersionStore) SetPrimary(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	demote := `
		UPDATE versions SET is_primary = FALSE
		WHERE shot_id = (SELECT shot_id FROM versions WHERE id = $1) AND id != $1
	`
	if _, err := s.db.ExecContext(ctx, demote, id); err != nil {
		log.Error("failed to clear primary flags",
			slog.String("error", err.Error()),
			slog.String("version_id", id.String()))
		return err
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE versions SET is_primary = TRUE WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to set primary flag",
			slog.String("error", err.Error()),
			slog.String("version_id", id.String()))
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrVersionNotFound
	}

	log.Info("version promoted to primary", slog.String("version_id", id.String()))
	return nil
}

// Delete implements store.VersionStore.Delete
// Returns store.ErrPrimaryVersion when the version is the shot's primary;
// primary versions must be demoted (or superseded) before deletion.
func (s *PostgresVersionStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var isPrimary bool
	err := s.db.QueryRowContext(ctx,
		`SELECT is_primary FROM versions WHERE id = $1`, id).Scan(&isPrimary)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.ErrVersionNotFound
		}
		return err
	}

	if isPrimary {
		return fmt.Errorf("%w: cannot delete primary version", store.ErrPrimaryVersion)
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM versions WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete version",
			slog.String("error", err.Error()),
			slog.String("version_id", id.String()))
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrVersionNotFound
	}

	log.Info("version deleted", slog.String("version_id", id.String()))
	return nil
}

// WithTx implements store.VersionStore.WithTx
// It returns a new store instance bound to the provided transaction.
func (s *PostgresVersionStore) WithTx(tx *sql.Tx) store.VersionStore {
	return &PostgresVersionStore{
		db:     tx,
		logger: s.logger,
	}
}

// rowScanner abstracts *sql.Row and *sql.Rows for scanVersion.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanVersion(row rowScanner) (*domain.Version, error) {
	var version domain.Version
	var mediaType string
	var paramsJSON []byte

	err := row.Scan(
		&version.ID,
		&version.ShotID,
		&mediaType,
		&version.URL,
		&version.ThumbURL,
		&paramsJSON,
		&version.IsPrimary,
		&version.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	version.Type = domain.MediaType(mediaType)

	if len(paramsJSON) > 0 {
		if err := json.Unmarshal(paramsJSON, &version.Params); err != nil {
			return nil, fmt.Errorf("failed to unmarshal version params: %w", err)
		}
	}

	return &version, nil
}
