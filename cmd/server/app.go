package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/pixcore/pixcore-api/internal/config"
	"github.com/pixcore/pixcore-api/internal/domain"
	"github.com/pixcore/pixcore-api/internal/generation"
	"github.com/pixcore/pixcore-api/internal/generation/placeholder"
	"github.com/pixcore/pixcore-api/internal/platform/gemini"
	"github.com/pixcore/pixcore-api/internal/platform/postgres"
	"github.com/pixcore/pixcore-api/internal/platform/replicate"
	"github.com/pixcore/pixcore-api/internal/service"
	"github.com/pixcore/pixcore-api/internal/storage"
	"github.com/pixcore/pixcore-api/internal/store"
	"github.com/pixcore/pixcore-api/internal/task"
)

// application holds the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Stores
	shotStore    store.ShotStore
	versionStore store.VersionStore
	taskStore    *task.Store

	// Media persistence
	fileStore *storage.FileStore

	// Services
	generationService *service.GenerationService
	versionService    *service.VersionService
	shotService       *service.ShotService
}

// newApplication creates a new application instance with all dependencies
// initialized. It accepts core dependencies like configuration, logger and
// database connection that must be established beforehand.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	app.shotStore = postgres.NewPostgresShotStore(db, logger)
	app.versionStore = postgres.NewPostgresVersionStore(db, logger)

	var err error
	app.fileStore, err = storage.NewFileStore(cfg.Storage.Root, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize file store: %w", err)
	}
	logger.Info("Media storage initialized", slog.String("root", cfg.Storage.Root))

	app.taskStore = task.NewStore(task.EvictionPolicy{
		MaxTasks:      cfg.Task.MaxTasks,
		TerminalTTL:   cfg.Task.TerminalTTL,
		SweepInterval: cfg.Task.SweepInterval,
	}, logger)
	app.taskStore.Start()

	providerFor, err := setupProviderSelector(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize generation provider: %w", err)
	}

	recorder := service.NewTxVersionRecorder(db, app.shotStore, app.versionStore, logger)

	app.generationService = service.NewGenerationService(
		app.taskStore,
		providerFor,
		app.fileStore,
		recorder,
		service.ModelDefaults{
			ImageModel: cfg.Generation.DefaultImageModel,
			VideoModel: cfg.Generation.DefaultVideoModel,
		},
		logger,
	)

	app.versionService = service.NewVersionService(db, app.versionStore, logger)
	app.shotService = service.NewShotService(app.shotStore)

	logger.Info("Application initialized successfully")
	return app, nil
}

// setupProviderSelector picks the generation backend from configuration.
// A Replicate token routes every task kind to Replicate. Otherwise a
// Gemini key routes text-to-image to Gemini while video kinds fall back to
// the placeholder. With neither configured, all kinds use the placeholder.
func setupProviderSelector(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
) (service.ProviderSelector, error) {
	fallback := placeholder.NewProvider(cfg.Generation.PlaceholderDelayUnit, logger)

	if cfg.Generation.ReplicateAPIToken != "" {
		client, err := replicate.NewClient(
			cfg.Generation.ReplicateAPIToken,
			logger,
			replicate.WithPollInterval(cfg.Generation.PollInterval),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create replicate client: %w", err)
		}
		logger.Info("Generation backend: replicate")
		return func(domain.TaskKind) generation.Provider { return client }, nil
	}

	if cfg.Generation.GeminiAPIKey != "" {
		imageProvider, err := gemini.NewImageProvider(
			ctx,
			logger,
			cfg.Generation.GeminiAPIKey,
			cfg.Generation.GeminiImageModel,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create gemini image provider: %w", err)
		}
		logger.Info("Generation backend: gemini for images, placeholder for video")
		return func(kind domain.TaskKind) generation.Provider {
			if kind == domain.TaskKindTextToImage {
				return imageProvider
			}
			return fallback
		}, nil
	}

	logger.Info("Generation backend: placeholder")
	return func(domain.TaskKind) generation.Provider { return fallback }, nil
}

// Run starts the application server, handling lifecycle and cleanup.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.taskStore != nil {
		app.taskStore.Stop()
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", slog.String("error", err.Error()))
		}
	}

	app.logger.Info("Application shutdown completed")
}
