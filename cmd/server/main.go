// Package main implements the entry point for the Pixcore API server,
// which orchestrates AI media generation tasks for storyboard shots and
// records the resulting versions.
package main

import (
	"context"
	"log"
	"log/slog"

	"github.com/pixcore/pixcore-api/internal/config"
	"github.com/pixcore/pixcore-api/internal/platform/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger := logger.Setup(cfg.Server)
	appLogger.Info("Server configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel))

	ctx := context.Background()

	db, err := setupAppDatabase(cfg, appLogger)
	if err != nil {
		appLogger.Error("Failed to connect to database", slog.String("error", err.Error()))
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := runMigrations(db, appLogger); err != nil {
		appLogger.Error("Failed to apply migrations", slog.String("error", err.Error()))
		log.Fatalf("Failed to apply migrations: %v", err)
	}

	app, err := newApplication(ctx, cfg, appLogger, db)
	if err != nil {
		appLogger.Error("Failed to initialize application", slog.String("error", err.Error()))
		log.Fatalf("Failed to initialize application: %v", err)
	}

	if err := app.Run(ctx); err != nil {
		appLogger.Error("Server exited with error", slog.String("error", err.Error()))
		log.Fatalf("Server exited with error: %v", err)
	}
}
