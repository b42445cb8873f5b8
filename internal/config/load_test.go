package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	// Load reads the process environment, so no t.Parallel here.
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.NotEmpty(t, cfg.Database.URL)
	assert.Equal(t, "./storage", cfg.Storage.Root)

	assert.Equal(t, "stability-ai/sdxl", cfg.Generation.DefaultImageModel)
	assert.Equal(t, "stability-ai/stable-video-diffusion", cfg.Generation.DefaultVideoModel)
	assert.Equal(t, time.Second, cfg.Generation.PollInterval)
	assert.Equal(t, time.Second, cfg.Generation.PlaceholderDelayUnit)
	assert.Empty(t, cfg.Generation.ReplicateAPIToken)
	assert.Empty(t, cfg.Generation.GeminiAPIKey)

	assert.Equal(t, 1000, cfg.Task.MaxTasks)
	assert.Equal(t, time.Hour, cfg.Task.TerminalTTL)
	assert.Equal(t, time.Minute, cfg.Task.SweepInterval)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PIXCORE_SERVER_PORT", "9100")
	t.Setenv("PIXCORE_SERVER_LOG_LEVEL", "debug")
	t.Setenv("PIXCORE_DATABASE_URL", "postgres://db:5432/other")
	t.Setenv("PIXCORE_GENERATION_REPLICATE_API_TOKEN", "r8_test")
	t.Setenv("PIXCORE_TASK_MAX_TASKS", "50")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, "postgres://db:5432/other", cfg.Database.URL)
	assert.Equal(t, "r8_test", cfg.Generation.ReplicateAPIToken)
	assert.Equal(t, 50, cfg.Task.MaxTasks)
}

func TestLoad_ValidationFailures(t *testing.T) {
	t.Run("invalid log level", func(t *testing.T) {
		t.Setenv("PIXCORE_SERVER_LOG_LEVEL", "verbose")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "validation")
	})

	t.Run("invalid port", func(t *testing.T) {
		t.Setenv("PIXCORE_SERVER_PORT", "99999")

		_, err := Load()
		require.Error(t, err)
	})
}
