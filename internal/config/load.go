package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load reads configuration from an optional config file and from
// environment variables. Environment variables use the PIXCORE_ prefix
// with underscores separating nested keys (e.g. PIXCORE_SERVER_PORT) and
// take precedence over file values.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("PIXCORE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; env vars and defaults still apply.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// setDefaults registers the default value for every setting so a bare
// environment still produces a runnable configuration.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.log_level", "info")

	v.SetDefault("database.url", "postgres://localhost:5432/pixcore?sslmode=disable")

	v.SetDefault("storage.root", "./storage")

	// Secrets default to empty so AutomaticEnv can surface them during
	// Unmarshal; viper only reads env values for keys it knows about.
	v.SetDefault("generation.replicate_api_token", "")
	v.SetDefault("generation.gemini_api_key", "")

	v.SetDefault("generation.default_image_model", "stability-ai/sdxl")
	v.SetDefault("generation.default_video_model", "stability-ai/stable-video-diffusion")
	v.SetDefault("generation.gemini_image_model", "gemini-2.0-flash-preview-image-generation")
	v.SetDefault("generation.poll_interval", time.Second)
	v.SetDefault("generation.placeholder_delay_unit", time.Second)

	v.SetDefault("task.max_tasks", 1000)
	v.SetDefault("task.terminal_ttl", time.Hour)
	v.SetDefault("task.sweep_interval", time.Minute)
}
