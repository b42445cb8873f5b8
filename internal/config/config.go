package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"     validate:"required"`
	Database   DatabaseConfig   `mapstructure:"database"   validate:"required"`
	Storage    StorageConfig    `mapstructure:"storage"    validate:"required"`
	Generation GenerationConfig `mapstructure:"generation" validate:"required"`
	Task       TaskConfig       `mapstructure:"task"       validate:"required"`
}

// ServerConfig contains all HTTP server related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// StorageConfig describes where persisted media artifacts live on disk.
// Artifacts under Root are served by the /media static route.
type StorageConfig struct {
	Root string `mapstructure:"root" validate:"required"`
}

// GenerationConfig contains the generation-provider settings.
//
// When ReplicateAPIToken is set, tasks run against the Replicate
// predictions API. Otherwise, if GeminiAPIKey is set, text-to-image tasks
// run against Gemini. With neither configured, all tasks produce
// deterministic placeholder artifacts.
type GenerationConfig struct {
	ReplicateAPIToken string `mapstructure:"replicate_api_token"`
	GeminiAPIKey      string `mapstructure:"gemini_api_key"`
	GeminiImageModel  string `mapstructure:"gemini_image_model"`

	DefaultImageModel string `mapstructure:"default_image_model" validate:"required"`
	DefaultVideoModel string `mapstructure:"default_video_model" validate:"required"`

	// PollInterval is the delay between provider status polls.
	PollInterval time.Duration `mapstructure:"poll_interval" validate:"required"`

	// PlaceholderDelayUnit scales the simulated latency of placeholder
	// generation. Tests inject a small value to run fast.
	PlaceholderDelayUnit time.Duration `mapstructure:"placeholder_delay_unit" validate:"required"`
}

// TaskConfig controls the in-memory task table's eviction policy.
type TaskConfig struct {
	// MaxTasks caps the number of tasks retained in memory. When the cap
	// is exceeded, the oldest terminal tasks are evicted first.
	MaxTasks int `mapstructure:"max_tasks" validate:"required,gt=0"`

	// TerminalTTL is how long a finished task remains queryable.
	TerminalTTL time.Duration `mapstructure:"terminal_ttl" validate:"required"`

	// SweepInterval is how often the store scans for evictable tasks.
	SweepInterval time.Duration `mapstructure:"sweep_interval" validate:"required"`
}
