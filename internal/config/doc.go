// Package config defines the application configuration structure and
// loading logic. Configuration is sourced from an optional YAML file and
// PIXCORE_-prefixed environment variables, with env vars taking precedence.
package config
