// Package config holds process configuration for the CLI and the HTTP API.
package config

import (
	"os"
	"path/filepath"
)

// Config contains process configuration.
type Config struct {
	// DBPath is the SQLite match store.
	DBPath string `koanf:"db_path"`

	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat is "text" or "json".
	LogFormat string `koanf:"log_format"`

	// Addr is the HTTP listen address of `serve`, e.g. ":8080".
	Addr string `koanf:"addr"`

	// CORSOrigins lists origins allowed to call the API.
	CORSOrigins []string `koanf:"cors_origins"`

	// AnthropicModel is the model used by `analyze`.
	AnthropicModel string `koanf:"anthropic_model"`

	// DefaultMyName and DefaultOppoName name the players of `new` matches.
	DefaultMyName   string `koanf:"default_my_name"`
	DefaultOppoName string `koanf:"default_oppo_name"`
}

// New returns a Config with defaults.
func New() *Config {
	return &Config{
		DBPath:          defaultDBPath(),
		LogLevel:        "info",
		LogFormat:       "text",
		Addr:            ":8080",
		CORSOrigins:     defaultCORSOrigins(),
		AnthropicModel:  "claude-haiku-4-5-20251001",
		DefaultMyName:   "Me",
		DefaultOppoName: "Opponent",
	}
}

func defaultCORSOrigins() []string { return []string{"*"} }

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "tennis.db"
	}
	return filepath.Join(home, ".tennis-grader", "tennis.db")
}
