// Package config defines the service configuration, loaded from YAML with
// environment expansion, .env files, and the OS keyring for the API key.
package config

import (
	"github.com/averko/chatgate/pkg/chatgate/history"
)

// EnvAPIKey is the environment variable holding the provider credential.
const EnvAPIKey = "GOOGLE_API_KEY"

// Config holds all service configuration.
type Config struct {
	// Name is the service name reported by the root endpoint.
	Name string `yaml:"name"`

	// Provider is the model provider id (currently only "gemini").
	Provider string `yaml:"provider"`

	// API configures the provider endpoint.
	API APIConfig `yaml:"api"`

	// Database configures the history store.
	Database DatabaseConfig `yaml:"database"`

	// Router configures model invocation.
	Router RouterConfig `yaml:"router"`

	// Retention configures the history retention sweeper.
	Retention history.RetentionConfig `yaml:"retention"`

	// Gateway configures the HTTP API.
	Gateway GatewayConfig `yaml:"gateway"`

	// Logging configures log output.
	Logging LoggingConfig `yaml:"logging"`
}

// APIConfig configures the LLM provider endpoint.
type APIConfig struct {
	// BaseURL is the provider endpoint (default: Gemini's OpenAI-compatible API).
	BaseURL string `yaml:"base_url"`

	// APIKey is the provider credential. Prefer the keyring or the
	// GOOGLE_API_KEY environment variable over a plaintext value here.
	APIKey string `yaml:"api_key"`
}

// DatabaseConfig configures the exchange store.
type DatabaseConfig struct {
	// URL is the connection string: a postgres:// URL or a SQLite file
	// path. Empty uses the default SQLite file. Overridden by DATABASE_URL.
	URL string `yaml:"url"`
}

// RouterConfig configures model invocation.
type RouterConfig struct {
	// CallTimeoutSeconds bounds each individual model call (default: 60).
	// Without it a stalled upstream would block the whole fallback chain.
	CallTimeoutSeconds int `yaml:"call_timeout_seconds"`
}

// GatewayConfig configures the HTTP API.
type GatewayConfig struct {
	// Address is the listen address (default: ":8000").
	Address string `yaml:"address"`

	// CORSOrigins lists allowed origins (default: ["*"], as the service is
	// meant to sit behind a reverse proxy).
	CORSOrigins []string `yaml:"cors_origins"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	// Level is the log level ("debug", "info", "warn", "error").
	Level string `yaml:"level"`

	// Format is the log format ("json", "text").
	Format string `yaml:"format"`
}

// Default returns the default configuration. The service must be able to
// start from defaults alone, with everything else coming from env vars.
func Default() *Config {
	return &Config{
		Name:     "chatgate",
		Provider: "gemini",
		API:      APIConfig{},
		Database: DatabaseConfig{},
		Router: RouterConfig{
			CallTimeoutSeconds: 60,
		},
		Retention: history.DefaultRetentionConfig(),
		Gateway: GatewayConfig{
			Address:     ":8000",
			CORSOrigins: []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}
