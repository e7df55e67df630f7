package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// envVarPattern matches environment variable references in config values:
//   - ${VAR_NAME}           - simple variable
//   - ${VAR_NAME:-default}  - default value if not set
//   - ${VAR_NAME:?error}    - error message if not set
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::(-|\?)([^}]*))?\}`)

// Load builds the configuration. path may be empty, in which case defaults
// plus environment variables are used — the service runs without a config
// file at all.
func Load(path string) (*Config, error) {
	// Load .env first so variable expansion and env overrides see it.
	// godotenv does NOT overwrite variables already set in the real env.
	_ = godotenv.Load()

	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		expanded, err := expandEnvVars(string(data))
		if err != nil {
			return nil, fmt.Errorf("expanding environment variables: %w", err)
		}
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, fmt.Errorf("parsing config YAML: %w", err)
		}
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

// Parse parses YAML bytes over the defaults, without env overrides.
// Used by tests and by tooling that inspects config files.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}
	return cfg, nil
}

// applyEnvOverrides maps the well-known environment variables onto the
// config. Env always wins over file values so deployments can keep secrets
// and connection strings out of the YAML.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("AI_PROVIDER"); v != "" {
		cfg.Provider = strings.ToLower(v)
	}
	if v := os.Getenv("CHATGATE_ADDRESS"); v != "" {
		cfg.Gateway.Address = v
	}
	if v := os.Getenv("CHATGATE_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// expandEnvVars replaces ${VAR} style references in raw YAML text.
// Returns an error for any ${VAR:?message} whose variable is unset.
func expandEnvVars(text string) (string, error) {
	var expandErr error
	expanded := envVarPattern.ReplaceAllStringFunc(text, func(match string) string {
		groups := envVarPattern.FindStringSubmatch(match)
		name, modifier, arg := groups[1], groups[2], groups[3]

		value, set := os.LookupEnv(name)
		switch {
		case set:
			return value
		case modifier == "-":
			return arg
		case modifier == "?":
			if expandErr == nil {
				msg := arg
				if msg == "" {
					msg = "required but not set"
				}
				expandErr = fmt.Errorf("%s: %s", name, msg)
			}
			return ""
		default:
			return ""
		}
	})
	return expanded, expandErr
}
