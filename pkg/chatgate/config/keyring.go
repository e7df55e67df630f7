package config

import (
	"log/slog"
	"os"

	"github.com/zalando/go-keyring"
)

// Priority for resolving the provider credential:
//  1. OS keyring (encrypted by the OS, requires user session)
//  2. GOOGLE_API_KEY environment variable (includes .env via godotenv)
//  3. config file value (least secure — plaintext on disk)
//
// A missing credential is not an error: the router starts empty and every
// chat request gets the no-models diagnostic.

const (
	// keyringService is the service name used in the OS keyring.
	keyringService = "chatgate"

	// keyringAPIKey is the key name for the provider API key.
	keyringAPIKey = "api_key"
)

// StoreKeyring saves the API key to the OS keyring.
func StoreKeyring(value string) error {
	return keyring.Set(keyringService, keyringAPIKey, value)
}

// GetKeyring retrieves the API key from the OS keyring.
// Returns empty string if not found or the keyring is unavailable.
func GetKeyring() string {
	val, err := keyring.Get(keyringService, keyringAPIKey)
	if err != nil {
		return ""
	}
	return val
}

// DeleteKeyring removes the API key from the OS keyring.
func DeleteKeyring() error {
	return keyring.Delete(keyringService, keyringAPIKey)
}

// ResolveAPIKey returns the provider credential following the priority
// order above, logging which source supplied it (never the value itself).
func (c *Config) ResolveAPIKey(logger *slog.Logger) string {
	if logger == nil {
		logger = slog.Default()
	}

	if key := GetKeyring(); key != "" {
		logger.Debug("API key resolved from OS keyring")
		return key
	}
	if key := os.Getenv(EnvAPIKey); key != "" {
		logger.Debug("API key resolved from environment", "var", EnvAPIKey)
		return key
	}
	if c.API.APIKey != "" {
		logger.Warn("API key resolved from config file — prefer the keyring or environment")
		return c.API.APIKey
	}

	logger.Warn("no API key found, service starts in degraded mode", "var", EnvAPIKey)
	return ""
}
