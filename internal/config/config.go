// Package config provides configuration management for the Netron server.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/bbernstein/lacylights-netron/internal/device"
	"github.com/bbernstein/lacylights-netron/internal/services/forms"
)

// Config holds all configuration values for the server.
type Config struct {
	// Server configuration
	Port string
	Env  string

	// Database configuration
	DatabaseURL string

	// Device connection
	DeviceURL        string
	DeviceTimeout    time.Duration
	DeviceRetryCount int
	DeviceFixtures   string // Serve documents from this directory instead of a device
	DocumentsFile    string // YAML naming the device documents and endpoints

	// Refresh and feedback timing
	PollInterval     time.Duration
	FeedbackDuration time.Duration

	// Non-interactive mode (for Docker/CI)
	NonInteractive bool

	// CORS configuration
	CORSOrigin string

	// Logging
	LogLevel string
}

// Load loads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		// Server
		Port: getEnv("PORT", "4000"),
		Env:  getEnv("ENV", "development"),

		// Database
		DatabaseURL: getEnv("DATABASE_URL", "file:./netron.db"),

		// Device
		DeviceURL:        getEnv("DEVICE_URL", "http://192.168.1.10"),
		DeviceTimeout:    time.Duration(getEnvInt("DEVICE_TIMEOUT", 5000)) * time.Millisecond,
		DeviceRetryCount: getEnvInt("DEVICE_RETRY_COUNT", 2),
		DeviceFixtures:   getEnv("DEVICE_FIXTURES", ""),
		DocumentsFile:    getEnv("DOCUMENTS_FILE", ""),

		// Timing
		PollInterval:     time.Duration(getEnvInt("POLL_INTERVAL", 1000)) * time.Millisecond,
		FeedbackDuration: time.Duration(getEnvInt("FEEDBACK_DURATION", 3000)) * time.Millisecond,

		// Non-interactive
		NonInteractive: getEnvBool("NON_INTERACTIVE", false),

		// CORS
		CORSOrigin: getEnv("CORS_ORIGIN", "http://localhost:3000"),

		// Logging
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Documents names the device documents and form endpoints.
type Documents struct {
	Names     device.Names    `yaml:"documents"`
	Endpoints forms.Endpoints `yaml:"endpoints"`
}

// DefaultDocuments returns the names used by Netron firmware.
func DefaultDocuments() Documents {
	return Documents{
		Names:     device.DefaultNames(),
		Endpoints: forms.DefaultEndpoints(),
	}
}

// LoadDocuments reads a documents file over the defaults. An empty path
// returns the defaults.
func LoadDocuments(path string) (Documents, error) {
	docs := DefaultDocuments()
	if path == "" {
		return docs, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Documents{}, fmt.Errorf("documents file: %w", err)
	}
	if err := yaml.Unmarshal(b, &docs); err != nil {
		return Documents{}, fmt.Errorf("documents file %s: %w", path, err)
	}
	if err := docs.Names.Validate(); err != nil {
		return Documents{}, fmt.Errorf("documents file %s: %w", path, err)
	}
	return docs, nil
}

// getEnv returns the value of an environment variable or a default value.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvInt returns the integer value of an environment variable or a default value.
func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvBool returns the boolean value of an environment variable or a default value.
func getEnvBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
