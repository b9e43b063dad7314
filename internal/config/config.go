package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config holds application configuration values. Settings come from an
// optional config.toml in the data directory; environment variables (and an
// optional .env file) override it, and secrets only ever come from the
// environment.
type Config struct {
	APIKey   string
	Model    string
	DataDir  string
	LogLevel string
}

// fileConfig is the shape of <data dir>/config.toml.
type fileConfig struct {
	Model    string `toml:"model"`
	LogLevel string `toml:"log_level"`
}

// Load reads configuration. A missing .env file and a missing config.toml
// are both fine; a missing OPENAI_API_KEY is not.
func Load() (*Config, error) {
	// Loads .env from the current directory when present (useful for
	// development); in normal use the variables are already exported.
	_ = godotenv.Load()

	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolving home directory: %w", err)
	}

	cfg := &Config{
		DataDir:  getEnv("IRIS_DATA_DIR", filepath.Join(home, ".iris")),
		LogLevel: "info",
	}

	var fc fileConfig
	path := filepath.Join(cfg.DataDir, "config.toml")
	if _, err := toml.DecodeFile(path, &fc); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	cfg.Model = fc.Model
	if fc.LogLevel != "" {
		cfg.LogLevel = fc.LogLevel
	}

	cfg.Model = getEnv("IRIS_MODEL", cfg.Model)
	cfg.LogLevel = getEnv("IRIS_LOG_LEVEL", cfg.LogLevel)
	cfg.APIKey = os.Getenv("OPENAI_API_KEY")
	if cfg.APIKey == "" {
		return nil, errors.New("OPENAI_API_KEY environment variable is required")
	}

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a fallback value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
