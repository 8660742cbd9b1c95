// Package config loads crawl4ai-mcp configuration from TOML files with
// environment variable overrides.
package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/crawl4ai/crawl4ai-mcp/internal/common"
)

// Config represents the application configuration.
type Config struct {
	// Environment is "development" or "production". Production reduces
	// diagnostic verbosity on failure paths.
	Environment string               `toml:"environment"`
	Server      ServerConfig         `toml:"server"`
	API         APIConfig            `toml:"api"`
	Storage     StorageConfig        `toml:"storage"`
	Logging     common.LoggingConfig `toml:"logging"`
}

// ServerConfig holds MCP server settings.
type ServerConfig struct {
	Name string `toml:"name"`
	Port string `toml:"port"`
}

// APIConfig holds crawl4ai API access settings.
type APIConfig struct {
	Key string `toml:"key"`
	URL string `toml:"url"`
}

// StorageConfig holds the crawl-job store location.
// An empty path disables the store.
type StorageConfig struct {
	Path string `toml:"path"`
}

// LoadFromFile loads configuration with priority: defaults -> file -> env.
// A missing file is not an error; defaults and env overrides still apply.
func LoadFromFile(path string) (*Config, error) {
	cfg := NewDefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
			}
		} else if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

// applyEnvOverrides applies CRAWL4AI_* environment variable overrides.
func applyEnvOverrides(cfg *Config) {
	if key := os.Getenv("CRAWL4AI_API_KEY"); key != "" {
		cfg.API.Key = key
	}
	if url := os.Getenv("CRAWL4AI_API_URL"); url != "" {
		cfg.API.URL = url
	}
	if port := os.Getenv("CRAWL4AI_MCP_PORT"); port != "" {
		cfg.Server.Port = port
	}
	if env := os.Getenv("CRAWL4AI_ENV"); env != "" {
		cfg.Environment = env
	}
	if path := os.Getenv("CRAWL4AI_STORE_PATH"); path != "" {
		cfg.Storage.Path = path
	}
	if level := os.Getenv("CRAWL4AI_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.API.Key == "" {
		return fmt.Errorf("crawl4ai API key is required (set CRAWL4AI_API_KEY or [api] key in config)")
	}
	if c.API.URL == "" {
		return fmt.Errorf("crawl4ai API URL must not be empty")
	}
	return nil
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
