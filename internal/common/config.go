// Package common provides shared utilities for Agmark
package common

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for Agmark
type Config struct {
	Environment string         `toml:"environment"`
	Server      ServerConfig   `toml:"server"`
	Storage     StorageConfig  `toml:"storage"`
	Catalog     CatalogConfig  `toml:"catalog"`
	Clients     ClientsConfig  `toml:"clients"`
	Matching    MatchingConfig `toml:"matching"`
	Logging     LoggingConfig  `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// StorageConfig holds the downloads (snapshot cache) root path.
type StorageConfig struct {
	Downloads AreaConfig `toml:"downloads"` // Dated report snapshots (raw xlsx)
}

// AreaConfig holds path configuration for a storage area.
type AreaConfig struct {
	Path string `toml:"path"`
}

// CatalogConfig holds the reference metadata directory.
type CatalogConfig struct {
	Path string `toml:"path"`
}

// ClientsConfig holds API client configurations
type ClientsConfig struct {
	Agmarknet AgmarknetConfig `toml:"agmarknet"`
}

// AgmarknetConfig holds upstream Agmarknet API configuration
type AgmarknetConfig struct {
	BaseURL   string `toml:"base_url"`
	UserAgent string `toml:"user_agent"`
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *AgmarknetConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 45 * time.Second
	}
	return d
}

// MatchingConfig holds approximate-matching thresholds.
// Thresholds are tunable, not invariants: general text matching and
// commodity-name matching use slightly different defaults.
type MatchingConfig struct {
	TextThreshold      float64 `toml:"text_threshold"`
	CommodityThreshold float64 `toml:"commodity_threshold"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Storage: StorageConfig{
			Downloads: AreaConfig{Path: "data/downloads"},
		},
		Catalog: CatalogConfig{
			Path: "data/metadata",
		},
		Clients: ClientsConfig{
			Agmarknet: AgmarknetConfig{
				BaseURL:   "https://api.agmarknet.gov.in/v1/prices-and-arrivals/commodity-market/daily-report-state",
				UserAgent: "AgriSenseBot/1.0",
				RateLimit: 5,
				Timeout:   "45s",
			},
		},
		Matching: MatchingConfig{
			TextThreshold:      0.85,
			CommodityThreshold: 0.87,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier)
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue // Skip missing files
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	// Apply environment overrides
	applyEnvOverrides(config)

	// Clamp matcher thresholds into a usable range
	validateThresholds(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("AGMARK_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("AGMARK_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("AGMARK_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("AGMARK_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if path := os.Getenv("AGMARK_DATA_PATH"); path != "" {
		config.Storage.Downloads.Path = filepath.Join(path, "downloads")
		config.Catalog.Path = filepath.Join(path, "metadata")
	}

	if url := os.Getenv("AGMARK_AGMARKNET_BASE_URL"); url != "" {
		config.Clients.Agmarknet.BaseURL = url
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}

// validateThresholds keeps similarity thresholds in (0, 1], falling back to
// defaults for out-of-range values.
func validateThresholds(config *Config) {
	if config.Matching.TextThreshold <= 0 || config.Matching.TextThreshold > 1 {
		config.Matching.TextThreshold = 0.85
	}
	if config.Matching.CommodityThreshold <= 0 || config.Matching.CommodityThreshold > 1 {
		config.Matching.CommodityThreshold = 0.87
	}
}
