// Package config loads forcemap configuration from YAML with environment
// variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all forcemap configuration.
type Config struct {
	// Server settings
	Server ServerConfig `yaml:"server"`

	// Store settings
	Store StoreConfig `yaml:"store"`

	// Dashboard rendering settings
	Dashboard DashboardConfig `yaml:"dashboard"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig configures the REST API server.
type ServerConfig struct {
	Addr    string `yaml:"addr"`
	BaseURL string `yaml:"base_url"` // base URL the client and render command talk to
}

// StoreConfig configures the SQLite store.
type StoreConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// DashboardConfig configures map tiles and chart output.
type DashboardConfig struct {
	OutputDir string `yaml:"output_dir"`

	// Tile service for the Leaflet map. {token} is substituted with TileToken.
	TileURL   string `yaml:"tile_url"`
	TileToken string `yaml:"tile_token"`

	// Pie chart dimensions in pixels
	ChartWidth  int `yaml:"chart_width"`
	ChartHeight int `yaml:"chart_height"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:    ":8090",
			BaseURL: "http://localhost:8090",
		},
		Store: StoreConfig{
			DatabasePath: "data/forcemap.db",
		},
		Dashboard: DashboardConfig{
			OutputDir:   "out",
			TileURL:     "https://api.mapbox.com/styles/v1/mapbox/streets-v11/tiles/{z}/{x}/{y}?access_token={token}",
			ChartWidth:  512,
			ChartHeight: 512,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load loads configuration from a YAML file. A missing file is not an
// error; defaults (plus env overrides) apply.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides lets the environment win over file values.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("FORCEMAP_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("FORCEMAP_BASE_URL"); v != "" {
		c.Server.BaseURL = v
	}
	if v := os.Getenv("FORCEMAP_DB"); v != "" {
		c.Store.DatabasePath = v
	}
	if v := os.Getenv("FORCEMAP_OUT"); v != "" {
		c.Dashboard.OutputDir = v
	}
	if v := os.Getenv("FORCEMAP_TILE_TOKEN"); v != "" {
		c.Dashboard.TileToken = v
	}
	if v := os.Getenv("FORCEMAP_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}
