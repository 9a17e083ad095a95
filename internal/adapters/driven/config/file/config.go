// Package file provides the TOML configuration store for the Apunto
// CLI. Configuration lives at ~/.apunto/config.toml by default.
package file

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Defaults applied when the config file is absent or partial.
const (
	DefaultBaseURL             = "http://localhost:3000/api"
	DefaultTimeoutSeconds      = 75
	DefaultOuterTimeoutSeconds = 120
	DefaultRequestsPerSecond   = 2.0
)

// Config is the full application configuration.
type Config struct {
	API     APIConfig     `toml:"api"`
	Storage StorageConfig `toml:"storage"`
	Capture CaptureConfig `toml:"capture"`
}

// APIConfig configures the analysis backend connection.
type APIConfig struct {
	// BaseURL is the backend base URL, e.g. "http://localhost:3000/api".
	BaseURL string `toml:"base_url"`

	// UserID keys remote history requests. Empty means anonymous.
	UserID string `toml:"user_id"`

	// TimeoutSeconds bounds one analysis HTTP call.
	TimeoutSeconds int `toml:"timeout_seconds"`

	// OuterTimeoutSeconds is the caller-side safety deadline that
	// covers the whole analyze flow, encode step included.
	OuterTimeoutSeconds int `toml:"outer_timeout_seconds"`

	// RequestsPerSecond throttles outbound backend calls.
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// StorageConfig configures local persistence.
type StorageConfig struct {
	// DataDir holds the history database. Empty means ~/.apunto/data.
	DataDir string `toml:"data_dir"`
}

// CaptureConfig configures the capture directory watcher.
type CaptureConfig struct {
	// WatchDir is the directory watched for new images.
	WatchDir string `toml:"watch_dir"`

	// Description is attached to analyses triggered by the watcher.
	Description string `toml:"description"`
}

// Timeout returns the per-request deadline as a duration.
func (c APIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// OuterTimeout returns the caller-side safety deadline as a duration.
func (c APIConfig) OuterTimeout() time.Duration {
	return time.Duration(c.OuterTimeoutSeconds) * time.Second
}

// Store loads and saves the configuration file.
type Store struct {
	filePath string
}

// NewStore creates a config store rooted at configDir. If configDir
// is empty, defaults to ~/.apunto.
func NewStore(configDir string) (*Store, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		configDir = filepath.Join(home, ".apunto")
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	return &Store{filePath: filepath.Join(configDir, "config.toml")}, nil
}

// Load reads the configuration, applying defaults for anything the
// file omits. A missing file yields the pure defaults.
func (s *Store) Load() (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	applyDefaults(cfg)
	return cfg, nil
}

// Save persists the configuration with restricted permissions.
func (s *Store) Save(cfg *Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(s.filePath, data, 0600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Path returns the configuration file path.
func (s *Store) Path() string {
	return s.filePath
}

func defaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:             DefaultBaseURL,
			TimeoutSeconds:      DefaultTimeoutSeconds,
			OuterTimeoutSeconds: DefaultOuterTimeoutSeconds,
			RequestsPerSecond:   DefaultRequestsPerSecond,
		},
	}
}

// applyDefaults backfills zero values left by a partial file.
func applyDefaults(cfg *Config) {
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = DefaultBaseURL
	}
	if cfg.API.TimeoutSeconds <= 0 {
		cfg.API.TimeoutSeconds = DefaultTimeoutSeconds
	}
	if cfg.API.OuterTimeoutSeconds <= 0 {
		cfg.API.OuterTimeoutSeconds = DefaultOuterTimeoutSeconds
	}
	if cfg.API.RequestsPerSecond <= 0 {
		cfg.API.RequestsPerSecond = DefaultRequestsPerSecond
	}
}
