// Package config provides configuration loading and validation for the publication service.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Defaults applied when neither the config file nor the environment sets a value.
const (
	DefaultTaxonomyVersion  = 1
	DefaultTaxonomyPageSize = 500
	// DefaultTaxonomyMaxPages bounds pagination against a misbehaving
	// upstream. Hitting the bound fails that type's refresh instead of
	// silently truncating the vocabulary.
	DefaultTaxonomyMaxPages = 50
	DefaultHTTPTimeout      = 30 * time.Second
	DefaultPort             = 8080
)

// Config represents the service configuration, loadable from a JSON file
// and overridable via environment variables. All fields are optional;
// missing values use defaults or must be provided via CLI flags.
type Config struct {
	DatabaseURL string `json:"database_url,omitempty"`

	// Taxonomy source API.
	TaxonomyBaseURL  string `json:"taxonomy_base_url,omitempty"`
	TaxonomyVersion  int    `json:"taxonomy_version,omitempty"`
	TaxonomyPageSize int    `json:"taxonomy_page_size,omitempty"`
	TaxonomyMaxPages int    `json:"taxonomy_max_pages,omitempty"`

	// Remote publishing API.
	PublishBaseURL string `json:"publish_base_url,omitempty"`
	PublishAPIKey  string `json:"publish_api_key,omitempty"`

	// Behavior.
	HTTPTimeoutSeconds int  `json:"http_timeout_seconds,omitempty"`
	Port               int  `json:"port,omitempty"`
	LogJSON            bool `json:"log_json,omitempty"`
	Debug              bool `json:"debug,omitempty"`
}

// Load reads configuration from an optional JSON file, then applies
// environment overrides and defaults. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		if !filepath.IsAbs(path) {
			cwd, err := os.Getwd()
			if err != nil {
				return nil, fmt.Errorf("failed to get current directory: %w", err)
			}
			path = filepath.Join(cwd, path)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.DatabaseURL = v
	}
	if v := os.Getenv("TAXONOMY_BASE_URL"); v != "" {
		c.TaxonomyBaseURL = v
	}
	if v := os.Getenv("TAXONOMY_VERSION"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.TaxonomyVersion = n
		}
	}
	if v := os.Getenv("TAXONOMY_MAX_PAGES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.TaxonomyMaxPages = n
		}
	}
	if v := os.Getenv("PUBLISH_BASE_URL"); v != "" {
		c.PublishBaseURL = v
	}
	if v := os.Getenv("PUBLISH_API_KEY"); v != "" {
		c.PublishAPIKey = v
	}
}

func (c *Config) applyDefaults() {
	if c.TaxonomyVersion == 0 {
		c.TaxonomyVersion = DefaultTaxonomyVersion
	}
	if c.TaxonomyPageSize == 0 {
		c.TaxonomyPageSize = DefaultTaxonomyPageSize
	}
	if c.TaxonomyMaxPages == 0 {
		c.TaxonomyMaxPages = DefaultTaxonomyMaxPages
	}
	if c.HTTPTimeoutSeconds == 0 {
		c.HTTPTimeoutSeconds = int(DefaultHTTPTimeout / time.Second)
	}
	if c.Port == 0 {
		c.Port = DefaultPort
	}
}

// HTTPTimeout returns the outbound HTTP timeout as a duration.
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSeconds) * time.Second
}

// Validate checks that the configuration has valid values.
// Required fields (database URL, base URLs) are checked by the commands
// that need them, not here, since not every command needs every field.
func (c *Config) Validate() error {
	if c.TaxonomyVersion < 1 {
		return fmt.Errorf("config error: 'taxonomy_version' must be positive")
	}
	if c.TaxonomyPageSize < 1 {
		return fmt.Errorf("config error: 'taxonomy_page_size' must be positive")
	}
	if c.TaxonomyMaxPages < 1 {
		return fmt.Errorf("config error: 'taxonomy_max_pages' must be positive")
	}
	if c.HTTPTimeoutSeconds < 1 {
		return fmt.Errorf("config error: 'http_timeout_seconds' must be positive")
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be a valid TCP port")
	}
	return nil
}
