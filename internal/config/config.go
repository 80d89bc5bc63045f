// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config represents the CLI configuration that can be loaded from a JSON or YAML file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// AI analysis
	Models            []string `json:"models,omitempty" yaml:"models,omitempty" validate:"min=1,dive,required"`   // Ordered model fallback list
	MaxRetries        int      `json:"max_retries,omitempty" yaml:"max_retries,omitempty" validate:"gte=1"`       // Retries per model for transient faults
	RetryDelaySeconds float64  `json:"retry_delay_seconds,omitempty" yaml:"retry_delay_seconds,omitempty" validate:"gt=0"`
	BatchSize         int      `json:"batch_size,omitempty" yaml:"batch_size,omitempty" validate:"gte=1"`
	BatchDelaySeconds float64  `json:"batch_delay_seconds,omitempty" yaml:"batch_delay_seconds,omitempty" validate:"gte=0"`

	// Scraper pacing between detail pages
	MinWaitSeconds float64 `json:"min_wait_seconds,omitempty" yaml:"min_wait_seconds,omitempty" validate:"gte=0"`
	MaxWaitSeconds float64 `json:"max_wait_seconds,omitempty" yaml:"max_wait_seconds,omitempty" validate:"gtefield=MinWaitSeconds"`

	// Behavior
	APIKey    string `json:"api_key,omitempty" yaml:"api_key,omitempty"`     // Gemini API key
	LogLevel  string `json:"log_level,omitempty" yaml:"log_level,omitempty"` // debug, info, warn, error
	Verbose   bool   `json:"verbose,omitempty" yaml:"verbose,omitempty"`     // Print detailed run summaries
	IndexPath string `json:"index_path,omitempty" yaml:"index_path,omitempty"`
	Publish   bool   `json:"publish,omitempty" yaml:"publish,omitempty"` // git push reports after a run

	Sites map[string]Site `json:"sites,omitempty" yaml:"sites,omitempty" validate:"dive"`

	// Top-level keys present in the loaded file, so an explicit zero survives the merge
	present map[string]bool
}

// Site describes one supported auction site and the files a run produces for it.
type Site struct {
	Name         string    `json:"name" yaml:"name" validate:"required"`
	Domain       string    `json:"domain" yaml:"domain" validate:"required,hostname_rfc1123"`
	ListingsFile string    `json:"listings_file" yaml:"listings_file" validate:"required"`
	ImageDir     string    `json:"image_dir" yaml:"image_dir" validate:"required"`
	DealsFile    string    `json:"deals_file" yaml:"deals_file" validate:"required"`
	ReportPrefix string    `json:"report_prefix" yaml:"report_prefix" validate:"required"`
	Selectors    Selectors `json:"selectors" yaml:"selectors"`
}

// Selectors are the CSS selectors used to read a site's gallery and detail pages.
type Selectors struct {
	GalleryLinks string `json:"gallery_links" yaml:"gallery_links"`
	NextPage     string `json:"next_page" yaml:"next_page"` // Link text of the pager's "next" control
	DetailReady  string `json:"detail_ready" yaml:"detail_ready"`
	Title        string `json:"title" yaml:"title"`
	Price        string `json:"price" yaml:"price"`
	Images       string `json:"images" yaml:"images"`
	ImageAttr    string `json:"image_attr" yaml:"image_attr"` // Attribute holding the full-size image URL
}

// LoadConfig loads configuration from a JSON or YAML file, chosen by extension.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
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

	var cfg Config
	var keys map[string]any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
		_ = yaml.Unmarshal(data, &keys)
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
		_ = json.Unmarshal(data, &keys)
	}

	cfg.present = make(map[string]bool, len(keys))
	for key := range keys {
		cfg.present[key] = true
	}
	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// It should run after MergeWithDefaults so unset fields carry their defaults.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	domains := make(map[string]string, len(c.Sites))
	for key, site := range c.Sites {
		if other, dup := domains[site.Domain]; dup {
			return fmt.Errorf("config error: sites %q and %q share domain %s", other, key, site.Domain)
		}
		domains[site.Domain] = key
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if len(result.Models) == 0 {
		result.Models = append([]string(nil), defaults.Models...)
	}

	// Numeric fields: use default if zero and not written in the file.
	// An explicit zero is kept; Validate rejects it where zero is not allowed.
	if result.MaxRetries == 0 && !c.present["max_retries"] {
		result.MaxRetries = defaults.MaxRetries
	}
	if result.BatchSize == 0 && !c.present["batch_size"] {
		result.BatchSize = defaults.BatchSize
	}
	if result.RetryDelaySeconds == 0 && !c.present["retry_delay_seconds"] {
		result.RetryDelaySeconds = defaults.RetryDelaySeconds
	}
	if result.BatchDelaySeconds == 0 && !c.present["batch_delay_seconds"] {
		result.BatchDelaySeconds = defaults.BatchDelaySeconds
	}
	if result.MinWaitSeconds == 0 && result.MaxWaitSeconds == 0 &&
		!c.present["min_wait_seconds"] && !c.present["max_wait_seconds"] {
		result.MinWaitSeconds = defaults.MinWaitSeconds
		result.MaxWaitSeconds = defaults.MaxWaitSeconds
	}

	// String fields: use default if empty
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.LogLevel == "" {
		result.LogLevel = defaults.LogLevel
	}
	if result.IndexPath == "" {
		result.IndexPath = defaults.IndexPath
	}

	// Sites: file entries replace defaults with the same key
	sites := make(map[string]Site, len(defaults.Sites)+len(result.Sites))
	for key, site := range defaults.Sites {
		sites[key] = site
	}
	for key, site := range result.Sites {
		sites[key] = site
	}
	result.Sites = sites

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
