package main

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/jonathan/auction-appraiser/internal/config"
	"github.com/jonathan/auction-appraiser/internal/logging"
	"github.com/jonathan/auction-appraiser/internal/pipeline"
)

// Environment variables locating the GitHub Pages archive.
const (
	envGitHubUser = "GITHUB_USERNAME"
	envGitHubRepo = "GITHUB_REPO_NAME"
)

func addGlobalFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "Path to a JSON or YAML config file (values can be overridden by flags)")
	fs.BoolP("verbose", "v", false, "Print run summaries and debug logs")
	fs.String("log-level", "", "Log level: debug, info, warn, error")
	// API key can be passed as a flag, or read from env var GEMINI_API_KEY
	fs.String("api-key", "", "Gemini API key (optional, defaults to GEMINI_API_KEY env var)")
	fs.String("index", "", "Path to the archive index.html")
}

func addAnalysisFlags(fs *pflag.FlagSet) {
	fs.StringSlice("models", nil, "Model fallback order, most capable first")
	fs.Int("batch-size", 0, "Listings per model request")
	fs.Int("max-retries", 0, "Retries per model for transient or malformed responses")
	fs.Float64("retry-delay", 0, "Seconds to wait before a retry")
	fs.Float64("batch-delay", 0, "Seconds to wait between batches")
}

func addSiteFlag(fs *pflag.FlagSet) {
	fs.String("site", "", "Site key from the configuration (e.g. transitional, greatfinds)")
}

// loadConfig resolves configuration in order: defaults, config file, environment, flags.
// Only flags explicitly set on the command line override earlier values.
func loadConfig(cmd *cobra.Command, getenv func(string) string) (*config.Config, error) {
	fs := cmd.Flags()

	cfg := config.Default()
	if path, _ := fs.GetString("config"); path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded.MergeWithDefaults(config.Default())
	}

	if err := cfg.ApplyEnv(getenv); err != nil {
		return nil, err
	}

	if fs.Changed("api-key") {
		cfg.APIKey, _ = fs.GetString("api-key")
	}
	if fs.Changed("log-level") {
		cfg.LogLevel, _ = fs.GetString("log-level")
	}
	if fs.Changed("index") {
		cfg.IndexPath, _ = fs.GetString("index")
	}
	if fs.Changed("verbose") {
		cfg.Verbose, _ = fs.GetBool("verbose")
	}
	if cfg.Verbose {
		cfg.LogLevel = "debug"
	}

	if fs.Lookup("models") != nil {
		if fs.Changed("models") {
			cfg.Models, _ = fs.GetStringSlice("models")
		}
		if fs.Changed("batch-size") {
			cfg.BatchSize, _ = fs.GetInt("batch-size")
		}
		if fs.Changed("max-retries") {
			cfg.MaxRetries, _ = fs.GetInt("max-retries")
		}
		if fs.Changed("retry-delay") {
			cfg.RetryDelaySeconds, _ = fs.GetFloat64("retry-delay")
		}
		if fs.Changed("batch-delay") {
			cfg.BatchDelaySeconds, _ = fs.GetFloat64("batch-delay")
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// siteFromFlags returns the profile named by --site.
func siteFromFlags(cmd *cobra.Command, cfg *config.Config) (config.Site, error) {
	key, _ := cmd.Flags().GetString("site")
	if key == "" {
		return config.Site{}, fmt.Errorf("--site is required")
	}
	return cfg.Site(key)
}

func newLogger(cfg *config.Config) *log.Logger {
	return logging.New(cfg.LogLevel)
}

func gitHubFromEnv(getenv func(string) string) pipeline.GitHub {
	return pipeline.GitHub{Username: getenv(envGitHubUser), Repo: getenv(envGitHubRepo)}
}
