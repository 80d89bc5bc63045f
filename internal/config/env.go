package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Environment variables that override file configuration.
const (
	EnvAPIKey     = "GEMINI_API_KEY"
	EnvModels     = "AUCTION_MODELS" // Comma-separated fallback list
	EnvBatchSize  = "AUCTION_BATCH_SIZE"
	EnvMaxRetries = "AUCTION_MAX_RETRIES"
	EnvRetryDelay = "AUCTION_RETRY_DELAY"
	EnvBatchDelay = "AUCTION_BATCH_DELAY"
	EnvLogLevel   = "AUCTION_LOG_LEVEL"
)

// ApplyEnv overrides fields from environment variables read through getenv
// (os.Getenv in production). Malformed numbers are reported rather than ignored.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv(EnvAPIKey); v != "" {
		c.APIKey = v
	}
	if v := getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := getenv(EnvModels); v != "" {
		models := make([]string, 0)
		for _, m := range strings.Split(v, ",") {
			if m = strings.TrimSpace(m); m != "" {
				models = append(models, m)
			}
		}
		c.Models = models
	}

	if v := getenv(EnvBatchSize); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvBatchSize, v, err)
		}
		c.BatchSize = n
	}
	if v := getenv(EnvMaxRetries); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvMaxRetries, v, err)
		}
		c.MaxRetries = n
	}
	if v := getenv(EnvRetryDelay); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvRetryDelay, v, err)
		}
		c.RetryDelaySeconds = f
	}
	if v := getenv(EnvBatchDelay); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvBatchDelay, v, err)
		}
		c.BatchDelaySeconds = f
	}

	return nil
}
