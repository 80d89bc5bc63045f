// Package llm wraps the generative model backend used to appraise listing batches.
// It builds multimodal requests, parses the JSON answer and classifies backend failures
// into typed error kinds so callers never inspect raw error text.
package llm

import "time"

// Provider represents an LLM provider
type Provider string

// ProviderGemini is the Google Gemini provider
const ProviderGemini Provider = "gemini"

// Config holds the client settings shared by every call
type Config struct {
	Provider       Provider
	Temperature    float32
	RequestTimeout time.Duration // Per-call limit; zero means no limit beyond the caller's context
	ImageDir       string        // Directory listing image filenames are resolved against
}

// DefaultConfig returns the default configuration (currently Gemini)
func DefaultConfig() *Config {
	return DefaultGeminiConfig()
}

// DefaultGeminiConfig returns the default Gemini configuration
func DefaultGeminiConfig() *Config {
	return &Config{
		Provider:       ProviderGemini,
		Temperature:    0.2,
		RequestTimeout: 3 * time.Minute,
	}
}

// DefaultModels returns the default fallback order, most capable first.
func DefaultModels() []string {
	return []string{
		"gemini-2.5-pro",
		"gemini-2.5-flash",
		"gemini-2.5-flash-lite",
	}
}

// WithImageDir returns a copy of the Config resolving images against dir
func (c *Config) WithImageDir(dir string) *Config {
	newConfig := *c
	newConfig.ImageDir = dir
	return &newConfig
}
