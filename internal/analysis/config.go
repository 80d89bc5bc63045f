package analysis

import (
	"context"
	"fmt"
	"time"
)

// Config is the explicit setting value an Orchestrator runs with.
type Config struct {
	Models     []string      // Fallback order, tried first to last
	MaxRetries int           // Retries per model for transient or malformed answers
	RetryDelay time.Duration // Fixed wait before each retry
	BatchSize  int
	BatchDelay time.Duration // Pacing wait between batches
}

// Validate reports configuration that would make a run meaningless.
func (c Config) Validate() error {
	if len(c.Models) == 0 {
		return &CatastrophicFailure{Message: "no model configured"}
	}
	for i, m := range c.Models {
		if m == "" {
			return &CatastrophicFailure{Message: fmt.Sprintf("empty model identifier at position %d of the fallback list", i)}
		}
	}
	if c.BatchSize <= 0 {
		return &CatastrophicFailure{Message: "batch size must be positive"}
	}
	if c.MaxRetries < 0 {
		return &CatastrophicFailure{Message: "max retries must not be negative"}
	}
	if c.RetryDelay < 0 || c.BatchDelay < 0 {
		return &CatastrophicFailure{Message: "delays must not be negative"}
	}
	return nil
}

// SleepFunc blocks for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep is the production SleepFunc.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
