package analysis

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/jonathan/auction-appraiser/internal/batching"
	"github.com/jonathan/auction-appraiser/internal/llm"
	"github.com/jonathan/auction-appraiser/internal/logging"
	"github.com/jonathan/auction-appraiser/internal/types"
)

// BatchReport summarizes how one batch was resolved.
type BatchReport struct {
	Index   int // 1-based
	Size    int
	Outcome *Outcome
	Err     *BatchExhaustedError // set when every model failed
}

// Report is the outcome of a full orchestration run.
type Report struct {
	Results   []types.AnalysisResult
	Batches   []BatchReport
	Succeeded int
	Exhausted int
	Lost      int // listings in exhausted batches
}

// Option customizes an Orchestrator.
type Option func(*Orchestrator)

// WithSleep replaces the wait used for retry backoff and batch pacing.
func WithSleep(sleep SleepFunc) Option {
	return func(o *Orchestrator) { o.sleep = sleep }
}

// WithBatchCallback registers a function called after every batch.
func WithBatchCallback(fn func(BatchReport)) Option {
	return func(o *Orchestrator) { o.onBatch = fn }
}

// Orchestrator sequences batches through the fallback controller.
type Orchestrator struct {
	client  llm.Client
	config  Config
	sleep   SleepFunc
	logger  *log.Logger
	onBatch func(BatchReport)
}

// NewOrchestrator validates the config; an invalid one is a *CatastrophicFailure.
func NewOrchestrator(client llm.Client, config Config, logger *log.Logger, opts ...Option) (*Orchestrator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if client == nil {
		return nil, &CatastrophicFailure{Message: "no model client"}
	}
	if logger == nil {
		logger = logging.Discard()
	}

	o := &Orchestrator{client: client, config: config, sleep: Sleep, logger: logger}
	for _, opt := range opts {
		opt(o)
	}
	if o.sleep == nil {
		o.sleep = Sleep
	}
	return o, nil
}

// Run analyzes every listing batch by batch and concatenates the successful results in batch order.
func (o *Orchestrator) Run(ctx context.Context, listings []types.Listing) (*Report, error) {
	report := &Report{Results: make([]types.AnalysisResult, 0, len(listings))}

	total := batching.Count(len(listings), o.config.BatchSize)
	if total == 0 {
		o.logger.Info("no listings to analyze")
		return report, nil
	}

	controller := NewFallbackController(o.client, o.config, o.sleep, o.logger)
	o.logger.Info("starting analysis", "listings", len(listings), "batches", total, "batch_size", o.config.BatchSize)

	index := 0
	for batch := range batching.Batches(listings, o.config.BatchSize) {
		index++
		o.logger.Info("processing batch", "batch", index, "of", total, "listings", len(batch))

		outcome, err := controller.Resolve(ctx, batch)
		if err != nil {
			return report, fmt.Errorf("analysis interrupted at batch %d: %w", index, err)
		}

		br := BatchReport{Index: index, Size: len(batch), Outcome: outcome}
		if outcome.State == StateSuccess {
			report.Results = append(report.Results, outcome.Results...)
			report.Succeeded++
			o.logger.Info("batch complete", "batch", index, "model", outcome.Model, "results", len(outcome.Results), "retries", outcome.Retries)
		} else {
			br.Err = &BatchExhaustedError{Batch: index, Size: len(batch), Attempts: outcome.Attempts}
			report.Exhausted++
			report.Lost += len(batch)
			o.logger.Error("all models failed, skipping batch", "batch", index, "err", br.Err)
		}
		report.Batches = append(report.Batches, br)
		if o.onBatch != nil {
			o.onBatch(br)
		}

		if index < total {
			o.logger.Debug("pacing before next batch", "delay", o.config.BatchDelay)
			if err := o.sleep(ctx, o.config.BatchDelay); err != nil {
				return report, fmt.Errorf("analysis interrupted after batch %d: %w", index, err)
			}
		}
	}

	if report.Succeeded == 0 {
		return report, &CatastrophicFailure{Message: fmt.Sprintf("all %d batches exhausted", total)}
	}

	o.logger.Info("analysis complete", "results", len(report.Results), "exhausted_batches", report.Exhausted)
	return report, nil
}
