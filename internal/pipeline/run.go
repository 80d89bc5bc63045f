// Package pipeline provides the high-level orchestration of an auction appraisal run.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/jonathan/auction-appraiser/internal/analysis"
	"github.com/jonathan/auction-appraiser/internal/config"
	"github.com/jonathan/auction-appraiser/internal/logging"
	"github.com/jonathan/auction-appraiser/internal/observability"
	"github.com/jonathan/auction-appraiser/internal/publish"
	"github.com/jonathan/auction-appraiser/internal/report"
)

// Step names used in progress events.
const (
	StepScrape  = "scrape"
	StepAnalyze = "analyze"
	StepBatch   = "batch"
	StepReport  = "report"
	StepPublish = "publish"
	StepCleanup = "cleanup"
)

// ProgressEvent represents a progress update during pipeline execution
type ProgressEvent struct {
	Step    string `json:"step"`
	Message string `json:"message"`
	RunID   string `json:"run_id,omitempty"`
	Content any    `json:"content,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event ProgressEvent)

// GitHub locates the GitHub Pages site that hosts the archive.
type GitHub struct {
	Username string
	Repo     string
}

// RunOptions holds configuration for running the pipeline
type RunOptions struct {
	URL        string // Auction gallery URL
	Config     *config.Config
	SkipScrape bool // Reuse the site's existing listings file
	Publish    bool
	Cleanup    bool // Remove intermediate files once reporting (and publishing) succeeded
	GitHub     GitHub
	Verbose    bool
	Out        io.Writer // Step lines and verbose summaries; stdout when nil
	Logger     *log.Logger
	OnProgress ProgressCallback
	Deps       Deps
}

// RunResult summarizes a completed run.
type RunResult struct {
	RunID     string
	SiteKey   string
	Listings  int
	Analysis  *analysis.Report
	Artifacts *report.Artifacts
	Published *publish.Result
	CleanedUp bool
}

type runner struct {
	opts    *RunOptions
	runID   string
	out     io.Writer
	printer *observability.Printer
	logger  *log.Logger
}

// emitProgress calls the progress callback if configured
func (r *runner) emitProgress(step, message string, content any) {
	if r.opts.OnProgress != nil {
		r.opts.OnProgress(ProgressEvent{
			Step:    step,
			Message: message,
			RunID:   r.runID,
			Content: content,
		})
	}
}

//nolint:errcheck // writing to stdout; errors are not recoverable
func (r *runner) step(n, total int, format string, args ...any) {
	fmt.Fprintf(r.out, "Step %d/%d: %s\n", n, total, fmt.Sprintf(format, args...))
}

// RunPipeline orchestrates scrape, analysis, report, publish and cleanup for one auction.
func RunPipeline(ctx context.Context, opts RunOptions) (*RunResult, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("config is required")
	}
	cfg := opts.Config

	siteKey, site, err := cfg.SiteForURL(opts.URL)
	if err != nil {
		return nil, err
	}

	r := &runner{opts: &opts, runID: uuid.NewString(), out: opts.Out, logger: opts.Logger}
	if r.out == nil {
		r.out = os.Stdout
	}
	if r.logger == nil {
		r.logger = logging.Discard()
	}
	r.logger = r.logger.With("run", r.runID[:8], "site", siteKey)
	r.printer = observability.NewPrinter(r.out)

	total := 3
	if opts.Publish {
		total++
	}
	if opts.Cleanup {
		total++
	}
	result := &RunResult{RunID: r.runID, SiteKey: siteKey}
	n := 0

	// Step: scrape
	n++
	if opts.SkipScrape {
		r.step(n, total, "Reusing scraped listings from %s...", site.ListingsFile)
	} else {
		r.step(n, total, "Scraping %s from %s...", site.Name, opts.URL)
		listings, err := Scrape(ctx, cfg, site, opts.URL, opts.Deps, r.logger)
		if err != nil {
			return result, fmt.Errorf("scraping failed: %w", err)
		}
		result.Listings = len(listings)
		if opts.Verbose {
			r.printer.PrintListings(site.Name, listings)
		}
		r.emitProgress(StepScrape, fmt.Sprintf("Scraped %d listings", len(listings)), nil)
	}

	// Step: analyze
	n++
	r.step(n, total, "Analyzing listings with %v...", cfg.Models)
	rep, err := Analyze(ctx, cfg, site, opts.Deps, r.logger, func(b analysis.BatchReport) {
		r.emitProgress(StepBatch, fmt.Sprintf("Batch %d: %d listings", b.Index, b.Size), b)
	})
	result.Analysis = rep
	if opts.Verbose {
		r.printer.PrintAnalysisReport(rep)
	}
	if err != nil {
		return result, fmt.Errorf("AI analysis failed: %w", err)
	}
	if opts.SkipScrape {
		result.Listings = len(rep.Results) + rep.Lost
	}
	if opts.Verbose {
		r.printer.PrintTopDeals(rep.Results)
	}
	r.emitProgress(StepAnalyze, fmt.Sprintf("Appraised %d listings", len(rep.Results)), nil)

	// Step: report
	n++
	r.step(n, total, "Writing report...")
	artifacts, err := BuildReport(cfg, site, opts.Deps)
	if err != nil {
		return result, fmt.Errorf("report generation failed: %w", err)
	}
	result.Artifacts = artifacts
	r.emitProgress(StepReport, "Created "+artifacts.HTMLPath, artifacts)

	// Step: publish
	if opts.Publish {
		n++
		r.step(n, total, "Publishing report...")
		published, err := Publish(ctx, cfg, artifacts, opts.GitHub, opts.Deps, r.logger)
		if err != nil {
			return result, fmt.Errorf("publishing failed, intermediate files were kept: %w", err)
		}
		result.Published = published
		r.emitProgress(StepPublish, "Pushed report", published)
	}

	if opts.Verbose {
		pagesURL := ""
		if result.Published != nil {
			pagesURL = result.Published.PagesURL
		}
		r.printer.PrintArtifacts(append(artifacts.Files(), cfg.IndexPath), pagesURL)
	}

	// Step: cleanup
	if opts.Cleanup {
		n++
		r.step(n, total, "Cleaning up intermediate files...")
		if err := Cleanup(site, r.logger); err != nil {
			// Report and archive are already written
			r.logger.Warn("cleanup incomplete", "err", err)
		} else {
			result.CleanedUp = true
		}
		r.emitProgress(StepCleanup, "Removed intermediate files", nil)
	}

	return result, nil
}
