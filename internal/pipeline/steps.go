package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/jonathan/auction-appraiser/internal/analysis"
	"github.com/jonathan/auction-appraiser/internal/config"
	"github.com/jonathan/auction-appraiser/internal/fetch"
	"github.com/jonathan/auction-appraiser/internal/llm"
	"github.com/jonathan/auction-appraiser/internal/publish"
	"github.com/jonathan/auction-appraiser/internal/report"
	"github.com/jonathan/auction-appraiser/internal/scraping"
	"github.com/jonathan/auction-appraiser/internal/types"
)

// Deps are the external collaborators of a run. Zero fields use the production implementations.
type Deps struct {
	NewSession func(ctx context.Context, logger *log.Logger) (scraping.Session, func(), error)
	NewClient  func(ctx context.Context, cfg *config.Config, imageDir string, logger *log.Logger) (llm.Client, error)
	Download   scraping.DownloadFunc
	Runner     publish.Runner
	Sleep      analysis.SleepFunc // Retry backoff, batch pacing and scrape waits
	Now        func() time.Time
}

func (d Deps) withDefaults() Deps {
	if d.NewSession == nil {
		d.NewSession = func(ctx context.Context, logger *log.Logger) (scraping.Session, func(), error) {
			browser, err := fetch.NewBrowser(ctx, fetch.DefaultBrowserOptions(), logger)
			if err != nil {
				return nil, nil, err
			}
			return browser, browser.Close, nil
		}
	}
	if d.NewClient == nil {
		d.NewClient = func(ctx context.Context, cfg *config.Config, imageDir string, logger *log.Logger) (llm.Client, error) {
			if cfg.APIKey == "" {
				return nil, fmt.Errorf("API key is required (set %s)", config.EnvAPIKey)
			}
			return llm.NewClient(ctx, llm.DefaultConfig().WithImageDir(imageDir), cfg.APIKey, logger)
		}
	}
	if d.Runner == nil {
		d.Runner = publish.ExecRunner{}
	}
	if d.Sleep == nil {
		d.Sleep = analysis.Sleep
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return d
}

// Scrape collects the listings of the gallery at url and writes the site's listings file.
func Scrape(ctx context.Context, cfg *config.Config, site config.Site, url string, deps Deps, logger *log.Logger) ([]types.Listing, error) {
	deps = deps.withDefaults()

	session, closeSession, err := deps.NewSession(ctx, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}
	defer closeSession()

	opts := scraping.DefaultOptions()
	opts.MinWait = seconds(cfg.MinWaitSeconds)
	opts.MaxWait = seconds(cfg.MaxWaitSeconds)
	opts.Download = deps.Download
	opts.Sleep = deps.Sleep

	listings, err := scraping.New(session, site, opts, logger).Run(ctx, url)
	if err != nil {
		return nil, err
	}
	if err := scraping.WriteListings(site.ListingsFile, listings); err != nil {
		return nil, err
	}
	return listings, nil
}

// Analyze appraises the site's listings file and writes the deals file.
// Nothing is written when the run fails.
func Analyze(ctx context.Context, cfg *config.Config, site config.Site, deps Deps, logger *log.Logger, onBatch func(analysis.BatchReport)) (*analysis.Report, error) {
	deps = deps.withDefaults()

	listings, err := analysis.LoadListings(site.ListingsFile)
	if err != nil {
		return nil, err
	}

	client, err := deps.NewClient(ctx, cfg, site.ImageDir, logger)
	if err != nil {
		return nil, &analysis.CatastrophicFailure{Message: "cannot create model client", Cause: err}
	}
	defer func() { _ = client.Close() }()

	orch, err := analysis.NewOrchestrator(client, cfg.AnalysisConfig(), logger,
		analysis.WithSleep(deps.Sleep),
		analysis.WithBatchCallback(onBatch),
	)
	if err != nil {
		return nil, err
	}

	rep, err := orch.Run(ctx, listings)
	if err != nil {
		return rep, err
	}
	if err := analysis.SaveResults(site.DealsFile, rep.Results); err != nil {
		return rep, err
	}
	return rep, nil
}

// BuildReport renders the site's deals file and links the report from the archive index.
func BuildReport(cfg *config.Config, site config.Site, deps Deps) (*report.Artifacts, error) {
	deps = deps.withDefaults()

	results, err := analysis.LoadResults(site.DealsFile)
	if err != nil {
		return nil, err
	}
	return WriteReport(cfg, site, results, deps.Now(), false)
}

// WriteReport writes the report files for results and updates the archive index.
func WriteReport(cfg *config.Config, site config.Site, results []types.AnalysisResult, now time.Time, htmlOnly bool) (*report.Artifacts, error) {
	if len(results) == 0 {
		return nil, errors.New("no analyzed deals found")
	}

	artifacts, err := report.Generate(results, report.Options{
		Dir:          filepath.Dir(cfg.IndexPath),
		SitePrefix:   site.ReportPrefix,
		Title:        site.Name + " Analysis",
		Now:          now,
		SkipJSONCopy: htmlOnly,
	})
	if err != nil {
		return nil, err
	}

	if _, err := report.UpdateIndex(cfg.IndexPath, artifacts.HTMLPath); err != nil {
		return artifacts, err
	}
	return artifacts, nil
}

// Publish commits and pushes the report files together with the archive index.
func Publish(ctx context.Context, cfg *config.Config, artifacts *report.Artifacts, github GitHub, deps Deps, logger *log.Logger) (*publish.Result, error) {
	deps = deps.withDefaults()

	files := append(artifacts.Files(), cfg.IndexPath)
	message := "Add report: " + filepath.Base(artifacts.HTMLPath)
	return publish.New(deps.Runner, github.Username, github.Repo, logger).Publish(ctx, files, message)
}

// Cleanup removes the site's intermediate files and image directory. Missing paths are ignored.
func Cleanup(site config.Site, logger *log.Logger) error {
	var errs []error
	for _, path := range []string{site.ListingsFile, site.DealsFile} {
		if err := os.Remove(path); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				errs = append(errs, fmt.Errorf("failed to delete %s: %w", path, err))
			}
			continue
		}
		logger.Info("deleted intermediate file", "path", path)
	}

	if _, err := os.Stat(site.ImageDir); err == nil {
		if err := os.RemoveAll(site.ImageDir); err != nil {
			errs = append(errs, fmt.Errorf("failed to delete %s: %w", site.ImageDir, err))
		} else {
			logger.Info("deleted image directory", "path", site.ImageDir)
		}
	}
	return errors.Join(errs...)
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
