package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/auction-appraiser/internal/analysis"
	"github.com/jonathan/auction-appraiser/internal/config"
	"github.com/jonathan/auction-appraiser/internal/observability"
	"github.com/jonathan/auction-appraiser/internal/pipeline"
	"github.com/jonathan/auction-appraiser/internal/report"
)

var reportCommand = &cobra.Command{
	Use:   "report",
	Short: "Render the HTML report and update the archive index",
	Long: `Sorts the site's deals by estimated market value, writes a timestamped JSON copy and HTML report,
and links the report from the archive index.

With --regenerate, renders only the HTML for an existing sorted JSON file.`,
	RunE: runReport,
}

func init() {
	addSiteFlag(reportCommand.Flags())
	reportCommand.Flags().String("regenerate", "", "Existing sorted JSON file to render again")
	reportCommand.Flags().Bool("publish", false, "Commit and push the report files")
	rootCmd.AddCommand(reportCommand)
}

func runReport(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd, os.Getenv)
	if err != nil {
		return err
	}
	logger := newLogger(cfg)
	regenerate, _ := cmd.Flags().GetString("regenerate")

	var artifacts *report.Artifacts
	if regenerate != "" {
		site, err := regenerateSite(cmd, cfg, regenerate)
		if err != nil {
			return err
		}
		results, err := analysis.LoadResults(regenerate)
		if err != nil {
			return err
		}
		artifacts, err = pipeline.WriteReport(cfg, site, results, time.Now(), true)
		if err != nil {
			return fmt.Errorf("report generation failed: %w", err)
		}
	} else {
		site, err := siteFromFlags(cmd, cfg)
		if err != nil {
			return err
		}
		artifacts, err = pipeline.BuildReport(cfg, site, pipeline.Deps{})
		if err != nil {
			return fmt.Errorf("report generation failed: %w", err)
		}
	}
	_, _ = fmt.Fprintf(os.Stdout, "Created HTML report: %s\n", artifacts.HTMLPath)

	pagesURL := ""
	if publish, _ := cmd.Flags().GetBool("publish"); publish {
		result, err := pipeline.Publish(cmd.Context(), cfg, artifacts, gitHubFromEnv(os.Getenv), pipeline.Deps{}, logger)
		if err != nil {
			return fmt.Errorf("publishing failed: %w", err)
		}
		pagesURL = result.PagesURL
		if pagesURL != "" {
			_, _ = fmt.Fprintf(os.Stdout, "View your updated archive at: %s\n", pagesURL)
		}
	}

	if cfg.Verbose {
		observability.NewPrinter(os.Stdout).PrintArtifacts(append(artifacts.Files(), cfg.IndexPath), pagesURL)
	}
	return nil
}

// regenerateSite uses --site when given, otherwise guesses from the file name
// ("trans" anywhere means the transitional site).
func regenerateSite(cmd *cobra.Command, cfg *config.Config, file string) (config.Site, error) {
	if key, _ := cmd.Flags().GetString("site"); key != "" {
		return cfg.Site(key)
	}
	name := strings.ToLower(filepath.Base(file))
	for key, site := range cfg.Sites {
		if strings.HasPrefix(name, report.FilePrefix(site.ReportPrefix)+"_") || strings.HasPrefix(name, site.ReportPrefix+"_") {
			return cfg.Site(key)
		}
	}
	if strings.Contains(name, "trans") {
		return cfg.Site("transitional")
	}
	return cfg.Site("greatfinds")
}
