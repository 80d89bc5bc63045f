package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/auction-appraiser/internal/observability"
	"github.com/jonathan/auction-appraiser/internal/pipeline"
)

var analyzeCommand = &cobra.Command{
	Use:   "analyze",
	Short: "Appraise scraped listings with Gemini",
	Long: `Sends the site's listings to Gemini in batches, falling back through the configured models
when one is rate limited or unavailable, and writes the appraisals to the site's deals file.

Batches every model failed on are skipped; the command fails only when nothing could be appraised.`,
	RunE: runAnalyze,
}

func init() {
	addSiteFlag(analyzeCommand.Flags())
	addAnalysisFlags(analyzeCommand.Flags())
	rootCmd.AddCommand(analyzeCommand)
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd, os.Getenv)
	if err != nil {
		return err
	}
	site, err := siteFromFlags(cmd, cfg)
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	rep, err := pipeline.Analyze(cmd.Context(), cfg, site, pipeline.Deps{}, logger, nil)
	if cfg.Verbose {
		printer := observability.NewPrinter(os.Stdout)
		printer.PrintAnalysisReport(rep)
		if rep != nil {
			printer.PrintTopDeals(rep.Results)
		}
	}
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(os.Stdout, "Saved %d appraisals to %s (%d batches skipped)\n", len(rep.Results), site.DealsFile, rep.Exhausted)
	return nil
}
