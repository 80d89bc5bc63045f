package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/auction-appraiser/internal/pipeline"
)

var runCommand = &cobra.Command{
	Use:   "run <auction-url>",
	Short: "Scrape, appraise, report and publish an auction",
	Long: `Runs the whole pipeline for one auction gallery:
  1. Scrape listings and photos
  2. Appraise them with Gemini in batches
  3. Render the sorted HTML report and update the archive index
  4. Commit and push the report (with --publish)
  5. Remove intermediate files (unless --keep-files)`,
	Args: cobra.ExactArgs(1),
	RunE: runPipelineCommand,
}

func init() {
	fs := runCommand.Flags()
	fs.Bool("publish", false, "Commit and push the report files (defaults to the config's publish setting)")
	fs.Bool("keep-files", false, "Keep the listings, deals and image files after the run")
	fs.Bool("skip-scrape", false, "Reuse the site's existing listings file")
	addAnalysisFlags(fs)
	rootCmd.AddCommand(runCommand)
}

func runPipelineCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, os.Getenv)
	if err != nil {
		return err
	}

	fs := cmd.Flags()
	publish := cfg.Publish
	if fs.Changed("publish") {
		publish, _ = fs.GetBool("publish")
	}
	keepFiles, _ := fs.GetBool("keep-files")
	skipScrape, _ := fs.GetBool("skip-scrape")

	result, err := pipeline.RunPipeline(cmd.Context(), pipeline.RunOptions{
		URL:        args[0],
		Config:     cfg,
		SkipScrape: skipScrape,
		Publish:    publish,
		Cleanup:    !keepFiles,
		GitHub:     gitHubFromEnv(os.Getenv),
		Verbose:    cfg.Verbose,
		Out:        os.Stdout,
		Logger:     newLogger(cfg),
	})
	if err != nil {
		return fmt.Errorf("pipeline failed: %w", err)
	}

	_, _ = fmt.Fprintf(os.Stdout, "\nRun %s complete: %s\n", result.RunID, result.Artifacts.HTMLPath)
	if result.Published != nil && result.Published.PagesURL != "" {
		_, _ = fmt.Fprintf(os.Stdout, "View your updated archive at: %s\n", result.Published.PagesURL)
	}
	return nil
}
