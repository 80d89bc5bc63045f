package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/auction-appraiser/internal/observability"
	"github.com/jonathan/auction-appraiser/internal/pipeline"
)

var scrapeCommand = &cobra.Command{
	Use:   "scrape <auction-url>",
	Short: "Scrape every listing of an auction gallery",
	Long: `Walks the auction gallery page by page in a headless browser, reads each listing's detail page
and downloads its photos. The listings file and image directory come from the matching site profile.`,
	Args: cobra.ExactArgs(1),
	RunE: runScrape,
}

func init() {
	rootCmd.AddCommand(scrapeCommand)
}

func runScrape(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, os.Getenv)
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	key, site, err := cfg.SiteForURL(args[0])
	if err != nil {
		return err
	}
	logger.Info("scraping", "site", key, "url", args[0])

	listings, err := pipeline.Scrape(cmd.Context(), cfg, site, args[0], pipeline.Deps{}, logger)
	if err != nil {
		return fmt.Errorf("scraping failed: %w", err)
	}

	if cfg.Verbose {
		observability.NewPrinter(os.Stdout).PrintListings(site.Name, listings)
	}
	_, _ = fmt.Fprintf(os.Stdout, "Saved %d listings to %s\n", len(listings), site.ListingsFile)
	return nil
}
