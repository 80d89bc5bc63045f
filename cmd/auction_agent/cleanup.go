package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/auction-appraiser/internal/pipeline"
)

var cleanupCommand = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete a site's listings, deals and image files",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(cmd, os.Getenv)
		if err != nil {
			return err
		}
		site, err := siteFromFlags(cmd, cfg)
		if err != nil {
			return err
		}
		return pipeline.Cleanup(site, newLogger(cfg))
	},
}

func init() {
	addSiteFlag(cleanupCommand.Flags())
	rootCmd.AddCommand(cleanupCommand)
}
