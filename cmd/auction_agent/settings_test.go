package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCommand(t *testing.T, withAnalysis bool, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	addGlobalFlags(cmd.Flags())
	addSiteFlag(cmd.Flags())
	if withAnalysis {
		addAnalysisFlags(cmd.Flags())
	}
	require.NoError(t, cmd.ParseFlags(args))
	return cmd
}

func envMap(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestLoadConfig_Defaults(t *testing.T) {
	cmd := newTestCommand(t, true)

	cfg, err := loadConfig(cmd, envMap(nil))
	require.NoError(t, err)

	assert.Equal(t, []string{"gemini-2.5-pro", "gemini-2.5-flash", "gemini-2.5-flash-lite"}, cfg.Models)
	assert.Equal(t, 2, cfg.BatchSize)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "index.html", cfg.IndexPath)
}

func TestLoadConfig_Precedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "batch_size: 4\nmax_retries: 5\nindex_path: archive/index.html\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cmd := newTestCommand(t, true,
		"--config", path,
		"--batch-size", "6",
		"--models", "m1,m2",
	)
	env := envMap(map[string]string{
		"AUCTION_BATCH_SIZE":  "3",
		"AUCTION_MAX_RETRIES": "7",
		"GEMINI_API_KEY":      "env-key",
	})

	cfg, err := loadConfig(cmd, env)
	require.NoError(t, err)

	assert.Equal(t, 6, cfg.BatchSize, "flag beats env and file")
	assert.Equal(t, 7, cfg.MaxRetries, "env beats file")
	assert.Equal(t, "archive/index.html", cfg.IndexPath, "file beats default")
	assert.Equal(t, []string{"m1", "m2"}, cfg.Models)
	assert.Equal(t, "env-key", cfg.APIKey)
}

func TestLoadConfig_APIKeyFlagBeatsEnv(t *testing.T) {
	cmd := newTestCommand(t, false, "--api-key", "flag-key")

	cfg, err := loadConfig(cmd, envMap(map[string]string{"GEMINI_API_KEY": "env-key"}))
	require.NoError(t, err)
	assert.Equal(t, "flag-key", cfg.APIKey)
}

func TestLoadConfig_VerboseForcesDebug(t *testing.T) {
	cmd := newTestCommand(t, false, "-v", "--log-level", "error")

	cfg, err := loadConfig(cmd, envMap(nil))
	require.NoError(t, err)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfig_AnalysisFlagsIgnoredWhenAbsent(t *testing.T) {
	cmd := newTestCommand(t, false)

	cfg, err := loadConfig(cmd, envMap(map[string]string{"AUCTION_BATCH_SIZE": "9"}))
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.BatchSize)
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		env         map[string]string
		errorString string
	}{
		{
			name:        "missing config file",
			args:        []string{"--config", "/nonexistent/config.json"},
			errorString: "failed to load config",
		},
		{
			name:        "malformed env number",
			env:         map[string]string{"AUCTION_BATCH_SIZE": "two"},
			errorString: "AUCTION_BATCH_SIZE",
		},
		{
			name:        "zero batch size",
			args:        []string{"--batch-size", "0"},
			errorString: "config error",
		},
		{
			name:        "negative batch delay",
			args:        []string{"--batch-delay", "-1"},
			errorString: "config error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := newTestCommand(t, true, tt.args...)
			_, err := loadConfig(cmd, envMap(tt.env))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorString)
		})
	}
}

func TestSiteFromFlags(t *testing.T) {
	cfg, err := loadConfig(newTestCommand(t, false), envMap(nil))
	require.NoError(t, err)

	t.Run("missing", func(t *testing.T) {
		_, err := siteFromFlags(newTestCommand(t, false), cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "--site is required")
	})

	t.Run("known", func(t *testing.T) {
		site, err := siteFromFlags(newTestCommand(t, false, "--site", "greatfinds"), cfg)
		require.NoError(t, err)
		assert.Equal(t, "greatfinds_deals.json", site.DealsFile)
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := siteFromFlags(newTestCommand(t, false, "--site", "ebay"), cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown site")
	})
}

func TestRegenerateSite(t *testing.T) {
	cfg, err := loadConfig(newTestCommand(t, false), envMap(nil))
	require.NoError(t, err)

	tests := []struct {
		name string
		args []string
		file string
		want string
	}{
		{name: "design prefix", file: "design_2025-01-02_10-00-00.json", want: "Transitional Design"},
		{name: "great prefix", file: "great_2025-01-02_10-00-00.json", want: "Great Finds Auction"},
		{name: "trans anywhere", file: "old_trans_export.json", want: "Transitional Design"},
		{name: "fallback", file: "deals.json", want: "Great Finds Auction"},
		{name: "explicit site", args: []string{"--site", "transitional"}, file: "great_x.json", want: "Transitional Design"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			site, err := regenerateSite(newTestCommand(t, false, tt.args...), cfg, tt.file)
			require.NoError(t, err)
			assert.Equal(t, tt.want, site.Name)
		})
	}
}

func TestGitHubFromEnv(t *testing.T) {
	gh := gitHubFromEnv(envMap(map[string]string{
		"GITHUB_USERNAME":  "octo",
		"GITHUB_REPO_NAME": "deals",
	}))
	assert.Equal(t, "octo", gh.Username)
	assert.Equal(t, "deals", gh.Repo)
}
