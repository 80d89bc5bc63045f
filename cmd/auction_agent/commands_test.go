package main

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommands_ArgumentValidation(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		errorString string
	}{
		{
			name:        "run without URL",
			args:        []string{"run"},
			errorString: "accepts 1 arg(s)",
		},
		{
			name:        "scrape without URL",
			args:        []string{"scrape"},
			errorString: "accepts 1 arg(s)",
		},
		{
			name:        "analyze without site",
			args:        []string{"analyze"},
			errorString: "--site is required",
		},
		{
			name:        "cleanup with unknown site",
			args:        []string{"cleanup", "--site", "ebay"},
			errorString: "unknown site",
		},
		{
			name:        "run with unknown auction site",
			args:        []string{"run", "https://example.com/auction/1", "--keep-files"},
			errorString: "does not match a known auction site",
		},
		{
			name:        "invalid batch size",
			args:        []string{"run", "https://greatfindsauction.com/auction/1", "--batch-size", "0"},
			errorString: "config error",
		},
	}

	binaryPath := getBinaryPath(t)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := exec.Command(binaryPath, tt.args...)
			output, err := cmd.CombinedOutput()

			assert.Error(t, err)
			assert.Contains(t, string(output), tt.errorString)
		})
	}
}

func TestAnalyzeCommand_MissingAPIKey(t *testing.T) {
	binaryPath := getBinaryPath(t)
	tmpDir := t.TempDir()

	listings := `[{"post_id": "https://greatfindsauction.com/lot/1", "url": "https://greatfindsauction.com/lot/1", "title": "Lamp", "current_bid": "$5", "pics": []}]`
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "greatfinds_listings.json"), []byte(listings), 0644))

	cmd := exec.Command(binaryPath, "analyze", "--site", "greatfinds")
	cmd.Dir = tmpDir
	cmd.Env = append(filteredEnv("GEMINI_API_KEY"), "GEMINI_API_KEY=")
	output, err := cmd.CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), "API key is required")
}

func TestReportCommand_Regenerate(t *testing.T) {
	binaryPath := getBinaryPath(t)
	tmpDir := t.TempDir()

	results := `[{"item_identification": "Brass Lamp", "estimated_market_value": 80,
		"original_listing": {"post_id": "https://greatfindsauction.com/lot/1", "url": "https://greatfindsauction.com/lot/1"}}]`
	input := filepath.Join(tmpDir, "great_2025-01-02_10-00-00.json")
	require.NoError(t, os.WriteFile(input, []byte(results), 0644))

	index := filepath.Join(tmpDir, "index.html")
	require.NoError(t, os.WriteFile(index, []byte("<ul>\n<!-- REPORT_LINKS_PLACEHOLDER -->\n</ul>\n"), 0644))

	cmd := exec.Command(binaryPath, "report", "--regenerate", input, "--index", index)
	cmd.Dir = tmpDir
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, string(output))
	assert.Contains(t, string(output), "Created HTML report")

	matches, err := filepath.Glob(filepath.Join(tmpDir, "great_Report_*.html"))
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestRootCommand_Help(t *testing.T) {
	binaryPath := getBinaryPath(t)

	output, err := exec.Command(binaryPath, "--help").CombinedOutput()
	require.NoError(t, err)
	for _, sub := range []string{"scrape", "analyze", "report", "run", "cleanup"} {
		assert.Contains(t, string(output), sub)
	}
}

func filteredEnv(drop string) []string {
	var env []string
	for _, kv := range os.Environ() {
		if len(kv) > len(drop) && kv[:len(drop)+1] == drop+"=" {
			continue
		}
		env = append(env, kv)
	}
	return env
}
