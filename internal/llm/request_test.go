package llm

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/auction-appraiser/internal/logging"
	"github.com/jonathan/auction-appraiser/internal/types"
)

// pngHeader is enough for content sniffing to report image/png
var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}

func TestBuildParts_OrderAndImages(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a_1.png"), pngHeader, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b_1.png"), pngHeader, 0644))

	batch := []types.Listing{
		{ID: "a", Title: "Chair", URL: "https://example.com/a", Images: []string{"a_1.png"}},
		{ID: "b", Title: "Table", URL: "https://example.com/b", Images: []string{"b_1.png"}},
	}

	parts, err := buildParts(batch, dir, logging.Discard())
	require.NoError(t, err)
	require.Len(t, parts, 5)

	instruction, ok := parts[0].(genai.Text)
	require.True(t, ok)
	assert.Contains(t, string(instruction), "Analyze 2 auction listings")
	assert.Contains(t, string(instruction), "JSON array of 2 objects")

	first, ok := parts[1].(genai.Text)
	require.True(t, ok)
	assert.Contains(t, string(first), "--- NEW LISTING ---")
	assert.Contains(t, string(first), `"post_id":"a"`)

	blob, ok := parts[2].(genai.Blob)
	require.True(t, ok)
	assert.Equal(t, "image/png", blob.MIMEType)

	second, ok := parts[3].(genai.Text)
	require.True(t, ok)
	assert.Contains(t, string(second), `"post_id":"b"`)

	_, ok = parts[4].(genai.Blob)
	assert.True(t, ok)
}

func TestBuildParts_SkipsMissingAndNonImageFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.jpg"), []byte("plain text, not an image"), 0644))

	var logs bytes.Buffer
	logger := logging.NewWithWriter(&logs, "debug")

	batch := []types.Listing{
		{ID: "a", URL: "https://example.com/a", Images: []string{"missing.jpg", "notes.jpg"}},
	}

	parts, err := buildParts(batch, dir, logger)
	require.NoError(t, err)
	assert.Len(t, parts, 2, "instruction plus listing text only")
	assert.Contains(t, logs.String(), "skipping unreadable image")
	assert.Contains(t, logs.String(), "skipping non-image file")
}

func TestResolveImagePath(t *testing.T) {
	assert.Equal(t, filepath.Join("pics", "a.jpg"), resolveImagePath("pics", "a.jpg"))
	assert.Equal(t, "a.jpg", resolveImagePath("", "a.jpg"))
	assert.Equal(t, "/abs/a.jpg", resolveImagePath("pics", "/abs/a.jpg"))
}
