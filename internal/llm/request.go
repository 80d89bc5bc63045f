package llm

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/generative-ai-go/genai"

	"github.com/jonathan/auction-appraiser/internal/prompts"
	"github.com/jonathan/auction-appraiser/internal/types"
)

// buildParts assembles the multimodal request for a batch: the instruction, then for
// every listing its JSON text block followed by its readable images.
// Images that cannot be opened are logged and skipped.
func buildParts(batch []types.Listing, imageDir string, logger *log.Logger) ([]genai.Part, error) {
	parts := []genai.Part{genai.Text(prompts.BatchInstruction(len(batch)))}
	for _, listing := range batch {
		listingJSON, err := json.Marshal(listing)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal listing %s: %w", listing.ID, err)
		}
		parts = append(parts, genai.Text(prompts.ListingHeader(string(listingJSON))))

		for _, pic := range listing.Images {
			blob, ok := loadImage(resolveImagePath(imageDir, pic), listing.ID, logger)
			if ok {
				parts = append(parts, blob)
			}
		}
	}

	return parts, nil
}

func resolveImagePath(imageDir, pic string) string {
	if filepath.IsAbs(pic) || imageDir == "" {
		return pic
	}
	return filepath.Join(imageDir, pic)
}

func loadImage(path, listingID string, logger *log.Logger) (genai.Blob, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("skipping unreadable image", "listing", listingID, "path", path, "err", err)
		return genai.Blob{}, false
	}

	mimeType := http.DetectContentType(data)
	if !strings.HasPrefix(mimeType, "image/") {
		logger.Warn("skipping non-image file", "listing", listingID, "path", path, "mime", mimeType)
		return genai.Blob{}, false
	}

	return genai.Blob{MIMEType: mimeType, Data: data}, true
}
