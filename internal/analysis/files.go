package analysis

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonathan/auction-appraiser/internal/schemas"
	"github.com/jonathan/auction-appraiser/internal/types"
	schemafiles "github.com/jonathan/auction-appraiser/schemas"
)

// LoadListings reads and validates a scraped listings file.
func LoadListings(path string) ([]types.Listing, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &CatastrophicFailure{Message: "cannot read listings file " + path, Cause: err}
	}
	if err := schemas.Validate(schemafiles.Listings, data); err != nil {
		return nil, &CatastrophicFailure{Message: "listings file " + path + " is invalid", Cause: err}
	}

	var listings []types.Listing
	if err := json.Unmarshal(data, &listings); err != nil {
		return nil, &CatastrophicFailure{Message: "cannot decode listings file " + path, Cause: err}
	}
	if err := types.ValidateListings(listings); err != nil {
		return nil, &CatastrophicFailure{Message: "listings file " + path + " is invalid", Cause: err}
	}
	return listings, nil
}

// SaveResults writes results as an indented JSON array, creating parent directories.
func SaveResults(path string, results []types.AnalysisResult) error {
	if results == nil {
		results = []types.AnalysisResult{}
	}
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return &CatastrophicFailure{Message: "cannot encode results", Cause: err}
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &CatastrophicFailure{Message: fmt.Sprintf("cannot create directory %s", dir), Cause: err}
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return &CatastrophicFailure{Message: "cannot write results file " + path, Cause: err}
	}
	return nil
}

// LoadResults reads a deals file written by SaveResults.
func LoadResults(path string) ([]types.AnalysisResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read results file %s: %w", path, err)
	}
	if err := schemas.Validate(schemafiles.AnalysisResults, data); err != nil {
		return nil, fmt.Errorf("results file %s is invalid: %w", path, err)
	}
	var results []types.AnalysisResult
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, fmt.Errorf("failed to decode results file %s: %w", path, err)
	}
	return results, nil
}
