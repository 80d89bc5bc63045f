// Package schemas holds the JSON Schemas for the files and model responses the pipeline exchanges.
package schemas

import "embed"

// Schema file names.
const (
	Listings        = "listings.schema.json"
	AnalysisResults = "analysis_results.schema.json"
	ModelResponse   = "model_response.schema.json"
)

//go:embed *.schema.json
var files embed.FS

// Read returns the raw content of an embedded schema file.
func Read(name string) ([]byte, error) {
	return files.ReadFile(name)
}
