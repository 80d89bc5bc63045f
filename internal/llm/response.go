package llm

import (
	"encoding/json"
	"fmt"

	"github.com/jonathan/auction-appraiser/internal/schemas"
	"github.com/jonathan/auction-appraiser/internal/types"

	schemafiles "github.com/jonathan/auction-appraiser/schemas"
)

// rawResult is one appraisal as the model returned it. The echoed listing is only
// used to line results up with the batch.
type rawResult struct {
	ItemIdentification   types.ItemIdentification `json:"item_identification"`
	EstimatedMarketValue float64                  `json:"estimated_market_value"`
	OriginalListing      json.RawMessage          `json:"original_listing"`
}

type echoedListing struct {
	ID  string `json:"post_id"`
	URL string `json:"url"`
}

// ParseBatchResponse turns the model's text into one result per batch listing, in batch order.
// The response must be a JSON array matching the model response schema with exactly
// len(batch) items. Each result carries the real input listing rather than the model's echo.
func ParseBatchResponse(model, text string, batch []types.Listing) ([]types.AnalysisResult, error) {
	cleaned := ExtractJSONArray(text)
	if cleaned == "" {
		return nil, &MalformedResponseError{Model: model, Message: "empty response", Response: text}
	}
	if !json.Valid([]byte(cleaned)) {
		return nil, &MalformedResponseError{Model: model, Message: "response is not valid JSON", Response: text}
	}
	if err := schemas.Validate(schemafiles.ModelResponse, []byte(cleaned)); err != nil {
		return nil, &MalformedResponseError{Model: model, Message: "response does not match the result schema", Response: text, Cause: err}
	}

	var raw []rawResult
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return nil, &MalformedResponseError{Model: model, Message: "failed to decode results", Response: text, Cause: err}
	}

	if len(raw) != len(batch) {
		return nil, &MalformedResponseError{
			Model:    model,
			Message:  fmt.Sprintf("expected %d results, got %d", len(batch), len(raw)),
			Response: text,
		}
	}

	order := matchByID(raw, batch)
	results := make([]types.AnalysisResult, len(batch))
	for i, r := range raw {
		target := i
		if order != nil {
			target = order[i]
		}
		results[target] = types.AnalysisResult{
			ItemIdentification:   r.ItemIdentification,
			EstimatedMarketValue: max(r.EstimatedMarketValue, 0),
			OriginalListing:      batch[target],
		}
	}

	return results, nil
}

// matchByID maps each raw result to the batch index of the listing it echoes.
// It returns nil unless every result maps onto a distinct listing, in which case
// results are placed positionally.
func matchByID(raw []rawResult, batch []types.Listing) []int {
	byID := make(map[string]int, len(batch))
	byURL := make(map[string]int, len(batch))
	for i, l := range batch {
		byID[l.ID] = i
		if l.URL != "" {
			byURL[l.URL] = i
		}
	}

	order := make([]int, len(raw))
	used := make([]bool, len(batch))
	for i, r := range raw {
		var echoed echoedListing
		if err := json.Unmarshal(r.OriginalListing, &echoed); err != nil {
			return nil
		}

		idx, ok := byID[echoed.ID]
		if !ok || echoed.ID == "" {
			idx, ok = byURL[echoed.URL]
		}
		if !ok || used[idx] {
			return nil
		}
		used[idx] = true
		order[i] = idx
	}

	return order
}
