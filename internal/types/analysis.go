package types

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// AnalysisResult is the model's appraisal of a single listing.
type AnalysisResult struct {
	ItemIdentification   ItemIdentification `json:"item_identification"`
	EstimatedMarketValue float64            `json:"estimated_market_value"`
	OriginalListing      Listing            `json:"original_listing"`
}

// ItemIdentification holds the model's name for an item. Models answer either with a
// plain string or with an object carrying "item_name"; both forms round-trip unchanged.
type ItemIdentification struct {
	Name   string
	Fields map[string]any // Non-nil only for the object form
}

// NewItemName returns a string-form identification.
func NewItemName(name string) ItemIdentification {
	return ItemIdentification{Name: name}
}

// DisplayName returns the name shown in reports, "N/A" when the model gave none.
func (i ItemIdentification) DisplayName() string {
	if i.Name == "" {
		return "N/A"
	}
	return i.Name
}

// IsStructured reports whether the identification was given as an object.
func (i ItemIdentification) IsStructured() bool {
	return i.Fields != nil
}

// MarshalJSON emits the string or object form the value was built from.
func (i ItemIdentification) MarshalJSON() ([]byte, error) {
	if i.Fields != nil {
		return json.Marshal(i.Fields)
	}
	return json.Marshal(i.Name)
}

// UnmarshalJSON accepts a JSON string, an object with "item_name", or null.
func (i *ItemIdentification) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*i = ItemIdentification{}
		return nil
	}

	switch trimmed[0] {
	case '"':
		var name string
		if err := json.Unmarshal(trimmed, &name); err != nil {
			return err
		}
		*i = ItemIdentification{Name: name}
		return nil
	case '{':
		fields := make(map[string]any)
		if err := json.Unmarshal(trimmed, &fields); err != nil {
			return err
		}
		name, _ := fields["item_name"].(string)
		*i = ItemIdentification{Name: name, Fields: fields}
		return nil
	default:
		return fmt.Errorf("item_identification must be a string or object, got %s", string(trimmed))
	}
}
