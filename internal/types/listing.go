// Package types provides type definitions for structured data used throughout the auction-appraiser system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Listing is one scraped auction item. It is immutable once scraped; the JSON keys
// match the listing files written by the scraper.
type Listing struct {
	ID     string   `json:"post_id" validate:"required"`
	Title  string   `json:"title"`
	Price  string   `json:"current_bid"`
	URL    string   `json:"url" validate:"required,url"`
	Images []string `json:"pics"` // Filenames relative to the site's image directory
}

// Validate validates the Listing using the validator.
func (l *Listing) Validate() error {
	validate := validator.New()
	return validate.Struct(l)
}

// ValidateListings checks every listing and rejects duplicate IDs.
func ValidateListings(listings []Listing) error {
	seen := make(map[string]int, len(listings))
	for i := range listings {
		if err := listings[i].Validate(); err != nil {
			return &ListingError{Index: i, ID: listings[i].ID, Cause: err}
		}
		if prev, dup := seen[listings[i].ID]; dup {
			return &ListingError{Index: i, ID: listings[i].ID, Message: fmt.Sprintf("duplicate id (first seen at index %d)", prev)}
		}
		seen[listings[i].ID] = i
	}
	return nil
}
