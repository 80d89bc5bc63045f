package types

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListing_JSONUnmarshaling(t *testing.T) {
	jsonInput := `{
		"post_id": "https://auctions.transitionaldesign.net/lots/view/4-ABC/oak-dresser",
		"title": "Oak Dresser",
		"current_bid": "$45",
		"url": "https://auctions.transitionaldesign.net/lots/view/4-ABC/oak-dresser",
		"pics": ["4-ABC_1.jpg", "4-ABC_2.jpg"]
	}`

	var listing Listing
	require.NoError(t, json.Unmarshal([]byte(jsonInput), &listing))

	assert.Equal(t, "Oak Dresser", listing.Title)
	assert.Equal(t, "$45", listing.Price)
	assert.Equal(t, []string{"4-ABC_1.jpg", "4-ABC_2.jpg"}, listing.Images)
	assert.Equal(t, listing.URL, listing.ID)
}

func TestListing_Validate(t *testing.T) {
	tests := []struct {
		name    string
		listing Listing
		wantErr bool
	}{
		{
			name:    "valid listing",
			listing: Listing{ID: "1", URL: "https://example.com/lot/1"},
		},
		{
			name:    "missing id",
			listing: Listing{URL: "https://example.com/lot/1"},
			wantErr: true,
		},
		{
			name:    "invalid url",
			listing: Listing{ID: "1", URL: "not a url"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.listing.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateListings_DuplicateID(t *testing.T) {
	listings := []Listing{
		{ID: "a", URL: "https://example.com/a"},
		{ID: "b", URL: "https://example.com/b"},
		{ID: "a", URL: "https://example.com/a2"},
	}

	err := ValidateListings(listings)
	require.Error(t, err)

	var listingErr *ListingError
	require.True(t, errors.As(err, &listingErr))
	assert.Equal(t, 2, listingErr.Index)
	assert.Contains(t, err.Error(), "duplicate id")
}

func TestValidateListings_Empty(t *testing.T) {
	assert.NoError(t, ValidateListings(nil))
}
