package schemas

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	schemafiles "github.com/jonathan/auction-appraiser/schemas"
)

func TestValidate_ModelResponse_Valid(t *testing.T) {
	doc := `[
		{"item_identification": "Oak dresser", "estimated_market_value": 120, "original_listing": {"post_id": "1"}},
		{"item_identification": {"item_name": "Lamp"}, "estimated_market_value": 15.5, "original_listing": {}}
	]`

	assert.NoError(t, Validate(schemafiles.ModelResponse, []byte(doc)))
}

func TestValidate_ModelResponse_NotArray(t *testing.T) {
	err := Validate(schemafiles.ModelResponse, []byte(`{"item_identification": "x"}`))
	require.Error(t, err)

	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "(root)", validationErr.Errors[0].Field)
}

func TestValidate_ModelResponse_MissingField(t *testing.T) {
	doc := `[{"item_identification": "Oak dresser", "original_listing": {}}]`

	err := Validate(schemafiles.ModelResponse, []byte(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "estimated_market_value")
}

func TestValidate_ModelResponse_WrongType(t *testing.T) {
	doc := `[{"item_identification": "Oak dresser", "estimated_market_value": "$120", "original_listing": {}}]`

	err := Validate(schemafiles.ModelResponse, []byte(doc))
	require.Error(t, err)

	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Greater(t, len(validationErr.Errors), 0)
}

func TestValidate_InvalidDocument(t *testing.T) {
	err := Validate(schemafiles.ModelResponse, []byte(`not json`))
	require.Error(t, err)

	var validationErr *ValidationError
	assert.True(t, errors.As(err, &validationErr))
}

func TestValidate_AnalysisResults_NegativeValue(t *testing.T) {
	doc := `[{"item_identification": "x", "estimated_market_value": -1, "original_listing": {"post_id": "1", "url": "u"}}]`

	assert.Error(t, Validate(schemafiles.AnalysisResults, []byte(doc)))
}

func TestValidate_UnknownSchema(t *testing.T) {
	err := Validate("missing.schema.json", []byte(`[]`))
	require.Error(t, err)

	var loadErr *SchemaLoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, "missing.schema.json", loadErr.Path)
}
