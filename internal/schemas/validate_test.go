package schemas

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateJSON_ValidJSON(t *testing.T) {
	schemaPath := filepath.Join("testdata", "valid_schema.json")
	jsonPath := filepath.Join("testdata", "valid_json.json")

	err := ValidateJSON(schemaPath, jsonPath)
	assert.NoError(t, err)
}

func TestValidateJSON_InvalidJSON_MissingField(t *testing.T) {
	schemaPath := filepath.Join("testdata", "valid_schema.json")
	jsonPath := filepath.Join("testdata", "invalid_json.json")

	err := ValidateJSON(schemaPath, jsonPath)
	require.Error(t, err)

	validationErr, ok := err.(*ValidationError)
	require.True(t, ok, "error should be ValidationError type")
	assert.Greater(t, len(validationErr.Errors), 0)
}

func TestValidateJSON_InvalidJSON_WrongType(t *testing.T) {
	schemaPath := filepath.Join("testdata", "valid_schema.json")
	jsonPath := filepath.Join("testdata", "type_mismatch.json")

	err := ValidateJSON(schemaPath, jsonPath)
	require.Error(t, err)

	validationErr, ok := err.(*ValidationError)
	require.True(t, ok, "error should be ValidationError type")
	assert.Greater(t, len(validationErr.Errors), 0)
}

func TestValidateJSON_NonExistentSchema(t *testing.T) {
	schemaPath := "testdata/nonexistent_schema.json"
	jsonPath := filepath.Join("testdata", "valid_json.json")

	err := ValidateJSON(schemaPath, jsonPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestValidateJSON_NonExistentJSON(t *testing.T) {
	schemaPath := filepath.Join("testdata", "valid_schema.json")
	jsonPath := "testdata/nonexistent_json.json"

	err := ValidateJSON(schemaPath, jsonPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestValidateJSON_MalformedJSON(t *testing.T) {
	// Create a temporary malformed JSON file
	tmpDir := t.TempDir()
	malformedJSON := filepath.Join(tmpDir, "malformed.json")
	err := os.WriteFile(malformedJSON, []byte("{ invalid json }"), 0644)
	require.NoError(t, err)

	schemaPath := filepath.Join("testdata", "valid_schema.json")

	valErr := ValidateJSON(schemaPath, malformedJSON)
	require.Error(t, valErr)
	// The error might be from gojsonschema parsing, not our code
}

func TestValidateJSON_RankResultSchema(t *testing.T) {
	tests := []struct {
		name      string
		document  string
		wantError bool
	}{
		{
			name:      "empty run",
			document:  `{"success": true, "ranked_candidates": [], "total_candidates": 0}`,
			wantError: false,
		},
		{
			name:      "missing required field",
			document:  `{"success": true, "total_candidates": 0}`,
			wantError: true,
		},
		{
			name:      "wrong type",
			document:  `{"success": "yes", "ranked_candidates": [], "total_candidates": 0}`,
			wantError: true,
		},
	}

	schemaPath := ResolveSchemaPath(RankResultSchema)
	require.NotEmpty(t, schemaPath, "rank result schema should be found from the package directory")

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jsonPath := filepath.Join(t.TempDir(), "result.json")
			require.NoError(t, os.WriteFile(jsonPath, []byte(tt.document), 0o644))

			err := ValidateJSON(schemaPath, jsonPath)
			if tt.wantError {
				require.Error(t, err)
				var validationErr *ValidationError
				require.ErrorAs(t, err, &validationErr, "should be ValidationError, not SchemaLoadError")
				assert.Greater(t, len(validationErr.Errors), 0)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateBytes(t *testing.T) {
	schemaPath := filepath.Join("testdata", "valid_schema.json")

	assert.NoError(t, ValidateBytes(schemaPath, []byte(`{"candidate_id": 1, "aggregate_score": 1}`)))

	err := ValidateBytes(schemaPath, []byte(`{"candidate_id": 1, "aggregate_score": 1.5}`))
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "aggregate_score", validationErr.Errors[0].Field)

	err = ValidateBytes(schemaPath, []byte(`{ invalid json }`))
	var loadErr *SchemaLoadError
	assert.ErrorAs(t, err, &loadErr)

	err = ValidateBytes("testdata/missing.json", []byte(`{}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestResolveSchemaPath_Missing(t *testing.T) {
	assert.Empty(t, ResolveSchemaPath("schemas/does_not_exist.schema.json"))
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{
		Errors: []FieldError{
			{Field: "name", Message: "is required"},
			{Field: "age", Message: "must be a number"},
		},
	}

	errorMsg := err.Error()
	assert.Contains(t, errorMsg, "validation failed")
	assert.Contains(t, errorMsg, "name")
	assert.Contains(t, errorMsg, "age")
}

func TestLoadSchema_Cached(t *testing.T) {
	first, err := loadSchema(filepath.Join("testdata", "valid_schema.json"))
	require.NoError(t, err)
	second, err := loadSchema(filepath.Join("testdata", "valid_schema.json"))
	require.NoError(t, err)
	assert.Same(t, first, second)
}
