package schemas

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/jonathan/candidate-ranker/internal/schemas"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xeipuuv/gojsonschema"
)

var schemaFiles = []string{
	"rank_result.schema.json",
	"score_input.schema.json",
}

func TestSchemaFiles_ValidJSONSchema(t *testing.T) {
	for _, schemaFile := range schemaFiles {
		t.Run(schemaFile, func(t *testing.T) {
			data, err := os.ReadFile(filepath.Join(".", schemaFile))
			require.NoError(t, err)

			var v map[string]any
			require.NoError(t, json.Unmarshal(data, &v), "schema file should be valid JSON")
			assert.Equal(t, "http://json-schema.org/draft-07/schema#", v["$schema"])

			_, err = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
			assert.NoError(t, err, "schema should compile")
		})
	}
}

func TestRankResultSchema_AcceptsEmptyRun(t *testing.T) {
	doc := []byte(`{"success": true, "message": "No candidates to shortlist", "ranked_candidates": [], "total_candidates": 0}`)
	assert.NoError(t, schemas.ValidateBytes("rank_result.schema.json", doc))
}

func TestRankResultSchema_RejectsOutOfRangeScore(t *testing.T) {
	doc := []byte(`{
		"success": true,
		"total_candidates": 1,
		"ranked_candidates": [{
			"candidate_id": 1,
			"skill_score": 1.2,
			"skill_match_details": {"matched_skills": [], "missing_skills": [], "total_required": 0, "matched_count": 0, "coverage": 0},
			"experience_score": 0.5,
			"experience_match_details": {"text_similarity": 0, "years_match": 0.5},
			"aggregate_score": 0.5
		}]
	}`)

	err := schemas.ValidateBytes("rank_result.schema.json", doc)
	require.Error(t, err)

	var validationErr *schemas.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.NotEmpty(t, validationErr.Errors)
}

func TestScoreInputSchema(t *testing.T) {
	valid := []byte(`{"job": {"job_id": 1, "skills_required": "Go"}, "candidates": [{"candidate_id": 3, "skills": [{"skill_name": "Go"}]}]}`)
	assert.NoError(t, schemas.ValidateBytes("score_input.schema.json", valid))

	missingJob := []byte(`{"candidates": []}`)
	assert.Error(t, schemas.ValidateBytes("score_input.schema.json", missingJob))
}
