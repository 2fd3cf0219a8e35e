package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestCandidateRecord_CloneIsIndependent(t *testing.T) {
	original := CandidateRecord{
		CandidateID:     7,
		Education:       []Education{{Degree: "B.S. Physics", GraduationYear: intPtr(2019)}},
		Skills:          []Skill{{SkillName: "Go", Proficiency: ProficiencyExpert}},
		YearsExperience: intPtr(4),
	}

	clone := original.Clone()
	clone.Education[0].Degree = "changed"
	*clone.Education[0].GraduationYear = 1999
	clone.Skills[0].SkillName = "changed"
	*clone.YearsExperience = 10

	assert.Equal(t, "B.S. Physics", original.Education[0].Degree)
	assert.Equal(t, 2019, *original.Education[0].GraduationYear)
	assert.Equal(t, "Go", original.Skills[0].SkillName)
	assert.Equal(t, 4, *original.YearsExperience)
}

func TestCandidateRecord_CloneNilSlices(t *testing.T) {
	clone := CandidateRecord{CandidateID: 1}.Clone()
	assert.Nil(t, clone.Education)
	assert.Nil(t, clone.Skills)
	assert.Nil(t, clone.YearsExperience)
}

func TestScoredCandidate_JSONFlattensRecord(t *testing.T) {
	scored := NewScoredCandidate(CandidateRecord{CandidateID: 42, FullName: "Ada"})
	scored.SkillScore = 0.5
	scored.AggregateScore = 0.25

	jsonBytes, err := json.Marshal(scored)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(jsonBytes, &decoded))
	assert.Equal(t, float64(42), decoded["candidate_id"])
	assert.Equal(t, "Ada", decoded["fullname"])
	assert.Equal(t, 0.5, decoded["skill_score"])
	assert.Equal(t, 0.25, decoded["aggregate_score"])
	assert.Contains(t, decoded, "skill_match_details")
	assert.Contains(t, decoded, "experience_match_details")
}

func TestJobRequirement_HasEducationRequirement(t *testing.T) {
	var nilJob *JobRequirement
	assert.False(t, nilJob.HasEducationRequirement())
	assert.False(t, (&JobRequirement{}).HasEducationRequirement())
	assert.True(t, (&JobRequirement{EducationQualification: "Bachelor"}).HasEducationRequirement())
}
