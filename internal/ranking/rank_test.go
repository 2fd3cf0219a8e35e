package ranking

import (
	"testing"

	"github.com/jonathan/candidate-ranker/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scored(id int64, skill, exp float64) types.ScoredCandidate {
	c := types.NewScoredCandidate(types.CandidateRecord{CandidateID: id})
	c.SkillScore = skill
	c.ExperienceScore = exp
	return c
}

func TestAggregateScore(t *testing.T) {
	assert.Equal(t, 0.7, AggregateScore(0.8, 0.6))
	assert.Equal(t, 0.0, AggregateScore(0, 0))
	assert.Equal(t, 1.0, AggregateScore(1, 1))
	assert.Equal(t, 0.5, AggregateScore(1, 0))
}

func TestAggregate(t *testing.T) {
	candidates := []types.ScoredCandidate{
		scored(1, 0.2, 0.2),
		scored(2, 0.9, 0.7),
		scored(3, 0.4, 0.0),
		scored(4, 0.0, 0.4),
	}

	ranked := Aggregate(candidates)

	require.Len(t, ranked, 4)
	ids := make([]int64, 0, len(ranked))
	for _, c := range ranked {
		ids = append(ids, c.CandidateID)
		assert.Equal(t, AggregateScore(c.SkillScore, c.ExperienceScore), c.AggregateScore)
	}
	// 3 and 4 tie at 0.2 with 1, input order is kept
	assert.Equal(t, []int64{2, 1, 3, 4}, ids)
	assert.Equal(t, 0.8, ranked[0].AggregateScore)

	for _, c := range candidates {
		assert.Equal(t, 0.0, c.AggregateScore, "input must not be modified")
	}
}

func TestAggregate_Empty(t *testing.T) {
	assert.Empty(t, Aggregate(nil))
}

func TestSummarize(t *testing.T) {
	c := scored(1, 0.7, 0.6)
	c.SkillMatchDetails = types.SkillMatchDetail{
		MatchedSkills: []types.SkillMatch{{Required: "Go", Matched: "golang"}},
		MissingSkills: []string{"SQL"},
		TotalRequired: 2,
		MatchedCount:  1,
		Coverage:      0.5,
	}
	c.ExperienceMatchDetails = types.ExperienceMatchDetail{TextSimilarity: 0.6, YearsMatch: 1.0}

	summary := Summarize(&c)

	assert.Contains(t, summary, "Moderate skill match 1/2 (golang)")
	assert.Contains(t, summary, "Missing: SQL")
	assert.Contains(t, summary, "Relevant experience")
	assert.Contains(t, summary, "Meets years requirement")
}

func TestSummarize_NoRequirements(t *testing.T) {
	c := scored(1, 0, 0)
	c.ExperienceMatchDetails.YearsMatch = 0.7
	assert.Equal(t, "No required skills to compare", Summarize(&c))
}
