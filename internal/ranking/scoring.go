// Package ranking implements the candidate-ranking stages: education filtering, skill scoring,
// experience scoring and aggregation.
package ranking

import (
	"math"
	"sort"

	"github.com/jonathan/candidate-ranker/internal/types"
)

// Skill score weights
const (
	coverageWeight    = 0.6
	proficiencyWeight = 0.3
	similarityWeight  = 0.1
)

// Experience score weights
const (
	textSimilarityWeight = 0.7
	yearsMatchWeight     = 0.3
)

// Aggregate score weights
const (
	aggregateSkillWeight      = 0.5
	aggregateExperienceWeight = 0.5
)

// Matching thresholds
const (
	// degreeFallbackThreshold applies when a degree level cannot be parsed
	degreeFallbackThreshold = 0.8
	// specializationThreshold applies when both degrees name a specialization
	specializationThreshold = 0.6
	// skillMatchThreshold is the minimum similarity for a skill to count as matched
	skillMatchThreshold = 0.7
	// minFuzzySkillLength is the preprocessed length below which skills must match exactly
	minFuzzySkillLength = 4
)

// round2 rounds to two decimal places, halves away from zero
func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// clamp01 bounds x to [0,1]
func clamp01(x float64) float64 {
	if x < 0 || math.IsNaN(x) {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// sortByScore stable-sorts candidates by the given score, highest first
func sortByScore(candidates []types.ScoredCandidate, score func(*types.ScoredCandidate) float64) {
	sort.SliceStable(candidates, func(i, j int) bool {
		return score(&candidates[i]) > score(&candidates[j])
	})
}
