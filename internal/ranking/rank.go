package ranking

import (
	"fmt"
	"strings"

	"github.com/jonathan/candidate-ranker/internal/types"
)

// Aggregate combines skill and experience scores into the final aggregate score and returns
// new records sorted by it, highest first. Ties keep the order of the input list.
func Aggregate(candidates []types.ScoredCandidate) []types.ScoredCandidate {
	ranked := make([]types.ScoredCandidate, 0, len(candidates))
	for _, candidate := range candidates {
		sc := candidate
		sc.CandidateRecord = candidate.CandidateRecord.Clone()
		sc.AggregateScore = AggregateScore(sc.SkillScore, sc.ExperienceScore)
		ranked = append(ranked, sc)
	}

	sortByScore(ranked, func(c *types.ScoredCandidate) float64 { return c.AggregateScore })
	return ranked
}

// AggregateScore is the rounded weighted sum of the two sub-scores
func AggregateScore(skillScore, experienceScore float64) float64 {
	return clamp01(round2(aggregateSkillWeight*skillScore + aggregateExperienceWeight*experienceScore))
}

// Summarize creates a brief explanation of a candidate's ranking.
func Summarize(c *types.ScoredCandidate) string {
	var parts []string

	detail := c.SkillMatchDetails
	switch {
	case detail.TotalRequired == 0:
		parts = append(parts, "No required skills to compare")
	case detail.MatchedCount == 0:
		parts = append(parts, "No skill matches")
	default:
		matched := make([]string, 0, len(detail.MatchedSkills))
		for _, m := range detail.MatchedSkills {
			matched = append(matched, m.Matched)
		}
		strength := "Weak"
		if detail.Coverage >= 0.7 {
			strength = "Strong"
		} else if detail.Coverage >= 0.4 {
			strength = "Moderate"
		}
		parts = append(parts, fmt.Sprintf("%s skill match %d/%d (%s)",
			strength, detail.MatchedCount, detail.TotalRequired, strings.Join(matched, ", ")))
	}

	if len(detail.MissingSkills) > 0 {
		parts = append(parts, "Missing: "+strings.Join(detail.MissingSkills, ", "))
	}

	exp := c.ExperienceMatchDetails
	if exp.TextSimilarity >= 0.5 {
		parts = append(parts, "Relevant experience")
	} else if exp.TextSimilarity > 0 {
		parts = append(parts, "Some related experience")
	}
	if exp.YearsMatch >= 1.0 {
		parts = append(parts, "Meets years requirement")
	} else if exp.YearsMatch < yearsNeutralScore {
		parts = append(parts, "Below years requirement")
	}

	return strings.Join(parts, ". ")
}
