package ranking

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/candidate-ranker/internal/textsim"
	"github.com/jonathan/candidate-ranker/internal/types"
)

// punctuationPattern matches anything that is not a word character or whitespace
var punctuationPattern = regexp.MustCompile(`[^\p{L}\p{N}_\s]`)

// proficiencyScores maps proficiency levels to their numeric contribution
var proficiencyScores = map[types.ProficiencyLevel]float64{
	types.ProficiencyBeginner:     0.25,
	types.ProficiencyIntermediate: 0.5,
	types.ProficiencyAdvanced:     0.75,
	types.ProficiencyExpert:       1.0,
}

// defaultProficiencyScore applies to missing or unrecognized levels
const defaultProficiencyScore = 0.5

// PreprocessSkill normalizes a skill name: lowercase, punctuation to spaces, each token
// lemmatized, single-space joined.
func PreprocessSkill(text string, lemmatizer textsim.Lemmatizer) string {
	if text == "" {
		return ""
	}
	if lemmatizer == nil {
		lemmatizer = textsim.IdentityLemmatizer{}
	}

	cleaned := punctuationPattern.ReplaceAllString(strings.ToLower(strings.TrimSpace(text)), " ")
	words := strings.Fields(cleaned)
	for i, word := range words {
		words[i] = lemmatizer.Lemma(word)
	}
	return strings.Join(words, " ")
}

// SkillSimilarity compares two skill names after preprocessing.
// Forms shorter than minFuzzySkillLength must match exactly.
func SkillSimilarity(a, b string, lemmatizer textsim.Lemmatizer) float64 {
	procA := PreprocessSkill(a, lemmatizer)
	procB := PreprocessSkill(b, lemmatizer)

	if utf8.RuneCountInString(procA) < minFuzzySkillLength || utf8.RuneCountInString(procB) < minFuzzySkillLength {
		if procA == procB {
			return 1.0
		}
		return 0.0
	}

	return textsim.Ratio(procA, procB)
}

// ProficiencyScore returns the numeric weight of a proficiency level
func ProficiencyScore(level types.ProficiencyLevel) float64 {
	if score, ok := proficiencyScores[level]; ok {
		return score
	}
	return defaultProficiencyScore
}

// ParseRequiredSkills splits a comma-separated skill list, dropping blanks
func ParseRequiredSkills(csv string) []string {
	parts := strings.Split(csv, ",")
	skills := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			skills = append(skills, trimmed)
		}
	}
	return skills
}

// MatchSkills greedily pairs each required skill, in order, with the most similar unused
// candidate skill above skillMatchThreshold. The first highest-scoring candidate skill wins ties.
func MatchSkills(requiredCSV string, candidateSkills []types.Skill, lemmatizer textsim.Lemmatizer) (float64, types.SkillMatchDetail) {
	detail := types.SkillMatchDetail{
		MatchedSkills: []types.SkillMatch{},
		MissingSkills: []string{},
	}

	if requiredCSV == "" || len(candidateSkills) == 0 {
		return 0.0, detail
	}

	required := ParseRequiredSkills(requiredCSV)
	if len(required) == 0 {
		return 0.0, detail
	}

	used := make([]bool, len(candidateSkills))
	for _, req := range required {
		bestIdx := -1
		bestScore := 0.0

		for i, cand := range candidateSkills {
			if used[i] {
				continue
			}
			sim := SkillSimilarity(req, cand.SkillName, lemmatizer)
			if sim > skillMatchThreshold && sim > bestScore {
				bestIdx = i
				bestScore = sim
			}
		}

		if bestIdx < 0 {
			detail.MissingSkills = append(detail.MissingSkills, req)
			continue
		}

		used[bestIdx] = true
		best := candidateSkills[bestIdx]
		proficiency := best.Proficiency
		if proficiency == "" {
			proficiency = types.ProficiencyIntermediate
		}
		detail.MatchedSkills = append(detail.MatchedSkills, types.SkillMatch{
			Required:         req,
			Matched:          best.SkillName,
			Similarity:       bestScore,
			Proficiency:      proficiency,
			ProficiencyScore: ProficiencyScore(proficiency),
		})
	}

	detail.TotalRequired = len(required)
	detail.MatchedCount = len(detail.MatchedSkills)
	detail.Coverage = float64(detail.MatchedCount) / float64(detail.TotalRequired)

	if detail.MatchedCount > 0 {
		var profSum, simSum float64
		for _, m := range detail.MatchedSkills {
			profSum += m.ProficiencyScore
			simSum += m.Similarity
		}
		detail.AvgProficiency = profSum / float64(detail.MatchedCount)
		detail.AvgSimilarity = simSum / float64(detail.MatchedCount)
	}

	score := coverageWeight*detail.Coverage +
		proficiencyWeight*detail.AvgProficiency +
		similarityWeight*detail.AvgSimilarity

	return clamp01(round2(score)), detail
}

// ScoreSkills scores every candidate against the required skills and returns new scored
// records sorted by skill score, highest first. No candidate is dropped.
func ScoreSkills(candidates []types.CandidateRecord, skillsRequired string, lemmatizer textsim.Lemmatizer) []types.ScoredCandidate {
	scored := make([]types.ScoredCandidate, 0, len(candidates))
	for _, candidate := range candidates {
		sc := types.NewScoredCandidate(candidate)
		sc.SkillScore, sc.SkillMatchDetails = MatchSkills(skillsRequired, sc.Skills, lemmatizer)
		scored = append(scored, sc)
	}

	sortByScore(scored, func(c *types.ScoredCandidate) float64 { return c.SkillScore })
	return scored
}
