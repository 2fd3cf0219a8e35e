package ranking

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/jonathan/candidate-ranker/internal/embedding"
	"github.com/jonathan/candidate-ranker/internal/textsim"
	"github.com/jonathan/candidate-ranker/internal/types"
)

// Years-of-experience scores for the cases that carry no numeric comparison
const (
	yearsNeutralScore   = 0.5 // years or description missing
	yearsGenericScore   = 0.7 // description has no numeric phrase
	yearsOverqualified  = 0.8 // above the top of a range
	yearsShortfallScale = 0.8 // applied to years/min below the minimum
)

// YearsPatternKind tells how the capture groups of a YearsPattern are read
type YearsPatternKind int

// Pattern kinds
const (
	// SingleBound captures one number that is a lower bound ("5+ years")
	SingleBound YearsPatternKind = iota
	// RangeBound captures a lower and an upper bound ("2-4 years")
	RangeBound
)

// YearsPattern is one entry of the years-of-experience extraction table
type YearsPattern struct {
	Kind    YearsPatternKind
	Pattern *regexp.Regexp
}

// DefaultYearsPatterns recognizes "N years", "N+ yrs of experience" and "N-M years".
// Every match of every pattern contributes to the bounds.
var DefaultYearsPatterns = []YearsPattern{
	{Kind: SingleBound, Pattern: regexp.MustCompile(`(\d+)\+?\s*(?:years|yrs)(?:\s*of\s*experience)?`)},
	{Kind: RangeBound, Pattern: regexp.MustCompile(`(\d+)\s*-\s*(\d+)\s*(?:years|yrs)`)},
}

var (
	whitespacePattern  = regexp.MustCompile(`\s+`)
	nonTextCharPattern = regexp.MustCompile(`[^a-z0-9\s\.]`)
)

// PreprocessText lowercases, collapses whitespace and replaces everything except
// letters, digits, whitespace and periods with spaces.
func PreprocessText(text string) string {
	if text == "" {
		return ""
	}
	text = strings.ToLower(text)
	text = strings.TrimSpace(whitespacePattern.ReplaceAllString(text, " "))
	return nonTextCharPattern.ReplaceAllString(text, " ")
}

// yearsBounds holds the requirement extracted from a job description
type yearsBounds struct {
	min, max       int
	hasMin, hasMax bool
}

// extractYearsBounds takes the smallest lower bound and the largest upper bound over all matches
func extractYearsBounds(description string, patterns []YearsPattern) yearsBounds {
	var b yearsBounds
	lower := strings.ToLower(description)

	setMin := func(v int) {
		if !b.hasMin || v < b.min {
			b.min, b.hasMin = v, true
		}
	}
	setMax := func(v int) {
		if !b.hasMax || v > b.max {
			b.max, b.hasMax = v, true
		}
	}

	for _, p := range patterns {
		for _, m := range p.Pattern.FindAllStringSubmatch(lower, -1) {
			switch p.Kind {
			case SingleBound:
				if v, err := strconv.Atoi(m[1]); err == nil {
					setMin(v)
				}
			case RangeBound:
				lo, errLo := strconv.Atoi(m[1])
				hi, errHi := strconv.Atoi(m[2])
				if errLo == nil && errHi == nil {
					setMin(lo)
					setMax(hi)
				}
			}
		}
	}

	return b
}

// YearsMatchScore rates candidate years against the years mentioned in a job description.
// A nil patterns table uses DefaultYearsPatterns.
func YearsMatchScore(years *int, description string, patterns []YearsPattern) float64 {
	if years == nil || description == "" {
		return yearsNeutralScore
	}
	if patterns == nil {
		patterns = DefaultYearsPatterns
	}

	bounds := extractYearsBounds(description, patterns)
	if !bounds.hasMin {
		return yearsGenericScore
	}

	y := *years
	if y < bounds.min {
		return clamp01(float64(y) / float64(bounds.min) * yearsShortfallScale)
	}
	if bounds.hasMax && y > bounds.max {
		return yearsOverqualified
	}
	return 1.0
}

// ScoreExperience blends semantic similarity of each candidate's experience text to the job
// description with the years match, and returns new records sorted by experience score.
// All texts are embedded in one call; an embedder failure aborts the stage.
func ScoreExperience(
	ctx context.Context,
	candidates []types.ScoredCandidate,
	description string,
	embedder embedding.Embedder,
	patterns []YearsPattern,
) ([]types.ScoredCandidate, error) {
	similarities, err := experienceSimilarities(ctx, candidates, description, embedder)
	if err != nil {
		return nil, err
	}

	scored := make([]types.ScoredCandidate, 0, len(candidates))
	for i, candidate := range candidates {
		sc := candidate
		sc.CandidateRecord = candidate.CandidateRecord.Clone()

		years := YearsMatchScore(sc.YearsExperience, description, patterns)
		sc.ExperienceMatchDetails = types.ExperienceMatchDetail{
			TextSimilarity: similarities[i],
			YearsMatch:     years,
		}
		sc.ExperienceScore = clamp01(round2(textSimilarityWeight*similarities[i] + yearsMatchWeight*years))
		scored = append(scored, sc)
	}

	sortByScore(scored, func(c *types.ScoredCandidate) float64 { return c.ExperienceScore })
	return scored, nil
}

// experienceSimilarities returns one similarity per candidate, in input order.
// Candidates whose text is empty after preprocessing get 0 and are not embedded.
func experienceSimilarities(
	ctx context.Context,
	candidates []types.ScoredCandidate,
	description string,
	embedder embedding.Embedder,
) ([]float64, error) {
	similarities := make([]float64, len(candidates))

	jobText := PreprocessText(description)
	if jobText == "" {
		return similarities, nil
	}

	texts := []string{jobText}
	owners := make([]int, 0, len(candidates))
	for i, c := range candidates {
		if text := PreprocessText(c.ExperienceText); text != "" {
			texts = append(texts, text)
			owners = append(owners, i)
		}
	}
	if len(owners) == 0 {
		return similarities, nil
	}
	if embedder == nil {
		return nil, &embedding.ServiceError{Provider: "none", Message: "no embedder configured"}
	}

	vectors, err := embedder.Embed(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to embed experience texts: %w", err)
	}
	if len(vectors) != len(texts) {
		return nil, &embedding.ServiceError{
			Provider: "unknown",
			Message:  fmt.Sprintf("expected %d vectors, got %d", len(texts), len(vectors)),
		}
	}

	for k, idx := range owners {
		similarities[idx] = clamp01(textsim.Cosine(vectors[k+1], vectors[0]))
	}
	return similarities, nil
}
