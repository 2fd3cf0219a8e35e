package ranking

import (
	"regexp"
	"slices"
	"strings"

	"github.com/jonathan/candidate-ranker/internal/textsim"
	"github.com/jonathan/candidate-ranker/internal/types"
)

// Degree is the parsed form of a free-text degree string.
// Empty fields mean the component could not be recognized.
type Degree struct {
	Level          string `json:"level,omitempty"`
	Field          string `json:"field,omitempty"`
	Specialization string `json:"specialization,omitempty"`
}

// keywordClass maps a canonical value to the substrings that identify it
type keywordClass struct {
	name     string
	keywords []string
}

// levelKeywords is checked in order; the first class with a matching keyword wins
var levelKeywords = []keywordClass{
	{name: "bachelor", keywords: []string{"bachelor", "bachelors", "b.s.", "b.a.", "b.tech", "b.e.", "undergraduate"}},
	{name: "master", keywords: []string{"master", "masters", "m.s.", "m.a.", "m.tech", "m.e.", "graduate", "post graduate"}},
	{name: "phd", keywords: []string{"phd", "ph.d", "doctorate", "doctoral"}},
	{name: "associate", keywords: []string{"associate", "diploma"}},
}

// fieldKeywords is checked in order; the first class with a matching keyword wins
var fieldKeywords = []keywordClass{
	{name: "science", keywords: []string{"science", "technology", "engineering", "technical"}},
	{name: "arts", keywords: []string{"arts", "design", "fine arts", "liberal arts"}},
	{name: "business", keywords: []string{"business", "commerce", "administration", "management", "mba"}},
	{name: "law", keywords: []string{"law", "legal", "juris"}},
	{name: "medicine", keywords: []string{"medicine", "medical", "health", "nursing"}},
}

// degreeRank maps degree levels to numeric ranks for comparison
var degreeRank = map[string]int{
	"associate": 1,
	"bachelor":  2,
	"master":    3,
	"phd":       4,
}

// compatibleFields lists the alternative fields accepted for a required field
var compatibleFields = map[string][]string{
	"science":     {"technology", "engineering"},
	"technology":  {"science", "engineering"},
	"engineering": {"science", "technology"},
}

var specializationPattern = regexp.MustCompile(`(?:in|of|with focus on|specializing in)\s+(.+?)(?:$|with|and)`)

// ParseDegree splits a degree string into level, field and specialization.
func ParseDegree(text string) Degree {
	normalized := strings.ToLower(strings.TrimSpace(text))
	if normalized == "" {
		return Degree{}
	}

	degree := Degree{
		Level: classify(normalized, levelKeywords),
		Field: classify(normalized, fieldKeywords),
	}

	if m := specializationPattern.FindStringSubmatch(normalized); m != nil {
		degree.Specialization = strings.TrimSpace(m[1])
	} else if parts := strings.Fields(normalized); len(parts) > 2 {
		degree.Specialization = parts[len(parts)-1]
	}

	return degree
}

// classify returns the first class name whose keywords occur in text
func classify(text string, classes []keywordClass) string {
	for _, class := range classes {
		for _, keyword := range class.keywords {
			if strings.Contains(text, keyword) {
				return class.name
			}
		}
	}
	return ""
}

// AreDegreesCompatible reports whether the candidate degree satisfies the required one.
func AreDegreesCompatible(required, candidate string) bool {
	req := ParseDegree(required)
	cand := ParseDegree(candidate)

	// Unparseable level: compare the raw strings
	if req.Level == "" || cand.Level == "" {
		return textsim.Ratio(strings.ToLower(required), strings.ToLower(candidate)) > degreeFallbackThreshold
	}

	if degreeRank[cand.Level] < degreeRank[req.Level] {
		return false
	}

	if req.Field != "" && cand.Field != "" && req.Field != cand.Field {
		if !slices.Contains(compatibleFields[req.Field], cand.Field) {
			return false
		}
	}

	if req.Specialization != "" && cand.Specialization != "" {
		return textsim.Ratio(req.Specialization, cand.Specialization) > specializationThreshold
	}

	return true
}

// FilterByEducation keeps candidates holding at least one degree compatible with the
// qualification, preserving input order. An empty qualification admits everyone.
// The returned records are copies.
func FilterByEducation(candidates []types.CandidateRecord, qualification string) []types.CandidateRecord {
	admitted := make([]types.CandidateRecord, 0, len(candidates))
	for _, candidate := range candidates {
		if qualification == "" || hasCompatibleDegree(candidate, qualification) {
			admitted = append(admitted, candidate.Clone())
		}
	}
	return admitted
}

// hasCompatibleDegree stops at the first compatible entry
func hasCompatibleDegree(candidate types.CandidateRecord, qualification string) bool {
	for _, edu := range candidate.Education {
		if edu.Degree == "" {
			continue
		}
		if AreDegreesCompatible(qualification, edu.Degree) {
			return true
		}
	}
	return false
}
