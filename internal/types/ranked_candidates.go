package types

// SkillMatch records which candidate skill satisfied a required skill
type SkillMatch struct {
	Required         string           `json:"required"`
	Matched          string           `json:"matched"`
	Similarity       float64          `json:"similarity"`
	Proficiency      ProficiencyLevel `json:"proficiency"`
	ProficiencyScore float64          `json:"proficiency_score"`
}

// SkillMatchDetail explains a skill score
type SkillMatchDetail struct {
	MatchedSkills  []SkillMatch `json:"matched_skills"`
	MissingSkills  []string     `json:"missing_skills"`
	TotalRequired  int          `json:"total_required"`
	MatchedCount   int          `json:"matched_count"`
	Coverage       float64      `json:"coverage"`
	AvgProficiency float64      `json:"avg_proficiency"`
	AvgSimilarity  float64      `json:"avg_similarity"`
}

// ExperienceMatchDetail explains an experience score
type ExperienceMatchDetail struct {
	TextSimilarity float64 `json:"text_similarity"`
	YearsMatch     float64 `json:"years_match"`
}

// ScoredCandidate is a candidate copy decorated with the scores of the stages it has passed.
type ScoredCandidate struct {
	CandidateRecord

	SkillScore             float64               `json:"skill_score"`
	SkillMatchDetails      SkillMatchDetail      `json:"skill_match_details"`
	ExperienceScore        float64               `json:"experience_score"`
	ExperienceMatchDetails ExperienceMatchDetail `json:"experience_match_details"`
	AggregateScore         float64               `json:"aggregate_score"`
}

// NewScoredCandidate starts a scored copy of a record with all scores at zero.
func NewScoredCandidate(c CandidateRecord) ScoredCandidate {
	return ScoredCandidate{
		CandidateRecord: c.Clone(),
		SkillMatchDetails: SkillMatchDetail{
			MatchedSkills: []SkillMatch{},
			MissingSkills: []string{},
		},
	}
}
