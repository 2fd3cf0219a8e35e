package types

import "slices"

// SkillCategory classifies a candidate skill
type SkillCategory string

// Skill categories accepted on candidate skill entries
const (
	CategoryTechnical SkillCategory = "technical"
	CategorySoft      SkillCategory = "soft"
	CategoryLanguage  SkillCategory = "language"
	CategoryOther     SkillCategory = "other"
)

// ProficiencyLevel is the self-reported level of a skill
type ProficiencyLevel string

// Proficiency levels, lowest to highest
const (
	ProficiencyBeginner     ProficiencyLevel = "beginner"
	ProficiencyIntermediate ProficiencyLevel = "intermediate"
	ProficiencyAdvanced     ProficiencyLevel = "advanced"
	ProficiencyExpert       ProficiencyLevel = "expert"
)

// Education is a single degree entry on a candidate profile
type Education struct {
	Degree         string   `json:"degree" validate:"notblank"`
	Institution    string   `json:"institution,omitempty"`
	GraduationYear *int     `json:"graduation_year,omitempty"`
	GPA            *float64 `json:"gpa,omitempty"`
}

// Skill is a single skill entry on a candidate profile
type Skill struct {
	SkillName   string           `json:"skill_name" validate:"notblank"`
	Category    SkillCategory    `json:"category,omitempty" validate:"omitempty,oneof=technical soft language other"`
	Proficiency ProficiencyLevel `json:"proficiency,omitempty" validate:"omitempty,oneof=beginner intermediate advanced expert"`
}

// CandidateRecord is an applicant as loaded for a ranking run
type CandidateRecord struct {
	CandidateID     int64       `json:"candidate_id" validate:"gt=0"`
	FullName        string      `json:"fullname,omitempty"`
	Email           string      `json:"email,omitempty"`
	Location        string      `json:"location,omitempty"`
	Status          string      `json:"status,omitempty"`
	Education       []Education `json:"education"`
	Skills          []Skill     `json:"skills"`
	YearsExperience *int        `json:"years_experience,omitempty" validate:"omitempty,gte=0"`
	ExperienceText  string      `json:"experience_text,omitempty"`
}

// Clone returns a deep copy so stages never share slices or pointers with caller-owned records.
func (c CandidateRecord) Clone() CandidateRecord {
	out := c
	out.Education = slices.Clone(c.Education)
	out.Skills = slices.Clone(c.Skills)
	for i := range out.Education {
		if v := out.Education[i].GraduationYear; v != nil {
			year := *v
			out.Education[i].GraduationYear = &year
		}
		if v := out.Education[i].GPA; v != nil {
			gpa := *v
			out.Education[i].GPA = &gpa
		}
	}
	if c.YearsExperience != nil {
		years := *c.YearsExperience
		out.YearsExperience = &years
	}
	return out
}
