// Package types provides type definitions for structured data used throughout the candidate-ranker system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// JobRequirement is the job posting a ranking run scores candidates against.
// It is read once per run and never modified by the pipeline.
type JobRequirement struct {
	JobID       int64  `json:"job_id" validate:"gt=0"`
	CompanyName string `json:"company_name,omitempty"`
	JobRole     string `json:"job_role,omitempty"`
	JobType     string `json:"job_type,omitempty"`
	Location    string `json:"location,omitempty"`
	Stipend     string `json:"stipend,omitempty"`

	// SkillsRequired is a comma-separated list of skill names
	SkillsRequired string `json:"skills_required"`
	// EducationQualification is the free-text degree requirement (empty means no requirement)
	EducationQualification string `json:"education_qualification,omitempty"`
	// Description is the free-text job description; it may contain years-of-experience phrases
	Description string `json:"description"`
}

// HasEducationRequirement reports whether the job restricts candidates by degree.
func (j *JobRequirement) HasEducationRequirement() bool {
	return j != nil && j.EducationQualification != ""
}
