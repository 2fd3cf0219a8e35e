package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/jonathan/candidate-ranker/internal/types"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(fmt.Sprintf("failed to register notblank validation: %v", err))
	}
	// Report json names in issues
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	return v
}

// ValidateJob checks the job identity
func ValidateJob(job *types.JobRequirement) error {
	if job == nil {
		return &Error{Message: "job is nil"}
	}
	if err := validate.Struct(job); err != nil {
		return &Error{Message: fmt.Sprintf("invalid job %d", job.JobID), Cause: err}
	}
	return nil
}

// SanitizeCandidates returns copies of the rankable candidates with malformed entries
// removed, plus one Issue per dropped or normalized entry. Input order is kept.
func SanitizeCandidates(candidates []types.CandidateRecord) ([]types.CandidateRecord, []Issue) {
	clean := make([]types.CandidateRecord, 0, len(candidates))
	var issues []Issue

	for _, candidate := range candidates {
		c := candidate.Clone()

		dropped := false
		for _, fe := range fieldErrors(validate.Struct(c)) {
			switch fe.Field() {
			case "candidate_id":
				issues = append(issues, Issue{CandidateID: c.CandidateID, Field: "candidate_id", Message: "invalid candidate id, candidate skipped"})
				dropped = true
			case "years_experience":
				issues = append(issues, Issue{CandidateID: c.CandidateID, Field: "years_experience", Message: fmt.Sprintf("negative value %d treated as unknown", *c.YearsExperience)})
				c.YearsExperience = nil
			}
		}
		if dropped {
			continue
		}

		c.Education, issues = sanitizeEducation(c, issues)
		c.Skills, issues = sanitizeSkills(c, issues)
		clean = append(clean, c)
	}

	return clean, issues
}

func sanitizeEducation(c types.CandidateRecord, issues []Issue) ([]types.Education, []Issue) {
	if c.Education == nil {
		return nil, issues
	}
	kept := make([]types.Education, 0, len(c.Education))
	for i, edu := range c.Education {
		if err := validate.Struct(edu); err != nil {
			issues = append(issues, Issue{CandidateID: c.CandidateID, Field: fmt.Sprintf("education[%d]", i), Message: "blank degree, entry skipped"})
			continue
		}
		kept = append(kept, edu)
	}
	return kept, issues
}

func sanitizeSkills(c types.CandidateRecord, issues []Issue) ([]types.Skill, []Issue) {
	if c.Skills == nil {
		return nil, issues
	}
	kept := make([]types.Skill, 0, len(c.Skills))
	for i, skill := range c.Skills {
		drop := false
		for _, fe := range fieldErrors(validate.Struct(skill)) {
			field := fmt.Sprintf("skills[%d].%s", i, fe.Field())
			switch fe.Field() {
			case "skill_name":
				issues = append(issues, Issue{CandidateID: c.CandidateID, Field: field, Message: "blank skill name, entry skipped"})
				drop = true
			case "proficiency":
				issues = append(issues, Issue{CandidateID: c.CandidateID, Field: field, Message: fmt.Sprintf("unknown proficiency %q, default applies", skill.Proficiency)})
				skill.Proficiency = ""
			case "category":
				issues = append(issues, Issue{CandidateID: c.CandidateID, Field: field, Message: fmt.Sprintf("unknown category %q ignored", skill.Category)})
				skill.Category = ""
			}
		}
		if !drop {
			kept = append(kept, skill)
		}
	}
	return kept, issues
}

// fieldErrors unpacks a validator error; other errors yield nothing
func fieldErrors(err error) validator.ValidationErrors {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		return ve
	}
	return nil
}
