package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jonathan/candidate-ranker/internal/types"
)

// GetJobRequirement retrieves a job posting by ID. Returns nil, nil when it does not exist.
func (db *DB) GetJobRequirement(ctx context.Context, jobID int64) (*types.JobRequirement, error) {
	var job types.JobRequirement
	var jobRole, jobType, location, stipend *string
	var skillsRequired, educationQualification, description *string

	err := db.pool.QueryRow(ctx,
		`SELECT job_id, company_name, job_role, job_type, location, stipend,
		        skills_required, education_qualification, description
		 FROM companies WHERE job_id = $1`,
		jobID,
	).Scan(&job.JobID, &job.CompanyName, &jobRole, &jobType, &location, &stipend,
		&skillsRequired, &educationQualification, &description)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job %d: %w", jobID, err)
	}

	job.JobRole = deref(jobRole)
	job.JobType = deref(jobType)
	job.Location = deref(location)
	job.Stipend = deref(stipend)
	job.SkillsRequired = deref(skillsRequired)
	job.EducationQualification = deref(educationQualification)
	job.Description = deref(description)
	return &job, nil
}

// CreateJob inserts a job posting and returns its ID
func (db *DB) CreateJob(ctx context.Context, job *types.JobRequirement) (int64, error) {
	var id int64
	err := db.pool.QueryRow(ctx,
		`INSERT INTO companies (company_name, job_role, job_type, location, stipend,
		                        skills_required, education_qualification, description)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING job_id`,
		job.CompanyName, nullIfEmpty(job.JobRole), nullIfEmpty(job.JobType), nullIfEmpty(job.Location),
		nullIfEmpty(job.Stipend), job.SkillsRequired, nullIfEmpty(job.EducationQualification), job.Description,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create job: %w", err)
	}
	return id, nil
}

// deref returns the pointed-to string or ""
func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// nullIfEmpty maps "" to SQL NULL
func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
