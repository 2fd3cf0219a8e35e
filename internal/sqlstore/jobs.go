package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jonathan/candidate-ranker/internal/types"
)

// GetJobRequirement retrieves a job posting by ID. Returns nil, nil when it does not exist.
func (s *Store) GetJobRequirement(ctx context.Context, jobID int64) (*types.JobRequirement, error) {
	var job types.JobRequirement
	var jobRole, jobType, location, stipend, skills, education, description sql.NullString

	err := s.db.QueryRowContext(ctx,
		`SELECT job_id, company_name, job_role, job_type, location, stipend,
		        skills_required, education_qualification, description
		 FROM companies WHERE job_id = ?`,
		jobID,
	).Scan(&job.JobID, &job.CompanyName, &jobRole, &jobType, &location, &stipend, &skills, &education, &description)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job %d: %w", jobID, err)
	}

	job.JobRole = jobRole.String
	job.JobType = jobType.String
	job.Location = location.String
	job.Stipend = stipend.String
	job.SkillsRequired = skills.String
	job.EducationQualification = education.String
	job.Description = description.String
	return &job, nil
}

// CreateJob inserts a job posting and returns its ID. A positive job.JobID is kept.
func (s *Store) CreateJob(ctx context.Context, job *types.JobRequirement) (int64, error) {
	var id any
	if job.JobID > 0 {
		id = job.JobID
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO companies (job_id, company_name, job_role, job_type, location, stipend,
		                        skills_required, education_qualification, description)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, job.CompanyName, nullString(job.JobRole), nullString(job.JobType), nullString(job.Location),
		nullString(job.Stipend), job.SkillsRequired, nullString(job.EducationQualification), job.Description,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create job: %w", err)
	}
	return res.LastInsertId()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
