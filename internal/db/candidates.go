package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jonathan/candidate-ranker/internal/types"
)

// GetCandidatesAppliedTo loads every applicant of a job in application order, with
// education and skills in insertion order. Three queries are issued regardless of the
// number of applicants.
func (db *DB) GetCandidatesAppliedTo(ctx context.Context, jobID int64) ([]types.CandidateRecord, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT c.candidate_id, c.fullname, c.email, c.location, c.status,
		        c.years_experience, c.experience_text
		 FROM appliedcandidates a
		 JOIN candidates c ON c.candidate_id = a.candidate_id
		 WHERE a.job_id = $1
		 ORDER BY a.applied_at, a.application_id`,
		jobID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query applicants of job %d: %w", jobID, err)
	}

	candidates, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (types.CandidateRecord, error) {
		var c types.CandidateRecord
		var location, status, experience *string
		var years *int32
		if err := row.Scan(&c.CandidateID, &c.FullName, &c.Email, &location, &status, &years, &experience); err != nil {
			return c, err
		}
		c.Location = deref(location)
		c.Status = deref(status)
		c.ExperienceText = deref(experience)
		if years != nil {
			y := int(*years)
			c.YearsExperience = &y
		}
		return c, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan applicants of job %d: %w", jobID, err)
	}
	if len(candidates) == 0 {
		return []types.CandidateRecord{}, nil
	}

	education, err := db.educationByCandidate(ctx, jobID)
	if err != nil {
		return nil, err
	}
	skills, err := db.skillsByCandidate(ctx, jobID)
	if err != nil {
		return nil, err
	}

	for i := range candidates {
		id := candidates[i].CandidateID
		candidates[i].Education = orEmpty(education[id])
		candidates[i].Skills = orEmpty(skills[id])
	}
	return candidates, nil
}

func (db *DB) educationByCandidate(ctx context.Context, jobID int64) (map[int64][]types.Education, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT e.candidate_id, e.degree, e.institution, e.graduation_year, e.gpa::float8
		 FROM education e
		 JOIN appliedcandidates a ON a.candidate_id = e.candidate_id
		 WHERE a.job_id = $1
		 ORDER BY e.candidate_id, e.education_id`,
		jobID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query education of job %d: %w", jobID, err)
	}
	defer rows.Close()

	byCandidate := make(map[int64][]types.Education)
	for rows.Next() {
		var candidateID int64
		var degree, institution *string
		var year *int32
		var gpa *float64
		if err := rows.Scan(&candidateID, &degree, &institution, &year, &gpa); err != nil {
			return nil, fmt.Errorf("failed to scan education: %w", err)
		}
		edu := types.Education{Degree: deref(degree), Institution: deref(institution), GPA: gpa}
		if year != nil {
			y := int(*year)
			edu.GraduationYear = &y
		}
		byCandidate[candidateID] = append(byCandidate[candidateID], edu)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read education: %w", err)
	}
	return byCandidate, nil
}

func (db *DB) skillsByCandidate(ctx context.Context, jobID int64) (map[int64][]types.Skill, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT s.candidate_id, s.skill_name, s.skill_category, s.proficiency_level
		 FROM skills s
		 JOIN appliedcandidates a ON a.candidate_id = s.candidate_id
		 WHERE a.job_id = $1
		 ORDER BY s.candidate_id, s.skill_id`,
		jobID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query skills of job %d: %w", jobID, err)
	}
	defer rows.Close()

	byCandidate := make(map[int64][]types.Skill)
	for rows.Next() {
		var candidateID int64
		var name, category, proficiency *string
		if err := rows.Scan(&candidateID, &name, &category, &proficiency); err != nil {
			return nil, fmt.Errorf("failed to scan skill: %w", err)
		}
		byCandidate[candidateID] = append(byCandidate[candidateID], types.Skill{
			SkillName:   deref(name),
			Category:    types.SkillCategory(deref(category)),
			Proficiency: types.ProficiencyLevel(deref(proficiency)),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read skills: %w", err)
	}
	return byCandidate, nil
}

// CreateCandidate inserts a candidate with education and skills in one transaction and
// returns the candidate ID
func (db *DB) CreateCandidate(ctx context.Context, c *types.CandidateRecord) (int64, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var years *int32
	if c.YearsExperience != nil {
		y := int32(*c.YearsExperience)
		years = &y
	}

	var id int64
	err = tx.QueryRow(ctx,
		`INSERT INTO candidates (fullname, email, location, status, years_experience, experience_text)
		 VALUES ($1, $2, $3, COALESCE($4, 'pending'), $5, $6)
		 RETURNING candidate_id`,
		c.FullName, c.Email, nullIfEmpty(c.Location), nullIfEmpty(c.Status), years, nullIfEmpty(c.ExperienceText),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create candidate: %w", err)
	}

	batch := &pgx.Batch{}
	for _, edu := range c.Education {
		batch.Queue(
			`INSERT INTO education (candidate_id, degree, institution, graduation_year, gpa)
			 VALUES ($1, $2, $3, $4, $5)`,
			id, nullIfEmpty(edu.Degree), nullIfEmpty(edu.Institution), edu.GraduationYear, edu.GPA,
		)
	}
	for _, skill := range c.Skills {
		batch.Queue(
			`INSERT INTO skills (candidate_id, skill_name, skill_category, proficiency_level)
			 VALUES ($1, $2, $3, $4)`,
			id, nullIfEmpty(skill.SkillName), nullIfEmpty(string(skill.Category)), nullIfEmpty(string(skill.Proficiency)),
		)
	}
	if batch.Len() > 0 {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return 0, fmt.Errorf("failed to insert candidate details: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit candidate: %w", err)
	}
	return id, nil
}

// Apply records an application of a candidate to a job. Applying twice is a no-op.
func (db *DB) Apply(ctx context.Context, jobID, candidateID int64) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO appliedcandidates (candidate_id, job_id)
		 VALUES ($1, $2)
		 ON CONFLICT (candidate_id, job_id) DO NOTHING`,
		candidateID, jobID,
	)
	if err != nil {
		return fmt.Errorf("failed to record application: %w", err)
	}
	return nil
}

// orEmpty turns a nil slice into an empty one so records serialize as []
func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
