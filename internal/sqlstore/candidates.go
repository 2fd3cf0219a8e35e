package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jonathan/candidate-ranker/internal/types"
)

// GetCandidatesAppliedTo loads every applicant of a job in application order, with
// education and skills in insertion order
func (s *Store) GetCandidatesAppliedTo(ctx context.Context, jobID int64) ([]types.CandidateRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT c.candidate_id, c.fullname, c.email, c.location, c.status,
		        c.years_experience, c.experience_text
		 FROM appliedcandidates a
		 JOIN candidates c ON c.candidate_id = a.candidate_id
		 WHERE a.job_id = ?
		 ORDER BY a.applied_at, a.application_id`,
		jobID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query applicants of job %d: %w", jobID, err)
	}
	defer rows.Close()

	candidates := []types.CandidateRecord{}
	for rows.Next() {
		var c types.CandidateRecord
		var location, status, experience sql.NullString
		var years sql.NullInt64
		if err := rows.Scan(&c.CandidateID, &c.FullName, &c.Email, &location, &status, &years, &experience); err != nil {
			return nil, fmt.Errorf("failed to scan applicant: %w", err)
		}
		c.Location = location.String
		c.Status = status.String
		c.ExperienceText = experience.String
		if years.Valid {
			y := int(years.Int64)
			c.YearsExperience = &y
		}
		c.Education = []types.Education{}
		c.Skills = []types.Skill{}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read applicants: %w", err)
	}
	if len(candidates) == 0 {
		return candidates, nil
	}

	index := make(map[int64]int, len(candidates))
	for i, c := range candidates {
		index[c.CandidateID] = i
	}
	if err := s.loadEducation(ctx, jobID, candidates, index); err != nil {
		return nil, err
	}
	if err := s.loadSkills(ctx, jobID, candidates, index); err != nil {
		return nil, err
	}
	return candidates, nil
}

func (s *Store) loadEducation(ctx context.Context, jobID int64, candidates []types.CandidateRecord, index map[int64]int) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT e.candidate_id, e.degree, e.institution, e.graduation_year, e.gpa
		 FROM education e
		 JOIN appliedcandidates a ON a.candidate_id = e.candidate_id
		 WHERE a.job_id = ?
		 ORDER BY e.candidate_id, e.education_id`,
		jobID,
	)
	if err != nil {
		return fmt.Errorf("failed to query education of job %d: %w", jobID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var candidateID int64
		var degree, institution sql.NullString
		var year sql.NullInt64
		var gpa sql.NullFloat64
		if err := rows.Scan(&candidateID, &degree, &institution, &year, &gpa); err != nil {
			return fmt.Errorf("failed to scan education: %w", err)
		}
		edu := types.Education{Degree: degree.String, Institution: institution.String}
		if year.Valid {
			y := int(year.Int64)
			edu.GraduationYear = &y
		}
		if gpa.Valid {
			g := gpa.Float64
			edu.GPA = &g
		}
		if i, ok := index[candidateID]; ok {
			candidates[i].Education = append(candidates[i].Education, edu)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read education: %w", err)
	}
	return nil
}

func (s *Store) loadSkills(ctx context.Context, jobID int64, candidates []types.CandidateRecord, index map[int64]int) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT s.candidate_id, s.skill_name, s.skill_category, s.proficiency_level
		 FROM skills s
		 JOIN appliedcandidates a ON a.candidate_id = s.candidate_id
		 WHERE a.job_id = ?
		 ORDER BY s.candidate_id, s.skill_id`,
		jobID,
	)
	if err != nil {
		return fmt.Errorf("failed to query skills of job %d: %w", jobID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var candidateID int64
		var name, category, proficiency sql.NullString
		if err := rows.Scan(&candidateID, &name, &category, &proficiency); err != nil {
			return fmt.Errorf("failed to scan skill: %w", err)
		}
		if i, ok := index[candidateID]; ok {
			candidates[i].Skills = append(candidates[i].Skills, types.Skill{
				SkillName:   name.String,
				Category:    types.SkillCategory(category.String),
				Proficiency: types.ProficiencyLevel(proficiency.String),
			})
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read skills: %w", err)
	}
	return nil
}

// CreateCandidate inserts a candidate with education and skills in one transaction and
// returns the candidate ID. A positive c.CandidateID is kept.
func (s *Store) CreateCandidate(ctx context.Context, c *types.CandidateRecord) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var id any
	if c.CandidateID > 0 {
		id = c.CandidateID
	}
	var years sql.NullInt64
	if c.YearsExperience != nil {
		years = sql.NullInt64{Int64: int64(*c.YearsExperience), Valid: true}
	}
	status := c.Status
	if status == "" {
		status = "pending"
	}
	email := c.Email
	if email == "" {
		email = fmt.Sprintf("candidate-%d@localhost", c.CandidateID)
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO candidates (candidate_id, fullname, email, location, status, years_experience, experience_text)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, c.FullName, email, nullString(c.Location), status, years, nullString(c.ExperienceText),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create candidate: %w", err)
	}
	candidateID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read candidate id: %w", err)
	}

	for _, edu := range c.Education {
		var year sql.NullInt64
		if edu.GraduationYear != nil {
			year = sql.NullInt64{Int64: int64(*edu.GraduationYear), Valid: true}
		}
		var gpa sql.NullFloat64
		if edu.GPA != nil {
			gpa = sql.NullFloat64{Float64: *edu.GPA, Valid: true}
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO education (candidate_id, degree, institution, graduation_year, gpa) VALUES (?, ?, ?, ?, ?)`,
			candidateID, nullString(edu.Degree), nullString(edu.Institution), year, gpa,
		); err != nil {
			return 0, fmt.Errorf("failed to insert education: %w", err)
		}
	}
	for _, skill := range c.Skills {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO skills (candidate_id, skill_name, skill_category, proficiency_level) VALUES (?, ?, ?, ?)`,
			candidateID, nullString(skill.SkillName), nullString(string(skill.Category)), nullString(string(skill.Proficiency)),
		); err != nil {
			return 0, fmt.Errorf("failed to insert skill: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit candidate: %w", err)
	}
	return candidateID, nil
}

// Apply records an application of a candidate to a job. Applying twice is a no-op.
func (s *Store) Apply(ctx context.Context, jobID, candidateID int64) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO appliedcandidates (candidate_id, job_id) VALUES (?, ?)
		 ON CONFLICT (candidate_id, job_id) DO NOTHING`,
		candidateID, jobID,
	)
	if err != nil {
		return fmt.Errorf("failed to record application: %w", err)
	}
	return nil
}

// Seed inserts a job and its applicants and returns the job ID
func (s *Store) Seed(ctx context.Context, job *types.JobRequirement, candidates []types.CandidateRecord) (int64, error) {
	jobID, err := s.CreateJob(ctx, job)
	if err != nil {
		return 0, err
	}
	for i := range candidates {
		id, err := s.CreateCandidate(ctx, &candidates[i])
		if err != nil {
			return 0, err
		}
		if err := s.Apply(ctx, jobID, id); err != nil {
			return 0, err
		}
	}
	return jobID, nil
}
