package sqlstore

import (
	"context"
	"fmt"

	"github.com/jonathan/candidate-ranker/internal/db"
	"github.com/jonathan/candidate-ranker/internal/types"
)

// RecordCompatibilityScore stores the aggregate score on the application row.
// Returns *db.ApplicationNotFoundError when no such application exists.
func (s *Store) RecordCompatibilityScore(ctx context.Context, jobID, candidateID int64, score float64) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE appliedcandidates SET compatibility_score = ? WHERE job_id = ? AND candidate_id = ?`,
		score, jobID, candidateID,
	)
	if err != nil {
		return fmt.Errorf("failed to record score for candidate %d: %w", candidateID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to record score for candidate %d: %w", candidateID, err)
	}
	if n == 0 {
		return &db.ApplicationNotFoundError{JobID: jobID, CandidateID: candidateID}
	}
	return nil
}

// ListShortlisted returns stored scores of a job at or above threshold, highest first
func (s *Store) ListShortlisted(ctx context.Context, jobID int64, threshold float64) ([]types.ShortlistEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT a.candidate_id, c.fullname, c.email, a.compatibility_score, a.shortlisted
		 FROM appliedcandidates a
		 JOIN candidates c ON c.candidate_id = a.candidate_id
		 WHERE a.job_id = ? AND a.compatibility_score >= ?
		 ORDER BY a.compatibility_score DESC, a.applied_at, a.application_id`,
		jobID, threshold,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list shortlisted candidates of job %d: %w", jobID, err)
	}
	defer rows.Close()

	entries := []types.ShortlistEntry{}
	for rows.Next() {
		var e types.ShortlistEntry
		if err := rows.Scan(&e.CandidateID, &e.FullName, &e.Email, &e.CompatibilityScore, &e.Shortlisted); err != nil {
			return nil, fmt.Errorf("failed to scan shortlist entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read shortlist: %w", err)
	}
	return entries, nil
}
