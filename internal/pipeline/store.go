package pipeline

import (
	"context"

	"github.com/jonathan/candidate-ranker/internal/types"
)

// Store is the persistence collaborator of a ranking run.
// GetJobRequirement returns nil, nil for an unknown job.
type Store interface {
	GetJobRequirement(ctx context.Context, jobID int64) (*types.JobRequirement, error)
	GetCandidatesAppliedTo(ctx context.Context, jobID int64) ([]types.CandidateRecord, error)
	RecordCompatibilityScore(ctx context.Context, jobID, candidateID int64, score float64) error
	ListShortlisted(ctx context.Context, jobID int64, threshold float64) ([]types.ShortlistEntry, error)
}
