package types

// StageStat summarizes how many candidates a stage received and kept
type StageStat struct {
	Name    string `json:"name"`
	Initial int    `json:"initial"`
	Dropped int    `json:"dropped"`
	Left    int    `json:"left"`
	Skipped bool   `json:"skipped,omitempty"`
}

// WriteFailure reports a compatibility score that could not be persisted
type WriteFailure struct {
	CandidateID int64  `json:"candidate_id"`
	Error       string `json:"error"`
}

// RankResult is the outcome of a ranking run
type RankResult struct {
	Success          bool              `json:"success"`
	Message          string            `json:"message,omitempty"`
	RunID            string            `json:"run_id,omitempty"`
	Job              *JobRequirement   `json:"job,omitempty"`
	RankedCandidates []ScoredCandidate `json:"ranked_candidates"`
	TotalCandidates  int               `json:"total_candidates"`
	Steps            []StageStat       `json:"steps,omitempty"`
	FailedWrites     []WriteFailure    `json:"failed_writes,omitempty"`
}

// Result messages shared by the pipeline and its callers
const (
	MessageJobNotFound  = "Job not found"
	MessageNoCandidates = "No candidates to shortlist"
)

// ShortlistEntry is a persisted compatibility score for one application
type ShortlistEntry struct {
	CandidateID        int64   `json:"candidate_id"`
	FullName           string  `json:"fullname,omitempty"`
	Email              string  `json:"email,omitempty"`
	CompatibilityScore float64 `json:"compatibility_score"`
	Shortlisted        bool    `json:"shortlisted"`
}
