package db

import "fmt"

// ApplicationNotFoundError is returned when a score is written for a candidate that has
// no application to the job
type ApplicationNotFoundError struct {
	JobID       int64
	CandidateID int64
}

func (e *ApplicationNotFoundError) Error() string {
	return fmt.Sprintf("no application of candidate %d to job %d", e.CandidateID, e.JobID)
}
