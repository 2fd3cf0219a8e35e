// Package validation checks job and candidate records before they enter the ranking stages.
package validation

import "fmt"

// Error represents a record that cannot be ranked
type Error struct {
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("validation error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Issue describes one dropped or normalized entry of a candidate record
type Issue struct {
	CandidateID int64  `json:"candidate_id"`
	Field       string `json:"field"`
	Message     string `json:"message"`
}

func (i Issue) String() string {
	return fmt.Sprintf("candidate %d: %s: %s", i.CandidateID, i.Field, i.Message)
}
