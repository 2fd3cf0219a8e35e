package embedding

import "fmt"

// ServiceError represents a failure of the embedding service
type ServiceError struct {
	Provider   string
	Message    string
	StatusCode int
	Cause      error
}

func (e *ServiceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("embedding service %s failed: %s: %v", e.Provider, e.Message, e.Cause)
	}
	return fmt.Sprintf("embedding service %s failed: %s", e.Provider, e.Message)
}

func (e *ServiceError) Unwrap() error {
	return e.Cause
}
