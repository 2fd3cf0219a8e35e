package embedding

import (
	"context"
	"slices"
	"sync"
)

// Static is an in-memory Embedder returning fixed vectors, for tests and offline runs.
type Static struct {
	// Vectors maps an input text to its vector
	Vectors map[string][]float32
	// Fallback is returned for texts missing from Vectors
	Fallback []float32
	// Err, when set, is returned from every call
	Err error

	mu    sync.Mutex
	calls [][]string
}

// Embed returns the configured vector for each text
func (s *Static) Embed(_ context.Context, texts []string) ([][]float32, error) {
	s.mu.Lock()
	s.calls = append(s.calls, slices.Clone(texts))
	s.mu.Unlock()

	if s.Err != nil {
		return nil, &ServiceError{Provider: "static", Message: "embed failed", Cause: s.Err}
	}

	out := make([][]float32, len(texts))
	for i, text := range texts {
		if v, ok := s.Vectors[text]; ok {
			out[i] = slices.Clone(v)
		} else {
			out[i] = slices.Clone(s.Fallback)
		}
	}
	return out, nil
}

// Calls returns the texts of every Embed call so far
func (s *Static) Calls() [][]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.calls)
}
