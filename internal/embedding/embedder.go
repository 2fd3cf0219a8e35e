// Package embedding provides sentence-embedding clients used for semantic similarity.
package embedding

import "context"

// Embedder turns texts into fixed-length vectors.
// Implementations return exactly one vector per input text, in input order, and are
// deterministic for identical text and model version.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Provider names accepted in configuration
const (
	ProviderGemini = "gemini"
	ProviderHTTP   = "http"
)
