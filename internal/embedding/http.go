package embedding

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// HTTPConfig configures an embedding server reached over HTTP, such as a
// text-embeddings-inference or sentence-transformers deployment.
type HTTPConfig struct {
	Endpoint string
	Model    string
	Token    string
	Timeout  time.Duration
}

// HTTPEmbedder posts texts to an embedding server and parses the vectors it returns.
type HTTPEmbedder struct {
	client *resty.Client
	config HTTPConfig
	logger *zap.Logger
}

// NewHTTPEmbedder creates a client for the given endpoint
func NewHTTPEmbedder(cfg HTTPConfig, logger *zap.Logger) (*HTTPEmbedder, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("embedding endpoint is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if cfg.Token != "" {
		client.SetAuthToken(cfg.Token)
	}

	return &HTTPEmbedder{
		client: client,
		config: cfg,
		logger: logger.With(zap.String("embedding_provider", ProviderHTTP), zap.String("embedding_endpoint", cfg.Endpoint)),
	}, nil
}

// Model returns the configured model name, used to namespace cache keys
func (e *HTTPEmbedder) Model() string {
	if e.config.Model == "" {
		return e.config.Endpoint
	}
	return e.config.Model
}

// Embed sends all texts in one request
func (e *HTTPEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	payload := map[string]any{"inputs": texts}
	if e.config.Model != "" {
		payload["model"] = e.config.Model
	}

	resp, err := e.client.R().
		SetContext(ctx).
		SetBody(payload).
		Post(e.config.Endpoint)
	if err != nil {
		return nil, &ServiceError{Provider: ProviderHTTP, Message: "request failed", Cause: err}
	}
	if resp.IsError() {
		e.logger.Warn("embedding server returned error", zap.Int("status", resp.StatusCode()))
		return nil, &ServiceError{
			Provider:   ProviderHTTP,
			Message:    fmt.Sprintf("unexpected status %d: %s", resp.StatusCode(), truncate(resp.String(), 200)),
			StatusCode: resp.StatusCode(),
		}
	}

	vectors, err := parseVectors(resp.Body())
	if err != nil {
		return nil, &ServiceError{Provider: ProviderHTTP, Message: "invalid embedding response", Cause: err}
	}
	if err := validateVectors(vectors, len(texts)); err != nil {
		return nil, &ServiceError{Provider: ProviderHTTP, Message: "invalid embedding response", Cause: err}
	}
	return vectors, nil
}

// parseVectors accepts a bare array of vectors, {"embeddings": [...]} or {"data": [{"embedding": [...]}]}
func parseVectors(body []byte) ([][]float32, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("response is not valid JSON")
	}

	root := gjson.ParseBytes(body)
	var list gjson.Result
	switch {
	case root.IsArray():
		list = root
	case root.Get("embeddings").IsArray():
		list = root.Get("embeddings")
	case root.Get("data").IsArray():
		list = root.Get("data.#.embedding")
	default:
		return nil, fmt.Errorf("no embeddings found in response")
	}

	items := list.Array()
	vectors := make([][]float32, len(items))
	for i, item := range items {
		if !item.IsArray() {
			return nil, fmt.Errorf("embedding %d is not an array", i)
		}
		values := item.Array()
		vec := make([]float32, len(values))
		for j, v := range values {
			if v.Type != gjson.Number {
				return nil, fmt.Errorf("embedding %d has non-numeric value at %d", i, j)
			}
			vec[j] = float32(v.Float())
		}
		vectors[i] = vec
	}
	return vectors, nil
}

// truncate shortens s to maxLen bytes
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
