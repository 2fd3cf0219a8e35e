package embedding

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// Defaults for GeminiConfig
const (
	DefaultGeminiModel     = "text-embedding-004"
	DefaultGeminiBatchSize = 100
	defaultConcurrency     = 4
	defaultMaxRetries      = 3
	defaultBaseDelay       = 500 * time.Millisecond
	defaultMaxDelay        = 10 * time.Second
)

// GeminiConfig configures the Gemini embedding client
type GeminiConfig struct {
	APIKey            string
	Model             string
	BatchSize         int
	Concurrency       int
	// MaxRetries is the number of retries per batch; zero uses the default, negative disables retries
	MaxRetries        int
	BaseDelay         time.Duration
	MaxDelay          time.Duration
	RequestsPerSecond float64
}

// withDefaults fills zero values
func (c GeminiConfig) withDefaults() GeminiConfig {
	if c.Model == "" {
		c.Model = DefaultGeminiModel
	}
	if c.BatchSize <= 0 {
		c.BatchSize = DefaultGeminiBatchSize
	}
	if c.Concurrency <= 0 {
		c.Concurrency = defaultConcurrency
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	} else if c.MaxRetries == 0 {
		c.MaxRetries = defaultMaxRetries
	}
	if c.BaseDelay <= 0 {
		c.BaseDelay = defaultBaseDelay
	}
	if c.MaxDelay <= 0 {
		c.MaxDelay = defaultMaxDelay
	}
	return c
}

// batchFunc embeds one request-sized batch
type batchFunc func(ctx context.Context, texts []string) ([][]float32, error)

// GeminiEmbedder implements Embedder with the Gemini embedding API.
// Large inputs are split into batches that run concurrently.
type GeminiEmbedder struct {
	client  *genai.Client
	config  GeminiConfig
	embed   batchFunc
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewGeminiEmbedder creates a new Gemini embedding client
func NewGeminiEmbedder(ctx context.Context, cfg GeminiConfig, logger *zap.Logger) (*GeminiEmbedder, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	e := newGeminiEmbedder(cfg, nil, logger)
	e.client = client

	model := client.EmbeddingModel(e.config.Model)
	model.TaskType = genai.TaskTypeSemanticSimilarity
	e.embed = func(ctx context.Context, texts []string) ([][]float32, error) {
		batch := model.NewBatch()
		for _, text := range texts {
			batch.AddContent(genai.Text(text))
		}

		resp, err := model.BatchEmbedContents(ctx, batch)
		if err != nil {
			return nil, err
		}

		vectors := make([][]float32, len(resp.Embeddings))
		for i, emb := range resp.Embeddings {
			if emb != nil {
				vectors[i] = emb.Values
			}
		}
		return vectors, nil
	}

	return e, nil
}

// newGeminiEmbedder wires everything except the API client
func newGeminiEmbedder(cfg GeminiConfig, embed batchFunc, logger *zap.Logger) *GeminiEmbedder {
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg = cfg.withDefaults()

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	return &GeminiEmbedder{
		config:  cfg,
		embed:   embed,
		limiter: rate.NewLimiter(limit, cfg.Concurrency),
		logger:  logger.With(zap.String("embedding_provider", ProviderGemini), zap.String("embedding_model", cfg.Model)),
	}
}

// Model returns the configured embedding model name
func (e *GeminiEmbedder) Model() string {
	return e.config.Model
}

// Embed embeds texts, splitting them into batches of at most BatchSize.
func (e *GeminiEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	if len(texts) == 0 {
		return out, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.config.Concurrency)

	for start := 0; start < len(texts); start += e.config.BatchSize {
		end := min(start+e.config.BatchSize, len(texts))
		g.Go(func() error {
			vectors, err := e.embedWithRetry(gctx, texts[start:end])
			if err != nil {
				return err
			}
			// Each batch owns a disjoint range of out
			copy(out[start:end], vectors)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// embedWithRetry calls the API with exponential backoff on retryable errors
func (e *GeminiEmbedder) embedWithRetry(ctx context.Context, texts []string) ([][]float32, error) {
	var lastErr error

	for attempt := 0; attempt <= e.config.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := e.backoff(attempt)
			e.logger.Warn("retrying embedding request",
				zap.Int("attempt", attempt),
				zap.Duration("delay", delay),
				zap.Error(lastErr),
			)
			select {
			case <-ctx.Done():
				return nil, &ServiceError{Provider: ProviderGemini, Message: "cancelled while waiting to retry", Cause: ctx.Err()}
			case <-time.After(delay):
			}
		}

		if err := e.limiter.Wait(ctx); err != nil {
			return nil, &ServiceError{Provider: ProviderGemini, Message: "rate limiter wait failed", Cause: err}
		}

		vectors, err := e.embed(ctx, texts)
		if err == nil {
			if err := validateVectors(vectors, len(texts)); err != nil {
				return nil, &ServiceError{Provider: ProviderGemini, Message: "invalid embedding response", Cause: err}
			}
			return vectors, nil
		}

		lastErr = err
		if !isRetryable(err) {
			break
		}
	}

	return nil, &ServiceError{
		Provider:   ProviderGemini,
		Message:    fmt.Sprintf("embedding %d texts failed", len(texts)),
		StatusCode: statusCode(lastErr),
		Cause:      lastErr,
	}
}

// backoff returns the delay before the given retry attempt (1-based)
func (e *GeminiEmbedder) backoff(attempt int) time.Duration {
	delay := e.config.BaseDelay * time.Duration(math.Pow(2, float64(attempt-1)))
	if delay > e.config.MaxDelay {
		delay = e.config.MaxDelay
	}
	return delay
}

// Close releases resources held by the client
func (e *GeminiEmbedder) Close() error {
	if e.client != nil {
		return e.client.Close()
	}
	return nil
}

// isRetryable classifies rate limits, server errors and transient network failures as retryable
func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case 429, 500, 502, 503, 504:
			return true
		default:
			return false
		}
	}

	msg := err.Error()
	for _, transient := range []string{"connection refused", "connection reset", "timeout", "temporary failure", "EOF"} {
		if strings.Contains(msg, transient) {
			return true
		}
	}
	return false
}

// statusCode extracts the HTTP status of an API error, or 0
func statusCode(err error) int {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return 0
}

// validateVectors checks count, emptiness and finiteness
func validateVectors(vectors [][]float32, want int) error {
	if len(vectors) != want {
		return fmt.Errorf("expected %d embeddings, got %d", want, len(vectors))
	}
	for i, v := range vectors {
		if len(v) == 0 {
			return fmt.Errorf("embedding %d is empty", i)
		}
		for j, val := range v {
			if math.IsNaN(float64(val)) || math.IsInf(float64(val), 0) {
				return fmt.Errorf("invalid embedding value at %d/%d: %v", i, j, val)
			}
		}
	}
	return nil
}
