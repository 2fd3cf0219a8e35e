package embedding

import (
	"context"
	"errors"
	"math"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
)

// lengthVectors embeds each text as a one-element vector holding its length
func lengthVectors(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = []float32{float32(len(t))}
	}
	return out, nil
}

func testGeminiConfig() GeminiConfig {
	return GeminiConfig{
		BatchSize:   2,
		Concurrency: 3,
		BaseDelay:   time.Millisecond,
		MaxDelay:    5 * time.Millisecond,
	}
}

func TestGeminiEmbedder_ChunksPreserveOrder(t *testing.T) {
	var mu sync.Mutex
	var batches [][]string
	embed := func(ctx context.Context, texts []string) ([][]float32, error) {
		mu.Lock()
		batches = append(batches, append([]string(nil), texts...))
		mu.Unlock()
		return lengthVectors(ctx, texts)
	}

	e := newGeminiEmbedder(testGeminiConfig(), embed, nil)
	texts := []string{"a", "bb", "ccc", "dddd", "eeeee"}

	out, err := e.Embed(context.Background(), texts)
	require.NoError(t, err)
	require.Len(t, out, len(texts))
	for i, text := range texts {
		assert.Equal(t, float32(len(text)), out[i][0])
	}

	assert.Len(t, batches, 3)
	for _, b := range batches {
		assert.LessOrEqual(t, len(b), 2)
	}
}

func TestGeminiEmbedder_EmptyInput(t *testing.T) {
	e := newGeminiEmbedder(testGeminiConfig(), func(context.Context, []string) ([][]float32, error) {
		t.Fatal("embed must not be called")
		return nil, nil
	}, nil)

	out, err := e.Embed(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestGeminiEmbedder_RetriesRetryableErrors(t *testing.T) {
	var calls atomic.Int32
	embed := func(ctx context.Context, texts []string) ([][]float32, error) {
		if calls.Add(1) < 3 {
			return nil, &googleapi.Error{Code: 503, Message: "unavailable"}
		}
		return lengthVectors(ctx, texts)
	}

	e := newGeminiEmbedder(testGeminiConfig(), embed, nil)
	out, err := e.Embed(context.Background(), []string{"text"})
	require.NoError(t, err)
	assert.Equal(t, [][]float32{{4}}, out)
	assert.Equal(t, int32(3), calls.Load())
}

func TestGeminiEmbedder_NonRetryableError(t *testing.T) {
	var calls atomic.Int32
	embed := func(context.Context, []string) ([][]float32, error) {
		calls.Add(1)
		return nil, &googleapi.Error{Code: 400, Message: "bad request"}
	}

	e := newGeminiEmbedder(testGeminiConfig(), embed, nil)
	_, err := e.Embed(context.Background(), []string{"text"})
	require.Error(t, err)

	var svcErr *ServiceError
	require.True(t, errors.As(err, &svcErr))
	assert.Equal(t, ProviderGemini, svcErr.Provider)
	assert.Equal(t, 400, svcErr.StatusCode)
	assert.Equal(t, int32(1), calls.Load())
}

func TestGeminiEmbedder_RetriesExhausted(t *testing.T) {
	cfg := testGeminiConfig()
	cfg.MaxRetries = 2

	var calls atomic.Int32
	embed := func(context.Context, []string) ([][]float32, error) {
		calls.Add(1)
		return nil, &googleapi.Error{Code: 429, Message: "quota"}
	}

	e := newGeminiEmbedder(cfg, embed, nil)
	_, err := e.Embed(context.Background(), []string{"text"})
	require.Error(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestGeminiEmbedder_NegativeRetriesDisablesRetry(t *testing.T) {
	cfg := testGeminiConfig()
	cfg.MaxRetries = -1

	var calls atomic.Int32
	embed := func(context.Context, []string) ([][]float32, error) {
		calls.Add(1)
		return nil, &googleapi.Error{Code: 503}
	}

	e := newGeminiEmbedder(cfg, embed, nil)
	_, err := e.Embed(context.Background(), []string{"text"})
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestGeminiEmbedder_RejectsInvalidVectors(t *testing.T) {
	tests := []struct {
		name    string
		vectors [][]float32
	}{
		{name: "nan", vectors: [][]float32{{float32(math.NaN())}}},
		{name: "inf", vectors: [][]float32{{float32(math.Inf(1))}}},
		{name: "empty", vectors: [][]float32{{}}},
		{name: "count mismatch", vectors: [][]float32{{1}, {2}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			embed := func(context.Context, []string) ([][]float32, error) { return tt.vectors, nil }
			e := newGeminiEmbedder(testGeminiConfig(), embed, nil)

			_, err := e.Embed(context.Background(), []string{"text"})
			require.Error(t, err)
			var svcErr *ServiceError
			assert.True(t, errors.As(err, &svcErr))
		})
	}
}

func TestGeminiEmbedder_Defaults(t *testing.T) {
	e := newGeminiEmbedder(GeminiConfig{}, lengthVectors, nil)
	assert.Equal(t, DefaultGeminiModel, e.Model())
	assert.Equal(t, DefaultGeminiBatchSize, e.config.BatchSize)
	assert.Equal(t, defaultMaxRetries, e.config.MaxRetries)
	assert.NoError(t, e.Close())
}

func TestNewGeminiEmbedder_RequiresAPIKey(t *testing.T) {
	_, err := NewGeminiEmbedder(context.Background(), GeminiConfig{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key is required")
}

func TestGeminiEmbedder_Backoff(t *testing.T) {
	e := newGeminiEmbedder(GeminiConfig{BaseDelay: 100 * time.Millisecond, MaxDelay: 300 * time.Millisecond}, lengthVectors, nil)
	assert.Equal(t, 100*time.Millisecond, e.backoff(1))
	assert.Equal(t, 200*time.Millisecond, e.backoff(2))
	assert.Equal(t, 300*time.Millisecond, e.backoff(3))
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "canceled", err: context.Canceled, want: false},
		{name: "rate limited", err: &googleapi.Error{Code: 429}, want: true},
		{name: "server error", err: &googleapi.Error{Code: 500}, want: true},
		{name: "forbidden", err: &googleapi.Error{Code: 403}, want: false},
		{name: "connection reset", err: errors.New("read tcp: connection reset by peer"), want: true},
		{name: "other", err: errors.New("invalid argument"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isRetryable(tt.err))
		})
	}
}
