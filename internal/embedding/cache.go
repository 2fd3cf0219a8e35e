package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/jonathan/candidate-ranker/internal/metrics"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const cacheKeyPrefix = "embedding:"

// CachedEmbedder is a redis cache-aside layer in front of another Embedder.
// Redis errors never fail a call; the wrapped embedder is used instead.
type CachedEmbedder struct {
	next    Embedder
	redis   *redis.Client
	model   string
	ttl     time.Duration
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// NewCachedEmbedder wraps next with a redis cache namespaced by model
func NewCachedEmbedder(next Embedder, client *redis.Client, model string, ttl time.Duration, logger *zap.Logger, m *metrics.Metrics) *CachedEmbedder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedEmbedder{
		next:    next,
		redis:   client,
		model:   model,
		ttl:     ttl,
		logger:  logger,
		metrics: m,
	}
}

// CacheKey returns the redis key of a text's vector
func (c *CachedEmbedder) CacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return cacheKeyPrefix + c.model + ":" + hex.EncodeToString(sum[:])
}

// Embed serves cached vectors and embeds only the distinct texts that miss
func (c *CachedEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	if len(texts) == 0 {
		return out, nil
	}

	keys := make([]string, len(texts))
	for i, text := range texts {
		keys[i] = c.CacheKey(text)
	}

	cached, err := c.redis.MGet(ctx, keys...).Result()
	if err != nil {
		c.logger.Warn("embedding cache lookup failed", zap.Error(err))
		cached = nil
	}

	// missing maps each distinct uncached text to the positions that need it
	missing := make(map[string][]int)
	var order []string
	for i, text := range texts {
		if cached != nil {
			if vec, ok := decodeVector(cached[i]); ok {
				out[i] = vec
				continue
			}
		}
		if _, seen := missing[text]; !seen {
			order = append(order, text)
		}
		missing[text] = append(missing[text], i)
	}

	hits := len(texts)
	for _, positions := range missing {
		hits -= len(positions)
	}
	c.metrics.ObserveCache(hits, len(texts)-hits)

	if len(order) == 0 {
		return out, nil
	}

	vectors, err := c.next.Embed(ctx, order)
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(order) {
		return nil, &ServiceError{Provider: "cache", Message: "wrapped embedder returned wrong number of vectors"}
	}

	pipe := c.redis.Pipeline()
	for i, text := range order {
		for _, pos := range missing[text] {
			out[pos] = vectors[i]
		}
		data, err := json.Marshal(vectors[i])
		if err != nil {
			continue
		}
		pipe.Set(ctx, c.CacheKey(text), data, c.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		c.logger.Warn("embedding cache store failed", zap.Error(err), zap.Int("texts", len(order)))
	}

	return out, nil
}

// decodeVector parses a cached MGET value; nil and malformed values count as misses
func decodeVector(value any) ([]float32, bool) {
	s, ok := value.(string)
	if !ok || s == "" {
		return nil, false
	}
	var vec []float32
	if err := json.Unmarshal([]byte(s), &vec); err != nil || len(vec) == 0 {
		return nil, false
	}
	return vec, true
}
