package embedding

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonathan/candidate-ranker/internal/config"
	"github.com/jonathan/candidate-ranker/internal/metrics"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Provider is an Embedder that can be released
type Provider interface {
	Embedder
	Close() error
}

type closer struct {
	Embedder
	closers []func() error
}

func (c *closer) Close() error {
	var errs []error
	for _, fn := range c.closers {
		if err := fn(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// New builds the configured embedding provider and, when redis is enabled, wraps it in
// a CachedEmbedder. Close releases the API client and the redis connection.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger, m *metrics.Metrics) (Provider, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var (
		base  Embedder
		model string
		c     = &closer{}
	)

	switch cfg.Embedding.Provider {
	case ProviderGemini:
		g, err := NewGeminiEmbedder(ctx, GeminiConfig{
			APIKey:            cfg.Embedding.APIKey,
			Model:             cfg.Embedding.Model,
			BatchSize:         cfg.Embedding.BatchSize,
			Concurrency:       cfg.Embedding.Concurrency,
			MaxRetries:        cfg.Embedding.MaxRetries,
			RequestsPerSecond: cfg.Embedding.RequestsPerSecond,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create gemini embedder: %w", err)
		}
		base, model = g, g.Model()
		c.closers = append(c.closers, g.Close)
	case ProviderHTTP:
		h, err := NewHTTPEmbedder(HTTPConfig{
			Endpoint: cfg.Embedding.Endpoint,
			Model:    cfg.Embedding.Model,
			Token:    cfg.Embedding.Token,
			Timeout:  cfg.Embedding.Timeout,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create http embedder: %w", err)
		}
		base, model = h, h.Model()
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Embedding.Provider)
	}

	c.Embedder = base
	if !cfg.Redis.Enabled {
		return c, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("embedding cache unavailable, continuing without it",
			zap.String("address", cfg.Redis.Address), zap.Error(err))
		_ = client.Close()
		return c, nil
	}

	c.Embedder = NewCachedEmbedder(base, client, model, cfg.Redis.TTL, logger, m)
	c.closers = append(c.closers, client.Close)
	return c, nil
}
