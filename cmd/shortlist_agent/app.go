package main

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/jonathan/candidate-ranker/internal/config"
	"github.com/jonathan/candidate-ranker/internal/db"
	"github.com/jonathan/candidate-ranker/internal/embedding"
	"github.com/jonathan/candidate-ranker/internal/logger"
	"github.com/jonathan/candidate-ranker/internal/metrics"
	"github.com/jonathan/candidate-ranker/internal/pipeline"
	"github.com/jonathan/candidate-ranker/internal/sqlstore"
	"github.com/jonathan/candidate-ranker/internal/textsim"
	"github.com/jonathan/candidate-ranker/internal/types"
)

// app holds what every command shares
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	registry *prometheus.Registry
	metrics  *metrics.Metrics
}

// store is implemented by both the PostgreSQL and the SQLite store
type store interface {
	pipeline.Store
	Migrate(ctx context.Context) error
	CreateJob(ctx context.Context, job *types.JobRequirement) (int64, error)
	CreateCandidate(ctx context.Context, c *types.CandidateRecord) (int64, error)
	Apply(ctx context.Context, jobID, candidateID int64) error
}

func mustBindFlag(key string, flag *pflag.Flag) {
	if err := v.BindPFlag(key, flag); err != nil {
		panic(fmt.Sprintf("failed to bind flag %s: %v", flag.Name, err))
	}
}

// newApp loads the configuration and builds the logger and metrics registry
func newApp() (*app, error) {
	cfg, err := config.LoadInto(v, configPath)
	if err != nil {
		return nil, err
	}
	return newAppWithConfig(cfg)
}

func newAppWithConfig(cfg *config.Config) (*app, error) {
	log, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &app{
		cfg:      cfg,
		logger:   log,
		registry: registry,
		metrics:  metrics.New(registry),
	}, nil
}

// close flushes buffered logs
func (a *app) close() {
	_ = a.logger.Sync()
}

// openStore connects to the configured store
func (a *app) openStore(ctx context.Context) (store, func(), error) {
	switch a.cfg.Database.Driver {
	case config.DriverSQLite:
		s, err := sqlstore.Open(ctx, a.cfg.Database.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		a.logger.Debug("opened sqlite store", zap.String("path", a.cfg.Database.Path))
		return s, func() {
			if err := s.Close(); err != nil {
				a.logger.Warn("failed to close sqlite store", zap.Error(err))
			}
		}, nil
	default:
		if a.cfg.Database.URL == "" {
			return nil, nil, fmt.Errorf("database.url is required for the postgres driver (set %s_DATABASE_URL)", config.EnvPrefix)
		}
		d, err := db.Connect(ctx, a.cfg.Database.URL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		return d, d.Close, nil
	}
}

// newRanker wires the ranking pipeline to st and the configured embedding provider
func (a *app) newRanker(ctx context.Context, st pipeline.Store) (*pipeline.Ranker, func(), error) {
	provider, err := embedding.New(ctx, a.cfg, a.logger, a.metrics)
	if err != nil {
		return nil, nil, err
	}

	ranker := a.rankerWith(st, provider)
	return ranker, func() {
		if err := provider.Close(); err != nil {
			a.logger.Warn("failed to close embedding provider", zap.Error(err))
		}
	}, nil
}

// rankerWith builds a ranker around an already created embedder
func (a *app) rankerWith(st pipeline.Store, embedder embedding.Embedder) *pipeline.Ranker {
	lemmatizer, err := textsim.NewLemmatizer()
	if err != nil {
		a.logger.Warn("lemmatizer unavailable, skills are compared without lemmatization", zap.Error(err))
		lemmatizer = textsim.IdentityLemmatizer{}
	}

	return &pipeline.Ranker{
		Store:      st,
		Embedder:   embedder,
		Lemmatizer: lemmatizer,
		Logger:     a.logger,
		Metrics:    a.metrics,
	}
}
