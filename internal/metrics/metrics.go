// Package metrics holds the Prometheus collectors of the ranking pipeline.
// All methods are safe on a nil *Metrics, which records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Run outcomes
const (
	OutcomeSuccess     = "success"
	OutcomeJobNotFound = "job_not_found"
	OutcomeEmpty       = "no_candidates"
	OutcomeError       = "error"
)

// Metrics groups the pipeline collectors
type Metrics struct {
	RunsTotal          *prometheus.CounterVec
	StageDuration      *prometheus.HistogramVec
	StageCandidates    *prometheus.GaugeVec
	WriteFailures      prometheus.Counter
	CacheRequestsTotal *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RunsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ranking_runs_total",
				Help: "Total number of ranking runs by outcome",
			},
			[]string{"outcome"},
		),
		StageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ranking_stage_duration_seconds",
				Help:    "Duration of each ranking stage in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"stage"},
		),
		StageCandidates: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "ranking_stage_candidates",
				Help: "Candidates left after each stage of the last run",
			},
			[]string{"stage"},
		),
		WriteFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "ranking_score_write_failures_total",
				Help: "Total number of compatibility score writes that failed",
			},
		),
		CacheRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "embedding_cache_requests_total",
				Help: "Embedding cache lookups by result",
			},
			[]string{"result"},
		),
	}

	if reg != nil {
		reg.MustRegister(m.RunsTotal, m.StageDuration, m.StageCandidates, m.WriteFailures, m.CacheRequestsTotal)
	}
	return m
}

// ObserveRun counts a finished run
func (m *Metrics) ObserveRun(outcome string) {
	if m == nil {
		return
	}
	m.RunsTotal.WithLabelValues(outcome).Inc()
}

// ObserveStage records a stage duration and the number of candidates it left
func (m *Metrics) ObserveStage(stage string, elapsed time.Duration, left int) {
	if m == nil {
		return
	}
	m.StageDuration.WithLabelValues(stage).Observe(elapsed.Seconds())
	m.StageCandidates.WithLabelValues(stage).Set(float64(left))
}

// ObserveWriteFailure counts one failed score write
func (m *Metrics) ObserveWriteFailure() {
	if m == nil {
		return
	}
	m.WriteFailures.Inc()
}

// ObserveCache counts cache hits and misses of one lookup
func (m *Metrics) ObserveCache(hits, misses int) {
	if m == nil {
		return
	}
	if hits > 0 {
		m.CacheRequestsTotal.WithLabelValues("hit").Add(float64(hits))
	}
	if misses > 0 {
		m.CacheRequestsTotal.WithLabelValues("miss").Add(float64(misses))
	}
}
