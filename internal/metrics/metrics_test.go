package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveRun(OutcomeSuccess)
		m.ObserveStage("skills", time.Second, 3)
		m.ObserveWriteFailure()
		m.ObserveCache(1, 2)
	})
}

func TestNew_Registers(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveRun(OutcomeSuccess)
	m.ObserveStage("education", 10*time.Millisecond, 4)
	m.ObserveWriteFailure()

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "ranking_runs_total")
	assert.Contains(t, names, "ranking_stage_duration_seconds")
	assert.Contains(t, names, "ranking_stage_candidates")
	assert.Contains(t, names, "ranking_score_write_failures_total")
}

func TestNew_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	assert.Panics(t, func() { New(reg) })
}

func TestObserve(t *testing.T) {
	m := New(nil)

	m.ObserveRun(OutcomeSuccess)
	m.ObserveRun(OutcomeSuccess)
	m.ObserveRun(OutcomeJobNotFound)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.RunsTotal.WithLabelValues(OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RunsTotal.WithLabelValues(OutcomeJobNotFound)))

	m.ObserveStage("skills", time.Millisecond, 5)
	m.ObserveStage("skills", time.Millisecond, 3)
	assert.Equal(t, 3.0, testutil.ToFloat64(m.StageCandidates.WithLabelValues("skills")))

	m.ObserveWriteFailure()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.WriteFailures))

	m.ObserveCache(3, 0)
	m.ObserveCache(0, 2)
	assert.Equal(t, 3.0, testutil.ToFloat64(m.CacheRequestsTotal.WithLabelValues("hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CacheRequestsTotal.WithLabelValues("miss")))
}
