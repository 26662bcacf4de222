// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderUpdatesCollectors(t *testing.T) {
	var r Recorder

	before := testutil.ToFloat64(strategyAttemptsTotal.WithLabelValues("direct", "success"))

	r.MatchesFetched(7)
	r.ChannelsWritten(3)
	r.StrategyAttempt("direct", "success")
	r.MatchSkipped("filtered")

	assert.Equal(t, 7.0, testutil.ToFloat64(matchesFetched))
	assert.Equal(t, 3.0, testutil.ToFloat64(channelsWritten))
	assert.Equal(t, before+1, testutil.ToFloat64(strategyAttemptsTotal.WithLabelValues("direct", "success")))

	finished := time.Unix(1_700_000_000, 0)
	r.RunFinished(finished.Add(-2*time.Second), finished)
	assert.Equal(t, float64(finished.Unix()), testutil.ToFloat64(lastRunTimestamp))
}

func TestSetCircuitBreakerStateIsExclusive(t *testing.T) {
	SetCircuitBreakerState("api.example", "open")
	SetCircuitBreakerState("api.example", "half-open")

	assert.Equal(t, 0.0, testutil.ToFloat64(circuitBreakerState.WithLabelValues("api.example", "open")))
	assert.Equal(t, 1.0, testutil.ToFloat64(circuitBreakerState.WithLabelValues("api.example", "half-open")))
	assert.Equal(t, 0.0, testutil.ToFloat64(circuitBreakerState.WithLabelValues("api.example", "closed")))
}

func TestWriteTextfile(t *testing.T) {
	var r Recorder
	r.ChannelsWritten(5)
	r.Result("dead_link")
	SetCircuitBreakerState("cdn.example", "open")

	path := filepath.Join(t.TempDir(), "matchcast.prom")
	require.NoError(t, WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)

	assert.Contains(t, text, "matchcast_channels_written 5")
	assert.Contains(t, text, `matchcast_results_total{reason="dead_link"}`)
	assert.Contains(t, text, `matchcast_circuit_breaker_state{component="cdn.example",state="open"} 1`)
}

func findFamily(t *testing.T, name string) *dto.MetricFamily {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() == name {
			return mf
		}
	}
	t.Fatalf("metric family %s not registered", name)
	return nil
}

func TestRunDurationHistogramObservesRuns(t *testing.T) {
	before := findFamily(t, "matchcast_run_duration_seconds").GetMetric()[0].GetHistogram().GetSampleCount()

	var r Recorder
	end := time.Now()
	r.RunFinished(end.Add(-1500*time.Millisecond), end)

	mf := findFamily(t, "matchcast_run_duration_seconds")
	require.Equal(t, dto.MetricType_HISTOGRAM, mf.GetType())
	h := mf.GetMetric()[0].GetHistogram()
	assert.Equal(t, before+1, h.GetSampleCount())
	assert.GreaterOrEqual(t, h.GetSampleSum(), 1.5)
}
