// SPDX-License-Identifier: MIT

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	matchesFetched = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "matchcast_matches_fetched",
		Help: "Number of matches returned by the event source (last run)",
	})

	matchesSkippedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "matchcast_matches_skipped_total",
		Help: "Matches not attempted, by reason",
	}, []string{"reason"}) // reason=filtered|invalid|exhausted|duplicate

	strategyAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "matchcast_strategy_attempts_total",
		Help: "Resolution strategy attempts by outcome",
	}, []string{"strategy", "outcome"}) // outcome=success|failure|skipped|rejected|dead|embed

	resultsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "matchcast_results_total",
		Help: "Per-source resolution results by reason",
	}, []string{"reason"}) // reason=ok|strategy_failed|unresolved|dead_link|duplicate

	channelsWritten = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "matchcast_channels_written",
		Help: "Number of playlist entries written in last run",
	})

	writeErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "matchcast_write_errors_total",
		Help: "Total number of output write failures by artifact",
	}, []string{"artifact"}) // artifact=m3u|xmltv

	runFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "matchcast_run_failures_total",
		Help: "Total number of failed runs by stage",
	}, []string{"stage"}) // stage=source|canceled|write

	runDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "matchcast_run_duration_seconds",
		Help:    "Duration of a full aggregation run",
		Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
	})

	lastRunTimestamp = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "matchcast_last_run_timestamp_seconds",
		Help: "Unix timestamp of the last completed run",
	})
)

// RecordMatchesFetched sets the number of matches returned by the source.
func RecordMatchesFetched(n int) { matchesFetched.Set(float64(n)) }

// IncMatchSkipped counts a match that was never attempted.
func IncMatchSkipped(reason string) { matchesSkippedTotal.WithLabelValues(reason).Inc() }

// IncStrategyAttempt counts one strategy invocation.
func IncStrategyAttempt(strategy, outcome string) {
	strategyAttemptsTotal.WithLabelValues(strategy, outcome).Inc()
}

// IncResult counts one per-source resolution result.
func IncResult(reason string) { resultsTotal.WithLabelValues(reason).Inc() }

// RecordChannelsWritten sets the number of emitted playlist entries.
func RecordChannelsWritten(n int) { channelsWritten.Set(float64(n)) }

// IncWriteError counts a failed artifact write.
func IncWriteError(artifact string) { writeErrorsTotal.WithLabelValues(artifact).Inc() }

// IncRunFailure counts a failed run stage.
func IncRunFailure(stage string) { runFailuresTotal.WithLabelValues(stage).Inc() }

// ObserveRun records run duration and the completion timestamp.
func ObserveRun(started time.Time, finished time.Time) {
	runDuration.Observe(finished.Sub(started).Seconds())
	lastRunTimestamp.Set(float64(finished.Unix()))
}

// Recorder adapts the package-level collectors to the run pipeline's
// recorder interface.
type Recorder struct{}

func (Recorder) MatchesFetched(n int)                    { RecordMatchesFetched(n) }
func (Recorder) MatchSkipped(reason string)              { IncMatchSkipped(reason) }
func (Recorder) StrategyAttempt(strategy, outcome string) { IncStrategyAttempt(strategy, outcome) }
func (Recorder) Result(reason string)                    { IncResult(reason) }
func (Recorder) ChannelsWritten(n int)                   { RecordChannelsWritten(n) }
func (Recorder) WriteError(artifact string)              { IncWriteError(artifact) }
func (Recorder) RunFailure(stage string)                 { IncRunFailure(stage) }
func (Recorder) RunFinished(started, finished time.Time) { ObserveRun(started, finished) }
