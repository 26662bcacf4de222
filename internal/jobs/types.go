// SPDX-License-Identifier: MIT

package jobs

import (
	"context"
	"time"

	"github.com/ManuGH/matchcast/internal/domain"
	"github.com/ManuGH/matchcast/internal/events"
	"github.com/ManuGH/matchcast/internal/playlist"
	"github.com/ManuGH/matchcast/internal/resolve"
	"github.com/ManuGH/matchcast/internal/timewindow"
)

// Skip reasons reported to MetricsRecorder.MatchSkipped.
const (
	SkipFiltered  = "filtered"
	SkipInvalid   = "invalid"
	SkipExhausted = "exhausted"
	SkipDuplicate = "duplicate"
)

// Config holds the run settings.
type Config struct {
	// Concurrency bounds how many matches resolve at once; 1 is fully sequential.
	Concurrency int
	// AllMirrors keeps every resolving source instead of the first one.
	AllMirrors bool

	WindowEnabled bool
	Window        timewindow.Window

	PlaylistPath string
	EPGURL       string
	Profiles     playlist.Profiles

	// XMLTVPath enables guide output when non-empty.
	XMLTVPath         string
	ProgrammeDuration time.Duration

	// RemoveOnSourceFailure deletes the previous artifacts when the event
	// source is unavailable. Otherwise they are left untouched.
	RemoveOnSourceFailure bool
}

// Resolver maps a source to a playable URL.
type Resolver interface {
	Resolve(ctx context.Context, src domain.Source) resolve.Result
}

// MetricsRecorder defines the interface for recording run metrics
type MetricsRecorder interface {
	MatchesFetched(n int)
	MatchSkipped(reason string)
	Result(reason string)
	ChannelsWritten(n int)
	WriteError(artifact string)
	RunFailure(stage string)
	RunFinished(started, finished time.Time)
}

// Deps holds all dependencies of a run
type Deps struct {
	Events   events.Source
	Resolver Resolver
	Metrics  MetricsRecorder // optional
	Clock    func() time.Time
}

// Stats summarises one run.
type Stats struct {
	StartTime  time.Time
	EndTime    time.Time
	Matches    int // as fetched
	Filtered   int // outside the time window
	Invalid    int // no attemptable source
	Exhausted  int // every source failed
	Duplicates int // resolved URLs already emitted earlier in the run
	Channels   int
	// Reasons counts per-source resolution outcomes by resolve.Reason.
	Reasons map[resolve.Reason]int
}

type nopMetrics struct{}

func (nopMetrics) MatchesFetched(int)               {}
func (nopMetrics) MatchSkipped(string)              {}
func (nopMetrics) Result(string)                    {}
func (nopMetrics) ChannelsWritten(int)              {}
func (nopMetrics) WriteError(string)                {}
func (nopMetrics) RunFailure(string)                {}
func (nopMetrics) RunFinished(time.Time, time.Time) {}
