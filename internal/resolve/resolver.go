// SPDX-License-Identifier: MIT

// Package resolve turns a match source into a directly playable stream URL
// by running an ordered chain of strategies.
package resolve

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/singleflight"

	"github.com/ManuGH/matchcast/internal/cache"
	"github.com/ManuGH/matchcast/internal/domain"
	xlog "github.com/ManuGH/matchcast/internal/log"
	xnet "github.com/ManuGH/matchcast/internal/platform/net"
	"github.com/ManuGH/matchcast/internal/resilience"
	"github.com/ManuGH/matchcast/internal/telemetry"
)

// Strategy attempt outcomes reported to the Recorder.
const (
	OutcomeSuccess  = "success"
	OutcomeFailure  = "failure"
	OutcomeSkipped  = "skipped"
	OutcomeRejected = "rejected" // produced a URL that is not a manifest
	OutcomeDead     = "dead"
	OutcomeEmbed    = "embed"
)

// memoTTL outlives any sane run; the memo is dropped with the Resolver.
const memoTTL = time.Hour

// LivenessChecker reports whether a manifest URL answers.
type LivenessChecker interface {
	Alive(ctx context.Context, rawURL string) bool
}

// Recorder receives per-strategy outcomes.
type Recorder interface {
	StrategyAttempt(strategy, outcome string)
}

type nopRecorder struct{}

func (nopRecorder) StrategyAttempt(string, string) {}

// Options configures a Resolver.
type Options struct {
	Strategies []Strategy
	// Liveness is optional; nil skips probing.
	Liveness LivenessChecker
	// Memo caches results by Source key. Nil disables memoisation.
	Memo     cache.Cache[Result]
	Recorder Recorder
	// SourceTimeout bounds the whole chain for one Source. Zero means no
	// deadline beyond ctx.
	SourceTimeout time.Duration
}

// Resolver runs the strategy chain for one Source at a time. It is safe for
// concurrent use.
type Resolver struct {
	strategies    []Strategy
	liveness      LivenessChecker
	memo          cache.Cache[Result]
	recorder      Recorder
	sourceTimeout time.Duration
	flight        singleflight.Group
}

// New returns a Resolver.
func New(opts Options) *Resolver {
	r := &Resolver{
		strategies:    opts.Strategies,
		liveness:      opts.Liveness,
		memo:          opts.Memo,
		recorder:      opts.Recorder,
		sourceTimeout: opts.SourceTimeout,
	}
	if r.memo == nil {
		r.memo = cache.NewNoOp[Result]()
	}
	if r.recorder == nil {
		r.recorder = nopRecorder{}
	}
	return r
}

// Resolve returns the first manifest URL any strategy produces for src.
// Failures are reported in the Result, never as an error or panic.
func (r *Resolver) Resolve(ctx context.Context, src domain.Source) Result {
	if !src.Valid() {
		return Result{Reason: ReasonUnresolved}
	}

	key := src.Key()
	if res, ok := r.memo.Get(key); ok {
		return res
	}

	v, _, _ := r.flight.Do(key, func() (any, error) {
		res := r.run(ctx, src)
		if ctx.Err() == nil {
			r.memo.Set(key, res, memoTTL)
		}
		return res, nil
	})
	return v.(Result)
}

func (r *Resolver) run(ctx context.Context, src domain.Source) Result {
	if r.sourceTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.sourceTimeout)
		defer cancel()
	}

	ctx, span := telemetry.Tracer().Start(ctx, "resolve.source")
	defer span.End()
	span.SetAttributes(telemetry.SourceAttributes(xlog.MatchFromContext(ctx), src.Provider, src.ID)...)

	logger := xlog.WithComponentFromContext(ctx, "resolve").With().
		Str(xlog.FieldProvider, src.Provider).
		Str(xlog.FieldSourceID, src.ID).
		Logger()

	attempt := Attempt{Source: src}
	if src.IsEmbed() {
		attempt.EmbedURL = src.ID
	}

	var (
		failures []Failure
		sawDead  bool
	)
	for _, s := range r.strategies {
		if ctx.Err() != nil {
			failures = append(failures, Failure{Strategy: s.Name(), Err: ctx.Err()})
			break
		}

		c := s.Resolve(ctx, attempt)
		switch {
		case c.Err != nil:
			failures = append(failures, Failure{Strategy: s.Name(), Err: c.Err})
			r.logFailure(logger, s.Name(), c.Err)

		case c.Embed != "":
			attempt.EmbedURL = c.Embed
			r.recorder.StrategyAttempt(s.Name(), OutcomeEmbed)
			logger.Debug().
				Str(xlog.FieldEvent, "resolve.embed_found").
				Str(xlog.FieldStrategy, s.Name()).
				Str(xlog.FieldEmbedURL, xnet.SanitizeURL(c.Embed)).
				Msg("strategy returned embed page")

		case !IsManifest(c.URL):
			err := ErrNotManifest
			failures = append(failures, Failure{Strategy: s.Name(), Err: err})
			r.recorder.StrategyAttempt(s.Name(), OutcomeRejected)
			logger.Debug().
				Str(xlog.FieldEvent, "resolve.candidate_rejected").
				Str(xlog.FieldStrategy, s.Name()).
				Str(xlog.FieldURL, xnet.SanitizeURL(c.URL)).
				Msg("candidate is not a manifest url")

		case r.liveness != nil && !r.liveness.Alive(ctx, c.URL):
			sawDead = true
			failures = append(failures, Failure{Strategy: s.Name(), Err: errDead})
			r.recorder.StrategyAttempt(s.Name(), OutcomeDead)
			logger.Debug().
				Str(xlog.FieldEvent, "resolve.dead_link").
				Str(xlog.FieldStrategy, s.Name()).
				Str(xlog.FieldURL, xnet.SanitizeURL(c.URL)).
				Msg("liveness probe failed")

		default:
			r.recorder.StrategyAttempt(s.Name(), OutcomeSuccess)
			span.SetAttributes(telemetry.ResultAttributes(s.Name(), string(ReasonOK))...)
			logger.Debug().
				Str(xlog.FieldEvent, "resolve.resolved").
				Str(xlog.FieldStrategy, s.Name()).
				Str(xlog.FieldURL, xnet.SanitizeURL(c.URL)).
				Msg("source resolved")
			return Result{URL: c.URL, Strategy: s.Name(), Reason: ReasonOK, Failures: failures}
		}
	}

	reason := ReasonUnresolved
	if sawDead {
		reason = ReasonDeadLink
	}
	span.SetAttributes(telemetry.ResultAttributes("", string(reason))...)
	span.SetStatus(codes.Error, string(reason))
	return Result{Reason: reason, Failures: failures}
}

var errDead = errors.New("liveness probe failed")

func (r *Resolver) logFailure(logger zerolog.Logger, strategy string, err error) {
	if errors.Is(err, ErrNotApplicable) {
		r.recorder.StrategyAttempt(strategy, OutcomeSkipped)
		return
	}
	r.recorder.StrategyAttempt(strategy, OutcomeFailure)

	ev := logger.Debug().
		Str(xlog.FieldEvent, "resolve.strategy_failed").
		Str(xlog.FieldStrategy, strategy).
		Str(xlog.FieldReason, string(ReasonStrategyFailed))
	if errors.Is(err, resilience.ErrCircuitOpen) {
		ev = ev.Bool("circuit_open", true)
	}
	ev.Err(err).Msg("strategy failed")
}
