// Package jobs runs one aggregation pass: fetch matches, resolve their
// sources, dedupe, and write the playlist (and optional guide).
package jobs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"github.com/ManuGH/matchcast/internal/domain"
	"github.com/ManuGH/matchcast/internal/epg"
	"github.com/ManuGH/matchcast/internal/events"
	xlog "github.com/ManuGH/matchcast/internal/log"
	"github.com/ManuGH/matchcast/internal/mirror"
	"github.com/ManuGH/matchcast/internal/playlist"
	"github.com/ManuGH/matchcast/internal/resolve"
	"github.com/ManuGH/matchcast/internal/telemetry"
)

// Artifact names used in logs and write-error metrics.
const (
	artifactM3U   = "m3u"
	artifactXMLTV = "xmltv"
)

// hit is one resolved source of a match. index is the source's position
// in the match's attemptable sources.
type hit struct {
	source domain.Source
	url    string
	index  int
}

// Run performs the complete aggregation cycle. The only error returned
// for upstream trouble is events.ErrSourceUnavailable (wrapped); per-source
// failures are counted in Stats and never abort the run.
func Run(ctx context.Context, cfg Config, deps Deps) (*Stats, error) {
	if deps.Events == nil || deps.Resolver == nil {
		return nil, errors.New("jobs: events source and resolver are required")
	}
	metrics := deps.Metrics
	if metrics == nil {
		metrics = nopMetrics{}
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}

	ctx, span := telemetry.Tracer().Start(ctx, "jobs.run")
	defer span.End()

	logger := xlog.WithComponentFromContext(ctx, "jobs")
	stats := &Stats{StartTime: clock(), Reasons: make(map[resolve.Reason]int)}
	defer func() {
		stats.EndTime = clock()
		metrics.RunFinished(stats.StartTime, stats.EndTime)
	}()

	logger.Info().Str(xlog.FieldEvent, "run.start").Msg("starting run")

	matches, err := deps.Events.Fetch(ctx)
	if err != nil {
		metrics.RunFailure("source")
		span.SetStatus(codes.Error, "source_unavailable")
		logger.Error().
			Err(err).
			Str(xlog.FieldEvent, "run.source_unavailable").
			Bool("remove_previous", cfg.RemoveOnSourceFailure).
			Msg("event source unavailable; no playlist written")
		if cfg.RemoveOnSourceFailure {
			removeStale(ctx, cfg.PlaylistPath, cfg.XMLTVPath)
		}
		if !errors.Is(err, events.ErrSourceUnavailable) {
			err = fmt.Errorf("%w: %w", events.ErrSourceUnavailable, err)
		}
		return stats, err
	}
	stats.Matches = len(matches)
	metrics.MatchesFetched(len(matches))

	candidates := selectMatches(ctx, cfg, matches, clock(), stats, metrics)

	hits := resolveAll(ctx, cfg, deps.Resolver, candidates, stats, metrics)
	if err := ctx.Err(); err != nil {
		metrics.RunFailure("canceled")
		return stats, fmt.Errorf("run canceled: %w", err)
	}

	asm, listings := assemble(ctx, cfg, deps.Resolver, candidates, hits, stats, metrics)
	stats.Channels = asm.Len()

	if err := writeAtomic(ctx, cfg.PlaylistPath, artifactM3U, func(w io.Writer) error {
		_, err := asm.WriteTo(w)
		return err
	}); err != nil {
		metrics.WriteError(artifactM3U)
		metrics.RunFailure("write")
		span.SetStatus(codes.Error, "write_failed")
		return stats, err
	}
	metrics.ChannelsWritten(stats.Channels)
	logger.Info().
		Str(xlog.FieldEvent, "playlist.write").
		Str(xlog.FieldPath, cfg.PlaylistPath).
		Int("channels", stats.Channels).
		Msg("playlist written")

	if cfg.XMLTVPath != "" {
		tv := epg.Build(listings, cfg.ProgrammeDuration)
		if err := writeAtomic(ctx, cfg.XMLTVPath, artifactXMLTV, func(w io.Writer) error {
			return epg.Encode(w, tv)
		}); err != nil {
			// The playlist is already in place; a missing guide is not fatal.
			metrics.WriteError(artifactXMLTV)
			logger.Warn().
				Err(err).
				Str(xlog.FieldEvent, "xmltv.failed").
				Str(xlog.FieldPath, cfg.XMLTVPath).
				Msg("XMLTV generation failed")
		} else {
			logger.Info().
				Str(xlog.FieldEvent, "xmltv.success").
				Str(xlog.FieldPath, cfg.XMLTVPath).
				Int("channels", len(tv.Channels)).
				Int("programmes", len(tv.Programs)).
				Msg("XMLTV generated")
		}
	}

	span.SetAttributes(telemetry.RunAttributes(xlog.RunIDFromContext(ctx), stats.Matches, stats.Channels)...)
	stats.EndTime = clock()
	logSummary(logger.Info(), stats)
	return stats, nil
}

// selectMatches applies the time window and drops matches with nothing to try.
func selectMatches(ctx context.Context, cfg Config, matches []domain.Match, now time.Time, stats *Stats, metrics MetricsRecorder) []domain.Match {
	logger := xlog.WithComponentFromContext(ctx, "jobs")
	out := make([]domain.Match, 0, len(matches))
	for _, m := range matches {
		if cfg.WindowEnabled && !cfg.Window.Includes(m.Start, now) {
			stats.Filtered++
			metrics.MatchSkipped(SkipFiltered)
			logger.Debug().
				Str(xlog.FieldEvent, "match.filtered").
				Str(xlog.FieldMatch, m.Title).
				Msg("match outside time window")
			continue
		}
		if len(m.AttemptableSources()) == 0 {
			stats.Invalid++
			metrics.MatchSkipped(SkipInvalid)
			logger.Debug().
				Str(xlog.FieldEvent, "match.invalid").
				Str(xlog.FieldMatch, m.Title).
				Msg("match has no usable sources")
			continue
		}
		out = append(out, m)
	}
	return out
}

// resolveAll resolves matches on a bounded worker group. Results are stored
// by match index so later stages see discovery order.
func resolveAll(ctx context.Context, cfg Config, r Resolver, matches []domain.Match, stats *Stats, metrics MetricsRecorder) [][]hit {
	hits := make([][]hit, len(matches))
	reasons := make([][]resolve.Reason, len(matches))

	limit := cfg.Concurrency
	if limit < 1 {
		limit = 1
	}
	var g errgroup.Group
	g.SetLimit(limit)

	for i, m := range matches {
		g.Go(func() error {
			hits[i], reasons[i] = resolveMatch(ctx, cfg, r, m)
			return nil
		})
	}
	_ = g.Wait()

	for _, rs := range reasons {
		for _, reason := range rs {
			stats.Reasons[reason]++
			metrics.Result(string(reason))
		}
	}
	return hits
}

func resolveMatch(ctx context.Context, cfg Config, r Resolver, m domain.Match) ([]hit, []resolve.Reason) {
	ctx = xlog.ContextWithMatch(ctx, m.Title)
	logger := xlog.WithComponentFromContext(ctx, "jobs")

	var (
		hits    []hit
		reasons []resolve.Reason
	)
	for i, src := range m.AttemptableSources() {
		if ctx.Err() != nil {
			break
		}
		res := r.Resolve(ctx, src)
		reasons = append(reasons, res.Reason)
		if !res.OK() {
			logger.Info().
				Str(xlog.FieldEvent, "source.failed").
				Str(xlog.FieldProvider, src.Provider).
				Str(xlog.FieldSourceID, src.ID).
				Str(xlog.FieldReason, string(res.Reason)).
				Int("attempts", len(res.Failures)).
				Msg("source did not resolve")
			continue
		}
		logger.Info().
			Str(xlog.FieldEvent, "source.resolved").
			Str(xlog.FieldProvider, src.Provider).
			Str(xlog.FieldStrategy, res.Strategy).
			Msg("source resolved")
		hits = append(hits, hit{source: src, url: res.URL, index: i})
		if !cfg.AllMirrors {
			break
		}
	}
	return hits, reasons
}

// assemble registers hits with the mirror tracker in discovery order and
// builds the playlist and guide listings. Without AllMirrors, a match whose
// resolved URL was already emitted falls through to its remaining sources,
// resolved sequentially here so ordinals stay deterministic.
func assemble(ctx context.Context, cfg Config, r Resolver, matches []domain.Match, hits [][]hit, stats *Stats, metrics MetricsRecorder) (*playlist.Assembler, []epg.Listing) {
	logger := xlog.WithComponentFromContext(ctx, "jobs")
	asm := playlist.NewAssembler(playlist.Header{XTvgURL: cfg.EPGURL}, cfg.Profiles)
	tracker := mirror.NewTracker()
	var listings []epg.Listing

	emit := func(m domain.Match, h hit, suffix string) {
		e := asm.EntryFor(m, h.source, h.url, suffix)
		if cfg.XMLTVPath != "" && e.TvgID == "" {
			e.TvgID = epg.ChannelID(e.Name)
		}
		asm.Append(e)
		if cfg.XMLTVPath != "" {
			listings = append(listings, epg.Listing{
				ChannelID:   e.TvgID,
				DisplayName: e.Name,
				Logo:        e.Logo,
				Title:       m.Title,
				Category:    e.Group,
				Start:       m.Start,
			})
		}
	}
	duplicate := func(m domain.Match) {
		stats.Duplicates++
		stats.Reasons[resolve.ReasonDuplicate]++
		metrics.Result(string(resolve.ReasonDuplicate))
		logger.Debug().
			Str(xlog.FieldEvent, "source.duplicate").
			Str(xlog.FieldMatch, m.Title).
			Str(xlog.FieldReason, string(resolve.ReasonDuplicate)).
			Msg("stream url already emitted")
	}

	for i, m := range matches {
		if len(hits[i]) == 0 {
			stats.Exhausted++
			metrics.MatchSkipped(SkipExhausted)
			logger.Info().
				Str(xlog.FieldEvent, "match.exhausted").
				Str(xlog.FieldMatch, m.Title).
				Msg("no source resolved")
			continue
		}

		emitted := 0
		last := 0
		for _, h := range hits[i] {
			last = h.index
			isNew, suffix := tracker.Register(m.Title, h.url)
			if !isNew {
				duplicate(m)
				continue
			}
			emit(m, h, suffix)
			emitted++
		}

		if emitted == 0 && !cfg.AllMirrors {
			if h, suffix, ok := resolveRemaining(ctx, r, m, last+1, tracker, stats, metrics, duplicate); ok {
				emit(m, h, suffix)
				emitted++
			}
		}
		if emitted == 0 {
			metrics.MatchSkipped(SkipDuplicate)
		}
	}
	return asm, listings
}

// resolveRemaining tries m's attemptable sources from index from onward
// until one yields a URL the tracker has not seen.
func resolveRemaining(ctx context.Context, r Resolver, m domain.Match, from int, tracker *mirror.Tracker, stats *Stats, metrics MetricsRecorder, duplicate func(domain.Match)) (hit, string, bool) {
	ctx = xlog.ContextWithMatch(ctx, m.Title)
	logger := xlog.WithComponentFromContext(ctx, "jobs")

	srcs := m.AttemptableSources()
	for i := from; i < len(srcs); i++ {
		if ctx.Err() != nil {
			break
		}
		src := srcs[i]
		res := r.Resolve(ctx, src)
		stats.Reasons[res.Reason]++
		metrics.Result(string(res.Reason))
		if !res.OK() {
			logger.Info().
				Str(xlog.FieldEvent, "source.failed").
				Str(xlog.FieldProvider, src.Provider).
				Str(xlog.FieldSourceID, src.ID).
				Str(xlog.FieldReason, string(res.Reason)).
				Msg("source did not resolve")
			continue
		}
		isNew, suffix := tracker.Register(m.Title, res.URL)
		if !isNew {
			duplicate(m)
			continue
		}
		logger.Info().
			Str(xlog.FieldEvent, "source.resolved").
			Str(xlog.FieldProvider, src.Provider).
			Str(xlog.FieldStrategy, res.Strategy).
			Msg("source resolved after duplicate")
		return hit{source: src, url: res.URL, index: i}, suffix, true
	}
	return hit{}, "", false
}

func removeStale(ctx context.Context, paths ...string) {
	logger := xlog.WithComponentFromContext(ctx, "jobs")
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			logger.Warn().Err(err).Str(xlog.FieldPath, p).Msg("failed to remove stale output")
			continue
		}
		logger.Info().
			Str(xlog.FieldEvent, "output.removed").
			Str(xlog.FieldPath, p).
			Msg("removed stale output")
	}
}
