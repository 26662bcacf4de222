// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/ManuGH/matchcast/internal/browser"
	"github.com/ManuGH/matchcast/internal/cache"
	"github.com/ManuGH/matchcast/internal/config"
	"github.com/ManuGH/matchcast/internal/events"
	"github.com/ManuGH/matchcast/internal/jobs"
	xlog "github.com/ManuGH/matchcast/internal/log"
	"github.com/ManuGH/matchcast/internal/metrics"
	"github.com/ManuGH/matchcast/internal/platform/httpx"
	"github.com/ManuGH/matchcast/internal/ratelimit"
	"github.com/ManuGH/matchcast/internal/resilience"
	"github.com/ManuGH/matchcast/internal/resolve"
	"github.com/ManuGH/matchcast/internal/timewindow"
)

const memoCleanupInterval = time.Minute

// runtime is everything one run needs, plus what must be released after it.
type runtime struct {
	jobs    jobs.Config
	deps    jobs.Deps
	closers []func() error
}

// Close releases the browser session and the memo janitor.
func (r *runtime) Close() {
	var errs []error
	for i := len(r.closers) - 1; i >= 0; i-- {
		errs = append(errs, r.closers[i]())
	}
	if err := errors.Join(errs...); err != nil {
		logger := xlog.WithComponent("cli")
		logger.Warn().Err(err).Msg("cleanup failed")
	}
}

func buildRuntime(cfg config.AppConfig) (*runtime, error) {
	rt := &runtime{}

	session := httpx.NewSession(cfg.HTTP.Timeout, httpx.Headers{
		UserAgent: cfg.HTTP.UserAgent,
		Referer:   cfg.HTTP.Referer,
		Origin:    cfg.HTTP.Origin,
	})
	rl := cfg.Resolver.RateLimit
	limiter := ratelimit.New(ratelimit.Config{
		GlobalRate:   rate.Limit(rl.GlobalRate),
		GlobalBurst:  rl.GlobalBurst,
		PerHostRate:  rate.Limit(rl.PerHostRate),
		PerHostBurst: rl.PerHostBurst,
	})
	breakers := resilience.NewHosts(cfg.Resolver.Breaker.Threshold, cfg.Resolver.Breaker.ResetTimeout)
	fetcher := resolve.NewFetcher(session, limiter, breakers)

	strategies, err := buildStrategies(cfg, fetcher, rt)
	if err != nil {
		rt.Close()
		return nil, err
	}

	var liveness resolve.LivenessChecker
	if cfg.Resolver.Liveness.Enabled {
		liveness = resolve.NewProber(session, limiter, cfg.Resolver.Liveness.Timeout)
	}

	memo := cache.NewMemory[resolve.Result](memoCleanupInterval)
	rt.closers = append(rt.closers, func() error { memo.Stop(); return nil })

	rt.deps = jobs.Deps{
		Events: buildEvents(cfg, session),
		Resolver: resolve.New(resolve.Options{
			Strategies:    strategies,
			Liveness:      liveness,
			Memo:          memo,
			Recorder:      metrics.Recorder{},
			SourceTimeout: cfg.Resolver.SourceTimeout,
		}),
		Metrics: metrics.Recorder{},
	}
	rt.jobs = jobs.Config{
		Concurrency:           cfg.Resolver.Concurrency,
		AllMirrors:            cfg.Resolver.AllMirrors,
		WindowEnabled:         cfg.Window.Enabled,
		Window:                timewindow.Window{Horizon: cfg.Window.Horizon, Grace: cfg.Window.Grace},
		PlaylistPath:          cfg.Playlist.Path,
		EPGURL:                cfg.Playlist.EPGURL,
		Profiles:              cfg.Playlist.Profiles,
		XMLTVPath:             cfg.Playlist.XMLTVPath,
		ProgrammeDuration:     cfg.Playlist.ProgrammeDuration,
		RemoveOnSourceFailure: cfg.Output.OnSourceFailure == config.OnSourceFailureRemove,
	}
	return rt, nil
}

func buildStrategies(cfg config.AppConfig, fetcher *resolve.Fetcher, rt *runtime) ([]resolve.Strategy, error) {
	out := make([]resolve.Strategy, 0, len(cfg.Resolver.Strategies))
	for _, name := range cfg.Resolver.Strategies {
		switch name {
		case resolve.StrategyDirect:
			out = append(out, resolve.NewDirect(cfg.Resolver.APIBase, fetcher))
		case resolve.StrategyScrape:
			patterns, err := resolve.CompilePatterns(cfg.Resolver.Patterns)
			if err != nil {
				return nil, fmt.Errorf("scrape patterns: %w", err)
			}
			out = append(out, resolve.NewScrape(fetcher, patterns, cfg.Resolver.MaxFrames))
		case resolve.StrategyIntercept:
			// Launched on first capture; runs that never reach this strategy
			// never start a browser.
			sess := browser.New(browser.Options{
				Headless:          cfg.Browser.Headless,
				UserAgent:         cfg.HTTP.UserAgent,
				Referer:           cfg.HTTP.Referer,
				ClickSelectors:    cfg.Browser.ClickSelectors,
				NavigationTimeout: cfg.Browser.NavigationTimeout,
				InstallDriver:     cfg.Browser.InstallDriver,
			})
			rt.closers = append(rt.closers, sess.Close)
			out = append(out, resolve.NewIntercept(sess, cfg.Browser.Timeout))
		default:
			return nil, fmt.Errorf("unknown strategy %q", name)
		}
	}
	return out, nil
}

// buildEvents concatenates the configured event sources in a fixed order.
func buildEvents(cfg config.AppConfig, session *httpx.Session) events.Source {
	var sources events.Multi
	if cfg.Events.FeedURL != "" {
		sources = append(sources, events.NewHTTPFeed(cfg.Events.FeedURL, cfg.Events.PosterBase, session))
	}
	if cfg.Events.FeedFile != "" {
		sources = append(sources, &events.FileFeed{Path: cfg.Events.FeedFile, PosterBase: cfg.Events.PosterBase})
	}
	if len(cfg.Events.Sections) > 0 || len(cfg.Events.Pinned) > 0 {
		sources = append(sources, &events.PageScan{
			Sections:     cfg.Events.Sections,
			LinkContains: cfg.Events.LinkContains,
			Pinned:       cfg.Events.Pinned,
			Session:      session,
		})
	}
	return sources
}
