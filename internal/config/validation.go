// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ManuGH/matchcast/internal/resolve"
	"github.com/ManuGH/matchcast/internal/validate"
)

var (
	httpSchemes     = []string{"http", "https"}
	knownStrategies = []string{resolve.StrategyDirect, resolve.StrategyScrape, resolve.StrategyIntercept}
)

// Validate validates an AppConfig using the centralized validation package
func Validate(cfg AppConfig) error {
	v := validate.New()

	if _, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel)); err != nil {
		v.AddError("LogLevel", "unknown log level", cfg.LogLevel)
	}

	validateEvents(v, cfg.Events)
	validateResolver(v, cfg)

	v.DurationRange("HTTP.Timeout", cfg.HTTP.Timeout, 100*time.Millisecond, 5*time.Minute)
	v.NotEmpty("HTTP.UserAgent", cfg.HTTP.UserAgent)
	v.OptionalURL("HTTP.Referer", cfg.HTTP.Referer, httpSchemes)
	v.OptionalURL("HTTP.Origin", cfg.HTTP.Origin, httpSchemes)

	v.OutputFile("Playlist.Path", cfg.Playlist.Path)
	if strings.TrimSpace(cfg.Playlist.XMLTVPath) != "" {
		v.OutputFile("Playlist.XMLTVPath", cfg.Playlist.XMLTVPath)
		v.DurationRange("Playlist.ProgrammeDuration", cfg.Playlist.ProgrammeDuration, time.Minute, 48*time.Hour)
	}
	v.OptionalURL("Playlist.EPGURL", cfg.Playlist.EPGURL, httpSchemes)

	if cfg.Window.Enabled {
		v.DurationRange("Window.Horizon", cfg.Window.Horizon, time.Minute, 30*24*time.Hour)
		v.DurationRange("Window.Grace", cfg.Window.Grace, 0, 7*24*time.Hour)
	}

	v.OneOf("Output.OnSourceFailure", cfg.Output.OnSourceFailure,
		[]string{OnSourceFailureKeep, OnSourceFailureRemove})

	if cfg.Telemetry.Enabled {
		v.OneOf("Telemetry.Exporter", cfg.Telemetry.Exporter, []string{"grpc", "http"})
		if cfg.Telemetry.SamplingRate < 0 || cfg.Telemetry.SamplingRate > 1 {
			v.AddError("Telemetry.SamplingRate", "must be between 0 and 1", cfg.Telemetry.SamplingRate)
		}
	}

	return v.Err()
}

func validateEvents(v *validate.Validator, ev EventsConfig) {
	if ev.FeedURL == "" && ev.FeedFile == "" && len(ev.Sections) == 0 && len(ev.Pinned) == 0 {
		v.AddError("Events", "no event source configured (feedURL, feedFile, sections or pinned)", "")
	}
	v.OptionalURL("Events.FeedURL", ev.FeedURL, httpSchemes)
	v.OptionalURL("Events.PosterBase", ev.PosterBase, httpSchemes)
	for i, s := range ev.Sections {
		v.URL(fmt.Sprintf("Events.Sections[%d]", i), s, httpSchemes)
	}
	for i, p := range ev.Pinned {
		v.URL(fmt.Sprintf("Events.Pinned[%d].URL", i), p.URL, httpSchemes)
	}
}

func validateResolver(v *validate.Validator, cfg AppConfig) {
	r := cfg.Resolver

	if len(r.Strategies) == 0 {
		v.AddError("Resolver.Strategies", "at least one strategy is required", "")
	}
	seen := make(map[string]bool, len(r.Strategies))
	for _, s := range r.Strategies {
		v.OneOf("Resolver.Strategies", s, knownStrategies)
		if seen[s] {
			v.AddError("Resolver.Strategies", "duplicate strategy", s)
		}
		seen[s] = true
	}
	if seen[resolve.StrategyDirect] {
		v.URL("Resolver.APIBase", r.APIBase, httpSchemes)
	}
	if seen[resolve.StrategyScrape] {
		v.Custom("Resolver.Patterns", r.Patterns, func(any) error {
			if len(r.Patterns) == 0 {
				return errors.New("at least one pattern is required for the scrape strategy")
			}
			_, err := resolve.CompilePatterns(r.Patterns)
			return err
		})
		v.Range("Resolver.MaxFrames", r.MaxFrames, 0, 20)
	}
	if seen[resolve.StrategyIntercept] {
		v.DurationRange("Browser.Timeout", cfg.Browser.Timeout, time.Second, 2*time.Minute)
		v.DurationRange("Browser.NavigationTimeout", cfg.Browser.NavigationTimeout, time.Second, 2*time.Minute)
	}

	v.Range("Resolver.Concurrency", r.Concurrency, 1, 64)
	v.DurationRange("Resolver.SourceTimeout", r.SourceTimeout, time.Second, 10*time.Minute)

	if r.Liveness.Enabled {
		v.DurationRange("Resolver.Liveness.Timeout", r.Liveness.Timeout, 100*time.Millisecond, time.Minute)
	}
	v.NonNegative("Resolver.Breaker.Threshold", r.Breaker.Threshold)
	if r.Breaker.Threshold > 0 {
		v.DurationRange("Resolver.Breaker.ResetTimeout", r.Breaker.ResetTimeout, time.Second, 24*time.Hour)
	}
	if r.RateLimit.GlobalRate > 0 {
		v.Positive("Resolver.RateLimit.GlobalBurst", r.RateLimit.GlobalBurst)
	}
	if r.RateLimit.PerHostRate > 0 {
		v.Positive("Resolver.RateLimit.PerHostBurst", r.RateLimit.PerHostBurst)
	}
}
