// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"time"

	"github.com/ManuGH/matchcast/internal/epg"
	"github.com/ManuGH/matchcast/internal/events"
	"github.com/ManuGH/matchcast/internal/platform/httpx"
	"github.com/ManuGH/matchcast/internal/ratelimit"
	"github.com/ManuGH/matchcast/internal/resolve"
	"github.com/ManuGH/matchcast/internal/timewindow"
)

// Default values not owned by another package.
const (
	DefaultHTTPTimeout       = 10 * time.Second
	DefaultSourceTimeout     = 30 * time.Second
	DefaultProbeTimeout      = 3 * time.Second
	DefaultNavigationTimeout = 10 * time.Second
	DefaultConcurrency       = 4
	DefaultBreakerThreshold  = 5
	DefaultBreakerReset      = 5 * time.Minute
	DefaultPlaylistPath      = "matchcast.m3u"
	DefaultSamplingRate      = 1.0
)

// DefaultStrategies is the cost-ordered chain.
var DefaultStrategies = []string{resolve.StrategyDirect, resolve.StrategyScrape, resolve.StrategyIntercept}

// setDefaults sets default values for configuration.
func (l *Loader) setDefaults(cfg *AppConfig) {
	cfg.LogLevel = "info"

	cfg.Events.LinkContains = append([]string(nil), events.DefaultLinkContains...)

	cfg.HTTP.Timeout = DefaultHTTPTimeout
	cfg.HTTP.UserAgent = httpx.DefaultUserAgent

	cfg.Resolver.Strategies = append([]string(nil), DefaultStrategies...)
	cfg.Resolver.Patterns = append([]string(nil), resolve.DefaultPatterns...)
	cfg.Resolver.MaxFrames = resolve.DefaultMaxFrames
	cfg.Resolver.SourceTimeout = DefaultSourceTimeout
	cfg.Resolver.Concurrency = DefaultConcurrency
	cfg.Resolver.Liveness.Timeout = DefaultProbeTimeout
	cfg.Resolver.Breaker.Threshold = DefaultBreakerThreshold
	cfg.Resolver.Breaker.ResetTimeout = DefaultBreakerReset
	rl := ratelimit.DefaultConfig()
	cfg.Resolver.RateLimit = RateLimitConfig{
		GlobalRate:   float64(rl.GlobalRate),
		GlobalBurst:  rl.GlobalBurst,
		PerHostRate:  float64(rl.PerHostRate),
		PerHostBurst: rl.PerHostBurst,
	}

	cfg.Browser.Headless = true
	cfg.Browser.Timeout = resolve.DefaultInterceptTimeout
	cfg.Browser.NavigationTimeout = DefaultNavigationTimeout

	cfg.Playlist.Path = DefaultPlaylistPath
	cfg.Playlist.ProgrammeDuration = epg.DefaultProgrammeDuration

	cfg.Window.Enabled = true
	cfg.Window.Horizon = timewindow.DefaultHorizon
	cfg.Window.Grace = timewindow.DefaultGrace

	cfg.Output.OnSourceFailure = OnSourceFailureKeep

	cfg.Telemetry.Exporter = "grpc"
	cfg.Telemetry.SamplingRate = DefaultSamplingRate
}
