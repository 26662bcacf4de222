// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

// mergeEnvConfig merges environment variables into cfg.
// ENV variables have the highest precedence.
func (l *Loader) mergeEnvConfig(cfg *AppConfig) {
	cfg.LogLevel = l.envString("MATCHCAST_LOG_LEVEL", cfg.LogLevel)

	l.mergeEnvEvents(cfg)
	l.mergeEnvHTTP(cfg)
	l.mergeEnvResolver(cfg)
	l.mergeEnvBrowser(cfg)
	l.mergeEnvPlaylist(cfg)
	l.mergeEnvWindow(cfg)

	cfg.Output.OnSourceFailure = l.envString("MATCHCAST_ON_SOURCE_FAILURE", cfg.Output.OnSourceFailure)
	cfg.Metrics.TextfilePath = l.envString("MATCHCAST_METRICS_TEXTFILE", cfg.Metrics.TextfilePath)

	l.mergeEnvTelemetry(cfg)
}

func (l *Loader) mergeEnvEvents(cfg *AppConfig) {
	cfg.Events.FeedURL = l.envString("MATCHCAST_FEED_URL", cfg.Events.FeedURL)
	cfg.Events.FeedFile = l.envString("MATCHCAST_FEED_FILE", cfg.Events.FeedFile)
	cfg.Events.PosterBase = l.envString("MATCHCAST_POSTER_BASE", cfg.Events.PosterBase)
	cfg.Events.Sections = l.envList("MATCHCAST_SECTIONS", cfg.Events.Sections)
	cfg.Events.LinkContains = l.envList("MATCHCAST_LINK_CONTAINS", cfg.Events.LinkContains)
}

func (l *Loader) mergeEnvHTTP(cfg *AppConfig) {
	cfg.HTTP.Timeout = l.envDuration("MATCHCAST_HTTP_TIMEOUT", cfg.HTTP.Timeout)
	cfg.HTTP.UserAgent = l.envString("MATCHCAST_USER_AGENT", cfg.HTTP.UserAgent)
	cfg.HTTP.Referer = l.envString("MATCHCAST_REFERER", cfg.HTTP.Referer)
	cfg.HTTP.Origin = l.envString("MATCHCAST_ORIGIN", cfg.HTTP.Origin)
}

func (l *Loader) mergeEnvResolver(cfg *AppConfig) {
	r := &cfg.Resolver
	r.APIBase = l.envString("MATCHCAST_API_BASE", r.APIBase)
	r.Strategies = l.envList("MATCHCAST_STRATEGIES", r.Strategies)
	r.MaxFrames = l.envInt("MATCHCAST_MAX_FRAMES", r.MaxFrames)
	r.SourceTimeout = l.envDuration("MATCHCAST_SOURCE_TIMEOUT", r.SourceTimeout)
	r.Concurrency = l.envInt("MATCHCAST_CONCURRENCY", r.Concurrency)
	r.AllMirrors = l.envBool("MATCHCAST_ALL_MIRRORS", r.AllMirrors)

	r.Liveness.Enabled = l.envBool("MATCHCAST_LIVENESS", r.Liveness.Enabled)
	r.Liveness.Timeout = l.envDuration("MATCHCAST_PROBE_TIMEOUT", r.Liveness.Timeout)

	r.Breaker.Threshold = l.envInt("MATCHCAST_BREAKER_THRESHOLD", r.Breaker.Threshold)
	r.Breaker.ResetTimeout = l.envDuration("MATCHCAST_BREAKER_RESET", r.Breaker.ResetTimeout)

	r.RateLimit.GlobalRate = l.envFloat("MATCHCAST_RATE_GLOBAL", r.RateLimit.GlobalRate)
	r.RateLimit.GlobalBurst = l.envInt("MATCHCAST_RATE_GLOBAL_BURST", r.RateLimit.GlobalBurst)
	r.RateLimit.PerHostRate = l.envFloat("MATCHCAST_RATE_PER_HOST", r.RateLimit.PerHostRate)
	r.RateLimit.PerHostBurst = l.envInt("MATCHCAST_RATE_PER_HOST_BURST", r.RateLimit.PerHostBurst)
}

func (l *Loader) mergeEnvBrowser(cfg *AppConfig) {
	cfg.Browser.Headless = l.envBool("MATCHCAST_BROWSER_HEADLESS", cfg.Browser.Headless)
	cfg.Browser.Timeout = l.envDuration("MATCHCAST_INTERCEPT_TIMEOUT", cfg.Browser.Timeout)
	cfg.Browser.NavigationTimeout = l.envDuration("MATCHCAST_NAVIGATION_TIMEOUT", cfg.Browser.NavigationTimeout)
	cfg.Browser.ClickSelectors = l.envList("MATCHCAST_CLICK_SELECTORS", cfg.Browser.ClickSelectors)
	cfg.Browser.InstallDriver = l.envBool("MATCHCAST_BROWSER_INSTALL", cfg.Browser.InstallDriver)
}

func (l *Loader) mergeEnvPlaylist(cfg *AppConfig) {
	cfg.Playlist.Path = l.envString("MATCHCAST_OUTPUT", cfg.Playlist.Path)
	cfg.Playlist.EPGURL = l.envString("MATCHCAST_EPG_URL", cfg.Playlist.EPGURL)
	cfg.Playlist.XMLTVPath = l.envString("MATCHCAST_XMLTV_OUTPUT", cfg.Playlist.XMLTVPath)
	cfg.Playlist.ProgrammeDuration = l.envDuration("MATCHCAST_PROGRAMME_DURATION", cfg.Playlist.ProgrammeDuration)
}

func (l *Loader) mergeEnvWindow(cfg *AppConfig) {
	cfg.Window.Enabled = l.envBool("MATCHCAST_WINDOW_ENABLED", cfg.Window.Enabled)
	cfg.Window.Horizon = l.envDuration("MATCHCAST_WINDOW_HORIZON", cfg.Window.Horizon)
	cfg.Window.Grace = l.envDuration("MATCHCAST_WINDOW_GRACE", cfg.Window.Grace)
}

func (l *Loader) mergeEnvTelemetry(cfg *AppConfig) {
	cfg.Telemetry.Enabled = l.envBool("MATCHCAST_TELEMETRY_ENABLED", cfg.Telemetry.Enabled)
	cfg.Telemetry.Exporter = l.envString("MATCHCAST_OTLP_EXPORTER", cfg.Telemetry.Exporter)
	cfg.Telemetry.Endpoint = l.envString("MATCHCAST_OTLP_ENDPOINT", cfg.Telemetry.Endpoint)
	cfg.Telemetry.SamplingRate = l.envFloat("MATCHCAST_TRACE_SAMPLING", cfg.Telemetry.SamplingRate)
}
