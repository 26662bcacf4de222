// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import "time"

// mergeFileConfig overlays values present in the YAML file onto dst.
func (l *Loader) mergeFileConfig(dst *AppConfig, src *FileConfig) {
	if src == nil {
		return
	}
	if src.LogLevel != "" {
		dst.LogLevel = src.LogLevel
	}
	l.mergeFileEvents(dst, src.Events)
	l.mergeFileHTTP(dst, src.HTTP)
	l.mergeFileResolver(dst, src.Resolver)
	l.mergeFileBrowser(dst, src.Browser)
	l.mergeFilePlaylist(dst, src.Playlist)
	l.mergeFileWindow(dst, src.Window)
	if src.Output != nil && src.Output.OnSourceFailure != "" {
		dst.Output.OnSourceFailure = src.Output.OnSourceFailure
	}
	if src.Metrics != nil && src.Metrics.TextfilePath != "" {
		dst.Metrics.TextfilePath = expandEnv(src.Metrics.TextfilePath)
	}
	l.mergeFileTelemetry(dst, src.Telemetry)
}

func (l *Loader) mergeFileEvents(dst *AppConfig, src *FileEvents) {
	if src == nil {
		return
	}
	setString(&dst.Events.FeedURL, src.FeedURL)
	setString(&dst.Events.FeedFile, expandEnv(src.FeedFile))
	setString(&dst.Events.PosterBase, src.PosterBase)
	if len(src.Sections) > 0 {
		dst.Events.Sections = src.Sections
	}
	if len(src.LinkContains) > 0 {
		dst.Events.LinkContains = src.LinkContains
	}
	if len(src.Pinned) > 0 {
		dst.Events.Pinned = src.Pinned
	}
}

func (l *Loader) mergeFileHTTP(dst *AppConfig, src *FileHTTP) {
	if src == nil {
		return
	}
	setDuration(&dst.HTTP.Timeout, src.Timeout)
	setString(&dst.HTTP.UserAgent, src.UserAgent)
	setString(&dst.HTTP.Referer, src.Referer)
	setString(&dst.HTTP.Origin, src.Origin)
}

func (l *Loader) mergeFileResolver(dst *AppConfig, src *FileResolver) {
	if src == nil {
		return
	}
	r := &dst.Resolver
	setString(&r.APIBase, src.APIBase)
	if len(src.Strategies) > 0 {
		r.Strategies = src.Strategies
	}
	if len(src.Patterns) > 0 {
		r.Patterns = src.Patterns
	}
	setInt(&r.MaxFrames, src.MaxFrames)
	setDuration(&r.SourceTimeout, src.SourceTimeout)
	setInt(&r.Concurrency, src.Concurrency)
	setBool(&r.AllMirrors, src.AllMirrors)
	if src.Liveness != nil {
		setBool(&r.Liveness.Enabled, src.Liveness.Enabled)
		setDuration(&r.Liveness.Timeout, src.Liveness.Timeout)
	}
	if src.Breaker != nil {
		setInt(&r.Breaker.Threshold, src.Breaker.Threshold)
		setDuration(&r.Breaker.ResetTimeout, src.Breaker.ResetTimeout)
	}
	if rl := src.RateLimit; rl != nil {
		setFloat(&r.RateLimit.GlobalRate, rl.GlobalRate)
		setInt(&r.RateLimit.GlobalBurst, rl.GlobalBurst)
		setFloat(&r.RateLimit.PerHostRate, rl.PerHostRate)
		setInt(&r.RateLimit.PerHostBurst, rl.PerHostBurst)
	}
}

func (l *Loader) mergeFileBrowser(dst *AppConfig, src *FileBrowser) {
	if src == nil {
		return
	}
	setBool(&dst.Browser.Headless, src.Headless)
	setDuration(&dst.Browser.Timeout, src.Timeout)
	setDuration(&dst.Browser.NavigationTimeout, src.NavigationTimeout)
	if len(src.ClickSelectors) > 0 {
		dst.Browser.ClickSelectors = src.ClickSelectors
	}
	setBool(&dst.Browser.InstallDriver, src.InstallDriver)
}

func (l *Loader) mergeFilePlaylist(dst *AppConfig, src *FilePlaylist) {
	if src == nil {
		return
	}
	setString(&dst.Playlist.Path, expandEnv(src.Path))
	setString(&dst.Playlist.EPGURL, src.EPGURL)
	setString(&dst.Playlist.XMLTVPath, expandEnv(src.XMLTVPath))
	setDuration(&dst.Playlist.ProgrammeDuration, src.ProgrammeDuration)
	if src.Profiles != nil {
		dst.Playlist.Profiles = *src.Profiles
	}
}

func (l *Loader) mergeFileWindow(dst *AppConfig, src *FileWindow) {
	if src == nil {
		return
	}
	setBool(&dst.Window.Enabled, src.Enabled)
	setDuration(&dst.Window.Horizon, src.Horizon)
	setDuration(&dst.Window.Grace, src.Grace)
}

func (l *Loader) mergeFileTelemetry(dst *AppConfig, src *FileTelemetry) {
	if src == nil {
		return
	}
	setBool(&dst.Telemetry.Enabled, src.Enabled)
	setString(&dst.Telemetry.Exporter, src.Exporter)
	setString(&dst.Telemetry.Endpoint, src.Endpoint)
	setFloat(&dst.Telemetry.SamplingRate, src.SamplingRate)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func setDuration(dst *time.Duration, v *time.Duration) {
	if v != nil {
		*dst = *v
	}
}
