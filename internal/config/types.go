// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"time"

	"github.com/ManuGH/matchcast/internal/events"
	"github.com/ManuGH/matchcast/internal/playlist"
)

// Source failure policies for Output.OnSourceFailure.
const (
	OnSourceFailureKeep   = "keep"
	OnSourceFailureRemove = "remove"
)

// AppConfig is the fully merged runtime configuration.
type AppConfig struct {
	Version  string
	LogLevel string

	Events    EventsConfig
	HTTP      HTTPConfig
	Resolver  ResolverConfig
	Browser   BrowserConfig
	Playlist  PlaylistConfig
	Window    WindowConfig
	Output    OutputConfig
	Metrics   MetricsConfig
	Telemetry TelemetryConfig
}

// EventsConfig selects where matches come from. Any combination may be set;
// the sources are concatenated in the order feed URL, feed file, page scan.
type EventsConfig struct {
	FeedURL      string
	FeedFile     string
	PosterBase   string
	Sections     []string
	LinkContains []string
	Pinned       []events.PinnedPage
}

// HTTPConfig is the run-owned HTTP session.
type HTTPConfig struct {
	Timeout   time.Duration
	UserAgent string
	Referer   string
	Origin    string
}

// ResolverConfig controls the strategy chain.
type ResolverConfig struct {
	APIBase       string
	Strategies    []string
	Patterns      []string
	MaxFrames     int
	SourceTimeout time.Duration
	Concurrency   int
	AllMirrors    bool
	Liveness      LivenessConfig
	Breaker       BreakerConfig
	RateLimit     RateLimitConfig
}

type LivenessConfig struct {
	Enabled bool
	Timeout time.Duration
}

type BreakerConfig struct {
	Threshold    int // 0 disables
	ResetTimeout time.Duration
}

type RateLimitConfig struct {
	GlobalRate   float64 // requests/s, 0 disables
	GlobalBurst  int
	PerHostRate  float64 // requests/s, 0 disables
	PerHostBurst int
}

// BrowserConfig drives the intercept strategy.
type BrowserConfig struct {
	Headless          bool
	Timeout           time.Duration // per-capture deadline
	NavigationTimeout time.Duration
	ClickSelectors    []string
	InstallDriver     bool
}

type PlaylistConfig struct {
	Path              string
	EPGURL            string
	XMLTVPath         string
	ProgrammeDuration time.Duration
	Profiles          playlist.Profiles
}

type WindowConfig struct {
	Enabled bool
	Horizon time.Duration
	Grace   time.Duration
}

type OutputConfig struct {
	OnSourceFailure string
}

type MetricsConfig struct {
	// TextfilePath, when set, receives a node_exporter textfile dump after each run.
	TextfilePath string
}

type TelemetryConfig struct {
	Enabled      bool
	Exporter     string
	Endpoint     string
	SamplingRate float64
}

// FileConfig is the YAML shape. Pointers distinguish "unset" from zero values.
type FileConfig struct {
	LogLevel  string         `yaml:"logLevel,omitempty"`
	Events    *FileEvents    `yaml:"events,omitempty"`
	HTTP      *FileHTTP      `yaml:"http,omitempty"`
	Resolver  *FileResolver  `yaml:"resolver,omitempty"`
	Browser   *FileBrowser   `yaml:"browser,omitempty"`
	Playlist  *FilePlaylist  `yaml:"playlist,omitempty"`
	Window    *FileWindow    `yaml:"window,omitempty"`
	Output    *FileOutput    `yaml:"output,omitempty"`
	Metrics   *FileMetrics   `yaml:"metrics,omitempty"`
	Telemetry *FileTelemetry `yaml:"telemetry,omitempty"`
}

type FileEvents struct {
	FeedURL      string              `yaml:"feedURL,omitempty"`
	FeedFile     string              `yaml:"feedFile,omitempty"`
	PosterBase   string              `yaml:"posterBase,omitempty"`
	Sections     []string            `yaml:"sections,omitempty"`
	LinkContains []string            `yaml:"linkContains,omitempty"`
	Pinned       []events.PinnedPage `yaml:"pinned,omitempty"`
}

type FileHTTP struct {
	Timeout   *time.Duration `yaml:"timeout,omitempty"`
	UserAgent string         `yaml:"userAgent,omitempty"`
	Referer   string         `yaml:"referer,omitempty"`
	Origin    string         `yaml:"origin,omitempty"`
}

type FileResolver struct {
	APIBase       string         `yaml:"apiBase,omitempty"`
	Strategies    []string       `yaml:"strategies,omitempty"`
	Patterns      []string       `yaml:"patterns,omitempty"`
	MaxFrames     *int           `yaml:"maxFrames,omitempty"`
	SourceTimeout *time.Duration `yaml:"sourceTimeout,omitempty"`
	Concurrency   *int           `yaml:"concurrency,omitempty"`
	AllMirrors    *bool          `yaml:"allMirrors,omitempty"`
	Liveness      *FileLiveness  `yaml:"liveness,omitempty"`
	Breaker       *FileBreaker   `yaml:"breaker,omitempty"`
	RateLimit     *FileRateLimit `yaml:"rateLimit,omitempty"`
}

type FileLiveness struct {
	Enabled *bool          `yaml:"enabled,omitempty"`
	Timeout *time.Duration `yaml:"timeout,omitempty"`
}

type FileBreaker struct {
	Threshold    *int           `yaml:"threshold,omitempty"`
	ResetTimeout *time.Duration `yaml:"resetTimeout,omitempty"`
}

type FileRateLimit struct {
	GlobalRate   *float64 `yaml:"globalRate,omitempty"`
	GlobalBurst  *int     `yaml:"globalBurst,omitempty"`
	PerHostRate  *float64 `yaml:"perHostRate,omitempty"`
	PerHostBurst *int     `yaml:"perHostBurst,omitempty"`
}

type FileBrowser struct {
	Headless          *bool          `yaml:"headless,omitempty"`
	Timeout           *time.Duration `yaml:"timeout,omitempty"`
	NavigationTimeout *time.Duration `yaml:"navigationTimeout,omitempty"`
	ClickSelectors    []string       `yaml:"clickSelectors,omitempty"`
	InstallDriver     *bool          `yaml:"installDriver,omitempty"`
}

type FilePlaylist struct {
	Path              string             `yaml:"path,omitempty"`
	EPGURL            string             `yaml:"epgURL,omitempty"`
	XMLTVPath         string             `yaml:"xmltvPath,omitempty"`
	ProgrammeDuration *time.Duration     `yaml:"programmeDuration,omitempty"`
	Profiles          *playlist.Profiles `yaml:"profiles,omitempty"`
}

type FileWindow struct {
	Enabled *bool          `yaml:"enabled,omitempty"`
	Horizon *time.Duration `yaml:"horizon,omitempty"`
	Grace   *time.Duration `yaml:"grace,omitempty"`
}

type FileOutput struct {
	OnSourceFailure string `yaml:"onSourceFailure,omitempty"`
}

type FileMetrics struct {
	TextfilePath string `yaml:"textfilePath,omitempty"`
}

type FileTelemetry struct {
	Enabled      *bool    `yaml:"enabled,omitempty"`
	Exporter     string   `yaml:"exporter,omitempty"`
	Endpoint     string   `yaml:"endpoint,omitempty"`
	SamplingRate *float64 `yaml:"samplingRate,omitempty"`
}
