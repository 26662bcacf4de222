// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// SPDX-License-Identifier: MIT

// matchcast aggregates live sports events into an M3U playlist.
//
// Usage:
//
//	matchcast [-config config.yaml] [-version]
//
// Exit codes:
//   - 0: run completed (including zero channels)
//   - 1: invalid configuration, event source unavailable, or write failure
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/ManuGH/matchcast/internal/config"
	"github.com/ManuGH/matchcast/internal/events"
	"github.com/ManuGH/matchcast/internal/jobs"
	xlog "github.com/ManuGH/matchcast/internal/log"
	"github.com/ManuGH/matchcast/internal/metrics"
	"github.com/ManuGH/matchcast/internal/telemetry"
	"github.com/ManuGH/matchcast/internal/version"
)

const shutdownTimeout = 5 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run is main without process exit; it returns the exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("matchcast", flag.ContinueOnError)
	fs.SetOutput(stderr)
	showVersion := fs.Bool("version", false, "print version and exit")
	configPath := fs.String("config", "", "path to config file (YAML)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *showVersion {
		fmt.Fprintln(stdout, version.String())
		return 0
	}

	// Safe defaults until config is loaded
	xlog.Configure(xlog.Config{Level: "info", Output: stderr, Service: "matchcast", Version: version.Version})
	logger := xlog.WithComponent("cli")

	path := strings.TrimSpace(*configPath)
	loader := config.NewLoader(path, version.Version)
	cfg, err := loader.Load()
	if err != nil {
		logger.Error().
			Err(err).
			Str(xlog.FieldEvent, "config.load_failed").
			Str("config_path", path).
			Msg("failed to load configuration")
		return 1
	}

	xlog.Configure(xlog.Config{Level: cfg.LogLevel, Output: stderr, Service: "matchcast", Version: cfg.Version})
	logger = xlog.WithComponent("cli")
	source := "env+defaults"
	if path != "" {
		source = "file"
	}
	logger.Info().
		Str(xlog.FieldEvent, "config.loaded").
		Str("source", source).
		Str(xlog.FieldPath, path).
		Msg("configuration loaded")
	for _, key := range loader.UnknownEnvKeys() {
		logger.Warn().
			Str(xlog.FieldEvent, "config.unknown_env").
			Str("key", key).
			Msg("unknown MATCHCAST_ environment variable ignored")
	}

	tp, err := telemetry.NewProvider(ctx, telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		ServiceName:    "matchcast",
		ServiceVersion: cfg.Version,
		ExporterType:   cfg.Telemetry.Exporter,
		Endpoint:       cfg.Telemetry.Endpoint,
		SamplingRate:   cfg.Telemetry.SamplingRate,
	})
	if err != nil {
		logger.Warn().Err(err).Str(xlog.FieldEvent, "telemetry.init_failed").Msg("tracing disabled")
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := tp.Shutdown(sctx); err != nil {
			logger.Warn().Err(err).Msg("telemetry shutdown")
		}
	}()

	rt, err := buildRuntime(cfg)
	if err != nil {
		logger.Error().Err(err).Str(xlog.FieldEvent, "runtime.build_failed").Msg("failed to build pipeline")
		return 1
	}
	defer rt.Close()

	runID := uuid.NewString()
	ctx = xlog.ContextWithRunID(ctx, runID)

	_, err = jobs.Run(ctx, rt.jobs, rt.deps)

	if p := cfg.Metrics.TextfilePath; p != "" {
		if werr := metrics.WriteTextfile(p); werr != nil {
			logger.Warn().Err(werr).Str(xlog.FieldPath, p).Msg("failed to write metrics textfile")
		}
	}

	if err != nil {
		ev := logger.Error().Err(err).Str(xlog.FieldRunID, runID)
		if errors.Is(err, events.ErrSourceUnavailable) {
			ev = ev.Str(xlog.FieldReason, "source_unavailable")
		}
		ev.Str(xlog.FieldEvent, "run.failed").Msg("run failed")
		return 1
	}
	return 0
}
