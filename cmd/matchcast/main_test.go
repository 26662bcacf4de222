// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/matchcast/internal/version"
)

func TestRun_Version(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-version"}, &stdout, &stderr)

	assert.Equal(t, 0, code)
	assert.Equal(t, version.String()+"\n", stdout.String())
}

func TestRun_BadFlag(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, 2, run(context.Background(), []string{"-nope"}, &stdout, &stderr))
}

func TestRun_InvalidConfigExitsOne(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("resolver:\n  concurency: 3\n"), 0o600))

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-config", path}, &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "config.load_failed")
}

func newFakeUpstream(t *testing.T, feed string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/feed", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(feed))
	})
	mux.HandleFunc("/api/alpha/1", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"url":"https://cdn.example/a.m3u8"}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func setRunEnv(t *testing.T, srv *httptest.Server, dir string) (m3u, textfile string) {
	t.Helper()
	m3u = filepath.Join(dir, "out.m3u")
	textfile = filepath.Join(dir, "matchcast.prom")
	t.Setenv("MATCHCAST_FEED_URL", srv.URL+"/feed")
	t.Setenv("MATCHCAST_API_BASE", srv.URL+"/api")
	t.Setenv("MATCHCAST_STRATEGIES", "direct")
	t.Setenv("MATCHCAST_OUTPUT", m3u)
	t.Setenv("MATCHCAST_METRICS_TEXTFILE", textfile)
	t.Setenv("MATCHCAST_RATE_PER_HOST", "0")
	return m3u, textfile
}

func TestRun_EndToEnd(t *testing.T) {
	srv := newFakeUpstream(t, `[{"title":"Team A vs Team B","category":"football",
		"sources":[{"source":"alpha","id":"1"},{"source":"bravo","id":"2"}]}]`)
	m3u, textfile := setRunEnv(t, srv, t.TempDir())

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), nil, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	out, err := os.ReadFile(m3u)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(out), "#EXTINF"))
	assert.Contains(t, string(out), "Team A vs Team B (ALPHA)\nhttps://cdn.example/a.m3u8\n")
	assert.Contains(t, stderr.String(), `"run_id"`)

	prom, err := os.ReadFile(textfile)
	require.NoError(t, err)
	assert.Contains(t, string(prom), "matchcast_channels_written")
}

func TestRun_SourceUnavailableExitsOne(t *testing.T) {
	srv := newFakeUpstream(t, `{"broken":`)
	m3u, _ := setRunEnv(t, srv, t.TempDir())
	require.NoError(t, os.WriteFile(m3u, []byte("#EXTM3U\n"), 0o644))

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), nil, &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "source_unavailable")
	_, err := os.Stat(m3u)
	assert.NoError(t, err, "previous playlist is kept by default")
}
