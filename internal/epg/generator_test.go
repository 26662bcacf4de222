// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// SPDX-License-Identifier: MIT

package epg

import (
	"bytes"
	"encoding/xml"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestChannelID(t *testing.T) {
	tests := map[string]string{
		"Team A vs Team B (ALPHA)":            "team.a.vs.team.b.alpha",
		"Team A vs Team B (ALPHA) (Mirror 1)": "team.a.vs.team.b.alpha.mirror.1",
		"Bayern München – Dortmund":           "bayern.münchen.dortmund",
		"!!!":                                 "",
	}
	for in, want := range tests {
		if got := ChannelID(in); got != want {
			t.Errorf("ChannelID(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestBuild(t *testing.T) {
	start := time.Date(2025, 1, 1, 20, 0, 0, 0, time.UTC)
	tv := Build([]Listing{
		{DisplayName: "Team A vs Team B (ALPHA)", Title: "Team A vs Team B", Category: "Soccer", Logo: "https://img.example/a.png", Start: &start},
		{ChannelID: "Soccer.Dummy.us", DisplayName: "Other", Title: "Other"},
		{ChannelID: "Soccer.Dummy.us", DisplayName: "Other 2", Title: "Other 2", Start: &start},
		{DisplayName: "???"},
	}, 2*time.Hour)

	wantChannels := []Channel{
		{ID: "team.a.vs.team.b.alpha", DisplayName: []string{"Team A vs Team B (ALPHA)"}, Icon: &Icon{Src: "https://img.example/a.png"}},
		{ID: "Soccer.Dummy.us", DisplayName: []string{"Other"}},
	}
	if diff := cmp.Diff(wantChannels, tv.Channels); diff != "" {
		t.Errorf("channels mismatch (-want +got):\n%s", diff)
	}

	wantProgs := []Programme{
		{
			Start: "20250101200000 +0000", Stop: "20250101220000 +0000",
			Channel: "team.a.vs.team.b.alpha", Title: Title{Value: "Team A vs Team B"},
			Category: "Soccer", Icon: &Icon{Src: "https://img.example/a.png"},
		},
		{
			Start: "20250101200000 +0000", Stop: "20250101220000 +0000",
			Channel: "Soccer.Dummy.us", Title: Title{Value: "Other 2"},
		},
	}
	if diff := cmp.Diff(wantProgs, tv.Programs); diff != "" {
		t.Errorf("programmes mismatch (-want +got):\n%s", diff)
	}
}

func TestEncode(t *testing.T) {
	start := time.Date(2025, 1, 1, 20, 0, 0, 0, time.UTC)
	var buf bytes.Buffer
	if err := Encode(&buf, Build([]Listing{{DisplayName: "Café & Co", Title: "A <B>", Start: &start}}, 0)); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	out := buf.String()

	if !strings.HasPrefix(out, `<?xml version="1.0" encoding="UTF-8"?>`) {
		t.Fatalf("missing xml header:\n%s", out)
	}
	for _, want := range []string{`generator-info-name="matchcast"`, `Café &amp; Co`, `A &lt;B&gt;`, `stop="20250101230000 +0000"`} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}

	var parsed TV
	if err := xml.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("output is not valid XML: %v", err)
	}
	if len(parsed.Channels) != 1 || len(parsed.Programs) != 1 {
		t.Fatalf("parsed %d channels, %d programmes", len(parsed.Channels), len(parsed.Programs))
	}
}
