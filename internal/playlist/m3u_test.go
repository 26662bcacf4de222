// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// SPDX-License-Identifier: MIT

package playlist

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ManuGH/matchcast/internal/domain"
)

func TestWriteM3UTable(t *testing.T) {
	tests := []struct {
		name    string
		header  Header
		entries []Entry
		expect  []string
		reject  []string
	}{
		{
			name:   "full entry with guide header",
			header: Header{XTvgURL: "https://epg.example/guide.xml.gz"},
			entries: []Entry{{
				Name: "Team A vs Team B (ALPHA)", TvgID: "Soccer.Dummy.us", TvgName: "Team A vs Team B",
				Logo: "https://img.example/a.png", Group: "Soccer", URL: "https://cdn.example/a.m3u8",
			}},
			expect: []string{
				`#EXTM3U x-tvg-url="https://epg.example/guide.xml.gz"`,
				`tvg-id="Soccer.Dummy.us"`,
				`tvg-name="Team A vs Team B"`,
				`tvg-logo="https://img.example/a.png"`,
				`group-title="Soccer"`,
				",Team A vs Team B (ALPHA)\nhttps://cdn.example/a.m3u8\n",
			},
		},
		{
			name:    "empty ids are omitted, logo kept",
			entries: []Entry{{Name: "X", Group: "Sports", URL: "https://cdn.example/x.m3u8"}},
			expect:  []string{"#EXTM3U\n", `#EXTINF:-1 tvg-logo="" group-title="Sports",X`},
			reject:  []string{"tvg-id=", "tvg-name=", "x-tvg-url"},
		},
		{
			name:    "quotes and newlines are neutralised",
			entries: []Entry{{Name: "Line\nBreak", TvgName: `The "Big" Game`, Group: `A"B`, URL: "https://cdn.example/q.m3u8"}},
			expect:  []string{`tvg-name="The 'Big' Game"`, `group-title="A'B"`, ",Line Break\n"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var b strings.Builder
			if err := WriteM3U(&b, tc.header, tc.entries); err != nil {
				t.Fatalf("WriteM3U failed: %v", err)
			}
			out := b.String()
			for _, want := range tc.expect {
				if !strings.Contains(out, want) {
					t.Fatalf("missing substring %q\n--- output ---\n%s", want, out)
				}
			}
			for _, bad := range tc.reject {
				if strings.Contains(out, bad) {
					t.Fatalf("unexpected substring %q\n--- output ---\n%s", bad, out)
				}
			}
			if strings.Count(out, "#EXTINF:") != len(tc.entries) {
				t.Fatalf("expected %d EXTINF lines, got %d", len(tc.entries), strings.Count(out, "#EXTINF:"))
			}
		})
	}
}

func TestNormalizeCategory(t *testing.T) {
	tests := map[string]string{
		"american-football": "American Football",
		"motor_sports":      "Motor Sports",
		"  fight  ":         "Fight",
		"NBA":               "Nba",
		"":                  "",
	}
	for in, want := range tests {
		if got := NormalizeCategory(in); got != want {
			t.Errorf("NormalizeCategory(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestProfilesLookup(t *testing.T) {
	p := Profiles{
		List: []Profile{
			{Keyword: "ufc", TvgID: "UFC.Fight.Pass.Dummy.us", Group: "Combat Sports"},
			{Keyword: "soccer", TvgID: "Soccer.Dummy.us", Group: "Soccer"},
		},
	}

	got, ok := p.Lookup("fighting", "UFC 300: Main Card")
	if !ok || got.TvgID != "UFC.Fight.Pass.Dummy.us" {
		t.Fatalf("title keyword not matched: %+v %v", got, ok)
	}
	if _, ok := p.Lookup("tennis", "Final"); ok {
		t.Fatal("expected no profile without fallback")
	}

	got, ok = p.Lookup("", "Chiefs at Bills", "https://streams.example/nfl-streams-3")
	if ok {
		t.Fatalf("unexpected profile %+v", got)
	}
	p.List = append(p.List, Profile{Keyword: "nfl", TvgID: "Football.Dummy.us", Group: "Football"})
	got, ok = p.Lookup("", "Chiefs at Bills", "https://streams.example/nfl-streams-3")
	if !ok || got.Group != "Football" {
		t.Fatalf("url hint not matched: %+v %v", got, ok)
	}

	p.Fallback = &Profile{TvgID: "Sports.Rox.us", Group: "General Sports"}
	got, ok = p.Lookup("tennis", "Final")
	if !ok || got.Group != "General Sports" {
		t.Fatalf("fallback not applied: %+v", got)
	}
}

func TestAssemblerSerialize(t *testing.T) {
	a := NewAssembler(Header{}, Profiles{
		List: []Profile{{Keyword: "nfl", TvgID: "Football.Dummy.us", Logo: "https://logo.example/nfl.png", Group: "Football"}},
	})

	m := domain.Match{Title: "Team A vs Team B", Category: "american-football", Poster: "https://img.example/p.webp"}
	a.Append(a.EntryFor(m, domain.Source{Provider: "alpha", ID: "1"}, "https://cdn.example/a.m3u8", ""))
	a.Append(a.EntryFor(m, domain.Source{Provider: "bravo", ID: "2"}, "https://cdn.example/b.m3u8", "(Mirror 1)"))

	nfl := domain.Match{Title: "Chiefs vs Bills", Category: "nfl"}
	a.Append(a.EntryFor(nfl, domain.Source{Provider: domain.ProviderEmbed, ID: "https://site.example/stream/1"}, "https://cdn.example/c.m3u8", ""))

	want := strings.Join([]string{
		"#EXTM3U",
		`#EXTINF:-1 tvg-name="Team A vs Team B" tvg-logo="https://img.example/p.webp" group-title="American Football",Team A vs Team B (ALPHA)`,
		"https://cdn.example/a.m3u8",
		`#EXTINF:-1 tvg-name="Team A vs Team B" tvg-logo="https://img.example/p.webp" group-title="American Football",Team A vs Team B (BRAVO) (Mirror 1)`,
		"https://cdn.example/b.m3u8",
		`#EXTINF:-1 tvg-id="Football.Dummy.us" tvg-name="Chiefs vs Bills" tvg-logo="https://logo.example/nfl.png" group-title="Football",Chiefs vs Bills`,
		"https://cdn.example/c.m3u8",
		"",
	}, "\n")

	if diff := cmp.Diff(want, a.Serialize()); diff != "" {
		t.Errorf("Serialize() mismatch (-want +got):\n%s", diff)
	}
	if a.Len() != 3 {
		t.Errorf("Len() = %d, want 3", a.Len())
	}
}

func TestAssemblerDefaultGroup(t *testing.T) {
	a := NewAssembler(Header{}, Profiles{})
	e := a.EntryFor(domain.Match{Title: "X"}, domain.Source{Provider: "p", ID: "1"}, "https://cdn.example/x.m3u8", "")
	if e.Group != DefaultGroup {
		t.Errorf("Group = %q, want %q", e.Group, DefaultGroup)
	}
}

func TestAssemblerEmbedURLSelectsProfile(t *testing.T) {
	a := NewAssembler(Header{}, Profiles{
		List: []Profile{{Keyword: "nfl", TvgID: "Football.Dummy.us", Group: "Football"}},
	})

	m := domain.Match{Title: "Chiefs vs Bills"}
	e := a.EntryFor(m, domain.Source{Provider: domain.ProviderEmbed, ID: "https://site.example/nfl-streams-7"}, "https://cdn.example/c.m3u8", "")
	if e.TvgID != "Football.Dummy.us" || e.Group != "Football" {
		t.Errorf("embed url keyword ignored: %+v", e)
	}

	e = a.EntryFor(m, domain.Source{Provider: "nfl", ID: "7"}, "https://cdn.example/d.m3u8", "")
	if e.TvgID != "" || e.Group != DefaultGroup {
		t.Errorf("api source id should not be searched: %+v", e)
	}
}
