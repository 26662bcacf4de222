// SPDX-License-Identifier: MIT

// Package domain holds the event model shared by the event sources, the
// resolver and the playlist assembler.
package domain

import (
	"strings"
	"time"
)

// ProviderEmbed marks a Source whose ID is an embed-page URL rather than an
// opaque provider id. Page-scan event sources emit it.
const ProviderEmbed = "embed"

// Source identifies one candidate feed for a Match.
type Source struct {
	Provider string `json:"source"`
	ID       string `json:"id"`
}

// Valid reports whether the source carries enough information to be attempted.
func (s Source) Valid() bool {
	return strings.TrimSpace(s.Provider) != "" && strings.TrimSpace(s.ID) != ""
}

// Key is the identity used to memoise resolutions within a run.
func (s Source) Key() string {
	return strings.ToLower(strings.TrimSpace(s.Provider)) + "/" + strings.TrimSpace(s.ID)
}

// IsEmbed reports whether the source ID is itself an embed page.
func (s Source) IsEmbed() bool {
	return strings.EqualFold(s.Provider, ProviderEmbed)
}

// Match is one live or scheduled sporting event.
type Match struct {
	Title    string
	Category string
	Poster   string     // absolute URL, already joined against the poster base
	Start    *time.Time // nil when the event source did not provide a start time
	Sources  []Source
}

// AttemptableSources returns the sources that pass Source.Valid, in order.
func (m Match) AttemptableSources() []Source {
	out := make([]Source, 0, len(m.Sources))
	for _, s := range m.Sources {
		if s.Valid() {
			out = append(out, s)
		}
	}
	return out
}
