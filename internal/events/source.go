// SPDX-License-Identifier: MIT

// Package events fetches the raw list of matches from upstream feeds.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ManuGH/matchcast/internal/domain"
	xnet "github.com/ManuGH/matchcast/internal/platform/net"
	"github.com/ManuGH/matchcast/internal/timewindow"
)

// ErrSourceUnavailable means the event list could not be obtained at all.
// It is the only fatal error of a run.
var ErrSourceUnavailable = errors.New("event source unavailable")

// DefaultTitle names matches whose upstream title is blank.
const DefaultTitle = "Live Event"

// Source yields the matches of one run.
type Source interface {
	Fetch(ctx context.Context) ([]domain.Match, error)
}

// feedMatch is the upstream JSON shape of one match.
type feedMatch struct {
	Title    string          `json:"title"`
	Category string          `json:"category"`
	Poster   string          `json:"poster"`
	Date     *float64        `json:"date"`
	Sources  []domain.Source `json:"sources"`
}

// decodeMatches parses a JSON array of matches. Relative posters are joined
// against posterBase.
func decodeMatches(body []byte, posterBase string) ([]domain.Match, error) {
	var raw []feedMatch
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode event list: %w", err)
	}

	out := make([]domain.Match, 0, len(raw))
	for _, fm := range raw {
		m := domain.Match{
			Title:    strings.TrimSpace(fm.Title),
			Category: strings.TrimSpace(fm.Category),
			Sources:  fm.Sources,
		}
		if m.Title == "" {
			m.Title = DefaultTitle
		}
		if p := strings.TrimSpace(fm.Poster); p != "" {
			m.Poster = xnet.Resolve(posterBase, p)
		}
		if fm.Date != nil {
			m.Start = timewindow.FromEpochMillis(int64(*fm.Date))
		}
		out = append(out, m)
	}
	return out, nil
}

func unavailable(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrSourceUnavailable, fmt.Sprintf(format, args...))
}
