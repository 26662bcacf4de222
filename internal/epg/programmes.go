// SPDX-License-Identifier: MIT

package epg

import (
	"time"
)

// DefaultProgrammeDuration is assumed for events, which carry no end time.
const DefaultProgrammeDuration = 3 * time.Hour

// Listing is one playlist entry as the guide sees it.
type Listing struct {
	ChannelID   string
	DisplayName string
	Logo        string
	Title       string
	Category    string
	Start       *time.Time
}

// Build assembles the guide: one channel per distinct channel id (first
// listing wins) and one programme per listing that has a start time.
func Build(listings []Listing, duration time.Duration) *TV {
	if duration <= 0 {
		duration = DefaultProgrammeDuration
	}

	tv := &TV{Generator: Generator, Channels: []Channel{}, Programs: []Programme{}}
	seen := make(map[string]bool, len(listings))
	for _, l := range listings {
		id := l.ChannelID
		if id == "" {
			id = ChannelID(l.DisplayName)
		}
		if id == "" {
			continue
		}

		if !seen[id] {
			seen[id] = true
			ch := Channel{ID: id, DisplayName: []string{l.DisplayName}}
			if l.Logo != "" {
				ch.Icon = &Icon{Src: l.Logo}
			}
			tv.Channels = append(tv.Channels, ch)
		}

		if l.Start == nil {
			continue
		}
		prog := Programme{
			Start:    formatXMLTVTime(*l.Start),
			Stop:     formatXMLTVTime(l.Start.Add(duration)),
			Channel:  id,
			Title:    Title{Value: l.Title},
			Category: l.Category,
		}
		if l.Logo != "" {
			prog.Icon = &Icon{Src: l.Logo}
		}
		tv.Programs = append(tv.Programs, prog)
	}
	return tv
}

// formatXMLTVTime formats time in XMLTV format: YYYYMMDDHHMMSS +ZZZZ
func formatXMLTVTime(t time.Time) string {
	return t.UTC().Format("20060102150405 -0700")
}
