// SPDX-License-Identifier: MIT

package epg

import (
	"regexp"
	"strings"
)

var (
	idDisallowed = regexp.MustCompile(`[^\p{L}\p{N}\s.\-_]`)
	idSeparators = regexp.MustCompile(`[\s.\-_]+`)
)

// ChannelID creates a stable guide identifier from a channel display name:
// lower-cased, punctuation dropped, separators collapsed to single dots.
// "Team A vs Team B (ALPHA) (Mirror 1)" becomes "team.a.vs.team.b.alpha.mirror.1".
func ChannelID(name string) string {
	cleaned := idDisallowed.ReplaceAllString(strings.ToLower(name), "")
	normalized := idSeparators.ReplaceAllString(cleaned, ".")
	return strings.Trim(normalized, ".")
}
