// SPDX-License-Identifier: MIT

package playlist

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultGroup is used when a match has no category and no profile applies.
const DefaultGroup = "Sports"

// NormalizeCategory turns an upstream category slug into a display group:
// hyphens and underscores become spaces and each word is title-cased.
func NormalizeCategory(category string) string {
	s := strings.NewReplacer("-", " ", "_", " ").Replace(category)
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return ""
	}
	// Casers are stateful; one per call keeps this safe for concurrent use.
	return cases.Title(language.English).String(s)
}

// Profile maps a keyword found in a match's category or title to guide and
// presentation metadata.
type Profile struct {
	Keyword string `yaml:"keyword"`
	TvgID   string `yaml:"tvg_id"`
	Logo    string `yaml:"logo"`
	Group   string `yaml:"group"`
}

// Profiles is an ordered keyword table; the first keyword contained in the
// lower-cased category+title (plus any hints, such as the event page URL)
// wins.
type Profiles struct {
	List     []Profile `yaml:"list"`
	Fallback *Profile  `yaml:"fallback"`
}

// Lookup returns the profile for a match and whether one (including the
// fallback) applied.
func (p Profiles) Lookup(category, title string, hints ...string) (Profile, bool) {
	haystack := strings.ToLower(strings.Join(append([]string{category, title}, hints...), " "))
	for _, prof := range p.List {
		kw := strings.ToLower(strings.TrimSpace(prof.Keyword))
		if kw != "" && strings.Contains(haystack, kw) {
			return prof, true
		}
	}
	if p.Fallback != nil {
		return *p.Fallback, true
	}
	return Profile{}, false
}
