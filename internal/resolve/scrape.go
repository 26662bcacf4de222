// SPDX-License-Identifier: MIT

package resolve

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	xnet "github.com/ManuGH/matchcast/internal/platform/net"
)

// DefaultPatterns are tried in order against an embed page body. The first
// capture group (or the whole match) is the candidate URL.
var DefaultPatterns = []string{
	`(?i)(?:source|file|src)\s*[:=]\s*["']([^"']+?\.(?:m3u8|mpd)[^"']*)["']`,
	`(?i)hls\.loadSource\(\s*["']([^"']+)["']`,
	`(?i)["'](https?:(?:\\?/){2}[^"'\s]+?\.(?:m3u8|mpd)[^"'\s]*)["']`,
	`(?i)(https?://[^\s"'<>\\]+?\.(?:m3u8|mpd)[^\s"'<>\\]*)`,
}

// DefaultMaxFrames bounds how many nested player pages one scrape follows.
const DefaultMaxFrames = 3

// frameSelector finds nested player documents worth a second look.
const frameSelector = "iframe[src], embed[src], source[src], a[href]"

// CompilePatterns compiles extractor patterns in order.
func CompilePatterns(patterns []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for i, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("pattern %d: %w", i, err)
		}
		out = append(out, re)
	}
	return out, nil
}

// Scrape fetches the embed page and pulls a manifest URL out of its raw text.
// If the page itself has none, player frames linked from it are tried once.
type Scrape struct {
	fetch     *Fetcher
	patterns  []*regexp.Regexp
	maxFrames int
}

// NewScrape returns the embed-page scrape strategy. A nil patterns slice
// selects DefaultPatterns; maxFrames < 0 disables frame following.
func NewScrape(fetch *Fetcher, patterns []*regexp.Regexp, maxFrames int) *Scrape {
	if patterns == nil {
		patterns, _ = CompilePatterns(DefaultPatterns)
	}
	return &Scrape{fetch: fetch, patterns: patterns, maxFrames: maxFrames}
}

func (s *Scrape) Name() string { return StrategyScrape }

func (s *Scrape) Resolve(ctx context.Context, a Attempt) Candidate {
	if a.EmbedURL == "" {
		return Failed(ErrNoEmbed)
	}

	body, err := s.fetch.Get(ctx, a.EmbedURL, "text/html,*/*")
	if err != nil {
		return Failed(err)
	}
	if u := s.extract(a.EmbedURL, body); u != "" {
		return Found(u)
	}

	for _, frame := range frameLinks(a.EmbedURL, body, s.maxFrames) {
		if ctx.Err() != nil {
			return Failed(ctx.Err())
		}
		fbody, err := s.fetch.Get(ctx, frame, "text/html,*/*")
		if err != nil {
			continue
		}
		if u := s.extract(frame, fbody); u != "" {
			return Found(u)
		}
	}
	return Failed(ErrNoMatch)
}

// extract returns the first manifest-shaped hit of the first pattern that has one.
func (s *Scrape) extract(pageURL string, body []byte) string {
	text := string(body)
	for _, re := range s.patterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			raw := m[0]
			if len(m) > 1 {
				raw = m[1]
			}
			u := xnet.Resolve(pageURL, unescapeSlashes(raw))
			if IsManifest(u) {
				return u
			}
		}
	}
	return ""
}

func unescapeSlashes(s string) string {
	return strings.ReplaceAll(s, `\/`, `/`)
}

// frameLinks lists absolute http(s) links to embed/player documents, in
// document order, without duplicates.
func frameLinks(pageURL string, body []byte, limit int) []string {
	if limit <= 0 {
		return nil
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil
	}

	seen := map[string]bool{pageURL: true}
	var out []string
	doc.Find(frameSelector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		ref, ok := sel.Attr("src")
		if !ok {
			ref, ok = sel.Attr("href")
		}
		if !ok {
			return true
		}
		lower := strings.ToLower(ref)
		if !strings.Contains(lower, "embed") && !strings.Contains(lower, "player") {
			return true
		}
		abs := xnet.Resolve(pageURL, ref)
		if _, ok := xnet.ParseDirectHTTPURL(abs); !ok || seen[abs] {
			return true
		}
		seen[abs] = true
		out = append(out, abs)
		return len(out) < limit
	})
	return out
}
