// SPDX-License-Identifier: MIT

package events

import (
	"bytes"
	"context"
	"net/url"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/ManuGH/matchcast/internal/domain"
	xlog "github.com/ManuGH/matchcast/internal/log"
	"github.com/ManuGH/matchcast/internal/platform/httpx"
	xnet "github.com/ManuGH/matchcast/internal/platform/net"
)

// DefaultLinkContains selects event links on section pages.
var DefaultLinkContains = []string{"/stream/"}

// PinnedPage is an event page that is always included, whatever the
// section pages list.
type PinnedPage struct {
	URL      string `yaml:"url"`
	Title    string `yaml:"title"`
	Category string `yaml:"category"`
}

// PageScan discovers matches by scanning HTML section pages for event links.
// Every link becomes a Match with a single embed Source.
type PageScan struct {
	Sections     []string
	LinkContains []string
	Pinned       []PinnedPage
	Session      *httpx.Session
}

func (p *PageScan) Fetch(ctx context.Context) ([]domain.Match, error) {
	logger := xlog.WithComponentFromContext(ctx, "events")

	contains := p.LinkContains
	if len(contains) == 0 {
		contains = DefaultLinkContains
	}

	seen := make(map[string]bool)
	var out []domain.Match
	add := func(link, title, category string) {
		if seen[link] {
			return
		}
		seen[link] = true
		if title == "" {
			title = DefaultTitle
		}
		out = append(out, domain.Match{
			Title:    title,
			Category: category,
			Sources:  []domain.Source{{Provider: domain.ProviderEmbed, ID: link}},
		})
	}

	for _, pin := range p.Pinned {
		if u, ok := xnet.ParseDirectHTTPURL(pin.URL); ok {
			add(u.String(), strings.TrimSpace(pin.Title), pin.Category)
		}
	}

	failed := 0
	for _, section := range p.Sections {
		status, body, err := p.Session.GetBody(ctx, section, "text/html,*/*")
		if err == nil && (status < 200 || status > 299) {
			err = unavailable("HTTP %d", status)
		}
		if err != nil {
			failed++
			logger.Warn().
				Str(xlog.FieldEvent, "events.section_failed").
				Str(xlog.FieldURL, xnet.SanitizeURL(section)).
				Err(err).
				Msg("section page unavailable")
			continue
		}

		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
		if err != nil {
			failed++
			continue
		}
		category := sectionCategory(section)
		doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
			href, _ := sel.Attr("href")
			if !containsAny(href, contains) {
				return
			}
			link := xnet.Resolve(section, href)
			if _, ok := xnet.ParseDirectHTTPURL(link); !ok {
				return
			}
			add(link, strings.Join(strings.Fields(sel.Text()), " "), category)
		})
	}

	if len(p.Sections) > 0 && failed == len(p.Sections) && len(p.Pinned) == 0 {
		return nil, unavailable("all %d section pages failed", failed)
	}

	logger.Info().
		Str(xlog.FieldEvent, "events.scanned").
		Int("sections", len(p.Sections)).
		Int("matches", len(out)).
		Msg("section pages scanned")
	return out, nil
}

// sectionCategory uses the last path segment of a section URL ("/nfl" → "nfl").
func sectionCategory(section string) string {
	u, err := url.Parse(section)
	if err != nil {
		return ""
	}
	base := path.Base(strings.TrimRight(u.Path, "/"))
	if base == "." || base == "/" {
		return ""
	}
	return base
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if sub != "" && strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
