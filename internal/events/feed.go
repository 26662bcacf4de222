// SPDX-License-Identifier: MIT

package events

import (
	"context"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/ManuGH/matchcast/internal/domain"
	xlog "github.com/ManuGH/matchcast/internal/log"
	"github.com/ManuGH/matchcast/internal/platform/httpx"
	xnet "github.com/ManuGH/matchcast/internal/platform/net"
)

// HTTPFeed reads a JSON match list over HTTP. A cache-busting t=<unix>
// query parameter is added to every request.
type HTTPFeed struct {
	URL        string
	PosterBase string
	Session    *httpx.Session
	now        func() time.Time
}

// NewHTTPFeed returns an HTTP event source.
func NewHTTPFeed(feedURL, posterBase string, session *httpx.Session) *HTTPFeed {
	return &HTTPFeed{URL: feedURL, PosterBase: posterBase, Session: session, now: time.Now}
}

func (f *HTTPFeed) Fetch(ctx context.Context) ([]domain.Match, error) {
	logger := xlog.WithComponentFromContext(ctx, "events")

	target, err := f.requestURL()
	if err != nil {
		return nil, unavailable("feed url: %v", err)
	}

	status, body, err := f.Session.GetBody(ctx, target, "application/json")
	if err != nil {
		return nil, unavailable("fetch %s: %v", xnet.SanitizeURL(f.URL), err)
	}
	if status < 200 || status > 299 {
		return nil, unavailable("fetch %s: HTTP %d", xnet.SanitizeURL(f.URL), status)
	}

	matches, err := decodeMatches(body, f.PosterBase)
	if err != nil {
		return nil, unavailable("%v", err)
	}

	logger.Info().
		Str(xlog.FieldEvent, "events.fetched").
		Str(xlog.FieldURL, xnet.SanitizeURL(f.URL)).
		Int("matches", len(matches)).
		Msg("event list fetched")
	return matches, nil
}

func (f *HTTPFeed) requestURL() (string, error) {
	u, err := url.Parse(f.URL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("t", strconv.FormatInt(f.now().Unix(), 10))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// FileFeed reads a JSON match list from a local file.
type FileFeed struct {
	Path       string
	PosterBase string
}

func (f *FileFeed) Fetch(ctx context.Context) ([]domain.Match, error) {
	body, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, unavailable("read %s: %v", f.Path, err)
	}
	matches, err := decodeMatches(body, f.PosterBase)
	if err != nil {
		return nil, unavailable("%v", err)
	}

	logger := xlog.WithComponentFromContext(ctx, "events")
	logger.Info().
		Str(xlog.FieldEvent, "events.fetched").
		Str(xlog.FieldPath, f.Path).
		Int("matches", len(matches)).
		Msg("event list loaded")
	return matches, nil
}
