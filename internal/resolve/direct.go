// SPDX-License-Identifier: MIT

package resolve

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	xnet "github.com/ManuGH/matchcast/internal/platform/net"
)

// directFields are checked in order on the first response object.
var directFields = []string{"url", "link", "embedUrl"}

// Direct asks the provider API for the stream of a Source:
// GET {base}/{provider}/{id}?t=<unix seconds>. Anything but 200 fails.
type Direct struct {
	base  string
	fetch *Fetcher
	now   func() time.Time
}

// NewDirect returns the direct API strategy.
func NewDirect(apiBase string, fetch *Fetcher) *Direct {
	return &Direct{
		base:  strings.TrimRight(apiBase, "/"),
		fetch: fetch,
		now:   time.Now,
	}
}

func (d *Direct) Name() string { return StrategyDirect }

func (d *Direct) Resolve(ctx context.Context, a Attempt) Candidate {
	if a.Source.IsEmbed() {
		return Failed(ErrNotApplicable)
	}

	body, err := d.fetch.GetOK(ctx, d.endpoint(a), "application/json")
	if err != nil {
		return Failed(err)
	}

	value, err := pickField(body)
	if err != nil {
		return Failed(err)
	}

	switch {
	case IsManifest(value):
		return Found(value)
	default:
		if u, ok := xnet.ParseDirectHTTPURL(value); ok {
			return EmbedPage(u.String())
		}
		return Failed(fmt.Errorf("%w: field value %q", ErrNotManifest, value))
	}
}

func (d *Direct) endpoint(a Attempt) string {
	return fmt.Sprintf("%s/%s/%s?t=%s",
		d.base,
		url.PathEscape(strings.TrimSpace(a.Source.Provider)),
		url.PathEscape(strings.TrimSpace(a.Source.ID)),
		strconv.FormatInt(d.now().Unix(), 10),
	)
}

// pickField accepts a JSON object or a non-empty array of objects and
// returns the first non-empty string among directFields.
func pickField(body []byte) (string, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return "", fmt.Errorf("decode response: empty body")
	}

	var obj map[string]any
	if body[0] == '[' {
		var arr []map[string]any
		if err := json.Unmarshal(body, &arr); err != nil {
			return "", fmt.Errorf("decode response: %w", err)
		}
		if len(arr) == 0 {
			return "", fmt.Errorf("%w: empty array", ErrNoMatch)
		}
		obj = arr[0]
	} else if err := json.Unmarshal(body, &obj); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	for _, field := range directFields {
		if s, ok := obj[field].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s), nil
		}
	}
	return "", fmt.Errorf("%w: none of %v present", ErrNoMatch, directFields)
}
