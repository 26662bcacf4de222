// SPDX-License-Identifier: MIT

package resolve

import (
	"context"
	"net/http"

	"github.com/ManuGH/matchcast/internal/platform/httpx"
	xnet "github.com/ManuGH/matchcast/internal/platform/net"
	"github.com/ManuGH/matchcast/internal/ratelimit"
	"github.com/ManuGH/matchcast/internal/resilience"
)

// Fetcher performs the GETs issued by strategies. Requests are paced per
// host and short-circuited by a per-host breaker once a host keeps failing.
type Fetcher struct {
	session  *httpx.Session
	limiter  *ratelimit.Limiter
	breakers *resilience.Hosts
}

// NewFetcher wires a session with optional limiter and breakers (either may be nil).
func NewFetcher(session *httpx.Session, limiter *ratelimit.Limiter, breakers *resilience.Hosts) *Fetcher {
	return &Fetcher{session: session, limiter: limiter, breakers: breakers}
}

// Get returns the body of a 2xx response. Other statuses are *StatusError.
// Only transport errors and 5xx responses count against the host breaker.
func (f *Fetcher) Get(ctx context.Context, rawURL, accept string) ([]byte, error) {
	return f.get(ctx, rawURL, accept, func(status int) bool { return status >= 200 && status <= 299 })
}

// GetOK is Get restricted to 200 OK.
func (f *Fetcher) GetOK(ctx context.Context, rawURL, accept string) ([]byte, error) {
	return f.get(ctx, rawURL, accept, func(status int) bool { return status == http.StatusOK })
}

func (f *Fetcher) get(ctx context.Context, rawURL, accept string, accepted func(int) bool) ([]byte, error) {
	if err := f.limiter.Wait(ctx, rawURL); err != nil {
		return nil, err
	}

	var (
		status int
		body   []byte
	)
	err := f.breakers.Execute(xnet.Host(rawURL), func() error {
		var err error
		status, body, err = f.session.GetBody(ctx, rawURL, accept)
		if err != nil {
			return err
		}
		if status >= 500 {
			return &StatusError{URL: xnet.SanitizeURL(rawURL), Code: status}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !accepted(status) {
		return nil, &StatusError{URL: xnet.SanitizeURL(rawURL), Code: status}
	}
	return body, nil
}

// Session returns the underlying HTTP session.
func (f *Fetcher) Session() *httpx.Session { return f.session }

// Limiter returns the outbound rate limiter, possibly nil.
func (f *Fetcher) Limiter() *ratelimit.Limiter { return f.limiter }
