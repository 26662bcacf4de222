// SPDX-License-Identifier: MIT

package resolve

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/ManuGH/matchcast/internal/platform/httpx"
	"github.com/ManuGH/matchcast/internal/ratelimit"
)

// DefaultProbeTimeout bounds a single liveness request.
const DefaultProbeTimeout = 3 * time.Second

// Prober checks that a resolved manifest URL actually answers.
type Prober struct {
	session *httpx.Session
	limiter *ratelimit.Limiter
	timeout time.Duration
}

// NewProber returns a liveness prober. limiter may be nil.
func NewProber(session *httpx.Session, limiter *ratelimit.Limiter, timeout time.Duration) *Prober {
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	return &Prober{session: session, limiter: limiter, timeout: timeout}
}

// Alive sends HEAD, falling back to a ranged GET for servers that reject
// HEAD. 2xx and 3xx count as live.
func (p *Prober) Alive(ctx context.Context, rawURL string) bool {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if err := p.limiter.Wait(ctx, rawURL); err != nil {
		return false
	}

	status, err := p.do(ctx, http.MethodHead, rawURL)
	if err != nil {
		return false
	}
	if status == http.StatusMethodNotAllowed || status == http.StatusNotImplemented {
		status, err = p.do(ctx, http.MethodGet, rawURL)
		if err != nil {
			return false
		}
	}
	return status >= 200 && status < 400
}

func (p *Prober) do(ctx context.Context, method, rawURL string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return 0, err
	}
	if method == http.MethodGet {
		req.Header.Set("Range", "bytes=0-1023")
	}
	res, err := p.session.Do(req)
	if err != nil {
		return 0, err
	}
	defer func() { _ = res.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, 1024))
	return res.StatusCode, nil
}
