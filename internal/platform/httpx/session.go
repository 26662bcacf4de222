package httpx

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultUserAgent mimics a desktop browser; several upstreams refuse
// requests from obvious non-browser clients.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// maxBodyBytes bounds how much of an upstream response is read into memory.
const maxBodyBytes = 8 << 20

// Headers are applied to every request issued through a Session unless the
// request already sets them.
type Headers struct {
	UserAgent string
	Referer   string
	Origin    string
	Accept    string
}

// Session is the run-owned HTTP configuration: one client plus the header
// set every upstream call carries. It replaces process-global session state.
type Session struct {
	client  *http.Client
	headers Headers
}

// NewSession builds a Session with its own client and transport.
func NewSession(timeout time.Duration, headers Headers) *Session {
	if headers.UserAgent == "" {
		headers.UserAgent = DefaultUserAgent
	}
	c := NewClient(timeout)
	c.Transport = instrument(&headerTransport{base: c.Transport, headers: headers})
	return &Session{client: c, headers: headers}
}

// NewSessionWithClient wraps an existing client. Tests use it with
// httptest.Server clients.
func NewSessionWithClient(c *http.Client, headers Headers) *Session {
	if headers.UserAgent == "" {
		headers.UserAgent = DefaultUserAgent
	}
	base := c.Transport
	if base == nil {
		base = newTransport(c.Timeout)
	}
	wrapped := *c
	wrapped.Transport = &headerTransport{base: base, headers: headers}
	return &Session{client: &wrapped, headers: headers}
}

// Client exposes the underlying client.
func (s *Session) Client() *http.Client { return s.client }

// Headers returns the header set applied by the session.
func (s *Session) Headers() Headers { return s.headers }

// Do sends req through the session client.
func (s *Session) Do(req *http.Request) (*http.Response, error) {
	return s.client.Do(req)
}

// GetBody issues a GET and returns the status code and at most maxBodyBytes
// of the response body. A non-2xx status is not an error here; callers decide.
func (s *Session) GetBody(ctx context.Context, rawURL string, accept string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	res, err := s.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer func() { _ = res.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(res.Body, maxBodyBytes))
	if err != nil {
		return res.StatusCode, nil, fmt.Errorf("read body: %w", err)
	}
	return res.StatusCode, body, nil
}

type headerTransport struct {
	base    http.RoundTripper
	headers Headers
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	setDefault(r.Header, "User-Agent", t.headers.UserAgent)
	setDefault(r.Header, "Referer", t.headers.Referer)
	setDefault(r.Header, "Origin", t.headers.Origin)
	setDefault(r.Header, "Accept", t.headers.Accept)
	return t.base.RoundTrip(r)
}

func setDefault(h http.Header, key, value string) {
	if value == "" || h.Get(key) != "" {
		return
	}
	h.Set(key, value)
}
