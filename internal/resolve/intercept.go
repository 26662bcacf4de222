// SPDX-License-Identifier: MIT

package resolve

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// DefaultInterceptTimeout bounds one headless page load.
const DefaultInterceptTimeout = 12 * time.Second

// Renderer loads a page in a real browser and returns the first outgoing
// request URL accepted by match.
type Renderer interface {
	Capture(ctx context.Context, pageURL string, match func(string) bool) (string, error)
}

// Intercept loads the embed page headlessly and watches its network traffic.
// It is the most expensive strategy and belongs at the end of the chain.
type Intercept struct {
	renderer Renderer
	timeout  time.Duration
}

// NewIntercept returns the browser interception strategy.
func NewIntercept(r Renderer, timeout time.Duration) *Intercept {
	if timeout <= 0 {
		timeout = DefaultInterceptTimeout
	}
	return &Intercept{renderer: r, timeout: timeout}
}

func (i *Intercept) Name() string { return StrategyIntercept }

func (i *Intercept) Resolve(ctx context.Context, a Attempt) Candidate {
	if a.EmbedURL == "" {
		return Failed(ErrNoEmbed)
	}
	if i.renderer == nil {
		return Failed(fmt.Errorf("%w: no browser", ErrNotApplicable))
	}

	ctx, cancel := context.WithTimeout(ctx, i.timeout)
	defer cancel()

	u, err := i.renderer.Capture(ctx, a.EmbedURL, IsManifest)
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return Failed(fmt.Errorf("%w: nothing captured within %s", ErrNoMatch, i.timeout))
	case err != nil:
		return Failed(err)
	case u == "":
		return Failed(ErrNoMatch)
	}
	return Found(u)
}
