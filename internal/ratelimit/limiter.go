// SPDX-License-Identifier: MIT

package ratelimit

import (
	"context"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/time/rate"

	xnet "github.com/ManuGH/matchcast/internal/platform/net"
)

var (
	rateLimitWaits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "matchcast",
			Name:      "ratelimit_waits_total",
			Help:      "Outbound requests that had to wait for a rate limit token",
		},
		[]string{"limit_type"},
	)
)

// Config holds outbound rate limiting configuration.
type Config struct {
	// Global limit across all upstream hosts.
	GlobalRate  rate.Limit // requests per second; <= 0 disables
	GlobalBurst int

	// Per-host limit; protects a single embed host from a burst of sources.
	PerHostRate  rate.Limit // <= 0 disables
	PerHostBurst int
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		GlobalRate:   20,
		GlobalBurst:  40,
		PerHostRate:  5,
		PerHostBurst: 10,
	}
}

// Limiter paces outbound requests globally and per upstream host.
type Limiter struct {
	config Config

	global  *rate.Limiter
	perHost map[string]*rate.Limiter
	mu      sync.Mutex
}

// New creates a new rate limiter with the given config
func New(config Config) *Limiter {
	l := &Limiter{
		config:  config,
		perHost: make(map[string]*rate.Limiter),
	}
	if config.GlobalRate > 0 {
		l.global = rate.NewLimiter(config.GlobalRate, burst(config.GlobalBurst))
	}
	return l
}

// Wait blocks until a request to rawURL is allowed or ctx is done.
// A nil *Limiter never waits.
func (l *Limiter) Wait(ctx context.Context, rawURL string) error {
	if l == nil {
		return nil
	}
	if l.global != nil {
		if !l.global.Allow() {
			rateLimitWaits.WithLabelValues("global").Inc()
			if err := l.global.Wait(ctx); err != nil {
				return err
			}
		}
	}

	hostLimiter := l.hostLimiter(xnet.Host(rawURL))
	if hostLimiter == nil {
		return nil
	}
	if hostLimiter.Allow() {
		return nil
	}
	rateLimitWaits.WithLabelValues("per_host").Inc()
	return hostLimiter.Wait(ctx)
}

// hostLimiter returns the rate limiter for a specific host
func (l *Limiter) hostLimiter(host string) *rate.Limiter {
	if l.config.PerHostRate <= 0 || host == "" {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, exists := l.perHost[host]
	if !exists {
		limiter = rate.NewLimiter(l.config.PerHostRate, burst(l.config.PerHostBurst))
		l.perHost[host] = limiter
	}
	return limiter
}

func burst(b int) int {
	if b < 1 {
		return 1
	}
	return b
}
