// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package resilience

import (
	"context"
	"errors"
	"sync"
	"time"
)

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// Hosts hands out one CircuitBreaker per upstream host, created on first use.
// A nil *Hosts executes everything unguarded.
type Hosts struct {
	mu           sync.Mutex
	breakers     map[string]*CircuitBreaker
	threshold    int
	resetTimeout time.Duration
	opts         []Option
}

// NewHosts returns a per-host breaker group. threshold <= 0 disables
// breaking and NewHosts returns nil.
func NewHosts(threshold int, resetTimeout time.Duration, opts ...Option) *Hosts {
	if threshold <= 0 {
		return nil
	}
	return &Hosts{
		breakers:     make(map[string]*CircuitBreaker),
		threshold:    threshold,
		resetTimeout: resetTimeout,
		opts:         opts,
	}
}

// For returns the breaker for host.
func (h *Hosts) For(host string) *CircuitBreaker {
	h.mu.Lock()
	defer h.mu.Unlock()
	cb, ok := h.breakers[host]
	if !ok {
		cb = NewCircuitBreaker(host, h.threshold, h.resetTimeout, h.opts...)
		h.breakers[host] = cb
	}
	return cb
}

// Execute runs fn through the breaker for host.
func (h *Hosts) Execute(host string, fn func() error) error {
	if h == nil || host == "" {
		return fn()
	}
	return h.For(host).Execute(fn)
}
