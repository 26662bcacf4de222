// SPDX-License-Identifier: MIT

package ratelimit

import (
	"context"
	"testing"
	"time"

	"golang.org/x/time/rate"
)

func TestLimiterPerHostBurst(t *testing.T) {
	limiter := New(Config{PerHostRate: 1, PerHostBurst: 3})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	// Burst of 3 passes immediately for the same host.
	for i := 0; i < 3; i++ {
		if err := limiter.Wait(ctx, "https://embed.example/e/1"); err != nil {
			t.Fatalf("request %d: unexpected error %v", i, err)
		}
	}

	// The fourth would need ~1s and must fail against the 50ms deadline.
	if err := limiter.Wait(ctx, "https://embed.example/e/2"); err == nil {
		t.Fatal("expected rate limit wait to exceed context deadline")
	}

	// A different host has its own bucket.
	if err := limiter.Wait(context.Background(), "https://other.example/x"); err != nil {
		t.Fatalf("other host: unexpected error %v", err)
	}
}

func TestLimiterGlobal(t *testing.T) {
	limiter := New(Config{GlobalRate: rate.Limit(1), GlobalBurst: 2})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	hosts := []string{"https://a.example", "https://b.example"}
	for _, h := range hosts {
		if err := limiter.Wait(ctx, h); err != nil {
			t.Fatalf("%s: unexpected error %v", h, err)
		}
	}
	if err := limiter.Wait(ctx, "https://c.example"); err == nil {
		t.Fatal("expected global limit to block")
	}
}

func TestLimiterDisabled(t *testing.T) {
	var nilLimiter *Limiter
	if err := nilLimiter.Wait(context.Background(), "https://a.example"); err != nil {
		t.Fatalf("nil limiter: %v", err)
	}

	limiter := New(Config{})
	for i := 0; i < 100; i++ {
		if err := limiter.Wait(context.Background(), "https://a.example"); err != nil {
			t.Fatalf("disabled limiter: %v", err)
		}
	}
}
