// SPDX-License-Identifier: MIT

// Package mirror enforces per-run stream URL uniqueness and labels repeated
// titles with mirror ordinals.
package mirror

import (
	"fmt"
	"sync"
)

// Tracker holds the run-lifetime URL set and per-title counters.
// It is safe for concurrent use; each registration is one critical section.
type Tracker struct {
	mu     sync.Mutex
	seen   map[string]struct{}
	titles map[string]int
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		seen:   make(map[string]struct{}),
		titles: make(map[string]int),
	}
}

// Register records url for title. It returns isNew=false when url was already
// registered this run; the caller must then drop the entry. For new URLs the
// suffix is empty on the first occurrence of title and "(Mirror N)" for the
// N-th later occurrence.
func (t *Tracker) Register(title, url string) (isNew bool, suffix string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, dup := t.seen[url]; dup {
		return false, ""
	}
	t.seen[url] = struct{}{}

	n := t.titles[title]
	t.titles[title] = n + 1
	if n == 0 {
		return true, ""
	}
	return true, fmt.Sprintf("(Mirror %d)", n)
}

// Seen reports whether url has been registered.
func (t *Tracker) Seen(url string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.seen[url]
	return ok
}

// Len returns the number of distinct URLs registered.
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.seen)
}
