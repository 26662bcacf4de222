// SPDX-License-Identifier: MIT

package resolve

import (
	"errors"
	"fmt"
)

// Reason tags why a Source did or did not produce a playable URL.
type Reason string

const (
	ReasonOK                Reason = "ok"
	ReasonStrategyFailed    Reason = "strategy_failed"
	ReasonUnresolved        Reason = "unresolved"
	ReasonDeadLink          Reason = "dead_link"
	ReasonDuplicate         Reason = "duplicate"
	ReasonSourceUnavailable Reason = "source_unavailable"
)

var (
	// ErrNotManifest is returned when a strategy produced a URL that does not
	// look like an HLS/DASH manifest.
	ErrNotManifest = errors.New("candidate is not a manifest url")
	// ErrNotApplicable means the strategy cannot work on this attempt and
	// was skipped rather than failed.
	ErrNotApplicable = errors.New("strategy not applicable")
	// ErrNoEmbed means the strategy needs an embed page and none is known.
	ErrNoEmbed = fmt.Errorf("%w: no embed page", ErrNotApplicable)
	// ErrNoMatch means the strategy ran but found nothing.
	ErrNoMatch = errors.New("no stream url found")
)

// StatusError reports a non-2xx upstream response.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream returned HTTP %d", e.Code)
}

// Failure records one strategy that did not produce a usable candidate.
type Failure struct {
	Strategy string
	Err      error
}

// Result is the outcome of resolving one Source.
type Result struct {
	URL      string
	Strategy string // strategy that produced URL
	Reason   Reason
	Failures []Failure
}

// OK reports whether the result carries a playable URL.
func (r Result) OK() bool { return r.Reason == ReasonOK && r.URL != "" }

// Candidate is what a single strategy hands back to the chain: a stream URL,
// an embed page for later strategies, or an error. Exactly one is set.
type Candidate struct {
	URL   string
	Embed string
	Err   error
}

// Found returns a candidate carrying a stream URL.
func Found(url string) Candidate { return Candidate{URL: url} }

// EmbedPage returns a candidate that hands an embed page to later strategies.
func EmbedPage(url string) Candidate { return Candidate{Embed: url} }

// Failed returns a failed candidate.
func Failed(err error) Candidate { return Candidate{Err: err} }
