// SPDX-License-Identifier: MIT

// Package timewindow filters events by their start time relative to now.
package timewindow

import "time"

const (
	DefaultHorizon = 24 * time.Hour
	DefaultGrace   = 4 * time.Hour
)

// Window includes events starting no later than Horizon from now and no
// earlier than Grace before now. Zero values fall back to the defaults.
type Window struct {
	Horizon time.Duration
	Grace   time.Duration
}

// Default returns a Window with the default horizon and grace period.
func Default() Window {
	return Window{Horizon: DefaultHorizon, Grace: DefaultGrace}
}

// Includes reports whether an event starting at start should be kept.
// A nil start is always included.
func (w Window) Includes(start *time.Time, now time.Time) bool {
	if start == nil {
		return true
	}
	horizon := w.Horizon
	if horizon <= 0 {
		horizon = DefaultHorizon
	}
	grace := w.Grace
	if grace <= 0 {
		grace = DefaultGrace
	}
	if start.After(now.Add(horizon)) {
		return false
	}
	if start.Before(now.Add(-grace)) {
		return false
	}
	return true
}

// FromEpochMillis converts an optional epoch-millis timestamp. Zero or
// negative values are treated as absent.
func FromEpochMillis(ms int64) *time.Time {
	if ms <= 0 {
		return nil
	}
	t := time.UnixMilli(ms).UTC()
	return &t
}
