// SPDX-License-Identifier: MIT

package timewindow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func at(t time.Time) *time.Time { return &t }

func TestWindow_Includes(t *testing.T) {
	now := time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)
	w := Default()

	tests := []struct {
		name  string
		start *time.Time
		want  bool
	}{
		{"absent start always included", nil, true},
		{"five hours ago excluded", at(now.Add(-5 * time.Hour)), false},
		{"three hours ago included", at(now.Add(-3 * time.Hour)), true},
		{"exactly at grace boundary included", at(now.Add(-4 * time.Hour)), true},
		{"in 23 hours included", at(now.Add(23 * time.Hour)), true},
		{"in 25 hours excluded", at(now.Add(25 * time.Hour)), false},
		{"now included", at(now), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, w.Includes(tt.start, now))
		})
	}
}

func TestWindow_CustomBounds(t *testing.T) {
	now := time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)
	w := Window{Horizon: time.Hour, Grace: 30 * time.Minute}

	assert.False(t, w.Includes(at(now.Add(2*time.Hour)), now))
	assert.False(t, w.Includes(at(now.Add(-time.Hour)), now))
	assert.True(t, w.Includes(at(now.Add(-15*time.Minute)), now))
}

func TestWindow_ZeroValueUsesDefaults(t *testing.T) {
	now := time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)
	var w Window
	assert.True(t, w.Includes(at(now.Add(23*time.Hour)), now))
	assert.False(t, w.Includes(at(now.Add(-5*time.Hour)), now))
}

func TestFromEpochMillis(t *testing.T) {
	assert.Nil(t, FromEpochMillis(0))
	assert.Nil(t, FromEpochMillis(-1))

	got := FromEpochMillis(1767225600000)
	if assert.NotNil(t, got) {
		assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), *got)
	}
}
