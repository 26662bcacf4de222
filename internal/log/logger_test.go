// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package log

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	return out
}

func TestConfigure_AttachesServiceAndComponent(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Level: "debug", Output: &buf, Service: "test-svc", Version: "v0.0.1"})
	t.Cleanup(func() { Configure(Config{}) })

	l := WithComponent("resolve")
	l.Info().Str(FieldEvent, "resolve.ok").Msg("resolved")

	got := decodeLine(t, &buf)
	assert.Equal(t, "test-svc", got[FieldService])
	assert.Equal(t, "v0.0.1", got[FieldVersion])
	assert.Equal(t, "resolve", got[FieldComponent])
	assert.Equal(t, "resolve.ok", got[FieldEvent])
}

func TestWithContext_AddsCorrelationFields(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Output: &buf})
	t.Cleanup(func() { Configure(Config{}) })

	ctx := ContextWithRunID(context.Background(), "run-123")
	ctx = ContextWithMatch(ctx, "Team A vs Team B")

	l := WithComponentFromContext(ctx, "jobs")
	l.Info().Msg("hello")

	got := decodeLine(t, &buf)
	assert.Equal(t, "run-123", got[FieldRunID])
	assert.Equal(t, "Team A vs Team B", got[FieldMatch])
	assert.Equal(t, "jobs", got[FieldComponent])
}

func TestContextAccessors_NilSafe(t *testing.T) {
	//nolint:staticcheck // nil context is handled explicitly
	assert.Equal(t, "", RunIDFromContext(nil))
	//nolint:staticcheck
	assert.Equal(t, "", MatchFromContext(nil))
	assert.Equal(t, "", RunIDFromContext(context.Background()))
}
