// SPDX-License-Identifier: MIT

package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Common attribute keys for consistent tracing across the application.
const (
	RunIDKey = "run.id"

	MatchTitleKey    = "match.title"
	MatchCategoryKey = "match.category"

	SourceProviderKey = "source.provider"
	SourceIDKey       = "source.id"

	ResolveStrategyKey = "resolve.strategy"
	ResolveReasonKey   = "resolve.reason"

	RunMatchesKey  = "run.matches"
	RunChannelsKey = "run.channels"

	// Error attributes
	ErrorKey     = "error"
	ErrorTypeKey = "error.type"
)

// SourceAttributes creates span attributes for one match source attempt.
func SourceAttributes(title, provider, id string) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, 3)
	if title != "" {
		attrs = append(attrs, attribute.String(MatchTitleKey, title))
	}
	if provider != "" {
		attrs = append(attrs, attribute.String(SourceProviderKey, provider))
	}
	if id != "" {
		attrs = append(attrs, attribute.String(SourceIDKey, id))
	}
	return attrs
}

// ResultAttributes records how a resolution ended.
func ResultAttributes(strategy, reason string) []attribute.KeyValue {
	attrs := []attribute.KeyValue{attribute.String(ResolveReasonKey, reason)}
	if strategy != "" {
		attrs = append(attrs, attribute.String(ResolveStrategyKey, strategy))
	}
	return attrs
}

// RunAttributes creates run-level span attributes.
func RunAttributes(runID string, matches, channels int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(RunIDKey, runID),
		attribute.Int(RunMatchesKey, matches),
		attribute.Int(RunChannelsKey, channels),
	}
}

// ErrorAttributes creates error-related span attributes.
func ErrorAttributes(_ error, errorType string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Bool(ErrorKey, true),
		attribute.String(ErrorTypeKey, errorType),
	}
}
