// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldService   = "service"
	FieldVersion   = "version"
	FieldComponent = "component"
	FieldRunID     = "run_id"
	FieldEvent     = "event"

	// Pipeline fields
	FieldMatch    = "match"
	FieldProvider = "provider"
	FieldSourceID = "source_id"
	FieldStrategy = "strategy"
	FieldReason   = "reason"

	// Path / URL fields
	FieldURL      = "url"
	FieldEmbedURL = "embed_url"
	FieldPath     = "path"
)
