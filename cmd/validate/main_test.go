// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestValidateCLI runs the validator against config files written to a temp dir.
func TestValidateCLI(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.m3u")

	tests := []struct {
		name       string
		config     string
		args       func(path string) []string
		wantExit   int
		wantStdout string
		wantStderr string
	}{
		{
			name:       "valid minimal config",
			config:     "events:\n  feedFile: matches.json\nresolver:\n  strategies: [scrape]\nplaylist:\n  path: " + out + "\n",
			wantExit:   0,
			wantStdout: "is valid",
		},
		{
			name:       "invalid unknown key",
			config:     "events:\n  feedFile: matches.json\n  feedFiles: nope\n",
			wantExit:   1,
			wantStderr: "unknown config field",
		},
		{
			name:       "invalid type mismatch",
			config:     "resolver:\n  concurrency: many\n",
			wantExit:   1,
			wantStderr: "Configuration error",
		},
		{
			name:       "direct strategy without api base",
			config:     "events:\n  feedFile: matches.json\nresolver:\n  strategies: [direct]\n",
			wantExit:   1,
			wantStderr: "Resolver.APIBase",
		},
		{
			name:       "missing file flag",
			args:       func(string) []string { return nil },
			wantExit:   2,
			wantStderr: "--file is required",
		},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, "config-"+string(rune('a'+i))+".yaml")
			if tt.config != "" {
				if err := os.WriteFile(path, []byte(tt.config), 0o600); err != nil {
					t.Fatal(err)
				}
			}
			args := []string{"-f", path}
			if tt.args != nil {
				args = tt.args(path)
			}

			var stdout, stderr bytes.Buffer
			code := run(args, &stdout, &stderr)

			assert.Equal(t, tt.wantExit, code, "stderr: %s", stderr.String())
			if tt.wantStdout != "" {
				assert.Contains(t, stdout.String(), tt.wantStdout)
			}
			if tt.wantStderr != "" {
				assert.Contains(t, stderr.String(), tt.wantStderr)
			}
		})
	}
}
