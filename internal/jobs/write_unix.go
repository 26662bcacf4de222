// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// SPDX-License-Identifier: MIT

//go:build !windows

package jobs

import (
	"context"
	"fmt"
	"io"

	"github.com/google/renameio/v2"

	xlog "github.com/ManuGH/matchcast/internal/log"
)

// writeAtomic renders into a pending file and replaces path only when
// rendering succeeded. Readers never observe a partial file.
func writeAtomic(ctx context.Context, path, artifact string, render func(io.Writer) error) error {
	logger := xlog.WithComponentFromContext(ctx, "jobs")

	// renameio handles: temp file creation, fsync, atomic rename, cleanup on error
	pendingFile, err := renameio.NewPendingFile(path, renameio.WithPermissions(0o644))
	if err != nil {
		return fmt.Errorf("create pending %s file: %w", artifact, err)
	}
	defer func() {
		if err := pendingFile.Cleanup(); err != nil {
			logger.Debug().Err(err).Str("artifact", artifact).Msg("cleanup pending file")
		}
	}()

	if err := render(pendingFile); err != nil {
		return fmt.Errorf("write %s data: %w", artifact, err)
	}

	// CloseAtomicallyReplace: fsync + rename (durable + atomic)
	if err := pendingFile.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("atomically replace %s file: %w", artifact, err)
	}
	return nil
}
