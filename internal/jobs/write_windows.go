// SPDX-License-Identifier: MIT

//go:build windows

package jobs

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	xlog "github.com/ManuGH/matchcast/internal/log"
)

// writeAtomic writes via temp file + rename.
// Note: Windows doesn't support atomic rename with fsync like Unix
func writeAtomic(ctx context.Context, path, artifact string, render func(io.Writer) error) error {
	logger := xlog.WithComponentFromContext(ctx, "jobs")

	tmpFile, err := os.CreateTemp(filepath.Dir(path), ".matchcast-"+artifact+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp %s file: %w", artifact, err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		if tmpFile != nil {
			_ = tmpFile.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if err := render(tmpFile); err != nil {
		return fmt.Errorf("write %s data: %w", artifact, err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp %s file: %w", artifact, err)
	}
	tmpFile = nil

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename %s file: %w", artifact, err)
	}

	logger.Debug().Str(xlog.FieldPath, path).Msg("wrote " + artifact + " file")
	return nil
}
