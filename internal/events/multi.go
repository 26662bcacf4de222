// SPDX-License-Identifier: MIT

package events

import (
	"context"
	"errors"

	"github.com/ManuGH/matchcast/internal/domain"
	xlog "github.com/ManuGH/matchcast/internal/log"
)

// Multi concatenates several sources in order. It fails only when every
// source fails.
type Multi []Source

func (m Multi) Fetch(ctx context.Context) ([]domain.Match, error) {
	if len(m) == 1 {
		return m[0].Fetch(ctx)
	}

	var (
		out  []domain.Match
		errs []error
	)
	logger := xlog.WithComponentFromContext(ctx, "events")
	for _, src := range m {
		matches, err := src.Fetch(ctx)
		if err != nil {
			errs = append(errs, err)
			logger.Warn().
				Str(xlog.FieldEvent, "events.source_failed").
				Err(err).
				Msg("event source failed; continuing with the others")
			continue
		}
		out = append(out, matches...)
	}
	if len(m) > 0 && len(errs) == len(m) {
		return nil, errors.Join(append([]error{ErrSourceUnavailable}, errs...)...)
	}
	return out, nil
}
