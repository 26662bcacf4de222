// SPDX-License-Identifier: MIT

package resolve

import (
	"context"

	"github.com/ManuGH/matchcast/internal/domain"
)

// Strategy names accepted in configuration.
const (
	StrategyDirect    = "direct"
	StrategyScrape    = "scrape"
	StrategyIntercept = "intercept"
)

// Attempt is the state one Source carries through the strategy chain.
// EmbedURL starts as the Source ID for embed sources and may be filled in by
// an earlier strategy.
type Attempt struct {
	Source   domain.Source
	EmbedURL string
}

// Strategy is one way of turning a Source into a stream URL.
// Implementations must not panic; every failure is returned as a Candidate.
type Strategy interface {
	Name() string
	Resolve(ctx context.Context, a Attempt) Candidate
}
