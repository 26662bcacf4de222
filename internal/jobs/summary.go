package jobs

import (
	"github.com/rs/zerolog"

	xlog "github.com/ManuGH/matchcast/internal/log"
)

// logSummary emits the end-of-run report.
func logSummary(ev *zerolog.Event, s *Stats) {
	reasons := zerolog.Dict()
	for r, n := range s.Reasons {
		reasons.Int(string(r), n)
	}
	ev.Str(xlog.FieldEvent, "run.summary").
		Int("matches", s.Matches).
		Int("channels", s.Channels).
		Int("filtered", s.Filtered).
		Int("invalid", s.Invalid).
		Int("exhausted", s.Exhausted).
		Int("duplicates", s.Duplicates).
		Dict("reasons", reasons).
		Dur("duration", s.EndTime.Sub(s.StartTime)).
		Msg("run complete")
}
