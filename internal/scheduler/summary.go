package scheduler

import (
	"github.com/rs/zerolog"
)

// Summary accumulates the outcome of one kind's run. It is never persisted.
type Summary struct {
	Kind    Kind
	Started []Resource
	Stopped []Resource
	// Excluded holds untagged, exclusion-listed and autoscaled resources.
	Excluded []Resource
	// Skipped holds resources whose schedule could not be read or parsed.
	Skipped []Resource
}

// Log writes the end-of-run report.
func (s *Summary) Log(log zerolog.Logger) {
	log.Info().Int("count", len(s.Started)).Msgf("started %d %s instances", len(s.Started), s.Kind)
	for _, r := range s.Started {
		log.Info().Str("resource", r.ID).Msg(r.Label())
	}

	log.Info().Int("count", len(s.Stopped)).Msgf("stopped %d %s instances", len(s.Stopped), s.Kind)
	for _, r := range s.Stopped {
		log.Info().Str("resource", r.ID).Msg(r.Label())
	}

	log.Info().Int("count", len(s.Excluded)).Msg("untagged, excluded and autoscaling instances")
	if len(s.Skipped) > 0 {
		log.Warn().Int("count", len(s.Skipped)).Strs("resources", ids(s.Skipped)).Msg("instances skipped on schedule errors")
	}
}

func ids(rs []Resource) []string {
	out := make([]string, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.ID)
	}
	return out
}
