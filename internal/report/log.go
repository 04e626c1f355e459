// internal/report/log.go
package report

import (
	"github.com/rs/zerolog"

	"github.com/Slade66/number-generator/internal/observer"
)

// LogSink writes generator events to a zerolog logger.
type LogSink struct {
	log zerolog.Logger
}

func NewLogSink(log zerolog.Logger) *LogSink {
	return &LogSink{log: log.With().Str("component", "generator").Logger()}
}

func (s *LogSink) NumberGenerated(round, number int) {
	s.log.Debug().Int("round", round).Int("number", number).Msg("number generated")
}

func (s *LogSink) ObserverDetached(round int, o observer.Observer) {
	d := Describe(o)
	s.log.Info().
		Int("round", round).
		Str("observer", d.Name).
		Int("received", d.Received).
		Str("state", d.Description).
		Msg("observer detached")
}
