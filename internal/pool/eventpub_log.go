package pool

import "github.com/rs/zerolog"

// LogPublisher forwards pool lifecycle events to a zerolog logger, one line
// per event with Fields attached as structured key/values. This is what a
// running gateway wires in (see internal/lifecycle), as opposed to the
// in-memory MemoryPublisher tests use to assert on event sequences.
type LogPublisher struct {
	logger zerolog.Logger
}

// NewLogPublisher wraps logger as an EventPublisher.
func NewLogPublisher(logger zerolog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(e Event) {
	evt := p.logger.Info().Str("pool_event", e.Name)
	for k, v := range e.Fields {
		evt = evt.Interface(k, v)
	}
	evt.Msg("pool event")
}
