// internal/generator/sink.go
package generator

import "github.com/Slade66/number-generator/internal/observer"

// Sink is told about everything the generator does. Implementations must not
// change generator or observer state.
type Sink interface {
	// NumberGenerated is called before the number is broadcast.
	NumberGenerated(round, number int)
	// ObserverDetached is called after o has been removed.
	ObserverDetached(round int, o observer.Observer)
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) NumberGenerated(int, int) {}

func (NopSink) ObserverDetached(int, observer.Observer) {}
