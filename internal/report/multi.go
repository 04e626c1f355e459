// internal/report/multi.go
package report

import (
	"github.com/Slade66/number-generator/internal/generator"
	"github.com/Slade66/number-generator/internal/observer"
)

// Multi forwards events to several sinks in order.
type Multi []generator.Sink

func (m Multi) NumberGenerated(round, number int) {
	for _, s := range m {
		s.NumberGenerated(round, number)
	}
}

func (m Multi) ObserverDetached(round int, o observer.Observer) {
	for _, s := range m {
		s.ObserverDetached(round, o)
	}
}
