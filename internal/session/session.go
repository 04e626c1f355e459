// internal/session/session.go
package session

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Slade66/number-generator/internal/generator"
	"github.com/Slade66/number-generator/internal/observer"
	"github.com/Slade66/number-generator/internal/report"
	"github.com/Slade66/number-generator/pkg/run"
)

// Session is one generator together with the observers of a run request.
type Session struct {
	id        string
	generator *generator.Generator
	observers []observer.Observer
	recorder  *report.Recorder
}

// New builds the generator and attaches the requested observers. Extra sinks
// are told about every event in addition to the session's own recorder.
func New(req *run.Request, sinks ...generator.Sink) (*Session, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	seed := generator.DefaultSeed()
	if req.Seed != nil {
		seed = *req.Seed
	}
	g := generator.New(time.Duration(req.DelayMs)*time.Millisecond, seed)

	s := &Session{
		generator: g,
		observers: make([]observer.Observer, 0, len(req.Observers)),
		recorder:  report.NewRecorder(),
	}
	if req.ID != uuid.Nil {
		s.id = req.ID.String()
	}
	g.SetSink(append(report.Multi{s.recorder}, sinks...))

	for i, spec := range req.Observers {
		o, err := build(g, spec)
		if err != nil {
			return nil, fmt.Errorf("observer %d (%s): %w", i, spec.Kind, err)
		}
		s.observers = append(s.observers, o)
	}
	return s, nil
}

func build(g *generator.Generator, spec run.ObserverSpec) (observer.Observer, error) {
	switch spec.Kind {
	case run.KindBase:
		return observer.NewBaseObserver(g, spec.Count)
	case run.KindStatistics:
		return observer.NewStatisticsObserver(g, spec.Count)
	case run.KindRange:
		return observer.NewRangeObserver(g, spec.Hits, spec.Lower, spec.Upper)
	case run.KindQuickTipp:
		return observer.NewQuickTippObserver(g)
	}
	return nil, fmt.Errorf("%w: unknown observer kind %q", observer.ErrInvalidArgument, spec.Kind)
}

// Run generates numbers until every observer has detached and returns the report.
func (s *Session) Run() (*report.Report, error) {
	if err := s.generator.Run(); err != nil {
		return nil, err
	}
	rep, err := s.recorder.Report(s.generator.Seed(), s.generator.Delay(), s.observers)
	if err != nil {
		return nil, err
	}
	rep.RunID = s.id
	return rep, nil
}

func (s *Session) Generator() *generator.Generator { return s.generator }

// Observers returns the observers in attachment order.
func (s *Session) Observers() []observer.Observer { return s.observers }
