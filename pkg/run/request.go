// pkg/run/request.go
package run

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Observer kinds understood by a run.
const (
	KindBase       = "base"
	KindStatistics = "statistics"
	KindRange      = "range"
	KindQuickTipp  = "quicktipp"
)

// Bounds of the generated numbers, [ValueMin, ValueMax).
const (
	ValueMin = 1
	ValueMax = 1000
)

// Limits on the size of a run. Every drawn number is kept for the report, so
// they bound the memory a single run may take.
const (
	// MaxCount is the largest count or hits an observer may wait for.
	MaxCount = 100_000

	// MaxExpectedRounds bounds the rounds a range observer needs on average
	// to collect its hits.
	MaxExpectedRounds = 1_000_000
)

var ErrInvalidRequest = errors.New("invalid run request")

// ObserverSpec describes one observer to attach to the generator.
type ObserverSpec struct {
	// One of KindBase, KindStatistics, KindRange, KindQuickTipp.
	Kind string `json:"kind" mapstructure:"kind" binding:"required,oneof=base statistics range quicktipp"`

	// Count of numbers to wait for (base, statistics).
	Count int `json:"count,omitempty" mapstructure:"count" binding:"gte=0"`

	// Hits to wait for and the inclusive bounds (range).
	Hits  int `json:"hits,omitempty" mapstructure:"hits" binding:"gte=0"`
	Lower int `json:"lower,omitempty" mapstructure:"lower"`
	Upper int `json:"upper,omitempty" mapstructure:"upper"`
}

// Request is a generation run. It travels as a message through the Redis
// Stream between the API and the worker.
type Request struct {
	// Assigned by the API when the run is accepted.
	ID uuid.UUID `json:"id"`

	// Seed of the random source; nil means time derived.
	Seed *int32 `json:"seed,omitempty"`

	// Pause between two numbers in milliseconds.
	DelayMs int `json:"delay_ms" binding:"gte=0"`

	Observers []ObserverSpec `json:"observers" binding:"required,min=1,dive"`
}

// DefaultObservers is the demo set: a base observer over 10 numbers, statistics
// over 20, 5 hits between 200 and 300, and a quick tipp.
func DefaultObservers() []ObserverSpec {
	return []ObserverSpec{
		{Kind: KindBase, Count: 10},
		{Kind: KindStatistics, Count: 20},
		{Kind: KindRange, Hits: 5, Lower: 200, Upper: 300},
		{Kind: KindQuickTipp},
	}
}

// Validate checks the request beyond what the observers check themselves: a
// run must have observers, and a range observer that waits for hits must be
// able to get them, otherwise the run never ends.
func (r *Request) Validate() error {
	if r.DelayMs < 0 {
		return fmt.Errorf("%w: negative delay %d", ErrInvalidRequest, r.DelayMs)
	}
	if len(r.Observers) == 0 {
		return fmt.Errorf("%w: no observers", ErrInvalidRequest)
	}
	for i, spec := range r.Observers {
		if err := spec.Validate(); err != nil {
			return fmt.Errorf("observer %d: %w", i, err)
		}
	}
	return nil
}

func (s ObserverSpec) Validate() error {
	switch s.Kind {
	case KindBase, KindStatistics:
		if s.Count < 0 {
			return fmt.Errorf("%w: negative count %d", ErrInvalidRequest, s.Count)
		}
		if s.Count > MaxCount {
			return fmt.Errorf("%w: count %d above %d", ErrInvalidRequest, s.Count, MaxCount)
		}
	case KindRange:
		if s.Hits < 0 {
			return fmt.Errorf("%w: negative hits %d", ErrInvalidRequest, s.Hits)
		}
		if s.Lower > s.Upper {
			return fmt.Errorf("%w: lower %d above upper %d", ErrInvalidRequest, s.Lower, s.Upper)
		}
		if s.Hits > MaxCount {
			return fmt.Errorf("%w: hits %d above %d", ErrInvalidRequest, s.Hits, MaxCount)
		}
		if s.Hits == 0 {
			break
		}
		width := min(s.Upper, ValueMax-1) - max(s.Lower, ValueMin) + 1
		if width <= 0 {
			return fmt.Errorf("%w: range %d-%d is never hit by numbers in [%d, %d)",
				ErrInvalidRequest, s.Lower, s.Upper, ValueMin, ValueMax)
		}
		if expected := s.Hits * (ValueMax - ValueMin) / width; expected > MaxExpectedRounds {
			return fmt.Errorf("%w: %d hits in %d-%d take about %d rounds, more than %d",
				ErrInvalidRequest, s.Hits, s.Lower, s.Upper, expected, MaxExpectedRounds)
		}
	case KindQuickTipp:
	default:
		return fmt.Errorf("%w: unknown observer kind %q", ErrInvalidRequest, s.Kind)
	}
	return nil
}
