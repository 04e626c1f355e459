// internal/observer/range.go
package observer

import (
	"fmt"
	"math"
)

// RangeObserver counts numbers falling into [lower, upper] and detaches after
// a given number of hits.
type RangeObserver struct {
	tally
	lower     int
	upper     int
	inRange   int
	remaining int
}

// NewRangeObserver creates a range observer waiting for hits numbers within
// [lower, upper] and attaches it to subject. A single value range (lower == upper) is valid.
func NewRangeObserver(subject Observable, hits, lower, upper int) (*RangeObserver, error) {
	if hits < 0 {
		return nil, fmt.Errorf("%w: number of hits to wait for is negative (%d)", ErrInvalidArgument, hits)
	}
	if lower > upper {
		return nil, fmt.Errorf("%w: lower bound %d is greater than upper bound %d", ErrInvalidArgument, lower, upper)
	}
	// The count limit never fires first; only the hits decide.
	t, err := newTally(subject, math.MaxInt)
	if err != nil {
		return nil, err
	}
	o := &RangeObserver{
		tally:     t,
		lower:     lower,
		upper:     upper,
		remaining: hits,
	}
	if err := subject.Attach(o); err != nil {
		return nil, err
	}
	return o, nil
}

// OnNext implements Observer.
func (o *RangeObserver) OnNext(number int) error {
	if o.Contains(number) {
		o.inRange++
		if o.remaining > 0 {
			o.remaining--
		}
	}
	reached := o.receive()
	if o.remaining == 0 || reached {
		return o.detach(o)
	}
	return nil
}

// Contains reports whether number lies within the inclusive bounds.
func (o *RangeObserver) Contains(number int) bool {
	return number >= o.lower && number <= o.upper
}

func (o *RangeObserver) Name() string { return "RangeObserver" }

func (o *RangeObserver) Lower() int { return o.lower }

func (o *RangeObserver) Upper() int { return o.upper }

// InRange returns the number of hits seen so far.
func (o *RangeObserver) InRange() int { return o.inRange }

// Remaining returns the hits still needed.
func (o *RangeObserver) Remaining() int { return o.remaining }

func (o *RangeObserver) Received() int { return o.received }

func (o *RangeObserver) Detached() bool { return o.detached }

func (o *RangeObserver) String() string {
	return fmt.Sprintf("%s => RangeObserver [range=%d-%d, hits=%d, remaining=%d]",
		o.tally.String(), o.lower, o.upper, o.inRange, o.remaining)
}
