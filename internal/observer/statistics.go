// internal/observer/statistics.go
package observer

import (
	"fmt"
	"math"
)

// StatisticsObserver tracks min, max, sum and the integer average of a fixed
// number of values.
type StatisticsObserver struct {
	tally
	min int
	max int
	sum int
	avg int
}

// NewStatisticsObserver creates a statistics observer over target numbers and attaches it to subject.
func NewStatisticsObserver(subject Observable, target int) (*StatisticsObserver, error) {
	t, err := newTally(subject, target)
	if err != nil {
		return nil, err
	}
	o := &StatisticsObserver{
		tally: t,
		min:   math.MaxInt,
		max:   math.MinInt,
	}
	if err := subject.Attach(o); err != nil {
		return nil, err
	}
	return o, nil
}

// OnNext implements Observer.
func (o *StatisticsObserver) OnNext(number int) error {
	if number > o.max {
		o.max = number
	}
	if number < o.min {
		o.min = number
	}
	o.sum += number
	// The average is taken over the target count, not the numbers seen so far.
	if o.target > 0 {
		o.avg = o.sum / o.target
	}
	if o.receive() {
		return o.detach(o)
	}
	return nil
}

func (o *StatisticsObserver) Name() string { return "StatisticsObserver" }

// Min is math.MaxInt until the first number arrives.
func (o *StatisticsObserver) Min() int { return o.min }

// Max is math.MinInt until the first number arrives.
func (o *StatisticsObserver) Max() int { return o.max }

func (o *StatisticsObserver) Sum() int { return o.sum }

func (o *StatisticsObserver) Avg() int { return o.avg }

func (o *StatisticsObserver) Received() int { return o.received }

func (o *StatisticsObserver) Target() int { return o.target }

// Remaining returns how many numbers are still needed before the observer detaches.
func (o *StatisticsObserver) Remaining() int {
	if o.received >= o.target {
		return 0
	}
	return o.target - o.received
}

func (o *StatisticsObserver) Detached() bool { return o.detached }

func (o *StatisticsObserver) String() string {
	return fmt.Sprintf("%s => StatisticsObserver [min=%d, max=%d, sum=%d, avg=%d]",
		o.tally.String(), o.min, o.max, o.sum, o.avg)
}
