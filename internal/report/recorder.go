// internal/report/recorder.go
package report

import (
	"fmt"
	"time"

	"github.com/Slade66/number-generator/internal/observer"
)

// Recorder is a sink that remembers the drawn numbers and when each observer
// detached, and turns them into a Report.
type Recorder struct {
	numbers  []int
	detached map[observer.Observer]int
}

func NewRecorder() *Recorder {
	return &Recorder{detached: make(map[observer.Observer]int)}
}

func (r *Recorder) NumberGenerated(_ int, number int) {
	r.numbers = append(r.numbers, number)
}

func (r *Recorder) ObserverDetached(round int, o observer.Observer) {
	r.detached[o] = round
}

// Numbers returns the numbers seen so far.
func (r *Recorder) Numbers() []int {
	return r.numbers
}

// Report builds the run report. observers lists every observer of the run in
// attachment order.
func (r *Recorder) Report(seed int32, delay time.Duration, observers []observer.Observer) (*Report, error) {
	d, err := distribution(r.numbers)
	if err != nil {
		return nil, fmt.Errorf("distribution: %w", err)
	}
	rep := &Report{
		Seed:         seed,
		DelayMs:      delay.Milliseconds(),
		Rounds:       len(r.numbers),
		Distribution: d,
		Observers:    make([]ObserverSummary, 0, len(observers)),
	}
	for _, o := range observers {
		s := Describe(o)
		s.DetachedAtRound = r.detached[o]
		rep.Observers = append(rep.Observers, s)
	}
	return rep, nil
}
