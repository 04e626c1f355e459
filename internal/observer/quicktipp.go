// internal/observer/quicktipp.go
package observer

import (
	"fmt"
	"slices"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
)

const (
	QuickTippMin  = 1
	QuickTippMax  = 45
	QuickTippSize = 6
)

// QuickTippObserver collects six distinct numbers between QuickTippMin and
// QuickTippMax, like a lottery ticket, and detaches once the ticket is full.
type QuickTippObserver struct {
	subject  Observable
	numbers  mapset.Set[int]
	received int
	detached bool
}

// NewQuickTippObserver creates a quick tipp observer and attaches it to subject.
func NewQuickTippObserver(subject Observable) (*QuickTippObserver, error) {
	if IsNil(subject) {
		return nil, fmt.Errorf("%w: subject is nil", ErrInvalidArgument)
	}
	o := &QuickTippObserver{
		subject: subject,
		numbers: mapset.NewThreadUnsafeSet[int](),
	}
	if err := subject.Attach(o); err != nil {
		return nil, err
	}
	return o, nil
}

// OnNext implements Observer.
func (o *QuickTippObserver) OnNext(number int) error {
	if number >= QuickTippMin && number <= QuickTippMax {
		o.numbers.Add(number)
	}
	o.received++
	if o.numbers.Cardinality() == QuickTippSize && !o.detached {
		if err := o.subject.Detach(o); err != nil {
			return err
		}
		o.detached = true
	}
	return nil
}

func (o *QuickTippObserver) Name() string { return "QuickTippObserver" }

// Numbers returns the collected values in ascending order.
func (o *QuickTippObserver) Numbers() []int {
	numbers := o.numbers.ToSlice()
	slices.Sort(numbers)
	return numbers
}

func (o *QuickTippObserver) Received() int { return o.received }

func (o *QuickTippObserver) Detached() bool { return o.detached }

func (o *QuickTippObserver) String() string {
	parts := make([]string, 0, QuickTippSize)
	for _, n := range o.Numbers() {
		parts = append(parts, fmt.Sprint(n))
	}
	return fmt.Sprintf("QuickTippObserver [received=%d, numbers=%s]", o.received, strings.Join(parts, ", "))
}
