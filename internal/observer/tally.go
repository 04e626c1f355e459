// internal/observer/tally.go
package observer

import "fmt"

// tally is the received/target bookkeeping shared by the count based observers.
type tally struct {
	subject  Observable
	received int
	target   int
	detached bool
}

func newTally(subject Observable, target int) (tally, error) {
	if target < 0 {
		return tally{}, fmt.Errorf("%w: count of numbers to wait for is negative (%d)", ErrInvalidArgument, target)
	}
	if IsNil(subject) {
		return tally{}, fmt.Errorf("%w: subject is nil", ErrInvalidArgument)
	}
	return tally{subject: subject, target: target}, nil
}

// receive counts one number and reports whether the target has been reached.
func (t *tally) receive() bool {
	t.received++
	return t.received >= t.target
}

// detach removes o from the subject at most once.
func (t *tally) detach(o Observer) error {
	if t.detached {
		return nil
	}
	if err := t.subject.Detach(o); err != nil {
		return err
	}
	t.detached = true
	return nil
}

func (t *tally) String() string {
	return fmt.Sprintf("BaseObserver [received=%d, target=%d]", t.received, t.target)
}
