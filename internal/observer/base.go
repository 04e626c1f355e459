// internal/observer/base.go
package observer

// BaseObserver receives a fixed number of values and then detaches.
type BaseObserver struct {
	tally
}

// NewBaseObserver creates an observer waiting for target numbers and attaches it to subject.
func NewBaseObserver(subject Observable, target int) (*BaseObserver, error) {
	t, err := newTally(subject, target)
	if err != nil {
		return nil, err
	}
	o := &BaseObserver{tally: t}
	if err := subject.Attach(o); err != nil {
		return nil, err
	}
	return o, nil
}

// OnNext implements Observer.
func (o *BaseObserver) OnNext(number int) error {
	if o.receive() {
		return o.detach(o)
	}
	return nil
}

func (o *BaseObserver) Name() string { return "BaseObserver" }

func (o *BaseObserver) Received() int { return o.received }

func (o *BaseObserver) Target() int { return o.target }

func (o *BaseObserver) Detached() bool { return o.detached }
