// internal/observer/interfaces.go
package observer

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrInvalidArgument is returned for negative counts, malformed ranges and nil references.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNilObserver is returned when a nil observer is attached or detached.
	ErrNilObserver = fmt.Errorf("%w: observer is nil", ErrInvalidArgument)

	// ErrDuplicateSubscription is returned when an observer is attached twice.
	ErrDuplicateSubscription = errors.New("observer already attached")

	// ErrUnknownSubscriber is returned when detaching an observer that is not attached.
	ErrUnknownSubscriber = errors.New("observer is not attached")
)

// Observer receives every number the subject generates until it detaches.
type Observer interface {
	// OnNext is called once per generated number. An observer may detach
	// itself from inside OnNext.
	OnNext(number int) error
}

// Observable is the subject side of the pattern.
type Observable interface {
	Attach(o Observer) error
	Detach(o Observer) error
	Notify(number int) error
}

// NameOf returns the display name of an observer.
func NameOf(o Observer) string {
	if n, ok := o.(interface{ Name() string }); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", o)
}

// IsNil reports whether v is nil, including a nil pointer wrapped in an interface.
func IsNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
