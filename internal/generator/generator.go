// internal/generator/generator.go
package generator

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/Slade66/number-generator/internal/observer"
)

const (
	DefaultDelay = 500 * time.Millisecond

	// Generated numbers are drawn from [MinValue, MaxValue).
	MinValue = 1
	MaxValue = 1000
)

// DefaultSeed derives a seed from the current time.
func DefaultSeed() int32 {
	return int32(time.Now().UnixNano())
}

// Generator draws random numbers and broadcasts them to its observers until
// every observer has detached.
type Generator struct {
	delay     time.Duration
	seed      int32
	observers []observer.Observer
	rounds    int
	sink      Sink
	mu        sync.Mutex
}

// New creates a generator that pauses delay between two numbers and seeds its
// random source with seed.
func New(delay time.Duration, seed int32) *Generator {
	if delay < 0 {
		delay = 0
	}
	return &Generator{
		delay:     delay,
		seed:      seed,
		observers: make([]observer.Observer, 0),
		sink:      NopSink{},
	}
}

// SetSink replaces the collaborator that is told about generated numbers and detachments.
func (g *Generator) SetSink(s Sink) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if s == nil {
		s = NopSink{}
	}
	g.sink = s
}

// Attach implements observer.Observable. Observers are notified in attachment order.
func (g *Generator) Attach(o observer.Observer) error {
	if observer.IsNil(o) {
		return observer.ErrNilObserver
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if slices.Contains(g.observers, o) {
		return fmt.Errorf("attach %s: %w", observer.NameOf(o), observer.ErrDuplicateSubscription)
	}
	g.observers = append(g.observers, o)
	return nil
}

// Detach implements observer.Observable.
func (g *Generator) Detach(o observer.Observer) error {
	if observer.IsNil(o) {
		return observer.ErrNilObserver
	}
	g.mu.Lock()
	i := slices.Index(g.observers, o)
	if i < 0 {
		g.mu.Unlock()
		return fmt.Errorf("detach %s: %w", observer.NameOf(o), observer.ErrUnknownSubscriber)
	}
	g.observers = slices.Delete(g.observers, i, i+1)
	round, sink := g.rounds, g.sink
	g.mu.Unlock()

	sink.ObserverDetached(round, o)
	return nil
}

// Notify implements observer.Observable. It iterates over a snapshot of the
// observers taken on entry; an observer detached during the round (by itself
// or another one) is not called afterwards, and nobody is skipped.
func (g *Generator) Notify(number int) error {
	for _, o := range g.snapshot() {
		if !g.attached(o) {
			continue
		}
		if err := o.OnNext(number); err != nil {
			return fmt.Errorf("notify %s of %d: %w", observer.NameOf(o), number, err)
		}
	}
	return nil
}

// Run starts the number generation. It runs as long as observers are attached;
// with no observers attached it returns without drawing a number.
func (g *Generator) Run() error {
	src := NewSubtractive(g.seed)
	for g.Count() > 0 {
		number := src.Between(MinValue, MaxValue)

		g.mu.Lock()
		g.rounds++
		round, sink := g.rounds, g.sink
		g.mu.Unlock()

		sink.NumberGenerated(round, number)
		if err := g.Notify(number); err != nil {
			return fmt.Errorf("round %d: %w", round, err)
		}
		if g.delay > 0 && g.Count() > 0 {
			time.Sleep(g.delay)
		}
	}
	return nil
}

// Count returns the number of attached observers.
func (g *Generator) Count() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.observers)
}

// Rounds returns how many numbers have been generated so far.
func (g *Generator) Rounds() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rounds
}

func (g *Generator) Seed() int32 { return g.seed }

func (g *Generator) Delay() time.Duration { return g.delay }

func (g *Generator) String() string {
	return "RandomNumberGenerator"
}

func (g *Generator) snapshot() []observer.Observer {
	g.mu.Lock()
	defer g.mu.Unlock()
	return slices.Clone(g.observers)
}

func (g *Generator) attached(o observer.Observer) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return slices.Contains(g.observers, o)
}
