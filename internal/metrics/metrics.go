// internal/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Slade66/number-generator/internal/observer"
)

const namespace = "numgen"

// Run outcomes used as label values.
const (
	RunCompleted = "completed"
	RunFailed    = "failed"
)

// Collector counts generator activity. It is also a generator sink.
type Collector struct {
	numbersGenerated prometheus.Counter
	observersDetach  *prometheus.CounterVec
	runs             *prometheus.CounterVec
	rounds           prometheus.Histogram
}

// NewCollector creates the collector and registers it with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		numbersGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "numbers_generated_total",
			Help:      "the number of random numbers broadcast to observers",
		}),
		observersDetach: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "observers_detached_total",
			Help:      "the number of observers that detached, by observer type",
		}, []string{"observer"}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "the number of finished runs, by outcome",
		}, []string{"outcome"}),
		rounds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_rounds",
			Help:      "the number of rounds a successful run needed until every observer detached",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}),
	}
	reg.MustRegister(c.numbersGenerated, c.observersDetach, c.runs, c.rounds)
	return c
}

func (c *Collector) NumberGenerated(int, int) {
	c.numbersGenerated.Inc()
}

func (c *Collector) ObserverDetached(_ int, o observer.Observer) {
	c.observersDetach.WithLabelValues(observer.NameOf(o)).Inc()
}

// RunFinished records the outcome of a run.
func (c *Collector) RunFinished(outcome string, rounds int) {
	c.runs.WithLabelValues(outcome).Inc()
	if outcome == RunCompleted {
		c.rounds.Observe(float64(rounds))
	}
}
