// internal/report/report.go
package report

import (
	"encoding/json"
	"fmt"

	"github.com/montanaflynn/stats"

	"github.com/Slade66/number-generator/internal/observer"
)

// ObserverSummary is the final state of one observer.
type ObserverSummary struct {
	Name            string `json:"name"`
	Received        int    `json:"received"`
	DetachedAtRound int    `json:"detached_at_round"`
	Description     string `json:"description"`
}

// Distribution describes the numbers drawn during a run.
type Distribution struct {
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std_dev"`
}

// Report is the outcome of a complete run.
type Report struct {
	RunID        string            `json:"run_id,omitempty"`
	Seed         int32             `json:"seed"`
	DelayMs      int64             `json:"delay_ms"`
	Rounds       int               `json:"rounds"`
	Distribution Distribution      `json:"distribution"`
	Observers    []ObserverSummary `json:"observers"`
}

// JSON encodes the report.
func (r *Report) JSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// Describe summarizes an observer from its current state.
func Describe(o observer.Observer) ObserverSummary {
	s := ObserverSummary{Name: observer.NameOf(o)}
	if r, ok := o.(interface{ Received() int }); ok {
		s.Received = r.Received()
	}
	if str, ok := o.(fmt.Stringer); ok {
		s.Description = str.String()
	}
	return s
}

func distribution(numbers []int) (Distribution, error) {
	d := Distribution{Count: len(numbers)}
	if len(numbers) == 0 {
		return d, nil
	}
	data := stats.LoadRawData(numbers)

	var err error
	if d.Min, err = data.Min(); err != nil {
		return d, err
	}
	if d.Max, err = data.Max(); err != nil {
		return d, err
	}
	if d.Mean, err = data.Mean(); err != nil {
		return d, err
	}
	if d.Median, err = data.Median(); err != nil {
		return d, err
	}
	if d.StdDev, err = data.StandardDeviation(); err != nil {
		return d, err
	}
	return d, nil
}
