package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Slade66/number-generator/internal/generator"
	"github.com/Slade66/number-generator/internal/observer"
)

func TestCollectorAsSink(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	g := generator.New(0, 125)
	g.SetSink(c)
	_, err := observer.NewBaseObserver(g, 10)
	require.NoError(t, err)
	_, err = observer.NewRangeObserver(g, 5, 200, 300)
	require.NoError(t, err)

	require.NoError(t, g.Run())
	c.RunFinished(RunCompleted, g.Rounds())
	c.RunFinished(RunFailed, 0)

	assert.Equal(t, 69.0, testutil.ToFloat64(c.numbersGenerated))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.observersDetach.WithLabelValues("BaseObserver")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.observersDetach.WithLabelValues("RangeObserver")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.runs.WithLabelValues(RunCompleted)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.runs.WithLabelValues(RunFailed)))
	assert.Equal(t, 1, testutil.CollectAndCount(c.rounds))
}
