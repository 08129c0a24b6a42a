package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchIsWorkerCountInvariant(t *testing.T) {
	g := buildGraph(t, sectionSpec(4, 2, 2))
	cfg := DefaultConfig()
	cfg.Runs = 50
	cfg.Seed = 17

	cfg.Workers = 1
	serial, err := NewMonteCarloRunner(g, cfg).RunBatch()
	require.NoError(t, err)

	cfg.Workers = 7
	parallel, err := NewMonteCarloRunner(g, cfg).RunBatch()
	require.NoError(t, err)

	// Sample i is derived from RunKey(i) regardless of which worker ran
	// it, so the whole distribution matches, not just the mean.
	assert.Equal(t, serial.Samples, parallel.Samples)
	assert.Equal(t, serial.Mean, parallel.Mean)
}

func TestBatchSampleMatchesSingleRun(t *testing.T) {
	g := buildGraph(t, sectionSpec(3, 2, 2))
	cfg := DefaultConfig()
	cfg.Runs = 10
	cfg.Seed = 4

	r := NewMonteCarloRunner(g, cfg)
	batch, err := r.RunBatch()
	require.NoError(t, err)

	for _, i := range []int{0, 3, 9} {
		_, m, err := r.RunOne(i)
		require.NoError(t, err)
		assert.Equal(t, batch.Samples[i], m.TotalTime, "run %d", i)
	}
}

func TestMonteCarloConvergence(t *testing.T) {
	if testing.Short() {
		t.Skip("convergence check runs thousands of boardings")
	}
	g := buildGraph(t, sectionSpec(4, 2, 2))
	cfg := DefaultConfig()
	cfg.Seed = 2

	cfg.Runs = 200
	small, err := NewMonteCarloRunner(g, cfg).RunBatch()
	require.NoError(t, err)

	cfg.Runs = 2000
	large, err := NewMonteCarloRunner(g, cfg).RunBatch()
	require.NoError(t, err)

	// Delay noise already averages out within a run, so 200 samples sit
	// close to the 2000-sample estimate.
	assert.InEpsilon(t, large.Mean, small.Mean, 0.05)
}

func TestBatchSummaryStatistics(t *testing.T) {
	b := &BatchResult{Samples: []float64{4, 1, 3, 2, 5}}
	b.Summarize()
	assert.InDelta(t, 3.0, b.Mean, 1e-9)
	assert.InDelta(t, 1.0, b.Min, 1e-9)
	assert.InDelta(t, 5.0, b.Max, 1e-9)
	assert.InDelta(t, 3.0, b.P50, 1e-9)
	assert.InDelta(t, 4.6, b.P90, 1e-9)
}
