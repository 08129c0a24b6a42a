// Monte-Carlo batch execution. Runs are fully independent: each derives
// its own key, RNG streams, bin state and occupancy from the shared
// immutable graph, so a worker pool parallelizes them without locks and
// the batch result is identical for any worker count.

package sim

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

// MonteCarloRunner executes batches of independent boarding runs over one
// prebuilt cabin graph.
type MonteCarloRunner struct {
	graph *CabinGraph
	cfg   Config
}

// NewMonteCarloRunner binds a graph and a validated configuration.
func NewMonteCarloRunner(g *CabinGraph, cfg Config) *MonteCarloRunner {
	return &MonteCarloRunner{graph: g, cfg: cfg}
}

// StrategyName names the configured boarding order for reports.
func (r *MonteCarloRunner) StrategyName() string {
	if r.cfg.Order == nil {
		return "seat-order"
	}
	return r.cfg.Order.Name()
}

// RunOne executes the i-th run of the batch and returns its metrics and
// transcript holder. Deterministic in (seed, i).
func (r *MonteCarloRunner) RunOne(i int) (*Simulator, *RunMetrics, error) {
	key := NewSimulationKey(r.cfg.Seed).RunKey(i)
	s, err := NewSimulator(r.graph, r.cfg, key)
	if err != nil {
		return nil, nil, fmt.Errorf("run %d: %w", i, err)
	}
	return s, s.Run(), nil
}

// RunBatch executes cfg.Runs independent runs across a worker pool and
// returns the aggregated result. Sample i always comes from key
// RunKey(i), whatever worker happened to execute it.
func (r *MonteCarloRunner) RunBatch() (*BatchResult, error) {
	runs := r.cfg.Runs
	metrics := make([]*RunMetrics, runs)
	errs := make([]error, runs)

	jobs := make(chan int)
	var wg sync.WaitGroup
	workers := r.cfg.WorkerCount()
	if workers > runs {
		workers = runs
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				_, m, err := r.RunOne(i)
				metrics[i] = m
				errs[i] = err
			}
		}()
	}
	for i := 0; i < runs; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	res := &BatchResult{
		Strategy: r.StrategyName(),
		Runs:     runs,
		Samples:  make([]float64, runs),
	}
	for i, m := range metrics {
		res.Samples[i] = m.TotalTime
		res.MeanDisplacements += float64(m.Displacements) / float64(runs)
		res.MeanWaits += float64(m.Waits) / float64(runs)
	}
	res.Summarize()
	logrus.Debugf("batch done: %d runs of %q, mean %.2fs", runs, res.Strategy, res.Mean)
	return res, nil
}
