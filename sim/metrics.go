// Per-run and per-batch boarding metrics for final reporting.

package sim

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// RunMetrics aggregates statistics about one boarding run for final
// reporting and for batch aggregation.
type RunMetrics struct {
	Key        SimulationKey // key the run was derived from
	Passengers int
	TotalTime  float64 // seconds from first entry attempt to last seating
	// MeanSeatingTime averages each passenger's boarding-to-seated span.
	MeanSeatingTime float64
	Moves           int
	Waits           int // times a passenger parked or deferred on blockers
	Displacements   int // seated passengers a mover shuffled past, counted per crossing
	BagsStowed      int
}

// Print displays the run's metrics.
func (m *RunMetrics) Print() {
	fmt.Println("=== Boarding Metrics ===")
	fmt.Printf("Passengers         : %d\n", m.Passengers)
	fmt.Printf("Total Time         : %.2f s\n", m.TotalTime)
	fmt.Printf("Mean Seating Time  : %.2f s\n", m.MeanSeatingTime)
	fmt.Printf("Moves              : %d\n", m.Moves)
	fmt.Printf("Waits              : %d\n", m.Waits)
	fmt.Printf("Displacements      : %d\n", m.Displacements)
	fmt.Printf("Bags Stowed        : %d\n", m.BagsStowed)
}

// BatchResult summarizes the total-time distribution over a batch of
// runs. Samples stays in run order so callers can pair sample i with key
// RunKey(i).
type BatchResult struct {
	Strategy string
	Runs     int
	Samples  []float64

	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
	P50    float64
	P90    float64
	P99    float64

	MeanDisplacements float64
	MeanWaits         float64
}

// Summarize fills the distribution fields from Samples.
func (b *BatchResult) Summarize() {
	if len(b.Samples) == 0 {
		return
	}
	sorted := append([]float64(nil), b.Samples...)
	sort.Float64s(sorted)
	b.Mean, b.StdDev = stat.MeanStdDev(sorted, nil)
	if math.IsNaN(b.StdDev) {
		b.StdDev = 0
	}
	b.Min = sorted[0]
	b.Max = sorted[len(sorted)-1]
	b.P50 = CalculatePercentile(sorted, 50)
	b.P90 = CalculatePercentile(sorted, 90)
	b.P99 = CalculatePercentile(sorted, 99)
}

// Print displays the batch summary.
func (b *BatchResult) Print() {
	fmt.Println("=== Batch Summary ===")
	if b.Strategy != "" {
		fmt.Printf("Strategy           : %s\n", b.Strategy)
	}
	fmt.Printf("Runs               : %d\n", b.Runs)
	fmt.Printf("Mean Total Time    : %.2f s\n", b.Mean)
	fmt.Printf("Std Dev            : %.2f s\n", b.StdDev)
	fmt.Printf("Min / Max          : %.2f / %.2f s\n", b.Min, b.Max)
	fmt.Printf("P50 / P90 / P99    : %.2f / %.2f / %.2f s\n", b.P50, b.P90, b.P99)
	fmt.Printf("Mean Displacements : %.2f\n", b.MeanDisplacements)
	fmt.Printf("Mean Waits         : %.2f\n", b.MeanWaits)
}

// CalculatePercentile calculates the p-th percentile of sorted data by
// linear interpolation between closest ranks.
func CalculatePercentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	rank := p / 100.0 * float64(n-1)
	lowerIdx := int(math.Floor(rank))
	upperIdx := int(math.Ceil(rank))
	if lowerIdx == upperIdx || upperIdx >= n {
		return sorted[lowerIdx]
	}
	lowerVal := sorted[lowerIdx]
	upperVal := sorted[upperIdx]
	return lowerVal + (upperVal-lowerVal)*(rank-float64(lowerIdx))
}
