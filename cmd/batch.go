package cmd

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/boarding-sim/boarding-sim/sim"
)

var sweepScales []float64 // delay-scale factors for the sensitivity sweep

// batchCmd executes a Monte-Carlo batch, optionally sweeping the movement
// delay table.
var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Run a Monte-Carlo batch of boarding simulations",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()
		cfg := buildConfig(cmd)
		g := buildGraph(cfg)

		startTime := time.Now()
		if len(sweepScales) > 0 {
			runSweep(g, cfg)
		} else {
			runner := sim.NewMonteCarloRunner(g, cfg)
			logrus.Infof("Starting batch: %d runs of %q, seed %d", cfg.Runs, runner.StrategyName(), cfg.Seed)
			res, err := runner.RunBatch()
			if err != nil {
				logrus.Fatalf("Batch failed: %v", err)
			}
			res.Print()
		}
		logrus.Infof("Batch complete in %v wall time.", time.Since(startTime))
	},
}

// runSweep repeats the batch with every movement-delay distribution
// scaled by each factor, holding seed and strategy fixed so the rows are
// comparable.
func runSweep(g *sim.CabinGraph, cfg sim.Config) {
	fmt.Println("=== Delay Sensitivity Sweep ===")
	fmt.Printf("%-8s %10s %10s %10s %10s\n", "scale", "mean", "stddev", "p50", "p90")
	for _, f := range sweepScales {
		scaled := cfg
		scaled.Delays.AisleToAisle = cfg.Delays.AisleToAisle.Scale(f)
		scaled.Delays.AisleToSeat = cfg.Delays.AisleToSeat.Scale(f)
		scaled.Delays.SeatToAisle = cfg.Delays.SeatToAisle.Scale(f)
		scaled.Delays.SeatToSeat = cfg.Delays.SeatToSeat.Scale(f)

		res, err := sim.NewMonteCarloRunner(g, scaled).RunBatch()
		if err != nil {
			logrus.Fatalf("Sweep batch at scale %.2f failed: %v", f, err)
		}
		fmt.Printf("%-8.2f %10.2f %10.2f %10.2f %10.2f\n", f, res.Mean, res.StdDev, res.P50, res.P90)
	}
}

func init() {
	addSimFlags(batchCmd)
	batchCmd.Flags().Float64SliceVar(&sweepScales, "sweep", nil, "Comma-separated delay scale factors for a sensitivity sweep")
	rootCmd.AddCommand(batchCmd)
}
