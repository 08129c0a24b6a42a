package cmd

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/boarding-sim/boarding-sim/sim"
)

var runIndex int // which run of the batch to execute

// runCmd executes a single boarding run and prints its metrics.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a single boarding simulation",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()
		cfg := buildConfig(cmd)
		g := buildGraph(cfg)

		runner := sim.NewMonteCarloRunner(g, cfg)
		logrus.Infof("Starting run %d with strategy %q, seed %d", runIndex, runner.StrategyName(), cfg.Seed)

		startTime := time.Now()
		s, metrics, err := runner.RunOne(runIndex)
		if err != nil {
			logrus.Fatalf("Run failed: %v", err)
		}
		s.TraceCabin()
		metrics.Print()

		logrus.Infof("Run complete in %v wall time.", time.Since(startTime))
	},
}

func init() {
	addSimFlags(runCmd)
	runCmd.Flags().IntVar(&runIndex, "run-index", 0, "Batch index of the run to execute")
	rootCmd.AddCommand(runCmd)
}
