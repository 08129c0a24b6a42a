package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/boarding-sim/boarding-sim/sim"
	"github.com/boarding-sim/boarding-sim/sim/layout"
	"github.com/boarding-sim/boarding-sim/sim/strategy"
)

var (
	// CLI flags shared by the run and batch subcommands
	logLevel        string  // Log verbosity level
	layoutName      string  // Built-in aircraft layout name
	layoutFile      string  // YAML layout file, overrides --aircraft
	configFile      string  // YAML config file
	strategyName    string  // Boarding strategy name
	seed            int64   // Seed anchoring the batch's simulation keys
	runs            int     // Monte-Carlo batch size
	workers         int     // Worker pool size, 0 = one per CPU
	rowsPerBinGroup int     // Override of the layout's bin row span
	entryMean       float64 // Mean seconds between boardings at the door
	entrySigma      float64 // Stddev of the door interval
	binConstant     float64 // k in the k*sqrt(bags) bin loading cost
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "boarding-sim",
	Short: "Discrete-event Monte-Carlo simulator for airplane boarding",
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setupLogging applies the --log flag.
func setupLogging() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

// buildConfig layers flag overrides on top of the config file (or the
// defaults). Only flags the user actually set override the file.
func buildConfig(cmd *cobra.Command) sim.Config {
	cfg := sim.DefaultConfig()
	if configFile != "" {
		loaded, err := sim.LoadConfig(configFile)
		if err != nil {
			logrus.Fatalf("Could not load config: %v", err)
		}
		cfg = loaded
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}
	if cmd.Flags().Changed("runs") {
		cfg.Runs = runs
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers = workers
	}
	if cmd.Flags().Changed("rows-per-bin-group") {
		cfg.RowsPerBinGroup = rowsPerBinGroup
	}
	if cmd.Flags().Changed("entry-interval") {
		cfg.EntryInterval.Mean = entryMean
	}
	if cmd.Flags().Changed("entry-interval-stdev") {
		cfg.EntryInterval.Sigma = entrySigma
	}
	if cmd.Flags().Changed("bin-constant") {
		cfg.Delays.BinConstant = binConstant
	}

	ord, err := strategy.New(strategyName)
	if err != nil {
		logrus.Fatalf("Could not resolve strategy: %v", err)
	}
	cfg.Order = ord

	if err := cfg.Validate(); err != nil {
		logrus.Fatalf("Invalid configuration: %v", err)
	}
	return cfg
}

// buildGraph resolves the layout flags and builds the cabin graph.
func buildGraph(cfg sim.Config) *sim.CabinGraph {
	var (
		sp  layout.Spec
		err error
	)
	if layoutFile != "" {
		sp, err = layout.Load(layoutFile)
	} else {
		sp, err = layout.Builtin(layoutName)
	}
	if err != nil {
		logrus.Fatalf("Could not resolve layout: %v", err)
	}
	g, err := sim.Build(sp, cfg.RowsPerBinGroup)
	if err != nil {
		logrus.Fatalf("Could not build cabin graph: %v", err)
	}
	logrus.Infof("Built layout %q: %d decks, %d seats, %d bin groups",
		sp.Name, g.Decks(), len(g.Seats()), g.Bins())
	return g
}

// addSimFlags registers the flags shared by run and batch.
func addSimFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
	cmd.Flags().StringVar(&layoutName, "aircraft", "airbus-320", "Built-in aircraft layout")
	cmd.Flags().StringVar(&layoutFile, "layout", "", "YAML layout file (overrides --aircraft)")
	cmd.Flags().StringVar(&configFile, "config", "", "YAML configuration file")
	cmd.Flags().StringVar(&strategyName, "strategy", "random", "Boarding strategy (see 'strategies'; prefix with staggered: or even-odd:)")
	cmd.Flags().Int64Var(&seed, "seed", 1, "Seed for the batch's simulation keys")
	cmd.Flags().IntVar(&runs, "runs", 200, "Number of Monte-Carlo runs")
	cmd.Flags().IntVar(&workers, "workers", 0, "Worker pool size (0 = one per CPU)")
	cmd.Flags().IntVar(&rowsPerBinGroup, "rows-per-bin-group", 0, "Rows sharing one bin group (0 = layout default)")
	cmd.Flags().Float64Var(&entryMean, "entry-interval", 7.0, "Mean seconds between boardings at the door")
	cmd.Flags().Float64Var(&entrySigma, "entry-interval-stdev", 1.0, "Stddev of the door interval")
	cmd.Flags().Float64Var(&binConstant, "bin-constant", 2.0, "k in the k*sqrt(bags) bin loading cost")
}
