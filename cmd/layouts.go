package cmd

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/boarding-sim/boarding-sim/sim/layout"
	"github.com/boarding-sim/boarding-sim/sim/strategy"
)

// layoutsCmd lists the built-in aircraft layouts.
var layoutsCmd = &cobra.Command{
	Use:   "layouts",
	Short: "List built-in aircraft layouts",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("%-18s %6s %6s %6s\n", "name", "decks", "rows", "seats")
		for _, name := range layout.BuiltinNames() {
			sp, err := layout.Builtin(name)
			if err != nil {
				logrus.Fatalf("Built-in layout %q is broken: %v", name, err)
			}
			rows := 0
			for _, d := range sp.Decks {
				for _, sec := range d.Sections {
					rows += sec.Rows
				}
			}
			fmt.Printf("%-18s %6d %6d %6d\n", name, len(sp.Decks), rows, sp.Seats())
		}
	},
}

// strategiesCmd lists the registered boarding strategies.
var strategiesCmd = &cobra.Command{
	Use:   "strategies",
	Short: "List boarding strategies",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(strings.Join(strategy.Names(), "\n"))
		fmt.Println("\nModifiers: staggered:<name>, even-odd:<name>")
	},
}

func init() {
	rootCmd.AddCommand(layoutsCmd)
	rootCmd.AddCommand(strategiesCmd)
}
