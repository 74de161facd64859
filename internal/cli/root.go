// Package cli implements the dimtally command line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:     "dimtally",
	Short:   "Benchmark harness for dimensional counter recording strategies",
	Version: version,
	Long: `Dimtally benchmarks how fast labeled counter increments can be recorded
and aggregated. Its main strategy keeps a snapshot per worker goroutine and
batches flushes to a single aggregator; shared-atomic and prometheus
baselines are included for comparison.`,
	Run: func(cmd *cobra.Command, args []string) {
		// If no subcommand is provided, print help
		cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() error {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	return nil
}

func init() {
	RootCmd.AddCommand(runCmd)
	RootCmd.AddCommand(queryCmd)
}
