package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dimtally/dimtally/internal/bench"
	"github.com/dimtally/dimtally/internal/config"
	"github.com/dimtally/dimtally/internal/output"
)

var (
	runConfigPath  string
	runMode        string
	runWorkers     int
	runTasks       int
	runIterations  int
	runYieldEvery  int
	runTargetKey   string
	runTargetValue uint64
	runFormat      string
	runOutputPath  string
	runVerbose     bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute a benchmark run",
	Long: `Run executes one benchmark with the selected recording mode and waits
until the merged total for the target key reaches the target value.

Configuration comes from a YAML or JSON file (--config), from flags, or
both; flags set explicitly override file values.`,
	Example: `  dimtally run --mode tlv --tasks 1000 --target-value 100000000
  dimtally run --config run.yaml --format json --output result.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := buildRunConfig(cmd)
		if err != nil {
			return err
		}

		log := zap.NewNop()
		if runVerbose {
			log, err = zap.NewDevelopment()
			if err != nil {
				return fmt.Errorf("creating logger: %w", err)
			}
			defer log.Sync()
		}

		runner, err := bench.NewRunner(cfg, log)
		if err != nil {
			return err
		}
		res, err := runner.Run()
		if err != nil {
			return err
		}

		return output.WriteResult(res, cfg.Report.Format, cfg.Report.Path)
	},
}

// buildRunConfig loads the config file (when given) and layers explicitly
// set flags on top.
func buildRunConfig(cmd *cobra.Command) (*config.RunConfig, error) {
	cfg := &config.RunConfig{}
	if runConfigPath != "" {
		loaded, err := config.Load(runConfigPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("mode") {
		cfg.Mode = runMode
	}
	if flags.Changed("workers") {
		cfg.Workers = runWorkers
	}
	if flags.Changed("tasks") {
		cfg.Tasks = runTasks
	}
	if flags.Changed("iterations") {
		cfg.Iterations = runIterations
	}
	if flags.Changed("yield-every") {
		cfg.YieldEvery = runYieldEvery
	}
	if flags.Changed("target-key") {
		cfg.Target.Key = runTargetKey
	}
	if flags.Changed("target-value") {
		cfg.Target.Value = runTargetValue
	}
	if flags.Changed("format") {
		cfg.Report.Format = runFormat
	}
	if flags.Changed("output") {
		cfg.Report.Path = runOutputPath
	}

	config.ApplyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func init() {
	runCmd.Flags().StringVarP(&runConfigPath, "config", "c", "", "Run configuration file (YAML or JSON)")
	runCmd.Flags().StringVar(&runMode, "mode", config.ModeTLV, "Recording mode: tlv, atomic, or prom")
	runCmd.Flags().IntVar(&runWorkers, "workers", 0, "Worker goroutines (0 = GOMAXPROCS)")
	runCmd.Flags().IntVar(&runTasks, "tasks", 1000, "Workload tasks to spawn")
	runCmd.Flags().IntVar(&runIterations, "iterations", 0, "Increments per task (0 = derived from target)")
	runCmd.Flags().IntVar(&runYieldEvery, "yield-every", 100, "Yield the scheduler every N increments")
	runCmd.Flags().StringVar(&runTargetKey, "target-key", "requests.total", "Metric key the stop condition watches")
	runCmd.Flags().Uint64Var(&runTargetValue, "target-value", 100_000_000, "Merged total that stops the run")
	runCmd.Flags().StringVarP(&runFormat, "format", "f", config.FormatText, "Report format: text or json")
	runCmd.Flags().StringVarP(&runOutputPath, "output", "o", "", "Write the report to a file instead of stdout")
	runCmd.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "Log worker and aggregator lifecycle events")
}
