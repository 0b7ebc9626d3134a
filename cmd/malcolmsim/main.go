package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gerberprototyping/malcolm-sim/pkg/cluster"
	"github.com/gerberprototyping/malcolm-sim/pkg/config"
	"github.com/gerberprototyping/malcolm-sim/pkg/log"
	"github.com/gerberprototyping/malcolm-sim/pkg/metrics"
	"github.com/gerberprototyping/malcolm-sim/pkg/node"
	"github.com/gerberprototyping/malcolm-sim/pkg/taskgen"
	"github.com/gerberprototyping/malcolm-sim/pkg/watchdog"
)

var (
	// Version information (set via ldflags during build)
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps an error from a run to a process exit status: deadlocks
// and config validation failures get distinct non-zero codes so scripts
// can tell them apart; anything else falls back to a generic failure.
func exitCode(err error) int {
	var deadlock *watchdog.DeadlockError
	if errors.As(err, &deadlock) {
		return 2
	}
	var configErr *configValidationError
	if errors.As(err, &configErr) {
		return 3
	}
	return 1
}

// configValidationError wraps a config load/validate failure so exitCode
// can tell it apart from a deadlock or an ordinary runtime error.
type configValidationError struct{ err error }

func (e *configValidationError) Error() string { return e.err.Error() }
func (e *configValidationError) Unwrap() error { return e.err }

var rootCmd = &cobra.Command{
	Use:   "malcolmsim",
	Short: "Discrete-event simulator for a rack-scale Malcolm cluster",
	Long: `malcolmsim simulates a rack of nodes, each running its own scheduler,
load manager, and policy optimizer, cooperating to balance incoming task
load across the rack without any central scheduler in the hot path.`,
	Version: Version,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"malcolmsim version %s\nCommit: %s\nBuilt: %s\n",
		Version, Commit, BuildTime,
	))

	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Output logs in JSON format")

	cobra.OnInitialize(initLogging)

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(validateCmd)
}

func initLogging() {
	logLevel, _ := rootCmd.PersistentFlags().GetString("log-level")
	logJSON, _ := rootCmd.PersistentFlags().GetBool("log-json")

	log.Init(log.Config{
		Level:      log.Level(logLevel),
		JSONOutput: logJSON,
	})
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a simulation from a cluster config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		tickMillis, _ := cmd.Flags().GetFloat64("tick")
		durationMillis, _ := cmd.Flags().GetFloat64("duration")
		async, _ := cmd.Flags().GetBool("async")
		metricsAddr, _ := cmd.Flags().GetString("metrics-addr")
		plotDir, _ := cmd.Flags().GetString("plot-dir")

		cfg, err := config.Load(configPath)
		if err != nil {
			return &configValidationError{err: err}
		}

		taskGenCfg, err := cfg.Tasks.Build()
		if err != nil {
			return &configValidationError{err: err}
		}

		collector := metrics.NewCollector()
		recorders := []cluster.Recorder{collector}

		var series *metrics.SeriesRecorder
		if plotDir != "" {
			if err := os.MkdirAll(plotDir, 0o755); err != nil {
				return fmt.Errorf("malcolmsim: failed to create plot directory %q: %w", plotDir, err)
			}
			series = metrics.NewSeriesRecorder(plotDir)
			recorders = append(recorders, series)
		}

		c := cluster.New(cluster.Config{
			DeltaSlice: tickMillis,
			SimTime:    durationMillis,
			TaskGen:    taskgen.New(taskGenCfg),
			Recorder:   cluster.MultiRecorder{Recorders: recorders},
		})

		for _, n := range cfg.Nodes {
			if err := c.Register(node.New(node.Config{
				Name:                n.Name,
				CoreCount:           n.CoreCount.Int(),
				CorePerf:            n.CorePerf,
				IOCount:             n.IOCount.Int(),
				IOPerf:              n.IOPerf,
				Overhead:            n.Overhead,
				BandwidthBitsPerSec: n.Bandwidth.Int64(),
			})); err != nil {
				return fmt.Errorf("malcolmsim: %w", err)
			}
		}

		if metricsAddr != "" {
			go func() {
				http.Handle("/metrics", metrics.Handler())
				if err := http.ListenAndServe(metricsAddr, nil); err != nil {
					fmt.Fprintf(os.Stderr, "metrics server error: %v\n", err)
				}
			}()
			fmt.Printf("metrics endpoint: http://%s/metrics\n", metricsAddr)
		}

		timer := metrics.NewTimer()
		var runErr error
		if async {
			runErr = c.RunAsync()
		} else {
			c.Run()
		}
		timer.ObserveDuration(metrics.TickDuration)

		if runErr != nil {
			return fmt.Errorf("malcolmsim: %w", runErr)
		}

		if series != nil {
			if err := series.Flush(); err != nil {
				return fmt.Errorf("malcolmsim: failed to write plots: %w", err)
			}
			fmt.Printf("wrote per-metric plots to %s\n", plotDir)
		}

		fmt.Printf("run %s completed: %d nodes, %.0fms simulated\n", c.RunID(), c.NodeCount(), durationMillis)
		return nil
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Load and validate a cluster config without running it",
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		cfg, err := config.Load(configPath)
		if err != nil {
			return &configValidationError{err: err}
		}
		if _, err := cfg.Tasks.Build(); err != nil {
			return &configValidationError{err: err}
		}
		fmt.Printf("%s: valid (%d nodes)\n", filepath.Base(configPath), len(cfg.Nodes))
		return nil
	},
}

func init() {
	for _, cmd := range []*cobra.Command{runCmd, validateCmd} {
		cmd.Flags().String("config", "", "Path to cluster config file (.json, .yaml, .yml)")
		cmd.MarkFlagRequired("config")
	}

	runCmd.Flags().Float64("tick", 1, "Tick length in simulated milliseconds (Δslice)")
	runCmd.Flags().Float64("duration", 1000, "Total simulated duration in milliseconds")
	runCmd.Flags().Bool("async", false, "Run one goroutine per node instead of a single synchronous loop")
	runCmd.Flags().String("metrics-addr", "", "Address to serve the Prometheus /metrics endpoint on (disabled if empty)")
	runCmd.Flags().String("plot-dir", "", "Directory to write per-metric time-series PNGs into (disabled if empty)")
}
