package main

import (
	"strings"

	"github.com/jamesainslie/hwbench/pkg/hwbench/config"
	"github.com/jamesainslie/hwbench/pkg/hwbench/output"
	"github.com/spf13/cobra"
)

// addRunFlags registers the benchmark run flags on cmd. They are defined on
// both the root and the run command, so they override the configuration in
// applyRunFlags instead of being bound to viper.
func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().DurationP("duration", "d", 0, "time box for time-boxed benchmarks (e.g. 7s)")
	cmd.Flags().IntP("threads", "t", 0, "worker threads: 0=benchmark default, -1=physical cores, N=literal")
	cmd.Flags().Int("priority", 0, "nice value to run at when permitted, 0 leaves priority unchanged (default from config)")
	cmd.Flags().String("scratch-dir", "", "directory for the storage benchmark file")
	cmd.Flags().String("metrics-file", "", "write prometheus metrics to this textfile after the run")
	cmd.Flags().Bool("no-tui", false, "disable the live view, print plain progress lines")
	cmd.Flags().Bool("no-rank", false, "do not print leaderboards after the run")
}

// applyRunFlags copies the run flags that were set on the command line into cfg.
func applyRunFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	var err error
	if flags.Changed("duration") {
		if cfg.Benchmark.Duration, err = flags.GetDuration("duration"); err != nil {
			return err
		}
	}
	if flags.Changed("threads") {
		if cfg.Benchmark.Threads, err = flags.GetInt("threads"); err != nil {
			return err
		}
	}
	if flags.Changed("priority") {
		if cfg.Benchmark.Priority, err = flags.GetInt("priority"); err != nil {
			return err
		}
	}
	if flags.Changed("scratch-dir") {
		if cfg.Benchmark.ScratchDir, err = flags.GetString("scratch-dir"); err != nil {
			return err
		}
	}
	if flags.Changed("metrics-file") {
		if cfg.Metrics.File, err = flags.GetString("metrics-file"); err != nil {
			return err
		}
	}
	return nil
}

// formatList names the available leaderboard formats.
func formatList() string {
	return strings.Join(output.Available(), ", ")
}
