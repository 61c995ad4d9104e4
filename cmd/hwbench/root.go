package main

import (
	"fmt"
	"os"

	"github.com/jamesainslie/hwbench/pkg/hwbench/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "hwbench [benchmark...]",
		Short: "Benchmark this machine and rank it against others",
		Long: `hwbench runs CPU, FPU and storage benchmarks across all processor
threads and ranks the results against a dataset of other machines.

Benchmark arguments are names or glob patterns (case-insensitive). Without
arguments every built-in benchmark runs.

Examples:
  hwbench                        # Run every benchmark with the live view
  hwbench "cpu *"                # Run the CPU benchmarks
  hwbench -t 1 "CPU Zlib"        # Single-threaded zlib
  hwbench -o json --no-tui       # Machine-readable leaderboards
  hwbench rank "CPU*" -m 5       # Rank stored results, five rows
  hwbench sync fetch             # Download the shared dataset`,
		Args:              cobra.ArbitraryArgs,
		SilenceUsage:      true,
		PersistentPreRunE: initializeLogging,
		RunE:              runBench,
	}
)

func init() {
	cobra.OnInitialize(initConfig)

	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.config/hwbench/config.yaml)")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "minimal output")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "debug output")
	rootCmd.PersistentFlags().StringP("output", "o", "", "leaderboard format ("+formatList()+")")
	rootCmd.PersistentFlags().IntP("max-results", "m", 0, "leaderboard window size (0=config, negative=all)")
	rootCmd.PersistentFlags().String("dataset", "", "dataset file to rank against")

	// Bind flags to viper
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("output.format", rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag("rank.dataset", rootCmd.PersistentFlags().Lookup("dataset"))

	addRunFlags(rootCmd)
}

// initConfig reads in config file and environment variables.
func initConfig() {
	v := viper.GetViper()
	if err := config.Configure(v, cfgFile); err != nil {
		printError("%v", err)
		return
	}
	if err := config.Read(v); err != nil {
		printError("%v", err)
	}
}

// loadConfig decodes the effective configuration and applies flags that
// override it only when set.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.FromViper(viper.GetViper())
	if err != nil {
		return nil, err
	}
	if cfg.Output.Format == "" {
		cfg.Output.Format = config.DefaultFormat
	}
	if cmd != nil {
		if f := cmd.Flags().Lookup("max-results"); f != nil && f.Changed {
			cfg.Rank.MaxResults, _ = cmd.Flags().GetInt("max-results")
		}
	}
	return cfg, nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// getVerbose returns true if verbose mode is enabled.
func getVerbose() bool {
	return viper.GetBool("verbose")
}

// getQuiet returns true if quiet mode is enabled.
func getQuiet() bool {
	return viper.GetBool("quiet")
}

// printVerbose prints a message if verbose mode is enabled.
func printVerbose(format string, args ...interface{}) {
	if getVerbose() && !getQuiet() {
		fmt.Fprintf(os.Stderr, "[DEBUG] "+format+"\n", args...)
	}
}

// printInfo prints a message if quiet mode is not enabled.
func printInfo(format string, args ...interface{}) {
	if !getQuiet() {
		fmt.Printf(format+"\n", args...)
	}
}

// printError prints an error message to stderr.
func printError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}
