package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jamesainslie/hwbench/pkg/hwbench/history"
	"github.com/jamesainslie/hwbench/pkg/hwbench/types"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View run history",
	Long: `View the history of benchmark runs.

Every run is recorded with the results of each benchmark it ran,
including failed ones.`,
	RunE: runHistory,
}

var historyShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show details of a specific run",
	Long:  `Display every result of a run by its ID or a unique ID prefix.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Clean up old runs",
	Long:  `Keep the newest runs and remove runs older than --older-than.`,
	RunE:  runHistoryClean,
}

var (
	historyLimit     int
	historyKeep      int
	historyOlderThan time.Duration
)

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "l", 20, "maximum number of runs to show")
	historyCleanCmd.Flags().IntVar(&historyKeep, "keep", 0, "number of runs to keep (0=config)")
	historyCleanCmd.Flags().DurationVar(&historyOlderThan, "older-than", 0, "also remove runs older than this (e.g. 720h)")

	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyCleanCmd)
	rootCmd.AddCommand(historyCmd)
}

// getHistory returns the run log in the configured directory.
func getHistory(cmd *cobra.Command) (*history.Log, int, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, 0, err
	}
	log, err := history.New(cfg.HistoryDir())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open history: %w", err)
	}
	return log, cfg.History.Keep, nil
}

// runHistory lists recent runs.
func runHistory(cmd *cobra.Command, args []string) error {
	log, _, err := getHistory(cmd)
	if err != nil {
		return err
	}

	runs, err := log.List(historyLimit)
	if err != nil {
		return fmt.Errorf("failed to list history: %w", err)
	}

	if len(runs) == 0 {
		printInfo("No runs recorded.")
		printInfo("Run 'hwbench' to benchmark this machine.")
		return nil
	}

	fmt.Printf("\n%-36s  %-20s  %-10s  %-7s  %-8s\n", "ID", "WHEN", "DURATION", "RESULTS", "FAILED")
	fmt.Println(strings.Repeat("-", 90))

	for _, run := range runs {
		fmt.Printf("%-36s  %-20s  %-10s  %-7d  %-8d\n",
			run.ID,
			humanize.Time(run.Timestamp),
			run.Duration.Round(time.Second),
			len(run.Results),
			run.Failed(),
		)
	}

	fmt.Println(strings.Repeat("-", 90))
	fmt.Printf("\nShowing %d runs. Use --limit to see more.\n", len(runs))
	fmt.Println("Use 'hwbench history show <id>' for details on a specific run.")
	return nil
}

// runHistoryShow displays details of a specific run.
func runHistoryShow(cmd *cobra.Command, args []string) error {
	log, _, err := getHistory(cmd)
	if err != nil {
		return err
	}

	run, err := log.Get(args[0])
	if err != nil {
		return fmt.Errorf("failed to get run: %w", err)
	}

	fmt.Println("\nRun Details")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("ID:         %s\n", run.ID)
	fmt.Printf("Timestamp:  %s\n", run.Timestamp.Local().Format("2006-01-02 15:04:05 MST"))
	fmt.Printf("Machine:    %s\n", run.MachineID)
	if run.CPU != "" {
		fmt.Printf("CPU:        %s\n", run.CPU)
	}
	fmt.Printf("Duration:   %s\n", run.Duration.Round(time.Millisecond))

	fmt.Println("\nResults:")
	fmt.Println(strings.Repeat("-", 60))
	fmt.Printf("%-20s  %-14s  %-8s  %s\n", "BENCHMARK", "RESULT", "THREADS", "ELAPSED")
	fmt.Println(strings.Repeat("-", 60))
	for _, res := range run.Results {
		if res.Error != "" {
			fmt.Printf("%-20s  %-14s  %s\n", truncateString(res.Benchmark, 20), "failed", res.Error)
			continue
		}
		fmt.Printf("%-20s  %-14s  %-8d  %.2fs\n",
			truncateString(res.Benchmark, 20),
			types.FormatScore(res.Value.Result),
			res.Value.ThreadsUsed,
			res.Value.ElapsedTime,
		)
	}
	return nil
}

// runHistoryClean removes old runs.
func runHistoryClean(cmd *cobra.Command, args []string) error {
	log, keep, err := getHistory(cmd)
	if err != nil {
		return err
	}
	if historyKeep > 0 {
		keep = historyKeep
	}

	removed, err := log.Prune(keep, historyOlderThan)
	if err != nil {
		return fmt.Errorf("failed to clean history: %w", err)
	}

	printInfo("Removed %d runs.", removed)
	return nil
}

// truncateString truncates a string to maxLen, adding "..." if truncated.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
