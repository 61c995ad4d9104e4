package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/jamesainslie/hwbench/cmd/hwbench/tui"
	"github.com/jamesainslie/hwbench/pkg/hwbench/history"
	"github.com/jamesainslie/hwbench/pkg/hwbench/logging"
	"github.com/jamesainslie/hwbench/pkg/hwbench/metrics"
	"github.com/jamesainslie/hwbench/pkg/hwbench/parallel"
	"github.com/jamesainslie/hwbench/pkg/hwbench/rank"
	"github.com/jamesainslie/hwbench/pkg/hwbench/suite"
	"github.com/jamesainslie/hwbench/pkg/hwbench/types"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run [benchmark...]",
	Short: "Run benchmarks",
	Long: `Run the selected benchmarks, store the results and print a leaderboard
for each one. This is also what hwbench does without a subcommand.

Benchmark arguments are names or glob patterns (case-insensitive).`,
	RunE: runBench,
}

func init() {
	addRunFlags(runCmd)
	rootCmd.AddCommand(runCmd)
}

// runBench runs the selected benchmarks, stores their results and prints a
// leaderboard for each one.
func runBench(cmd *cobra.Command, args []string) error {
	benchmarks, err := suite.Builtin().Select(args...)
	if err != nil {
		return err
	}

	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()
	cfg := s.cfg
	if err := applyRunFlags(cmd, cfg); err != nil {
		return err
	}

	storageSize, err := types.ParseSize(cfg.Benchmark.StorageSize)
	if err != nil {
		return fmt.Errorf("invalid storage_size: %w", err)
	}

	hist, err := history.New(cfg.HistoryDir())
	if err != nil {
		return err
	}

	ctx, stop := signalContext(cmd)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := metrics.New()
	copts := parallel.DefaultOptions()
	copts.Metrics = m

	opts := suite.RunnerOptions{
		Env: suite.Env{
			Duration:    cfg.Benchmark.Duration,
			Threads:     cfg.Benchmark.Threads,
			ScratchDir:  cfg.Benchmark.ScratchDir,
			StorageSize: storageSize,
		},
		Store:     s.store,
		History:   hist,
		Metrics:   m,
		MachineID: s.machine.ID,
		CPU:       s.machine.CPUName,
		Priority:  cfg.Benchmark.Priority,
	}

	var run *history.Run
	var runErr error
	if useTUI(cmd) {
		// The live view owns the terminal, so console logging is switched off.
		_ = logging.Init(loggingConfig(cfg, true))

		started := time.Now()
		prog := tui.NewProgram(version, cancel)
		copts.OnProgress = prog.Progress
		opts.OnStart = func(b *suite.Benchmark, i, n int) { prog.Start(b.Name, i, n) }
		opts.OnResult = func(b *suite.Benchmark, v types.Value, err error) { prog.Result(b.Name, b.Unit, v, err) }
		opts.Env.Coordinator = parallel.New(copts)
		runner := suite.NewRunner(opts)

		finished := make(chan struct{})
		go func() {
			defer close(finished)
			run, runErr = runner.Run(ctx, benchmarks)
			prog.Done(runErr)
		}()
		if err := prog.Run(); err != nil {
			cancel()
			printError("live view failed: %v", err)
		}
		<-finished
		replayWarnings(os.Stderr, started)
	} else {
		opts.OnStart = func(b *suite.Benchmark, i, n int) {
			printInfo("[%d/%d] %s", i+1, n, b.Name)
		}
		opts.OnResult = func(b *suite.Benchmark, v types.Value, err error) {
			if err != nil {
				printError("%s: %v", b.Name, err)
				return
			}
			printInfo("      %s %s (%d threads, %.2fs)", types.FormatScore(v.Result), b.Unit, v.ThreadsUsed, v.ElapsedTime)
		}
		opts.Env.Coordinator = parallel.New(copts)
		run, runErr = suite.NewRunner(opts).Run(ctx, benchmarks)
	}

	if cfg.Metrics.File != "" {
		if err := m.WriteTextfile(cfg.Metrics.File); err != nil {
			printError("writing metrics: %v", err)
		} else {
			printVerbose("Wrote metrics to %s", cfg.Metrics.File)
		}
	}

	if run != nil && run.ID != "" {
		printVerbose("Recorded run %s", run.ID)
	}
	if removed, err := hist.Prune(cfg.History.Keep, 0); err != nil {
		printVerbose("Pruning history failed: %v", err)
	} else if removed > 0 {
		printVerbose("Pruned %d old runs", removed)
	}
	if runErr != nil {
		if errors.Is(runErr, context.Canceled) {
			printInfo("Interrupted")
			return nil
		}
		return runErr
	}

	noRank, _ := cmd.Flags().GetBool("no-rank")
	if noRank || run == nil {
		return nil
	}

	ds := loadDataset(cfg)
	boards := make([]*rank.Board, 0, len(run.Results))
	for _, res := range run.Results {
		if res.Value.Ran() {
			boards = append(boards, s.board(res.Benchmark, ds))
		}
	}
	if len(boards) == 0 {
		return nil
	}
	if !getQuiet() {
		fmt.Println()
	}
	return renderBoards(os.Stdout, cfg, boards)
}

// useTUI reports whether the live view should be shown. It needs a terminal
// on stdout and is off with --no-tui or --quiet.
func useTUI(cmd *cobra.Command) bool {
	if noTUI, _ := cmd.Flags().GetBool("no-tui"); noTUI {
		return false
	}
	if getQuiet() {
		return false
	}
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// replayWarnings prints the warnings and errors logged since t. They were
// hidden while the live view owned the terminal.
func replayWarnings(w io.Writer, t time.Time) {
	for _, e := range logging.RecentEntries(0) {
		if e.Level < logging.LevelWarn || e.Time.Before(t) {
			continue
		}
		fmt.Fprintf(w, "%s %s: %s\n", strings.ToUpper(e.Level.String()), e.Component, e.Message)
	}
}
