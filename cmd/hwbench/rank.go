package main

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/gobwas/glob"
	"github.com/jamesainslie/hwbench/pkg/hwbench/config"
	"github.com/jamesainslie/hwbench/pkg/hwbench/dataset"
	"github.com/jamesainslie/hwbench/pkg/hwbench/rank"
	"github.com/jamesainslie/hwbench/pkg/hwbench/suite"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var rankCmd = &cobra.Command{
	Use:   "rank [benchmark...]",
	Short: "Rank stored results against the dataset",
	Long: `Rank this machine's stored results against the benchmark dataset
without running anything.

Arguments are benchmark names or glob patterns and may name any benchmark in
the dataset, not only the built-in ones. Without arguments every benchmark
with a stored result is ranked.

With --watch the leaderboards are redrawn whenever the dataset file changes,
e.g. after 'hwbench sync fetch' in another terminal.`,
	RunE: runRank,
}

func init() {
	rankCmd.Flags().BoolP("watch", "w", false, "redraw when the dataset file changes")
	rootCmd.AddCommand(rankCmd)
}

func runRank(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	ds := loadDataset(s.cfg)
	names, err := rankNames(args, s.store.Names(), ds)
	if err != nil {
		return err
	}

	draw := func(ds dataset.Dataset) error {
		boards := make([]*rank.Board, 0, len(names))
		for _, name := range names {
			boards = append(boards, s.board(name, ds))
		}
		return renderBoards(os.Stdout, s.cfg, boards)
	}
	if err := draw(ds); err != nil {
		return err
	}

	watch, _ := cmd.Flags().GetBool("watch")
	if !watch {
		return nil
	}
	return watchDataset(cmd, s.cfg, draw)
}

// watchDataset redraws until interrupted.
func watchDataset(cmd *cobra.Command, cfg *config.Config, draw func(dataset.Dataset) error) error {
	path, ok := datasetPath(cfg)
	if !ok {
		path = dataset.UserPath()
	}
	printInfo("Watching %s (Ctrl+C to stop)", path)

	ctx, stop := signalContext(cmd)
	defer stop()

	redraw := isatty.IsTerminal(os.Stdout.Fd())
	return dataset.Watch(ctx, path, 0, func(ds dataset.Dataset) {
		if redraw {
			fmt.Print("\033[H\033[2J")
		}
		if err := draw(ds); err != nil {
			printError("%v", err)
		}
	})
}

// rankNames resolves patterns against the built-in benchmarks and the
// dataset. Without patterns it returns the benchmarks that have a stored
// result. Built-in benchmarks come first in registration order, followed by
// the remaining dataset and stored benchmarks sorted by name.
func rankNames(patterns, stored []string, ds dataset.Dataset) ([]string, error) {
	var candidates []string
	for _, b := range suite.Builtin().List() {
		candidates = append(candidates, b.Name)
	}
	extra := append(ds.Benchmarks(), stored...)
	slices.Sort(extra)
	for _, name := range extra {
		if !slices.Contains(candidates, name) {
			candidates = append(candidates, name)
		}
	}

	if len(patterns) == 0 {
		var out []string
		for _, name := range candidates {
			if slices.Contains(stored, name) {
				out = append(out, name)
			}
		}
		if len(out) == 0 {
			return nil, fmt.Errorf("no stored results; run some benchmarks first or name one to rank")
		}
		return out, nil
	}

	var out []string
	for _, p := range patterns {
		g, err := glob.Compile(strings.ToLower(p))
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", p, err)
		}
		matched := false
		for _, name := range candidates {
			if g.Match(strings.ToLower(name)) {
				matched = true
				if !slices.Contains(out, name) {
					out = append(out, name)
				}
			}
		}
		if !matched {
			return nil, fmt.Errorf("%w: %q", suite.ErrUnknown, p)
		}
	}
	return out, nil
}
