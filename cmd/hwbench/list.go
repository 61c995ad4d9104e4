package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/jamesainslie/hwbench/pkg/hwbench/suite"
	"github.com/jamesainslie/hwbench/pkg/hwbench/types"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list [pattern...]",
	Short: "List the built-in benchmarks",
	Long: `List the built-in benchmarks with this machine's last stored result.

Patterns select benchmarks the same way as the run command.`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	benchmarks, err := suite.Builtin().Select(args...)
	if err != nil {
		return err
	}

	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tGROUP\tBEST\tUNIT\tTHREADS\tREV\tLAST RESULT\tUPDATED")
	for _, b := range benchmarks {
		best := "lowest"
		if b.Descending {
			best = "highest"
		}
		last, updated := "-", "-"
		if rec, ok := s.store.Record(b.Name); ok {
			last = types.FormatScore(rec.Value.Result)
			updated = humanize.Time(rec.UpdatedAt)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
			b.Name, b.Group, best, b.Unit, threadsLabel(b.Hint), b.Revision, last, updated)
	}
	return tw.Flush()
}

// threadsLabel describes a thread-count hint.
func threadsLabel(hint int) string {
	switch {
	case hint > 0:
		return fmt.Sprintf("%d", hint)
	case hint < 0:
		return "cores"
	default:
		return "all"
	}
}
