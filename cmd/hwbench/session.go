package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/jamesainslie/hwbench/pkg/hwbench/config"
	"github.com/jamesainslie/hwbench/pkg/hwbench/dataset"
	"github.com/jamesainslie/hwbench/pkg/hwbench/output"
	"github.com/jamesainslie/hwbench/pkg/hwbench/rank"
	"github.com/jamesainslie/hwbench/pkg/hwbench/results"
	"github.com/jamesainslie/hwbench/pkg/hwbench/suite"
	"github.com/jamesainslie/hwbench/pkg/hwbench/topology"
	"github.com/jamesainslie/hwbench/pkg/hwbench/types"
	"github.com/spf13/cobra"
)

// session is the state shared by commands that read or write this
// machine's results.
type session struct {
	cfg     *config.Config
	machine rank.Machine
	db      *results.DB
	store   *results.Store
}

// openSession loads the configuration, describes this machine and opens its
// stored results. Close must be called to release the database.
func openSession(cmd *cobra.Command) (*session, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	machine := dataset.ThisMachine(topology.Host().Resources())
	machine.UserNote = cfg.Sync.UserNote

	db, err := results.OpenDB(config.DefaultDBPath())
	if err != nil {
		return nil, fmt.Errorf("opening result database: %w", err)
	}
	store, err := results.OpenStore(db, machine.ID)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	printVerbose("Machine %s (%s)", machine.ID, machine.CPUName)
	return &session{cfg: cfg, machine: machine, db: db, store: store}, nil
}

func (s *session) Close() error {
	return s.db.Close()
}

// values returns the stored value of every benchmark.
func (s *session) values() map[string]types.Value {
	all := s.store.All()
	out := make(map[string]types.Value, len(all))
	for name, rec := range all {
		out[name] = rec.Value
	}
	return out
}

// board ranks this machine's stored result of name against ds.
func (s *session) board(name string, ds dataset.Dataset) *rank.Board {
	var local *rank.Entry
	if v, ok := s.store.Get(name); ok {
		local = &rank.Entry{Machine: s.machine, Value: v}
	}
	return rank.Rank(name, local, ds.Entries(name), rank.Options{
		Descending: descendingFor(name),
		MaxResults: s.cfg.Rank.MaxResults,
	})
}

// descendingFor reports whether a higher result of name is better. Unknown
// benchmarks from a shared dataset are treated as higher-is-better.
func descendingFor(name string) bool {
	if b, ok := suite.Builtin().Get(name); ok {
		return b.Descending
	}
	return true
}

// datasetPath returns the configured dataset or the first one found in the
// XDG directories.
func datasetPath(cfg *config.Config) (string, bool) {
	if cfg.Rank.Dataset != "" {
		return cfg.Rank.Dataset, true
	}
	return dataset.Find()
}

// loadDataset loads the dataset to rank against. A missing dataset ranks
// this machine alone.
func loadDataset(cfg *config.Config) dataset.Dataset {
	path, ok := datasetPath(cfg)
	if !ok {
		printVerbose("No dataset found; run 'hwbench sync fetch' to download one")
		return dataset.Dataset{}
	}
	ds := dataset.Load(path)
	printVerbose("Loaded %d results from %s", ds.Len(), path)
	return ds
}

// renderBoards writes every board in the configured format, separated by
// blank lines.
func renderBoards(w io.Writer, cfg *config.Config, boards []*rank.Board) error {
	f, err := output.Get(cfg.Output.Format)
	if err != nil {
		return err
	}
	if tf, ok := f.(*output.TemplateFormatter); ok && cfg.Output.Template != "" {
		tf.SetTemplate(cfg.Output.Template)
	}

	var buf bytes.Buffer
	for i, b := range boards {
		if i > 0 {
			buf.WriteString("\n")
		}
		if err := f.Format(&buf, b); err != nil {
			return fmt.Errorf("formatting %s: %w", b.Benchmark, err)
		}
	}
	_, err = w.Write(buf.Bytes())
	return err
}

// signalContext returns a context cancelled on interrupt or SIGTERM.
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
}
