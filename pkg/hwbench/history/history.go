// Package history keeps a log of benchmark runs, one JSON file per run.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jamesainslie/hwbench/pkg/hwbench/types"
)

// ErrNotFound is returned by Get when no run matches the id.
var ErrNotFound = errors.New("run not found")

// ErrAmbiguous is returned by Get when an id prefix matches several runs.
var ErrAmbiguous = errors.New("run id prefix is ambiguous")

const (
	fileExt     = ".json"
	stampLayout = "20060102T150405.000000000Z"
)

// Result is one benchmark outcome within a run.
type Result struct {
	Benchmark string      `json:"benchmark"`
	Value     types.Value `json:"value"`
	Text      string      `json:"text"`
	Error     string      `json:"error,omitempty"`
}

// Run is one invocation of the benchmark runner.
type Run struct {
	ID        string        `json:"id"`
	Timestamp time.Time     `json:"timestamp"`
	MachineID string        `json:"machine_id"`
	CPU       string        `json:"cpu,omitempty"`
	Duration  time.Duration `json:"duration"`
	Results   []Result      `json:"results"`
}

// Failed returns how many results of r did not produce a value.
func (r *Run) Failed() int {
	n := 0
	for _, res := range r.Results {
		if !res.Value.Valid() {
			n++
		}
	}
	return n
}

// Log stores runs as JSON files in a directory.
type Log struct {
	dir string
	mu  sync.Mutex
	now func() time.Time
}

// New creates a Log in dir. The directory is created on first write.
func New(dir string) (*Log, error) {
	if dir == "" {
		return nil, errors.New("history directory cannot be empty")
	}
	return &Log{dir: dir, now: time.Now}, nil
}

// Dir returns the directory holding the run files.
func (l *Log) Dir() string {
	return l.dir
}

// Append assigns run an id and timestamp when unset and writes it.
func (l *Log) Append(run *Run) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.Timestamp.IsZero() {
		run.Timestamp = l.now().UTC()
	}
	for i := range run.Results {
		if run.Results[i].Text == "" {
			run.Results[i].Text = run.Results[i].Value.String()
		}
	}

	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return fmt.Errorf("creating history directory: %w", err)
	}

	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding run: %w", err)
	}

	path := filepath.Join(l.dir, fileName(run))
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing run: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("committing run: %w", err)
	}
	return nil
}

// fileName sorts chronologically: "<utc stamp>_<id>.json".
func fileName(run *Run) string {
	return run.Timestamp.UTC().Format(stampLayout) + "_" + run.ID + fileExt
}

// names returns run file names, newest first.
func (l *Log) names() ([]string, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading history directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), fileExt) {
			names = append(names, e.Name())
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(names)))
	return names, nil
}

func (l *Log) read(name string) (*Run, error) {
	data, err := os.ReadFile(filepath.Join(l.dir, name))
	if err != nil {
		return nil, err
	}
	var run Run
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", name, err)
	}
	return &run, nil
}

// List returns up to limit runs, newest first. A non-positive limit returns all.
// Unreadable files are skipped.
func (l *Log) List(limit int) ([]Run, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	names, err := l.names()
	if err != nil {
		return nil, err
	}

	runs := []Run{}
	for _, name := range names {
		if limit > 0 && len(runs) >= limit {
			break
		}
		run, err := l.read(name)
		if err != nil {
			continue
		}
		runs = append(runs, *run)
	}
	return runs, nil
}

// Get returns the run whose id equals or starts with id.
func (l *Log) Get(id string) (*Run, error) {
	if id == "" {
		return nil, errors.New("run id cannot be empty")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	names, err := l.names()
	if err != nil {
		return nil, err
	}

	var match string
	for _, name := range names {
		runID := strings.TrimSuffix(name[strings.IndexByte(name, '_')+1:], fileExt)
		if runID == id {
			match = name
			break
		}
		if strings.HasPrefix(runID, id) {
			if match != "" {
				return nil, fmt.Errorf("%w: %s", ErrAmbiguous, id)
			}
			match = name
		}
	}
	if match == "" {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return l.read(match)
}

// Prune keeps the newest keep runs and removes runs older than maxAge.
// A non-positive keep or maxAge disables that limit. It returns the number
// of runs removed.
func (l *Log) Prune(keep int, maxAge time.Duration) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	names, err := l.names()
	if err != nil {
		return 0, err
	}

	cutoff := l.now().Add(-maxAge).UTC()
	removed := 0
	for i, name := range names {
		stale := false
		if keep > 0 && i >= keep {
			stale = true
		}
		if maxAge > 0 {
			stamp, err := time.Parse(stampLayout, name[:min(len(stampLayout), len(name))])
			if err == nil && stamp.Before(cutoff) {
				stale = true
			}
		}
		if !stale {
			continue
		}
		if err := os.Remove(filepath.Join(l.dir, name)); err != nil {
			return removed, fmt.Errorf("removing %s: %w", name, err)
		}
		removed++
	}
	return removed, nil
}
