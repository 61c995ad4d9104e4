// Package results holds the benchmark results of this machine, keyed by
// benchmark name. A Store lives in memory and can be backed by a Badger
// database so results survive between runs.
package results

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jamesainslie/hwbench/pkg/hwbench/logging"
	"github.com/jamesainslie/hwbench/pkg/hwbench/types"
)

var logger = logging.Get("results")

// Store maps benchmark names to this machine's latest record.
// It is safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	records map[string]Record
	db      *DB
	machine string
	now     func() time.Time
}

// NewStore creates an in-memory store.
func NewStore() *Store {
	return &Store{records: make(map[string]Record), now: time.Now}
}

// OpenStore creates a store backed by db for machine and loads its stored records.
func OpenStore(db *DB, machine string) (*Store, error) {
	s := NewStore()
	s.db = db
	s.machine = machine

	recs, err := db.Scan(machine)
	if err != nil {
		return nil, fmt.Errorf("loading stored results: %w", err)
	}
	s.records = recs
	logger.Debug("loaded stored results", "machine", machine, "count", len(recs))
	return s, nil
}

// Set records v as the latest result of benchmark, overwriting any earlier one.
// Persistence failures are returned but the in-memory value is kept.
func (s *Store) Set(benchmark string, v types.Value) error {
	rec := Record{Value: v, UpdatedAt: s.now()}

	s.mu.Lock()
	s.records[benchmark] = rec
	s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	if err := s.db.Put(s.machine, benchmark, rec); err != nil {
		return fmt.Errorf("persisting %q: %w", benchmark, err)
	}
	return nil
}

// Get returns the latest value of benchmark.
func (s *Store) Get(benchmark string) (types.Value, bool) {
	rec, ok := s.Record(benchmark)
	if !ok {
		return types.Empty(), false
	}
	return rec.Value, true
}

// Record returns the latest record of benchmark.
func (s *Store) Record(benchmark string) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[benchmark]
	return rec, ok
}

// Names returns the benchmark names with a stored result, sorted.
func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.records))
	for name := range s.records {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns a copy of every stored record.
func (s *Store) All() map[string]Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]Record, len(s.records))
	for k, v := range s.records {
		out[k] = v
	}
	return out
}

// Forget removes the result of benchmark.
func (s *Store) Forget(benchmark string) error {
	s.mu.Lock()
	delete(s.records, benchmark)
	s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	return s.db.Delete(s.machine, benchmark)
}

// Clear removes every result of this machine.
func (s *Store) Clear() error {
	s.mu.Lock()
	s.records = make(map[string]Record)
	s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	_, err := s.db.DeleteMachine(s.machine)
	return err
}
