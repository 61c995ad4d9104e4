package suite

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

var (
	// ErrDuplicate is returned when registering a name twice.
	ErrDuplicate = errors.New("benchmark already registered")

	// ErrUnknown is returned for a name or pattern that matches nothing.
	ErrUnknown = errors.New("no such benchmark")
)

// Registry holds benchmarks in registration order.
type Registry struct {
	byName map[string]*Benchmark
	order  []*Benchmark
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*Benchmark)}
}

// Register adds b.
func (r *Registry) Register(b *Benchmark) error {
	if b.Name == "" || b.run == nil {
		return fmt.Errorf("invalid benchmark %q", b.Name)
	}
	if _, ok := r.byName[b.Name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicate, b.Name)
	}
	r.byName[b.Name] = b
	r.order = append(r.order, b)
	return nil
}

// Get returns the benchmark called name.
func (r *Registry) Get(name string) (*Benchmark, bool) {
	b, ok := r.byName[name]
	return b, ok
}

// List returns every benchmark in registration order.
func (r *Registry) List() []*Benchmark {
	return append([]*Benchmark(nil), r.order...)
}

// Select returns the benchmarks matching any of patterns, in registration
// order. Patterns are case-insensitive globs such as "cpu*" or "*zlib".
// No patterns selects everything. A pattern matching nothing is an error.
func (r *Registry) Select(patterns ...string) ([]*Benchmark, error) {
	if len(patterns) == 0 {
		return r.List(), nil
	}

	matchers := make([]glob.Glob, len(patterns))
	for i, p := range patterns {
		g, err := glob.Compile(strings.ToLower(p))
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", p, err)
		}
		matchers[i] = g
	}

	hit := make([]bool, len(patterns))
	var out []*Benchmark
	for _, b := range r.order {
		name := strings.ToLower(b.Name)
		selected := false
		for i, g := range matchers {
			if g.Match(name) {
				hit[i] = true
				selected = true
			}
		}
		if selected {
			out = append(out, b)
		}
	}

	for i, ok := range hit {
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknown, patterns[i])
		}
	}
	return out, nil
}

// Builtin returns a registry with every built-in benchmark.
func Builtin() *Registry {
	r := NewRegistry()
	for _, b := range []*Benchmark{
		Fibonacci(),
		NQueens(),
		Zlib(),
		CryptoHash(),
		XXHash(),
		FFT(),
		StorageRead(),
	} {
		if err := r.Register(b); err != nil {
			panic(err)
		}
	}
	return r
}
