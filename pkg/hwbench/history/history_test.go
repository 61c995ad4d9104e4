package history

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesainslie/hwbench/pkg/hwbench/types"
)

func newTestLog(t *testing.T) *Log {
	t.Helper()
	l, err := New(filepath.Join(t.TempDir(), "history"))
	require.NoError(t, err)
	return l
}

func TestNewRequiresDir(t *testing.T) {
	t.Parallel()
	_, err := New("")
	assert.Error(t, err)
}

func TestAppendAndGet(t *testing.T) {
	t.Parallel()
	l := newTestLog(t)

	run := &Run{
		MachineID: "m1",
		CPU:       "Test CPU",
		Duration:  3 * time.Second,
		Results: []Result{
			{Benchmark: "CPU Zlib", Value: types.Value{Result: 10, ElapsedTime: 1, ThreadsUsed: 2, Revision: 1}},
			{Benchmark: "CPU Fibonacci", Value: types.Failed(), Error: "worker 0 panicked"},
		},
	}
	require.NoError(t, l.Append(run))
	require.NotEmpty(t, run.ID)
	require.False(t, run.Timestamp.IsZero())
	assert.Equal(t, "10.000000; 1.000000; 2; 1", run.Results[0].Text)

	got, err := l.Get(run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, "m1", got.MachineID)
	assert.Equal(t, 1, got.Failed())
	assert.Equal(t, run.Results[0].Value, got.Results[0].Value)

	byPrefix, err := l.Get(run.ID[:8])
	require.NoError(t, err)
	assert.Equal(t, run.ID, byPrefix.ID)

	_, err = l.Get("does-not-exist")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = l.Get("")
	assert.Error(t, err)

	entries, err := os.ReadDir(l.Dir())
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".tmp")
	}
}

func TestGetAmbiguousPrefix(t *testing.T) {
	t.Parallel()
	l := newTestLog(t)

	require.NoError(t, l.Append(&Run{ID: "abc-1"}))
	require.NoError(t, l.Append(&Run{ID: "abc-2"}))

	_, err := l.Get("abc")
	assert.ErrorIs(t, err, ErrAmbiguous)

	got, err := l.Get("abc-2")
	require.NoError(t, err)
	assert.Equal(t, "abc-2", got.ID)
}

func TestListNewestFirst(t *testing.T) {
	t.Parallel()
	l := newTestLog(t)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"first", "second", "third"} {
		require.NoError(t, l.Append(&Run{ID: id, Timestamp: base.Add(time.Duration(i) * time.Minute)}))
	}

	runs, err := l.List(0)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, "third", runs[0].ID)
	assert.Equal(t, "first", runs[2].ID)

	runs, err = l.List(2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "second", runs[1].ID)
}

func TestListMissingDir(t *testing.T) {
	t.Parallel()
	l := newTestLog(t)

	runs, err := l.List(10)
	require.NoError(t, err)
	assert.NotNil(t, runs)
	assert.Empty(t, runs)
}

func TestListSkipsCorrupt(t *testing.T) {
	t.Parallel()
	l := newTestLog(t)

	require.NoError(t, l.Append(&Run{ID: "good"}))
	require.NoError(t, os.WriteFile(filepath.Join(l.Dir(), "29990101T000000.000000000Z_bad.json"), []byte("{"), 0o644))

	runs, err := l.List(0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "good", runs[0].ID)
}

func TestPrune(t *testing.T) {
	t.Parallel()
	l := newTestLog(t)

	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	for i := range 5 {
		require.NoError(t, l.Append(&Run{ID: string(rune('a' + i)), Timestamp: now.Add(-time.Duration(i) * 24 * time.Hour)}))
	}

	removed, err := l.Prune(4, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	removed, err = l.Prune(0, 36*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	runs, err := l.List(0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "a", runs[0].ID)
	assert.Equal(t, "b", runs[1].ID)
}
