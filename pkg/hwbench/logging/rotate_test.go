package logging_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesainslie/hwbench/pkg/hwbench/logging"
)

func countFiles(t *testing.T, dir, prefix string) int {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("reading %s: %v", dir, err)
	}
	n := 0
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), prefix) {
			n++
		}
	}
	return n
}

func TestRotatingWriterRotatesBySize(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	w, err := logging.NewRotatingWriter(filepath.Join(dir, "size.log"), logging.RotationConfig{
		MaxSize:    256,
		MaxBackups: 10,
	})
	require.NoError(t, err)

	line := []byte(strings.Repeat("x", 60) + "\n")
	for range 20 {
		_, err := w.Write(line)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	if got := countFiles(t, dir, "size"); got < 2 {
		t.Errorf("expected rotated files, got %d log files", got)
	}
}

func TestRotatingWriterKeepsMaxBackups(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	w, err := logging.NewRotatingWriter(filepath.Join(dir, "limit.log"), logging.RotationConfig{
		MaxSize:    128,
		MaxBackups: 2,
	})
	require.NoError(t, err)

	line := []byte(strings.Repeat("y", 40) + "\n")
	for range 60 {
		_, err := w.Write(line)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	assert.LessOrEqual(t, countFiles(t, dir, "limit"), 3)
}

func TestRotatingWriterPrunesOldBackups(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	old := filepath.Join(dir, "age.20200101-000000.000000.log")
	require.NoError(t, os.WriteFile(old, []byte("old\n"), 0o644))
	stale := time.Now().AddDate(0, 0, -40)
	require.NoError(t, os.Chtimes(old, stale, stale))

	unrelated := filepath.Join(dir, "other.log")
	require.NoError(t, os.WriteFile(unrelated, []byte("keep\n"), 0o644))

	w, err := logging.NewRotatingWriter(filepath.Join(dir, "age.log"), logging.RotationConfig{MaxAge: 30})
	require.NoError(t, err)
	require.NoError(t, w.Close())

	assert.NoFileExists(t, old)
	assert.FileExists(t, unrelated)
}

func TestRotatingWriterWriteAfterClose(t *testing.T) {
	t.Parallel()

	w, err := logging.NewRotatingWriter(filepath.Join(t.TempDir(), "closed.log"), logging.DefaultRotationConfig())
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	_, err = w.Write([]byte("late\n"))
	assert.ErrorIs(t, err, os.ErrClosed)
}

func TestDefaultRotationConfig(t *testing.T) {
	t.Parallel()

	cfg := logging.DefaultRotationConfig()
	assert.Equal(t, int64(10<<20), cfg.MaxSize)
	assert.Equal(t, 30, cfg.MaxAge)
	assert.Equal(t, 5, cfg.MaxBackups)
	assert.True(t, cfg.Daily)
}
