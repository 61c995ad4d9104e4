package dataset

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloads := make(chan Dataset, 4)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, 20*time.Millisecond, func(ds Dataset) { reloads <- ds })
	}()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)

	tmp := filepath.Join(dir, "incoming.tmp")
	require.NoError(t, os.WriteFile(tmp, []byte(sample), 0o644))
	require.NoError(t, os.Rename(tmp, path))

	select {
	case ds := <-reloads:
		assert.Equal(t, 3, ds.Len())
	case <-time.After(5 * time.Second):
		t.Fatal("no reload after dataset change")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not return after cancel")
	}
}
