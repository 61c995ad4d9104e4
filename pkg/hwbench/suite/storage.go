package suite

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/jamesainslie/hwbench/pkg/hwbench/types"
)

const (
	// DefaultStorageSize is the size of the scratch file read by StorageRead.
	DefaultStorageSize = 256 << 20

	storageBlock = 1 << 20
)

// StorageRead measures sequential read throughput of a scratch file in MiB/s.
// Each worker reads a contiguous run of 1 MiB blocks.
func StorageRead() *Benchmark {
	return &Benchmark{
		Name:       "Storage Read",
		Group:      "Storage",
		Revision:   1,
		Descending: true,
		Unit:       "MiB/s",
		run:        runStorageRead,
	}
}

type storageReader struct {
	f *os.File

	mu  sync.Mutex
	err error
}

func (s *storageReader) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err == nil {
		s.err = err
	}
}

func (s *storageReader) readRange(start, end, _ int) (float64, bool) {
	buf := make([]byte, storageBlock)
	var n int64
	for i := start; i <= end; i++ {
		got, err := s.f.ReadAt(buf, int64(i)*storageBlock)
		n += int64(got)
		if err != nil && !errors.Is(err, io.EOF) {
			s.fail(fmt.Errorf("read block %d: %w", i, err))
			return float64(n), true
		}
	}
	return float64(n), true
}

func runStorageRead(ctx context.Context, env Env, b *Benchmark) (types.Value, error) {
	size := env.StorageSize
	if size <= 0 {
		size = DefaultStorageSize
	}
	blocks := int((size + storageBlock - 1) / storageBlock)

	path, err := writeScratch(env.ScratchDir, size)
	if err != nil {
		return types.Failed(), err
	}
	defer os.Remove(path)

	f, err := os.Open(path)
	if err != nil {
		return types.Failed(), fmt.Errorf("open scratch file: %w", err)
	}
	defer f.Close()
	if err := dropCache(f, size); err != nil && !errors.Is(err, errors.ErrUnsupported) {
		logger.Warn("reads may be served from the page cache", "path", path, "error", err)
	}

	r := &storageReader{f: f}
	v, err := env.Coordinator.ParallelFor(ctx, env.hint(b), 0, blocks, r.readRange)
	if err != nil {
		return v, err
	}
	if r.err != nil {
		return types.Failed(), r.err
	}
	return throughput(v), nil
}

// writeScratch fills a new temp file in dir with size bytes and syncs it.
func writeScratch(dir string, size int64) (string, error) {
	f, err := os.CreateTemp(dir, "hwbench-storage-*.bin")
	if err != nil {
		return "", fmt.Errorf("create scratch file: %w", err)
	}
	path := f.Name()

	block := randomBlock(storageBlock)
	for written := int64(0); written < size; {
		chunk := block
		if rem := size - written; rem < int64(len(chunk)) {
			chunk = chunk[:rem]
		}
		n, err := f.Write(chunk)
		written += int64(n)
		if err != nil {
			f.Close()
			os.Remove(path)
			return "", fmt.Errorf("write scratch file: %w", err)
		}
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("sync scratch file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}
