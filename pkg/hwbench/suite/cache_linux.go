package suite

import (
	"os"

	"golang.org/x/sys/unix"
)

// dropCache evicts the cached pages of f so reads go to the device.
// The file must be synced first; dirty pages are not dropped.
func dropCache(f *os.File, size int64) error {
	return unix.Fadvise(int(f.Fd()), 0, size, unix.FADV_DONTNEED)
}
