package suite

import (
	"os"

	"golang.org/x/sys/unix"
)

// dropCache turns off the unified buffer cache for reads through f.
func dropCache(f *os.File, _ int64) error {
	_, err := unix.FcntlInt(f.Fd(), unix.F_NOCACHE, 1)
	return err
}
