//go:build linux || darwin

package suite

import (
	"golang.org/x/sys/unix"
)

// raisePriority sets the process nice value to nice and returns a function
// restoring the previous value.
func raisePriority(nice int) (func(), error) {
	raw, err := unix.Getpriority(unix.PRIO_PROCESS, 0)
	if err != nil {
		return func() {}, err
	}
	prev := niceFromRaw(raw)
	if prev <= nice {
		return func() {}, nil
	}
	if err := unix.Setpriority(unix.PRIO_PROCESS, 0, nice); err != nil {
		return func() {}, err
	}
	return func() {
		if err := unix.Setpriority(unix.PRIO_PROCESS, 0, prev); err != nil {
			logger.Debug("restore priority failed", "nice", prev, "error", err)
		}
	}, nil
}
