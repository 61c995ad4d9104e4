package results

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
)

// ErrLocked is returned when another running process holds the database.
var ErrLocked = errors.New("result database is in use")

// lockFile is the file Badger writes its owner pid to.
const lockFile = "LOCK"

// lockHolder returns the pid recorded in dir's lock file if that process is
// still running and is not this one.
func lockHolder(dir string) (int, bool) {
	data, err := os.ReadFile(filepath.Join(dir, lockFile))
	if err != nil {
		return 0, false
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 || pid == os.Getpid() {
		return 0, false
	}
	return pid, processRunning(pid)
}

// processRunning checks if a process with the given pid exists.
func processRunning(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = process.Signal(syscall.Signal(0))
	return err == nil || errors.Is(err, syscall.EPERM)
}
