// Package config provides configuration management for hwbench.
package config

import "time"

// Default configuration values.
const (
	// AppName names the XDG subdirectories.
	AppName = "hwbench"

	// EnvPrefix prefixes environment overrides, e.g. HWBENCH_BENCHMARK_THREADS.
	EnvPrefix = "HWBENCH"

	// DefaultDuration is the time box for time-boxed benchmarks.
	DefaultDuration = 7 * time.Second

	// DefaultThreads lets each benchmark use its own thread hint.
	DefaultThreads = 0

	// DefaultPriority is the nice value benchmarks run at when permitted.
	DefaultPriority = -20

	// DefaultStorageSize is the scratch file size of the storage benchmark.
	DefaultStorageSize = "256MiB"

	// DefaultMaxResults is the leaderboard window size.
	DefaultMaxResults = 10

	// DefaultFormat is the leaderboard output format.
	DefaultFormat = "pretty"

	// DefaultServer hosts the shared benchmark dataset.
	DefaultServer = "https://api.hardinfo2.org"

	// DefaultSyncTimeout bounds one sync request.
	DefaultSyncTimeout = 30 * time.Second

	// DefaultHistoryKeep is how many runs history prune keeps.
	DefaultHistoryKeep = 100

	// DefaultResultMaxAge is how long cached results are kept by cache prune.
	DefaultResultMaxAge = 90 * 24 * time.Hour
)

// DefaultComponentLevels are the per-component log levels.
var DefaultComponentLevels = map[string]string{
	"parallel": "info",
	"suite":    "info",
	"dataset":  "warn",
	"results":  "info",
	"sync":     "info",
	"tui":      "info",
}
