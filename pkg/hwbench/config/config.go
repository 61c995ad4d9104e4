package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

// RotationConfig configures log file rotation.
type RotationConfig struct {
	MaxSize    string `mapstructure:"max_size"`
	MaxAge     int    `mapstructure:"max_age"`
	MaxBackups int    `mapstructure:"max_backups"`
	Daily      bool   `mapstructure:"daily"`
}

// LoggingConfig configures application logging.
type LoggingConfig struct {
	Level      string            `mapstructure:"level"`
	Path       string            `mapstructure:"path"`
	Rotation   RotationConfig    `mapstructure:"rotation"`
	Components map[string]string `mapstructure:"components"`
}

// BenchmarkConfig controls how benchmarks run.
type BenchmarkConfig struct {
	Duration    time.Duration `mapstructure:"duration"`
	Threads     int           `mapstructure:"threads"`
	Priority    int           `mapstructure:"priority"`
	ScratchDir  string        `mapstructure:"scratch_dir"`
	StorageSize string        `mapstructure:"storage_size"`
}

// RankConfig controls leaderboards.
type RankConfig struct {
	MaxResults int    `mapstructure:"max_results"`
	Dataset    string `mapstructure:"dataset"` // empty means search the XDG dirs
}

// OutputConfig selects the leaderboard formatter.
type OutputConfig struct {
	Format   string `mapstructure:"format"`
	Template string `mapstructure:"template"`
}

// SyncConfig configures dataset exchange with the server.
type SyncConfig struct {
	Server   string        `mapstructure:"server"`
	Timeout  time.Duration `mapstructure:"timeout"`
	UserNote string        `mapstructure:"user_note"`
}

// MetricsConfig configures the prometheus textfile export.
type MetricsConfig struct {
	File string `mapstructure:"file"` // empty disables the export
}

// HistoryConfig configures run history retention.
type HistoryConfig struct {
	Dir  string `mapstructure:"dir"`
	Keep int    `mapstructure:"keep"`
}

// Config represents the application configuration.
type Config struct {
	Benchmark BenchmarkConfig `mapstructure:"benchmark"`
	Rank      RankConfig      `mapstructure:"rank"`
	Output    OutputConfig    `mapstructure:"output"`
	Sync      SyncConfig      `mapstructure:"sync"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	History   HistoryConfig   `mapstructure:"history"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("benchmark.duration", DefaultDuration)
	v.SetDefault("benchmark.threads", DefaultThreads)
	v.SetDefault("benchmark.priority", DefaultPriority)
	v.SetDefault("benchmark.scratch_dir", "")
	v.SetDefault("benchmark.storage_size", DefaultStorageSize)

	v.SetDefault("rank.max_results", DefaultMaxResults)
	v.SetDefault("rank.dataset", "")

	v.SetDefault("output.format", DefaultFormat)
	v.SetDefault("output.template", "")

	v.SetDefault("sync.server", DefaultServer)
	v.SetDefault("sync.timeout", DefaultSyncTimeout)
	v.SetDefault("sync.user_note", "")

	v.SetDefault("metrics.file", "")

	v.SetDefault("history.dir", "")
	v.SetDefault("history.keep", DefaultHistoryKeep)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.path", "") // empty means DefaultLogPath
	v.SetDefault("logging.rotation.max_size", "10MB")
	v.SetDefault("logging.rotation.max_age", 30)
	v.SetDefault("logging.rotation.max_backups", 5)
	v.SetDefault("logging.rotation.daily", true)
	v.SetDefault("logging.components", DefaultComponentLevels)
}

// Configure points v at the config file locations and environment.
// A non-empty file overrides the search path.
func Configure(v *viper.Viper, file string) error {
	if file != "" {
		v.SetConfigFile(file)
	} else {
		dir, err := ConfigDir()
		if err != nil {
			return err
		}
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(dir)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	return nil
}

// Read loads the config file into v. A missing file is not an error.
func Read(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}

// FromViper decodes the effective configuration held by v.
func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	for _, p := range []*string{&cfg.Rank.Dataset, &cfg.Logging.Path, &cfg.Benchmark.ScratchDir, &cfg.History.Dir, &cfg.Metrics.File} {
		expanded, err := ExpandPath(*p)
		if err != nil {
			return nil, err
		}
		*p = expanded
	}
	return &cfg, nil
}

// Load loads configuration from the config file and HWBENCH_ environment
// variables. The file is $XDG_CONFIG_HOME/hwbench/config.yaml, falling back
// to ~/.config/hwbench/config.yaml.
func Load() (*Config, error) {
	v := viper.New()
	if err := Configure(v, ""); err != nil {
		return nil, err
	}
	if err := Read(v); err != nil {
		return nil, err
	}
	return FromViper(v)
}

// ConfigDir returns the configuration directory.
func ConfigDir() (string, error) {
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return filepath.Join(xdgConfigHome, AppName), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", AppName), nil
}

// ConfigPath returns the default config file path.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// EnsureConfigDir creates the config directory if it doesn't exist.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return nil
}

// WriteDefault writes a default config file if none exists and returns its
// path. An existing file is left untouched.
func WriteDefault() (string, error) {
	if err := EnsureConfigDir(); err != nil {
		return "", err
	}
	path, err := ConfigPath()
	if err != nil {
		return "", err
	}

	if _, err := os.Stat(path); err == nil {
		return path, nil
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("failed to check config file: %w", err)
	}

	if err := os.WriteFile(path, []byte(defaultConfig()), 0o644); err != nil {
		return "", fmt.Errorf("failed to write default config: %w", err)
	}
	return path, nil
}

func defaultConfig() string {
	return fmt.Sprintf(`# hwbench configuration

benchmark:
  # Time box for time-boxed benchmarks
  duration: %s
  # Worker threads: 0 uses each benchmark's default, -1 physical cores, N literal
  threads: %d
  # Nice value to run at when permitted (0 leaves priority unchanged)
  priority: %d
  # Directory for the storage benchmark scratch file (empty means system temp)
  scratch_dir: ""
  storage_size: %s

rank:
  # Leaderboard window: 0 shows one entry, negative shows all
  max_results: %d
  # Dataset file (empty means $XDG_CONFIG_HOME/hwbench/benchmark.json, then XDG data dirs)
  dataset: ""

output:
  # pretty, plain, json, jsonl, yaml, tsv, csv, markdown, template, shell, short
  format: %s
  template: ""

sync:
  server: %s
  timeout: %s
  user_note: ""

metrics:
  # Prometheus textfile written after each run (empty disables)
  file: ""

history:
  dir: ""
  keep: %d

logging:
  # Log level: debug, info, warn, error
  level: info
  # Log file path (empty means $XDG_STATE_HOME/hwbench/hwbench.log)
  path: ""
  rotation:
    max_size: 10MB
    max_age: 30       # days
    max_backups: 5
    daily: true
  components:
    parallel: info
    suite: info
    dataset: warn
    results: info
    sync: info
    tui: info
`, DefaultDuration, DefaultThreads, DefaultPriority, DefaultStorageSize, DefaultMaxResults,
		DefaultFormat, DefaultServer, DefaultSyncTimeout, DefaultHistoryKeep)
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, path[1:]), nil
}

// DataDir returns $XDG_DATA_HOME/hwbench/ for the result database and history.
func DataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// StateDir returns $XDG_STATE_HOME/hwbench/ for log files.
func StateDir() string {
	return filepath.Join(xdg.StateHome, AppName)
}

// DefaultDBPath returns the default result database directory.
func DefaultDBPath() string {
	return filepath.Join(DataDir(), "results")
}

// DefaultHistoryDir returns the default run history directory.
func DefaultHistoryDir() string {
	return filepath.Join(DataDir(), "history")
}

// DefaultLogPath returns the default log file path.
func DefaultLogPath() string {
	return filepath.Join(StateDir(), AppName+".log")
}

// HistoryDir returns the configured history directory or the default.
func (c *Config) HistoryDir() string {
	if c.History.Dir != "" {
		return c.History.Dir
	}
	return DefaultHistoryDir()
}

// EnsureDataDir creates the data directory if it doesn't exist.
func EnsureDataDir() error {
	if err := os.MkdirAll(DataDir(), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	return nil
}

// EnsureStateDir creates the state directory if it doesn't exist.
func EnsureStateDir() error {
	if err := os.MkdirAll(StateDir(), 0o755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}
	return nil
}
