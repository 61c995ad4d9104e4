package main

import (
	"github.com/jamesainslie/hwbench/pkg/hwbench/config"
	"github.com/jamesainslie/hwbench/pkg/hwbench/logging"
	"github.com/jamesainslie/hwbench/pkg/hwbench/types"
	"github.com/spf13/cobra"
)

const defaultLogMaxSize = 10 * types.MiB

// initializeLogging is the root PersistentPreRunE hook. It creates the XDG
// directories and starts file logging.
func initializeLogging(cmd *cobra.Command, _ []string) error {
	if err := config.EnsureConfigDir(); err != nil {
		return err
	}
	if err := config.EnsureDataDir(); err != nil {
		return err
	}
	if err := config.EnsureStateDir(); err != nil {
		return err
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return logging.Init(loggingConfig(cfg, false))
}

// loggingConfig maps cfg to the logging package. Verbose mode logs every
// component at debug and mirrors entries to stderr unless quiet is set,
// which a full-screen view needs.
func loggingConfig(cfg *config.Config, quiet bool) logging.Config {
	lc := logging.Config{
		Level:      cfg.Logging.Level,
		Path:       cfg.Logging.Path,
		Rotation:   parseRotationConfig(cfg.Logging.Rotation),
		Components: cfg.Logging.Components,
		Quiet:      quiet,
	}
	if lc.Level == "" {
		lc.Level = "info"
	}
	if lc.Path == "" {
		lc.Path = config.DefaultLogPath()
	}
	if getVerbose() {
		lc.Level = "debug"
		lc.Components = nil
		lc.Console = "debug"
	}
	return lc
}

// parseRotationConfig converts the config rotation settings. An empty or
// invalid max_size falls back to 10MiB.
func parseRotationConfig(rc config.RotationConfig) logging.RotationConfig {
	maxSize := defaultLogMaxSize
	if rc.MaxSize != "" {
		if n, err := types.ParseSize(rc.MaxSize); err == nil && n > 0 {
			maxSize = n
		}
	}
	return logging.RotationConfig{
		MaxSize:    maxSize,
		MaxAge:     rc.MaxAge,
		MaxBackups: rc.MaxBackups,
		Daily:      rc.Daily,
	}
}
