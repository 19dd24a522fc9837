package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/jamesainslie/fanout/pkg/fanout/config"
	"github.com/jamesainslie/fanout/pkg/fanout/logging"
	"github.com/spf13/cobra"
)

// defaultRotationMaxSize is used when the configured max_size is empty
// or unparseable.
const defaultRotationMaxSize = 10 * 1024 * 1024

// initializeLogging is the PersistentPreRunE hook for all commands. It
// ensures the XDG directories exist and brings up file logging from the
// loaded configuration.
func initializeLogging(_ *cobra.Command, _ []string) error {
	if err := config.EnsureConfigDir(); err != nil {
		return fmt.Errorf("ensuring config directory: %w", err)
	}
	if err := config.EnsureStateDir(); err != nil {
		return fmt.Errorf("ensuring state directory: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	level := cfg.Logging.Level
	if getVerbose() {
		level = "debug"
	}

	logCfg := logging.Config{
		Level:      level,
		Path:       cfg.Logging.Path,
		Rotation:   parseRotationConfig(cfg.Logging.Rotation),
		Components: cfg.Logging.Components,
	}

	// Verbose mode mirrors logs to stderr alongside the file.
	if getVerbose() {
		logCfg.ConsoleLevel = "debug"
	}

	if err := logging.Init(logCfg); err != nil {
		return fmt.Errorf("initializing logging: %w", err)
	}

	return nil
}

// parseRotationConfig converts the string-based config rotation settings
// into the logging package's byte-based form. Invalid sizes fall back to
// the default rather than failing startup.
func parseRotationConfig(in config.RotationConfig) logging.RotationConfig {
	out := logging.RotationConfig{
		MaxSize:    defaultRotationMaxSize,
		MaxAge:     in.MaxAge,
		MaxBackups: in.MaxBackups,
	}

	if in.MaxSize != "" {
		if size, err := humanize.ParseBytes(in.MaxSize); err == nil {
			out.MaxSize = int64(size)
		}
	}

	return out
}
