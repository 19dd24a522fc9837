package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

// RotationConfig configures log file rotation.
type RotationConfig struct {
	MaxSize    string `mapstructure:"max_size"`
	MaxAge     int    `mapstructure:"max_age"`
	MaxBackups int    `mapstructure:"max_backups"`
}

// LoggingConfig configures application logging.
type LoggingConfig struct {
	Level      string            `mapstructure:"level"`
	Path       string            `mapstructure:"path"`
	Rotation   RotationConfig    `mapstructure:"rotation"`
	Components map[string]string `mapstructure:"components"`
}

// ExecutionConfig configures how batches are fanned out. Zero values
// mean "derive from the system snapshot".
type ExecutionConfig struct {
	Strategy          string `mapstructure:"strategy"`
	Shape             string `mapstructure:"shape"`
	Workers           int    `mapstructure:"workers"`
	MaxConcurrent     int    `mapstructure:"max_concurrent"`
	BatchSize         int    `mapstructure:"batch_size"`
	BatchDivisor      int    `mapstructure:"batch_divisor"`
	MemoryPerWorkerMB int    `mapstructure:"memory_per_worker_mb"`
}

// Config represents the application configuration.
type Config struct {
	DefaultPath string          `mapstructure:"default_path"`
	Exclude     []string        `mapstructure:"exclude"`
	Execution   ExecutionConfig `mapstructure:"execution"`
	Logging     LoggingConfig   `mapstructure:"logging"`
}

// Load loads configuration from file and environment variables.
// Config file locations (in order of precedence):
//   - $XDG_CONFIG_HOME/fanout/config.yaml
//   - $HOME/.config/fanout/config.yaml
//
// Environment variables are prefixed with FANOUT_ (e.g., FANOUT_EXECUTION_WORKERS).
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		v.AddConfigPath(filepath.Join(xdgConfigHome, "fanout"))
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory: %w", err)
	}
	v.AddConfigPath(filepath.Join(homeDir, ".config", "fanout"))

	v.SetEnvPrefix("FANOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set defaults
	v.SetDefault("default_path", DefaultPath)
	v.SetDefault("exclude", DefaultExclusions)

	// Execution defaults. Zero worker counts mean auto-size from the
	// system snapshot at run time.
	v.SetDefault("execution.strategy", DefaultStrategy)
	v.SetDefault("execution.shape", DefaultShape)
	v.SetDefault("execution.workers", 0)
	v.SetDefault("execution.max_concurrent", 0)
	v.SetDefault("execution.batch_size", 0)
	v.SetDefault("execution.batch_divisor", DefaultBatchDivisor)
	v.SetDefault("execution.memory_per_worker_mb", DefaultMemoryPerWorkerMB)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.path", "") // Empty means use DefaultLogPath
	v.SetDefault("logging.rotation.max_size", "10MB")
	v.SetDefault("logging.rotation.max_age", 30)
	v.SetDefault("logging.rotation.max_backups", 5)
	v.SetDefault("logging.components", map[string]string{
		"telemetry": "warn",
		"executor":  "info",
		"tui":       "info",
	})

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// ConfigDir returns the configuration directory path.
func ConfigDir() (string, error) {
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return filepath.Join(xdgConfigHome, "fanout"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, ".config", "fanout"), nil
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

// WriteDefault writes a default config file if none exists.
// Returns nil if a config file already exists.
func WriteDefault() error {
	if err := EnsureConfigDir(); err != nil {
		return err
	}

	configDir, err := ConfigDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(configDir, "config.yaml")

	if _, err := os.Stat(configPath); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to check config file: %w", err)
	}

	defaultConfig := fmt.Sprintf(`# Fanout Task Runner Configuration

# Default path to process when none is specified
default_path: %s

# Paths to exclude from file discovery
exclude:
  - /proc
  - /sys
  - /dev

# Execution settings. Zero worker counts mean size automatically from
# the system snapshot.
execution:
  # Fan-out strategy: pooled, batched, gated
  strategy: %s
  # Workload shape: mixed, cpu, io
  shape: %s
  workers: 0
  max_concurrent: 0
  batch_size: 0
  batch_divisor: %d
  # Memory bound per worker in MB (0 disables the bound)
  memory_per_worker_mb: %d

# Logging configuration
logging:
  # Log level: debug, info, warn, error
  level: info
  # Log file path (empty means use default: $XDG_STATE_HOME/fanout/fanout.log)
  path: ""
  # Log rotation settings
  rotation:
    max_size: 10MB
    max_age: 30       # days
    max_backups: 5
  # Per-component log levels
  components:
    telemetry: warn
    executor: info
    tui: info
`, DefaultPath, DefaultStrategy, DefaultShape, DefaultBatchDivisor, DefaultMemoryPerWorkerMB)

	if err := os.WriteFile(configPath, []byte(defaultConfig), 0o644); err != nil {
		return fmt.Errorf("failed to write default config: %w", err)
	}

	return nil
}

// ExpandPath expands ~ in a path to the user's home directory.
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

// StateDir returns $XDG_STATE_HOME/fanout/ for log files.
func StateDir() string {
	return filepath.Join(xdg.StateHome, "fanout")
}

// DefaultLogPath returns the default log file path.
func DefaultLogPath() string {
	return filepath.Join(StateDir(), "fanout.log")
}

// EnsureStateDir creates the state directory if it doesn't exist.
func EnsureStateDir() error {
	if err := os.MkdirAll(StateDir(), 0o755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}
	return nil
}
