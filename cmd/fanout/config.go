package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/jamesainslie/fanout/pkg/fanout/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `Manage fanout configuration settings.

Configuration is loaded from:
  1. $XDG_CONFIG_HOME/fanout/config.yaml (if set)
  2. ~/.config/fanout/config.yaml

Environment variables can override config file settings using the FANOUT_ prefix:
  FANOUT_EXECUTION_WORKERS=8
  FANOUT_EXECUTION_STRATEGY=gated
  FANOUT_EXCLUDE=/tmp,/var/cache`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the current configuration settings from all sources.`,
	RunE:  runConfigShow,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit configuration file",
	Long: `Open the configuration file in your default editor.

The editor is determined by:
  1. $VISUAL environment variable
  2. $EDITOR environment variable
  3. Falls back to 'vi'

If the config file doesn't exist, a default one will be created first.`,
	RunE: runConfigEdit,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create default configuration file",
	Long:  `Create a default configuration file if one doesn't exist.`,
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show configuration file path",
	Long:  `Display the path to the configuration file.`,
	RunE:  runConfigPath,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configEditCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

// runConfigShow displays the current configuration.
func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		printError("Failed to load configuration: %v", err)
		// Show defaults anyway
		cfg = &config.Config{
			DefaultPath: config.DefaultPath,
			Exclude:     config.DefaultExclusions,
		}
		cfg.Execution.Strategy = config.DefaultStrategy
		cfg.Execution.Shape = config.DefaultShape
		cfg.Execution.BatchDivisor = config.DefaultBatchDivisor
	}

	// Show config file being used
	if configFile := viper.ConfigFileUsed(); configFile != "" {
		fmt.Printf("Config file: %s\n\n", configFile)
	} else {
		fmt.Println("Config file: (using defaults, no file found)")
		fmt.Println()
	}

	fmt.Println("Current Configuration:")
	fmt.Println("----------------------")
	fmt.Printf("default_path:                    %s\n", cfg.DefaultPath)
	fmt.Printf("exclude:                         %v\n", cfg.Exclude)
	fmt.Printf("execution.strategy:              %s\n", cfg.Execution.Strategy)
	fmt.Printf("execution.shape:                 %s\n", cfg.Execution.Shape)
	fmt.Printf("execution.workers:               %d\n", cfg.Execution.Workers)
	fmt.Printf("execution.max_concurrent:        %d\n", cfg.Execution.MaxConcurrent)
	fmt.Printf("execution.batch_size:            %d\n", cfg.Execution.BatchSize)
	fmt.Printf("execution.batch_divisor:         %d\n", cfg.Execution.BatchDivisor)
	fmt.Printf("execution.memory_per_worker_mb:  %d\n", cfg.Execution.MemoryPerWorkerMB)
	fmt.Printf("logging.level:                   %s\n", cfg.Logging.Level)

	// Show any environment overrides
	fmt.Println("\nEnvironment Overrides:")
	fmt.Println("----------------------")
	envVars := []struct {
		name string
		key  string
	}{
		{"FANOUT_DEFAULT_PATH", "default_path"},
		{"FANOUT_EXCLUDE", "exclude"},
		{"FANOUT_EXECUTION_STRATEGY", "execution.strategy"},
		{"FANOUT_EXECUTION_SHAPE", "execution.shape"},
		{"FANOUT_EXECUTION_WORKERS", "execution.workers"},
		{"FANOUT_EXECUTION_MAX_CONCURRENT", "execution.max_concurrent"},
		{"FANOUT_EXECUTION_BATCH_SIZE", "execution.batch_size"},
		{"FANOUT_EXECUTION_BATCH_DIVISOR", "execution.batch_divisor"},
		{"FANOUT_EXECUTION_MEMORY_PER_WORKER_MB", "execution.memory_per_worker_mb"},
		{"FANOUT_LOGGING_LEVEL", "logging.level"},
	}

	anyOverrides := false
	for _, ev := range envVars {
		if val := os.Getenv(ev.name); val != "" {
			fmt.Printf("%s=%s\n", ev.name, val)
			anyOverrides = true
		}
	}
	if !anyOverrides {
		fmt.Println("(none)")
	}

	return nil
}

// runConfigEdit opens the config file in an editor.
func runConfigEdit(cmd *cobra.Command, args []string) error {
	// Ensure config file exists
	if err := config.WriteDefault(); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	configDir, err := config.ConfigDir()
	if err != nil {
		return fmt.Errorf("failed to get config directory: %w", err)
	}
	configPath := filepath.Join(configDir, "config.yaml")

	// Determine editor
	editor := os.Getenv("VISUAL")
	if editor == "" {
		editor = os.Getenv("EDITOR")
	}
	if editor == "" {
		editor = "vi"
	}

	printVerbose("Opening %s with %s", configPath, editor)

	editorCmd := exec.Command(editor, configPath)
	editorCmd.Stdin = os.Stdin
	editorCmd.Stdout = os.Stdout
	editorCmd.Stderr = os.Stderr

	if err := editorCmd.Run(); err != nil {
		return fmt.Errorf("editor command failed: %w", err)
	}

	return nil
}

// runConfigInit creates a default config file.
func runConfigInit(cmd *cobra.Command, args []string) error {
	configDir, err := config.ConfigDir()
	if err != nil {
		return fmt.Errorf("failed to get config directory: %w", err)
	}
	configPath := filepath.Join(configDir, "config.yaml")

	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil {
		printInfo("Config file already exists: %s", configPath)
		printInfo("Use 'fanout config edit' to modify it.")
		return nil
	}

	if err := config.WriteDefault(); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	printInfo("Created default config file: %s", configPath)
	return nil
}

// runConfigPath shows the config file path.
func runConfigPath(cmd *cobra.Command, args []string) error {
	configDir, err := config.ConfigDir()
	if err != nil {
		return fmt.Errorf("failed to get config directory: %w", err)
	}
	configPath := filepath.Join(configDir, "config.yaml")

	fmt.Println(configPath)

	if _, err := os.Stat(configPath); err == nil {
		printVerbose("File exists")
	} else if os.IsNotExist(err) {
		printVerbose("File does not exist (will use defaults)")
	}

	return nil
}
