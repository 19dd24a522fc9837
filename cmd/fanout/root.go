package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jamesainslie/fanout/pkg/fanout/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "fanout [path]",
		Short: "Run tasks across files in parallel, sized to your machine",
		Long: `Fanout runs a task across many files in parallel, automatically sizing
the worker pool from the machine's cores, memory and load.

By default, fanout checksums every file under the given path with a live
progress display. Use --no-interactive or --output json for scripting.

Examples:
  fanout                        # Checksum files under the current directory
  fanout ~/data                 # Checksum files under a specific directory
  fanout -w 8 ~/data            # Force 8 workers
  fanout --strategy gated .     # Cap in-flight tasks with a semaphore
  fanout plan -i 5000           # Show the plan for 5000 items
  fanout snapshot               # Show detected system resources`,
		Args:              cobra.MaximumNArgs(1),
		PersistentPreRunE: initializeLogging,
		RunE:              runRun,
	}
)

func init() {
	cobra.OnInitialize(initConfig)

	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.config/fanout/config.yaml)")
	rootCmd.PersistentFlags().String("strategy", "", "fan-out strategy: pooled, batched, gated")
	rootCmd.PersistentFlags().String("shape", "", "workload shape: mixed, cpu, io")
	rootCmd.PersistentFlags().IntP("workers", "w", 0, "override worker count (0=auto)")
	rootCmd.PersistentFlags().Int("max-concurrent", 0, "gate capacity for the gated strategy (0=workers)")
	rootCmd.PersistentFlags().Int("batch-size", 0, "items per batch for the batched strategy (0=auto)")
	rootCmd.PersistentFlags().Int("batch-divisor", 0, "batches per worker when deriving batch size")
	rootCmd.PersistentFlags().Int("memory-per-worker", 0, "memory bound per worker in MB (0=unbounded)")
	rootCmd.PersistentFlags().StringSliceP("exclude", "e", nil, "exclude patterns (can be specified multiple times)")
	rootCmd.PersistentFlags().StringP("output", "o", "", "output format: pretty, plain, json, jsonl")
	rootCmd.PersistentFlags().BoolP("no-interactive", "n", false, "disable live progress, use text output")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "minimal output")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "debug output")

	// Bind flags to viper
	_ = viper.BindPFlag("execution.strategy", rootCmd.PersistentFlags().Lookup("strategy"))
	_ = viper.BindPFlag("execution.shape", rootCmd.PersistentFlags().Lookup("shape"))
	_ = viper.BindPFlag("execution.workers", rootCmd.PersistentFlags().Lookup("workers"))
	_ = viper.BindPFlag("execution.max_concurrent", rootCmd.PersistentFlags().Lookup("max-concurrent"))
	_ = viper.BindPFlag("execution.batch_size", rootCmd.PersistentFlags().Lookup("batch-size"))
	_ = viper.BindPFlag("execution.batch_divisor", rootCmd.PersistentFlags().Lookup("batch-divisor"))
	_ = viper.BindPFlag("execution.memory_per_worker_mb", rootCmd.PersistentFlags().Lookup("memory-per-worker"))
	_ = viper.BindPFlag("exclude", rootCmd.PersistentFlags().Lookup("exclude"))
	_ = viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag("no_interactive", rootCmd.PersistentFlags().Lookup("no-interactive"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// initConfig reads in config file and environment variables.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")

		// Add config paths in order of precedence
		if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
			viper.AddConfigPath(filepath.Join(xdgConfigHome, "fanout"))
		}

		homeDir, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(homeDir, ".config", "fanout"))
		}
	}

	// Set environment variable prefix and enable auto env binding
	viper.SetEnvPrefix("FANOUT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	// Set defaults from config package
	viper.SetDefault("default_path", config.DefaultPath)
	viper.SetDefault("exclude", config.DefaultExclusions)
	viper.SetDefault("execution.strategy", config.DefaultStrategy)
	viper.SetDefault("execution.shape", config.DefaultShape)
	viper.SetDefault("execution.batch_divisor", config.DefaultBatchDivisor)

	// Read config file (ignore if not found)
	_ = viper.ReadInConfig()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// getVerbose returns true if verbose mode is enabled.
func getVerbose() bool {
	return viper.GetBool("verbose")
}

// getQuiet returns true if quiet mode is enabled.
func getQuiet() bool {
	return viper.GetBool("quiet")
}

// printVerbose prints a message if verbose mode is enabled.
func printVerbose(format string, args ...interface{}) {
	if getVerbose() && !getQuiet() {
		fmt.Fprintf(os.Stderr, "[DEBUG] "+format+"\n", args...)
	}
}

// printInfo prints a message if quiet mode is not enabled.
func printInfo(format string, args ...interface{}) {
	if !getQuiet() {
		fmt.Printf(format+"\n", args...)
	}
}

// printError prints an error message to stderr.
func printError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}
