package main

import (
	"fmt"

	"github.com/jamesainslie/fanout/pkg/fanout/executor"
	"github.com/jamesainslie/fanout/pkg/fanout/output"
	"github.com/jamesainslie/fanout/pkg/fanout/sizing"
	"github.com/spf13/viper"
)

// buildOptions creates executor.Options from the bound flags and config.
func buildOptions() (executor.Options, error) {
	strategy, err := executor.ParseStrategy(viper.GetString("execution.strategy"))
	if err != nil {
		return executor.Options{}, fmt.Errorf("invalid strategy: %w", err)
	}

	shape, err := sizing.ParseShape(viper.GetString("execution.shape"))
	if err != nil {
		return executor.Options{}, fmt.Errorf("invalid shape: %w", err)
	}

	return executor.Options{
		Workers:           viper.GetInt("execution.workers"),
		Shape:             shape,
		MemoryPerWorkerMB: viper.GetInt("execution.memory_per_worker_mb"),
		MaxConcurrent:     viper.GetInt("execution.max_concurrent"),
		BatchSize:         viper.GetInt("execution.batch_size"),
		BatchDivisor:      viper.GetInt("execution.batch_divisor"),
		Strategy:          strategy,
	}, nil
}

// getFormatter resolves the output formatter for the current invocation.
func getFormatter() (output.Formatter, error) {
	name := viper.GetString("output")
	if name == "" {
		name = "pretty"
	}

	formatter, err := output.Get(name)
	if err != nil {
		return nil, fmt.Errorf("unknown output format %q: available formats are %v", name, output.Available())
	}
	return formatter, nil
}

// interactiveMode reports whether the live progress display should run.
// Any non-default output format forces text output.
func interactiveMode() bool {
	if viper.GetBool("no_interactive") || getQuiet() {
		return false
	}
	if format := viper.GetString("output"); format != "" && format != "pretty" {
		return false
	}
	return true
}
