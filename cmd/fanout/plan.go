package main

import (
	"bytes"
	"fmt"

	"github.com/jamesainslie/fanout/pkg/fanout/executor"
	"github.com/jamesainslie/fanout/pkg/fanout/output"
	"github.com/jamesainslie/fanout/pkg/fanout/telemetry"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var planItems int

var planCmd = &cobra.Command{
	Use:   "plan [path]",
	Short: "Show the concurrency plan without running anything",
	Long: `Compute and display the worker count, batch size and gate capacity
fanout would use, either for the files under a path or for an explicit
item count given with --items.

Examples:
  fanout plan ~/data            # Plan for the files under ~/data
  fanout plan -i 5000           # Plan for 5000 items
  fanout plan -i 5000 --shape cpu -o json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlan,
}

func init() {
	planCmd.Flags().IntVarP(&planItems, "items", "i", 0, "plan for an explicit item count instead of discovering files")
	rootCmd.AddCommand(planCmd)
}

// runPlan computes and prints the concurrency plan.
func runPlan(_ *cobra.Command, args []string) error {
	opts, err := buildOptions()
	if err != nil {
		return err
	}

	items := planItems
	source := fmt.Sprintf("%d items", items)
	if items <= 0 {
		root, err := resolveRoot(args)
		if err != nil {
			return err
		}
		files, err := discoverFiles(root, viper.GetStringSlice("exclude"))
		if err != nil {
			return fmt.Errorf("discovering files: %w", err)
		}
		items = len(files)
		source = root
	}

	plan, err := executor.PlanFor(items, opts)
	if err != nil {
		return err
	}

	formatter, err := getFormatter()
	if err != nil {
		return err
	}

	report := &output.Report{
		Snapshot: snapshotInfo(telemetry.Detect()),
		Plan: &output.PlanInfo{
			Strategy:      plan.Strategy.String(),
			Shape:         opts.Shape.String(),
			Workers:       plan.Workers,
			BatchSize:     plan.BatchSize,
			MaxConcurrent: plan.MaxConcurrent,
			Items:         items,
		},
		Source: source,
	}

	var buf bytes.Buffer
	if err := formatter.Format(&buf, report); err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	fmt.Print(buf.String())

	return nil
}
