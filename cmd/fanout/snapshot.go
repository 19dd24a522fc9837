package main

import (
	"bytes"
	"fmt"

	"github.com/jamesainslie/fanout/pkg/fanout/output"
	"github.com/jamesainslie/fanout/pkg/fanout/telemetry"
	"github.com/spf13/cobra"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Show detected system resources",
	Long: `Detect and display the system resources fanout would size its
worker pool from: physical cores, memory, and load averages.

Detection never fails; unavailable probes fall back to conservative
defaults.`,
	RunE: runSnapshot,
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
}

// runSnapshot detects system resources and prints them.
func runSnapshot(_ *cobra.Command, _ []string) error {
	snap := telemetry.Detect()

	formatter, err := getFormatter()
	if err != nil {
		return err
	}

	report := &output.Report{Snapshot: snapshotInfo(snap)}

	var buf bytes.Buffer
	if err := formatter.Format(&buf, report); err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	fmt.Print(buf.String())

	return nil
}

// snapshotInfo converts a telemetry snapshot to its output form.
func snapshotInfo(snap telemetry.Snapshot) *output.SnapshotInfo {
	return &output.SnapshotInfo{
		CPUCores:        snap.CPUCores,
		MemoryTotal:     snap.MemoryTotal,
		MemoryAvailable: snap.MemoryAvailable,
		Load1:           snap.Load1,
		Load5:           snap.Load5,
		Load15:          snap.Load15,
		AppleSilicon:    snap.AppleSilicon,
		GPUAvailable:    snap.GPUAvailable,
	}
}
