package main

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/jamesainslie/fanout/cmd/fanout/tui"
	"github.com/jamesainslie/fanout/pkg/fanout/executor"
	"github.com/jamesainslie/fanout/pkg/fanout/output"
	"github.com/jamesainslie/fanout/pkg/fanout/progress"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// runRun is the default command handler: checksum every file under the
// given path through the parallel executor.
func runRun(_ *cobra.Command, args []string) error {
	opts, err := buildOptions()
	if err != nil {
		return err
	}

	root, err := resolveRoot(args)
	if err != nil {
		return err
	}

	files, err := discoverFiles(root, viper.GetStringSlice("exclude"))
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}

	if len(files) == 0 {
		printInfo("No files found under %s", root)
		return nil
	}

	plan, err := executor.PlanFor(len(files), opts)
	if err != nil {
		return err
	}
	// Pin the resolved worker count so Execute doesn't re-detect.
	opts.Workers = plan.Workers

	printVerbose("Plan: %d workers, batch %d, gate %d, strategy %s",
		plan.Workers, plan.BatchSize, plan.MaxConcurrent, plan.Strategy)

	var results []executor.Result[string]
	var elapsed time.Duration

	if interactiveMode() {
		results, elapsed, err = runWithTUI(root, files, opts, plan)
	} else {
		results, elapsed, err = runPlain(root, files, opts)
	}
	if err != nil {
		return err
	}

	report := buildReport(root, files, results, plan, opts, elapsed)

	formatter, err := getFormatter()
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := formatter.Format(&buf, report); err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	fmt.Print(buf.String())

	if report.Stats.Failed > 0 {
		return fmt.Errorf("%d of %d items failed", report.Stats.Failed, report.Stats.Total)
	}
	return nil
}

// checksumFile is the task executed per file: a SHA-256 digest plus the
// file size.
func checksumFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	n, err := io.Copy(h, f)
	if err != nil {
		return "", err
	}

	digest := hex.EncodeToString(h.Sum(nil))
	return fmt.Sprintf("%s  %s", digest[:16], humanize.IBytes(uint64(n))), nil
}

// runPlain executes without the live display.
func runPlain(root string, files []string, opts executor.Options) ([]executor.Result[string], time.Duration, error) {
	if !getQuiet() {
		printInfo("Processing %d files under %s...", len(files), root)
	}

	start := time.Now()
	results, err := executor.Execute(files, opts, checksumFile)
	if err != nil {
		return nil, 0, err
	}
	return results, time.Since(start), nil
}

// runWithTUI executes with the bubbletea progress display. The engine
// runs in a goroutine and reports completions into the program; the
// display exits once the run finishes.
func runWithTUI(root string, files []string, opts executor.Options, plan executor.Plan) ([]executor.Result[string], time.Duration, error) {
	model := tui.NewRunModel(tui.Options{
		Source:   root,
		Total:    len(files),
		Workers:  plan.Workers,
		Strategy: plan.Strategy.String(),
	})
	program := tea.NewProgram(model)

	type runOutcome struct {
		results []executor.Result[string]
		elapsed time.Duration
		err     error
	}
	outcome := make(chan runOutcome, 1)

	reporter := &progress.Func{
		OnCurrent: func(n int) {
			program.Send(tui.ProgressMsg{Done: n})
		},
	}

	go func() {
		runOpts := opts
		runOpts.Progress = reporter

		start := time.Now()
		results, err := executor.Execute(files, runOpts, checksumFile)
		elapsed := time.Since(start)

		failed := 0
		if err == nil {
			failed = len(executor.Failures(results))
		}
		program.Send(tui.CompleteMsg{Failed: failed, Err: err})
		outcome <- runOutcome{results: results, elapsed: elapsed, err: err}
	}()

	if _, err := program.Run(); err != nil {
		return nil, 0, fmt.Errorf("progress display failed: %w", err)
	}

	// Execution has no cancellation; if the display was dismissed early
	// we still wait for the engine to finish.
	out := <-outcome
	return out.results, out.elapsed, out.err
}

// buildReport assembles the output report from the run results.
func buildReport(root string, files []string, results []executor.Result[string], plan executor.Plan, opts executor.Options, elapsed time.Duration) *output.Report {
	items := make([]output.ItemResult, len(results))
	failed := 0
	for i, r := range results {
		item := output.ItemResult{
			Index: i,
			Label: relPath(root, files[i]),
		}
		if r.Ok() {
			item.Detail = r.Value
		} else {
			item.Err = r.Err.Error()
			failed++
		}
		items[i] = item
	}

	return &output.Report{
		Plan: &output.PlanInfo{
			Strategy:      plan.Strategy.String(),
			Shape:         opts.Shape.String(),
			Workers:       plan.Workers,
			BatchSize:     plan.BatchSize,
			MaxConcurrent: plan.MaxConcurrent,
			Items:         len(files),
		},
		Items: items,
		Stats: &output.RunStats{
			Total:    len(results),
			Failed:   failed,
			Duration: elapsed,
		},
		Source: root,
	}
}

// relPath renders a path relative to the run root for display.
func relPath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return rel
}
