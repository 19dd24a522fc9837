package output

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// PrettyFormatter formats output with colors and styling using lipgloss.
// It produces a visually appealing output suitable for terminal display.
type PrettyFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *PrettyFormatter) Format(w *bytes.Buffer, r *Report) error {
	if r.Snapshot != nil {
		w.WriteString(f.formatSnapshot(r.Snapshot))
		w.WriteString("\n")
	}

	if r.Plan != nil {
		w.WriteString(f.formatPlan(r.Plan))
		w.WriteString("\n")
	}

	if len(r.Items) > 0 {
		w.WriteString(f.formatItems(r.Items))
	}

	if r.Stats != nil {
		w.WriteString(f.formatFooter(r))
	}

	if len(r.Warnings) > 0 {
		w.WriteString("\n")
		w.WriteString(f.formatWarnings(r.Warnings))
	}

	return nil
}

// formatSnapshot builds the box showing the detected system state.
func (f *PrettyFormatter) formatSnapshot(s *SnapshotInfo) string {
	var lines []string

	lines = append(lines, TitleStyle.Render("System"))

	coresLabel := LabelStyle.Render("Cores:")
	coresValue := ValueStyle.Render(fmt.Sprintf("%d", s.CPUCores))
	memLabel := LabelStyle.Render("Memory:")
	memValue := ValueStyle.Render(fmt.Sprintf("%s available of %s",
		humanize.IBytes(uint64(s.MemoryAvailable)), humanize.IBytes(uint64(s.MemoryTotal))))
	lines = append(lines, fmt.Sprintf("%s %s  %s %s", coresLabel, coresValue, memLabel, memValue))

	loadLabel := LabelStyle.Render("Load:")
	loadValue := ValueStyle.Render(fmt.Sprintf("%.2f %.2f %.2f", s.Load1, s.Load5, s.Load15))
	parts := []string{fmt.Sprintf("%s %s", loadLabel, loadValue)}

	if s.AppleSilicon {
		parts = append(parts, SuccessStyle.Render("apple silicon"))
	}
	if s.GPUAvailable {
		parts = append(parts, SuccessStyle.Render("gpu"))
	}
	lines = append(lines, strings.Join(parts, "  "))

	return HeaderBox.Render(strings.Join(lines, "\n"))
}

// formatPlan builds the box showing the resolved concurrency plan.
func (f *PrettyFormatter) formatPlan(p *PlanInfo) string {
	var lines []string

	lines = append(lines, TitleStyle.Render("Plan"))

	strategyLabel := LabelStyle.Render("Strategy:")
	strategyValue := ValueStyle.Render(p.Strategy)
	shapeLabel := LabelStyle.Render("Shape:")
	shapeValue := ValueStyle.Render(p.Shape)
	lines = append(lines, fmt.Sprintf("%s %s  %s %s", strategyLabel, strategyValue, shapeLabel, shapeValue))

	workersLabel := LabelStyle.Render("Workers:")
	workersValue := CountStyle.Render(fmt.Sprintf("%d", p.Workers))
	batchLabel := LabelStyle.Render("Batch:")
	batchValue := ValueStyle.Render(fmt.Sprintf("%d", p.BatchSize))
	gateLabel := LabelStyle.Render("Gate:")
	gateValue := ValueStyle.Render(fmt.Sprintf("%d", p.MaxConcurrent))
	itemsLabel := LabelStyle.Render("Items:")
	itemsValue := ValueStyle.Render(fmt.Sprintf("%d", p.Items))
	lines = append(lines, fmt.Sprintf("%s %s  %s %s  %s %s  %s %s",
		workersLabel, workersValue, batchLabel, batchValue,
		gateLabel, gateValue, itemsLabel, itemsValue))

	return HeaderBox.Render(strings.Join(lines, "\n"))
}

// formatItems builds the per-item outcome table.
func (f *PrettyFormatter) formatItems(items []ItemResult) string {
	var sb strings.Builder

	statusHeader := TableHeaderStyle.Render("STATUS")
	itemHeader := TableHeaderStyle.Render("ITEM")
	resultHeader := TableHeaderStyle.Render("RESULT")
	sb.WriteString(fmt.Sprintf("  %s  %s  %s\n", statusHeader, itemHeader, resultHeader))

	maxLabelWidth := 4
	for _, item := range items {
		if len(item.Label) > maxLabelWidth {
			maxLabelWidth = len(item.Label)
		}
	}

	for _, item := range items {
		var status, detail string
		if item.Err != "" {
			status = ErrorStyle.Render("fail")
			detail = ErrorStyle.Render(item.Err)
		} else {
			status = SuccessStyle.Render("ok  ")
			detail = ValueStyle.Render(item.Detail)
		}
		label := ValueStyle.Render(padRight(item.Label, maxLabelWidth))
		sb.WriteString(fmt.Sprintf("  %s  %s  %s\n", status, label, detail))
	}

	return sb.String()
}

// formatFooter builds the footer box with summary information.
func (f *PrettyFormatter) formatFooter(r *Report) string {
	st := r.Stats
	var parts []string

	totalLabel := LabelStyle.Render("Items:")
	totalValue := CountStyle.Render(fmt.Sprintf("%d", st.Total))
	parts = append(parts, fmt.Sprintf("%s %s", totalLabel, totalValue))

	if st.Failed > 0 {
		failedLabel := LabelStyle.Render("Failed:")
		failedValue := ErrorStyle.Render(fmt.Sprintf("%d", st.Failed))
		parts = append(parts, fmt.Sprintf("%s %s", failedLabel, failedValue))
	} else {
		parts = append(parts, SuccessStyle.Render("all succeeded"))
	}

	durationLabel := LabelStyle.Render("Duration:")
	durationValue := ValueStyle.Render(formatDuration(st.Duration))
	parts = append(parts, fmt.Sprintf("%s %s", durationLabel, durationValue))

	return FooterBox.Render(strings.Join(parts, "  "))
}

// formatWarnings builds a warning block.
func (f *PrettyFormatter) formatWarnings(warnings []string) string {
	var sb strings.Builder

	titleStyle := WarningStyle.Bold(true)
	sb.WriteString(titleStyle.Render("Warnings:"))
	sb.WriteString("\n")

	for _, warning := range warnings {
		sb.WriteString(WarningStyle.Render("  " + warning))
		sb.WriteString("\n")
	}

	return sb.String()
}

// padRight pads a string with spaces on the right to the desired width.
func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// formatDuration formats a time.Duration as a human-friendly string.
func formatDuration(d time.Duration) string {
	sec := d.Seconds()
	if sec < 1 {
		return fmt.Sprintf("%.0fms", sec*1000)
	}
	if sec < 60 {
		return fmt.Sprintf("%.1fs", sec)
	}
	minutes := int(sec) / 60
	seconds := int(sec) % 60
	if minutes < 60 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}
	hours := minutes / 60
	minutes = minutes % 60
	return fmt.Sprintf("%dh %dm", hours, minutes)
}

func init() {
	Register("pretty", func() Formatter {
		return &PrettyFormatter{}
	})
}

// Ensure PrettyFormatter implements Formatter.
var _ Formatter = (*PrettyFormatter)(nil)
