package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

// Options configures the run progress display.
type Options struct {
	// Source is the path the run covers.
	Source string

	// Total is the number of items to process.
	Total int

	// Workers is the resolved worker count, shown in the stats row.
	Workers int

	// Strategy is the fan-out strategy name, shown in the stats row.
	Strategy string
}

// ProgressMsg is sent as items complete.
type ProgressMsg struct {
	// Done is the number of items finished so far.
	Done int
}

// CompleteMsg is sent when the run finishes.
type CompleteMsg struct {
	// Failed is the number of items whose task returned an error.
	Failed int

	// Err is a run-level failure, nil when the engine completed.
	Err error
}

// RunModel is the bubbletea model for a run in progress.
type RunModel struct {
	opts      Options
	spinner   spinner.Model
	bar       progress.Model
	done      int
	failed    int
	startTime time.Time
	width     int
	height    int
	finished  bool
	err       error
}

// NewRunModel creates the progress display model.
func NewRunModel(opts Options) RunModel {
	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = lipgloss.NewStyle().Foreground(primaryColor)

	bar := progress.New(progress.WithDefaultGradient())

	return RunModel{
		opts:      opts,
		spinner:   s,
		bar:       bar,
		startTime: time.Now(),
		width:     80,
		height:    24,
	}
}

// Init initializes the model.
func (m RunModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles messages.
func (m RunModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			// The engine runs to completion; dismissing the display
			// just returns to plain output.
			return m, tea.Quit
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = m.width - 10
		return m, nil

	case ProgressMsg:
		m.done = msg.Done
		return m, nil

	case CompleteMsg:
		m.finished = true
		m.failed = msg.Failed
		m.err = msg.Err
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case progress.FrameMsg:
		barModel, cmd := m.bar.Update(msg)
		m.bar = barModel.(progress.Model)
		return m, cmd
	}

	return m, nil
}

// View renders the display.
func (m RunModel) View() string {
	var b strings.Builder

	contentWidth := m.width - 4
	if contentWidth < 40 {
		contentWidth = 40
	}

	b.WriteString("\n")

	// Header
	b.WriteString(m.renderHeader(contentWidth))
	b.WriteString("\n")
	b.WriteString(renderDivider(contentWidth))
	b.WriteString("\n\n")

	// Status line
	if m.finished {
		if m.err != nil {
			b.WriteString(errorTextStyle.Render(fmt.Sprintf("  Error: %v", m.err)))
		} else if m.failed > 0 {
			b.WriteString(errorTextStyle.Render(fmt.Sprintf("  Done, %d failed", m.failed)))
		} else {
			b.WriteString(successTextStyle.Render("  Done!"))
		}
	} else {
		b.WriteString(fmt.Sprintf("  %s Processing %s",
			m.spinner.View(),
			pathTextStyle.Render(truncatePath(m.opts.Source, contentWidth-20))))
	}
	b.WriteString("\n\n")

	// Progress bar
	b.WriteString("  ")
	b.WriteString(m.bar.ViewAs(m.percent()))
	b.WriteString("\n\n")

	// Stats boxes
	b.WriteString(m.renderStats(contentWidth))
	b.WriteString("\n")

	content := b.String()
	contentLines := strings.Count(content, "\n") + 1

	availableLines := m.height - 2
	if availableLines > contentLines {
		content += strings.Repeat("\n", availableLines-contentLines)
	}

	return outerBoxStyle.Width(m.width - 2).Height(m.height - 2).Render(content)
}

// percent returns the completed fraction in [0, 1].
func (m RunModel) percent() float64 {
	if m.opts.Total <= 0 {
		return 0
	}
	p := float64(m.done) / float64(m.opts.Total)
	if p > 1 {
		p = 1
	}
	return p
}

// renderHeader renders the header section.
func (m RunModel) renderHeader(width int) string {
	title := titleStyle.Render("  fanout")
	hint := mutedTextStyle.Render("[q to dismiss]")

	spacing := width - lipgloss.Width(title) - lipgloss.Width(hint)
	if spacing < 1 {
		spacing = 1
	}

	return title + strings.Repeat(" ", spacing) + hint
}

// renderStats renders the statistics boxes.
func (m RunModel) renderStats(totalWidth int) string {
	boxWidth := (totalWidth - 10) / 4
	if boxWidth < 10 {
		boxWidth = 10
	}

	doneVal := fmt.Sprintf("%s/%s",
		humanize.Comma(int64(m.done)), humanize.Comma(int64(m.opts.Total)))
	workersVal := fmt.Sprintf("%d", m.opts.Workers)
	elapsedVal := formatElapsed(time.Since(m.startTime))

	doneBox := m.renderStatBox("Done", doneVal, boxWidth)
	workersBox := m.renderStatBox("Workers", workersVal, boxWidth)
	strategyBox := m.renderStatBox("Strategy", m.opts.Strategy, boxWidth)
	elapsedBox := m.renderStatBox("Time", elapsedVal, boxWidth)

	return lipgloss.JoinHorizontal(lipgloss.Top,
		"  ", doneBox, " ", workersBox, " ", strategyBox, " ", elapsedBox)
}

// renderStatBox renders a single stat box.
func (m RunModel) renderStatBox(label, value string, width int) string {
	labelStr := statsLabelStyle.Render(label)
	valueStr := statsValueStyle.Render(value)

	content := lipgloss.JoinVertical(lipgloss.Center,
		center(labelStr, width-4),
		center(valueStr, width-4))

	return statsBoxStyle.Width(width).Render(content)
}

// formatElapsed formats a duration as M:SS.
func formatElapsed(d time.Duration) string {
	d = d.Round(time.Second)
	m := d / time.Minute
	s := (d % time.Minute) / time.Second
	return fmt.Sprintf("%d:%02d", m, s)
}

// Done reports whether the run has completed.
func (m RunModel) Done() bool {
	return m.finished
}

// Failed returns the failed item count.
func (m RunModel) Failed() int {
	return m.failed
}

// Err returns any run-level error.
func (m RunModel) Err() error {
	return m.err
}
