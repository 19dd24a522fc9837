package output

import (
	"bytes"
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
)

// PlainFormatter formats output as simple tab-separated text.
// It produces plain output suitable for scripting and piping.
// No colors or styling are applied.
type PlainFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *PlainFormatter) Format(w *bytes.Buffer, r *Report) error {
	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)

	if s := r.Snapshot; s != nil {
		fmt.Fprintf(tw, "cores\t%d\n", s.CPUCores)
		fmt.Fprintf(tw, "memory_total\t%s\n", humanize.IBytes(uint64(s.MemoryTotal)))
		fmt.Fprintf(tw, "memory_available\t%s\n", humanize.IBytes(uint64(s.MemoryAvailable)))
		fmt.Fprintf(tw, "load\t%.2f %.2f %.2f\n", s.Load1, s.Load5, s.Load15)
		fmt.Fprintf(tw, "apple_silicon\t%t\n", s.AppleSilicon)
		fmt.Fprintf(tw, "gpu\t%t\n", s.GPUAvailable)
	}

	if p := r.Plan; p != nil {
		fmt.Fprintf(tw, "strategy\t%s\n", p.Strategy)
		fmt.Fprintf(tw, "shape\t%s\n", p.Shape)
		fmt.Fprintf(tw, "workers\t%d\n", p.Workers)
		fmt.Fprintf(tw, "batch_size\t%d\n", p.BatchSize)
		fmt.Fprintf(tw, "max_concurrent\t%d\n", p.MaxConcurrent)
		fmt.Fprintf(tw, "items\t%d\n", p.Items)
	}

	if len(r.Items) > 0 {
		fmt.Fprintf(tw, "STATUS\tITEM\tRESULT\n")
		for _, item := range r.Items {
			status := "ok"
			detail := item.Detail
			if item.Err != "" {
				status = "fail"
				detail = item.Err
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\n", status, item.Label, detail)
		}
	}

	if st := r.Stats; st != nil {
		fmt.Fprintf(tw, "total\t%d\n", st.Total)
		fmt.Fprintf(tw, "failed\t%d\n", st.Failed)
		fmt.Fprintf(tw, "duration\t%s\n", st.Duration)
	}

	return tw.Flush()
}

func init() {
	Register("plain", func() Formatter {
		return &PlainFormatter{}
	})
}

// Ensure PlainFormatter implements Formatter.
var _ Formatter = (*PlainFormatter)(nil)
