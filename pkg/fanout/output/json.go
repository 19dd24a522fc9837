package output

import (
	"bytes"
	"encoding/json"

	"github.com/dustin/go-humanize"
)

// jsonOutput represents the full JSON output structure.
type jsonOutput struct {
	Snapshot *jsonSnapshot `json:"snapshot,omitempty"`
	Plan     *PlanInfo     `json:"plan,omitempty"`
	Items    []ItemResult  `json:"items,omitempty"`
	Stats    *jsonStats    `json:"stats,omitempty"`
	Source   string        `json:"source,omitempty"`
	Warnings []string      `json:"warnings,omitempty"`
}

// jsonSnapshot represents the system snapshot in JSON output. Memory
// sizes carry both raw bytes and a human-readable rendering.
type jsonSnapshot struct {
	CPUCores             int     `json:"cpu_cores"`
	MemoryTotal          int64   `json:"memory_total"`
	MemoryTotalHuman     string  `json:"memory_total_human"`
	MemoryAvailable      int64   `json:"memory_available"`
	MemoryAvailableHuman string  `json:"memory_available_human"`
	Load1                float64 `json:"load_1"`
	Load5                float64 `json:"load_5"`
	Load15               float64 `json:"load_15"`
	AppleSilicon         bool    `json:"apple_silicon"`
	GPUAvailable         bool    `json:"gpu_available"`
}

// jsonStats represents run statistics in JSON output.
type jsonStats struct {
	Total     int    `json:"total"`
	Succeeded int    `json:"succeeded"`
	Failed    int    `json:"failed"`
	Duration  string `json:"duration"`
}

// JSONFormatter formats output as a single indented JSON object.
type JSONFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *JSONFormatter) Format(w *bytes.Buffer, r *Report) error {
	output := f.buildOutput(r)

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

// buildOutput converts Report to the JSON output structure.
func (f *JSONFormatter) buildOutput(r *Report) jsonOutput {
	out := jsonOutput{
		Plan:     r.Plan,
		Items:    r.Items,
		Source:   r.Source,
		Warnings: r.Warnings,
	}

	if s := r.Snapshot; s != nil {
		out.Snapshot = &jsonSnapshot{
			CPUCores:             s.CPUCores,
			MemoryTotal:          s.MemoryTotal,
			MemoryTotalHuman:     humanize.IBytes(uint64(s.MemoryTotal)),
			MemoryAvailable:      s.MemoryAvailable,
			MemoryAvailableHuman: humanize.IBytes(uint64(s.MemoryAvailable)),
			Load1:                s.Load1,
			Load5:                s.Load5,
			Load15:               s.Load15,
			AppleSilicon:         s.AppleSilicon,
			GPUAvailable:         s.GPUAvailable,
		}
	}

	if st := r.Stats; st != nil {
		out.Stats = &jsonStats{
			Total:     st.Total,
			Succeeded: r.Succeeded(),
			Failed:    st.Failed,
			Duration:  st.Duration.String(),
		}
	}

	return out
}

func init() {
	Register("json", func() Formatter {
		return &JSONFormatter{}
	})
}

// Ensure JSONFormatter implements Formatter.
var _ Formatter = (*JSONFormatter)(nil)

// JSONLFormatter formats per-item outcomes as newline-delimited JSON
// (one object per line). This format is suitable for streaming
// processing with tools like jq.
type JSONLFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *JSONLFormatter) Format(w *bytes.Buffer, r *Report) error {
	for _, item := range r.Items {
		data, err := json.Marshal(item)
		if err != nil {
			return err
		}
		w.Write(data)
		w.WriteByte('\n')
	}
	return nil
}

func init() {
	Register("jsonl", func() Formatter {
		return &JSONLFormatter{}
	})
}

// Ensure JSONLFormatter implements Formatter.
var _ Formatter = (*JSONLFormatter)(nil)
