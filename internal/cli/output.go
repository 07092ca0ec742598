package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/agbru/integbench/internal/accuracy"
	"github.com/agbru/integbench/internal/benchmark"
	"github.com/agbru/integbench/internal/ui"
)

// Report is the JSON document written by --output.
type Report struct {
	GeneratedAt time.Time              `json:"generated_at"`
	Version     string                 `json:"version"`
	GoVersion   string                 `json:"go_version"`
	NumCPU      int                    `json:"num_cpu"`
	Config      benchmark.Config       `json:"config"`
	Elapsed     time.Duration          `json:"elapsed_ns"`
	Results     []benchmark.CaseResult `json:"results"`
	Summaries   []benchmark.Summary    `json:"summaries"`
	Accuracy    []accuracy.Row         `json:"accuracy,omitempty"`
}

// NewReport assembles a report. Case errors are copied into their Error
// field, which is the only form that survives encoding.
func NewReport(version string, cfg benchmark.Config, results []benchmark.CaseResult, elapsed time.Duration, rows []accuracy.Row) Report {
	out := make([]benchmark.CaseResult, len(results))
	for i, r := range results {
		if r.Err != nil && r.Error == "" {
			r.Error = r.Err.Error()
		}
		out[i] = r
	}
	return Report{
		GeneratedAt: time.Now().UTC(),
		Version:     version,
		GoVersion:   runtime.Version(),
		NumCPU:      runtime.NumCPU(),
		Config:      cfg,
		Elapsed:     elapsed,
		Results:     out,
		Summaries:   benchmark.Summarize(results),
		Accuracy:    rows,
	}
}

// EncodeReport writes the report as indented JSON.
func EncodeReport(w io.Writer, r Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// WriteReport writes the report to path, creating parent directories as
// needed. An empty path writes nothing.
//
// Parameters:
//   - path: The destination file.
//   - r: The report.
//   - quiet: Suppresses the confirmation line.
//   - out: The writer for the confirmation line.
//
// Returns:
//   - error: An error if the file cannot be written.
func WriteReport(path string, r Report, quiet bool, out io.Writer) error {
	if path == "" {
		return nil
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := EncodeReport(file, r); err != nil {
		file.Close()
		return fmt.Errorf("failed to write report: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	if !quiet {
		fmt.Fprintf(out, "\n%s✓ Report saved to: %s%s%s\n", ui.ColorGreen(), ui.ColorCyan(), path, ui.ColorReset())
	}
	return nil
}
