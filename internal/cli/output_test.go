package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/agbru/integbench/internal/benchmark"
)

func TestWriteReport(t *testing.T) {
	t.Parallel()
	tmpDir := t.TempDir()
	cfg := benchmark.Config{Integrand: "sin", Strategies: []string{"sequential", "shared"}, Jobs: []int{2}, Iters: []int{1000}, Repeats: 1}
	report := NewReport("v1.2.3", cfg, sampleResults(), time.Second, nil)

	testCases := []struct {
		name       string
		outputFile string
		quiet      bool
	}{
		{"Write report to file", filepath.Join(tmpDir, "report.json"), false},
		{"Empty output file (no write)", "", false},
		{"Create nested directory", filepath.Join(tmpDir, "nested", "dir", "report.json"), true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			var out bytes.Buffer
			if err := WriteReport(tc.outputFile, report, tc.quiet, &out); err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if tc.outputFile == "" {
				if out.Len() != 0 {
					t.Error("nothing should be printed without an output file")
				}
				return
			}
			content, err := os.ReadFile(tc.outputFile)
			if err != nil {
				t.Fatalf("Failed to read output file: %v", err)
			}
			var decoded Report
			if err := json.Unmarshal(content, &decoded); err != nil {
				t.Fatalf("report is not valid JSON: %v", err)
			}
			if decoded.Version != "v1.2.3" || len(decoded.Results) != 4 {
				t.Errorf("decoded report = %+v", decoded)
			}
			if decoded.Results[3].Error != "worker exited" {
				t.Errorf("case error not preserved: %q", decoded.Results[3].Error)
			}
			if tc.quiet == strings.Contains(out.String(), "Report saved") {
				t.Errorf("confirmation line printed=%v with quiet=%v", !tc.quiet, tc.quiet)
			}
		})
	}
}

func TestWriteReport_Unwritable(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	err := WriteReport(filepath.Join(blocker, "report.json"), Report{}, true, &bytes.Buffer{})
	if err == nil {
		t.Fatal("expected an error writing below a regular file")
	}
}

func TestNewReport_Summaries(t *testing.T) {
	t.Parallel()
	r := NewReport("dev", benchmark.Config{}, sampleResults(), time.Second, nil)
	if len(r.Summaries) != 1 || r.Summaries[0].Strategy != "shared" {
		t.Errorf("summaries = %+v", r.Summaries)
	}
	if r.NumCPU <= 0 || r.GoVersion == "" {
		t.Error("environment fields should be filled")
	}
	var buf bytes.Buffer
	if err := EncodeReport(&buf, r); err != nil {
		t.Fatalf("EncodeReport: %v", err)
	}
	if !strings.Contains(buf.String(), `"serial_fraction"`) {
		t.Error("Amdahl fit should be encoded")
	}
}
