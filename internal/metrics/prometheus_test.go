package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/agbru/integbench/internal/logging"
)

// testLogger is a minimal logger for testing that implements logging.Logger.
type testLogger struct{}

func newTestLogger() *testLogger                                  { return &testLogger{} }
func (l *testLogger) Info(_ string, _ ...logging.Field)           {}
func (l *testLogger) Error(_ string, _ error, _ ...logging.Field) {}
func (l *testLogger) Debug(_ string, _ ...logging.Field)          {}
func (l *testLogger) Printf(_ string, _ ...any)                   {}
func (l *testLogger) Println(_ ...any)                            {}

// gathered returns the value of the sample of family name whose labels
// include every pair in labels.
func gathered(t *testing.T, c *Collector, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := c.Registry().Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
	next:
		for _, m := range mf.GetMetric() {
			have := make(map[string]string)
			for _, lp := range m.GetLabel() {
				have[lp.GetName()] = lp.GetValue()
			}
			for k, v := range labels {
				if have[k] != v {
					continue next
				}
			}
			switch {
			case m.GetCounter() != nil:
				return m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				return m.GetGauge().GetValue()
			}
		}
	}
	t.Fatalf("no sample %s%v", name, labels)
	return 0
}

func TestNewCollector(t *testing.T) {
	t.Parallel()
	c := NewCollector()
	if c.handler == nil || c.Registry() == nil {
		t.Fatal("collector should be fully initialized")
	}
	// Separate collectors must not collide on registration.
	_ = NewCollector()
}

func TestCollector_RecordCase(t *testing.T) {
	t.Parallel()
	c := NewCollector()

	c.CaseStarted()
	c.RecordCase("shared", 1000, 4, 2*time.Millisecond, 5e5, 3.5, false)
	c.CaseStarted()
	c.RecordCase("isolated", 1000, 4, 0, 0, 0, true)

	if got := gathered(t, c, "integbench_cases_total", map[string]string{"strategy": "shared", "status": "ok"}); got != 1 {
		t.Errorf("ok cases = %v, want 1", got)
	}
	if got := gathered(t, c, "integbench_cases_total", map[string]string{"strategy": "isolated", "status": "error"}); got != 1 {
		t.Errorf("failed cases = %v, want 1", got)
	}
	if got := gathered(t, c, "integbench_speedup_ratio", map[string]string{"strategy": "shared", "iters": "1000", "jobs": "4"}); got != 3.5 {
		t.Errorf("speedup = %v, want 3.5", got)
	}
	if got := gathered(t, c, "integbench_cases_running", nil); got != 0 {
		t.Errorf("running = %v, want 0", got)
	}
}

func TestCollector_WritePrometheus(t *testing.T) {
	t.Parallel()
	c := NewCollector()
	c.CaseStarted()
	c.RecordCase("native", 100, 2, time.Millisecond, 1e5, 1.9, false)

	req := httptest.NewRequest("GET", "/metrics", http.NoBody)
	rec := httptest.NewRecorder()
	c.WritePrometheus(rec, req)
	body := rec.Body.String()

	for _, want := range []string{
		"integbench_cases_total",
		"integbench_case_duration_seconds",
		"integbench_throughput_rectangles_per_second",
		"integbench_speedup_ratio",
		"go_",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output should contain %s", want)
		}
	}
}

func TestServer_handleMetrics(t *testing.T) {
	t.Parallel()
	s := NewServer(":0", NewCollector(), newTestLogger())

	t.Run("GET returns metrics", func(t *testing.T) {
		rec := httptest.NewRecorder()
		s.http.Handler.ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", http.NoBody))
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
		}
		if !strings.Contains(rec.Body.String(), "integbench_") {
			t.Error("response should contain integbench metrics")
		}
		if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
			t.Error("security headers should be set")
		}
	})

	for _, method := range []string{"POST", "PUT", "DELETE"} {
		t.Run(method+" returns method not allowed", func(t *testing.T) {
			rec := httptest.NewRecorder()
			s.http.Handler.ServeHTTP(rec, httptest.NewRequest(method, "/metrics", http.NoBody))
			if rec.Code != http.StatusMethodNotAllowed {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
			}
		})
	}
}

func TestServer_StartAndShutdown(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	s := NewServer("127.0.0.1:0", NewCollector(), newTestLogger())
	addr, err := s.Start(ctx)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	resp, err := http.Get("http://" + addr + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), "integbench_cases_running") {
		t.Errorf("unexpected response %d", resp.StatusCode)
	}

	cancel()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if _, err := http.Get("http://" + addr + "/metrics"); err != nil {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Error("server should stop after the context is canceled")
}
