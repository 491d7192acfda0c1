package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/matchbench/pkg/bench"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0s"},
		{1500 * time.Nanosecond, "2µs"},
		{750 * time.Microsecond, "750µs"},
		{time.Millisecond, "1.00ms"},
		{1234567 * time.Nanosecond, "1.23ms"},
		{2 * time.Second, "2000.00ms"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestGraphLine(t *testing.T) {
	fresh := graphLine(100, 80, 400, false)
	for _, want := range []string{"100 × 80", "400 edges", iconFresh} {
		if !strings.Contains(fresh, want) {
			t.Errorf("graphLine() = %q, missing %q", fresh, want)
		}
	}
	if got := graphLine(1, 1, 1, true); !strings.Contains(got, iconCached) {
		t.Errorf("graphLine(cached) = %q, missing %q", got, iconCached)
	}
}

func TestSummaryTable(t *testing.T) {
	sums := bench.Summarize([]bench.Record{
		{N: 16, M: 2, Time: time.Microsecond, Size: 2},
		{N: 16, M: 2, Time: 3 * time.Microsecond, Size: 2},
		{N: 16, M: 4, Time: 2 * time.Millisecond, Size: 3},
	})
	out := summaryTable(sums)
	for _, want := range []string{"median", "size", "2µs", "2.00ms", "3.0"} {
		if !strings.Contains(out, want) {
			t.Errorf("summaryTable() missing %q:\n%s", want, out)
		}
	}
}

func TestRunsTable(t *testing.T) {
	runs := []*bench.Run{
		{
			ID:        "run-complete",
			Sweep:     bench.Sweep{Left: 10, Right: 20, From: 2, To: 20, Step: 2, Trials: 3},
			StartedAt: time.Date(2026, 1, 2, 3, 4, 0, 0, time.UTC),
			Complete:  true,
		},
		{
			ID:    "run-partial",
			Sweep: bench.Sweep{Left: 5, Right: 5, From: 1, To: 5, Step: 1, Trials: 1, Randomized: true},
		},
	}
	out := runsTable(runs)
	for _, want := range []string{"run-complete", "10 × 20", "2..20/2", "fixed", "complete", "run-partial", "randomized", "partial"} {
		if !strings.Contains(out, want) {
			t.Errorf("runsTable() missing %q:\n%s", want, out)
		}
	}
}
