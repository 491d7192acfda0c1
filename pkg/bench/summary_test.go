package bench

import (
	"testing"
	"time"
)

func TestSummarize(t *testing.T) {
	records := []Record{
		{N: 100, M: 20, Time: 40, Size: 10},
		{N: 100, M: 10, Time: 30, Size: 6},
		{N: 100, M: 10, Time: 10, Size: 8},
		{N: 100, M: 20, Time: 10, Size: 9},
		{N: 100, M: 20, Time: 20, Size: 11},
		{N: 100, M: 10, Time: 20, Size: 7},
		{N: 100, M: 10, Time: 60, Size: 7},
	}

	got := Summarize(records)
	want := []Summary{
		{N: 100, M: 10, Count: 4, Min: 10, Max: 60, Mean: 30, Median: 25, MeanSize: 7},
		{N: 100, M: 20, Count: 3, Min: 10, Max: 40, Mean: 70 * time.Nanosecond / 3, Median: 20, MeanSize: 10},
	}
	if len(got) != len(want) {
		t.Fatalf("Summarize() = %d groups, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("group %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestSummarizeEmpty(t *testing.T) {
	if got := Summarize(nil); len(got) != 0 {
		t.Errorf("Summarize(nil) = %v", got)
	}
}
