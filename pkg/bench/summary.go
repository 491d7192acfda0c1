package bench

import (
	"slices"
	"time"
)

// Summary condenses the trials of one edge count.
type Summary struct {
	N        int           `json:"n"`
	M        int           `json:"m"`
	Count    int           `json:"count"`
	Min      time.Duration `json:"min"`
	Max      time.Duration `json:"max"`
	Mean     time.Duration `json:"mean"`
	Median   time.Duration `json:"median"`
	MeanSize float64       `json:"mean_size"`
}

// Summarize groups records by edge count, ordered by m ascending. The
// median of an even number of trials is the mean of the middle two.
func Summarize(records []Record) []Summary {
	groups := make(map[int][]Record)
	for _, r := range records {
		groups[r.M] = append(groups[r.M], r)
	}

	out := make([]Summary, 0, len(groups))
	for m, rs := range groups {
		times := make([]time.Duration, len(rs))
		var total time.Duration
		sizes := 0
		for i, r := range rs {
			times[i] = r.Time
			total += r.Time
			sizes += r.Size
		}
		slices.Sort(times)

		k := len(times)
		median := times[k/2]
		if k%2 == 0 {
			median = (times[k/2-1] + times[k/2]) / 2
		}
		out = append(out, Summary{
			N:        rs[0].N,
			M:        m,
			Count:    k,
			Min:      times[0],
			Max:      times[k-1],
			Mean:     total / time.Duration(k),
			Median:   median,
			MeanSize: float64(sizes) / float64(k),
		})
	}
	slices.SortFunc(out, func(a, b Summary) int { return a.M - b.M })
	return out
}
