package bench

import (
	"github.com/matzehuels/matchbench/pkg/bipartite"
	errs "github.com/matzehuels/matchbench/pkg/errors"
)

// DefaultTrials is the number of trials per edge count.
const DefaultTrials = 10

// densityDivisor and maxDensityDivisor derive the default edge counts:
// the sweep starts at and steps by L*R/200, and stops before L*R/20.
const (
	densityDivisor    = 200
	maxDensityDivisor = 20
)

// Sweep describes a benchmark: graphs with Left and Right nodes and edge
// counts From, From+Step, ... below To, each measured Trials times.
type Sweep struct {
	Left       int    `json:"left" bson:"left"`
	Right      int    `json:"right" bson:"right"`
	From       int    `json:"from" bson:"from"`
	To         int    `json:"to" bson:"to"` // exclusive
	Step       int    `json:"step" bson:"step"`
	Trials     int    `json:"trials" bson:"trials"`
	Seed       uint64 `json:"seed" bson:"seed"`
	Randomized bool   `json:"randomized" bson:"randomized"`
}

// DefaultSweep returns the 10000 × 10000 sweep with fixed traversal order.
func DefaultSweep() Sweep {
	s := Sweep{Left: 10000, Right: 10000, Seed: bipartite.DefaultSeed}
	s.SetDefaults()
	return s
}

// SetDefaults fills zero From, To, Step and Trials from the graph shape.
// From is only derived when To is zero as well, so a sweep with an explicit
// upper bound starts exactly at From, which may be 0. Step never defaults
// below 1.
func (s *Sweep) SetDefaults() {
	n := errs.PairCount(s.Left, s.Right)
	if s.From == 0 && s.To == 0 {
		s.From = n / densityDivisor
	}
	if s.To == 0 {
		s.To = n / maxDensityDivisor
	}
	if s.Step == 0 {
		s.Step = max(1, n/densityDivisor)
	}
	if s.Trials == 0 {
		s.Trials = DefaultTrials
	}
}

// StartAt sets the first edge count to from. An unset To is derived first
// so that SetDefaults keeps from, including 0.
func (s *Sweep) StartAt(from int) {
	if s.To == 0 {
		s.To = s.PairCount() / maxDensityDivisor
	}
	s.From = from
}

// Validate checks the sweep after defaults are applied. Every edge count
// it enumerates must fit in a Left × Right graph.
func (s Sweep) Validate() error {
	if err := errs.ValidateSides(s.Left, s.Right); err != nil {
		return err
	}
	if s.From < 0 || s.To < 0 {
		return errs.New(errs.ErrCodeInvalidInput, "edge range must not be negative (from=%d, to=%d)", s.From, s.To)
	}
	if s.Step <= 0 {
		return errs.New(errs.ErrCodeInvalidInput, "step must be positive, got %d", s.Step)
	}
	if s.Trials <= 0 {
		return errs.New(errs.ErrCodeInvalidInput, "trials must be positive, got %d", s.Trials)
	}
	if last, ok := s.last(); ok {
		if err := errs.ValidateEdgeCount(s.Left, s.Right, last); err != nil {
			return err
		}
	}
	return nil
}

// PairCount returns Left*Right, the n column of every record.
func (s Sweep) PairCount() int { return errs.PairCount(s.Left, s.Right) }

// EdgeCounts enumerates From, From+Step, ... below To.
func (s Sweep) EdgeCounts() []int {
	if s.Step <= 0 || s.From >= s.To {
		return nil
	}
	out := make([]int, 0, (s.To-s.From+s.Step-1)/s.Step)
	for m := s.From; m < s.To; m += s.Step {
		out = append(out, m)
	}
	return out
}

// TotalTrials returns the total number of timed runs.
func (s Sweep) TotalTrials() int {
	return len(s.EdgeCounts()) * s.Trials
}

func (s Sweep) last() (int, bool) {
	if s.Step <= 0 || s.From >= s.To {
		return 0, false
	}
	return s.From + (s.To-1-s.From)/s.Step*s.Step, true
}
