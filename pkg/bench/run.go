package bench

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/matchbench/pkg/bipartite"
	"github.com/matzehuels/matchbench/pkg/observability"
)

// Record is the measurement of one trial.
type Record struct {
	N          int           `json:"n" bson:"n"`       // Left*Right
	M          int           `json:"m" bson:"m"`       // edges in the graph
	Time       time.Duration `json:"time" bson:"time"` // one matcher run, nanoseconds
	Size       int           `json:"size" bson:"size"` // matching size
	Trial      int           `json:"trial" bson:"trial"`
	Randomized bool          `json:"randomized" bson:"randomized"`
}

// Run is a finished or interrupted sweep with its records.
type Run struct {
	ID         string    `json:"id" bson:"_id"`
	Sweep      Sweep     `json:"sweep" bson:"sweep"`
	StartedAt  time.Time `json:"started_at" bson:"started_at"`
	FinishedAt time.Time `json:"finished_at" bson:"finished_at"`
	Complete   bool      `json:"complete" bson:"complete"`
	Version    string    `json:"version,omitempty" bson:"version,omitempty"`
	Records    []Record  `json:"records" bson:"records"`
}

// Duration returns the wall-clock time of the sweep, including graph
// construction.
func (r *Run) Duration() time.Duration { return r.FinishedAt.Sub(r.StartedAt) }

// Runner executes sweeps.
type Runner struct {
	Logger  *log.Logger
	Version string // stamped on every Run
}

// NewRunner returns a runner logging to logger. A nil logger discards.
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Runner{Logger: logger}
}

// Run executes sweep and calls fn with every record as soon as it is
// measured. A non-nil error from fn stops the sweep.
//
// All graphs and, in randomized mode, all neighbor shuffles draw from one
// PCG source seeded with sweep.Seed, in trial order, so a run is
// reproducible from its sweep alone. The context is checked between
// trials; on cancellation the partial Run is returned with ctx.Err().
func (r *Runner) Run(ctx context.Context, sweep Sweep, fn func(Record) error) (*Run, error) {
	sweep.SetDefaults()
	if err := sweep.Validate(); err != nil {
		return nil, err
	}

	counts := sweep.EdgeCounts()
	run := &Run{
		ID:        uuid.NewString(),
		Sweep:     sweep,
		StartedAt: time.Now(),
		Version:   r.Version,
		Records:   make([]Record, 0, len(counts)*sweep.Trials),
	}

	hooks := observability.Bench()
	hooks.OnSweepStart(ctx, sweep.Left, sweep.Right, len(counts), sweep.Trials)
	r.Logger.Info("starting sweep",
		"id", run.ID,
		"left", sweep.Left,
		"right", sweep.Right,
		"points", len(counts),
		"trials", sweep.Trials,
		"randomized", sweep.Randomized)

	err := r.sweep(ctx, run, counts, fn)
	run.FinishedAt = time.Now()
	run.Complete = err == nil
	hooks.OnSweepComplete(ctx, len(run.Records), run.Duration(), err)
	if err != nil {
		return run, err
	}

	r.Logger.Info("sweep complete", "records", len(run.Records), "duration", run.Duration().Round(time.Millisecond))
	return run, nil
}

func (r *Runner) sweep(ctx context.Context, run *Run, counts []int, fn func(Record) error) error {
	s := run.Sweep
	n := s.PairCount()
	rng := bipartite.NewRand(s.Seed)
	hooks := observability.Bench()

	for _, m := range counts {
		var total time.Duration
		for trial := range s.Trials {
			if err := ctx.Err(); err != nil {
				return err
			}

			g, err := bipartite.Random(rng, s.Left, s.Right, m)
			if err != nil {
				return err
			}
			matcher := bipartite.NewMatcher(g, bipartite.Options{Randomized: s.Randomized, Rand: rng})

			start := time.Now()
			matching := matcher.Run()
			elapsed := time.Since(start)

			rec := Record{
				N:          n,
				M:          m,
				Time:       elapsed,
				Size:       matching.Size(),
				Trial:      trial,
				Randomized: s.Randomized,
			}
			run.Records = append(run.Records, rec)
			total += elapsed
			hooks.OnTrialComplete(ctx, n, m, trial, rec.Size, elapsed)

			if fn != nil {
				if err := fn(rec); err != nil {
					return err
				}
			}
		}
		r.Logger.Debug("edge count done", "m", m, "mean", total/time.Duration(s.Trials))
	}
	return nil
}
