package pipeline

import (
	"context"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/matzehuels/matchbench/pkg/bipartite"
	"github.com/matzehuels/matchbench/pkg/observability"
)

// Generate builds the graph described by opts. The returned source has
// already produced the graph and continues with the draws a randomized
// matcher would take next.
func Generate(opts Options) (*bipartite.Graph, *rand.Rand, error) {
	rng := bipartite.NewRand(opts.Seed)
	g, err := bipartite.Random(rng, opts.Left, opts.Right, opts.Edges)
	if err != nil {
		return nil, nil, err
	}
	return g, rng, nil
}

// Compute generates the graph and times one matcher run on it, without
// touching the cache.
func Compute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateForMatch(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	hooks := observability.Match()
	hooks.OnMatchStart(ctx, opts.Left, opts.Right, opts.Edges, opts.Randomized)

	g, rng, err := Generate(opts)
	if err != nil {
		hooks.OnMatchComplete(ctx, 0, 0, err)
		return nil, err
	}

	m := bipartite.NewMatcher(g, bipartite.Options{Randomized: opts.Randomized, Rand: rng})
	start := time.Now()
	matching := m.Run()
	elapsed := time.Since(start)

	res := &Result{
		Left:       opts.Left,
		Right:      opts.Right,
		Edges:      opts.Edges,
		Seed:       opts.Seed,
		Randomized: opts.Randomized,
		Size:       matching.Size(),
		Matching:   matching,
		Elapsed:    elapsed,
		Stats:      m.Stats(),
		Graph:      g,
	}
	hooks.OnMatchComplete(ctx, res.Size, elapsed, nil)
	return res, nil
}

func formatScale(s float64) string {
	return strconv.FormatFloat(s, 'f', -1, 64)
}
