package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/matchbench/pkg/cache"
	"github.com/matzehuels/matchbench/pkg/observability"
	"github.com/matzehuels/matchbench/pkg/render"
	"github.com/matzehuels/matchbench/pkg/render/nodelink"
)

// Cache key types reported to observability hooks.
const (
	keyTypeMatch = "match"
	keyTypeDOT   = "dot"
)

// Runner executes the pipeline with caching. It holds no per-request
// state, so one Runner can serve concurrent requests.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// MatchTTL and DiagramTTL override the cache defaults when non-zero.
	MatchTTL   time.Duration
	DiagramTTL time.Duration
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer
// uses cache.DefaultKeyer and a nil logger discards.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Match returns the maximum matching of the graph described by opts and
// reports whether it came from the cache. Cached results have no Graph.
func (r *Runner) Match(ctx context.Context, opts Options) (*Result, bool, error) {
	if err := opts.ValidateForMatch(); err != nil {
		return nil, false, err
	}
	key := r.Keyer.MatchKey(opts.MatchKeyOpts())
	hooks := observability.Cache()

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err != nil {
			r.Logger.Warn("cache read failed", "err", err)
		} else if hit {
			var res Result
			if err := json.Unmarshal(data, &res); err == nil {
				hooks.OnCacheHit(ctx, keyTypeMatch)
				return &res, true, nil
			}
		}
		hooks.OnCacheMiss(ctx, keyTypeMatch)
	}

	res, err := Compute(ctx, opts)
	if err != nil {
		return nil, false, err
	}
	r.Logger.Debug("computed matching",
		"left", res.Left,
		"right", res.Right,
		"edges", res.Edges,
		"size", res.Size,
		"elapsed", res.Elapsed)

	if data, err := json.Marshal(res); err == nil {
		if err := r.Cache.Set(ctx, key, data, r.ttl(r.MatchTTL, cache.TTLMatch)); err != nil {
			r.Logger.Warn("cache write failed", "err", err)
		} else {
			hooks.OnCacheSet(ctx, keyTypeMatch, len(data))
		}
	}
	return res, false, nil
}

// Diagram renders the matched graph in opts.Format and reports whether it
// came from the cache.
func (r *Runner) Diagram(ctx context.Context, opts Options) ([]byte, bool, error) {
	if err := opts.ValidateForDiagram(); err != nil {
		return nil, false, err
	}
	key := r.Keyer.DOTKey(opts.MatchKeyOpts(), opts.DOTKeyOpts())
	hooks := observability.Cache()

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			hooks.OnCacheHit(ctx, keyTypeDOT)
			return data, true, nil
		}
		hooks.OnCacheMiss(ctx, keyTypeDOT)
	}

	res, err := Compute(ctx, opts)
	if err != nil {
		return nil, false, err
	}
	out, err := RenderResult(ctx, res, opts)
	if err != nil {
		return nil, false, err
	}

	if err := r.Cache.Set(ctx, key, out, r.ttl(r.DiagramTTL, cache.TTLDiagram)); err != nil {
		r.Logger.Warn("cache write failed", "err", err)
	} else {
		hooks.OnCacheSet(ctx, keyTypeDOT, len(out))
	}
	return out, false, nil
}

// RenderResult draws a freshly computed result. It fails for cached
// results, which carry no graph.
func RenderResult(ctx context.Context, res *Result, opts Options) ([]byte, error) {
	if res.Graph == nil {
		return nil, fmt.Errorf("result has no graph to render")
	}
	dot := nodelink.ToDOT(res.Graph, res.Matching, opts.NodelinkOptions())

	if opts.Format == nodelink.FormatPNG && opts.Scale > 1 {
		svg, err := nodelink.RenderSVG(ctx, dot)
		if err != nil {
			return nil, err
		}
		return render.ToPNG(ctx, svg, opts.Scale)
	}
	return nodelink.Render(ctx, dot, opts.Format)
}

func (r *Runner) ttl(override, def time.Duration) time.Duration {
	if override != 0 {
		return override
	}
	return def
}
