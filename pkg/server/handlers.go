package server

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/matchbench/pkg/bench"
	"github.com/matzehuels/matchbench/pkg/bipartite"
	errs "github.com/matzehuels/matchbench/pkg/errors"
	"github.com/matzehuels/matchbench/pkg/pipeline"
	"github.com/matzehuels/matchbench/pkg/render/nodelink"
)

// graphRequest is the body of /v1/match and /v1/dot.
type graphRequest struct {
	Left        int    `json:"left"`
	Right       int    `json:"right"`
	Edges       int    `json:"edges"`
	Seed        uint64 `json:"seed"`
	Randomized  bool   `json:"randomized"`
	DOT         bool   `json:"dot"`
	Color       string `json:"color"`
	MatchedOnly bool   `json:"matched_only"`
}

func (g graphRequest) options() pipeline.Options {
	o := pipeline.Options{
		Left:        g.Left,
		Right:       g.Right,
		Edges:       g.Edges,
		Seed:        g.Seed,
		Randomized:  g.Randomized,
		Color:       g.Color,
		MatchedOnly: g.MatchedOnly,
	}
	o.SetDefaults()
	return o
}

// benchRequest is the body of /v1/bench. From is a pointer so that an
// explicit 0 starts the sweep at the empty graph instead of the default.
type benchRequest struct {
	bench.Sweep
	From *int `json:"from"`
}

func (b benchRequest) sweep() bench.Sweep {
	s := b.Sweep
	if b.From != nil {
		s.StartAt(*b.From)
	}
	if s.Seed == 0 {
		s.Seed = bipartite.DefaultSeed
	}
	return s
}

type matchResponse struct {
	ID         string             `json:"id"`
	Left       int                `json:"left"`
	Right      int                `json:"right"`
	Edges      int                `json:"edges"`
	Seed       uint64             `json:"seed"`
	Randomized bool               `json:"randomized"`
	Size       int                `json:"size"`
	Matching   bipartite.Matching `json:"matching"`
	ElapsedNS  int64              `json:"elapsed_ns"`
	Stats      bipartite.Stats    `json:"stats"`
	Cached     bool               `json:"cached"`
	DOT        string             `json:"dot,omitempty"`
}

type matchOutcome struct {
	res    *pipeline.Result
	cached bool
}

type diagramOutcome struct {
	data   []byte
	cached bool
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": s.cfg.Version})
}

func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	var req graphRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	opts := req.options()
	if err := s.checkGraph(&opts); err != nil {
		writeError(w, err)
		return
	}
	if req.DOT {
		opts.Format = nodelink.FormatDOT
		if err := opts.ValidateForDiagram(); err != nil {
			writeError(w, err)
			return
		}
	}

	out, err := s.match(r.Context(), opts)
	if err != nil {
		writeError(w, err)
		return
	}
	res := out.res
	resp := matchResponse{
		ID:         RequestID(r.Context()),
		Left:       res.Left,
		Right:      res.Right,
		Edges:      res.Edges,
		Seed:       res.Seed,
		Randomized: res.Randomized,
		Size:       res.Size,
		Matching:   res.Matching,
		ElapsedNS:  res.Elapsed.Nanoseconds(),
		Stats:      res.Stats,
		Cached:     out.cached,
	}

	if req.DOT {
		d, err := s.diagram(r.Context(), opts)
		if err != nil {
			writeError(w, err)
			return
		}
		resp.DOT = string(d.data)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDOT(w http.ResponseWriter, r *http.Request) {
	var req graphRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	opts := req.options()
	if f := r.URL.Query().Get("format"); f != "" {
		opts.Format = f
	}
	if err := s.checkGraph(&opts); err != nil {
		writeError(w, err)
		return
	}
	if err := opts.ValidateForDiagram(); err != nil {
		writeError(w, err)
		return
	}

	d, err := s.diagram(r.Context(), opts)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", nodelink.ContentType(opts.Format))
	w.Header().Set("X-Cache", cacheHeader(d.cached))
	_, _ = w.Write(d.data)
}

func (s *Server) handleBench(w http.ResponseWriter, r *http.Request) {
	var req benchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	sweep := req.sweep()
	sweep.SetDefaults()
	if err := sweep.Validate(); err != nil {
		writeError(w, err)
		return
	}
	if counts := sweep.EdgeCounts(); len(counts) > 0 && counts[len(counts)-1] > s.cfg.MaxEdges {
		writeError(w, errs.New(errs.ErrCodeInvalidInput,
			"sweep reaches %d edges, limit is %d", counts[len(counts)-1], s.cfg.MaxEdges))
		return
	}
	if n := sweep.Left + sweep.Right; n > s.cfg.MaxNodes {
		writeError(w, errs.New(errs.ErrCodeInvalidInput, "graph has %d nodes, limit is %d", n, s.cfg.MaxNodes))
		return
	}
	if n := sweep.TotalTrials(); n > s.cfg.MaxTrials {
		writeError(w, errs.New(errs.ErrCodeInvalidInput, "sweep has %d trials, limit is %d", n, s.cfg.MaxTrials))
		return
	}

	run, err := s.runSweep(r.Context(), sweep)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.store.SaveRun(r.Context(), run); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, run)
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, errs.New(errs.ErrCodeInvalidInput, "invalid limit %q", v))
			return
		}
		limit = n
	}
	runs, err := s.store.ListRuns(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	if runs == nil {
		runs = []*bench.Run{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	run, err := s.store.GetRun(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

// checkGraph validates the generation parameters against the server limits.
func (s *Server) checkGraph(opts *pipeline.Options) error {
	if err := opts.ValidateForMatch(); err != nil {
		return err
	}
	if opts.Edges > s.cfg.MaxEdges {
		return errs.New(errs.ErrCodeInvalidInput, "edges %d exceeds limit %d", opts.Edges, s.cfg.MaxEdges)
	}
	if n := opts.Left + opts.Right; n > s.cfg.MaxNodes {
		return errs.New(errs.ErrCodeInvalidInput, "graph has %d nodes, limit is %d", n, s.cfg.MaxNodes)
	}
	return nil
}

// match collapses identical concurrent requests into one computation. The
// shared call outlives any single client, so it does not inherit
// cancellation.
func (s *Server) match(ctx context.Context, opts pipeline.Options) (matchOutcome, error) {
	key := s.runner.Keyer.MatchKey(opts.MatchKeyOpts())
	v, err, _ := s.group.Do(key, func() (any, error) {
		res, cached, err := s.runner.Match(context.WithoutCancel(ctx), opts)
		return matchOutcome{res: res, cached: cached}, err
	})
	if err != nil {
		return matchOutcome{}, err
	}
	return v.(matchOutcome), nil
}

func (s *Server) diagram(ctx context.Context, opts pipeline.Options) (diagramOutcome, error) {
	key := s.runner.Keyer.DOTKey(opts.MatchKeyOpts(), opts.DOTKeyOpts())
	v, err, _ := s.group.Do(key, func() (any, error) {
		data, cached, err := s.runner.Diagram(context.WithoutCancel(ctx), opts)
		return diagramOutcome{data: data, cached: cached}, err
	})
	if err != nil {
		return diagramOutcome{}, err
	}
	return v.(diagramOutcome), nil
}

func cacheHeader(hit bool) string {
	if hit {
		return "HIT"
	}
	return "MISS"
}
