// Package server exposes matching, diagrams and benchmark sweeps over HTTP.
//
// Routes:
//
//	GET  /healthz
//	POST /v1/match       generate a graph and return its maximum matching
//	POST /v1/dot         the same graph as DOT, or ?format=svg|png|jpg|pdf
//	POST /v1/bench       run a small sweep and store it
//	GET  /v1/runs        stored sweeps, newest first
//	GET  /v1/runs/{id}   one stored sweep with its records
//
// Errors are returned as {"code": ..., "message": ...} with a status code
// derived from the error code.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/panjf2000/ants/v2"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/matzehuels/matchbench/pkg/bench"
	"github.com/matzehuels/matchbench/pkg/pipeline"
	"github.com/matzehuels/matchbench/pkg/store"
)

// Defaults for [Config] fields left zero.
const (
	DefaultAddr      = ":8080"
	DefaultMaxEdges  = 1_000_000
	DefaultMaxNodes  = 200_000
	DefaultMaxTrials = 1000
	DefaultMaxSweeps = 2
	maxBodyBytes     = 1 << 20
	shutdownTimeout  = 10 * time.Second
)

// Config configures a [Server].
type Config struct {
	Addr      string
	RateLimit float64 // requests per second across all clients; 0 disables
	MaxEdges  int     // largest edge count a request may generate
	MaxNodes  int     // largest left+right a request may generate
	MaxTrials int     // largest number of timed runs per /v1/bench request
	MaxSweeps int     // concurrent /v1/bench sweeps; further requests get 503
	Version   string
}

func (c *Config) setDefaults() {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.MaxEdges <= 0 {
		c.MaxEdges = DefaultMaxEdges
	}
	if c.MaxNodes <= 0 {
		c.MaxNodes = DefaultMaxNodes
	}
	if c.MaxTrials <= 0 {
		c.MaxTrials = DefaultMaxTrials
	}
	if c.MaxSweeps <= 0 {
		c.MaxSweeps = DefaultMaxSweeps
	}
}

// Server is the HTTP API.
type Server struct {
	cfg    Config
	runner *pipeline.Runner
	bench  *bench.Runner
	store  store.Store
	logger *log.Logger
	sweeps *ants.Pool
	group  singleflight.Group
	router chi.Router
}

// New builds a server. A nil runner uses an uncached pipeline, a nil store
// an in-memory one, a nil logger discards. Call Close to release the sweep
// workers.
func New(cfg Config, runner *pipeline.Runner, st store.Store, logger *log.Logger) (*Server, error) {
	cfg.setDefaults()
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, logger)
	}
	if st == nil {
		st = store.NewMemoryStore()
	}
	br := bench.NewRunner(logger)
	br.Version = cfg.Version

	pool, err := newSweepPool(cfg.MaxSweeps)
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:    cfg,
		runner: runner,
		bench:  br,
		store:  st,
		logger: logger,
		sweeps: pool,
	}
	s.router = s.routes()
	return s, nil
}

// Close releases the sweep workers. Sweeps already running are not
// interrupted.
func (s *Server) Close() {
	s.sweeps.Release()
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		if s.cfg.RateLimit > 0 {
			r.Use(rateLimit(rate.NewLimiter(rate.Limit(s.cfg.RateLimit), max(1, int(s.cfg.RateLimit)))))
		}
		r.Post("/match", s.handleMatch)
		r.Post("/dot", s.handleDOT)
		r.Post("/bench", s.handleBench)
		r.Get("/runs", s.handleListRuns)
		r.Get("/runs/{id}", s.handleGetRun)
	})
	return r
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
