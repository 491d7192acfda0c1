package server

import (
	"context"
	"errors"

	"github.com/panjf2000/ants/v2"

	"github.com/matzehuels/matchbench/pkg/bench"
	errs "github.com/matzehuels/matchbench/pkg/errors"
)

// sweepResult carries a finished sweep back to the waiting handler.
type sweepResult struct {
	run *bench.Run
	err error
}

// newSweepPool returns a pool of size workers that rejects work instead of
// queueing it when every worker is busy.
func newSweepPool(size int) (*ants.Pool, error) {
	pool, err := ants.NewPool(size, ants.WithNonblocking(true))
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "create sweep pool")
	}
	return pool, nil
}

// runSweep executes sweep on a pool worker and waits for it. A full pool
// is reported as UNAVAILABLE; the caller's cancellation stops the sweep.
func (s *Server) runSweep(ctx context.Context, sweep bench.Sweep) (*bench.Run, error) {
	done := make(chan sweepResult, 1)
	err := s.sweeps.Submit(func() {
		run, err := s.bench.Run(ctx, sweep, nil)
		done <- sweepResult{run: run, err: err}
	})
	if errors.Is(err, ants.ErrPoolOverload) {
		return nil, errs.New(errs.ErrCodeUnavailable, "%d sweeps already running, try again later", s.cfg.MaxSweeps)
	}
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeUnavailable, err, "schedule sweep")
	}
	res := <-done
	return res.run, res.err
}
