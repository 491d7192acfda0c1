package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/matchbench/pkg/buildinfo"
	"github.com/matzehuels/matchbench/pkg/observability"
	"github.com/matzehuels/matchbench/pkg/server"
)

func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		rateLimit float64
		maxEdges  int
		maxNodes  int
		maxTrials int
		maxSweeps int
		otlp      string
		noCache   bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve matchings, diagrams and sweeps over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := server.Config{
				Addr:      c.Config.Server.Addr,
				RateLimit: c.Config.Server.RateLimit,
				MaxEdges:  c.Config.Server.MaxEdges,
				MaxNodes:  c.Config.Server.MaxNodes,
				MaxTrials: maxTrials,
				MaxSweeps: c.Config.Server.MaxSweeps,
				Version:   buildinfo.Version,
			}
			f := cmd.Flags()
			if f.Changed("addr") {
				cfg.Addr = addr
			}
			if f.Changed("rate-limit") {
				cfg.RateLimit = rateLimit
			}
			if f.Changed("max-edges") {
				cfg.MaxEdges = maxEdges
			}
			if f.Changed("max-nodes") {
				cfg.MaxNodes = maxNodes
			}
			if f.Changed("max-sweeps") {
				cfg.MaxSweeps = maxSweeps
			}
			endpoint := c.Config.Server.OTLPEndpoint
			if f.Changed("otlp-endpoint") {
				endpoint = otlp
			}
			return c.runServe(cmd.Context(), cfg, endpoint, noCache)
		},
	}

	f := cmd.Flags()
	f.StringVar(&addr, "addr", server.DefaultAddr, "listen address")
	f.Float64Var(&rateLimit, "rate-limit", 20, "requests per second on /v1, 0 disables")
	f.IntVar(&maxEdges, "max-edges", server.DefaultMaxEdges, "largest edge count a request may generate")
	f.IntVar(&maxNodes, "max-nodes", server.DefaultMaxNodes, "largest left+right a request may generate")
	f.IntVar(&maxTrials, "max-trials", server.DefaultMaxTrials, "largest number of timed runs per sweep request")
	f.IntVar(&maxSweeps, "max-sweeps", server.DefaultMaxSweeps, "sweeps allowed to run at once")
	f.StringVar(&otlp, "otlp-endpoint", "", "export metrics to an OTLP/HTTP collector at host:port")
	f.BoolVar(&noCache, "no-cache", false, "disable the result cache")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, cfg server.Config, otlpEndpoint string, noCache bool) error {
	logger := loggerFromContext(ctx)

	if otlpEndpoint != "" {
		shutdown, err := installMetrics(ctx, otlpEndpoint, cfg.Version)
		if err != nil {
			return err
		}
		defer shutdown()
		logger.Info("exporting metrics", "endpoint", otlpEndpoint)
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return err
	}
	defer runner.Cache.Close()

	st, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close(context.WithoutCancel(ctx))

	logger.Info("starting server",
		"version", cfg.Version,
		"cache", c.Config.Cache.Backend,
		"store", c.Config.Store.Backend)
	srv, err := server.New(cfg, runner, st, logger)
	if err != nil {
		return err
	}
	defer srv.Close()
	return srv.ListenAndServe(ctx)
}

// installMetrics routes every observability hook to an OTLP exporter. The
// returned func flushes and stops it.
func installMetrics(ctx context.Context, endpoint, version string) (func(), error) {
	mp, err := observability.NewOTLPMeterProvider(ctx, endpoint, version)
	if err != nil {
		return nil, err
	}
	hooks, err := observability.NewMetricHooks(mp)
	if err != nil {
		_ = mp.Shutdown(ctx)
		return nil, err
	}
	hooks.Install()
	return func() {
		flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		_ = mp.Shutdown(flushCtx)
	}, nil
}
