package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/matchbench/pkg/pipeline"
)

// graphFlags are the generation flags shared by match and dot.
type graphFlags struct {
	left       int
	right      int
	edges      int
	seed       uint64
	randomized bool
	noCache    bool
	refresh    bool
}

func (g *graphFlags) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.IntVar(&g.left, "left", 8, "left side size")
	f.IntVar(&g.right, "right", 8, "right side size")
	f.IntVar(&g.edges, "edges", 16, "number of distinct edges")
	f.Uint64Var(&g.seed, "seed", pipeline.DefaultSeed, "random seed")
	f.BoolVar(&g.randomized, "randomized", false, "reshuffle neighbor order on every visit")
	f.BoolVar(&g.noCache, "no-cache", false, "bypass the result cache")
	f.BoolVar(&g.refresh, "refresh", false, "recompute and overwrite the cached result")
}

func (g graphFlags) options() pipeline.Options {
	return pipeline.Options{
		Left:       g.left,
		Right:      g.right,
		Edges:      g.edges,
		Seed:       g.seed,
		Randomized: g.randomized,
		Refresh:    g.refresh,
	}
}

func (c *CLI) matchCommand() *cobra.Command {
	var (
		flags  graphFlags
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "match",
		Short: "Compute the maximum matching of one random graph",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runMatch(cmd.Context(), cmd.OutOrStdout(), flags, asJSON)
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")

	return cmd
}

func (c *CLI) runMatch(ctx context.Context, stdout io.Writer, flags graphFlags, asJSON bool) error {
	opts := flags.options()
	if err := opts.ValidateForMatch(); err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return err
	}
	defer runner.Cache.Close()

	var spin *Spinner
	if interactive() && !asJSON {
		spin = newSpinnerWithContext(ctx, fmt.Sprintf("Matching %d × %d with %d edges...", opts.Left, opts.Right, opts.Edges))
		spin.Start()
	}
	res, cached, err := runner.Match(ctx, opts)
	if spin != nil {
		spin.Stop()
	}
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	printSuccess("Maximum matching of size %s", StyleNumber.Render(fmt.Sprint(res.Size)))
	printGraphLine(res.Left, res.Right, res.Edges, cached)
	printKeyValue("elapsed", formatDuration(res.Elapsed))
	printKeyValue("visits", fmt.Sprint(res.Stats.Visits))
	printKeyValue("scans", fmt.Sprint(res.Stats.Scans))
	printKeyValue("max depth", fmt.Sprint(res.Stats.MaxDepth))
	printKeyValue("seed", fmt.Sprint(res.Seed))
	if res.Left+res.Right <= pipeline.MaxRenderNodes {
		printNextStep("Draw it", fmt.Sprintf("matchbench dot --left %d --right %d --edges %d --seed %d -f svg -o matching.svg",
			res.Left, res.Right, res.Edges, res.Seed))
	}
	return nil
}
