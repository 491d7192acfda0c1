package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/matchbench/pkg/bench"
	"github.com/matzehuels/matchbench/pkg/buildinfo"
	"github.com/matzehuels/matchbench/pkg/config"
	errs "github.com/matzehuels/matchbench/pkg/errors"
	"github.com/matzehuels/matchbench/pkg/store"
)

// benchOpts holds the command-line flags for the bench command.
type benchOpts struct {
	sweep    bench.Sweep // only fields whose flag was set override the config
	output   string      // CSV file; stdout when empty
	extended bool        // add size, trial and randomized columns
	save     bool        // persist the run in the configured store
	summary  bool        // print a per-m summary table
}

func (c *CLI) benchCommand() *cobra.Command {
	var opts benchOpts
	def := config.Default().Bench

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Time the matcher over a sweep of edge counts",
		Long: `Bench generates random bipartite graphs for a range of edge counts and
times one maximum matching per graph. Each trial becomes one CSV row
n,m,time with n = left*right and time in nanoseconds.

Without flags the sweep reproduces the classic run: 10000 x 10000 nodes,
m from n/200 up to (not including) n/20 in steps of n/200, 10 trials each.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sweep := c.sweepFromFlags(cmd, opts.sweep)
			return c.runBench(cmd.Context(), cmd.OutOrStdout(), sweep, opts)
		},
	}

	f := cmd.Flags()
	f.IntVar(&opts.sweep.Left, "left", def.Left, "left side size")
	f.IntVar(&opts.sweep.Right, "right", def.Right, "right side size")
	f.IntVar(&opts.sweep.From, "from", 0, "first edge count, 0 allowed (default left*right/200)")
	f.IntVar(&opts.sweep.To, "to", 0, "edge count upper bound, exclusive (default left*right/20)")
	f.IntVar(&opts.sweep.Step, "step", 0, "edge count step (default left*right/200)")
	f.IntVar(&opts.sweep.Trials, "trials", def.Trials, "trials per edge count")
	f.Uint64Var(&opts.sweep.Seed, "seed", def.Seed, "random seed")
	f.BoolVar(&opts.sweep.Randomized, "randomized", def.Randomized, "reshuffle neighbor order on every visit")
	f.BoolVar(&opts.extended, "extended", false, "add size, trial and randomized columns")
	f.StringVarP(&opts.output, "output", "o", "", "write CSV to file instead of stdout")
	f.BoolVar(&opts.save, "save", false, "save the run to the configured store")
	f.BoolVar(&opts.summary, "summary", false, "print a summary table to stderr")

	return cmd
}

// sweepFromFlags starts from the [bench] config section and applies the
// flags the user set.
func (c *CLI) sweepFromFlags(cmd *cobra.Command, flags bench.Sweep) bench.Sweep {
	b := c.Config.Bench
	s := bench.Sweep{
		Left:       b.Left,
		Right:      b.Right,
		From:       b.From,
		To:         b.To,
		Step:       b.Step,
		Trials:     b.Trials,
		Seed:       b.Seed,
		Randomized: b.Randomized,
	}
	f := cmd.Flags()
	for name, apply := range map[string]func(){
		"left":       func() { s.Left = flags.Left },
		"right":      func() { s.Right = flags.Right },
		"to":         func() { s.To = flags.To },
		"step":       func() { s.Step = flags.Step },
		"trials":     func() { s.Trials = flags.Trials },
		"seed":       func() { s.Seed = flags.Seed },
		"randomized": func() { s.Randomized = flags.Randomized },
	} {
		if f.Changed(name) {
			apply()
		}
	}
	if f.Changed("from") {
		s.StartAt(flags.From)
	}
	return s
}

func (c *CLI) runBench(ctx context.Context, stdout io.Writer, sweep bench.Sweep, opts benchOpts) error {
	logger := loggerFromContext(ctx)

	sweep.SetDefaults()
	if err := sweep.Validate(); err != nil {
		return err
	}

	var st store.Store
	if opts.save {
		if c.Config.Store.Backend == config.StoreNone {
			printWarning("store backend is %q, the run will not be saved", config.StoreNone)
		} else {
			s, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer s.Close(context.WithoutCancel(ctx))
			st = s
		}
	}

	out := stdout
	if opts.output != "" {
		if err := errs.ValidateOutputPath(opts.output); err != nil {
			return err
		}
		f, err := os.Create(opts.output)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		out = f
	}
	w := bench.NewCSVWriter(out, opts.extended)

	runner := bench.NewRunner(logger)
	runner.Version = buildinfo.Version
	prog := newProgress(logger)

	var (
		run *bench.Run
		err error
	)
	if interactive() {
		// The live view owns the terminal; sweep logging would tear it.
		runner.Logger = log.New(io.Discard)
		run, err = runSweepTUI(ctx, runner, sweep, w.Write)
	} else {
		run, err = runner.Run(ctx, sweep, w.Write)
	}
	if ferr := w.Flush(); err == nil {
		err = ferr
	}

	if st != nil && run != nil && len(run.Records) > 0 {
		if serr := st.SaveRun(context.WithoutCancel(ctx), run); serr != nil {
			printWarning("save run: %v", serr)
		} else {
			printSuccess("Saved run %s", run.ID)
			printNextStep("Show it", "matchbench runs show "+run.ID)
		}
	}
	if err != nil {
		return err
	}

	prog.done("sweep finished", "records", len(run.Records))
	if opts.output != "" {
		printSuccess("Wrote %d records", len(run.Records))
		printFile(opts.output)
	}
	if opts.summary {
		fmt.Fprintln(uiOut, summaryTable(bench.Summarize(run.Records)))
	}
	return nil
}
