package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/matchbench/pkg/bench"
	"github.com/matzehuels/matchbench/pkg/config"
	"github.com/matzehuels/matchbench/pkg/store"
)

func (c *CLI) runsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List and show stored benchmark runs",
	}

	cmd.AddCommand(c.runsListCommand())
	cmd.AddCommand(c.runsShowCommand())

	return cmd
}

func (c *CLI) runsListCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), func(st store.Store) error {
				runs, err := st.ListRuns(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if len(runs) == 0 {
					printInfo("No stored runs")
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), runsTable(runs))
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", store.DefaultListLimit, "maximum number of runs")

	return cmd
}

func (c *CLI) runsShowCommand() *cobra.Command {
	var asJSON, asCSV bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a stored run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), func(st store.Store) error {
				run, err := st.GetRun(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return showRun(cmd.OutOrStdout(), run, asJSON, asCSV)
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the run as JSON")
	cmd.Flags().BoolVar(&asCSV, "csv", false, "print the records as CSV")
	cmd.MarkFlagsMutuallyExclusive("json", "csv")

	return cmd
}

func showRun(w io.Writer, run *bench.Run, asJSON, asCSV bool) error {
	switch {
	case asJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(run)
	case asCSV:
		return bench.NewCSVWriter(w, true).WriteAll(run.Records)
	}

	s := run.Sweep
	printKeyValue("id", run.ID)
	printKeyValue("started", run.StartedAt.Local().Format("2006-01-02 15:04:05"))
	printKeyValue("duration", run.Duration().Round(time.Millisecond).String())
	printKeyValue("graph", fmt.Sprintf("%d × %d", s.Left, s.Right))
	printKeyValue("seed", fmt.Sprint(s.Seed))
	printKeyValue("randomized", fmt.Sprint(s.Randomized))
	if run.Version != "" {
		printKeyValue("version", run.Version)
	}
	if !run.Complete {
		printWarning("run was interrupted after %d of %d trials", len(run.Records), s.TotalTrials())
	}
	fmt.Fprintln(w, summaryTable(bench.Summarize(run.Records)))
	return nil
}

// withStore opens the configured store for fn. Runs are only listed from
// a persistent backend.
func (c *CLI) withStore(ctx context.Context, fn func(store.Store) error) error {
	if c.Config.Store.Backend == config.StoreNone {
		printWarning("store backend is %q; set [store] backend = %q to keep runs", config.StoreNone, config.StoreMongo)
	}
	st, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close(context.WithoutCancel(ctx))
	return fn(st)
}
