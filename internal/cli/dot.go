package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/matchbench/pkg/errors"
	"github.com/matzehuels/matchbench/pkg/render/nodelink"
)

// dotOpts holds the rendering flags of the dot command.
type dotOpts struct {
	format      string
	output      string
	color       string
	matchedOnly bool
	scale       float64
}

func (c *CLI) dotCommand() *cobra.Command {
	var (
		flags graphFlags
		opts  dotOpts
	)

	cmd := &cobra.Command{
		Use:   "dot",
		Short: "Draw a random graph with its maximum matching",
		Long: `Dot generates a random graph, matches it and draws it with left nodes in
cluster A and right nodes in cluster B. Matched edges are colored.

DOT is written to stdout unless -o is given. Other formats go through
Graphviz and need an output file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDOT(cmd.Context(), cmd.OutOrStdout(), flags, opts)
		},
	}
	flags.register(cmd)
	f := cmd.Flags()
	f.StringVarP(&opts.format, "format", "f", nodelink.FormatDOT, "output format: dot, svg, png, jpg, pdf")
	f.StringVarP(&opts.output, "output", "o", "", "output file")
	f.StringVar(&opts.color, "color", nodelink.DefaultColor, "color of matched edges")
	f.BoolVar(&opts.matchedOnly, "matched-only", false, "draw only matched edges")
	f.Float64Var(&opts.scale, "scale", 0, "PNG scale factor (above 1 renders through rsvg-convert)")

	return cmd
}

func (c *CLI) runDOT(ctx context.Context, stdout io.Writer, flags graphFlags, d dotOpts) error {
	opts := flags.options()
	opts.Format = d.format
	opts.Color = d.color
	opts.MatchedOnly = d.matchedOnly
	opts.Scale = d.scale
	if err := opts.ValidateForDiagram(); err != nil {
		return err
	}
	if d.output == "" && d.format != nodelink.FormatDOT {
		return errs.New(errs.ErrCodeInvalidInput, "%s output needs -o", d.format)
	}
	if d.output != "" {
		if err := errs.ValidateOutputPath(d.output); err != nil {
			return err
		}
	}

	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return err
	}
	defer runner.Cache.Close()

	var spin *Spinner
	if interactive() && d.output != "" {
		spin = newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", d.format))
		spin.Start()
	}
	data, cached, err := runner.Diagram(ctx, opts)
	if spin != nil {
		spin.Stop()
	}
	if err != nil {
		return err
	}

	if d.output == "" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.WriteFile(d.output, data, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	printSuccess("Rendered %s", d.format)
	printGraphLine(opts.Left, opts.Right, opts.Edges, cached)
	printFile(d.output)
	return nil
}
