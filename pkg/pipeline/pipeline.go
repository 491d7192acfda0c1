// Package pipeline runs the generate → match → render chain shared by the
// CLI and the HTTP API.
//
// A request is fully described by its [Options]: the same side sizes, edge
// count, seed and traversal mode always produce the same graph and the
// same matching. That makes both results safe to cache, which [Runner]
// does through pkg/cache.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	res, cached, err := runner.Match(ctx, pipeline.Options{
//	    Left: 1000, Right: 1000, Edges: 5000, Seed: 42,
//	})
//
//	dot, _, err := runner.Diagram(ctx, pipeline.Options{
//	    Left: 8, Right: 8, Edges: 16, Format: "svg",
//	})
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/matchbench/pkg/bipartite"
	"github.com/matzehuels/matchbench/pkg/cache"
	errs "github.com/matzehuels/matchbench/pkg/errors"
	"github.com/matzehuels/matchbench/pkg/render"
	"github.com/matzehuels/matchbench/pkg/render/nodelink"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultSeed seeds graph generation when Options.Seed is zero.
	DefaultSeed = bipartite.DefaultSeed

	// DefaultFormat is the diagram format when Options.Format is empty.
	DefaultFormat = nodelink.FormatDOT

	// MaxRenderNodes bounds Left+Right for formats that go through
	// Graphviz. Plain DOT output is not limited.
	MaxRenderNodes = 5000
)

// =============================================================================
// Options
// =============================================================================

// Options describes one generated graph and, for diagrams, how to draw it.
// This struct supports JSON serialization for API requests.
type Options struct {
	Left       int    `json:"left"`
	Right      int    `json:"right"`
	Edges      int    `json:"edges"`
	Seed       uint64 `json:"seed,omitempty"`
	Randomized bool   `json:"randomized,omitempty"`

	// Diagram options
	Format      string  `json:"format,omitempty"`
	Color       string  `json:"color,omitempty"`
	MatchedOnly bool    `json:"matched_only,omitempty"`
	Scale       float64 `json:"scale,omitempty"` // PNG only; above 1 renders through rsvg-convert

	// Refresh bypasses cached results and overwrites them.
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`
}

// SetDefaults fills the seed, format and logger.
func (o *Options) SetDefaults() {
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.Format == "" {
		o.Format = DefaultFormat
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
}

// ValidateForMatch checks that the graph can be generated.
func (o *Options) ValidateForMatch() error {
	o.SetDefaults()
	return errs.ValidateEdgeCount(o.Left, o.Right, o.Edges)
}

// ValidateForDiagram checks the graph and the rendering options.
func (o *Options) ValidateForDiagram() error {
	if err := o.ValidateForMatch(); err != nil {
		return err
	}
	if err := nodelink.ValidateFormat(o.Format); err != nil {
		return err
	}
	if err := nodelink.ValidateColor(o.Color); err != nil {
		return err
	}
	if o.Format != nodelink.FormatDOT && o.Left+o.Right > MaxRenderNodes {
		return errs.New(errs.ErrCodeInvalidInput,
			"%s output is limited to %d nodes, graph has %d", o.Format, MaxRenderNodes, o.Left+o.Right)
	}
	if err := render.ValidateScale(o.Scale); err != nil {
		return err
	}
	return nil
}

// MatchKeyOpts returns the cache key parameters of the graph.
func (o Options) MatchKeyOpts() cache.MatchKeyOpts {
	return cache.MatchKeyOpts{
		Left:       o.Left,
		Right:      o.Right,
		Edges:      o.Edges,
		Seed:       o.Seed,
		Randomized: o.Randomized,
	}
}

// DOTKeyOpts returns the cache key parameters of the diagram.
func (o Options) DOTKeyOpts() cache.DOTKeyOpts {
	format := o.Format
	if format == nodelink.FormatPNG && o.Scale > 1 {
		format += "@" + formatScale(o.Scale)
	}
	return cache.DOTKeyOpts{Format: format, Color: o.Color, MatchedOnly: o.MatchedOnly}
}

// NodelinkOptions returns the DOT generation options.
func (o Options) NodelinkOptions() nodelink.Options {
	return nodelink.Options{Color: o.Color, MatchedOnly: o.MatchedOnly}
}

// =============================================================================
// Result
// =============================================================================

// Result is a computed matching. It is what gets cached, so the graph
// itself is only attached on a fresh computation.
type Result struct {
	Left       int                `json:"left"`
	Right      int                `json:"right"`
	Edges      int                `json:"edges"`
	Seed       uint64             `json:"seed"`
	Randomized bool               `json:"randomized"`
	Size       int                `json:"size"`
	Matching   bipartite.Matching `json:"matching"`
	Elapsed    time.Duration      `json:"elapsed_ns"`
	Stats      bipartite.Stats    `json:"stats"`

	Graph *bipartite.Graph `json:"-"`
}
