// Package nodelink renders matched bipartite graphs as node-link diagrams.
//
// # Overview
//
// This package produces Graphviz descriptions of a [bipartite.Graph] and its
// [bipartite.Matching]. Left nodes are named A0, A1, ... and right nodes
// B0, B1, ...; each side sits in its own invisible cluster and the layout
// runs left to right, so the two sides appear as parallel columns.
//
// Every recorded edge becomes one arc from its right node to its left node
// without an arrowhead. Arcs that belong to the matching are drawn in the
// highlight color (red by default).
//
// # Usage
//
// Convert a graph and matching to DOT, then render:
//
//	dot := nodelink.ToDOT(g, m, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	png, err := nodelink.Render(ctx, dot, nodelink.FormatPNG)
//
// # Options
//
// The [Options] struct controls diagram generation:
//
//   - Color: highlight color for matched arcs
//   - MatchedOnly: omit arcs that are not part of the matching
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG, PNG
// and JPG rendering. PDF conversion requires librsvg (rsvg-convert).
//
// [bipartite.Graph]: github.com/matzehuels/matchbench/pkg/bipartite
// [bipartite.Matching]: github.com/matzehuels/matchbench/pkg/bipartite
package nodelink
