// Package render provides output conversion for matchbench diagrams.
//
// # Overview
//
// Diagram generation lives in the [nodelink] subpackage, which emits
// Graphviz DOT for a matched bipartite graph and renders it in-process.
// This package holds the format conversions Graphviz cannot do itself.
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg):
//
//	svg, _ := nodelink.RenderSVG(ctx, dot)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)  // 2x scale
//
// [nodelink]: github.com/matzehuels/matchbench/pkg/render/nodelink
package render
