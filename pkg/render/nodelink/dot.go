package nodelink

import (
	"bytes"
	"fmt"
	"regexp"

	"github.com/matzehuels/matchbench/pkg/bipartite"
	errs "github.com/matzehuels/matchbench/pkg/errors"
)

// DefaultColor highlights matched arcs.
const DefaultColor = "red"

// colorPattern accepts Graphviz color names ("red", "gray40") and
// hex values ("#ff0000", "#ff000080").
var colorPattern = regexp.MustCompile(`^(?:[A-Za-z][A-Za-z0-9]{0,31}|#[0-9A-Fa-f]{6}(?:[0-9A-Fa-f]{2})?)$`)

// ValidateColor checks that color is a plain Graphviz color name or a hex
// value. The empty string selects DefaultColor and is valid.
func ValidateColor(color string) error {
	if color != "" && !colorPattern.MatchString(color) {
		return errs.New(errs.ErrCodeInvalidInput, "invalid color %q (use a color name or #rrggbb)", color)
	}
	return nil
}

// dotColor returns color as a DOT attribute value. Invalid colors fall
// back to DefaultColor so they never reach the output.
func dotColor(color string) string {
	if color == "" || ValidateColor(color) != nil {
		return DefaultColor
	}
	if color[0] == '#' {
		return `"` + color + `"`
	}
	return color
}

// Options configures node-link diagram generation.
type Options struct {
	// Color is the Graphviz color of matched arcs. Empty or invalid values
	// mean DefaultColor; see [ValidateColor].
	Color string

	// MatchedOnly drops arcs that are not part of the matching.
	// Useful for dense graphs where the full edge set is unreadable.
	MatchedOnly bool
}

// ToDOT converts a graph and its matching to Graphviz DOT format.
//
// Arcs are emitted per right node in index order, following the right
// node's sorted neighbor list. A nil or short matching treats the missing
// entries as unmatched.
func ToDOT(g *bipartite.Graph, m bipartite.Matching, opts Options) string {
	color := dotColor(opts.Color)

	var buf bytes.Buffer
	buf.WriteString("digraph A {\n")
	buf.WriteString("\trankdir=LR\n")
	buf.WriteString("\tsplines=false\n")

	writeCluster(&buf, "cluster1", "A", g.LeftSize())
	writeCluster(&buf, "cluster2", "B", g.RightSize())

	for j := range g.RightSize() {
		partner, matched := m.LeftOf(j)
		for _, i := range g.Right(j).Neighbors() {
			switch {
			case matched && i == partner:
				fmt.Fprintf(&buf, "\t\tB%d -> A%d [arrowhead=none,color=%s]\n", j, i, color)
			case !opts.MatchedOnly:
				fmt.Fprintf(&buf, "\t\tB%d -> A%d [arrowhead=none]\n", j, i)
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func writeCluster(buf *bytes.Buffer, name, prefix string, n int) {
	fmt.Fprintf(buf, "\tsubgraph %s {\n", name)
	buf.WriteString("\t\tmargin=30\n")
	buf.WriteString("\t\tstyle=invis\n")
	for i := range n {
		fmt.Fprintf(buf, "\t\t%s%d\n", prefix, i)
	}
	buf.WriteString("\t}\n")
}
