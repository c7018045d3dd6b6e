// Package render emits the frontier DAG for external visualization
// (spec.md §6's "-v/--visual", "graph emission via external visualizer").
// It is deliberately thin: the core never shells out to a visualizer or
// draws anything itself, it only produces a Graphviz DOT description that an
// external tool (or the `dot` binary) can render.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/moraneus/PoET/internal/frontier"
)

// Renderer produces an external representation of a frontier graph.
type Renderer interface {
	Render(w io.Writer, g *frontier.Graph, rootFormulaID int) error
}

// DOT renders the graph as a Graphviz "digraph" description: one node per
// frontier (labeled with its cut, propositions, and root-formula verdict)
// and one edge per parent->child link. Pruned frontiers are drawn dashed.
type DOT struct{}

var _ Renderer = DOT{}

func (DOT) Render(w io.Writer, g *frontier.Graph, rootFormulaID int) error {
	if _, err := io.WriteString(w, "digraph poet {\n  rankdir=BT;\n  node [shape=box];\n"); err != nil {
		return err
	}

	for _, f := range g.All() {
		label := formatLabel(f, rootFormulaID)
		style := ""
		if f.Pruned() {
			style = ", style=dashed"
		}
		if _, err := fmt.Fprintf(w, "  f%d [label=%q%s];\n", f.ID, label, style); err != nil {
			return err
		}
	}
	for _, f := range g.All() {
		for _, c := range f.Children {
			if _, err := fmt.Fprintf(w, "  f%d -> f%d;\n", f.ID, c); err != nil {
				return err
			}
		}
	}

	_, err := io.WriteString(w, "}\n")
	return err
}

func formatLabel(f *frontier.Frontier, rootFormulaID int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%v", f.Cut)
	if len(f.Props) > 0 {
		b.WriteString("\\n{")
		first := true
		for p := range f.Props {
			if !first {
				b.WriteString(",")
			}
			first = false
			b.WriteString(p)
		}
		b.WriteString("}")
	}
	if v, ok := f.Verdict(rootFormulaID); ok {
		fmt.Fprintf(&b, "\\n%t", v)
	}
	return b.String()
}
