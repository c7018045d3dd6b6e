package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/moraneus/PoET/internal/frontier"
)

func TestDOTRendersNodesAndEdges(t *testing.T) {
	g := frontier.New(1)
	child, _ := g.EnsureChild(g.Root(), []uint64{1}, []map[string]struct{}{{"a": {}}})
	g.Get(child).SetVerdict(99, true)

	var sb strings.Builder
	require.NoError(t, DOT{}.Render(&sb, g, 99))

	out := sb.String()
	require.True(t, strings.HasPrefix(out, "digraph poet {"))
	require.Contains(t, out, "f0 -> f1;")
	require.Contains(t, out, "true")
}

func TestDOTMarksPrunedDashed(t *testing.T) {
	g := frontier.New(1)
	child, _ := g.EnsureChild(g.Root(), []uint64{1}, nil)
	_ = child
	g.Prune(g.Root())

	var sb strings.Builder
	require.NoError(t, DOT{}.Render(&sb, g, 0))
	require.Contains(t, sb.String(), "style=dashed")
}
