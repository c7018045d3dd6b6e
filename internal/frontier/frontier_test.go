package frontier

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewHasRootOnly(t *testing.T) {
	g := New(2)
	require.Equal(t, 1, g.Len())
	root := g.Get(g.Root())
	require.Equal(t, []uint64{0, 0}, root.Cut)
	require.Empty(t, root.Props)
}

func withA() []map[string]struct{} {
	return []map[string]struct{}{{"a": {}}, {}}
}

func TestEnsureChildCreatesAndDedups(t *testing.T) {
	g := New(2)
	id1, created := g.EnsureChild(g.Root(), []uint64{1, 0}, withA())
	require.True(t, created)
	require.Equal(t, []uint64{1, 0}, g.Get(id1).Cut)
	require.True(t, g.Get(id1).HasProp("a"))

	// Same cut reached again (e.g. via a different parent) dedups: no new
	// frontier, but a new parent edge if one didn't already exist.
	id2, created2 := g.EnsureChild(g.Root(), []uint64{1, 0}, withA())
	require.False(t, created2)
	require.Equal(t, id1, id2)
	require.Len(t, g.Get(id1).Parents, 1) // same parent again: no duplicate edge
}

func TestEnsureChildAddsSecondParentEdge(t *testing.T) {
	g := New(2)
	a, _ := g.EnsureChild(g.Root(), []uint64{1, 0}, nil)
	b, _ := g.EnsureChild(g.Root(), []uint64{0, 1}, nil)
	joined, created := g.EnsureChild(a, []uint64{1, 1}, nil)
	require.True(t, created)
	joined2, created2 := g.EnsureChild(b, []uint64{1, 1}, nil)
	require.False(t, created2)
	require.Equal(t, joined, joined2)
	require.ElementsMatch(t, []ID{a, b}, g.Get(joined).Parents)
}

func TestVerdictCache(t *testing.T) {
	g := New(1)
	root := g.Get(g.Root())
	_, ok := root.Verdict(5)
	require.False(t, ok)
	root.SetVerdict(5, true)
	v, ok := root.Verdict(5)
	require.True(t, ok)
	require.True(t, v)
}

func TestInvalidateTemporalDescendants(t *testing.T) {
	g := New(1)
	root := g.Get(g.Root())
	root.SetVerdict(1, true) // node 1 is "temporal" in this test
	root.SetVerdict(2, true) // node 2 is not temporal

	child, _ := g.EnsureChild(g.Root(), []uint64{1}, nil)
	g.Get(child).SetVerdict(1, true)

	isTemporal := func(nodeID int) bool { return nodeID == 1 }
	g.InvalidateTemporalDescendants(g.Root(), isTemporal)

	_, ok := g.Get(g.Root()).Verdict(1)
	require.False(t, ok, "temporal verdict at root should be evicted")
	_, ok = g.Get(g.Root()).Verdict(2)
	require.True(t, ok, "non-temporal verdict at root should survive")
	_, ok = g.Get(child).Verdict(1)
	require.False(t, ok, "temporal verdict at descendant should be evicted")
}

func TestPruneDetachesEdgesButKeepsVerdicts(t *testing.T) {
	g := New(1)
	child, _ := g.EnsureChild(g.Root(), []uint64{1}, nil)
	g.Get(child).SetVerdict(9, true)

	g.Prune(g.Root())

	require.True(t, g.Get(g.Root()).Pruned())
	require.Empty(t, g.Get(g.Root()).Children)
	require.Empty(t, g.Get(child).Parents)
	v, ok := g.Get(child).Verdict(9)
	require.True(t, ok)
	require.True(t, v)
}
