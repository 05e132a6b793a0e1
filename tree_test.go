package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chain builds root -> 1 -> 2 -> ... along the x axis
func chain(n int) *Tree {
	tr := NewTree()
	tr.Add(Pos(0, 0))
	for i := 1; i < n; i++ {
		id := tr.Add(Pos(i, 0))
		tr.AddEdge(id-1, id)
		tr.Node(id).Cost = float64(i)
	}
	return tr
}

func TestTree_AddEdgeKeepsLinksMutual(t *testing.T) {
	tr := NewTree()
	root := tr.Add(Pos(0, 0))
	a := tr.Add(Pos(1, 0))

	require.True(t, tr.AddEdge(root, a))
	require.True(t, tr.AddEdge(root, a), "re-adding an existing edge only refreshes the parent")
	assert.Equal(t, []NodeID{a}, tr.Node(root).Children)
	assert.Equal(t, root, tr.Node(a).Parent)

	assert.False(t, tr.AddEdge(a, a), "self loop")
	assert.False(t, tr.AddEdge(root, NodeID(42)), "unknown node")
}

func TestTree_AddEdgeRefusesCoincidentPositions(t *testing.T) {
	tr := NewTree()
	a := tr.Add(Pos(3, 3))
	b := tr.Add(Pos(3, 3))
	assert.False(t, tr.AddEdge(a, b))
	assert.Equal(t, NoParent, tr.Node(b).Parent)
}

func TestTree_RemoveEdge(t *testing.T) {
	tr := NewTree()
	root := tr.Add(Pos(0, 0))
	a := tr.Add(Pos(1, 0))
	b := tr.Add(Pos(2, 0))
	tr.AddEdge(root, a)
	tr.AddEdge(root, b)

	require.True(t, tr.RemoveEdge(root, a))
	assert.Equal(t, []NodeID{b}, tr.Node(root).Children)
	assert.Equal(t, NoParent, tr.Node(a).Parent)

	assert.False(t, tr.RemoveEdge(root, a), "edge already gone")
	assert.False(t, tr.RemoveEdge(NoParent, b))
	assert.Equal(t, root, tr.Node(b).Parent, "failed removal leaves the child untouched")
}

func TestTree_DescendantsAndPropagation(t *testing.T) {
	tr := NewTree()
	root := tr.Add(Pos(0, 0))
	a := tr.Add(Pos(1, 0))
	b := tr.Add(Pos(2, 0))
	c := tr.Add(Pos(2, 1))
	d := tr.Add(Pos(3, 0))
	tr.AddEdge(root, a)
	tr.AddEdge(a, b)
	tr.AddEdge(a, c)
	tr.AddEdge(b, d)
	for id, cost := range map[NodeID]float64{a: 1, b: 2, c: 2, d: 3} {
		tr.Node(id).Cost = cost
	}

	assert.ElementsMatch(t, []NodeID{b, c, d}, tr.Descendants(a))
	assert.Empty(t, tr.Descendants(d))

	tr.PropagateCost(a, 0.5)
	assert.Equal(t, 1.0, tr.Node(a).Cost, "the node itself is not adjusted")
	assert.Equal(t, 1.5, tr.Node(b).Cost)
	assert.Equal(t, 1.5, tr.Node(c).Cost)
	assert.Equal(t, 2.5, tr.Node(d).Cost)
}

func TestTree_DescendantsStopAtDepthCap(t *testing.T) {
	tr := chain(maxPropagationDepth + 20)

	got := tr.Descendants(0)
	assert.Len(t, got, maxPropagationDepth)
	assert.Equal(t, NodeID(maxPropagationDepth), got[len(got)-1])
}

func TestTree_AncestorWalks(t *testing.T) {
	tr := chain(6)

	assert.Equal(t, NodeID(0), tr.Ancestor(5))
	assert.Equal(t, []NodeID{5, 4, 3, 2, 1, 0}, tr.PathToRoot(5))
	assert.True(t, tr.IsAncestor(2, 5))
	assert.True(t, tr.IsAncestor(5, 5))
	assert.False(t, tr.IsAncestor(5, 2))
}

func TestTree_SnapshotIsIndependent(t *testing.T) {
	tr := chain(3)
	snap := tr.Snapshot()
	snap[0].Children[0] = 99
	snap[1].Cost = -1

	assert.Equal(t, NodeID(1), tr.Node(0).Children[0])
	assert.Equal(t, 1.0, tr.Node(1).Cost)
}
