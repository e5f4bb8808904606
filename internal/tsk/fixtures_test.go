package tsk

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTables(t *testing.T, length float64) *TableCollection {
	t.Helper()
	tc := &TableCollection{}
	require.Equal(t, int32(0), TableCollectionInit(tc, 0))
	require.Equal(t, int32(0), TableCollectionSetSequenceLength(tc, length))
	t.Cleanup(func() { TableCollectionFree(tc) })
	return tc
}

// twoTrees builds samples 0, 1, 2 with two trees over [0, 10):
//
//	[0, 5):  4(3(0, 1), 2)
//	[5, 10): 5(3(0, 1), 2)
func twoTrees(t *testing.T) *TableCollection {
	t.Helper()
	tc := newTables(t, 10)
	for _, time := range []float64{0, 0, 0} {
		require.GreaterOrEqual(t, tc.Nodes.AddRow(NodeIsSample, time, Null, Null, nil), int32(0))
	}
	for _, time := range []float64{1, 2, 3} {
		require.GreaterOrEqual(t, tc.Nodes.AddRow(0, time, Null, Null, nil), int32(0))
	}
	edges := []struct {
		left, right   float64
		parent, child int32
	}{
		{5, 10, 5, 3},
		{0, 10, 3, 0},
		{0, 5, 4, 2},
		{0, 10, 3, 1},
		{0, 5, 4, 3},
		{5, 10, 5, 2},
	}
	for _, e := range edges {
		require.GreaterOrEqual(t, tc.Edges.AddRow(e.left, e.right, e.parent, e.child, nil), int32(0))
	}
	site := tc.Sites.AddRow(2.5, []byte("A"), nil)
	require.Equal(t, int32(0), site)
	require.Equal(t, int32(0), tc.Mutations.AddRow(site, 3, Null, UnknownTime(), []byte("T"), nil))
	require.Equal(t, int32(1), tc.Sites.AddRow(7.5, []byte("G"), nil))
	require.Equal(t, int32(1), tc.Mutations.AddRow(1, 2, Null, UnknownTime(), []byte("C"), nil))

	require.Equal(t, int32(0), TableCollectionSort(tc, nil, 0))
	require.Equal(t, int32(0), TableCollectionBuildIndex(tc, 0))
	return tc
}

func newTreeSequence(t *testing.T, tc *TableCollection) *TreeSequence {
	t.Helper()
	ts := &TreeSequence{}
	require.Equal(t, int32(0), TreeseqInit(ts, tc, 0))
	t.Cleanup(func() { TreeseqFree(ts) })
	return ts
}

func newTree(t *testing.T, ts *TreeSequence, options uint32) *Tree {
	t.Helper()
	tree := &Tree{}
	require.Equal(t, int32(0), TreeInit(tree, ts, options))
	t.Cleanup(func() { TreeFree(tree) })
	return tree
}

func roots(t *Tree) []int32 {
	var out []int32
	for r := t.LeftChild[t.VirtualRoot]; r != Null; r = t.RightSib[r] {
		out = append(out, r)
	}
	return out
}

type fakeBudget struct {
	limit int64
	used  int64
}

func (b *fakeBudget) TryAcquireMemory(n int64) bool {
	if b.used+n > b.limit {
		return false
	}
	b.used += n
	return true
}

func (b *fakeBudget) ReleaseMemory(n int64) { b.used -= n }
