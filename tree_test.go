package tskit_test

import (
	"math"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/tskit"
	"github.com/hupe1980/tskit/testutil"
)

func treeSequence(t *testing.T, tables *tskit.TableCollection, opts ...tskit.TreeSequenceFlags) *tskit.TreeSequence {
	t.Helper()
	var flags tskit.TreeSequenceFlags
	for _, f := range opts {
		flags |= f
	}
	ts, err := tables.TreeSequence(flags)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ts.Close() })
	return ts
}

func treeIterator(t *testing.T, ts *tskit.TreeSequence, flags tskit.TreeFlags) *tskit.Tree {
	t.Helper()
	tree, err := ts.TreeIterator(flags)
	require.NoError(t, err)
	t.Cleanup(func() { _ = tree.Close() })
	return tree
}

func TestSingleTree(t *testing.T) {
	build := func(t *testing.T, children ...tskit.NodeID) *tskit.TreeSequence {
		tables := newTables(t, 10)
		for _, tm := range []tskit.Time{0, 0, 1} {
			flags := tskit.NodeFlags(0)
			if tm == 0 {
				flags = tskit.NodeIsSample
			}
			_, err := tables.AddNode(flags, tm, tskit.Null, tskit.Null)
			require.NoError(t, err)
		}
		for _, c := range children {
			_, err := tables.AddEdge(0, 10, 2, c)
			require.NoError(t, err)
		}
		require.NoError(t, tables.Sort(nil, 0))
		require.NoError(t, tables.BuildIndex())
		require.True(t, tables.IsIndexed())
		return treeSequence(t, tables, 0)
	}

	t.Run("isolated sample is a root", func(t *testing.T) {
		ts := build(t, 0)
		assert.Equal(t, 1, ts.NumTrees())
		assert.Equal(t, []tskit.NodeID{0, 1}, ts.SampleNodes())

		tree := treeIterator(t, ts, 0)
		require.True(t, tree.Advance())
		assert.Equal(t, 2, tree.NumRoots())
		assert.ElementsMatch(t, []tskit.NodeID{1, 2}, tree.RootsSlice())
		parent, ok := tree.Parent(1)
		require.True(t, ok)
		assert.True(t, parent.IsNull())
	})

	t.Run("one root", func(t *testing.T) {
		ts := build(t, 0, 1)
		tree := treeIterator(t, ts, 0)
		require.True(t, tree.Advance())

		assert.Equal(t, []tskit.NodeID{2}, tree.RootsSlice())
		assert.Equal(t, tskit.Interval{Left: 0, Right: 10}, tree.Interval())
		assert.Equal(t, tskit.Position(10), tree.Span())
		assert.Equal(t, 2, tree.NumEdges())

		parent, ok := tree.Parent(0)
		require.True(t, ok)
		assert.Equal(t, tskit.NodeID(2), parent)
		parent, ok = tree.Parent(2)
		require.True(t, ok)
		assert.True(t, parent.IsNull())
		_, ok = tree.Parent(99)
		assert.False(t, ok)

		assert.Equal(t, []tskit.NodeID{0, 1}, slices.Collect(tree.Children(2)))
		assert.Equal(t, []tskit.NodeID{0, 2}, slices.Collect(tree.Parents(0)))
		assert.Empty(t, slices.Collect(tree.Children(99)))

		n, err := tree.NumSamples(2)
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		assert.False(t, tree.Advance())
		assert.Nil(t, tree.Get())
		assert.Equal(t, -1, tree.Index())
	})
}

func TestTreeIteration(t *testing.T) {
	ts := treeSequence(t, testutil.TwoTrees(t))
	require.Equal(t, 2, ts.NumTrees())
	assert.Equal(t, 3, ts.NumSamples())
	assert.Equal(t, []tskit.Position{0, 5, 10}, ts.Breakpoints())

	tree := treeIterator(t, ts, 0)
	assert.Nil(t, tree.Get())

	t.Run("forward", func(t *testing.T) {
		require.NotNil(t, tree.Next())
		assert.Equal(t, 0, tree.Index())
		assert.Equal(t, tskit.Interval{Left: 0, Right: 5}, tree.Interval())
		parent, _ := tree.Parent(3)
		assert.Equal(t, tskit.NodeID(4), parent)
		assert.Equal(t, []tskit.NodeID{4}, tree.RootsSlice())

		require.NotNil(t, tree.Next())
		assert.Equal(t, 1, tree.Index())
		parent, _ = tree.Parent(3)
		assert.Equal(t, tskit.NodeID(5), parent)
		parent, _ = tree.Parent(4)
		assert.True(t, parent.IsNull())

		assert.Nil(t, tree.Next())
	})

	t.Run("reverse", func(t *testing.T) {
		require.NotNil(t, tree.Prev())
		assert.Equal(t, 1, tree.Index())
		require.NotNil(t, tree.Prev())
		assert.Equal(t, 0, tree.Index())
		assert.Nil(t, tree.Prev())
		assert.Equal(t, -1, tree.Index())
	})

	t.Run("first and last", func(t *testing.T) {
		require.True(t, tree.Last())
		assert.Equal(t, 1, tree.Index())
		require.True(t, tree.First())
		assert.Equal(t, 0, tree.Index())
	})

	t.Run("seek", func(t *testing.T) {
		require.NoError(t, tree.Seek(7.5))
		assert.Equal(t, 1, tree.Index())
		require.NoError(t, tree.SeekIndex(0))
		assert.Equal(t, 0, tree.Index())

		assert.ErrorIs(t, tree.Seek(10), tskit.ErrOutOfBounds)
		assert.ErrorIs(t, tree.Seek(tskit.Position(math.NaN())), tskit.ErrOutOfBounds)
		assert.ErrorIs(t, tree.SeekIndex(2), tskit.ErrOutOfBounds)
	})

	t.Run("positioned iterators", func(t *testing.T) {
		at, err := ts.TreeIteratorAtPosition(0, 5)
		require.NoError(t, err)
		defer at.Close()
		assert.Equal(t, 1, at.Index())

		idx, err := ts.TreeIteratorAtIndex(0, 0)
		require.NoError(t, err)
		defer idx.Close()
		assert.Equal(t, tskit.Interval{Left: 0, Right: 5}, idx.Interval())

		_, err = ts.TreeIteratorAtIndex(0, 5)
		assert.ErrorIs(t, err, tskit.ErrOutOfBounds)
	})
}

func TestTreeTraversal(t *testing.T) {
	ts := treeSequence(t, testutil.TwoTrees(t))
	tree := treeIterator(t, ts, 0)
	require.True(t, tree.First())

	assert.Equal(t, []tskit.NodeID{4, 2, 3, 0, 1}, slices.Collect(tree.TraverseNodes(tskit.Preorder)))
	assert.Equal(t, []tskit.NodeID{2, 0, 1, 3, 4}, slices.Collect(tree.TraverseNodes(tskit.Postorder)))

	length, err := tree.TotalBranchLength(false)
	require.NoError(t, err)
	assert.Equal(t, 5.0, length)
	length, err = tree.TotalBranchLength(true)
	require.NoError(t, err)
	assert.Equal(t, 25.0, length)

	assert.Equal(t, []tskit.SiteID{0}, slices.Collect(tree.Sites()))
	require.True(t, tree.Advance())
	assert.Equal(t, []tskit.SiteID{1}, slices.Collect(tree.Sites()))
}

func TestTreeSamples(t *testing.T) {
	ts := treeSequence(t, testutil.TwoTrees(t))

	t.Run("sample lists", func(t *testing.T) {
		tree := treeIterator(t, ts, tskit.TreeSampleLists)
		require.True(t, tree.First())

		samples, err := tree.Samples(3)
		require.NoError(t, err)
		assert.Equal(t, []tskit.NodeID{0, 1}, slices.Collect(samples))

		_, err = tree.Samples(99)
		assert.ErrorIs(t, err, tskit.ErrIndex)

		next, err := tree.NextSampleArray()
		require.NoError(t, err)
		assert.Len(t, next, 3)
		assert.Equal(t, []tskit.NodeID{0, 1, 2}, tree.SamplesArray())
	})

	t.Run("without sample lists", func(t *testing.T) {
		tree := treeIterator(t, ts, 0)
		require.True(t, tree.First())

		_, err := tree.Samples(3)
		assert.ErrorIs(t, err, tskit.ErrNotTrackingSamples)
		_, err = tree.LeftSampleArray()
		assert.ErrorIs(t, err, tskit.ErrNotTrackingSamples)

		bm, err := tree.SampleBitmap(4)
		require.NoError(t, err)
		assert.Equal(t, []uint32{0, 1, 2}, bm.ToArray())
	})

	t.Run("sample counts", func(t *testing.T) {
		tree := treeIterator(t, ts, 0)
		require.True(t, tree.First())

		n, err := tree.NumSamples(4)
		require.NoError(t, err)
		assert.Equal(t, 3, n)
		_, err = tree.NumSamples(99)
		assert.ErrorIs(t, err, tskit.ErrIndex)

		require.NoError(t, tree.SetTrackedSamples([]tskit.NodeID{0, 2}))
		n, err = tree.NumTrackedSamples(4)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
		n, err = tree.NumTrackedSamples(3)
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		assert.ErrorIs(t, tree.SetTrackedSamples([]tskit.NodeID{3}), tskit.ErrBadArgument)
	})

	t.Run("no sample counts", func(t *testing.T) {
		tree := treeIterator(t, ts, tskit.TreeNoSampleCounts)
		require.True(t, tree.First())
		_, err := tree.NumSamples(4)
		assert.ErrorIs(t, err, tskit.ErrNotTrackingSamples)
	})
}

func TestKCDistance(t *testing.T) {
	ts := treeSequence(t, testutil.TwoTrees(t))
	a := treeIterator(t, ts, tskit.TreeSampleLists)
	b := treeIterator(t, ts, tskit.TreeSampleLists)
	require.True(t, a.First())
	require.True(t, b.Last())

	d, err := a.KCDistance(b, 0)
	require.NoError(t, err)
	assert.Zero(t, d)
	d, err = a.KCDistance(b, 1)
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt2, d, 1e-12)

	d, err = ts.KCDistance(ts, 1)
	require.NoError(t, err)
	assert.Zero(t, d)

	plain := treeIterator(t, ts, 0)
	require.True(t, plain.First())
	_, err = plain.KCDistance(a, 0)
	assert.ErrorIs(t, err, tskit.ErrBadArgument)
}

func TestEdgeDifferences(t *testing.T) {
	ts := treeSequence(t, testutil.TwoTrees(t))
	diffs, err := ts.EdgeDifferences()
	require.NoError(t, err)
	defer diffs.Close()

	parents := func(seq func(func(tskit.EdgeDifference) bool)) []tskit.NodeID {
		var out []tskit.NodeID
		for e := range seq {
			out = append(out, e.Parent)
		}
		slices.Sort(out)
		return out
	}

	require.True(t, diffs.Advance())
	assert.Equal(t, tskit.Interval{Left: 0, Right: 5}, diffs.Interval())
	assert.Empty(t, parents(diffs.Removals()))
	assert.Equal(t, []tskit.NodeID{3, 3, 4, 4}, parents(diffs.Insertions()))

	require.True(t, diffs.Advance())
	assert.Equal(t, tskit.Interval{Left: 5, Right: 10}, diffs.Interval())
	assert.Equal(t, []tskit.NodeID{4, 4}, parents(diffs.Removals()))
	assert.Equal(t, []tskit.NodeID{5, 5}, parents(diffs.Insertions()))

	assert.False(t, diffs.Advance())

	t.Run("panics after mutation", func(t *testing.T) {
		d, err := ts.EdgeDifferences()
		require.NoError(t, err)
		defer d.Close()
		_, err = ts.AddProvenance(`{"software":"test"}`)
		require.NoError(t, err)
		assert.Panics(t, func() { d.Advance() })
	})
}

func TestTreeSequenceOperations(t *testing.T) {
	ts := treeSequence(t, testutil.TwoTrees(t))

	t.Run("simplify", func(t *testing.T) {
		out, idmap, err := ts.Simplify([]tskit.NodeID{0, 1}, 0, true)
		require.NoError(t, err)
		defer out.Close()
		assert.Equal(t, 1, out.NumTrees())
		assert.Equal(t, []tskit.NodeID{0, 1, tskit.Null, 2, tskit.Null, tskit.Null}, idmap)
		assert.Equal(t, 6, ts.Nodes().NumRows())
	})

	t.Run("keep intervals", func(t *testing.T) {
		out, ok, err := ts.KeepIntervals(nil, false)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, out)

		out, ok, err = ts.KeepIntervals([]tskit.Interval{{Left: 0, Right: 5}}, true)
		require.NoError(t, err)
		require.True(t, ok)
		defer out.Close()
		assert.Equal(t, 4, out.Edges().NumRows())
		assert.Equal(t, 1, out.Sites().NumRows())
	})

	t.Run("dump tables", func(t *testing.T) {
		tables, err := ts.DumpTables()
		require.NoError(t, err)
		defer tables.Close()
		assert.Equal(t, 6, tables.Nodes().NumRows())

		_, err = tables.AddNode(0, 9, tskit.Null, tskit.Null)
		require.NoError(t, err)
		assert.Equal(t, 6, ts.Nodes().NumRows())
	})

	t.Run("provenance", func(t *testing.T) {
		id, err := ts.AddProvenance(`{"software":"test"}`)
		require.NoError(t, err)
		record, ok := ts.Provenances().Record(id)
		require.True(t, ok)
		assert.Equal(t, `{"software":"test"}`, record)
	})

	t.Run("wright fisher", func(t *testing.T) {
		cfg := testutil.DefaultWFConfig()
		ts := treeSequence(t, testutil.WrightFisher(t, testutil.NewRNG(3), cfg))
		tree := treeIterator(t, ts, 0)

		var span tskit.Position
		for tree.Advance() {
			span += tree.Span()
			total := 0
			for r := range tree.Roots() {
				n, err := tree.NumSamples(r)
				require.NoError(t, err)
				total += n
			}
			assert.Equal(t, cfg.PopulationSize, total)
		}
		assert.InDelta(t, float64(cfg.SequenceLength), float64(span), 1e-9)
	})
}

func TestClosedTreeSequence(t *testing.T) {
	tables := testutil.TwoTrees(t)
	ts, err := tables.TreeSequence(0)
	require.NoError(t, err)
	require.NoError(t, ts.Close())
	require.NoError(t, ts.Close())

	_, err = ts.TreeIterator(0)
	assert.ErrorIs(t, err, tskit.ErrHandleReleased)
	_, err = ts.EdgeDifferences()
	assert.ErrorIs(t, err, tskit.ErrHandleReleased)
	_, _, err = ts.Simplify(nil, 0, false)
	assert.ErrorIs(t, err, tskit.ErrHandleReleased)
}
