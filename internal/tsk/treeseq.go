package tsk

import (
	"math"
	"sort"
)

// TreeSequence is an immutable, indexed table collection plus the derived
// quantities needed for tree traversal.
type TreeSequence struct {
	Tables         *TableCollection
	NumTrees       int
	Samples        []int32
	SampleIndexMap []int32
	Breakpoints    []float64
}

// TreeseqInit builds a tree sequence from tables. With TSTakeOwnership the
// tree sequence owns tables from this call on, whether or not it succeeds,
// and TreeseqFree releases them; otherwise tables are copied.
func TreeseqInit(ts *TreeSequence, tables *TableCollection, options uint32) int32 {
	*ts = TreeSequence{}
	if options&TSTakeOwnership != 0 {
		ts.Tables = tables
	} else {
		ts.Tables = &TableCollection{}
		if rv := TableCollectionCopy(tables, ts.Tables, 0); rv != 0 {
			return rv
		}
	}
	tc := ts.Tables
	if options&TSBuildIndexes != 0 {
		if rv := TableCollectionBuildIndex(tc, 0); rv != 0 {
			return rv
		}
	}
	if !TableCollectionHasIndex(tc) {
		return ErrTablesNotIndexed
	}
	numTrees := TableCollectionCheckIntegrity(tc, CheckTrees)
	if numTrees < 0 {
		return numTrees
	}
	ts.NumTrees = int(numTrees)
	ts.Samples = tc.Samples()
	ts.SampleIndexMap = make([]int32, tc.Nodes.NumRows())
	for i := range ts.SampleIndexMap {
		ts.SampleIndexMap[i] = Null
	}
	for j, u := range ts.Samples {
		ts.SampleIndexMap[u] = int32(j)
	}
	ts.Breakpoints = computeBreakpoints(tc)
	return 0
}

func computeBreakpoints(tc *TableCollection) []float64 {
	e := &tc.Edges
	ins, rem := tc.Indexes.EdgeInsertionOrder, tc.Indexes.EdgeRemovalOrder
	length := tc.SequenceLength
	m := len(ins)
	out := []float64{0}
	j, k := 0, 0
	left := 0.0
	for j < m || left < length {
		for k < m && e.Right[rem[k]] == left {
			k++
		}
		for j < m && e.Left[ins[j]] == left {
			j++
		}
		right := length
		if j < m {
			right = math.Min(right, e.Left[ins[j]])
		}
		if k < m {
			right = math.Min(right, e.Right[rem[k]])
		}
		out = append(out, right)
		left = right
	}
	return out
}

// TreeseqFree releases the tree sequence and the tables it owns.
func TreeseqFree(ts *TreeSequence) int32 {
	if ts.Tables != nil {
		TableCollectionFree(ts.Tables)
	}
	*ts = TreeSequence{}
	return 0
}

// TreeseqCopyTables deep-copies the tables into dst.
func TreeseqCopyTables(ts *TreeSequence, dst *TableCollection, options uint32) int32 {
	return TableCollectionCopy(ts.Tables, dst, options)
}

// TreeseqTreeIndexAt returns the index of the tree covering position.
func TreeseqTreeIndexAt(ts *TreeSequence, position float64) int32 {
	if position < 0 || position >= ts.Tables.SequenceLength || math.IsNaN(position) {
		return ErrSeekOutOfBounds
	}
	return int32(sort.Search(len(ts.Breakpoints), func(i int) bool { return ts.Breakpoints[i] > position }) - 1)
}

// TreeseqSimplify writes a simplified copy of ts into output.
func TreeseqSimplify(ts *TreeSequence, samples []int32, options uint32, output *TreeSequence, nodeMap []int32) int32 {
	tables := &TableCollection{}
	if rv := TreeseqCopyTables(ts, tables, 0); rv != 0 {
		return rv
	}
	if rv := TableCollectionSimplify(tables, samples, options, nodeMap); rv != 0 {
		TableCollectionFree(tables)
		return rv
	}
	if rv := TreeseqInit(output, tables, TSBuildIndexes|TSTakeOwnership); rv != 0 {
		TreeseqFree(output)
		return rv
	}
	return 0
}

// TreeseqKeepIntervals writes a copy of ts restricted to intervals into output.
func TreeseqKeepIntervals(ts *TreeSequence, intervals [][2]float64, options uint32, output *TreeSequence) int32 {
	tables := &TableCollection{}
	if rv := TreeseqCopyTables(ts, tables, 0); rv != 0 {
		return rv
	}
	if rv := TableCollectionKeepIntervals(tables, intervals, options); rv != 0 {
		TableCollectionFree(tables)
		return rv
	}
	if rv := TreeseqInit(output, tables, TSBuildIndexes|TSTakeOwnership); rv != 0 {
		TreeseqFree(output)
		return rv
	}
	return 0
}
