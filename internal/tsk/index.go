package tsk

import (
	"cmp"
	"slices"
)

// TableCollectionBuildIndex computes the edge insertion and removal orders
// used for tree traversal.
func TableCollectionBuildIndex(tc *TableCollection, options uint32) int32 {
	if rv := TableCollectionCheckIntegrity(tc, 0); rv < 0 {
		return rv
	}
	e := &tc.Edges
	time := tc.Nodes.Time
	m := e.NumRows()

	ins := make([]int32, m)
	rem := make([]int32, m)
	for j := range ins {
		ins[j] = int32(j)
		rem[j] = int32(j)
	}
	slices.SortFunc(ins, func(a, b int32) int {
		return cmp.Or(
			cmp.Compare(e.Left[a], e.Left[b]),
			cmp.Compare(time[e.Parent[a]], time[e.Parent[b]]),
			cmp.Compare(e.Parent[a], e.Parent[b]),
			cmp.Compare(e.Child[a], e.Child[b]),
		)
	})
	slices.SortFunc(rem, func(a, b int32) int {
		return cmp.Or(
			cmp.Compare(e.Right[a], e.Right[b]),
			cmp.Compare(time[e.Parent[b]], time[e.Parent[a]]),
			cmp.Compare(e.Parent[b], e.Parent[a]),
			cmp.Compare(e.Child[b], e.Child[a]),
		)
	})
	tc.Indexes.EdgeInsertionOrder = ins
	tc.Indexes.EdgeRemovalOrder = rem
	return 0
}
