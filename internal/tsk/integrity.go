package tsk

import "math"

func isFinite(x float64) bool { return !math.IsNaN(x) && !math.IsInf(x, 0) }

func checkOffsets(offset []uint64, rows, dataLen int) int32 {
	if len(offset) != rows+1 || offset[0] != 0 || offset[rows] != uint64(dataLen) {
		return ErrBadOffset
	}
	for i := 1; i < len(offset); i++ {
		if offset[i] < offset[i-1] {
			return ErrBadOffset
		}
	}
	return 0
}

func firstError(codes ...int32) int32 {
	for _, c := range codes {
		if c != 0 {
			return c
		}
	}
	return 0
}

func checkAllOffsets(tc *TableCollection) int32 {
	n, e, s, m := &tc.Nodes, &tc.Edges, &tc.Sites, &tc.Mutations
	ind, mig, pop, prov := &tc.Individuals, &tc.Migrations, &tc.Populations, &tc.Provenances
	if len(n.Flags) != n.NumRows() || len(n.Population) != n.NumRows() || len(n.Individual) != n.NumRows() ||
		len(e.Right) != e.NumRows() || len(e.Parent) != e.NumRows() || len(e.Child) != e.NumRows() ||
		len(m.Node) != m.NumRows() || len(m.Parent) != m.NumRows() || len(m.Time) != m.NumRows() ||
		len(mig.Right) != mig.NumRows() || len(mig.Node) != mig.NumRows() || len(mig.Source) != mig.NumRows() ||
		len(mig.Dest) != mig.NumRows() || len(mig.Time) != mig.NumRows() {
		return ErrBadParamValue
	}
	if len(pop.MetadataOffset) == 0 || len(prov.RecordOffset) == 0 {
		return ErrBadOffset
	}
	return firstError(
		checkOffsets(n.MetadataOffset, n.NumRows(), len(n.Metadata)),
		checkOffsets(e.MetadataOffset, e.NumRows(), len(e.Metadata)),
		checkOffsets(s.AncestralStateOffset, s.NumRows(), len(s.AncestralState)),
		checkOffsets(s.MetadataOffset, s.NumRows(), len(s.Metadata)),
		checkOffsets(m.DerivedStateOffset, m.NumRows(), len(m.DerivedState)),
		checkOffsets(m.MetadataOffset, m.NumRows(), len(m.Metadata)),
		checkOffsets(ind.LocationOffset, ind.NumRows(), len(ind.Location)),
		checkOffsets(ind.ParentsOffset, ind.NumRows(), len(ind.Parents)),
		checkOffsets(ind.MetadataOffset, ind.NumRows(), len(ind.Metadata)),
		checkOffsets(mig.MetadataOffset, mig.NumRows(), len(mig.Metadata)),
		checkOffsets(pop.MetadataOffset, pop.NumRows(), len(pop.Metadata)),
		checkOffsets(prov.TimestampOffset, prov.NumRows(), len(prov.Timestamp)),
		checkOffsets(prov.RecordOffset, prov.NumRows(), len(prov.Record)),
	)
}

func checkNodes(tc *TableCollection) int32 {
	npop, nind := int32(tc.Populations.NumRows()), int32(tc.Individuals.NumRows())
	for j, t := range tc.Nodes.Time {
		if !isFinite(t) {
			return ErrTimeNonfinite
		}
		if p := tc.Nodes.Population[j]; p < Null || p >= npop {
			return ErrPopulationOutOfBounds
		}
		if i := tc.Nodes.Individual[j]; i < Null || i >= nind {
			return ErrIndividualOutOfBounds
		}
	}
	return 0
}

func checkInterval(left, right, length float64) int32 {
	switch {
	case !isFinite(left) || !isFinite(right):
		return ErrGenomeCoordsNonfinite
	case left < 0:
		return ErrLeftLessZero
	case right > length:
		return ErrRightGreaterSeqLength
	case left >= right:
		return ErrBadEdgeInterval
	}
	return 0
}

func checkEdges(tc *TableCollection, options uint32) int32 {
	e := &tc.Edges
	time := tc.Nodes.Time
	nnodes := int32(tc.Nodes.NumRows())
	var parentSeen []bool
	if options&CheckEdgeOrdering != 0 {
		parentSeen = make([]bool, nnodes)
	}
	for j := range e.Left {
		p, c := e.Parent[j], e.Child[j]
		switch {
		case p == Null:
			return ErrNullParent
		case p < 0 || p >= nnodes:
			return ErrNodeOutOfBounds
		case c == Null:
			return ErrNullChild
		case c < 0 || c >= nnodes:
			return ErrNodeOutOfBounds
		}
		if rv := checkInterval(e.Left[j], e.Right[j], tc.SequenceLength); rv != 0 {
			return rv
		}
		if time[c] >= time[p] {
			return ErrBadNodeTimeOrdering
		}
		if parentSeen == nil || j == 0 {
			continue
		}
		pp := e.Parent[j-1]
		switch {
		case time[p] < time[pp]:
			return ErrEdgesNotSortedParentTime
		case p != pp:
			parentSeen[pp] = true
			if parentSeen[p] {
				return ErrEdgesNoncontiguousParents
			}
		case c < e.Child[j-1]:
			return ErrEdgesNotSortedChild
		case c == e.Child[j-1]:
			if e.Left[j] == e.Left[j-1] {
				return ErrDuplicateEdges
			}
			if e.Left[j] < e.Left[j-1] {
				return ErrEdgesNotSortedLeft
			}
		}
	}
	return 0
}

func checkSites(tc *TableCollection, options uint32) int32 {
	pos := tc.Sites.Position
	for j, x := range pos {
		if !isFinite(x) {
			return ErrGenomeCoordsNonfinite
		}
		if x < 0 || x >= tc.SequenceLength {
			return ErrBadSitePosition
		}
		if j == 0 {
			continue
		}
		if options&CheckSiteOrdering != 0 && x < pos[j-1] {
			return ErrUnsortedSites
		}
		if options&CheckSiteDuplicates != 0 && x == pos[j-1] {
			return ErrDuplicateSitePosition
		}
	}
	return 0
}

func checkMutations(tc *TableCollection, options uint32) int32 {
	m := &tc.Mutations
	nsites, nnodes, nmut := int32(tc.Sites.NumRows()), int32(tc.Nodes.NumRows()), int32(m.NumRows())
	ordering := options&CheckMutationOrdering != 0
	unknownAtSite := false
	for j := range m.Site {
		site, node, parent, t := m.Site[j], m.Node[j], m.Parent[j], m.Time[j]
		switch {
		case site < 0 || site >= nsites:
			return ErrSiteOutOfBounds
		case node < 0 || node >= nnodes:
			return ErrNodeOutOfBounds
		case parent < Null || parent >= nmut:
			return ErrMutationOutOfBounds
		case parent == int32(j):
			return ErrMutationParentEqual
		}
		unknown := IsUnknownTime(t)
		if !unknown {
			if !isFinite(t) {
				return ErrTimeNonfinite
			}
			if t < tc.Nodes.Time[node] {
				return ErrMutationTimeYoungerThanNode
			}
		}
		if parent != Null {
			if m.Site[parent] != site {
				return ErrMutationParentDifferentSite
			}
			if !unknown && !IsUnknownTime(m.Time[parent]) && m.Time[parent] < t {
				return ErrMutationTimeOlderThanParent
			}
		}
		if j == 0 || m.Site[j-1] != site {
			unknownAtSite = unknown
		} else if unknown != unknownAtSite {
			return ErrMutationTimeKnownAndUnknown
		}
		if !ordering {
			continue
		}
		if parent > int32(j) {
			return ErrMutationParentAfterChild
		}
		if j > 0 {
			if site < m.Site[j-1] {
				return ErrUnsortedMutations
			}
			if site == m.Site[j-1] && !unknown && t > m.Time[j-1] {
				return ErrUnsortedMutations
			}
		}
	}
	return 0
}

func checkMigrations(tc *TableCollection, options uint32) int32 {
	g := &tc.Migrations
	nnodes, npop := int32(tc.Nodes.NumRows()), int32(tc.Populations.NumRows())
	for j := range g.Left {
		if n := g.Node[j]; n < 0 || n >= nnodes {
			return ErrNodeOutOfBounds
		}
		if s := g.Source[j]; s < 0 || s >= npop {
			return ErrPopulationOutOfBounds
		}
		if d := g.Dest[j]; d < 0 || d >= npop {
			return ErrPopulationOutOfBounds
		}
		if !isFinite(g.Time[j]) {
			return ErrTimeNonfinite
		}
		if rv := checkInterval(g.Left[j], g.Right[j], tc.SequenceLength); rv != 0 {
			return rv
		}
		if options&CheckMigrationOrdering != 0 && j > 0 && g.Time[j] < g.Time[j-1] {
			return ErrUnsortedMigrations
		}
	}
	return 0
}

func checkIndividuals(tc *TableCollection, options uint32) int32 {
	ind := &tc.Individuals
	n := int32(ind.NumRows())
	for j := int32(0); j < n; j++ {
		for _, p := range Ragged(ind.Parents, ind.ParentsOffset, int(j)) {
			switch {
			case p < Null || p >= n:
				return ErrIndividualOutOfBounds
			case p == j:
				return ErrIndividualSelfParent
			case options&CheckIndividualOrdering != 0 && p > j:
				return ErrUnsortedIndividuals
			}
		}
	}
	return 0
}

func checkIndexes(tc *TableCollection) int32 {
	if !TableCollectionHasIndex(tc) {
		return ErrTablesNotIndexed
	}
	m := int32(tc.Edges.NumRows())
	for j := range tc.Indexes.EdgeInsertionOrder {
		if e := tc.Indexes.EdgeInsertionOrder[j]; e < 0 || e >= m {
			return ErrTablesBadIndexes
		}
		if e := tc.Indexes.EdgeRemovalOrder[j]; e < 0 || e >= m {
			return ErrTablesBadIndexes
		}
	}
	return 0
}

func countTrees(tc *TableCollection) int32 {
	e := &tc.Edges
	ins, rem := tc.Indexes.EdgeInsertionOrder, tc.Indexes.EdgeRemovalOrder
	length := tc.SequenceLength
	parent := make([]int32, tc.Nodes.NumRows())
	for i := range parent {
		parent[i] = Null
	}
	m := len(ins)
	j, k := 0, 0
	left := 0.0
	numTrees := int64(0)
	for j < m || left < length {
		for k < m && e.Right[rem[k]] == left {
			parent[e.Child[rem[k]]] = Null
			k++
		}
		for j < m && e.Left[ins[j]] == left {
			x := ins[j]
			if parent[e.Child[x]] != Null {
				return ErrBadEdgesContradictoryChild
			}
			parent[e.Child[x]] = e.Parent[x]
			j++
		}
		right := length
		if j < m {
			right = math.Min(right, e.Left[ins[j]])
		}
		if k < m {
			right = math.Min(right, e.Right[rem[k]])
		}
		numTrees++
		if numTrees > math.MaxInt32 {
			return ErrTreeOverflow
		}
		left = right
	}
	return int32(numTrees)
}

// TableCollectionCheckIntegrity validates tc. With CheckTrees it returns the
// number of trees on success.
func TableCollectionCheckIntegrity(tc *TableCollection, options uint32) int32 {
	if options&CheckTrees != 0 {
		options |= CheckEdgeOrdering | CheckSiteOrdering | CheckSiteDuplicates |
			CheckMutationOrdering | CheckMigrationOrdering | CheckIndexes
	}
	if !(tc.SequenceLength > 0) || math.IsInf(tc.SequenceLength, 0) {
		return ErrBadSequenceLength
	}
	checks := []func() int32{
		func() int32 { return checkAllOffsets(tc) },
		func() int32 { return checkNodes(tc) },
		func() int32 { return checkEdges(tc, options) },
		func() int32 { return checkSites(tc, options) },
		func() int32 { return checkMutations(tc, options) },
		func() int32 { return checkMigrations(tc, options) },
		func() int32 { return checkIndividuals(tc, options) },
	}
	for _, check := range checks {
		if rv := check(); rv != 0 {
			return rv
		}
	}
	if options&CheckIndexes != 0 {
		if rv := checkIndexes(tc); rv != 0 {
			return rv
		}
	}
	if options&CheckTrees != 0 {
		return countTrees(tc)
	}
	return 0
}
