package tsk

import (
	"cmp"
	"slices"
)

func permute[T any](col []T, start int, order []int) {
	tmp := make([]T, len(order))
	for i, j := range order {
		tmp[i] = col[j]
	}
	copy(col[start:], tmp)
}

func permuteRagged[T any](data []T, offset []uint64, start int, order []int) {
	base := offset[start]
	tmp := make([]T, 0, uint64(len(data))-base)
	next := make([]uint64, len(order))
	for i, j := range order {
		tmp = append(tmp, data[offset[j]:offset[j+1]]...)
		next[i] = base + uint64(len(tmp))
	}
	copy(data[base:], tmp)
	copy(offset[start+1:], next)
}

func rowRange(start, n int) []int {
	order := make([]int, n-start)
	for i := range order {
		order[i] = start + i
	}
	return order
}

func sortEdges(tc *TableCollection, start int) {
	e := &tc.Edges
	time := tc.Nodes.Time
	order := rowRange(start, e.NumRows())
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Or(
			cmp.Compare(time[e.Parent[a]], time[e.Parent[b]]),
			cmp.Compare(e.Parent[a], e.Parent[b]),
			cmp.Compare(e.Child[a], e.Child[b]),
			cmp.Compare(e.Left[a], e.Left[b]),
		)
	})
	permute(e.Left, start, order)
	permute(e.Right, start, order)
	permute(e.Parent, start, order)
	permute(e.Child, start, order)
	permuteRagged(e.Metadata, e.MetadataOffset, start, order)
}

func sortMigrations(tc *TableCollection, start int) {
	g := &tc.Migrations
	order := rowRange(start, g.NumRows())
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Or(
			cmp.Compare(g.Time[a], g.Time[b]),
			cmp.Compare(g.Source[a], g.Source[b]),
			cmp.Compare(g.Dest[a], g.Dest[b]),
			cmp.Compare(g.Left[a], g.Left[b]),
			cmp.Compare(g.Node[a], g.Node[b]),
		)
	})
	permute(g.Left, start, order)
	permute(g.Right, start, order)
	permute(g.Node, start, order)
	permute(g.Source, start, order)
	permute(g.Dest, start, order)
	permute(g.Time, start, order)
	permuteRagged(g.Metadata, g.MetadataOffset, start, order)
}

func inverse(order []int) []int32 {
	inv := make([]int32, len(order))
	for newID, oldID := range order {
		inv[oldID] = int32(newID)
	}
	return inv
}

func sortSitesAndMutations(tc *TableCollection) {
	s, m := &tc.Sites, &tc.Mutations

	siteOrder := rowRange(0, s.NumRows())
	slices.SortStableFunc(siteOrder, func(a, b int) int {
		return cmp.Compare(s.Position[a], s.Position[b])
	})
	siteMap := inverse(siteOrder)
	permute(s.Position, 0, siteOrder)
	permuteRagged(s.AncestralState, s.AncestralStateOffset, 0, siteOrder)
	permuteRagged(s.Metadata, s.MetadataOffset, 0, siteOrder)
	for j, site := range m.Site {
		m.Site[j] = siteMap[site]
	}

	mutOrder := rowRange(0, m.NumRows())
	slices.SortStableFunc(mutOrder, func(a, b int) int {
		if c := cmp.Compare(m.Site[a], m.Site[b]); c != 0 {
			return c
		}
		ta, tb := m.Time[a], m.Time[b]
		if IsUnknownTime(ta) || IsUnknownTime(tb) {
			return 0
		}
		return cmp.Compare(tb, ta)
	})
	mutMap := inverse(mutOrder)
	permute(m.Site, 0, mutOrder)
	permute(m.Node, 0, mutOrder)
	permute(m.Parent, 0, mutOrder)
	permute(m.Time, 0, mutOrder)
	permuteRagged(m.DerivedState, m.DerivedStateOffset, 0, mutOrder)
	permuteRagged(m.Metadata, m.MetadataOffset, 0, mutOrder)
	for j, p := range m.Parent {
		if p != Null {
			m.Parent[j] = mutMap[p]
		}
	}
}

// TableCollectionSort sorts edges, sites, mutations and migrations into the
// order required for building a tree sequence. Edges and migrations are
// sorted from the bookmarked row onwards; sites and mutations are sorted
// whole when their offsets are zero.
func TableCollectionSort(tc *TableCollection, start *Bookmark, options uint32) int32 {
	if options&NoCheckIntegrity == 0 {
		if rv := TableCollectionCheckIntegrity(tc, 0); rv < 0 {
			return rv
		}
	}
	var b Bookmark
	if start != nil {
		b = *start
	}
	if b.Edges < 0 || b.Edges > tc.Edges.NumRows() {
		return ErrEdgeOutOfBounds
	}
	if b.Migrations < 0 || b.Migrations > tc.Migrations.NumRows() {
		return ErrMigrationOutOfBounds
	}
	if b.Sites != 0 && b.Sites != tc.Sites.NumRows() {
		return ErrSortOffsetNotSupported
	}
	if b.Mutations != 0 && b.Mutations != tc.Mutations.NumRows() {
		return ErrSortOffsetNotSupported
	}
	sortEdges(tc, b.Edges)
	sortMigrations(tc, b.Migrations)
	if b.Sites == 0 {
		sortSitesAndMutations(tc)
	}
	TableCollectionDropIndex(tc)
	return 0
}

// TableCollectionIndividualTopologicalSort reorders individuals so that
// parents precede their children and remaps every reference to them.
func TableCollectionIndividualTopologicalSort(tc *TableCollection, options uint32) int32 {
	if rv := TableCollectionCheckIntegrity(tc, 0); rv < 0 {
		return rv
	}
	ind := &tc.Individuals
	n := ind.NumRows()
	const (
		unvisited = iota
		active
		done
	)
	state := make([]uint8, n)
	order := make([]int, 0, n)
	var visit func(i int) int32
	visit = func(i int) int32 {
		switch state[i] {
		case done:
			return 0
		case active:
			return ErrIndividualParentCycle
		}
		state[i] = active
		for _, p := range Ragged(ind.Parents, ind.ParentsOffset, i) {
			if p == Null {
				continue
			}
			if rv := visit(int(p)); rv != 0 {
				return rv
			}
		}
		state[i] = done
		order = append(order, i)
		return 0
	}
	for i := 0; i < n; i++ {
		if rv := visit(i); rv != 0 {
			return rv
		}
	}
	newID := inverse(order)

	var sorted IndividualTable
	sorted.account = ind.account
	sorted.Init(options)
	sorted.MetadataSchema = ind.MetadataSchema
	parents := make([]int32, 0, 2)
	for _, old := range order {
		parents = parents[:0]
		for _, p := range Ragged(ind.Parents, ind.ParentsOffset, old) {
			if p != Null {
				p = newID[p]
			}
			parents = append(parents, p)
		}
		sorted.Flags = append(sorted.Flags, ind.Flags[old])
		sorted.Location, sorted.LocationOffset = appendRagged(sorted.Location, sorted.LocationOffset,
			Ragged(ind.Location, ind.LocationOffset, old))
		sorted.Parents, sorted.ParentsOffset = appendRagged(sorted.Parents, sorted.ParentsOffset, parents)
		sorted.Metadata, sorted.MetadataOffset = appendRagged(sorted.Metadata, sorted.MetadataOffset,
			Ragged(ind.Metadata, ind.MetadataOffset, old))
	}
	*ind = sorted
	for j, i := range tc.Nodes.Individual {
		if i != Null {
			tc.Nodes.Individual[j] = newID[i]
		}
	}
	return 0
}
