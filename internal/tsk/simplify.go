package tsk

import (
	"cmp"
	"slices"
	"sort"
)

type segment struct {
	left, right float64
	node        int32
}

type childEdge struct {
	left, right float64
	child       int32
}

type simplifier struct {
	in       *TableCollection
	out      *TableCollection
	options  uint32
	isSample []bool
	nodeMap  []int32
	ancestry [][]segment
	mutsAt   [][]int32
	mutMap   []int32
	edges    []childEdge
}

func newSimplifier(in, out *TableCollection, samples []int32, options uint32) (*simplifier, int32) {
	n := in.Nodes.NumRows()
	s := &simplifier{
		in:       in,
		out:      out,
		options:  options,
		isSample: make([]bool, n),
		nodeMap:  make([]int32, n),
		ancestry: make([][]segment, n),
		mutsAt:   make([][]int32, n),
		mutMap:   make([]int32, in.Mutations.NumRows()),
	}
	for i := range s.nodeMap {
		s.nodeMap[i] = Null
	}
	for j, u := range in.Mutations.Node {
		s.mutMap[j] = Null
		s.mutsAt[u] = append(s.mutsAt[u], int32(j))
	}
	for _, u := range samples {
		if u < 0 || int(u) >= n {
			return nil, ErrNodeOutOfBounds
		}
		if s.isSample[u] {
			return nil, ErrDuplicateSample
		}
		s.isSample[u] = true
	}
	for _, u := range samples {
		v, rv := s.recordNode(u, true)
		if rv != 0 {
			return nil, rv
		}
		s.ancestry[u] = []segment{{0, in.SequenceLength, v}}
		s.mapMutations(u)
	}
	return s, 0
}

func (s *simplifier) recordNode(u int32, sample bool) (int32, int32) {
	nodes := &s.in.Nodes
	flags := nodes.Flags[u] &^ NodeIsSample
	if sample {
		flags |= NodeIsSample
	}
	v := s.out.Nodes.AddRow(flags, nodes.Time[u], nodes.Population[u], nodes.Individual[u],
		Ragged(nodes.Metadata, nodes.MetadataOffset, int(u)))
	if v < 0 {
		return Null, v
	}
	s.nodeMap[u] = v
	return v, 0
}

// extract removes the part of c's ancestry overlapping [left, right) and
// returns it clipped to that interval.
func (s *simplifier) extract(c int32, left, right float64, dst []segment) []segment {
	var keep []segment
	for _, x := range s.ancestry[c] {
		if x.right <= left || x.left >= right {
			keep = append(keep, x)
			continue
		}
		if x.left < left {
			keep = append(keep, segment{x.left, left, x.node})
		}
		dst = append(dst, segment{max(x.left, left), min(x.right, right), x.node})
		if x.right > right {
			keep = append(keep, segment{right, x.right, x.node})
		}
	}
	s.ancestry[c] = keep
	return dst
}

func appendSegment(segs []segment, left, right float64, node int32) []segment {
	if n := len(segs); n > 0 && segs[n-1].right == left && segs[n-1].node == node {
		segs[n-1].right = right
		return segs
	}
	return append(segs, segment{left, right, node})
}

func (s *simplifier) processParent(u int32, overlapping []segment) int32 {
	if s.isSample[u] {
		overlapping = append(overlapping, s.ancestry[u]...)
		s.ancestry[u] = nil
	}
	slices.SortFunc(overlapping, func(a, b segment) int { return cmp.Compare(a.left, b.left) })

	keepUnary := s.options&KeepUnary != 0
	v := s.nodeMap[u]
	var merged []segment
	var active []segment
	s.edges = s.edges[:0]
	i := 0
	left := 0.0
	for i < len(overlapping) || len(active) > 0 {
		if len(active) == 0 {
			left = overlapping[i].left
		}
		for i < len(overlapping) && overlapping[i].left == left {
			active = append(active, overlapping[i])
			i++
		}
		right := active[0].right
		for _, x := range active[1:] {
			right = min(right, x.right)
		}
		if i < len(overlapping) {
			right = min(right, overlapping[i].left)
		}

		node := active[0].node
		if len(active) > 1 || keepUnary {
			if v == Null {
				var rv int32
				if v, rv = s.recordNode(u, false); rv != 0 {
					return rv
				}
			}
			for _, x := range active {
				if x.node != v {
					s.edges = append(s.edges, childEdge{left, right, x.node})
				}
			}
			node = v
		}
		merged = appendSegment(merged, left, right, node)

		kept := active[:0]
		for _, x := range active {
			if x.right > right {
				kept = append(kept, x)
			}
		}
		active = kept
		left = right
	}
	s.ancestry[u] = merged
	s.mapMutations(u)
	return s.flushEdges(v)
}

func (s *simplifier) flushEdges(parent int32) int32 {
	if len(s.edges) == 0 {
		return 0
	}
	slices.SortFunc(s.edges, func(a, b childEdge) int {
		return cmp.Or(cmp.Compare(a.child, b.child), cmp.Compare(a.left, b.left))
	})
	cur := s.edges[0]
	for _, e := range s.edges[1:] {
		if e.child == cur.child && e.left == cur.right {
			cur.right = e.right
			continue
		}
		if rv := s.out.Edges.AddRow(cur.left, cur.right, parent, cur.child, nil); rv < 0 {
			return rv
		}
		cur = e
	}
	if rv := s.out.Edges.AddRow(cur.left, cur.right, parent, cur.child, nil); rv < 0 {
		return rv
	}
	s.edges = s.edges[:0]
	return 0
}

func (s *simplifier) mapMutations(u int32) {
	segs := s.ancestry[u]
	for _, m := range s.mutsAt[u] {
		pos := s.in.Sites.Position[s.in.Mutations.Site[m]]
		k := sort.Search(len(segs), func(i int) bool { return segs[i].right > pos })
		if k < len(segs) && segs[k].left <= pos {
			s.mutMap[m] = segs[k].node
		} else {
			s.mutMap[m] = Null
		}
	}
}

func (s *simplifier) insertInputRoots() int32 {
	for u := range s.ancestry {
		segs := s.ancestry[u]
		if len(segs) == 0 {
			continue
		}
		v := s.nodeMap[u]
		if v == Null {
			var rv int32
			if v, rv = s.recordNode(int32(u), false); rv != 0 {
				return rv
			}
		}
		s.edges = s.edges[:0]
		for _, x := range segs {
			if x.node != v {
				s.edges = append(s.edges, childEdge{x.left, x.right, x.node})
			}
		}
		for _, m := range s.mutsAt[u] {
			pos := s.in.Sites.Position[s.in.Mutations.Site[m]]
			for _, x := range segs {
				if x.left <= pos && pos < x.right {
					s.mutMap[m] = v
				}
			}
		}
		if rv := s.flushEdges(v); rv != 0 {
			return rv
		}
	}
	return 0
}

func (s *simplifier) outputSites() int32 {
	in, out := s.in, s.out
	sites, muts := &in.Sites, &in.Mutations
	mutOut := make([]int32, muts.NumRows())
	j := 0
	for site := 0; site < sites.NumRows(); site++ {
		start := j
		keep := false
		for j < muts.NumRows() && int(muts.Site[j]) == site {
			if s.mutMap[j] != Null {
				keep = true
			}
			j++
		}
		if !keep && s.options&FilterSites != 0 {
			for k := start; k < j; k++ {
				mutOut[k] = Null
			}
			continue
		}
		newSite := out.Sites.AddRow(sites.Position[site],
			Ragged(sites.AncestralState, sites.AncestralStateOffset, site),
			Ragged(sites.Metadata, sites.MetadataOffset, site))
		if newSite < 0 {
			return newSite
		}
		for k := start; k < j; k++ {
			mutOut[k] = Null
			if s.mutMap[k] == Null {
				continue
			}
			parent := muts.Parent[k]
			for parent != Null && mutOut[parent] == Null {
				parent = muts.Parent[parent]
			}
			if parent != Null {
				parent = mutOut[parent]
			}
			id := out.Mutations.AddRow(newSite, s.mutMap[k], parent, muts.Time[k],
				Ragged(muts.DerivedState, muts.DerivedStateOffset, k),
				Ragged(muts.Metadata, muts.MetadataOffset, k))
			if id < 0 {
				return id
			}
			mutOut[k] = id
		}
	}
	return 0
}

func (s *simplifier) outputPopulations() int32 {
	in, out := &s.in.Populations, &s.out.Populations
	keep := make([]bool, in.NumRows())
	filter := s.options&FilterPopulations != 0
	for _, p := range s.out.Nodes.Population {
		if p != Null {
			keep[p] = true
		}
	}
	popMap := make([]int32, in.NumRows())
	for p := range popMap {
		popMap[p] = Null
		if filter && !keep[p] {
			continue
		}
		id := out.AddRow(Ragged(in.Metadata, in.MetadataOffset, p))
		if id < 0 {
			return id
		}
		popMap[p] = id
	}
	for j, p := range s.out.Nodes.Population {
		if p != Null {
			s.out.Nodes.Population[j] = popMap[p]
		}
	}
	return 0
}

func (s *simplifier) outputIndividuals() int32 {
	in, out := &s.in.Individuals, &s.out.Individuals
	keep := make([]bool, in.NumRows())
	filter := s.options&FilterIndividuals != 0
	for _, i := range s.out.Nodes.Individual {
		if i != Null {
			keep[i] = true
		}
	}
	indMap := make([]int32, in.NumRows())
	for i := range indMap {
		indMap[i] = Null
		if !filter || keep[i] {
			indMap[i] = 0
		}
	}
	next := int32(0)
	for i := range indMap {
		if indMap[i] != Null {
			indMap[i] = next
			next++
		}
	}
	parents := make([]int32, 0, 2)
	for i := range indMap {
		if indMap[i] == Null {
			continue
		}
		parents = parents[:0]
		for _, p := range Ragged(in.Parents, in.ParentsOffset, i) {
			if p != Null {
				p = indMap[p]
			}
			parents = append(parents, p)
		}
		id := out.AddRow(in.Flags[i], Ragged(in.Location, in.LocationOffset, i), parents,
			Ragged(in.Metadata, in.MetadataOffset, i))
		if id < 0 {
			return id
		}
	}
	for j, i := range s.out.Nodes.Individual {
		if i != Null {
			s.out.Nodes.Individual[j] = indMap[i]
		}
	}
	return 0
}

func copyProvenances(src, dst *ProvenanceTable) int32 {
	for j := 0; j < src.NumRows(); j++ {
		if rv := dst.AddRow(Ragged(src.Timestamp, src.TimestampOffset, j), Ragged(src.Record, src.RecordOffset, j)); rv < 0 {
			return rv
		}
	}
	return 0
}

// newOutputCollection initializes an empty collection sharing tc's budget
// and top-level properties.
func newOutputCollection(tc, out *TableCollection) int32 {
	TableCollectionInit(out, 0)
	if tc.acct != nil {
		out.acct.budget = tc.acct.budget
	}
	out.SequenceLength = tc.SequenceLength
	out.TimeUnits = tc.TimeUnits
	out.Metadata = slices.Clone(tc.Metadata)
	out.MetadataSchema = tc.MetadataSchema
	out.Nodes.MetadataSchema = tc.Nodes.MetadataSchema
	out.Edges.MetadataSchema = tc.Edges.MetadataSchema
	out.Sites.MetadataSchema = tc.Sites.MetadataSchema
	out.Mutations.MetadataSchema = tc.Mutations.MetadataSchema
	out.Migrations.MetadataSchema = tc.Migrations.MetadataSchema
	out.Populations.MetadataSchema = tc.Populations.MetadataSchema
	out.Individuals.MetadataSchema = tc.Individuals.MetadataSchema
	return copyProvenances(&tc.Provenances, &out.Provenances)
}

// TableCollectionSimplify reduces tc in place to the history of samples.
// A nil samples slice means every node flagged as a sample. When nodeMap is
// non-nil it receives the output id of every input node, or Null.
func TableCollectionSimplify(tc *TableCollection, samples []int32, options uint32, nodeMap []int32) int32 {
	if options&^simplifySupported != 0 {
		return ErrUnsupportedOperation
	}
	if tc.Migrations.NumRows() > 0 {
		return ErrSimplifyMigrationsNotSupported
	}
	if nodeMap != nil && len(nodeMap) < tc.Nodes.NumRows() {
		return ErrBadParamValue
	}
	check := CheckEdgeOrdering | CheckSiteOrdering | CheckSiteDuplicates | CheckMutationOrdering
	if rv := TableCollectionCheckIntegrity(tc, check); rv < 0 {
		return rv
	}
	if samples == nil {
		samples = tc.Samples()
	}

	var out TableCollection
	if rv := newOutputCollection(tc, &out); rv != 0 {
		TableCollectionFree(&out)
		return rv
	}
	s, rv := newSimplifier(tc, &out, samples, options)
	if rv == 0 {
		rv = s.run()
	}
	if rv != 0 {
		TableCollectionFree(&out)
		return rv
	}
	if nodeMap != nil {
		copy(nodeMap, s.nodeMap)
	}
	TableCollectionFree(tc)
	*tc = out
	return 0
}

func (s *simplifier) run() int32 {
	e := &s.in.Edges
	var overlapping []segment
	for j := 0; j < e.NumRows(); {
		u := e.Parent[j]
		overlapping = overlapping[:0]
		for ; j < e.NumRows() && e.Parent[j] == u; j++ {
			overlapping = s.extract(e.Child[j], e.Left[j], e.Right[j], overlapping)
		}
		if len(overlapping) == 0 && !s.isSample[u] {
			continue
		}
		if rv := s.processParent(u, overlapping); rv != 0 {
			return rv
		}
	}
	if s.options&KeepInputRoots != 0 {
		if rv := s.insertInputRoots(); rv != 0 {
			return rv
		}
	}
	sortEdges(s.out, 0)
	for _, step := range []func() int32{s.outputSites, s.outputPopulations, s.outputIndividuals} {
		if rv := step(); rv != 0 {
			return rv
		}
	}
	return 0
}
