package tsk

func checkIntervals(intervals [][2]float64, length float64) int32 {
	if len(intervals) == 0 {
		return ErrBadParamValue
	}
	last := 0.0
	for _, iv := range intervals {
		left, right := iv[0], iv[1]
		if !isFinite(left) || !isFinite(right) {
			return ErrGenomeCoordsNonfinite
		}
		if left < last || left >= right || right > length {
			return ErrBadParamValue
		}
		last = right
	}
	return 0
}

func inIntervals(intervals [][2]float64, x float64) bool {
	for _, iv := range intervals {
		if x < iv[0] {
			return false
		}
		if x < iv[1] {
			return true
		}
	}
	return false
}

func keepEdgeIntervals(tc *TableCollection, intervals [][2]float64) int32 {
	e := &tc.Edges
	var kept EdgeTable
	kept.account = account{acct: e.acct}
	kept.Init(0)
	kept.MetadataSchema = e.MetadataSchema
	for j := 0; j < e.NumRows(); j++ {
		md := Ragged(e.Metadata, e.MetadataOffset, j)
		for _, iv := range intervals {
			left, right := max(e.Left[j], iv[0]), min(e.Right[j], iv[1])
			if left >= right {
				continue
			}
			if rv := kept.AddRow(left, right, e.Parent[j], e.Child[j], md); rv < 0 {
				kept.Free()
				return rv
			}
		}
	}
	e.releaseAll()
	*e = kept
	return 0
}

func keepMigrationIntervals(tc *TableCollection, intervals [][2]float64) int32 {
	g := &tc.Migrations
	var kept MigrationTable
	kept.account = account{acct: g.acct}
	kept.Init(0)
	kept.MetadataSchema = g.MetadataSchema
	for j := 0; j < g.NumRows(); j++ {
		md := Ragged(g.Metadata, g.MetadataOffset, j)
		for _, iv := range intervals {
			left, right := max(g.Left[j], iv[0]), min(g.Right[j], iv[1])
			if left >= right {
				continue
			}
			if rv := kept.AddRow(left, right, g.Node[j], g.Source[j], g.Dest[j], g.Time[j], md); rv < 0 {
				kept.Free()
				return rv
			}
		}
	}
	g.releaseAll()
	*g = kept
	return 0
}

func keepSiteIntervals(tc *TableCollection, intervals [][2]float64) int32 {
	s, m := &tc.Sites, &tc.Mutations
	var sites SiteTable
	var muts MutationTable
	sites.account, muts.account = account{acct: s.acct}, account{acct: m.acct}
	sites.Init(0)
	muts.Init(0)
	sites.MetadataSchema, muts.MetadataSchema = s.MetadataSchema, m.MetadataSchema

	siteMap := make([]int32, s.NumRows())
	for j := range siteMap {
		siteMap[j] = Null
		if !inIntervals(intervals, s.Position[j]) {
			continue
		}
		id := sites.AddRow(s.Position[j], Ragged(s.AncestralState, s.AncestralStateOffset, j),
			Ragged(s.Metadata, s.MetadataOffset, j))
		if id < 0 {
			sites.Free()
			return id
		}
		siteMap[j] = id
	}
	mutMap := make([]int32, m.NumRows())
	for j := range mutMap {
		mutMap[j] = Null
		site := siteMap[m.Site[j]]
		if site == Null {
			continue
		}
		parent := m.Parent[j]
		if parent != Null {
			parent = mutMap[parent]
		}
		id := muts.AddRow(site, m.Node[j], parent, m.Time[j],
			Ragged(m.DerivedState, m.DerivedStateOffset, j), Ragged(m.Metadata, m.MetadataOffset, j))
		if id < 0 {
			sites.Free()
			muts.Free()
			return id
		}
		mutMap[j] = id
	}
	s.releaseAll()
	m.releaseAll()
	*s, *m = sites, muts
	return 0
}

// TableCollectionKeepIntervals removes all information outside the given
// sorted, non-overlapping genomic intervals. Edges and migrations are clipped
// to the intervals; sites outside them are dropped with their mutations.
// With KeepIntervalsSimplify the result is simplified with respect to the
// current samples.
func TableCollectionKeepIntervals(tc *TableCollection, intervals [][2]float64, options uint32) int32 {
	if rv := checkIntervals(intervals, tc.SequenceLength); rv != 0 {
		return rv
	}
	if rv := TableCollectionCheckIntegrity(tc, 0); rv < 0 {
		return rv
	}
	for _, step := range []func(*TableCollection, [][2]float64) int32{
		keepEdgeIntervals, keepMigrationIntervals, keepSiteIntervals,
	} {
		if rv := step(tc, intervals); rv != 0 {
			return rv
		}
	}
	TableCollectionDropIndex(tc)
	if options&KeepIntervalsSimplify != 0 {
		return TableCollectionSimplify(tc, nil, 0, nil)
	}
	return 0
}
