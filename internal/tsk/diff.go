package tsk

// DiffIterator walks the edges that leave and enter between adjacent trees.
type DiffIterator struct {
	TS        *TreeSequence
	TreeIndex int

	insertionIndex int
	removalIndex   int
	treeLeft       float64
}

// DiffIterInit prepares d for walking ts from the leftmost tree.
func DiffIterInit(d *DiffIterator, ts *TreeSequence, options uint32) int32 {
	if ts == nil || ts.Tables == nil {
		return ErrBadParamValue
	}
	*d = DiffIterator{TS: ts}
	return 0
}

// DiffIterFree releases d.
func DiffIterFree(d *DiffIterator) int32 {
	*d = DiffIterator{}
	return 0
}

// DiffIterNext fills the interval of the next tree and appends the edges
// removed and inserted on entering it. Returns 1 while trees remain and 0
// once every tree has been visited.
func DiffIterNext(d *DiffIterator, left, right *float64, removed, inserted *[]int32) int32 {
	ts := d.TS
	if d.TreeIndex >= ts.NumTrees {
		return 0
	}
	e := &ts.Tables.Edges
	ins, rem := ts.Tables.Indexes.EdgeInsertionOrder, ts.Tables.Indexes.EdgeRemovalOrder
	m := len(ins)
	*removed = (*removed)[:0]
	*inserted = (*inserted)[:0]
	for d.removalIndex < m && e.Right[rem[d.removalIndex]] == d.treeLeft {
		*removed = append(*removed, rem[d.removalIndex])
		d.removalIndex++
	}
	for d.insertionIndex < m && e.Left[ins[d.insertionIndex]] == d.treeLeft {
		*inserted = append(*inserted, ins[d.insertionIndex])
		d.insertionIndex++
	}
	*left = d.treeLeft
	*right = ts.Breakpoints[d.TreeIndex+1]
	d.treeLeft = *right
	d.TreeIndex++
	return 1
}
