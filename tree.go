package tskit

import (
	"iter"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/tskit/internal/conv"
	"github.com/hupe1980/tskit/internal/handle"
	"github.com/hupe1980/tskit/internal/tsk"
)

// Tree is a double-ended cursor over the trees of a tree sequence. It starts
// in the null state, before the first and after the last tree:
//
//	tree, _ := ts.TreeIterator(0)
//	defer tree.Close()
//	for tree.Advance() {
//	    for r := range tree.Roots() {
//	        ...
//	    }
//	}
//
// Arrays returned by a Tree are overwritten when it moves. A Tree must not
// outlive its tree sequence.
type Tree struct {
	h     *handle.Handle[tsk.Tree]
	ts    *TreeSequence
	flags TreeFlags
	buf   []int32
}

func newTree(ts *TreeSequence, flags TreeFlags) (*Tree, error) {
	raw, err := ts.ref()
	if err != nil {
		return nil, err
	}
	h, code := handle.New(func(t *tsk.Tree) int32 {
		return tsk.TreeInit(t, raw, uint32(flags))
	}, tsk.TreeFree)
	if err := checkCode("init tree", code); err != nil {
		return nil, err
	}
	return &Tree{h: h, ts: ts, flags: flags}, nil
}

func (t *Tree) raw() *tsk.Tree {
	t.ts.h.Ref()
	return t.h.Ref()
}

// Close releases the tree.
func (t *Tree) Close() error {
	return checkCode("close tree", t.h.Close())
}

func (t *Tree) moved(code int32) bool {
	if code == 1 {
		t.ts.opts.metricsCollector.RecordTreeAdvance()
		return true
	}
	return false
}

// Advance moves to the next tree, or onto the first from the null state.
// It reports false when it moves past the last tree.
func (t *Tree) Advance() bool { return t.moved(tsk.TreeNext(t.raw())) }

// AdvanceBack moves to the previous tree, or onto the last from the null
// state.
func (t *Tree) AdvanceBack() bool { return t.moved(tsk.TreePrev(t.raw())) }

// Get returns t when it is positioned on a tree, and nil in the null state.
func (t *Tree) Get() *Tree {
	if t.raw().Index == tsk.Null {
		return nil
	}
	return t
}

// Next advances and returns the tree, or nil past the end.
func (t *Tree) Next() *Tree {
	if !t.Advance() {
		return nil
	}
	return t
}

// Prev moves back and returns the tree, or nil past the start.
func (t *Tree) Prev() *Tree {
	if !t.AdvanceBack() {
		return nil
	}
	return t
}

// First moves onto the leftmost tree.
func (t *Tree) First() bool { return t.moved(tsk.TreeFirst(t.raw())) }

// Last moves onto the rightmost tree.
func (t *Tree) Last() bool { return t.moved(tsk.TreeLast(t.raw())) }

// Seek moves onto the tree covering position.
func (t *Tree) Seek(position Position) error {
	if err := checkCode("seek", tsk.TreeSeek(t.raw(), float64(position))); err != nil {
		return err
	}
	t.ts.opts.metricsCollector.RecordTreeAdvance()
	return nil
}

// SeekIndex moves onto the tree with the given index.
func (t *Tree) SeekIndex(index int) error {
	i, err := conv.IntToInt32(index)
	if err != nil {
		return &RangeError{Kind: "tree", Value: int64(index), cause: err}
	}
	if err := checkCode("seek index", tsk.TreeSeekIndex(t.raw(), i)); err != nil {
		return err
	}
	t.ts.opts.metricsCollector.RecordTreeAdvance()
	return nil
}

// Index returns the index of the current tree, or -1 in the null state.
func (t *Tree) Index() int { return int(t.raw().Index) }

// Interval returns the genomic interval of the current tree.
func (t *Tree) Interval() Interval {
	r := t.raw()
	return Interval{Left: Position(r.Left), Right: Position(r.Right)}
}

// Span is the length of the current tree's interval.
func (t *Tree) Span() Position {
	r := t.raw()
	return Position(r.Right - r.Left)
}

func (t *Tree) NumEdges() int { return t.raw().NumEdges }

// VirtualRoot is the node above every root. Its children are the roots.
func (t *Tree) VirtualRoot() NodeID { return NodeID(t.raw().VirtualRoot) }

// node looks u up in an array of size NumNodes+1.
func (t *Tree) node(a []int32, u NodeID) (NodeID, bool) {
	i, ok := rowIndex(u, len(a))
	if !ok {
		return Null, false
	}
	return NodeID(a[i]), true
}

// Parent returns the parent of u. The ok result is false only when u is
// not a node of the tree; a root has parent Null.
func (t *Tree) Parent(u NodeID) (NodeID, bool)     { return t.node(t.raw().Parent, u) }
func (t *Tree) LeftChild(u NodeID) (NodeID, bool)  { return t.node(t.raw().LeftChild, u) }
func (t *Tree) RightChild(u NodeID) (NodeID, bool) { return t.node(t.raw().RightChild, u) }
func (t *Tree) LeftSib(u NodeID) (NodeID, bool)    { return t.node(t.raw().LeftSib, u) }
func (t *Tree) RightSib(u NodeID) (NodeID, bool)   { return t.node(t.raw().RightSib, u) }

func (t *Tree) ParentArray() []NodeID     { return IDsFromRaw[NodeID](t.raw().Parent) }
func (t *Tree) LeftChildArray() []NodeID  { return IDsFromRaw[NodeID](t.raw().LeftChild) }
func (t *Tree) RightChildArray() []NodeID { return IDsFromRaw[NodeID](t.raw().RightChild) }
func (t *Tree) LeftSibArray() []NodeID    { return IDsFromRaw[NodeID](t.raw().LeftSib) }
func (t *Tree) RightSibArray() []NodeID   { return IDsFromRaw[NodeID](t.raw().RightSib) }
func (t *Tree) EdgeArray() []EdgeID       { return IDsFromRaw[EdgeID](t.raw().Edge) }
func (t *Tree) NumChildrenArray() []int32 { return t.raw().NumChildren }

// Roots yields the roots of the current tree from left to right.
func (t *Tree) Roots() iter.Seq[NodeID] {
	r := t.raw()
	return t.Children(NodeID(r.VirtualRoot))
}

// RootsSlice returns the roots of the current tree.
func (t *Tree) RootsSlice() []NodeID {
	var out []NodeID
	for r := range t.Roots() {
		out = append(out, r)
	}
	return out
}

// NumRoots counts the roots of the current tree.
func (t *Tree) NumRoots() int { return tsk.TreeNumRoots(t.raw()) }

// Children yields the children of u from left to right.
func (t *Tree) Children(u NodeID) iter.Seq[NodeID] {
	r := t.raw()
	return func(yield func(NodeID) bool) {
		if _, ok := rowIndex(u, len(r.LeftChild)); !ok {
			return
		}
		for c := r.LeftChild[u]; c != tsk.Null; c = r.RightSib[c] {
			if !yield(NodeID(c)) {
				return
			}
		}
	}
}

// Parents yields u and then each ancestor of u up to its root.
func (t *Tree) Parents(u NodeID) iter.Seq[NodeID] {
	r := t.raw()
	return func(yield func(NodeID) bool) {
		if _, ok := rowIndex(u, r.NumNodes); !ok {
			return
		}
		for v := int32(u); v != tsk.Null; v = r.Parent[v] {
			if !yield(NodeID(v)) {
				return
			}
		}
	}
}

// Samples yields the samples below u. It needs TreeSampleLists.
func (t *Tree) Samples(u NodeID) (iter.Seq[NodeID], error) {
	r := t.raw()
	if t.flags&TreeSampleLists == 0 {
		return nil, ErrNotTrackingSamples
	}
	if _, ok := rowIndex(u, len(r.LeftSample)); !ok {
		return nil, &RangeError{Kind: "node", Value: int64(u)}
	}
	samples := r.TS.Samples
	return func(yield func(NodeID) bool) {
		i := r.LeftSample[u]
		if i == tsk.Null {
			return
		}
		stop := r.RightSample[u]
		for {
			if !yield(NodeID(samples[i])) || i == stop {
				return
			}
			i = r.NextSample[i]
		}
	}, nil
}

// SamplesArray returns the sample nodes, indexed by sample index.
func (t *Tree) SamplesArray() []NodeID { return IDsFromRaw[NodeID](t.raw().TS.Samples) }

func (t *Tree) sampleList(a []int32) ([]int32, error) {
	if t.flags&TreeSampleLists == 0 {
		return nil, ErrNotTrackingSamples
	}
	return a, nil
}

// NextSampleArray links each sample index to the next in its node's list.
// It needs TreeSampleLists.
func (t *Tree) NextSampleArray() ([]int32, error) { return t.sampleList(t.raw().NextSample) }

// LeftSampleArray holds the first sample index of each node's list.
func (t *Tree) LeftSampleArray() ([]int32, error) { return t.sampleList(t.raw().LeftSample) }

// RightSampleArray holds the last sample index of each node's list.
func (t *Tree) RightSampleArray() ([]int32, error) { return t.sampleList(t.raw().RightSample) }

func (t *Tree) count(a []int32, u NodeID) (int, error) {
	if t.flags&TreeNoSampleCounts != 0 {
		return 0, ErrNotTrackingSamples
	}
	i, ok := rowIndex(u, len(a))
	if !ok {
		return 0, &RangeError{Kind: "node", Value: int64(u)}
	}
	return int(a[i]), nil
}

// NumSamples counts the samples below u.
func (t *Tree) NumSamples(u NodeID) (int, error) { return t.count(t.raw().NumSamples, u) }

// NumTrackedSamples counts the tracked samples below u.
func (t *Tree) NumTrackedSamples(u NodeID) (int, error) {
	return t.count(t.raw().NumTrackedSamples, u)
}

// SetTrackedSamples chooses the samples counted by NumTrackedSamples.
func (t *Tree) SetTrackedSamples(samples []NodeID) error {
	return checkCode("set tracked samples", tsk.TreeSetTrackedSamples(t.raw(), RawIDs(samples)))
}

// SampleBitmap returns the samples below u as a bitmap of node ids.
func (t *Tree) SampleBitmap(u NodeID) (*roaring.Bitmap, error) {
	r := t.raw()
	if _, ok := rowIndex(u, len(r.Parent)); !ok {
		return nil, &RangeError{Kind: "node", Value: int64(u)}
	}
	return tsk.TreeSampleBitmap(r, int32(u)), nil
}

// TraverseNodes yields every node of the current tree, excluding the virtual
// root, in the given order.
func (t *Tree) TraverseNodes(order TraversalOrder) iter.Seq[NodeID] {
	r := t.raw()
	if order == Postorder {
		t.buf = tsk.TreePostorder(r, tsk.Null, t.buf[:0])
	} else {
		t.buf = tsk.TreePreorder(r, tsk.Null, t.buf[:0])
	}
	nodes := IDsFromRaw[NodeID](t.buf)
	return func(yield func(NodeID) bool) {
		for _, u := range nodes {
			if !yield(u) {
				return
			}
		}
	}
}

// TotalBranchLength sums the branch lengths of the current tree. With
// bySpan the sum is weighted by the tree's span.
func (t *Tree) TotalBranchLength(bySpan bool) (float64, error) {
	r := t.raw()
	var length float64
	if err := checkCode("total branch length", tsk.TreeTotalBranchLength(r, tsk.Null, &length)); err != nil {
		return 0, err
	}
	if bySpan {
		length *= r.Right - r.Left
	}
	return length, nil
}

// KCDistance is the Kendall-Colijn distance between the current trees of t
// and other. Both need TreeSampleLists.
func (t *Tree) KCDistance(other *Tree, lambda float64) (float64, error) {
	var d float64
	if err := checkCode("kc distance", tsk.TreeKCDistance(t.raw(), other.raw(), lambda, &d)); err != nil {
		return 0, err
	}
	return d, nil
}

// Sites yields the sites inside the current tree's interval.
func (t *Tree) Sites() iter.Seq[SiteID] {
	start, stop := tsk.TreeSites(t.raw())
	return func(yield func(SiteID) bool) {
		for i := start; i < stop; i++ {
			if !yield(SiteID(i)) {
				return
			}
		}
	}
}
