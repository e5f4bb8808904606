package tsk

import (
	"math"
	"sort"

	"github.com/RoaringBitmap/roaring/v2"
)

const (
	dirForward = 1
	dirReverse = -1
)

// Tree is a cursor over the trees of a tree sequence. The topology arrays
// have one slot per node plus one for the virtual root, whose children are
// the roots of the current tree.
type Tree struct {
	TS            *TreeSequence
	Options       uint32
	Index         int32
	Left, Right   float64
	NumNodes      int
	VirtualRoot   int32
	RootThreshold int32
	NumEdges      int

	Parent      []int32
	LeftChild   []int32
	RightChild  []int32
	LeftSib     []int32
	RightSib    []int32
	NumChildren []int32
	Edge        []int32

	NumSamples        []int32
	NumTrackedSamples []int32
	LeftSample        []int32
	RightSample       []int32
	NextSample        []int32

	tracked    *roaring.Bitmap
	leftIndex  int
	rightIndex int
	direction  int
}

// TreeInit prepares t for iterating over ts. The tree starts in the null
// state (Index == -1).
func TreeInit(t *Tree, ts *TreeSequence, options uint32) int32 {
	if ts == nil || ts.Tables == nil {
		return ErrBadParamValue
	}
	n := ts.Tables.Nodes.NumRows()
	*t = Tree{
		TS:            ts,
		Options:       options,
		NumNodes:      n,
		VirtualRoot:   int32(n),
		RootThreshold: 1,
	}
	size := n + 1
	t.Parent = make([]int32, size)
	t.LeftChild = make([]int32, size)
	t.RightChild = make([]int32, size)
	t.LeftSib = make([]int32, size)
	t.RightSib = make([]int32, size)
	t.NumChildren = make([]int32, size)
	t.Edge = make([]int32, size)
	if options&TreeNoSampleCounts == 0 {
		t.NumSamples = make([]int32, size)
		t.NumTrackedSamples = make([]int32, size)
	}
	if options&TreeSampleLists != 0 {
		t.LeftSample = make([]int32, size)
		t.RightSample = make([]int32, size)
		t.NextSample = make([]int32, len(ts.Samples))
	}
	treeClear(t)
	return 0
}

// TreeFree releases t.
func TreeFree(t *Tree) int32 {
	*t = Tree{}
	return 0
}

func fill(a []int32, v int32) {
	for i := range a {
		a[i] = v
	}
}

func (t *Tree) counting() bool { return t.Options&TreeNoSampleCounts == 0 }

func (t *Tree) potentialRoot(u int32) bool { return t.NumSamples[u] >= t.RootThreshold }

func treeClear(t *Tree) {
	t.Index = Null
	t.Left, t.Right = 0, 0
	t.NumEdges = 0
	t.direction = 0
	fill(t.Parent, Null)
	fill(t.LeftChild, Null)
	fill(t.RightChild, Null)
	fill(t.LeftSib, Null)
	fill(t.RightSib, Null)
	fill(t.NumChildren, 0)
	fill(t.Edge, Null)
	samples := t.TS.Samples
	if t.counting() {
		fill(t.NumSamples, 0)
		fill(t.NumTrackedSamples, 0)
		for _, u := range samples {
			t.NumSamples[u] = 1
			if t.tracked != nil && t.tracked.Contains(uint32(u)) {
				t.NumTrackedSamples[u] = 1
			}
		}
		t.NumSamples[t.VirtualRoot] = int32(len(samples))
		if t.tracked != nil {
			t.NumTrackedSamples[t.VirtualRoot] = int32(t.tracked.GetCardinality())
		}
	}
	if t.Options&TreeSampleLists != 0 {
		fill(t.LeftSample, Null)
		fill(t.RightSample, Null)
		fill(t.NextSample, Null)
		for j, u := range samples {
			t.LeftSample[u] = int32(j)
			t.RightSample[u] = int32(j)
		}
	}
	if t.counting() && t.RootThreshold == 1 {
		for _, u := range samples {
			t.insertRoot(u)
		}
	}
}

func (t *Tree) insertBranch(p, c int32) {
	t.Parent[c] = p
	u := t.RightChild[p]
	if u == Null {
		t.LeftChild[p] = c
		t.LeftSib[c] = Null
	} else {
		t.RightSib[u] = c
		t.LeftSib[c] = u
	}
	t.RightSib[c] = Null
	t.RightChild[p] = c
	t.NumChildren[p]++
}

func (t *Tree) removeBranch(p, c int32) {
	lsib, rsib := t.LeftSib[c], t.RightSib[c]
	if lsib == Null {
		t.LeftChild[p] = rsib
	} else {
		t.RightSib[lsib] = rsib
	}
	if rsib == Null {
		t.RightChild[p] = lsib
	} else {
		t.LeftSib[rsib] = lsib
	}
	t.Parent[c] = Null
	t.LeftSib[c] = Null
	t.RightSib[c] = Null
	t.NumChildren[p]--
}

func (t *Tree) insertRoot(root int32) {
	t.insertBranch(t.VirtualRoot, root)
	t.Parent[root] = Null
}

func (t *Tree) removeRoot(root int32) {
	t.removeBranch(t.VirtualRoot, root)
}

func (t *Tree) updateSampleLists(node int32) {
	sampleIndex := t.TS.SampleIndexMap
	for u := node; u != Null; u = t.Parent[u] {
		if sampleIndex[u] != Null {
			t.RightSample[u] = t.LeftSample[u]
		} else {
			t.LeftSample[u] = Null
			t.RightSample[u] = Null
		}
		for v := t.LeftChild[u]; v != Null; v = t.RightSib[v] {
			if t.LeftSample[v] == Null {
				continue
			}
			if t.LeftSample[u] == Null {
				t.LeftSample[u] = t.LeftSample[v]
			} else {
				t.NextSample[t.RightSample[u]] = t.LeftSample[v]
			}
			t.RightSample[u] = t.RightSample[v]
		}
	}
}

func (t *Tree) insertEdge(p, c, edge int32) {
	if t.counting() {
		pathEnd := Null
		pathEndWasRoot := false
		for u := p; u != Null; u = t.Parent[u] {
			pathEnd = u
			pathEndWasRoot = t.potentialRoot(u)
			t.NumSamples[u] += t.NumSamples[c]
			t.NumTrackedSamples[u] += t.NumTrackedSamples[c]
		}
		if t.potentialRoot(c) {
			t.removeRoot(c)
		}
		if t.potentialRoot(pathEnd) && !pathEndWasRoot {
			t.insertRoot(pathEnd)
		}
	}
	t.insertBranch(p, c)
	t.NumEdges++
	t.Edge[c] = edge
	if t.Options&TreeSampleLists != 0 {
		t.updateSampleLists(p)
	}
}

func (t *Tree) removeEdge(p, c int32) {
	pathEnd := Null
	pathEndWasRoot := false
	if t.counting() {
		for u := p; u != Null; u = t.Parent[u] {
			pathEnd = u
			pathEndWasRoot = t.potentialRoot(u)
			t.NumSamples[u] -= t.NumSamples[c]
			t.NumTrackedSamples[u] -= t.NumTrackedSamples[c]
		}
	}
	t.removeBranch(p, c)
	t.NumEdges--
	t.Edge[c] = Null
	if t.Options&TreeSampleLists != 0 {
		t.updateSampleLists(p)
	}
	if pathEnd != Null {
		if pathEndWasRoot && !t.potentialRoot(pathEnd) {
			t.removeRoot(pathEnd)
		}
		if t.potentialRoot(c) {
			t.insertRoot(c)
		}
	}
}

func (t *Tree) advance(direction int, outBreaks []float64, outOrder []int32, outIndex *int,
	inBreaks []float64, inOrder []int32, inIndex *int) {
	e := &t.TS.Tables.Edges
	m := len(outOrder)
	change := 0
	if direction != t.direction {
		change = direction
	}
	in := *inIndex + change
	out := *outIndex + change
	x := t.Left
	if direction == dirForward {
		x = t.Right
	}
	for out >= 0 && out < m && outBreaks[outOrder[out]] == x {
		k := outOrder[out]
		out += direction
		t.removeEdge(e.Parent[k], e.Child[k])
	}
	for in >= 0 && in < m && inBreaks[inOrder[in]] == x {
		k := inOrder[in]
		in += direction
		t.insertEdge(e.Parent[k], e.Child[k], k)
	}
	t.direction = direction
	t.Index += int32(direction)
	if direction == dirForward {
		t.Left = x
		t.Right = t.TS.Tables.SequenceLength
		if out >= 0 && out < m {
			t.Right = math.Min(t.Right, outBreaks[outOrder[out]])
		}
		if in >= 0 && in < m {
			t.Right = math.Min(t.Right, inBreaks[inOrder[in]])
		}
	} else {
		t.Right = x
		t.Left = 0
		if out >= 0 && out < m {
			t.Left = math.Max(t.Left, outBreaks[outOrder[out]])
		}
		if in >= 0 && in < m {
			t.Left = math.Max(t.Left, inBreaks[inOrder[in]])
		}
	}
	*outIndex = out
	*inIndex = in
}

func (t *Tree) advanceForward() {
	tc := t.TS.Tables
	t.advance(dirForward, tc.Edges.Right, tc.Indexes.EdgeRemovalOrder, &t.rightIndex,
		tc.Edges.Left, tc.Indexes.EdgeInsertionOrder, &t.leftIndex)
}

func (t *Tree) advanceReverse() {
	tc := t.TS.Tables
	t.advance(dirReverse, tc.Edges.Left, tc.Indexes.EdgeInsertionOrder, &t.leftIndex,
		tc.Edges.Right, tc.Indexes.EdgeRemovalOrder, &t.rightIndex)
}

// TreeFirst moves t to the leftmost tree. Returns 1 when t holds a tree.
func TreeFirst(t *Tree) int32 {
	treeClear(t)
	if t.TS.NumTrees == 0 {
		return 0
	}
	t.leftIndex, t.rightIndex = 0, 0
	t.direction = dirForward
	t.advanceForward()
	return 1
}

// TreeLast moves t to the rightmost tree. Returns 1 when t holds a tree.
func TreeLast(t *Tree) int32 {
	treeClear(t)
	if t.TS.NumTrees == 0 {
		return 0
	}
	length := t.TS.Tables.SequenceLength
	m := t.TS.Tables.Edges.NumRows()
	t.Left, t.Right = length, length
	t.Index = int32(t.TS.NumTrees)
	t.leftIndex, t.rightIndex = m-1, m-1
	t.direction = dirReverse
	t.advanceReverse()
	return 1
}

// TreeNext moves t one tree to the right. Returns 1 when t holds a tree and
// 0 when it has moved past the last tree into the null state.
func TreeNext(t *Tree) int32 {
	switch {
	case t.Index == Null:
		return TreeFirst(t)
	case int(t.Index) < t.TS.NumTrees-1:
		t.advanceForward()
		return 1
	default:
		treeClear(t)
		return 0
	}
}

// TreePrev moves t one tree to the left, mirroring TreeNext.
func TreePrev(t *Tree) int32 {
	switch {
	case t.Index == Null:
		return TreeLast(t)
	case t.Index > 0:
		t.advanceReverse()
		return 1
	default:
		treeClear(t)
		return 0
	}
}

// TreeSeek moves t to the tree covering position.
func TreeSeek(t *Tree, position float64) int32 {
	target := TreeseqTreeIndexAt(t.TS, position)
	if target < 0 {
		return target
	}
	return TreeSeekIndex(t, target)
}

// TreeSeekIndex moves t to the tree with the given index.
func TreeSeekIndex(t *Tree, index int32) int32 {
	if index < 0 || int(index) >= t.TS.NumTrees {
		return ErrTreeIndexOutOfBounds
	}
	if t.Index == Null {
		if int(index) < t.TS.NumTrees/2 {
			TreeFirst(t)
		} else {
			TreeLast(t)
		}
	}
	for t.Index < index {
		t.advanceForward()
	}
	for t.Index > index {
		t.advanceReverse()
	}
	return 0
}

// TreeSetTrackedSamples marks samples whose counts are kept in
// NumTrackedSamples. Tracking persists across moves.
func TreeSetTrackedSamples(t *Tree, samples []int32) int32 {
	if !t.counting() {
		return ErrNoSampleCounts
	}
	tracked := roaring.New()
	for _, u := range samples {
		if u < 0 || int(u) >= t.NumNodes {
			return ErrNodeOutOfBounds
		}
		if t.TS.SampleIndexMap[u] == Null {
			return ErrBadSamples
		}
		if tracked.Contains(uint32(u)) {
			return ErrDuplicateSample
		}
		tracked.Add(uint32(u))
	}
	t.tracked = tracked
	fill(t.NumTrackedSamples, 0)
	it := tracked.Iterator()
	for it.HasNext() {
		for u := int32(it.Next()); u != Null; u = t.Parent[u] {
			t.NumTrackedSamples[u]++
		}
	}
	t.NumTrackedSamples[t.VirtualRoot] = int32(tracked.GetCardinality())
	return 0
}

// TreeTrackedSamples returns the tracked sample set, or nil.
func TreeTrackedSamples(t *Tree) *roaring.Bitmap { return t.tracked }

// TreeSampleBitmap returns the samples below u as a bitmap of node ids.
func TreeSampleBitmap(t *Tree, u int32) *roaring.Bitmap {
	out := roaring.New()
	if t.Options&TreeSampleLists != 0 {
		if i := t.LeftSample[u]; i != Null {
			stop := t.RightSample[u]
			for {
				out.Add(uint32(t.TS.Samples[i]))
				if i == stop {
					break
				}
				i = t.NextSample[i]
			}
		}
		return out
	}
	stack := []int32{u}
	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if v != t.VirtualRoot && t.TS.SampleIndexMap[v] != Null {
			out.Add(uint32(v))
		}
		for c := t.LeftChild[v]; c != Null; c = t.RightSib[c] {
			stack = append(stack, c)
		}
	}
	return out
}

// TreePreorder appends the nodes below root in preorder to buf. A Null root
// means every root of the tree; the virtual root itself is not emitted.
func TreePreorder(t *Tree, root int32, buf []int32) []int32 {
	stack := t.startStack(root)
	for len(stack) > 0 {
		u := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		buf = append(buf, u)
		for c := t.RightChild[u]; c != Null; c = t.LeftSib[c] {
			stack = append(stack, c)
		}
	}
	return buf
}

// TreePostorder appends the nodes below root in postorder to buf.
func TreePostorder(t *Tree, root int32, buf []int32) []int32 {
	stack := t.startStack(root)
	for i, j := 0, len(stack)-1; i < j; i, j = i+1, j-1 {
		stack[i], stack[j] = stack[j], stack[i]
	}
	start := len(buf)
	for len(stack) > 0 {
		u := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		buf = append(buf, u)
		for c := t.LeftChild[u]; c != Null; c = t.RightSib[c] {
			stack = append(stack, c)
		}
	}
	out := buf[start:]
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return buf
}

func (t *Tree) startStack(root int32) []int32 {
	if root != Null && root != t.VirtualRoot {
		return []int32{root}
	}
	var stack []int32
	for r := t.RightChild[t.VirtualRoot]; r != Null; r = t.LeftSib[r] {
		stack = append(stack, r)
	}
	return stack
}

// TreeTotalBranchLength sums the branch lengths below node, or over the whole
// tree when node is Null.
func TreeTotalBranchLength(t *Tree, node int32, result *float64) int32 {
	if node != Null && (node < 0 || int(node) > t.NumNodes) {
		return ErrNodeOutOfBounds
	}
	time := t.TS.Tables.Nodes.Time
	sum := 0.0
	for _, u := range TreePreorder(t, node, nil) {
		if p := t.Parent[u]; p != Null && u != node {
			sum += time[p] - time[u]
		}
	}
	*result = sum
	return 0
}

// TreeSites returns the half-open range of site ids inside the tree interval.
func TreeSites(t *Tree) (start, stop int) {
	pos := t.TS.Tables.Sites.Position
	start = sort.SearchFloat64s(pos, t.Left)
	stop = sort.SearchFloat64s(pos, t.Right)
	return start, stop
}

// TreeNumRoots counts the roots of the current tree.
func TreeNumRoots(t *Tree) int {
	n := 0
	for r := t.LeftChild[t.VirtualRoot]; r != Null; r = t.RightSib[r] {
		n++
	}
	return n
}
