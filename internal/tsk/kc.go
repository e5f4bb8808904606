package tsk

import (
	"math"
	"slices"
)

type kcVectors struct {
	n int
	m []float64
	M []float64
}

func newKCVectors(n int) *kcVectors {
	size := n*(n-1)/2 + n
	return &kcVectors{n: n, m: make([]float64, size), M: make([]float64, size)}
}

func (v *kcVectors) reset() {
	clear(v.m)
	clear(v.M)
}

func (v *kcVectors) pairIndex(i, j int) int {
	if i > j {
		i, j = j, i
	}
	n := v.n
	return n*(n-1)/2 - (n-i)*(n-i-1)/2 + j - i - 1
}

func checkKCTree(t *Tree) int32 {
	if t.Options&TreeSampleLists == 0 {
		return ErrNoSampleLists
	}
	if TreeNumRoots(t) != 1 {
		return ErrMultipleRoots
	}
	for u := 0; u < t.NumNodes; u++ {
		if t.NumChildren[u] == 1 {
			return ErrUnaryNodes
		}
	}
	return 0
}

func checkKCInputs(a, b *TreeSequence) int32 {
	if len(a.Samples) != len(b.Samples) {
		return ErrSampleSizeMismatch
	}
	if !slices.Equal(a.Samples, b.Samples) {
		return ErrSamplesNotEqual
	}
	return 0
}

func (t *Tree) forEachSample(u int32, fn func(sampleIndex int32)) {
	i := t.LeftSample[u]
	if i == Null {
		return
	}
	stop := t.RightSample[u]
	for {
		fn(i)
		if i == stop {
			return
		}
		i = t.NextSample[i]
	}
}

func fillKCVectors(t *Tree, v *kcVectors) {
	time := t.TS.Tables.Nodes.Time
	root := t.LeftChild[t.VirtualRoot]
	depth := make([]int, t.NumNodes)
	stack := []int32{root}
	n := v.n
	for len(stack) > 0 {
		u := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if j := t.TS.SampleIndexMap[u]; j != Null {
			idx := n*(n-1)/2 + int(j)
			v.m[idx] = 1
			if p := t.Parent[u]; p != Null {
				v.M[idx] = time[p] - time[u]
			}
		}
		if t.LeftSample[u] == Null {
			continue
		}
		for c1 := t.LeftChild[u]; c1 != Null; c1 = t.RightSib[c1] {
			depth[c1] = depth[u] + 1
			stack = append(stack, c1)
			for c2 := t.RightSib[c1]; c2 != Null; c2 = t.RightSib[c2] {
				d := float64(depth[u])
				mrcaTime := time[root] - time[u]
				t.forEachSample(c1, func(s1 int32) {
					t.forEachSample(c2, func(s2 int32) {
						k := v.pairIndex(int(s1), int(s2))
						v.m[k] = d
						v.M[k] = mrcaTime
					})
				})
			}
		}
	}
}

func kcNorm(a, b *kcVectors, lambda float64) float64 {
	sum := 0.0
	for i := range a.m {
		va := (1-lambda)*a.m[i] + lambda*a.M[i]
		vb := (1-lambda)*b.m[i] + lambda*b.M[i]
		d := va - vb
		sum += d * d
	}
	return math.Sqrt(sum)
}

// TreeKCDistance computes the Kendall-Colijn distance between two trees.
// Both trees need sample lists, a single root and no unary nodes.
func TreeKCDistance(a, b *Tree, lambda float64, result *float64) int32 {
	if rv := checkKCInputs(a.TS, b.TS); rv != 0 {
		return rv
	}
	if rv := checkKCTree(a); rv != 0 {
		return rv
	}
	if rv := checkKCTree(b); rv != 0 {
		return rv
	}
	n := len(a.TS.Samples)
	va, vb := newKCVectors(n), newKCVectors(n)
	fillKCVectors(a, va)
	fillKCVectors(b, vb)
	*result = kcNorm(va, vb, lambda)
	return 0
}

// TreeseqKCDistance averages the per-tree KC distance over the sequence,
// weighting each pair of overlapping trees by the span they share.
func TreeseqKCDistance(a, b *TreeSequence, lambda float64, result *float64) int32 {
	if a.Tables.SequenceLength != b.Tables.SequenceLength {
		return ErrSequenceLengthMismatch
	}
	if rv := checkKCInputs(a, b); rv != 0 {
		return rv
	}
	var ta, tb Tree
	if rv := TreeInit(&ta, a, TreeSampleLists); rv != 0 {
		return rv
	}
	defer TreeFree(&ta)
	if rv := TreeInit(&tb, b, TreeSampleLists); rv != 0 {
		return rv
	}
	defer TreeFree(&tb)

	n := len(a.Samples)
	va, vb := newKCVectors(n), newKCVectors(n)
	length := a.Tables.SequenceLength
	total := 0.0
	left := 0.0
	TreeFirst(&ta)
	TreeFirst(&tb)
	dirtyA, dirtyB := true, true
	for left < length {
		if dirtyA {
			if rv := checkKCTree(&ta); rv != 0 {
				return rv
			}
			va.reset()
			fillKCVectors(&ta, va)
		}
		if dirtyB {
			if rv := checkKCTree(&tb); rv != 0 {
				return rv
			}
			vb.reset()
			fillKCVectors(&tb, vb)
		}
		right := math.Min(ta.Right, tb.Right)
		total += (right - left) * kcNorm(va, vb, lambda)
		dirtyA, dirtyB = false, false
		if ta.Right == right && right < length {
			TreeNext(&ta)
			dirtyA = true
		}
		if tb.Right == right && right < length {
			TreeNext(&tb)
			dirtyB = true
		}
		left = right
	}
	*result = total / length
	return 0
}
