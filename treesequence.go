package tskit

import (
	"context"
	"iter"
	"time"

	"github.com/hupe1980/tskit/internal/handle"
	"github.com/hupe1980/tskit/internal/tsk"
)

// TreeSequence is an immutable, indexed set of tables from which trees are
// built. It is not safe for concurrent use.
type TreeSequence struct {
	tableReader
	h    *handle.Handle[tsk.TreeSequence]
	opts options
}

// NewTreeSequence consumes tables and builds a tree sequence from them. It
// is the same as tables.TreeSequence(flags).
func NewTreeSequence(tables *TableCollection, flags TreeSequenceFlags) (*TreeSequence, error) {
	return tables.TreeSequence(flags)
}

// newTreeSequence takes ownership of raw when flags include TSTakeOwnership.
func newTreeSequence(o options, raw *tsk.TableCollection, flags uint32) (*TreeSequence, error) {
	return openTreeSequence(o, "init tree sequence", func(ts *tsk.TreeSequence) int32 {
		return tsk.TreeseqInit(ts, raw, flags)
	})
}

func openTreeSequence(o options, op string, init func(*tsk.TreeSequence) int32) (*TreeSequence, error) {
	h, code := handle.New(init, tsk.TreeseqFree,
		handle.WithFree(func(ts *tsk.TreeSequence) { tsk.TreeseqFree(ts) }),
		handle.WithOnClose[tsk.TreeSequence](o.onClose(kindTreeSequence)),
	)
	err := checkCode(op, code)
	o.logger.LogHandleOpen(context.Background(), kindTreeSequence, err)
	if err != nil {
		return nil, err
	}
	o.metricsCollector.RecordHandleOpen(kindTreeSequence)
	ts := &TreeSequence{h: h, opts: o}
	ts.tableReader = tableReader{src: ts}
	return ts, nil
}

func (ts *TreeSequence) tables() *tsk.TableCollection { return ts.h.Ref().Tables }
func (ts *TreeSequence) generation() uint64           { return ts.h.Generation() }

func (ts *TreeSequence) ref() (*tsk.TreeSequence, error) {
	if !ts.h.Valid() {
		return nil, ErrHandleReleased
	}
	return ts.h.Ref(), nil
}

// Close releases the tree sequence and its tables. Trees created from it
// must not be used afterwards.
func (ts *TreeSequence) Close() error {
	return checkCode("close tree sequence", ts.h.Close())
}

// Tables returns read access to the underlying tables.
func (ts *TreeSequence) Tables() TableReader { return ts.tableReader }

func (ts *TreeSequence) NumTrees() int   { return ts.h.Ref().NumTrees }
func (ts *TreeSequence) NumSamples() int { return len(ts.h.Ref().Samples) }

// SampleNodes returns the ids of the sample nodes, borrowed.
func (ts *TreeSequence) SampleNodes() []NodeID { return IDsFromRaw[NodeID](ts.h.Ref().Samples) }

// Breakpoints returns the tree boundaries, from 0 to the sequence length.
func (ts *TreeSequence) Breakpoints() []Position {
	return typedFloats[Position](ts.h.Ref().Breakpoints)
}

// DumpTables returns an independent, mutable copy of the tables.
func (ts *TreeSequence) DumpTables() (*TableCollection, error) {
	raw, err := ts.ref()
	if err != nil {
		return nil, err
	}
	return newTableCollection(ts.opts, func(dst *tsk.TableCollection) int32 {
		return tsk.TreeseqCopyTables(raw, dst, 0)
	})
}

// AddProvenance appends a provenance row stamped with the current time. It
// is the only change a tree sequence accepts; live lending iterators over
// its tables are invalidated.
func (ts *TreeSequence) AddProvenance(record string) (ProvenanceID, error) {
	if !ts.h.Valid() {
		return Null, ErrHandleReleased
	}
	p := &ts.h.Mut().Tables.Provenances
	return rowID[ProvenanceID]("add provenance", p.AddRow([]byte(provenanceTimestamp()), []byte(record)))
}

// TreeIterator returns a tree positioned before the first tree. Call
// Advance or AdvanceBack to move onto a tree.
func (ts *TreeSequence) TreeIterator(flags TreeFlags) (*Tree, error) {
	return newTree(ts, flags)
}

// TreeIteratorAtPosition returns a tree positioned on the tree covering
// position.
func (ts *TreeSequence) TreeIteratorAtPosition(flags TreeFlags, position Position) (*Tree, error) {
	t, err := newTree(ts, flags)
	if err != nil {
		return nil, err
	}
	if err := t.Seek(position); err != nil {
		_ = t.Close()
		return nil, err
	}
	return t, nil
}

// TreeIteratorAtIndex returns a tree positioned on the tree with the given
// index.
func (ts *TreeSequence) TreeIteratorAtIndex(flags TreeFlags, index int) (*Tree, error) {
	t, err := newTree(ts, flags)
	if err != nil {
		return nil, err
	}
	if err := t.SeekIndex(index); err != nil {
		_ = t.Close()
		return nil, err
	}
	return t, nil
}

// KCDistance is the Kendall-Colijn distance between two tree sequences over
// the same samples, averaged over the genome. lambda weighs branch lengths
// against topology.
func (ts *TreeSequence) KCDistance(other *TreeSequence, lambda float64) (float64, error) {
	a, err := ts.ref()
	if err != nil {
		return 0, err
	}
	b, err := other.ref()
	if err != nil {
		return 0, err
	}
	var d float64
	if err := checkCode("kc distance", tsk.TreeseqKCDistance(a, b, lambda, &d)); err != nil {
		return 0, err
	}
	return d, nil
}

// Simplify returns a new tree sequence reduced to the history of samples,
// leaving ts unchanged. With idmap the returned slice maps input nodes to
// output nodes.
func (ts *TreeSequence) Simplify(samples []NodeID, opts SimplifyOptions, idmap bool) (*TreeSequence, []NodeID, error) {
	raw, err := ts.ref()
	if err != nil {
		return nil, nil, err
	}
	before := raw.Tables.Nodes.NumRows()
	var nodeMap []int32
	if idmap {
		nodeMap = make([]int32, before)
	}
	start := time.Now()
	out, err := openTreeSequence(ts.opts, "simplify", func(dst *tsk.TreeSequence) int32 {
		return tsk.TreeseqSimplify(raw, RawIDs(samples), uint32(opts), dst, nodeMap)
	})
	after := 0
	if out != nil {
		after = out.Nodes().NumRows()
	}
	ts.opts.metricsCollector.RecordSimplify(before, after, time.Since(start), err)
	ts.opts.logger.LogSimplify(context.Background(), len(samples), before, after, err)
	if err != nil {
		return nil, nil, err
	}
	return out, IDsFromRaw[NodeID](nodeMap), nil
}

// KeepIntervals returns a new tree sequence restricted to intervals. It
// reports false, with a nil tree sequence, when intervals is empty.
func (ts *TreeSequence) KeepIntervals(intervals []Interval, simplify bool) (*TreeSequence, bool, error) {
	raw, err := ts.ref()
	if err != nil {
		return nil, false, err
	}
	if len(intervals) == 0 {
		return nil, false, nil
	}
	var opts uint32
	if simplify {
		opts = tsk.KeepIntervalsSimplify
	}
	out, err := openTreeSequence(ts.opts, "keep intervals", func(dst *tsk.TreeSequence) int32 {
		return tsk.TreeseqKeepIntervals(raw, rawIntervals(intervals), opts, dst)
	})
	if err != nil {
		return nil, false, err
	}
	return out, true, nil
}

// EdgeDifference is an edge entering or leaving the tree as an
// EdgeDifferences iterator moves along the genome.
type EdgeDifference struct {
	ID     EdgeID
	Left   Position
	Right  Position
	Parent NodeID
	Child  NodeID
}

// EdgeDifferences steps along the trees of a tree sequence, reporting the
// edges removed and inserted on entering each tree. The slices it hands out
// are reused by the next Advance.
type EdgeDifferences struct {
	ts       *TreeSequence
	gen      uint64
	it       tsk.DiffIterator
	interval Interval
	removed  []int32
	inserted []int32
}

// EdgeDifferences returns an iterator positioned before the first tree.
func (ts *TreeSequence) EdgeDifferences() (*EdgeDifferences, error) {
	raw, err := ts.ref()
	if err != nil {
		return nil, err
	}
	d := &EdgeDifferences{ts: ts, gen: ts.h.Generation()}
	if err := checkCode("edge differences", tsk.DiffIterInit(&d.it, raw, 0)); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *EdgeDifferences) check() {
	if d.ts.generation() != d.gen {
		panic(mutatedMessage)
	}
}

// Advance moves onto the next tree and reports whether there was one.
func (d *EdgeDifferences) Advance() bool {
	d.check()
	var left, right float64
	if tsk.DiffIterNext(&d.it, &left, &right, &d.removed, &d.inserted) == 0 {
		return false
	}
	d.interval = Interval{Left: Position(left), Right: Position(right)}
	return true
}

// Interval is the genomic interval of the current tree.
func (d *EdgeDifferences) Interval() Interval { return d.interval }

func (d *EdgeDifferences) edges(ids []int32) iter.Seq[EdgeDifference] {
	return func(yield func(EdgeDifference) bool) {
		d.check()
		e := &d.ts.tables().Edges
		for _, id := range ids {
			ed := EdgeDifference{
				ID:     EdgeID(id),
				Left:   Position(e.Left[id]),
				Right:  Position(e.Right[id]),
				Parent: NodeID(e.Parent[id]),
				Child:  NodeID(e.Child[id]),
			}
			if !yield(ed) {
				return
			}
		}
	}
}

// Removals yields the edges that left the tree on the last Advance.
func (d *EdgeDifferences) Removals() iter.Seq[EdgeDifference] { return d.edges(d.removed) }

// Insertions yields the edges that entered the tree on the last Advance.
func (d *EdgeDifferences) Insertions() iter.Seq[EdgeDifference] { return d.edges(d.inserted) }

// Close releases the iterator.
func (d *EdgeDifferences) Close() error {
	return checkCode("close edge differences", tsk.DiffIterFree(&d.it))
}
