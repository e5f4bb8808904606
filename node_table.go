package tskit

import (
	"iter"
	"slices"

	"github.com/hupe1980/tskit/internal/conv"
	"github.com/hupe1980/tskit/internal/tsk"
)

// NodeRow is an owned copy of a node row.
type NodeRow struct {
	ID         NodeID
	Flags      NodeFlags
	Time       Time
	Population PopulationID
	Individual IndividualID
	Metadata   []byte
}

// NodeRowView is a node row whose Metadata borrows from the table.
type NodeRowView struct {
	ID         NodeID
	Flags      NodeFlags
	Time       Time
	Population PopulationID
	Individual IndividualID
	Metadata   []byte
}

// NodeTable is a read-only view of a node table. It is valid while its
// owner is open.
type NodeTable struct {
	src tableSource
}

func (t NodeTable) raw() *tsk.NodeTable { return &t.src.tables().Nodes }

// NumRows returns the number of rows.
func (t NodeTable) NumRows() int { return t.raw().NumRows() }

// Flags returns the flags of row.
func (t NodeTable) Flags(row NodeID) (NodeFlags, bool) {
	n := t.raw()
	i, ok := rowIndex(row, n.NumRows())
	if !ok {
		return 0, false
	}
	return NodeFlags(n.Flags[i]), true
}

// Time returns the time of row.
func (t NodeTable) Time(row NodeID) (Time, bool) {
	n := t.raw()
	i, ok := rowIndex(row, n.NumRows())
	if !ok {
		return 0, false
	}
	return Time(n.Time[i]), true
}

// Population returns the population of row.
func (t NodeTable) Population(row NodeID) (PopulationID, bool) {
	n := t.raw()
	i, ok := rowIndex(row, n.NumRows())
	if !ok {
		return Null, false
	}
	return PopulationID(n.Population[i]), true
}

// Individual returns the individual of row.
func (t NodeTable) Individual(row NodeID) (IndividualID, bool) {
	n := t.raw()
	i, ok := rowIndex(row, n.NumRows())
	if !ok {
		return Null, false
	}
	return IndividualID(n.Individual[i]), true
}

// RawMetadata returns the metadata bytes of row, borrowed from the table.
func (t NodeTable) RawMetadata(row NodeID) ([]byte, bool) {
	n := t.raw()
	i, ok := rowIndex(row, n.NumRows())
	if !ok {
		return nil, false
	}
	return tsk.Ragged(n.Metadata, n.MetadataOffset, i), true
}

// FlagsSlice views the flags column.
func (t NodeTable) FlagsSlice() []NodeFlags { return conv.Reinterpret[NodeFlags](t.raw().Flags) }

// TimeSlice views the time column.
func (t NodeTable) TimeSlice() []Time { return typedFloats[Time](t.raw().Time) }

// PopulationSlice views the population column.
func (t NodeTable) PopulationSlice() []PopulationID {
	return IDsFromRaw[PopulationID](t.raw().Population)
}

// IndividualSlice views the individual column.
func (t NodeTable) IndividualSlice() []IndividualID {
	return IDsFromRaw[IndividualID](t.raw().Individual)
}

func fillNodeView(tc *tsk.TableCollection, i int, v *NodeRowView) {
	n := &tc.Nodes
	*v = NodeRowView{
		ID:         NodeID(i),
		Flags:      NodeFlags(n.Flags[i]),
		Time:       Time(n.Time[i]),
		Population: PopulationID(n.Population[i]),
		Individual: IndividualID(n.Individual[i]),
		Metadata:   tsk.Ragged(n.Metadata, n.MetadataOffset, i),
	}
}

// RowView returns a borrowed view of row.
func (t NodeTable) RowView(row NodeID) (NodeRowView, bool) {
	tc := t.src.tables()
	i, ok := rowIndex(row, tc.Nodes.NumRows())
	if !ok {
		return NodeRowView{}, false
	}
	var v NodeRowView
	fillNodeView(tc, i, &v)
	return v, true
}

// Row returns an owned copy of row.
func (t NodeTable) Row(row NodeID) (NodeRow, bool) {
	v, ok := t.RowView(row)
	if !ok {
		return NodeRow{}, false
	}
	r := NodeRow(v)
	r.Metadata = slices.Clone(v.Metadata)
	return r, true
}

// Iter yields an owned copy of every row.
func (t NodeTable) Iter() iter.Seq[NodeRow] {
	return func(yield func(NodeRow) bool) {
		for i := range t.NumRows() {
			r, _ := t.Row(NodeID(i))
			if !yield(r) {
				return
			}
		}
	}
}

// Lending returns a lending iterator over the rows.
func (t NodeTable) Lending() *Lending[NodeRowView] {
	return newLending(t.src, t.NumRows(), fillNodeView)
}
