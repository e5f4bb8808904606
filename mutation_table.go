package tskit

import (
	"iter"
	"slices"

	"github.com/hupe1980/tskit/internal/tsk"
)

// MutationRow is an owned copy of a mutation row.
type MutationRow struct {
	ID           MutationID
	Site         SiteID
	Node         NodeID
	Parent       MutationID
	Time         Time
	DerivedState []byte
	Metadata     []byte
}

// MutationRowView is a mutation row whose byte fields borrow from the table.
type MutationRowView struct {
	ID           MutationID
	Site         SiteID
	Node         NodeID
	Parent       MutationID
	Time         Time
	DerivedState []byte
	Metadata     []byte
}

// MutationTable is a read-only view of a mutation table.
type MutationTable struct {
	src tableSource
}

func (t MutationTable) raw() *tsk.MutationTable { return &t.src.tables().Mutations }

// NumRows returns the number of rows.
func (t MutationTable) NumRows() int { return t.raw().NumRows() }

// Site returns the site of row.
func (t MutationTable) Site(row MutationID) (SiteID, bool) {
	m := t.raw()
	i, ok := rowIndex(row, m.NumRows())
	if !ok {
		return Null, false
	}
	return SiteID(m.Site[i]), true
}

// Node returns the node of row.
func (t MutationTable) Node(row MutationID) (NodeID, bool) {
	m := t.raw()
	i, ok := rowIndex(row, m.NumRows())
	if !ok {
		return Null, false
	}
	return NodeID(m.Node[i]), true
}

// Parent returns the parent mutation of row.
func (t MutationTable) Parent(row MutationID) (MutationID, bool) {
	m := t.raw()
	i, ok := rowIndex(row, m.NumRows())
	if !ok {
		return Null, false
	}
	return MutationID(m.Parent[i]), true
}

// Time returns the time of row, which may be UnknownTime.
func (t MutationTable) Time(row MutationID) (Time, bool) {
	m := t.raw()
	i, ok := rowIndex(row, m.NumRows())
	if !ok {
		return 0, false
	}
	return Time(m.Time[i]), true
}

// DerivedState returns the derived state of row, borrowed from the table.
func (t MutationTable) DerivedState(row MutationID) ([]byte, bool) {
	m := t.raw()
	i, ok := rowIndex(row, m.NumRows())
	if !ok {
		return nil, false
	}
	return tsk.Ragged(m.DerivedState, m.DerivedStateOffset, i), true
}

// RawMetadata returns the metadata bytes of row, borrowed from the table.
func (t MutationTable) RawMetadata(row MutationID) ([]byte, bool) {
	m := t.raw()
	i, ok := rowIndex(row, m.NumRows())
	if !ok {
		return nil, false
	}
	return tsk.Ragged(m.Metadata, m.MetadataOffset, i), true
}

func (t MutationTable) SiteSlice() []SiteID       { return IDsFromRaw[SiteID](t.raw().Site) }
func (t MutationTable) NodeSlice() []NodeID       { return IDsFromRaw[NodeID](t.raw().Node) }
func (t MutationTable) ParentSlice() []MutationID { return IDsFromRaw[MutationID](t.raw().Parent) }
func (t MutationTable) TimeSlice() []Time         { return typedFloats[Time](t.raw().Time) }

func fillMutationView(tc *tsk.TableCollection, i int, v *MutationRowView) {
	m := &tc.Mutations
	*v = MutationRowView{
		ID:           MutationID(i),
		Site:         SiteID(m.Site[i]),
		Node:         NodeID(m.Node[i]),
		Parent:       MutationID(m.Parent[i]),
		Time:         Time(m.Time[i]),
		DerivedState: tsk.Ragged(m.DerivedState, m.DerivedStateOffset, i),
		Metadata:     tsk.Ragged(m.Metadata, m.MetadataOffset, i),
	}
}

// RowView returns a borrowed view of row.
func (t MutationTable) RowView(row MutationID) (MutationRowView, bool) {
	tc := t.src.tables()
	i, ok := rowIndex(row, tc.Mutations.NumRows())
	if !ok {
		return MutationRowView{}, false
	}
	var v MutationRowView
	fillMutationView(tc, i, &v)
	return v, true
}

// Row returns an owned copy of row.
func (t MutationTable) Row(row MutationID) (MutationRow, bool) {
	v, ok := t.RowView(row)
	if !ok {
		return MutationRow{}, false
	}
	r := MutationRow(v)
	r.DerivedState = slices.Clone(v.DerivedState)
	r.Metadata = slices.Clone(v.Metadata)
	return r, true
}

// Iter yields an owned copy of every row.
func (t MutationTable) Iter() iter.Seq[MutationRow] {
	return func(yield func(MutationRow) bool) {
		for i := range t.NumRows() {
			r, _ := t.Row(MutationID(i))
			if !yield(r) {
				return
			}
		}
	}
}

// Lending returns a lending iterator over the rows.
func (t MutationTable) Lending() *Lending[MutationRowView] {
	return newLending(t.src, t.NumRows(), fillMutationView)
}
