package tskit

import (
	"iter"
	"slices"

	"github.com/hupe1980/tskit/internal/tsk"
)

// MigrationRow is an owned copy of a migration row.
type MigrationRow struct {
	ID       MigrationID
	Left     Position
	Right    Position
	Node     NodeID
	Source   PopulationID
	Dest     PopulationID
	Time     Time
	Metadata []byte
}

// MigrationRowView is a migration row whose Metadata borrows from the table.
type MigrationRowView struct {
	ID       MigrationID
	Left     Position
	Right    Position
	Node     NodeID
	Source   PopulationID
	Dest     PopulationID
	Time     Time
	Metadata []byte
}

// MigrationTable is a read-only view of a migration table.
type MigrationTable struct {
	src tableSource
}

func (t MigrationTable) raw() *tsk.MigrationTable { return &t.src.tables().Migrations }

// NumRows returns the number of rows.
func (t MigrationTable) NumRows() int { return t.raw().NumRows() }

// Interval returns the genomic interval of row.
func (t MigrationTable) Interval(row MigrationID) (left, right Position, ok bool) {
	m := t.raw()
	i, ok := rowIndex(row, m.NumRows())
	if !ok {
		return 0, 0, false
	}
	return Position(m.Left[i]), Position(m.Right[i]), true
}

// Node returns the migrating node of row.
func (t MigrationTable) Node(row MigrationID) (NodeID, bool) {
	m := t.raw()
	i, ok := rowIndex(row, m.NumRows())
	if !ok {
		return Null, false
	}
	return NodeID(m.Node[i]), true
}

// Source returns the source population of row.
func (t MigrationTable) Source(row MigrationID) (PopulationID, bool) {
	m := t.raw()
	i, ok := rowIndex(row, m.NumRows())
	if !ok {
		return Null, false
	}
	return PopulationID(m.Source[i]), true
}

// Dest returns the destination population of row.
func (t MigrationTable) Dest(row MigrationID) (PopulationID, bool) {
	m := t.raw()
	i, ok := rowIndex(row, m.NumRows())
	if !ok {
		return Null, false
	}
	return PopulationID(m.Dest[i]), true
}

// Time returns the time of row.
func (t MigrationTable) Time(row MigrationID) (Time, bool) {
	m := t.raw()
	i, ok := rowIndex(row, m.NumRows())
	if !ok {
		return 0, false
	}
	return Time(m.Time[i]), true
}

// RawMetadata returns the metadata bytes of row, borrowed from the table.
func (t MigrationTable) RawMetadata(row MigrationID) ([]byte, bool) {
	m := t.raw()
	i, ok := rowIndex(row, m.NumRows())
	if !ok {
		return nil, false
	}
	return tsk.Ragged(m.Metadata, m.MetadataOffset, i), true
}

func (t MigrationTable) TimeSlice() []Time { return typedFloats[Time](t.raw().Time) }

func fillMigrationView(tc *tsk.TableCollection, i int, v *MigrationRowView) {
	m := &tc.Migrations
	*v = MigrationRowView{
		ID:       MigrationID(i),
		Left:     Position(m.Left[i]),
		Right:    Position(m.Right[i]),
		Node:     NodeID(m.Node[i]),
		Source:   PopulationID(m.Source[i]),
		Dest:     PopulationID(m.Dest[i]),
		Time:     Time(m.Time[i]),
		Metadata: tsk.Ragged(m.Metadata, m.MetadataOffset, i),
	}
}

// RowView returns a borrowed view of row.
func (t MigrationTable) RowView(row MigrationID) (MigrationRowView, bool) {
	tc := t.src.tables()
	i, ok := rowIndex(row, tc.Migrations.NumRows())
	if !ok {
		return MigrationRowView{}, false
	}
	var v MigrationRowView
	fillMigrationView(tc, i, &v)
	return v, true
}

// Row returns an owned copy of row.
func (t MigrationTable) Row(row MigrationID) (MigrationRow, bool) {
	v, ok := t.RowView(row)
	if !ok {
		return MigrationRow{}, false
	}
	r := MigrationRow(v)
	r.Metadata = slices.Clone(v.Metadata)
	return r, true
}

// Iter yields an owned copy of every row.
func (t MigrationTable) Iter() iter.Seq[MigrationRow] {
	return func(yield func(MigrationRow) bool) {
		for i := range t.NumRows() {
			r, _ := t.Row(MigrationID(i))
			if !yield(r) {
				return
			}
		}
	}
}

// Lending returns a lending iterator over the rows.
func (t MigrationTable) Lending() *Lending[MigrationRowView] {
	return newLending(t.src, t.NumRows(), fillMigrationView)
}
