package tskit

import (
	"iter"
	"slices"

	"github.com/hupe1980/tskit/internal/tsk"
)

// IndividualRow is an owned copy of an individual row.
type IndividualRow struct {
	ID       IndividualID
	Flags    IndividualFlags
	Location []Location
	Parents  []IndividualID
	Metadata []byte
}

// IndividualRowView is an individual row whose ragged fields borrow from
// the table.
type IndividualRowView struct {
	ID       IndividualID
	Flags    IndividualFlags
	Location []Location
	Parents  []IndividualID
	Metadata []byte
}

// IndividualTable is a read-only view of an individual table.
type IndividualTable struct {
	src tableSource
}

func (t IndividualTable) raw() *tsk.IndividualTable { return &t.src.tables().Individuals }

// NumRows returns the number of rows.
func (t IndividualTable) NumRows() int { return t.raw().NumRows() }

// Flags returns the flags of row.
func (t IndividualTable) Flags(row IndividualID) (IndividualFlags, bool) {
	ind := t.raw()
	i, ok := rowIndex(row, ind.NumRows())
	if !ok {
		return 0, false
	}
	return IndividualFlags(ind.Flags[i]), true
}

// Location returns the location of row, borrowed from the table.
func (t IndividualTable) Location(row IndividualID) ([]Location, bool) {
	ind := t.raw()
	i, ok := rowIndex(row, ind.NumRows())
	if !ok {
		return nil, false
	}
	return typedFloats[Location](tsk.Ragged(ind.Location, ind.LocationOffset, i)), true
}

// Parents returns the parents of row, borrowed from the table.
func (t IndividualTable) Parents(row IndividualID) ([]IndividualID, bool) {
	ind := t.raw()
	i, ok := rowIndex(row, ind.NumRows())
	if !ok {
		return nil, false
	}
	return IDsFromRaw[IndividualID](tsk.Ragged(ind.Parents, ind.ParentsOffset, i)), true
}

// RawMetadata returns the metadata bytes of row, borrowed from the table.
func (t IndividualTable) RawMetadata(row IndividualID) ([]byte, bool) {
	ind := t.raw()
	i, ok := rowIndex(row, ind.NumRows())
	if !ok {
		return nil, false
	}
	return tsk.Ragged(ind.Metadata, ind.MetadataOffset, i), true
}

func fillIndividualView(tc *tsk.TableCollection, i int, v *IndividualRowView) {
	ind := &tc.Individuals
	*v = IndividualRowView{
		ID:       IndividualID(i),
		Flags:    IndividualFlags(ind.Flags[i]),
		Location: typedFloats[Location](tsk.Ragged(ind.Location, ind.LocationOffset, i)),
		Parents:  IDsFromRaw[IndividualID](tsk.Ragged(ind.Parents, ind.ParentsOffset, i)),
		Metadata: tsk.Ragged(ind.Metadata, ind.MetadataOffset, i),
	}
}

// RowView returns a borrowed view of row.
func (t IndividualTable) RowView(row IndividualID) (IndividualRowView, bool) {
	tc := t.src.tables()
	i, ok := rowIndex(row, tc.Individuals.NumRows())
	if !ok {
		return IndividualRowView{}, false
	}
	var v IndividualRowView
	fillIndividualView(tc, i, &v)
	return v, true
}

// Row returns an owned copy of row.
func (t IndividualTable) Row(row IndividualID) (IndividualRow, bool) {
	v, ok := t.RowView(row)
	if !ok {
		return IndividualRow{}, false
	}
	return IndividualRow{
		ID:       v.ID,
		Flags:    v.Flags,
		Location: slices.Clone(v.Location),
		Parents:  slices.Clone(v.Parents),
		Metadata: slices.Clone(v.Metadata),
	}, true
}

// Iter yields an owned copy of every row.
func (t IndividualTable) Iter() iter.Seq[IndividualRow] {
	return func(yield func(IndividualRow) bool) {
		for i := range t.NumRows() {
			r, _ := t.Row(IndividualID(i))
			if !yield(r) {
				return
			}
		}
	}
}

// Lending returns a lending iterator over the rows.
func (t IndividualTable) Lending() *Lending[IndividualRowView] {
	return newLending(t.src, t.NumRows(), fillIndividualView)
}
