package tskit

import (
	"iter"
	"slices"

	"github.com/hupe1980/tskit/internal/tsk"
)

// PopulationRow is an owned copy of a population row.
type PopulationRow struct {
	ID       PopulationID
	Metadata []byte
}

// PopulationRowView is a population row whose Metadata borrows from the
// table.
type PopulationRowView struct {
	ID       PopulationID
	Metadata []byte
}

// PopulationTable is a read-only view of a population table. Populations
// carry nothing but metadata.
type PopulationTable struct {
	src tableSource
}

func (t PopulationTable) raw() *tsk.PopulationTable { return &t.src.tables().Populations }

func (t PopulationTable) NumRows() int { return t.raw().NumRows() }

// RawMetadata returns the metadata bytes of row, borrowed from the table.
func (t PopulationTable) RawMetadata(row PopulationID) ([]byte, bool) {
	p := t.raw()
	i, ok := rowIndex(row, p.NumRows())
	if !ok {
		return nil, false
	}
	return tsk.Ragged(p.Metadata, p.MetadataOffset, i), true
}

func fillPopulationView(tc *tsk.TableCollection, i int, v *PopulationRowView) {
	p := &tc.Populations
	*v = PopulationRowView{ID: PopulationID(i), Metadata: tsk.Ragged(p.Metadata, p.MetadataOffset, i)}
}

func (t PopulationTable) RowView(row PopulationID) (PopulationRowView, bool) {
	tc := t.src.tables()
	i, ok := rowIndex(row, tc.Populations.NumRows())
	if !ok {
		return PopulationRowView{}, false
	}
	var v PopulationRowView
	fillPopulationView(tc, i, &v)
	return v, true
}

func (t PopulationTable) Row(row PopulationID) (PopulationRow, bool) {
	v, ok := t.RowView(row)
	if !ok {
		return PopulationRow{}, false
	}
	return PopulationRow{ID: v.ID, Metadata: slices.Clone(v.Metadata)}, true
}

func (t PopulationTable) Iter() iter.Seq[PopulationRow] {
	return func(yield func(PopulationRow) bool) {
		for i := range t.NumRows() {
			r, _ := t.Row(PopulationID(i))
			if !yield(r) {
				return
			}
		}
	}
}

func (t PopulationTable) Lending() *Lending[PopulationRowView] {
	return newLending(t.src, t.NumRows(), fillPopulationView)
}
