package tskit

import (
	"iter"

	"github.com/hupe1980/tskit/internal/tsk"
)

// ProvenanceRow is an owned copy of a provenance row.
type ProvenanceRow struct {
	ID        ProvenanceID
	Timestamp string
	Record    string
}

// ProvenanceRowView is a provenance row whose fields borrow from the table.
type ProvenanceRowView struct {
	ID        ProvenanceID
	Timestamp []byte
	Record    []byte
}

// ProvenanceTable is a read-only view of a provenance table.
type ProvenanceTable struct {
	src tableSource
}

func (t ProvenanceTable) raw() *tsk.ProvenanceTable { return &t.src.tables().Provenances }

// NumRows returns the number of rows.
func (t ProvenanceTable) NumRows() int { return t.raw().NumRows() }

// Timestamp returns the timestamp of row.
func (t ProvenanceTable) Timestamp(row ProvenanceID) (string, bool) {
	p := t.raw()
	i, ok := rowIndex(row, p.NumRows())
	if !ok {
		return "", false
	}
	return string(tsk.Ragged(p.Timestamp, p.TimestampOffset, i)), true
}

// Record returns the record of row.
func (t ProvenanceTable) Record(row ProvenanceID) (string, bool) {
	p := t.raw()
	i, ok := rowIndex(row, p.NumRows())
	if !ok {
		return "", false
	}
	return string(tsk.Ragged(p.Record, p.RecordOffset, i)), true
}

func fillProvenanceView(tc *tsk.TableCollection, i int, v *ProvenanceRowView) {
	p := &tc.Provenances
	*v = ProvenanceRowView{
		ID:        ProvenanceID(i),
		Timestamp: tsk.Ragged(p.Timestamp, p.TimestampOffset, i),
		Record:    tsk.Ragged(p.Record, p.RecordOffset, i),
	}
}

// RowView returns a borrowed view of row.
func (t ProvenanceTable) RowView(row ProvenanceID) (ProvenanceRowView, bool) {
	tc := t.src.tables()
	i, ok := rowIndex(row, tc.Provenances.NumRows())
	if !ok {
		return ProvenanceRowView{}, false
	}
	var v ProvenanceRowView
	fillProvenanceView(tc, i, &v)
	return v, true
}

// Row returns an owned copy of row.
func (t ProvenanceTable) Row(row ProvenanceID) (ProvenanceRow, bool) {
	v, ok := t.RowView(row)
	if !ok {
		return ProvenanceRow{}, false
	}
	return ProvenanceRow{ID: v.ID, Timestamp: string(v.Timestamp), Record: string(v.Record)}, true
}

// Iter yields an owned copy of every row.
func (t ProvenanceTable) Iter() iter.Seq[ProvenanceRow] {
	return func(yield func(ProvenanceRow) bool) {
		for i := range t.NumRows() {
			r, _ := t.Row(ProvenanceID(i))
			if !yield(r) {
				return
			}
		}
	}
}

// Lending returns a lending iterator over the rows.
func (t ProvenanceTable) Lending() *Lending[ProvenanceRowView] {
	return newLending(t.src, t.NumRows(), fillProvenanceView)
}
