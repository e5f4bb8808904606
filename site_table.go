package tskit

import (
	"iter"
	"slices"

	"github.com/hupe1980/tskit/internal/tsk"
)

// SiteRow is an owned copy of a site row.
type SiteRow struct {
	ID             SiteID
	Position       Position
	AncestralState []byte
	Metadata       []byte
}

// SiteRowView is a site row whose byte fields borrow from the table.
type SiteRowView struct {
	ID             SiteID
	Position       Position
	AncestralState []byte
	Metadata       []byte
}

// SiteTable is a read-only view of a site table.
type SiteTable struct {
	src tableSource
}

func (t SiteTable) raw() *tsk.SiteTable { return &t.src.tables().Sites }

// NumRows returns the number of rows.
func (t SiteTable) NumRows() int { return t.raw().NumRows() }

// Position returns the position of row.
func (t SiteTable) Position(row SiteID) (Position, bool) {
	s := t.raw()
	i, ok := rowIndex(row, s.NumRows())
	if !ok {
		return 0, false
	}
	return Position(s.Position[i]), true
}

// AncestralState returns the ancestral state of row, borrowed from the
// table.
func (t SiteTable) AncestralState(row SiteID) ([]byte, bool) {
	s := t.raw()
	i, ok := rowIndex(row, s.NumRows())
	if !ok {
		return nil, false
	}
	return tsk.Ragged(s.AncestralState, s.AncestralStateOffset, i), true
}

// RawMetadata returns the metadata bytes of row, borrowed from the table.
func (t SiteTable) RawMetadata(row SiteID) ([]byte, bool) {
	s := t.raw()
	i, ok := rowIndex(row, s.NumRows())
	if !ok {
		return nil, false
	}
	return tsk.Ragged(s.Metadata, s.MetadataOffset, i), true
}

// PositionSlice views the position column.
func (t SiteTable) PositionSlice() []Position { return typedFloats[Position](t.raw().Position) }

func fillSiteView(tc *tsk.TableCollection, i int, v *SiteRowView) {
	s := &tc.Sites
	*v = SiteRowView{
		ID:             SiteID(i),
		Position:       Position(s.Position[i]),
		AncestralState: tsk.Ragged(s.AncestralState, s.AncestralStateOffset, i),
		Metadata:       tsk.Ragged(s.Metadata, s.MetadataOffset, i),
	}
}

// RowView returns a borrowed view of row.
func (t SiteTable) RowView(row SiteID) (SiteRowView, bool) {
	tc := t.src.tables()
	i, ok := rowIndex(row, tc.Sites.NumRows())
	if !ok {
		return SiteRowView{}, false
	}
	var v SiteRowView
	fillSiteView(tc, i, &v)
	return v, true
}

// Row returns an owned copy of row.
func (t SiteTable) Row(row SiteID) (SiteRow, bool) {
	v, ok := t.RowView(row)
	if !ok {
		return SiteRow{}, false
	}
	return SiteRow{
		ID:             v.ID,
		Position:       v.Position,
		AncestralState: slices.Clone(v.AncestralState),
		Metadata:       slices.Clone(v.Metadata),
	}, true
}

// Iter yields an owned copy of every row.
func (t SiteTable) Iter() iter.Seq[SiteRow] {
	return func(yield func(SiteRow) bool) {
		for i := range t.NumRows() {
			r, _ := t.Row(SiteID(i))
			if !yield(r) {
				return
			}
		}
	}
}

// Lending returns a lending iterator over the rows.
func (t SiteTable) Lending() *Lending[SiteRowView] {
	return newLending(t.src, t.NumRows(), fillSiteView)
}
