package tskit

import (
	"iter"
	"slices"

	"github.com/hupe1980/tskit/internal/tsk"
)

// EdgeRow is an owned copy of an edge row.
type EdgeRow struct {
	ID       EdgeID
	Left     Position
	Right    Position
	Parent   NodeID
	Child    NodeID
	Metadata []byte
}

// EdgeRowView is an edge row whose Metadata borrows from the table.
type EdgeRowView struct {
	ID       EdgeID
	Left     Position
	Right    Position
	Parent   NodeID
	Child    NodeID
	Metadata []byte
}

// EdgeTable is a read-only view of an edge table.
type EdgeTable struct {
	src tableSource
}

func (t EdgeTable) raw() *tsk.EdgeTable { return &t.src.tables().Edges }

// NumRows returns the number of rows.
func (t EdgeTable) NumRows() int { return t.raw().NumRows() }

// Left returns the left coordinate of row.
func (t EdgeTable) Left(row EdgeID) (Position, bool) {
	e := t.raw()
	i, ok := rowIndex(row, e.NumRows())
	if !ok {
		return 0, false
	}
	return Position(e.Left[i]), true
}

// Right returns the right coordinate of row.
func (t EdgeTable) Right(row EdgeID) (Position, bool) {
	e := t.raw()
	i, ok := rowIndex(row, e.NumRows())
	if !ok {
		return 0, false
	}
	return Position(e.Right[i]), true
}

// Parent returns the parent node of row.
func (t EdgeTable) Parent(row EdgeID) (NodeID, bool) {
	e := t.raw()
	i, ok := rowIndex(row, e.NumRows())
	if !ok {
		return Null, false
	}
	return NodeID(e.Parent[i]), true
}

// Child returns the child node of row.
func (t EdgeTable) Child(row EdgeID) (NodeID, bool) {
	e := t.raw()
	i, ok := rowIndex(row, e.NumRows())
	if !ok {
		return Null, false
	}
	return NodeID(e.Child[i]), true
}

// RawMetadata returns the metadata bytes of row, borrowed from the table.
func (t EdgeTable) RawMetadata(row EdgeID) ([]byte, bool) {
	e := t.raw()
	i, ok := rowIndex(row, e.NumRows())
	if !ok {
		return nil, false
	}
	return tsk.Ragged(e.Metadata, e.MetadataOffset, i), true
}

func (t EdgeTable) LeftSlice() []Position  { return typedFloats[Position](t.raw().Left) }
func (t EdgeTable) RightSlice() []Position { return typedFloats[Position](t.raw().Right) }
func (t EdgeTable) ParentSlice() []NodeID  { return IDsFromRaw[NodeID](t.raw().Parent) }
func (t EdgeTable) ChildSlice() []NodeID   { return IDsFromRaw[NodeID](t.raw().Child) }

func fillEdgeView(tc *tsk.TableCollection, i int, v *EdgeRowView) {
	e := &tc.Edges
	*v = EdgeRowView{
		ID:       EdgeID(i),
		Left:     Position(e.Left[i]),
		Right:    Position(e.Right[i]),
		Parent:   NodeID(e.Parent[i]),
		Child:    NodeID(e.Child[i]),
		Metadata: tsk.Ragged(e.Metadata, e.MetadataOffset, i),
	}
}

// RowView returns a borrowed view of row.
func (t EdgeTable) RowView(row EdgeID) (EdgeRowView, bool) {
	tc := t.src.tables()
	i, ok := rowIndex(row, tc.Edges.NumRows())
	if !ok {
		return EdgeRowView{}, false
	}
	var v EdgeRowView
	fillEdgeView(tc, i, &v)
	return v, true
}

// Row returns an owned copy of row.
func (t EdgeTable) Row(row EdgeID) (EdgeRow, bool) {
	v, ok := t.RowView(row)
	if !ok {
		return EdgeRow{}, false
	}
	r := EdgeRow(v)
	r.Metadata = slices.Clone(v.Metadata)
	return r, true
}

// Iter yields an owned copy of every row.
func (t EdgeTable) Iter() iter.Seq[EdgeRow] {
	return func(yield func(EdgeRow) bool) {
		for i := range t.NumRows() {
			r, _ := t.Row(EdgeID(i))
			if !yield(r) {
				return
			}
		}
	}
}

// Lending returns a lending iterator over the rows.
func (t EdgeTable) Lending() *Lending[EdgeRowView] {
	return newLending(t.src, t.NumRows(), fillEdgeView)
}
