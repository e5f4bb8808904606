package tskit

import "github.com/hupe1980/tskit/internal/tsk"

const mutatedMessage = "tskit: tables mutated while a lending iterator was live"

// tableSource is the owner of the tables a view reads from.
type tableSource interface {
	tables() *tsk.TableCollection
	generation() uint64
}

func rowIndex[T RowID](id T, n int) (int, bool) {
	if id < 0 || int(id) >= n {
		return 0, false
	}
	return int(id), true
}

// Lending steps over the rows of a table, filling one reused view.
//
//	it := tables.Nodes().Lending()
//	for it.Advance() {
//	    v := it.Get()
//	    ...
//	}
//
// The view returned by Get is overwritten by the next Advance; copy what
// must outlive it. Get and Advance panic if the tables were modified after
// the iterator was created.
type Lending[V any] struct {
	src  tableSource
	gen  uint64
	n    int
	next int
	ok   bool
	view V
	fill func(tc *tsk.TableCollection, i int, v *V)
}

func newLending[V any](src tableSource, n int, fill func(*tsk.TableCollection, int, *V)) *Lending[V] {
	return &Lending[V]{src: src, gen: src.generation(), n: n, fill: fill}
}

func (l *Lending[V]) check() {
	if l.src.generation() != l.gen {
		panic(mutatedMessage)
	}
}

// Advance moves to the next row and reports whether there was one.
func (l *Lending[V]) Advance() bool {
	l.check()
	if l.next >= l.n {
		l.ok = false
		return false
	}
	l.fill(l.src.tables(), l.next, &l.view)
	l.next++
	l.ok = true
	return true
}

// Get returns the current view, or nil before the first and after the last
// Advance.
func (l *Lending[V]) Get() *V {
	l.check()
	if !l.ok {
		return nil
	}
	return &l.view
}

// Reset rewinds to before the first row.
func (l *Lending[V]) Reset() {
	l.check()
	l.next = 0
	l.ok = false
}
