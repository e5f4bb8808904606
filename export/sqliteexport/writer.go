package sqliteexport

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hupe1980/tskit"
	"github.com/hupe1980/tskit/codec"
)

// writer inserts the rows of one dataset. The first failure sticks and
// turns later calls into no-ops.
type writer struct {
	ctx     context.Context
	tx      *sql.Tx
	dataset int64
	codec   codec.Codec
	err     error
}

func nullID[T tskit.RowID](v T) any {
	if v == tskit.Null {
		return nil
	}
	return int32(v)
}

// insert prepares query and calls row until it reports false.
func (w *writer) insert(table, query string, row func(stmt *sql.Stmt) (bool, error)) {
	if w.err != nil {
		return
	}
	stmt, err := w.tx.PrepareContext(w.ctx, query)
	if err != nil {
		w.err = fmt.Errorf("preparing %s insert: %w", table, err)
		return
	}
	defer stmt.Close()
	for {
		more, err := row(stmt)
		if err != nil {
			w.err = fmt.Errorf("inserting %s: %w", table, err)
			return
		}
		if !more {
			return
		}
	}
}

func (w *writer) nodes(t tskit.NodeTable) {
	it := t.Lending()
	w.insert("nodes", `INSERT INTO nodes VALUES (?, ?, ?, ?, ?, ?, ?)`, func(stmt *sql.Stmt) (bool, error) {
		if !it.Advance() {
			return false, nil
		}
		v := it.Get()
		_, err := stmt.ExecContext(w.ctx, w.dataset, int32(v.ID), uint32(v.Flags), float64(v.Time),
			nullID(v.Population), nullID(v.Individual), v.Metadata)
		return true, err
	})
}

func (w *writer) edges(t tskit.EdgeTable) {
	it := t.Lending()
	w.insert("edges", `INSERT INTO edges VALUES (?, ?, ?, ?, ?, ?, ?)`, func(stmt *sql.Stmt) (bool, error) {
		if !it.Advance() {
			return false, nil
		}
		v := it.Get()
		_, err := stmt.ExecContext(w.ctx, w.dataset, int32(v.ID), float64(v.Left), float64(v.Right),
			int32(v.Parent), int32(v.Child), v.Metadata)
		return true, err
	})
}

func (w *writer) sites(t tskit.SiteTable) {
	it := t.Lending()
	w.insert("sites", `INSERT INTO sites VALUES (?, ?, ?, ?, ?)`, func(stmt *sql.Stmt) (bool, error) {
		if !it.Advance() {
			return false, nil
		}
		v := it.Get()
		_, err := stmt.ExecContext(w.ctx, w.dataset, int32(v.ID), float64(v.Position), v.AncestralState, v.Metadata)
		return true, err
	})
}

func (w *writer) mutations(t tskit.MutationTable) {
	it := t.Lending()
	w.insert("mutations", `INSERT INTO mutations VALUES (?, ?, ?, ?, ?, ?, ?, ?)`, func(stmt *sql.Stmt) (bool, error) {
		if !it.Advance() {
			return false, nil
		}
		v := it.Get()
		var tm any
		if !v.Time.IsUnknown() {
			tm = float64(v.Time)
		}
		_, err := stmt.ExecContext(w.ctx, w.dataset, int32(v.ID), int32(v.Site), int32(v.Node),
			nullID(v.Parent), tm, v.DerivedState, v.Metadata)
		return true, err
	})
}

func (w *writer) populations(t tskit.PopulationTable) {
	it := t.Lending()
	w.insert("populations", `INSERT INTO populations VALUES (?, ?, ?)`, func(stmt *sql.Stmt) (bool, error) {
		if !it.Advance() {
			return false, nil
		}
		v := it.Get()
		_, err := stmt.ExecContext(w.ctx, w.dataset, int32(v.ID), v.Metadata)
		return true, err
	})
}

func (w *writer) individuals(t tskit.IndividualTable) {
	it := t.Lending()
	w.insert("individuals", `INSERT INTO individuals VALUES (?, ?, ?, ?, ?, ?)`, func(stmt *sql.Stmt) (bool, error) {
		if !it.Advance() {
			return false, nil
		}
		v := it.Get()
		location, err := w.codec.Marshal(nonNil(v.Location))
		if err != nil {
			return false, err
		}
		parents, err := w.codec.Marshal(nonNil(v.Parents))
		if err != nil {
			return false, err
		}
		_, err = stmt.ExecContext(w.ctx, w.dataset, int32(v.ID), uint32(v.Flags), string(location), string(parents), v.Metadata)
		return true, err
	})
}

func (w *writer) migrations(t tskit.MigrationTable) {
	it := t.Lending()
	w.insert("migrations", `INSERT INTO migrations VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`, func(stmt *sql.Stmt) (bool, error) {
		if !it.Advance() {
			return false, nil
		}
		v := it.Get()
		_, err := stmt.ExecContext(w.ctx, w.dataset, int32(v.ID), float64(v.Left), float64(v.Right),
			int32(v.Node), int32(v.Source), int32(v.Dest), float64(v.Time), v.Metadata)
		return true, err
	})
}

func (w *writer) provenances(t tskit.ProvenanceTable) {
	it := t.Lending()
	w.insert("provenances", `INSERT INTO provenances VALUES (?, ?, ?, ?)`, func(stmt *sql.Stmt) (bool, error) {
		if !it.Advance() {
			return false, nil
		}
		v := it.Get()
		_, err := stmt.ExecContext(w.ctx, w.dataset, int32(v.ID), string(v.Timestamp), string(v.Record))
		return true, err
	})
}

// nonNil makes empty ragged rows encode as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
