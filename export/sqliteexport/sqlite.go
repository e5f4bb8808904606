// Package sqliteexport copies tables into a SQLite database, one dataset
// per export, so they can be inspected with SQL.
package sqliteexport

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/hupe1980/tskit"
	"github.com/hupe1980/tskit/codec"
)

//go:embed schema.sql
var schemaSQL string

//go:embed pragmas.sql
var pragmasSQL string

var (
	ErrDatasetNotFound = errors.New("sqliteexport: dataset not found")
	ErrDatasetExists   = errors.New("sqliteexport: dataset already exists")
	ErrUnknownTable    = errors.New("sqliteexport: unknown table")
)

var tableNames = map[string]bool{
	"nodes": true, "edges": true, "sites": true, "mutations": true,
	"populations": true, "individuals": true, "migrations": true, "provenances": true,
}

// DB is an export database.
type DB struct {
	conn  *sql.DB
	codec codec.Codec
}

// Option configures Open.
type Option func(*DB)

// WithCodec sets the codec used for ragged individual columns. The default
// is codec.Default.
func WithCodec(c codec.Codec) Option {
	return func(db *DB) {
		if c != nil {
			db.codec = c
		}
	}
}

// Open opens or creates the database at path.
func Open(path string, opts ...Option) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite: %w", err)
	}
	// Pragmas are per connection.
	conn.SetMaxOpenConns(1)

	db := &DB{conn: conn, codec: codec.Default}
	for _, opt := range opts {
		opt(db)
	}

	for _, pragma := range strings.Split(pragmasSQL, "\n") {
		pragma = strings.TrimSpace(pragma)
		if pragma == "" || strings.HasPrefix(pragma, "--") {
			continue
		}
		if _, err := conn.Exec(pragma); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("applying pragma %q: %w", pragma, err)
		}
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}
	return db, nil
}

// Close closes the database.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Dataset describes one export.
type Dataset struct {
	ID             int64
	Name           string
	SequenceLength tskit.Position
	TimeUnits      string
	FileUUID       string
	CreatedAt      time.Time
}

// Export writes every table under a new dataset called name and returns its
// id. With replace an existing dataset of that name is dropped first;
// otherwise ErrDatasetExists is returned.
func (db *DB) Export(ctx context.Context, name string, tables tskit.TableReader, replace bool) (int64, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	var existing int64
	err = tx.QueryRowContext(ctx, `SELECT id FROM datasets WHERE name = ?`, name).Scan(&existing)
	switch {
	case err == nil && !replace:
		return 0, fmt.Errorf("%w: %s", ErrDatasetExists, name)
	case err == nil:
		if _, err := tx.ExecContext(ctx, `DELETE FROM datasets WHERE id = ?`, existing); err != nil {
			return 0, fmt.Errorf("dropping dataset %s: %w", name, err)
		}
	case !errors.Is(err, sql.ErrNoRows):
		return 0, err
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO datasets (name, sequence_length, time_units, file_uuid, metadata, metadata_schema, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		name, float64(tables.SequenceLength()), tables.TimeUnits(), tables.FileUUID(),
		tables.Metadata(), tables.MetadataSchema(), time.Now().UnixMilli(),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting dataset: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	w := &writer{ctx: ctx, tx: tx, dataset: id, codec: db.codec}
	w.nodes(tables.Nodes())
	w.edges(tables.Edges())
	w.sites(tables.Sites())
	w.mutations(tables.Mutations())
	w.populations(tables.Populations())
	w.individuals(tables.Individuals())
	w.migrations(tables.Migrations())
	w.provenances(tables.Provenances())
	if w.err != nil {
		return 0, w.err
	}
	return id, tx.Commit()
}

// Dataset looks a dataset up by name.
func (db *DB) Dataset(ctx context.Context, name string) (Dataset, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT id, name, sequence_length, time_units, file_uuid, created_at FROM datasets WHERE name = ?`, name)
	d, err := scanDataset(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Dataset{}, fmt.Errorf("%w: %s", ErrDatasetNotFound, name)
	}
	return d, err
}

// Datasets lists every dataset ordered by id.
func (db *DB) Datasets(ctx context.Context) ([]Dataset, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, name, sequence_length, time_units, file_uuid, created_at FROM datasets ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Dataset
	for rows.Next() {
		d, err := scanDataset(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDataset(s scanner) (Dataset, error) {
	var (
		d       Dataset
		length  float64
		created int64
	)
	if err := s.Scan(&d.ID, &d.Name, &length, &d.TimeUnits, &d.FileUUID, &created); err != nil {
		return Dataset{}, err
	}
	d.SequenceLength = tskit.Position(length)
	d.CreatedAt = time.UnixMilli(created)
	return d, nil
}

// Delete drops a dataset and its rows.
func (db *DB) Delete(ctx context.Context, name string) error {
	res, err := db.conn.ExecContext(ctx, `DELETE FROM datasets WHERE name = ?`, name)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrDatasetNotFound, name)
	}
	return nil
}

// RowCount counts the rows a dataset holds in table.
func (db *DB) RowCount(ctx context.Context, dataset int64, table string) (int, error) {
	if !tableNames[table] {
		return 0, fmt.Errorf("%w: %s", ErrUnknownTable, table)
	}
	var n int
	err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+table+` WHERE dataset_id = ?`, dataset).Scan(&n)
	return n, err
}

// Children returns the children of parent in the tree covering position,
// ordered by id.
func (db *DB) Children(ctx context.Context, dataset int64, parent tskit.NodeID, position tskit.Position) ([]tskit.NodeID, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT child FROM edges
		 WHERE dataset_id = ? AND parent = ? AND span_left <= ? AND ? < span_right
		 ORDER BY child`,
		dataset, int32(parent), float64(position), float64(position))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []tskit.NodeID
	for rows.Next() {
		var c int32
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		out = append(out, tskit.NodeID(c))
	}
	return out, rows.Err()
}
