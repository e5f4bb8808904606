package sqliteexport

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/tskit"
	"github.com/hupe1980/tskit/testutil"
)

func openDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "export.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestExport(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)

	tables := testutil.TwoTrees(t)
	require.NoError(t, tables.SetTimeUnits("generations"))
	_, err := tables.AddIndividual(0, []tskit.Location{0.5, 1.5}, nil)
	require.NoError(t, err)
	_, err = tables.AddProvenance(`{"software":"test"}`)
	require.NoError(t, err)

	id, err := db.Export(ctx, "two", tables, false)
	require.NoError(t, err)

	t.Run("row counts", func(t *testing.T) {
		want := map[string]int{
			"nodes":       tables.Nodes().NumRows(),
			"edges":       tables.Edges().NumRows(),
			"sites":       2,
			"mutations":   2,
			"populations": 0,
			"individuals": 1,
			"migrations":  0,
			"provenances": 1,
		}
		for table, n := range want {
			got, err := db.RowCount(ctx, id, table)
			require.NoError(t, err)
			assert.Equal(t, n, got, table)
		}

		_, err := db.RowCount(ctx, id, "datasets; DROP TABLE nodes")
		assert.ErrorIs(t, err, ErrUnknownTable)
	})

	t.Run("dataset", func(t *testing.T) {
		d, err := db.Dataset(ctx, "two")
		require.NoError(t, err)
		assert.Equal(t, id, d.ID)
		assert.Equal(t, tskit.Position(10), d.SequenceLength)
		assert.Equal(t, "generations", d.TimeUnits)
		assert.False(t, d.CreatedAt.IsZero())

		_, err = db.Dataset(ctx, "absent")
		assert.ErrorIs(t, err, ErrDatasetNotFound)
	})

	t.Run("children", func(t *testing.T) {
		left, err := db.Children(ctx, id, 4, 2.5)
		require.NoError(t, err)
		assert.Equal(t, []tskit.NodeID{2, 3}, left)

		right, err := db.Children(ctx, id, 4, 7.5)
		require.NoError(t, err)
		assert.Empty(t, right)

		right, err = db.Children(ctx, id, 5, 7.5)
		require.NoError(t, err)
		assert.Equal(t, []tskit.NodeID{2, 3}, right)
	})

	t.Run("nullable columns", func(t *testing.T) {
		var nulls int
		err := db.conn.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM mutations WHERE dataset_id = ? AND parent IS NULL AND time IS NULL`, id).Scan(&nulls)
		require.NoError(t, err)
		assert.Equal(t, 2, nulls)

		var location, parents string
		err = db.conn.QueryRowContext(ctx,
			`SELECT location, parents FROM individuals WHERE dataset_id = ?`, id).Scan(&location, &parents)
		require.NoError(t, err)
		assert.JSONEq(t, `[0.5, 1.5]`, location)
		assert.JSONEq(t, `[]`, parents)
	})
}

func TestExportReplace(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)

	first, err := db.Export(ctx, "wf", testutil.TwoTrees(t), false)
	require.NoError(t, err)

	_, err = db.Export(ctx, "wf", testutil.TwoTrees(t), false)
	assert.ErrorIs(t, err, ErrDatasetExists)

	wf := testutil.WrightFisher(t, testutil.NewRNG(3), testutil.DefaultWFConfig())
	second, err := db.Export(ctx, "wf", wf, true)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	n, err := db.RowCount(ctx, first, "nodes")
	require.NoError(t, err)
	assert.Zero(t, n)
	n, err = db.RowCount(ctx, second, "edges")
	require.NoError(t, err)
	assert.Equal(t, wf.Edges().NumRows(), n)

	_, err = db.Export(ctx, "other", testutil.TwoTrees(t), false)
	require.NoError(t, err)
	datasets, err := db.Datasets(ctx)
	require.NoError(t, err)
	require.Len(t, datasets, 2)
	assert.Equal(t, "wf", datasets[0].Name)
	assert.Equal(t, "other", datasets[1].Name)

	require.NoError(t, db.Delete(ctx, "other"))
	assert.ErrorIs(t, db.Delete(ctx, "other"), ErrDatasetNotFound)
}
