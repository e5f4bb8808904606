package tskit_test

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/tskit"
	"github.com/hupe1980/tskit/blobstore"
	"github.com/hupe1980/tskit/persistence"
	"github.com/hupe1980/tskit/resource"
	"github.com/hupe1980/tskit/testutil"
)

func withMetadata(t *testing.T, tables *tskit.TableCollection) *tskit.TableCollection {
	t.Helper()
	require.NoError(t, tables.SetTimeUnits("generations"))
	require.NoError(t, tables.SetMetadata([]byte(`{"name":"fixture"}`)))
	require.NoError(t, tables.SetTableMetadataSchema(tskit.NodeTableKind, `{"codec":"json"}`))
	_, err := tables.AddProvenance(`{"software":"test"}`)
	require.NoError(t, err)
	return tables
}

func TestDumpLoadFile(t *testing.T) {
	for _, c := range []persistence.Compression{persistence.CompressionNone, persistence.CompressionZstd, persistence.CompressionLZ4} {
		t.Run(c.String(), func(t *testing.T) {
			tables := withMetadata(t, testutil.TwoTrees(t))
			path := filepath.Join(t.TempDir(), "two.trees")
			require.NoError(t, tables.Dump(path, tskit.DumpOptions{Compression: c}))

			loaded, err := tskit.LoadTableCollection(path)
			require.NoError(t, err)
			defer loaded.Close()

			assert.True(t, tables.Equals(loaded, 0))
			assert.True(t, loaded.IsIndexed())
			assert.Equal(t, "generations", loaded.TimeUnits())
			assert.Equal(t, `{"codec":"json"}`, loaded.TableMetadataSchema(tskit.NodeTableKind))
			assert.NotEmpty(t, loaded.FileUUID())
		})
	}
}

func TestDumpBuildsIndexes(t *testing.T) {
	tables := testutil.TwoTrees(t)
	require.NoError(t, tables.Sort(nil, 0))
	require.False(t, tables.IsIndexed())

	dir := t.TempDir()
	require.NoError(t, tables.Dump(filepath.Join(dir, "raw.trees"), tskit.DumpOptions{NoBuildIndexes: true}))
	assert.False(t, tables.IsIndexed())

	_, err := tskit.LoadTreeSequence(filepath.Join(dir, "raw.trees"), 0)
	assert.Error(t, err)

	ts, err := tskit.LoadTreeSequence(filepath.Join(dir, "raw.trees"), tskit.TreeSequenceBuildIndexes)
	require.NoError(t, err)
	defer ts.Close()
	assert.Equal(t, 2, ts.NumTrees())

	require.NoError(t, tables.Dump(filepath.Join(dir, "indexed.trees"), tskit.DumpOptions{}))
	assert.True(t, tables.IsIndexed())
}

func TestTreeSequenceDumpLoad(t *testing.T) {
	tables := testutil.WrightFisher(t, testutil.NewRNG(11), testutil.DefaultWFConfig())
	ts := treeSequence(t, tables)
	path := filepath.Join(t.TempDir(), "wf.trees")
	require.NoError(t, ts.Dump(path, tskit.DumpOptions{Compression: persistence.CompressionZstd}))

	loaded, err := tskit.LoadTreeSequence(path, 0)
	require.NoError(t, err)
	defer loaded.Close()

	assert.Equal(t, ts.NumTrees(), loaded.NumTrees())
	assert.Equal(t, ts.Breakpoints(), loaded.Breakpoints())
	assert.Equal(t, ts.SampleNodes(), loaded.SampleNodes())
	assert.Equal(t, ts.Edges().NumRows(), loaded.Edges().NumRows())
}

func TestDumpLoadBlobStore(t *testing.T) {
	ctx := context.Background()
	stores := map[string]blobstore.BlobStore{
		"memory": blobstore.NewMemoryStore(),
		"local":  blobstore.NewLocalStore(t.TempDir()),
	}
	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			tables := withMetadata(t, testutil.TwoTrees(t))
			require.NoError(t, tables.DumpTo(ctx, store, "chr1/two.trees", tskit.DumpOptions{Compression: persistence.CompressionLZ4}))

			names, err := store.List(ctx, "chr1/")
			require.NoError(t, err)
			assert.Equal(t, []string{"chr1/two.trees"}, names)

			loaded, err := tskit.LoadTableCollectionFrom(ctx, store, "chr1/two.trees")
			require.NoError(t, err)
			defer loaded.Close()
			assert.True(t, tables.Equals(loaded, 0))

			ts, err := tskit.LoadTreeSequenceFrom(ctx, store, "chr1/two.trees", 0)
			require.NoError(t, err)
			defer ts.Close()
			assert.Equal(t, 2, ts.NumTrees())

			require.NoError(t, ts.DumpTo(ctx, store, "copy.trees", tskit.DumpOptions{}))
			copied, err := tskit.LoadTableCollectionFrom(ctx, store, "copy.trees")
			require.NoError(t, err)
			defer copied.Close()
			assert.True(t, tables.Equals(copied, 0))

			_, err = tskit.LoadTableCollectionFrom(ctx, store, "absent.trees")
			assert.ErrorIs(t, err, tskit.ErrIO)
			assert.ErrorIs(t, err, blobstore.ErrNotFound)
		})
	}
}

func TestRateLimitedIO(t *testing.T) {
	rc := resource.NewController(resource.Config{IOLimitBytesPerSec: 1 << 20})
	mc := &tskit.BasicMetricsCollector{}
	tables := testutil.TwoTrees(t, tskit.WithResourceController(rc), tskit.WithMetricsCollector(mc))

	path := filepath.Join(t.TempDir(), "limited.trees")
	require.NoError(t, tables.Dump(path, tskit.DumpOptions{IORateLimit: 1 << 20}))

	loaded, err := tskit.LoadTableCollection(path, tskit.WithResourceController(rc), tskit.WithMetricsCollector(mc))
	require.NoError(t, err)
	defer loaded.Close()
	assert.True(t, tables.Equals(loaded, 0))

	info, err := os.Stat(path)
	require.NoError(t, err)
	stats := mc.GetStats()
	assert.Equal(t, int64(1), stats.DumpCount)
	assert.Equal(t, info.Size(), stats.DumpBytes)
	assert.Equal(t, int64(1), stats.LoadCount)
	assert.Equal(t, info.Size(), stats.LoadBytes)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		_, err := tskit.LoadTableCollection(filepath.Join(dir, "absent.trees"))
		require.Error(t, err)
		assert.ErrorIs(t, err, tskit.ErrIO)
		assert.ErrorIs(t, err, fs.ErrNotExist)
	})

	t.Run("corrupted file", func(t *testing.T) {
		path := filepath.Join(dir, "corrupt.trees")
		require.NoError(t, testutil.TwoTrees(t).Dump(path, tskit.DumpOptions{}))
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		data[persistence.HeaderSize+3] ^= 0xff
		require.NoError(t, os.WriteFile(path, data, 0o600))

		_, err = tskit.LoadTableCollection(path)
		assert.ErrorIs(t, err, tskit.ErrFileFormat)
		_, err = tskit.LoadTreeSequence(path, 0)
		assert.ErrorIs(t, err, tskit.ErrFileFormat)
	})

	t.Run("not a trees file", func(t *testing.T) {
		path := filepath.Join(dir, "garbage.trees")
		require.NoError(t, os.WriteFile(path, []byte("not a tree sequence"), 0o600))
		_, err := tskit.LoadTableCollection(path)
		assert.ErrorIs(t, err, tskit.ErrFileFormat)
	})

	t.Run("memory budget", func(t *testing.T) {
		path := filepath.Join(dir, "budget.trees")
		require.NoError(t, testutil.TwoTrees(t).Dump(path, tskit.DumpOptions{}))
		rc := resource.NewController(resource.Config{MemoryLimitBytes: 16})
		_, err := tskit.LoadTableCollection(path, tskit.WithResourceController(rc))
		assert.ErrorIs(t, err, tskit.ErrOutOfMemory)
		assert.Zero(t, rc.MemoryUsage())
	})

	t.Run("released handle", func(t *testing.T) {
		tables := testutil.TwoTrees(t)
		require.NoError(t, tables.Close())
		err := tables.Dump(filepath.Join(dir, "closed.trees"), tskit.DumpOptions{})
		assert.ErrorIs(t, err, tskit.ErrHandleReleased)
	})
}
