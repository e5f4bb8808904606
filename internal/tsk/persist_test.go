package tsk

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/tskit/persistence"
)

func TestDumpLoad(t *testing.T) {
	for _, compression := range []uint32{DumpCompressNone, DumpCompressZstd, DumpCompressLZ4} {
		t.Run(persistence.Compression(compression).String(), func(t *testing.T) {
			tc := twoTrees(t)
			tc.TimeUnits = "generations"
			tc.Metadata = []byte(`{"name":"test"}`)
			tc.MetadataSchema = `{"codec":"json"}`
			tc.Nodes.MetadataSchema = `{"codec":"json"}`
			require.GreaterOrEqual(t, tc.Populations.AddRow([]byte("pop")), int32(0))
			require.GreaterOrEqual(t, tc.Individuals.AddRow(1, []float64{0.5, 1.5}, []int32{Null}, nil), int32(0))
			require.GreaterOrEqual(t, tc.Provenances.AddRow([]byte("2024-01-01T00:00:00Z"), []byte(`{"software":"test"}`)), int32(0))

			var buf bytes.Buffer
			require.Equal(t, int32(0), TableCollectionDump(tc, &buf, compression))

			loaded := &TableCollection{}
			TableCollectionInit(loaded, 0)
			defer TableCollectionFree(loaded)
			require.Equal(t, int32(0), TableCollectionLoad(loaded, &buf, 0))

			assert.True(t, TableCollectionEquals(tc, loaded, 0))
			assert.True(t, TableCollectionHasIndex(loaded))
			assert.Equal(t, tc.Indexes.EdgeInsertionOrder, loaded.Indexes.EdgeInsertionOrder)
			assert.Equal(t, "generations", loaded.TimeUnits)
			assert.Equal(t, `{"codec":"json"}`, loaded.Nodes.MetadataSchema)
			assert.NotEmpty(t, loaded.FileUUID)
		})
	}
}

func TestDumpBuildsIndex(t *testing.T) {
	tc := twoTrees(t)
	TableCollectionDropIndex(tc)

	var buf bytes.Buffer
	require.Equal(t, int32(0), TableCollectionDump(tc, &buf, DumpNoBuildIndexes))
	assert.False(t, TableCollectionHasIndex(tc))

	buf.Reset()
	require.Equal(t, int32(0), TableCollectionDump(tc, &buf, 0))
	assert.True(t, TableCollectionHasIndex(tc))
}

func TestLoadErrors(t *testing.T) {
	container := func(t *testing.T, build func(w *persistence.Writer)) *bytes.Buffer {
		t.Helper()
		w := persistence.NewWriter()
		build(w)
		var buf bytes.Buffer
		_, err := w.WriteTo(&buf, persistence.WriteOptions{})
		require.NoError(t, err)
		return &buf
	}
	load := func(r *bytes.Buffer) int32 {
		tc := &TableCollection{}
		TableCollectionInit(tc, 0)
		defer TableCollectionFree(tc)
		return TableCollectionLoad(tc, r, 0)
	}

	t.Run("wrong format name", func(t *testing.T) {
		buf := container(t, func(w *persistence.Writer) {
			w.PutText("format/name", []byte("other"))
		})
		assert.Equal(t, ErrFileFormat, load(buf))
	})

	t.Run("version too new", func(t *testing.T) {
		buf := container(t, func(w *persistence.Writer) {
			w.PutText("format/name", []byte(formatName))
			w.PutUint32s("format/version", []uint32{formatVersionMajor + 1, 0})
		})
		assert.Equal(t, ErrFileVersionTooNew, load(buf))
	})

	t.Run("version too old", func(t *testing.T) {
		buf := container(t, func(w *persistence.Writer) {
			w.PutText("format/name", []byte(formatName))
			w.PutUint32s("format/version", []uint32{formatVersionMajor - 1, 0})
		})
		assert.Equal(t, ErrFileVersionTooOld, load(buf))
	})

	t.Run("missing column", func(t *testing.T) {
		buf := container(t, func(w *persistence.Writer) {
			w.PutText("format/name", []byte(formatName))
			w.PutUint32s("format/version", []uint32{formatVersionMajor, formatVersionMinor})
		})
		assert.Equal(t, ErrRequiredColNotFound, load(buf))
	})

	t.Run("bad column type", func(t *testing.T) {
		buf := container(t, func(w *persistence.Writer) {
			w.PutText("format/name", []byte(formatName))
			w.PutInt32s("format/version", []int32{formatVersionMajor, formatVersionMinor})
		})
		assert.Equal(t, ErrBadColumnType, load(buf))
	})

	t.Run("checksum mismatch", func(t *testing.T) {
		var buf bytes.Buffer
		require.Equal(t, int32(0), TableCollectionDump(twoTrees(t), &buf, DumpCompressNone))
		data := buf.Bytes()
		data[persistence.HeaderSize+3] ^= 0xff
		assert.Equal(t, ErrChecksumMismatch, load(bytes.NewBuffer(data)))
	})

	t.Run("garbage", func(t *testing.T) {
		assert.Equal(t, ErrFileFormat, load(bytes.NewBuffer(make([]byte, 128))))
		assert.Equal(t, ErrFileFormat, load(bytes.NewBufferString("short")))
	})
}

func TestLoadBudget(t *testing.T) {
	var buf bytes.Buffer
	require.Equal(t, int32(0), TableCollectionDump(twoTrees(t), &buf, DumpCompressZstd))

	budget := &fakeBudget{limit: 16}
	tc := &TableCollection{}
	TableCollectionInit(tc, 0)
	TableCollectionSetBudget(tc, budget)
	defer TableCollectionFree(tc)

	assert.Equal(t, ErrNoMemory, TableCollectionLoad(tc, &buf, 0))
	assert.Equal(t, 0, tc.Nodes.NumRows())
	assert.Zero(t, budget.used)
	assert.Equal(t, ErrNoMemory, tc.Nodes.AddRow(0, 0, Null, Null, make([]byte, 64)))
}
