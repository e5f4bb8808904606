package persistence

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleWriter() *Writer {
	w := NewWriter()
	w.PutText("format/name", []byte("test"))
	w.PutBytes("metadata", []byte{0, 1, 2, 255})
	w.PutInt32s("edges/parent", []int32{-1, 0, 7, 1 << 30})
	w.PutUint32s("nodes/flags", []uint32{1, 0, 1})
	w.PutUint64s("nodes/metadata_offset", []uint64{0, 3, 3, 9})
	w.PutFloat64s("nodes/time", []float64{0, 0.5, 1e9})
	w.PutFloat64s("empty", nil)
	return w
}

func TestContainerRoundTrip(t *testing.T) {
	for _, c := range []Compression{CompressionNone, CompressionZstd, CompressionLZ4} {
		t.Run(c.String(), func(t *testing.T) {
			w := sampleWriter()
			assert.Equal(t, 7, w.Len())

			id := uuid.New()
			var buf bytes.Buffer
			got, err := w.WriteTo(&buf, WriteOptions{Compression: c, UUID: id})
			require.NoError(t, err)
			assert.Equal(t, id, got)

			f, err := Read(bytes.NewReader(buf.Bytes()))
			require.NoError(t, err)
			assert.Equal(t, id, f.UUID())
			assert.Equal(t, 7, f.Len())
			assert.True(t, f.Has("nodes/time"))
			assert.False(t, f.Has("nodes/missing"))

			name, err := f.Bytes("format/name")
			require.NoError(t, err)
			assert.Equal(t, "test", string(name))

			md, err := f.Bytes("metadata")
			require.NoError(t, err)
			assert.Equal(t, []byte{0, 1, 2, 255}, md)

			parents, err := f.Int32s("edges/parent")
			require.NoError(t, err)
			assert.Equal(t, []int32{-1, 0, 7, 1 << 30}, parents)

			flags, err := f.Uint32s("nodes/flags")
			require.NoError(t, err)
			assert.Equal(t, []uint32{1, 0, 1}, flags)

			offsets, err := f.Uint64s("nodes/metadata_offset")
			require.NoError(t, err)
			assert.Equal(t, []uint64{0, 3, 3, 9}, offsets)

			times, err := f.Float64s("nodes/time")
			require.NoError(t, err)
			assert.Equal(t, []float64{0, 0.5, 1e9}, times)

			empty, err := f.Float64s("empty")
			require.NoError(t, err)
			assert.Empty(t, empty)

			decoded, err := Decode(buf.Bytes())
			require.NoError(t, err)
			assert.Equal(t, f.Digest, decoded.Digest)
			assert.Equal(t, f.Header, decoded.Header)
		})
	}
}

func TestContainerCompressionFallback(t *testing.T) {
	w := NewWriter()
	w.PutBytes("noise", []byte{0x9e, 0x1f, 0x33})

	var buf bytes.Buffer
	_, err := w.WriteTo(&buf, WriteOptions{Compression: CompressionZstd})
	require.NoError(t, err)

	header, err := ReadHeader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, uint8(CompressionNone), header.Compression)
	assert.Equal(t, header.RawSize, header.PayloadSize)
}

func TestContainerRandomUUID(t *testing.T) {
	var a, b bytes.Buffer
	idA, err := sampleWriter().WriteTo(&a, WriteOptions{})
	require.NoError(t, err)
	idB, err := sampleWriter().WriteTo(&b, WriteOptions{})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, idA)
	assert.NotEqual(t, idA, idB)
}

func TestContainerErrors(t *testing.T) {
	encode := func(t *testing.T) []byte {
		var buf bytes.Buffer
		_, err := sampleWriter().WriteTo(&buf, WriteOptions{})
		require.NoError(t, err)
		return buf.Bytes()
	}

	t.Run("duplicate key", func(t *testing.T) {
		w := NewWriter()
		w.PutText("a", nil)
		w.PutInt32s("a", nil)
		_, err := w.WriteTo(io.Discard, WriteOptions{})
		assert.ErrorIs(t, err, ErrDuplicateKey)
	})

	t.Run("empty key", func(t *testing.T) {
		w := NewWriter()
		w.PutText("", nil)
		_, err := w.WriteTo(io.Discard, WriteOptions{})
		assert.ErrorIs(t, err, ErrCorrupt)
	})

	t.Run("missing column", func(t *testing.T) {
		f, err := Decode(encode(t))
		require.NoError(t, err)
		_, err = f.Int32s("nope")
		assert.ErrorIs(t, err, ErrMissingColumn)
	})

	t.Run("bad column type", func(t *testing.T) {
		f, err := Decode(encode(t))
		require.NoError(t, err)
		_, err = f.Uint32s("edges/parent")
		assert.ErrorIs(t, err, ErrBadColumnType)
		_, err = f.Bytes("nodes/time")
		assert.ErrorIs(t, err, ErrBadColumnType)
	})

	t.Run("checksum mismatch", func(t *testing.T) {
		data := encode(t)
		data[HeaderSize] ^= 0x01

		_, err := Read(bytes.NewReader(data))
		assert.True(t, IsChecksumMismatch(err))
		var mismatch *ChecksumMismatchError
		require.True(t, errors.As(err, &mismatch))
		assert.NotEqual(t, mismatch.Expected, mismatch.Actual)

		_, err = Decode(data)
		assert.ErrorIs(t, err, ErrChecksumMismatch)
	})

	t.Run("invalid magic", func(t *testing.T) {
		data := encode(t)
		data[0] ^= 0xff
		_, err := Read(bytes.NewReader(data))
		assert.ErrorIs(t, err, ErrInvalidMagic)
	})

	t.Run("version too new", func(t *testing.T) {
		data := encode(t)
		data[7]++
		_, err := Read(bytes.NewReader(data))
		assert.ErrorIs(t, err, ErrVersionTooNew)
	})

	t.Run("truncated", func(t *testing.T) {
		data := encode(t)
		_, err := Read(bytes.NewReader(data[:HeaderSize-1]))
		assert.ErrorIs(t, err, ErrCorrupt)
		_, err = Read(bytes.NewReader(data[:len(data)-DigestSize]))
		assert.ErrorIs(t, err, ErrCorrupt)
		_, err = Decode(data[:len(data)-1])
		assert.ErrorIs(t, err, ErrCorrupt)
	})
}

func TestParseCompression(t *testing.T) {
	for _, c := range []Compression{CompressionNone, CompressionZstd, CompressionLZ4} {
		got, err := ParseCompression(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}
	_, err := ParseCompression("brotli")
	assert.ErrorIs(t, err, ErrUnknownCompression)
}

func TestSaveLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.trees")

	err := SaveToFile(path, func(w io.Writer) error {
		_, err := sampleWriter().WriteTo(w, WriteOptions{Compression: CompressionZstd})
		return err
	})
	require.NoError(t, err)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file left behind")

	t.Run("stream", func(t *testing.T) {
		var times []float64
		err := LoadFromFile(path, func(r io.Reader) error {
			f, err := Read(r)
			if err != nil {
				return err
			}
			times, err = f.Float64s("nodes/time")
			return err
		})
		require.NoError(t, err)
		assert.Equal(t, []float64{0, 0.5, 1e9}, times)
	})

	t.Run("mapped", func(t *testing.T) {
		var flags []uint32
		err := OpenFile(path, func(f *File) error {
			var err error
			flags, err = f.Uint32s("nodes/flags")
			return err
		})
		require.NoError(t, err)
		assert.Equal(t, []uint32{1, 0, 1}, flags)
	})

	t.Run("missing file", func(t *testing.T) {
		err := OpenFile(filepath.Join(t.TempDir(), "absent.trees"), func(*File) error { return nil })
		assert.Error(t, err)
	})
}

func TestComputeDigest(t *testing.T) {
	a := ComputeDigest([]byte("abc"))
	assert.Equal(t, a, ComputeDigest([]byte("abc")))
	assert.NotEqual(t, a, ComputeDigest([]byte("abd")))
	assert.Len(t, a.String(), 2*DigestSize)

	var buf bytes.Buffer
	cw := NewChecksumWriter(&buf)
	_, err := cw.Write([]byte("abc"))
	require.NoError(t, err)
	assert.Equal(t, a, cw.Sum())
	assert.Equal(t, "abc", buf.String())
}
